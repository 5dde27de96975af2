package access

import (
	"context"
	"fmt"
	"sync"

	"github.com/gestio-app/gestio-backend-go/internal/domain/access"
	"github.com/gestio-app/gestio-backend-go/internal/domain/account"
	"github.com/gestio-app/gestio-backend-go/internal/domain/permission"
	"github.com/gestio-app/gestio-backend-go/internal/domain/role"
)

type AccessServiceImpl struct {
	account.AccountRepository
	role.RoleRepository
	permission.PermissionRepository

	mu      sync.RWMutex
	catalog permission.Catalog
}

func NewAccessService(accountRepository account.AccountRepository, roleRepository role.RoleRepository, permissionRepository permission.PermissionRepository) access.AccessService {
	return &AccessServiceImpl{
		AccountRepository:    accountRepository,
		RoleRepository:       roleRepository,
		PermissionRepository: permissionRepository,
	}
}

// CheckAccess implements access.AccessService. The chain is ordered:
// technician bypass first, then active membership, then role resolution,
// then the permission and category checks. The first failing rule
// decides the denial reason.
func (s *AccessServiceImpl) CheckAccess(ctx context.Context, check access.Check) (access.Decision, error) {
	acct, err := s.AccountRepository.GetByID(ctx, check.AccountID)
	if err != nil {
		return access.Decision{}, fmt.Errorf("failed to get account for access check: %w", err)
	}
	if !acct.IsActive {
		return access.Decision{}, account.ErrAccountInactive
	}

	if acct.IsTechnician() {
		roleID := ""
		if m, ok := acct.MembershipFor(check.CompanyID); ok {
			roleID = m.RoleID
		}
		return access.Allow(check.CompanyID, roleID, nil), nil
	}

	m, ok := acct.MembershipFor(check.CompanyID)
	if !ok || !m.IsActive {
		return access.Deny(access.DenyNotCompanyMember, check.RequiredCodes, nil), nil
	}
	if m.RoleID == "" {
		return access.Deny(access.DenyNoRoleAssigned, check.RequiredCodes, nil), nil
	}

	r, err := s.RoleRepository.GetByID(ctx, m.RoleID)
	if err == role.ErrRoleNotFound {
		// The membership points at a role that no longer resolves; treat
		// it the same as having none.
		return access.Deny(access.DenyNoRoleAssigned, check.RequiredCodes, nil), nil
	}
	if err != nil {
		return access.Decision{}, fmt.Errorf("failed to get role for access check: %w", err)
	}

	effective := role.EffectivePermissions(r)
	held := role.SortedCodes(effective)

	if len(check.RequiredCodes) > 0 {
		granted := false
		for _, code := range check.RequiredCodes {
			if _, ok := effective[code]; ok {
				granted = true
				break
			}
		}
		if !granted {
			return access.Deny(access.DenyInsufficientPermissions, check.RequiredCodes, held), nil
		}
	}

	if check.Category != nil {
		catalog, err := s.loadCatalog(ctx)
		if err != nil {
			return access.Decision{}, err
		}
		if !role.HasCategoryAccess(effective, catalog, *check.Category) {
			required := []string{
				fmt.Sprintf("VIEW_%s_CATEGORY", *check.Category),
				fmt.Sprintf("MANAGE_%s", *check.Category),
			}
			return access.Deny(access.DenyInsufficientPermissions, required, held), nil
		}
	}

	return access.Allow(check.CompanyID, m.RoleID, held), nil
}

// ResolveEffectivePermissions implements access.AccessService.
func (s *AccessServiceImpl) ResolveEffectivePermissions(ctx context.Context, roleID string) ([]string, error) {
	r, err := s.RoleRepository.GetByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	return role.SortedCodes(role.EffectivePermissions(r)), nil
}

// loadCatalog loads the permission catalog once and keeps it. Entries
// are only ever seeded, never removed, so a stale copy can only miss
// additions until restart.
func (s *AccessServiceImpl) loadCatalog(ctx context.Context) (permission.Catalog, error) {
	s.mu.RLock()
	catalog := s.catalog
	s.mu.RUnlock()
	if catalog != nil {
		return catalog, nil
	}

	perms, err := s.PermissionRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load permission catalog: %w", err)
	}

	s.mu.Lock()
	s.catalog = permission.NewCatalog(perms)
	catalog = s.catalog
	s.mu.Unlock()
	return catalog, nil
}
