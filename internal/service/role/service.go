package role

import (
	"context"
	"fmt"

	"github.com/gestio-app/gestio-backend-go/internal/domain/role"
)

type RoleServiceImpl struct {
	role.RoleRepository
}

func NewRoleService(roleRepository role.RoleRepository) role.RoleService {
	return &RoleServiceImpl{
		RoleRepository: roleRepository,
	}
}

// ListByCompany implements role.RoleService.
func (s *RoleServiceImpl) ListByCompany(ctx context.Context, companyID string) ([]role.Response, error) {
	roles, err := s.RoleRepository.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	responses := make([]role.Response, 0, len(roles))
	for _, r := range roles {
		responses = append(responses, role.ToResponse(r))
	}
	return responses, nil
}

// Get implements role.RoleService. Roles from another company read as
// not found rather than forbidden, so role ids cannot be probed.
func (s *RoleServiceImpl) Get(ctx context.Context, companyID, roleID string) (role.Response, error) {
	r, err := s.scoped(ctx, companyID, roleID)
	if err != nil {
		return role.Response{}, err
	}
	return role.ToResponse(r), nil
}

// Create implements role.RoleService.
func (s *RoleServiceImpl) Create(ctx context.Context, companyID string, req role.CreateRequest) (role.Response, error) {
	if err := req.Validate(); err != nil {
		return role.Response{}, err
	}

	contractType := role.ContractCDI
	if req.ContractType != "" {
		contractType = role.ContractType(req.ContractType)
	}

	created, err := s.RoleRepository.Create(ctx, role.Role{
		CompanyID:       companyID,
		Name:            req.Name,
		Description:     req.Description,
		BasePermissions: req.Permissions,
		Overrides:       req.Overrides,
		IsDefault:       req.IsDefault,
		SalaryNormPct:   req.SalaryNormPct,
		SalaryCap:       req.SalaryCap,
		ContractType:    contractType,
	})
	if err != nil {
		return role.Response{}, err
	}
	return role.ToResponse(created), nil
}

// Update implements role.RoleService.
func (s *RoleServiceImpl) Update(ctx context.Context, companyID, roleID string, req role.UpdateRequest) (role.Response, error) {
	if err := req.Validate(); err != nil {
		return role.Response{}, err
	}

	r, err := s.scoped(ctx, companyID, roleID)
	if err != nil {
		return role.Response{}, err
	}

	if req.Name != nil {
		r.Name = *req.Name
	}
	if req.Description != nil {
		r.Description = req.Description
	}
	if req.SalaryNormPct != nil {
		r.SalaryNormPct = *req.SalaryNormPct
	}
	if req.SalaryCap != nil {
		r.SalaryCap = req.SalaryCap
	}
	if req.ContractType != nil {
		r.ContractType = role.ContractType(*req.ContractType)
	}

	updated, err := s.RoleRepository.Update(ctx, r)
	if err != nil {
		return role.Response{}, err
	}
	return role.ToResponse(updated), nil
}

// UpdatePermissions implements role.RoleService. The base set and the
// override map are replaced wholesale; the effective set in the response
// already reflects the new state.
func (s *RoleServiceImpl) UpdatePermissions(ctx context.Context, companyID, roleID string, req role.UpdatePermissionsRequest) (role.Response, error) {
	if err := req.Validate(); err != nil {
		return role.Response{}, err
	}

	if _, err := s.scoped(ctx, companyID, roleID); err != nil {
		return role.Response{}, err
	}

	updated, err := s.RoleRepository.UpdatePermissions(ctx, roleID, req.Permissions, req.Overrides)
	if err != nil {
		return role.Response{}, err
	}
	return role.ToResponse(updated), nil
}

// Delete implements role.RoleService.
func (s *RoleServiceImpl) Delete(ctx context.Context, companyID, roleID string) error {
	r, err := s.scoped(ctx, companyID, roleID)
	if err != nil {
		return err
	}
	if r.IsDefault {
		return role.ErrDefaultRoleDeletion
	}

	count, err := s.RoleRepository.CountAssignments(ctx, roleID)
	if err != nil {
		return fmt.Errorf("failed to count role assignments: %w", err)
	}
	if count > 0 {
		return role.ErrRoleStillReferenced
	}

	return s.RoleRepository.Delete(ctx, roleID)
}

func (s *RoleServiceImpl) scoped(ctx context.Context, companyID, roleID string) (role.Role, error) {
	r, err := s.RoleRepository.GetByID(ctx, roleID)
	if err != nil {
		return role.Role{}, err
	}
	if r.CompanyID != companyID {
		return role.Role{}, role.ErrRoleNotFound
	}
	return r, nil
}
