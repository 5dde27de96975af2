package access

import (
	"context"
	"testing"

	"github.com/gestio-app/gestio-backend-go/internal/domain/access"
	"github.com/gestio-app/gestio-backend-go/internal/domain/account"
	"github.com/gestio-app/gestio-backend-go/internal/domain/permission"
	"github.com/gestio-app/gestio-backend-go/internal/domain/role"
	"github.com/gestio-app/gestio-backend-go/internal/fixtures"
	"github.com/gestio-app/gestio-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type accessFixture struct {
	accounts *memory.AccountRepository
	roles    *memory.RoleRepository
	service  access.AccessService
}

func newAccessFixture(t *testing.T) *accessFixture {
	t.Helper()
	accounts := memory.NewAccountRepository()
	roles := memory.NewRoleRepository()
	perms := memory.NewPermissionRepository()
	_, err := perms.SeedMissing(context.Background(), fixtures.DefaultPermissions())
	require.NoError(t, err)

	return &accessFixture{
		accounts: accounts,
		roles:    roles,
		service:  NewAccessService(accounts, roles, perms),
	}
}

func (f *accessFixture) seedMember(roleDef role.Role) (account.Account, role.Role) {
	seeded := f.roles.Seed(roleDef)
	acct := account.Account{
		ID:         "acct-1",
		Username:   "marc",
		IsActive:   true,
		SystemRole: account.SystemRoleUser,
		Memberships: []account.Membership{
			{ID: "m-1", CompanyID: seeded.CompanyID, RoleID: seeded.ID, IsActive: true},
		},
	}
	f.accounts.Seed(acct)
	return acct, seeded
}

func TestCheckAccess_TechnicianBypassesEverything(t *testing.T) {
	f := newAccessFixture(t)
	f.accounts.Seed(account.Account{
		ID:         "tech-1",
		Username:   "support",
		IsActive:   true,
		SystemRole: account.SystemRoleTechnician,
	})

	decision, err := f.service.CheckAccess(context.Background(), access.Check{
		AccountID:     "tech-1",
		CompanyID:     "company-1",
		RequiredCodes: []string{"MANAGE_ROLES"},
	})

	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, "company-1", decision.CompanyID)
}

func TestCheckAccess_NotCompanyMember(t *testing.T) {
	f := newAccessFixture(t)
	f.accounts.Seed(account.Account{
		ID:         "acct-1",
		Username:   "marc",
		IsActive:   true,
		SystemRole: account.SystemRoleUser,
	})

	decision, err := f.service.CheckAccess(context.Background(), access.Check{
		AccountID:     "acct-1",
		CompanyID:     "company-1",
		RequiredCodes: []string{"VIEW_FACTURES"},
	})

	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, access.DenyNotCompanyMember, decision.Reason)
}

func TestCheckAccess_InactiveMembershipDenied(t *testing.T) {
	f := newAccessFixture(t)
	f.accounts.Seed(account.Account{
		ID:         "acct-1",
		Username:   "marc",
		IsActive:   true,
		SystemRole: account.SystemRoleUser,
		Memberships: []account.Membership{
			{ID: "m-1", CompanyID: "company-1", RoleID: "role-1", IsActive: false},
		},
	})

	decision, err := f.service.CheckAccess(context.Background(), access.Check{
		AccountID: "acct-1",
		CompanyID: "company-1",
	})

	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, access.DenyNotCompanyMember, decision.Reason)
}

func TestCheckAccess_NoRoleAssigned(t *testing.T) {
	f := newAccessFixture(t)
	f.accounts.Seed(account.Account{
		ID:         "acct-1",
		Username:   "marc",
		IsActive:   true,
		SystemRole: account.SystemRoleUser,
		Memberships: []account.Membership{
			{ID: "m-1", CompanyID: "company-1", RoleID: "", IsActive: true},
		},
	})

	decision, err := f.service.CheckAccess(context.Background(), access.Check{
		AccountID: "acct-1",
		CompanyID: "company-1",
	})

	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, access.DenyNoRoleAssigned, decision.Reason)
}

func TestCheckAccess_DanglingRoleReadsAsNoRole(t *testing.T) {
	f := newAccessFixture(t)
	f.accounts.Seed(account.Account{
		ID:         "acct-1",
		Username:   "marc",
		IsActive:   true,
		SystemRole: account.SystemRoleUser,
		Memberships: []account.Membership{
			{ID: "m-1", CompanyID: "company-1", RoleID: "deleted-role", IsActive: true},
		},
	})

	decision, err := f.service.CheckAccess(context.Background(), access.Check{
		AccountID: "acct-1",
		CompanyID: "company-1",
	})

	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, access.DenyNoRoleAssigned, decision.Reason)
}

func TestCheckAccess_AllowedWithHeldCode(t *testing.T) {
	f := newAccessFixture(t)
	acct, seeded := f.seedMember(role.Role{
		CompanyID:       "company-1",
		Name:            "Comptable",
		BasePermissions: []string{"VIEW_FACTURES", "MANAGE_CHARGES"},
	})

	decision, err := f.service.CheckAccess(context.Background(), access.Check{
		AccountID:     acct.ID,
		CompanyID:     "company-1",
		RequiredCodes: []string{"MANAGE_CHARGES"},
	})

	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, seeded.ID, decision.RoleID)
	assert.Contains(t, decision.Held, "MANAGE_CHARGES")
}

func TestCheckAccess_AnyOfRequiredCodesSuffices(t *testing.T) {
	f := newAccessFixture(t)
	acct, _ := f.seedMember(role.Role{
		CompanyID:       "company-1",
		Name:            "Comptable",
		BasePermissions: []string{"VIEW_FACTURES"},
	})

	decision, err := f.service.CheckAccess(context.Background(), access.Check{
		AccountID:     acct.ID,
		CompanyID:     "company-1",
		RequiredCodes: []string{"MANAGE_FACTURES", "VIEW_FACTURES"},
	})

	require.NoError(t, err)
	assert.True(t, decision.Allowed)
}

func TestCheckAccess_InsufficientPermissionsCarriesDiagnostics(t *testing.T) {
	f := newAccessFixture(t)
	acct, _ := f.seedMember(role.Role{
		CompanyID:       "company-1",
		Name:            "Stagiaire",
		BasePermissions: []string{"VIEW_DASHBOARD"},
	})

	decision, err := f.service.CheckAccess(context.Background(), access.Check{
		AccountID:     acct.ID,
		CompanyID:     "company-1",
		RequiredCodes: []string{"MANAGE_ROLES"},
	})

	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, access.DenyInsufficientPermissions, decision.Reason)
	assert.Equal(t, []string{"MANAGE_ROLES"}, decision.Required)
	assert.Equal(t, []string{"VIEW_DASHBOARD"}, decision.Held)
}

func TestCheckAccess_OverrideRevocationDenies(t *testing.T) {
	f := newAccessFixture(t)
	acct, _ := f.seedMember(role.Role{
		CompanyID:       "company-1",
		Name:            "Comptable",
		BasePermissions: []string{"MANAGE_CHARGES"},
		Overrides:       map[string]bool{"MANAGE_CHARGES": false},
	})

	decision, err := f.service.CheckAccess(context.Background(), access.Check{
		AccountID:     acct.ID,
		CompanyID:     "company-1",
		RequiredCodes: []string{"MANAGE_CHARGES"},
	})

	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, access.DenyInsufficientPermissions, decision.Reason)
}

func TestCheckAccess_CategoryGrantedThroughCatalog(t *testing.T) {
	f := newAccessFixture(t)
	acct, _ := f.seedMember(role.Role{
		CompanyID:       "company-1",
		Name:            "Comptable",
		BasePermissions: []string{"MANAGE_CHARGES"},
	})

	category := permission.CategoryPaperasse
	decision, err := f.service.CheckAccess(context.Background(), access.Check{
		AccountID: acct.ID,
		CompanyID: "company-1",
		Category:  &category,
	})

	require.NoError(t, err)
	assert.True(t, decision.Allowed)
}

func TestCheckAccess_CategoryDeniedListsConventionCodes(t *testing.T) {
	f := newAccessFixture(t)
	acct, _ := f.seedMember(role.Role{
		CompanyID:       "company-1",
		Name:            "Stagiaire",
		BasePermissions: []string{"VIEW_DASHBOARD"},
	})

	category := permission.CategoryGestion
	decision, err := f.service.CheckAccess(context.Background(), access.Check{
		AccountID: acct.ID,
		CompanyID: "company-1",
		Category:  &category,
	})

	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, []string{"VIEW_GESTION_CATEGORY", "MANAGE_GESTION"}, decision.Required)
}

func TestCheckAccess_InactiveAccountIsAnError(t *testing.T) {
	f := newAccessFixture(t)
	f.accounts.Seed(account.Account{
		ID:         "acct-1",
		Username:   "marc",
		IsActive:   false,
		SystemRole: account.SystemRoleUser,
	})

	_, err := f.service.CheckAccess(context.Background(), access.Check{
		AccountID: "acct-1",
		CompanyID: "company-1",
	})

	assert.ErrorIs(t, err, account.ErrAccountInactive)
}

func TestResolveEffectivePermissions_Sorted(t *testing.T) {
	f := newAccessFixture(t)
	seeded := f.roles.Seed(role.Role{
		CompanyID:       "company-1",
		Name:            "Comptable",
		BasePermissions: []string{"VIEW_FACTURES", "MANAGE_CHARGES"},
		Overrides:       map[string]bool{"MANAGE_STOCK": true, "VIEW_FACTURES": false},
	})

	codes, err := f.service.ResolveEffectivePermissions(context.Background(), seeded.ID)

	require.NoError(t, err)
	assert.Equal(t, []string{"MANAGE_CHARGES", "MANAGE_STOCK"}, codes)
}
