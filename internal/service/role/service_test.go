package role

import (
	"context"
	"testing"

	"github.com/gestio-app/gestio-backend-go/internal/domain/role"
	"github.com/gestio-app/gestio-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCompanyID = "company-1"

type roleFixture struct {
	roles   *memory.RoleRepository
	service role.RoleService
}

func newRoleFixture() *roleFixture {
	roles := memory.NewRoleRepository()
	return &roleFixture{
		roles:   roles,
		service: NewRoleService(roles),
	}
}

func TestCreate_DefaultsContractType(t *testing.T) {
	f := newRoleFixture()

	resp, err := f.service.Create(context.Background(), testCompanyID, role.CreateRequest{
		Name:        "Mécanicien",
		Permissions: []string{"VIEW_DASHBOARD"},
	})

	require.NoError(t, err)
	assert.Equal(t, string(role.ContractCDI), resp.ContractType)
	assert.Equal(t, testCompanyID, resp.CompanyID)
}

func TestCreate_EffectiveReflectsOverrides(t *testing.T) {
	f := newRoleFixture()

	resp, err := f.service.Create(context.Background(), testCompanyID, role.CreateRequest{
		Name:        "Chef d'atelier",
		Permissions: []string{"VIEW_DASHBOARD", "MANAGE_CHARGES"},
		Overrides:   map[string]bool{"MANAGE_ROLES": true, "MANAGE_CHARGES": false},
	})

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"VIEW_DASHBOARD", "MANAGE_ROLES"}, resp.Effective)
}

func TestGet_ForeignRoleReadsAsNotFound(t *testing.T) {
	f := newRoleFixture()
	seeded := f.roles.Seed(role.Role{CompanyID: "other-company", Name: "Patron"})

	_, err := f.service.Get(context.Background(), testCompanyID, seeded.ID)

	assert.ErrorIs(t, err, role.ErrRoleNotFound)
}

func TestUpdate_MergesOnlyProvidedFields(t *testing.T) {
	f := newRoleFixture()
	seeded := f.roles.Seed(role.Role{
		CompanyID:       testCompanyID,
		Name:            "Mécanicien",
		BasePermissions: []string{"VIEW_DASHBOARD"},
		ContractType:    role.ContractCDI,
	})
	name := "Mécanicien senior"

	resp, err := f.service.Update(context.Background(), testCompanyID, seeded.ID, role.UpdateRequest{Name: &name})

	require.NoError(t, err)
	assert.Equal(t, "Mécanicien senior", resp.Name)
	assert.Equal(t, string(role.ContractCDI), resp.ContractType)
	assert.Equal(t, []string{"VIEW_DASHBOARD"}, resp.Permissions)
}

func TestUpdate_RejectsUnknownContractType(t *testing.T) {
	f := newRoleFixture()
	seeded := f.roles.Seed(role.Role{CompanyID: testCompanyID, Name: "Mécanicien"})
	bad := "volunteer"

	_, err := f.service.Update(context.Background(), testCompanyID, seeded.ID, role.UpdateRequest{ContractType: &bad})

	assert.Error(t, err)
}

func TestUpdatePermissions_ReplacesWholesale(t *testing.T) {
	f := newRoleFixture()
	seeded := f.roles.Seed(role.Role{
		CompanyID:       testCompanyID,
		Name:            "Mécanicien",
		BasePermissions: []string{"VIEW_DASHBOARD"},
	})

	resp, err := f.service.UpdatePermissions(context.Background(), testCompanyID, seeded.ID, role.UpdatePermissionsRequest{
		Permissions: []string{"MANAGE_CHARGES"},
		Overrides:   map[string]bool{"VIEW_DASHBOARD": false},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"MANAGE_CHARGES"}, resp.Permissions)
	assert.ElementsMatch(t, []string{"MANAGE_CHARGES"}, resp.Effective)
}

func TestUpdatePermissions_ForeignRoleReadsAsNotFound(t *testing.T) {
	f := newRoleFixture()
	seeded := f.roles.Seed(role.Role{CompanyID: "other-company", Name: "Patron"})

	_, err := f.service.UpdatePermissions(context.Background(), testCompanyID, seeded.ID, role.UpdatePermissionsRequest{})

	assert.ErrorIs(t, err, role.ErrRoleNotFound)
}

func TestDelete_Unreferenced(t *testing.T) {
	f := newRoleFixture()
	seeded := f.roles.Seed(role.Role{CompanyID: testCompanyID, Name: "Stagiaire"})

	require.NoError(t, f.service.Delete(context.Background(), testCompanyID, seeded.ID))

	_, err := f.roles.GetByID(context.Background(), seeded.ID)
	assert.ErrorIs(t, err, role.ErrRoleNotFound)
}

func TestDelete_DefaultRoleRefused(t *testing.T) {
	f := newRoleFixture()
	seeded := f.roles.Seed(role.Role{CompanyID: testCompanyID, Name: "Employé", IsDefault: true})

	err := f.service.Delete(context.Background(), testCompanyID, seeded.ID)

	assert.ErrorIs(t, err, role.ErrDefaultRoleDeletion)
}

func TestDelete_ReferencedRoleRefused(t *testing.T) {
	f := newRoleFixture()
	seeded := f.roles.Seed(role.Role{CompanyID: testCompanyID, Name: "Mécanicien"})
	f.roles.Assignments[seeded.ID] = 3

	err := f.service.Delete(context.Background(), testCompanyID, seeded.ID)

	assert.ErrorIs(t, err, role.ErrRoleStillReferenced)
}

func TestDelete_ForeignRoleReadsAsNotFound(t *testing.T) {
	f := newRoleFixture()
	seeded := f.roles.Seed(role.Role{CompanyID: "other-company", Name: "Patron"})

	err := f.service.Delete(context.Background(), testCompanyID, seeded.ID)

	assert.ErrorIs(t, err, role.ErrRoleNotFound)
}
