package identity

import (
	"context"
	"testing"
	"time"

	"github.com/gestio-app/gestio-backend-go/internal/domain/account"
	"github.com/gestio-app/gestio-backend-go/internal/domain/code"
	"github.com/gestio-app/gestio-backend-go/internal/domain/company"
	"github.com/gestio-app/gestio-backend-go/internal/domain/role"
	"github.com/gestio-app/gestio-backend-go/internal/pkg/jwt"
	"github.com/gestio-app/gestio-backend-go/internal/repository/memory"
	codeService "github.com/gestio-app/gestio-backend-go/internal/service/code"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret     = "test-secret-key-for-jwt"
	testAccessExp  = "1h"
	testRefreshExp = "24h"
)

func strPtr(s string) *string { return &s }

type identityFixture struct {
	accounts  *memory.AccountRepository
	codes     *memory.CodeRepository
	roles     *memory.RoleRepository
	companies *memory.CompanyRepository
	jwtRepo   *memory.JWTRepository
	service   account.AccountService
}

func newIdentityFixture() *identityFixture {
	accounts := memory.NewAccountRepository()
	codes := memory.NewCodeRepository()
	roles := memory.NewRoleRepository()
	companies := memory.NewCompanyRepository()
	jwtRepo := memory.NewJWTRepository()

	codeSvc := codeService.NewCodeService(codes, accounts, roles, companies, 0, 0)
	jwtSvc := jwt.NewJWTService(testSecret, testAccessExp, testRefreshExp)

	return &identityFixture{
		accounts:  accounts,
		codes:     codes,
		roles:     roles,
		companies: companies,
		jwtRepo:   jwtRepo,
		service:   NewAccountService(accounts, codes, codeSvc, jwtSvc, jwtRepo),
	}
}

func TestListLinkedAccounts_WithoutFamilyOnlySelf(t *testing.T) {
	f := newIdentityFixture()
	f.accounts.Seed(account.Account{ID: "solo", Username: "solo", IsActive: true})

	summaries, err := f.service.ListLinkedAccounts(context.Background(), "solo")

	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "solo", summaries[0].ID)
	assert.True(t, summaries[0].IsCurrent)
}

func TestListLinkedAccounts_FamilyMembersListed(t *testing.T) {
	f := newIdentityFixture()
	f.accounts.Seed(account.Account{ID: "a1", Username: "marc.a", IsActive: true, FamilyID: strPtr("fam-1")})
	f.accounts.Seed(account.Account{ID: "a2", Username: "marc.b", IsActive: true, FamilyID: strPtr("fam-1")})
	f.accounts.Seed(account.Account{ID: "other", Username: "lea", IsActive: true, FamilyID: strPtr("fam-2")})

	summaries, err := f.service.ListLinkedAccounts(context.Background(), "a1")

	require.NoError(t, err)
	require.Len(t, summaries, 2)

	var current int
	for _, s := range summaries {
		assert.NotEqual(t, "other", s.ID)
		if s.IsCurrent {
			current++
			assert.Equal(t, "a1", s.ID)
		}
	}
	assert.Equal(t, 1, current)
}

func TestSwitchAccount_ToLinkedAccount(t *testing.T) {
	f := newIdentityFixture()
	f.accounts.Seed(account.Account{ID: "a1", Username: "marc.a", IsActive: true, FamilyID: strPtr("fam-1")})
	f.accounts.Seed(account.Account{ID: "a2", Username: "marc.b", IsActive: true, FamilyID: strPtr("fam-1")})

	resp, err := f.service.SwitchAccount(context.Background(), "a1", account.SwitchRequest{TargetAccountID: "a2"}, account.SessionTracking{})

	require.NoError(t, err)
	assert.Equal(t, "a2", resp.Account.ID)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Len(t, f.jwtRepo.Issued, 1)
}

func TestSwitchAccount_AdvancesTargetLastLogin(t *testing.T) {
	f := newIdentityFixture()
	previous := time.Now().Add(-time.Hour)
	f.accounts.Seed(account.Account{ID: "a1", Username: "marc.a", IsActive: true, FamilyID: strPtr("fam-1")})
	f.accounts.Seed(account.Account{ID: "a2", Username: "marc.b", IsActive: true, FamilyID: strPtr("fam-1"), LastLoginAt: &previous})

	_, err := f.service.SwitchAccount(context.Background(), "a1", account.SwitchRequest{TargetAccountID: "a2"}, account.SessionTracking{})
	require.NoError(t, err)

	target, err := f.accounts.GetByID(context.Background(), "a2")
	require.NoError(t, err)
	require.NotNil(t, target.LastLoginAt)
	assert.True(t, target.LastLoginAt.After(previous))
}

func TestSwitchAccount_ToSelfIsIdempotent(t *testing.T) {
	f := newIdentityFixture()
	f.accounts.Seed(account.Account{ID: "a1", Username: "marc.a", IsActive: true})

	resp, err := f.service.SwitchAccount(context.Background(), "a1", account.SwitchRequest{TargetAccountID: "a1"}, account.SessionTracking{})

	require.NoError(t, err)
	assert.Equal(t, "a1", resp.Account.ID)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestSwitchAccount_OutsideFamilyForbidden(t *testing.T) {
	f := newIdentityFixture()
	f.accounts.Seed(account.Account{ID: "a1", Username: "marc.a", IsActive: true, FamilyID: strPtr("fam-1")})
	f.accounts.Seed(account.Account{ID: "stranger", Username: "lea", IsActive: true, FamilyID: strPtr("fam-2")})

	_, err := f.service.SwitchAccount(context.Background(), "a1", account.SwitchRequest{TargetAccountID: "stranger"}, account.SessionTracking{})

	assert.ErrorIs(t, err, account.ErrNotLinkedAccount)
}

func TestSwitchAccount_WithoutFamilyForbidden(t *testing.T) {
	f := newIdentityFixture()
	f.accounts.Seed(account.Account{ID: "a1", Username: "marc.a", IsActive: true})
	f.accounts.Seed(account.Account{ID: "a2", Username: "marc.b", IsActive: true})

	_, err := f.service.SwitchAccount(context.Background(), "a1", account.SwitchRequest{TargetAccountID: "a2"}, account.SessionTracking{})

	assert.ErrorIs(t, err, account.ErrNotLinkedAccount)
}

func TestSwitchAccount_TargetNotFound(t *testing.T) {
	f := newIdentityFixture()
	f.accounts.Seed(account.Account{ID: "a1", Username: "marc.a", IsActive: true, FamilyID: strPtr("fam-1")})

	_, err := f.service.SwitchAccount(context.Background(), "a1", account.SwitchRequest{TargetAccountID: "ghost"}, account.SessionTracking{})

	assert.ErrorIs(t, err, account.ErrAccountNotFound)
}

func TestSwitchAccount_InactiveTargetRefused(t *testing.T) {
	f := newIdentityFixture()
	f.accounts.Seed(account.Account{ID: "a1", Username: "marc.a", IsActive: true, FamilyID: strPtr("fam-1")})
	f.accounts.Seed(account.Account{ID: "a2", Username: "marc.b", IsActive: false, FamilyID: strPtr("fam-1")})

	_, err := f.service.SwitchAccount(context.Background(), "a1", account.SwitchRequest{TargetAccountID: "a2"}, account.SessionTracking{})

	assert.ErrorIs(t, err, account.ErrAccountInactive)
}

func TestCreateLinkedAccount_MintsFamilyIDForCaller(t *testing.T) {
	f := newIdentityFixture()
	comp := f.companies.Seed(company.Company{Name: "Garage Dupont", Username: "garage-dupont"})
	f.roles.Seed(role.Role{CompanyID: comp.ID, Name: "Employé", IsDefault: true})
	f.codes.Seed(code.Code{Code: "JOINME42", CompanyID: comp.ID, IssuedBy: "boss", IsActive: true})
	f.accounts.Seed(account.Account{ID: "caller", Username: "marc", IsActive: true})

	summary, err := f.service.CreateLinkedAccount(context.Background(), "caller", account.CreateLinkedRequest{
		CompanyCode: "JOINME42",
		Username:    "marc.second",
		Password:    "password123",
	})
	require.NoError(t, err)

	caller, err := f.accounts.GetByID(context.Background(), "caller")
	require.NoError(t, err)
	require.NotNil(t, caller.FamilyID)

	created, err := f.accounts.GetByID(context.Background(), summary.ID)
	require.NoError(t, err)
	require.NotNil(t, created.FamilyID)
	assert.Equal(t, *caller.FamilyID, *created.FamilyID)
	assert.True(t, created.CompanyValidated)
	assert.True(t, created.HasActiveMembership(comp.ID))
}

func TestCreateLinkedAccount_ReusesExistingFamilyID(t *testing.T) {
	f := newIdentityFixture()
	comp := f.companies.Seed(company.Company{Name: "Garage Dupont", Username: "garage-dupont"})
	f.roles.Seed(role.Role{CompanyID: comp.ID, Name: "Employé", IsDefault: true})
	f.codes.Seed(code.Code{Code: "JOINME42", CompanyID: comp.ID, IssuedBy: "boss", IsActive: true})
	f.accounts.Seed(account.Account{ID: "caller", Username: "marc", IsActive: true, FamilyID: strPtr("fam-1")})

	summary, err := f.service.CreateLinkedAccount(context.Background(), "caller", account.CreateLinkedRequest{
		CompanyCode: "JOINME42",
		Username:    "marc.second",
		Password:    "password123",
	})
	require.NoError(t, err)

	created, err := f.accounts.GetByID(context.Background(), summary.ID)
	require.NoError(t, err)
	require.NotNil(t, created.FamilyID)
	assert.Equal(t, "fam-1", *created.FamilyID)
}

func TestCreateLinkedAccount_CallerAlreadyMemberRefused(t *testing.T) {
	f := newIdentityFixture()
	comp := f.companies.Seed(company.Company{Name: "Garage Dupont", Username: "garage-dupont"})
	f.roles.Seed(role.Role{CompanyID: comp.ID, Name: "Employé", IsDefault: true})
	f.codes.Seed(code.Code{Code: "JOINME42", CompanyID: comp.ID, IssuedBy: "boss", IsActive: true})
	f.accounts.Seed(account.Account{
		ID:       "caller",
		Username: "marc",
		IsActive: true,
		Memberships: []account.Membership{
			{ID: "m-1", CompanyID: comp.ID, RoleID: "role-1", IsActive: true},
		},
	})

	_, err := f.service.CreateLinkedAccount(context.Background(), "caller", account.CreateLinkedRequest{
		CompanyCode: "JOINME42",
		Username:    "marc.second",
		Password:    "password123",
	})

	assert.ErrorIs(t, err, account.ErrMembershipExists)
}

func TestCreateLinkedAccount_SiblingMembershipRefused(t *testing.T) {
	f := newIdentityFixture()
	comp := f.companies.Seed(company.Company{Name: "Garage Dupont", Username: "garage-dupont"})
	f.roles.Seed(role.Role{CompanyID: comp.ID, Name: "Employé", IsDefault: true})
	f.codes.Seed(code.Code{Code: "JOINME42", CompanyID: comp.ID, IssuedBy: "boss", IsActive: true})
	f.accounts.Seed(account.Account{ID: "caller", Username: "marc", IsActive: true, FamilyID: strPtr("fam-1")})
	f.accounts.Seed(account.Account{
		ID:       "sibling",
		Username: "marc.second",
		IsActive: true,
		FamilyID: strPtr("fam-1"),
		Memberships: []account.Membership{
			{ID: "m-1", CompanyID: comp.ID, RoleID: "role-1", IsActive: true},
		},
	})

	_, err := f.service.CreateLinkedAccount(context.Background(), "caller", account.CreateLinkedRequest{
		CompanyCode: "JOINME42",
		Username:    "marc.third",
		Password:    "password123",
	})

	assert.ErrorIs(t, err, account.ErrMembershipExists)
}

func TestCreateLinkedAccount_InactiveSiblingMembershipAllowed(t *testing.T) {
	f := newIdentityFixture()
	comp := f.companies.Seed(company.Company{Name: "Garage Dupont", Username: "garage-dupont"})
	f.roles.Seed(role.Role{CompanyID: comp.ID, Name: "Employé", IsDefault: true})
	f.codes.Seed(code.Code{Code: "JOINME42", CompanyID: comp.ID, IssuedBy: "boss", IsActive: true})
	f.accounts.Seed(account.Account{ID: "caller", Username: "marc", IsActive: true, FamilyID: strPtr("fam-1")})
	f.accounts.Seed(account.Account{
		ID:       "sibling",
		Username: "marc.second",
		IsActive: true,
		FamilyID: strPtr("fam-1"),
		Memberships: []account.Membership{
			{ID: "m-1", CompanyID: comp.ID, RoleID: "role-1", IsActive: false},
		},
	})

	summary, err := f.service.CreateLinkedAccount(context.Background(), "caller", account.CreateLinkedRequest{
		CompanyCode: "JOINME42",
		Username:    "marc.third",
		Password:    "password123",
	})

	require.NoError(t, err)
	created, err := f.accounts.GetByID(context.Background(), summary.ID)
	require.NoError(t, err)
	assert.True(t, created.HasActiveMembership(comp.ID))
}

func TestCreateLinkedAccount_UsernameTaken(t *testing.T) {
	f := newIdentityFixture()
	f.accounts.Seed(account.Account{ID: "caller", Username: "marc", IsActive: true})
	f.accounts.Seed(account.Account{ID: "other", Username: "marc.second", IsActive: true})

	_, err := f.service.CreateLinkedAccount(context.Background(), "caller", account.CreateLinkedRequest{
		CompanyCode: "JOINME42",
		Username:    "marc.second",
		Password:    "password123",
	})

	assert.ErrorIs(t, err, account.ErrUsernameExists)
}
