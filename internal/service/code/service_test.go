package code

import (
	"context"
	"testing"
	"time"

	"github.com/gestio-app/gestio-backend-go/internal/domain/account"
	"github.com/gestio-app/gestio-backend-go/internal/domain/code"
	"github.com/gestio-app/gestio-backend-go/internal/domain/company"
	"github.com/gestio-app/gestio-backend-go/internal/domain/role"
	"github.com/gestio-app/gestio-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func timePtr(t time.Time) *time.Time { return &t }

type codeFixture struct {
	codes     *memory.CodeRepository
	accounts  *memory.AccountRepository
	roles     *memory.RoleRepository
	companies *memory.CompanyRepository
	service   code.CodeService

	company     company.Company
	defaultRole role.Role
}

func newCodeFixture(t *testing.T) *codeFixture {
	t.Helper()

	codes := memory.NewCodeRepository()
	accounts := memory.NewAccountRepository()
	roles := memory.NewRoleRepository()
	companies := memory.NewCompanyRepository()

	comp := companies.Seed(company.Company{Name: "Garage Dupont", Username: "garage-dupont"})
	defaultRole := roles.Seed(role.Role{CompanyID: comp.ID, Name: "Employé", IsDefault: true})

	return &codeFixture{
		codes:       codes,
		accounts:    accounts,
		roles:       roles,
		companies:   companies,
		service:     NewCodeService(codes, accounts, roles, companies, 7*24*time.Hour, 30*24*time.Hour),
		company:     comp,
		defaultRole: defaultRole,
	}
}

func (f *codeFixture) seedCode(c code.Code) code.Code {
	if c.CompanyID == "" {
		c.CompanyID = f.company.ID
	}
	if c.IssuedBy == "" {
		c.IssuedBy = "issuer"
	}
	c.UpdatedAt = time.Now()
	return f.codes.Seed(c)
}

func (f *codeFixture) seedAccount(id string) {
	f.accounts.Seed(account.Account{ID: id, Username: id, IsActive: true})
}

func TestGenerate_AppliesDefaultExpiry(t *testing.T) {
	f := newCodeFixture(t)

	resp, err := f.service.Generate(context.Background(), f.company.ID, "issuer", code.GenerateRequest{MaxUses: intPtr(5)})

	require.NoError(t, err)
	assert.Len(t, resp.Code, 8)
	assert.True(t, resp.IsActive)
	require.NotNil(t, resp.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), *resp.ExpiresAt, time.Minute)
}

func TestGenerate_KeepsExplicitExpiry(t *testing.T) {
	f := newCodeFixture(t)
	expiry := time.Now().Add(time.Hour).Truncate(time.Second)

	resp, err := f.service.Generate(context.Background(), f.company.ID, "issuer", code.GenerateRequest{ExpiresAt: &expiry})

	require.NoError(t, err)
	require.NotNil(t, resp.ExpiresAt)
	assert.True(t, resp.ExpiresAt.Equal(expiry))
}

func TestGenerate_RejectsNonPositiveCap(t *testing.T) {
	f := newCodeFixture(t)

	_, err := f.service.Generate(context.Background(), f.company.ID, "issuer", code.GenerateRequest{MaxUses: intPtr(0)})

	assert.Error(t, err)
}

func TestRedeem_GrantsMembershipWithDefaultRole(t *testing.T) {
	f := newCodeFixture(t)
	f.seedCode(code.Code{Code: "JOINME42", IsActive: true})
	f.seedAccount("newbie")

	resp, err := f.service.Redeem(context.Background(), "newbie", code.RedeemRequest{Code: "joinme42"}, code.Tracking{IPAddress: "10.0.0.1"})

	require.NoError(t, err)
	assert.Equal(t, f.company.ID, resp.Company.ID)
	assert.Equal(t, f.defaultRole.ID, resp.Role.ID)

	acct, err := f.accounts.GetByID(context.Background(), "newbie")
	require.NoError(t, err)
	assert.True(t, acct.CompanyValidated)
	m, ok := acct.MembershipFor(f.company.ID)
	require.True(t, ok)
	assert.Equal(t, f.defaultRole.ID, m.RoleID)
	assert.True(t, m.IsActive)
	assert.False(t, m.JoinedAt.IsZero())
}

func TestRedeem_RecordsUsage(t *testing.T) {
	f := newCodeFixture(t)
	seeded := f.seedCode(code.Code{Code: "JOINME42", IsActive: true})
	f.seedAccount("newbie")

	_, err := f.service.Redeem(context.Background(), "newbie", code.RedeemRequest{Code: "JOINME42"}, code.Tracking{IPAddress: "10.0.0.1", UserAgent: "test-agent"})
	require.NoError(t, err)

	usages, err := f.service.ListUsages(context.Background(), f.company.ID, seeded.Code)
	require.NoError(t, err)
	require.Len(t, usages, 1)
	assert.Equal(t, "newbie", usages[0].AccountID)
	require.NotNil(t, usages[0].IPAddress)
	assert.Equal(t, "10.0.0.1", *usages[0].IPAddress)
	assert.False(t, usages[0].UsedAt.IsZero())
}

func TestRedeem_ExistingMemberConflicts(t *testing.T) {
	f := newCodeFixture(t)
	f.seedCode(code.Code{Code: "JOINME42", IsActive: true})
	f.seedAccount("member")
	_, err := f.accounts.AddMembership(context.Background(), "member", account.Membership{
		CompanyID: f.company.ID,
		RoleID:    f.defaultRole.ID,
		IsActive:  true,
	})
	require.NoError(t, err)

	_, err = f.service.Redeem(context.Background(), "member", code.RedeemRequest{Code: "JOINME42"}, code.Tracking{})

	assert.ErrorIs(t, err, account.ErrMembershipExists)
}

func TestRedeem_ExpiredCodeClassified(t *testing.T) {
	f := newCodeFixture(t)
	f.seedCode(code.Code{Code: "JOINME42", IsActive: true, ExpiresAt: timePtr(time.Now().Add(-time.Hour))})
	f.seedAccount("newbie")

	_, err := f.service.Redeem(context.Background(), "newbie", code.RedeemRequest{Code: "JOINME42"}, code.Tracking{})

	assert.ErrorIs(t, err, code.ErrCodeExpired)
}

func TestRedeem_ExhaustedCodeClassified(t *testing.T) {
	f := newCodeFixture(t)
	f.seedCode(code.Code{Code: "JOINME42", IsActive: true, MaxUses: intPtr(2), UseCount: 2})
	f.seedAccount("newbie")

	_, err := f.service.Redeem(context.Background(), "newbie", code.RedeemRequest{Code: "JOINME42"}, code.Tracking{})

	assert.ErrorIs(t, err, code.ErrCodeExhausted)
}

func TestRedeem_DeactivatedCodeClassified(t *testing.T) {
	f := newCodeFixture(t)
	f.seedCode(code.Code{Code: "JOINME42", IsActive: false})
	f.seedAccount("newbie")

	_, err := f.service.Redeem(context.Background(), "newbie", code.RedeemRequest{Code: "JOINME42"}, code.Tracking{})

	assert.ErrorIs(t, err, code.ErrCodeDeactivated)
}

func TestRedeem_UnknownCode(t *testing.T) {
	f := newCodeFixture(t)
	f.seedAccount("newbie")

	_, err := f.service.Redeem(context.Background(), "newbie", code.RedeemRequest{Code: "NOSUCH99"}, code.Tracking{})

	assert.ErrorIs(t, err, code.ErrCodeNotFound)
}

func TestRedeem_InactiveAccountRefused(t *testing.T) {
	f := newCodeFixture(t)
	f.seedCode(code.Code{Code: "JOINME42", IsActive: true})
	f.accounts.Seed(account.Account{ID: "frozen", Username: "frozen", IsActive: false})

	_, err := f.service.Redeem(context.Background(), "frozen", code.RedeemRequest{Code: "JOINME42"}, code.Tracking{})

	assert.ErrorIs(t, err, account.ErrAccountInactive)
}

// The cap holds exactly: the final slot succeeds and flips the code
// inactive, the attempt after it reads as exhausted.
func TestRedeem_CapNeverOvershoots(t *testing.T) {
	f := newCodeFixture(t)
	seeded := f.seedCode(code.Code{Code: "JOINME42", IsActive: true, MaxUses: intPtr(2)})

	for _, id := range []string{"first", "second"} {
		f.seedAccount(id)
		_, err := f.service.Redeem(context.Background(), id, code.RedeemRequest{Code: "JOINME42"}, code.Tracking{})
		require.NoError(t, err)
	}

	f.seedAccount("third")
	_, err := f.service.Redeem(context.Background(), "third", code.RedeemRequest{Code: "JOINME42"}, code.Tracking{})
	assert.ErrorIs(t, err, code.ErrCodeExhausted)

	current, err := f.codes.GetByCode(context.Background(), seeded.Code)
	require.NoError(t, err)
	assert.Equal(t, 2, current.UseCount)
	assert.False(t, current.IsActive)
}

func TestListByCompany_OnlyOwnCodes(t *testing.T) {
	f := newCodeFixture(t)
	f.seedCode(code.Code{Code: "OURCODE1", IsActive: true})
	f.seedCode(code.Code{Code: "THEIRS99", CompanyID: "other-company", IsActive: true})

	codes, err := f.service.ListByCompany(context.Background(), f.company.ID)

	require.NoError(t, err)
	require.Len(t, codes, 1)
	assert.Equal(t, "OURCODE1", codes[0].Code)
}

func TestListUsages_ForeignCodeReadsAsNotFound(t *testing.T) {
	f := newCodeFixture(t)
	f.seedCode(code.Code{Code: "THEIRS99", CompanyID: "other-company", IsActive: true})

	_, err := f.service.ListUsages(context.Background(), f.company.ID, "THEIRS99")

	assert.ErrorIs(t, err, code.ErrCodeNotFound)
}

func TestDeactivate_OwnCode(t *testing.T) {
	f := newCodeFixture(t)
	seeded := f.seedCode(code.Code{Code: "JOINME42", IsActive: true})

	require.NoError(t, f.service.Deactivate(context.Background(), f.company.ID, "joinme42"))

	current, err := f.codes.GetByCode(context.Background(), seeded.Code)
	require.NoError(t, err)
	assert.False(t, current.IsActive)
}

func TestDeactivate_ForeignCodeReadsAsNotFound(t *testing.T) {
	f := newCodeFixture(t)
	f.seedCode(code.Code{Code: "THEIRS99", CompanyID: "other-company", IsActive: true})

	err := f.service.Deactivate(context.Background(), f.company.ID, "THEIRS99")

	assert.ErrorIs(t, err, code.ErrCodeNotFound)
}

func TestSweepExpired_FlipsAndPrunes(t *testing.T) {
	f := newCodeFixture(t)
	f.seedCode(code.Code{Code: "EXPIRED1", IsActive: true, ExpiresAt: timePtr(time.Now().Add(-time.Hour))})
	f.seedCode(code.Code{Code: "HEALTHY1", IsActive: true})
	stale := f.codes.Seed(code.Code{
		Code:      "ANCIENT1",
		CompanyID: f.company.ID,
		IssuedBy:  "issuer",
		IsActive:  false,
		UpdatedAt: time.Now().Add(-60 * 24 * time.Hour),
	})

	require.NoError(t, f.service.SweepExpired(context.Background()))

	expired, err := f.codes.GetByCode(context.Background(), "EXPIRED1")
	require.NoError(t, err)
	assert.False(t, expired.IsActive)

	healthy, err := f.codes.GetByCode(context.Background(), "HEALTHY1")
	require.NoError(t, err)
	assert.True(t, healthy.IsActive)

	_, err = f.codes.GetByCode(context.Background(), stale.Code)
	assert.ErrorIs(t, err, code.ErrCodeNotFound)
}
