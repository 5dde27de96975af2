package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gestio-app/gestio-backend-go/internal/domain/access"
	"github.com/gestio-app/gestio-backend-go/internal/domain/account"
	"github.com/gestio-app/gestio-backend-go/internal/domain/role"
	"github.com/gestio-app/gestio-backend-go/internal/fixtures"
	"github.com/gestio-app/gestio-backend-go/internal/repository/memory"
	accessService "github.com/gestio-app/gestio-backend-go/internal/service/access"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type guardFixture struct {
	roles   *memory.RoleRepository
	service access.AccessService
	auth    *jwtauth.JWTAuth
}

func newGuardFixture(t *testing.T) *guardFixture {
	t.Helper()
	accounts := memory.NewAccountRepository()
	roles := memory.NewRoleRepository()
	perms := memory.NewPermissionRepository()
	_, err := perms.SeedMissing(context.Background(), fixtures.DefaultPermissions())
	require.NoError(t, err)

	seeded := roles.Seed(role.Role{
		CompanyID:       "company-1",
		Name:            "Comptable",
		BasePermissions: []string{"MANAGE_CHARGES"},
	})
	accounts.Seed(account.Account{
		ID:         "acct-1",
		Username:   "marc",
		IsActive:   true,
		SystemRole: account.SystemRoleUser,
		Memberships: []account.Membership{
			{ID: "m-1", CompanyID: "company-1", RoleID: seeded.ID, IsActive: true},
		},
	})

	return &guardFixture{
		roles:   roles,
		service: accessService.NewAccessService(accounts, roles, perms),
		auth:    jwtauth.New("HS256", []byte("test-secret"), nil),
	}
}

func (f *guardFixture) request(t *testing.T, accountID, companyID string) *http.Request {
	t.Helper()
	token, _, err := f.auth.Encode(map[string]interface{}{
		"account_id": accountID,
		"company_id": companyID,
		"type":       "access",
	})
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/codes", nil)
	return r.WithContext(jwtauth.NewContext(r.Context(), token, nil))
}

func TestRequirePermission_StashesDecisionForHandlers(t *testing.T) {
	f := newGuardFixture(t)

	var seen access.Decision
	var seenOK bool
	var seenCompany string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, seenOK = AccessDecision(r)
		seenCompany = CompanyID(r)
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	RequirePermission(f.service, "MANAGE_CHARGES")(next).ServeHTTP(rec, f.request(t, "acct-1", "company-1"))

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, seenOK)
	assert.True(t, seen.Allowed)
	assert.Equal(t, "company-1", seen.CompanyID)
	assert.NotEmpty(t, seen.RoleID)
	assert.Contains(t, seen.Held, "MANAGE_CHARGES")
	assert.Equal(t, "company-1", seenCompany)
}

func TestRequirePermission_DeniedRequestNeverReachesHandler(t *testing.T) {
	f := newGuardFixture(t)

	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	})

	rec := httptest.NewRecorder()
	RequirePermission(f.service, "MANAGE_ROLES")(next).ServeHTTP(rec, f.request(t, "acct-1", "company-1"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, reached)
}

func TestAccessDecision_AbsentOutsideGuardedRoutes(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/accounts/me", nil)

	_, ok := AccessDecision(r)

	assert.False(t, ok)
}
