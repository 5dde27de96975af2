package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gestio-app/gestio-backend-go/internal/domain/access"
	"github.com/gestio-app/gestio-backend-go/internal/domain/account"
	"github.com/gestio-app/gestio-backend-go/internal/domain/permission"
	"github.com/gestio-app/gestio-backend-go/internal/handler/http/response"
)

type decisionContextKey struct{}

// AccessDecision returns the decision a permission guard recorded on
// the request, so handlers behind a guard can reuse the resolved
// company and role without re-running the check.
func AccessDecision(r *http.Request) (access.Decision, bool) {
	decision, ok := r.Context().Value(decisionContextKey{}).(access.Decision)
	return decision, ok
}

// RequirePermission guards a route behind the access decision point:
// the caller must hold, in its current company, at least one of the
// given permission codes. Technicians pass unconditionally.
func RequirePermission(accessService access.AccessService, codes ...string) func(http.Handler) http.Handler {
	return guard(accessService, codes, nil)
}

// RequireCategory guards a route behind a category check.
func RequireCategory(accessService access.AccessService, category permission.Category) func(http.Handler) http.Handler {
	return guard(accessService, nil, &category)
}

func guard(accessService access.AccessService, codes []string, category *permission.Category) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accountID := AccountID(r)
			if accountID == "" {
				response.Unauthorized(w, "Missing account identity")
				return
			}
			companyID := CompanyID(r)
			if companyID == "" {
				response.HandleError(w, account.ErrCurrentCompanyUnset)
				return
			}

			decision, err := accessService.CheckAccess(r.Context(), access.Check{
				AccountID:     accountID,
				CompanyID:     companyID,
				RequiredCodes: codes,
				Category:      category,
			})
			if err != nil {
				slog.Error("Access check failed", "error", err, "account_id", accountID)
				response.HandleError(w, err)
				return
			}

			if !decision.Allowed {
				switch decision.Reason {
				case access.DenyNotCompanyMember:
					response.HandleError(w, account.ErrNotCompanyMember)
				case access.DenyNoRoleAssigned:
					response.HandleError(w, account.ErrNoRoleAssigned)
				default:
					response.ForbiddenWithDetails(w, "Insufficient permissions", map[string]string{
						"required": strings.Join(decision.Required, ","),
						"held":     strings.Join(decision.Held, ","),
					})
				}
				return
			}

			ctx := context.WithValue(r.Context(), decisionContextKey{}, decision)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
