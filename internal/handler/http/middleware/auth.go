package middleware

import (
	"net/http"

	"github.com/gestio-app/gestio-backend-go/internal/domain/auth"
	"github.com/gestio-app/gestio-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}

// AccountID extracts the authenticated account id from the verified
// token claims.
func AccountID(r *http.Request) string {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return ""
	}
	id, _ := claims["account_id"].(string)
	return id
}

// CompanyID extracts the current company id for the request. Behind a
// permission guard the guard's decision is authoritative; otherwise the
// id comes from the verified token claims, empty when the account has
// not joined a company.
func CompanyID(r *http.Request) string {
	if decision, ok := AccessDecision(r); ok && decision.CompanyID != "" {
		return decision.CompanyID
	}
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return ""
	}
	id, _ := claims["company_id"].(string)
	return id
}
