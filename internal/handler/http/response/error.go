package response

import (
	"errors"
	"net/http"

	"github.com/gestio-app/gestio-backend-go/internal/domain/account"
	"github.com/gestio-app/gestio-backend-go/internal/domain/auth"
	"github.com/gestio-app/gestio-backend-go/internal/domain/code"
	"github.com/gestio-app/gestio-backend-go/internal/domain/company"
	"github.com/gestio-app/gestio-backend-go/internal/domain/permission"
	"github.com/gestio-app/gestio-backend-go/internal/domain/role"
	"github.com/gestio-app/gestio-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrAccountInactive):
		Forbidden(w, "Account is inactive")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrRefreshTokenMissing):
		Unauthorized(w, "Refresh token missing")
	case errors.Is(err, auth.ErrOAuthFailed):
		Unauthorized(w, "Authentication with the identity provider failed")

	// Account domain errors
	case errors.Is(err, account.ErrAccountNotFound):
		NotFound(w, "Account not found")
	case errors.Is(err, account.ErrAccountInactive):
		Forbidden(w, "Account is inactive")
	case errors.Is(err, account.ErrUsernameExists):
		Conflict(w, "Username already taken")
	case errors.Is(err, account.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, account.ErrDiscordIDExists):
		Conflict(w, "Discord account already linked")
	case errors.Is(err, account.ErrNotLinkedAccount):
		Forbidden(w, "Account is not linked to yours")
	case errors.Is(err, account.ErrMembershipExists):
		Conflict(w, "Account already belongs to this company")
	case errors.Is(err, account.ErrNotCompanyMember):
		Forbidden(w, "Not a member of this company")
	case errors.Is(err, account.ErrNoRoleAssigned):
		Forbidden(w, "No role assigned in this company")
	case errors.Is(err, account.ErrCompanyNotValidated):
		Forbidden(w, "Account has not joined a company yet")
	case errors.Is(err, account.ErrCurrentCompanyUnset):
		BadRequest(w, "No current company selected", nil)
	case errors.Is(err, account.ErrFamilyIDConflict):
		Conflict(w, "Linked accounts disagree on family identifier")

	// Company domain errors
	case errors.Is(err, company.ErrCompanyNotFound):
		NotFound(w, "Company not found")
	case errors.Is(err, company.ErrCompanyUsernameExists):
		Conflict(w, "Company username already taken")

	// Role domain errors
	case errors.Is(err, role.ErrRoleNotFound):
		NotFound(w, "Role not found")
	case errors.Is(err, role.ErrRoleNameExists):
		Conflict(w, "Role name already exists in this company")
	case errors.Is(err, role.ErrRoleStillReferenced):
		Conflict(w, "Role is still assigned to accounts")
	case errors.Is(err, role.ErrDefaultRoleDeletion):
		Conflict(w, "The default role cannot be deleted")
	case errors.Is(err, role.ErrRoleWrongCompany):
		NotFound(w, "Role not found")
	case errors.Is(err, role.ErrNoDefaultRole):
		Conflict(w, "Company has no default role")

	// Invitation code domain errors
	case errors.Is(err, code.ErrCodeNotFound):
		NotFound(w, "Invitation code not found")
	case errors.Is(err, code.ErrCodeExpired):
		Conflict(w, "Invitation code has expired")
	case errors.Is(err, code.ErrCodeExhausted):
		Conflict(w, "Invitation code has reached its use limit")
	case errors.Is(err, code.ErrCodeDeactivated):
		Conflict(w, "Invitation code has been deactivated")

	// Permission domain errors
	case errors.Is(err, permission.ErrPermissionNotFound):
		NotFound(w, "Permission not found")
	case errors.Is(err, permission.ErrInvalidCategory):
		BadRequest(w, "Invalid permission category", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
