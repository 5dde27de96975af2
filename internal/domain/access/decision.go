package access

import "github.com/gestio-app/gestio-backend-go/internal/domain/permission"

// DenyReason classifies a denial so the client can route the user
// without leaking anything beyond the category of the problem.
type DenyReason string

const (
	DenyNotCompanyMember        DenyReason = "NOT_COMPANY_MEMBER"
	DenyNoRoleAssigned          DenyReason = "NO_ROLE_ASSIGNED"
	DenyInsufficientPermissions DenyReason = "INSUFFICIENT_PERMISSIONS"
)

// Check is one authorization question: does the account hold, within the
// company, any of the required codes (and the category, when set)?
type Check struct {
	AccountID     string
	CompanyID     string
	RequiredCodes []string
	Category      *permission.Category
}

// Decision is the outcome of a check. Required and Held are diagnostic:
// they say which codes were asked for and which the caller actually has.
// CompanyID and RoleID carry the resolved request context for downstream
// handlers.
type Decision struct {
	Allowed   bool       `json:"allowed"`
	Reason    DenyReason `json:"reason,omitempty"`
	Required  []string   `json:"required,omitempty"`
	Held      []string   `json:"held,omitempty"`
	CompanyID string     `json:"company_id,omitempty"`
	RoleID    string     `json:"role_id,omitempty"`
}

// Allow builds an allowing decision carrying the resolved context.
func Allow(companyID, roleID string, held []string) Decision {
	return Decision{
		Allowed:   true,
		Held:      held,
		CompanyID: companyID,
		RoleID:    roleID,
	}
}

// Deny builds a denying decision.
func Deny(reason DenyReason, required, held []string) Decision {
	return Decision{
		Allowed:  false,
		Reason:   reason,
		Required: required,
		Held:     held,
	}
}
