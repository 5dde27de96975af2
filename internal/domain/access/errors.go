package access

import "errors"

var (
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrNotCompanyMember        = errors.New("not a member of this company")
	ErrNoRoleAssigned          = errors.New("no role assigned in this company")
)
