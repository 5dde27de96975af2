package role

import "errors"

var (
	ErrRoleNotFound        = errors.New("role not found")
	ErrRoleNameExists      = errors.New("role name already exists in this company")
	ErrRoleStillReferenced = errors.New("role is still assigned to accounts")
	ErrDefaultRoleDeletion = errors.New("the default role cannot be deleted")
	ErrRoleWrongCompany    = errors.New("role belongs to another company")
	ErrNoDefaultRole       = errors.New("company has no default role")
)
