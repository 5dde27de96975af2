package permission

import "errors"

var (
	ErrPermissionNotFound = errors.New("permission not found")
	ErrInvalidCategory    = errors.New("invalid permission category")
)
