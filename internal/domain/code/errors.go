package code

import "errors"

var (
	ErrCodeNotFound    = errors.New("invitation code not found")
	ErrCodeExpired     = errors.New("invitation code has expired")
	ErrCodeExhausted   = errors.New("invitation code has reached its use limit")
	ErrCodeDeactivated = errors.New("invitation code has been deactivated")
	ErrCodeExists      = errors.New("invitation code already exists")
)
