package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUserEmailExists         = errors.New("email already registered")
	ErrInvalidRole             = errors.New("role must be student or admin")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)
