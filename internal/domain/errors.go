package domain

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidStatus      = errors.New("invalid subset status")
	ErrTokenInvalid       = errors.New("reset token invalid or expired")
	ErrAlreadyCheckedIn   = errors.New("employee already checked in today")
	ErrNoOpenSession      = errors.New("no open attendance session")
)
