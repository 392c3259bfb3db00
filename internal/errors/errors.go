package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyInUse  = errors.New("email already in use")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidRole        = errors.New("invalid role")
	ErrAccessDenied       = errors.New("access denied")
	ErrUserInactive       = errors.New("user is inactive")
)

// PasswordPolicyError reports which policy rule a candidate password broke.
// The reason is safe to surface to the caller.
type PasswordPolicyError struct {
	Reason string
}

func (e *PasswordPolicyError) Error() string {
	return fmt.Sprintf("password policy violation: %s", e.Reason)
}

func NewPasswordPolicyError(reason string) *PasswordPolicyError {
	return &PasswordPolicyError{Reason: reason}
}
