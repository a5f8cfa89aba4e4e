package auth

import "errors"

var (
	ErrInvalidState   = errors.New("operation not allowed in the current sign-in state")
	ErrResendTooSoon  = errors.New("resend requested before the cooldown elapsed")
	ErrMissingSession = errors.New("verification succeeded without a user")
)
