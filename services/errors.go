// services/errors.go
package services

import "errors"

// Business error taxonomy. Controllers map these to HTTP statuses and
// user-facing messages; anything else surfaces as a generic failure.
var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidState      = errors.New("invalid state")
	ErrLimitExceeded     = errors.New("limit exceeded")
	ErrValidation        = errors.New("validation failed")
)
