// internal/util/errors.go
package util

import (
	"errors"
	"fmt"
)

// Common application-specific errors.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidInput      = errors.New("invalid input provided")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidState      = errors.New("operation not allowed in current state")
	ErrForbidden         = errors.New("forbidden")
	ErrUnauthorized      = errors.New("unauthorized")
)

// Specific errors. Each one wraps a member of the taxonomy above so callers can
// match on either.
var (
	ErrSelfTransfer       = fmt.Errorf("%w: cannot transfer to yourself", ErrInvalidInput)
	ErrSelfMessage        = fmt.Errorf("%w: cannot message yourself", ErrInvalidInput)
	ErrEmptyMessage       = fmt.Errorf("%w: message body is empty", ErrInvalidInput)
	ErrMessageTooLong     = fmt.Errorf("%w: message body is too long", ErrInvalidInput)
	ErrInvalidAmount      = fmt.Errorf("%w: amount must be a positive whole number", ErrInvalidInput)
	ErrInvalidDirection   = fmt.Errorf("%w: direction must be send or request", ErrInvalidInput)
	ErrTransferNotFound   = fmt.Errorf("transfer %w", ErrNotFound)
	ErrTransferDecided    = fmt.Errorf("%w: transfer already decided", ErrInvalidState)
	ErrNotTransferDecider = fmt.Errorf("%w: only the counterparty may decide this transfer", ErrForbidden)
)

// IsError reports whether err matches target anywhere in its chain.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
