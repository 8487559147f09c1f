// internal/util/errors.go
package util

import "errors"

// Ledger error taxonomy. All of these are expected, caller-correctable
// conditions: they carry a human-readable message, are never retried
// automatically, and map to 4xx responses at the API boundary. Anything
// else coming out of the storage layer is treated as opaque and surfaced
// without ledger detail.
var (
	ErrNotFound                = errors.New("resource not found")
	ErrInvalidAmount           = errors.New("amount must be greater than zero")
	ErrInvalidOrder            = errors.New("invalid stock quantity or price")
	ErrInsufficientFunds       = errors.New("insufficient funds")
	ErrSenderAccountNotFound   = errors.New("sender account not found")
	ErrReceiverAccountNotFound = errors.New("receiver account not found")
	ErrAccountNotFound         = errors.New("account not found")
	ErrSelfTransfer            = errors.New("cannot transfer funds to the same account")
	ErrUserNotFound            = errors.New("user not found")
	ErrDuplicateEntry          = errors.New("duplicate entry")
)

// IsError reports whether err wraps target.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
