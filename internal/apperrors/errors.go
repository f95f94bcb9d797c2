package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
// For ledger entries this is the idempotency signal: the (reference, account) pair was already applied.
var ErrDuplicate = errors.New("resource already exists")

// ErrAccountNotActive is returned when an account in pending state takes part in a transfer.
var ErrAccountNotActive = errors.New("account is not active")

// ErrInvalidAmount is returned for zero or negative transfer amounts.
var ErrInvalidAmount = errors.New("amount must be greater than zero")

// ErrInsufficientBalance is returned when the sender cannot cover a transfer.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrConcurrency marks lock contention, deadlock or lock timeout in the store.
// These are transient and safe to retry for ingestion.
var ErrConcurrency = errors.New("concurrent modification")

// ErrPersistence marks an unexpected store failure.
var ErrPersistence = errors.New("persistence failure")

// ErrUnsupportedBank is returned when a bank identifier has no registered strategy.
var ErrUnsupportedBank = errors.New("unsupported bank")

// AppError carries an HTTP-ish status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError builds an AppError. err may be nil.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError wraps ErrNotFound with the name of the missing resource.
func NewNotFoundError(resource string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, resource)
}

// IsRetryable reports whether err is a transient store failure.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrency) || errors.Is(err, ErrPersistence)
}
