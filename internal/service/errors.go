package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Error kinds. Match with errors.Is; every error a service returns wraps exactly one.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrConflict          = errors.New("conflict")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrInternal          = errors.New("internal error")
)

// Error carries a client-facing message. Cause holds the underlying failure for logs only.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...interface{}) error {
	return newError(ErrNotFound, format, args...)
}

func invalidInput(format string, args ...interface{}) error {
	return newError(ErrInvalidInput, format, args...)
}

func conflict(format string, args ...interface{}) error {
	return newError(ErrConflict, format, args...)
}

func unauthorized(format string, args ...interface{}) error {
	return newError(ErrUnauthorized, format, args...)
}

func forbidden(format string, args ...interface{}) error {
	return newError(ErrForbidden, format, args...)
}

func internal(cause error) error {
	return &Error{Kind: ErrInternal, Message: "internal server error", Cause: cause}
}

// InsufficientStockError reports the stock level that refused the request.
type InsufficientStockError struct {
	Current   decimal.Decimal
	Requested decimal.Decimal
	BaseUnit  string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock! Current: %s %s", e.Current.String(), e.BaseUnit)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// isKnown reports whether err already carries one of the error kinds above.
func isKnown(err error) bool {
	var se *Error
	var ie *InsufficientStockError
	return errors.As(err, &se) || errors.As(err, &ie)
}
