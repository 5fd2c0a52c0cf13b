package pricing

import (
	"errors"
	"fmt"

	"github.com/ehc32/Cotizador-V1/internal/money"
)

var (
	ErrInvalidRequest  = errors.New("invalid quote request")
	ErrInvalidBedType  = errors.New("invalid bed type")
	ErrInvalidSpace    = errors.New("invalid additional space")
	ErrNonPositiveArea = errors.New("total area must be greater than zero")
	ErrInvalidAmount   = money.ErrInvalidAmount
	ErrIncompleteQuote = errors.New("incomplete quote")
)

// ValidationError names the request field that was rejected.
type ValidationError struct {
	Field  string
	Err    error
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Field, e.Err, e.Detail)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(field string, err error, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Err: err, Detail: fmt.Sprintf(format, args...)}
}
