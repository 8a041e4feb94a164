package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations. A *StoreError
// carries one of these as its Kind so callers can classify failures with
// errors.Is without knowing which relational store produced them.
var (
	// ErrDuplicate is returned when a statement violates a unique constraint.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored, or when a result row cannot be mapped to an entity.
	// Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrConstraint is returned for not-null, check and foreign key violations.
	ErrConstraint = errors.New("constraint violation")

	// ErrMissingRelation is returned when a statement references a table or
	// column that does not exist.
	ErrMissingRelation = errors.New("missing relation")

	// ErrSyntax is returned when the store rejects the statement text.
	ErrSyntax = errors.New("statement syntax error")

	// ErrBindCount is returned when the number of bound parameters does not
	// match the number of placeholders in the statement.
	ErrBindCount = errors.New("bind parameter count mismatch")

	// ErrStatementTimeout is returned when a statement exceeds the configured
	// per-statement timeout.
	ErrStatementTimeout = errors.New("statement timeout")
)

// Codes used for failures detected before or around the driver call. Store
// failures use the store's native code instead.
const (
	CodeBindCountMismatch = "BIND_COUNT_MISMATCH"
	CodeStatementTimeout  = "STATEMENT_TIMEOUT"
	CodeUnknown           = "UNKNOWN"
)

// StoreError is a store failure with the native error details attached.
type StoreError struct {
	Operation string // The operation that failed (e.g., "query", "insert")
	Code      string // Native symbolic code or SQLSTATE (e.g., "ER_NO_SUCH_TABLE", "42P01")
	Number    int    // Native numeric code when the store has one, otherwise 0
	Message   string // Native error message
	Kind      error  // Classification sentinel, may be nil
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	code := e.Code
	if e.Number != 0 {
		code = fmt.Sprintf("%s %d", e.Code, e.Number)
	}
	return fmt.Sprintf("%s failed: [%s] %s", e.Operation, code, e.Message)
}

// Unwrap exposes both the classification sentinel and the original error to
// errors.Is and errors.As.
func (e *StoreError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NewStoreError creates a StoreError without a native number. Dialects that
// know the number set it on the returned value.
func NewStoreError(operation, code, message string, kind, err error) *StoreError {
	return &StoreError{
		Operation: operation,
		Code:      code,
		Message:   message,
		Kind:      kind,
		Err:       err,
	}
}

// Code returns the native code of the first StoreError in err's chain, or the
// empty string when there is none.
func Code(err error) string {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsDuplicateError reports whether err is a unique constraint violation.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
