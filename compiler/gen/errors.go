package gen

import (
	"errors"
	"strings"
)

// Sentinel errors for the generation-time failure taxonomy. All three are
// reported to the diagnostics sink and abort only the target that raised
// them; sibling targets in a batch keep processing.
var (
	// ErrInvalidTargetShape indicates the target is not a valid field
	// contract (not interface-shaped, non-getter methods, duplicate
	// fields).
	ErrInvalidTargetShape = errors.New("matter: invalid target shape")
	// ErrBuilderReturnTypeMismatch indicates a declared builder accessor
	// whose return type does not name the derived builder type.
	ErrBuilderReturnTypeMismatch = errors.New("matter: builder return type mismatch")
	// ErrUnresolvedType indicates a field type that cannot be resolved to
	// a concrete shape.
	ErrUnresolvedType = errors.New("matter: unresolved type")
)

// TargetError is a generation-time error attached to a single target.
type TargetError struct {
	// Target is the qualified name of the originating target.
	Target string
	// Field names the offending field when the failure is field-scoped.
	Field string
	// Message describes the failure.
	Message string

	sentinel error
}

// Error implements the error interface.
func (e *TargetError) Error() string {
	var b strings.Builder
	b.WriteString(e.sentinel.Error())
	if e.Target != "" {
		b.WriteString(" on target ")
		b.WriteString(e.Target)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Unwrap returns the sentinel this error was created with.
func (e *TargetError) Unwrap() error {
	return e.sentinel
}

// NewTargetError creates a TargetError wrapping one of the sentinel errors.
func NewTargetError(sentinel error, target, field, message string) *TargetError {
	return &TargetError{
		Target:   target,
		Field:    field,
		Message:  message,
		sentinel: sentinel,
	}
}
