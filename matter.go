// Package matter provides the runtime support used by code that the
// mattergen generator emits. Generated artifacts depend on this package
// only: structural hashing lives in DeepHash, and contract violations in
// generated constructors and setters are signaled with NullArgumentError.
package matter

import "math"

// Canonical quiet NaN bit patterns, matching Float32Bits and Float64Bits
// below.
const (
	canonicalNaN32 = 0x7fc00000
	canonicalNaN64 = 0x7ff8000000000000
)

// Float32Bits returns the IEEE 754 bit pattern of f with every NaN
// collapsed to the single canonical quiet NaN, so any two NaNs compare
// and hash identically. Generated Equal and HashCode methods use it for
// float32 fields.
func Float32Bits(f float32) uint32 {
	if f != f {
		return canonicalNaN32
	}
	return math.Float32bits(f)
}

// Float64Bits is the float64 form of Float32Bits.
func Float64Bits(f float64) uint64 {
	if f != f {
		return canonicalNaN64
	}
	return math.Float64bits(f)
}

// NullArgumentError reports that a nil value was passed for a field whose
// null-enforcement policy forbids absence. It is raised via panic by
// generated constructors and setters and is never recovered by generated
// code.
type NullArgumentError struct {
	// Name is the schema name of the offending field or argument.
	Name string
}

// Error implements the error interface.
func (e *NullArgumentError) Error() string {
	return "matter: null argument: " + e.Name
}

// NullArgument panics with a *NullArgumentError for the named argument.
// Generated code calls it on enforcement failures.
func NullArgument(name string) {
	panic(&NullArgumentError{Name: name})
}
