package gen

// EnforceNonNull reports whether absence is forbidden for the field.
// Scalars have no absence concept and explicitly nullable fields opt out;
// every other category is enforced. The flag governs constructor-time
// rejection, empty-container substitution and setter-time rejection in the
// generated code.
//
// Optional fields are enforced at the wrapper level for policy purposes
// but the wrapper itself models absence, so generated code never
// nil-checks the wrapper; the flag instead controls how the unwrapped
// convenience setter treats a nil inner value.
func EnforceNonNull(f *FieldSchema) bool {
	if f.Nullable {
		return false
	}
	return f.Category.Kind != KindScalar
}

// nilableType reports whether a descriptor's rendered Go type can hold
// nil. Emitted nil checks are restricted to nilable types; an enforced
// reference of a non-nilable type (a struct value, a string) behaves like
// a scalar at runtime while keeping its policy classification.
func nilableType(t *RawType) bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case RawPointer, RawSlice, RawMap:
		return true
	case RawNamed:
		return t.Nilable
	default:
		return false
	}
}

// checksNil reports whether the generated setter or constructor should
// emit a nil rejection for the field's own value.
func checksNil(f *FieldSchema) bool {
	return EnforceNonNull(f) && nilableType(f.Type)
}

// checksNilElem reports whether container mutators should reject nil
// elements of t.
func checksNilElem(t *RawType) bool {
	return nilableType(t)
}
