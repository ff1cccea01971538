// Package gen implements the matter generation engine: it validates target
// schemas, classifies their fields, and produces abstract generation plans
// for the value and builder types. Rendering plans into source text is the
// job of compiler/emit.
package gen

import "fmt"

// ScalarKind enumerates the eight primitive scalar kinds recognized by the
// classifier.
type ScalarKind uint8

const (
	ScalarInvalid ScalarKind = iota
	ScalarBool
	ScalarInt8
	ScalarInt16
	ScalarInt32
	ScalarInt64
	ScalarChar
	ScalarFloat32
	ScalarFloat64
)

var scalarNames = [...]string{
	ScalarInvalid: "invalid",
	ScalarBool:    "bool",
	ScalarInt8:    "int8",
	ScalarInt16:   "int16",
	ScalarInt32:   "int32",
	ScalarInt64:   "int64",
	ScalarChar:    "char",
	ScalarFloat32: "float32",
	ScalarFloat64: "float64",
}

// String returns the kind name.
func (k ScalarKind) String() string {
	if int(k) < len(scalarNames) {
		return scalarNames[k]
	}
	return fmt.Sprintf("ScalarKind(%d)", k)
}

// RawKind tags the structural shape of a RawType descriptor.
type RawKind uint8

const (
	// RawUnresolved marks a descriptor that could not be resolved to a
	// concrete shape. Classification of such a descriptor fails with
	// ErrUnresolvedType.
	RawUnresolved RawKind = iota
	// RawBasic is a predeclared basic type (bool, int32, string, ...).
	RawBasic
	// RawNamed is a defined or alias type, possibly from another package.
	RawNamed
	// RawPointer is *Elem.
	RawPointer
	// RawSlice is []Elem.
	RawSlice
	// RawArray is [Len]Elem.
	RawArray
	// RawMap is map[Key]Elem.
	RawMap
)

// RawType is an abstract descriptor of a declared field type. It carries
// just enough structure for shape matching and for rendering the type in a
// generation plan; the engine never consults go/types directly.
type RawType struct {
	Kind    RawKind
	Name    string // type name for RawBasic and RawNamed
	PkgPath string // import path for RawNamed, empty for local and basic types
	Elem    *RawType
	Key     *RawType // map key
	Len     int64    // array length
	Scalar  ScalarKind
	// Nilable reports whether the zero value of the type is nil. It is
	// true for pointers, slices and maps structurally, and set by the
	// descriptor producer for named interface, function and channel types.
	Nilable bool
}

// String renders the descriptor in Go type syntax, for diagnostics.
func (t *RawType) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case RawBasic:
		return t.Name
	case RawNamed:
		if t.PkgPath != "" {
			return t.PkgPath + "." + t.Name
		}
		return t.Name
	case RawPointer:
		return "*" + t.Elem.String()
	case RawSlice:
		return "[]" + t.Elem.String()
	case RawArray:
		return fmt.Sprintf("[%d]%s", t.Len, t.Elem.String())
	case RawMap:
		return fmt.Sprintf("map[%s]%s", t.Key.String(), t.Elem.String())
	default:
		return "unresolved(" + t.Name + ")"
	}
}

// CategoryKind tags a field category. The set is closed: every generator
// switch over it is exhaustive.
type CategoryKind uint8

const (
	KindScalar CategoryKind = iota + 1
	KindReference
	KindArray
	KindCollection
	KindSet
	KindMap
	KindOptional
)

var categoryNames = map[CategoryKind]string{
	KindScalar:     "Scalar",
	KindReference:  "Reference",
	KindArray:      "Array",
	KindCollection: "Collection",
	KindSet:        "Set",
	KindMap:        "Map",
	KindOptional:   "Optional",
}

// String returns the category name.
func (k CategoryKind) String() string {
	if s, ok := categoryNames[k]; ok {
		return s
	}
	return fmt.Sprintf("CategoryKind(%d)", k)
}

// Category is the classification of a field type: a kind tag plus the
// element descriptors the kind carries (Scalar{kind}, Array{elem},
// Collection{elem}, Set{elem}, Map{key,value}, Optional{inner}).
type Category struct {
	Kind   CategoryKind
	Scalar ScalarKind // KindScalar only
	Elem   *RawType   // Array/Collection/Set element, Optional inner
	Key    *RawType   // KindMap key
	Value  *RawType   // KindMap value
	Len    int64      // KindArray length
}

// FieldSchema is one classified field of a target. It is immutable once
// produced by the classifier.
type FieldSchema struct {
	// Name is the field identifier, unique within the owning schema.
	Name string
	// Getter is the accessor name on the target interface.
	Getter string
	// Type is the declared type descriptor.
	Type *RawType
	// Category is the classification of Type.
	Category Category
	// Nullable marks a field explicitly permitted to be absent even when
	// its category would otherwise forbid it.
	Nullable bool
}

// TypeSchema is a validated generation target. It owns its field list and
// is constructed once, consumed once, and never mutated after validation.
type TypeSchema struct {
	// Name is the target's simple name, QualifiedName its package path
	// qualified form.
	Name          string
	QualifiedName string
	PkgPath       string
	PkgName       string
	// ValueName and BuilderName identify the generated types. BuilderName
	// is always derived as Name + "Builder".
	ValueName   string
	BuilderName string
	// Fields in declaration order. Order fixes constructor parameter
	// order and String rendering order.
	Fields []*FieldSchema
	// Public controls whether the generated builder is exported.
	Public bool
	// ToBuilder reports that the target declares a Builder accessor, so
	// the generated value overrides it.
	ToBuilder bool
}

// Field returns the field with the given name, or nil.
func (s *TypeSchema) Field(name string) *FieldSchema {
	for _, f := range s.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Target is a candidate generation target as produced by the surrounding
// system (compiler/load in this repo), before validation.
type Target struct {
	Name    string
	PkgPath string
	PkgName string
	// Interface reports whether the target is an interface-shaped
	// contract. Anything else is rejected by the validator.
	Interface bool
	Public    bool
	Accessors []*Accessor
}

// QualifiedName returns the package-qualified target name.
func (t *Target) QualifiedName() string {
	if t.PkgPath == "" {
		return t.Name
	}
	return t.PkgPath + "." + t.Name
}

// Accessor is one raw getter method of a candidate target.
type Accessor struct {
	Name string
	// Arity is the number of declared parameters. Getters have zero.
	Arity int
	// Type is the declared return type descriptor.
	Type *RawType
	// Nullable is set when the accessor carries a nullable marker.
	Nullable bool
}
