package gen

// Shape enumerates the well-known shapes the resolution oracle answers for.
type Shape uint8

const (
	// ShapeOptional is a type modeling at-most-one value: a pointer, or a
	// named single-argument optional wrapper recognized by the resolver.
	ShapeOptional Shape = iota + 1
	// ShapeList is an ordered element container.
	ShapeList
	// ShapeSet is an unordered unique-element container.
	ShapeSet
	// ShapeMap is a two-argument key/value container.
	ShapeMap
	// ShapePrimitive is one of the eight scalar kinds.
	ShapePrimitive
)

// Resolver is the type-resolution oracle. The engine only ever asks it two
// questions: whether a descriptor matches a well-known shape, and whether a
// descriptor resolves to a usable type at all.
type Resolver interface {
	MatchShape(t *RawType, s Shape) bool
	Accessible(t *RawType) bool
}

// DefaultResolver answers shape queries for Go type descriptors: pointers
// are optionals, slices are lists, maps with an empty-struct value are
// sets, other maps are maps, and basic types with a scalar kind are
// primitives.
type DefaultResolver struct{}

// MatchShape implements Resolver.
func (DefaultResolver) MatchShape(t *RawType, s Shape) bool {
	if t == nil {
		return false
	}
	switch s {
	case ShapeOptional:
		return t.Kind == RawPointer
	case ShapeList:
		return t.Kind == RawSlice
	case ShapeSet:
		return t.Kind == RawMap && isEmptyStruct(t.Elem)
	case ShapeMap:
		return t.Kind == RawMap && !isEmptyStruct(t.Elem)
	case ShapePrimitive:
		return t.Kind == RawBasic && t.Scalar != ScalarInvalid
	default:
		return false
	}
}

// Accessible implements Resolver.
func (DefaultResolver) Accessible(t *RawType) bool {
	return t != nil && t.Kind != RawUnresolved
}

// isEmptyStruct recognizes the struct{} set-element marker. The descriptor
// producer encodes struct{} as a named type with the empty name "struct{}".
func isEmptyStruct(t *RawType) bool {
	return t != nil && t.Kind == RawNamed && t.Name == "struct{}" && t.PkgPath == ""
}

// Classify maps a raw type descriptor to its field category. It is total
// over resolvable descriptors; an unresolvable descriptor fails with
// ErrUnresolvedType. First match wins, in the fixed order optional, list,
// set, map, array, scalar; anything left is a reference.
func Classify(t *RawType, r Resolver) (Category, error) {
	if !r.Accessible(t) {
		return Category{}, NewTargetError(ErrUnresolvedType, "", "", t.String())
	}
	switch {
	case r.MatchShape(t, ShapeOptional):
		return Category{Kind: KindOptional, Elem: t.Elem}, nil
	case r.MatchShape(t, ShapeList):
		return Category{Kind: KindCollection, Elem: t.Elem}, nil
	case r.MatchShape(t, ShapeSet):
		return Category{Kind: KindSet, Elem: t.Key}, nil
	case r.MatchShape(t, ShapeMap):
		return Category{Kind: KindMap, Key: t.Key, Value: t.Elem}, nil
	case t.Kind == RawArray:
		return Category{Kind: KindArray, Elem: t.Elem, Len: t.Len}, nil
	case r.MatchShape(t, ShapePrimitive):
		return Category{Kind: KindScalar, Scalar: t.Scalar}, nil
	default:
		return Category{Kind: KindReference}, nil
	}
}
