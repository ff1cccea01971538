package gen

// Descriptor construction helpers shared by the package tests.

func basic(name string, scalar ScalarKind) *RawType {
	return &RawType{Kind: RawBasic, Name: name, Scalar: scalar}
}

func stringType() *RawType {
	return basic("string", ScalarInvalid)
}

func int64Type() *RawType {
	return basic("int64", ScalarInt64)
}

func boolType() *RawType {
	return basic("bool", ScalarBool)
}

func float64Type() *RawType {
	return basic("float64", ScalarFloat64)
}

func ptrTo(elem *RawType) *RawType {
	return &RawType{Kind: RawPointer, Elem: elem, Nilable: true}
}

func sliceOf(elem *RawType) *RawType {
	return &RawType{Kind: RawSlice, Elem: elem, Nilable: true}
}

func arrayOf(n int64, elem *RawType) *RawType {
	return &RawType{Kind: RawArray, Len: n, Elem: elem}
}

func mapOf(key, value *RawType) *RawType {
	return &RawType{Kind: RawMap, Key: key, Elem: value, Nilable: true}
}

func emptyStruct() *RawType {
	return &RawType{Kind: RawNamed, Name: "struct{}"}
}

func setOf(elem *RawType) *RawType {
	return mapOf(elem, emptyStruct())
}

func named(pkg, name string, nilable bool) *RawType {
	return &RawType{Kind: RawNamed, Name: name, PkgPath: pkg, Nilable: nilable}
}

func unresolved(name string) *RawType {
	return &RawType{Kind: RawUnresolved, Name: name}
}

// field classifies a descriptor with the default resolver and wraps it in
// a schema field. Classification is assumed to succeed.
func field(name, getter string, t *RawType) *FieldSchema {
	cat, err := Classify(t, DefaultResolver{})
	if err != nil {
		panic(err)
	}
	return &FieldSchema{Name: name, Getter: getter, Type: t, Category: cat}
}

// personSchema is a schema exercising every field category.
func personSchema() *TypeSchema {
	return &TypeSchema{
		Name:          "Person",
		QualifiedName: "example.com/demo.Person",
		PkgPath:       "example.com/demo",
		PkgName:       "demo",
		ValueName:     "personValue",
		BuilderName:   "PersonBuilder",
		Public:        true,
		Fields: []*FieldSchema{
			field("id", "ID", int64Type()),
			field("name", "Name", stringType()),
			field("active", "Active", boolType()),
			field("score", "Score", float64Type()),
			field("note", "Note", ptrTo(stringType())),
			field("tags", "Tags", sliceOf(stringType())),
			field("roles", "Roles", setOf(stringType())),
			field("counts", "Counts", mapOf(stringType(), int64Type())),
		},
	}
}

func personTarget() *Target {
	return &Target{
		Name:      "Person",
		PkgPath:   "example.com/demo",
		PkgName:   "demo",
		Interface: true,
		Public:    true,
		Accessors: []*Accessor{
			{Name: "ID", Type: int64Type()},
			{Name: "Name", Type: stringType()},
			{Name: "Tags", Type: sliceOf(stringType())},
		},
	}
}
