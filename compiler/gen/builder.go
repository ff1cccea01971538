package gen

import (
	"fmt"
	"strconv"

	"github.com/dave/jennifer/jen"
)

// mapArities is the number of fixed-arity map convenience mutators. Each
// arity delegates to the one below it, so validation and instantiation
// behavior is identical at every entry point.
const mapArities = 5

// builderDef builds the mutable builder type definition: mirrored private
// fields, three constructors, per-category accessors, Build, and the two
// static factories.
func builderDef(s *TypeSchema) *TypeDef {
	d := &TypeDef{
		Name: s.BuilderName,
		Doc:  fmt.Sprintf("%s is a mutable builder for %s values.", s.BuilderName, s.Name),
	}
	for _, f := range s.Fields {
		d.Fields = append(d.Fields, FieldDecl{Name: structField(f.Name), Type: goType(f.Type)})
	}

	d.Funcs = append(d.Funcs, defaultCtor(s), copyValueCtor(s), copyBuilderCtor(s))
	for _, f := range s.Fields {
		d.Funcs = append(d.Funcs, builderGetter(s, f))
		d.Funcs = append(d.Funcs, builderSetters(s, f)...)
	}
	if s.ToBuilder {
		d.Funcs = append(d.Funcs, builderToBuilder(s))
	}
	d.Funcs = append(d.Funcs, buildMethod(s), fromValueFactory(s), fromBuilderFactory(s))
	return d
}

func builderRecvDecl(s *TypeSchema) *ParamDecl {
	return &ParamDecl{Name: builderRecv, Type: jen.Op("*").Id(s.BuilderName)}
}

func builderResult(s *TypeSchema) []jen.Code {
	return []jen.Code{jen.Op("*").Id(s.BuilderName)}
}

func returnSelf() jen.Code {
	return jen.Return(jen.Id(builderRecv))
}

func defaultCtorName(s *TypeSchema) string {
	if s.Public {
		return "New" + s.BuilderName
	}
	return "new" + exported(s.BuilderName)
}

func copyValueCtorName(s *TypeSchema) string {
	return "new" + exported(s.BuilderName) + "FromValue"
}

func copyBuilderCtorName(s *TypeSchema) string {
	return "new" + exported(s.BuilderName) + "FromBuilder"
}

// defaultCtor builds the zero-initializing constructor. Enforced optional
// fields start at their empty sentinel, which for a pointer rendering is
// the zero value itself.
func defaultCtor(s *TypeSchema) FuncDecl {
	return method(nil, defaultCtorName(s),
		fmt.Sprintf("%s returns an empty builder.", defaultCtorName(s)),
		nil, builderResult(s),
		jen.Return(jen.Op("&").Id(s.BuilderName).Values()),
	)
}

// copyValueCtor copies a value's fields through its accessors.
// Collection, Set and Map fields are re-copied into fresh mutable
// containers, or left absent when the source was absent.
func copyValueCtor(s *TypeSchema) FuncDecl {
	body := []jen.Code{jen.Id(builderRecv).Op(":=").Op("&").Id(s.BuilderName).Values()}
	for _, f := range s.Fields {
		fld := func() *jen.Statement { return jen.Id(builderRecv).Dot(structField(f.Name)) }
		src := jen.Id("v").Dot(f.Getter).Call()
		switch f.Category.Kind {
		case KindCollection:
			body = append(body, fld().Op("=").Qual("slices", "Clone").Call(src))
		case KindSet, KindMap:
			body = append(body, fld().Op("=").Qual("maps", "Clone").Call(src))
		case KindOptional:
			tmp := "_" + f.Name
			body = append(body, jen.If(
				jen.Id(tmp).Op(":=").Add(src),
				jen.Id(tmp).Op("!=").Nil(),
			).Block(
				jen.Id("_p").Op(":=").Op("*").Id(tmp),
				fld().Op("=").Op("&").Id("_p"),
			))
		default:
			body = append(body, fld().Op("=").Add(src))
		}
	}
	body = append(body, returnSelf())

	return method(nil, copyValueCtorName(s), "",
		[]ParamDecl{{Name: "v", Type: jen.Id(s.Name)}},
		builderResult(s), body...)
}

// copyBuilderCtor copies another builder's fields directly, with the same
// container re-copy rules as copyValueCtor.
func copyBuilderCtor(s *TypeSchema) FuncDecl {
	body := []jen.Code{jen.Id(builderRecv).Op(":=").Op("&").Id(s.BuilderName).Values()}
	for _, f := range s.Fields {
		fld := func() *jen.Statement { return jen.Id(builderRecv).Dot(structField(f.Name)) }
		src := func() *jen.Statement { return jen.Id("v").Dot(structField(f.Name)) }
		switch f.Category.Kind {
		case KindCollection:
			body = append(body, fld().Op("=").Qual("slices", "Clone").Call(src()))
		case KindSet, KindMap:
			body = append(body, fld().Op("=").Qual("maps", "Clone").Call(src()))
		case KindOptional:
			body = append(body, copyPointer(src(), fld())...)
		default:
			body = append(body, fld().Op("=").Add(src()))
		}
	}
	body = append(body, returnSelf())

	return method(nil, copyBuilderCtorName(s), "",
		[]ParamDecl{{Name: "v", Type: jen.Op("*").Id(s.BuilderName)}},
		builderResult(s), body...)
}

// builderGetter builds the live accessor. Container fields under
// enforcement lazily instantiate an empty mutable container on first
// read; the returned container is the builder's own aliasable state,
// unlike the value type's defensive getters.
func builderGetter(s *TypeSchema, f *FieldSchema) FuncDecl {
	fld := func() *jen.Statement { return jen.Id(builderRecv).Dot(structField(f.Name)) }

	var body []jen.Code
	switch f.Category.Kind {
	case KindCollection, KindSet, KindMap:
		if EnforceNonNull(f) {
			body = append(body, lazyInit(f))
		}
	}
	body = append(body, jen.Return(fld()))

	return method(builderRecvDecl(s), f.Getter, "", nil, []jen.Code{goType(f.Type)}, body...)
}

// lazyInit instantiates an absent container field in place.
func lazyInit(f *FieldSchema) jen.Code {
	fld := jen.Id(builderRecv).Dot(structField(f.Name))
	return jen.If(jen.Add(fld).Op("==").Nil()).Block(
		jen.Id(builderRecv).Dot(structField(f.Name)).Op("=").Add(goType(f.Type)).Values(),
	)
}

// builderSetters dispatches on the field category to produce the mutator
// family.
func builderSetters(s *TypeSchema, f *FieldSchema) []FuncDecl {
	switch f.Category.Kind {
	case KindOptional:
		return optionalSetters(s, f)
	case KindCollection:
		return collectionMutators(s, f)
	case KindSet:
		return setMutators(s, f)
	case KindMap:
		return mapMutators(s, f)
	default:
		return []FuncDecl{simpleSetter(s, f)}
	}
}

// simpleSetter is the scalar/reference/array mutator.
func simpleSetter(s *TypeSchema, f *FieldSchema) FuncDecl {
	arg := paramName(f.Name)
	var body []jen.Code
	if checksNil(f) {
		body = append(body, nilCheck(jen.Id(arg), f.Name))
	}
	body = append(body,
		jen.Id(builderRecv).Dot(structField(f.Name)).Op("=").Id(arg),
		returnSelf(),
	)
	return method(builderRecvDecl(s), "Set"+f.Getter,
		fmt.Sprintf("Set%s sets the %s field.", f.Getter, f.Name),
		[]ParamDecl{{Name: arg, Type: goType(f.Type)}},
		builderResult(s), body...)
}

// optionalSetters builds the two optional mutators: one accepting the
// unwrapped inner value (a nil inner of a nilable type produces the empty
// sentinel, never a panic), and one accepting the pointer form directly,
// stored as a fresh copy of the pointee.
func optionalSetters(s *TypeSchema, f *FieldSchema) []FuncDecl {
	inner := f.Category.Elem
	arg := paramName(f.Name)
	fld := func() *jen.Statement { return jen.Id(builderRecv).Dot(structField(f.Name)) }

	var rawBody []jen.Code
	if nilableType(inner) {
		rawBody = append(rawBody, jen.If(jen.Id(arg).Op("==").Nil()).Block(
			fld().Op("=").Nil(),
			returnSelf(),
		))
	}
	rawBody = append(rawBody,
		fld().Op("=").Op("&").Id(arg),
		returnSelf(),
	)
	raw := method(builderRecvDecl(s), "Set"+f.Getter,
		fmt.Sprintf("Set%s sets the %s field to a present value.", f.Getter, f.Name),
		[]ParamDecl{{Name: arg, Type: goType(inner)}},
		builderResult(s), rawBody...)

	wrapped := method(builderRecvDecl(s), "SetNillable"+f.Getter,
		fmt.Sprintf("SetNillable%s sets the %s field; nil clears it to absent.", f.Getter, f.Name),
		[]ParamDecl{{Name: arg, Type: goType(f.Type)}},
		builderResult(s),
		jen.If(jen.Id(arg).Op("==").Nil()).Block(
			fld().Op("=").Nil(),
			returnSelf(),
		),
		jen.Id("_p").Op(":=").Op("*").Id(arg),
		fld().Op("=").Op("&").Id("_p"),
		returnSelf(),
	)

	return []FuncDecl{raw, wrapped}
}

// containerNilGuard emits the shared nil-argument handling of
// replace-style mutators: enforced fields reject outright, unenforced
// fields clear to absent.
func containerNilGuard(f *FieldSchema) jen.Code {
	arg := paramName(f.Name)
	if EnforceNonNull(f) {
		return nilCheck(jen.Id(arg), f.Name)
	}
	return jen.If(jen.Id(arg).Op("==").Nil()).Block(
		jen.Id(builderRecv).Dot(structField(f.Name)).Op("=").Nil(),
		returnSelf(),
	)
}

// elemNilCheck guards one container element when enforcement applies and
// the element type is nilable.
func elemNilCheck(f *FieldSchema, t *RawType, item jen.Code, what string) (jen.Code, bool) {
	if !EnforceNonNull(f) || !checksNilElem(t) {
		return nil, false
	}
	return jen.If(jen.Add(item).Op("==").Nil()).Block(
		jen.Qual(runtimePkg, "NullArgument").Call(jen.Lit(f.Name+": "+what)),
	), true
}

func seqType(elem *RawType) jen.Code {
	return jen.Qual("iter", "Seq").Index(goType(elem))
}

// collectionMutators builds the list-field family: replace from slice,
// replace from sequence, variadic (delegating to the slice form), and the
// singular appender when the name singularizes cleanly.
func collectionMutators(s *TypeSchema, f *FieldSchema) []FuncDecl {
	arg := paramName(f.Name)
	fld := func() *jen.Statement { return jen.Id(builderRecv).Dot(structField(f.Name)) }
	decls := make([]FuncDecl, 0, 4)

	// Replace from same-typed slice.
	var body []jen.Code
	body = append(body, containerNilGuard(f))
	if check, ok := elemNilCheck(f, f.Category.Elem, jen.Id("_item"), "nil item"); ok {
		body = append(body, jen.For(jen.List(jen.Id("_"), jen.Id("_item")).Op(":=").Range().Id(arg)).Block(check))
	}
	body = append(body, fld().Op("=").Qual("slices", "Clone").Call(jen.Id(arg)), returnSelf())
	decls = append(decls, method(builderRecvDecl(s), "Set"+f.Getter,
		fmt.Sprintf("Set%s replaces the %s field with a copy of the given slice.", f.Getter, f.Name),
		[]ParamDecl{{Name: arg, Type: goType(f.Type)}},
		builderResult(s), body...))

	// Replace from sequence.
	body = []jen.Code{containerNilGuard(f), fld().Op("=").Add(goType(f.Type)).Values()}
	var loop []jen.Code
	if check, ok := elemNilCheck(f, f.Category.Elem, jen.Id("_item"), "nil item"); ok {
		loop = append(loop, check)
	}
	loop = append(loop, fld().Op("=").Append(fld(), jen.Id("_item")))
	body = append(body, jen.For(jen.Id("_item").Op(":=").Range().Id(arg)).Block(loop...), returnSelf())
	decls = append(decls, method(builderRecvDecl(s), "Set"+f.Getter+"Seq",
		fmt.Sprintf("Set%sSeq replaces the %s field with the elements of a sequence.", f.Getter, f.Name),
		[]ParamDecl{{Name: arg, Type: seqType(f.Category.Elem)}},
		builderResult(s), body...))

	// Variadic, delegating to the slice form. A zero-argument call passes
	// a nil slice, but zero elements is not absence.
	decls = append(decls, method(builderRecvDecl(s), "Set"+f.Getter+"Of",
		fmt.Sprintf("Set%sOf replaces the %s field with the given elements.", f.Getter, f.Name),
		[]ParamDecl{{Name: arg, Type: goType(f.Category.Elem), Variadic: true}},
		builderResult(s),
		jen.If(jen.Id(arg).Op("==").Nil()).Block(
			jen.Id(arg).Op("=").Add(goType(f.Type)).Values(),
		),
		jen.Return(jen.Id(builderRecv).Dot("Set"+f.Getter).Call(jen.Id(arg))),
	))

	if sg, ok := singular(f.Name); ok {
		name := "Add" + exported(sg)
		var addBody []jen.Code
		if check, ok := elemNilCheck(f, f.Category.Elem, jen.Id(sg), sg); ok {
			addBody = append(addBody, check)
		}
		addBody = append(addBody,
			lazyInit(f),
			fld().Op("=").Append(fld(), jen.Id(sg)),
			returnSelf(),
		)
		decls = append(decls, method(builderRecvDecl(s), name,
			fmt.Sprintf("%s appends one element to the %s field, creating it if absent.", name, f.Name),
			[]ParamDecl{{Name: sg, Type: goType(f.Category.Elem)}},
			builderResult(s), addBody...))
	}
	return decls
}

// setMutators builds the set-field family: replace from same-typed set,
// replace from slice, replace from sequence, variadic (delegating to the
// slice form), and the singular appender.
func setMutators(s *TypeSchema, f *FieldSchema) []FuncDecl {
	arg := paramName(f.Name)
	elem := f.Category.Elem
	fld := func() *jen.Statement { return jen.Id(builderRecv).Dot(structField(f.Name)) }
	insert := func(item jen.Code) jen.Code {
		return jen.Id(builderRecv).Dot(structField(f.Name)).Index(item).Op("=").Struct().Values()
	}
	decls := make([]FuncDecl, 0, 5)

	// Replace from same-typed set.
	var body []jen.Code
	body = append(body, containerNilGuard(f))
	if check, ok := elemNilCheck(f, elem, jen.Id("_item"), "nil item"); ok {
		body = append(body, jen.For(jen.Id("_item").Op(":=").Range().Id(arg)).Block(check))
	}
	body = append(body, fld().Op("=").Qual("maps", "Clone").Call(jen.Id(arg)), returnSelf())
	decls = append(decls, method(builderRecvDecl(s), "Set"+f.Getter,
		fmt.Sprintf("Set%s replaces the %s field with a copy of the given set.", f.Getter, f.Name),
		[]ParamDecl{{Name: arg, Type: goType(f.Type)}},
		builderResult(s), body...))

	// Replace from slice.
	body = []jen.Code{
		containerNilGuard(f),
		fld().Op("=").Make(goType(f.Type), jen.Len(jen.Id(arg))),
	}
	var loop []jen.Code
	if check, ok := elemNilCheck(f, elem, jen.Id("_item"), "nil item"); ok {
		loop = append(loop, check)
	}
	loop = append(loop, insert(jen.Id("_item")))
	body = append(body, jen.For(jen.List(jen.Id("_"), jen.Id("_item")).Op(":=").Range().Id(arg)).Block(loop...), returnSelf())
	decls = append(decls, method(builderRecvDecl(s), "Set"+f.Getter+"Slice",
		fmt.Sprintf("Set%sSlice replaces the %s field with the elements of a slice.", f.Getter, f.Name),
		[]ParamDecl{{Name: arg, Type: jen.Index().Add(goType(elem))}},
		builderResult(s), body...))

	// Replace from sequence.
	body = []jen.Code{containerNilGuard(f), fld().Op("=").Add(goType(f.Type)).Values()}
	loop = nil
	if check, ok := elemNilCheck(f, elem, jen.Id("_item"), "nil item"); ok {
		loop = append(loop, check)
	}
	loop = append(loop, insert(jen.Id("_item")))
	body = append(body, jen.For(jen.Id("_item").Op(":=").Range().Id(arg)).Block(loop...), returnSelf())
	decls = append(decls, method(builderRecvDecl(s), "Set"+f.Getter+"Seq",
		fmt.Sprintf("Set%sSeq replaces the %s field with the elements of a sequence.", f.Getter, f.Name),
		[]ParamDecl{{Name: arg, Type: seqType(elem)}},
		builderResult(s), body...))

	// Variadic, delegating to the slice form. A zero-argument call passes
	// a nil slice, but zero elements is not absence.
	decls = append(decls, method(builderRecvDecl(s), "Set"+f.Getter+"Of",
		fmt.Sprintf("Set%sOf replaces the %s field with the given elements.", f.Getter, f.Name),
		[]ParamDecl{{Name: arg, Type: goType(elem), Variadic: true}},
		builderResult(s),
		jen.If(jen.Id(arg).Op("==").Nil()).Block(
			jen.Id(arg).Op("=").Index().Add(goType(elem)).Values(),
		),
		jen.Return(jen.Id(builderRecv).Dot("Set"+f.Getter+"Slice").Call(jen.Id(arg))),
	))

	if sg, ok := singular(f.Name); ok {
		name := "Add" + exported(sg)
		var addBody []jen.Code
		if check, ok := elemNilCheck(f, elem, jen.Id(sg), sg); ok {
			addBody = append(addBody, check)
		}
		addBody = append(addBody, lazyInit(f), insert(jen.Id(sg)), returnSelf())
		decls = append(decls, method(builderRecvDecl(s), name,
			fmt.Sprintf("%s adds one element to the %s field, creating it if absent.", name, f.Name),
			[]ParamDecl{{Name: sg, Type: goType(elem)}},
			builderResult(s), addBody...))
	}
	return decls
}

// mapMutators builds the map-field family: replace from map, the five
// fixed-arity convenience mutators, and the singular put.
func mapMutators(s *TypeSchema, f *FieldSchema) []FuncDecl {
	arg := paramName(f.Name)
	key, val := f.Category.Key, f.Category.Value
	fld := func() *jen.Statement { return jen.Id(builderRecv).Dot(structField(f.Name)) }
	decls := make([]FuncDecl, 0, mapArities+2)

	// Replace from map, entry-by-entry checked under enforcement.
	var body []jen.Code
	body = append(body, containerNilGuard(f))
	keyCheck, hasKeyCheck := elemNilCheck(f, key, jen.Id("_key"), "nil key")
	valCheck, hasValCheck := elemNilCheck(f, val, jen.Id("_val"), "nil value")
	if hasKeyCheck || hasValCheck {
		loop := []jen.Code{}
		if hasKeyCheck {
			loop = append(loop, keyCheck)
		}
		if hasValCheck {
			loop = append(loop, valCheck)
		}
		keyVar := jen.Id("_key")
		if !hasKeyCheck {
			keyVar = jen.Id("_")
		}
		valVar := jen.Id("_val")
		if !hasValCheck {
			valVar = jen.Id("_")
		}
		body = append(body, jen.For(jen.List(keyVar, valVar).Op(":=").Range().Id(arg)).Block(loop...))
	}
	body = append(body, fld().Op("=").Qual("maps", "Clone").Call(jen.Id(arg)), returnSelf())
	decls = append(decls, method(builderRecvDecl(s), "Set"+f.Getter,
		fmt.Sprintf("Set%s replaces the %s field with a copy of the given map.", f.Getter, f.Name),
		[]ParamDecl{{Name: arg, Type: goType(f.Type)}},
		builderResult(s), body...))

	// Fixed-arity forms, each delegating to the one below.
	for n := 1; n <= mapArities; n++ {
		params := make([]ParamDecl, 0, 2*n)
		for i := 1; i <= n; i++ {
			params = append(params,
				ParamDecl{Name: "k" + strconv.Itoa(i), Type: goType(key)},
				ParamDecl{Name: "v" + strconv.Itoa(i), Type: goType(val)},
			)
		}
		kn, vn := "k"+strconv.Itoa(n), "v"+strconv.Itoa(n)

		var body []jen.Code
		if n > 1 {
			args := make([]jen.Code, 0, 2*(n-1))
			for i := 1; i < n; i++ {
				args = append(args, jen.Id("k"+strconv.Itoa(i)), jen.Id("v"+strconv.Itoa(i)))
			}
			body = append(body, jen.Id(builderRecv).Dot("Set"+f.Getter+strconv.Itoa(n-1)).Call(args...))
		}
		if check, ok := elemNilCheck(f, key, jen.Id(kn), kn); ok {
			body = append(body, check)
		}
		if check, ok := elemNilCheck(f, val, jen.Id(vn), vn); ok {
			body = append(body, check)
		}
		if n == 1 {
			body = append(body, fld().Op("=").Add(goType(f.Type)).Values())
		}
		body = append(body, fld().Index(jen.Id(kn)).Op("=").Id(vn), returnSelf())

		name := "Set" + f.Getter + strconv.Itoa(n)
		decls = append(decls, method(builderRecvDecl(s), name,
			fmt.Sprintf("%s replaces the %s field with the given entries.", name, f.Name),
			params, builderResult(s), body...))
	}

	if sg, ok := singular(f.Name); ok {
		name := "Put" + exported(sg)
		var putBody []jen.Code
		if check, ok := elemNilCheck(f, key, jen.Id("key"), sg+": key"); ok {
			putBody = append(putBody, check)
		}
		if check, ok := elemNilCheck(f, val, jen.Id("value"), sg+": value"); ok {
			putBody = append(putBody, check)
		}
		putBody = append(putBody,
			lazyInit(f),
			fld().Index(jen.Id("key")).Op("=").Id("value"),
			returnSelf(),
		)
		decls = append(decls, method(builderRecvDecl(s), name,
			fmt.Sprintf("%s puts one entry into the %s field, creating it if absent.", name, f.Name),
			[]ParamDecl{{Name: "key", Type: goType(key)}, {Name: "value", Type: goType(val)}},
			builderResult(s), putBody...))
	}
	return decls
}

// builderToBuilder copies the builder, mirroring the value's Builder
// materialization for targets that declare the accessor.
func builderToBuilder(s *TypeSchema) FuncDecl {
	return method(builderRecvDecl(s), "Builder",
		"Builder returns a copy of this builder.",
		nil, builderResult(s),
		jen.Return(jen.Id(copyBuilderCtorName(s)).Call(jen.Id(builderRecv))),
	)
}

// buildMethod constructs the immutable value through the value
// constructor, which applies the same defensive-copy and
// empty-substitution rules at every entry point.
func buildMethod(s *TypeSchema) FuncDecl {
	args := make([]jen.Code, 0, len(s.Fields))
	for _, f := range s.Fields {
		args = append(args, jen.Id(builderRecv).Dot(structField(f.Name)))
	}
	return method(builderRecvDecl(s), "Build",
		fmt.Sprintf("Build constructs an immutable %s from the builder's fields.", s.Name),
		nil, []jen.Code{jen.Id(s.Name)},
		jen.Return(jen.Id(valueCtorName(s)).Call(args...)),
	)
}

func fromValueFactory(s *TypeSchema) FuncDecl {
	name := s.BuilderName + "From"
	return method(nil, name,
		fmt.Sprintf("%s returns a new builder seeded with a value's fields.", name),
		[]ParamDecl{{Name: "v", Type: jen.Id(s.Name)}},
		builderResult(s),
		jen.Return(jen.Id(copyValueCtorName(s)).Call(jen.Id("v"))),
	)
}

func fromBuilderFactory(s *TypeSchema) FuncDecl {
	name := s.BuilderName + "FromBuilder"
	return method(nil, name,
		fmt.Sprintf("%s returns a new builder copied from another builder.", name),
		[]ParamDecl{{Name: "v", Type: jen.Op("*").Id(s.BuilderName)}},
		builderResult(s),
		jen.Return(jen.Id(copyBuilderCtorName(s)).Call(jen.Id("v"))),
	)
}
