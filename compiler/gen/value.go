package gen

import (
	"fmt"

	"github.com/dave/jennifer/jen"
)

// valueDef builds the immutable value type definition: private fields, a
// positional constructor applying the null-enforcement policy, defensive
// getters, builder materialization, and the Equal/HashCode/String trio.
func valueDef(s *TypeSchema) *TypeDef {
	d := &TypeDef{
		Name: s.ValueName,
		Doc:  fmt.Sprintf("%s is the immutable %s implementation.", s.ValueName, s.Name),
	}
	for _, f := range s.Fields {
		d.Fields = append(d.Fields, FieldDecl{Name: structField(f.Name), Type: goType(f.Type)})
	}
	d.Funcs = append(d.Funcs, valueCtor(s))
	for _, f := range s.Fields {
		d.Funcs = append(d.Funcs, valueGetter(s, f))
	}
	d.Funcs = append(d.Funcs,
		valueToBuilder(s),
		valueEqual(s),
		valueHashCode(s),
		valueString(s),
	)
	return d
}

func valueRecvDecl(s *TypeSchema) *ParamDecl {
	return &ParamDecl{Name: valueRecv, Type: jen.Op("*").Id(s.ValueName)}
}

// valueCtorName derives the constructor name for the value type.
func valueCtorName(s *TypeSchema) string {
	return "new" + exported(s.ValueName)
}

// valueCtor builds the positional constructor. Enforced fields reject nil,
// except Collection/Set/Map fields where absence substitutes an empty
// container; container and optional values are copied so the value never
// aliases caller-supplied storage.
func valueCtor(s *TypeSchema) FuncDecl {
	params := make([]ParamDecl, 0, len(s.Fields))
	for _, f := range s.Fields {
		params = append(params, ParamDecl{Name: paramName(f.Name), Type: goType(f.Type)})
	}

	var body []jen.Code
	for _, f := range s.Fields {
		switch f.Category.Kind {
		case KindCollection, KindSet, KindMap, KindOptional:
			// Containers substitute instead of rejecting; optionals model
			// absence themselves.
		default:
			if checksNil(f) {
				body = append(body, nilCheck(jen.Id(paramName(f.Name)), f.Name))
			}
		}
	}
	body = append(body, jen.Id(valueRecv).Op(":=").Op("&").Id(s.ValueName).Values())
	for _, f := range s.Fields {
		body = append(body, valueCtorAssign(f)...)
	}
	body = append(body, jen.Return(jen.Id(valueRecv)))

	return method(nil, valueCtorName(s), "", params, []jen.Code{jen.Op("*").Id(s.ValueName)}, body...)
}

// valueCtorAssign assigns one constructor parameter to its field, applying
// the per-category defensive-copy and empty-substitution rules.
func valueCtorAssign(f *FieldSchema) []jen.Code {
	arg := paramName(f.Name)
	fld := func() *jen.Statement { return jen.Id(valueRecv).Dot(structField(f.Name)) }

	switch f.Category.Kind {
	case KindCollection:
		if EnforceNonNull(f) {
			return []jen.Code{
				jen.If(jen.Id(arg).Op("!=").Nil()).Block(
					fld().Op("=").Qual("slices", "Clone").Call(jen.Id(arg)),
				).Else().Block(
					fld().Op("=").Add(goType(f.Type)).Values(),
				),
			}
		}
		return []jen.Code{fld().Op("=").Qual("slices", "Clone").Call(jen.Id(arg))}
	case KindSet, KindMap:
		if EnforceNonNull(f) {
			return []jen.Code{
				jen.If(jen.Id(arg).Op("!=").Nil()).Block(
					fld().Op("=").Qual("maps", "Clone").Call(jen.Id(arg)),
				).Else().Block(
					fld().Op("=").Add(goType(f.Type)).Values(),
				),
			}
		}
		return []jen.Code{fld().Op("=").Qual("maps", "Clone").Call(jen.Id(arg))}
	case KindOptional:
		return copyPointer(jen.Id(arg), fld())
	default:
		return []jen.Code{fld().Op("=").Id(arg)}
	}
}

// copyPointer stores a fresh copy of the pointee so the optional field
// does not alias the argument's target.
func copyPointer(src jen.Code, dst *jen.Statement) []jen.Code {
	return []jen.Code{
		jen.If(jen.Add(src).Op("!=").Nil()).Block(
			jen.Id("_p").Op(":=").Op("*").Add(src),
			dst.Op("=").Op("&").Id("_p"),
		),
	}
}

// valueGetter builds one accessor. Container getters return fresh clones
// over the private copy; the returned containers of two calls compare
// equal but never share backing storage with the value or with each
// other.
func valueGetter(s *TypeSchema, f *FieldSchema) FuncDecl {
	fld := func() *jen.Statement { return jen.Id(valueRecv).Dot(structField(f.Name)) }

	var body []jen.Code
	switch f.Category.Kind {
	case KindCollection:
		body = []jen.Code{jen.Return(jen.Qual("slices", "Clone").Call(fld()))}
	case KindSet, KindMap:
		body = []jen.Code{jen.Return(jen.Qual("maps", "Clone").Call(fld()))}
	case KindOptional:
		body = []jen.Code{
			jen.If(fld().Op("==").Nil()).Block(jen.Return(jen.Nil())),
			jen.Id("_p").Op(":=").Op("*").Add(fld()),
			jen.Return(jen.Op("&").Id("_p")),
		}
	default:
		body = []jen.Code{jen.Return(fld())}
	}

	return method(valueRecvDecl(s), f.Getter, "", nil, []jen.Code{goType(f.Type)}, body...)
}

// valueToBuilder builds the builder-materialization method. It is always
// generated; targets that declare it get it as their interface override.
func valueToBuilder(s *TypeSchema) FuncDecl {
	return method(valueRecvDecl(s), "Builder",
		fmt.Sprintf("Builder returns a new %s seeded with this value's fields.", s.BuilderName),
		nil,
		[]jen.Code{jen.Op("*").Id(s.BuilderName)},
		jen.Return(jen.Id(copyValueCtorName(s)).Call(jen.Id(valueRecv))),
	)
}

// valueEqual builds structural equality: field by field in schema order,
// short-circuiting on the first mismatch.
func valueEqual(s *TypeSchema) FuncDecl {
	body := []jen.Code{
		jen.List(jen.Id("that"), jen.Id("ok")).Op(":=").Id("o").Assert(jen.Id(s.Name)),
		jen.If(jen.Op("!").Id("ok")).Block(jen.Return(jen.False())),
	}
	if len(s.Fields) == 0 {
		body = append(body, jen.Id("_").Op("=").Id("that"))
	}
	for _, f := range s.Fields {
		body = append(body, jen.If(notEqualCond(f)).Block(jen.Return(jen.False())))
	}
	body = append(body, jen.Return(jen.True()))

	return method(valueRecvDecl(s), "Equal",
		fmt.Sprintf("Equal reports structural equality with another %s.", s.Name),
		[]ParamDecl{{Name: "o", Type: jen.Any()}},
		[]jen.Code{jen.Bool()},
		body...,
	)
}

// valueHashCode builds the running 31-accumulator over the fields in
// schema order. Two equal values hash identically; the accumulation is
// field-order-sensitive and deterministic.
func valueHashCode(s *TypeSchema) FuncDecl {
	body := []jen.Code{jen.Id("result").Op(":=").Id("int32").Call(jen.Lit(1))}
	if hashNeedsTemp(s.Fields) {
		body = append(body, jen.Var().Id("temp").Id("uint64"))
	}
	for _, f := range s.Fields {
		body = append(body, hashStmts(f)...)
	}
	body = append(body, jen.Return(jen.Id("result")))

	return method(valueRecvDecl(s), "HashCode",
		"HashCode returns a deterministic structural hash of the value.",
		nil,
		[]jen.Code{jen.Id("int32")},
		body...,
	)
}

// valueString builds the schema-ordered string rendering.
func valueString(s *TypeSchema) FuncDecl {
	return method(valueRecvDecl(s), "String", "",
		nil,
		[]jen.Code{jen.String()},
		stringBody(s)...,
	)
}

// paramName keeps constructor and setter parameter names clear of Go
// keywords.
func paramName(name string) string {
	return structField(name)
}
