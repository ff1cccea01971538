package gen

import (
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"
)

// Receiver identifiers used by the generated value and builder methods.
// The underscore prefix keeps them clear of schema field parameter names.
const (
	valueRecv   = "_v"
	builderRecv = "_b"
)

// goType renders a type descriptor as a jen type expression.
func goType(t *RawType) jen.Code {
	switch t.Kind {
	case RawBasic:
		return jen.Id(t.Name)
	case RawNamed:
		if isEmptyStruct(t) {
			return jen.Struct()
		}
		if t.PkgPath != "" {
			return jen.Qual(t.PkgPath, t.Name)
		}
		return jen.Id(t.Name)
	case RawPointer:
		return jen.Op("*").Add(goType(t.Elem))
	case RawSlice:
		return jen.Index().Add(goType(t.Elem))
	case RawArray:
		return jen.Index(jen.Lit(int(t.Len))).Add(goType(t.Elem))
	case RawMap:
		return jen.Map(goType(t.Key)).Add(goType(t.Elem))
	default:
		return jen.Id(t.Name)
	}
}

// directlyComparable reports whether Go == on the type is both legal and
// structural. Only basic types qualify: pointers compare by identity and
// named types may hide non-comparable or aliasing state.
func directlyComparable(t *RawType) bool {
	return t != nil && t.Kind == RawBasic
}

// notEqualCond builds the per-field "differs" condition used by the
// generated Equal method, comparing the value's private field against the
// other value's accessor. Comparison rules per category: scalars use
// primitive equality with floats compared by canonicalized bit pattern
// (so any two NaNs are equal), arrays compare deeply element-wise,
// everything else uses nil-safe structural equality.
func notEqualCond(f *FieldSchema) jen.Code {
	fld := jen.Id(valueRecv).Dot(structField(f.Name))
	other := jen.Id("that").Dot(f.Getter).Call()

	switch f.Category.Kind {
	case KindScalar:
		switch f.Category.Scalar {
		case ScalarFloat32:
			return jen.Qual(runtimePkg, "Float32Bits").Call(fld).Op("!=").Qual(runtimePkg, "Float32Bits").Call(other)
		case ScalarFloat64:
			return jen.Qual(runtimePkg, "Float64Bits").Call(fld).Op("!=").Qual(runtimePkg, "Float64Bits").Call(other)
		default:
			return fld.Op("!=").Add(other)
		}
	case KindArray:
		if directlyComparable(f.Category.Elem) {
			return fld.Op("!=").Add(other)
		}
		return deepNotEqual(fld, other)
	default:
		// Reference, Collection, Set, Map, Optional: nil-safe structural.
		return deepNotEqual(fld, other)
	}
}

func deepNotEqual(a, b jen.Code) jen.Code {
	return jen.Op("!").Qual("reflect", "DeepEqual").Call(a, b)
}

// nilCheck emits the enforcement guard for an absent argument: generated
// code panics through the runtime package, never with a bare nil
// dereference.
func nilCheck(v jen.Code, name string) jen.Code {
	return jen.If(jen.Add(v).Op("==").Nil()).Block(
		jen.Qual(runtimePkg, "NullArgument").Call(jen.Lit(name)),
	)
}

// hashNeedsTemp reports whether the hash accumulation needs the shared
// 64-bit temporary (any float64 field does).
func hashNeedsTemp(fields []*FieldSchema) bool {
	for _, f := range fields {
		if f.Category.Kind == KindScalar && f.Category.Scalar == ScalarFloat64 {
			return true
		}
	}
	return false
}

// hashStmts builds the accumulation statements for one field of the
// generated HashCode method. The accumulator starts at 1 and every field
// contributes result = 31*result + fieldHash in schema order; the
// constants and folds are a compatibility contract shared with
// matter.DeepHash.
func hashStmts(f *FieldSchema) []jen.Code {
	fld := func() *jen.Statement { return jen.Id(valueRecv).Dot(structField(f.Name)) }
	accum := func(h jen.Code) jen.Code {
		return jen.Id("result").Op("=").Lit(31).Op("*").Id("result").Op("+").Add(h)
	}

	if f.Category.Kind != KindScalar {
		// Deterministic structural hash, 0 for absent.
		return []jen.Code{accum(jen.Qual(runtimePkg, "DeepHash").Call(fld()))}
	}

	switch f.Category.Scalar {
	case ScalarBool:
		return []jen.Code{
			jen.If(fld()).Block(
				accum(jen.Lit(1231)),
			).Else().Block(
				accum(jen.Lit(1237)),
			),
		}
	case ScalarInt8, ScalarInt16, ScalarChar:
		return []jen.Code{accum(jen.Id("int32").Call(fld()))}
	case ScalarInt32:
		return []jen.Code{accum(fld())}
	case ScalarInt64:
		return []jen.Code{accum(jen.Id("int32").Call(
			jen.Id("uint32").Call(
				jen.Id("uint64").Call(fld()).Op("^").Parens(jen.Id("uint64").Call(fld()).Op(">>").Lit(32)),
			),
		))}
	case ScalarFloat32:
		return []jen.Code{
			jen.If(fld().Op("!=").Lit(0)).Block(
				accum(jen.Id("int32").Call(jen.Qual(runtimePkg, "Float32Bits").Call(fld()))),
			).Else().Block(
				jen.Id("result").Op("=").Lit(31).Op("*").Id("result"),
			),
		}
	case ScalarFloat64:
		return []jen.Code{
			jen.Id("temp").Op("=").Qual(runtimePkg, "Float64Bits").Call(fld()),
			accum(jen.Id("int32").Call(
				jen.Id("uint32").Call(jen.Id("temp").Op("^").Parens(jen.Id("temp").Op(">>").Lit(32))),
			)),
		}
	default:
		return []jen.Code{accum(jen.Lit(0))}
	}
}

// stringBody builds the generated String body: Type{f1=v1, f2=v2} in
// schema order, arrays and containers rendered as their element lists by
// the %v verb. Optional fields render their pointee when present and
// <nil> when absent, never the pointer address.
func stringBody(s *TypeSchema) []jen.Code {
	var body []jen.Code
	var b strings.Builder
	args := make([]jen.Code, 0, len(s.Fields)+1)
	b.WriteString(s.Name)
	b.WriteString("{")
	for i, f := range s.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%%v", f.Name)
		if f.Category.Kind == KindOptional {
			tmp := "_" + structField(f.Name)
			body = append(body,
				jen.Var().Id(tmp).Any().Op("=").Lit("<nil>"),
				jen.If(jen.Id(valueRecv).Dot(structField(f.Name)).Op("!=").Nil()).Block(
					jen.Id(tmp).Op("=").Op("*").Id(valueRecv).Dot(structField(f.Name)),
				),
			)
			args = append(args, jen.Id(tmp))
			continue
		}
		args = append(args, jen.Id(valueRecv).Dot(structField(f.Name)))
	}
	b.WriteString("}")
	args = append([]jen.Code{jen.Lit(b.String())}, args...)
	body = append(body, jen.Return(jen.Qual("fmt", "Sprintf").Call(args...)))
	return body
}
