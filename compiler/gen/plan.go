package gen

import "github.com/dave/jennifer/jen"

// runtimePkg is the import path of the runtime support package generated
// code depends on.
const runtimePkg = "github.com/syssam/matter"

// Plan is the engine's output for one target: two abstract type
// definitions as typed trees. It carries no reference back to the
// TypeSchema it was derived from; the emitter owns it exclusively.
type Plan struct {
	// Target is the qualified name of the source target, Name its simple
	// name. Both are informational (file naming, logging).
	Target string
	Name   string
	// PkgPath and PkgName locate the package the artifact belongs to.
	PkgPath string
	PkgName string
	// Builder and Value are the two generated type definitions, in emit
	// order.
	Builder *TypeDef
	Value   *TypeDef
}

// TypeDef is one abstract type definition: a struct declaration plus its
// constructors, methods and factory functions.
type TypeDef struct {
	Name string
	Doc  string
	// Fields are the struct field declarations, in schema order.
	Fields []FieldDecl
	// Funcs are constructor specs, method specs and factories, in emit
	// order. A nil Recv marks a package-level function.
	Funcs []FuncDecl
}

// FieldDecl declares one struct field.
type FieldDecl struct {
	Name string
	Type jen.Code
}

// ParamDecl declares one parameter or receiver.
type ParamDecl struct {
	Name     string
	Type     jen.Code
	Variadic bool
}

// FuncDecl declares a constructor, method or factory as a typed tree.
type FuncDecl struct {
	Doc     string
	Recv    *ParamDecl
	Name    string
	Params  []ParamDecl
	Results []jen.Code
	Body    []jen.Code
}

// method is a FuncDecl construction helper for the generators.
func method(recv *ParamDecl, name, doc string, params []ParamDecl, results []jen.Code, body ...jen.Code) FuncDecl {
	return FuncDecl{
		Doc:     doc,
		Recv:    recv,
		Name:    name,
		Params:  params,
		Results: results,
		Body:    body,
	}
}
