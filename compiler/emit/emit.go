// Package emit renders generation plans to Go source files.
package emit

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/matter/compiler/gen"
)

// Render materializes a plan as a single Go file holding the value type
// and the builder type.
func Render(p *gen.Plan) *jen.File {
	f := jen.NewFilePathName(p.PkgPath, p.PkgName)
	f.HeaderComment("Code generated by mattergen. DO NOT EDIT.")
	renderType(f, p.Value)
	renderType(f, p.Builder)
	return f
}

func renderType(f *jen.File, d *gen.TypeDef) {
	if d.Doc != "" {
		f.Comment(d.Doc)
	}
	fields := make([]jen.Code, 0, len(d.Fields))
	for _, fd := range d.Fields {
		fields = append(fields, jen.Id(fd.Name).Add(fd.Type))
	}
	f.Type().Id(d.Name).Struct(fields...)

	for _, fn := range d.Funcs {
		renderFunc(f, fn)
	}
}

func renderFunc(f *jen.File, fn gen.FuncDecl) {
	if fn.Doc != "" {
		f.Comment(fn.Doc)
	}
	st := f.Func()
	if fn.Recv != nil {
		st.Params(jen.Id(fn.Recv.Name).Add(fn.Recv.Type))
	}
	st.Id(fn.Name)

	params := make([]jen.Code, 0, len(fn.Params))
	for _, p := range fn.Params {
		param := jen.Id(p.Name)
		if p.Variadic {
			param.Op("...")
		}
		params = append(params, param.Add(p.Type))
	}
	st.Params(params...)

	switch len(fn.Results) {
	case 0:
	case 1:
		st.Add(fn.Results[0])
	default:
		st.Params(fn.Results...)
	}
	st.Block(fn.Body...)
}
