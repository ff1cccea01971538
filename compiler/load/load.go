// Package load discovers generation targets in Go source. Interfaces
// marked with a //matter:generate directive become targets; their methods
// become raw accessors with type descriptors abstracted away from
// go/types, so the engine in compiler/gen stays independent of the
// loader.
package load

import (
	"errors"
	"fmt"
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/syssam/matter/compiler/gen"
)

// Source directives. They follow the Go directive comment convention: no
// space after the slashes, at the start of a line.
const (
	generateDirective = "matter:generate"
	nullableDirective = "matter:nullable"
)

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo

// Config controls target discovery.
type Config struct {
	// Patterns are package patterns in go/packages syntax, e.g. "./...".
	Patterns []string
	// Dir is the working directory for the load, empty for the current
	// one.
	Dir string
	// Env overrides the environment of the underlying build system
	// queries when non-nil.
	Env []string
}

// Load resolves the configured patterns and extracts every marked target,
// in source order within each package.
func Load(cfg Config) ([]*gen.Target, error) {
	pcfg := &packages.Config{
		Mode: loadMode,
		Dir:  cfg.Dir,
		Env:  cfg.Env,
	}
	pkgs, err := packages.Load(pcfg, cfg.Patterns...)
	if err != nil {
		return nil, fmt.Errorf("load %v: %w", cfg.Patterns, err)
	}

	var targets []*gen.Target
	var errs []error
	for _, pkg := range pkgs {
		for _, perr := range pkg.Errors {
			errs = append(errs, errors.New(perr.Error()))
		}
		targets = append(targets, packageTargets(pkg)...)
	}
	if len(errs) > 0 {
		return targets, errors.Join(errs...)
	}
	return targets, nil
}

// packageTargets walks a package's syntax for marked interface
// declarations.
func packageTargets(pkg *packages.Package) []*gen.Target {
	var out []*gen.Target
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok {
				continue
			}
			for _, spec := range gd.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				if !hasDirective(gd.Doc, generateDirective) && !hasDirective(ts.Doc, generateDirective) {
					continue
				}
				out = append(out, newTarget(pkg, ts))
			}
		}
	}
	return out
}

// hasDirective scans a comment group for a directive comment.
func hasDirective(cg *ast.CommentGroup, directive string) bool {
	if cg == nil {
		return false
	}
	for _, c := range cg.List {
		text := strings.TrimPrefix(c.Text, "//")
		if text == directive || strings.HasPrefix(text, directive+" ") {
			return true
		}
	}
	return false
}

// newTarget extracts a raw target from a marked type declaration. Shape
// violations are recorded, not rejected: validation is the engine's job.
func newTarget(pkg *packages.Package, ts *ast.TypeSpec) *gen.Target {
	t := &gen.Target{
		Name:    ts.Name.Name,
		PkgPath: pkg.PkgPath,
		PkgName: pkg.Name,
		Public:  ast.IsExported(ts.Name.Name),
	}

	iface, ok := ts.Type.(*ast.InterfaceType)
	if !ok {
		return t
	}
	t.Interface = true

	seen := make(map[string]struct{})
	for _, field := range iface.Methods.List {
		if len(field.Names) == 0 {
			// Embedded interface: inherit its method set.
			t.Accessors = append(t.Accessors, embeddedAccessors(pkg, field.Type, seen)...)
			continue
		}
		for _, name := range field.Names {
			if _, dup := seen[name.Name]; dup {
				continue
			}
			seen[name.Name] = struct{}{}

			a := &gen.Accessor{
				Name:     name.Name,
				Nullable: hasDirective(field.Doc, nullableDirective) || hasDirective(field.Comment, nullableDirective),
			}
			if fn, ok := pkg.TypesInfo.ObjectOf(name).(*types.Func); ok {
				sig := fn.Type().(*types.Signature)
				a.Arity = sig.Params().Len()
				if sig.Results().Len() == 1 {
					a.Type = convertType(sig.Results().At(0).Type())
				}
			}
			t.Accessors = append(t.Accessors, a)
		}
	}
	return t
}

// embeddedAccessors flattens an embedded interface into plain accessors.
// Inherited methods carry no directives.
func embeddedAccessors(pkg *packages.Package, expr ast.Expr, seen map[string]struct{}) []*gen.Accessor {
	tv, ok := pkg.TypesInfo.Types[expr]
	if !ok {
		return nil
	}
	iface, ok := tv.Type.Underlying().(*types.Interface)
	if !ok {
		return nil
	}

	var out []*gen.Accessor
	for i := 0; i < iface.NumMethods(); i++ {
		m := iface.Method(i)
		if _, dup := seen[m.Name()]; dup {
			continue
		}
		seen[m.Name()] = struct{}{}

		sig := m.Type().(*types.Signature)
		a := &gen.Accessor{Name: m.Name(), Arity: sig.Params().Len()}
		if sig.Results().Len() == 1 {
			a.Type = convertType(sig.Results().At(0).Type())
		}
		out = append(out, a)
	}
	return out
}

// convertType abstracts a go/types type into the engine's descriptor
// form.
func convertType(t types.Type) *gen.RawType {
	switch t := t.(type) {
	case *types.Basic:
		if t.Kind() == types.Invalid {
			return &gen.RawType{Kind: gen.RawUnresolved, Name: t.String()}
		}
		return &gen.RawType{
			Kind:   gen.RawBasic,
			Name:   t.Name(),
			Scalar: scalarKind(t),
		}
	case *types.Pointer:
		return &gen.RawType{
			Kind:    gen.RawPointer,
			Elem:    convertType(t.Elem()),
			Nilable: true,
		}
	case *types.Slice:
		return &gen.RawType{
			Kind:    gen.RawSlice,
			Elem:    convertType(t.Elem()),
			Nilable: true,
		}
	case *types.Array:
		return &gen.RawType{
			Kind: gen.RawArray,
			Len:  t.Len(),
			Elem: convertType(t.Elem()),
		}
	case *types.Map:
		return &gen.RawType{
			Kind:    gen.RawMap,
			Key:     convertType(t.Key()),
			Elem:    convertType(t.Elem()),
			Nilable: true,
		}
	case *types.Alias:
		return convertType(types.Unalias(t))
	case *types.Named:
		obj := t.Obj()
		rt := &gen.RawType{
			Kind:    gen.RawNamed,
			Name:    obj.Name(),
			Nilable: zeroIsNil(t.Underlying()),
		}
		if obj.Pkg() != nil {
			rt.PkgPath = obj.Pkg().Path()
		}
		return rt
	case *types.Struct:
		if t.NumFields() == 0 {
			return &gen.RawType{Kind: gen.RawNamed, Name: "struct{}"}
		}
		return &gen.RawType{Kind: gen.RawNamed, Name: types.TypeString(t, nil)}
	case *types.Interface, *types.Signature, *types.Chan:
		return &gen.RawType{
			Kind:    gen.RawNamed,
			Name:    types.TypeString(t, nil),
			Nilable: true,
		}
	default:
		return &gen.RawType{Kind: gen.RawUnresolved, Name: t.String()}
	}
}

// zeroIsNil reports whether a type's zero value is nil.
func zeroIsNil(t types.Type) bool {
	switch t.(type) {
	case *types.Pointer, *types.Slice, *types.Map, *types.Interface, *types.Signature, *types.Chan:
		return true
	default:
		return false
	}
}

// scalarKind maps a basic kind to the engine's scalar taxonomy. Basic
// types outside it (strings, unsigned integers) classify as references.
func scalarKind(t *types.Basic) gen.ScalarKind {
	switch t.Kind() {
	case types.Bool:
		return gen.ScalarBool
	case types.Int8:
		return gen.ScalarInt8
	case types.Int16:
		return gen.ScalarInt16
	case types.Int32:
		if t.Name() == "rune" {
			return gen.ScalarChar
		}
		return gen.ScalarInt32
	case types.Int, types.Int64:
		return gen.ScalarInt64
	case types.Float32:
		return gen.ScalarFloat32
	case types.Float64:
		return gen.ScalarFloat64
	default:
		return gen.ScalarInvalid
	}
}
