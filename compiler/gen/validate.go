package gen

import (
	"errors"
	"fmt"
	"sync"
)

// Severity grades a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota + 1
	SeverityError
)

// String implements the fmt.Stringer interface.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Diagnostic is one validation finding attached to a target, and
// optionally to a field of it.
type Diagnostic struct {
	Severity Severity
	Target   string
	Field    string
	Message  string
}

// String implements the fmt.Stringer interface.
func (d Diagnostic) String() string {
	if d.Field != "" {
		return fmt.Sprintf("%s: %s: field %s: %s", d.Severity, d.Target, d.Field, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Severity, d.Target, d.Message)
}

// Reporter receives diagnostics as targets are validated. Implementations
// must be safe for concurrent use; targets validate in parallel.
type Reporter interface {
	Report(Diagnostic)
}

// Collector is a Reporter that accumulates diagnostics in memory.
type Collector struct {
	mu    sync.Mutex
	diags []Diagnostic
}

// Report implements the Reporter interface.
func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diags = append(c.diags, d)
}

// Diagnostics returns a copy of everything reported so far.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.diags))
	copy(out, c.diags)
	return out
}

// Validate checks a loaded target against the field-contract rules and
// derives its schema: the target must be an interface, every method must
// be a zero-argument accessor with a resolvable type, and field names
// must be unique. A declared Builder accessor must return a pointer to
// the derived builder type; it is recorded on the schema rather than
// becoming a field. Any violation aborts this target only.
func Validate(t *Target, r Resolver) (*TypeSchema, error) {
	if !t.Interface {
		return nil, NewTargetError(ErrInvalidTargetShape, t.QualifiedName(), "", "target must be an interface type")
	}

	s := &TypeSchema{
		Name:          t.Name,
		QualifiedName: t.QualifiedName(),
		PkgPath:       t.PkgPath,
		PkgName:       t.PkgName,
		ValueName:     fieldIdent(t.Name) + "Value",
		Public:        t.Public,
	}
	if t.Public {
		s.BuilderName = exported(t.Name) + "Builder"
	} else {
		s.BuilderName = fieldIdent(t.Name) + "Builder"
	}

	seen := make(map[string]struct{}, len(t.Accessors))
	for _, a := range t.Accessors {
		if a.Name == "Builder" {
			if a.Arity != 0 || !builderReturnMatches(a.Type, s) {
				got := "<none>"
				if a.Type != nil {
					got = a.Type.String()
				}
				return nil, NewTargetError(ErrBuilderReturnTypeMismatch, s.QualifiedName, a.Name,
					fmt.Sprintf("Builder must return *%s, got %s", s.BuilderName, got))
			}
			s.ToBuilder = true
			continue
		}
		if a.Arity != 0 {
			return nil, NewTargetError(ErrInvalidTargetShape, s.QualifiedName, a.Name, "accessor must take no arguments")
		}
		if a.Type == nil {
			return nil, NewTargetError(ErrInvalidTargetShape, s.QualifiedName, a.Name, "accessor must return exactly one value")
		}

		name := fieldIdent(a.Name)
		if _, dup := seen[name]; dup {
			return nil, NewTargetError(ErrInvalidTargetShape, s.QualifiedName, a.Name, "duplicate field name "+name)
		}
		seen[name] = struct{}{}

		cat, err := Classify(a.Type, r)
		if err != nil {
			var te *TargetError
			if errors.As(err, &te) {
				te.Target = s.QualifiedName
				te.Field = a.Name
			}
			return nil, err
		}
		s.Fields = append(s.Fields, &FieldSchema{
			Name:     name,
			Getter:   a.Name,
			Type:     a.Type,
			Category: cat,
			Nullable: a.Nullable,
		})
	}
	return s, nil
}

// builderReturnMatches reports whether a Builder accessor's return type
// names the derived builder. The builder type is itself generated, so at
// load time the reference may still be unresolved; in that case the
// recorded source text is compared instead.
func builderReturnMatches(t *RawType, s *TypeSchema) bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case RawPointer:
		e := t.Elem
		return e != nil && e.Kind == RawNamed && e.Name == s.BuilderName &&
			(e.PkgPath == "" || e.PkgPath == s.PkgPath)
	case RawUnresolved:
		return t.Name == "*"+s.BuilderName || t.Name == s.BuilderName
	default:
		return false
	}
}
