package gen

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Generator validates targets and derives their generation plans.
// Targets are independent: each is validated and planned on its own, and
// a failing target never blocks its siblings.
type Generator struct {
	resolver Resolver
	reporter Reporter
	cache    schemaCache
	cacheMu  sync.Mutex
	workers  int
}

// schemaCache is the fingerprint surface the generator consults. Cache
// implements it.
type schemaCache interface {
	Changed(*TypeSchema) (bool, error)
	Update(*TypeSchema) error
}

// NewGenerator creates a Generator with the default resolver and worker
// count.
func NewGenerator() *Generator {
	return &Generator{
		resolver: DefaultResolver{},
		workers:  runtime.NumCPU(),
	}
}

// WithResolver sets the shape resolver used to classify field types.
func (g *Generator) WithResolver(r Resolver) *Generator {
	if r != nil {
		g.resolver = r
	}
	return g
}

// WithReporter sets the diagnostics sink.
func (g *Generator) WithReporter(r Reporter) *Generator {
	g.reporter = r
	return g
}

// WithCache sets a fingerprint cache. Targets whose schema fingerprint
// matches the cached one are skipped; the cache is updated in place and
// saving it is the caller's job.
func (g *Generator) WithCache(c *Cache) *Generator {
	if c != nil {
		g.cache = c
	}
	return g
}

// WithWorkers sets the number of parallel workers.
func (g *Generator) WithWorkers(n int) *Generator {
	if n > 0 {
		g.workers = n
	}
	return g
}

// Generate validates every target and builds a plan for each one that
// passes. Plans come back in target order. Failures are reported as
// diagnostics and joined into the returned error; plans for the
// remaining targets are still returned alongside it.
func (g *Generator) Generate(ctx context.Context, targets []*Target) ([]*Plan, error) {
	plans := make([]*Plan, len(targets))
	failures := make([]error, len(targets))

	errg, ctx := errgroup.WithContext(ctx)
	errg.SetLimit(g.workers)

	for i, t := range targets {
		i, t := i, t
		errg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := Validate(t, g.resolver)
			if err != nil {
				g.report(err)
				failures[i] = err
				return nil
			}
			fresh, err := g.unchanged(s)
			if err != nil {
				g.report(err)
				failures[i] = err
				return nil
			}
			if fresh {
				return nil
			}
			plans[i] = BuildPlan(s)
			return nil
		})
	}
	if err := errg.Wait(); err != nil {
		return nil, err
	}

	out := plans[:0]
	for _, p := range plans {
		if p != nil {
			out = append(out, p)
		}
	}
	return out, errors.Join(failures...)
}

// unchanged consults the cache, recording the schema's fingerprint for
// the next run.
func (g *Generator) unchanged(s *TypeSchema) (bool, error) {
	if g.cache == nil {
		return false, nil
	}
	g.cacheMu.Lock()
	defer g.cacheMu.Unlock()
	changed, err := g.cache.Changed(s)
	if err != nil {
		return false, err
	}
	if changed {
		if err := g.cache.Update(s); err != nil {
			return false, err
		}
	}
	return !changed, nil
}

// report converts a target failure into an error diagnostic.
func (g *Generator) report(err error) {
	if g.reporter == nil {
		return
	}
	d := Diagnostic{Severity: SeverityError, Message: err.Error()}
	var te *TargetError
	if errors.As(err, &te) {
		d.Target = te.Target
		d.Field = te.Field
		d.Message = te.Message
		if d.Message == "" {
			d.Message = err.Error()
		}
	}
	g.reporter.Report(d)
}

// BuildPlan derives the full generation plan for a validated schema.
func BuildPlan(s *TypeSchema) *Plan {
	return &Plan{
		Target:  s.QualifiedName,
		Name:    s.Name,
		PkgPath: s.PkgPath,
		PkgName: s.PkgName,
		Value:   valueDef(s),
		Builder: builderDef(s),
	}
}
