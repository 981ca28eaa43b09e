package gen

import (
	"context"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/dbcmd/compiler/load"
)

// Source supplies declarations to a Generator. *load.Set implements it.
type Source interface {
	Declarations(ctx context.Context) ([]*load.Declaration, error)
}

// Declarations is a fixed list of declarations usable as a Source.
type Declarations []*load.Declaration

// Declarations implements Source.
func (d Declarations) Declarations(context.Context) ([]*load.Declaration, error) {
	return d, nil
}

// Report is the outcome of a generation run.
type Report struct {
	// RunID identifies the run in logs and cache entries.
	RunID string
	// Results holds one result per declaration, ordered by qualified name.
	Results []*Result
	// Written lists the files written, in result order.
	Written   []string
	CacheHits int
	Duration  time.Duration
}

// Diagnostics returns the diagnostics of every declaration.
func (r *Report) Diagnostics() []Diagnostic {
	var diags []Diagnostic
	for _, res := range r.Results {
		diags = append(diags, res.Diagnostics...)
	}
	return diags
}

// HasErrors reports whether any declaration is blocked by an error.
func (r *Report) HasErrors() bool {
	return slices.ContainsFunc(r.Results, (*Result).HasErrors)
}

// Generator compiles declarations and writes the generated files next to
// them. Declarations are compiled in parallel; a declaration blocked by
// diagnostics does not affect its siblings.
type Generator struct {
	cfg *Config
}

// NewGenerator returns a Generator for cfg.
func NewGenerator(cfg *Config) *Generator {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Generator{cfg: cfg}
}

// Config returns the configuration of the generator.
func (g *Generator) Config() *Config { return g.cfg }

// Check analyzes every declaration of src without emitting code.
func (g *Generator) Check(ctx context.Context, src Source) (*Report, error) {
	return g.run(ctx, src, false)
}

// Run compiles every declaration of src and writes the generated files.
// When ctx is canceled, no new declaration is started and the files of
// declarations not yet written are dropped.
func (g *Generator) Run(ctx context.Context, src Source) (*Report, error) {
	return g.run(ctx, src, true)
}

func (g *Generator) run(ctx context.Context, src Source, write bool) (*Report, error) {
	start := time.Now()
	decls, err := src.Declarations(ctx)
	if err != nil {
		var patterns []string
		if s, ok := src.(*load.Set); ok {
			patterns = s.Patterns
		}
		return nil, NewLoadError(patterns, err)
	}
	var (
		hits    atomic.Int64
		results = make([]*Result, len(decls))
		runID   = uuid.NewString()
	)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.workers())
	for i, d := range decls {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if !write {
				results[i] = Analyze(d, g.cfg)
				return nil
			}
			res, err := g.generate(d)
			if err != nil {
				return err
			}
			if res.Cached {
				hits.Add(1)
			}
			if len(res.Files) > 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
				if res.Written, err = writeFiles(res.Model.Dir, res.Files); err != nil {
					return err
				}
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	slices.SortStableFunc(results, func(a, b *Result) int {
		return strings.Compare(a.Model.QualifiedName, b.Model.QualifiedName)
	})
	report := &Report{
		RunID:     runID,
		Results:   results,
		CacheHits: int(hits.Load()),
		Duration:  time.Since(start),
	}
	for _, res := range results {
		report.Written = append(report.Written, res.Written...)
	}
	return report, nil
}

// generate compiles one declaration, consulting the cache when configured.
// The returned files are rendered.
func (g *Generator) generate(d *load.Declaration) (*Result, error) {
	res := Analyze(d, g.cfg)
	if res.HasErrors() {
		return res, nil
	}
	var key string
	if g.cfg.Cache != nil {
		key = CacheKey(d, g.cfg)
		files, ok, err := g.cfg.Cache.Get(key)
		if err != nil {
			return nil, NewGenerationError("cache", "", "reading "+res.Model.QualifiedName, err)
		}
		if ok {
			res.Files, res.Cached = files, true
			return res, nil
		}
	}
	res.Files = Emit(res.Model, g.cfg.Header)
	for _, f := range res.Files {
		if _, err := f.Render(); err != nil {
			return nil, err
		}
	}
	if g.cfg.Cache != nil {
		if err := g.cfg.Cache.Put(key, res.Files); err != nil {
			return nil, NewGenerationError("cache", "", "storing "+res.Model.QualifiedName, err)
		}
	}
	return res, nil
}
