package sources

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"luminary/internal/scan/models"
)

// Module groups the adapters of one source domain and runs them with a
// settle-all join: every adapter resolves to either results or a recorded
// error string, and no single failure cancels the rest.
type Module struct {
	domain   models.Domain
	adapters []*Resilient
}

// NewModule builds a module over already-wrapped adapters.
func NewModule(domain models.Domain, adapters []*Resilient) *Module {
	return &Module{domain: domain, adapters: adapters}
}

// Domain returns the source category this module covers.
func (m *Module) Domain() models.Domain { return m.domain }

// Scan fans out to all enabled adapters concurrently and combines their
// settled outcomes into one ModuleResult. Scan never returns an error;
// adapter failures surface only as entries in ModuleResult.Errors.
func (m *Module) Scan(ctx context.Context, profile models.TargetProfile) models.ModuleResult {
	start := time.Now()

	type slot struct {
		results []models.SourceResult
		err     error
	}
	slots := make([]slot, len(m.adapters))

	// errgroup purely as a join here: branches record their own outcome
	// and always return nil, so one failure never cancels the siblings.
	g, gctx := errgroup.WithContext(ctx)
	scanned := 0
	for i, a := range m.adapters {
		if !a.Enabled() {
			continue
		}
		scanned++
		g.Go(func() error {
			slots[i].results, slots[i].err = a.Run(gctx, profile)
			return nil
		})
	}
	_ = g.Wait()

	// Single continuation after the join: no concurrent mutation of the
	// combined lists.
	res := models.ModuleResult{
		Domain:  m.domain,
		Scanned: scanned,
	}
	for _, s := range slots {
		if s.err != nil {
			res.Errors = append(res.Errors, s.err.Error())
			continue
		}
		res.Results = append(res.Results, s.results...)
	}
	res.Duration = time.Since(start)
	return res
}

// ScanAll runs every module concurrently with the same settle-all
// discipline used inside each module: a module that rejects outright (a
// panic anywhere past the adapter boundary) settles to a ModuleResult
// carrying one error entry, and the remaining modules still contribute.
// The returned slice preserves module launch order regardless of
// completion order; callers must not treat slice position as a ranking
// signal.
func ScanAll(ctx context.Context, modules []*Module, profile models.TargetProfile) []models.ModuleResult {
	results := make([]models.ModuleResult, len(modules))
	var wg sync.WaitGroup
	for i, mod := range modules {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = settle(ctx, mod, profile)
		}()
	}
	wg.Wait()
	return results
}

// Runner binds a fixed module list to the orchestrator's fan-out
// interface.
type Runner struct {
	modules []*Module
}

func NewRunner(modules []*Module) *Runner {
	return &Runner{modules: modules}
}

func (r *Runner) ScanAll(ctx context.Context, profile models.TargetProfile) []models.ModuleResult {
	return ScanAll(ctx, r.modules, profile)
}

func settle(ctx context.Context, mod *Module, profile models.TargetProfile) (res models.ModuleResult) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			res = models.ModuleResult{
				Domain:   mod.Domain(),
				Errors:   []string{fmt.Sprintf("module panic: %v", rec)},
				Duration: time.Since(start),
			}
		}
	}()
	return mod.Scan(ctx, profile)
}
