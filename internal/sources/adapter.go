// Package sources implements the two-level concurrent fan-out over external
// data providers. A Module groups the adapters of one source domain and runs
// them with a settle-all join; the Resilient wrapper gives every adapter the
// same timeout, rate limiting, panic containment, caching and logging so
// concrete adapters carry only their request and parse logic.
package sources

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"luminary/internal/platform/metrics"
	"luminary/internal/scan/models"
)

// Adapter is one integration with a single external data source. Fetch may
// fail; the Resilient wrapper is what guarantees the never-fails-outward
// contract to the rest of the engine.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context, profile models.TargetProfile) ([]models.SourceResult, error)
}

// Skippable is implemented by adapters that degrade to a silent skip when
// their provider credential is absent. Skipped adapters are not counted as
// scanned.
type Skippable interface {
	Enabled() bool
}

// Cache stores provider responses keyed by provider+query so repeated scans
// of the same target within the TTL skip the network call.
type Cache interface {
	Get(ctx context.Context, key string) ([]models.SourceResult, bool)
	Set(ctx context.Context, key string, results []models.SourceResult)
}

// Resilient wraps a concrete adapter with the shared failure-isolation
// policy: one attempt, a hard deadline, panic containment, and optional
// response caching. It never panics and never blocks past its deadline.
type Resilient struct {
	inner   Adapter
	timeout time.Duration
	limiter *rate.Limiter
	cache   Cache
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// ResilientOption customizes a Resilient wrapper.
type ResilientOption func(*Resilient)

func WithCache(c Cache) ResilientOption {
	return func(r *Resilient) { r.cache = c }
}

func WithRateLimit(l *rate.Limiter) ResilientOption {
	return func(r *Resilient) { r.limiter = l }
}

func WithMetrics(m *metrics.Metrics) ResilientOption {
	return func(r *Resilient) { r.metrics = m }
}

// NewResilient wraps an adapter. A zero timeout falls back to 15s.
func NewResilient(inner Adapter, timeout time.Duration, logger *slog.Logger, opts ...ResilientOption) *Resilient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	r := &Resilient{
		inner:   inner,
		timeout: timeout,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name returns the wrapped adapter's provider name.
func (r *Resilient) Name() string { return r.inner.Name() }

// Enabled reports whether the wrapped adapter will actually be scanned.
func (r *Resilient) Enabled() bool {
	if s, ok := r.inner.(Skippable); ok {
		return s.Enabled()
	}
	return true
}

// Run executes one attempt against the provider. All failure modes —
// network errors, timeouts, malformed responses, panics — come back as a
// nil result plus an error; Run itself never panics.
func (r *Resilient) Run(ctx context.Context, profile models.TargetProfile) (results []models.SourceResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			results = nil
			err = fmt.Errorf("%s: adapter panic: %v", r.inner.Name(), rec)
		}
		if err != nil {
			r.metrics.IncProviderError(r.inner.Name())
			r.logger.WarnContext(ctx, "provider adapter failed",
				"provider", r.inner.Name(),
				"error", err,
			)
		}
	}()

	if !r.Enabled() {
		return nil, nil
	}

	cacheKey := fmt.Sprintf("provider:%s:%s:%s", r.inner.Name(), profile.Name, profile.Organization)
	if r.cache != nil {
		if cached, ok := r.cache.Get(ctx, cacheKey); ok {
			return cached, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%s: rate limit wait: %w", r.inner.Name(), err)
		}
	}

	start := time.Now()
	results, err = r.inner.Fetch(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.inner.Name(), err)
	}

	r.metrics.IncProviderResults(r.inner.Name(), len(results))
	r.logger.DebugContext(ctx, "provider adapter done",
		"provider", r.inner.Name(),
		"results", len(results),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if r.cache != nil && len(results) > 0 {
		r.cache.Set(ctx, cacheKey, results)
	}
	return results, nil
}
