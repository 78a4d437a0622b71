package sources

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luminary/internal/scan/models"
)

type fakeAdapter struct {
	name    string
	results []models.SourceResult
	err     error
	panics  bool
	delay   time.Duration
	calls   atomic.Int32
}

func (a *fakeAdapter) Name() string { return a.name }

func (a *fakeAdapter) Fetch(ctx context.Context, profile models.TargetProfile) ([]models.SourceResult, error) {
	a.calls.Add(1)
	if a.panics {
		panic("index out of range")
	}
	if a.delay > 0 {
		select {
		case <-time.After(a.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return a.results, a.err
}

type disabledAdapter struct {
	fakeAdapter
}

func (a *disabledAdapter) Enabled() bool { return false }

type fakeCache struct {
	store map[string][]models.SourceResult
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]models.SourceResult, bool) {
	r, ok := c.store[key]
	return r, ok
}

func (c *fakeCache) Set(ctx context.Context, key string, results []models.SourceResult) {
	c.store[key] = results
}

func discard() *slog.Logger { return slog.New(slog.DiscardHandler) }

func someResults(provider string, n int) []models.SourceResult {
	out := make([]models.SourceResult, n)
	for i := range out {
		out[i] = models.SourceResult{Provider: provider, Title: "t", URL: "https://x/" + provider}
	}
	return out
}

func TestResilientContainsPanic(t *testing.T) {
	r := NewResilient(&fakeAdapter{name: "flaky", panics: true}, time.Second, discard())

	results, err := r.Run(context.Background(), models.TargetProfile{Name: "Ada"})

	assert.Nil(t, results)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "adapter panic")
	assert.Contains(t, err.Error(), "flaky")
}

func TestResilientWrapsErrorWithProviderName(t *testing.T) {
	r := NewResilient(&fakeAdapter{name: "newsapi", err: errors.New("status 503")}, time.Second, discard())

	_, err := r.Run(context.Background(), models.TargetProfile{Name: "Ada"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "newsapi: status 503")
}

func TestResilientEnforcesTimeout(t *testing.T) {
	r := NewResilient(&fakeAdapter{name: "slow", delay: 5 * time.Second}, 30*time.Millisecond, discard())

	start := time.Now()
	_, err := r.Run(context.Background(), models.TargetProfile{Name: "Ada"})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestResilientServesFromCache(t *testing.T) {
	adapter := &fakeAdapter{name: "gdelt", results: someResults("gdelt", 2)}
	cache := &fakeCache{store: map[string][]models.SourceResult{}}
	r := NewResilient(adapter, time.Second, discard(), WithCache(cache))
	profile := models.TargetProfile{Name: "Ada Example", Organization: "Example Labs"}

	first, err := r.Run(context.Background(), profile)
	require.NoError(t, err)
	second, err := r.Run(context.Background(), profile)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), adapter.calls.Load())
}

func TestModuleScanSettlesAllAdapters(t *testing.T) {
	module := NewModule(models.DomainNews, []*Resilient{
		NewResilient(&fakeAdapter{name: "newsapi", results: someResults("newsapi", 3)}, time.Second, discard()),
		NewResilient(&fakeAdapter{name: "gdelt", err: errors.New("connection refused")}, time.Second, discard()),
		NewResilient(&fakeAdapter{name: "wires", panics: true}, time.Second, discard()),
	})

	res := module.Scan(context.Background(), models.TargetProfile{Name: "Ada"})

	assert.Equal(t, models.DomainNews, res.Domain)
	assert.Equal(t, 3, res.Scanned)
	assert.Len(t, res.Results, 3)
	require.Len(t, res.Errors, 2)
	assert.Contains(t, res.Errors[0], "gdelt")
	assert.Contains(t, res.Errors[1], "adapter panic")
}

func TestModuleScanSkipsDisabledAdapters(t *testing.T) {
	disabled := &disabledAdapter{fakeAdapter: fakeAdapter{name: "brave_search"}}
	module := NewModule(models.DomainSearch, []*Resilient{
		NewResilient(&fakeAdapter{name: "duckduckgo", results: someResults("duckduckgo", 1)}, time.Second, discard()),
		NewResilient(disabled, time.Second, discard()),
	})

	res := module.Scan(context.Background(), models.TargetProfile{Name: "Ada"})

	assert.Equal(t, 1, res.Scanned)
	assert.Len(t, res.Results, 1)
	assert.Empty(t, res.Errors)
	assert.Zero(t, disabled.calls.Load())
}

func TestScanAllPreservesLaunchOrder(t *testing.T) {
	modules := []*Module{
		NewModule(models.DomainSearch, []*Resilient{
			NewResilient(&fakeAdapter{name: "a", delay: 50 * time.Millisecond, results: someResults("a", 1)}, time.Second, discard()),
		}),
		NewModule(models.DomainNews, []*Resilient{
			NewResilient(&fakeAdapter{name: "b", results: someResults("b", 2)}, time.Second, discard()),
		}),
	}

	results := ScanAll(context.Background(), modules, models.TargetProfile{Name: "Ada"})

	require.Len(t, results, 2)
	assert.Equal(t, models.DomainSearch, results[0].Domain)
	assert.Equal(t, models.DomainNews, results[1].Domain)
	assert.Len(t, results[0].Results, 1)
	assert.Len(t, results[1].Results, 2)
}

func TestScanAllSettlesBrokenModule(t *testing.T) {
	// A nil wrapper slot panics inside the module fan-out itself, past the
	// adapter containment boundary. The module must settle to an error
	// entry without taking down its siblings.
	broken := NewModule(models.DomainVideo, []*Resilient{nil})
	healthy := NewModule(models.DomainNews, []*Resilient{
		NewResilient(&fakeAdapter{name: "newsapi", results: someResults("newsapi", 2)}, time.Second, discard()),
	})

	results := ScanAll(context.Background(), []*Module{broken, healthy}, models.TargetProfile{Name: "Ada"})

	require.Len(t, results, 2)
	require.Len(t, results[0].Errors, 1)
	assert.Contains(t, results[0].Errors[0], "module panic")
	assert.Equal(t, models.DomainVideo, results[0].Domain)
	assert.Len(t, results[1].Results, 2)
}
