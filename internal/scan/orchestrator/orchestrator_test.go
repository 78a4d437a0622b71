package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luminary/internal/scan/models"
	runstore "luminary/internal/scan/store/run"
)

type fakeSources struct {
	results []models.ModuleResult
	panics  bool
}

func (f *fakeSources) ScanAll(ctx context.Context, profile models.TargetProfile) []models.ModuleResult {
	if f.panics {
		panic("provider fan-out blew up")
	}
	return f.results
}

type fakeEnricher struct{}

func (fakeEnricher) Enrich(ctx context.Context, profile models.TargetProfile, results []models.SourceResult, totalMentions int) models.EnrichedBundle {
	return models.EnrichedBundle{
		Results:          results,
		TotalMentions:    totalMentions,
		SentimentBuckets: map[string]float64{"neutral": 100},
		FrameBuckets:     map[string]float64{},
	}
}

// recordingStore wraps the in-memory store and keeps every progress value
// it was asked to write, in order.
type recordingStore struct {
	*runstore.InMemory

	mu           sync.Mutex
	progress     []int
	failComplete bool
}

func (s *recordingStore) UpdateProgress(ctx context.Context, id uuid.UUID, status models.RunStatus, progress int) error {
	s.mu.Lock()
	s.progress = append(s.progress, progress)
	s.mu.Unlock()
	return s.InMemory.UpdateProgress(ctx, id, status, progress)
}

func (s *recordingStore) Complete(ctx context.Context, id uuid.UUID, payload *models.Payload) error {
	if s.failComplete {
		return errors.New("disk full")
	}
	return s.InMemory.Complete(ctx, id, payload)
}

func moduleResults(counts map[models.Domain]int, errored models.Domain) []models.ModuleResult {
	out := make([]models.ModuleResult, 0, len(models.Domains))
	for _, d := range models.Domains {
		mr := models.ModuleResult{Domain: d, Scanned: 2}
		for i := range counts[d] {
			mr.Results = append(mr.Results, models.SourceResult{
				Provider: string(d) + "_provider",
				Domain:   d,
				URL:      fmt.Sprintf("https://%s.example/%d", d, i),
				Title:    fmt.Sprintf("%s item %d", d, i),
			})
		}
		if d == errored {
			mr.Errors = append(mr.Errors, string(d)+"_provider: upstream unavailable")
		}
		out = append(out, mr)
	}
	return out
}

func newTestOrchestrator(t *testing.T, src Sources, store RunStore) *Orchestrator {
	t.Helper()
	return New(store, src, fakeEnricher{}, slog.New(slog.DiscardHandler))
}

func TestScanCompletesDespiteModuleFailure(t *testing.T) {
	counts := map[models.Domain]int{
		models.DomainSearch:     5,
		models.DomainNews:       0,
		models.DomainSocial:     8,
		models.DomainFinancial:  3,
		models.DomainRegulatory: 0,
		models.DomainAcademic:   2,
		models.DomainVideo:      4,
	}
	store := &recordingStore{InMemory: runstore.NewInMemory()}
	src := &fakeSources{results: moduleResults(counts, models.DomainNews)}
	orch := newTestOrchestrator(t, src, store)

	profile := models.TargetProfile{ID: uuid.New(), Name: "Ada Example"}
	runID, err := orch.StartScan(context.Background(), profile)
	require.NoError(t, err)
	orch.Wait()

	run, err := store.Get(context.Background(), runID)
	require.NoError(t, err)
	assert.Equal(t, models.RunCompleted, run.Status)
	assert.Equal(t, 100, run.Progress)
	require.NotNil(t, run.Payload)
	assert.Equal(t, 22, run.Payload.TotalMentions)
	assert.Len(t, run.Payload.Mentions, 22)

	// The failed provider shows up in its module summary, nowhere else.
	var news models.ModuleSummary
	for _, s := range run.Payload.ModuleSummaries {
		if s.Domain == models.DomainNews {
			news = s
		}
	}
	require.Len(t, news.Errors, 1)
	assert.Contains(t, news.Errors[0], "upstream unavailable")
}

func TestScanProgressNeverDecreases(t *testing.T) {
	store := &recordingStore{InMemory: runstore.NewInMemory()}
	src := &fakeSources{results: moduleResults(map[models.Domain]int{models.DomainSearch: 1}, "")}
	orch := newTestOrchestrator(t, src, store)

	_, err := orch.StartScan(context.Background(), models.TargetProfile{ID: uuid.New()})
	require.NoError(t, err)
	orch.Wait()

	require.NotEmpty(t, store.progress)
	prev := 0
	for _, p := range store.progress {
		assert.GreaterOrEqual(t, p, prev)
		prev = p
	}
	assert.Equal(t, []int{55, 65, 85}, store.progress)
}

func TestScanPanicMarksRunFailed(t *testing.T) {
	store := &recordingStore{InMemory: runstore.NewInMemory()}
	orch := newTestOrchestrator(t, &fakeSources{panics: true}, store)

	runID, err := orch.StartScan(context.Background(), models.TargetProfile{ID: uuid.New()})
	require.NoError(t, err)
	orch.Wait()

	run, err := store.Get(context.Background(), runID)
	require.NoError(t, err)
	assert.Equal(t, models.RunFailed, run.Status)
	assert.Contains(t, run.Error, "scan panic")
	assert.Nil(t, run.Payload)
}

func TestScanPersistFailureMarksRunFailed(t *testing.T) {
	store := &recordingStore{InMemory: runstore.NewInMemory(), failComplete: true}
	src := &fakeSources{results: moduleResults(map[models.Domain]int{models.DomainSearch: 1}, "")}
	orch := newTestOrchestrator(t, src, store)

	runID, err := orch.StartScan(context.Background(), models.TargetProfile{ID: uuid.New()})
	require.NoError(t, err)
	orch.Wait()

	run, err := store.Get(context.Background(), runID)
	require.NoError(t, err)
	assert.Equal(t, models.RunFailed, run.Status)
	assert.Contains(t, run.Error, "persist final bundle")
}

func TestStartScanIsImmediatelyPollable(t *testing.T) {
	store := &recordingStore{InMemory: runstore.NewInMemory()}
	block := make(chan struct{})
	src := &blockingSources{release: block}
	orch := newTestOrchestrator(t, src, store)

	runID, err := orch.StartScan(context.Background(), models.TargetProfile{ID: uuid.New()})
	require.NoError(t, err)

	run, err := store.Get(context.Background(), runID)
	require.NoError(t, err)
	assert.Equal(t, models.RunRunning, run.Status)
	assert.Equal(t, 10, run.Progress)

	close(block)
	orch.Wait()
}

type blockingSources struct {
	release chan struct{}
}

func (b *blockingSources) ScanAll(ctx context.Context, profile models.TargetProfile) []models.ModuleResult {
	<-b.release
	return nil
}
