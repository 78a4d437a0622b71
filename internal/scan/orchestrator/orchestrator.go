// Package orchestrator drives a scan end to end: fan out to the source
// modules, aggregate, enrich, score, persist. StartScan returns
// immediately; the scan itself runs in the background and reports its
// outcome only through the run store. Whatever happens inside the
// pipeline, a started run always ends completed or failed.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"luminary/internal/platform/metrics"
	"luminary/internal/scan/aggregate"
	"luminary/internal/scan/models"
	"luminary/internal/scan/score"
)

// Progress checkpoints. Coarse by design: clients poll, they do not
// stream.
const (
	progressStarted    = 10
	progressScanned    = 55
	progressAggregated = 65
	progressEnriched   = 85
)

// RunStore persists scan run lifecycle state.
type RunStore interface {
	Create(ctx context.Context, r *models.ScanRun) error
	Get(ctx context.Context, id uuid.UUID) (*models.ScanRun, error)
	UpdateProgress(ctx context.Context, id uuid.UUID, status models.RunStatus, progress int) error
	Complete(ctx context.Context, id uuid.UUID, payload *models.Payload) error
	Fail(ctx context.Context, id uuid.UUID, message string) error
}

// Sources runs the two-level provider fan-out.
type Sources interface {
	ScanAll(ctx context.Context, profile models.TargetProfile) []models.ModuleResult
}

// Enricher annotates aggregated results and assembles the enriched
// bundle.
type Enricher interface {
	Enrich(ctx context.Context, profile models.TargetProfile, results []models.SourceResult, totalMentions int) models.EnrichedBundle
}

// Orchestrator owns the scan state machine.
type Orchestrator struct {
	runs       RunStore
	sources    Sources
	enricher   Enricher
	maxResults int
	timeout    time.Duration
	logger     *slog.Logger
	metrics    *metrics.Metrics

	wg sync.WaitGroup
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

func WithMaxResults(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxResults = n
		}
	}
}

// WithTimeout bounds a whole scan. The deadline is threaded through both
// fan-out levels, so a wedged provider cannot hold a run open forever.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// New constructs an Orchestrator.
func New(runs RunStore, src Sources, enricher Enricher, logger *slog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		runs:       runs,
		sources:    src,
		enricher:   enricher,
		maxResults: 200,
		timeout:    10 * time.Minute,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// StartScan creates a running run record and launches the scan in the
// background. The returned run ID is immediately pollable.
func (o *Orchestrator) StartScan(ctx context.Context, profile models.TargetProfile) (uuid.UUID, error) {
	now := time.Now()
	run := &models.ScanRun{
		ID:        uuid.New(),
		TargetID:  profile.ID,
		Status:    models.RunRunning,
		Progress:  progressStarted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := o.runs.Create(ctx, run); err != nil {
		return uuid.Nil, fmt.Errorf("create scan run: %w", err)
	}
	if o.metrics != nil {
		o.metrics.ScansStarted.Inc()
	}
	o.logger.InfoContext(ctx, "scan started", "run_id", run.ID, "target_id", profile.ID)

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.execute(run.ID, profile)
	}()
	return run.ID, nil
}

// Wait blocks until all in-flight scans finish. Used by shutdown and
// tests.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// execute runs the full pipeline for one run. It is the single outer
// failure boundary: any error or panic past this point converts the run
// to failed, never leaves it running, and persists no partial payload.
func (o *Orchestrator) execute(runID uuid.UUID, profile models.TargetProfile) {
	start := time.Now()
	// The scan outlives the originating HTTP request, so it gets its own
	// deadline-bounded context.
	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()
	// Terminal writes must land even after the scan deadline has expired,
	// or a timed-out run would be stranded in running.
	persist := context.WithoutCancel(ctx)

	defer func() {
		if rec := recover(); rec != nil {
			o.failRun(persist, runID, fmt.Sprintf("scan panic: %v", rec), start)
		}
	}()

	payload := o.pipeline(ctx, runID, profile)

	if err := o.runs.Complete(persist, runID, payload); err != nil {
		o.failRun(persist, runID, fmt.Sprintf("persist final bundle: %v", err), start)
		return
	}
	if o.metrics != nil {
		o.metrics.ObserveScan(true, time.Since(start))
	}
	o.logger.InfoContext(ctx, "scan completed",
		"run_id", runID,
		"mentions", payload.TotalMentions,
		"score", payload.Score.Total,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

func (o *Orchestrator) pipeline(ctx context.Context, runID uuid.UUID, profile models.TargetProfile) *models.Payload {
	// Module fan-out. ScanAll settles every module; module-level failures
	// appear only in the per-module error lists.
	moduleResults := o.sources.ScanAll(ctx, profile)
	o.checkpoint(ctx, runID, progressScanned)

	merged := aggregate.Merge(moduleResults, o.maxResults)
	o.checkpoint(ctx, runID, progressAggregated)

	bundle := o.enricher.Enrich(ctx, profile, merged.Results, merged.TotalCollected)
	o.checkpoint(ctx, runID, progressEnriched)

	components, gaps, baseline := score.Compute(bundle)

	aggregate.Rank(bundle.Results)
	return &models.Payload{
		TotalMentions:    bundle.TotalMentions,
		SentimentBuckets: bundle.SentimentBuckets,
		FrameBuckets:     bundle.FrameBuckets,
		TopKeywords:      bundle.TopKeywords,
		NarrativeSummary: bundle.NarrativeSummary,
		ArchetypeHints:   bundle.ArchetypeHints,
		CrisisSignals:    bundle.CrisisSignals,
		Mentions:         bundle.Results,
		ModuleSummaries:  aggregate.Summaries(moduleResults),
		Score:            components,
		Gaps:             gaps,
		Baseline:         baseline,
	}
}

// checkpoint advances progress. A checkpoint write failing is not fatal
// to the scan; progress is best effort between terminal writes.
func (o *Orchestrator) checkpoint(ctx context.Context, runID uuid.UUID, progress int) {
	if err := o.runs.UpdateProgress(ctx, runID, models.RunRunning, progress); err != nil {
		o.logger.WarnContext(ctx, "progress checkpoint failed",
			"run_id", runID,
			"progress", progress,
			"error", err,
		)
	}
}

func (o *Orchestrator) failRun(ctx context.Context, runID uuid.UUID, message string, start time.Time) {
	if err := o.runs.Fail(ctx, runID, message); err != nil {
		o.logger.ErrorContext(ctx, "failed to mark run failed", "run_id", runID, "error", err)
	}
	if o.metrics != nil {
		o.metrics.ObserveScan(false, time.Since(start))
	}
	o.logger.ErrorContext(ctx, "scan failed", "run_id", runID, "reason", message)
}
