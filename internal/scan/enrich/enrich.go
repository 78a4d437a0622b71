// Package enrich drives aggregated evidence through a batched language
// model pass, attaching sentiment, narrative frame, and relevance to each
// result, and derives the distributions, keywords, crisis signals, summary
// and archetype hints that make up the enriched bundle. Every output is
// populated even with zero model availability: classification degrades to
// neutral defaults per batch, summary and archetypes to templated
// substitutes.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"luminary/internal/platform/metrics"
	"luminary/internal/scan/models"
	pkgstrings "luminary/pkg/platform/strings"
)

const defaultBatchSize = 20

// Pipeline enriches deduplicated scan results.
type Pipeline struct {
	model     TextModel
	batchSize int
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

func WithBatchSize(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// New constructs a Pipeline. A nil model is allowed and means every model
// call takes its fallback path.
func New(model TextModel, logger *slog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		model:     model,
		batchSize: defaultBatchSize,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Enrich annotates results in place and assembles the bundle. The caller
// passes TotalCollected separately because dedup already dropped some
// mentions from the list.
func (p *Pipeline) Enrich(ctx context.Context, profile models.TargetProfile, results []models.SourceResult, totalMentions int) models.EnrichedBundle {
	for start := 0; start < len(results); start += p.batchSize {
		end := min(start+p.batchSize, len(results))
		p.classifyBatch(ctx, results[start:end])
	}

	bundle := models.EnrichedBundle{
		Results:          results,
		TotalMentions:    totalMentions,
		SentimentBuckets: sentimentBuckets(results),
		FrameBuckets:     frameBuckets(results),
		TopKeywords:      Keywords(results, profile, 10),
		CrisisSignals:    crisisSignals(results),
	}
	bundle.NarrativeSummary = p.summary(ctx, profile, bundle)
	bundle.ArchetypeHints = p.archetypes(ctx, profile, bundle)
	return bundle
}

// classification is the per-item structure the model is asked to return,
// addressed by index so responses map back onto the batch.
type classification struct {
	Index     int     `json:"index"`
	Sentiment float64 `json:"sentiment"`
	Frame     string  `json:"frame"`
	Relevance float64 `json:"relevance"`
}

// classifyBatch asks the model for one structured response covering the
// whole batch. Any parse failure degrades the entire batch to neutral
// defaults; there is no per-item recovery.
func (p *Pipeline) classifyBatch(ctx context.Context, batch []models.SourceResult) {
	if p.model != nil {
		raw, err := p.model.Generate(ctx, classifyPrompt(batch))
		if err == nil {
			if ok := applyClassifications(batch, raw); ok {
				return
			}
			err = fmt.Errorf("unparseable classification response")
		}
		p.logger.WarnContext(ctx, "enrichment batch degraded to neutral defaults",
			"batch_size", len(batch),
			"error", err,
		)
	}
	if p.metrics != nil {
		p.metrics.BatchFallbacks.Inc()
	}
	neutralDefaults(batch)
}

func classifyPrompt(batch []models.SourceResult) string {
	var b strings.Builder
	b.WriteString("Classify each item below. Respond with only a JSON array; one object per item: ")
	b.WriteString(`{"index":<item index>,"sentiment":<-1..1>,"frame":"expert|founder|leader|family|crisis|other","relevance":<0..1>}.`)
	b.WriteString("\n\n")
	for i, r := range batch {
		fmt.Fprintf(&b, "%d. [%s] %s — %s\n", i, r.Provider, r.Title, r.Snippet)
	}
	return b.String()
}

// applyClassifications parses the model response and writes sentiment,
// frame and relevance onto the batch. Returns false if the response does
// not parse as the expected structure.
func applyClassifications(batch []models.SourceResult, raw string) bool {
	var parsed []classification
	if err := json.Unmarshal([]byte(stripFences(raw)), &parsed); err != nil {
		return false
	}
	if len(parsed) == 0 {
		return false
	}
	for _, c := range parsed {
		if c.Index < 0 || c.Index >= len(batch) {
			return false
		}
	}
	for _, c := range parsed {
		r := &batch[c.Index]
		s := clampRange(c.Sentiment, -1, 1)
		rel := clampRange(c.Relevance, 0, 1)
		r.Sentiment = &s
		r.Relevance = &rel
		r.Frame = models.ParseFrame(c.Frame)
	}
	// Items the model skipped get the neutral defaults.
	for i := range batch {
		if batch[i].Sentiment == nil {
			neutralDefaults(batch[i : i+1])
		}
	}
	return true
}

func neutralDefaults(batch []models.SourceResult) {
	for i := range batch {
		zero := 0.0
		half := 0.5
		batch[i].Sentiment = &zero
		batch[i].Relevance = &half
		batch[i].Frame = models.FrameOther
	}
}

// stripFences drops a markdown code fence the model may wrap around JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if after, ok := strings.CutPrefix(s, "```json"); ok {
		s = after
	} else if after, ok := strings.CutPrefix(s, "```"); ok {
		s = after
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// sentimentBuckets returns positive/neutral/negative percentages over the
// enriched results. Positive is sentiment > 0.2, negative < -0.2.
func sentimentBuckets(results []models.SourceResult) map[string]float64 {
	buckets := map[string]float64{"positive": 0, "neutral": 0, "negative": 0}
	if len(results) == 0 {
		return buckets
	}
	for _, r := range results {
		s := 0.0
		if r.Sentiment != nil {
			s = *r.Sentiment
		}
		switch {
		case s > 0.2:
			buckets["positive"]++
		case s < -0.2:
			buckets["negative"]++
		default:
			buckets["neutral"]++
		}
	}
	total := float64(len(results))
	for k := range buckets {
		buckets[k] = buckets[k] / total * 100
	}
	return buckets
}

func frameBuckets(results []models.SourceResult) map[string]float64 {
	buckets := make(map[string]float64)
	if len(results) == 0 {
		return buckets
	}
	for _, r := range results {
		frame := r.Frame
		if frame == "" {
			frame = models.FrameOther
		}
		buckets[string(frame)]++
	}
	total := float64(len(results))
	for k := range buckets {
		buckets[k] = buckets[k] / total * 100
	}
	return buckets
}

// crisisSignals lists results flagged as crisis framing or carrying a
// crisis metadata flag. Repeated title/provider pairs collapse to one
// entry.
func crisisSignals(results []models.SourceResult) []string {
	var signals []string
	for _, r := range results {
		if r.Frame == models.FrameCrisis || r.Metadata["crisis"] == "true" {
			signals = append(signals, fmt.Sprintf("%s (%s)", r.Title, r.Provider))
		}
	}
	return pkgstrings.DedupeAndTrim(signals)
}
