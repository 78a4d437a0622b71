// Package models holds the scan engine's domain types: the immutable target
// profile fed into a scan, the evidence collected from providers, and the
// run record that tracks a scan's lifecycle.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Domain is the source category a provider adapter belongs to.
type Domain string

const (
	DomainSearch     Domain = "search"
	DomainNews       Domain = "news"
	DomainSocial     Domain = "social"
	DomainFinancial  Domain = "financial"
	DomainRegulatory Domain = "regulatory"
	DomainAcademic   Domain = "academic"
	DomainVideo      Domain = "video"
)

// Domains lists all source domains in module launch order.
var Domains = []Domain{
	DomainSearch, DomainNews, DomainSocial, DomainFinancial,
	DomainRegulatory, DomainAcademic, DomainVideo,
}

// Frame is the narrative framing label attached to a result during
// enrichment. The set is closed; anything the model invents collapses to
// FrameOther.
type Frame string

const (
	FrameExpert  Frame = "expert"
	FrameFounder Frame = "founder"
	FrameLeader  Frame = "leader"
	FrameFamily  Frame = "family"
	FrameCrisis  Frame = "crisis"
	FrameOther   Frame = "other"
)

// ParseFrame maps a raw label onto the closed frame set.
func ParseFrame(s string) Frame {
	switch Frame(s) {
	case FrameExpert, FrameFounder, FrameLeader, FrameFamily, FrameCrisis:
		return Frame(s)
	default:
		return FrameOther
	}
}

// TargetProfile is the immutable input to a scan. Created by the account
// service; the engine only reads it.
type TargetProfile struct {
	ID           uuid.UUID
	AccountID    uuid.UUID
	Name         string
	Organization string
	Role         string
	Industry     string
	Keywords     []string
	CreatedAt    time.Time
}

// SourceResult is one piece of evidence from one provider. Sentiment, frame
// and relevance are attached in place by the enrichment pipeline; after
// enrichment the struct is never mutated again.
type SourceResult struct {
	Provider  string            `json:"provider"`
	Domain    Domain            `json:"domain"`
	URL       string            `json:"url"`
	Title     string            `json:"title"`
	Snippet   string            `json:"snippet"`
	Published *time.Time        `json:"published,omitempty"`
	Sentiment *float64          `json:"sentiment,omitempty"`
	Frame     Frame             `json:"frame,omitempty"`
	Relevance *float64          `json:"relevance,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// IdentityKey is the dedup key: URL when present, otherwise provider+title.
func (r *SourceResult) IdentityKey() string {
	if r.URL != "" {
		return r.URL
	}
	return r.Provider + "|" + r.Title
}

// ModuleResult is the settled output of one source module: everything its
// adapters produced, one error string per failed adapter, and elapsed time.
// Immutable once returned.
type ModuleResult struct {
	Domain   Domain         `json:"domain"`
	Results  []SourceResult `json:"-"`
	Scanned  int            `json:"adapters_scanned"`
	Errors   []string       `json:"errors"`
	Duration time.Duration  `json:"-"`
}

// ModuleSummary is the persisted per-module slice of the final payload.
type ModuleSummary struct {
	Domain     Domain   `json:"domain"`
	Results    int      `json:"results"`
	Scanned    int      `json:"adapters_scanned"`
	Errors     []string `json:"errors"`
	DurationMS int64    `json:"duration_ms"`
}

// RunStatus is the scan run lifecycle state.
type RunStatus string

const (
	RunPending   RunStatus = "pending"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// Terminal reports whether the status permits no further transitions.
func (s RunStatus) Terminal() bool {
	return s == RunCompleted || s == RunFailed
}

// ScanRun is the durable record of one scan. Progress is non-decreasing for
// the life of the run; terminal statuses are final.
type ScanRun struct {
	ID        uuid.UUID
	TargetID  uuid.UUID
	Status    RunStatus
	Progress  int
	Error     string
	Payload   *Payload
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EnrichedBundle is everything the enrichment pipeline derives from the
// deduplicated result list. Always fully populated, even with zero external
// AI availability.
type EnrichedBundle struct {
	Results          []SourceResult     `json:"results"`
	TotalMentions    int                `json:"total_mentions"`
	SentimentBuckets map[string]float64 `json:"sentiment_buckets"`
	FrameBuckets     map[string]float64 `json:"frame_buckets"`
	TopKeywords      []Keyword          `json:"top_keywords"`
	CrisisSignals    []string           `json:"crisis_signals"`
	NarrativeSummary string             `json:"narrative_summary"`
	ArchetypeHints   []string           `json:"archetype_hints"`
}

// Keyword is one ranked token from the keyword frequency pass.
type Keyword struct {
	Token string `json:"token"`
	Count int    `json:"count"`
}

// ScoreComponents is the six-part LSI breakdown. Each component is clamped
// to its maximum; Total is capped at 100.
type ScoreComponents struct {
	SearchPresence   float64 `json:"search_presence"`   // max 20
	NarrativeControl float64 `json:"narrative_control"` // max 20
	Authority        float64 `json:"authority"`         // max 20
	Sentiment        float64 `json:"sentiment"`         // max 15
	Validation       float64 `json:"validation"`        // max 15
	CrisisResilience float64 `json:"crisis_resilience"` // max 10
	Total            float64 `json:"total"`
}

// GapEntry prioritizes remediation: distance of one component from its max.
type GapEntry struct {
	Component string  `json:"component"`
	Current   float64 `json:"current"`
	Max       float64 `json:"max"`
	Gap       float64 `json:"gap"`
}

// StatBaseline carries the sentiment distribution statistics used to watch
// score drift across repeated scans of the same target.
type StatBaseline struct {
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"std_dev"`
	UpperLimit float64 `json:"upper_limit"` // mean + 3 sigma
	LowerLimit float64 `json:"lower_limit"` // mean - 3 sigma
}

// Payload is the full persisted result of a completed scan.
type Payload struct {
	TotalMentions    int                `json:"total_mentions"`
	SentimentBuckets map[string]float64 `json:"sentiment_buckets"`
	FrameBuckets     map[string]float64 `json:"frame_buckets"`
	TopKeywords      []Keyword          `json:"top_keywords"`
	NarrativeSummary string             `json:"narrative_summary"`
	ArchetypeHints   []string           `json:"archetype_hints"`
	CrisisSignals    []string           `json:"crisis_signals"`
	Mentions         []SourceResult     `json:"mentions"`
	ModuleSummaries  []ModuleSummary    `json:"module_summaries"`
	Score            ScoreComponents    `json:"score"`
	Gaps             []GapEntry         `json:"gaps"`
	Baseline         StatBaseline       `json:"baseline"`
}
