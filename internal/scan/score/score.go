// Package score computes the LSI: a six-component weighted reputation
// index over an enriched evidence bundle. Everything here is a pure
// function of its input; no I/O, no randomness.
package score

import (
	"math"
	"net/url"
	"sort"
	"strings"

	"luminary/internal/scan/models"
)

// Component maxima. The clamped components sum to at most 100.
const (
	MaxSearchPresence   = 20.0
	MaxNarrativeControl = 20.0
	MaxAuthority        = 20.0
	MaxSentiment        = 15.0
	MaxValidation       = 15.0
	MaxCrisisResilience = 10.0
)

// tier1Hosts are major outlets whose coverage carries outsized authority
// weight. Matched against the registrable host suffix of each result URL.
var tier1Hosts = []string{
	"nytimes.com", "wsj.com", "ft.com", "bloomberg.com", "reuters.com",
	"forbes.com", "fortune.com", "economist.com", "bbc.com", "bbc.co.uk",
	"washingtonpost.com", "theguardian.com", "cnbc.com", "techcrunch.com",
	"wired.com", "harvard.edu", "mit.edu", "nature.com", "sciencemag.org",
}

// Authority saturates at this many tier-1 mentions; validation at this
// many third-party mentions.
const (
	authoritySaturation  = 10
	validationSaturation = 30
)

// Compute derives the score components, the prioritized gap list, and the
// statistical baseline from an enriched bundle. With zero results it
// returns the deterministic floor: all components at zero, baseline at
// zero, no division anywhere.
func Compute(bundle models.EnrichedBundle) (models.ScoreComponents, []models.GapEntry, models.StatBaseline) {
	var (
		searchTotal, searchPositive int
		controlled                  int
		tier1                       int
		positive                    int
		thirdParty                  int
		crisis                      int
	)

	for _, r := range bundle.Results {
		s := sentiment(r)
		if r.Domain == models.DomainSearch {
			searchTotal++
			if s > 0.2 {
				searchPositive++
			}
		}
		switch r.Frame {
		case models.FrameExpert, models.FrameFounder, models.FrameLeader:
			controlled++
		case models.FrameCrisis:
			crisis++
		}
		if s > 0.2 {
			positive++
		}
		if isTier1(r.URL) {
			tier1++
		}
		switch r.Domain {
		case models.DomainNews, models.DomainAcademic, models.DomainVideo:
			thirdParty++
		}
	}

	total := len(bundle.Results)
	comps := models.ScoreComponents{
		SearchPresence:   clamp(proportion(searchPositive, searchTotal)*MaxSearchPresence, MaxSearchPresence),
		NarrativeControl: clamp(proportion(controlled, total)*MaxNarrativeControl, MaxNarrativeControl),
		Authority:        clamp(proportion(min(tier1, authoritySaturation), authoritySaturation)*MaxAuthority, MaxAuthority),
		Sentiment:        clamp(proportion(positive, total)*MaxSentiment, MaxSentiment),
		Validation:       clamp(proportion(min(thirdParty, validationSaturation), validationSaturation)*MaxValidation, MaxValidation),
	}
	if total > 0 {
		comps.CrisisResilience = clamp((1-proportion(crisis, total))*MaxCrisisResilience, MaxCrisisResilience)
	}
	comps.Total = math.Min(
		comps.SearchPresence+comps.NarrativeControl+comps.Authority+
			comps.Sentiment+comps.Validation+comps.CrisisResilience,
		100,
	)

	return comps, Gaps(comps), Baseline(bundle.Results)
}

// Gaps returns the distance of each component from its max, sorted by
// descending gap: the remediation priority order.
func Gaps(c models.ScoreComponents) []models.GapEntry {
	gaps := []models.GapEntry{
		{Component: "search_presence", Current: c.SearchPresence, Max: MaxSearchPresence},
		{Component: "narrative_control", Current: c.NarrativeControl, Max: MaxNarrativeControl},
		{Component: "authority", Current: c.Authority, Max: MaxAuthority},
		{Component: "sentiment", Current: c.Sentiment, Max: MaxSentiment},
		{Component: "validation", Current: c.Validation, Max: MaxValidation},
		{Component: "crisis_resilience", Current: c.CrisisResilience, Max: MaxCrisisResilience},
	}
	for i := range gaps {
		gaps[i].Gap = gaps[i].Max - gaps[i].Current
	}
	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].Gap > gaps[j].Gap
	})
	return gaps
}

// Baseline computes mean and standard deviation over all enriched
// sentiment scores, with control limits at mean ± 3 sigma. These monitor
// score drift across repeated scans of the same target, not single-scan
// validity.
func Baseline(results []models.SourceResult) models.StatBaseline {
	var scores []float64
	for _, r := range results {
		if r.Sentiment != nil {
			scores = append(scores, *r.Sentiment)
		}
	}
	if len(scores) == 0 {
		return models.StatBaseline{}
	}

	var sum float64
	for _, s := range scores {
		sum += s
	}
	mean := sum / float64(len(scores))

	var variance float64
	for _, s := range scores {
		d := s - mean
		variance += d * d
	}
	variance /= float64(len(scores))
	stddev := math.Sqrt(variance)

	return models.StatBaseline{
		Mean:       mean,
		StdDev:     stddev,
		UpperLimit: mean + 3*stddev,
		LowerLimit: mean - 3*stddev,
	}
}

func sentiment(r models.SourceResult) float64 {
	if r.Sentiment == nil {
		return 0
	}
	return *r.Sentiment
}

// proportion guards against empty denominators by substituting a neutral
// denominator of one, which yields the component floor.
func proportion(n, d int) float64 {
	if d <= 0 {
		d = 1
	}
	return float64(n) / float64(d)
}

func clamp(v, maxVal float64) float64 {
	if v < 0 {
		return 0
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

func isTier1(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Host)
	for _, t1 := range tier1Hosts {
		if host == t1 || strings.HasSuffix(host, "."+t1) {
			return true
		}
	}
	return false
}
