package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luminary/internal/scan/models"
)

func enriched(domain models.Domain, url string, sentiment float64, frame models.Frame) models.SourceResult {
	s := sentiment
	return models.SourceResult{
		Domain:    domain,
		URL:       url,
		Sentiment: &s,
		Frame:     frame,
	}
}

func TestComputeEmptyBundleIsDeterministicFloor(t *testing.T) {
	comps, gaps, baseline := Compute(models.EnrichedBundle{})

	assert.Zero(t, comps.SearchPresence)
	assert.Zero(t, comps.NarrativeControl)
	assert.Zero(t, comps.Authority)
	assert.Zero(t, comps.Sentiment)
	assert.Zero(t, comps.Validation)
	assert.Zero(t, comps.CrisisResilience)
	assert.Zero(t, comps.Total)

	require.Len(t, gaps, 6)
	assert.Equal(t, models.StatBaseline{}, baseline)
}

func TestComputeComponentsStayInRange(t *testing.T) {
	bundle := models.EnrichedBundle{Results: []models.SourceResult{
		enriched(models.DomainSearch, "https://www.nytimes.com/story", 0.9, models.FrameExpert),
		enriched(models.DomainSearch, "https://blog.example.com/post", 0.8, models.FrameLeader),
		enriched(models.DomainNews, "https://www.reuters.com/a", 0.7, models.FrameFounder),
		enriched(models.DomainNews, "https://www.bbc.com/b", 0.6, models.FrameExpert),
		enriched(models.DomainAcademic, "https://doi.org/x", 0.5, models.FrameExpert),
		enriched(models.DomainVideo, "https://www.youtube.com/watch?v=1", 0.4, models.FrameOther),
	}}

	comps, _, _ := Compute(bundle)

	for name, pair := range map[string][2]float64{
		"search_presence":   {comps.SearchPresence, MaxSearchPresence},
		"narrative_control": {comps.NarrativeControl, MaxNarrativeControl},
		"authority":         {comps.Authority, MaxAuthority},
		"sentiment":         {comps.Sentiment, MaxSentiment},
		"validation":        {comps.Validation, MaxValidation},
		"crisis_resilience": {comps.CrisisResilience, MaxCrisisResilience},
	} {
		assert.GreaterOrEqual(t, pair[0], 0.0, name)
		assert.LessOrEqual(t, pair[0], pair[1], name)
	}
	assert.GreaterOrEqual(t, comps.Total, 0.0)
	assert.LessOrEqual(t, comps.Total, 100.0)

	// All search results positive: component at its max.
	assert.InDelta(t, MaxSearchPresence, comps.SearchPresence, 1e-9)
	// No crisis framing: full resilience.
	assert.InDelta(t, MaxCrisisResilience, comps.CrisisResilience, 1e-9)
}

func TestComputeCrisisProportionLowersResilience(t *testing.T) {
	bundle := models.EnrichedBundle{Results: []models.SourceResult{
		enriched(models.DomainNews, "https://a.example/1", -0.8, models.FrameCrisis),
		enriched(models.DomainNews, "https://a.example/2", -0.5, models.FrameCrisis),
		enriched(models.DomainNews, "https://a.example/3", 0.1, models.FrameOther),
		enriched(models.DomainNews, "https://a.example/4", 0.0, models.FrameOther),
	}}
	comps, _, _ := Compute(bundle)
	assert.InDelta(t, 5.0, comps.CrisisResilience, 1e-9) // half crisis -> half of max 10
}

func TestGapsSortedByDescendingGap(t *testing.T) {
	comps := models.ScoreComponents{
		SearchPresence:   18, // gap 2
		NarrativeControl: 5,  // gap 15
		Authority:        20, // gap 0
		Sentiment:        10, // gap 5
		Validation:       1,  // gap 14
		CrisisResilience: 10, // gap 0
	}
	gaps := Gaps(comps)
	require.Len(t, gaps, 6)
	for i := 1; i < len(gaps); i++ {
		assert.GreaterOrEqual(t, gaps[i-1].Gap, gaps[i].Gap)
	}
	assert.Equal(t, "narrative_control", gaps[0].Component)
	assert.Equal(t, "validation", gaps[1].Component)
}

func TestBaselineControlLimits(t *testing.T) {
	results := []models.SourceResult{
		enriched(models.DomainNews, "https://a/1", 0.2, models.FrameOther),
		enriched(models.DomainNews, "https://a/2", 0.4, models.FrameOther),
		enriched(models.DomainNews, "https://a/3", 0.6, models.FrameOther),
		{Domain: models.DomainNews, URL: "https://a/4"}, // unenriched, ignored
	}
	b := Baseline(results)
	assert.InDelta(t, 0.4, b.Mean, 1e-9)
	assert.InDelta(t, b.Mean+3*b.StdDev, b.UpperLimit, 1e-9)
	assert.InDelta(t, b.Mean-3*b.StdDev, b.LowerLimit, 1e-9)
}

func TestIsTier1MatchesSubdomains(t *testing.T) {
	assert.True(t, isTier1("https://www.nytimes.com/2024/story"))
	assert.True(t, isTier1("https://markets.ft.com/quote"))
	assert.False(t, isTier1("https://nytimes.com.evil.example/story"))
	assert.False(t, isTier1("not a url"))
	assert.False(t, isTier1(""))
}
