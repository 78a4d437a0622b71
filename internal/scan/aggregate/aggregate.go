// Package aggregate merges module outputs into one deduplicated, capped
// evidence list and owns the display-ranking contract.
package aggregate

import (
	"sort"

	"luminary/internal/scan/models"
)

// Result is the merged output of all source modules.
type Result struct {
	// Results is the deduplicated list, capped at the configured size, in
	// encounter order. Ranking for display happens after enrichment via
	// Rank; encounter order is not a priority signal because modules
	// complete in a non-deterministic order.
	Results []models.SourceResult
	// TotalCollected counts every result the modules produced, before
	// dedup and capping. This is the mention count reported to clients.
	TotalCollected int
	// Deduped counts distinct identities before the cap was applied.
	Deduped int
}

// Merge combines all module result lists, drops duplicate identities
// (first occurrence wins), and caps the list at maxResults. A maxResults
// of zero or less means no cap.
func Merge(moduleResults []models.ModuleResult, maxResults int) Result {
	var out Result
	seen := make(map[string]struct{})
	for _, mr := range moduleResults {
		out.TotalCollected += len(mr.Results)
		for _, r := range mr.Results {
			key := r.IdentityKey()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out.Deduped++
			if maxResults <= 0 || len(out.Results) < maxResults {
				out.Results = append(out.Results, r)
			}
		}
	}
	return out
}

// Rank orders enriched results by relevance descending. The sort is stable
// so ties keep their encounter order, which is the only role encounter
// order plays in ordering.
func Rank(results []models.SourceResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return relevance(results[i]) > relevance(results[j])
	})
}

func relevance(r models.SourceResult) float64 {
	if r.Relevance == nil {
		return 0
	}
	return *r.Relevance
}

// Summaries converts module results into their persisted form.
func Summaries(moduleResults []models.ModuleResult) []models.ModuleSummary {
	summaries := make([]models.ModuleSummary, 0, len(moduleResults))
	for _, mr := range moduleResults {
		errs := mr.Errors
		if errs == nil {
			errs = []string{}
		}
		summaries = append(summaries, models.ModuleSummary{
			Domain:     mr.Domain,
			Results:    len(mr.Results),
			Scanned:    mr.Scanned,
			Errors:     errs,
			DurationMS: mr.Duration.Milliseconds(),
		})
	}
	return summaries
}
