package enrich

import (
	"sort"
	"strings"
	"unicode"

	"luminary/internal/scan/models"
	pkgstrings "luminary/pkg/platform/strings"
)

var stopwords = map[string]struct{}{
	"a": {}, "about": {}, "after": {}, "all": {}, "also": {}, "an": {},
	"and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "been": {},
	"but": {}, "by": {}, "can": {}, "for": {}, "from": {}, "had": {},
	"has": {}, "have": {}, "he": {}, "her": {}, "his": {}, "how": {},
	"in": {}, "into": {}, "is": {}, "it": {}, "its": {}, "more": {},
	"new": {}, "not": {}, "of": {}, "on": {}, "one": {}, "or": {},
	"our": {}, "out": {}, "over": {}, "said": {}, "she": {}, "that": {},
	"the": {}, "their": {}, "them": {}, "they": {}, "this": {}, "to": {},
	"up": {}, "was": {}, "we": {}, "were": {}, "what": {}, "when": {},
	"which": {}, "who": {}, "will": {}, "with": {}, "you": {}, "your": {},
}

// Keywords ranks normalized tokens across titles and snippets by
// frequency, excluding stop-words and the target's own name parts, and
// returns the top n. Ties rank alphabetically so output is deterministic.
func Keywords(results []models.SourceResult, profile models.TargetProfile, n int) []models.Keyword {
	excluded := make(map[string]struct{}, len(stopwords)+4)
	for w := range stopwords {
		excluded[w] = struct{}{}
	}
	for _, part := range pkgstrings.DedupeAndTrimLower(strings.Fields(profile.Name)) {
		excluded[part] = struct{}{}
	}

	counts := make(map[string]int)
	for _, r := range results {
		for _, tok := range tokenize(r.Title + " " + r.Snippet) {
			if _, skip := excluded[tok]; skip {
				continue
			}
			counts[tok]++
		}
	}

	keywords := make([]models.Keyword, 0, len(counts))
	for tok, c := range counts {
		keywords = append(keywords, models.Keyword{Token: tok, Count: c})
	}
	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Count != keywords[j].Count {
			return keywords[i].Count > keywords[j].Count
		}
		return keywords[i].Token < keywords[j].Token
	})
	if len(keywords) > n {
		keywords = keywords[:n]
	}
	return keywords
}

// tokenize lowercases and splits on anything that is not a letter or
// digit, dropping tokens shorter than three runes.
func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) >= 3 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
