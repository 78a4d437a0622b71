package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"luminary/internal/scan/models"
	pkgstrings "luminary/pkg/platform/strings"
)

// summary asks the model for a short narrative summary of the footprint.
// Best effort: any failure falls back to a templated summary built from
// the distributions, so the bundle is always fully populated.
func (p *Pipeline) summary(ctx context.Context, profile models.TargetProfile, bundle models.EnrichedBundle) string {
	if p.model != nil {
		prompt := summaryPrompt(profile, bundle)
		text, err := p.model.Generate(ctx, prompt)
		if err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text)
		}
		p.logger.WarnContext(ctx, "narrative summary degraded to template", "error", err)
	}
	return templatedSummary(profile, bundle)
}

func summaryPrompt(profile models.TargetProfile, bundle models.EnrichedBundle) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a 3-4 sentence neutral summary of the public digital footprint of %s", profile.Name)
	if profile.Organization != "" {
		fmt.Fprintf(&b, " (%s, %s)", profile.Role, profile.Organization)
	}
	b.WriteString(" based on these mentions:\n\n")
	for i, r := range bundle.Results {
		if i >= 15 {
			break
		}
		fmt.Fprintf(&b, "- [%s] %s\n", r.Provider, r.Title)
	}
	return b.String()
}

func templatedSummary(profile models.TargetProfile, bundle models.EnrichedBundle) string {
	if bundle.TotalMentions == 0 {
		return fmt.Sprintf("No public mentions of %s were found across the scanned sources.", profile.Name)
	}
	tone := "mixed"
	switch {
	case bundle.SentimentBuckets["positive"] >= 50:
		tone = "largely positive"
	case bundle.SentimentBuckets["negative"] >= 30:
		tone = "notably negative"
	case bundle.SentimentBuckets["neutral"] >= 70:
		tone = "mostly neutral"
	}
	summary := fmt.Sprintf("%s appears in %d public mentions across %d distinct sources with %s coverage.",
		profile.Name, bundle.TotalMentions, len(bundle.Results), tone)
	if n := len(bundle.CrisisSignals); n > 0 {
		summary += fmt.Sprintf(" %d mention(s) carry crisis framing and warrant review.", n)
	}
	return summary
}

// archetypes asks the model for a small set of narrative archetype hints.
// Falls back to a statistical derivation from the frame distribution.
func (p *Pipeline) archetypes(ctx context.Context, profile models.TargetProfile, bundle models.EnrichedBundle) []string {
	if p.model != nil {
		prompt := fmt.Sprintf(
			"Given frame distribution %v for %s, suggest up to 3 public-narrative archetypes. Respond with only a JSON array of short strings.",
			bundle.FrameBuckets, profile.Name,
		)
		text, err := p.model.Generate(ctx, prompt)
		if err == nil {
			var hints []string
			if jsonErr := json.Unmarshal([]byte(stripFences(text)), &hints); jsonErr == nil {
				hints = pkgstrings.DedupeAndTrim(hints)
				if len(hints) > 3 {
					hints = hints[:3]
				}
				if len(hints) > 0 {
					return hints
				}
			}
			err = fmt.Errorf("unparseable archetype response")
		}
		p.logger.WarnContext(ctx, "archetype hints degraded to frame-derived defaults", "error", err)
	}
	return frameArchetypes(bundle.FrameBuckets)
}

var frameArchetypeNames = map[string]string{
	string(models.FrameExpert):  "The Thought Leader",
	string(models.FrameFounder): "The Builder",
	string(models.FrameLeader):  "The Executive",
	string(models.FrameFamily):  "The Private Citizen",
	string(models.FrameCrisis):  "The Contested Figure",
}

// frameArchetypes derives hints from the dominant frames, strongest first.
func frameArchetypes(frameBuckets map[string]float64) []string {
	type fb struct {
		frame string
		pct   float64
	}
	ranked := make([]fb, 0, len(frameBuckets))
	for frame, pct := range frameBuckets {
		if name := frameArchetypeNames[frame]; name != "" && pct > 0 {
			ranked = append(ranked, fb{frame: frame, pct: pct})
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].pct != ranked[j].pct {
			return ranked[i].pct > ranked[j].pct
		}
		return ranked[i].frame < ranked[j].frame
	})
	hints := make([]string, 0, 3)
	for _, r := range ranked {
		hints = append(hints, frameArchetypeNames[r.frame])
		if len(hints) == 3 {
			break
		}
	}
	if len(hints) == 0 {
		hints = []string{"The Low-Profile Professional"}
	}
	return hints
}
