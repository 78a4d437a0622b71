// Package financial integrates financial and company registries: SEC EDGAR
// full-text search (keyless) and the Crunchbase autocomplete API. Without a
// Crunchbase key the adapter emits clearly labeled sample data so the rest
// of the pipeline can be exercised in development.
package financial

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"luminary/internal/platform/config"
	"luminary/internal/scan/models"
	"luminary/internal/sources"
)

// Adapters returns the financial-domain adapters.
func Adapters(cfg config.Providers, client *http.Client) []sources.Adapter {
	return []sources.Adapter{
		&secEdgar{client: client},
		&crunchbase{key: cfg.CrunchbaseKey, client: client},
	}
}

type secEdgar struct {
	client *http.Client
}

func (a *secEdgar) Name() string { return "sec_edgar" }

func (a *secEdgar) Fetch(ctx context.Context, profile models.TargetProfile) ([]models.SourceResult, error) {
	var body struct {
		Hits struct {
			Hits []struct {
				ID     string `json:"_id"`
				Source struct {
					DisplayNames []string `json:"display_names"`
					FileType     string   `json:"file_type"`
					FileDate     string   `json:"file_date"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	q := url.Values{"q": {`"` + profile.Name + `"`}}
	headers := map[string]string{"User-Agent": "luminary-scan admin@luminary.local"}
	if err := sources.GetJSON(ctx, a.client, "https://efts.sec.gov/LATEST/search-index", q, headers, &body); err != nil {
		return nil, err
	}
	results := make([]models.SourceResult, 0, len(body.Hits.Hits))
	for _, h := range body.Hits.Hits {
		title := h.Source.FileType
		if len(h.Source.DisplayNames) > 0 {
			title = h.Source.DisplayNames[0] + " " + h.Source.FileType
		}
		results = append(results, models.SourceResult{
			Provider: a.Name(),
			Domain:   models.DomainFinancial,
			URL:      "https://www.sec.gov/cgi-srv/efts/search?q=" + url.QueryEscape(profile.Name) + "#" + h.ID,
			Title:    title,
			Snippet:  "SEC filing dated " + h.Source.FileDate,
			Metadata: map[string]string{"file_date": h.Source.FileDate},
		})
	}
	return results, nil
}

// crunchbase hits the v4 autocomplete endpoint when a key is present. With
// no key it returns labeled synthetic placeholders instead of skipping, so
// development environments still see financial-domain data flow end to end.
type crunchbase struct {
	key    string
	client *http.Client
}

func (a *crunchbase) Name() string { return "crunchbase" }

func (a *crunchbase) Fetch(ctx context.Context, profile models.TargetProfile) ([]models.SourceResult, error) {
	if a.key == "" {
		return a.sample(profile), nil
	}
	var body struct {
		Entities []struct {
			Identifier struct {
				Permalink string `json:"permalink"`
				Value     string `json:"value"`
			} `json:"identifier"`
			ShortDescription string `json:"short_description"`
		} `json:"entities"`
	}
	q := url.Values{
		"query":    {profile.Name},
		"user_key": {a.key},
	}
	if err := sources.GetJSON(ctx, a.client, "https://api.crunchbase.com/api/v4/autocompletes", q, nil, &body); err != nil {
		return nil, err
	}
	results := make([]models.SourceResult, 0, len(body.Entities))
	for _, e := range body.Entities {
		results = append(results, models.SourceResult{
			Provider: a.Name(),
			Domain:   models.DomainFinancial,
			URL:      "https://www.crunchbase.com/" + e.Identifier.Permalink,
			Title:    e.Identifier.Value,
			Snippet:  e.ShortDescription,
		})
	}
	return results, nil
}

func (a *crunchbase) sample(profile models.TargetProfile) []models.SourceResult {
	org := profile.Organization
	if org == "" {
		org = profile.Name
	}
	return []models.SourceResult{
		{
			Provider: a.Name(),
			Domain:   models.DomainFinancial,
			URL:      "https://www.crunchbase.com/organization/sample-" + url.PathEscape(org),
			Title:    fmt.Sprintf("[sample] %s - company profile", org),
			Snippet:  fmt.Sprintf("Placeholder Crunchbase profile for %s. Set CRUNCHBASE_KEY for live data.", org),
			Metadata: map[string]string{"synthetic": "true"},
		},
	}
}
