// Package regulatory integrates legal and sanctions registries:
// CourtListener case search and the OpenSanctions match API. Without an
// OpenSanctions key the adapter emits a labeled synthetic no-match record.
package regulatory

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"luminary/internal/platform/config"
	"luminary/internal/scan/models"
	"luminary/internal/sources"
)

// Adapters returns the regulatory-domain adapters.
func Adapters(cfg config.Providers, client *http.Client) []sources.Adapter {
	return []sources.Adapter{
		&courtListener{token: cfg.CourtListenerToken, client: client},
		&openSanctions{key: cfg.OpenSanctionsKey, client: client},
	}
}

// courtListener searches federal and state case law. The API works without
// a token at a reduced rate limit, so it is never skipped.
type courtListener struct {
	token  string
	client *http.Client
}

func (a *courtListener) Name() string { return "courtlistener" }

func (a *courtListener) Fetch(ctx context.Context, profile models.TargetProfile) ([]models.SourceResult, error) {
	var body struct {
		Results []struct {
			CaseName    string `json:"caseName"`
			AbsoluteURL string `json:"absolute_url"`
			DateFiled   string `json:"dateFiled"`
			Snippet     string `json:"snippet"`
		} `json:"results"`
	}
	q := url.Values{"q": {`"` + profile.Name + `"`}, "type": {"o"}}
	headers := map[string]string{}
	if a.token != "" {
		headers["Authorization"] = "Token " + a.token
	}
	if err := sources.GetJSON(ctx, a.client, "https://www.courtlistener.com/api/rest/v4/search/", q, headers, &body); err != nil {
		return nil, err
	}
	results := make([]models.SourceResult, 0, len(body.Results))
	for _, c := range body.Results {
		r := models.SourceResult{
			Provider: a.Name(),
			Domain:   models.DomainRegulatory,
			URL:      "https://www.courtlistener.com" + c.AbsoluteURL,
			Title:    c.CaseName,
			Snippet:  c.Snippet,
			Metadata: map[string]string{"crisis": "possible"},
		}
		if t, err := time.Parse("2006-01-02", c.DateFiled); err == nil {
			r.Published = &t
		}
		results = append(results, r)
	}
	return results, nil
}

type openSanctions struct {
	key    string
	client *http.Client
}

func (a *openSanctions) Name() string { return "opensanctions" }

func (a *openSanctions) Fetch(ctx context.Context, profile models.TargetProfile) ([]models.SourceResult, error) {
	if a.key == "" {
		return a.sample(profile), nil
	}
	var body struct {
		Results []struct {
			ID       string   `json:"id"`
			Caption  string   `json:"caption"`
			Schema   string   `json:"schema"`
			Datasets []string `json:"datasets"`
		} `json:"results"`
	}
	q := url.Values{"q": {profile.Name}}
	headers := map[string]string{"Authorization": "ApiKey " + a.key}
	if err := sources.GetJSON(ctx, a.client, "https://api.opensanctions.org/search/default", q, headers, &body); err != nil {
		return nil, err
	}
	results := make([]models.SourceResult, 0, len(body.Results))
	for _, e := range body.Results {
		dataset := ""
		if len(e.Datasets) > 0 {
			dataset = e.Datasets[0]
		}
		results = append(results, models.SourceResult{
			Provider: a.Name(),
			Domain:   models.DomainRegulatory,
			URL:      "https://www.opensanctions.org/entities/" + e.ID + "/",
			Title:    e.Caption,
			Snippet:  "Listed as " + e.Schema + " in " + dataset,
			Metadata: map[string]string{"crisis": "true"},
		})
	}
	return results, nil
}

func (a *openSanctions) sample(profile models.TargetProfile) []models.SourceResult {
	return []models.SourceResult{
		{
			Provider: a.Name(),
			Domain:   models.DomainRegulatory,
			URL:      "https://www.opensanctions.org/search/?q=" + url.QueryEscape(profile.Name),
			Title:    "[sample] sanctions screening for " + profile.Name,
			Snippet:  "Placeholder screening result (no matches). Set OPENSANCTIONS_KEY for live screening.",
			Metadata: map[string]string{"synthetic": "true"},
		},
	}
}
