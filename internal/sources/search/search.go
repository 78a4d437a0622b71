// Package search integrates general web search providers: Google
// Programmable Search, Brave Search, and DuckDuckGo Instant Answers.
package search

import (
	"context"
	"net/http"
	"net/url"

	"luminary/internal/platform/config"
	"luminary/internal/scan/models"
	"luminary/internal/sources"
)

// Adapters returns the search-domain adapters for the given credentials.
func Adapters(cfg config.Providers, client *http.Client) []sources.Adapter {
	return []sources.Adapter{
		&googleCSE{key: cfg.GoogleCSEKey, cx: cfg.GoogleCSECX, client: client},
		&brave{key: cfg.BraveSearchKey, client: client},
		&duckduckgo{client: client},
	}
}

// googleCSE queries a Google Programmable Search Engine. Requires both an
// API key and an engine ID; skipped when either is absent.
type googleCSE struct {
	key    string
	cx     string
	client *http.Client
}

func (a *googleCSE) Name() string  { return "google_cse" }
func (a *googleCSE) Enabled() bool { return a.key != "" && a.cx != "" }

func (a *googleCSE) Fetch(ctx context.Context, profile models.TargetProfile) ([]models.SourceResult, error) {
	var body struct {
		Items []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"items"`
	}
	q := url.Values{
		"key": {a.key},
		"cx":  {a.cx},
		"q":   {sources.Query(profile)},
		"num": {"10"},
	}
	if err := sources.GetJSON(ctx, a.client, "https://www.googleapis.com/customsearch/v1", q, nil, &body); err != nil {
		return nil, err
	}
	results := make([]models.SourceResult, 0, len(body.Items))
	for _, it := range body.Items {
		results = append(results, models.SourceResult{
			Provider: a.Name(),
			Domain:   models.DomainSearch,
			URL:      it.Link,
			Title:    it.Title,
			Snippet:  it.Snippet,
		})
	}
	return results, nil
}

// brave queries the Brave Search API. Skipped without a subscription token.
type brave struct {
	key    string
	client *http.Client
}

func (a *brave) Name() string  { return "brave_search" }
func (a *brave) Enabled() bool { return a.key != "" }

func (a *brave) Fetch(ctx context.Context, profile models.TargetProfile) ([]models.SourceResult, error) {
	var body struct {
		Web struct {
			Results []struct {
				Title       string `json:"title"`
				URL         string `json:"url"`
				Description string `json:"description"`
			} `json:"results"`
		} `json:"web"`
	}
	q := url.Values{"q": {sources.Query(profile)}, "count": {"10"}}
	headers := map[string]string{"X-Subscription-Token": a.key}
	if err := sources.GetJSON(ctx, a.client, "https://api.search.brave.com/res/v1/web/search", q, headers, &body); err != nil {
		return nil, err
	}
	results := make([]models.SourceResult, 0, len(body.Web.Results))
	for _, it := range body.Web.Results {
		results = append(results, models.SourceResult{
			Provider: a.Name(),
			Domain:   models.DomainSearch,
			URL:      it.URL,
			Title:    it.Title,
			Snippet:  it.Description,
		})
	}
	return results, nil
}

// duckduckgo queries the keyless Instant Answer API. Coverage is shallow
// but it keeps the search module alive with zero configuration.
type duckduckgo struct {
	client *http.Client
}

func (a *duckduckgo) Name() string { return "duckduckgo" }

func (a *duckduckgo) Fetch(ctx context.Context, profile models.TargetProfile) ([]models.SourceResult, error) {
	var body struct {
		AbstractText  string `json:"AbstractText"`
		AbstractURL   string `json:"AbstractURL"`
		Heading       string `json:"Heading"`
		RelatedTopics []struct {
			Text     string `json:"Text"`
			FirstURL string `json:"FirstURL"`
		} `json:"RelatedTopics"`
	}
	q := url.Values{
		"q":             {sources.Query(profile)},
		"format":        {"json"},
		"no_redirect":   {"1"},
		"skip_disambig": {"1"},
	}
	if err := sources.GetJSON(ctx, a.client, "https://api.duckduckgo.com/", q, nil, &body); err != nil {
		return nil, err
	}
	var results []models.SourceResult
	if body.AbstractURL != "" {
		results = append(results, models.SourceResult{
			Provider: a.Name(),
			Domain:   models.DomainSearch,
			URL:      body.AbstractURL,
			Title:    body.Heading,
			Snippet:  body.AbstractText,
		})
	}
	for _, t := range body.RelatedTopics {
		if t.FirstURL == "" {
			continue
		}
		results = append(results, models.SourceResult{
			Provider: a.Name(),
			Domain:   models.DomainSearch,
			URL:      t.FirstURL,
			Title:    t.Text,
			Snippet:  t.Text,
		})
	}
	return results, nil
}
