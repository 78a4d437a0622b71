// Package news integrates news archive providers: NewsAPI and the keyless
// GDELT document API.
package news

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"luminary/internal/platform/config"
	"luminary/internal/scan/models"
	"luminary/internal/sources"
)

// Adapters returns the news-domain adapters for the given credentials.
func Adapters(cfg config.Providers, client *http.Client) []sources.Adapter {
	return []sources.Adapter{
		&newsAPI{key: cfg.NewsAPIKey, client: client},
		&gdelt{client: client},
	}
}

// newsAPI queries newsapi.org/v2/everything. Skipped without an API key.
type newsAPI struct {
	key    string
	client *http.Client
}

func (a *newsAPI) Name() string  { return "newsapi" }
func (a *newsAPI) Enabled() bool { return a.key != "" }

func (a *newsAPI) Fetch(ctx context.Context, profile models.TargetProfile) ([]models.SourceResult, error) {
	var body struct {
		Articles []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
			PublishedAt string `json:"publishedAt"`
			Source      struct {
				Name string `json:"name"`
			} `json:"source"`
		} `json:"articles"`
	}
	q := url.Values{
		"q":        {sources.Query(profile)},
		"sortBy":   {"relevancy"},
		"pageSize": {"20"},
		"apiKey":   {a.key},
	}
	if err := sources.GetJSON(ctx, a.client, "https://newsapi.org/v2/everything", q, nil, &body); err != nil {
		return nil, err
	}
	results := make([]models.SourceResult, 0, len(body.Articles))
	for _, art := range body.Articles {
		r := models.SourceResult{
			Provider: a.Name(),
			Domain:   models.DomainNews,
			URL:      art.URL,
			Title:    art.Title,
			Snippet:  art.Description,
			Metadata: map[string]string{"outlet": art.Source.Name},
		}
		if t, err := time.Parse(time.RFC3339, art.PublishedAt); err == nil {
			r.Published = &t
		}
		results = append(results, r)
	}
	return results, nil
}

// gdelt queries the GDELT 2.0 document API. No key required.
type gdelt struct {
	client *http.Client
}

func (a *gdelt) Name() string { return "gdelt" }

func (a *gdelt) Fetch(ctx context.Context, profile models.TargetProfile) ([]models.SourceResult, error) {
	var body struct {
		Articles []struct {
			URL      string `json:"url"`
			Title    string `json:"title"`
			SeenDate string `json:"seendate"`
			Domain   string `json:"domain"`
		} `json:"articles"`
	}
	q := url.Values{
		"query":      {sources.Query(profile)},
		"mode":       {"artlist"},
		"format":     {"json"},
		"maxrecords": {"20"},
	}
	if err := sources.GetJSON(ctx, a.client, "https://api.gdeltproject.org/api/v2/doc/doc", q, nil, &body); err != nil {
		return nil, err
	}
	results := make([]models.SourceResult, 0, len(body.Articles))
	for _, art := range body.Articles {
		r := models.SourceResult{
			Provider: a.Name(),
			Domain:   models.DomainNews,
			URL:      art.URL,
			Title:    art.Title,
			Metadata: map[string]string{"outlet": art.Domain},
		}
		if t, err := time.Parse("20060102T150405Z", art.SeenDate); err == nil {
			r.Published = &t
		}
		results = append(results, r)
	}
	return results, nil
}
