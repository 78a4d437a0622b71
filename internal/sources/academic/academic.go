// Package academic integrates scholarly indexes: Crossref and OpenAlex.
// Both are keyless.
package academic

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"luminary/internal/platform/config"
	"luminary/internal/scan/models"
	"luminary/internal/sources"
)

// Adapters returns the academic-domain adapters.
func Adapters(_ config.Providers, client *http.Client) []sources.Adapter {
	return []sources.Adapter{
		&crossref{client: client},
		&openAlex{client: client},
	}
}

type crossref struct {
	client *http.Client
}

func (a *crossref) Name() string { return "crossref" }

func (a *crossref) Fetch(ctx context.Context, profile models.TargetProfile) ([]models.SourceResult, error) {
	var body struct {
		Message struct {
			Items []struct {
				Title   []string `json:"title"`
				URL     string   `json:"URL"`
				Created struct {
					DateTime string `json:"date-time"`
				} `json:"created"`
			} `json:"items"`
		} `json:"message"`
	}
	q := url.Values{
		"query.author": {profile.Name},
		"rows":         {"10"},
	}
	if err := sources.GetJSON(ctx, a.client, "https://api.crossref.org/works", q, nil, &body); err != nil {
		return nil, err
	}
	results := make([]models.SourceResult, 0, len(body.Message.Items))
	for _, it := range body.Message.Items {
		title := ""
		if len(it.Title) > 0 {
			title = it.Title[0]
		}
		r := models.SourceResult{
			Provider: a.Name(),
			Domain:   models.DomainAcademic,
			URL:      it.URL,
			Title:    title,
		}
		if t, err := time.Parse(time.RFC3339, it.Created.DateTime); err == nil {
			r.Published = &t
		}
		results = append(results, r)
	}
	return results, nil
}

type openAlex struct {
	client *http.Client
}

func (a *openAlex) Name() string { return "openalex" }

func (a *openAlex) Fetch(ctx context.Context, profile models.TargetProfile) ([]models.SourceResult, error) {
	var body struct {
		Results []struct {
			Title           string `json:"title"`
			ID              string `json:"id"`
			DOI             string `json:"doi"`
			PublicationDate string `json:"publication_date"`
		} `json:"results"`
	}
	q := url.Values{
		"search":   {profile.Name},
		"per-page": {"10"},
	}
	if err := sources.GetJSON(ctx, a.client, "https://api.openalex.org/works", q, nil, &body); err != nil {
		return nil, err
	}
	results := make([]models.SourceResult, 0, len(body.Results))
	for _, w := range body.Results {
		link := w.DOI
		if link == "" {
			link = w.ID
		}
		r := models.SourceResult{
			Provider: a.Name(),
			Domain:   models.DomainAcademic,
			URL:      link,
			Title:    w.Title,
		}
		if t, err := time.Parse("2006-01-02", w.PublicationDate); err == nil {
			r.Published = &t
		}
		results = append(results, r)
	}
	return results, nil
}
