// Package social integrates social platforms: Reddit search and the Hacker
// News Algolia index. Both work without credentials; Reddit only needs a
// descriptive User-Agent.
package social

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"luminary/internal/platform/config"
	"luminary/internal/scan/models"
	"luminary/internal/sources"
)

// Adapters returns the social-domain adapters.
func Adapters(cfg config.Providers, client *http.Client) []sources.Adapter {
	return []sources.Adapter{
		&reddit{userAgent: cfg.RedditUserAgent, client: client},
		&hackerNews{client: client},
	}
}

type reddit struct {
	userAgent string
	client    *http.Client
}

func (a *reddit) Name() string { return "reddit" }

func (a *reddit) Fetch(ctx context.Context, profile models.TargetProfile) ([]models.SourceResult, error) {
	var body struct {
		Data struct {
			Children []struct {
				Data struct {
					Title      string  `json:"title"`
					Permalink  string  `json:"permalink"`
					Selftext   string  `json:"selftext"`
					Subreddit  string  `json:"subreddit"`
					CreatedUTC float64 `json:"created_utc"`
				} `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}
	q := url.Values{
		"q":     {sources.Query(profile)},
		"sort":  {"relevance"},
		"limit": {"20"},
	}
	headers := map[string]string{"User-Agent": a.userAgent}
	if err := sources.GetJSON(ctx, a.client, "https://www.reddit.com/search.json", q, headers, &body); err != nil {
		return nil, err
	}
	results := make([]models.SourceResult, 0, len(body.Data.Children))
	for _, c := range body.Data.Children {
		post := c.Data
		snippet := post.Selftext
		if len(snippet) > 300 {
			snippet = snippet[:300]
		}
		t := time.Unix(int64(post.CreatedUTC), 0).UTC()
		results = append(results, models.SourceResult{
			Provider:  a.Name(),
			Domain:    models.DomainSocial,
			URL:       "https://www.reddit.com" + post.Permalink,
			Title:     post.Title,
			Snippet:   snippet,
			Published: &t,
			Metadata:  map[string]string{"subreddit": post.Subreddit},
		})
	}
	return results, nil
}

type hackerNews struct {
	client *http.Client
}

func (a *hackerNews) Name() string { return "hackernews" }

func (a *hackerNews) Fetch(ctx context.Context, profile models.TargetProfile) ([]models.SourceResult, error) {
	var body struct {
		Hits []struct {
			Title     string `json:"title"`
			URL       string `json:"url"`
			StoryText string `json:"story_text"`
			CreatedAt string `json:"created_at"`
			ObjectID  string `json:"objectID"`
		} `json:"hits"`
	}
	q := url.Values{
		"query": {profile.Name},
		"tags":  {"story"},
	}
	if err := sources.GetJSON(ctx, a.client, "https://hn.algolia.com/api/v1/search", q, nil, &body); err != nil {
		return nil, err
	}
	results := make([]models.SourceResult, 0, len(body.Hits))
	for _, h := range body.Hits {
		link := h.URL
		if link == "" {
			link = "https://news.ycombinator.com/item?id=" + h.ObjectID
		}
		r := models.SourceResult{
			Provider: a.Name(),
			Domain:   models.DomainSocial,
			URL:      link,
			Title:    h.Title,
			Snippet:  h.StoryText,
		}
		if t, err := time.Parse(time.RFC3339, h.CreatedAt); err == nil {
			r.Published = &t
		}
		results = append(results, r)
	}
	return results, nil
}
