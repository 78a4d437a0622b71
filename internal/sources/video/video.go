// Package video integrates video and podcast directories: the YouTube Data
// API (skipped without a key) and the keyless iTunes podcast search.
package video

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"luminary/internal/platform/config"
	"luminary/internal/scan/models"
	"luminary/internal/sources"
)

// Adapters returns the video-domain adapters.
func Adapters(cfg config.Providers, client *http.Client) []sources.Adapter {
	return []sources.Adapter{
		&youtube{key: cfg.YouTubeKey, client: client},
		&itunesPodcasts{client: client},
	}
}

type youtube struct {
	key    string
	client *http.Client
}

func (a *youtube) Name() string  { return "youtube" }
func (a *youtube) Enabled() bool { return a.key != "" }

func (a *youtube) Fetch(ctx context.Context, profile models.TargetProfile) ([]models.SourceResult, error) {
	var body struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
			Snippet struct {
				Title        string `json:"title"`
				Description  string `json:"description"`
				PublishedAt  string `json:"publishedAt"`
				ChannelTitle string `json:"channelTitle"`
			} `json:"snippet"`
		} `json:"items"`
	}
	q := url.Values{
		"part":       {"snippet"},
		"q":          {sources.Query(profile)},
		"type":       {"video"},
		"maxResults": {"10"},
		"key":        {a.key},
	}
	if err := sources.GetJSON(ctx, a.client, "https://www.googleapis.com/youtube/v3/search", q, nil, &body); err != nil {
		return nil, err
	}
	results := make([]models.SourceResult, 0, len(body.Items))
	for _, it := range body.Items {
		r := models.SourceResult{
			Provider: a.Name(),
			Domain:   models.DomainVideo,
			URL:      "https://www.youtube.com/watch?v=" + it.ID.VideoID,
			Title:    it.Snippet.Title,
			Snippet:  it.Snippet.Description,
			Metadata: map[string]string{"channel": it.Snippet.ChannelTitle},
		}
		if t, err := time.Parse(time.RFC3339, it.Snippet.PublishedAt); err == nil {
			r.Published = &t
		}
		results = append(results, r)
	}
	return results, nil
}

type itunesPodcasts struct {
	client *http.Client
}

func (a *itunesPodcasts) Name() string { return "itunes_podcasts" }

func (a *itunesPodcasts) Fetch(ctx context.Context, profile models.TargetProfile) ([]models.SourceResult, error) {
	var body struct {
		Results []struct {
			TrackName         string `json:"trackName"`
			CollectionName    string `json:"collectionName"`
			CollectionViewURL string `json:"collectionViewUrl"`
			ArtistName        string `json:"artistName"`
		} `json:"results"`
	}
	q := url.Values{
		"term":  {profile.Name},
		"media": {"podcast"},
		"limit": {"10"},
	}
	if err := sources.GetJSON(ctx, a.client, "https://itunes.apple.com/search", q, nil, &body); err != nil {
		return nil, err
	}
	results := make([]models.SourceResult, 0, len(body.Results))
	for _, p := range body.Results {
		title := p.TrackName
		if title == "" {
			title = p.CollectionName
		}
		results = append(results, models.SourceResult{
			Provider: a.Name(),
			Domain:   models.DomainVideo,
			URL:      p.CollectionViewURL,
			Title:    title,
			Snippet:  "Podcast by " + p.ArtistName,
			Metadata: map[string]string{"artist": p.ArtistName},
		})
	}
	return results, nil
}
