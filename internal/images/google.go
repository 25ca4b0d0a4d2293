// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package images

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/birlabs/partgen/internal/httputil"
	"github.com/birlabs/partgen/pkg/types"
)

// googleImageAPIBase is the Custom Search JSON API endpoint, shared with
// web search but queried with searchType=image. Var for test substitution.
var googleImageAPIBase = "https://www.googleapis.com/customsearch/v1"

// ErrNotConfigured means image search credentials are absent. The selector
// treats this as "no images available", not a failure.
var ErrNotConfigured = fmt.Errorf("image search not configured")

// GoogleImageBackend queries the Custom Search JSON API in image mode.
// The engine must have image search enabled in its CSE settings.
type GoogleImageBackend struct {
	Client *http.Client
}

// Name returns the backend identifier.
func (b *GoogleImageBackend) Name() string { return "google_images" }

type googleImageResponse struct {
	Items []struct {
		Link  string `json:"link"`
		Image struct {
			ThumbnailLink string `json:"thumbnailLink"`
			ContextLink   string `json:"contextLink"`
		} `json:"image"`
	} `json:"items"`
}

// SearchImages queries the API and returns candidate image hits.
func (b *GoogleImageBackend) SearchImages(ctx context.Context, query string, limit int, cfg types.ImageConfig) ([]types.ImageResult, error) {
	if cfg.GoogleAPIKey == "" || cfg.GoogleEngineID == "" {
		return nil, ErrNotConfigured
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	params := url.Values{
		"key":        {cfg.GoogleAPIKey},
		"cx":         {cfg.GoogleEngineID},
		"q":          {query},
		"searchType": {"image"},
		"num":        {fmt.Sprintf("%d", limit)},
		"safe":       {"active"},
	}

	header := http.Header{}
	header.Set("User-Agent", cfg.UserAgent)

	var resp googleImageResponse
	if err := httputil.DoJSON(ctx, b.Client, http.MethodGet, googleImageAPIBase+"?"+params.Encode(), header, nil, &resp); err != nil {
		return nil, fmt.Errorf("google image search: %w", err)
	}

	var results []types.ImageResult
	for _, item := range resp.Items {
		results = append(results, types.ImageResult{
			URL:       item.Link,
			Thumbnail: item.Image.ThumbnailLink,
			Context:   item.Image.ContextLink,
		})
	}
	return results, nil
}
