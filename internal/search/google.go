// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/birlabs/partgen/internal/httputil"
	"github.com/birlabs/partgen/pkg/types"
)

// googleAPIBase is the Google Custom Search JSON API endpoint. Declared as
// a var so tests can substitute an httptest server.
var googleAPIBase = "https://www.googleapis.com/customsearch/v1"

// GoogleBackend queries the Custom Search JSON API (Programmable Search
// Engine). Requires both an API key and an engine ID.
type GoogleBackend struct {
	Client *http.Client
}

// Name returns the backend identifier.
func (b *GoogleBackend) Name() string { return "google" }

type googleResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}

// Search queries the Custom Search API and returns results.
func (b *GoogleBackend) Search(ctx context.Context, query string, cfg types.SearchConfig) ([]types.SearchResult, error) {
	if cfg.GoogleAPIKey == "" || cfg.GoogleEngineID == "" {
		return nil, fmt.Errorf("%w: google search credentials not configured", ErrBackendUnavailable)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}

	params := url.Values{
		"key":  {cfg.GoogleAPIKey},
		"cx":   {cfg.GoogleEngineID},
		"q":    {query},
		"num":  {fmt.Sprintf("%d", maxResults)},
		"safe": {"active"},
	}

	header := http.Header{}
	header.Set("User-Agent", cfg.UserAgent)

	var resp googleResponse
	if err := httputil.DoJSON(ctx, b.Client, http.MethodGet, googleAPIBase+"?"+params.Encode(), header, nil, &resp); err != nil {
		return nil, fmt.Errorf("google search API request: %w", err)
	}

	var results []types.SearchResult
	for _, item := range resp.Items {
		results = append(results, types.SearchResult{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: item.Snippet,
		})
	}
	return results, nil
}
