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

// perplexityAPIBase is the Perplexity chat-completions endpoint. Declared
// as a var so tests can substitute an httptest server.
var perplexityAPIBase = "https://api.perplexity.ai/chat/completions"

// maxCitations bounds how many citation URLs become search results.
const maxCitations = 10

const searchSystemPrompt = "You are a search assistant. Return a concise answer with high-quality citations (manufacturer/datasheet if possible)."

// PerplexityBackend asks the grounded model a question and turns its
// citations into search results. Result titles are the citation hostnames
// since the API returns bare URLs.
type PerplexityBackend struct {
	Client *http.Client
	Model  string
}

// Name returns the backend identifier.
func (b *PerplexityBackend) Name() string { return "perplexity" }

type perplexityChatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	Temperature float64 `json:"temperature"`
}

type perplexityChatResponse struct {
	Choices []struct {
		Message struct {
			Content   string   `json:"content"`
			Citations []string `json:"citations"`
		} `json:"message"`
	} `json:"choices"`
	Citations []string `json:"citations"`
}

// Search queries the grounded backend and maps its citations to results.
func (b *PerplexityBackend) Search(ctx context.Context, query string, cfg types.SearchConfig) ([]types.SearchResult, error) {
	if cfg.PerplexityAPIKey == "" {
		return nil, fmt.Errorf("%w: perplexity API key not configured", ErrBackendUnavailable)
	}

	model := b.Model
	if model == "" {
		model = cfg.PerplexityModel
	}
	if model == "" {
		model = "sonar"
	}

	req := perplexityChatRequest{Model: model, Temperature: 0.0}
	req.Messages = []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}{
		{Role: "system", Content: searchSystemPrompt},
		{Role: "user", Content: query},
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+cfg.PerplexityAPIKey)
	header.Set("User-Agent", cfg.UserAgent)

	var resp perplexityChatResponse
	if err := httputil.DoJSON(ctx, b.Client, http.MethodPost, perplexityAPIBase, header, req, &resp); err != nil {
		return nil, fmt.Errorf("perplexity API request: %w", err)
	}

	citations := resp.Citations
	if len(resp.Choices) > 0 && len(resp.Choices[0].Message.Citations) > 0 {
		citations = resp.Choices[0].Message.Citations
	}

	seen := make(map[string]bool)
	var results []types.SearchResult
	for _, c := range citations {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true

		title := c
		if u, err := url.Parse(c); err == nil && u.Hostname() != "" {
			title = u.Hostname()
		}
		results = append(results, types.SearchResult{Title: title, URL: c})
		if len(results) >= maxCitations {
			break
		}
	}
	return results, nil
}
