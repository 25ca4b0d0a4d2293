// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/birlabs/partgen/internal/httputil"
)

// perplexityAPIURL is the Perplexity chat-completions endpoint. Declared as
// a var so tests can substitute an httptest server.
var perplexityAPIURL = "https://api.perplexity.ai/chat/completions"

// Completer is the single-turn completion capability consumed by the
// summarizer and translator. Implementations must support long context
// (several concatenated documents) and may return text that is not
// well-formed JSON.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// PerplexityClient calls the Perplexity chat-completions API with
// temperature 0. One attempt per call; the caller decides whether a
// failure is fatal or degradable.
type PerplexityClient struct {
	APIKey    string
	Model     string
	MaxTokens int
	Client    *http.Client
	Logger    zerolog.Logger
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content   string   `json:"content"`
			Citations []string `json:"citations"`
		} `json:"message"`
	} `json:"choices"`
	Citations []string `json:"citations"`
}

// Complete issues one chat completion and returns the raw message content.
func (c *PerplexityClient) Complete(ctx context.Context, system, user string) (string, error) {
	if c.APIKey == "" {
		return "", fmt.Errorf("perplexity API key not configured")
	}

	req := chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.0,
		MaxTokens:   c.MaxTokens,
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.APIKey)

	c.Logger.Debug().Str("model", c.Model).Int("prompt_len", len(user)).Msg("completion call")

	var resp chatResponse
	if err := httputil.DoJSON(ctx, c.Client, http.MethodPost, perplexityAPIURL, header, req, &resp); err != nil {
		return "", fmt.Errorf("perplexity completion: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty completion from perplexity")
	}
	return resp.Choices[0].Message.Content, nil
}
