// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/birlabs/partgen/internal/httputil"
)

// ErrNoUsableModel means no candidate model was accepted by the provider.
// Callers should tell the operator to pin a model their key supports.
var ErrNoUsableModel = errors.New("no usable model among candidates")

var invalidModelRe = regexp.MustCompile(`(?i)invalid[_\s-]?model`)

// Resolver picks a usable chat model. A pinned model always wins; otherwise
// the configured candidate list is probed in order with a minimal
// completion. Candidate lists are injected as configuration so vendor
// model names never live inside pipeline logic.
type Resolver struct {
	APIKey     string
	Pinned     string
	Candidates []string
	Client     *http.Client
	Logger     zerolog.Logger
}

// Resolve returns a validated model identifier or ErrNoUsableModel.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	if r.Pinned != "" {
		return r.Pinned, nil
	}
	if r.APIKey == "" {
		return "", fmt.Errorf("resolving model: API key not configured")
	}
	if len(r.Candidates) == 0 {
		return "", fmt.Errorf("%w: empty candidate list and no pinned model", ErrNoUsableModel)
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+r.APIKey)

	for _, model := range r.Candidates {
		req := chatRequest{
			Model: model,
			Messages: []chatMessage{
				{Role: "system", Content: "probe"},
				{Role: "user", Content: "ok"},
			},
			Temperature: 0.0,
			MaxTokens:   5,
		}

		err := httputil.DoJSON(ctx, r.Client, http.MethodPost, perplexityAPIURL, header, req, nil)
		if err == nil {
			r.Logger.Debug().Str("model", model).Msg("model probe accepted")
			return model, nil
		}

		var se *httputil.StatusError
		if errors.As(err, &se) && !invalidModelRe.MatchString(se.Body) {
			// Rejected for some other reason (rate limit, quota); the model
			// itself is usable.
			r.Logger.Debug().Str("model", model).Int("status", se.Code).Msg("model probe non-fatal rejection")
			return model, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		r.Logger.Debug().Str("model", model).Err(err).Msg("model probe failed")
	}

	return "", fmt.Errorf("%w: pin a model your key supports", ErrNoUsableModel)
}
