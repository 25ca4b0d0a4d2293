// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries text-search backends and routes between them.
//
// The primary backend (Perplexity) is citation-grounded: richer results but
// less predictable availability. The secondary backend (Google Custom
// Search) is a plain keyword API: always available given credentials, lower
// quality. Auto routing tries the primary and falls through to the
// secondary on error or empty result; a strictly selected engine never
// falls back, so its errors reach the caller.
package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/birlabs/partgen/pkg/types"
)

// Engine selects which backend handles a query.
type Engine string

const (
	EngineAuto       Engine = "auto"
	EnginePerplexity Engine = "perplexity"
	EngineGoogle     Engine = "google"
)

// ParseEngine validates a caller-supplied engine name. Empty means auto.
func ParseEngine(s string) (Engine, error) {
	switch Engine(s) {
	case "", EngineAuto:
		return EngineAuto, nil
	case EnginePerplexity:
		return EnginePerplexity, nil
	case EngineGoogle:
		return EngineGoogle, nil
	}
	return "", fmt.Errorf("unknown search engine %q", s)
}

// ErrBackendUnavailable means a backend cannot serve the query, typically
// because its credentials are not configured. Non-fatal under auto
// routing; fatal only when that backend was exclusively requested.
var ErrBackendUnavailable = errors.New("search backend unavailable")

// Backend searches a single engine. Each implementation wraps one external
// API per the Strategy pattern.
type Backend interface {
	Name() string
	Search(ctx context.Context, query string, cfg types.SearchConfig) ([]types.SearchResult, error)
}

// Output holds the routed results and the engine that produced them.
type Output struct {
	Engine  string               `json:"engine"`
	Results []types.SearchResult `json:"results"`
}

// Route dispatches the query according to the engine policy. Under
// EngineAuto a total failure of both backends degrades to an empty Output
// with a nil error: downstream stages treat "no sources found" as a
// recoverable condition, not a request failure.
func Route(ctx context.Context, query string, engine Engine, primary, secondary Backend, cfg types.SearchConfig, logger zerolog.Logger) (Output, error) {
	if query == "" {
		return Output{}, fmt.Errorf("query is empty")
	}

	if engine == EngineAuto || engine == EnginePerplexity {
		results, err := primary.Search(ctx, query, cfg)
		switch {
		case err == nil && len(results) > 0:
			logger.Info().Str("engine", primary.Name()).Int("results", len(results)).Msg("search complete")
			return Output{Engine: primary.Name(), Results: results}, nil
		case engine == EnginePerplexity:
			if err != nil {
				return Output{}, fmt.Errorf("%s search: %w", primary.Name(), err)
			}
			return Output{Engine: primary.Name(), Results: nil}, nil
		case err != nil:
			logger.Warn().Str("engine", primary.Name()).Err(err).Msg("primary search failed, falling back")
		default:
			logger.Info().Str("engine", primary.Name()).Msg("primary search empty, falling back")
		}
	}

	results, err := secondary.Search(ctx, query, cfg)
	if err != nil {
		if engine == EngineGoogle {
			return Output{}, fmt.Errorf("%s search: %w", secondary.Name(), err)
		}
		logger.Warn().Str("engine", secondary.Name()).Err(err).Msg("secondary search failed")
		return Output{}, nil
	}

	logger.Info().Str("engine", secondary.Name()).Int("results", len(results)).Msg("search complete")
	return Output{Engine: secondary.Name(), Results: results}, nil
}
