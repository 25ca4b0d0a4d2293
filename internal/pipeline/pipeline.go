// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline wires the stages into the end-to-end part generation
// flow: search for sources, fetch and normalize page text, summarize into
// a structured record, and degrade gracefully at every step.
package pipeline

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/birlabs/partgen/internal/httputil"
	"github.com/birlabs/partgen/internal/images"
	"github.com/birlabs/partgen/internal/llm"
	"github.com/birlabs/partgen/internal/search"
	"github.com/birlabs/partgen/internal/sources"
	"github.com/birlabs/partgen/internal/summarize"
	"github.com/birlabs/partgen/pkg/types"
)

// defaultModel is used when neither a pinned model nor a usable candidate
// is available.
const defaultModel = "sonar"

// Generator runs the full part generation pipeline. Construct with New for
// default wiring; the fields are exported so callers can substitute stage
// implementations.
type Generator struct {
	Primary   search.Backend
	Secondary search.Backend
	Engine    *summarize.Engine
	Client    *http.Client
	Cfg       types.PipelineConfig
	Logger    zerolog.Logger
}

// New builds a Generator with the standard stage wiring: Perplexity as
// the primary search backend, Google Custom Search as the secondary, and
// Google image search feeding the summarizer when configured. Model
// resolution happens once here, not per request.
func New(ctx context.Context, cfg types.PipelineConfig, logger zerolog.Logger) *Generator {
	client := httputil.NewClient(cfg.Search.Timeout)

	completer := &llm.PerplexityClient{
		APIKey:    cfg.Summarize.APIKey,
		Model:     resolveModel(ctx, cfg.Summarize, client, logger),
		MaxTokens: cfg.Summarize.MaxTokens,
		Client:    client,
		Logger:    logger,
	}

	var selector summarize.ImageSelector
	if cfg.Images.GoogleAPIKey != "" && cfg.Images.GoogleEngineID != "" {
		selector = &images.Selector{
			Backend: &images.GoogleImageBackend{Client: client},
			Cfg:     cfg.Images,
			Logger:  logger,
		}
	}

	return &Generator{
		Primary:   &search.PerplexityBackend{Client: client},
		Secondary: &search.GoogleBackend{Client: client},
		Engine: &summarize.Engine{
			Completer: completer,
			Images:    selector,
			Cfg:       cfg.Summarize,
			Logger:    logger,
		},
		Client: client,
		Cfg:    cfg,
		Logger: logger,
	}
}

func resolveModel(ctx context.Context, cfg types.SummarizeConfig, client *http.Client, logger zerolog.Logger) string {
	r := &llm.Resolver{
		APIKey:     cfg.APIKey,
		Pinned:     cfg.Model,
		Candidates: cfg.ModelCandidates,
		Client:     client,
		Logger:     logger,
	}
	model, err := r.Resolve(ctx)
	if err != nil {
		logger.Warn().Err(err).Str("model", defaultModel).Msg("model resolution failed, using default")
		return defaultModel
	}
	return model
}

// Generate produces a part record for the given part number. A failed or
// empty search degrades to snippet text and finally to a minimal record;
// an error is returned only when a strictly requested backend fails.
func (g *Generator) Generate(ctx context.Context, partNumber string, engine search.Engine) (types.PartRecord, error) {
	logger := g.Logger.With().Str("part", partNumber).Logger()

	out, err := search.Route(ctx, partNumber, engine, g.Primary, g.Secondary, g.Cfg.Search, logger)
	if err != nil {
		return types.PartRecord{}, err
	}
	logger.Info().Str("engine", out.Engine).Int("hits", len(out.Results)).Msg("search done")

	srcs := sources.FetchTop(ctx, g.Client, out.Results, g.Cfg.Sources, logger)
	if len(srcs) == 0 && len(out.Results) > 0 {
		logger.Warn().Msg("no pages fetched, falling back to snippets")
		srcs = sources.FromSnippets(out.Results)
	}

	return g.Engine.Run(ctx, partNumber, srcs), nil
}
