// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birlabs/partgen/internal/search"
	"github.com/birlabs/partgen/internal/summarize"
	"github.com/birlabs/partgen/pkg/types"
)

type stubBackend struct {
	name    string
	results []types.SearchResult
	err     error
}

func (s *stubBackend) Name() string { return s.name }

func (s *stubBackend) Search(_ context.Context, _ string, _ types.SearchConfig) ([]types.SearchResult, error) {
	return s.results, s.err
}

type stubCompleter struct {
	response string
	users    []string
}

func (s *stubCompleter) Complete(_ context.Context, _ string, user string) (string, error) {
	s.users = append(s.users, user)
	return s.response, nil
}

func newTestGenerator(primary, secondary search.Backend, c *stubCompleter) *Generator {
	return &Generator{
		Primary:   primary,
		Secondary: secondary,
		Engine:    &summarize.Engine{Completer: c, Logger: zerolog.Nop()},
		Client:    http.DefaultClient,
		Logger:    zerolog.Nop(),
	}
}

func TestGenerateFromFetchedPages(t *testing.T) {
	body := "<html><head><title>Datasheet</title></head><body><p>" +
		strings.Repeat("Deep groove ball bearing 6204-2RS specifications. ", 20) +
		"</p></body></html>"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	primary := &stubBackend{name: "perplexity", results: []types.SearchResult{
		{Title: "Vendor datasheet", URL: srv.URL + "/datasheet/brg-6204"},
	}}
	c := &stubCompleter{response: `{"common_name_en": "Ball bearing", "common_name_th": "ตลับลูกปืน", "function_th": "x", "characteristics_of_material_th": "x", "where_used_th": "x"}`}
	g := newTestGenerator(primary, &stubBackend{name: "google"}, c)

	rec, err := g.Generate(context.Background(), "BRG-6204", search.EngineAuto)
	require.NoError(t, err)

	assert.Equal(t, "Ball bearing", rec.CommonNameEN)
	assert.Equal(t, types.ConfidenceDerived, rec.SourceConfidence)
	require.Len(t, rec.Sources, 1)

	// The prompt bundle carries the fetched page text, not the snippet.
	require.NotEmpty(t, c.users)
	assert.Contains(t, c.users[0], "ball bearing 6204-2RS specifications")
}

func TestGenerateFallsBackToSnippets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	primary := &stubBackend{name: "perplexity", results: []types.SearchResult{
		{Title: "Vendor page", URL: srv.URL + "/p", Snippet: "Sealed bearing for electric motors"},
	}}
	c := &stubCompleter{response: `{"common_name_en": "Ball bearing", "common_name_th": "x", "function_th": "x", "characteristics_of_material_th": "x", "where_used_th": "x"}`}
	g := newTestGenerator(primary, &stubBackend{name: "google"}, c)

	rec, err := g.Generate(context.Background(), "BRG-6204", search.EngineAuto)
	require.NoError(t, err)

	assert.Equal(t, types.ConfidenceDerived, rec.SourceConfidence)
	require.NotEmpty(t, c.users)
	assert.Contains(t, c.users[0], "Sealed bearing for electric motors")
}

func TestGenerateNoResultsYieldsMinimalRecord(t *testing.T) {
	c := &stubCompleter{response: "{}"}
	g := newTestGenerator(
		&stubBackend{name: "perplexity"},
		&stubBackend{name: "google"},
		c,
	)

	rec, err := g.Generate(context.Background(), "BRG-6204", search.EngineAuto)
	require.NoError(t, err)

	assert.Equal(t, types.ConfidenceNoSourceStrict, rec.SourceConfidence)
	assert.Equal(t, "BRG-6204", rec.CommonNameEN)
	assert.Empty(t, c.users, "no model call expected without sources")
}

func TestGenerateStrictBackendFailure(t *testing.T) {
	g := newTestGenerator(
		&stubBackend{name: "perplexity", err: errors.New("quota exceeded")},
		&stubBackend{name: "google"},
		&stubCompleter{response: "{}"},
	)

	_, err := g.Generate(context.Background(), "BRG-6204", search.EnginePerplexity)
	assert.Error(t, err)
}
