// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the generation pipeline and the part catalog
// over a JSON HTTP API.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/birlabs/partgen/internal/catalog"
	"github.com/birlabs/partgen/internal/pipeline"
	"github.com/birlabs/partgen/internal/search"
	"github.com/birlabs/partgen/pkg/types"
)

// Server serves the part generation API.
type Server struct {
	Store     *catalog.Store
	Generator *pipeline.Generator
	Cfg       types.ServerConfig
	Logger    zerolog.Logger
}

// New builds a Server over the given store and generator.
func New(store *catalog.Store, gen *pipeline.Generator, cfg types.ServerConfig, logger zerolog.Logger) *Server {
	return &Server{Store: store, Generator: gen, Cfg: cfg, Logger: logger}
}

// Router builds the route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/generate", s.handleGenerate)
		r.Get("/parts", s.handleListParts)
		r.Get("/parts/{id}", s.handleGetPart)
		r.Delete("/parts/{id}", s.handleDeletePart)
		r.Get("/search-by-name", s.handleSearchByName)
		r.Get("/export", s.handleExport)
	})
	return r
}

// ListenAndServe blocks serving the API on the configured address.
func (s *Server) ListenAndServe() error {
	addr := s.Cfg.Addr
	if addr == "" {
		addr = ":8080"
	}
	s.Logger.Info().Str("addr", addr).Msg("serving API")

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.Logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type generateRequest struct {
	PartNumber string `json:"part_number"`
	Engine     string `json:"engine"`
	Save       *bool  `json:"save"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.PartNumber = strings.TrimSpace(req.PartNumber)
	if req.PartNumber == "" {
		writeError(w, http.StatusBadRequest, "part_number is required")
		return
	}
	engine, err := search.ParseEngine(req.Engine)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := s.Generator.Generate(r.Context(), req.PartNumber, engine)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	// Saving is the default; pass "save": false for a dry run.
	if req.Save != nil && !*req.Save {
		writeJSON(w, http.StatusOK, rec)
		return
	}
	stored, err := s.Store.Save(r.Context(), rec)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) handleListParts(w http.ResponseWriter, r *http.Request) {
	parts, err := s.Store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, parts)
}

func (s *Server) handleGetPart(w http.ResponseWriter, r *http.Request) {
	stored, err := s.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "part not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (s *Server) handleDeletePart(w http.ResponseWriter, r *http.Request) {
	err := s.Store.Delete(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "part not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSearchByName(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}
	parts, err := s.Store.SearchByName(r.Context(), q)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, parts)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="parts.csv"`)
		if err := s.Store.ExportCSV(r.Context(), w); err != nil {
			s.Logger.Error().Err(err).Msg("CSV export failed")
		}
	case "json":
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if err := s.Store.ExportJSON(r.Context(), w); err != nil {
			s.Logger.Error().Err(err).Msg("JSON export failed")
		}
	case "yaml":
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		if err := s.Store.ExportYAML(r.Context(), w); err != nil {
			s.Logger.Error().Err(err).Msg("YAML export failed")
		}
	default:
		writeError(w, http.StatusBadRequest, "format must be csv, json, or yaml")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
