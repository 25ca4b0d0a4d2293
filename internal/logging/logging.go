// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging initializes the process-wide zerolog logger. Pipeline
// stages receive child loggers tagged with a "stage" field so operators can
// follow one generate request across search, sources, summarize, images,
// and translation.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global logger. Console output is used when pretty is
// true (interactive CLI use); otherwise JSON lines go to stderr.
func Init(service string, level zerolog.Level, pretty bool) {
	zerolog.TimeFieldFormat = time.RFC3339

	base := zerolog.New(os.Stderr)
	if pretty {
		base = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	log.Logger = base.Level(level).With().
		Timestamp().
		Str("service", service).
		Logger()
}

// Stage returns the global logger tagged with a pipeline stage name.
func Stage(name string) zerolog.Logger {
	return log.With().Str("stage", name).Logger()
}
