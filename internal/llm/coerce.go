// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm provides the language-model completion capability: a
// chat-completions client, a model resolver, and JSON recovery for model
// output that arrives wrapped in prose or markdown fences.
package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMalformedOutput means no parseable JSON object could be recovered from
// the model output. Callers substitute schema defaults rather than failing
// the whole pipeline.
var ErrMalformedOutput = errors.New("malformed model output")

var (
	leadingFenceRe  = regexp.MustCompile("(?i)^```(?:json)?[ \t]*\n?")
	trailingFenceRe = regexp.MustCompile("```\\s*$")
)

// CoerceToJSON extracts the first balanced JSON object from raw model
// output. It strips markdown code fences, tries a direct parse, and falls
// back to a brace-depth scan that tolerates prose before and after the
// object. Malformed interior JSON is a hard failure; no quote or comma
// repair is attempted.
//
// Coercing already-valid minified JSON is a no-op, so the function is
// idempotent on its own output.
func CoerceToJSON(raw string) (string, error) {
	clean := strings.TrimSpace(raw)
	if clean == "" {
		return "{}", nil
	}

	clean = leadingFenceRe.ReplaceAllString(clean, "")
	clean = trailingFenceRe.ReplaceAllString(clean, "")
	clean = strings.TrimSpace(clean)

	if json.Valid([]byte(clean)) {
		return clean, nil
	}

	start := strings.IndexByte(clean, '{')
	if start == -1 {
		return "", fmt.Errorf("%w: no JSON object found", ErrMalformedOutput)
	}

	depth := 0
	end := -1
scan:
	for i := start; i < len(clean); i++ {
		switch clean[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				end = i
				break scan
			}
		}
	}
	if end == -1 {
		return "", fmt.Errorf("%w: unbalanced braces", ErrMalformedOutput)
	}

	candidate := strings.TrimSpace(clean[start : end+1])
	if !json.Valid([]byte(candidate)) {
		return "", fmt.Errorf("%w: extracted object does not parse", ErrMalformedOutput)
	}
	return candidate, nil
}
