// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/birlabs/partgen/internal/llm"
)

const translateSystemPrompt = "You are a precise translator for technical manufacturing content."

// translateMissing issues one batched model call translating English field
// values to Thai, faithfully and without added facts. It never fails: any
// error returns an empty map and callers leave the affected fields blank.
// Empty input skips the network call entirely.
func translateMissing(ctx context.Context, c llm.Completer, fields map[string]string, logger zerolog.Logger) map[string]string {
	clean := make(map[string]string, len(fields))
	for k, v := range fields {
		if vv := strings.TrimSpace(v); vv != "" {
			clean[k] = vv
		}
	}
	if len(clean) == 0 {
		return map[string]string{}
	}

	keys := make([]string, 0, len(clean))
	for k := range clean {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	payload, err := json.MarshalIndent(clean, "", "  ")
	if err != nil {
		return map[string]string{}
	}

	prompt := strings.Join([]string{
		"Translate the given English fields to Thai faithfully, without adding facts or marketing language.",
		"- Keep technical terms and numbers/units intact.",
		"- Return ONE JSON object with EXACTLY the same keys as the input. No code fences.",
		"",
		"INPUT_KEYS: " + strings.Join(keys, ", "),
		"",
		string(payload),
	}, "\n")

	raw, err := c.Complete(ctx, translateSystemPrompt, prompt)
	if err != nil {
		logger.Warn().Err(err).Msg("translation call failed, leaving Thai fields empty")
		return map[string]string{}
	}

	safe, err := llm.CoerceToJSON(raw)
	if err != nil {
		logger.Warn().Err(err).Msg("translation output malformed, leaving Thai fields empty")
		return map[string]string{}
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(safe), &obj); err != nil {
		return map[string]string{}
	}

	out := make(map[string]string, len(clean))
	for k := range clean {
		if v, ok := obj[k].(string); ok {
			if vv := strings.TrimSpace(v); vv != "" {
				out[k] = vv
			}
		}
	}
	logger.Info().Int("requested", len(clean)).Int("translated", len(out)).Msg("translation back-fill done")
	return out
}
