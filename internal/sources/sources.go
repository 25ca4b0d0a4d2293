// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sources turns raw search hits into a deduplicated, sanitized,
// priority-ordered list of source texts suitable for prompting. Per-item
// fetch failures are swallowed; a page that cannot be read is simply
// omitted from the bundle.
package sources

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/birlabs/partgen/pkg/types"
)

const (
	// DefaultLimit bounds how many candidate pages are fetched.
	DefaultLimit = 5

	// DefaultMinTextLen discards pages shorter than this as noise.
	DefaultMinTextLen = 300

	// DefaultMaxTextLen caps each source's text before prompt inclusion.
	DefaultMaxTextLen = 16000

	maxNameLen = 100
)

// Priority tiers from URL keyword heuristics. Manufacturer-grade documents
// are presented to the model first: earlier prompt content receives more
// attention weight in practice.
const (
	priorityDatasheet = 1000
	priorityManual    = 900
	priorityProduct   = 800
)

// roleLabelRe matches lines that open with a chat role label. Neutralized
// so source text cannot masquerade as prompt instructions.
var roleLabelRe = regexp.MustCompile(`(?im)^[ \t]*(SYSTEM|USER|ASSISTANT)[ \t]*:`)

// FetchTop fetches up to limit candidate pages and returns the surviving
// source texts, deduplicated by (url, name) and stable-sorted by priority
// descending. It never returns an error.
func FetchTop(ctx context.Context, client *http.Client, hits []types.SearchResult, cfg types.SourceConfig, logger zerolog.Logger) []types.SourceText {
	limit := cfg.MaxSources
	if limit <= 0 {
		limit = DefaultLimit
	}
	minLen := cfg.MinTextLen
	if minLen <= 0 {
		minLen = DefaultMinTextLen
	}

	if len(hits) > limit {
		hits = hits[:limit]
	}

	var out []types.SourceText
	for _, hit := range hits {
		if hit.URL == "" {
			continue
		}

		text, title, err := fetchPage(ctx, client, hit.URL, cfg.UserAgent)
		if err != nil {
			logger.Debug().Str("url", hit.URL).Err(err).Msg("source fetch failed, skipping")
			continue
		}
		if len(text) < minLen {
			logger.Debug().Str("url", hit.URL).Int("len", len(text)).Msg("source too short, skipping")
			continue
		}

		name := title
		if name == "" {
			name = hit.Title
		}
		if name == "" {
			name = hostnameOf(hit.URL)
		}

		out = append(out, types.SourceText{
			URL:      hit.URL,
			Name:     truncateName(name),
			Text:     text,
			Priority: PriorityFor(hit.URL),
		})
	}

	out = Dedupe(out)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })

	logger.Info().Int("hits", len(hits)).Int("sources", len(out)).Msg("sources fetched")
	return out
}

// FromSnippets builds source texts directly from search-hit snippets. Used
// as a fallback when page fetching yields nothing usable: a snippet is
// worse than a datasheet but better than an empty bundle.
func FromSnippets(hits []types.SearchResult) []types.SourceText {
	var out []types.SourceText
	for _, hit := range hits {
		if hit.Snippet == "" && hit.Title == "" {
			continue
		}
		name := hit.Title
		if name == "" {
			name = "source"
		}
		out = append(out, types.SourceText{
			URL:      hit.URL,
			Name:     truncateName(name),
			Text:     hit.Snippet,
			Priority: PriorityFor(hit.URL),
		})
	}
	return Dedupe(out)
}

// PriorityFor scores a URL by keyword heuristics: datasheets over manuals
// over generic product pages.
func PriorityFor(rawURL string) int {
	u := strings.ToLower(rawURL)
	switch {
	case strings.Contains(u, "datasheet"):
		return priorityDatasheet
	case strings.Contains(u, "manual"):
		return priorityManual
	case strings.Contains(u, "product"):
		return priorityProduct
	}
	return 0
}

// Dedupe removes source texts that share a normalized (url, name) key,
// keeping the first occurrence.
func Dedupe(srcs []types.SourceText) []types.SourceText {
	seen := make(map[string]bool, len(srcs))
	out := srcs[:0:0]
	for _, s := range srcs {
		key := strings.TrimSpace(s.URL) + "|" + strings.TrimSpace(s.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

// Sanitize caps text at max runes and neutralizes line-leading chat role
// labels so quoted pages cannot inject instructions into the prompt.
func Sanitize(text string, max int) string {
	if max <= 0 {
		max = DefaultMaxTextLen
	}
	stripped := roleLabelRe.ReplaceAllString(text, "[label:]")
	runes := []rune(stripped)
	if len(runes) > max {
		runes = runes[:max]
	}
	return string(runes)
}

// Domains returns the set of hostnames across the given sources, used to
// restrict image candidates to domains that also hosted source text.
func Domains(srcs []types.SourceText) map[string]struct{} {
	out := make(map[string]struct{})
	for _, s := range srcs {
		if s.URL == "" {
			continue
		}
		if u, err := url.Parse(s.URL); err == nil && u.Hostname() != "" {
			out[u.Hostname()] = struct{}{}
		}
	}
	return out
}

func hostnameOf(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Hostname() != "" {
		return u.Hostname()
	}
	return "source"
}

func truncateName(name string) string {
	runes := []rune(strings.TrimSpace(name))
	if len(runes) > maxNameLen {
		runes = runes[:maxNameLen]
	}
	return string(runes)
}
