// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package images finds representative product photos for a part.
// Unrestricted image search returns a high proportion of logos, icons, and
// unrelated imagery, so candidates are filtered by extension and path
// keywords and scored before the top few are kept.
package images

import (
	"context"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/birlabs/partgen/pkg/types"
)

// DefaultLimit bounds how many image URLs a selection returns.
const DefaultLimit = 6

// Backend searches a single image-search API per the Strategy pattern.
type Backend interface {
	Name() string
	SearchImages(ctx context.Context, query string, limit int, cfg types.ImageConfig) ([]types.ImageResult, error)
}

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

var blockWords = []string{
	"logo", "icon", "favicon", "sprite", "banner", "placeholder",
	"thumb", "thumbnail", "badge", "qr", "barcode", "certificate",
	"datasheet-cover", "pdf-cover",
}

var preferWords = []string{
	"product", "part", "module", "assembly", "front", "side", "top",
	"connector", "board", "pcb", "housing", "enclosure", "mount", "bracket",
}

var (
	dimensionRe = regexp.MustCompile(`\b(\d{2,3})x(\d{2,3})\b`)
	mediaDirRe  = regexp.MustCompile(`/(product|products|images|asset|media)/`)
)

// smallSquareSizes are thumbnail dimensions commonly embedded in filenames.
var smallSquareSizes = map[int]bool{
	16: true, 24: true, 32: true, 48: true, 64: true, 80: true,
	96: true, 120: true, 128: true, 150: true, 180: true, 200: true,
}

// Selector runs image search for a part and filters the candidates down to
// genuine product photos. Select never fails; any backend error degrades
// to an empty result.
type Selector struct {
	Backend Backend
	Cfg     types.ImageConfig
	Logger  zerolog.Logger
}

// Select queries the backend with the part number (enriched by the product
// name when one was extracted) and returns up to the configured limit of
// filtered, score-ordered image URLs.
func (s *Selector) Select(ctx context.Context, partNumber, productName string, sourceDomains map[string]struct{}) []string {
	limit := s.Cfg.MaxImages
	if limit <= 0 {
		limit = DefaultLimit
	}

	query := partNumber
	if productName != "" && productName != partNumber {
		query = partNumber + " " + productName
	}

	raw, err := s.Backend.SearchImages(ctx, query, limit, s.Cfg)
	if err != nil {
		s.Logger.Warn().Err(err).Str("part", partNumber).Msg("image search failed")
		return []string{}
	}

	candidates := make([]string, 0, len(raw))
	for _, r := range raw {
		if r.URL != "" {
			candidates = append(candidates, r.URL)
		}
	}

	if !s.Cfg.RestrictToSourceDomains {
		sourceDomains = nil
	}

	picked := PickRepresentative(candidates, sourceDomains, limit)
	s.Logger.Info().Str("part", partNumber).Int("candidates", len(candidates)).Int("picked", len(picked)).Msg("images selected")
	return picked
}

// PickRepresentative filters, scores, deduplicates, and ranks candidate
// image URLs. When sourceDomains is non-empty, candidates hosted elsewhere
// are rejected to bias toward images that sit alongside authoritative text.
func PickRepresentative(candidates []string, sourceDomains map[string]struct{}, limit int) []string {
	if limit <= 0 {
		limit = 3
	}

	type scored struct {
		url   string
		score int
		key   string
	}

	var items []scored
	for _, raw := range candidates {
		u, err := url.Parse(raw)
		if err != nil {
			continue
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			continue
		}
		if len(sourceDomains) > 0 {
			if _, ok := sourceDomains[u.Hostname()]; !ok {
				continue
			}
		}

		path := strings.ToLower(u.Path)
		dot := strings.LastIndex(path, ".")
		if dot == -1 || !allowedExt[path[dot:]] {
			continue
		}

		if containsAny(path, blockWords) {
			continue
		}
		if isSmallSquare(path) {
			continue
		}

		score := 0
		for _, w := range preferWords {
			if strings.Contains(path, w) {
				score += 2
			}
		}
		if mediaDirRe.MatchString(path) {
			score++
		}

		// Dedupe key strips the query string to collapse CDN variants of
		// the same asset.
		stripped := *u
		stripped.RawQuery = ""
		items = append(items, scored{url: raw, score: score, key: stripped.String()})
	}

	seen := make(map[string]bool, len(items))
	deduped := items[:0:0]
	for _, it := range items {
		if seen[it.key] {
			continue
		}
		seen[it.key] = true
		deduped = append(deduped, it)
	}

	sort.SliceStable(deduped, func(i, j int) bool { return deduped[i].score > deduped[j].score })

	out := make([]string, 0, limit)
	for _, it := range deduped {
		out = append(out, it.url)
		if len(out) >= limit {
			break
		}
	}
	return out
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// isSmallSquare reports whether the path embeds an NxN thumbnail dimension
// like "64x64" for a known icon size.
func isSmallSquare(path string) bool {
	for _, m := range dimensionRe.FindAllStringSubmatch(path, -1) {
		w, _ := strconv.Atoi(m[1])
		h, _ := strconv.Atoi(m[2])
		if w == h && smallSquareSizes[w] {
			return true
		}
	}
	return false
}
