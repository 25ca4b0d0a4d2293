// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package confidence derives a coarse, explainable trust label for a
// finished part record. The label feeds UI badges and exports; it never
// gates pipeline behavior.
package confidence

import (
	"regexp"

	"github.com/birlabs/partgen/pkg/types"
)

// authoritativeURLRe matches URL patterns that suggest manufacturer-grade
// material: datasheets, manuals, catalogs, or vendor product/support pages.
var authoritativeURLRe = regexp.MustCompile(`(?i)(\.pdf$|datasheet|manual|catalog|manufacturer|support|download|product)`)

// Classify labels a record no_source_strict when it cites no sources at
// all; authoritative when a manufacturer-looking source backs at least two
// populated core fields; derived when any core field is populated; and
// ai_guess when sources exist but nothing was extracted. The no-sources
// check comes first: a minimal record carries the part number in its name
// fields, and that must never count as derived content.
func Classify(rec types.PartRecord) types.Confidence {
	if len(rec.Sources) == 0 {
		return types.ConfidenceNoSourceStrict
	}

	hasAuthoritative := false
	for _, s := range rec.Sources {
		if s.URL != "" && authoritativeURLRe.MatchString(s.URL) {
			hasAuthoritative = true
			break
		}
	}

	core := 0
	for _, v := range []string{rec.CommonNameEN, rec.UOM, rec.FunctionEN} {
		if v != "" {
			core++
		}
	}

	switch {
	case hasAuthoritative && core >= 2:
		return types.ConfidenceAuthoritative
	case core >= 1:
		return types.ConfidenceDerived
	}
	return types.ConfidenceAIGuess
}
