// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize orchestrates the source-to-structured-record pipeline:
// it bundles retrieved source text, prompts the language model under strict
// anti-hallucination rules, repairs and validates the JSON answer, guards
// export-control fields against invention, selects representative images,
// back-fills missing Thai fields by translation, and assembles the final
// PartRecord with a confidence tag.
//
// Run never returns an error: every internal failure degrades to a
// best-effort or fully-empty record. The request must not fail because an
// enrichment feature did.
package summarize

import (
	"context"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/birlabs/partgen/internal/llm"
	"github.com/birlabs/partgen/internal/sources"
	"github.com/birlabs/partgen/pkg/types"
)

// ImageSelector is the image-search capability consumed by the engine.
type ImageSelector interface {
	Select(ctx context.Context, partNumber, productName string, sourceDomains map[string]struct{}) []string
}

// noImages satisfies ImageSelector when image search is not wired.
type noImages struct{}

func (noImages) Select(context.Context, string, string, map[string]struct{}) []string {
	return []string{}
}

// Engine runs the summarization pipeline. Completer is required; Images is
// optional and defaults to a selector that returns nothing.
type Engine struct {
	Completer llm.Completer
	Images    ImageSelector
	Cfg       types.SummarizeConfig
	Logger    zerolog.Logger
}

// Run summarizes one part number from the given sources. It is safe to
// call with an empty source list; the result is then a minimal record
// tagged no_source_strict.
func (e *Engine) Run(ctx context.Context, partNumber string, srcs []types.SourceText) types.PartRecord {
	logger := e.Logger.With().Str("part", partNumber).Logger()

	list := sources.Dedupe(srcs)
	logger.Info().Int("sources", len(list)).Msg("summarize start")

	if len(list) == 0 {
		logger.Warn().Msg("no sources available")
		return minimalRecord(partNumber)
	}

	textCap := e.Cfg.SourceTextCap
	if textCap <= 0 {
		textCap = sources.DefaultMaxTextLen
	}
	bundle := buildBundle(list, textCap)

	prompt, err := renderExtractionPrompt(partNumber)
	if err != nil {
		logger.Error().Err(err).Msg("rendering extraction prompt")
		return minimalRecord(partNumber)
	}
	user, err := renderUserMessage(partNumber, bundle)
	if err != nil {
		logger.Error().Err(err).Msg("rendering user message")
		return minimalRecord(partNumber)
	}

	logger.Info().Msg("calling completion model")
	raw, err := e.Completer.Complete(ctx, systemPrompt+"\n\n"+prompt, user)
	if err != nil {
		logger.Error().Err(err).Msg("completion failed, returning minimal record")
		return minimalRecord(partNumber)
	}

	parsed := parseExtraction(raw, logger)

	// Export-control codes survive only when present verbatim in the
	// bundle. A tripped guard is expected model behavior, not an error.
	parsed.ECCN = guardToken(bundle, parsed.ECCN)
	parsed.HTS = guardToken(bundle, parsed.HTS)
	parsed.COO = guardToken(bundle, parsed.COO)

	imgs := e.selectImages(ctx, partNumber, parsed, list)
	logger.Info().Int("images", len(imgs)).Msg("image selection done")

	translated := e.backfillThai(ctx, parsed, logger)

	// At least one source was used, so the record is tagged derived. The
	// richer authoritative/ai_guess distinction belongs to the confidence
	// classifier, which callers consult separately.
	rec := assemble(partNumber, parsed, list, imgs, translated)
	rec.SourceConfidence = types.ConfidenceDerived

	logger.Info().
		Str("product_name", rec.ProductName).
		Str("confidence", string(rec.SourceConfidence)).
		Msg("summarize complete")
	return rec
}

func (e *Engine) selectImages(ctx context.Context, partNumber string, parsed extraction, list []types.SourceText) []string {
	sel := e.Images
	if sel == nil {
		sel = noImages{}
	}
	productName := parsed.ProductName
	if productName == "" {
		productName = parsed.CommonNameEN
	}
	imgs := sel.Select(ctx, partNumber, productName, sources.Domains(list))
	if imgs == nil {
		imgs = []string{}
	}
	return imgs
}

// backfillThai batches every Thai field whose English counterpart exists
// into one translation call. Failure leaves the fields for assembly-time
// fallbacks; it never fails the record.
func (e *Engine) backfillThai(ctx context.Context, parsed extraction, logger zerolog.Logger) map[string]string {
	need := map[string]string{}
	if parsed.CommonNameTH == "" && parsed.CommonNameEN != "" {
		need["common_name_th"] = parsed.CommonNameEN
	}
	if parsed.CharacteristicsTH == "" && parsed.CharacteristicsEN != "" {
		need["characteristics_of_material_th"] = parsed.CharacteristicsEN
	}
	if parsed.FunctionTH == "" && parsed.FunctionEN != "" {
		need["function_th"] = parsed.FunctionEN
	}
	if parsed.WhereUsedTH == "" && parsed.WhereUsedEN != "" {
		need["where_used_th"] = parsed.WhereUsedEN
	}
	if len(need) == 0 {
		return nil
	}

	logger.Info().Int("fields", len(need)).Msg("back-filling Thai translations")
	return translateMissing(ctx, e.Completer, need, logger)
}

// guardToken keeps a model-claimed token only when it appears as a whole
// word, case-insensitively, somewhere in the source bundle.
func guardToken(bundle, token string) string {
	if includesToken(bundle, token) {
		return token
	}
	return ""
}

func includesToken(haystack, token string) bool {
	if token == "" {
		return false
	}
	re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(token) + `\b`)
	if err != nil {
		return false
	}
	return re.MatchString(haystack)
}

// assemble applies the field-preference rules and builds the final record.
func assemble(partNumber string, parsed extraction, list []types.SourceText, imgs []string, translated map[string]string) types.PartRecord {
	refs := make([]types.SourceRef, 0, len(list))
	for _, s := range list {
		name := s.Name
		if name == "" {
			name = "source"
		}
		refs = append(refs, types.SourceRef{Name: name, URL: s.URL})
	}

	// product_name preference: model value that is more than the bare
	// part number, then the English common name, then the part number.
	productName := parsed.ProductName
	if productName == "" || productName == partNumber {
		productName = parsed.CommonNameEN
	}
	if productName == "" {
		productName = partNumber
	}

	tags := parsed.Tags
	if tags == nil {
		tags = []string{}
	}

	return types.PartRecord{
		PartNumber:                   partNumber,
		ProductName:                  productName,
		CommonNameEN:                 parsed.CommonNameEN,
		CommonNameTH:                 fallback(parsed.CommonNameTH, translated["common_name_th"], partNumber),
		UOM:                          parsed.UOM,
		CharacteristicsEN:            parsed.CharacteristicsEN,
		CharacteristicsTH:            fallback(parsed.CharacteristicsTH, translated["characteristics_of_material_th"], ""),
		EstimatedCapacityMachineYear: parsed.EstimatedCapacityMachineYear,
		QuantityToUse:                parsed.QuantityToUse,
		FunctionEN:                   parsed.FunctionEN,
		FunctionTH:                   fallback(parsed.FunctionTH, translated["function_th"], ""),
		WhereUsedEN:                  parsed.WhereUsedEN,
		WhereUsedTH:                  fallback(parsed.WhereUsedTH, translated["where_used_th"], ""),
		ECCN:                         parsed.ECCN,
		HTS:                          parsed.HTS,
		COO:                          parsed.COO,
		Tags:                         tags,
		Sources:                      refs,
		Images:                       imgs,
	}
}

// fallback returns the first non-empty of primary, secondary, last.
func fallback(primary, secondary, last string) string {
	if primary != "" {
		return primary
	}
	if secondary != "" {
		return secondary
	}
	return last
}

// minimalRecord is the degraded result for completion failure or a missing
// source bundle: structurally valid, informationally empty.
func minimalRecord(partNumber string) types.PartRecord {
	return types.PartRecord{
		PartNumber:       partNumber,
		ProductName:      partNumber,
		CommonNameEN:     partNumber,
		CommonNameTH:     partNumber,
		Tags:             []string{},
		Sources:          []types.SourceRef{},
		Images:           []string{},
		SourceConfidence: types.ConfidenceNoSourceStrict,
	}
}
