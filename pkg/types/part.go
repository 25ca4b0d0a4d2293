// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the partgen pipeline.
package types

// Confidence is a coarse trust label for a finished part record, derived
// from source quality and field completeness. It is surfaced to downstream
// consumers (UI badges, exports) and never gates pipeline behavior.
type Confidence string

const (
	// ConfidenceAuthoritative means at least one source looks like a
	// manufacturer datasheet/manual/catalog and core fields are populated.
	ConfidenceAuthoritative Confidence = "authoritative"

	// ConfidenceDerived means the record was extracted from at least one source.
	ConfidenceDerived Confidence = "derived"

	// ConfidenceAIGuess means the record has content but no supporting source.
	ConfidenceAIGuess Confidence = "ai_guess"

	// ConfidenceNoSourceStrict means no sources were found at all; the record
	// carries only the caller-supplied part number.
	ConfidenceNoSourceStrict Confidence = "no_source_strict"
)

// SourceText is one retrieved document fragment fed to the summarizer.
// Instances live only for the duration of a single summarize call; the
// catalog persists SourceRefs, never the raw text.
type SourceText struct {
	// URL is the document location. May be empty for synthetic sources.
	URL string `json:"url" yaml:"url"`

	// Name is a display/origin label, typically the page title or hostname.
	Name string `json:"name" yaml:"name"`

	// Text is the raw extracted text. Capped before prompt inclusion.
	Text string `json:"text" yaml:"text"`

	// Priority is a ranking hint from URL heuristics: datasheets sort
	// before manuals, manuals before generic product pages.
	Priority int `json:"priority" yaml:"priority"`
}

// SourceRef is the provenance entry kept on a finished PartRecord.
type SourceRef struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// PartRecord is the canonical structured output of the summarization
// pipeline. String fields are empty, never null, when unknown. The record
// is immutable after Run returns.
type PartRecord struct {
	// PartNumber is caller-supplied and never invented by the model.
	PartNumber string `json:"part_number" yaml:"part_number"`

	// ProductName is the descriptive model name. Preference order:
	// model-provided value that differs from the bare part number,
	// then CommonNameEN, then the part number itself. Never empty.
	ProductName string `json:"product_name" yaml:"product_name"`

	CommonNameEN string `json:"common_name_en" yaml:"common_name_en"`
	CommonNameTH string `json:"common_name_th" yaml:"common_name_th"`

	// UOM is the unit of measure from the datasheet.
	UOM string `json:"uom" yaml:"uom"`

	CharacteristicsEN string `json:"characteristics_of_material_en" yaml:"characteristics_of_material_en"`
	CharacteristicsTH string `json:"characteristics_of_material_th" yaml:"characteristics_of_material_th"`

	EstimatedCapacityMachineYear string `json:"estimated_capacity_machine_year" yaml:"estimated_capacity_machine_year"`
	QuantityToUse                string `json:"quantity_to_use" yaml:"quantity_to_use"`

	FunctionEN string `json:"function_en" yaml:"function_en"`
	FunctionTH string `json:"function_th" yaml:"function_th"`

	WhereUsedEN string `json:"where_used_en" yaml:"where_used_en"`
	WhereUsedTH string `json:"where_used_th" yaml:"where_used_th"`

	// ECCN, HTS, and COO are export-control codes. They survive only when
	// the exact token appears verbatim in the source bundle used to produce
	// this record; hallucinated values are forced to "".
	ECCN string `json:"eccn" yaml:"eccn"`
	HTS  string `json:"hts" yaml:"hts"`
	COO  string `json:"coo" yaml:"coo"`

	// Tags holds 3-7 short technical keywords.
	Tags []string `json:"tags" yaml:"tags"`

	// Sources lists provenance in retrieval/priority order.
	Sources []SourceRef `json:"sources" yaml:"sources"`

	// Images holds up to 6 product-photo URLs, selector score descending.
	Images []string `json:"images" yaml:"images"`

	SourceConfidence Confidence `json:"source_confidence" yaml:"source_confidence"`
}
