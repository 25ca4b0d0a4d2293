// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"

	"github.com/birlabs/partgen/internal/llm"
	"github.com/birlabs/partgen/pkg/types"
)

// extraction is the schema-validated intermediate: the model's raw JSON
// answer before guards and assembly run. Every field is optional with a
// typed zero default, so unparsable or invalid output collapses to an
// all-defaults value instead of failing the pipeline. This is the single
// boundary where untrusted model output enters the system; everything
// downstream works on the typed PartRecord.
type extraction struct {
	ProductName                  string            `json:"product_name"`
	CommonNameEN                 string            `json:"common_name_en"`
	CommonNameTH                 string            `json:"common_name_th"`
	UOM                          string            `json:"uom"`
	CharacteristicsEN            string            `json:"characteristics_of_material_en"`
	CharacteristicsTH            string            `json:"characteristics_of_material_th"`
	EstimatedCapacityMachineYear string            `json:"estimated_capacity_machine_year"`
	QuantityToUse                string            `json:"quantity_to_use"`
	FunctionEN                   string            `json:"function_en"`
	FunctionTH                   string            `json:"function_th"`
	WhereUsedEN                  string            `json:"where_used_en"`
	WhereUsedTH                  string            `json:"where_used_th"`
	ECCN                         string            `json:"eccn"`
	HTS                          string            `json:"hts"`
	COO                          string            `json:"coo"`
	Tags                         []string          `json:"tags"`
	Sources                      []types.SourceRef `json:"sources"`
}

// parseExtraction recovers a typed extraction from raw model output.
// Coercion failure and schema failure both collapse to all-defaults.
func parseExtraction(raw string, logger zerolog.Logger) extraction {
	safe, err := llm.CoerceToJSON(raw)
	if err != nil {
		logger.Warn().Err(err).Msg("could not coerce model output to JSON, using defaults")
		return extraction{}
	}

	var ex extraction
	if err := json.Unmarshal([]byte(safe), &ex); err != nil {
		logger.Warn().Err(err).Msg("model output failed schema validation, using defaults")
		return extraction{}
	}

	ex.trim()
	return ex
}

// trim normalizes whitespace on every string field and drops empty tags.
func (ex *extraction) trim() {
	for _, p := range []*string{
		&ex.ProductName, &ex.CommonNameEN, &ex.CommonNameTH, &ex.UOM,
		&ex.CharacteristicsEN, &ex.CharacteristicsTH,
		&ex.EstimatedCapacityMachineYear, &ex.QuantityToUse,
		&ex.FunctionEN, &ex.FunctionTH, &ex.WhereUsedEN, &ex.WhereUsedTH,
		&ex.ECCN, &ex.HTS, &ex.COO,
	} {
		*p = strings.TrimSpace(*p)
	}

	tags := ex.Tags[:0:0]
	for _, t := range ex.Tags {
		if tt := strings.TrimSpace(t); tt != "" {
			tags = append(tags, tt)
		}
	}
	ex.Tags = tags
}
