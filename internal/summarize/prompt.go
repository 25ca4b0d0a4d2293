// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/birlabs/partgen/internal/sources"
	"github.com/birlabs/partgen/pkg/types"
)

// systemPrompt frames the model as a BOM-domain summarizer for every
// extraction call.
const systemPrompt = "You are a precise technical summarizer for manufacturing/BOM."

// extractionPromptTmpl is the strict instruction prompt for one part. It
// leads with the descriptive-product-name goal, enumerates every target
// field, forbids invented export-control codes, and demands a single JSON
// object with no prose or fences.
var extractionPromptTmpl = template.Must(template.New("extraction").Parse(`You are an expert technical researcher for manufacturing parts.
PART NUMBER: {{.PartNumber}}

YOUR PRIMARY TASK: Find a meaningful PRODUCT NAME (not just the part number)

CRITICAL RULES:
- product_name: Extract the FULL PRODUCT NAME/MODEL from sources (e.g., "Siemens 1LE1 132M-2 Motor" or "Omron CP1L PLC")
  - If an explicit product name exists, use it
  - If only the part number appears in sources, extract the model series name
  - MUST be more descriptive than the part number alone
- common_name_en: General category/type (e.g., "Three-Phase Motor", "Programmable Logic Controller")
- Fill EVERY field. Use "" ONLY if truly not found in sources.
- Thai fields: use Thai from sources; otherwise faithfully translate from English.
- DO NOT invent ECCN/HTS/COO. Return "" unless explicitly stated in sources.
- Return EXACT JSON only (no notes, no code fences).

OUTPUT FIELDS:
- product_name: FULL product model name (most important - NOT just the part number)
- common_name_en: equipment type/category
- common_name_th: Thai equipment type
- uom: unit from datasheet
- characteristics_of_material_en: key specs/dims (from datasheet)
- characteristics_of_material_th: Thai key specs/dims
- estimated_capacity_machine_year: production capacity if stated
- quantity_to_use: usage quantity if stated
- function_en: what the product does
- function_th: Thai function description
- where_used_en: industries/applications
- where_used_th: Thai industries/applications
- eccn, hts, coo: only if explicitly present in sources
- tags: 3-7 concise technical keywords
- sources: the sources you relied on, as {"name": "...", "url": "..."}

Return EXACTLY one JSON object with those keys and no other text.`))

// userMessageTmpl wraps the fused source bundle for the user turn. The
// explicit BEGIN/END markers let the model distinguish instructions from
// quoted material.
var userMessageTmpl = template.Must(template.New("user").Parse(`PART NUMBER TO RESEARCH: {{.PartNumber}}

Rules:
- Use ONLY the provided sources. If unknown, leave the field empty.
- Return a single JSON object only (no code fences, no extra text).

=== SOURCES BEGIN ===
{{.Bundle}}
=== SOURCES END ===

IMPORTANT: Extract the FULL PRODUCT NAME/MODEL from the sources (not just the part number).
Carefully extract and structure all available information.`))

// noSourcesBundle replaces the bundle when nothing was retrieved.
const noSourcesBundle = "NO_SOURCES_AVAILABLE"

// buildBundle fuses sanitized sources into one delimited block with
// explicit SOURCE / URL / --- framing per document.
func buildBundle(srcs []types.SourceText, textCap int) string {
	if len(srcs) == 0 {
		return noSourcesBundle
	}

	parts := make([]string, 0, len(srcs))
	for _, s := range srcs {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			name = "source"
		}
		var b strings.Builder
		b.WriteString("SOURCE: ")
		b.WriteString(name)
		b.WriteByte('\n')
		b.WriteString("URL: ")
		b.WriteString(strings.TrimSpace(s.URL))
		b.WriteByte('\n')
		b.WriteString("---\n")
		b.WriteString(sources.Sanitize(s.Text, textCap))
		parts = append(parts, b.String())
	}
	return strings.Join(parts, "\n\n====\n\n")
}

func renderExtractionPrompt(partNumber string) (string, error) {
	var buf bytes.Buffer
	err := extractionPromptTmpl.Execute(&buf, struct{ PartNumber string }{partNumber})
	return buf.String(), err
}

func renderUserMessage(partNumber, bundle string) (string, error) {
	var buf bytes.Buffer
	err := userMessageTmpl.Execute(&buf, struct{ PartNumber, Bundle string }{partNumber, bundle})
	return buf.String(), err
}
