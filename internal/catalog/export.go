// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"
)

var csvHeader = []string{
	"id", "part_number", "product_name", "common_name_en", "common_name_th",
	"uom", "characteristics_of_material_en", "characteristics_of_material_th",
	"estimated_capacity_machine_year", "quantity_to_use",
	"function_en", "function_th", "where_used_en", "where_used_th",
	"eccn", "hts", "coo", "tags", "sources", "images",
	"source_confidence", "created_at",
}

// ExportCSV writes the whole catalog as CSV. List-valued fields are
// joined with "; " so every record stays one row.
func (s *Store) ExportCSV(ctx context.Context, w io.Writer) error {
	parts, err := s.exportParts(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, p := range parts {
		urls := make([]string, 0, len(p.Sources))
		for _, ref := range p.Sources {
			urls = append(urls, ref.URL)
		}
		row := []string{
			p.ID, p.PartNumber, p.ProductName, p.CommonNameEN, p.CommonNameTH,
			p.UOM, p.CharacteristicsEN, p.CharacteristicsTH,
			p.EstimatedCapacityMachineYear, p.QuantityToUse,
			p.FunctionEN, p.FunctionTH, p.WhereUsedEN, p.WhereUsedTH,
			p.ECCN, p.HTS, p.COO,
			strings.Join(p.Tags, "; "),
			strings.Join(urls, "; "),
			strings.Join(p.Images, "; "),
			string(p.SourceConfidence),
			p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportJSON writes the whole catalog as an indented JSON array.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer) error {
	parts, err := s.exportParts(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(parts)
}

// ExportYAML writes the whole catalog as a YAML sequence.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer) error {
	parts, err := s.exportParts(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(parts)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// exportParts reads the full catalog, oldest first, without the List
// result cap.
func (s *Store) exportParts(ctx context.Context) ([]StoredPart, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, record FROM parts ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	defer rows.Close()
	return collectParts(rows)
}
