// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birlabs/partgen/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.CatalogConfig{DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord(partNumber, productName string) types.PartRecord {
	return types.PartRecord{
		PartNumber:       partNumber,
		ProductName:      productName,
		CommonNameEN:     "Ball bearing",
		CommonNameTH:     "ตลับลูกปืน",
		UOM:              "EA",
		Tags:             []string{"bearing"},
		Sources:          []types.SourceRef{{Name: "datasheet", URL: "https://vendor.example.com/ds.pdf"}},
		Images:           []string{"https://vendor.example.com/brg.jpg"},
		SourceConfidence: types.ConfidenceDerived,
	}
}

func TestSaveAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	stored, err := s.Save(ctx, sampleRecord("BRG-6204", "6204-2RS Bearing"))
	require.NoError(t, err)
	require.NotEmpty(t, stored.ID)
	assert.False(t, stored.CreatedAt.IsZero())

	got, err := s.Get(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, got.ID)
	assert.Equal(t, "BRG-6204", got.PartNumber)
	assert.Equal(t, "ตลับลูกปืน", got.CommonNameTH)
	// The PDF datasheet source plus populated name and UOM upgrade the
	// summarizer's derived label on save.
	assert.Equal(t, types.ConfidenceAuthoritative, got.SourceConfidence)
	require.Len(t, got.Sources, 1)
	assert.Equal(t, "https://vendor.example.com/ds.pdf", got.Sources[0].URL)
}

func TestSaveClassifiesConfidence(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name string
		rec  types.PartRecord
		want types.Confidence
	}{
		{
			name: "datasheet source with core fields upgrades to authoritative",
			rec: types.PartRecord{
				PartNumber:   "BRG-6204",
				CommonNameEN: "Ball bearing",
				UOM:          "EA",
				Sources: []types.SourceRef{
					{Name: "Spec sheet", URL: "https://vendor.example.com/files/brg-6204.pdf"},
				},
				SourceConfidence: types.ConfidenceDerived,
			},
			want: types.ConfidenceAuthoritative,
		},
		{
			name: "minimal record keeps its strict label",
			rec: types.PartRecord{
				PartNumber:       "BRG-6204",
				CommonNameEN:     "BRG-6204",
				CommonNameTH:     "BRG-6204",
				SourceConfidence: types.ConfidenceNoSourceStrict,
			},
			want: types.ConfidenceNoSourceStrict,
		},
		{
			name: "empty extraction over a forum source downgrades to ai_guess",
			rec: types.PartRecord{
				PartNumber: "BRG-6204",
				Sources: []types.SourceRef{
					{URL: "https://forum.example.org/thread/123"},
				},
				SourceConfidence: types.ConfidenceDerived,
			},
			want: types.ConfidenceAIGuess,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored, err := s.Save(ctx, tt.rec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stored.SourceConfidence)

			got, err := s.Get(ctx, stored.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.SourceConfidence)
		})
	}
}

func TestGetUnknownID(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	stored, err := s.Save(ctx, sampleRecord("BRG-6204", "Bearing"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, stored.ID))
	_, err = s.Get(ctx, stored.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Delete(ctx, stored.ID), ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.Save(ctx, sampleRecord("BRG-6204", "Bearing"))
	require.NoError(t, err)
	second, err := s.Save(ctx, sampleRecord("FLT-0021", "Oil filter"))
	require.NoError(t, err)

	parts, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.Equal(t, second.ID, parts[0].ID)
	assert.Equal(t, first.ID, parts[1].ID)
}

func TestSearchByName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, sampleRecord("BRG-6204", "6204-2RS Bearing"))
	require.NoError(t, err)
	_, err = s.Save(ctx, sampleRecord("FLT-0021", "Oil filter"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"by part number", "BRG", []string{"BRG-6204"}},
		{"by product name", "filter", []string{"FLT-0021"}},
		{"case insensitive", "FILTER", []string{"FLT-0021"}},
		{"by common name", "bearing", []string{"FLT-0021", "BRG-6204"}},
		{"no match", "gasket", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts, err := s.SearchByName(ctx, tt.query)
			require.NoError(t, err)
			got := make([]string, 0, len(parts))
			for _, p := range parts {
				got = append(got, p.PartNumber)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExportCSV(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, sampleRecord("BRG-6204", "Bearing"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.ExportCSV(ctx, &buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, "BRG-6204", rows[1][1])
	assert.Equal(t, "ตลับลูกปืน", rows[1][4])
	assert.Equal(t, "authoritative", rows[1][20])
}

func TestExportJSON(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, sampleRecord("BRG-6204", "Bearing"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.ExportJSON(ctx, &buf))

	var parts []StoredPart
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parts))
	require.Len(t, parts, 1)
	assert.Equal(t, "BRG-6204", parts[0].PartNumber)
	assert.NotEmpty(t, parts[0].ID)
}

func TestExportYAMLListsEveryPart(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, sampleRecord("BRG-6204", "Bearing"))
	require.NoError(t, err)
	_, err = s.Save(ctx, sampleRecord("FLT-0021", "Oil filter"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.ExportYAML(ctx, &buf))

	out := buf.String()
	assert.Contains(t, out, "part_number: BRG-6204")
	assert.Contains(t, out, "part_number: FLT-0021")
}
