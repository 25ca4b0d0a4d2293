// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package confidence

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/birlabs/partgen/pkg/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		rec  types.PartRecord
		want types.Confidence
	}{
		{
			name: "datasheet with two core fields",
			rec: types.PartRecord{
				CommonNameEN: "Ball bearing",
				UOM:          "EA",
				Sources: []types.SourceRef{
					{Name: "Spec sheet", URL: "https://vendor.example.com/files/brg-6204.pdf"},
				},
			},
			want: types.ConfidenceAuthoritative,
		},
		{
			name: "manufacturer product page",
			rec: types.PartRecord{
				CommonNameEN: "Ball bearing",
				FunctionEN:   "Supports rotating shafts",
				Sources: []types.SourceRef{
					{URL: "https://vendor.example.com/product/brg-6204"},
				},
			},
			want: types.ConfidenceAuthoritative,
		},
		{
			name: "authoritative url but only one core field",
			rec: types.PartRecord{
				CommonNameEN: "Ball bearing",
				Sources: []types.SourceRef{
					{URL: "https://vendor.example.com/datasheet/brg-6204"},
				},
			},
			want: types.ConfidenceDerived,
		},
		{
			name: "forum source with core fields",
			rec: types.PartRecord{
				CommonNameEN: "Ball bearing",
				UOM:          "EA",
				Sources: []types.SourceRef{
					{URL: "https://forum.example.org/thread/123"},
				},
			},
			want: types.ConfidenceDerived,
		},
		{
			name: "no sources at all",
			rec:  types.PartRecord{PartNumber: "BRG-6204"},
			want: types.ConfidenceNoSourceStrict,
		},
		{
			name: "name fields without sources stay strict",
			rec: types.PartRecord{
				PartNumber:   "BRG-6204",
				CommonNameEN: "BRG-6204",
				CommonNameTH: "BRG-6204",
			},
			want: types.ConfidenceNoSourceStrict,
		},
		{
			name: "sources but nothing extracted",
			rec: types.PartRecord{
				Sources: []types.SourceRef{
					{URL: "https://forum.example.org/thread/123"},
				},
			},
			want: types.ConfidenceAIGuess,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.rec))
		})
	}
}
