// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"errors"
	"testing"
)

func TestCoerceToJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"valid object passes through", `{"a":1}`, `{"a":1}`, false},
		{"empty input yields empty object", "", "{}", false},
		{"whitespace trimmed", "  {\"a\":1}\n", `{"a":1}`, false},
		{
			"json fence stripped",
			"```json\n{\"a\":1}\n```",
			`{"a":1}`,
			false,
		},
		{
			"bare fence stripped",
			"```\n{\"a\":1}\n```",
			`{"a":1}`,
			false,
		},
		{
			"prose before object",
			`Here is the extraction you asked for: {"a":1}`,
			`{"a":1}`,
			false,
		},
		{
			"prose after object",
			`{"a":1} Let me know if you need anything else.`,
			`{"a":1}`,
			false,
		},
		{
			"nested braces balanced",
			`note {"a":{"b":{"c":2}}} trailing`,
			`{"a":{"b":{"c":2}}}`,
			false,
		},
		{"no object at all", "sorry, I could not find anything", "", true},
		{"unbalanced braces", `{"a": {"b": 1}`, "", true},
		{"malformed interior is a hard failure", `{"a": oops}`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CoerceToJSON(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("CoerceToJSON(%q) = %q, want error", tt.raw, got)
				}
				if !errors.Is(err, ErrMalformedOutput) {
					t.Errorf("error = %v, want ErrMalformedOutput", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CoerceToJSON(%q) error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("CoerceToJSON(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCoerceToJSONIdempotent(t *testing.T) {
	inputs := []string{
		"```json\n{\"a\":1}\n```",
		`prose {"x":{"y":[1,2,3]}} more prose`,
		`{"plain":"object"}`,
	}
	for _, in := range inputs {
		once, err := CoerceToJSON(in)
		if err != nil {
			t.Fatalf("first pass on %q: %v", in, err)
		}
		twice, err := CoerceToJSON(once)
		if err != nil {
			t.Fatalf("second pass on %q: %v", once, err)
		}
		if once != twice {
			t.Errorf("not idempotent: %q != %q", once, twice)
		}
	}
}

func TestCoerceToJSONFenceMatchesUnwrapped(t *testing.T) {
	obj := `{"part":"6000ZZ","tags":["bearing"]}`
	fenced := "```json\n" + obj + "\n```"

	a, err := CoerceToJSON(obj)
	if err != nil {
		t.Fatal(err)
	}
	b, err := CoerceToJSON(fenced)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("fenced extraction %q differs from unwrapped %q", b, a)
	}
}
