// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package images

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/birlabs/partgen/pkg/types"
)

func TestPickRepresentativeFilters(t *testing.T) {
	candidates := []string{
		"https://nsk.com/products/front-view.jpg",
		"https://nsk.com/assets/logo-small-64x64.png",
		"https://nsk.com/assets/banner.jpg",
		"https://nsk.com/img/favicon.ico",
		"https://nsk.com/docs/spec.pdf",
		"ftp://nsk.com/products/photo.jpg",
		"https://nsk.com/media/enclosure.png",
	}

	got := PickRepresentative(candidates, nil, 6)

	for _, u := range got {
		if u == "https://nsk.com/assets/logo-small-64x64.png" {
			t.Error("small-square logo must never appear in output")
		}
		if u == "https://nsk.com/img/favicon.ico" || u == "https://nsk.com/docs/spec.pdf" {
			t.Errorf("disallowed extension survived: %s", u)
		}
		if u == "ftp://nsk.com/products/photo.jpg" {
			t.Error("non-http scheme survived")
		}
	}
	if len(got) != 2 {
		t.Fatalf("got %v, want the two genuine photos", got)
	}
	// banner.jpg is blocklisted, so only scored product shots remain,
	// products/front-view ahead of media/enclosure by score.
	if got[0] != "https://nsk.com/products/front-view.jpg" {
		t.Errorf("order = %v, want front-view first", got)
	}
}

func TestPickRepresentativeScoreOrder(t *testing.T) {
	candidates := []string{
		"https://x.com/files/misc.jpg",                 // score 0
		"https://x.com/products/part-connector.jpg",    // product+part+connector => 6, +1 dir
		"https://x.com/images/top.png",                 // top => 2, +1 dir
	}
	got := PickRepresentative(candidates, nil, 3)
	if len(got) != 3 {
		t.Fatalf("got %d results", len(got))
	}
	if got[0] != "https://x.com/products/part-connector.jpg" || got[2] != "https://x.com/files/misc.jpg" {
		t.Errorf("order = %v", got)
	}
}

func TestPickRepresentativeDedupesQueryVariants(t *testing.T) {
	candidates := []string{
		"https://cdn.x.com/products/a.jpg?w=1200",
		"https://cdn.x.com/products/a.jpg?w=300",
		"https://cdn.x.com/products/b.jpg",
	}
	got := PickRepresentative(candidates, nil, 6)
	if len(got) != 2 {
		t.Errorf("got %v, want CDN variants collapsed", got)
	}
}

func TestPickRepresentativeDomainRestriction(t *testing.T) {
	domains := map[string]struct{}{"nsk.com": {}}
	candidates := []string{
		"https://nsk.com/products/a.jpg",
		"https://random-stock-photos.com/products/b.jpg",
	}
	got := PickRepresentative(candidates, domains, 6)
	if len(got) != 1 || got[0] != "https://nsk.com/products/a.jpg" {
		t.Errorf("got %v, want only source-domain image", got)
	}
}

func TestPickRepresentativeLimit(t *testing.T) {
	var candidates []string
	for _, n := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		candidates = append(candidates, "https://x.com/products/"+n+".jpg")
	}
	got := PickRepresentative(candidates, nil, 6)
	if len(got) != 6 {
		t.Errorf("len = %d, want 6", len(got))
	}
}

func TestIsSmallSquare(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/img/logo-64x64.png", true},
		{"/img/photo-128x128.jpg", true},
		{"/img/photo-1200x800.jpg", false},
		{"/img/photo-64x48.jpg", false},
		{"/img/photo.jpg", false},
	}
	for _, tt := range tests {
		if got := isSmallSquare(tt.path); got != tt.want {
			t.Errorf("isSmallSquare(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

// --- selector ---

type stubImageBackend struct {
	results []types.ImageResult
	err     error
	query   string
}

func (s *stubImageBackend) Name() string { return "stub" }

func (s *stubImageBackend) SearchImages(_ context.Context, query string, _ int, _ types.ImageConfig) ([]types.ImageResult, error) {
	s.query = query
	return s.results, s.err
}

func TestSelectorNeverFails(t *testing.T) {
	b := &stubImageBackend{err: errors.New("backend down")}
	s := &Selector{Backend: b, Cfg: types.ImageConfig{MaxImages: 6}, Logger: zerolog.Nop()}

	got := s.Select(context.Background(), "X1", "", nil)
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty non-nil slice", got)
	}
}

func TestSelectorEnrichesQuery(t *testing.T) {
	b := &stubImageBackend{results: []types.ImageResult{{URL: "https://x.com/products/a.jpg"}}}
	s := &Selector{Backend: b, Cfg: types.ImageConfig{MaxImages: 6}, Logger: zerolog.Nop()}

	s.Select(context.Background(), "6000ZZ", "Deep Groove Ball Bearing", nil)
	if b.query != "6000ZZ Deep Groove Ball Bearing" {
		t.Errorf("query = %q", b.query)
	}

	// Product name equal to the part number adds nothing.
	s.Select(context.Background(), "6000ZZ", "6000ZZ", nil)
	if b.query != "6000ZZ" {
		t.Errorf("query = %q", b.query)
	}
}

func TestGoogleImageBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("searchType") != "image" {
			t.Errorf("searchType = %q", q.Get("searchType"))
		}
		w.Write([]byte(`{"items":[{"link":"https://x.com/products/a.jpg","image":{"thumbnailLink":"https://t/1","contextLink":"https://x.com/p"}}]}`))
	}))
	defer srv.Close()

	orig := googleImageAPIBase
	googleImageAPIBase = srv.URL
	defer func() { googleImageAPIBase = orig }()

	b := &GoogleImageBackend{Client: srv.Client()}
	cfg := types.ImageConfig{GoogleAPIKey: "k", GoogleEngineID: "cse"}
	results, err := b.SearchImages(context.Background(), "q", 6, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Thumbnail != "https://t/1" {
		t.Errorf("results = %+v", results)
	}
}

func TestGoogleImageBackendNotConfigured(t *testing.T) {
	b := &GoogleImageBackend{}
	_, err := b.SearchImages(context.Background(), "q", 6, types.ImageConfig{})
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("error = %v, want ErrNotConfigured", err)
	}
}
