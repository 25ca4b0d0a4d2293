// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SearchResult is one hit returned by a text-search backend, normalized to
// a uniform shape regardless of which engine produced it.
type SearchResult struct {
	// Title is the result title, or the hostname when the backend only
	// returns bare citation URLs.
	Title string `json:"title" yaml:"title"`

	// URL is the result location.
	URL string `json:"url" yaml:"url"`

	// Snippet is a short excerpt, when the backend provides one.
	Snippet string `json:"snippet,omitempty" yaml:"snippet,omitempty"`
}

// ImageResult is one hit returned by an image-search backend.
type ImageResult struct {
	// URL is the full-size image location.
	URL string `json:"url" yaml:"url"`

	// Thumbnail is the backend-hosted thumbnail, when available.
	Thumbnail string `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`

	// Context is the page the image was found on.
	Context string `json:"context,omitempty" yaml:"context,omitempty"`
}
