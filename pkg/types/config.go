package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Every outbound call is a single
	// bounded attempt; the pipeline degrades instead of retrying.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "partgen/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the text-search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the maximum number of hits per backend (default 5).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// PerplexityAPIKey enables the citation-grounded primary backend.
	// Absence disables the backend rather than failing, unless it was
	// explicitly and exclusively requested.
	PerplexityAPIKey string `json:"perplexity_api_key,omitempty" yaml:"perplexity_api_key,omitempty"`

	// PerplexityModel is the model used for grounded search queries.
	PerplexityModel string `json:"perplexity_model,omitempty" yaml:"perplexity_model,omitempty"`

	// GoogleAPIKey and GoogleEngineID enable the Custom Search secondary backend.
	GoogleAPIKey   string `json:"google_api_key,omitempty" yaml:"google_api_key,omitempty"`
	GoogleEngineID string `json:"google_engine_id,omitempty" yaml:"google_engine_id,omitempty"`
}

// SourceConfig holds settings for the source fetch/normalize stage.
type SourceConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxSources bounds how many candidate pages are fetched (default 5).
	MaxSources int `json:"max_sources" yaml:"max_sources"`

	// MinTextLen discards fetched pages shorter than this as noise (default 300).
	MinTextLen int `json:"min_text_len" yaml:"min_text_len"`

	// MaxTextLen caps each source's text before prompt inclusion (default 16000).
	MaxTextLen int `json:"max_text_len" yaml:"max_text_len"`
}

// AIConfig holds shared settings for stages that call the language model.
type AIConfig struct {
	// Model pins a model identifier, overriding candidate probing.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`

	// APIKey is the authentication key for the model API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// ModelCandidates is probed in order when no model is pinned. Injected
	// as configuration so vendor model lists never live in pipeline code.
	ModelCandidates []string `json:"model_candidates,omitempty" yaml:"model_candidates,omitempty"`

	// MaxTokens bounds the completion length (0 means provider default).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`
}

// SummarizeConfig holds settings for the summarization stage.
type SummarizeConfig struct {
	AIConfig   `yaml:",inline"`
	HTTPConfig `yaml:",inline"`

	// SourceTextCap caps each source's text inside the prompt bundle (default 16000).
	SourceTextCap int `json:"source_text_cap" yaml:"source_text_cap"`
}

// ImageConfig holds settings for the image selection stage.
type ImageConfig struct {
	HTTPConfig `yaml:",inline"`

	// GoogleAPIKey and GoogleEngineID enable Custom Search image queries.
	GoogleAPIKey   string `json:"google_api_key,omitempty" yaml:"google_api_key,omitempty"`
	GoogleEngineID string `json:"google_engine_id,omitempty" yaml:"google_engine_id,omitempty"`

	// MaxImages bounds the number of selected image URLs (default 6).
	MaxImages int `json:"max_images" yaml:"max_images"`

	// RestrictToSourceDomains limits candidates to domains that also hosted
	// retrieved source text, biasing toward authoritative product photos.
	RestrictToSourceDomains bool `json:"restrict_to_source_domains" yaml:"restrict_to_source_domains"`
}

// CatalogConfig holds settings for the part catalog store.
type CatalogConfig struct {
	// DataDir is the directory holding the catalog database (default "data/").
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// MaxResults is the default maximum number of list/search results (default 200).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Search    SearchConfig    `json:"search" yaml:"search"`
	Sources   SourceConfig    `json:"sources" yaml:"sources"`
	Summarize SummarizeConfig `json:"summarize" yaml:"summarize"`
	Images    ImageConfig     `json:"images" yaml:"images"`
	Catalog   CatalogConfig   `json:"catalog" yaml:"catalog"`
	Server    ServerConfig    `json:"server" yaml:"server"`
}
