package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "flora-engine/0.1"). Per prd002-collection R5.2.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ResolveConfig holds settings for the name resolution stage.
// Per prd001-resolution R1.4, R2.3.
type ResolveConfig struct {
	// MatchThreshold is the minimum similarity for a fuzzy match (default 0.6).
	MatchThreshold float64 `json:"match_threshold" yaml:"match_threshold"`

	// VariantThreshold is the looser similarity used when deriving query
	// variants, so near-misses still contribute search terms (default 0.3).
	VariantThreshold float64 `json:"variant_threshold" yaml:"variant_threshold"`

	// MaxVariants caps the derived query variants to bound fan-out cost (default 5).
	MaxVariants int `json:"max_variants" yaml:"max_variants"`
}

// CollectConfig holds settings for the source collection stage.
// Per prd002-collection R2.4, R4.1-R4.3, R5.1-R5.5.
type CollectConfig struct {
	HTTPConfig `yaml:",inline"`

	// RequestDelay is the minimum delay between successive requests to the
	// same external source, enforced within one adapter invocation (default 1s).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`

	// MaxConcurrent bounds how many adapters run at once (default 3).
	MaxConcurrent int64 `json:"max_concurrent" yaml:"max_concurrent"`

	// MinBodyLength is the shortest usable record body; shorter bodies are
	// discarded at the adapter boundary (default 30).
	MinBodyLength int `json:"min_body_length" yaml:"min_body_length"`

	// EnableEncyclopedia controls whether the encyclopedia adapter is used.
	EnableEncyclopedia bool `json:"enable_encyclopedia" yaml:"enable_encyclopedia"`

	// EnablePubMed controls whether the PubMed abstract adapter is used.
	EnablePubMed bool `json:"enable_pubmed" yaml:"enable_pubmed"`

	// EnableAcademic controls whether the academic-abstract adapter is used.
	EnableAcademic bool `json:"enable_academic" yaml:"enable_academic"`

	// EnableSite controls whether the botanical-site adapter is used.
	EnableSite bool `json:"enable_site" yaml:"enable_site"`

	// AcademicEmail is sent as the mailto parameter for polite pool access.
	AcademicEmail string `json:"academic_email,omitempty" yaml:"academic_email,omitempty"`
}

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// Timeout is the per-call timeout for the summarization collaborator.
	// A timeout degrades the affected section to its fallback text.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// ComposeConfig holds settings for the section assembly stage.
// Per prd003-composition R2.2, R2.3, R6.1.
type ComposeConfig struct {
	AIConfig `yaml:",inline"`

	// MaxRecordsPerSection bounds how many records feed one section (default 2).
	MaxRecordsPerSection int `json:"max_records_per_section" yaml:"max_records_per_section"`

	// MaxSectionChars truncates each selected record body (default 1500).
	MaxSectionChars int `json:"max_section_chars" yaml:"max_section_chars"`

	// MinBlocks is the minimum rendered block count before the generic
	// about-section is appended (default 4).
	MinBlocks int `json:"min_blocks" yaml:"min_blocks"`
}

// StoreConfig holds settings for the research store.
// Per prd004-research-store R1.2, R2.3.
type StoreConfig struct {
	// DataDir is the base directory for the store (contains index/flora.db).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Resolve ResolveConfig `json:"resolve" yaml:"resolve"`
	Collect CollectConfig `json:"collect" yaml:"collect"`
	Compose ComposeConfig `json:"compose" yaml:"compose"`
	Store   StoreConfig   `json:"store" yaml:"store"`
}
