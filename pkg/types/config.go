package types

import "time"

// HTTPConfig holds shared HTTP settings used by collaborators that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "videoinsight/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds shared settings for components that call a Generative
// AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "gemini-2.0-flash").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// CatalogConfig holds settings for the YouTube catalog collaborator.
// Credential bootstrapping is out of scope: either APIKey is set, or
// TokenFile points at an OAuth token JSON produced elsewhere.
type CatalogConfig struct {
	// APIKey authenticates Data API reads of public playlists.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// TokenFile is the path to a stored OAuth2 token, used when APIKey
	// is empty (required for private playlists).
	TokenFile string `json:"token_file,omitempty" yaml:"token_file,omitempty"`
}

// TranscriptConfig holds settings for transcript retrieval.
type TranscriptConfig struct {
	HTTPConfig `yaml:",inline"`

	// Languages lists preferred transcript language codes in priority
	// order (default: en, pt). Any available language is a fallback.
	Languages []string `json:"languages" yaml:"languages"`

	// MaxRetries bounds HTTP 429 retries per request.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// AnalysisConfig holds settings for the model-call + extraction stage.
type AnalysisConfig struct {
	AIConfig `yaml:",inline"`

	// MaxTranscriptChars bounds how much transcript text is embedded in
	// the prompt (default 200000).
	MaxTranscriptChars int `json:"max_transcript_chars" yaml:"max_transcript_chars"`
}

// StoreConfig holds settings for the video store.
type StoreConfig struct {
	// DataDir is the directory holding the SQLite database (videos.db).
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// PipelineConfig groups all stage configurations for a batch run.
type PipelineConfig struct {
	Catalog    CatalogConfig    `json:"catalog" yaml:"catalog"`
	Transcript TranscriptConfig `json:"transcript" yaml:"transcript"`
	Analysis   AnalysisConfig   `json:"analysis" yaml:"analysis"`
	Store      StoreConfig      `json:"store" yaml:"store"`

	// PaceInterval is the minimum wait between consecutive item
	// attempts, protecting the model API rate limit (default 1s).
	PaceInterval time.Duration `json:"pace_interval" yaml:"pace_interval"`
}
