package types

import "time"

// HTTPConfig holds shared HTTP settings used by clients that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "gapfinder/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// Credentials holds the two API keys the tool needs.
type Credentials struct {
	// GeminiAPIKey authenticates calls to the Gemini API (GEMINI_API_KEY).
	GeminiAPIKey string `json:"-" yaml:"-" mapstructure:"gemini_api_key"`

	// CoreAPIKey authenticates calls to the CORE API (CORE_API_KEY).
	CoreAPIKey string `json:"-" yaml:"-" mapstructure:"core_api_key"`
}

// CoreConfig holds settings for the CORE search client.
type CoreConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL overrides the CORE search endpoint.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// MaxResults is the number of papers requested per search (default 10).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// Sort is the CORE sort order: relevance, views, or popularity.
	Sort string `json:"sort" yaml:"sort" mapstructure:"sort"`

	// Language restricts results to one language code (default "en").
	Language string `json:"language" yaml:"language" mapstructure:"language"`

	// RateLimitRetries is how many times an HTTP 429 is retried with
	// backoff. Zero disables retries.
	RateLimitRetries int `json:"rate_limit_retries" yaml:"rate_limit_retries" mapstructure:"rate_limit_retries"`
}

// FullTextConfig holds settings for downloading paper PDFs.
type FullTextConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// MaxBytes caps the size of a downloaded PDF.
	MaxBytes int64 `json:"max_bytes" yaml:"max_bytes" mapstructure:"max_bytes"`
}

// AIConfig holds settings for the Gemini client.
type AIConfig struct {
	// Model is the Gemini model identifier (e.g. "gemini-1.5-flash").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// Temperature is passed to the model when non-zero.
	Temperature float32 `json:"temperature" yaml:"temperature" mapstructure:"temperature"`

	// MaxOutputTokens caps the response length when non-zero.
	MaxOutputTokens int32 `json:"max_output_tokens" yaml:"max_output_tokens" mapstructure:"max_output_tokens"`
}

// AnalysisConfig holds defaults for an analysis run.
type AnalysisConfig struct {
	// NumPapers is the number of papers to search for and analyze (default 10).
	NumPapers int `json:"num_papers" yaml:"num_papers" mapstructure:"num_papers"`

	// NumIdeas is the number of research ideas to request (default 10).
	NumIdeas int `json:"num_ideas" yaml:"num_ideas" mapstructure:"num_ideas"`

	// WordLimit bounds each generated idea; must be in (100, 250].
	WordLimit int `json:"word_limit" yaml:"word_limit" mapstructure:"word_limit"`

	// ElaborateWordLimit bounds an idea elaboration (default 1000).
	ElaborateWordLimit int `json:"elaborate_word_limit" yaml:"elaborate_word_limit" mapstructure:"elaborate_word_limit"`

	// FullText enables per-paper analysis of full text before suggesting ideas.
	FullText bool `json:"full_text" yaml:"full_text" mapstructure:"full_text"`

	// AnalysisPrompt replaces the built-in per-paper analysis instructions.
	AnalysisPrompt string `json:"analysis_prompt,omitempty" yaml:"analysis_prompt,omitempty" mapstructure:"analysis_prompt"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	// Addr is the listen address (default ":8000").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// AllowedOrigins lists CORS origins; empty allows all.
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// Config groups all settings loaded at startup.
type Config struct {
	Credentials `yaml:",inline" mapstructure:",squash"`

	Core     CoreConfig     `json:"core" yaml:"core" mapstructure:"core"`
	FullText FullTextConfig `json:"fulltext" yaml:"fulltext" mapstructure:"fulltext"`
	Gemini   AIConfig       `json:"gemini" yaml:"gemini" mapstructure:"gemini"`
	Analysis AnalysisConfig `json:"analysis" yaml:"analysis" mapstructure:"analysis"`
	Server   ServerConfig   `json:"server" yaml:"server" mapstructure:"server"`
}
