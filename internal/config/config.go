// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads gapfinder settings. Credentials are read from the
// environment, a .env file, the YAML config file, and the .secrets/
// directory, in that order of precedence. All other settings have defaults
// that the config file and GAPFINDER_-prefixed variables override.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/pdiddy/gapfinder/internal/apperr"
	"github.com/pdiddy/gapfinder/internal/secrets"
	"github.com/pdiddy/gapfinder/pkg/types"
)

// Environment variable names for the two credentials.
const (
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvGoogleAPIKey = "GOOGLE_API_KEY"
	EnvCoreAPIKey   = "CORE_API_KEY"
)

// EnvPrefix prefixes environment overrides for non-credential settings,
// e.g. GAPFINDER_CORE_MAX_RESULTS.
const EnvPrefix = "GAPFINDER"

// Options controls where Load looks for settings.
type Options struct {
	// ConfigFile is an explicit config file. When empty, gapfinder.yaml is
	// searched for in the working directory and ~/.config/gapfinder/.
	ConfigFile string

	// EnvFile is a dotenv file. A missing file is ignored.
	EnvFile string

	// SecretsDir holds one file per credential.
	SecretsDir string

	Log zerolog.Logger
}

// DefaultOptions returns the locations used by the CLI.
func DefaultOptions(log zerolog.Logger) Options {
	return Options{EnvFile: ".env", SecretsDir: ".secrets/", Log: log}
}

// SetDefaults registers the default value of every setting on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("core.timeout", 30*time.Second)
	v.SetDefault("core.user_agent", "gapfinder/0.1")
	v.SetDefault("core.max_results", 10)
	v.SetDefault("core.sort", "relevance")
	v.SetDefault("core.language", "en")
	v.SetDefault("core.rate_limit_retries", 0)

	v.SetDefault("fulltext.timeout", 60*time.Second)
	v.SetDefault("fulltext.user_agent", "gapfinder/0.1")
	v.SetDefault("fulltext.max_bytes", int64(50<<20))

	v.SetDefault("gemini.model", "gemini-1.5-flash")
	v.SetDefault("gemini.temperature", 0)
	v.SetDefault("gemini.max_output_tokens", 0)

	v.SetDefault("analysis.num_papers", 10)
	v.SetDefault("analysis.num_ideas", 10)
	v.SetDefault("analysis.word_limit", 250)
	v.SetDefault("analysis.elaborate_word_limit", 1000)
	v.SetDefault("analysis.full_text", false)
	v.SetDefault("analysis.analysis_prompt", "")

	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.allowed_origins", []string{})
}

// New returns a viper instance with defaults and environment bindings but
// no config file.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Credentials use their conventional unprefixed names.
	_ = v.BindEnv("gemini_api_key", EnvGeminiAPIKey, EnvGoogleAPIKey)
	_ = v.BindEnv("core_api_key", EnvCoreAPIKey)
	return v
}

// Load reads the configuration. It never fails on missing credentials;
// call Require for that. It fails with a *apperr.ConfigError when an
// explicit config file cannot be read or a value cannot be decoded.
func Load(opts Options) (*types.Config, error) {
	if err := loadDotEnv(opts.EnvFile); err != nil {
		return nil, &apperr.ConfigError{Err: fmt.Errorf("loading %s: %w", opts.EnvFile, err)}
	}

	v := New()
	if err := readConfigFile(v, opts.ConfigFile); err != nil {
		return nil, &apperr.ConfigError{Err: err}
	}
	if used := v.ConfigFileUsed(); used != "" {
		opts.Log.Debug().Str("path", used).Msg("using config file")
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &apperr.ConfigError{Err: fmt.Errorf("decoding configuration: %w", err)}
	}

	if opts.SecretsDir != "" {
		s, err := secrets.Load(opts.SecretsDir, opts.Log)
		if err != nil {
			return nil, &apperr.ConfigError{Err: err}
		}
		applySecrets(&cfg.Credentials, s, opts.Log)
	}

	return &cfg, nil
}

// Require returns a *apperr.ConfigError naming every credential that is
// needed but empty. Pass core and gemini for the services the command uses.
func Require(creds types.Credentials, core, gemini bool) error {
	var missing []string
	if gemini && strings.TrimSpace(creds.GeminiAPIKey) == "" {
		missing = append(missing, EnvGeminiAPIKey)
	}
	if core && strings.TrimSpace(creds.CoreAPIKey) == "" {
		missing = append(missing, EnvCoreAPIKey)
	}
	if len(missing) > 0 {
		return &apperr.ConfigError{Missing: missing}
	}
	return nil
}

// loadDotEnv loads environment variables from path without overriding
// variables that are already set. A missing file is ignored.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("gapfinder")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "gapfinder"))
	}

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return fmt.Errorf("reading config file: %w", err)
	}
	return nil
}

// applySecrets fills credentials that no other source provided.
func applySecrets(creds *types.Credentials, s types.Credentials, log zerolog.Logger) {
	if creds.GeminiAPIKey == "" && s.GeminiAPIKey != "" {
		creds.GeminiAPIKey = s.GeminiAPIKey
		log.Debug().Str("secret", secrets.GeminiAPIKey).Msg("loaded credential from secrets directory")
	}
	if creds.CoreAPIKey == "" && s.CoreAPIKey != "" {
		creds.CoreAPIKey = s.CoreAPIKey
		log.Debug().Str("secret", secrets.CoreAPIKey).Msg("loaded credential from secrets directory")
	}
}
