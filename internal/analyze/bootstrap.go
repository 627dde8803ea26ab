// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/pdiddy/gapfinder/internal/config"
	"github.com/pdiddy/gapfinder/internal/fulltext"
	"github.com/pdiddy/gapfinder/internal/llm"
	"github.com/pdiddy/gapfinder/internal/search"
	"github.com/pdiddy/gapfinder/pkg/types"
)

// Factory builds the external clients. DefaultFactory is the production
// implementation.
type Factory interface {
	NewSearcher(apiKey string, cfg types.CoreConfig) (search.Searcher, error)
	NewGenerator(ctx context.Context, apiKey string, cfg types.AIConfig) (llm.Generator, error)
	NewTextSource(cfg types.FullTextConfig) fulltext.Source
}

// DefaultFactory creates the CORE, Gemini, and PDF clients.
type DefaultFactory struct {
	Log zerolog.Logger
}

func (f DefaultFactory) NewSearcher(apiKey string, cfg types.CoreConfig) (search.Searcher, error) {
	return search.NewCoreClient(apiKey, cfg, f.Log), nil
}

func (f DefaultFactory) NewGenerator(ctx context.Context, apiKey string, cfg types.AIConfig) (llm.Generator, error) {
	return llm.NewGeminiClient(ctx, apiKey, cfg, f.Log)
}

func (f DefaultFactory) NewTextSource(cfg types.FullTextConfig) fulltext.Source {
	return fulltext.NewFetcher(cfg, f.Log)
}

// Bootstrap checks that both credentials are present and then builds an
// Analyzer. Missing credentials yield an *apperr.ConfigError before the
// factory is called, so nothing touches the network.
func Bootstrap(ctx context.Context, cfg *types.Config, factory Factory, log zerolog.Logger) (*Analyzer, error) {
	if err := config.Require(cfg.Credentials, true, true); err != nil {
		return nil, err
	}

	searcher, err := factory.NewSearcher(cfg.CoreAPIKey, cfg.Core)
	if err != nil {
		return nil, err
	}
	gen, err := factory.NewGenerator(ctx, cfg.GeminiAPIKey, cfg.Gemini)
	if err != nil {
		return nil, err
	}

	return &Analyzer{
		Search: searcher,
		LLM:    gen,
		Text:   factory.NewTextSource(cfg.FullText),
		Config: cfg.Analysis,
		Log:    log,
	}, nil
}
