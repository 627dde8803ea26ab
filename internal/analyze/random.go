// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"context"
	"math/rand/v2"

	"github.com/pdiddy/gapfinder/internal/llm"
	"github.com/pdiddy/gapfinder/internal/metrics"
	"github.com/pdiddy/gapfinder/internal/search"
)

// TrendingQuery is the CORE query used to find recent papers for random
// idea generation.
const TrendingQuery = "machine learning OR artificial intelligence OR deep learning OR data science OR quantum computing"

const trendingLimit = 5

// DefaultRandomCount is how many ideas RandomIdeas returns by default.
const DefaultRandomCount = 5

// FallbackIdeas are sampled when neither CORE nor the model yields ideas.
var FallbackIdeas = []string{
	"Explainable AI for medical imaging diagnosis",
	"Quantum algorithms for large-scale optimization",
	"Privacy-preserving federated learning in healthcare",
	"Bias detection in language models for legal documents",
	"Energy-efficient deep learning for edge devices",
}

// RandomIdeas returns count research gaps drawn from trending papers. When
// the search or the model fails or returns nothing, it falls back to a
// random sample of FallbackIdeas and reports fallback as true.
func (a *Analyzer) RandomIdeas(ctx context.Context, count int) (ideas []string, fallback bool) {
	if count <= 0 {
		count = DefaultRandomCount
	}

	if ideas := a.trendingGaps(ctx, count); len(ideas) > 0 {
		metrics.IdeasGenerated.Add(float64(len(ideas)))
		return ideas, false
	}
	return sampleFallback(count), true
}

func (a *Analyzer) trendingGaps(ctx context.Context, count int) []string {
	if a.Search == nil || a.LLM == nil {
		return nil
	}

	papers, err := a.Search.Search(ctx, search.Query{Topic: TrendingQuery, Limit: trendingLimit})
	if err != nil {
		a.Log.Warn().Err(err).Msg("trending search failed, using fallback ideas")
		return nil
	}
	if len(papers) == 0 {
		return nil
	}

	prompt, err := llm.GapsPrompt(papers, count)
	if err != nil {
		a.Log.Warn().Err(err).Msg("building gaps prompt")
		return nil
	}
	text, err := a.LLM.Generate(ctx, prompt)
	if err != nil {
		a.Log.Warn().Err(err).Msg("gap generation failed, using fallback ideas")
		return nil
	}
	return llm.ParseGapList(text, count)
}

func sampleFallback(count int) []string {
	n := min(count, len(FallbackIdeas))
	out := make([]string, 0, n)
	for _, i := range rand.Perm(len(FallbackIdeas))[:n] {
		out = append(out, FallbackIdeas[i])
	}
	return out
}
