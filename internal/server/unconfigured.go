// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"

	"github.com/pdiddy/gapfinder/internal/analyze"
	"github.com/pdiddy/gapfinder/pkg/types"
)

// Unconfigured serves requests when credentials are missing. Every call
// fails with Err except RandomIdeas, which returns the built-in ideas.
type Unconfigured struct {
	Err error
}

func (u Unconfigured) Run(context.Context, analyze.Request) (*types.Report, error) {
	return nil, u.Err
}

func (u Unconfigured) AnalyzePapers(context.Context, string, int) ([]types.PaperAnalysis, error) {
	return nil, u.Err
}

func (u Unconfigured) GenerateIdeas(context.Context, string, string, int, int) ([]types.Idea, string, error) {
	return nil, "", u.Err
}

func (u Unconfigured) Elaborate(context.Context, string, string, int) (string, error) {
	return "", u.Err
}

func (u Unconfigured) RandomIdeas(ctx context.Context, count int) ([]string, bool) {
	return (&analyze.Analyzer{}).RandomIdeas(ctx, count)
}
