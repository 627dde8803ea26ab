// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze runs the gapfinder pipeline: search CORE for a topic,
// optionally analyze each paper's full text, then ask the language model for
// a summary, idea bridging, gap analysis, and new research ideas.
//
// Each call is synchronous and keeps no state between runs.
package analyze

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pdiddy/gapfinder/internal/apperr"
	"github.com/pdiddy/gapfinder/internal/fulltext"
	"github.com/pdiddy/gapfinder/internal/llm"
	"github.com/pdiddy/gapfinder/internal/metrics"
	"github.com/pdiddy/gapfinder/internal/search"
	"github.com/pdiddy/gapfinder/pkg/types"
)

// NoPapersNote is added to a report when the search returns nothing.
const NoPapersNote = "No papers found for your topic. Try a different search term."

// ErrEmptyTopic is returned when the topic is blank.
var ErrEmptyTopic = errors.New("research topic cannot be empty")

// Analyzer wires a paper search to a language model. Text is optional and
// only used when a request asks for full-text analysis.
type Analyzer struct {
	Search search.Searcher
	LLM    llm.Generator
	Text   fulltext.Source
	Config types.AnalysisConfig
	Log    zerolog.Logger
}

// Request describes one analysis run. Zero values fall back to the
// analyzer's configuration.
type Request struct {
	Topic          string
	Sort           string
	NumPapers      int
	NumIdeas       int
	WordLimit      int
	FullText       bool
	AnalysisPrompt string
}

// Validate checks the topic and the idea word limit.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Topic) == "" {
		return ErrEmptyTopic
	}
	if r.WordLimit != 0 {
		if err := llm.ValidateWordLimit(r.WordLimit); err != nil {
			return err
		}
	}
	if r.Sort != "" && !search.IsValidSort(r.Sort) {
		return fmt.Errorf("invalid sort %q: use one of %s", r.Sort, strings.Join(search.ValidSorts, ", "))
	}
	if r.NumPapers < 0 || r.NumIdeas < 0 {
		return errors.New("number of papers and ideas must not be negative")
	}
	return nil
}

// withDefaults fills zero fields from cfg.
func (r Request) withDefaults(cfg types.AnalysisConfig) Request {
	if r.NumPapers == 0 {
		r.NumPapers = cfg.NumPapers
	}
	if r.NumIdeas == 0 {
		r.NumIdeas = cfg.NumIdeas
	}
	if r.WordLimit == 0 {
		r.WordLimit = cfg.WordLimit
	}
	if r.AnalysisPrompt == "" {
		r.AnalysisPrompt = cfg.AnalysisPrompt
	}
	if r.Sort == "" {
		r.Sort = search.SortRelevance
	}
	return r
}

// Run searches for the topic and asks the model for suggestions. The topic
// is passed to the search verbatim. A search failure is returned without
// calling the model. When the search finds nothing the report carries
// NoPapersNote and the model is not called.
//
// With FullText set, each paper's text is analyzed first and the extracted
// limitations are added to the suggestion prompt. A paper whose text or
// analysis cannot be obtained is skipped with a reason, except that a
// rejected model credential aborts the run.
func (a *Analyzer) Run(ctx context.Context, req Request) (*types.Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req = req.withDefaults(a.Config)

	report := &types.Report{
		RunID:     uuid.NewString(),
		Topic:     req.Topic,
		Sort:      req.Sort,
		CreatedAt: time.Now().UTC(),
	}
	log := a.Log.With().Str("run_id", report.RunID).Logger()
	log.Info().Str("topic", req.Topic).Int("num_papers", req.NumPapers).Bool("full_text", req.FullText).Msg("starting analysis")

	papers, err := a.Search.Search(ctx, search.Query{Topic: req.Topic, Limit: req.NumPapers, Sort: req.Sort})
	if err != nil {
		log.Error().Err(err).Msg("search failed")
		return nil, fmt.Errorf("searching papers: %w", err)
	}
	if req.NumPapers > 0 && len(papers) > req.NumPapers {
		papers = papers[:req.NumPapers]
	}
	report.Papers = papers

	if len(papers) == 0 {
		log.Info().Msg("no papers found")
		report.Notes = append(report.Notes, NoPapersNote)
		return report, nil
	}

	if req.FullText {
		analyses, err := a.analyzeFullText(ctx, papers, req.AnalysisPrompt, log)
		if err != nil {
			return nil, err
		}
		report.Analyses = analyses
		if len(report.Limitations()) == 0 {
			report.Notes = append(report.Notes, "Could not extract limitations or scope from the analyzed papers.")
		}
	}

	prompt, err := llm.SuggestionPrompt(llm.SuggestionInput{
		Topic:       req.Topic,
		Papers:      papers,
		Limitations: report.Limitations(),
		NumIdeas:    req.NumIdeas,
		WordLimit:   req.WordLimit,
	})
	if err != nil {
		return nil, err
	}

	suggestion, err := a.LLM.Generate(ctx, prompt)
	if err != nil {
		log.Error().Err(err).Msg("suggestion failed")
		return nil, fmt.Errorf("generating suggestions: %w", err)
	}
	report.Suggestion = suggestion
	report.Ideas = toIdeas(llm.SplitIdeas(llm.IdeasSection(suggestion)), 0)
	metrics.IdeasGenerated.Add(float64(len(report.Ideas)))

	log.Info().Int("papers", len(papers)).Int("ideas", len(report.Ideas)).Msg("analysis complete")
	return report, nil
}

func (a *Analyzer) analyzeFullText(ctx context.Context, papers []types.PaperRecord, instructions string, log zerolog.Logger) ([]types.PaperAnalysis, error) {
	analyses := make([]types.PaperAnalysis, 0, len(papers))
	for i, p := range papers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pa := types.PaperAnalysis{Paper: p}
		plog := log.With().Int("paper", i+1).Str("title", p.DisplayTitle()).Logger()

		text, err := a.paperText(ctx, p)
		if err != nil {
			pa.Skipped = skipReason(err)
			plog.Warn().Err(err).Msg("skipping paper")
			analyses = append(analyses, pa)
			continue
		}

		analysis, err := a.LLM.Generate(ctx, llm.AnalysisPrompt(instructions, text))
		if err != nil {
			if apperr.IsAuth(err) || ctx.Err() != nil {
				return nil, fmt.Errorf("analyzing %q: %w", p.DisplayTitle(), err)
			}
			pa.Skipped = fmt.Sprintf("analysis failed: %v", err)
			plog.Warn().Err(err).Msg("paper analysis failed")
			analyses = append(analyses, pa)
			continue
		}

		pa.Analysis = analysis
		pa.Limitations = llm.ExtractLimitations(analysis)
		plog.Debug().Bool("limitations", pa.Limitations != "").Msg("paper analyzed")
		analyses = append(analyses, pa)
	}
	return analyses, nil
}

func (a *Analyzer) paperText(ctx context.Context, p types.PaperRecord) (string, error) {
	if a.Text == nil {
		if strings.TrimSpace(p.FullText) == "" {
			return "", fulltext.ErrNoFullText
		}
		return p.FullText, nil
	}
	return a.Text.Text(ctx, p)
}

func skipReason(err error) string {
	if errors.Is(err, fulltext.ErrNoFullText) {
		return "Full text not available for analysis"
	}
	return fmt.Sprintf("Full text could not be retrieved: %v", err)
}

// AnalyzePapers searches for the topic and analyzes each paper from its
// title and abstract. Model failures other than a rejected credential are
// recorded on the paper and do not stop the loop.
func (a *Analyzer) AnalyzePapers(ctx context.Context, topic string, numPapers int) ([]types.PaperAnalysis, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, ErrEmptyTopic
	}
	if numPapers <= 0 {
		numPapers = 3
	}

	papers, err := a.Search.Search(ctx, search.Query{Topic: topic, Limit: numPapers})
	if err != nil {
		return nil, fmt.Errorf("searching papers: %w", err)
	}

	out := make([]types.PaperAnalysis, 0, len(papers))
	for _, p := range papers {
		pa := types.PaperAnalysis{Paper: p}
		prompt, err := llm.PaperPrompt(p)
		if err != nil {
			return nil, err
		}
		text, err := a.LLM.Generate(ctx, prompt)
		switch {
		case err != nil && (apperr.IsAuth(err) || ctx.Err() != nil):
			return nil, fmt.Errorf("analyzing %q: %w", p.DisplayTitle(), err)
		case err != nil:
			a.Log.Warn().Err(err).Str("title", p.DisplayTitle()).Msg("paper analysis failed")
			pa.Skipped = fmt.Sprintf("analysis failed: %v", err)
		default:
			pa.Analysis, pa.Limitations = llm.ParseAnalysis(text)
		}
		out = append(out, pa)
	}
	return out, nil
}

// GenerateIdeas asks for numIdeas ideas addressing the given limitations and
// returns them split into items, along with the raw response.
func (a *Analyzer) GenerateIdeas(ctx context.Context, topic, limitations string, numIdeas, wordLimit int) ([]types.Idea, string, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, "", ErrEmptyTopic
	}
	if wordLimit == 0 {
		wordLimit = a.Config.WordLimit
	}
	if wordLimit != 0 {
		if err := llm.ValidateWordLimit(wordLimit); err != nil {
			return nil, "", err
		}
	}
	if numIdeas <= 0 {
		numIdeas = a.Config.NumIdeas
	}

	prompt, err := llm.IdeasPrompt(topic, limitations, numIdeas, wordLimit)
	if err != nil {
		return nil, "", err
	}
	text, err := a.LLM.Generate(ctx, prompt)
	if err != nil {
		return nil, "", fmt.Errorf("generating ideas: %w", err)
	}
	ideas := toIdeas(llm.SplitIdeas(text), numIdeas)
	metrics.IdeasGenerated.Add(float64(len(ideas)))
	return ideas, text, nil
}

// Elaborate asks for a detailed treatment of one idea.
func (a *Analyzer) Elaborate(ctx context.Context, topic, idea string, wordLimit int) (string, error) {
	if strings.TrimSpace(idea) == "" {
		return "", errors.New("idea cannot be empty")
	}
	if wordLimit <= 0 {
		wordLimit = a.Config.ElaborateWordLimit
	}
	prompt, err := llm.ElaboratePrompt(topic, idea, wordLimit)
	if err != nil {
		return "", err
	}
	text, err := a.LLM.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("elaborating idea: %w", err)
	}
	return text, nil
}

// Close releases the model client when it holds a connection.
func (a *Analyzer) Close() error {
	if c, ok := a.LLM.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func toIdeas(items []string, max int) []types.Idea {
	if max > 0 && len(items) > max {
		items = items[:max]
	}
	ideas := make([]types.Idea, 0, len(items))
	for _, s := range items {
		ideas = append(ideas, types.Idea{Summary: s})
	}
	return ideas
}
