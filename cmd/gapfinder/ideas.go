// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/gapfinder/internal/analyze"
	"github.com/pdiddy/gapfinder/internal/config"
	"github.com/pdiddy/gapfinder/internal/llm"
	"github.com/pdiddy/gapfinder/pkg/types"
)

var ideasCmd = &cobra.Command{
	Use:   "ideas",
	Short: "Generate research ideas that address known limitations",
	Long: `Ask Gemini for numbered research ideas on a topic, optionally grounded in a
block of limitations and scope text (for example from a previous analysis).
Only GEMINI_API_KEY is required.`,
	RunE: runIdeas,
}

func init() {
	ideasCmd.Flags().String("topic", "", "research topic (required)")
	ideasCmd.Flags().String("limitations", "", "limitations and scope text")
	ideasCmd.Flags().String("limitations-file", "", "read limitations and scope text from a file")
	ideasCmd.Flags().Int("num-ideas", 0, "number of ideas (default from config)")
	ideasCmd.Flags().Int("word-limit", 0, "word limit per idea, 101-250 (default from config)")
	ideasCmd.Flags().Bool("plain", false, "print plain text instead of rendered Markdown")
	rootCmd.AddCommand(ideasCmd)
}

func runIdeas(cmd *cobra.Command, args []string) error {
	topic, _ := cmd.Flags().GetString("topic")
	limitations, _ := cmd.Flags().GetString("limitations")
	if path, _ := cmd.Flags().GetString("limitations-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading limitations file: %w", err)
		}
		limitations = string(data)
	}
	numIdeas, _ := cmd.Flags().GetInt("num-ideas")
	wordLimit, _ := cmd.Flags().GetInt("word-limit")
	plain, _ := cmd.Flags().GetBool("plain")

	if strings.TrimSpace(topic) == "" {
		return analyze.ErrEmptyTopic
	}
	a, err := llmAnalyzer(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	ideas, raw, err := a.GenerateIdeas(cmd.Context(), topic, limitations, numIdeas, wordLimit)
	if err != nil {
		return err
	}
	newPrinter(cmd.OutOrStdout(), plain).markdown(ideasMarkdown(ideas, raw))
	return nil
}

// llmAnalyzer builds an Analyzer that only talks to Gemini.
func llmAnalyzer(ctx context.Context) (*analyze.Analyzer, error) {
	if err := config.Require(cfg.Credentials, false, true); err != nil {
		return nil, err
	}
	gen, err := newFactory(log).NewGenerator(ctx, cfg.GeminiAPIKey, cfg.Gemini)
	if err != nil {
		return nil, err
	}
	return &analyze.Analyzer{LLM: gen, Config: cfg.Analysis, Log: log}, nil
}

func ideasMarkdown(ideas []types.Idea, raw string) string {
	if len(ideas) == 0 {
		return raw
	}
	var b strings.Builder
	b.WriteString(llm.IdeasHeading + "\n\n")
	for i, idea := range ideas {
		fmt.Fprintf(&b, "%d. %s\n\n", i+1, idea.Summary)
	}
	return b.String()
}
