// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/gapfinder/internal/analyze"
	"github.com/pdiddy/gapfinder/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [topic]",
	Short: "Search CORE for a topic and suggest research ideas",
	Long: `Search the CORE API for papers on a research topic, then ask Gemini for a
summary, idea-bridging suggestions, and research gaps.

The topic comes from --topic, the positional arguments, or an interactive
prompt. With --full-text, each paper's full text is analyzed first and the
extracted limitations are fed into the suggestion prompt.`,
	RunE: runAnalyze,
}

func init() {
	addAnalyzeFlags(analyzeCmd)
	rootCmd.AddCommand(analyzeCmd)
}

func addAnalyzeFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("topic", "t", "", "research topic (prompted for when empty)")
	cmd.Flags().IntP("num-papers", "n", 0, "number of papers to fetch (default from config)")
	cmd.Flags().IntP("num-ideas", "i", 0, "number of research ideas to request (default from config)")
	cmd.Flags().IntP("word-limit", "w", 0, "word limit per idea, 101-250 (default from config)")
	cmd.Flags().StringP("sort", "s", "", "CORE sort order: relevance, views, popularity")
	cmd.Flags().Bool("full-text", false, "analyze each paper's full text before suggesting ideas")
	cmd.Flags().String("analysis-prompt", "", "custom per-paper analysis instructions")
	cmd.Flags().StringP("output", "o", "", "also write the report to a .yaml or .json file")
	cmd.Flags().Bool("plain", false, "print plain text instead of rendered Markdown")
}

// analyzeRun is one invocation of the analysis pipeline.
type analyzeRun struct {
	Request analyze.Request
	Output  string
}

func analyzeRunFromFlags(cmd *cobra.Command, args []string, c *types.Config) analyzeRun {
	topic, _ := cmd.Flags().GetString("topic")
	if topic == "" && len(args) > 0 {
		topic = strings.Join(args, " ")
	}
	numPapers, _ := cmd.Flags().GetInt("num-papers")
	numIdeas, _ := cmd.Flags().GetInt("num-ideas")
	wordLimit, _ := cmd.Flags().GetInt("word-limit")
	sort, _ := cmd.Flags().GetString("sort")
	if sort == "" {
		sort = c.Core.Sort
	}
	fullText := c.Analysis.FullText
	if cmd.Flags().Changed("full-text") {
		fullText, _ = cmd.Flags().GetBool("full-text")
	}
	prompt, _ := cmd.Flags().GetString("analysis-prompt")
	output, _ := cmd.Flags().GetString("output")

	return analyzeRun{
		Request: analyze.Request{
			Topic:          topic,
			Sort:           sort,
			NumPapers:      numPapers,
			NumIdeas:       numIdeas,
			WordLimit:      wordLimit,
			FullText:       fullText,
			AnalysisPrompt: prompt,
		},
		Output: output,
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	run := analyzeRunFromFlags(cmd, args, cfg)
	plain, _ := cmd.Flags().GetBool("plain")
	p := newPrinter(cmd.OutOrStdout(), plain)

	a, err := analyze.Bootstrap(cmd.Context(), cfg, newFactory(log), log)
	if err != nil {
		return err
	}
	defer a.Close()

	p.banner()
	if run.Request.Topic == "" {
		topic, err := promptTopic(cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		run.Request.Topic = topic
	}
	return runPipeline(cmd.Context(), a, run, p)
}

// runPipeline runs one analysis and prints the report.
func runPipeline(ctx context.Context, a *analyze.Analyzer, run analyzeRun, p *printer) error {
	if err := run.Request.Validate(); err != nil {
		return err
	}
	if run.Output != "" {
		if _, err := analyze.ReportFormat(run.Output); err != nil {
			return err
		}
	}

	p.note(fmt.Sprintf("Searching for papers on %q...", run.Request.Topic))
	report, err := a.Run(ctx, run.Request)
	if err != nil {
		return err
	}
	p.markdown(analyze.Markdown(report))

	if run.Output != "" {
		if err := analyze.WriteReport(run.Output, report); err != nil {
			return err
		}
		p.note("Report written to " + run.Output)
	}
	return nil
}
