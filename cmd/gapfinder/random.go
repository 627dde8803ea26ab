// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/gapfinder/internal/analyze"
	"github.com/pdiddy/gapfinder/internal/config"
)

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Suggest research gaps from trending papers",
	Long: `Search CORE for recent papers in trending fields and ask Gemini which gaps
they leave open. When either API is unavailable or returns nothing, a sample
of built-in ideas is printed instead.`,
	RunE: runRandom,
}

func init() {
	randomCmd.Flags().Int("count", analyze.DefaultRandomCount, "number of ideas")
	randomCmd.Flags().Bool("plain", false, "print plain text without styling")
	rootCmd.AddCommand(randomCmd)
}

func runRandom(cmd *cobra.Command, args []string) error {
	count, _ := cmd.Flags().GetInt("count")
	plain, _ := cmd.Flags().GetBool("plain")
	p := newPrinter(cmd.OutOrStdout(), plain)

	a := &analyze.Analyzer{Config: cfg.Analysis, Log: log}
	if err := config.Require(cfg.Credentials, true, true); err != nil {
		log.Warn().Err(err).Msg("credentials missing, using built-in ideas")
	} else {
		built, err := analyze.Bootstrap(cmd.Context(), cfg, newFactory(log), log)
		if err != nil {
			return err
		}
		defer built.Close()
		a = built
	}

	ideas, fallback := a.RandomIdeas(cmd.Context(), count)
	if fallback {
		p.note("Could not derive gaps from trending papers; showing built-in ideas.")
	}
	for i, idea := range ideas {
		fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, idea)
	}
	return nil
}
