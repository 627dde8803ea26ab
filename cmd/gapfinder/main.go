// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the gapfinder CLI. With no subcommand
// it prompts for a research topic, searches CORE, asks Gemini for
// suggestions, and prints the result.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pdiddy/gapfinder/internal/analyze"
	"github.com/pdiddy/gapfinder/internal/config"
	"github.com/pdiddy/gapfinder/internal/logging"
	"github.com/pdiddy/gapfinder/internal/metrics"
	"github.com/pdiddy/gapfinder/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// Loaded by the root command before any subcommand runs.
var (
	cfg *types.Config
	log = zerolog.Nop()
)

// newFactory builds the external clients.
var newFactory = func(log zerolog.Logger) analyze.Factory {
	return analyze.DefaultFactory{Log: log}
}

// rootCmd is the base command for the gapfinder CLI.
var rootCmd = &cobra.Command{
	Use:   "gapfinder",
	Short: "Find research gaps and new ideas for a topic",
	Long: `gapfinder takes a research topic, searches the CORE academic-paper API for
relevant papers, and asks the Gemini API for a summary, idea-bridging
suggestions, and research gaps.

Run without a subcommand to be prompted for a topic. Credentials are read
from GEMINI_API_KEY and CORE_API_KEY (environment, .env, config file, or
.secrets/).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		if level == "" {
			level = os.Getenv(config.EnvPrefix + "_LOG_LEVEL")
		}
		jsonLogs, _ := cmd.Flags().GetBool("log-json")
		l, err := logging.New(cmd.ErrOrStderr(), level, jsonLogs)
		if err != nil {
			return err
		}
		log = l

		opts := config.DefaultOptions(log)
		opts.ConfigFile, _ = cmd.Flags().GetString("config")
		c, err := config.Load(opts)
		if err != nil {
			return err
		}
		cfg = c
		metrics.Init(version)
		return nil
	},
	RunE: runAnalyze,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./gapfinder.yaml or ~/.config/gapfinder/gapfinder.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (default warn)")
	rootCmd.PersistentFlags().Bool("log-json", false, "write logs as JSON")

	addAnalyzeFlags(rootCmd)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Stderr)
	cancel()
	os.Exit(code)
}

// run executes the command tree and reports a failure once on stderr.
func run(ctx context.Context, stderr io.Writer) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		log.Debug().Err(err).Msg("command failed")
		return 1
	}
	return 0
}
