// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/pdiddy/gapfinder/internal/analyze"
	"github.com/pdiddy/gapfinder/internal/apperr"
	"github.com/pdiddy/gapfinder/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve the analysis pipeline over HTTP. Endpoints: POST /analyze,
/analyze_papers, /generate_ideas, /elaborate, /random_ideas (each also under
/api/), GET /health and GET /metrics.

Missing credentials do not stop the server: pipeline endpoints answer with a
configuration error and /random_ideas serves built-in ideas.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		var svc server.Service
		a, err := analyze.Bootstrap(cmd.Context(), cfg, newFactory(log), log)
		var cfgErr *apperr.ConfigError
		switch {
		case errors.As(err, &cfgErr):
			log.Warn().Err(err).Msg("starting without credentials")
			svc = server.Unconfigured{Err: err}
		case err != nil:
			return err
		default:
			defer a.Close()
			svc = a
		}

		return server.New(svc, cfg.Server, log).Run(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config, :8000)")
	rootCmd.AddCommand(serveCmd)
}
