// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the analysis pipeline over HTTP with gin. Each
// route has a twin under /api for front ends that proxy that prefix.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/pdiddy/gapfinder/internal/analyze"
	"github.com/pdiddy/gapfinder/internal/metrics"
	"github.com/pdiddy/gapfinder/pkg/types"
)

const shutdownTimeout = 30 * time.Second

// Service is the pipeline the handlers call. *analyze.Analyzer implements it.
type Service interface {
	Run(ctx context.Context, req analyze.Request) (*types.Report, error)
	AnalyzePapers(ctx context.Context, topic string, numPapers int) ([]types.PaperAnalysis, error)
	GenerateIdeas(ctx context.Context, topic, limitations string, numIdeas, wordLimit int) ([]types.Idea, string, error)
	Elaborate(ctx context.Context, topic, idea string, wordLimit int) (string, error)
	RandomIdeas(ctx context.Context, count int) ([]string, bool)
}

// Server serves the HTTP API.
type Server struct {
	svc    Service
	cfg    types.ServerConfig
	log    zerolog.Logger
	engine *gin.Engine
}

// New builds the router. An empty AllowedOrigins list allows all origins.
func New(svc Service, cfg types.ServerConfig, log zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{svc: svc, cfg: cfg, log: log, engine: gin.New()}

	r := s.engine
	r.Use(gin.Recovery(), s.requestLogger(), prometheusMiddleware())
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "gapfinder"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	for _, prefix := range []string{"", "/api"} {
		g := r.Group(prefix)
		g.POST("/analyze", s.handleAnalyze)
		g.POST("/analyze_papers", s.handleAnalyzePapers)
		g.POST("/generate_ideas", s.handleGenerateIdeas)
		g.POST("/elaborate", s.handleElaborate)
		g.POST("/random_ideas", s.handleRandomIdeas)
	}
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler { return s.engine }

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := s.cfg.Addr
	if addr == "" {
		addr = ":8000"
	}
	srv := &http.Server{Addr: addr, Handler: s.engine, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("gapfinder API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down gapfinder API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	cfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	return cfg
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

// prometheusMiddleware records request counts and durations labelled by
// route pattern.
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
