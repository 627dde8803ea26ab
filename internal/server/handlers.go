// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/gapfinder/internal/analyze"
	"github.com/pdiddy/gapfinder/internal/apperr"
	"github.com/pdiddy/gapfinder/internal/llm"
)

// errInvalidRequest is the error type reported for malformed bodies and
// rejected parameters.
const errInvalidRequest = "INVALID_REQUEST"

type analyzeRequest struct {
	Topic          string `json:"topic"`
	NumPapers      int    `json:"num_papers"`
	NumIdeas       int    `json:"num_ideas"`
	WordLimit      int    `json:"word_limit"`
	Sort           string `json:"sort"`
	AnalysisPrompt string `json:"analysis_prompt"`
	FullText       *bool  `json:"full_text"`
}

type analyzePapersRequest struct {
	Topic     string `json:"topic"`
	NumPapers int    `json:"num_papers"`
}

type generateIdeasRequest struct {
	Topic       string `json:"topic"`
	Limitations string `json:"limitations"`
	NumIdeas    int    `json:"num_ideas"`
	WordLimit   int    `json:"word_limit"`
}

type elaborateRequest struct {
	Topic     string `json:"topic"`
	IdeaText  string `json:"idea_text"`
	WordLimit int    `json:"word_limit"`
}

type randomIdeasRequest struct {
	Count int `json:"count"`
}

type paperResponse struct {
	Title    string   `json:"title"`
	Link     string   `json:"link"`
	Analysis string   `json:"analysis"`
	LimScope string   `json:"lim_scope"`
	Keywords []string `json:"keywords"`
}

// handleAnalyze runs the full pipeline and returns the rendered report.
// Full-text analysis is on unless the body sets full_text to false.
func (s *Server) handleAnalyze(c *gin.Context) {
	var body analyzeRequest
	if !bindJSON(c, &body) {
		return
	}

	req := analyze.Request{
		Topic:          body.Topic,
		Sort:           body.Sort,
		NumPapers:      body.NumPapers,
		NumIdeas:       body.NumIdeas,
		WordLimit:      body.WordLimit,
		FullText:       body.FullText == nil || *body.FullText,
		AnalysisPrompt: body.AnalysisPrompt,
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err.Error())
		return
	}

	report, err := s.svc.Run(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": analyze.Markdown(report), "report": report})
}

func (s *Server) handleAnalyzePapers(c *gin.Context) {
	var body analyzePapersRequest
	if !bindJSON(c, &body) {
		return
	}
	if strings.TrimSpace(body.Topic) == "" {
		badRequest(c, analyze.ErrEmptyTopic.Error())
		return
	}
	if body.NumPapers < 0 {
		badRequest(c, "num_papers must not be negative")
		return
	}

	analyses, err := s.svc.AnalyzePapers(c.Request.Context(), body.Topic, body.NumPapers)
	if err != nil {
		s.fail(c, err)
		return
	}

	papers := make([]paperResponse, 0, len(analyses))
	for _, a := range analyses {
		keywords := a.Paper.Keywords
		if keywords == nil {
			keywords = []string{}
		}
		analysis := a.Analysis
		if a.Skipped != "" {
			analysis = "AI analysis unavailable."
		}
		papers = append(papers, paperResponse{
			Title:    a.Paper.Title,
			Link:     a.Paper.Link(),
			Analysis: analysis,
			LimScope: a.Limitations,
			Keywords: keywords,
		})
	}
	c.JSON(http.StatusOK, gin.H{"papers": papers})
}

func (s *Server) handleGenerateIdeas(c *gin.Context) {
	var body generateIdeasRequest
	if !bindJSON(c, &body) {
		return
	}
	if strings.TrimSpace(body.Topic) == "" {
		badRequest(c, analyze.ErrEmptyTopic.Error())
		return
	}
	if body.NumIdeas == 0 {
		body.NumIdeas = 3
	}
	if body.WordLimit == 0 {
		body.WordLimit = 150
	}
	if err := llm.ValidateWordLimit(body.WordLimit); err != nil {
		badRequest(c, err.Error())
		return
	}

	ideas, _, err := s.svc.GenerateIdeas(c.Request.Context(), body.Topic, body.Limitations, body.NumIdeas, body.WordLimit)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ideas": ideas})
}

func (s *Server) handleElaborate(c *gin.Context) {
	var body elaborateRequest
	if !bindJSON(c, &body) {
		return
	}
	if strings.TrimSpace(body.IdeaText) == "" {
		badRequest(c, "idea_text cannot be empty")
		return
	}
	if body.WordLimit <= 0 {
		body.WordLimit = 500
	}

	text, err := s.svc.Elaborate(c.Request.Context(), body.Topic, body.IdeaText, body.WordLimit)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": text})
}

// handleRandomIdeas accepts an empty body.
func (s *Server) handleRandomIdeas(c *gin.Context) {
	var body randomIdeasRequest
	if c.Request.ContentLength != 0 {
		if !bindJSON(c, &body) {
			return
		}
	}
	ideas, fallback := s.svc.RandomIdeas(c.Request.Context(), body.Count)
	c.JSON(http.StatusOK, gin.H{"ideas": ideas, "fallback": fallback})
}

func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		badRequest(c, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func badRequest(c *gin.Context, msg string) {
	writeError(c, http.StatusBadRequest, errInvalidRequest, msg)
}

// fail maps a pipeline error to a response. ConfigError is a server-side
// problem (500); AuthError and RequestError mean an upstream API failed (502).
func (s *Server) fail(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := http.StatusInternalServerError
	switch {
	case kind == apperr.KindAuth || kind == apperr.KindRequest:
		status = http.StatusBadGateway
	case errors.Is(err, analyze.ErrEmptyTopic):
		status = http.StatusBadRequest
	}

	typ := string(kind)
	if typ == "" {
		typ = "INTERNAL_ERROR"
	}
	s.log.Error().Err(err).Str("type", typ).Str("path", c.Request.URL.Path).Msg("request failed")
	writeError(c, status, typ, err.Error())
}

func writeError(c *gin.Context, status int, typ, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"type": typ, "message": msg}})
}
