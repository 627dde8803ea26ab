// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm sends prompts to the Gemini generative-language API and parses
// the free-text responses into limitations, ideas, and gap lists.
package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"github.com/rs/zerolog"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"

	"github.com/pdiddy/gapfinder/internal/apperr"
	"github.com/pdiddy/gapfinder/internal/metrics"
	"github.com/pdiddy/gapfinder/pkg/types"
)

const (
	geminiService = "gemini"

	// DefaultModel is used when the configuration names no model.
	DefaultModel = "gemini-1.5-flash"
)

// Generator turns a prompt into free text. GeminiClient is the production
// implementation; tests substitute their own.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// contentGenerator is the part of *genai.GenerativeModel the client uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiClient calls a Gemini model through the genai SDK.
type GeminiClient struct {
	model  contentGenerator
	closer io.Closer
	name   string
	log    zerolog.Logger
}

// NewGeminiClient creates a client for cfg.Model. An empty key yields an
// *apperr.AuthError without contacting the API.
func NewGeminiClient(ctx context.Context, apiKey string, cfg types.AIConfig, log zerolog.Logger) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, &apperr.AuthError{Service: geminiService}
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, &apperr.RequestError{Service: geminiService, Err: fmt.Errorf("creating Gemini client: %w", err)}
	}

	name := cfg.Model
	if name == "" {
		name = DefaultModel
	}
	model := client.GenerativeModel(name)
	if cfg.Temperature > 0 {
		model.SetTemperature(cfg.Temperature)
	}
	if cfg.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(cfg.MaxOutputTokens)
	}

	return &GeminiClient{model: model, closer: client, name: name, log: log}, nil
}

// Model returns the model identifier.
func (c *GeminiClient) Model() string { return c.name }

// Close releases the underlying connection.
func (c *GeminiClient) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

// Generate sends prompt to the model and returns the text of the first
// candidate. Rejected credentials yield an *apperr.AuthError; every other
// failure, including blocked and empty responses, an *apperr.RequestError.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", errors.New("prompt cannot be empty")
	}

	c.log.Debug().Str("model", c.name).Int("prompt_chars", len(prompt)).Msg("calling Gemini")
	start := time.Now()

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		cerr := classifyError(err)
		outcome := metrics.OutcomeRequest
		if apperr.IsAuth(cerr) {
			outcome = metrics.OutcomeAuth
		}
		metrics.ObserveExternal(geminiService, outcome, start)
		return "", cerr
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		metrics.ObserveExternal(geminiService, metrics.OutcomeRequest, start)
		return "", &apperr.RequestError{Service: geminiService, Err: fmt.Errorf("empty response%s", finishReason(resp))}
	}
	metrics.ObserveExternal(geminiService, metrics.OutcomeOK, start)
	c.log.Debug().Str("model", c.name).Int("response_chars", len(text)).Dur("elapsed", time.Since(start)).Msg("Gemini response")
	return text, nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}

func finishReason(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ": no candidates"
	}
	if fr := resp.Candidates[0].FinishReason; fr != genai.FinishReasonUnspecified {
		return fmt.Sprintf(" (finish reason %s)", fr)
	}
	return ""
}

// classifyError maps an SDK error to AuthError when the API rejected the
// key and to RequestError otherwise. Gemini reports an invalid key as HTTP
// 400 with reason API_KEY_INVALID rather than 401.
func classifyError(err error) error {
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return &apperr.RequestError{Service: geminiService, Err: err}
	}

	status := 0
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		if code := apiErr.HTTPCode(); code > 0 {
			status = code
		}
		if apiErr.Reason() == "API_KEY_INVALID" || isAuthStatus(status) {
			return &apperr.AuthError{Service: geminiService, StatusCode: status, Err: err}
		}
		switch apiErr.GRPCStatus().Code() {
		case codes.Unauthenticated, codes.PermissionDenied:
			return &apperr.AuthError{Service: geminiService, StatusCode: status, Err: err}
		}
	}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		status = gErr.Code
		if isAuthStatus(status) {
			return &apperr.AuthError{Service: geminiService, StatusCode: status, Err: err}
		}
	}

	if strings.Contains(err.Error(), "API key not valid") {
		return &apperr.AuthError{Service: geminiService, StatusCode: status, Err: err}
	}
	return &apperr.RequestError{Service: geminiService, StatusCode: status, Err: err}
}

func isAuthStatus(code int) bool {
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}
