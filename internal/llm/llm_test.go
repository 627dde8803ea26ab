// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/pdiddy/gapfinder/internal/apperr"
	"github.com/pdiddy/gapfinder/pkg/types"
)

type mockModel struct {
	mock.Mock
}

func (m *mockModel) GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	args := m.Called(ctx, parts)
	resp, _ := args.Get(0).(*genai.GenerateContentResponse)
	return resp, args.Error(1)
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: "model"}
	for _, p := range parts {
		content.Parts = append(content.Parts, genai.Text(p))
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: content, FinishReason: genai.FinishReasonStop}},
	}
}

func testClient(m *mockModel) *GeminiClient {
	return &GeminiClient{model: m, name: DefaultModel, log: zerolog.Nop()}
}

func TestNewGeminiClientMissingKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), "  ", types.AIConfig{}, zerolog.Nop())

	var authErr *apperr.AuthError
	require.True(t, errors.As(err, &authErr), "want AuthError, got %v", err)
	assert.Equal(t, "gemini", authErr.Service)
	assert.Equal(t, 0, authErr.StatusCode)
}

func TestGenerate(t *testing.T) {
	m := new(mockModel)
	m.On("GenerateContent", mock.Anything, []genai.Part{genai.Text("hello")}).
		Return(textResponse("Hello, ", "researcher."), nil).Once()

	got, err := testClient(m).Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "Hello, researcher.", got)
	m.AssertExpectations(t)
}

func TestGenerateEmptyPrompt(t *testing.T) {
	m := new(mockModel)
	_, err := testClient(m).Generate(context.Background(), " \n")
	assert.ErrorContains(t, err, "prompt cannot be empty")
	m.AssertNotCalled(t, "GenerateContent", mock.Anything, mock.Anything)
}

func TestGenerateEmptyResponse(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		want string
	}{
		{"no candidates", &genai.GenerateContentResponse{}, "no candidates"},
		{"blank text", textResponse("   "), "empty response"},
		{"max tokens", &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonMaxTokens}},
		}, "finish reason"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(mockModel)
			m.On("GenerateContent", mock.Anything, mock.Anything).Return(tt.resp, nil)

			_, err := testClient(m).Generate(context.Background(), "prompt")
			var reqErr *apperr.RequestError
			require.True(t, errors.As(err, &reqErr), "want RequestError, got %v", err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestGenerateErrorClassification(t *testing.T) {
	apiErr := func(err error) error {
		ae, ok := apierror.FromError(err)
		require.True(t, ok)
		return ae
	}

	tests := []struct {
		name       string
		err        error
		wantAuth   bool
		wantStatus int
	}{
		{"http 401", apiErr(&googleapi.Error{Code: 401, Message: "unauthorized"}), true, 401},
		{"http 403", apiErr(&googleapi.Error{Code: 403, Message: "forbidden"}), true, 403},
		{"http 500", apiErr(&googleapi.Error{Code: 500, Message: "internal"}), false, 500},
		{"http 429", apiErr(&googleapi.Error{Code: 429, Message: "quota"}), false, 429},
		{"grpc unauthenticated", apiErr(status.Error(codes.Unauthenticated, "bad key")), true, 0},
		{"grpc permission denied", apiErr(status.Error(codes.PermissionDenied, "denied")), true, 0},
		{"grpc unavailable", apiErr(status.Error(codes.Unavailable, "down")), false, 0},
		{"plain googleapi 401", fmt.Errorf("wrapped: %w", &googleapi.Error{Code: 401}), true, 401},
		{"invalid key message", errors.New("googleapi: Error 400: API key not valid. Please pass a valid API key."), true, 0},
		{"blocked", &genai.BlockedError{}, false, 0},
		{"network", errors.New("dial tcp: connection refused"), false, 0},
		{"deadline", context.DeadlineExceeded, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(mockModel)
			m.On("GenerateContent", mock.Anything, mock.Anything).Return(nil, tt.err)

			_, err := testClient(m).Generate(context.Background(), "prompt")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.err), "classified error should wrap the cause")

			if tt.wantAuth {
				var authErr *apperr.AuthError
				require.True(t, errors.As(err, &authErr), "want AuthError, got %T: %v", err, err)
				assert.Equal(t, tt.wantStatus, authErr.StatusCode)
				return
			}
			var reqErr *apperr.RequestError
			require.True(t, errors.As(err, &reqErr), "want RequestError, got %T: %v", err, err)
			assert.Equal(t, tt.wantStatus, reqErr.StatusCode)
		})
	}
}

func TestClose(t *testing.T) {
	assert.NoError(t, (&GeminiClient{}).Close())
}
