// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package apperr

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"config missing", &ConfigError{Missing: []string{"GEMINI_API_KEY", "CORE_API_KEY"}}, "missing required credentials: GEMINI_API_KEY, CORE_API_KEY"},
		{"config cause", &ConfigError{Err: errors.New("bad yaml")}, "invalid configuration: bad yaml"},
		{"auth missing", &AuthError{Service: "core"}, "core: API key is missing"},
		{"auth rejected", &AuthError{Service: "core", StatusCode: 401}, "core: API key rejected (HTTP 401)"},
		{"auth rejected cause", &AuthError{Service: "gemini", Err: errors.New("API_KEY_INVALID")}, "gemini: API key rejected: API_KEY_INVALID"},
		{"request status", &RequestError{Service: "core", StatusCode: 500, Body: "oops"}, "core request failed (HTTP 500): oops"},
		{"request transport", &RequestError{Service: "gemini", Err: errors.New("dial tcp")}, "gemini request failed: dial tcp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, tt.err.Error(), tt.want)
		})
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindConfig, KindOf(&ConfigError{}))
	assert.Equal(t, KindAuth, KindOf(fmt.Errorf("searching: %w", &AuthError{Service: "core"})))
	assert.Equal(t, KindRequest, KindOf(fmt.Errorf("wrapped: %w", &RequestError{Service: "core"})))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
}

func TestIsAuth(t *testing.T) {
	assert.True(t, IsAuth(fmt.Errorf("x: %w", &AuthError{Service: "gemini"})))
	assert.False(t, IsAuth(&RequestError{Service: "gemini"}))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := &RequestError{Service: "core", Err: cause}
	assert.ErrorIs(t, err, cause)
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", Excerpt([]byte("  short \n")))
	long := strings.Repeat("a", 500)
	got := Excerpt([]byte(long))
	assert.Len(t, got, maxBodyExcerpt+3)
	assert.True(t, strings.HasSuffix(got, "..."))
}
