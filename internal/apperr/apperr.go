// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package apperr defines the three failure kinds gapfinder reports to users:
// ConfigError for missing or invalid credentials at startup, AuthError for a
// credential that is missing at call time or rejected by an external API, and
// RequestError for network and API failures. Callers match them with errors.As.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind names a failure category. It is used in log fields and HTTP error bodies.
type Kind string

const (
	KindConfig  Kind = "CONFIG_ERROR"
	KindAuth    Kind = "AUTH_ERROR"
	KindRequest Kind = "REQUEST_ERROR"
)

// ConfigError reports missing or invalid configuration found at startup.
type ConfigError struct {
	// Missing lists the environment variable names of absent credentials.
	Missing []string

	// Err is an underlying cause such as an unreadable config file.
	Err error
}

func (e *ConfigError) Error() string {
	switch {
	case len(e.Missing) > 0:
		return fmt.Sprintf("missing required credentials: %s (set them in the environment, .env, the config file, or .secrets/)",
			strings.Join(e.Missing, ", "))
	case e.Err != nil:
		return fmt.Sprintf("invalid configuration: %v", e.Err)
	default:
		return "invalid configuration"
	}
}

func (e *ConfigError) Unwrap() error { return e.Err }

// AuthError reports a credential that was missing when a client was called
// or that the external API rejected.
type AuthError struct {
	// Service is the external API ("core" or "gemini").
	Service string

	// StatusCode is the HTTP status returned by the API, 0 when the key was
	// missing locally or the status is unknown.
	StatusCode int

	Err error
}

func (e *AuthError) Error() string {
	if e.StatusCode == 0 && e.Err == nil {
		return fmt.Sprintf("%s: API key is missing", e.Service)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: API key rejected (HTTP %d)", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s: API key rejected: %v", e.Service, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// RequestError reports a network failure or a non-success API response.
type RequestError struct {
	Service string

	// StatusCode is the HTTP status, 0 for transport or decoding failures.
	StatusCode int

	// Body is a short excerpt of the response body, when there was one.
	Body string

	Err error
}

func (e *RequestError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s request failed", e.Service)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.StatusCode)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.Body != "" {
		fmt.Fprintf(&b, ": %s", e.Body)
	}
	return b.String()
}

func (e *RequestError) Unwrap() error { return e.Err }

// KindOf returns the failure kind of err, or "" when err is not one of the
// three typed errors.
func KindOf(err error) Kind {
	var cfgErr *ConfigError
	var authErr *AuthError
	var reqErr *RequestError
	switch {
	case errors.As(err, &cfgErr):
		return KindConfig
	case errors.As(err, &authErr):
		return KindAuth
	case errors.As(err, &reqErr):
		return KindRequest
	}
	return ""
}

// IsAuth reports whether err is or wraps an AuthError.
func IsAuth(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

const maxBodyExcerpt = 300

// Excerpt trims a response body for inclusion in a RequestError.
func Excerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxBodyExcerpt {
		return s[:maxBodyExcerpt] + "..."
	}
	return s
}
