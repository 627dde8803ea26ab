// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads API credentials from a directory holding one
// plain-text file per key. Only the first line of each file is used.
package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/gapfinder/pkg/types"
)

// Key file names. google-api-key is read only when gemini-api-key is absent.
const (
	CoreAPIKey   = "core-api-key"
	GeminiAPIKey = "gemini-api-key"
	GoogleAPIKey = "google-api-key"
)

// Load returns the credentials found in dir. A missing directory or key file
// leaves the field empty. Files that cannot be read are logged and skipped,
// as are files readable by group or others, which are logged but still used.
func Load(dir string, log zerolog.Logger) (types.Credentials, error) {
	var creds types.Credentials

	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return creds, nil
	case err != nil:
		return creds, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	case !info.IsDir():
		return creds, fmt.Errorf("secrets path %s is not a directory", dir)
	}

	creds.CoreAPIKey = readKey(dir, CoreAPIKey, log)
	creds.GeminiAPIKey = readKey(dir, GeminiAPIKey, log)
	if creds.GeminiAPIKey == "" {
		creds.GeminiAPIKey = readKey(dir, GoogleAPIKey, log)
	}
	return creds, nil
}

func readKey(dir, name string, log zerolog.Logger) string {
	path := filepath.Join(dir, name)
	info, err := os.Stat(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Str("secret", name).Msg("could not stat secret")
		}
		return ""
	}
	if info.IsDir() {
		return ""
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		log.Warn().Str("secret", name).Str("mode", perm.String()).Msg("secret file is readable by other users")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("secret", name).Msg("could not read secret")
		return ""
	}
	first, _, _ := strings.Cut(string(data), "\n")
	return strings.TrimSpace(first)
}
