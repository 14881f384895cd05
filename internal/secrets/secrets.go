// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves the scholarly graph API key. Keys may come from
// the environment, the loaded configuration, or a directory of plain-text
// files where each file name is the key name and the trimmed contents are
// the value.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/citehist/pkg/types"
)

const (
	// DefaultDir is the secrets directory, relative to the working directory.
	DefaultDir = ".secrets"

	// APIKeyFile is the file in the secrets directory holding the API key.
	APIKeyFile = "semantic-scholar-api-key"

	// APIKeyEnv is checked before any other source.
	APIKeyEnv = "SEMANTIC_API_KEY"
)

// Source names where a resolved key came from.
type Source string

const (
	SourceEnv    Source = "env"
	SourceConfig Source = "config"
	SourceFile   Source = "file"
)

// Resolver looks up the API key once at startup.
type Resolver struct {
	// Getenv reads the environment; nil uses os.Getenv.
	Getenv func(string) string

	// Dir is the secrets directory; empty uses DefaultDir.
	Dir string

	Log zerolog.Logger
}

// Resolve returns the API key from, in order, the SEMANTIC_API_KEY
// environment variable, configured (the api.key setting, which also covers
// CITEHIST_API_KEY), and the key file in the secrets directory. It fails
// with ErrMissingCredential when none holds a non-blank value.
func (r Resolver) Resolve(configured string) (string, Source, error) {
	getenv := r.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := strings.TrimSpace(getenv(APIKeyEnv)); v != "" {
		return v, SourceEnv, nil
	}
	if v := strings.TrimSpace(configured); v != "" {
		return v, SourceConfig, nil
	}

	dir := r.Dir
	if dir == "" {
		dir = DefaultDir
	}
	keys, err := Load(dir, r.Log)
	if err != nil {
		return "", "", err
	}
	if v := keys[APIKeyFile]; v != "" {
		return v, SourceFile, nil
	}
	return "", "", fmt.Errorf("%w: set %s, CITEHIST_API_KEY, api.key, or %s",
		types.ErrMissingCredential, APIKeyEnv, filepath.Join(dir, APIKeyFile))
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged as warnings but do not abort.
func Load(dir string, log zerolog.Logger) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn().Err(err).Str("secret", name).Msg("could not read secret")
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Redact masks a key for display, keeping the last four characters of keys
// long enough that doing so reveals little.
func Redact(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}
