// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API credentials from a directory of plain-text
// files. Each file is one secret: the filename is the key name and the
// trimmed file contents are the value.
//
// Supported key files: gemini-api-key, youtube-api-key,
// youtube-oauth-token.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store holds loaded secrets keyed by filename.
type Store map[string]string

// Get returns the named secret, falling back to the environment
// variable envVar when the file was absent.
func (s Store) Get(name, envVar string) string {
	if v, ok := s[name]; ok {
		return v
	}
	return os.Getenv(envVar)
}

// Load reads every file in dir into a Store. A missing directory is not
// an error; Load returns an empty Store. Unreadable files produce a
// warning on stderr but do not abort, and empty files and dotfiles are
// skipped.
func Load(dir string) (Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Store{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	store := make(Store)
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
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			store[name] = value
		}
	}

	return store, nil
}
