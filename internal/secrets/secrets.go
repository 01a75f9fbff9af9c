// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads provider credentials from a directory of plain-text
// files. Each file holds one secret: the filename is the key name and the
// trimmed file contents are the value.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Key files recognised by the pinmap binary.
const (
	YelpClientID     = "yelp-client-id"
	YelpClientSecret = "yelp-client-secret"
	GoogleMapsAPIKey = "google-maps-api-key"
)

// Store is the set of secrets read from disk.
type Store map[string]string

// Get returns the secret named key, or "" when it was not loaded.
func (s Store) Get(key string) string {
	return s[key]
}

// Or returns value when it is non-blank and the secret named key otherwise.
// Explicit configuration always wins over a secret file.
func (s Store) Or(key, value string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return s[key]
}

// Load reads all files in dir. A missing directory is not an error; Load
// returns an empty Store. Unreadable files are logged and skipped.
func Load(dir string, log *zap.Logger) (Store, error) {
	if log == nil {
		log = zap.NewNop()
	}

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
			log.Warn("could not read secret", zap.String("name", name), zap.Error(err))
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			store[name] = value
		}
	}

	return store, nil
}
