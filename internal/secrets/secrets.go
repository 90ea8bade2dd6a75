// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API credentials from the environment, falling back
// to a directory of plain-text files (one secret per file, value trimmed).
//
// Environment variables: SCOPUS_API_KEY (comma-separated key list),
// SCOPUS_INST_TOKEN, GEMINI_API_KEY. Fallback files: scopus-api-key,
// scopus-inst-token, gemini-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Credentials holds the API keys the pipeline may need. Zero values mean
// "not configured"; callers decide which keys are mandatory.
type Credentials struct {
	// ScopusKeys is the Elsevier key list; requests use the first one.
	ScopusKeys []string

	// ScopusInstToken grants access outside the institution's network.
	ScopusInstToken string

	// GeminiKey authenticates the classifier backend.
	GeminiKey string
}

// ScopusKey returns the key requests should use, or "" when none is set.
func (c Credentials) ScopusKey() string {
	if len(c.ScopusKeys) == 0 {
		return ""
	}
	return c.ScopusKeys[0]
}

// RequireScopus returns a fatal configuration error when no Scopus key is
// available. The message names both places a key can come from.
func (c Credentials) RequireScopus() error {
	if len(c.ScopusKeys) == 0 {
		return fmt.Errorf("missing Scopus API key: set SCOPUS_API_KEY or create .secrets/scopus-api-key")
	}
	return nil
}

// RequireGemini is the classifier's counterpart of RequireScopus.
func (c Credentials) RequireGemini() error {
	if c.GeminiKey == "" {
		return fmt.Errorf("missing Gemini API key: set GEMINI_API_KEY or create .secrets/gemini-api-key")
	}
	return nil
}

// Load resolves credentials from the environment first and then dir. A
// missing directory or missing files are not errors; unreadable files
// produce a warning on stderr but do not abort.
func Load(dir string) (Credentials, error) {
	files, err := readDir(dir)
	if err != nil {
		return Credentials{}, err
	}

	pick := func(envName, fileName string) string {
		if v := strings.TrimSpace(os.Getenv(envName)); v != "" {
			return v
		}
		return files[fileName]
	}

	c := Credentials{
		ScopusKeys:      splitKeys(pick("SCOPUS_API_KEY", "scopus-api-key")),
		ScopusInstToken: pick("SCOPUS_INST_TOKEN", "scopus-inst-token"),
		GeminiKey:       pick("GEMINI_API_KEY", "gemini-api-key"),
	}
	return c, nil
}

// splitKeys splits a comma-separated key list, dropping empty segments.
func splitKeys(raw string) []string {
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// readDir reads all plain files in dir into a name-to-value map.
func readDir(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	values := make(map[string]string)
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

		if value := strings.TrimSpace(string(data)); value != "" {
			values[name] = value
		}
	}
	return values, nil
}
