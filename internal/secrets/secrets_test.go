// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SCOPUS_API_KEY", "")
	t.Setenv("SCOPUS_INST_TOKEN", "")
	t.Setenv("GEMINI_API_KEY", "")
}

func writeSecret(t *testing.T, dir, name, value string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(value), 0o600))
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("SCOPUS_API_KEY", "key-a, key-b,,key-c")
	t.Setenv("SCOPUS_INST_TOKEN", "inst-1")
	t.Setenv("GEMINI_API_KEY", "gem-1")

	c, err := Load(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)

	assert.Equal(t, []string{"key-a", "key-b", "key-c"}, c.ScopusKeys)
	assert.Equal(t, "key-a", c.ScopusKey())
	assert.Equal(t, "inst-1", c.ScopusInstToken)
	assert.Equal(t, "gem-1", c.GeminiKey)
}

func TestLoadFromDirectory(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeSecret(t, dir, "scopus-api-key", "file-key\n")
	writeSecret(t, dir, "gemini-api-key", "  file-gem  ")

	c, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"file-key"}, c.ScopusKeys)
	assert.Equal(t, "file-gem", c.GeminiKey)
	assert.Empty(t, c.ScopusInstToken)
}

func TestLoadEnvironmentWinsOverDirectory(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeSecret(t, dir, "scopus-api-key", "file-key")
	t.Setenv("SCOPUS_API_KEY", "env-key")

	c, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"env-key"}, c.ScopusKeys)
}

func TestLoadMissingDirectory(t *testing.T) {
	clearEnv(t)

	c, err := Load(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, c.ScopusKeys)
	assert.Empty(t, c.GeminiKey)
}

func TestLoadIgnoresDotfilesAndSubdirs(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeSecret(t, dir, ".gitignore", "*")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "gemini-api-key.d"), 0o755))
	writeSecret(t, dir, "gemini-api-key", "gem")

	c, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "gem", c.GeminiKey)
}

func TestRequireScopus(t *testing.T) {
	err := Credentials{}.RequireScopus()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SCOPUS_API_KEY")
	assert.Contains(t, err.Error(), ".secrets/scopus-api-key")

	assert.NoError(t, Credentials{ScopusKeys: []string{"k"}}.RequireScopus())
}

func TestRequireGemini(t *testing.T) {
	err := Credentials{}.RequireGemini()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")

	assert.NoError(t, Credentials{GeminiKey: "g"}.RequireGemini())
}

func TestScopusKeyEmpty(t *testing.T) {
	assert.Empty(t, Credentials{}.ScopusKey())
}
