package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, used, err := Load("", t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, used)
	assert.Equal(t, "docs", cfg.DocsDir)
	assert.Equal(t, "site", cfg.SiteDir)
	assert.Equal(t, ".pages", cfg.ManifestName)
	assert.Equal(t, "index.md", cfg.IndexName)
	assert.True(t, cfg.UseDirectoryURLs)
	assert.True(t, cfg.GeneratePages)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	content := `site_name: Handbook
site_url: https://example.com/handbook/
docs_dir: content
use_directory_urls: false
exclude:
  - drafts/**
  - "**/*.tmp.md"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "autonav.yaml"), []byte(content), 0o644))

	cfg, used, err := Load("", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "autonav.yaml"), used)
	assert.Equal(t, "Handbook", cfg.SiteName)
	assert.Equal(t, "https://example.com/handbook/", cfg.SiteURL)
	assert.Equal(t, "content", cfg.DocsDir)
	assert.False(t, cfg.UseDirectoryURLs)
	assert.Equal(t, []string{"drafts/**", "**/*.tmp.md"}, cfg.Exclude)
	assert.Equal(t, "site", cfg.SiteDir)
}

func TestLoadExplicitFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "custom.yml")
	require.NoError(t, os.WriteFile(file, []byte("generate_pages: false\n"), 0o644))

	cfg, used, err := Load(file, "")
	require.NoError(t, err)
	assert.Equal(t, file, used)
	assert.False(t, cfg.GeneratePages)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "")
	require.Error(t, err)
}

func TestLoadBrokenFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "autonav.yaml"), []byte("docs_dir: [\n"), 0o644))

	_, _, err := Load("", dir)
	require.Error(t, err)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("AUTONAV_DOCS_DIR", "handbook")
	t.Setenv("AUTONAV_LOG_LEVEL", "debug")

	cfg, _, err := Load("", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "handbook", cfg.DocsDir)
	assert.Equal(t, "debug", cfg.LogLevel)
}
