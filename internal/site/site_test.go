package site

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/rahulmourya336/mkdocs-auto-gen-nav/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		SiteName:         "Docs",
		DocsDir:          "docs",
		SiteDir:          "site",
		UseDirectoryURLs: true,
		ManifestName:     ".pages",
		IndexName:        "index.md",
		GeneratePages:    true,
	}
}

func fixture(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"docs/index.md":           "---\ntitle: Home\n---\n# Welcome\n\nHello **world**.\n",
		"docs/guide/index.md":     "---\ndescription: All about it\n---\n# Guide\n\n{{ section_cards() }}\n",
		"docs/guide/install.md":   "---\norder: 1\nweight: 2\ndescription: Set up\n---\n# Install\n",
		"docs/guide/usage.md":     "---\norder: 2\nsidebar_position: 2\n---\n# Usage\n",
		"docs/guide/img/logo.png": "png",
		"docs/.hidden/notes.md":   "# hidden\n",
		"site/stale.html":         "old",
	}
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}
	return fs
}

func newBuilder(t *testing.T, fs afero.Fs, cfg config.Config) *Builder {
	t.Helper()
	b, err := New(fs, cfg, log.New(io.Discard))
	require.NoError(t, err)
	return b
}

func read(t *testing.T, fs afero.Fs, name string) string {
	t.Helper()
	content, err := afero.ReadFile(fs, name)
	require.NoError(t, err, name)
	return string(content)
}

func countCards(t *testing.T, page string) int {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(page))
	require.NoError(t, err)
	n := 0
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == "a" {
			for _, a := range node.Attr {
				if a.Key == "class" && a.Val == "section-card" {
					n++
				}
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return n
}

func TestBuild(t *testing.T) {
	fs := fixture(t)
	res, err := newBuilder(t, fs, testConfig()).Build()
	require.NoError(t, err)

	assert.Equal(t, 4, res.Pages)
	assert.Equal(t, 1, res.Assets)
	assert.Equal(t, []string{"docs/guide/.pages"}, res.Project.Manifests)

	for _, name := range []string{
		"site/index.html",
		"site/guide/index.html",
		"site/guide/install/index.html",
		"site/guide/usage/index.html",
		"site/guide/img/logo.png",
	} {
		ok, err := afero.Exists(fs, name)
		require.NoError(t, err)
		assert.True(t, ok, name)
	}

	for _, name := range []string{"site/stale.html", "docs/guide/.pages", "site/.hidden"} {
		ok, err := afero.Exists(fs, name)
		require.NoError(t, err)
		assert.False(t, ok, name)
	}

	home := read(t, fs, "site/index.html")
	assert.Contains(t, home, "<title>Home - Docs</title>")
	assert.Contains(t, home, "<strong>world</strong>")
	assert.NotContains(t, home, "title: Home")

	guide := read(t, fs, "site/guide/index.html")
	assert.Equal(t, 2, countCards(t, guide))
	assert.Contains(t, guide, "Set up")
	assert.Contains(t, guide, `<meta name="description" content="All about it">`)
	assert.NotContains(t, guide, "section_cards")
}

func TestBuildReportsWeightWarnings(t *testing.T) {
	res, err := newBuilder(t, fixture(t), testConfig()).Build()
	require.NoError(t, err)

	require.Len(t, res.Project.Warnings, 1)
	assert.Equal(t, "[nav-weight] Duplicate weight 2 under 'Guide' for: Install, Usage",
		res.Project.Warnings[0].String())
}

func TestLoadWithoutGeneration(t *testing.T) {
	cfg := testConfig()
	cfg.GeneratePages = false

	p, err := newBuilder(t, fixture(t), cfg).Load()
	require.NoError(t, err)
	assert.Empty(t, p.Manifests)
	require.NotNil(t, p.Nav.PageByFile("guide/usage.md"))
}

func TestBuildCustomLayout(t *testing.T) {
	fs := fixture(t)
	require.NoError(t, afero.WriteFile(fs, "theme/page.html", []byte("{{.PageTitle}}|{{.Content}}"), 0o644))
	cfg := testConfig()
	cfg.Layout = "theme/page.html"

	_, err := newBuilder(t, fs, cfg).Build()
	require.NoError(t, err)

	home := read(t, fs, "site/index.html")
	assert.True(t, strings.HasPrefix(home, "Home|"), home)
	assert.Contains(t, home, "<strong>world</strong>")
}

func TestNewBrokenLayout(t *testing.T) {
	fs := fixture(t)
	require.NoError(t, afero.WriteFile(fs, "theme/page.html", []byte("{{.PageTitle"), 0o644))
	cfg := testConfig()
	cfg.Layout = "theme/page.html"

	_, err := New(fs, cfg, log.New(io.Discard))
	require.Error(t, err)

	cfg.Layout = "theme/missing.html"
	_, err = New(fs, cfg, log.New(io.Discard))
	require.Error(t, err)
}

func TestBuildRefusesSiteContainingDocs(t *testing.T) {
	fs := fixture(t)
	cfg := testConfig()
	cfg.SiteDir = "."

	_, err := newBuilder(t, fs, cfg).Build()
	require.Error(t, err)

	ok, _ := afero.Exists(fs, "docs/index.md")
	assert.True(t, ok)
}

func TestBuildMissingDocs(t *testing.T) {
	_, err := newBuilder(t, afero.NewMemMapFs(), testConfig()).Build()
	require.Error(t, err)
}

func TestBuildFileURLs(t *testing.T) {
	fs := fixture(t)
	cfg := testConfig()
	cfg.UseDirectoryURLs = false

	_, err := newBuilder(t, fs, cfg).Build()
	require.NoError(t, err)
	for _, name := range []string{"site/index.html", "site/guide/index.html", "site/guide/install.html"} {
		ok, _ := afero.Exists(fs, name)
		assert.True(t, ok, name)
	}
}

func TestOutputPath(t *testing.T) {
	tests := map[string]string{
		"":                   "site/index.html",
		"guide/":             "site/guide/index.html",
		"guide/install.html": "site/guide/install.html",
	}
	for url, want := range tests {
		assert.Equal(t, want, OutputPath("site", url), url)
	}
}
