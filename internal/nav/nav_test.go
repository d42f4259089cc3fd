package nav

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahulmourya336/mkdocs-auto-gen-nav/internal/model"
)

func newFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}
	return fs
}

func build(t *testing.T, fs afero.Fs, opts Options) *model.Navigation {
	t.Helper()
	opts.Logger = log.New(&bytes.Buffer{})
	b, err := New(fs, opts)
	require.NoError(t, err)
	nav, err := b.Build()
	require.NoError(t, err)
	return nav
}

func titles(items []model.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title()
	}
	return out
}

func TestBuildTree(t *testing.T) {
	fs := newFs(t, map[string]string{
		"docs/index.md":                "# Welcome\n",
		"docs/about.md":                "---\ntitle: About Us\n---\n",
		"docs/guide/index.md":          "---\norder: 1\n---\n# Guide\n",
		"docs/guide/install.md":        "---\norder: 1\n---\n",
		"docs/guide/usage.md":          "",
		"docs/api/endpoints.md":        "",
		"docs/empty/readme.txt":        "",
		"docs/.drafts/wip.md":          "",
		"docs/site/old.md":             "",
		"docs/guide/assets/screen.png": "",
	})

	nav := build(t, fs, Options{DocsDir: "docs", UseDirectoryURLs: true})
	assert.Equal(t, []string{"Welcome", "Guide", "About Us", "Api"}, titles(nav.Items))

	home, ok := nav.Items[0].(*model.Page)
	require.True(t, ok)
	assert.True(t, home.IsIndex)
	assert.Equal(t, "", home.URL)
	assert.Equal(t, "/", home.AbsURL)

	guide, ok := nav.Items[1].(*model.Section)
	require.True(t, ok)
	assert.Equal(t, []string{"Guide", "Install", "Usage"}, titles(guide.Children()))
	assert.Same(t, guide, guide.IndexPage().Parent())
	assert.Equal(t, "guide/", guide.IndexPage().URL)

	install := nav.PageByFile("guide/install.md")
	require.NotNil(t, install)
	assert.Equal(t, "/guide/install/", install.AbsURL)
}

func TestBuildUsesManifest(t *testing.T) {
	fs := newFs(t, map[string]string{
		"docs/g/a.md":     "",
		"docs/g/b.md":     "",
		"docs/g/c.md":     "",
		"docs/g/sub/x.md": "",
		"docs/g/.pages":   "- Sub Section: sub\n- Cee: c.md\n- Ghost: ghost.md\n- A: a.md",
	})

	nav := build(t, fs, Options{DocsDir: "docs"})
	require.Len(t, nav.Items, 1)
	g := nav.Items[0].(*model.Section)
	assert.Equal(t, []string{"Sub Section", "Cee", "A", "B"}, titles(g.Children()))
}

func TestBuildIgnoresBrokenManifest(t *testing.T) {
	fs := newFs(t, map[string]string{
		"docs/g/b.md":   "",
		"docs/g/a.md":   "",
		"docs/g/.pages": "- [not: closed",
	})

	nav := build(t, fs, Options{DocsDir: "docs"})
	g := nav.Items[0].(*model.Section)
	assert.Equal(t, []string{"A", "B"}, titles(g.Children()))
}

func TestBuildExclude(t *testing.T) {
	fs := newFs(t, map[string]string{
		"docs/a.md":            "",
		"docs/drafts/x.md":     "",
		"docs/g/keep.md":       "",
		"docs/g/skip.draft.md": "",
	})

	nav := build(t, fs, Options{DocsDir: "docs", Exclude: []string{"drafts/**", "**/*.draft.md"}})
	assert.Equal(t, []string{"A", "G"}, titles(nav.Items))
	g := nav.Items[1].(*model.Section)
	assert.Equal(t, []string{"Keep"}, titles(g.Children()))
}

func TestBuildInvalidExclude(t *testing.T) {
	_, err := New(afero.NewMemMapFs(), Options{Exclude: []string{"[unclosed"}})
	require.Error(t, err)
}

func TestBuildMissingDocsDir(t *testing.T) {
	b, err := New(afero.NewMemMapFs(), Options{DocsDir: "docs", Logger: log.New(&bytes.Buffer{})})
	require.NoError(t, err)
	_, err = b.Build()
	require.Error(t, err)
}

func TestPageURLs(t *testing.T) {
	tests := []struct {
		rel     string
		index   bool
		dirURLs bool
		siteURL string
		wantURL string
		wantAbs string
	}{
		{"index.md", true, true, "", "", "/"},
		{"guide/index.md", true, true, "", "guide/", "/guide/"},
		{"guide/install.md", false, true, "", "guide/install/", "/guide/install/"},
		{"guide/install.md", false, false, "", "guide/install.html", "/guide/install.html"},
		{"guide/index.md", true, false, "", "guide/index.html", "/guide/index.html"},
		{"a.md", false, true, "https://example.com/docs", "a/", "/docs/a/"},
	}
	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			b, err := New(afero.NewMemMapFs(), Options{UseDirectoryURLs: tt.dirURLs, SiteURL: tt.siteURL})
			require.NoError(t, err)
			p := b.newPage(tt.rel, tt.index)
			assert.Equal(t, tt.wantURL, p.URL)
			assert.Equal(t, tt.wantAbs, p.AbsURL)
		})
	}
}

func TestFirstHeading(t *testing.T) {
	tests := map[string]string{
		"# Title\n\nbody":                        "Title",
		"intro\n\n## Sub\n\n# Main *emphasis*\n": "Main emphasis",
		"---\ntitle: x\n---\n# After Meta\n":     "After Meta",
		"---\nbroken: [\n---\n## Only H2\n":      "",
		"no headings":                            "",
		"Setext Title\n============\n":           "Setext Title",
	}
	for src, want := range tests {
		assert.Equal(t, want, FirstHeading([]byte(src)), src)
	}
}

func TestLoadSource(t *testing.T) {
	fs := newFs(t, map[string]string{"docs/a.md": "---\ndescription: Hi\n---\n# A Page\n"})

	src := LoadSource(fs, "docs/a.md")
	assert.Equal(t, "Hi", src.Meta.String("description"))
	assert.Equal(t, "A Page", src.Heading)

	assert.Equal(t, model.Source{}, LoadSource(fs, "docs/missing.md"))
}
