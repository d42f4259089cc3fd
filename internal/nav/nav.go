// Package nav assembles the navigation tree of a docs folder: folders become
// sections, markdown files become pages, and ".pages" manifests fix the
// order and titles of a folder's children.
package nav

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"

	"github.com/rahulmourya336/mkdocs-auto-gen-nav/internal/frontmatter"
	"github.com/rahulmourya336/mkdocs-auto-gen-nav/internal/model"
	"github.com/rahulmourya336/mkdocs-auto-gen-nav/internal/pages"
)

const orderKey = "order"

// Options configures a Builder.
type Options struct {
	DocsDir          string
	SiteURL          string
	UseDirectoryURLs bool
	ManifestName     string
	IndexName        string
	Reserved         []string // top-level folder names left out of the nav
	Exclude          []string // doublestar patterns relative to DocsDir
	Logger           *log.Logger
}

// Builder reads a docs folder into a model.Navigation.
type Builder struct {
	fs       afero.Fs
	opts     Options
	basePath string
	logger   *log.Logger
}

// New validates opts and returns a Builder over fs.
func New(fs afero.Fs, opts Options) (*Builder, error) {
	if opts.DocsDir == "" {
		opts.DocsDir = "docs"
	}
	if opts.ManifestName == "" {
		opts.ManifestName = pages.DefaultManifestName
	}
	if opts.IndexName == "" {
		opts.IndexName = pages.DefaultIndexName
	}
	if opts.Reserved == nil {
		opts.Reserved = []string{pages.DefaultSiteDir}
	}
	for _, pat := range opts.Exclude {
		if _, err := doublestar.Match(pat, ""); err != nil {
			return nil, fmt.Errorf("nav: invalid exclude pattern %q: %w", pat, err)
		}
	}

	basePath := "/"
	if opts.SiteURL != "" {
		u, err := url.Parse(opts.SiteURL)
		if err != nil {
			return nil, fmt.Errorf("nav: parsing site url %q: %w", opts.SiteURL, err)
		}
		basePath = u.Path
		if !strings.HasPrefix(basePath, "/") {
			basePath = "/" + basePath
		}
		if !strings.HasSuffix(basePath, "/") {
			basePath += "/"
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr)
	}

	return &Builder{fs: fs, opts: opts, basePath: basePath, logger: logger}, nil
}

// Build walks the docs folder. Only an unreadable docs folder is an error;
// unreadable subfolders and broken manifests are logged and skipped.
func (b *Builder) Build() (*model.Navigation, error) {
	if ok, _ := afero.DirExists(b.fs, b.opts.DocsDir); !ok {
		return nil, fmt.Errorf("nav: docs folder %s not found", b.opts.DocsDir)
	}
	items, err := b.buildDir("")
	if err != nil {
		return nil, err
	}
	return model.NewNavigation(items...), nil
}

// buildDir returns the ordered children of the folder at rel ("" is the
// docs folder itself).
func (b *Builder) buildDir(rel string) ([]model.Item, error) {
	dir := filepath.Join(b.opts.DocsDir, filepath.FromSlash(rel))
	entries, err := afero.ReadDir(b.fs, dir)
	if err != nil {
		if rel == "" {
			return nil, fmt.Errorf("nav: reading %s: %w", dir, err)
		}
		b.logger.Warn("skipping unreadable folder", "dir", dir, "err", err)
		return nil, nil
	}

	var (
		index    *model.Page
		byName   = map[string]model.Item{}
		sortable []pages.Document
	)
	for _, e := range entries {
		name := e.Name()
		childRel := path.Join(rel, name)
		if strings.HasPrefix(name, ".") || b.excluded(childRel, e.IsDir()) {
			continue
		}

		if e.IsDir() {
			if rel == "" && slices.Contains(b.opts.Reserved, name) {
				continue
			}
			children, err := b.buildDir(childRel)
			if err != nil {
				return nil, err
			}
			if len(children) == 0 {
				continue
			}
			sec := model.NewSection(frontmatter.DeriveTitle(name), children...)
			byName[name] = sec
			doc := pages.Document{Name: name}
			if idx := sec.IndexPage(); idx != nil {
				doc.Order, doc.HasOrder = idx.EnsureMeta().Number(orderKey)
			}
			sortable = append(sortable, doc)
			continue
		}

		if filepath.Ext(name) != ".md" {
			continue
		}
		page := b.newPage(childRel, strings.EqualFold(name, b.opts.IndexName))
		if page.IsIndex {
			index = page
			continue
		}
		byName[name] = page
		doc := pages.Document{Name: name}
		doc.Order, doc.HasOrder = page.EnsureMeta().Number(orderKey)
		sortable = append(sortable, doc)
	}

	var items []model.Item
	if index != nil {
		items = append(items, index)
	}
	for _, entry := range b.readManifest(dir) {
		it, ok := byName[entry.File]
		if !ok {
			b.logger.Debug("manifest entry has no matching file", "dir", dir, "file", entry.File)
			continue
		}
		switch v := it.(type) {
		case *model.Page:
			v.SetTitle(entry.Title)
		case *model.Section:
			v.SetTitle(entry.Title)
		}
		items = append(items, it)
		delete(byName, entry.File)
	}

	pages.SortDocuments(sortable)
	for _, doc := range sortable {
		if it, ok := byName[doc.Name]; ok {
			items = append(items, it)
		}
	}
	return items, nil
}

func (b *Builder) newPage(rel string, isIndex bool) *model.Page {
	full := filepath.Join(b.opts.DocsDir, filepath.FromSlash(rel))
	p := model.NewPage(rel, func() model.Source { return LoadSource(b.fs, full) })
	p.IsIndex = isIndex
	p.DefaultTitle = frontmatter.DeriveTitle(rel)
	p.URL = b.pageURL(rel, isIndex)
	p.AbsURL = b.basePath + p.URL
	return p
}

// pageURL follows the mkdocs rules: with directory URLs "a/b.md" is served
// at "a/b/" and "a/index.md" at "a/"; without, at "a/b.html".
func (b *Builder) pageURL(rel string, isIndex bool) string {
	if !b.opts.UseDirectoryURLs {
		return strings.TrimSuffix(rel, path.Ext(rel)) + ".html"
	}
	if isIndex {
		dir := path.Dir(rel)
		if dir == "." {
			return ""
		}
		return dir + "/"
	}
	return strings.TrimSuffix(rel, path.Ext(rel)) + "/"
}

func (b *Builder) excluded(rel string, isDir bool) bool {
	for _, pat := range b.opts.Exclude {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
		if isDir {
			if ok, _ := doublestar.Match(pat, rel+"/"); ok {
				return true
			}
		}
	}
	return false
}

// readManifest parses the folder manifest, a YAML list of single-key
// "title: file" mappings. A missing or unparsable manifest yields nothing.
func (b *Builder) readManifest(dir string) []pages.Entry {
	file := filepath.Join(dir, b.opts.ManifestName)
	content, err := afero.ReadFile(b.fs, file)
	if err != nil {
		return nil
	}

	var raw []yaml.MapSlice
	if err := yaml.Unmarshal(content, &raw); err != nil {
		b.logger.Warn("ignoring unparsable manifest", "path", file, "err", err)
		return nil
	}

	var entries []pages.Entry
	for _, item := range raw {
		if len(item) == 0 {
			continue
		}
		title, err := cast.ToStringE(item[0].Key)
		if err != nil {
			continue
		}
		target, err := cast.ToStringE(item[0].Value)
		if err != nil {
			continue
		}
		entries = append(entries, pages.Entry{Title: title, File: target})
	}
	return entries
}
