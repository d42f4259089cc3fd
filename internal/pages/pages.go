// Package pages generates per-folder ordering manifests (".pages" files)
// from the front-matter of the markdown documents in each folder.
package pages

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/rahulmourya336/mkdocs-auto-gen-nav/internal/frontmatter"
)

const (
	DefaultManifestName = ".pages"
	DefaultIndexName    = "index.md"
	DefaultSiteDir      = "site"

	markdownExt = ".md"
	orderKey    = "order"
)

// Document is one markdown file considered for a manifest.
type Document struct {
	Name     string
	Title    string
	Order    float64
	HasOrder bool
}

// Entry is one manifest line.
type Entry struct {
	Title string
	File  string
}

// Manifest lists the documents of one folder in nav order.
type Manifest struct {
	Dir     string // folder the manifest belongs to, as given to Scan
	Entries []Entry
}

// String renders the manifest as "- <title>: <filename>" lines.
func (m *Manifest) String() string {
	lines := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		lines[i] = fmt.Sprintf("- %s: %s", e.Title, e.File)
	}
	return strings.Join(lines, "\n")
}

// Options configures a Scanner. Zero values fall back to the defaults above.
type Options struct {
	DocsDir      string
	ManifestName string
	IndexName    string
	Reserved     []string // first-level folder names never scanned
	Output       afero.Fs // where manifests are written; defaults to the input fs
	Logger       *log.Logger
}

// Scanner builds manifests for folders under a docs root.
type Scanner struct {
	fs           afero.Fs
	out          afero.Fs
	docsDir      string
	manifestName string
	indexName    string
	reserved     []string
	logger       *log.Logger
}

// New returns a Scanner reading documents from fs.
func New(fs afero.Fs, opts Options) *Scanner {
	s := &Scanner{
		fs:           fs,
		out:          opts.Output,
		docsDir:      opts.DocsDir,
		manifestName: opts.ManifestName,
		indexName:    opts.IndexName,
		reserved:     opts.Reserved,
		logger:       opts.Logger,
	}
	if s.out == nil {
		s.out = fs
	}
	if s.docsDir == "" {
		s.docsDir = "docs"
	}
	if s.manifestName == "" {
		s.manifestName = DefaultManifestName
	}
	if s.indexName == "" {
		s.indexName = DefaultIndexName
	}
	if s.reserved == nil {
		s.reserved = []string{DefaultSiteDir}
	}
	if s.logger == nil {
		s.logger = log.New(os.Stderr)
	}
	return s
}

// Documents reads the markdown files of dir, excluding the index document,
// and returns them in manifest order.
func (s *Scanner) Documents(dir string) ([]Document, error) {
	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("reading folder %s: %w", dir, err)
	}

	var docs []Document
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != markdownExt || strings.EqualFold(name, s.indexName) {
			continue
		}
		meta := frontmatter.Read(s.fs, filepath.Join(dir, name))
		doc := Document{Name: name, Title: frontmatter.Title(meta, name)}
		doc.Order, doc.HasOrder = meta.Number(orderKey)
		docs = append(docs, doc)
	}
	SortDocuments(docs)
	return docs, nil
}

// SortDocuments orders documents with an explicit order first, ascending by
// order then name; the rest follow by name.
func SortDocuments(docs []Document) {
	slices.SortStableFunc(docs, func(a, b Document) int {
		switch {
		case a.HasOrder && !b.HasOrder:
			return -1
		case !a.HasOrder && b.HasOrder:
			return 1
		case a.HasOrder:
			if c := cmp.Compare(a.Order, b.Order); c != 0 {
				return c
			}
		}
		return strings.Compare(a.Name, b.Name)
	})
}

// Scan builds the manifest for dir. It reports false when the folder has no
// qualifying documents or cannot be read.
func (s *Scanner) Scan(dir string) (*Manifest, bool) {
	docs, err := s.Documents(dir)
	if err != nil {
		s.logger.Warn("skipping folder", "dir", dir, "err", err)
		return nil, false
	}
	if len(docs) == 0 {
		return nil, false
	}

	m := &Manifest{Dir: dir, Entries: make([]Entry, len(docs))}
	for i, d := range docs {
		m.Entries[i] = Entry{Title: d.Title, File: d.Name}
	}
	return m, true
}

// ManifestPath is where the manifest for dir is written: the same path
// relative to the docs dir, under the docs dir of the output fs.
func (s *Scanner) ManifestPath(dir string) (string, error) {
	rel, err := filepath.Rel(s.docsDir, dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s against %s: %w", dir, s.docsDir, err)
	}
	return filepath.Join(s.docsDir, rel, s.manifestName), nil
}

// Generate writes the manifest for dir. No file is written for a folder
// without documents.
func (s *Scanner) Generate(dir string) (string, bool, error) {
	m, ok := s.Scan(dir)
	if !ok {
		return "", false, nil
	}
	target, err := s.ManifestPath(dir)
	if err != nil {
		return "", false, err
	}
	if err := s.out.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", false, fmt.Errorf("creating %s: %w", filepath.Dir(target), err)
	}
	if err := afero.WriteFile(s.out, target, []byte(m.String()), 0o644); err != nil {
		return "", false, fmt.Errorf("writing %s: %w", target, err)
	}
	return target, true, nil
}

// Folders lists the first-level folders of the docs dir that qualify for a
// manifest, in name order. Hidden and reserved folders are left out.
func (s *Scanner) Folders() ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.docsDir)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || strings.HasPrefix(name, ".") || slices.Contains(s.reserved, name) {
			continue
		}
		dirs = append(dirs, filepath.Join(s.docsDir, name))
	}
	return dirs, nil
}

// Run generates manifests for every qualifying first-level folder and returns
// the written paths. A missing docs dir is logged and skipped.
func (s *Scanner) Run() ([]string, error) {
	if ok, _ := afero.DirExists(s.fs, s.docsDir); !ok {
		s.logger.Warn("docs folder not found, skipping manifest generation", "dir", s.docsDir)
		return nil, nil
	}

	dirs, err := s.Folders()
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", s.docsDir, err)
	}

	s.logger.Info("generating manifests from front-matter", "dir", s.docsDir)
	var written []string
	for _, dir := range dirs {
		target, ok, err := s.Generate(dir)
		if err != nil {
			return written, err
		}
		if !ok {
			s.logger.Debug("no documents, no manifest", "dir", dir)
			continue
		}
		s.logger.Info("wrote manifest", "path", target)
		written = append(written, target)
	}
	return written, nil
}
