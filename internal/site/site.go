// Package site builds a static HTML site from a docs folder: it generates
// the ordering manifests, assembles the navigation, checks sidebar weights,
// renders every page through a layout and copies the remaining assets.
package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/rahulmourya336/mkdocs-auto-gen-nav/internal/cards"
	"github.com/rahulmourya336/mkdocs-auto-gen-nav/internal/config"
	"github.com/rahulmourya336/mkdocs-auto-gen-nav/internal/frontmatter"
	"github.com/rahulmourya336/mkdocs-auto-gen-nav/internal/model"
	"github.com/rahulmourya336/mkdocs-auto-gen-nav/internal/nav"
	"github.com/rahulmourya336/mkdocs-auto-gen-nav/internal/pages"
	"github.com/rahulmourya336/mkdocs-auto-gen-nav/internal/weight"
)

const (
	conventionalBaseLayout = "base.html"
	indexFile              = "index.html"
	descriptionKey         = "description"
)

//go:embed layouts/base.html
var layoutsFS embed.FS

// Project is a docs folder after manifest generation and nav assembly.
type Project struct {
	Nav       *model.Navigation
	Manifests []string
	Warnings  []weight.Warning
}

// Result summarises a build.
type Result struct {
	Project *Project
	Pages   int
	Assets  int
}

// Builder runs the build phases against one filesystem. Manifests are
// generated into an in-memory layer over it, so the docs folder itself is
// only ever read.
type Builder struct {
	fs      afero.Fs
	overlay afero.Fs
	cfg     config.Config
	logger  *log.Logger
	md      goldmark.Markdown
	layout  *template.Template
}

// New prepares a Builder. The layout is loaded here so a broken template
// fails before anything is written.
func New(fs afero.Fs, cfg config.Config, logger *log.Logger) (*Builder, error) {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	if cfg.DocsDir == "" {
		cfg.DocsDir = "docs"
	}
	if cfg.SiteDir == "" {
		cfg.SiteDir = pages.DefaultSiteDir
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, meta.Meta),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithUnsafe(),
		),
	)

	b := &Builder{
		fs:      fs,
		overlay: afero.NewCopyOnWriteFs(afero.NewReadOnlyFs(fs), afero.NewMemMapFs()),
		cfg:     cfg,
		logger:  logger,
		md:      md,
	}

	layout, err := b.loadLayout()
	if err != nil {
		return nil, err
	}
	b.layout = layout
	return b, nil
}

func (b *Builder) loadLayout() (*template.Template, error) {
	if b.cfg.Layout == "" {
		t, err := template.ParseFS(layoutsFS, "layouts/"+conventionalBaseLayout)
		if err != nil {
			return nil, fmt.Errorf("failed to parse default layout: %w", err)
		}
		return t, nil
	}
	content, err := afero.ReadFile(b.fs, b.cfg.Layout)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout %s: %w", b.cfg.Layout, err)
	}
	t, err := template.New(filepath.Base(b.cfg.Layout)).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout %s: %w", b.cfg.Layout, err)
	}
	return t, nil
}

// Load runs manifest generation (when enabled) and builds the navigation.
// Weight collisions are logged and returned, never fatal.
func (b *Builder) Load() (*Project, error) {
	p := &Project{}

	if b.cfg.GeneratePages {
		scanner := pages.New(b.overlay, pages.Options{
			DocsDir:      b.cfg.DocsDir,
			ManifestName: b.cfg.ManifestName,
			IndexName:    b.cfg.IndexName,
			Logger:       b.logger,
		})
		written, err := scanner.Run()
		if err != nil {
			return nil, fmt.Errorf("generating manifests: %w", err)
		}
		p.Manifests = written
	}

	builder, err := nav.New(b.overlay, nav.Options{
		DocsDir:          b.cfg.DocsDir,
		SiteURL:          b.cfg.SiteURL,
		UseDirectoryURLs: b.cfg.UseDirectoryURLs,
		ManifestName:     b.cfg.ManifestName,
		IndexName:        b.cfg.IndexName,
		Exclude:          b.cfg.Exclude,
		Logger:           b.logger,
	})
	if err != nil {
		return nil, err
	}
	p.Nav, err = builder.Build()
	if err != nil {
		return nil, err
	}

	p.Warnings = weight.Check(p.Nav)
	for _, w := range p.Warnings {
		b.logger.Warn(w.String())
	}
	return p, nil
}

// Build cleans the site folder and writes the whole site.
func (b *Builder) Build() (*Result, error) {
	if err := b.checkDirs(); err != nil {
		return nil, err
	}

	project, err := b.Load()
	if err != nil {
		return nil, err
	}

	b.logger.Info("cleaning output directory", "dir", b.cfg.SiteDir)
	if err := b.fs.RemoveAll(b.cfg.SiteDir); err != nil {
		return nil, fmt.Errorf("failed to remove output directory %s: %w", b.cfg.SiteDir, err)
	}
	if err := b.fs.MkdirAll(b.cfg.SiteDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", b.cfg.SiteDir, err)
	}

	res := &Result{Project: project}
	for _, page := range project.Nav.Pages() {
		if err := b.writePage(project.Nav, page); err != nil {
			return nil, err
		}
		res.Pages++
	}

	res.Assets, err = copyDirContents(b.overlay, b.cfg.DocsDir, b.fs, b.cfg.SiteDir, b.skipAsset)
	if err != nil {
		return nil, fmt.Errorf("failed to copy assets: %w", err)
	}

	b.logger.Info("site built", "dir", b.cfg.SiteDir, "pages", res.Pages, "assets", res.Assets)
	return res, nil
}

// checkDirs refuses to clean a site folder that holds the docs folder.
func (b *Builder) checkDirs() error {
	docs, err := filepath.Abs(b.cfg.DocsDir)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", b.cfg.DocsDir, err)
	}
	out, err := filepath.Abs(b.cfg.SiteDir)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", b.cfg.SiteDir, err)
	}
	if rel, err := filepath.Rel(out, docs); err == nil && !strings.HasPrefix(rel, "..") {
		return fmt.Errorf("site dir %s contains docs dir %s", b.cfg.SiteDir, b.cfg.DocsDir)
	}
	return nil
}

// skipAsset leaves out markdown, hidden files (manifests included) and the
// site folder when it sits inside the docs folder.
func (b *Builder) skipAsset(rel string, info os.FileInfo) bool {
	if strings.HasPrefix(info.Name(), ".") {
		return true
	}
	if info.IsDir() {
		site, err := filepath.Rel(b.cfg.DocsDir, b.cfg.SiteDir)
		return rel == pages.DefaultSiteDir || (err == nil && rel == site)
	}
	return strings.EqualFold(filepath.Ext(rel), ".md")
}

// RenderPage returns the finished HTML for page.
func (b *Builder) RenderPage(n *model.Navigation, page *model.Page) ([]byte, error) {
	src := filepath.Join(b.cfg.DocsDir, filepath.FromSlash(page.File))
	raw, err := afero.ReadFile(b.overlay, src)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", src, err)
	}

	_, body := frontmatter.Parse(raw)
	body, err = cards.Expand(body, n, page)
	if err != nil {
		return nil, fmt.Errorf("expanding cards in %s: %w", src, err)
	}

	var content bytes.Buffer
	if err := b.md.Convert(body, &content); err != nil {
		return nil, fmt.Errorf("failed to convert markdown to HTML for file %s: %w", src, err)
	}

	params := page.EnsureMeta()
	data := model.PageData{
		SiteName:    b.cfg.SiteName,
		PageTitle:   page.Title(),
		Description: params.String(descriptionKey),
		Content:     template.HTML(content.String()),
		BaseURL:     b.basePath(),
		Nav:         model.NavLinks(n, page),
		Params:      params,
	}

	var out bytes.Buffer
	if err := b.layout.Execute(&out, data); err != nil {
		return nil, fmt.Errorf("failed to execute layout for %s: %w", src, err)
	}
	return out.Bytes(), nil
}

func (b *Builder) writePage(n *model.Navigation, page *model.Page) error {
	html, err := b.RenderPage(n, page)
	if err != nil {
		return err
	}
	target := OutputPath(b.cfg.SiteDir, page.URL)
	if err := b.fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", target, err)
	}
	if err := afero.WriteFile(b.fs, target, html, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	b.logger.Debug("generated page", "file", page.File, "path", target)
	return nil
}

func (b *Builder) basePath() string {
	u, err := url.Parse(b.cfg.SiteURL)
	if err != nil || u.Path == "" {
		return "/"
	}
	return strings.TrimSuffix(u.Path, "/") + "/"
}

// OutputPath maps a page URL to its file under siteDir: directory URLs get
// an index.html, file URLs are used as is.
func OutputPath(siteDir, pageURL string) string {
	if pageURL == "" || strings.HasSuffix(pageURL, "/") {
		pageURL = path.Join(pageURL, indexFile)
	}
	return filepath.Join(siteDir, filepath.FromSlash(pageURL))
}
