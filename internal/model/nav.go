package model

// Item is one node of the navigation tree. The only implementations are
// *Page and *Section; callers switch on the concrete type.
type Item interface {
	Title() string
	Parent() *Section
	attach(parent *Section)
}

// Source is what a page reads from its markdown file.
type Source struct {
	Meta    Meta
	Heading string // text of the first level-1 heading, if any
}

// SourceFunc loads a page source. It must not fail; unreadable files load as
// an empty Source.
type SourceFunc func() Source

// Page is a navigation leaf backed by one markdown document.
type Page struct {
	File         string // slash-separated path relative to the docs dir
	URL          string
	AbsURL       string
	IsIndex      bool
	DefaultTitle string // used when neither nav, meta nor heading supply one

	navTitle string
	parent   *Section
	load     SourceFunc
	loaded   bool
	src      Source
}

// NewPage returns a page for file whose source is read by load on first use.
// A nil load behaves like a file without front-matter.
func NewPage(file string, load SourceFunc) *Page {
	return &Page{File: file, load: load}
}

// SetTitle overrides the page title, as an explicit nav entry does.
func (p *Page) SetTitle(title string) { p.navTitle = title }

// Title resolves the display title: nav override, then meta title, then the
// first heading, then DefaultTitle.
func (p *Page) Title() string {
	if p.navTitle != "" {
		return p.navTitle
	}
	src := p.ensure()
	if t := src.Meta.String("title"); t != "" {
		return t
	}
	if src.Heading != "" {
		return src.Heading
	}
	return p.DefaultTitle
}

func (p *Page) Parent() *Section { return p.parent }

func (p *Page) attach(parent *Section) { p.parent = parent }

// Loaded reports whether the page source has been read.
func (p *Page) Loaded() bool { return p.loaded }

// EnsureMeta loads the page source if needed and returns a snapshot of its
// metadata. Mutating the snapshot does not affect the page.
func (p *Page) EnsureMeta() Meta {
	return p.ensure().Meta.Clone()
}

// SetMeta writes key into the page metadata in place.
func (p *Page) SetMeta(key string, value interface{}) {
	p.ensure()
	p.src.Meta[key] = value
}

func (p *Page) ensure() Source {
	if !p.loaded {
		if p.load != nil {
			p.src = p.load()
		}
		if p.src.Meta == nil {
			p.src.Meta = Meta{}
		}
		p.loaded = true
	}
	return p.src
}

// Section groups pages and nested sections under one title.
type Section struct {
	title    string
	parent   *Section
	children []Item
}

// NewSection returns a section owning children in the given order.
func NewSection(title string, children ...Item) *Section {
	s := &Section{title: title}
	s.Append(children...)
	return s
}

// Append adds items to the end of the section and re-parents them.
func (s *Section) Append(items ...Item) {
	for _, it := range items {
		it.attach(s)
		s.children = append(s.children, it)
	}
}

func (s *Section) Title() string { return s.title }

func (s *Section) SetTitle(title string) { s.title = title }

func (s *Section) Parent() *Section { return s.parent }

func (s *Section) attach(parent *Section) { s.parent = parent }

// Children returns the section's direct children in nav order.
func (s *Section) Children() []Item { return s.children }

// IndexPage returns the child page flagged as the section index, or nil.
func (s *Section) IndexPage() *Page {
	for _, it := range s.children {
		if p, ok := it.(*Page); ok && p.IsIndex {
			return p
		}
	}
	return nil
}

// FirstPage returns the first direct child page, index or not.
func (s *Section) FirstPage() *Page {
	for _, it := range s.children {
		if p, ok := it.(*Page); ok {
			return p
		}
	}
	return nil
}

// Navigation is the whole site tree.
type Navigation struct {
	Items []Item
}

// NewNavigation returns a tree with items at the top level.
func NewNavigation(items ...Item) *Navigation {
	for _, it := range items {
		it.attach(nil)
	}
	return &Navigation{Items: items}
}

// Pages lists every page depth-first in nav order.
func (n *Navigation) Pages() []*Page {
	var out []*Page
	var walk func(items []Item)
	walk = func(items []Item) {
		for _, it := range items {
			switch v := it.(type) {
			case *Page:
				out = append(out, v)
			case *Section:
				walk(v.children)
			}
		}
	}
	walk(n.Items)
	return out
}

// PageByFile finds the page built from file, or nil.
func (n *Navigation) PageByFile(file string) *Page {
	for _, p := range n.Pages() {
		if p.File == file {
			return p
		}
	}
	return nil
}
