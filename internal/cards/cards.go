// Package cards turns the children of the current nav section into link
// cards and renders them as an HTML fragment.
package cards

import (
	"bytes"
	"fmt"
	"html/template"
	"regexp"

	"github.com/rahulmourya336/mkdocs-auto-gen-nav/internal/model"
)

const descriptionKey = "description"

// Kind tells which sort of nav item a card points at.
type Kind int

const (
	KindPage Kind = iota
	KindSection
)

// Entry is one card: the link of a page, or of a whole section through its
// representative page.
type Entry struct {
	Title       string
	URL         string
	Description string
	Kind        Kind
	Items       int // direct children of a section, index page included
}

// Options tweaks Entries.
type Options struct {
	// IncludeSelf prepends a card for the current page.
	IncludeSelf bool
}

// PageEntry links to p. Pages without a URL have no card.
func PageEntry(p *model.Page) (Entry, bool) {
	url := p.AbsURL
	if url == "" {
		url = p.URL
	}
	if url == "" {
		return Entry{}, false
	}
	meta := p.EnsureMeta()
	return Entry{
		Title:       p.Title(),
		URL:         url,
		Description: meta.String(descriptionKey),
		Kind:        KindPage,
	}, true
}

// SectionEntry links to s through its index page, or failing that its first
// page. A section with neither has no card.
func SectionEntry(s *model.Section) (Entry, bool) {
	target := s.IndexPage()
	if target == nil {
		target = s.FirstPage()
	}
	if target == nil {
		return Entry{}, false
	}
	e, ok := PageEntry(target)
	if !ok {
		return Entry{}, false
	}
	if s.Title() != "" {
		e.Title = s.Title()
	}
	e.Kind = KindSection
	e.Items = len(s.Children())
	return e, true
}

// SectionFor returns the section whose children are listed on page: its
// parent, or else the section it is the index page of.
func SectionFor(nav *model.Navigation, page *model.Page) *model.Section {
	if page == nil {
		return nil
	}
	if parent := page.Parent(); parent != nil {
		return parent
	}
	if nav == nil {
		return nil
	}

	var find func(items []model.Item) *model.Section
	find = func(items []model.Item) *model.Section {
		for _, it := range items {
			s, ok := it.(*model.Section)
			if !ok {
				continue
			}
			if idx := s.IndexPage(); idx != nil && idx.File == page.File {
				return s
			}
			if found := find(s.Children()); found != nil {
				return found
			}
		}
		return nil
	}
	return find(nav.Items)
}

// Entries lists the cards shown on page, in nav order.
func Entries(nav *model.Navigation, page *model.Page, opts Options) []Entry {
	section := SectionFor(nav, page)
	if section == nil {
		return nil
	}

	var out []Entry
	if opts.IncludeSelf {
		if e, ok := PageEntry(page); ok {
			out = append(out, e)
		}
	}
	for _, child := range section.Children() {
		var (
			e  Entry
			ok bool
		)
		switch v := child.(type) {
		case *model.Page:
			if v.IsIndex {
				continue
			}
			e, ok = PageEntry(v)
		case *model.Section:
			e, ok = SectionEntry(v)
		}
		if ok {
			out = append(out, e)
		}
	}
	return out
}

var cardsTmpl = template.Must(template.New("cards").Funcs(template.FuncMap{
	"icon":   icon,
	"detail": detail,
}).Parse(cardsTemplate))

func icon(k Kind) template.HTML {
	if k == KindSection {
		return "&#128193;"
	}
	return "&#128196;"
}

// detail is the card subtitle. Sections without a description show how many
// items they hold.
func detail(e Entry) string {
	if e.Description != "" || e.Kind != KindSection {
		return e.Description
	}
	return fmt.Sprintf("%d item(s)", e.Items)
}

// Render returns the card grid for entries, or "" when there are none.
func Render(entries []Entry) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}
	var buf bytes.Buffer
	if err := cardsTmpl.Execute(&buf, entries); err != nil {
		return "", fmt.Errorf("rendering cards: %w", err)
	}
	return buf.String(), nil
}

var macroRe = regexp.MustCompile(`\{\{\s*section_cards\(\s*(include_self\s*=\s*(?i:true))?\s*\)\s*\}\}`)

// Expand replaces every section_cards() placeholder in a page body with the
// rendered cards for page.
func Expand(source []byte, nav *model.Navigation, page *model.Page) ([]byte, error) {
	var renderErr error
	out := macroRe.ReplaceAllFunc(source, func(match []byte) []byte {
		sub := macroRe.FindSubmatch(match)
		html, err := Render(Entries(nav, page, Options{IncludeSelf: len(sub[1]) > 0}))
		if err != nil {
			renderErr = err
			return match
		}
		return []byte(html)
	})
	if renderErr != nil {
		return nil, renderErr
	}
	return out, nil
}

const cardsTemplate = `<style id="section-cards-style">
.section-cards-grid {
  display: grid;
  grid-template-columns: repeat(auto-fit, minmax(260px, 1fr));
  gap: 1rem;
}
.section-card {
  display: flex;
  gap: 0.75rem;
  padding: 1rem 1.25rem;
  border-radius: 12px;
  text-decoration: none;
  background: var(--md-code-bg-color, #1f2937);
  border: 1px solid var(--md-default-fg-color--lighter, #2d3748);
  color: var(--md-default-fg-color, #e5e7eb);
  transition: border-color 0.2s ease, box-shadow 0.2s ease, transform 0.2s ease;
}
.section-card:hover {
  border-color: var(--md-accent-fg-color, #5e81ac);
  box-shadow: 0 10px 25px rgba(0,0,0,0.18);
  transform: translateY(-2px);
}
.section-card__icon { font-size: 1.5rem; line-height: 1; }
.section-card__body { display: flex; flex-direction: column; gap: 0.25rem; }
.section-card__title { font-weight: 700; font-size: 0.875rem; }
.section-card__desc { color: var(--md-default-fg-color--light, #cbd5e1); font-size: 0.6375rem; }
</style>
<div class="section-cards-grid">{{range .}}
  <a class="section-card" href="{{.URL}}">
    <div class="section-card__icon">{{icon .Kind}}</div>
    <div class="section-card__body">
      <div class="section-card__title">{{.Title}}</div>
      <div class="section-card__desc">{{detail .}}</div>
    </div>
  </a>{{end}}
</div>
`
