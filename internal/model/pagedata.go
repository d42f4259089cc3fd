package model

import "html/template"

// PageData is what the site layout template executes against.
type PageData struct {
	SiteName    string
	PageTitle   string
	Description string
	Content     template.HTML
	BaseURL     string
	Nav         []NavLink
	Params      Meta
}

// NavLink is one sidebar entry; sections carry children and may have no URL.
type NavLink struct {
	Title    string
	URL      string
	Active   bool
	Children []NavLink
}

// NavLinks flattens the tree into sidebar links, marking current and its
// ancestors active. Index pages are folded into their section's link.
func NavLinks(nav *Navigation, current *Page) []NavLink {
	var build func(items []Item) ([]NavLink, bool)
	build = func(items []Item) ([]NavLink, bool) {
		var links []NavLink
		var anyActive bool
		for _, it := range items {
			switch v := it.(type) {
			case *Page:
				if v.IsIndex && v.Parent() != nil {
					continue
				}
				active := v == current
				anyActive = anyActive || active
				links = append(links, NavLink{Title: v.Title(), URL: v.AbsURL, Active: active})
			case *Section:
				children, active := build(v.Children())
				link := NavLink{Title: v.Title(), Children: children}
				if idx := v.IndexPage(); idx != nil {
					link.URL = idx.AbsURL
					active = active || idx == current
				}
				link.Active = active
				anyActive = anyActive || active
				links = append(links, link)
			}
		}
		return links, anyActive
	}
	links, _ := build(nav.Items)
	return links
}
