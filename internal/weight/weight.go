// Package weight checks sidebar ordering weights across the navigation tree.
//
// Pages may order themselves with "weight" or, for compatibility with other
// generators, "sidebar_position". Check copies the latter into the former
// where only the latter is set and reports siblings that share a weight.
// Collisions are warnings; nothing here fails a build.
package weight

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rahulmourya336/mkdocs-auto-gen-nav/internal/model"
)

const (
	KeyWeight          = "weight"
	KeySidebarPosition = "sidebar_position"

	rootLabel    = "root"
	untitledName = "Untitled"
)

// Warning reports siblings under Parent sharing one weight.
type Warning struct {
	Weight string // as written, e.g. "2" or "2.5"
	Parent string
	Titles []string
}

func (w Warning) String() string {
	return fmt.Sprintf("[nav-weight] Duplicate weight %s under '%s' for: %s",
		w.Weight, w.Parent, strings.Join(w.Titles, ", "))
}

// carrier returns the page holding the ordering keys for item: the page
// itself, or a section's index page.
func carrier(item model.Item) *model.Page {
	switch v := item.(type) {
	case *model.Page:
		return v
	case *model.Section:
		return v.IndexPage()
	}
	return nil
}

// Backfill sets weight from sidebar_position when weight is absent. The
// value becomes an int when its text is all digits and a float64 when it is
// any other number; anything else is left alone. It reports whether a weight
// was written.
func Backfill(item model.Item) bool {
	p := carrier(item)
	if p == nil {
		return false
	}
	meta := p.EnsureMeta()
	if meta.Has(KeyWeight) || !meta.Has(KeySidebarPosition) {
		return false
	}
	w, ok := parsePosition(meta[KeySidebarPosition])
	if !ok {
		return false
	}
	p.SetMeta(KeyWeight, w)
	return true
}

func parsePosition(v interface{}) (interface{}, bool) {
	var text string
	switch x := v.(type) {
	case string:
		text = x
	case int:
		text = strconv.Itoa(x)
	case int64:
		text = strconv.FormatInt(x, 10)
	case uint64:
		text = strconv.FormatUint(x, 10)
	case float64:
		// Floats keep their type even when whole.
		return x, true
	default:
		return nil, false
	}

	if !isNumeric(text) {
		return nil, false
	}
	if isDigits(text) {
		n, err := strconv.Atoi(text)
		if err != nil {
			return nil, false
		}
		return n, true
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, false
	}
	return f, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isNumeric accepts an optional leading minus sign, digits, and at most one
// decimal point.
func isNumeric(s string) bool {
	s = strings.TrimLeft(s, "-")
	return isDigits(strings.Replace(s, ".", "", 1))
}

// Weight returns the numeric weight of item, if it has one.
func Weight(item model.Item) (float64, bool) {
	p := carrier(item)
	if p == nil {
		return 0, false
	}
	return p.EnsureMeta().Number(KeyWeight)
}

func formatWeight(v interface{}) string {
	switch x := v.(type) {
	case float64:
		s := strconv.FormatFloat(x, 'f', -1, 64)
		if !strings.ContainsAny(s, ".eE") && !strings.Contains(s, "Inf") && !strings.Contains(s, "NaN") {
			s += ".0"
		}
		return s
	case float32:
		return formatWeight(float64(x))
	default:
		return fmt.Sprint(x)
	}
}

// Check back-fills and validates every sibling group of nav: the top level
// first, then each section depth-first. Warnings come back in walk order.
func Check(nav *model.Navigation) []Warning {
	var out []Warning
	walk(nav.Items, rootLabel, &out)
	return out
}

func walk(items []model.Item, label string, out *[]Warning) {
	*out = append(*out, conflicts(items, label)...)
	for _, it := range items {
		s, ok := it.(*model.Section)
		if !ok {
			continue
		}
		childLabel := s.Title()
		if childLabel == "" {
			childLabel = label
		}
		walk(s.Children(), childLabel, out)
	}
}

// conflicts back-fills each sibling right before reading its weight, so a
// key is never compared before its own back-fill ran.
func conflicts(items []model.Item, label string) []Warning {
	type group struct {
		weight string
		titles []string
	}
	var (
		groups []*group
		byKey  = map[float64]*group{}
	)
	for _, it := range items {
		Backfill(it)
		w, ok := Weight(it)
		if !ok {
			continue
		}
		title := it.Title()
		if title == "" {
			title = untitledName
		}
		g, seen := byKey[w]
		if !seen {
			g = &group{weight: formatWeight(carrier(it).EnsureMeta()[KeyWeight])}
			byKey[w] = g
			groups = append(groups, g)
		}
		g.titles = append(g.titles, title)
	}

	var out []Warning
	for _, g := range groups {
		if len(g.titles) > 1 {
			out = append(out, Warning{Weight: g.weight, Parent: label, Titles: g.titles})
		}
	}
	return out
}
