package nav

import (
	"strings"

	"github.com/spf13/afero"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/rahulmourya336/mkdocs-auto-gen-nav/internal/frontmatter"
	"github.com/rahulmourya336/mkdocs-auto-gen-nav/internal/model"
)

// The meta extension swallows the preamble block, valid or not, so it is
// never mistaken for a setext heading.
var headingParser = goldmark.New(goldmark.WithExtensions(meta.Meta)).Parser()

// FirstHeading returns the plain text of the first level-1 heading in a
// markdown document, or "".
func FirstHeading(source []byte) string {
	doc := headingParser.Parse(text.NewReader(source))

	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			title = strings.TrimSpace(inlineText(h, source))
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return title
}

func inlineText(n ast.Node, source []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			sb.Write(v.Segment.Value(source))
			if v.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(v.Value)
		default:
			sb.WriteString(inlineText(c, source))
		}
	}
	return sb.String()
}

// LoadSource reads the page at path. Unreadable files load empty.
func LoadSource(fs afero.Fs, path string) model.Source {
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return model.Source{}
	}
	m, _ := frontmatter.Parse(content)
	return model.Source{Meta: m, Heading: FirstHeading(content)}
}
