// Package frontmatter reads the YAML preamble of markdown documents and
// resolves document titles. Every function here fails soft: a missing or
// broken preamble is the same as no preamble.
package frontmatter

import (
	"bytes"
	"path/filepath"
	"strings"

	adrg "github.com/adrg/frontmatter"
	"github.com/spf13/afero"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v2"

	"github.com/rahulmourya336/mkdocs-auto-gen-nav/internal/model"
)

// Delimiter opens and closes the preamble block.
const Delimiter = "---"

var yamlFormat = adrg.NewFormat(Delimiter, Delimiter, yaml.Unmarshal)

// Parse splits content into its preamble metadata and the remaining body.
// Content that does not start with the delimiter, or whose block does not
// decode to a mapping, yields empty metadata and the content unchanged.
func Parse(content []byte) (model.Meta, []byte) {
	if !bytes.HasPrefix(content, []byte(Delimiter)) {
		return model.Meta{}, content
	}

	var raw map[string]interface{}
	body, err := adrg.MustParse(bytes.NewReader(content), &raw, yamlFormat)
	if err != nil {
		return model.Meta{}, content
	}
	if raw == nil {
		raw = map[string]interface{}{}
	}
	return model.Meta(raw), body
}

// Read parses the preamble of the file at path. Read errors give empty metadata.
func Read(fs afero.Fs, path string) model.Meta {
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return model.Meta{}
	}
	meta, _ := Parse(content)
	return meta
}

// DeriveTitle turns a file or folder name into a display title:
// "getting_started.md" becomes "Getting Started".
func DeriveTitle(name string) string {
	base := filepath.Base(name)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = strings.NewReplacer("_", " ", "-", " ").Replace(stem)
	return cases.Title(language.English).String(stem)
}

// Title returns the explicit title from meta, falling back to DeriveTitle.
func Title(meta model.Meta, filename string) string {
	if v, ok := meta["title"]; ok && v != nil {
		return meta.String("title")
	}
	return DeriveTitle(filename)
}
