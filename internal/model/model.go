package model

import (
	"maps"

	"github.com/spf13/cast"
)

// Meta is the decoded front-matter of a single markdown document.
type Meta map[string]interface{}

// Has reports whether key is present, even with a nil value.
func (m Meta) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// String returns the value of key coerced to a string, or "" when the key is
// missing or holds something that has no string form (maps, lists).
func (m Meta) String(key string) string {
	s, err := cast.ToStringE(m[key])
	if err != nil {
		return ""
	}
	return s
}

// Number returns the value of key when it was decoded as a YAML number.
// Numeric strings and booleans are not numbers here.
func (m Meta) Number(key string) (float64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		f, err := cast.ToFloat64E(v)
		return f, err == nil
	}
	return 0, false
}

// Clone returns a shallow copy; a nil Meta clones to an empty one.
func (m Meta) Clone() Meta {
	if m == nil {
		return Meta{}
	}
	return maps.Clone(m)
}
