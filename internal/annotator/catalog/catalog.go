// Package catalog holds the emoji pattern catalog: the bundled
// emoji-to-description table plus an optional override lookup. Patterns are
// exact unicode strings; descriptions resolve override-first.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	apperrors "github.com/annotext/emoji-annotation-platform/pkg/errors"
)

// Bundled emoji table mapping emoji unicode strings to shortcode-style
// descriptions (":thumbs_up_dark_skin_tone:").
//
//go:embed emoji.json
var baseTableJSON []byte

// Catalog is an immutable pattern set shared read-only across documents.
type Catalog struct {
	descs    map[string]string
	patterns []string
	maxLen   int // longest pattern, in codepoints
}

// New builds a Catalog from the bundled table with the given override
// lookup merged on top. Override keys absent from the bundled table are
// valid patterns in their own right.
func New(lookup map[string]string) (*Catalog, error) {
	var base map[string]string
	if err := json.Unmarshal(baseTableJSON, &base); err != nil {
		return nil, fmt.Errorf("parsing bundled emoji table: %w", err)
	}
	return NewFromTable(base, lookup), nil
}

// NewFromTable builds a Catalog from an explicit base table, for callers
// that supply their own data source. Whitespace inside multi-codepoint base
// keys is stripped, and shortcode-style base descriptions are normalised
// (":man_cook:" becomes "man cook"). Override descriptions are kept verbatim.
func NewFromTable(base map[string]string, lookup map[string]string) *Catalog {
	descs := make(map[string]string, len(base)+len(lookup))
	for key, desc := range base {
		key = strings.ReplaceAll(key, " ", "")
		if key == "" {
			continue
		}
		descs[key] = normalizeDesc(desc)
	}
	for key, desc := range lookup {
		if key == "" {
			continue
		}
		descs[key] = desc
	}

	patterns := make([]string, 0, len(descs))
	maxLen := 0
	for key := range descs {
		patterns = append(patterns, key)
		if n := utf8.RuneCountInString(key); n > maxLen {
			maxLen = n
		}
	}
	// Sorted for a deterministic match order across catalog instances.
	sort.Strings(patterns)

	return &Catalog{descs: descs, patterns: patterns, maxLen: maxLen}
}

// Patterns returns the distinct pattern strings in a deterministic order.
// The returned slice must not be modified.
func (c *Catalog) Patterns() []string {
	return c.patterns
}

// Has reports whether s is a pattern in the catalog.
func (c *Catalog) Has(s string) bool {
	_, ok := c.descs[s]
	return ok
}

// Describe resolves the description for an emoji string. Strings returned
// by Patterns always resolve; anything else fails with
// errors.ErrDescriptionNotFound.
func (c *Catalog) Describe(s string) (string, error) {
	desc, ok := c.descs[s]
	if !ok {
		return "", fmt.Errorf("%w: %q", apperrors.ErrDescriptionNotFound, s)
	}
	return desc, nil
}

// MaxPatternLen returns the length in codepoints of the longest pattern.
// It bounds how many consecutive tokens the matcher needs to consider.
func (c *Catalog) MaxPatternLen() int {
	return c.maxLen
}

// Size returns the number of distinct patterns.
func (c *Catalog) Size() int {
	return len(c.patterns)
}

// normalizeDesc converts a shortcode-style table value to a plain
// description: ":smiling_cat_face_with_heart-eyes:" becomes
// "smiling cat face with heart-eyes". Plain values pass through unchanged.
func normalizeDesc(desc string) string {
	desc = strings.ReplaceAll(desc, "_", " ")
	return strings.ReplaceAll(desc, ":", "")
}
