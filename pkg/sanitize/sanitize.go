// Package sanitize strips markup from user-supplied free text before it is
// stored or shown to other users. Descriptions, notes and bios are plain text
// in this system; anything that looks like HTML is hostile input.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict allows no elements at all. Safe for concurrent use.
var strict = bluemonday.StrictPolicy()

// Text removes all HTML from s, restores escaped entities back to plain
// characters, and trims surrounding whitespace.
func Text(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// Slice applies Text to every element, dropping entries that end up empty.
func Slice(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if cleaned := Text(s); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
