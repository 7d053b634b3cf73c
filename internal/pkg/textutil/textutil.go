// Package textutil provides the locale-aware string folding used across
// the catalog: whitespace collapsing, accent stripping and slug generation.
// All matching, search and sort-key comparisons go through these helpers so
// that "Pêche" and "peche" are equivalent.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxSlugLen bounds generated slugs.
const maxSlugLen = 64

// defaultSlug is used when a title folds down to nothing.
const defaultSlug = "smoothie"

// accentFolder decomposes accented characters and drops the combining marks.
var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeWhitespace collapses runs of whitespace (including non-breaking
// spaces) to single spaces and trims the ends.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// FoldAccents strips diacritical marks: "Pêche" becomes "Peche".
// Returns the input unchanged if the transform fails.
func FoldAccents(s string) string {
	folded, _, err := transform.String(accentFolder, s)
	if err != nil {
		return s
	}
	return folded
}

// NormalizeForSearch folds accents, lowercases and collapses whitespace.
func NormalizeForSearch(s string) string {
	return strings.ToLower(FoldAccents(NormalizeWhitespace(s)))
}

// Slugify converts s into a URL-safe slug: normalized, non-alphanumeric
// runs replaced by single hyphens, at most 64 characters, never empty.
func Slugify(s string) string {
	normalized := NormalizeForSearch(s)

	var b strings.Builder
	b.Grow(len(normalized))
	lastHyphen := true // suppress a leading hyphen
	for _, r := range normalized {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	slug := strings.Trim(b.String(), "-")
	if len(slug) > maxSlugLen {
		slug = strings.Trim(slug[:maxSlugLen], "-")
	}
	if slug == "" {
		return defaultSlug
	}
	return slug
}
