package dataset

import (
	"regexp"
	"strings"

	"smoothie-catalog/internal/pkg/common"
	"smoothie-catalog/internal/pkg/textutil"
)

const (
	minTokenLen   = 2
	maxDirections = 8
)

// extractStrategy tries to pull a list of strings out of a raw cell.
// Strategies return nil when they have nothing; callers fall through to
// the next one.
type extractStrategy func(raw string) []string

// firstNonEmpty runs strategies in order and returns the first non-empty
// result.
func firstNonEmpty(raw string, strategies ...extractStrategy) []string {
	for _, strategy := range strategies {
		if out := strategy(raw); len(out) > 0 {
			return out
		}
	}
	return nil
}

// extractJSONArray parses raw as a JSON array of strings. Cells written
// with curly or angled quotes get a second attempt after substitution.
func extractJSONArray(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "[") {
		return nil
	}

	var elems []string
	if err := common.ParseJSON(trimmed, &elems); err != nil {
		elems = nil
		if err := common.ParseJSON(common.ReplaceSmartQuotes(trimmed), &elems); err != nil {
			return nil
		}
	}

	return cleanList(elems, 0)
}

var (
	doubleQuotedPattern = regexp.MustCompile(`"([^"]+)"`)
	guillemetPattern    = regexp.MustCompile(`«([^»]+)»`)
)

// extractQuoted collects "..." and «...» segments from raw.
func extractQuoted(raw string) []string {
	var out []string
	for _, pattern := range []*regexp.Regexp{doubleQuotedPattern, guillemetPattern} {
		for _, m := range pattern.FindAllStringSubmatch(raw, -1) {
			out = append(out, m[1])
		}
	}
	return cleanList(out, 0)
}

// splitDelimited splits raw on any of the given separator runes.
func splitDelimited(raw string, seps string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return strings.ContainsRune(seps, r)
	})
	return cleanList(parts, minTokenLen)
}

// cleanList whitespace-normalizes entries, drops blanks and entries shorter
// than minLen, and deduplicates by folded form keeping first-seen order.
func cleanList(entries []string, minLen int) []string {
	var out []string
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		entry = textutil.NormalizeWhitespace(entry)
		if entry == "" || len([]rune(entry)) < minLen {
			continue
		}
		key := textutil.NormalizeForSearch(entry)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, entry)
	}
	return out
}

// ParseIngredientTokens extracts normalized ingredient tokens from the raw
// ingredients cell and the optional named-entity cell. The NER cell wins
// when it parses; the ingredients cell is the last resort.
func ParseIngredientTokens(ingredientsCell, nerCell string) []string {
	if tokens := firstNonEmpty(nerCell, extractJSONArray, extractQuoted); len(tokens) > 0 {
		return tokens
	}
	return splitDelimited(ingredientsCell, ";,")
}

// ParseIngredientLines extracts the human-readable ingredient display
// strings. Quoted segments of the raw cell are preferred; a delimiter split
// is used only when it yields at least two parts; otherwise the token list
// is reused.
func ParseIngredientLines(ingredientsCell string, tokens []string) []string {
	if lines := extractQuoted(ingredientsCell); len(lines) > 0 {
		return lines
	}
	if parts := splitDelimited(ingredientsCell, ",;"); len(parts) >= 2 {
		return parts
	}
	return tokens
}

// ParseDirections extracts preparation steps, capped at 8 entries.
func ParseDirections(directionsCell string) []string {
	steps := firstNonEmpty(directionsCell,
		extractJSONArray,
		extractQuoted,
		func(raw string) []string { return splitDelimited(raw, ".;•") },
	)
	if len(steps) > maxDirections {
		steps = steps[:maxDirections]
	}
	return steps
}

// imageURLPattern matches absolute or root-relative paths ending in a
// common image extension, with an optional query string.
var imageURLPattern = regexp.MustCompile(`(?i)(https?://[^\s"'<>]+?|/[^\s"'<>]+?)\.(jpe?g|png|gif|webp|avif)(\?[^\s"'<>]*)?`)

// imagePriorityColumns are scanned first, in order, for an embedded image
// URL before falling back to every column value.
var imagePriorityColumns = []string{"image", "image_url", "img", "photo", "picture", "thumbnail"}

// FindImageURL scans a row for the first embedded image URL. Named image
// columns take priority over a full-row scan.
func FindImageURL(header []string, row []string) string {
	lower := make([]string, len(header))
	for i, h := range header {
		lower[i] = strings.ToLower(strings.TrimSpace(h))
	}

	for _, name := range imagePriorityColumns {
		for i, h := range lower {
			if h != name {
				continue
			}
			if m := imageURLPattern.FindString(fieldAt(row, i)); m != "" {
				return m
			}
		}
	}

	for _, value := range row {
		if m := imageURLPattern.FindString(value); m != "" {
			return m
		}
	}
	return ""
}
