package dataset

import (
	"sort"
	"strings"

	"smoothie-catalog/internal/pkg/textutil"
)

const (
	defaultLimit = 24
	maxLimit     = 60
)

// Query holds the filter/sort/pagination parameters of a list request.
type Query struct {
	// Text is a free-text query; every whitespace-separated term must be
	// a substring of the record's search blob (AND semantics).
	Text string
	// ExcludeIngredients drops records containing any of these ingredient
	// slugs.
	ExcludeIngredients []string
	// ExcludePresets drops records matching any of these preset keys.
	ExcludePresets []string
	// IDs restricts the result to an explicit id allow-list when non-empty.
	IDs []string
	// Sort is one of "random", "rating" or "name"; anything else falls
	// back to "rating".
	Sort string
	// Seed drives the deterministic random ordering.
	Seed   string
	Offset int
	Limit  int
}

// QueryResult is one page of records plus the continuation cursor.
type QueryResult struct {
	Items      []*Smoothie `json:"items"`
	Total      int         `json:"total"`
	Offset     int         `json:"offset"`
	NextOffset *int        `json:"nextOffset"`
	Limit      int         `json:"limit"`
}

// fnv1a32 hashes s with the 32-bit FNV-1a function.
func fnv1a32(s string) uint32 {
	const (
		offset32 = 2166136261
		prime32  = 16777619
	)
	h := uint32(offset32)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= prime32
	}
	return h
}

// Run filters, orders and paginates the catalog. The catalog itself never
// mutates, so the returned cursor stays stable across calls.
func (c *Catalog) Run(q Query) QueryResult {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	matched := c.filter(q)
	c.order(matched, q)

	total := len(matched)
	result := QueryResult{
		Total:  total,
		Offset: offset,
		Limit:  limit,
	}

	if offset < total {
		end := offset + limit
		if end > total {
			end = total
		}
		result.Items = matched[offset:end]
		if end < total {
			next := end
			result.NextOffset = &next
		}
	}
	if result.Items == nil {
		result.Items = []*Smoothie{}
	}
	return result
}

func (c *Catalog) filter(q Query) []*Smoothie {
	var allowed map[string]struct{}
	if len(q.IDs) > 0 {
		allowed = make(map[string]struct{}, len(q.IDs))
		for _, id := range q.IDs {
			allowed[id] = struct{}{}
		}
	}

	var terms []string
	for _, term := range strings.Fields(q.Text) {
		terms = append(terms, textutil.NormalizeForSearch(term))
	}

	excluded := make(map[string]struct{}, len(q.ExcludeIngredients))
	for _, slug := range q.ExcludeIngredients {
		excluded[textutil.Slugify(slug)] = struct{}{}
	}

	matched := make([]*Smoothie, 0, len(c.Smoothies))
outer:
	for _, s := range c.Smoothies {
		if allowed != nil {
			if _, ok := allowed[s.ID]; !ok {
				continue
			}
		}
		for _, term := range terms {
			if !strings.Contains(s.searchBlob, term) {
				continue outer
			}
		}
		for _, slug := range s.ingredientSlugs {
			if _, ok := excluded[slug]; ok {
				continue outer
			}
		}
		for _, preset := range q.ExcludePresets {
			if matchesPreset(s.Tags, preset) {
				continue outer
			}
		}
		matched = append(matched, s)
	}
	return matched
}

func (c *Catalog) order(matched []*Smoothie, q Query) {
	switch q.Sort {
	case "random":
		keys := make(map[string]uint32, len(matched))
		for _, s := range matched {
			keys[s.ID] = fnv1a32(q.Seed + ":" + s.ID)
		}
		sort.SliceStable(matched, func(i, j int) bool {
			if keys[matched[i].ID] != keys[matched[j].ID] {
				return keys[matched[i].ID] < keys[matched[j].ID]
			}
			return matched[i].sortName < matched[j].sortName
		})
	case "name":
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].sortName < matched[j].sortName
		})
	default: // "rating"
		sort.SliceStable(matched, func(i, j int) bool {
			if matched[i].PopularityScore != matched[j].PopularityScore {
				return matched[i].PopularityScore > matched[j].PopularityScore
			}
			return matched[i].sortName < matched[j].sortName
		})
	}
}
