package dataset

import (
	"fmt"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"smoothie-catalog/internal/pkg/common"
	"smoothie-catalog/internal/pkg/textutil"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Scoring and option-list constants. These reproduce the tuning the
// catalog shipped with; no deeper derivation exists for the values.
const (
	frequencyCap         = 400
	veganBonus           = 40
	lactoseFreeBonus     = 25
	imageBonus           = 10
	optionMinCount       = 35
	maxIngredientOptions = 36
)

// presetDef describes one diet/allergen preset and how a record matches it
// (matching means "problematic": the preset chip excludes matching records).
type presetDef struct {
	Key         string
	Label       string
	Description string
	Matches     func(Tags) bool
}

var presetDefs = []presetDef{
	{"vegan", "Non végan", "Contient un ingrédient d'origine animale", func(t Tags) bool { return !t.Vegan }},
	{"lactose", "Lactose", "Contient du lait ou un produit laitier", func(t Tags) bool { return t.Lactose }},
	{"nuts", "Fruits à coque", "Contient des fruits à coque", func(t Tags) bool { return t.Nuts }},
	{"peanut", "Arachide", "Contient de l'arachide", func(t Tags) bool { return t.Peanut }},
	{"soy", "Soja", "Contient du soja", func(t Tags) bool { return t.Soy }},
	{"gluten", "Gluten", "Contient une céréale avec gluten", func(t Tags) bool { return t.Gluten }},
	{"sesame", "Sésame", "Contient du sésame", func(t Tags) bool { return t.Sesame }},
}

// matchesPreset reports whether a record matches the preset's problematic
// direction. Unknown keys never match.
func matchesPreset(tags Tags, key string) bool {
	for _, def := range presetDefs {
		if def.Key == key {
			return def.Matches(tags)
		}
	}
	return false
}

// frequencyStoplist keeps non-informative tokens (ice, water, measures)
// out of the ingredient frequency table and the option chips.
var frequencyStoplist = map[string]struct{}{
	"eau": {}, "water": {}, "glace": {}, "glacon": {}, "glacons": {},
	"ice": {}, "tasse": {}, "cup": {}, "cuillere": {}, "ml": {}, "cl": {},
	"g": {}, "gramme": {}, "grammes": {}, "verre": {}, "pincee": {},
}

// Catalog is the immutable in-memory dataset: all records in load order
// plus the slug and id indexes and the precomputed meta.
type Catalog struct {
	Smoothies []*Smoothie
	Meta      Meta

	bySlug map[string]*Smoothie
	byID   map[string]*Smoothie
}

// columnIndex records where the columns the builder reads by name landed.
type columnIndex struct {
	title, ingredients, ner, directions, portions, source, link int
}

func indexColumns(header []string) columnIndex {
	idx := columnIndex{-1, -1, -1, -1, -1, -1, -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "title":
			idx.title = i
		case "ingredients":
			idx.ingredients = i
		case "ner":
			idx.ner = i
		case "directions":
			idx.directions = i
		case "portions", "servings":
			idx.portions = i
		case "source":
			idx.source = i
		case "link", "url":
			idx.link = i
		}
	}
	return idx
}

// validateLink keeps only absolute http(s) URLs.
func validateLink(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}
	return raw
}

// BuildCatalog parses raw CSV text into a catalog. The first row is the
// header; blank rows are skipped entirely and do not consume an ordinal.
func BuildCatalog(csvText string) *Catalog {
	rows := ParseCSV(csvText)
	catalog := &Catalog{
		bySlug: make(map[string]*Smoothie),
		byID:   make(map[string]*Smoothie),
	}
	if len(rows) == 0 {
		return catalog
	}

	header := rows[0]
	idx := indexColumns(header)

	frequency := make(map[string]int)
	ingredientLabels := make(map[string]string)

	for _, row := range rows[1:] {
		if rowIsBlank(row) {
			continue
		}

		title := textutil.NormalizeWhitespace(fieldAt(row, idx.title))
		rawIngredients := fieldAt(row, idx.ingredients)
		tokens := ParseIngredientTokens(rawIngredients, fieldAt(row, idx.ner))
		directions := ParseDirections(fieldAt(row, idx.directions))

		// ordinal counts accepted records, not raw row positions
		ordinal := len(catalog.Smoothies) + 1

		s := &Smoothie{
			ID:              fmt.Sprintf("sm-%d", ordinal),
			Slug:            fmt.Sprintf("%s-%d", textutil.Slugify(title), ordinal),
			Title:           title,
			Source:          textutil.NormalizeWhitespace(fieldAt(row, idx.source)),
			SourceLink:      validateLink(fieldAt(row, idx.link)),
			Portions:        textutil.NormalizeWhitespace(fieldAt(row, idx.portions)),
			Ingredients:     tokens,
			IngredientLines: ParseIngredientLines(rawIngredients, tokens),
			Directions:      directions,
			ImageURL:        FindImageURL(header, row),
			Tags:            ClassifyTags(tokens, rawIngredients, directions),
		}
		if len(directions) > 0 {
			s.DirectionsPreview = directions[0]
		}
		s.HasImage = s.ImageURL != ""
		s.sortName = textutil.NormalizeForSearch(title)

		s.ingredientSlugs = make([]string, 0, len(tokens))
		for _, token := range tokens {
			slug := textutil.Slugify(token)
			s.ingredientSlugs = append(s.ingredientSlugs, slug)
			if _, stop := frequencyStoplist[slug]; stop {
				continue
			}
			frequency[slug]++
			if _, ok := ingredientLabels[slug]; !ok {
				ingredientLabels[slug] = token
			}
		}

		var blob []string
		blob = append(blob, title, s.Source, s.Portions)
		blob = append(blob, tokens...)
		blob = append(blob, s.IngredientLines...)
		blob = append(blob, directions...)
		s.searchBlob = textutil.NormalizeForSearch(strings.Join(blob, " "))

		catalog.Smoothies = append(catalog.Smoothies, s)
		catalog.bySlug[s.Slug] = s
		catalog.byID[s.ID] = s
	}

	// second pass: popularity from global ingredient frequency
	withImages := 0
	presetCounts := make(map[string]int, len(presetDefs))
	for _, s := range catalog.Smoothies {
		score := 0
		for _, slug := range s.ingredientSlugs {
			if freq := frequency[slug]; freq > 0 {
				score += min(freq, frequencyCap)
			}
		}
		if s.Tags.Vegan {
			score += veganBonus
		}
		if !s.Tags.Lactose {
			score += lactoseFreeBonus
		}
		if s.HasImage {
			score += imageBonus
			withImages++
		}
		s.PopularityScore = score

		for _, def := range presetDefs {
			if def.Matches(s.Tags) {
				presetCounts[def.Key]++
			}
		}
	}

	catalog.Meta = buildMeta(catalog, withImages, presetCounts, frequency, ingredientLabels)
	return catalog
}

func buildMeta(catalog *Catalog, withImages int, presetCounts map[string]int, frequency map[string]int, labels map[string]string) Meta {
	meta := Meta{
		Total:      len(catalog.Smoothies),
		WithImages: withImages,
	}

	for _, def := range presetDefs {
		meta.Presets = append(meta.Presets, PresetOption{
			Key:         def.Key,
			Label:       def.Label,
			Description: def.Description,
			Count:       presetCounts[def.Key],
		})
	}
	sort.SliceStable(meta.Presets, func(i, j int) bool {
		if meta.Presets[i].Count != meta.Presets[j].Count {
			return meta.Presets[i].Count > meta.Presets[j].Count
		}
		return meta.Presets[i].Label < meta.Presets[j].Label
	})

	for slug, count := range frequency {
		if count < optionMinCount {
			continue
		}
		meta.Ingredients = append(meta.Ingredients, IngredientOption{
			Slug:  slug,
			Label: labels[slug],
			Count: count,
		})
	}
	sort.SliceStable(meta.Ingredients, func(i, j int) bool {
		if meta.Ingredients[i].Count != meta.Ingredients[j].Count {
			return meta.Ingredients[i].Count > meta.Ingredients[j].Count
		}
		return meta.Ingredients[i].Label < meta.Ingredients[j].Label
	})
	if len(meta.Ingredients) > maxIngredientOptions {
		meta.Ingredients = meta.Ingredients[:maxIngredientOptions]
	}

	return meta
}

// ByID looks a record up by its synthetic identifier.
func (c *Catalog) ByID(id string) (*Smoothie, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// BySlug looks a record up by slug. When the slug is unknown but ends in a
// numeric suffix, the suffix is reinterpreted as the record ordinal so stale
// links survive title edits.
func (c *Catalog) BySlug(slug string) (*Smoothie, bool) {
	if s, ok := c.bySlug[slug]; ok {
		return s, true
	}
	if i := strings.LastIndexByte(slug, '-'); i >= 0 {
		if n, err := strconv.Atoi(slug[i+1:]); err == nil && n > 0 {
			if s, ok := c.byID[fmt.Sprintf("sm-%d", n)]; ok {
				return s, true
			}
		}
	}
	return nil, false
}

// Provider builds the catalog lazily, exactly once for the process
// lifetime. Concurrent first callers share a single in-flight build;
// a failed build is not memoized.
type Provider struct {
	path string

	group   singleflight.Group
	mu      sync.RWMutex
	catalog *Catalog
}

// NewProvider creates a provider for the dataset at path.
func NewProvider(path string) *Provider {
	return &Provider{path: path}
}

// Get returns the catalog, building it on first use.
func (p *Provider) Get() (*Catalog, error) {
	p.mu.RLock()
	if c := p.catalog; c != nil {
		p.mu.RUnlock()
		return c, nil
	}
	p.mu.RUnlock()

	v, err, _ := p.group.Do("catalog", func() (interface{}, error) {
		p.mu.RLock()
		if c := p.catalog; c != nil {
			p.mu.RUnlock()
			return c, nil
		}
		p.mu.RUnlock()

		data, err := os.ReadFile(p.path)
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset: %w", err)
		}
		catalog := BuildCatalog(string(data))

		common.LogInfo("catalog built",
			zap.String("path", p.path),
			zap.Int("records", catalog.Meta.Total),
			zap.Int("with_images", catalog.Meta.WithImages),
			zap.Int("ingredient_options", len(catalog.Meta.Ingredients)),
		)

		p.mu.Lock()
		p.catalog = catalog
		p.mu.Unlock()
		return catalog, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Catalog), nil
}
