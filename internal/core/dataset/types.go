package dataset

// Smoothie is one recipe record. Records are immutable after the catalog
// build; everything exported here is safe for concurrent reads.
type Smoothie struct {
	ID                string   `json:"id"`
	Slug              string   `json:"slug"`
	Title             string   `json:"title"`
	Source            string   `json:"source,omitempty"`
	SourceLink        string   `json:"sourceLink,omitempty"`
	Portions          string   `json:"portions,omitempty"`
	Ingredients       []string `json:"ingredients"`
	IngredientLines   []string `json:"ingredientLines"`
	Directions        []string `json:"directions"`
	DirectionsPreview string   `json:"directionsPreview,omitempty"`
	ImageURL          string   `json:"imageUrl,omitempty"`
	HasImage          bool     `json:"hasImage"`
	Tags              Tags     `json:"tags"`
	PopularityScore   int      `json:"popularityScore"`

	// internal fields used by the query engine
	searchBlob      string
	ingredientSlugs []string
	sortName        string
}

// PresetOption is a filter chip for one diet/allergen preset.
type PresetOption struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Count       int    `json:"count"`
}

// IngredientOption is a filter chip for a popular ingredient.
type IngredientOption struct {
	Slug  string `json:"slug"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Meta is the precomputed dataset summary exposed to the UI.
type Meta struct {
	Total       int                `json:"total"`
	WithImages  int                `json:"withImages"`
	Presets     []PresetOption     `json:"presets"`
	Ingredients []IngredientOption `json:"ingredients"`
}
