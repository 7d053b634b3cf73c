package dataset

import (
	"strings"

	"smoothie-catalog/internal/pkg/textutil"
)

// Tags holds the seven diet/allergen flags inferred from recipe text.
// The flags are independent, except that Vegan is defined as the absence
// of any disqualifying ingredient. Keyword matching is a heuristic; false
// negatives for indirect references are expected.
type Tags struct {
	Vegan   bool `json:"vegan"`
	Lactose bool `json:"lactose"`
	Nuts    bool `json:"nuts"`
	Peanut  bool `json:"peanut"`
	Soy     bool `json:"soy"`
	Gluten  bool `json:"gluten"`
	Sesame  bool `json:"sesame"`
}

// Keyword lists are matched case- and accent-insensitively by substring
// containment. French terms first since that is the dataset's language;
// English terms cover mixed-language rows.
var (
	dairyKeywords = []string{
		"lait", "lactose", "yaourt", "yogourt", "yogurt", "fromage", "beurre",
		"creme", "kefir", "ricotta", "mascarpone", "milk", "butter", "cheese",
		"cream", "whey", "skyr",
	}
	nonVeganKeywords = []string{
		"miel", "oeuf", "œuf", "gelatine", "honey", "egg", "gelatin",
	}
	nutKeywords = []string{
		"amande", "noisette", "cajou", "pistache", "pecan", "macadamia",
		"noix", "almond", "hazelnut", "cashew", "walnut", "pistachio",
	}
	peanutKeywords = []string{
		"arachide", "cacahuete", "cacahouete", "peanut",
	}
	soyKeywords = []string{
		"soja", "soy", "tofu", "edamame", "tempeh",
	}
	glutenKeywords = []string{
		// "blé" alone is avoided: it is a substring of "blender"
		"avoine", "froment", "orge", "seigle", "gluten", "granola", "biscuit",
		"muesli", "farine", "oat", "wheat", "barley", "rye", "flour",
	}
	sesameKeywords = []string{
		"sesame", "tahini",
	}
)

// ClassifyTags builds a normalized haystack from the ingredient tokens,
// the raw ingredients cell and the joined directions, then tests each
// dimension's keyword list against it.
func ClassifyTags(tokens []string, rawIngredients string, directions []string) Tags {
	var parts []string
	parts = append(parts, tokens...)
	parts = append(parts, rawIngredients)
	parts = append(parts, directions...)
	haystack := textutil.NormalizeForSearch(strings.Join(parts, " "))

	containsAny := func(keywords []string) bool {
		for _, kw := range keywords {
			if strings.Contains(haystack, textutil.NormalizeForSearch(kw)) {
				return true
			}
		}
		return false
	}

	tags := Tags{
		Lactose: containsAny(dairyKeywords),
		Nuts:    containsAny(nutKeywords),
		Peanut:  containsAny(peanutKeywords),
		Soy:     containsAny(soyKeywords),
		Gluten:  containsAny(glutenKeywords),
		Sesame:  containsAny(sesameKeywords),
	}
	tags.Vegan = !tags.Lactose && !containsAny(nonVeganKeywords)
	return tags
}
