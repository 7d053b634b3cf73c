package suggest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"smoothie-catalog/internal/pkg/textutil"
)

const (
	maxQueryTerms = 5
	// tag terms below this count trigger a second pass over the title
	minTagTerms = 3
)

// defaultQuery is used when neither tags nor title yield a single term.
const defaultQuery = "healthy fruit smoothie drink"

// termStoplist drops generic smoothie vocabulary that would not narrow an
// image search.
var termStoplist = map[string]struct{}{
	"smoothie": {}, "smoothies": {}, "recette": {}, "recipe": {},
	"boisson": {}, "drink": {}, "jus": {}, "juice": {}, "lait": {},
	"milk": {}, "yaourt": {}, "yogourt": {}, "yogurt": {}, "glace": {},
	"glacons": {}, "ice": {}, "eau": {}, "water": {}, "sucre": {},
	"sugar": {}, "sans": {}, "avec": {}, "with": {}, "the": {},
	"une": {}, "des": {}, "les": {},
}

// frToEn translates the dataset's French fruit and ingredient names into
// the English terms the photo providers index.
var frToEn = map[string]string{
	"banane": "banana", "fraise": "strawberry", "fraises": "strawberry",
	"framboise": "raspberry", "framboises": "raspberry",
	"myrtille": "blueberry", "myrtilles": "blueberry",
	"mure": "blackberry", "mures": "blackberry",
	"mangue": "mango", "ananas": "pineapple", "peche": "peach",
	"pomme": "apple", "poire": "pear", "cerise": "cherry",
	"cerises": "cherry", "citron": "lemon", "pasteque": "watermelon",
	"melon": "melon", "coco": "coconut", "avocat": "avocado",
	"epinard": "spinach", "epinards": "spinach", "carotte": "carrot",
	"menthe": "mint", "chocolat": "chocolate", "vanille": "vanilla",
	"miel": "honey", "gingembre": "ginger", "concombre": "cucumber",
	"grenade": "pomegranate", "abricot": "apricot", "prune": "plum",
	"raisin": "grape", "raisins": "grape", "kiwi": "kiwi",
	"noisette": "hazelnut", "amande": "almond", "cacao": "cocoa",
}

// BuildQuery derives a provider search query from a record's tags and
// title. Tags are mined first; the title only when the tags yield fewer
// than three usable terms. "smoothie" and "drink" are always appended.
func BuildQuery(title string, tags []string) string {
	var terms []string
	seen := make(map[string]struct{})

	addFrom := func(text string) {
		for _, word := range strings.Fields(textutil.NormalizeForSearch(text)) {
			if len(terms) >= maxQueryTerms {
				return
			}
			if len([]rune(word)) < 3 {
				continue
			}
			if _, stop := termStoplist[word]; stop {
				continue
			}
			if translated, ok := frToEn[word]; ok {
				word = translated
			}
			if _, dup := seen[word]; dup {
				continue
			}
			seen[word] = struct{}{}
			terms = append(terms, word)
		}
	}

	for _, tag := range tags {
		if len(terms) >= maxQueryTerms {
			break
		}
		addFrom(tag)
	}
	if len(terms) < minTagTerms {
		addFrom(title)
	}

	if len(terms) == 0 {
		return defaultQuery
	}

	for _, literal := range []string{"smoothie", "drink"} {
		if _, dup := seen[literal]; !dup {
			seen[literal] = struct{}{}
			terms = append(terms, literal)
		}
	}
	return strings.Join(terms, " ")
}

// CacheKey is a stable hash of the query and requested limit.
func CacheKey(query string, limit int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d", query, limit)))
	return hex.EncodeToString(sum[:])[:16]
}
