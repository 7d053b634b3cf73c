package textutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeWhitespace(t *testing.T) {
	assert.Equal(t, "banane et fraise", NormalizeWhitespace("  banane \t et  fraise \n"))
	assert.Equal(t, "", NormalizeWhitespace("    \t "))
}

func TestNormalizeForSearch(t *testing.T) {
	assert.Equal(t, "peche", NormalizeForSearch("Pêche"))
	assert.Equal(t, "creme fraiche", NormalizeForSearch("  Crème   Fraîche "))
	assert.Equal(t, "acai a la francaise", NormalizeForSearch("Açaí à la française"))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "smoothie-banane-fraise", Slugify("Smoothie Banane & Fraise!"))
	assert.Equal(t, "peche-melba", Slugify("Pêche   Melba"))

	// non-alphanumeric runs collapse to single hyphens
	assert.Equal(t, "a-b", Slugify("a---//--b"))

	// empty or symbol-only titles fall back to the default
	assert.Equal(t, "smoothie", Slugify(""))
	assert.Equal(t, "smoothie", Slugify("!!! ???"))
}

func TestSlugifyTruncates(t *testing.T) {
	slug := Slugify(strings.Repeat("banane ", 30))
	assert.LessOrEqual(t, len(slug), 64)
	assert.False(t, strings.HasSuffix(slug, "-"))
	assert.False(t, strings.HasPrefix(slug, "-"))
}
