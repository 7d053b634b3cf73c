package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureCSV = `title,ingredients,NER,directions,portions,source,link,image
Banana Oat,"banane, avoine, lait","[""banane"", ""avoine"", ""lait""]","Peler la banane. Mixer le tout.",2,TestSource,https://example.com/banana-oat,https://cdn.example/banana.jpg
,,,,,,,
Fraise Coco,"fraise, coco","[""fraise"", ""coco""]","[""Mixer"", ""Servir""]",1,TestSource,not-a-url,
Vert Détox,"épinard; concombre; eau",,"Mixer le tout",1,,,
`

func buildFixture(t *testing.T) *Catalog {
	t.Helper()
	return BuildCatalog(fixtureCSV)
}

func TestBuildCatalogSkipsBlankRows(t *testing.T) {
	c := buildFixture(t)
	require.Len(t, c.Smoothies, 3)

	// blank row does not consume an ordinal
	assert.Equal(t, "sm-1", c.Smoothies[0].ID)
	assert.Equal(t, "sm-2", c.Smoothies[1].ID)
	assert.Equal(t, "sm-3", c.Smoothies[2].ID)
}

func TestBuildCatalogSlugs(t *testing.T) {
	c := buildFixture(t)
	assert.Equal(t, "banana-oat-1", c.Smoothies[0].Slug)
	assert.Equal(t, "fraise-coco-2", c.Smoothies[1].Slug)
	assert.Equal(t, "vert-detox-3", c.Smoothies[2].Slug)

	seen := map[string]bool{}
	for _, s := range c.Smoothies {
		assert.False(t, seen[s.Slug], "duplicate slug %s", s.Slug)
		seen[s.Slug] = true
	}
}

func TestBuildCatalogFields(t *testing.T) {
	c := buildFixture(t)
	s := c.Smoothies[0]

	assert.Equal(t, []string{"banane", "avoine", "lait"}, s.Ingredients)
	assert.Equal(t, []string{"banane", "avoine", "lait"}, s.IngredientLines)
	assert.Equal(t, "Peler la banane", s.DirectionsPreview)
	assert.Equal(t, "https://cdn.example/banana.jpg", s.ImageURL)
	assert.True(t, s.HasImage)
	assert.Equal(t, "https://example.com/banana-oat", s.SourceLink)
	assert.True(t, s.Tags.Lactose)
	assert.False(t, s.Tags.Vegan)
	assert.True(t, s.Tags.Gluten)

	// invalid link is dropped, not kept verbatim
	assert.Equal(t, "", c.Smoothies[1].SourceLink)
	assert.False(t, c.Smoothies[1].HasImage)
}

func TestBuildCatalogIdempotent(t *testing.T) {
	a := BuildCatalog(fixtureCSV)
	b := BuildCatalog(fixtureCSV)
	require.Equal(t, len(a.Smoothies), len(b.Smoothies))
	for i := range a.Smoothies {
		assert.Equal(t, a.Smoothies[i].ID, b.Smoothies[i].ID)
		assert.Equal(t, a.Smoothies[i].Slug, b.Smoothies[i].Slug)
		assert.Equal(t, a.Smoothies[i].PopularityScore, b.Smoothies[i].PopularityScore)
	}
}

func TestPopularityScore(t *testing.T) {
	// 450 rows sharing "banane" push its frequency past the cap
	var b strings.Builder
	b.WriteString("title,ingredients,NER\n")
	for i := 0; i < 450; i++ {
		fmt.Fprintf(&b, "Recette %d,banane,\n", i)
	}
	c := BuildCatalog(b.String())
	require.Len(t, c.Smoothies, 450)

	s := c.Smoothies[0]
	// capped frequency contribution + vegan bonus + lactose-free bonus
	assert.Equal(t, frequencyCap+veganBonus+lactoseFreeBonus, s.PopularityScore)
}

func TestPopularityScoreStoplist(t *testing.T) {
	c := BuildCatalog("title,ingredients,NER\nGlace,\"eau, glace\",\n")
	require.Len(t, c.Smoothies, 1)
	// stoplisted ingredients contribute no frequency score
	assert.Equal(t, veganBonus+lactoseFreeBonus, c.Smoothies[0].PopularityScore)
}

func TestMetaOptions(t *testing.T) {
	var b strings.Builder
	b.WriteString("title,ingredients,NER\n")
	for i := 0; i < optionMinCount; i++ {
		fmt.Fprintf(&b, "Recette %d,\"banane, kiwi\",\n", i)
	}
	// kiwi appears once more so it outranks banane
	b.WriteString("Extra,kiwi,\n")
	c := BuildCatalog(b.String())

	require.Len(t, c.Meta.Ingredients, 2)
	assert.Equal(t, "kiwi", c.Meta.Ingredients[0].Slug)
	assert.Equal(t, optionMinCount+1, c.Meta.Ingredients[0].Count)
	assert.Equal(t, "banane", c.Meta.Ingredients[1].Slug)

	require.Len(t, c.Meta.Presets, 7)
	assert.Equal(t, optionMinCount+1, c.Meta.Total)
}

func TestMetaIngredientFloor(t *testing.T) {
	c := buildFixture(t)
	// every fixture ingredient appears fewer than optionMinCount times
	assert.Empty(t, c.Meta.Ingredients)
}

func TestLookupBySlugAndID(t *testing.T) {
	c := buildFixture(t)

	s, ok := c.BySlug("banana-oat-1")
	require.True(t, ok)
	assert.Equal(t, "sm-1", s.ID)

	// stale slug with a valid ordinal suffix still resolves
	s, ok = c.BySlug("renamed-title-2")
	require.True(t, ok)
	assert.Equal(t, "sm-2", s.ID)

	_, ok = c.BySlug("nothing-here-99")
	assert.False(t, ok)

	s, ok = c.ByID("sm-3")
	require.True(t, ok)
	assert.Equal(t, "vert-detox-3", s.Slug)
}

func TestProviderBuildsOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "smoothies.csv")
	require.NoError(t, os.WriteFile(path, []byte(fixtureCSV), 0644))

	p := NewProvider(path)

	var wg sync.WaitGroup
	catalogs := make([]*Catalog, 8)
	errs := make([]error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			catalogs[i], errs[i] = p.Get()
		}(i)
	}
	wg.Wait()

	for i := 0; i < 8; i++ {
		require.NoError(t, errs[i])
	}
	for i := 1; i < 8; i++ {
		assert.Same(t, catalogs[0], catalogs[i])
	}
}

func TestProviderMissingFile(t *testing.T) {
	p := NewProvider(filepath.Join(t.TempDir(), "missing.csv"))
	_, err := p.Get()
	assert.Error(t, err)
}
