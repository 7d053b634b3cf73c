package dataset

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// queryFixture builds a catalog large enough to paginate over.
func queryFixture(t *testing.T) *Catalog {
	t.Helper()
	var b strings.Builder
	b.WriteString("title,ingredients,NER\n")
	for i := 0; i < 50; i++ {
		ingredient := "banane"
		if i%2 == 0 {
			ingredient = "fraise"
		}
		extra := ""
		if i%5 == 0 {
			extra = ", lait"
		}
		fmt.Fprintf(&b, "Recette %02d,\"%s%s\",\n", i, ingredient, extra)
	}
	c := BuildCatalog(b.String())
	require.Len(t, c.Smoothies, 50)
	return c
}

func TestRunNoFiltersReturnsAll(t *testing.T) {
	c := queryFixture(t)
	res := c.Run(Query{Limit: 60})

	assert.Equal(t, 50, res.Total)
	assert.Len(t, res.Items, 50)
	assert.Nil(t, res.NextOffset)

	seen := map[string]bool{}
	for _, s := range res.Items {
		assert.False(t, seen[s.ID], "duplicate id %s", s.ID)
		seen[s.ID] = true

		found, ok := c.BySlug(s.Slug)
		require.True(t, ok)
		assert.Equal(t, s.ID, found.ID)
	}
}

func TestRunLimitDefaultsAndClamps(t *testing.T) {
	c := queryFixture(t)

	res := c.Run(Query{})
	assert.Equal(t, 24, res.Limit)
	assert.Len(t, res.Items, 24)

	res = c.Run(Query{Limit: 500})
	assert.Equal(t, 60, res.Limit)

	res = c.Run(Query{Limit: -3})
	assert.Equal(t, 24, res.Limit)
}

func TestRunTextSearchANDSemantics(t *testing.T) {
	c := queryFixture(t)

	res := c.Run(Query{Text: "fraise lait", Limit: 60})
	require.NotEmpty(t, res.Items)
	for _, s := range res.Items {
		assert.Contains(t, s.searchBlob, "fraise")
		assert.Contains(t, s.searchBlob, "lait")
	}

	// accent-insensitive matching
	withAccent := c.Run(Query{Text: "FRAISÉ", Limit: 60})
	assert.Equal(t, c.Run(Query{Text: "fraise", Limit: 60}).Total, withAccent.Total)
}

func TestRunExcludeIngredients(t *testing.T) {
	c := queryFixture(t)
	res := c.Run(Query{ExcludeIngredients: []string{"lait"}, Limit: 60})
	require.NotEmpty(t, res.Items)
	for _, s := range res.Items {
		assert.NotContains(t, s.ingredientSlugs, "lait")
	}
	assert.Equal(t, 40, res.Total)
}

func TestRunExcludePresets(t *testing.T) {
	c := queryFixture(t)

	res := c.Run(Query{ExcludePresets: []string{"lactose"}, Limit: 60})
	for _, s := range res.Items {
		assert.False(t, s.Tags.Lactose)
	}

	// the vegan preset excludes non-vegan records
	res = c.Run(Query{ExcludePresets: []string{"vegan"}, Limit: 60})
	for _, s := range res.Items {
		assert.True(t, s.Tags.Vegan)
	}
}

func TestRunIDAllowList(t *testing.T) {
	c := queryFixture(t)
	res := c.Run(Query{IDs: []string{"sm-3", "sm-7", "sm-41"}, Limit: 60})
	assert.Equal(t, 3, res.Total)
}

func TestRunRandomSortDeterministic(t *testing.T) {
	c := queryFixture(t)

	first := c.Run(Query{Sort: "random", Seed: "alpha", Limit: 60})
	second := c.Run(Query{Sort: "random", Seed: "alpha", Limit: 60})
	require.Equal(t, len(first.Items), len(second.Items))
	for i := range first.Items {
		assert.Equal(t, first.Items[i].ID, second.Items[i].ID)
	}

	other := c.Run(Query{Sort: "random", Seed: "beta", Limit: 60})
	different := false
	for i := range first.Items {
		if first.Items[i].ID != other.Items[i].ID {
			different = true
			break
		}
	}
	assert.True(t, different, "different seeds should reorder")
}

func TestRunRatingSort(t *testing.T) {
	c := queryFixture(t)
	res := c.Run(Query{Sort: "rating", Limit: 60})
	for i := 1; i < len(res.Items); i++ {
		assert.GreaterOrEqual(t, res.Items[i-1].PopularityScore, res.Items[i].PopularityScore)
	}
}

func TestRunNameSort(t *testing.T) {
	c := queryFixture(t)
	res := c.Run(Query{Sort: "name", Limit: 60})
	for i := 1; i < len(res.Items); i++ {
		assert.LessOrEqual(t, res.Items[i-1].sortName, res.Items[i].sortName)
	}
}

func TestRunPaginationExhaustive(t *testing.T) {
	c := queryFixture(t)

	full := c.Run(Query{Sort: "random", Seed: "walk", Limit: 60})
	require.Equal(t, 50, len(full.Items))

	var collected []string
	offset := 0
	for {
		page := c.Run(Query{Sort: "random", Seed: "walk", Offset: offset, Limit: 7})
		for _, s := range page.Items {
			collected = append(collected, s.ID)
		}
		if page.NextOffset == nil {
			break
		}
		offset = *page.NextOffset
	}

	require.Len(t, collected, 50)
	for i, s := range full.Items {
		assert.Equal(t, s.ID, collected[i])
	}
}

func TestRunOffsetPastEnd(t *testing.T) {
	c := queryFixture(t)
	res := c.Run(Query{Offset: 1000, Limit: 10})
	assert.Empty(t, res.Items)
	assert.Nil(t, res.NextOffset)
	assert.Equal(t, 50, res.Total)
}

func TestFNV1a32KnownValues(t *testing.T) {
	// standard FNV-1a test vectors
	assert.Equal(t, uint32(0x811c9dc5), fnv1a32(""))
	assert.Equal(t, uint32(0xe40c292c), fnv1a32("a"))
	assert.Equal(t, uint32(0xbf9cf968), fnv1a32("foobar"))
}
