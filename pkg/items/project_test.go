package items

import (
	"slices"
	"testing"

	"deal-notifier-go/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() []models.Item {
	return []models.Item{
		{Title: "Zelda Clone", DiscountedPrice: "₹1,299.00"},
		{Title: "Hazel's Quest", DiscountedPrice: "$4.50"},
		{Title: "Other", IsFree: true, DiscountedPrice: "-"},
		{Title: "apple Farm", DiscountedPrice: "not listed"},
		{Title: "Éclair Run", DiscountedPrice: "12"},
	}
}

func TestProjectIdentity(t *testing.T) {
	list := sample()
	got := Project(list, "", SortNone)
	assert.Equal(t, list, got)
}

func TestProjectDoesNotMutateInput(t *testing.T) {
	list := sample()
	before := slices.Clone(list)

	for _, mode := range []SortMode{SortNone, SortName, SortPriceAsc, SortPriceDesc} {
		_ = Project(list, "", mode)
		_ = Project(list, "e", mode)
	}

	assert.Equal(t, before, list)
}

func TestProjectFilter(t *testing.T) {
	list := []models.Item{
		{Title: "Hazel's Quest"},
		{Title: "Zelda Clone"},
		{Title: "Other"},
	}

	got := Project(list, "zel", SortNone)
	assert.Equal(t, []string{"Hazel's Quest", "Zelda Clone"}, titles(got))

	got = Project(list, "ZEL", SortNone)
	assert.Equal(t, []string{"Hazel's Quest", "Zelda Clone"}, titles(got))

	assert.Empty(t, Project(list, "missing", SortNone))
}

func TestProjectSortByName(t *testing.T) {
	got := Project(sample(), "", SortName)
	// Collation ignores case and folds accents, so "apple" sorts before
	// "Éclair" and "Éclair" before "Hazel".
	assert.Equal(t, []string{"apple Farm", "Éclair Run", "Hazel's Quest", "Other", "Zelda Clone"}, titles(got))
}

func TestProjectSortByPrice(t *testing.T) {
	t.Run("free before paid", func(t *testing.T) {
		list := []models.Item{
			{Title: "Foo", DiscountedPrice: "$19.99"},
			{Title: "Bar", IsFree: true, DiscountedPrice: "-"},
		}
		assert.Equal(t, []string{"Bar", "Foo"}, titles(Project(list, "", SortPriceAsc)))
	})

	t.Run("unknown prices sink in ascending order", func(t *testing.T) {
		got := Project(sample(), "", SortPriceAsc)
		assert.Equal(t, []string{"Other", "Hazel's Quest", "Éclair Run", "Zelda Clone", "apple Farm"}, titles(got))
	})

	t.Run("unknown prices rise in descending order", func(t *testing.T) {
		got := Project(sample(), "", SortPriceDesc)
		assert.Equal(t, []string{"apple Farm", "Zelda Clone", "Éclair Run", "Hazel's Quest", "Other"}, titles(got))
	})

	t.Run("ascending and descending are reverses without ties", func(t *testing.T) {
		asc := Project(sample(), "", SortPriceAsc)
		desc := Project(sample(), "", SortPriceDesc)
		slices.Reverse(desc)
		assert.Equal(t, asc, desc)
	})

	t.Run("ties keep arrival order", func(t *testing.T) {
		list := []models.Item{
			{Title: "first", IsFree: true},
			{Title: "second", DiscountedPrice: "0"},
			{Title: "third", IsFree: true},
		}
		assert.Equal(t, []string{"first", "second", "third"}, titles(Project(list, "", SortPriceAsc)))
		assert.Equal(t, []string{"first", "second", "third"}, titles(Project(list, "", SortPriceDesc)))
	})
}

func TestPrice(t *testing.T) {
	tests := []struct {
		name string
		item models.Item
		want float64
	}{
		{"free ignores price", models.Item{IsFree: true, DiscountedPrice: "$10"}, 0},
		{"currency symbol", models.Item{DiscountedPrice: "$19.99"}, 19.99},
		{"thousands separator", models.Item{DiscountedPrice: "₹1,299.00"}, 1299},
		{"bare number", models.Item{DiscountedPrice: "42"}, 42},
		{"leading dot", models.Item{DiscountedPrice: ".5"}, 0.5},
		{"second dot ends the number", models.Item{DiscountedPrice: "1.2.3"}, 1.2},
		{"zero is a price", models.Item{DiscountedPrice: "0.00"}, 0},
		{"zero with currency is not unknown", models.Item{DiscountedPrice: "$0.00"}, 0},
		{"no digits", models.Item{DiscountedPrice: "-"}, UnknownPrice},
		{"only a dot", models.Item{DiscountedPrice: "."}, UnknownPrice},
		{"empty", models.Item{}, UnknownPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Price(tt.item), 1e-9)
		})
	}
}

func TestParseSortMode(t *testing.T) {
	for _, s := range []string{"none", "name", "price_asc", "price_desc"} {
		m, err := ParseSortMode(s)
		require.NoError(t, err)
		assert.Equal(t, SortMode(s), m)
	}

	m, err := ParseSortMode("")
	require.NoError(t, err)
	assert.Equal(t, SortNone, m)

	_, err = ParseSortMode("price")
	assert.Error(t, err)
}

func TestSortModeNextCycles(t *testing.T) {
	m := SortNone
	seen := []SortMode{m}
	for i := 0; i < 4; i++ {
		m = m.Next()
		seen = append(seen, m)
	}
	assert.Equal(t, []SortMode{SortNone, SortName, SortPriceAsc, SortPriceDesc, SortNone}, seen)
}

func TestViewApply(t *testing.T) {
	v := View{Query: "e", Sort: SortPriceAsc}
	assert.Equal(t, Project(sample(), "e", SortPriceAsc), v.Apply(sample()))
}
