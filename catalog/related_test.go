package catalog_test

import (
	"testing"

	"github.com/kitcomfeedback-cell/kitchen-store/catalog"
	"github.com/kitcomfeedback-cell/kitchen-store/catalog/catalogtest"
	"github.com/kitcomfeedback-cell/kitchen-store/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelatedWidensBySubcategoryCategoryThenKeywords(t *testing.T) {
	snap := catalog.NewSnapshot(catalogtest.Kitchen())
	spoon, ok := snap.Product("sp-1")
	require.True(t, ok)

	related := catalog.Related(snap, spoon, catalog.RelatedLimit)
	assert.Equal(t, []string{"sp-2", "sp-3", "kn-1", "kn-2"}, models.ProductIDs(related))
}

func TestRelatedKeywordFallback(t *testing.T) {
	snap := catalog.NewSnapshot(catalogtest.Build(
		catalogtest.Sub{Category: "A", Name: "Lonely", Products: []models.CatalogProduct{
			catalogtest.Product("x", "Glass Bottle", 1),
		}},
		catalogtest.Sub{Category: "B", Name: "Other", Products: []models.CatalogProduct{
			catalogtest.Product("y", "Steel Pan", 1),
			catalogtest.Product("z", "Glass Bottle Brush", 1),
			catalogtest.Product("w", "Glass Jar", 1),
		}},
	))
	x, _ := snap.Product("x")

	// two shared words outrank one
	related := catalog.Related(snap, x, 0)
	assert.Equal(t, []string{"z", "w"}, models.ProductIDs(related))
}

func TestRelatedLimit(t *testing.T) {
	snap := catalog.NewSnapshot(catalogtest.Kitchen())
	item, ok := snap.Product("it-000")
	require.True(t, ok)

	related := catalog.Related(snap, item, 5)
	assert.Equal(t, []string{"it-001", "it-002", "it-003", "it-004", "it-005"}, models.ProductIDs(related))
	for _, p := range catalog.Related(snap, item, 0) {
		assert.NotEqual(t, item.ID, p.ID)
	}
}

func TestDetailFillsMissingFields(t *testing.T) {
	snap := catalog.NewSnapshot(catalogtest.Kitchen())
	pot, ok := snap.Product("cw-3")
	require.True(t, ok)
	require.Nil(t, pot.Price)

	detail := catalog.Detail(pot)
	require.NotNil(t, detail.Price)
	assert.Zero(t, *detail.Price)
	require.NotNil(t, detail.Image)
	assert.Equal(t, catalog.PlaceholderImage, *detail.Image)
	assert.Equal(t, catalog.DefaultCurrency, detail.Currency)

	// the snapshot entry is not modified
	again, _ := snap.Product("cw-3")
	assert.Nil(t, again.Price)
}

func TestCardBadges(t *testing.T) {
	price := 150.0
	tests := []struct {
		id       string
		tag      string
		cut      float64
		save     int
		hasPromo bool
	}{
		{id: "f", tag: "Sale", cut: 210, save: 29, hasPromo: true},
		{id: "a", tag: "20% Off", cut: 180, save: 17, hasPromo: true},
		{id: "b", tag: "30% Off", cut: 195, save: 23, hasPromo: true},
		{id: "c", tag: "Hot"},
		{id: "d", tag: "New"},
		{id: "e", tag: ""},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			card := catalog.Card(models.Product{ID: tt.id, Title: "x", Price: &price})
			assert.Equal(t, tt.tag, card.Tag)
			if !tt.hasPromo {
				assert.Nil(t, card.CutPrice)
				assert.Zero(t, card.SavePercent)
				return
			}
			require.NotNil(t, card.CutPrice)
			assert.Equal(t, tt.cut, *card.CutPrice)
			assert.Equal(t, tt.save, card.SavePercent)
		})
	}

	// the badge is a function of the id alone
	assert.Equal(t, catalog.Card(models.Product{ID: "sp-1"}).Tag, catalog.Card(models.Product{ID: "sp-1", Title: "renamed"}).Tag)
	// no cut price without a price
	assert.Nil(t, catalog.Card(models.Product{ID: "f"}).CutPrice)
}
