package catalog_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kitcomfeedback-cell/kitchen-store/catalog"
	"github.com/kitcomfeedback-cell/kitchen-store/catalog/catalogtest"
	"github.com/kitcomfeedback-cell/kitchen-store/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestFlattenAppliesMarkupOnce(t *testing.T) {
	doc := catalogtest.Build(catalogtest.Sub{
		Category: "Drinkware", Name: "Bottles",
		Products: []models.CatalogProduct{
			catalogtest.Product("a", "Steel Bottle", 100),
			catalogtest.Product("b", "Glass Bottle", 333),
			catalogtest.Product("c", "Free Bottle", 0),
		},
	})

	products := catalog.Flatten(doc)
	require.Len(t, products, 3)

	want := map[string][2]float64{"a": {100, 150}, "b": {333, 500}, "c": {0, 0}}
	for _, p := range products {
		require.NotNil(t, p.Price, p.ID)
		require.NotNil(t, p.RawPrice, p.ID)
		assert.Equal(t, want[p.ID][0], *p.RawPrice, p.ID)
		assert.Equal(t, want[p.ID][1], *p.Price, p.ID)
	}

	// the document itself is untouched, so a second pass is identical
	assert.Equal(t, 100.0, doc.Categories[0].Subcategories[0].Products[0].Price.Value)
	if diff := cmp.Diff(products, catalog.Flatten(doc)); diff != "" {
		t.Fatalf("Flatten is not idempotent (-first +second):\n%s", diff)
	}
}

func TestFlattenDefaults(t *testing.T) {
	doc := catalogtest.Build(catalogtest.Sub{
		Category: "Kitchen Tools", Name: "Spoons",
		Products: []models.CatalogProduct{
			{ID: "plain", Title: "Plain Spoon"},
			{ID: "full", Title: "Full Spoon", Price: models.Number(10), Currency: strptr("USD"),
				Image: strptr("https://cdn.example.com/full.jpg"), Brand: strptr("Oakline")},
			{ID: "blank-currency", Title: "Blank", Currency: strptr("  "), Image: strptr("")},
			{ID: "", Title: "No id"},
			{ID: "no-title", Title: "   "},
		},
	})

	products := catalog.Flatten(doc)
	require.Equal(t, []string{"plain", "full", "blank-currency"}, models.ProductIDs(products))

	plain := products[0]
	assert.Nil(t, plain.Price)
	assert.Nil(t, plain.RawPrice)
	assert.Nil(t, plain.Image)
	assert.Equal(t, catalog.DefaultCurrency, plain.Currency)
	assert.Empty(t, plain.Brand)
	assert.Equal(t, "Kitchen Tools", plain.Category)
	assert.Equal(t, "Spoons", plain.Subcategory)

	full := products[1]
	assert.Equal(t, "USD", full.Currency)
	assert.Equal(t, "https://cdn.example.com/full.jpg", *full.Image)
	assert.Equal(t, "Oakline", full.Brand)
	assert.Equal(t, 15.0, *full.Price)

	blank := products[2]
	assert.Equal(t, catalog.DefaultCurrency, blank.Currency)
	assert.Nil(t, blank.Image)
}

func TestFlattenNilCatalog(t *testing.T) {
	products := catalog.Flatten(nil)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestSubcategory(t *testing.T) {
	doc := catalogtest.Kitchen()

	tests := []struct {
		name string
		want []string
	}{
		{"Bottles", []string{"bt-1", "bt-2", "bt-3"}},
		{"bottles", []string{"bt-1", "bt-2", "bt-3"}},
		{"  KNIVES ", []string{"kn-1", "kn-2"}},
		{"Mugs", []string{}},
		{"", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := catalog.Subcategory(doc, tt.name)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, models.ProductIDs(got))
		})
	}

	assert.True(t, catalog.HasSubcategory(doc, "cookware"))
	assert.False(t, catalog.HasSubcategory(doc, "Kitchen Tools"))
	assert.False(t, catalog.HasSubcategory(nil, "Bottles"))
}

func TestTreeCountsValidProducts(t *testing.T) {
	doc := catalogtest.Build(
		catalogtest.Sub{Category: "Kitchen Tools", Name: "Spoons", Products: []models.CatalogProduct{
			catalogtest.Product("a", "Spoon", 1),
			{ID: "", Title: "broken"},
		}},
		catalogtest.Sub{Category: "Kitchen Tools", Name: "Knives", Products: []models.CatalogProduct{
			catalogtest.Product("b", "Knife", 1),
			catalogtest.Product("c", "Knife 2", 1),
		}},
	)

	want := []models.StorefrontCategory{{
		Name:         "Kitchen Tools",
		ProductCount: 3,
		Subcategories: []models.StorefrontCategory{
			{Name: "Spoons", ProductCount: 1},
			{Name: "Knives", ProductCount: 2},
		},
	}}
	if diff := cmp.Diff(want, catalog.Tree(doc)); diff != "" {
		t.Errorf("Tree mismatch (-want +got):\n%s", diff)
	}
}
