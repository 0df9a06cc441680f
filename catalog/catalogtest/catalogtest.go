// Package catalogtest builds small catalog documents for tests.
package catalogtest

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/kitcomfeedback-cell/kitchen-store/catalog"
	"github.com/kitcomfeedback-cell/kitchen-store/models"
)

// Sub is one subcategory under a top-level category.
type Sub struct {
	Category string
	Name     string
	Products []models.CatalogProduct
}

// Product is a priced catalog entry with only id and title set.
func Product(id, title string, raw float64) models.CatalogProduct {
	return models.CatalogProduct{ID: id, Title: title, Price: models.Number(raw)}
}

// Unpriced is a catalog entry without a price.
func Unpriced(id, title string) models.CatalogProduct {
	return models.CatalogProduct{ID: id, Title: title}
}

// Items returns n products titled "Item 000", "Item 001", ... with raw
// prices starting at base and rising by one. Their titles share no letters
// with ordinary product words, so they never match a search.
func Items(prefix string, n int, base float64) []models.CatalogProduct {
	out := make([]models.CatalogProduct, n)
	for i := range out {
		out[i] = Product(fmt.Sprintf("%s-%03d", prefix, i), fmt.Sprintf("Item %03d", i), base+float64(i))
	}
	return out
}

// Build groups subs by category, keeping first-seen order.
func Build(subs ...Sub) *models.Catalog {
	c := &models.Catalog{}
	index := map[string]int{}
	for _, s := range subs {
		i, ok := index[s.Category]
		if !ok {
			i = len(c.Categories)
			index[s.Category] = i
			c.Categories = append(c.Categories, models.CatalogCategory{Name: s.Category})
		}
		c.Categories[i].Subcategories = append(c.Categories[i].Subcategories, models.CatalogSubcategory{
			Name:     s.Name,
			Products: s.Products,
		})
	}
	return c
}

// Kitchen is a small storefront catalog: spoons, knives, bottles and
// cookware, plus forty filler items to page through.
func Kitchen() *models.Catalog {
	return Build(
		Sub{Category: "Kitchen Tools", Name: "Spoons", Products: []models.CatalogProduct{
			Product("sp-1", "Wooden Spoon", 100),
			Product("sp-2", "Serving Spoon", 200),
			Product("sp-3", "Measuring Spoon Set", 300),
		}},
		Sub{Category: "Kitchen Tools", Name: "Knives", Products: []models.CatalogProduct{
			Product("kn-1", "Chef Knife", 1000),
			Product("kn-2", "Paring Knife", 500),
		}},
		Sub{Category: "Drinkware", Name: "Bottles", Products: []models.CatalogProduct{
			Product("bt-1", "Steel Bottle", 100),
			Product("bt-2", "Glass Bottle", 200),
			Product("bt-3", "Sport Bottle", 300),
		}},
		Sub{Category: "Cookware", Name: "Cookware", Products: []models.CatalogProduct{
			Product("cw-1", "Frying Pan", 2000),
			Product("cw-2", "Sauce Pan", 3000),
			Unpriced("cw-3", "Stock Pot"),
		}},
		Sub{Category: "Misc", Name: "Assorted", Products: Items("it", 40, 10)},
	)
}

// Provider serves a fixed snapshot and counts how often it was asked.
type Provider struct {
	Snapshot *catalog.Snapshot
	Err      error
	calls    atomic.Int64
}

// NewProvider snapshots c.
func NewProvider(c *models.Catalog) *Provider {
	return &Provider{Snapshot: catalog.NewSnapshot(c)}
}

func (p *Provider) Get(context.Context) (*catalog.Snapshot, error) {
	p.calls.Add(1)
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Snapshot, nil
}

// Calls is the number of Get calls so far.
func (p *Provider) Calls() int {
	return int(p.calls.Load())
}
