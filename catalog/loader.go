// Package catalog turns the nested category → subcategory → product document
// into the flat, marked-up product list the storefront works with.
package catalog

import (
	"math"
	"slices"
	"strings"

	"github.com/kitcomfeedback-cell/kitchen-store/models"
)

const (
	// Markup is applied to every raw catalog price exactly once, here.
	Markup           = 1.5
	DefaultCurrency  = "PKR"
	PlaceholderImage = "/placeholder.png"
)

// ApplyMarkup returns the display price for a raw catalog price.
func ApplyMarkup(raw float64) float64 {
	return math.Round(raw * Markup)
}

// Flatten walks the catalog in document order and returns every valid
// product with markup and defaults applied. The input is not modified, so
// repeated calls yield identical output.
func Flatten(c *models.Catalog) []models.Product {
	out := make([]models.Product, 0, c.ProductCount())
	if c == nil {
		return out
	}
	for _, cat := range c.Categories {
		for _, sub := range cat.Subcategories {
			out = appendProducts(out, cat.Name, sub)
		}
	}
	return out
}

// Subcategory returns the products of the first subcategory whose name
// matches case-insensitively, in catalog order. No match yields an empty,
// non-nil slice.
func Subcategory(c *models.Catalog, name string) []models.Product {
	out := []models.Product{}
	name = strings.TrimSpace(name)
	if c == nil || name == "" {
		return out
	}
	for _, cat := range c.Categories {
		for _, sub := range cat.Subcategories {
			if strings.EqualFold(sub.Name, name) {
				return appendProducts(out, cat.Name, sub)
			}
		}
	}
	return out
}

// HasSubcategory reports whether name matches a subcategory.
func HasSubcategory(c *models.Catalog, name string) bool {
	if c == nil {
		return false
	}
	for _, cat := range c.Categories {
		for _, sub := range cat.Subcategories {
			if strings.EqualFold(sub.Name, strings.TrimSpace(name)) {
				return true
			}
		}
	}
	return false
}

// Tree summarises the hierarchy with product counts.
func Tree(c *models.Catalog) []models.StorefrontCategory {
	out := []models.StorefrontCategory{}
	if c == nil {
		return out
	}
	for _, cat := range c.Categories {
		node := models.StorefrontCategory{Name: cat.Name}
		for _, sub := range cat.Subcategories {
			n := len(appendProducts(nil, cat.Name, sub))
			node.ProductCount += n
			node.Subcategories = append(node.Subcategories, models.StorefrontCategory{
				Name:         sub.Name,
				ProductCount: n,
			})
		}
		out = append(out, node)
	}
	return out
}

func appendProducts(dst []models.Product, category string, sub models.CatalogSubcategory) []models.Product {
	for _, raw := range sub.Products {
		if p, ok := toProduct(raw, category, sub.Name); ok {
			dst = append(dst, p)
		}
	}
	return dst
}

func toProduct(raw models.CatalogProduct, category, subcategory string) (models.Product, bool) {
	if strings.TrimSpace(raw.ID) == "" || strings.TrimSpace(raw.Title) == "" {
		return models.Product{}, false
	}

	p := models.Product{
		ID:          raw.ID,
		Title:       raw.Title,
		Currency:    DefaultCurrency,
		Link:        raw.Link,
		Description: raw.Description,
		Images:      slices.Clone(raw.Images),
		Category:    category,
		Subcategory: subcategory,
	}
	if raw.Price.Valid && !math.IsNaN(raw.Price.Value) && !math.IsInf(raw.Price.Value, 0) {
		rawPrice := raw.Price.Value
		display := ApplyMarkup(rawPrice)
		p.RawPrice = &rawPrice
		p.Price = &display
	}
	if raw.Currency != nil && strings.TrimSpace(*raw.Currency) != "" {
		p.Currency = *raw.Currency
	}
	if raw.Image != nil && strings.TrimSpace(*raw.Image) != "" {
		img := *raw.Image
		p.Image = &img
	}
	if raw.Brand != nil {
		p.Brand = *raw.Brand
	}
	return p, true
}
