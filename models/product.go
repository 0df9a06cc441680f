package models

import (
	"encoding/json"
	"strconv"
)

// ═══════════════════════════════════════════════════════════
// Static catalog document (categories → subcategories → products)
// ═══════════════════════════════════════════════════════════

type Catalog struct {
	Categories []CatalogCategory `json:"categories"`
}

type CatalogCategory struct {
	Name          string               `json:"name"`
	Subcategories []CatalogSubcategory `json:"subcategories"`
}

type CatalogSubcategory struct {
	Name     string           `json:"name"`
	Products []CatalogProduct `json:"products"`
}

// CatalogProduct is a product exactly as the catalog document carries it.
// Every field except id and title may be missing or null.
type CatalogProduct struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Price       OptionalNumber `json:"price"`
	Currency    *string        `json:"currency,omitempty"`
	Image       *string        `json:"image,omitempty"`
	Link        string         `json:"link,omitempty"`
	Description string         `json:"description,omitempty"`
	Brand       *string        `json:"brand,omitempty"`
	Images      []string       `json:"images,omitempty"`
}

// ProductCount returns the number of raw product entries in the document.
func (c *Catalog) ProductCount() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, cat := range c.Categories {
		for _, sub := range cat.Subcategories {
			n += len(sub.Products)
		}
	}
	return n
}

// OptionalNumber decodes a JSON number and treats anything else
// (null, strings, objects) as absent instead of failing the document.
type OptionalNumber struct {
	Value float64
	Valid bool
}

func Number(v float64) OptionalNumber {
	return OptionalNumber{Value: v, Valid: true}
}

func (n *OptionalNumber) UnmarshalJSON(data []byte) error {
	*n = OptionalNumber{}
	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		n.Value, n.Valid = v, true
		return nil
	}
	// numeric strings show up in scraped catalogs
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			n.Value, n.Valid = v, true
		}
	}
	return nil
}

func (n OptionalNumber) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// ═══════════════════════════════════════════════════════════
// Flattened storefront product
// ═══════════════════════════════════════════════════════════

// Product is a catalog entry after flattening. Price already carries the
// storefront markup; RawPrice keeps the catalog value it was derived from.
type Product struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Price       *float64 `json:"price"`
	RawPrice    *float64 `json:"raw_price,omitempty"`
	Currency    string   `json:"currency"`
	Image       *string  `json:"image"`
	Link        string   `json:"link,omitempty"`
	Description string   `json:"description,omitempty"`
	Brand       string   `json:"brand,omitempty"`
	Images      []string `json:"images,omitempty"`
	Category    string   `json:"category,omitempty"`
	Subcategory string   `json:"subcategory,omitempty"`
}

// DisplayPrice returns the marked-up price, or zero when the product has none.
func (p Product) DisplayPrice() float64 {
	if p.Price == nil {
		return 0
	}
	return *p.Price
}

// ProductIDs lists ids in order.
func ProductIDs(products []Product) []string {
	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	return ids
}
