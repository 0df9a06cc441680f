// ════════════════════════════════════════════════════════════
// STOREFRONT RESPONSE MODELS
// File: models/storefront.go
// ════════════════════════════════════════════════════════════

package models

// StorefrontListing is what the product grid renders for one view.
type StorefrontListing struct {
	View     ViewState      `json:"view"`
	URL      string         `json:"url"`
	Products []ProductCard  `json:"products"`
	Matches  int            `json:"matches,omitempty"` // genuine search hits; the rest is filler
	Skeleton bool           `json:"skeleton,omitempty"`
	Scroll   *ScrollRequest `json:"scroll,omitempty"`
}

// ProductCard is a grid tile: the product plus its promo badge.
type ProductCard struct {
	Product
	Tag         string   `json:"tag,omitempty"`
	CutPrice    *float64 `json:"cut_price,omitempty"`
	SavePercent int      `json:"save_percent,omitempty"`
}

// ProductDetail is the detail page payload.
type ProductDetail struct {
	Product Product   `json:"product"`
	Related []Product `json:"related"`
}

// ScrollRequest asks the client to restore a scroll offset once layout has
// settled, retrying Attempts times every IntervalMs.
type ScrollRequest struct {
	Offset     float64 `json:"offset"`
	Attempts   int     `json:"attempts"`
	IntervalMs int64   `json:"interval_ms"`
}

// StorefrontCategory represents a category in the storefront
type StorefrontCategory struct {
	Name          string               `json:"name"`
	ProductCount  int                  `json:"product_count"`
	Subcategories []StorefrontCategory `json:"subcategories,omitempty"`
}

// Suggestion is an autocomplete entry.
type Suggestion struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
