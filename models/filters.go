// models/filters.go
package models

// FilterMetadata represents all filter data for the storefront
type FilterMetadata struct {
	Categories  []StorefrontCategory `json:"categories"`
	PriceRanges []PriceRange         `json:"priceRanges"`
	PriceSpan   *PriceRangeData      `json:"priceSpan"`
	Sorts       []SortKey            `json:"sorts"`
}

// PriceRangeData represents the minimum and maximum display price in the store
type PriceRangeData struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}
