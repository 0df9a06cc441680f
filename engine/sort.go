package engine

import (
	"slices"

	"github.com/kitcomfeedback-cell/kitchen-store/models"
)

// Sort returns base ordered by key. Best match returns base unchanged.
// Price sorts are stable and count a missing price as zero. Latest and new
// reverse the base order: the catalog carries no timestamps, so reversal
// stands in for recency.
func Sort(base []models.Product, key models.SortKey) []models.Product {
	switch key {
	case models.SortHighLow:
		out := slices.Clone(base)
		slices.SortStableFunc(out, func(a, b models.Product) int {
			return cmpPrice(b.DisplayPrice(), a.DisplayPrice())
		})
		return out
	case models.SortLowHigh:
		out := slices.Clone(base)
		slices.SortStableFunc(out, func(a, b models.Product) int {
			return cmpPrice(a.DisplayPrice(), b.DisplayPrice())
		})
		return out
	case models.SortLatest, models.SortNew:
		out := slices.Clone(base)
		slices.Reverse(out)
		return out
	default:
		return base
	}
}

func cmpPrice(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
