package engine

import (
	"testing"

	"github.com/kitcomfeedback-cell/kitchen-store/models"
	"github.com/stretchr/testify/assert"
)

func priced(id string, v float64) models.Product {
	return models.Product{ID: id, Price: &v}
}

func TestSortPriceIsStableAndTreatsMissingAsZero(t *testing.T) {
	base := []models.Product{
		priced("a", 300),
		{ID: "none"},
		priced("b", 100),
		priced("c", 300),
		priced("zero", 0),
	}

	assert.Equal(t, []string{"a", "c", "b", "none", "zero"}, models.ProductIDs(Sort(base, models.SortHighLow)))
	assert.Equal(t, []string{"none", "zero", "b", "a", "c"}, models.ProductIDs(Sort(base, models.SortLowHigh)))
	// base is untouched
	assert.Equal(t, []string{"a", "none", "b", "c", "zero"}, models.ProductIDs(base))
}

func TestSortRecencyReversesBase(t *testing.T) {
	base := []models.Product{{ID: "1"}, {ID: "2"}, {ID: "3"}}
	assert.Equal(t, []string{"3", "2", "1"}, models.ProductIDs(Sort(base, models.SortLatest)))
	assert.Equal(t, []string{"3", "2", "1"}, models.ProductIDs(Sort(base, models.SortNew)))
	assert.Equal(t, []string{"1", "2", "3"}, models.ProductIDs(Sort(base, models.SortBest)))
}

func TestSortEmpty(t *testing.T) {
	for _, k := range []models.SortKey{models.SortBest, models.SortHighLow, models.SortLowHigh, models.SortLatest} {
		assert.Empty(t, Sort([]models.Product{}, k))
	}
}
