package engine

import (
	"testing"

	"github.com/kitcomfeedback-cell/kitchen-store/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriceLabel(t *testing.T) {
	tests := []struct {
		label    string
		min, max float64
		ok       bool
	}{
		{"1000-5000", 1000, 5000, true},
		{"1,000 - 5,000", 1000, 5000, true},
		{"Rs. 500 – 1,500", 500, 1500, true},
		{"PKR 200 to 800", 200, 800, true},
		{"Under 1,000", 0, 1000, true},
		{"below 250.50", 0, 250.5, true},
		{"up to 99", 0, 99, true},
		{"10,000+", 10000, 0, true},
		{"Above 20000", 20000, 0, true},
		{"5000 and above", 5000, 0, true},
		{"5000 or more", 5000, 0, true},
		{"5000-1000", 0, 0, false},
		{"Under 0", 0, 0, false},
		{"1000", 0, 0, false},
		{"cheap stuff", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			r, ok := ParsePriceLabel(tt.label)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.min, r.Min)
			assert.Equal(t, tt.max, r.Max)
			assert.Equal(t, tt.label, r.Label)
		})
	}
}

func TestResolvePriceRangePrecedence(t *testing.T) {
	eng := New(nil, Options{PriceRanges: []models.PriceRange{
		{Min: 0, Max: 999, Label: "Budget"},
		{Min: 1, Max: 2, Label: "100-200"},
	}})

	r, err := eng.ResolvePriceRange("budget", nil)
	require.NoError(t, err)
	assert.Equal(t, "Budget", r.Label)

	// configuration beats what the label spells out
	r, err = eng.ResolvePriceRange("100-200", nil)
	require.NoError(t, err)
	assert.Equal(t, 2.0, r.Max)

	// a stored range is trusted for labels nobody configured
	hint := &models.PriceRange{Min: 5, Max: 50, Label: "Stocking fillers"}
	r, err = eng.ResolvePriceRange("Stocking fillers", hint)
	require.NoError(t, err)
	assert.Equal(t, *hint, r)

	_, err = eng.ResolvePriceRange("Stocking fillers", &models.PriceRange{Label: "other"})
	assert.ErrorIs(t, err, ErrUnknownPriceRange)

	assert.Len(t, eng.PriceRanges(), 2)
}
