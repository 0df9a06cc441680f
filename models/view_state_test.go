package models

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		in   string
		want SortKey
		ok   bool
	}{
		{"", SortBest, true},
		{"best", SortBest, true},
		{" High-Low ", SortHighLow, true},
		{"low-high", SortLowHigh, true},
		{"latest", SortLatest, true},
		{"new", SortNew, true},
		{"cheapest", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseSortKey(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestViewStateURL(t *testing.T) {
	tests := []struct {
		name string
		view ViewState
		want string
	}{
		{"home", HomeView(), "/"},
		{"home ignores sort", ViewState{Mode: ModeNone, Sort: SortHighLow}, "/"},
		{"search", SearchView("  wooden spoon "), "/?search=wooden+spoon"},
		{"category sorted", ViewState{Mode: ModeCategory, Value: "Bottles", Sort: SortHighLow}, "/?sort=high-low&subcategory=Bottles"},
		{"price", PriceView("1,000 - 5,000"), "/?price=1%2C000+-+5%2C000"},
		{"blank value is home", ViewState{Mode: ModeSearch, Value: "   "}, "/"},
		{"unknown mode is home", ViewState{Mode: "brand", Value: "Oakline"}, "/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.view.URL())
		})
	}
}

func TestViewStateQueryRoundTrip(t *testing.T) {
	views := []ViewState{
		SearchView("spoon"),
		{Mode: ModeSearch, Value: "pan", Sort: SortLatest},
		{Mode: ModeCategory, Value: "Bottles", Sort: SortLowHigh},
		PriceView("10,000+"),
	}
	for _, v := range views {
		got, ok := ViewStateFromQuery(v.Query())
		require.True(t, ok, v)
		assert.Equal(t, v.Normalize(), got)
	}
}

func TestViewStateFromQueryPrecedence(t *testing.T) {
	q := url.Values{}
	q.Set(QueryPrice, "Under 1,000")
	q.Set(QuerySubcategory, "Bottles")
	v, ok := ViewStateFromQuery(q)
	require.True(t, ok)
	assert.Equal(t, ModeCategory, v.Mode)

	q.Set(QuerySearch, "bottle")
	v, _ = ViewStateFromQuery(q)
	assert.Equal(t, ModeSearch, v.Mode)
	assert.Equal(t, "bottle", v.Value)

	// an unknown sort falls back to best match
	q.Set(QuerySort, "sideways")
	v, _ = ViewStateFromQuery(q)
	assert.Equal(t, SortBest, v.Sort)

	v, ok = ViewStateFromQuery(url.Values{QuerySort: {"high-low"}})
	assert.False(t, ok)
	assert.Equal(t, HomeView(), v)
}

func TestNormalizeDropsForeignPrice(t *testing.T) {
	r := &PriceRange{Min: 0, Max: 1000, Label: "Under 1,000"}
	v := ViewState{Mode: ModeSearch, Value: "pan", Sort: "bogus", Price: r}.Normalize()
	assert.Nil(t, v.Price)
	assert.Equal(t, SortBest, v.Sort)

	v = ViewState{Mode: ModePrice, Value: "Under 1,000", Price: r}.Normalize()
	assert.Same(t, r, v.Price)
	assert.Equal(t, "search", v.Scope())
	assert.Equal(t, "home", HomeView().Scope())
}

func TestPriceRangeContains(t *testing.T) {
	bounded := PriceRange{Min: 1000, Max: 5000}
	assert.True(t, bounded.Contains(1000))
	assert.True(t, bounded.Contains(5000))
	assert.False(t, bounded.Contains(5001))
	assert.False(t, bounded.Contains(999))

	open := PriceRange{Min: 10000}
	assert.True(t, open.Contains(1e9))
	assert.False(t, open.Contains(9999))
}

func TestOptionalNumberJSON(t *testing.T) {
	var p CatalogProduct
	require.NoError(t, json.Unmarshal([]byte(`{"id":"a","title":"A","price":"12.5"}`), &p))
	assert.Equal(t, Number(12.5), p.Price)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"a","title":"A","price":"n/a"}`), &p))
	assert.False(t, p.Price.Valid)

	data, err := json.Marshal(CatalogProduct{ID: "a", Title: "A"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"a","title":"A","price":null}`, string(data))
}
