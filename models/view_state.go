package models

import (
	"net/url"
	"strings"
)

// Mode names the active result-set selector. Only one is active at a time.
type Mode string

const (
	ModeNone     Mode = "none"
	ModeSearch   Mode = "search"
	ModeCategory Mode = "category"
	ModePrice    Mode = "price"
)

func (m Mode) Valid() bool {
	switch m {
	case ModeNone, ModeSearch, ModeCategory, ModePrice:
		return true
	}
	return false
}

// SortKey is the secondary ordering applied on top of a result set.
type SortKey string

const (
	SortBest    SortKey = "best"
	SortHighLow SortKey = "high-low"
	SortLowHigh SortKey = "low-high"
	SortLatest  SortKey = "latest"
	SortNew     SortKey = "new"
)

// ParseSortKey accepts the sort values the storefront emits. An empty
// string means best match.
func ParseSortKey(s string) (SortKey, bool) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortBest, true
	case SortBest, SortHighLow, SortLowHigh, SortLatest, SortNew:
		return k, true
	}
	return "", false
}

// PriceRange is an inclusive display-price window. Max <= 0 leaves the
// upper end open.
type PriceRange struct {
	Min   float64 `json:"min" yaml:"min"`
	Max   float64 `json:"max" yaml:"max"`
	Label string  `json:"label" yaml:"label"`
}

func (r PriceRange) Contains(v float64) bool {
	return v >= r.Min && (r.Max <= 0 || v <= r.Max)
}

// URL query parameters that carry the selector.
const (
	QuerySearch      = "search"
	QuerySubcategory = "subcategory"
	QueryPrice       = "price"
	QuerySort        = "sort"
)

// ViewState is the single serializable description of what the list shows:
// the selector, its label and the secondary sort. Both the URL and the
// per-tab store are encodings of it.
type ViewState struct {
	Mode  Mode        `json:"mode"`
	Value string      `json:"value,omitempty"`
	Sort  SortKey     `json:"sort,omitempty"`
	Price *PriceRange `json:"price,omitempty"`
}

func HomeView() ViewState {
	return ViewState{Mode: ModeNone, Sort: SortBest}
}

func SearchView(term string) ViewState {
	return ViewState{Mode: ModeSearch, Value: strings.TrimSpace(term), Sort: SortBest}
}

func CategoryView(name string) ViewState {
	return ViewState{Mode: ModeCategory, Value: strings.TrimSpace(name), Sort: SortBest}
}

func PriceView(label string) ViewState {
	return ViewState{Mode: ModePrice, Value: strings.TrimSpace(label), Sort: SortBest}
}

// Active reports whether a selector other than "none" is in effect.
func (v ViewState) Active() bool {
	return v.Mode != ModeNone && v.Mode != ""
}

// Scope is the session-store qualifier for scroll bookkeeping.
func (v ViewState) Scope() string {
	if v.Active() {
		return "search"
	}
	return "home"
}

// Normalize folds empty or unknown selectors to the home view and fills
// in the default sort.
func (v ViewState) Normalize() ViewState {
	v.Value = strings.TrimSpace(v.Value)
	if !v.Mode.Valid() || v.Value == "" {
		v.Mode, v.Value, v.Price = ModeNone, "", nil
	}
	if v.Mode != ModePrice {
		v.Price = nil
	}
	if k, ok := ParseSortKey(string(v.Sort)); ok {
		v.Sort = k
	} else {
		v.Sort = SortBest
	}
	return v
}

// Query encodes the view as URL parameters. Exactly one selector key is
// written; the sort is only written when it is not best match.
func (v ViewState) Query() url.Values {
	v = v.Normalize()
	q := url.Values{}
	switch v.Mode {
	case ModeSearch:
		q.Set(QuerySearch, v.Value)
	case ModeCategory:
		q.Set(QuerySubcategory, v.Value)
	case ModePrice:
		q.Set(QueryPrice, v.Value)
	}
	if v.Active() && v.Sort != SortBest {
		q.Set(QuerySort, string(v.Sort))
	}
	return q
}

// URL is the history entry for the view ("/" for home).
func (v ViewState) URL() string {
	q := v.Query()
	if len(q) == 0 {
		return "/"
	}
	return "/?" + q.Encode()
}

// ViewStateFromQuery decodes URL parameters. When several selector keys are
// present, search wins over subcategory, which wins over price. The second
// return value is false when the query carries no selector at all.
func ViewStateFromQuery(q url.Values) (ViewState, bool) {
	var v ViewState
	switch {
	case strings.TrimSpace(q.Get(QuerySearch)) != "":
		v = SearchView(q.Get(QuerySearch))
	case strings.TrimSpace(q.Get(QuerySubcategory)) != "":
		v = CategoryView(q.Get(QuerySubcategory))
	case strings.TrimSpace(q.Get(QueryPrice)) != "":
		v = PriceView(q.Get(QueryPrice))
	default:
		return HomeView(), false
	}
	if k, ok := ParseSortKey(q.Get(QuerySort)); ok {
		v.Sort = k
	}
	return v, true
}
