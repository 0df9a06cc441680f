// Package engine selects, sorts and windows the product list a storefront
// tab shows. Everything here is a pure function of its inputs.
package engine

import (
	"errors"
	"fmt"
	"slices"

	"github.com/kitcomfeedback-cell/kitchen-store/catalog"
	"github.com/kitcomfeedback-cell/kitchen-store/metrics"
	"github.com/kitcomfeedback-cell/kitchen-store/models"
	"github.com/kitcomfeedback-cell/kitchen-store/search"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

var (
	ErrUnknownPriceRange = errors.New("engine: unknown price range")
	ErrUnknownSort       = errors.New("engine: unknown sort")
)

// Input is what a selector runs over: the loaded catalog and the tab's
// shuffled list with the seed that produced it.
type Input struct {
	Catalog  *catalog.Snapshot
	Shuffled []models.Product
	Seed     uint64
}

// State is the list a tab shows. Base is the selector's unsorted output;
// Display is Base after the secondary sort; the first Visible entries of
// Display are revealed. For searches, Matches counts the genuine hits at
// the head of Base.
type State struct {
	View    models.ViewState `json:"view"`
	Base    []models.Product `json:"-"`
	Display []models.Product `json:"-"`
	Visible int              `json:"visible"`
	Matches int              `json:"matches"`
}

type Options struct {
	PriceRanges []models.PriceRange
	Metrics     *metrics.Metrics
	Log         *zap.Logger
}

type Engine struct {
	index   *search.Index
	ranges  []models.PriceRange
	metrics *metrics.Metrics
	log     *zap.Logger
}

func New(index *search.Index, opts Options) *Engine {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if index == nil {
		index = search.NewIndex(opts.Log, opts.Metrics)
	}
	return &Engine{
		index:   index,
		ranges:  slices.Clone(opts.PriceRanges),
		metrics: opts.Metrics,
		log:     opts.Log,
	}
}

// PriceRanges lists the configured price filters.
func (e *Engine) PriceRanges() []models.PriceRange {
	return slices.Clone(e.ranges)
}

// Activate runs the view's selector and returns a fresh state: the sort is
// back to best match and the revealed window starts over. Nothing from a
// previously active selector survives.
func (e *Engine) Activate(in Input, view models.ViewState) (State, error) {
	view = view.Normalize()
	view.Sort = models.SortBest

	var (
		base    []models.Product
		matches int
	)
	switch view.Mode {
	case models.ModeCategory:
		if in.Catalog != nil {
			base = catalog.Subcategory(in.Catalog.Catalog, view.Value)
		}
	case models.ModePrice:
		r, err := e.ResolvePriceRange(view.Value, view.Price)
		if err != nil {
			return State{}, err
		}
		view.Price = &r
		base = lo.Filter(in.Shuffled, func(p models.Product, _ int) bool {
			return p.Price != nil && r.Contains(*p.Price)
		})
	case models.ModeSearch:
		version := ""
		if in.Catalog != nil {
			version = in.Catalog.Version
		}
		res := e.index.Search(search.Query{
			Term:     view.Value,
			Products: in.Shuffled,
			Seed:     in.Seed,
			Version:  version,
		})
		base, matches = res.Products, res.Matches
	default:
		base = in.Shuffled
	}
	if base == nil {
		base = []models.Product{}
	}
	base = slices.Clip(base)

	e.metrics.ObserveActivation(string(view.Mode))
	e.log.Debug("selector activated",
		zap.String("mode", string(view.Mode)),
		zap.String("value", view.Value),
		zap.Int("results", len(base)),
	)
	return State{
		View:    view,
		Base:    base,
		Display: base,
		Visible: InitialVisible(view.Mode, len(base)),
		Matches: matches,
	}, nil
}

// Rehydrate rebuilds the state a view describes, secondary sort included.
// Given the same input it reproduces the same Display order.
func (e *Engine) Rehydrate(in Input, view models.ViewState) (State, error) {
	view = view.Normalize()
	st, err := e.Activate(in, view)
	if err != nil {
		return State{}, err
	}
	return e.ApplySort(st, view.Sort)
}

// ApplySort reorders the state's Base under key. Membership never changes
// and best match hands back Base itself.
func (e *Engine) ApplySort(st State, key models.SortKey) (State, error) {
	k, ok := models.ParseSortKey(string(key))
	if !ok {
		return st, fmt.Errorf("%w: %q", ErrUnknownSort, key)
	}
	st.View.Sort = k
	st.Display = Sort(st.Base, k)
	e.metrics.ObserveSort(string(k))
	return st, nil
}
