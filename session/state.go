package session

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/kitcomfeedback-cell/kitchen-store/models"
	"go.uber.org/zap"
)

// Keys written to the per-tab store.
const (
	KeyViewMode       = "viewMode"
	KeyLastQuery      = "lastQuery"
	KeyActiveFilter   = "activeFilter"
	KeyActivePrice    = "activePriceFilter"
	KeyBaseProducts   = "baseFilteredProducts"
	KeyShuffled       = "shuffledProducts"
	KeyShuffleSeed    = "shuffleSeed"
	KeyCatalogVersion = "catalogVersion"
	// KeySelection counts selector changes on the tab, so a slow selection
	// can tell that a newer one started after it.
	KeySelection = "selectionGen"
)

// ScrollKey and VisibleKey qualify the scroll bookkeeping by scope
// ("home" or "search"), e.g. homeScrollY / searchVisible.
func ScrollKey(scope string) string  { return scope + "ScrollY" }
func VisibleKey(scope string) string { return scope + "Visible" }

// Snapshot is everything needed to put a tab back where the user left it.
type Snapshot struct {
	View    models.ViewState
	Base    []models.Product
	ScrollY float64
	Visible int
	// Selection is the tab's selection generation when the snapshot was read.
	Selection int64
	// Inferred is set when the mode was reconstructed from a label alone
	// and the caller may need to reclassify it (search vs subcategory).
	Inferred bool
}

// ShuffleRecord is the cached session permutation of the catalog.
type ShuffleRecord struct {
	Seed     uint64
	Version  string
	Products []models.Product
}

// State reads and writes one tab's snapshot. Values that fail to decode are
// treated as absent.
type State struct {
	store Store
	tab   string
	log   *zap.Logger
}

func NewState(store Store, tab string, log *zap.Logger) *State {
	if log == nil {
		log = zap.NewNop()
	}
	return &State{store: store, tab: tab, log: log.With(zap.String("tab", tab))}
}

func (s *State) Tab() string {
	return s.tab
}

// Load decodes the snapshot. A tab with nothing stored yields the home view.
func (s *State) Load(ctx context.Context) (Snapshot, bool, error) {
	values, err := s.store.Load(ctx, s.tab)
	if err != nil {
		return Snapshot{View: models.HomeView()}, false, err
	}
	snap := decodeSnapshot(values, s.log)
	_, found := values[KeyLastQuery]
	if !found {
		_, found = values[KeyViewMode]
	}
	return snap, found, nil
}

// Save writes the snapshot. Keys that no longer apply to the view are removed
// so a later Load cannot resurrect them.
func (s *State) Save(ctx context.Context, snap Snapshot) error {
	view := snap.View.Normalize()
	scope := view.Scope()
	values := map[string]string{
		KeyViewMode:       string(view.Mode),
		KeyLastQuery:      view.Value,
		KeyActiveFilter:   string(view.Sort),
		ScrollKey(scope):  formatFloat(snap.ScrollY),
		VisibleKey(scope): strconv.Itoa(snap.Visible),
	}
	var stale []string

	if view.Mode == models.ModePrice && view.Price != nil {
		data, err := json.Marshal(view.Price)
		if err != nil {
			return err
		}
		values[KeyActivePrice] = string(data)
	} else {
		stale = append(stale, KeyActivePrice)
	}

	if view.Active() {
		data, err := json.Marshal(snap.Base)
		if err != nil {
			return err
		}
		values[KeyBaseProducts] = string(data)
	} else {
		stale = append(stale, KeyBaseProducts)
	}

	if err := s.store.Save(ctx, s.tab, values); err != nil {
		return err
	}
	if len(stale) > 0 {
		return s.store.Delete(ctx, s.tab, stale...)
	}
	return nil
}

// NextSelection starts a new selection on the tab and returns its
// generation.
func (s *State) NextSelection(ctx context.Context) (int64, error) {
	return s.store.Incr(ctx, s.tab, KeySelection, 1)
}

// Selection is the generation of the tab's newest selection.
func (s *State) Selection(ctx context.Context) (int64, error) {
	return s.store.Incr(ctx, s.tab, KeySelection, 0)
}

// SaveScroll records only the scroll position and revealed count.
func (s *State) SaveScroll(ctx context.Context, scope string, scrollY float64, visible int) error {
	return s.store.Save(ctx, s.tab, map[string]string{
		ScrollKey(scope):  formatFloat(scrollY),
		VisibleKey(scope): strconv.Itoa(visible),
	})
}

// Reset drops the view but keeps the session shuffle.
func (s *State) Reset(ctx context.Context) error {
	return s.store.Delete(ctx, s.tab,
		KeyViewMode, KeyLastQuery, KeyActiveFilter, KeyActivePrice, KeyBaseProducts,
		ScrollKey("search"), VisibleKey("search"))
}

// LoadShuffle returns the cached permutation, if a valid one is stored.
func (s *State) LoadShuffle(ctx context.Context) (ShuffleRecord, bool, error) {
	values, err := s.store.Load(ctx, s.tab)
	if err != nil {
		return ShuffleRecord{}, false, err
	}
	raw, ok := values[KeyShuffled]
	if !ok {
		return ShuffleRecord{}, false, nil
	}
	var rec ShuffleRecord
	if err := json.Unmarshal([]byte(raw), &rec.Products); err != nil {
		s.log.Warn("discarding corrupt shuffle cache", zap.Error(err))
		return ShuffleRecord{}, false, nil
	}
	if seed, err := strconv.ParseUint(values[KeyShuffleSeed], 10, 64); err == nil {
		rec.Seed = seed
	}
	rec.Version = values[KeyCatalogVersion]
	return rec, true, nil
}

func (s *State) SaveShuffle(ctx context.Context, rec ShuffleRecord) error {
	data, err := json.Marshal(rec.Products)
	if err != nil {
		return err
	}
	return s.store.Save(ctx, s.tab, map[string]string{
		KeyShuffled:       string(data),
		KeyShuffleSeed:    strconv.FormatUint(rec.Seed, 10),
		KeyCatalogVersion: rec.Version,
	})
}

func decodeSnapshot(values map[string]string, log *zap.Logger) Snapshot {
	view := models.ViewState{
		Mode:  models.Mode(values[KeyViewMode]),
		Value: values[KeyLastQuery],
	}
	if k, ok := models.ParseSortKey(values[KeyActiveFilter]); ok {
		view.Sort = k
	}

	if raw, ok := values[KeyActivePrice]; ok {
		var r models.PriceRange
		if err := json.Unmarshal([]byte(raw), &r); err == nil {
			view.Price = &r
		} else {
			log.Warn("discarding corrupt price filter", zap.Error(err))
		}
	}

	var snap Snapshot
	if !view.Mode.Valid() && view.Value != "" {
		// written by an older client that only kept the label
		snap.Inferred = true
		view.Mode = models.ModeSearch
		if view.Price != nil && view.Price.Label == view.Value {
			view.Mode = models.ModePrice
		}
	}
	snap.View = view.Normalize()

	if raw, ok := values[KeyBaseProducts]; ok && snap.View.Active() {
		if err := json.Unmarshal([]byte(raw), &snap.Base); err != nil {
			log.Warn("discarding corrupt base result set", zap.Error(err))
			snap.Base = nil
		}
	}

	scope := snap.View.Scope()
	if y, err := strconv.ParseFloat(values[ScrollKey(scope)], 64); err == nil && y >= 0 {
		snap.ScrollY = y
	}
	if n, err := strconv.Atoi(values[VisibleKey(scope)]); err == nil && n >= 0 {
		snap.Visible = n
	}
	if n, err := strconv.ParseInt(values[KeySelection], 10, 64); err == nil {
		snap.Selection = n
	}
	return snap
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
