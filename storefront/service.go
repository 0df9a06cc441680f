// Package storefront runs the catalog engine for browsing tabs: it opens a
// tab's page from the session store, applies selector, sort and scroll
// actions, and persists the result after each one.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/kitcomfeedback-cell/kitchen-store/catalog"
	"github.com/kitcomfeedback-cell/kitchen-store/engine"
	"github.com/kitcomfeedback-cell/kitchen-store/metrics"
	"github.com/kitcomfeedback-cell/kitchen-store/models"
	"github.com/kitcomfeedback-cell/kitchen-store/search"
	"github.com/kitcomfeedback-cell/kitchen-store/session"
	"github.com/kitcomfeedback-cell/kitchen-store/shuffle"
	"go.uber.org/zap"
)

const (
	DefaultSearchDelay     = 300 * time.Millisecond
	DefaultRestoreAttempts = 10
	DefaultRestoreInterval = 100 * time.Millisecond

	tabLockStripes = 64
)

var (
	ErrProductNotFound  = errors.New("storefront: product not found")
	ErrCategoryNotFound = errors.New("storefront: category not found")
	ErrSuperseded       = errors.New("storefront: superseded by a newer selection")
)

// CatalogProvider hands out the current catalog snapshot.
type CatalogProvider interface {
	Get(ctx context.Context) (*catalog.Snapshot, error)
}

type Options struct {
	// SearchDelay is how long the skeleton frame stays up before a search
	// result replaces it.
	SearchDelay     time.Duration
	RestoreAttempts int
	RestoreInterval time.Duration
	Seed            shuffle.SeedFunc
	Log             *zap.Logger
	Metrics         *metrics.Metrics
}

type Service struct {
	catalog  CatalogProvider
	engine   *engine.Engine
	store    session.Store
	shuffles *shuffle.Cache
	log      *zap.Logger
	metrics  *metrics.Metrics
	opts     Options

	// tabLocks serialize landing a selection for tabs that hash alike.
	tabLocks [tabLockStripes]sync.Mutex
}

func NewService(cat CatalogProvider, eng *engine.Engine, store session.Store, opts Options) *Service {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.SearchDelay < 0 {
		opts.SearchDelay = 0
	}
	if opts.RestoreAttempts <= 0 {
		opts.RestoreAttempts = DefaultRestoreAttempts
	}
	if opts.RestoreInterval <= 0 {
		opts.RestoreInterval = DefaultRestoreInterval
	}
	return &Service{
		catalog:  cat,
		engine:   eng,
		store:    store,
		shuffles: shuffle.NewCache(opts.Seed, opts.Log),
		log:      opts.Log,
		metrics:  opts.Metrics,
		opts:     opts,
	}
}

func (s *Service) lockTab(tab string) func() {
	mu := &s.tabLocks[xxhash.Sum64String(tab)%tabLockStripes]
	mu.Lock()
	return mu.Unlock
}

// Suggest returns autocomplete entries for term. Within the prefix and
// substring groups, entries follow the tab's shuffled order; without a tab
// they follow catalog order.
func (s *Service) Suggest(ctx context.Context, tab, term string) ([]models.Suggestion, error) {
	if strings.TrimSpace(term) == "" {
		return nil, nil
	}
	snap, err := s.catalog.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("storefront: load catalog: %w", err)
	}
	products := snap.Products
	if tab != "" {
		perm, err := s.shuffles.Get(ctx, session.NewState(s.store, tab, s.log), snap)
		if err != nil {
			return nil, fmt.Errorf("storefront: shuffle: %w", err)
		}
		products = perm.Products
	}
	return search.Suggest(products, term, search.SuggestionLimit), nil
}

// Product returns the detail page for id with its related products.
func (s *Service) Product(ctx context.Context, id string) (models.ProductDetail, error) {
	snap, err := s.catalog.Get(ctx)
	if err != nil {
		return models.ProductDetail{}, fmt.Errorf("storefront: load catalog: %w", err)
	}
	p, ok := snap.Product(id)
	if !ok {
		return models.ProductDetail{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return models.ProductDetail{
		Product: catalog.Detail(p),
		Related: catalog.Related(snap, p, catalog.RelatedLimit),
	}, nil
}

// Categories is the category tree with product counts.
func (s *Service) Categories(ctx context.Context) ([]models.StorefrontCategory, error) {
	snap, err := s.catalog.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("storefront: load catalog: %w", err)
	}
	return catalog.Tree(snap.Catalog), nil
}

// Category finds a top-level category or a subcategory by name,
// case-insensitively.
func (s *Service) Category(ctx context.Context, name string) (models.StorefrontCategory, error) {
	tree, err := s.Categories(ctx)
	if err != nil {
		return models.StorefrontCategory{}, err
	}
	name = strings.TrimSpace(name)
	for _, cat := range tree {
		if strings.EqualFold(cat.Name, name) {
			return cat, nil
		}
		for _, sub := range cat.Subcategories {
			if strings.EqualFold(sub.Name, name) {
				return sub, nil
			}
		}
	}
	return models.StorefrontCategory{}, fmt.Errorf("%w: %s", ErrCategoryNotFound, name)
}

func (s *Service) PriceRanges() []models.PriceRange {
	return s.engine.PriceRanges()
}

// FilterMetadata gathers everything the filter panel offers.
func (s *Service) FilterMetadata(ctx context.Context) (models.FilterMetadata, error) {
	snap, err := s.catalog.Get(ctx)
	if err != nil {
		return models.FilterMetadata{}, fmt.Errorf("storefront: load catalog: %w", err)
	}
	meta := models.FilterMetadata{
		Categories:  catalog.Tree(snap.Catalog),
		PriceRanges: s.engine.PriceRanges(),
		Sorts: []models.SortKey{
			models.SortBest, models.SortHighLow, models.SortLowHigh, models.SortLatest, models.SortNew,
		},
	}
	for _, p := range snap.Products {
		if p.Price == nil {
			continue
		}
		if meta.PriceSpan == nil {
			meta.PriceSpan = &models.PriceRangeData{Min: *p.Price, Max: *p.Price}
			continue
		}
		meta.PriceSpan.Min = min(meta.PriceSpan.Min, *p.Price)
		meta.PriceSpan.Max = max(meta.PriceSpan.Max, *p.Price)
	}
	return meta, nil
}

func (s *Service) scrollRequest(offset float64) *models.ScrollRequest {
	return &models.ScrollRequest{
		Offset:     offset,
		Attempts:   s.opts.RestoreAttempts,
		IntervalMs: s.opts.RestoreInterval.Milliseconds(),
	}
}
