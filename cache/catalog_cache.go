// Package cache keeps the loaded catalog in memory between requests.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/kitcomfeedback-cell/kitchen-store/catalog"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const TTL = 5 * time.Minute

// ── Catalog snapshot cache ──────────────────────────────────────────────────
// Holds the flattened catalog for TTL. A failed reload keeps serving the
// previous snapshot; only a cold cache surfaces the error.

type CatalogCache struct {
	source catalog.Source
	ttl    time.Duration
	log    *zap.Logger
	now    func() time.Time

	mu    sync.RWMutex
	entry *catalog.Snapshot
	group singleflight.Group
}

func NewCatalogCache(source catalog.Source, ttl time.Duration, log *zap.Logger) *CatalogCache {
	if ttl <= 0 {
		ttl = TTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogCache{source: source, ttl: ttl, log: log, now: time.Now}
}

func (c *CatalogCache) Get(ctx context.Context) (*catalog.Snapshot, error) {
	c.mu.RLock()
	entry := c.entry
	c.mu.RUnlock()
	if entry != nil && c.now().Sub(entry.FetchedAt) < c.ttl {
		return entry, nil
	}

	v, err, _ := c.group.Do("catalog", func() (any, error) {
		doc, err := c.source.Load(ctx)
		if err != nil {
			return nil, err
		}
		snap := catalog.NewSnapshot(doc)
		snap.FetchedAt = c.now()
		c.set(snap)
		c.log.Info("catalog loaded",
			zap.Int("products", len(snap.Products)),
			zap.String("version", snap.Version))
		return snap, nil
	})
	if err != nil {
		if entry != nil {
			c.log.Warn("catalog reload failed, serving stale snapshot", zap.Error(err))
			return entry, nil
		}
		return nil, err
	}
	return v.(*catalog.Snapshot), nil
}

func (c *CatalogCache) set(snap *catalog.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = snap
}

// ── Invalidate (call when the catalog source changed) ───────────────────────

func (c *CatalogCache) Invalidate() {
	c.mu.Lock()
	c.entry = nil
	c.mu.Unlock()
}

// Watch polls stamper every interval and invalidates the cache when the
// stamp changes. It returns when ctx is done.
func (c *CatalogCache) Watch(ctx context.Context, stamper catalog.Stamper, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()

	last := ""
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
		stamp, err := stamper.Stamp(ctx)
		if err != nil {
			c.log.Warn("catalog stamp failed", zap.Error(err))
			continue
		}
		if last != "" && stamp != last {
			c.Invalidate()
			c.log.Info("catalog changed, cache invalidated", zap.String("stamp", stamp))
		}
		last = stamp
	}
}
