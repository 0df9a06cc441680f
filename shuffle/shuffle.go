// Package shuffle produces the session-stable random ordering of the catalog.
package shuffle

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/kitcomfeedback-cell/kitchen-store/catalog"
	"github.com/kitcomfeedback-cell/kitchen-store/models"
	"github.com/kitcomfeedback-cell/kitchen-store/session"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// NewRand returns a deterministic generator for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// DerivedRand returns a generator for a sub-stream of seed keyed by label,
// so the same (seed, label) always draws the same sequence.
func DerivedRand(seed uint64, label string) *rand.Rand {
	return rand.New(rand.NewPCG(seed, xxhash.Sum64String(label)))
}

// Shuffle returns a uniformly permuted copy of items (Fisher–Yates).
func Shuffle[T any](items []T, rng *rand.Rand) []T {
	out := append(make([]T, 0, len(items)), items...)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// SeedFunc yields the seed for a new session shuffle.
type SeedFunc func() uint64

// TimeSeed seeds from the wall clock.
func TimeSeed() uint64 {
	return uint64(time.Now().UnixNano())
}

// Permutation is a session's shuffled catalog and the seed that made it.
type Permutation struct {
	Seed     uint64
	Products []models.Product
}

// Cache hands out one permutation per tab for the life of the session. A
// stored permutation is reused as long as it was built from the current
// catalog version.
type Cache struct {
	seed  SeedFunc
	log   *zap.Logger
	group singleflight.Group
}

func NewCache(seed SeedFunc, log *zap.Logger) *Cache {
	if seed == nil {
		seed = TimeSeed
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{seed: seed, log: log}
}

func (c *Cache) Get(ctx context.Context, st *session.State, snap *catalog.Snapshot) (Permutation, error) {
	v, err, _ := c.group.Do(st.Tab()+"|"+snap.Version, func() (any, error) {
		rec, ok, err := st.LoadShuffle(ctx)
		if err != nil {
			c.log.Warn("shuffle cache unreadable, reshuffling", zap.String("tab", st.Tab()), zap.Error(err))
		}
		if ok && rec.Version == snap.Version && len(rec.Products) == len(snap.Products) {
			return Permutation{Seed: rec.Seed, Products: rec.Products}, nil
		}

		seed := c.seed()
		perm := Permutation{Seed: seed, Products: Shuffle(snap.Products, NewRand(seed))}
		err = st.SaveShuffle(ctx, session.ShuffleRecord{
			Seed:     perm.Seed,
			Version:  snap.Version,
			Products: perm.Products,
		})
		if err != nil {
			c.log.Warn("failed to persist shuffle", zap.String("tab", st.Tab()), zap.Error(err))
		}
		return perm, nil
	})
	if err != nil {
		return Permutation{}, err
	}
	return v.(Permutation), nil
}
