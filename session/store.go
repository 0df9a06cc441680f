// Package session persists per-tab storefront state: the view, the scroll
// position, the revealed count and the session shuffle.
package session

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultTTL     = 30 * time.Minute
	DefaultMaxTabs = 10000
	redisKeyPrefix = "storefront:tab:"
)

var ErrNoTab = errors.New("session: empty tab id")

// Store is a string key/value store scoped to one browsing tab.
// Writes are last-writer-wins.
type Store interface {
	Load(ctx context.Context, tab string) (map[string]string, error)
	Save(ctx context.Context, tab string, values map[string]string) error
	Delete(ctx context.Context, tab string, keys ...string) error
	Clear(ctx context.Context, tab string) error
	// Incr adds delta to the integer under key and returns the new value.
	// A missing key counts as 0.
	Incr(ctx context.Context, tab, key string, delta int64) (int64, error)
}

// ── In-memory store ─────────────────────────────────────────────────────────

type tabValues struct {
	mu     sync.Mutex
	values map[string]string
}

// MemoryStore keeps tabs in an expiring LRU; an idle tab disappears after
// the TTL, like a closed browser tab.
type MemoryStore struct {
	mu   sync.Mutex
	tabs *expirable.LRU[string, *tabValues]
}

func NewMemoryStore(maxTabs int, ttl time.Duration) *MemoryStore {
	if maxTabs <= 0 {
		maxTabs = DefaultMaxTabs
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{tabs: expirable.NewLRU[string, *tabValues](maxTabs, nil, ttl)}
}

func (m *MemoryStore) tab(tab string, create bool) *tabValues {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tabs.Get(tab)
	if !ok {
		if !create {
			return nil
		}
		t = &tabValues{values: map[string]string{}}
	}
	// re-adding slides the expiry window
	m.tabs.Add(tab, t)
	return t
}

func (m *MemoryStore) Load(_ context.Context, tab string) (map[string]string, error) {
	if tab == "" {
		return nil, ErrNoTab
	}
	t := m.tab(tab, false)
	if t == nil {
		return map[string]string{}, nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return maps.Clone(t.values), nil
}

func (m *MemoryStore) Save(_ context.Context, tab string, values map[string]string) error {
	if tab == "" {
		return ErrNoTab
	}
	t := m.tab(tab, true)
	t.mu.Lock()
	defer t.mu.Unlock()
	maps.Copy(t.values, values)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, tab string, keys ...string) error {
	if tab == "" {
		return ErrNoTab
	}
	t := m.tab(tab, false)
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, k := range keys {
		delete(t.values, k)
	}
	return nil
}

func (m *MemoryStore) Clear(_ context.Context, tab string) error {
	if tab == "" {
		return ErrNoTab
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tabs.Remove(tab)
	return nil
}

func (m *MemoryStore) Incr(_ context.Context, tab, key string, delta int64) (int64, error) {
	if tab == "" {
		return 0, ErrNoTab
	}
	t := m.tab(tab, delta != 0)
	if t == nil {
		return 0, nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	n, _ := strconv.ParseInt(t.values[key], 10, 64)
	n += delta
	t.values[key] = strconv.FormatInt(n, 10)
	return n, nil
}

// ── Redis store ─────────────────────────────────────────────────────────────

// RedisStore keeps each tab in one hash with a sliding expiry.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(tab string) string {
	return redisKeyPrefix + tab
}

func (r *RedisStore) Load(ctx context.Context, tab string) (map[string]string, error) {
	if tab == "" {
		return nil, ErrNoTab
	}
	values, err := r.client.HGetAll(ctx, redisKey(tab)).Result()
	if err != nil {
		return nil, fmt.Errorf("session: load tab: %w", err)
	}
	return values, nil
}

func (r *RedisStore) Save(ctx context.Context, tab string, values map[string]string) error {
	if tab == "" {
		return ErrNoTab
	}
	if len(values) == 0 {
		return nil
	}
	args := make([]any, 0, 2*len(values))
	for k, v := range values {
		args = append(args, k, v)
	}
	key := redisKey(tab)
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, args...)
	pipe.Expire(ctx, key, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("session: save tab: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, tab string, keys ...string) error {
	if tab == "" {
		return ErrNoTab
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.HDel(ctx, redisKey(tab), keys...).Err(); err != nil {
		return fmt.Errorf("session: delete keys: %w", err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context, tab string) error {
	if tab == "" {
		return ErrNoTab
	}
	if err := r.client.Del(ctx, redisKey(tab)).Err(); err != nil {
		return fmt.Errorf("session: clear tab: %w", err)
	}
	return nil
}

func (r *RedisStore) Incr(ctx context.Context, tab, key string, delta int64) (int64, error) {
	if tab == "" {
		return 0, ErrNoTab
	}
	k := redisKey(tab)
	pipe := r.client.TxPipeline()
	incr := pipe.HIncrBy(ctx, k, key, delta)
	pipe.Expire(ctx, k, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("session: incr %s: %w", key, err)
	}
	return incr.Val(), nil
}
