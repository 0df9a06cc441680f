// Package events carries client-side happenings (scrolls, history moves,
// page teardown) to the handlers that persist and update tab state.
package events

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
)

type Kind string

const (
	Scroll       Kind = "scroll"
	PopState     Kind = "popstate"
	PageHide     Kind = "pagehide"
	BeforeUnload Kind = "beforeunload"
	Navigate     Kind = "navigate"
	Storage      Kind = "storage"
)

func (k Kind) Valid() bool {
	switch k {
	case Scroll, PopState, PageHide, BeforeUnload, Navigate, Storage:
		return true
	}
	return false
}

// Event is one client notification. Only the fields relevant to its Kind
// are set.
type Event struct {
	Kind           Kind    `json:"kind"`
	ScrollY        float64 `json:"scroll_y,omitempty"`
	Height         float64 `json:"height,omitempty"`
	DocumentHeight float64 `json:"document_height,omitempty"`
	ProductID      string  `json:"product_id,omitempty"`
	URL            string  `json:"url,omitempty"`
}

type Handler func(ctx context.Context, ev Event) error

// Disposer removes a subscription. Calling it more than once is harmless.
type Disposer func()

type subscription struct {
	kind    Kind
	handler Handler
}

// Bus dispatches events synchronously, in subscription order, on the
// publishing goroutine.
type Bus struct {
	seq  atomic.Uint64
	subs *xsync.MapOf[uint64, subscription]
}

func NewBus() *Bus {
	return &Bus{subs: xsync.NewMapOf[uint64, subscription]()}
}

func (b *Bus) Subscribe(kind Kind, h Handler) Disposer {
	id := b.seq.Add(1)
	b.subs.Store(id, subscription{kind: kind, handler: h})
	var once sync.Once
	return func() {
		once.Do(func() { b.subs.Delete(id) })
	}
}

// Publish runs every handler subscribed to ev.Kind. All handlers run even
// when some fail; their errors are joined.
func (b *Bus) Publish(ctx context.Context, ev Event) error {
	type entry struct {
		id uint64
		h  Handler
	}
	var matched []entry
	b.subs.Range(func(id uint64, s subscription) bool {
		if s.kind == ev.Kind {
			matched = append(matched, entry{id, s.handler})
		}
		return true
	})
	sort.Slice(matched, func(i, j int) bool { return matched[i].id < matched[j].id })

	var errs []error
	for _, m := range matched {
		if err := m.h(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len is the number of live subscriptions.
func (b *Bus) Len() int {
	return b.subs.Size()
}
