package storefront

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/kitcomfeedback-cell/kitchen-store/catalog"
	"github.com/kitcomfeedback-cell/kitchen-store/engine"
	"github.com/kitcomfeedback-cell/kitchen-store/events"
	"github.com/kitcomfeedback-cell/kitchen-store/models"
	"github.com/kitcomfeedback-cell/kitchen-store/session"
	"go.uber.org/zap"
)

// Restore sources, as counted by metrics.
const (
	sourceURL     = "url"
	sourceSession = "session"
	sourceFresh   = "fresh"
)

// Page is one tab's product list. It is rebuilt from the session store on
// Open and writes itself back after every change.
type Page struct {
	svc     *Service
	state   *session.State
	input   engine.Input
	history History
	bus     *events.Bus
	log     *zap.Logger

	mu        sync.Mutex
	current   engine.State
	scrollY   float64
	gen       int64 // tab selection generation current belongs to
	disposers []events.Disposer
}

// Open loads the tab's catalog permutation and its last view. A tab with
// nothing stored opens on the shuffled home list.
func (s *Service) Open(ctx context.Context, tab string, history History) (*Page, error) {
	if tab == "" {
		return nil, session.ErrNoTab
	}
	snap, err := s.catalog.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("storefront: load catalog: %w", err)
	}
	st := session.NewState(s.store, tab, s.log)
	perm, err := s.shuffles.Get(ctx, st, snap)
	if err != nil {
		return nil, fmt.Errorf("storefront: shuffle: %w", err)
	}
	if history == nil {
		history = &RecordingHistory{}
	}

	p := &Page{
		svc:     s,
		state:   st,
		input:   engine.Input{Catalog: snap, Shuffled: perm.Products, Seed: perm.Seed},
		history: history,
		bus:     events.NewBus(),
		log:     s.log.With(zap.String("tab", tab)),
	}
	p.resume(ctx, nil)
	p.disposers = []events.Disposer{
		p.bus.Subscribe(events.Scroll, p.onScroll),
		p.bus.Subscribe(events.Navigate, p.onLeave),
		p.bus.Subscribe(events.PageHide, p.onLeave),
		p.bus.Subscribe(events.BeforeUnload, p.onLeave),
		p.bus.Subscribe(events.PopState, p.onPopState),
		p.bus.Subscribe(events.Storage, p.onStorage),
	}
	return p, nil
}

// Close drops the page's event subscriptions.
func (p *Page) Close() {
	for _, d := range p.disposers {
		d()
	}
	p.disposers = nil
}

// Dispatch delivers a client event to the page.
func (p *Page) Dispatch(ctx context.Context, ev events.Event) error {
	return p.bus.Publish(ctx, ev)
}

// State is the page's current engine state.
func (p *Page) State() engine.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Listing renders the revealed window.
func (p *Page) Listing() models.StorefrontListing {
	p.mu.Lock()
	defer p.mu.Unlock()
	return listing(p.current)
}

// Window describes how much of the list is revealed.
func (p *Page) Window() *models.Window {
	p.mu.Lock()
	defer p.mu.Unlock()
	return &models.Window{
		Visible: len(p.current.Window()),
		Total:   len(p.current.Display),
		HasMore: p.current.HasMore(),
	}
}

// Select activates the view's selector, replacing whatever was active, and
// pushes its URL. Searches go through Search without a skeleton frame.
func (p *Page) Select(ctx context.Context, view models.ViewState) (models.StorefrontListing, error) {
	return p.activate(ctx, view, nil, p.history.Push)
}

// Search runs a free-text search. render, when set, first receives a
// skeleton frame and then, after the configured delay, the result; without
// render there is no skeleton and no delay. If a newer selection starts on
// the tab meanwhile, from this page or any other, this search is dropped
// and returns ErrSuperseded, so the newest selection lands last.
func (p *Page) Search(ctx context.Context, term string, render func(models.StorefrontListing)) (models.StorefrontListing, error) {
	return p.activate(ctx, models.SearchView(term), render, p.history.Push)
}

// activate runs the view's selector, and its sort when one is set, then
// lands the result. record receives the new URL; nil leaves history alone.
// A selection that fails to build never starts a new generation.
func (p *Page) activate(ctx context.Context, view models.ViewState, render func(models.StorefrontListing), record func(string)) (models.StorefrontListing, error) {
	view = view.Normalize()
	build := p.svc.engine.Activate
	if view.Sort != models.SortBest {
		build = p.svc.engine.Rehydrate
	}

	deferred := view.Mode == models.ModeSearch && render != nil
	var st engine.State
	if !deferred {
		var err error
		if st, err = build(p.input, view); err != nil {
			return models.StorefrontListing{}, err
		}
	}
	gen := p.nextSelection(ctx)

	if deferred {
		render(models.StorefrontListing{
			View:     view,
			URL:      view.URL(),
			Products: []models.ProductCard{},
			Skeleton: true,
		})
		if d := p.svc.opts.SearchDelay; d > 0 {
			t := time.NewTimer(d)
			select {
			case <-ctx.Done():
				t.Stop()
				return models.StorefrontListing{}, ctx.Err()
			case <-t.C:
			}
		}
		var err error
		if st, err = build(p.input, view); err != nil {
			return models.StorefrontListing{}, err
		}
	}

	out, err := p.land(ctx, gen, record, func() { p.commit(st, 0) })
	if err != nil {
		if errors.Is(err, ErrSuperseded) {
			p.log.Debug("dropping stale selection",
				zap.String("mode", string(view.Mode)),
				zap.String("value", view.Value))
		}
		return models.StorefrontListing{}, err
	}
	if render != nil {
		render(out)
	}
	return out, nil
}

// unchecked marks a selection whose generation could not be taken; it
// lands without comparing.
const unchecked = -1

// nextSelection starts a selection on the tab.
func (p *Page) nextSelection(ctx context.Context) int64 {
	gen, err := p.state.NextSelection(ctx)
	if err != nil {
		p.log.Warn("failed to start selection", zap.Error(err))
		return unchecked
	}
	return gen
}

// land applies change and persists the page, unless the tab has moved past
// generation gen, in which case nothing is written and ErrSuperseded is
// returned.
func (p *Page) land(ctx context.Context, gen int64, record func(string), change func()) (models.StorefrontListing, error) {
	unlock := p.svc.lockTab(p.state.Tab())
	defer unlock()

	if gen != unchecked {
		cur, err := p.state.Selection(ctx)
		switch {
		case err != nil:
			p.log.Warn("failed to read selection generation", zap.Error(err))
		case cur != gen:
			return models.StorefrontListing{}, ErrSuperseded
		}
	}

	p.mu.Lock()
	change()
	p.gen = gen
	out := listing(p.current)
	p.mu.Unlock()

	if record != nil {
		record(out.URL)
	}
	p.persist(ctx)
	return out, nil
}

// Sort applies a secondary sort to the active list and rewrites the
// current history entry.
func (p *Page) Sort(ctx context.Context, key models.SortKey) (models.StorefrontListing, error) {
	p.mu.Lock()
	st, err := p.svc.engine.ApplySort(p.current, key)
	gen := p.gen
	p.mu.Unlock()
	if err != nil {
		return models.StorefrontListing{}, err
	}
	return p.land(ctx, gen, p.history.Replace, func() { p.current = st })
}

// Reset returns the tab to the unfiltered home list. The session shuffle
// is kept.
func (p *Page) Reset(ctx context.Context) (models.StorefrontListing, error) {
	return p.reset(ctx, p.history.Push)
}

func (p *Page) reset(ctx context.Context, record func(string)) (models.StorefrontListing, error) {
	if err := p.state.Reset(ctx); err != nil {
		p.log.Warn("failed to reset session state", zap.Error(err))
	}
	return p.activate(ctx, models.HomeView(), nil, record)
}

// Restore rebuilds the view the tab last showed. Selector parameters in
// query take precedence over the stored view. The listing carries the
// scroll offset the client should restore once layout settles.
func (p *Page) Restore(ctx context.Context, query url.Values) models.StorefrontListing {
	p.nextSelection(ctx)
	source := p.resume(ctx, query)
	p.svc.metrics.ObserveRestore(source)

	p.mu.Lock()
	gen := p.gen
	p.mu.Unlock()
	out, err := p.land(ctx, gen, p.history.Replace, func() {})
	if err != nil {
		// a newer selection landed while restoring; show what is here
		out = p.Listing()
	}
	p.mu.Lock()
	out.Scroll = p.svc.scrollRequest(p.scrollY)
	p.mu.Unlock()
	return out
}

// resume loads the stored snapshot, merges the URL selector into it and
// re-runs the selector. It returns where the view came from.
func (p *Page) resume(ctx context.Context, query url.Values) string {
	saved, found, err := p.state.Load(ctx)
	if err != nil {
		p.log.Warn("session state unreadable, starting fresh", zap.Error(err))
		saved, found = session.Snapshot{View: models.HomeView()}, false
	}
	gen := saved.Selection
	source := sourceSession
	if !found {
		source = sourceFresh
	}

	view := saved.View
	if urlView, ok := models.ViewStateFromQuery(query); ok {
		source = sourceURL
		if sameSelector(urlView, view) {
			if query.Has(models.QuerySort) {
				view.Sort = urlView.Sort
			}
		} else {
			view = urlView
			saved = session.Snapshot{View: urlView}
		}
	}

	if saved.Inferred && view.Mode == models.ModeSearch &&
		catalog.HasSubcategory(p.input.Catalog.Catalog, view.Value) {
		view.Mode = models.ModeCategory
	}

	st, err := p.svc.engine.Rehydrate(p.input, view)
	if err != nil {
		p.log.Warn("could not rehydrate view",
			zap.String("mode", string(view.Mode)),
			zap.String("value", view.Value),
			zap.Error(err))
		if view.Active() && len(saved.Base) > 0 {
			view = view.Normalize()
			st, err = p.svc.engine.ApplySort(engine.State{View: view, Base: saved.Base, Display: saved.Base}, view.Sort)
		}
		if err != nil {
			st, _ = p.svc.engine.Activate(p.input, models.HomeView())
			saved = session.Snapshot{}
			source = sourceFresh
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = engine.Restore(st, saved.Visible)
	p.scrollY = saved.ScrollY
	p.gen = gen
	return source
}

func (p *Page) commit(st engine.State, scrollY float64) {
	p.current = st
	p.scrollY = scrollY
}

// persist snapshots the page into the session store. Store failures are
// logged; the tab keeps working from memory.
func (p *Page) persist(ctx context.Context) {
	p.mu.Lock()
	snap := session.Snapshot{
		View:    p.current.View,
		Base:    p.current.Base,
		ScrollY: p.scrollY,
		Visible: p.current.Visible,
	}
	p.mu.Unlock()
	if err := p.state.Save(ctx, snap); err != nil {
		p.log.Warn("failed to persist session state", zap.Error(err))
	}
}

func (p *Page) onScroll(ctx context.Context, ev events.Event) error {
	p.mu.Lock()
	p.scrollY = max(ev.ScrollY, 0)
	p.current = p.svc.engine.OnScroll(p.current, engine.Viewport{
		ScrollY:        ev.ScrollY,
		Height:         ev.Height,
		DocumentHeight: ev.DocumentHeight,
	})
	scope, y, visible := p.current.View.Scope(), p.scrollY, p.current.Visible
	p.mu.Unlock()
	return p.state.SaveScroll(ctx, scope, y, visible)
}

func (p *Page) onLeave(ctx context.Context, ev events.Event) error {
	p.mu.Lock()
	gen := p.gen
	p.mu.Unlock()
	_, err := p.land(ctx, gen, nil, func() {
		if ev.ScrollY > 0 {
			p.scrollY = ev.ScrollY
		}
	})
	if errors.Is(err, ErrSuperseded) {
		p.log.Debug("skipping snapshot of a superseded view")
		return nil
	}
	return err
}

// onPopState follows a back/forward move to ev.URL. The browser has
// already moved, so history is left as it is.
func (p *Page) onPopState(ctx context.Context, ev events.Event) error {
	u, err := url.Parse(ev.URL)
	if err != nil {
		return fmt.Errorf("storefront: popstate url: %w", err)
	}
	view, ok := models.ViewStateFromQuery(u.Query())
	if !ok {
		_, err = p.reset(ctx, nil)
		return err
	}
	_, err = p.activate(ctx, view, nil, nil)
	return err
}

// onStorage picks up a state change written by another writer.
func (p *Page) onStorage(ctx context.Context, _ events.Event) error {
	p.resume(ctx, nil)
	return nil
}

func sameSelector(a, b models.ViewState) bool {
	a, b = a.Normalize(), b.Normalize()
	return a.Mode == b.Mode && strings.EqualFold(a.Value, b.Value)
}

func listing(st engine.State) models.StorefrontListing {
	return models.StorefrontListing{
		View:     st.View,
		URL:      st.View.URL(),
		Products: catalog.Cards(st.Window()),
		Matches:  st.Matches,
	}
}
