package storefront

import (
	"context"
	"net/url"
	"slices"
	"testing"
	"time"

	"github.com/kitcomfeedback-cell/kitchen-store/engine"
	"github.com/kitcomfeedback-cell/kitchen-store/events"
	"github.com/kitcomfeedback-cell/kitchen-store/models"
	"github.com/kitcomfeedback-cell/kitchen-store/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func openPage(t *testing.T, svc *Service, tab string) (*Page, *RecordingHistory) {
	t.Helper()
	h := &RecordingHistory{}
	p, err := svc.Open(context.Background(), tab, h)
	require.NoError(t, err)
	t.Cleanup(p.Close)
	return p, h
}

func cardIDs(cards []models.ProductCard) []string {
	ids := make([]string, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	return ids
}

func cardPrices(cards []models.ProductCard) []float64 {
	out := make([]float64, len(cards))
	for i, c := range cards {
		out[i] = c.DisplayPrice()
	}
	return out
}

func storedValues(t *testing.T, store session.Store, tab string) map[string]string {
	t.Helper()
	values, err := store.Load(context.Background(), tab)
	require.NoError(t, err)
	return values
}

func TestOpenFreshTab(t *testing.T) {
	store := session.NewMemoryStore(0, 0)
	svc := newService(store, 0)
	p, h := openPage(t, svc, "tab-1")

	assert.Equal(t, models.HomeView(), p.State().View)
	assert.Equal(t, &models.Window{Visible: 20, Total: 51, HasMore: true}, p.Window())
	assert.Len(t, p.Listing().Products, 20)
	assert.Empty(t, h.Entries())

	values := storedValues(t, store, "tab-1")
	assert.Equal(t, "7", values[session.KeyShuffleSeed])
	assert.Contains(t, values, session.KeyShuffled)

	_, err := svc.Open(context.Background(), "", nil)
	assert.ErrorIs(t, err, session.ErrNoTab)
}

func TestSelectAndSortUpdateHistory(t *testing.T) {
	svc := newService(session.NewMemoryStore(0, 0), 0)
	p, h := openPage(t, svc, "tab-1")
	ctx := context.Background()

	out, err := p.Select(ctx, models.CategoryView("Bottles"))
	require.NoError(t, err)
	assert.Equal(t, "/?subcategory=Bottles", out.URL)
	assert.Equal(t, []float64{150, 300, 450}, cardPrices(out.Products))

	out, err = p.Sort(ctx, models.SortHighLow)
	require.NoError(t, err)
	assert.Equal(t, []float64{450, 300, 150}, cardPrices(out.Products))
	// sorting rewrites the current entry instead of adding one
	assert.Equal(t, []string{"/?sort=high-low&subcategory=Bottles"}, h.Entries())

	_, err = p.Select(ctx, models.PriceView("Under 1,000"))
	require.NoError(t, err)
	assert.Len(t, h.Entries(), 2)
	assert.Equal(t, models.SortBest, p.State().View.Sort)
}

func TestSelectErrorsLeaveStateAlone(t *testing.T) {
	svc := newService(session.NewMemoryStore(0, 0), 0)
	p, h := openPage(t, svc, "tab-1")
	ctx := context.Background()

	_, err := p.Select(ctx, models.PriceView("cheap"))
	assert.ErrorIs(t, err, engine.ErrUnknownPriceRange)
	_, err = p.Sort(ctx, "bogus")
	assert.ErrorIs(t, err, engine.ErrUnknownSort)

	assert.Equal(t, models.HomeView(), p.State().View)
	assert.Empty(t, h.Entries())
}

func TestSearchRendersSkeletonFirst(t *testing.T) {
	svc := newService(session.NewMemoryStore(0, 0), 5*time.Millisecond)
	p, h := openPage(t, svc, "tab-1")

	var frames []models.StorefrontListing
	out, err := p.Search(context.Background(), "spoon", func(l models.StorefrontListing) {
		frames = append(frames, l)
	})
	require.NoError(t, err)
	require.Len(t, frames, 2)

	assert.True(t, frames[0].Skeleton)
	assert.NotNil(t, frames[0].Products)
	assert.Empty(t, frames[0].Products)

	assert.False(t, frames[1].Skeleton)
	assert.Equal(t, out, frames[1])
	assert.GreaterOrEqual(t, out.Matches, 3)
	assert.Len(t, out.Products, 20)
	assert.Subset(t, cardIDs(out.Products[:out.Matches]), []string{"sp-1", "sp-2", "sp-3"})
	assert.Equal(t, "/?search=spoon", h.Current())
}

func TestSearchWithoutRenderSkipsSkeleton(t *testing.T) {
	svc := newService(session.NewMemoryStore(0, 0), time.Hour)
	p, _ := openPage(t, svc, "tab-1")

	out, err := p.Search(context.Background(), "bottle", nil)
	require.NoError(t, err)
	assert.Equal(t, models.ModeSearch, out.View.Mode)
	assert.False(t, out.Skeleton)
}

func TestBlankSearchGoesHome(t *testing.T) {
	svc := newService(session.NewMemoryStore(0, 0), time.Hour)
	p, _ := openPage(t, svc, "tab-1")
	ctx := context.Background()

	_, err := p.Select(ctx, models.CategoryView("Knives"))
	require.NoError(t, err)

	var frames []models.StorefrontListing
	out, err := p.Search(ctx, "   ", func(l models.StorefrontListing) { frames = append(frames, l) })
	require.NoError(t, err)
	assert.Equal(t, models.HomeView(), out.View)
	require.Len(t, frames, 1)
	assert.False(t, frames[0].Skeleton)
}

func TestNewerSelectionSupersedesSearch(t *testing.T) {
	svc := newService(session.NewMemoryStore(0, 0), 50*time.Millisecond)
	p, h := openPage(t, svc, "tab-1")
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	ctx := context.Background()

	skeleton := make(chan struct{})
	done := make(chan error, 1)
	var frames []models.StorefrontListing
	go func() {
		_, err := p.Search(ctx, "spoon", func(l models.StorefrontListing) {
			frames = append(frames, l)
			if l.Skeleton {
				close(skeleton)
			}
		})
		done <- err
	}()

	<-skeleton
	_, err := p.Select(ctx, models.CategoryView("Bottles"))
	require.NoError(t, err)

	assert.ErrorIs(t, <-done, ErrSuperseded)
	assert.Len(t, frames, 1)
	assert.Equal(t, models.CategoryView("Bottles"), p.State().View)
	assert.Equal(t, []string{"/?subcategory=Bottles"}, h.Entries())
}

func TestNewerSelectionFromAnotherPageSupersedesSearch(t *testing.T) {
	store := session.NewMemoryStore(0, 0)
	svc := newService(store, 50*time.Millisecond)
	searching, _ := openPage(t, svc, "tab-1")
	idle, _ := openPage(t, svc, "tab-1")
	selecting, _ := openPage(t, svc, "tab-1")
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	ctx := context.Background()

	skeleton := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := searching.Search(ctx, "spoon", func(l models.StorefrontListing) {
			if l.Skeleton {
				close(skeleton)
			}
		})
		done <- err
	}()

	<-skeleton
	_, err := selecting.Select(ctx, models.CategoryView("Bottles"))
	require.NoError(t, err)
	assert.ErrorIs(t, <-done, ErrSuperseded)

	// a page opened before the selection cannot overwrite it either
	_, err = idle.Sort(ctx, models.SortHighLow)
	assert.ErrorIs(t, err, ErrSuperseded)
	require.NoError(t, idle.Dispatch(ctx, events.Event{Kind: events.PageHide, ScrollY: 900}))

	reopened, _ := openPage(t, svc, "tab-1")
	assert.Equal(t, models.CategoryView("Bottles"), reopened.State().View)
	assert.NotContains(t, storedValues(t, store, "tab-1"), session.ScrollKey("home"))

	// once it picks up the change, the page sorts normally
	require.NoError(t, idle.Dispatch(ctx, events.Event{Kind: events.Storage}))
	out, err := idle.Sort(ctx, models.SortHighLow)
	require.NoError(t, err)
	assert.Equal(t, []float64{450, 300, 150}, cardPrices(out.Products))
}

func TestResetKeepsShuffle(t *testing.T) {
	store := session.NewMemoryStore(0, 0)
	svc := newService(store, 0)
	p, _ := openPage(t, svc, "tab-1")
	ctx := context.Background()
	home := models.ProductIDs(p.State().Display)

	_, err := p.Select(ctx, models.CategoryView("Bottles"))
	require.NoError(t, err)
	require.Contains(t, storedValues(t, store, "tab-1"), session.KeyBaseProducts)

	out, err := p.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.HomeView(), out.View)
	assert.Equal(t, home, models.ProductIDs(p.State().Display))

	values := storedValues(t, store, "tab-1")
	assert.NotContains(t, values, session.KeyBaseProducts)
	assert.Equal(t, "7", values[session.KeyShuffleSeed])
	assert.Equal(t, string(models.ModeNone), values[session.KeyViewMode])
}

func TestRestoreInfersCategoryFromStoredLabel(t *testing.T) {
	store := session.NewMemoryStore(0, 0)
	ctx := context.Background()
	// an older client left only the label, the sort and the scroll offset
	require.NoError(t, store.Save(ctx, "tab-7", map[string]string{
		session.KeyLastQuery:        "Cookware",
		session.KeyActiveFilter:     "low-high",
		session.ScrollKey("search"): "1200",
	}))
	svc := newService(store, 0)
	p, h := openPage(t, svc, "tab-7")

	out := p.Restore(ctx, nil)
	assert.Equal(t, models.ViewState{Mode: models.ModeCategory, Value: "Cookware", Sort: models.SortLowHigh}, out.View)
	assert.Equal(t, []string{"cw-3", "cw-1", "cw-2"}, cardIDs(out.Products))
	require.NotNil(t, out.Scroll)
	assert.Equal(t, &models.ScrollRequest{Offset: 1200, Attempts: 3, IntervalMs: 1}, out.Scroll)
	assert.Equal(t, []string{"/?sort=low-high&subcategory=Cookware"}, h.Entries())

	values := storedValues(t, store, "tab-7")
	assert.Equal(t, string(models.ModeCategory), values[session.KeyViewMode])
}

func TestRestoreStoredLabelThatIsNotASubcategory(t *testing.T) {
	store := session.NewMemoryStore(0, 0)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "tab-1", map[string]string{session.KeyLastQuery: "spoon"}))
	p, _ := openPage(t, newService(store, 0), "tab-1")

	out := p.Restore(ctx, nil)
	assert.Equal(t, models.ModeSearch, out.View.Mode)
	assert.Equal(t, "spoon", out.View.Value)
}

func TestRestoreURLWins(t *testing.T) {
	store := session.NewMemoryStore(0, 0)
	svc := newService(store, 0)
	ctx := context.Background()

	first, _ := openPage(t, svc, "tab-1")
	_, err := first.Select(ctx, models.CategoryView("Bottles"))
	require.NoError(t, err)
	_, err = first.Sort(ctx, models.SortHighLow)
	require.NoError(t, err)

	// same selector: the stored sort survives unless the URL names one
	p, _ := openPage(t, svc, "tab-1")
	out := p.Restore(ctx, url.Values{models.QuerySubcategory: {"bottles"}})
	assert.Equal(t, models.SortHighLow, out.View.Sort)
	out = p.Restore(ctx, url.Values{models.QuerySubcategory: {"Bottles"}, models.QuerySort: {"low-high"}})
	assert.Equal(t, []float64{150, 300, 450}, cardPrices(out.Products))

	// a different selector replaces the stored view wholesale
	out = p.Restore(ctx, url.Values{models.QuerySearch: {"spoon"}})
	assert.Equal(t, models.SearchView("spoon"), out.View)
	assert.Zero(t, out.Scroll.Offset)

	again, _ := openPage(t, svc, "tab-1")
	assert.Equal(t, models.SearchView("spoon"), again.Restore(ctx, nil).View)
}

func TestReopenRestoresListAndScroll(t *testing.T) {
	store := session.NewMemoryStore(0, 0)
	svc := newService(store, 0)
	ctx := context.Background()

	first, _ := openPage(t, svc, "tab-1")
	_, err := first.Select(ctx, models.CategoryView("Cookware"))
	require.NoError(t, err)
	_, err = first.Sort(ctx, models.SortLowHigh)
	require.NoError(t, err)
	require.NoError(t, first.Dispatch(ctx, events.Event{Kind: events.Scroll, ScrollY: 500, Height: 800, DocumentHeight: 4000}))

	p, _ := openPage(t, svc, "tab-1")
	out := p.Restore(ctx, nil)
	assert.Equal(t, models.ProductIDs(first.State().Display), cardIDs(out.Products))
	assert.Equal(t, 500.0, out.Scroll.Offset)
}

func TestScrollRevealsAndPersistsHomeWindow(t *testing.T) {
	store := session.NewMemoryStore(0, 0)
	svc := newService(store, 0)
	p, _ := openPage(t, svc, "tab-1")
	ctx := context.Background()

	require.NoError(t, p.Dispatch(ctx, events.Event{Kind: events.Scroll, ScrollY: 3100, Height: 800, DocumentHeight: 4000}))
	assert.Equal(t, 40, p.Window().Visible)

	values := storedValues(t, store, "tab-1")
	assert.Equal(t, "3100", values[session.ScrollKey("home")])
	assert.Equal(t, "40", values[session.VisibleKey("home")])

	again, _ := openPage(t, svc, "tab-1")
	assert.Equal(t, 40, again.Window().Visible)
	assert.Equal(t, models.ProductIDs(p.State().Display), models.ProductIDs(again.State().Display))
}

func TestLeavePersistsScroll(t *testing.T) {
	store := session.NewMemoryStore(0, 0)
	p, _ := openPage(t, newService(store, 0), "tab-1")

	require.NoError(t, p.Dispatch(context.Background(), events.Event{Kind: events.PageHide, ScrollY: 250}))
	assert.Equal(t, "250", storedValues(t, store, "tab-1")[session.ScrollKey("home")])
}

func TestPopStateFollowsURL(t *testing.T) {
	svc := newService(session.NewMemoryStore(0, 0), 0)
	p, h := openPage(t, svc, "tab-1")
	ctx := context.Background()

	_, err := p.Select(ctx, models.CategoryView("Bottles"))
	require.NoError(t, err)
	_, err = p.Select(ctx, models.SearchView("spoon"))
	require.NoError(t, err)
	entries := h.Entries()
	require.Equal(t, []string{"/?subcategory=Bottles", "/?search=spoon"}, entries)

	// back/forward moves rebuild the view without touching history
	require.NoError(t, p.Dispatch(ctx, events.Event{Kind: events.PopState, URL: "/?subcategory=Bottles"}))
	assert.Equal(t, models.CategoryView("Bottles"), p.State().View)
	assert.Equal(t, entries, h.Entries())

	require.NoError(t, p.Dispatch(ctx, events.Event{Kind: events.PopState, URL: "/?price=Under+1%2C000&sort=low-high"}))
	st := p.State()
	assert.Equal(t, models.ModePrice, st.View.Mode)
	assert.Equal(t, models.SortLowHigh, st.View.Sort)
	assert.True(t, slices.IsSortedFunc(st.Display, func(a, b models.Product) int {
		return int(a.DisplayPrice() - b.DisplayPrice())
	}))
	assert.Equal(t, entries, h.Entries())

	require.NoError(t, p.Dispatch(ctx, events.Event{Kind: events.PopState, URL: "/"}))
	assert.Equal(t, models.HomeView(), p.State().View)
	assert.Equal(t, entries, h.Entries())

	assert.Error(t, p.Dispatch(ctx, events.Event{Kind: events.PopState, URL: "%zz"}))
}

func TestStorageEventResumesFromStore(t *testing.T) {
	svc := newService(session.NewMemoryStore(0, 0), 0)
	a, _ := openPage(t, svc, "shared")
	b, _ := openPage(t, svc, "shared")
	ctx := context.Background()

	_, err := a.Select(ctx, models.CategoryView("Bottles"))
	require.NoError(t, err)
	require.Equal(t, models.HomeView(), b.State().View)

	require.NoError(t, b.Dispatch(ctx, events.Event{Kind: events.Storage}))
	assert.Equal(t, models.CategoryView("Bottles"), b.State().View)
}

func TestCloseDropsSubscriptions(t *testing.T) {
	svc := newService(session.NewMemoryStore(0, 0), 0)
	p, err := svc.Open(context.Background(), "tab-1", nil)
	require.NoError(t, err)
	require.Positive(t, p.bus.Len())

	p.Close()
	p.Close()
	assert.Zero(t, p.bus.Len())
	require.NoError(t, p.Dispatch(context.Background(), events.Event{Kind: events.Scroll, ScrollY: 3100, Height: 800, DocumentHeight: 4000}))
	assert.Equal(t, 20, p.Window().Visible)
}
