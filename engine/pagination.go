package engine

import "github.com/kitcomfeedback-cell/kitchen-store/models"

const (
	// PageSize is how many products one scroll reveal adds.
	PageSize = 20
	// ScrollThreshold is how close to the bottom, in pixels, counts as
	// reaching it.
	ScrollThreshold = 150
)

// InitialVisible is the revealed count right after a selector runs. The
// unfiltered list pages in; filtered and searched lists are shown whole.
func InitialVisible(mode models.Mode, n int) int {
	if mode == models.ModeNone || mode == "" {
		return min(PageSize, n)
	}
	return n
}

// Viewport is the scroll geometry reported by the client.
type Viewport struct {
	ScrollY        float64 `json:"scroll_y"`
	Height         float64 `json:"height"`
	DocumentHeight float64 `json:"document_height"`
}

// NearBottom reports whether the viewport is within ScrollThreshold of the
// end of the document.
func NearBottom(vp Viewport) bool {
	return vp.ScrollY+vp.Height >= vp.DocumentHeight-ScrollThreshold
}

// Reveal adds one page to the window, clamped to the list length. Only the
// unfiltered list pages.
func (e *Engine) Reveal(st State) State {
	if st.View.Active() {
		return st
	}
	next := min(st.Visible+PageSize, len(st.Display))
	if next > st.Visible {
		st.Visible = next
		e.metrics.ObserveReveal()
	}
	return st
}

// OnScroll reveals a page when the viewport nears the bottom.
func (e *Engine) OnScroll(st State, vp Viewport) State {
	if !NearBottom(vp) {
		return st
	}
	return e.Reveal(st)
}

// Restore puts back a previously revealed count, clamped to the list.
// Filtered lists are always fully revealed.
func Restore(st State, visible int) State {
	if st.View.Active() {
		st.Visible = len(st.Display)
		return st
	}
	st.Visible = max(min(visible, len(st.Display)), InitialVisible(st.View.Mode, len(st.Display)))
	return st
}

// Window is the revealed slice of the display list.
func (st State) Window() []models.Product {
	n := max(0, min(st.Visible, len(st.Display)))
	return st.Display[:n]
}

// HasMore reports whether a reveal would show anything new.
func (st State) HasMore() bool {
	return !st.View.Active() && st.Visible < len(st.Display)
}
