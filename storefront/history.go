package storefront

import "sync"

// History is the tab's navigable history. Selector changes push an entry;
// sort changes replace the current one.
type History interface {
	Push(url string)
	Replace(url string)
}

// RecordingHistory keeps the entries in memory. The HTTP API hands the
// current entry back to the client, which owns the real history.
type RecordingHistory struct {
	mu      sync.Mutex
	entries []string
}

func (h *RecordingHistory) Push(url string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, url)
}

func (h *RecordingHistory) Replace(url string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		h.entries = append(h.entries, url)
		return
	}
	h.entries[len(h.entries)-1] = url
}

// Entries returns a copy of the recorded history, oldest first.
func (h *RecordingHistory) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.entries...)
}

// Current is the latest entry, or "" when nothing was recorded.
func (h *RecordingHistory) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		return ""
	}
	return h.entries[len(h.entries)-1]
}
