package browser

// History is a hand-maintained back/forward stack of navigation tokens,
// used where the browser's own session history cannot be trusted.
// The cursor always satisfies -1 <= Index() < Len().
type History struct {
	entries []string
	pos     int // -1 when empty
}

// Snapshot is a read-only copy of a History.
type Snapshot struct {
	Entries []string
	Index   int
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{pos: -1}
}

// Push appends token after the cursor. Entries ahead of the cursor belong
// to an abandoned branch and are dropped first.
func (h *History) Push(token string) {
	if h.pos < len(h.entries)-1 {
		h.entries = h.entries[:h.pos+1]
	}
	h.entries = append(h.entries, token)
	h.pos++
}

// Back moves the cursor back one entry and returns it.
// It reports false, leaving the cursor untouched, when pos <= 0.
func (h *History) Back() (string, bool) {
	if !h.CanGoBack() {
		return "", false
	}
	h.pos--
	return h.entries[h.pos], true
}

// Forward moves the cursor forward one entry and returns it.
// It reports false at the tail.
func (h *History) Forward() (string, bool) {
	if !h.CanGoForward() {
		return "", false
	}
	h.pos++
	return h.entries[h.pos], true
}

// Current returns the entry under the cursor, or "" when empty.
func (h *History) Current() string {
	if h.pos < 0 {
		return ""
	}
	return h.entries[h.pos]
}

// CanGoBack reports whether there is a previous entry.
func (h *History) CanGoBack() bool {
	return h.pos > 0
}

// CanGoForward reports whether there is a next entry.
func (h *History) CanGoForward() bool {
	return h.pos < len(h.entries)-1
}

// Index returns the cursor position.
func (h *History) Index() int {
	return h.pos
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Reset empties the history.
func (h *History) Reset() {
	h.entries = nil
	h.pos = -1
}

// Snapshot copies the entries and cursor.
func (h *History) Snapshot() Snapshot {
	return Snapshot{
		Entries: append([]string(nil), h.entries...),
		Index:   h.pos,
	}
}
