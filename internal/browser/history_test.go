package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistoryPushAdvancesCursor(t *testing.T) {
	h := NewHistory()
	assert.Equal(t, -1, h.Index())
	assert.Equal(t, "", h.Current())

	h.Push("a")
	h.Push("b")
	h.Push("c")

	assert.Equal(t, 2, h.Index())
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, "c", h.Current())
}

func TestHistoryBranchTruncatesForward(t *testing.T) {
	h := NewHistory()
	h.Push("a")
	h.Push("b")
	h.Push("c")

	got, ok := h.Back()
	assert.True(t, ok)
	assert.Equal(t, "b", got)

	h.Push("d")
	assert.Equal(t, 2, h.Index())
	assert.Equal(t, []string{"a", "b", "d"}, h.Snapshot().Entries)
	assert.Equal(t, "d", h.Current())
	assert.False(t, h.CanGoForward())
}

func TestHistoryBackExhausted(t *testing.T) {
	h := NewHistory()
	_, ok := h.Back()
	assert.False(t, ok)
	assert.Equal(t, -1, h.Index())

	h.Push("only")
	_, ok = h.Back()
	assert.False(t, ok)
	assert.Equal(t, 0, h.Index())
}

func TestHistoryForward(t *testing.T) {
	h := NewHistory()
	h.Push("a")
	h.Push("b")

	_, ok := h.Forward()
	assert.False(t, ok, "forward at tail is a no-op")
	assert.Equal(t, 1, h.Index())

	h.Back()
	got, ok := h.Forward()
	assert.True(t, ok)
	assert.Equal(t, "b", got)
	assert.Equal(t, 1, h.Index())
}

func TestHistoryReset(t *testing.T) {
	h := NewHistory()
	h.Push("a")
	h.Push("b")
	h.Reset()

	assert.Equal(t, 0, h.Len())
	assert.Equal(t, -1, h.Index())
	assert.False(t, h.CanGoBack())
	assert.False(t, h.CanGoForward())
}

func TestHistoryCursorInvariant(t *testing.T) {
	h := NewHistory()
	ops := []func(){
		func() { h.Push("x") },
		func() { h.Back() },
		func() { h.Forward() },
		func() { h.Back() },
		func() { h.Back() },
		func() { h.Push("y") },
		func() { h.Reset() },
		func() { h.Forward() },
	}
	for i := 0; i < 40; i++ {
		ops[i%len(ops)]()
		assert.GreaterOrEqual(t, h.Index(), -1)
		assert.Less(t, h.Index(), h.Len())
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	h := NewHistory()
	h.Push("a")
	snap := h.Snapshot()
	snap.Entries[0] = "mutated"
	assert.Equal(t, "a", h.Current())
}
