package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSim(pushState, hashChange bool) *Sim {
	return NewSim(SimConfig{
		URL:        "https://app.test/index.html#home",
		UserAgent:  "test-agent",
		Title:      "start",
		PushState:  pushState,
		HashChange: hashChange,
	})
}

func TestSimSetHashFiresEvents(t *testing.T) {
	s := newTestSim(true, true)

	var pops, hashes int
	s.OnPopState(func() { pops++ })
	s.OnHashChange(func() { hashes++ })

	s.SetHash("search")
	assert.Equal(t, "https://app.test/index.html#search", s.Href())
	assert.Equal(t, 1, pops)
	assert.Equal(t, 1, hashes)

	// Same fragment again is not a navigation.
	s.SetHash("#search")
	assert.Equal(t, 1, pops)
	assert.Equal(t, 1, hashes)

	entries, pos := s.Entries()
	assert.Len(t, entries, 2)
	assert.Equal(t, 1, pos)
}

func TestSimSetHashEmptyClearsFragment(t *testing.T) {
	s := newTestSim(false, true)
	s.SetHash("")
	assert.Equal(t, "https://app.test/index.html", s.Href())
}

func TestSimPushStateIsSilent(t *testing.T) {
	s := newTestSim(true, true)

	fired := 0
	s.OnPopState(func() { fired++ })
	s.OnHashChange(func() { fired++ })

	s.PushState(State{Hash: "search"}, "#search")
	assert.Equal(t, 0, fired)
	assert.Equal(t, "https://app.test/index.html#search", s.Href())

	st, ok := s.State()
	require.True(t, ok)
	assert.Equal(t, "search", st.Hash)
}

func TestSimGo(t *testing.T) {
	s := newTestSim(true, true)
	s.PushState(State{Hash: "a"}, "#a")
	s.PushState(State{Hash: "b"}, "#b")

	var pops, hashes int
	s.OnPopState(func() { pops++ })
	s.OnHashChange(func() { hashes++ })

	s.Go(-1)
	assert.Equal(t, "https://app.test/index.html#a", s.Href())
	assert.Equal(t, 1, pops)
	assert.Equal(t, 1, hashes)

	s.Go(-5)
	s.Go(0)
	assert.Equal(t, "https://app.test/index.html#a", s.Href())
	assert.Equal(t, 1, pops)

	s.Go(1)
	assert.Equal(t, "https://app.test/index.html#b", s.Href())

	// Branching drops the forward entries.
	s.Go(-2)
	s.SetHash("c")
	entries, pos := s.Entries()
	assert.Equal(t, 1, pos)
	assert.Len(t, entries, 2)
	_, ok := s.State()
	assert.False(t, ok)
}

func TestSimCapabilitySwitches(t *testing.T) {
	s := newTestSim(false, false)
	fired := 0
	s.OnPopState(func() { fired++ })
	s.OnHashChange(func() { fired++ })

	s.Navigate("#elsewhere")
	assert.Equal(t, 0, fired)
	assert.Equal(t, "https://app.test/index.html#elsewhere", s.Href())
	assert.False(t, s.SupportsPushState())
	assert.False(t, s.SupportsHashChange())
	assert.Equal(t, "test-agent", s.UserAgent())
}

func TestSimNavigateFullAddress(t *testing.T) {
	s := newTestSim(true, true)
	hashes := 0
	s.OnHashChange(func() { hashes++ })

	s.Navigate("https://app.test/index.html#home")
	assert.Equal(t, 0, hashes, "unchanged address")

	s.Navigate("https://app.test/index.html#q?x=1")
	assert.Equal(t, 1, hashes)
}

func TestSimRemoveListener(t *testing.T) {
	s := newTestSim(true, true)
	fired := 0
	remove := s.OnPopState(func() { fired++ })
	remove()
	s.SetHash("x")
	assert.Equal(t, 0, fired)
}

func TestSimListenerMayReenter(t *testing.T) {
	s := newTestSim(false, true)
	var seen string
	s.OnHashChange(func() { seen = s.Href() })
	s.SetHash("deep")
	assert.Equal(t, "https://app.test/index.html#deep", seen)
}

func TestDocumentTitle(t *testing.T) {
	s := newTestSim(true, true)
	assert.Equal(t, "start", s.Title())

	s.SetTitle("Search <results>")
	assert.Equal(t, "Search <results>", s.Title())

	html, err := s.Document().HTML()
	require.NoError(t, err)
	assert.Contains(t, html, "<title>Search &lt;results&gt;</title>")
}
