package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidyasagar/navsync/internal/browser"
	"github.com/vidyasagar/navsync/internal/events"
	"github.com/vidyasagar/navsync/internal/storage"
)

func TestClassifyAddress(t *testing.T) {
	assert.Equal(t, AddressFragment, ClassifyAddress("#inbox"))
	assert.Equal(t, AddressURL, ClassifyAddress("https://app.test/#inbox"))
	assert.Equal(t, AddressToken, ClassifyAddress("search?q=a"))
	assert.Equal(t, AddressToken, ClassifyAddress(""))
}

func TestParseCommand(t *testing.T) {
	assert.Equal(t, Command{Name: "set", Arg: "search?q=a b"}, ParseCommand(":set  search?q=a b "))
	assert.Equal(t, Command{Name: "reset"}, ParseCommand("reset"))
	assert.Equal(t, Command{}, ParseCommand("  "))
}

func TestSessionEntries(t *testing.T) {
	entries := []browser.Entry{
		{URL: "https://app.test/#home"},
		{URL: "https://app.test/#a", State: &browser.State{Hash: "a"}},
		{URL: "https://app.test/", State: &browser.State{Hash: "kept"}},
		{URL: "https://app.test/"},
	}

	rows := SessionEntries(entries, 1)
	require.Len(t, rows, 4)

	assert.Equal(t, "(root)", rows[0].Title)
	assert.Equal(t, "", rows[0].Token)
	assert.Equal(t, "kept", rows[1].Token, "state payload fills a missing fragment")
	assert.Contains(t, rows[1].Detail, "state=kept")
	assert.True(t, rows[2].Current)
	assert.Equal(t, "a", rows[2].Title)
	assert.Equal(t, "home", rows[3].Token)
	assert.False(t, rows[3].Current)
}

func TestStackEntries(t *testing.T) {
	rows := StackEntries(browser.Snapshot{Entries: []string{"", "a", "b"}, Index: 1})
	require.Len(t, rows, 3)
	assert.Equal(t, "b", rows[0].Title)
	assert.True(t, rows[1].Current)
	assert.Equal(t, "(root)", rows[2].Title)

	assert.Empty(t, StackEntries(browser.Snapshot{Index: -1}))
}

func TestHistoryPanelCursor(t *testing.T) {
	hp := NewHistoryPanel()
	hp.SetSize(30, 20)
	assert.Nil(t, hp.SelectedEntry())

	hp.SetEntries("Session", []PanelEntry{{Title: "a"}, {Title: "b"}, {Title: "c"}})
	hp.Show()
	hp.CursorDown()
	hp.CursorDown()
	hp.CursorDown()
	assert.Equal(t, "c", hp.SelectedEntry().Title)

	// Shrinking the list keeps the cursor on a valid row.
	hp.SetEntries("Emulated", []PanelEntry{{Title: "x"}})
	assert.Equal(t, "x", hp.SelectedEntry().Title)
	assert.Equal(t, "Emulated", hp.Title())

	assert.False(t, hp.HandleGKey())
	assert.True(t, hp.HandleGKey())
	assert.Contains(t, hp.View(), "Emulated")
}

func TestFormatEvent(t *testing.T) {
	at := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	line := FormatEvent(events.Fired{
		Name:    "nav",
		Params:  map[string]string{"q": "widgets", "token": "search"},
		FiredAt: at,
	})
	assert.Contains(t, line, "15:04:05")
	assert.Contains(t, line, "nav")
	assert.Contains(t, line, `"widgets"`)
	assert.Less(t, strings.Index(line, "q"), strings.Index(line, "token"))

	assert.Contains(t, FormatEvent(events.Fired{Name: "nav", FiredAt: at}), "no parameters")
}

func TestEventLogPages(t *testing.T) {
	l := NewEventLog()
	l.Append("first")
	l.SetSize(40, 5)
	l.Append("second")
	assert.Equal(t, []string{"first", "second"}, l.Lines())

	l.ShowPage("help text")
	assert.True(t, l.ShowingPage())
	assert.Contains(t, l.View(), "help text")

	l.ShowLog()
	assert.False(t, l.ShowingPage())
	assert.Contains(t, l.View(), "second")

	l.Clear()
	assert.Empty(t, l.Lines())
}

func TestHelpMarkdown(t *testing.T) {
	md := HelpMarkdown([]HelpSection{
		{Name: "Navigation", Keys: [][2]string{{"H", "Service back"}}},
	})
	assert.Contains(t, md, "## Navigation")
	assert.Contains(t, md, "| `H` | Service back |")

	assert.Contains(t, RenderMarkdown(md, 60), "Service back")
}

func TestJournalMarkdown(t *testing.T) {
	assert.Contains(t, JournalMarkdown("Journal", nil), "No recorded navigation events")

	md := JournalMarkdown("Journal", []storage.JournalEntry{{
		Event:   "nav",
		Token:   "search",
		Params:  map[string]string{"sort": "asc", "q": "a"},
		FiredAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}})
	assert.Contains(t, md, "| 2026-01-02 03:04:05 | nav | `search` | q=a sort=asc |")
}

func TestBookmarksMarkdown(t *testing.T) {
	assert.Contains(t, BookmarksMarkdown(nil), "No bookmarks yet")

	md := BookmarksMarkdown([]storage.Bookmark{
		{Token: "inbox", Title: "Inbox", Tags: []string{"mail"}},
		{Token: "settings"},
	})
	assert.Contains(t, md, "1. **Inbox** `inbox` (mail)")
	assert.Contains(t, md, "2. **settings** `settings`")
}

func TestComplete(t *testing.T) {
	assert.Equal(t, []string{"bookmark", "bookmarks"}, Complete("bookm"))
	assert.Equal(t, []string{"title"}, Complete("ti"))
	assert.Empty(t, Complete("zz"))
	assert.Equal(t, "bookmark", commonPrefix([]string{"bookmark", "bookmarks"}))
	assert.Equal(t, "c", commonPrefix([]string{"clear", "clearjournal", "cat"}))
}

func TestCommandBarCompletionAndRecall(t *testing.T) {
	cb := NewCommandBar()
	cb.SetWidth(80)
	cb.Open(CommandEx)

	cb.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("jo")})
	cb.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "journal ", cb.Value())

	res := cb.Submit()
	assert.Equal(t, CommandResult{Type: CommandEx, Value: "journal"}, res)
	assert.False(t, cb.IsActive())

	cb.Open(CommandEx)
	cb.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "journal", cb.Value())
	cb.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "", cb.Value())
}

func TestStatusBarMessageReadableFromCopy(t *testing.T) {
	sb := NewStatusBar()
	sb.SetError("journal disabled")

	bars := map[string]StatusBar{"main": sb}
	if got := bars["main"].Message(); got != "journal disabled" {
		t.Errorf("Message() = %q, want %q", got, "journal disabled")
	}
}
