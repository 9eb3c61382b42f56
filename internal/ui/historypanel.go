package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vidyasagar/navsync/internal/browser"
	"github.com/vidyasagar/navsync/internal/navigation"
	"github.com/vidyasagar/navsync/internal/theme"
)

// PanelEntry is one row of the history panel.
type PanelEntry struct {
	Title  string
	Detail string
	// Token is navigated to when the row is opened.
	Token string
	// Current marks the entry the browser or stack is on.
	Current bool
}

// SessionEntries turns the browser's session history into panel rows,
// newest first.
func SessionEntries(entries []browser.Entry, pos int) []PanelEntry {
	out := make([]PanelEntry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		token := strings.TrimPrefix(navigation.LocationHash(e.URL), "#")
		detail := e.URL
		if e.State != nil {
			detail += "  state=" + e.State.Hash
			if token == "" {
				token = e.State.Hash
			}
		}
		title := token
		if title == "" {
			title = "(root)"
		}
		out = append(out, PanelEntry{Title: title, Detail: detail, Token: token, Current: i == pos})
	}
	return out
}

// StackEntries turns the emulated history into panel rows, newest first.
func StackEntries(s browser.Snapshot) []PanelEntry {
	out := make([]PanelEntry, 0, len(s.Entries))
	for i := len(s.Entries) - 1; i >= 0; i-- {
		tok := s.Entries[i]
		title := tok
		if title == "" {
			title = "(root)"
		}
		out = append(out, PanelEntry{
			Title:   title,
			Detail:  fmt.Sprintf("emulated #%d", i),
			Token:   tok,
			Current: i == s.Index,
		})
	}
	return out
}

// HistoryPanel lists session history or the emulated stack beside the
// event log. Each row is one line: the token, then its detail dimmed.
type HistoryPanel struct {
	title    string
	entries  []PanelEntry
	cursor   int
	offset   int
	width    int
	height   int
	visible  bool
	pendingG bool
}

// panelChrome is the lines used by the header, rule and footer.
const panelChrome = 3

// NewHistoryPanel creates a hidden panel.
func NewHistoryPanel() HistoryPanel {
	return HistoryPanel{title: "History"}
}

// SetEntries replaces the rows. A new title starts the cursor on the
// current entry; otherwise the cursor stays, clamped into range.
func (hp *HistoryPanel) SetEntries(title string, entries []PanelEntry) {
	hp.entries = entries
	if title != hp.title {
		hp.title = title
		hp.offset = 0
		hp.moveTo(hp.currentIndex())
		return
	}
	hp.moveTo(hp.cursor)
}

// Title returns the panel heading.
func (hp *HistoryPanel) Title() string {
	return hp.title
}

// SetSize updates the panel dimensions.
func (hp *HistoryPanel) SetSize(w, h int) {
	hp.width = w
	hp.height = h
	hp.moveTo(hp.cursor)
}

// Show makes the panel visible with the cursor on the current entry.
func (hp *HistoryPanel) Show() {
	hp.visible = true
	hp.pendingG = false
	hp.offset = 0
	hp.moveTo(hp.currentIndex())
}

// Hide closes the panel.
func (hp *HistoryPanel) Hide() {
	hp.visible = false
	hp.pendingG = false
}

// IsVisible reports whether the panel is shown.
func (hp *HistoryPanel) IsVisible() bool {
	return hp.visible
}

func (hp *HistoryPanel) CursorUp()     { hp.moveTo(hp.cursor - 1) }
func (hp *HistoryPanel) CursorDown()   { hp.moveTo(hp.cursor + 1) }
func (hp *HistoryPanel) GotoTop()      { hp.moveTo(0) }
func (hp *HistoryPanel) GotoBottom()   { hp.moveTo(len(hp.entries) - 1) }
func (hp *HistoryPanel) HalfPageDown() { hp.moveTo(hp.cursor + hp.rows()/2) }
func (hp *HistoryPanel) HalfPageUp()   { hp.moveTo(hp.cursor - hp.rows()/2) }

// HandleGKey reports true when a second consecutive "g" jumped to the top.
func (hp *HistoryPanel) HandleGKey() bool {
	if hp.pendingG {
		hp.GotoTop()
		return true
	}
	hp.pendingG = true
	return false
}

// ResetGKey forgets a pending "g".
func (hp *HistoryPanel) ResetGKey() {
	hp.pendingG = false
}

// SelectedEntry returns a copy of the row under the cursor, nil when empty.
func (hp *HistoryPanel) SelectedEntry() *PanelEntry {
	if hp.cursor < 0 || hp.cursor >= len(hp.entries) {
		return nil
	}
	e := hp.entries[hp.cursor]
	return &e
}

func (hp *HistoryPanel) currentIndex() int {
	for i, e := range hp.entries {
		if e.Current {
			return i
		}
	}
	return 0
}

// moveTo clamps i into the rows and scrolls it into view.
func (hp *HistoryPanel) moveTo(i int) {
	hp.pendingG = false
	if i >= len(hp.entries) {
		i = len(hp.entries) - 1
	}
	if i < 0 {
		i = 0
	}
	hp.cursor = i

	rows := hp.rows()
	if hp.cursor < hp.offset {
		hp.offset = hp.cursor
	}
	if hp.cursor >= hp.offset+rows {
		hp.offset = hp.cursor - rows + 1
	}
}

func (hp *HistoryPanel) rows() int {
	if n := hp.height - panelChrome; n > 1 {
		return n
	}
	return 1
}

// View renders the panel.
func (hp *HistoryPanel) View() string {
	if !hp.visible {
		return ""
	}
	t := theme.Current
	inner := hp.width - 2
	if inner < 10 {
		inner = 10
	}

	line := lipgloss.NewStyle().Width(hp.width).Padding(0, 1)
	lines := make([]string, 0, hp.height)

	header := hp.title
	if len(hp.entries) > 0 {
		header = fmt.Sprintf("%s  %d/%d", hp.title, hp.cursor+1, len(hp.entries))
	}
	lines = append(lines,
		line.Bold(true).Foreground(t.Primary).Background(t.Surface).Render(header),
		lipgloss.NewStyle().Foreground(t.Border).Render(strings.Repeat("─", inner)),
	)

	if len(hp.entries) == 0 {
		lines = append(lines, line.Foreground(t.TextDim).Render("No entries."))
	}

	end := hp.offset + hp.rows()
	if end > len(hp.entries) {
		end = len(hp.entries)
	}
	for i := hp.offset; i < end; i++ {
		lines = append(lines, hp.renderRow(hp.entries[i], i == hp.cursor, inner))
	}

	for len(lines) < hp.height-1 {
		lines = append(lines, "")
	}
	lines = append(lines, line.Foreground(t.TextDim).Italic(true).
		Render(truncate("j/k:move  Enter:go  Tab:switch  Esc:close", inner)))

	return lipgloss.NewStyle().
		Width(hp.width).
		Height(hp.height).
		Background(t.Background).
		Render(strings.Join(lines, "\n"))
}

func (hp *HistoryPanel) renderRow(e PanelEntry, selected bool, width int) string {
	t := theme.Current

	marker := "  "
	if e.Current {
		marker = "▶ "
	}
	title := truncate(marker+e.Title, width)
	detail := ""
	if room := width - lipgloss.Width(title) - 2; room > 8 && e.Detail != "" {
		detail = "  " + truncate(e.Detail, room)
	}

	titleStyle := lipgloss.NewStyle().Foreground(t.Token)
	detailStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	row := lipgloss.NewStyle().Width(hp.width).Padding(0, 1)
	if selected {
		titleStyle = titleStyle.Foreground(t.TextBright).Background(t.Selected).Bold(true)
		detailStyle = detailStyle.Background(t.Selected)
		row = row.Background(t.Selected)
	}
	return row.Render(titleStyle.Render(title) + detailStyle.Render(detail))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
