package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vidyasagar/navsync/internal/events"
	"github.com/vidyasagar/navsync/internal/theme"
)

// maxLogLines bounds the event log kept in memory.
const maxLogLines = 500

// EventLog lists fired navigation events. It can temporarily show other
// content (help, journal, bookmarks) and switch back to the log.
type EventLog struct {
	viewport viewport.Model
	ready    bool
	lines    []string
	page     string // non-empty while showing other content
}

// NewEventLog creates an event log (dimensions set on first WindowSizeMsg).
func NewEventLog() EventLog {
	return EventLog{}
}

// SetSize updates the dimensions.
func (l *EventLog) SetSize(width, height int) {
	if !l.ready {
		l.viewport = viewport.New(width, height)
		l.viewport.MouseWheelEnabled = true
		l.viewport.MouseWheelDelta = 3
		l.ready = true
		l.refresh(true)
		return
	}
	l.viewport.Width = width
	l.viewport.Height = height
}

// Append adds a line, following the tail if the view was already there.
func (l *EventLog) Append(line string) {
	follow := !l.ready || l.viewport.AtBottom()
	l.lines = append(l.lines, line)
	if len(l.lines) > maxLogLines {
		l.lines = l.lines[len(l.lines)-maxLogLines:]
	}
	if l.page == "" {
		l.refresh(follow)
	}
}

// Lines returns the logged lines.
func (l *EventLog) Lines() []string {
	return append([]string(nil), l.lines...)
}

// Clear empties the log.
func (l *EventLog) Clear() {
	l.lines = nil
	l.refresh(true)
}

// ShowPage replaces the log with content until ShowLog is called.
func (l *EventLog) ShowPage(content string) {
	l.page = content
	if l.ready {
		l.viewport.SetContent(content)
		l.viewport.GotoTop()
	}
}

// ShowLog switches back to the event log.
func (l *EventLog) ShowLog() {
	l.page = ""
	l.refresh(true)
}

// ShowingPage reports whether other content is displayed.
func (l *EventLog) ShowingPage() bool {
	return l.page != ""
}

func (l *EventLog) refresh(bottom bool) {
	if !l.ready {
		return
	}
	l.viewport.SetContent(strings.Join(l.lines, "\n"))
	if bottom {
		l.viewport.GotoBottom()
	}
}

// Update forwards messages to the viewport.
func (l *EventLog) Update(msg tea.Msg) (*EventLog, tea.Cmd) {
	if !l.ready {
		return l, nil
	}
	var cmd tea.Cmd
	l.viewport, cmd = l.viewport.Update(msg)
	return l, cmd
}

// View renders the log.
func (l *EventLog) View() string {
	if !l.ready {
		return "\n  Initializing..."
	}
	if l.page == "" && len(l.lines) == 0 {
		return renderWelcome()
	}
	return l.viewport.View()
}

// ScrollInfo returns "TOP", "BOT" or a percentage.
func (l *EventLog) ScrollInfo() string {
	if !l.ready {
		return "TOP"
	}
	pct := l.viewport.ScrollPercent()
	switch {
	case pct <= 0:
		return "TOP"
	case pct >= 1:
		return "BOT"
	default:
		return fmt.Sprintf("%d%%", int(pct*100))
	}
}

func (l *EventLog) HalfPageDown() {
	if l.ready {
		l.viewport.HalfViewDown()
	}
}

func (l *EventLog) HalfPageUp() {
	if l.ready {
		l.viewport.HalfViewUp()
	}
}

func (l *EventLog) LineDown(n int) {
	if l.ready {
		l.viewport.LineDown(n)
	}
}

func (l *EventLog) LineUp(n int) {
	if l.ready {
		l.viewport.LineUp(n)
	}
}

func (l *EventLog) GotoTop() {
	if l.ready {
		l.viewport.GotoTop()
	}
}

func (l *EventLog) GotoBottom() {
	if l.ready {
		l.viewport.GotoBottom()
	}
}

// Width returns the viewport width.
func (l *EventLog) Width() int {
	if !l.ready {
		return 0
	}
	return l.viewport.Width
}

// FormatEvent renders one fired event as a log line. Parameters are
// listed in key order.
func FormatEvent(f events.Fired) string {
	t := theme.Current
	timeStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	nameStyle := lipgloss.NewStyle().Foreground(t.Event).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Token)
	valStyle := lipgloss.NewStyle().Foreground(t.Param)

	keys := make([]string, 0, len(f.Params))
	for k := range f.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(timeStyle.Render(f.FiredAt.Format(time.TimeOnly)))
	sb.WriteString(" ")
	sb.WriteString(nameStyle.Render(f.Name))
	if len(keys) == 0 {
		sb.WriteString(timeStyle.Render(" (no parameters)"))
	}
	for _, k := range keys {
		sb.WriteString(" ")
		sb.WriteString(keyStyle.Render(k))
		sb.WriteString("=")
		sb.WriteString(valStyle.Render(fmt.Sprintf("%q", f.Params[k])))
	}
	return sb.String()
}

func renderWelcome() string {
	t := theme.Current

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	keyStyle := lipgloss.NewStyle().Foreground(t.Secondary)
	descStyle := lipgloss.NewStyle().Foreground(t.Text)

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(titleStyle.Render("  navsync playground"))
	sb.WriteString("\n")
	sb.WriteString(subtitleStyle.Render("  Drive a simulated browser and watch navigation events."))
	sb.WriteString("\n\n")

	shortcuts := []struct{ key, desc string }{
		{"o", "Navigate (token, #fragment or URL)"},
		{"H / L", "Service back / forward"},
		{"[ / ]", "Browser back / forward buttons"},
		{"Ctrl+h", "History panel"},
		{":", "Command mode"},
		{"?", "Help"},
		{"q", "Quit"},
	}
	for _, s := range shortcuts {
		sb.WriteString(keyStyle.Render(fmt.Sprintf("  %-10s", s.key)))
		sb.WriteString(descStyle.Render(s.desc))
		sb.WriteString("\n")
	}
	return sb.String()
}
