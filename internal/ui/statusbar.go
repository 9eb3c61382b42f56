package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/vidyasagar/navsync/internal/theme"
)

// StatusBar shows the mode, tracking setup and document title.
type StatusBar struct {
	mode      string
	strategy  string
	detection string
	title     string
	message   string
	isError   bool
	position  string
	fired     int
	width     int
}

// NewStatusBar creates a new status bar.
func NewStatusBar() StatusBar {
	return StatusBar{mode: "NORMAL"}
}

func (s *StatusBar) SetWidth(w int)       { s.width = w }
func (s *StatusBar) SetMode(mode string)  { s.mode = mode }
func (s *StatusBar) SetTitle(t string)    { s.title = t }
func (s *StatusBar) SetFired(n int)       { s.fired = n }
func (s *StatusBar) SetPosition(p string) { s.position = p }

// SetTracking shows the strategy and detection in use.
func (s *StatusBar) SetTracking(strategy, detection string) {
	s.strategy = strategy
	s.detection = detection
}

// SetMessage sets a temporary status message. An empty message clears it.
func (s *StatusBar) SetMessage(msg string) {
	s.message = msg
	s.isError = false
}

// SetError shows msg highlighted as an error.
func (s *StatusBar) SetError(msg string) {
	s.message = msg
	s.isError = true
}

// Message returns the current status message.
func (s StatusBar) Message() string {
	return s.message
}

// View renders the status bar.
func (s *StatusBar) View() string {
	t := theme.Current

	modeBg := t.Primary
	switch s.mode {
	case "ADDRESS":
		modeBg = t.Success
	case "COMMAND":
		modeBg = t.Accent
	case "SEARCH":
		modeBg = t.Warning
	case "HISTORY":
		modeBg = t.Secondary
	}
	mode := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Foreground(t.Background).
		Background(modeBg).
		Render(s.mode)

	badge := func(text string, c lipgloss.Color) string {
		if text == "" {
			return ""
		}
		return lipgloss.NewStyle().
			Foreground(c).
			Background(t.Surface).
			Bold(true).
			Padding(0, 1).
			Render(text)
	}
	tracking := badge(s.strategy, t.StrategyColor(s.strategy)) + badge(s.detection, t.Secondary)

	var left string
	plain := lipgloss.NewStyle().Background(t.Surface).Padding(0, 1)
	switch {
	case s.message != "" && s.isError:
		left = plain.Foreground(t.Error).Render(s.message)
	case s.message != "":
		left = plain.Foreground(t.Info).Render(s.message)
	case s.title != "":
		left = plain.Foreground(t.Text).Render(s.title)
	}

	rightStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface).
		Padding(0, 1)
	right := rightStyle.Render(fmt.Sprintf("⚡ %d", s.fired))
	if s.position != "" {
		right += rightStyle.Render(s.position)
	}

	spacerWidth := s.width - lipgloss.Width(mode) - lipgloss.Width(tracking) - lipgloss.Width(left) - lipgloss.Width(right)
	if spacerWidth < 0 {
		spacerWidth = 0
	}
	spacer := lipgloss.NewStyle().
		Background(t.Surface).
		Render(fmt.Sprintf("%*s", spacerWidth, ""))

	return mode + tracking + left + spacer + right
}
