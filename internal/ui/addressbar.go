package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vidyasagar/navsync/internal/theme"
)

// AddressKind says how a submitted address should be applied.
type AddressKind int

const (
	// AddressToken goes through the navigation service.
	AddressToken AddressKind = iota
	// AddressFragment is typed straight into the browser's address bar.
	AddressFragment
	// AddressURL replaces the whole address.
	AddressURL
)

// ClassifyAddress decides how input is applied. "#frag" edits the
// fragment as a user would, a URL with a scheme replaces the address and
// anything else is a token for the service.
func ClassifyAddress(input string) AddressKind {
	switch {
	case strings.HasPrefix(input, "#"):
		return AddressFragment
	case strings.Contains(input, "://"):
		return AddressURL
	default:
		return AddressToken
	}
}

// AddressBar shows the simulated browser's address and accepts input.
type AddressBar struct {
	input  textinput.Model
	href   string
	active bool
	width  int
}

// NewAddressBar creates a new address bar.
func NewAddressBar() AddressBar {
	ti := textinput.New()
	ti.Placeholder = "token?key=value, #fragment or full URL"
	ti.CharLimit = 2048
	ti.Width = 60

	return AddressBar{input: ti}
}

// SetWidth updates the bar width.
func (a *AddressBar) SetWidth(w int) {
	a.width = w
	a.input.Width = w - 8 // prompt and padding
}

// SetHref sets the address shown while the bar is not focused.
func (a *AddressBar) SetHref(href string) {
	a.href = href
}

// Focus activates the bar, prefilled with prefill.
func (a *AddressBar) Focus(prefill string) tea.Cmd {
	a.active = true
	a.input.SetValue(prefill)
	a.input.CursorEnd()
	return a.input.Focus()
}

// Blur deactivates the bar.
func (a *AddressBar) Blur() {
	a.active = false
	a.input.Blur()
	a.input.Reset()
}

// IsActive reports whether the bar is focused.
func (a *AddressBar) IsActive() bool {
	return a.active
}

// Value returns the trimmed input text.
func (a *AddressBar) Value() string {
	return strings.TrimSpace(a.input.Value())
}

// Update handles messages for the bar.
func (a *AddressBar) Update(msg tea.Msg) (*AddressBar, tea.Cmd) {
	if !a.active {
		return a, nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// View renders the bar.
func (a *AddressBar) View() string {
	t := theme.Current

	border := t.Border
	fg := t.TextDim
	if a.active {
		border = t.BorderFocus
		fg = t.Text
	}
	barStyle := lipgloss.NewStyle().
		Foreground(fg).
		Background(t.Surface).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(a.width - 2)

	promptStyle := lipgloss.NewStyle().
		Foreground(t.Primary).
		Bold(true)

	body := a.href
	if a.active {
		body = a.input.View()
	}
	return barStyle.Render(promptStyle.Render("⌂") + " " + body)
}
