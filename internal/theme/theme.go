// Package theme holds the playground's color palettes.
package theme

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme assigns a color to every role the playground draws.
type Theme struct {
	Name string

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	Text       lipgloss.Color
	TextDim    lipgloss.Color
	TextBright lipgloss.Color

	Background  lipgloss.Color
	Surface     lipgloss.Color
	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	Selected    lipgloss.Color

	// Event log: event name, token and parameter pairs.
	Event lipgloss.Color
	Token lipgloss.Color
	Param lipgloss.Color

	Error   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Info    lipgloss.Color
}

// palette is the handful of source colors a Theme is derived from.
type palette struct {
	bg, surface, line, fg, dim, bright string
	red, green, yellow, blue, purple, cyan string
}

func (p palette) theme(name string) Theme {
	c := func(hex string) lipgloss.Color { return lipgloss.Color(hex) }
	return Theme{
		Name:        name,
		Primary:     c(p.purple),
		Secondary:   c(p.cyan),
		Accent:      c(p.yellow),
		Text:        c(p.fg),
		TextDim:     c(p.dim),
		TextBright:  c(p.bright),
		Background:  c(p.bg),
		Surface:     c(p.surface),
		Border:      c(p.line),
		BorderFocus: c(p.purple),
		Selected:    c(p.line),
		Event:       c(p.cyan),
		Token:       c(p.yellow),
		Param:       c(p.green),
		Error:       c(p.red),
		Success:     c(p.green),
		Warning:     c(p.yellow),
		Info:        c(p.blue),
	}
}

var themes = map[string]Theme{
	"default": palette{
		bg: "#0F172A", surface: "#1E293B", line: "#334155",
		fg: "#E2E8F0", dim: "#64748B", bright: "#F8FAFC",
		red: "#EF4444", green: "#22C55E", yellow: "#F59E0B",
		blue: "#3B82F6", purple: "#7C3AED", cyan: "#06B6D4",
	}.theme("default"),
	"gruvbox": palette{
		bg: "#282828", surface: "#3C3836", line: "#504945",
		fg: "#EBDBB2", dim: "#928374", bright: "#FBF1C7",
		red: "#FB4934", green: "#B8BB26", yellow: "#FABD2F",
		blue: "#83A598", purple: "#D3869B", cyan: "#8EC07C",
	}.theme("gruvbox"),
	"nord": palette{
		bg: "#2E3440", surface: "#3B4252", line: "#4C566A",
		fg: "#D8DEE9", dim: "#616E88", bright: "#ECEFF4",
		red: "#BF616A", green: "#A3BE8C", yellow: "#EBCB8B",
		blue: "#81A1C1", purple: "#B48EAD", cyan: "#88C0D0",
	}.theme("nord"),
	"dracula": palette{
		bg: "#282A36", surface: "#44475A", line: "#6272A4",
		fg: "#F8F8F2", dim: "#6272A4", bright: "#FFFFFF",
		red: "#FF5555", green: "#50FA7B", yellow: "#F1FA8C",
		blue: "#8BE9FD", purple: "#BD93F9", cyan: "#8BE9FD",
	}.theme("dracula"),
}

// Current is the active theme.
var Current = themes["default"]

// Set changes the active theme by name.
func Set(name string) bool {
	t, ok := themes[name]
	if ok {
		Current = t
	}
	return ok
}

// List returns the theme names, sorted.
func List() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Next returns the theme after the current one, wrapping around.
func Next() string {
	names := List()
	for i, n := range names {
		if n == Current.Name {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}

// StrategyColor colors a tracking strategy badge: native is healthy,
// emulated is a workaround.
func (t Theme) StrategyColor(strategy string) lipgloss.Color {
	switch strategy {
	case "native":
		return t.Success
	case "emulated":
		return t.Warning
	default:
		return t.Info
	}
}
