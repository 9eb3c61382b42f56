package app

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/vidyasagar/navsync/internal/ui"
)

// KeyMap defines all keybindings for the playground.
type KeyMap struct {
	// Event log
	ScrollDown   key.Binding
	ScrollUp     key.Binding
	HalfPageDown key.Binding
	HalfPageUp   key.Binding
	GotoTop      key.Binding
	GotoBottom   key.Binding

	// Navigation service
	Navigate key.Binding
	Back     key.Binding
	Forward  key.Binding
	Reset    key.Binding

	// Simulated browser chrome
	BrowserBack    key.Binding
	BrowserForward key.Binding

	// Modes
	CommandMode key.Binding
	SearchMode  key.Binding

	// Actions
	Quit          key.Binding
	Help          key.Binding
	Bookmark      key.Binding
	CycleTheme    key.Binding
	HistoryToggle key.Binding
	Dismiss       key.Binding
}

// DefaultKeyMap returns the default vim-style keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		ScrollDown: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "scroll down"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "scroll up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("Ctrl+d", "half page down"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("Ctrl+u", "half page up"),
		),
		GotoTop: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("gg", "go to top"),
		),
		GotoBottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "go to bottom"),
		),
		Navigate: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "navigate"),
		),
		Back: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "service back"),
		),
		Forward: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "service forward"),
		),
		Reset: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reset emulated history"),
		),
		BrowserBack: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "browser back button"),
		),
		BrowserForward: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "browser forward button"),
		),
		CommandMode: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command mode"),
		),
		SearchMode: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search journal"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Bookmark: key.NewBinding(
			key.WithKeys("B"),
			key.WithHelp("B", "bookmark token"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "cycle theme"),
		),
		HistoryToggle: key.NewBinding(
			key.WithKeys("ctrl+h"),
			key.WithHelp("Ctrl+h", "toggle history"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "back to event log"),
		),
	}
}

// HelpSections groups the bindings and commands for the help page.
func (k KeyMap) HelpSections() []ui.HelpSection {
	row := func(b key.Binding) [2]string {
		h := b.Help()
		return [2]string{h.Key, h.Desc}
	}
	return []ui.HelpSection{
		{Name: "Navigation", Keys: [][2]string{
			row(k.Navigate), row(k.Back), row(k.Forward), row(k.Reset),
			row(k.BrowserBack), row(k.BrowserForward),
		}},
		{Name: "Event log", Keys: [][2]string{
			row(k.ScrollDown), row(k.ScrollUp), row(k.HalfPageDown), row(k.HalfPageUp),
			row(k.GotoTop), row(k.GotoBottom), row(k.Dismiss),
		}},
		{Name: "Panels and modes", Keys: [][2]string{
			row(k.HistoryToggle), row(k.CommandMode), row(k.SearchMode),
			row(k.Bookmark), row(k.CycleTheme), row(k.Help), row(k.Quit),
		}},
		{Name: "Commands", Keys: [][2]string{
			{":set <token>", "Navigate through the service"},
			{":nav <address>", "Type into the browser's address bar"},
			{":back / :forward", "Service back / forward"},
			{":get", "Show the parsed current location"},
			{":title <text>", "Set the document title"},
			{":doc", "Show the document source"},
			{":reset", "Clear the emulated history"},
			{":bookmark [title]", "Bookmark the current token"},
			{":unbookmark", "Remove the current token's bookmark"},
			{":bookmarks", "List bookmarks"},
			{":journal [n]", "Show the newest journal entries"},
			{":clearjournal", "Empty the journal"},
			{":theme [name]", "Show or change the theme"},
			{":clear", "Clear the event log"},
			{":quit", "Quit"},
		}},
	}
}
