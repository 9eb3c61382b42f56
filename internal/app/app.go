package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vidyasagar/navsync/internal/browser"
	"github.com/vidyasagar/navsync/internal/config"
	"github.com/vidyasagar/navsync/internal/events"
	"github.com/vidyasagar/navsync/internal/navigation"
	"github.com/vidyasagar/navsync/internal/storage"
	"github.com/vidyasagar/navsync/internal/theme"
	"github.com/vidyasagar/navsync/internal/ui"
)

// Mode represents the current input mode.
type Mode int

const (
	ModeNormal  Mode = iota
	ModeAddress      // address bar focused
	ModeCommand      // command bar active
	ModeSearch       // journal search
	ModeHistory      // history panel active
)

func (m Mode) String() string {
	switch m {
	case ModeAddress:
		return "ADDRESS"
	case ModeCommand:
		return "COMMAND"
	case ModeSearch:
		return "SEARCH"
	case ModeHistory:
		return "HISTORY"
	default:
		return "NORMAL"
	}
}

// panelSource selects what the history panel lists.
type panelSource int

const (
	panelSession panelSource = iota
	panelEmulated
)

// eventBuffer bounds events waiting for the UI. Handlers never block on it.
const eventBuffer = 256

// Options configures the playground.
type Options struct {
	Config *config.Config
	Logger *slog.Logger
	// Registerer receives the navigation metrics; nil keeps them private.
	Registerer prometheus.Registerer
	// Journal and Bookmarks are optional.
	Journal   *storage.Journal
	Bookmarks *storage.BookmarkStore
}

// Model is the top-level bubbletea model for the playground.
type Model struct {
	// UI components
	addressBar   ui.AddressBar
	statusBar    ui.StatusBar
	commandBar   ui.CommandBar
	historyPanel ui.HistoryPanel
	eventLog     ui.EventLog

	keys     KeyMap
	mode     Mode
	panel    panelSource
	width    int
	height   int
	lastGKey bool // for "gg" detection
	ready    bool

	// Navigation
	sim      *browser.Sim
	svc      *navigation.Service
	registry *events.Registry
	event    string
	fired    chan events.Fired
	errs     chan error
	count    int

	// Storage
	journal   *storage.Journal
	bookmarks *storage.BookmarkStore

	log *slog.Logger
}

// eventFiredMsg carries one navigation event to Update.
type eventFiredMsg events.Fired

// navErrorMsg carries an error from a change the browser reported.
type navErrorMsg struct{ err error }

// serviceReadyMsg is sent once the service has been initialized.
type serviceReadyMsg struct{ err error }

// journalRecordedMsg reports the outcome of a journal write.
type journalRecordedMsg struct{ err error }

// journalLoadedMsg carries journal entries for display.
type journalLoadedMsg struct {
	title   string
	entries []storage.JournalEntry
	err     error
}

// New creates the playground over a simulated browser built from the
// configuration.
func New(opts Options) (Model, error) {
	cfg := opts.Config
	if cfg == nil {
		d := config.Default()
		cfg = &d
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	simCfg, err := cfg.Browser.SimConfig()
	if err != nil {
		return Model{}, fmt.Errorf("browser config: %w", err)
	}
	simCfg.Title = "navsync playground"
	sim := browser.NewSim(simCfg)

	registry := events.NewRegistry()
	registry.Register(events.Def{Name: cfg.Navigation.Event, Attributes: cfg.Navigation.Attributes})

	m := Model{
		addressBar:   ui.NewAddressBar(),
		statusBar:    ui.NewStatusBar(),
		commandBar:   ui.NewCommandBar(),
		historyPanel: ui.NewHistoryPanel(),
		eventLog:     ui.NewEventLog(),
		keys:         DefaultKeyMap(),
		mode:         ModeNormal,
		sim:          sim,
		registry:     registry,
		event:        cfg.Navigation.Event,
		fired:        make(chan events.Fired, eventBuffer),
		errs:         make(chan error, eventBuffer),
		journal:      opts.Journal,
		bookmarks:    opts.Bookmarks,
		log:          log,
	}

	registry.Handle(m.event, func(f events.Fired) {
		select {
		case m.fired <- f:
		default:
			log.Warn("event log full, dropping navigation event", "event", f.Name)
		}
	})

	m.svc = navigation.New(sim, registry,
		navigation.WithEvent(cfg.Navigation.Event),
		// The simulated browser is private to this model, so is its capability.
		navigation.WithDetector(navigation.NewDetector()),
		navigation.WithLogger(log),
		navigation.WithPollInterval(cfg.Navigation.PollInterval.Duration),
		navigation.WithParser(navigation.NewParser(cfg.Navigation.ParseCacheSize)),
		navigation.WithMetrics(navigation.NewMetrics(opts.Registerer)),
		navigation.WithErrorHandler(func(err error) {
			select {
			case m.errs <- err:
			default:
			}
		}),
	)

	m.addressBar.SetHref(sim.Href())
	m.statusBar.SetTitle(sim.Title())
	return m, nil
}

// Close stops change detection.
func (m Model) Close() {
	m.svc.Close()
}

// Service returns the navigation service the playground drives.
func (m Model) Service() *navigation.Service {
	return m.svc
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	svc := m.svc
	return tea.Batch(
		func() tea.Msg {
			return serviceReadyMsg{err: svc.Init(context.Background())}
		},
		waitForEvent(m.fired),
		waitForError(m.errs),
	)
}

func waitForEvent(ch <-chan events.Fired) tea.Cmd {
	return func() tea.Msg {
		return eventFiredMsg(<-ch)
	}
}

func waitForError(ch <-chan error) tea.Cmd {
	return func() tea.Msg {
		return navErrorMsg{err: <-ch}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case serviceReadyMsg:
		if msg.err != nil {
			m.statusBar.SetError(msg.err.Error())
		}
		m.syncStatusBar()
		return m, nil

	case eventFiredMsg:
		f := events.Fired(msg)
		m.count++
		m.eventLog.Append(ui.FormatEvent(f))
		m.syncStatusBar()
		return m, tea.Batch(waitForEvent(m.fired), m.record(f))

	case navErrorMsg:
		m.statusBar.SetError(msg.err.Error())
		return m, waitForError(m.errs)

	case journalRecordedMsg:
		if msg.err != nil {
			m.log.Error("journal write failed", "error", msg.err)
			m.statusBar.SetError("journal: " + msg.err.Error())
		}
		return m, nil

	case journalLoadedMsg:
		if msg.err != nil {
			m.statusBar.SetError("journal: " + msg.err.Error())
			return m, nil
		}
		m.showPage(ui.JournalMarkdown(msg.title, msg.entries))
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	lg, cmd := m.eventLog.Update(msg)
	m.eventLog = *lg
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "\n  Loading navsync..."
	}

	// Layout:
	// [address bar]
	// [history panel | event log]
	// [status bar]
	// [command bar] (if active)
	sections := []string{m.addressBar.View()}

	if m.historyPanel.IsVisible() {
		divider := lipgloss.NewStyle().
			Foreground(theme.Current.Border).
			Render(strings.TrimSuffix(strings.Repeat("│\n", m.bodyHeight()), "\n"))
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top,
			m.historyPanel.View(),
			divider,
			m.eventLog.View(),
		))
	} else {
		sections = append(sections, m.eventLog.View())
	}

	sections = append(sections, m.statusBar.View())
	if m.commandBar.IsActive() {
		sections = append(sections, m.commandBar.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) bodyHeight() int {
	const addressBarHeight, statusBarHeight = 3, 1 // border adds height
	h := m.height - addressBarHeight - statusBarHeight
	if m.commandBar.IsActive() {
		h--
	}
	if h < 1 {
		h = 1
	}
	return h
}

// layout recalculates dimensions for all components.
func (m *Model) layout() {
	m.addressBar.SetWidth(m.width)
	m.statusBar.SetWidth(m.width)
	m.commandBar.SetWidth(m.width)

	height := m.bodyHeight()
	width := m.width
	if m.historyPanel.IsVisible() {
		panelWidth := m.width * 35 / 100
		if panelWidth < 24 {
			panelWidth = 24
		}
		m.historyPanel.SetSize(panelWidth, height)
		width = m.width - panelWidth - 1 // divider
	}
	m.eventLog.SetSize(width, height)
}

// handleKeyMsg processes key events based on current mode.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case ModeAddress:
		return m.handleAddressMode(msg)
	case ModeCommand, ModeSearch:
		return m.handleCommandMode(msg)
	case ModeHistory:
		return m.handleHistoryMode(msg)
	default:
		return m.handleNormalMode(msg)
	}
}

func (m *Model) setMode(mode Mode) {
	m.mode = mode
	m.statusBar.SetMode(mode.String())
}

// handleNormalMode processes keys while the event log has focus.
func (m Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	isG := msg.String() == "g"
	if !isG {
		m.lastGKey = false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case isG:
		if m.lastGKey {
			m.lastGKey = false
			m.eventLog.GotoTop()
		} else {
			m.lastGKey = true
		}

	case key.Matches(msg, m.keys.GotoBottom):
		m.eventLog.GotoBottom()
	case key.Matches(msg, m.keys.ScrollDown):
		m.eventLog.LineDown(1)
	case key.Matches(msg, m.keys.ScrollUp):
		m.eventLog.LineUp(1)
	case key.Matches(msg, m.keys.HalfPageDown):
		m.eventLog.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.eventLog.HalfPageUp()

	case key.Matches(msg, m.keys.Navigate):
		m.setMode(ModeAddress)
		return m, m.addressBar.Focus(m.currentToken())

	case key.Matches(msg, m.keys.Back):
		m.svc.Back()
	case key.Matches(msg, m.keys.Forward):
		m.svc.Forward()
	case key.Matches(msg, m.keys.Reset):
		m.svc.Reset()
		m.statusBar.SetMessage("Emulated history cleared")
	case key.Matches(msg, m.keys.BrowserBack):
		m.sim.Go(-1)
	case key.Matches(msg, m.keys.BrowserForward):
		m.sim.Go(1)

	case key.Matches(msg, m.keys.CommandMode):
		m.setMode(ModeCommand)
		cmd := m.commandBar.Open(ui.CommandEx)
		m.layout()
		return m, cmd
	case key.Matches(msg, m.keys.SearchMode):
		m.setMode(ModeSearch)
		cmd := m.commandBar.Open(ui.CommandSearch)
		m.layout()
		return m, cmd

	case key.Matches(msg, m.keys.HistoryToggle):
		m.refreshPanel()
		m.historyPanel.Show()
		m.setMode(ModeHistory)
		m.layout()

	case key.Matches(msg, m.keys.Bookmark):
		m.bookmarkCurrent("")
	case key.Matches(msg, m.keys.CycleTheme):
		name := theme.Next()
		theme.Set(name)
		m.statusBar.SetMessage("Theme: " + name)
	case key.Matches(msg, m.keys.Help):
		m.showPage(ui.HelpMarkdown(m.keys.HelpSections()))
	case key.Matches(msg, m.keys.Dismiss):
		m.eventLog.ShowLog()
		m.statusBar.SetMessage("")
	}

	m.syncStatusBar()
	return m, nil
}

// handleAddressMode processes keys when the address bar is focused.
func (m Model) handleAddressMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.addressBar.Blur()
		m.setMode(ModeNormal)
		return m, nil

	case tea.KeyEnter:
		value := m.addressBar.Value()
		m.addressBar.Blur()
		m.setMode(ModeNormal)
		m.applyAddress(value)
		m.syncStatusBar()
		return m, nil
	}

	ab, cmd := m.addressBar.Update(msg)
	m.addressBar = *ab
	return m, cmd
}

// applyAddress routes input either through the service or straight into
// the browser, as a user editing the address bar would.
func (m *Model) applyAddress(value string) {
	if value == "" {
		return
	}
	switch ui.ClassifyAddress(value) {
	case ui.AddressFragment, ui.AddressURL:
		m.sim.Navigate(value)
	default:
		if err := m.svc.Set(context.Background(), value); err != nil {
			m.statusBar.SetError(err.Error())
		}
	}
}

// handleCommandMode processes keys in command and search mode.
func (m Model) handleCommandMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.commandBar.Close()
		m.setMode(ModeNormal)
		m.layout()
		return m, nil

	case tea.KeyEnter:
		result := m.commandBar.Submit()
		m.setMode(ModeNormal)
		m.layout()
		if result.Type == ui.CommandSearch {
			return m, m.searchJournal(result.Value)
		}
		return m.executeCommand(ui.ParseCommand(result.Value))
	}

	cb, cmd := m.commandBar.Update(msg)
	m.commandBar = *cb
	return m, cmd
}

// executeCommand handles :commands.
func (m Model) executeCommand(c ui.Command) (tea.Model, tea.Cmd) {
	ctx := context.Background()

	switch c.Name {
	case "":
		return m, nil
	case "q", "quit":
		return m, tea.Quit
	case "set":
		if c.Arg == "" {
			m.statusBar.SetMessage("Usage: :set <token>")
			break
		}
		if err := m.svc.Set(ctx, c.Arg); err != nil {
			m.statusBar.SetError(err.Error())
		}
	case "nav":
		if c.Arg == "" {
			m.statusBar.SetMessage("Usage: :nav <#fragment or URL>")
			break
		}
		m.sim.Navigate(c.Arg)
	case "back":
		m.svc.Back()
	case "forward":
		m.svc.Forward()
	case "get":
		loc := m.svc.Get()
		m.statusBar.SetMessage(fmt.Sprintf("token=%q querystring=%q params=%d", loc.Token, loc.Querystring, len(loc.Params)))
	case "title":
		m.svc.SetTitle(c.Arg)
	case "doc":
		html, err := m.sim.Document().HTML()
		if err != nil {
			m.statusBar.SetError(err.Error())
			break
		}
		m.showPage(ui.DocumentMarkdown(html))
	case "reset":
		m.svc.Reset()
		m.statusBar.SetMessage("Emulated history cleared")
	case "bookmark":
		m.bookmarkCurrent(c.Arg)
	case "unbookmark":
		if m.bookmarks == nil {
			m.statusBar.SetError("bookmarks unavailable")
			break
		}
		removed, err := m.bookmarks.Remove(context.Background(), m.currentToken())
		switch {
		case err != nil:
			m.statusBar.SetError(err.Error())
		case removed:
			m.statusBar.SetMessage("Bookmark removed")
		default:
			m.statusBar.SetMessage("Not bookmarked")
		}
	case "bookmarks":
		if m.bookmarks == nil {
			m.statusBar.SetError("bookmarks unavailable")
			break
		}
		list, err := m.bookmarks.List(context.Background())
		if err != nil {
			m.statusBar.SetError(err.Error())
			break
		}
		m.showPage(ui.BookmarksMarkdown(list))
	case "journal":
		limit := 50
		if n, err := strconv.Atoi(c.Arg); err == nil && n > 0 {
			limit = n
		}
		return m, m.loadJournal(limit)
	case "clearjournal":
		if m.journal == nil {
			m.statusBar.SetError("journal disabled")
			break
		}
		if err := m.journal.Clear(ctx); err != nil {
			m.statusBar.SetError(err.Error())
		} else {
			m.statusBar.SetMessage("Journal cleared")
		}
	case "theme":
		if c.Arg == "" {
			m.statusBar.SetMessage(fmt.Sprintf("Current: %s | Available: %s", theme.Current.Name, strings.Join(theme.List(), ", ")))
		} else if theme.Set(c.Arg) {
			m.statusBar.SetMessage("Theme: " + c.Arg)
		} else {
			m.statusBar.SetError(fmt.Sprintf("Unknown theme: %s (available: %s)", c.Arg, strings.Join(theme.List(), ", ")))
		}
	case "clear":
		m.eventLog.Clear()
	case "help":
		m.showPage(ui.HelpMarkdown(m.keys.HelpSections()))
	default:
		m.statusBar.SetError("Unknown command: " + c.Name)
	}

	m.syncStatusBar()
	return m, nil
}

// handleHistoryMode processes keys when the history panel is active.
func (m Model) handleHistoryMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() != "g" {
		m.historyPanel.ResetGKey()
	}

	switch msg.String() {
	case "j", "down":
		m.historyPanel.CursorDown()
	case "k", "up":
		m.historyPanel.CursorUp()
	case "g":
		m.historyPanel.HandleGKey()
	case "G":
		m.historyPanel.GotoBottom()
	case "ctrl+d":
		m.historyPanel.HalfPageDown()
	case "ctrl+u":
		m.historyPanel.HalfPageUp()

	case "tab":
		if m.panel == panelSession {
			m.panel = panelEmulated
		} else {
			m.panel = panelSession
		}
		m.refreshPanel()

	case "enter":
		if entry := m.historyPanel.SelectedEntry(); entry != nil && entry.Token != "" {
			if err := m.svc.Set(context.Background(), entry.Token); err != nil {
				m.statusBar.SetError(err.Error())
			}
			m.syncStatusBar()
		}

	case "esc", "ctrl+h", "q":
		m.historyPanel.Hide()
		m.setMode(ModeNormal)
		m.layout()
	}
	return m, nil
}

func (m *Model) refreshPanel() {
	if m.panel == panelEmulated {
		m.historyPanel.SetEntries("Emulated history", ui.StackEntries(m.svc.History()))
		return
	}
	entries, pos := m.sim.Entries()
	m.historyPanel.SetEntries("Session history", ui.SessionEntries(entries, pos))
}

func (m *Model) showPage(md string) {
	m.eventLog.ShowPage(ui.RenderMarkdown(md, m.eventLog.Width()))
	m.statusBar.SetMessage("Esc returns to the event log")
}

func (m *Model) currentToken() string {
	loc := m.svc.Get()
	if loc.Querystring == "" {
		return loc.Token
	}
	return loc.Token + "?" + loc.Querystring
}

func (m *Model) bookmarkCurrent(title string) {
	if m.bookmarks == nil {
		m.statusBar.SetError("bookmarks unavailable")
		return
	}
	token := m.currentToken()
	if token == "" {
		m.statusBar.SetMessage("Nothing to bookmark at the root location")
		return
	}
	if title == "" {
		title = m.sim.Title()
	}
	added, err := m.bookmarks.Add(context.Background(), token, title)
	switch {
	case err != nil:
		m.statusBar.SetError(err.Error())
	case added:
		m.statusBar.SetMessage("Bookmarked " + token)
	default:
		m.statusBar.SetMessage("Already bookmarked: " + token)
	}
}

// syncStatusBar updates the address bar, status bar and history panel.
func (m *Model) syncStatusBar() {
	m.addressBar.SetHref(m.sim.Href())
	m.statusBar.SetTitle(m.sim.Title())
	m.statusBar.SetTracking(m.svc.Strategy().String(), m.svc.Detection().String())
	m.statusBar.SetFired(m.count)

	if m.svc.Strategy() == navigation.StrategyEmulated {
		h := m.svc.History()
		m.statusBar.SetPosition(fmt.Sprintf("stack %d/%d", h.Index+1, len(h.Entries)))
	} else {
		entries, pos := m.sim.Entries()
		m.statusBar.SetPosition(fmt.Sprintf("entry %d/%d", pos+1, len(entries)))
	}
	m.refreshPanel()
}

func (m Model) record(f events.Fired) tea.Cmd {
	if m.journal == nil {
		return nil
	}
	j := m.journal
	entry := journalEntry(f)
	return func() tea.Msg {
		return journalRecordedMsg{err: j.Record(context.Background(), entry)}
	}
}

func (m Model) loadJournal(limit int) tea.Cmd {
	if m.journal == nil {
		return func() tea.Msg { return journalLoadedMsg{err: errJournalDisabled} }
	}
	j := m.journal
	return func() tea.Msg {
		entries, err := j.Recent(context.Background(), limit)
		return journalLoadedMsg{title: "Journal", entries: entries, err: err}
	}
}

func (m Model) searchJournal(query string) tea.Cmd {
	if m.journal == nil {
		return func() tea.Msg { return journalLoadedMsg{err: errJournalDisabled} }
	}
	j := m.journal
	return func() tea.Msg {
		entries, err := j.Search(context.Background(), query)
		return journalLoadedMsg{title: fmt.Sprintf("Journal: %q", query), entries: entries, err: err}
	}
}

var errJournalDisabled = errors.New("journal disabled")

// journalEntry converts a fired event into a journal row. Reserved keys
// fill the token columns; the rest become parameters.
func journalEntry(f events.Fired) storage.JournalEntry {
	e := storage.JournalEntry{
		Event:       f.Name,
		Token:       f.Params[navigation.KeyToken],
		Querystring: f.Params[navigation.KeyQuerystring],
		FiredAt:     f.FiredAt,
	}
	for k, v := range f.Params {
		if k == navigation.KeyToken || k == navigation.KeyQuerystring {
			continue
		}
		if e.Params == nil {
			e.Params = make(map[string]string)
		}
		e.Params[k] = v
	}
	return e
}
