package browser

import (
	"strings"
	"sync"
)

// State is the payload stored with a pushState entry.
type State struct {
	Hash string `json:"hash"`
}

// SimConfig describes the browser a Sim imitates.
type SimConfig struct {
	URL          string
	UserAgent    string
	Title        string
	PushState    bool
	HashChange   bool
	DocumentMode int
}

// Entry is one session-history entry of a Sim.
type Entry struct {
	URL   string
	State *State
}

type listener struct {
	id int
	fn func()
}

// Sim is an in-memory browser window with its own session history. It
// fires popstate and hashchange synchronously, after releasing its lock,
// so listeners may call straight back into it. Safe for concurrent use.
type Sim struct {
	mu         sync.Mutex
	cfg        SimConfig
	entries    []Entry
	pos        int
	doc        *Document
	popstate   []listener
	hashchange []listener
	nextID     int
}

// NewSim opens a window at cfg.URL.
func NewSim(cfg SimConfig) *Sim {
	return &Sim{
		cfg:     cfg,
		entries: []Entry{{URL: cfg.URL}},
		doc:     NewDocument(cfg.Title),
	}
}

// Href returns the current address.
func (s *Sim) Href() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[s.pos].URL
}

// SetHash navigates to fragment within the current document, as assigning
// location.hash does. Assigning the current fragment does nothing.
func (s *Sim) SetHash(fragment string) {
	s.mu.Lock()
	next := withFragment(s.entries[s.pos].URL, strings.TrimPrefix(fragment, "#"))
	s.mu.Unlock()

	s.navigate(next)
}

// Navigate models the user editing the address bar. A value starting with
// '#' replaces only the fragment.
func (s *Sim) Navigate(address string) {
	if strings.HasPrefix(address, "#") {
		s.SetHash(address)
		return
	}
	s.navigate(address)
}

func (s *Sim) navigate(next string) {
	s.mu.Lock()
	prev := s.entries[s.pos].URL
	if next == prev {
		s.mu.Unlock()
		return
	}
	s.push(Entry{URL: next})
	pop, hash := s.listenersFor(prev, next)
	s.mu.Unlock()

	fire(pop)
	fire(hash)
}

// PushState adds an entry without firing any event. A url starting with
// '#' is resolved against the current address.
func (s *Sim) PushState(state State, url string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.HasPrefix(url, "#") {
		url = withFragment(s.entries[s.pos].URL, url[1:])
	}
	st := state
	s.push(Entry{URL: url, State: &st})
}

// State returns the payload of the current entry.
func (s *Sim) State() (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.entries[s.pos].State
	if st == nil {
		return State{}, false
	}
	return *st, true
}

// Go moves through session history. Out-of-range steps do nothing.
func (s *Sim) Go(delta int) {
	s.mu.Lock()
	target := s.pos + delta
	if delta == 0 || target < 0 || target >= len(s.entries) {
		s.mu.Unlock()
		return
	}
	prev := s.entries[s.pos].URL
	s.pos = target
	pop, hash := s.listenersFor(prev, s.entries[s.pos].URL)
	s.mu.Unlock()

	fire(pop)
	fire(hash)
}

// OnPopState registers fn for popstate.
func (s *Sim) OnPopState(fn func()) func() {
	return s.listen(&s.popstate, fn)
}

// OnHashChange registers fn for hashchange.
func (s *Sim) OnHashChange(fn func()) func() {
	return s.listen(&s.hashchange, fn)
}

func (s *Sim) SupportsPushState() bool  { return s.cfg.PushState }
func (s *Sim) SupportsHashChange() bool { return s.cfg.HashChange }
func (s *Sim) DocumentMode() int        { return s.cfg.DocumentMode }
func (s *Sim) UserAgent() string        { return s.cfg.UserAgent }

// SetTitle sets the document title.
func (s *Sim) SetTitle(title string) {
	s.doc.SetTitle(title)
}

// Title returns the document title.
func (s *Sim) Title() string {
	return s.doc.Title()
}

// Document returns the window's document.
func (s *Sim) Document() *Document {
	return s.doc
}

// Entries returns a copy of the session history and the current index.
func (s *Sim) Entries() ([]Entry, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out, s.pos
}

// push must be called with s.mu held.
func (s *Sim) push(e Entry) {
	s.entries = append(s.entries[:s.pos+1], e)
	s.pos++
}

// listenersFor must be called with s.mu held. Hash listeners are returned
// only when the fragment actually changed.
func (s *Sim) listenersFor(prev, next string) (pop, hash []func()) {
	if s.cfg.PushState {
		pop = snapshot(s.popstate)
	}
	if s.cfg.HashChange && fragmentOf(prev) != fragmentOf(next) {
		hash = snapshot(s.hashchange)
	}
	return pop, hash
}

func (s *Sim) listen(list *[]listener, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	*list = append(*list, listener{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range *list {
			if l.id == id {
				*list = append((*list)[:i:i], (*list)[i+1:]...)
				return
			}
		}
	}
}

func snapshot(ls []listener) []func() {
	out := make([]func(), len(ls))
	for i, l := range ls {
		out[i] = l.fn
	}
	return out
}

func fire(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}

func fragmentOf(url string) string {
	if i := strings.IndexByte(url, '#'); i >= 0 {
		return url[i:]
	}
	return ""
}

// withFragment replaces the fragment of url; an empty fragment removes it.
func withFragment(url, fragment string) string {
	if i := strings.IndexByte(url, '#'); i >= 0 {
		url = url[:i]
	}
	if fragment == "" {
		return url
	}
	return url + "#" + fragment
}
