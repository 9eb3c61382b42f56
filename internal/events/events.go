// Package events holds application event definitions and dispatches fired
// events to their handlers.
package events

import (
	"sort"
	"sync"
	"time"
)

// Def declares an event type and the attributes it accepts.
type Def struct {
	Name       string
	Attributes []string
}

// Fired is the immutable record handed to handlers.
type Fired struct {
	Name    string
	Params  map[string]string
	FiredAt time.Time
}

// Handler receives fired events.
type Handler func(Fired)

// Instance is one event about to be fired.
type Instance interface {
	Name() string
	AttributeNames() []string
	SetParams(params map[string]string)
	Params() map[string]string
	Fire()
}

// Source creates event instances by definition name.
type Source interface {
	NewEvent(name string) (Instance, bool)
}

type subscription struct {
	id int
	fn Handler
}

// Registry stores definitions and handlers. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	defs     map[string]Def
	handlers map[string][]subscription
	nextID   int
	now      func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		defs:     make(map[string]Def),
		handlers: make(map[string][]subscription),
		now:      time.Now,
	}
}

// Register adds or replaces an event definition.
func (r *Registry) Register(def Def) {
	attrs := append([]string(nil), def.Attributes...)
	sort.Strings(attrs)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs[def.Name] = Def{Name: def.Name, Attributes: attrs}
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (Def, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	return def, ok
}

// NewEvent creates an instance of the named event, or false if it is unknown.
func (r *Registry) NewEvent(name string) (Instance, bool) {
	def, ok := r.Lookup(name)
	if !ok {
		return nil, false
	}
	return &event{def: def, reg: r}, true
}

// Handle subscribes fn to the named event and returns a function that
// removes the subscription.
func (r *Registry) Handle(name string, fn Handler) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	r.handlers[name] = append(r.handlers[name], subscription{id: id, fn: fn})

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		subs := r.handlers[name]
		for i, s := range subs {
			if s.id == id {
				r.handlers[name] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// dispatch runs handlers outside the lock so they may fire further events.
func (r *Registry) dispatch(f Fired) {
	r.mu.RLock()
	subs := append([]subscription(nil), r.handlers[f.Name]...)
	r.mu.RUnlock()

	for _, s := range subs {
		s.fn(f)
	}
}

type event struct {
	def    Def
	reg    *Registry
	params map[string]string
}

func (e *event) Name() string {
	return e.def.Name
}

func (e *event) AttributeNames() []string {
	return append([]string(nil), e.def.Attributes...)
}

func (e *event) SetParams(params map[string]string) {
	e.params = make(map[string]string, len(params))
	for k, v := range params {
		e.params[k] = v
	}
}

func (e *event) Params() map[string]string {
	out := make(map[string]string, len(e.params))
	for k, v := range e.params {
		out[k] = v
	}
	return out
}

func (e *event) Fire() {
	e.reg.dispatch(Fired{
		Name:    e.def.Name,
		Params:  e.Params(),
		FiredAt: e.reg.now(),
	})
}
