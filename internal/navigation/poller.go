package navigation

import (
	"sync"
	"time"

	"go.uber.org/atomic"
)

// DefaultPollInterval is how often the polling fallback reads the fragment.
const DefaultPollInterval = 300 * time.Millisecond

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. Tests substitute a manual clock.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Poller watches the fragment where no change notification exists. Each
// tick compares the current value with the last one seen, reports a
// difference, then schedules the next tick. Changes that come and go
// between two ticks are never observed.
type Poller struct {
	clock    Clock
	interval time.Duration
	read     func() string
	onChange func(string)

	mu    sync.Mutex
	last  string
	timer Timer

	stopped atomic.Bool
	ticks   atomic.Int64
}

// NewPoller creates a stopped poller. read returns the current fragment.
func NewPoller(clock Clock, interval time.Duration, read func() string, onChange func(string)) *Poller {
	if clock == nil {
		clock = realClock{}
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		clock:    clock,
		interval: interval,
		read:     read,
		onChange: onChange,
	}
}

// Start begins polling with initial as the last observed fragment.
func (p *Poller) Start(initial string) {
	p.mu.Lock()
	p.last = initial
	p.mu.Unlock()
	p.schedule()
}

// Stop cancels the pending tick. A tick already running finishes but does
// not reschedule.
func (p *Poller) Stop() {
	p.stopped.Store(true)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

// Ticks returns how many checks have run.
func (p *Poller) Ticks() int64 {
	return p.ticks.Load()
}

func (p *Poller) schedule() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped.Load() {
		return
	}
	p.timer = p.clock.AfterFunc(p.interval, p.tick)
}

func (p *Poller) tick() {
	if p.stopped.Load() {
		return
	}
	p.ticks.Inc()

	current := p.read()

	p.mu.Lock()
	changed := current != p.last
	if changed {
		p.last = current
	}
	p.mu.Unlock()

	if changed {
		p.onChange(current)
	}
	p.schedule()
}
