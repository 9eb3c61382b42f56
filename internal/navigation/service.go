// Package navigation keeps application state in step with the browser's
// address. It picks a tracking strategy once, watches for changes by the
// best means the browser offers, and fires one navigation event per change.
package navigation

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vidyasagar/navsync/internal/browser"
	"github.com/vidyasagar/navsync/internal/env"
	"github.com/vidyasagar/navsync/internal/events"
)

// DefaultEvent is the event fired when no other name is configured.
const DefaultEvent = "navsync:locationChange"

const tracerName = "github.com/vidyasagar/navsync/internal/navigation"

func defaultTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// Detection is how the service learns about changes it did not make.
type Detection int

const (
	DetectNone Detection = iota
	DetectPopState
	DetectHashChange
	DetectPolling
)

func (d Detection) String() string {
	switch d {
	case DetectPopState:
		return "popstate"
	case DetectHashChange:
		return "hashchange"
	case DetectPolling:
		return "polling"
	default:
		return "none"
	}
}

// Change triggers, used as the metrics label.
const (
	triggerInit       = "init"
	triggerSet        = "set"
	triggerPopState   = "popstate"
	triggerHashChange = "hashchange"
	triggerPoll       = "poll"
)

type options struct {
	event        string
	log          *slog.Logger
	clock        Clock
	pollInterval time.Duration
	detector     *Detector
	probe        *env.Probe
	parser       *Parser
	metrics      *Metrics
	tracer       trace.Tracer
	onError      func(error)
}

// Option configures a Service.
type Option func(*options)

// WithEvent sets the navigation event name.
func WithEvent(name string) Option {
	return func(o *options) { o.event = name }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithClock sets the clock driving the polling fallback.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithPollInterval sets the polling fallback interval.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) { o.pollInterval = d }
}

// WithDetector replaces ProcessDetector.
func WithDetector(d *Detector) Option {
	return func(o *options) { o.detector = d }
}

// WithProbe overrides the probe built from the window's user agent.
func WithProbe(p env.Probe) Option {
	return func(o *options) { o.probe = &p }
}

// WithParser sets the location parser.
func WithParser(p *Parser) Option {
	return func(o *options) { o.parser = p }
}

// WithMetrics sets the metrics collectors.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithTracer sets the tracer used around notifications.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// WithErrorHandler receives errors from changes the browser reported,
// where there is no caller to return them to.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) { o.onError = fn }
}

// Service is the public face of navigation tracking.
type Service struct {
	win      Window
	notifier *Notifier
	parser   *Parser
	detector *Detector
	probe    env.Probe
	clock    Clock
	interval time.Duration
	log      *slog.Logger
	metrics  *Metrics
	onError  func(error)

	initOnce sync.Once
	initErr  error

	mu        sync.Mutex
	strategy  strategy
	detection Detection
	history   *browser.History
	poller    *Poller
	removers  []func()
	closed    bool
}

// New creates a service over w firing events from src. Nothing happens
// until Init.
func New(w Window, src events.Source, opts ...Option) *Service {
	o := options{
		event:        DefaultEvent,
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = slog.Default()
	}
	if o.clock == nil {
		o.clock = realClock{}
	}
	if o.detector == nil {
		o.detector = ProcessDetector
	}
	if o.probe == nil {
		p := env.NewProbe(w.UserAgent())
		o.probe = &p
	}
	if o.parser == nil {
		o.parser = NewParser(0)
	}
	if o.metrics == nil {
		o.metrics = NewMetrics(nil)
	}
	if o.onError == nil {
		o.onError = func(error) {}
	}

	log := o.log.With("component", "navigation")
	return &Service{
		win:      w,
		notifier: NewNotifier(src, o.event, o.parser, log, o.tracer, o.metrics),
		parser:   o.parser,
		detector: o.detector,
		probe:    *o.probe,
		clock:    o.clock,
		interval: o.pollInterval,
		log:      log,
		metrics:  o.metrics,
		onError:  o.onError,
		history:  browser.NewHistory(),
	}
}

// Init selects the strategy, wires change detection and fires the initial
// event for the address present at startup. Wiring happens once; later
// calls return the result of the initial notification. Handlers of that
// first event may already use the service. A service closed before Init
// stays closed and Init returns ErrClosed.
func (s *Service) Init(ctx context.Context) error {
	var fire func()
	s.initOnce.Do(func() {
		fire, s.initErr = s.start(ctx)
	})
	if fire != nil {
		fire()
	}
	return s.initErr
}

// start wires detection and prepares the initial event. It runs inside
// initOnce, so every caller sees its error; the event itself fires after.
func (s *Service) start(ctx context.Context) (func(), error) {
	poller, err := s.wire()
	if err != nil {
		return nil, err
	}
	if poller != nil {
		poller.Start(LocationHash(s.win.Href()))
	}
	s.metrics.changes.WithLabelValues(triggerInit).Inc()
	return s.notifier.prepare(ctx, s.currentLocation())
}

func (s *Service) wire() (*Poller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	if s.detector.UsePushState(s.win, s.probe) {
		s.strategy = nativeStrategy{s}
		s.detection = DetectPopState
		s.removers = append(s.removers, s.win.OnPopState(func() {
			s.changedAsync(triggerPopState)
		}))
	} else {
		s.history.Push(strings.TrimPrefix(LocationHash(s.win.Href()), "#"))
		s.metrics.historyDepth.Set(float64(s.history.Len()))

		if s.probe.IsRestrictedWebview() {
			s.strategy = emulatedStrategy{s}
		} else {
			s.strategy = hashStrategy{s}
		}

		if hashChangeSupported(s.win) {
			s.detection = DetectHashChange
			s.removers = append(s.removers, s.win.OnHashChange(func() {
				s.changedAsync(triggerHashChange)
			}))
		} else {
			s.detection = DetectPolling
			s.poller = NewPoller(s.clock, s.interval, s.readFragment, func(string) {
				s.changedAsync(triggerPoll)
			})
		}
	}

	s.log.Info("navigation tracking initialized",
		"strategy", s.strategy.kind().String(),
		"detection", s.detection.String(),
		"capability", s.detector.Capability().String())
	return s.poller, nil
}

// Set navigates to token. An empty token does nothing.
func (s *Service) Set(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	st, err := s.active(ctx)
	if err != nil {
		return err
	}
	return st.set(ctx, token)
}

// Get parses the current location. The fragment wins; the push-state
// payload covers browsers that drop the fragment on back navigation.
func (s *Service) Get() Location {
	return s.parser.Parse(s.currentLocation())
}

// Back steps back one entry.
func (s *Service) Back() {
	st, err := s.active(context.Background())
	if err != nil {
		s.report(err)
		return
	}
	st.back()
}

// Forward steps forward one entry. At the newest entry it does nothing.
func (s *Service) Forward() {
	st, err := s.active(context.Background())
	if err != nil {
		s.report(err)
		return
	}
	st.forward()
}

// Reset clears the emulated history. Native history and the current
// address are left alone.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.Reset()
	s.metrics.historyDepth.Set(0)
}

// SetTitle sets the document title.
func (s *Service) SetTitle(title string) {
	s.win.SetTitle(title)
}

// Close stops change detection. Set, Back and Forward do nothing afterwards.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.poller != nil {
		s.poller.Stop()
	}
	for _, remove := range s.removers {
		remove()
	}
	s.removers = nil
}

// Strategy reports the tracking strategy, StrategyNone before Init.
func (s *Service) Strategy() Strategy {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.strategy == nil {
		return StrategyNone
	}
	return s.strategy.kind()
}

// Detection reports how external changes are detected.
func (s *Service) Detection() Detection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detection
}

// History returns a copy of the emulated history.
func (s *Service) History() browser.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Snapshot()
}

func (s *Service) active(ctx context.Context) (strategy, error) {
	if err := s.Init(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	return s.strategy, nil
}

func (s *Service) readFragment() string {
	s.metrics.polls.Inc()
	return LocationHash(s.win.Href())
}

func (s *Service) currentLocation() string {
	if h := LocationHash(s.win.Href()); h != "" {
		return h
	}
	if st, ok := s.win.State(); ok {
		return st.Hash
	}
	return ""
}

// changed must be called without s.mu held: handlers of the fired event
// may call back into the service.
func (s *Service) changed(ctx context.Context, trigger string) error {
	s.metrics.changes.WithLabelValues(trigger).Inc()
	return s.notifier.Notify(ctx, s.currentLocation())
}

func (s *Service) changedAsync(trigger string) {
	if err := s.changed(context.Background(), trigger); err != nil {
		s.report(err)
	}
}

func (s *Service) report(err error) {
	s.log.Error("navigation change not delivered", "error", err)
	s.onError(err)
}
