package navigation

import (
	"context"

	"github.com/vidyasagar/navsync/internal/browser"
)

// Strategy is how the service records navigation in the browser.
type Strategy int

const (
	StrategyNone Strategy = iota
	// StrategyNative uses pushState and the browser's session history.
	StrategyNative
	// StrategyHash writes only the fragment and lets the browser keep history.
	StrategyHash
	// StrategyEmulated writes the fragment and keeps its own history stack,
	// for webviews whose session history is unreliable.
	StrategyEmulated
)

func (s Strategy) String() string {
	switch s {
	case StrategyNative:
		return "native"
	case StrategyHash:
		return "hash"
	case StrategyEmulated:
		return "emulated"
	default:
		return "none"
	}
}

type strategy interface {
	kind() Strategy
	set(ctx context.Context, token string) error
	back()
	forward()
}

type nativeStrategy struct{ s *Service }

func (nativeStrategy) kind() Strategy { return StrategyNative }

// set notifies right away instead of waiting for popstate, which pushState
// never fires. The token also travels in the state payload because some
// browsers lose the fragment on back navigation.
func (n nativeStrategy) set(ctx context.Context, token string) error {
	n.s.win.PushState(browser.State{Hash: token}, "#"+token)
	return n.s.changed(ctx, triggerSet)
}

// back and forward rely on the popstate listener to notify.
func (n nativeStrategy) back()    { n.s.win.Go(-1) }
func (n nativeStrategy) forward() { n.s.win.Go(1) }

type hashStrategy struct{ s *Service }

func (hashStrategy) kind() Strategy { return StrategyHash }

func (h hashStrategy) set(_ context.Context, token string) error {
	h.s.win.SetHash(token)
	return nil
}

func (h hashStrategy) back()    { h.s.win.Go(-1) }
func (h hashStrategy) forward() { h.s.win.Go(1) }

type emulatedStrategy struct{ s *Service }

func (emulatedStrategy) kind() Strategy { return StrategyEmulated }

func (e emulatedStrategy) set(_ context.Context, token string) error {
	s := e.s
	s.mu.Lock()
	s.history.Push(token)
	s.metrics.historyDepth.Set(float64(s.history.Len()))
	s.mu.Unlock()

	s.win.SetHash(token)
	return nil
}

// back past the first entry starts over from the root location.
func (e emulatedStrategy) back() {
	s := e.s
	s.mu.Lock()
	token, ok := s.history.Back()
	if !ok {
		s.history.Reset()
		s.metrics.historyDepth.Set(0)
	}
	s.mu.Unlock()

	if !ok {
		s.log.Debug("emulated history exhausted, returning to root")
	}
	s.win.SetHash(token)
}

func (e emulatedStrategy) forward() {
	s := e.s
	s.mu.Lock()
	token, ok := s.history.Forward()
	s.mu.Unlock()

	if ok {
		s.win.SetHash(token)
	}
}
