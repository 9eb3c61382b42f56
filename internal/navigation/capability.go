package navigation

import (
	"sync"

	"go.uber.org/atomic"

	"github.com/vidyasagar/navsync/internal/env"
)

// Capability records whether native push-state tracking is usable.
type Capability int32

const (
	CapabilityUnknown Capability = iota
	CapabilityNative
	CapabilityEmulated
)

func (c Capability) String() string {
	switch c {
	case CapabilityNative:
		return "uses-native"
	case CapabilityEmulated:
		return "uses-emulated"
	default:
		return "unknown"
	}
}

// Detector computes the capability once and then answers from the cached
// value. There is no way to invalidate it.
type Detector struct {
	once sync.Once
	flag atomic.Int32
}

// ProcessDetector is shared by every Service that is not given its own.
var ProcessDetector = NewDetector()

// NewDetector creates a detector in the unknown state.
func NewDetector() *Detector {
	return &Detector{}
}

// UsePushState reports whether native push-state tracking should be used.
// Only the first call inspects w and p.
func (d *Detector) UsePushState(w Window, p env.Probe) bool {
	d.once.Do(func() {
		c := CapabilityEmulated
		if w.SupportsPushState() && !p.IsLegacyAndroidBrowser() && !p.IsRestrictedWebview() {
			c = CapabilityNative
		}
		d.flag.Store(int32(c))
	})
	return d.Capability() == CapabilityNative
}

// Capability returns the cached value, CapabilityUnknown before the first probe.
func (d *Detector) Capability() Capability {
	return Capability(d.flag.Load())
}

// hashChangeSupported guards against IE8 in IE7 document mode, which
// reports onhashchange without ever firing it.
func hashChangeSupported(w Window) bool {
	mode := w.DocumentMode()
	return w.SupportsHashChange() && (mode == 0 || mode > 7)
}
