package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vidyasagar/navsync/internal/browser"
	"github.com/vidyasagar/navsync/internal/env"
)

const (
	uaDesktop = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"
	uaAndroid = "Mozilla/5.0 (Linux; U; Android 4.0.3; en-us) AppleWebKit/534.30 (KHTML, like Gecko) Version/4.0 Mobile Safari/534.30"
	uaWebview = "Mozilla/5.0 (iPhone; CPU iPhone OS 7_0 like Mac OS X) AppleWebKit/537.51.1 (KHTML, like Gecko) Mobile/11A465"
	uaIE8     = "Mozilla/4.0 (compatible; MSIE 8.0; Windows NT 6.1; Trident/4.0)"
)

func simWith(ua string, pushState, hashChange bool, docMode int) *browser.Sim {
	return browser.NewSim(browser.SimConfig{
		URL:          "https://app.test/#home",
		UserAgent:    ua,
		PushState:    pushState,
		HashChange:   hashChange,
		DocumentMode: docMode,
	})
}

func TestDetectorUsePushState(t *testing.T) {
	tests := []struct {
		name      string
		ua        string
		pushState bool
		want      bool
	}{
		{"desktop", uaDesktop, true, true},
		{"no pushState", uaDesktop, false, false},
		{"android stock", uaAndroid, true, false},
		{"ios webview", uaWebview, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector()
			assert.Equal(t, CapabilityUnknown, d.Capability())

			w := simWith(tt.ua, tt.pushState, true, 0)
			assert.Equal(t, tt.want, d.UsePushState(w, env.NewProbe(tt.ua)))

			want := CapabilityEmulated
			if tt.want {
				want = CapabilityNative
			}
			assert.Equal(t, want, d.Capability())
		})
	}
}

func TestDetectorIsMemoized(t *testing.T) {
	d := NewDetector()
	assert.True(t, d.UsePushState(simWith(uaDesktop, true, true, 0), env.NewProbe(uaDesktop)))

	// A different environment later on does not change the answer.
	assert.True(t, d.UsePushState(simWith(uaWebview, false, true, 0), env.NewProbe(uaWebview)))
	assert.Equal(t, "uses-native", d.Capability().String())
}

func TestHashChangeSupported(t *testing.T) {
	assert.True(t, hashChangeSupported(simWith(uaDesktop, false, true, 0)))
	assert.True(t, hashChangeSupported(simWith(uaIE8, false, true, 8)))
	assert.False(t, hashChangeSupported(simWith(uaIE8, false, true, 7)))
	assert.False(t, hashChangeSupported(simWith(uaDesktop, false, false, 0)))
}
