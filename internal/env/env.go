// Package env classifies the browser environment from its user agent.
package env

import (
	"fmt"
	"sort"
	"strings"
)

// Probe answers environment questions for one user agent string.
type Probe struct {
	ua string
}

// NewProbe creates a probe for the given user agent.
func NewProbe(userAgent string) Probe {
	return Probe{ua: userAgent}
}

// UserAgent returns the raw user agent string.
func (p Probe) UserAgent() string {
	return p.ua
}

// IsRestrictedWebview reports whether the agent is an iOS embedded webview.
// Those identify as iPhone, iPad or iPod with AppleWebKit but never mention
// Safari after the engine token.
func (p Probe) IsRestrictedWebview() bool {
	ua := strings.ToLower(p.ua)

	device := -1
	for _, d := range []string{"ipad", "iphone", "ipod"} {
		if i := strings.Index(ua, d); i >= 0 && (device < 0 || i < device) {
			device = i
		}
	}
	if device < 0 {
		return false
	}

	engine := strings.Index(ua[device:], "applewebkit")
	if engine < 0 {
		return false
	}
	return !strings.Contains(ua[device+engine:], "safari")
}

// IsLegacyAndroidBrowser reports whether the agent is the stock Android
// browser, which ships a broken pushState.
func (p Probe) IsLegacyAndroidBrowser() bool {
	return strings.Contains(p.ua, "Android ") &&
		strings.Contains(p.ua, "Mozilla/5.0") &&
		strings.Contains(p.ua, "AppleWebKit") &&
		!strings.Contains(p.ua, "Chrome")
}

// Preset describes a browser class the simulated window can imitate.
type Preset struct {
	Name         string
	UserAgent    string
	PushState    bool
	HashChange   bool
	DocumentMode int
}

var presets = map[string]Preset{
	"desktop": {
		Name:       "desktop",
		UserAgent:  "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
		PushState:  true,
		HashChange: true,
	},
	"android-stock": {
		Name:       "android-stock",
		UserAgent:  "Mozilla/5.0 (Linux; U; Android 4.0.3; en-us; GT-I9100 Build/IML74K) AppleWebKit/534.30 (KHTML, like Gecko) Version/4.0 Mobile Safari/534.30",
		PushState:  true,
		HashChange: true,
	},
	"ios-webview": {
		Name:       "ios-webview",
		UserAgent:  "Mozilla/5.0 (iPhone; CPU iPhone OS 7_0 like Mac OS X) AppleWebKit/537.51.1 (KHTML, like Gecko) Mobile/11A465",
		PushState:  true,
		HashChange: true,
	},
	"legacy-ie": {
		Name:         "legacy-ie",
		UserAgent:    "Mozilla/4.0 (compatible; MSIE 8.0; Windows NT 6.1; Trident/4.0)",
		PushState:    false,
		HashChange:   true,
		DocumentMode: 7,
	},
}

// LookupPreset returns the named preset.
func LookupPreset(name string) (Preset, error) {
	p, ok := presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("unknown browser preset %q (available: %s)", name, strings.Join(PresetNames(), ", "))
	}
	return p, nil
}

// PresetNames lists the available presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
