package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	uaIOSWebview = "Mozilla/5.0 (iPhone; CPU iPhone OS 7_0 like Mac OS X) AppleWebKit/537.51.1 (KHTML, like Gecko) Mobile/11A465"
	uaIOSSafari  = "Mozilla/5.0 (iPhone; CPU iPhone OS 7_0 like Mac OS X) AppleWebKit/537.51.1 (KHTML, like Gecko) Version/7.0 Mobile/11A465 Safari/9537.53"
	uaAndroid    = "Mozilla/5.0 (Linux; U; Android 4.0.3; en-us) AppleWebKit/534.30 (KHTML, like Gecko) Version/4.0 Mobile Safari/534.30"
	uaAndroidCr  = "Mozilla/5.0 (Linux; Android 13) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Mobile Safari/537.36"
	uaDesktop    = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"
)

func TestIsRestrictedWebview(t *testing.T) {
	assert.True(t, NewProbe(uaIOSWebview).IsRestrictedWebview())
	assert.True(t, NewProbe("Mozilla/5.0 (iPad; CPU OS 7_0) applewebkit/537.51").IsRestrictedWebview())
	assert.False(t, NewProbe(uaIOSSafari).IsRestrictedWebview())
	assert.False(t, NewProbe(uaDesktop).IsRestrictedWebview())
	assert.False(t, NewProbe("").IsRestrictedWebview())
	// Engine token must follow the device token.
	assert.False(t, NewProbe("AppleWebKit/537 (iPhone)").IsRestrictedWebview())
}

func TestIsLegacyAndroidBrowser(t *testing.T) {
	assert.True(t, NewProbe(uaAndroid).IsLegacyAndroidBrowser())
	assert.False(t, NewProbe(uaAndroidCr).IsLegacyAndroidBrowser())
	assert.False(t, NewProbe(uaDesktop).IsLegacyAndroidBrowser())
}

func TestPresets(t *testing.T) {
	for _, name := range PresetNames() {
		p, err := LookupPreset(name)
		require.NoError(t, err)
		assert.Equal(t, name, p.Name)
		assert.NotEmpty(t, p.UserAgent)
	}

	ios, err := LookupPreset("ios-webview")
	require.NoError(t, err)
	assert.True(t, NewProbe(ios.UserAgent).IsRestrictedWebview())

	_, err = LookupPreset("netscape")
	assert.Error(t, err)
}
