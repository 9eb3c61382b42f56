package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 300*time.Millisecond, cfg.Navigation.PollInterval.Duration)
}

func TestLoadMissingWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "navsync.toml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path())
	assert.Equal(t, "desktop", cfg.Browser.Preset)

	_, err = os.Stat(path)
	require.NoError(t, err)

	// What was written reads back the same.
	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Navigation, again.Navigation)
	assert.Equal(t, cfg.Browser, again.Browser)
	assert.Equal(t, cfg.Storage, again.Storage)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "navsync.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[navigation]
event = "app:route"
poll_interval = "50ms"

[browser]
start_url = "https://example.test/#inbox"
preset = "legacy-ie"
hash_change = false

[log]
level = "debug"
format = "json"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "app:route", cfg.Navigation.Event)
	assert.Contains(t, cfg.Navigation.Attributes, "token")
	assert.Equal(t, 50*time.Millisecond, cfg.Navigation.PollInterval.Duration)
	assert.Equal(t, 128, cfg.Navigation.ParseCacheSize, "unset keys keep defaults")
	assert.Equal(t, "json", cfg.Log.Format)

	sc, err := cfg.Browser.SimConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/#inbox", sc.URL)
	assert.False(t, sc.PushState)
	assert.False(t, sc.HashChange)
	assert.Equal(t, 7, sc.DocumentMode)
}

func TestLoadRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "navsync.toml")
	require.NoError(t, os.WriteFile(path, []byte(`[navigation]
poll_interval = "soon"
`), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "parsing config")
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("NAVSYNC_EVENT", "env:event")
	t.Setenv("NAVSYNC_POLL_INTERVAL", "1s")
	t.Setenv("NAVSYNC_PRESET", "ios-webview")
	t.Setenv("NAVSYNC_DATA_DIR", "/tmp/navsync-data")
	t.Setenv("NAVSYNC_JOURNAL", "false")
	t.Setenv("NAVSYNC_METRICS_ADDR", ":9100")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, "env:event", cfg.Navigation.Event)
	assert.Equal(t, time.Second, cfg.Navigation.PollInterval.Duration)
	assert.Equal(t, "ios-webview", cfg.Browser.Preset)
	assert.False(t, cfg.Storage.Journal)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)

	dir, err := cfg.DataDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/navsync-data", dir)
}

func TestApplyEnvOverridesIgnoresGarbage(t *testing.T) {
	t.Setenv("NAVSYNC_POLL_INTERVAL", "often")
	t.Setenv("NAVSYNC_JOURNAL", "maybe")

	cfg := Default()
	cfg.ApplyEnvOverrides()
	assert.Equal(t, 300*time.Millisecond, cfg.Navigation.PollInterval.Duration)
	assert.True(t, cfg.Storage.Journal)
}

func TestValidate(t *testing.T) {
	negative := -1
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty event", func(c *Config) { c.Navigation.Event = "" }, "navigation.event"},
		{"blank attribute", func(c *Config) { c.Navigation.Attributes = []string{"q", " "} }, "navigation.attributes"},
		{"zero interval", func(c *Config) { c.Navigation.PollInterval = Duration{} }, "poll_interval"},
		{"negative cache", func(c *Config) { c.Navigation.ParseCacheSize = -1 }, "parse_cache_size"},
		{"unknown preset", func(c *Config) { c.Browser.Preset = "netscape" }, "browser.preset"},
		{"negative document mode", func(c *Config) { c.Browser.DocumentMode = &negative }, "document_mode"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"negative max entries", func(c *Config) { c.Storage.MaxEntries = -5 }, "max_entries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}

func TestSimConfigOverrides(t *testing.T) {
	yes := true
	mode := 9
	b := BrowserConfig{
		StartURL:     "https://x.test/",
		Preset:       "legacy-ie",
		UserAgent:    "custom",
		PushState:    &yes,
		DocumentMode: &mode,
	}

	sc, err := b.SimConfig()
	require.NoError(t, err)
	assert.Equal(t, "custom", sc.UserAgent)
	assert.True(t, sc.PushState)
	assert.True(t, sc.HashChange, "preset value kept")
	assert.Equal(t, 9, sc.DocumentMode)

	_, err = BrowserConfig{Preset: "nope"}.SimConfig()
	assert.Error(t, err)
}
