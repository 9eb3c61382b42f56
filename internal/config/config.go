// Package config loads navsync settings from a TOML file with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/vidyasagar/navsync/internal/browser"
	"github.com/vidyasagar/navsync/internal/env"
)

const (
	appName  = "navsync"
	fileName = "navsync.toml"
)

// Duration is a time.Duration written as "300ms" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config holds navsync configuration.
type Config struct {
	Navigation NavigationConfig `toml:"navigation"`
	Browser    BrowserConfig    `toml:"browser"`
	Log        LogConfig        `toml:"log"`
	Storage    StorageConfig    `toml:"storage"`
	Metrics    MetricsConfig    `toml:"metrics"`
	UI         UIConfig         `toml:"ui"`

	path string
}

type NavigationConfig struct {
	Event string `toml:"event"`
	// Attributes are the parameter names the event declares; only these
	// reach handlers.
	Attributes     []string `toml:"attributes"`
	PollInterval   Duration `toml:"poll_interval"`
	ParseCacheSize int      `toml:"parse_cache_size"`
}

// BrowserConfig describes the simulated browser. Preset supplies the
// defaults; the other fields override it when set.
type BrowserConfig struct {
	StartURL     string `toml:"start_url"`
	Preset       string `toml:"preset"`
	UserAgent    string `toml:"user_agent,omitempty"`
	PushState    *bool  `toml:"push_state,omitempty"`
	HashChange   *bool  `toml:"hash_change,omitempty"`
	DocumentMode *int   `toml:"document_mode,omitempty"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

type StorageConfig struct {
	DataDir    string `toml:"data_dir"`
	Journal    bool   `toml:"journal"`
	MaxEntries int    `toml:"max_entries"`
}

type MetricsConfig struct {
	Addr string `toml:"addr"`
}

type UIConfig struct {
	Theme string `toml:"theme"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Navigation: NavigationConfig{
			Event:          "navsync:locationChange",
			Attributes:     []string{"token", "querystring", "id", "q", "page", "sort"},
			PollInterval:   Duration{300 * time.Millisecond},
			ParseCacheSize: 128,
		},
		Browser: BrowserConfig{
			StartURL: "https://app.local/#home",
			Preset:   "desktop",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Storage: StorageConfig{
			Journal:    true,
			MaxEntries: 1000,
		},
		UI: UIConfig{
			Theme: "default",
		},
	}
}

// Load reads the configuration at path, or at the default location when path is
// empty. A missing file yields the defaults, which are written to disk.
// Environment overrides are applied on top.
func Load(path string) (*Config, error) {
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, fileName)
	}

	cfg := Default()
	cfg.path = path

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		if err := cfg.Save(); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()
	return &cfg, nil
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string {
	return c.path
}

// Save writes the configuration to disk.
func (c *Config) Save() error {
	if c.path == "" {
		dir, err := configDir()
		if err != nil {
			return err
		}
		c.path = filepath.Join(dir, fileName)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.Create(c.path)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}

// ApplyEnvOverrides applies NAVSYNC_* environment variables. Values that
// do not parse are ignored.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("NAVSYNC_EVENT"); v != "" {
		c.Navigation.Event = v
	}
	if v := os.Getenv("NAVSYNC_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Navigation.PollInterval = Duration{d}
		}
	}
	if v := os.Getenv("NAVSYNC_START_URL"); v != "" {
		c.Browser.StartURL = v
	}
	if v := os.Getenv("NAVSYNC_PRESET"); v != "" {
		c.Browser.Preset = v
	}
	if v := os.Getenv("NAVSYNC_USER_AGENT"); v != "" {
		c.Browser.UserAgent = v
	}
	if v := os.Getenv("NAVSYNC_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("NAVSYNC_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv("NAVSYNC_DATA_DIR"); v != "" {
		c.Storage.DataDir = v
	}
	if v := os.Getenv("NAVSYNC_JOURNAL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Storage.Journal = b
		}
	}
	if v := os.Getenv("NAVSYNC_METRICS_ADDR"); v != "" {
		c.Metrics.Addr = v
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error

	if c.Navigation.Event == "" {
		errs = append(errs, errors.New("navigation.event must not be empty"))
	}
	for _, a := range c.Navigation.Attributes {
		if strings.TrimSpace(a) == "" {
			errs = append(errs, errors.New("navigation.attributes must not contain empty names"))
			break
		}
	}
	if c.Navigation.PollInterval.Duration <= 0 {
		errs = append(errs, fmt.Errorf("navigation.poll_interval must be positive, got %s", c.Navigation.PollInterval))
	}
	if c.Navigation.ParseCacheSize < 0 {
		errs = append(errs, errors.New("navigation.parse_cache_size must not be negative"))
	}
	if _, err := env.LookupPreset(c.Browser.Preset); err != nil {
		errs = append(errs, fmt.Errorf("browser.preset: %w", err))
	}
	if c.Browser.DocumentMode != nil && *c.Browser.DocumentMode < 0 {
		errs = append(errs, errors.New("browser.document_mode must not be negative"))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level: unknown level %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}
	if c.Storage.MaxEntries < 0 {
		errs = append(errs, errors.New("storage.max_entries must not be negative"))
	}

	return errors.Join(errs...)
}

// SimConfig resolves the browser section into a simulated window.
func (b BrowserConfig) SimConfig() (browser.SimConfig, error) {
	p, err := env.LookupPreset(b.Preset)
	if err != nil {
		return browser.SimConfig{}, err
	}

	sc := browser.SimConfig{
		URL:          b.StartURL,
		UserAgent:    p.UserAgent,
		PushState:    p.PushState,
		HashChange:   p.HashChange,
		DocumentMode: p.DocumentMode,
	}
	if b.UserAgent != "" {
		sc.UserAgent = b.UserAgent
	}
	if b.PushState != nil {
		sc.PushState = *b.PushState
	}
	if b.HashChange != nil {
		sc.HashChange = *b.HashChange
	}
	if b.DocumentMode != nil {
		sc.DocumentMode = *b.DocumentMode
	}
	return sc, nil
}

// DataDir returns the directory for persistent storage, storage.data_dir
// when set.
func (c *Config) DataDir() (string, error) {
	if c.Storage.DataDir != "" {
		return c.Storage.DataDir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home dir: %w", err)
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appName), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appName), nil
		}
		return filepath.Join(home, "."+appName), nil
	default: // Linux, BSD, etc.
		if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
			return filepath.Join(xdgData, appName), nil
		}
		return filepath.Join(home, ".local", "share", appName), nil
	}
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home dir: %w", err)
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appName), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appName), nil
		}
		return filepath.Join(home, "."+appName), nil
	default:
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			return filepath.Join(xdgConfig, appName), nil
		}
		return filepath.Join(home, ".config", appName), nil
	}
}
