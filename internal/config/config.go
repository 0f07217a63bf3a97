package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"streetartlist/internal/model"
)

// ErrEmptyPath is returned by Load and Save when no path is given.
var ErrEmptyPath = errors.New("config path is empty")

// MaxRecapDays caps the recap look-ahead window.
const MaxRecapDays = 366

const (
	defaultListen      = "127.0.0.1:8080"
	defaultTimezone    = "America/New_York"
	defaultRefreshCron = "*/30 * * * *"
	// Mondays 09:00 in the display timezone.
	defaultRecapCron   = "0 9 * * 1"
	defaultRecapDays   = 7
	defaultHorizonDays = 365
	defaultCacheDir    = "./var/cache"
	defaultLogLevel    = "info"

	defaultCaptureWidth  = 1200
	defaultCaptureHeight = 630
)

// FeedConfig describes one ICS feed of listings.
type FeedConfig struct {
	// ID is an internal identifier used for de-dup and logging.
	ID string `yaml:"id" json:"id"`
	// Name is a human-friendly label shown in the UI.
	Name string `yaml:"name" json:"name"`
	// URL is the ICS endpoint.
	URL string `yaml:"url" json:"url"`
}

// CaptureConfig controls the share-card screenshot of the board page.
type CaptureConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	// URL defaults to http://<listen>/board.
	URL    string `yaml:"url,omitempty" json:"url,omitempty"`
	Output string `yaml:"output,omitempty" json:"output,omitempty"`
	Width  int    `yaml:"width,omitempty" json:"width,omitempty"`
	Height int    `yaml:"height,omitempty" json:"height,omitempty"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the web API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA zone all event dates are displayed in.
	Timezone string `yaml:"timezone" json:"timezone"`

	// Device and Screen are the default display modes when a request does
	// not specify one.
	Device model.Device     `yaml:"device" json:"device"`
	Screen model.ScreenSize `yaml:"screen" json:"screen"`

	// RefreshCron is the cron schedule for re-fetching feeds.
	RefreshCron string `yaml:"refresh" json:"refresh"`
	// RecapCron is the cron schedule for the weekly recap digest.
	RecapCron string `yaml:"recap" json:"recap"`
	// RecapDays is the look-ahead window of the recap, capped at MaxRecapDays.
	RecapDays int `yaml:"recap_days" json:"recap_days"`

	// HorizonDays bounds recurring listing expansion.
	HorizonDays int `yaml:"horizon_days" json:"horizon_days"`

	CacheDir string `yaml:"cache_dir" json:"cache_dir"`
	LogLevel string `yaml:"log_level" json:"log_level"`

	Feeds []FeedConfig `yaml:"feeds" json:"feeds"`

	Capture CaptureConfig `yaml:"capture" json:"capture"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	c := &Config{Feeds: []FeedConfig{}}
	c.Normalize()
	return c
}

// Normalize fills in missing/zero values so that partially-filled configs
// still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	if strings.TrimSpace(c.Timezone) == "" {
		c.Timezone = defaultTimezone
	}
	c.Device = model.ParseDevice(string(c.Device))
	c.Screen = model.ParseScreenSize(string(c.Screen))

	if c.RefreshCron == "" {
		c.RefreshCron = defaultRefreshCron
	}
	if c.RecapCron == "" {
		c.RecapCron = defaultRecapCron
	}
	if c.RecapDays <= 0 {
		c.RecapDays = defaultRecapDays
	}
	if c.RecapDays > MaxRecapDays {
		c.RecapDays = MaxRecapDays
	}
	if c.HorizonDays <= 0 {
		c.HorizonDays = defaultHorizonDays
	}
	if c.CacheDir == "" {
		c.CacheDir = defaultCacheDir
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.Feeds == nil {
		c.Feeds = []FeedConfig{}
	}
	for i := range c.Feeds {
		if c.Feeds[i].ID == "" {
			if c.Feeds[i].Name != "" {
				c.Feeds[i].ID = c.Feeds[i].Name
			} else {
				c.Feeds[i].ID = c.Feeds[i].URL
			}
		}
	}

	if c.Capture.URL == "" {
		c.Capture.URL = "http://" + c.Listen + "/board"
	}
	if c.Capture.Output == "" {
		c.Capture.Output = filepath.Join(c.CacheDir, "preview.png")
	}
	if c.Capture.Width <= 0 {
		c.Capture.Width = defaultCaptureWidth
	}
	if c.Capture.Height <= 0 {
		c.Capture.Height = defaultCaptureHeight
	}

	// Blank credentials disable auth rather than locking everyone out.
	if c.BasicAuth != nil && (c.BasicAuth.Username == "" || c.BasicAuth.Password == "") {
		c.BasicAuth = nil
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, a default config is written with 0600
//     perms and returned.
//   - Otherwise the YAML is unmarshaled and normalized.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Caller decides whether an unwritable default is fatal.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg to path atomically (temp file + rename) with 0600 perms.
func Save(path string, cfg *Config) error {
	if path == "" {
		return ErrEmptyPath
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".streetartlist-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// Save is a convenience wrapper around the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
