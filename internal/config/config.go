package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/alexanderramin/fieldplan/internal/calendar"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultPrivilegedPriority is the highest priority number still treated
	// as privileged. Lower numbers are more privileged.
	DefaultPrivilegedPriority = 4
	DefaultPriority           = 5
	DefaultDebounceMs         = 300
)

// Config is the resolved application configuration.
type Config struct {
	DataDir            string         `yaml:"data_dir"`
	DBPath             string         `yaml:"db"`
	User               string         `yaml:"user"`
	Priority           int            `yaml:"priority"`
	PrivilegedPriority int            `yaml:"privileged_priority"`
	DebounceMs         int            `yaml:"debounce_ms"`
	Debug              bool           `yaml:"debug"`
	Calendar           CalendarConfig `yaml:"calendar"`
}

type CalendarConfig struct {
	URL        string      `yaml:"url"`
	CalendarID string      `yaml:"calendar_id"`
	TimeoutMs  int         `yaml:"timeout_ms"`
	OAuth      OAuthConfig `yaml:"oauth"`
}

type OAuthConfig struct {
	ClientID    string `yaml:"client_id"`
	AuthURL     string `yaml:"auth_url"`
	RedirectURL string `yaml:"redirect_url"`
	Scope       string `yaml:"scope"`
}

// Default returns the configuration used when neither a file nor the
// environment says otherwise. Paths live under ~/.fieldplan.
func Default() Config {
	dataDir := ".fieldplan"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".fieldplan")
	}
	cal := calendar.DefaultConfig()
	return Config{
		DataDir:            dataDir,
		DBPath:             filepath.Join(dataDir, "fieldplan.db"),
		Priority:           DefaultPriority,
		PrivilegedPriority: DefaultPrivilegedPriority,
		DebounceMs:         DefaultDebounceMs,
		Calendar: CalendarConfig{
			TimeoutMs: cal.TimeoutMs,
			OAuth:     OAuthConfig{Scope: cal.OAuth.Scope},
		},
	}
}

// Load resolves defaults, then the YAML file named by FIELDPLAN_CONFIG (or
// <data dir>/config.yaml), then environment overrides.
func Load() (Config, error) {
	return LoadFrom("", os.Getenv)
}

// LoadFrom is Load with an explicit file path and environment lookup. An
// empty path falls back to FIELDPLAN_CONFIG and then the default location.
// A missing file is not an error; a malformed one is.
func LoadFrom(path string, getenv func(string) string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = getenv("FIELDPLAN_CONFIG")
	}
	if path == "" {
		path = filepath.Join(cfg.DataDir, "config.yaml")
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	applyEnv(&cfg, getenv)
	cfg.normalize()
	return cfg, nil
}

// applyEnv overlays FIELDPLAN_* variables. Malformed numbers and booleans
// are ignored.
func applyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv("FIELDPLAN_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := getenv("FIELDPLAN_USER"); v != "" {
		cfg.User = v
	}
	if v := getenv("FIELDPLAN_PRIORITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Priority = n
		}
	}
	if v := getenv("FIELDPLAN_PRIVILEGED_PRIORITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PrivilegedPriority = n
		}
	}
	if v := getenv("FIELDPLAN_DEBOUNCE_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.DebounceMs = n
		}
	}
	if v := getenv("FIELDPLAN_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = b
		}
	}
	if v := getenv("FIELDPLAN_CALENDAR_URL"); v != "" {
		cfg.Calendar.URL = v
	}
	if v := getenv("FIELDPLAN_CALENDAR_ID"); v != "" {
		cfg.Calendar.CalendarID = v
	}
	if v := getenv("FIELDPLAN_OAUTH_CLIENT_ID"); v != "" {
		cfg.Calendar.OAuth.ClientID = v
	}
	if v := getenv("FIELDPLAN_OAUTH_AUTH_URL"); v != "" {
		cfg.Calendar.OAuth.AuthURL = v
	}
	if v := getenv("FIELDPLAN_OAUTH_REDIRECT_URL"); v != "" {
		cfg.Calendar.OAuth.RedirectURL = v
	}
}

func (c *Config) normalize() {
	if c.PrivilegedPriority <= 0 {
		c.PrivilegedPriority = DefaultPrivilegedPriority
	}
	if c.DebounceMs < 0 {
		c.DebounceMs = DefaultDebounceMs
	}
	if c.User == "" {
		c.User = os.Getenv("USER")
	}
}

// Debounce is the coalescing window for buffered field edits.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// CalendarFeed converts the calendar section to the feed's own config type.
func (c Config) CalendarFeed() calendar.Config {
	return calendar.Config{
		Endpoint:   c.Calendar.URL,
		CalendarID: c.Calendar.CalendarID,
		TimeoutMs:  c.Calendar.TimeoutMs,
		OAuth: calendar.OAuthConfig{
			ClientID:    c.Calendar.OAuth.ClientID,
			AuthURL:     c.Calendar.OAuth.AuthURL,
			RedirectURL: c.Calendar.OAuth.RedirectURL,
			Scope:       c.Calendar.OAuth.Scope,
		},
	}
}
