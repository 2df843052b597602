// Package config loads and validates the docnav YAML configuration.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/retry"
)

// Config is the root of docnav.yaml.
type Config struct {
	Site       SiteConfig       `yaml:"site"`
	Content    ContentConfig    `yaml:"content"`
	Locales    []Locale         `yaml:"locales,omitempty"`
	Sidebar    Sidebar          `yaml:"sidebar"`
	Validation ValidationConfig `yaml:"validation"`
	Logging    LoggingConfig    `yaml:"logging"`
	Store      StoreConfig      `yaml:"store"`
	Events     EventsConfig     `yaml:"events"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Watch      WatchConfig      `yaml:"watch"`
}

// SiteConfig describes where the documentation is served.
type SiteConfig struct {
	Title string `yaml:"title"`
	Base  string `yaml:"base"` // URL path prefix stripped from absolute links
}

// ContentConfig locates the pages.
type ContentConfig struct {
	Dir        string   `yaml:"dir"`
	Extensions []string `yaml:"extensions"`
}

// Locale is one translated copy of the content tree. Dir defaults to Code.
type Locale struct {
	Code  string `yaml:"code"`
	Label string `yaml:"label"`
	Dir   string `yaml:"dir"`
}

// ValidationConfig tunes link validation.
type ValidationConfig struct {
	FailOnWarnings bool     `yaml:"fail_on_warnings"`
	Exclude        []string `yaml:"exclude"`
	SkipOrphans    bool     `yaml:"skip_orphans"`
	ReportHidden   bool     `yaml:"report_hidden"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// StoreConfig enables run history when Path is set.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// EventsConfig enables publishing findings to NATS when URL is set.
type EventsConfig struct {
	URL     string      `yaml:"nats_url"`
	Subject string      `yaml:"subject"`
	Retry   RetryConfig `yaml:"retry"`
}

// RetryConfig controls reconnect backoff when the bus is unreachable at startup.
type RetryConfig struct {
	Backoff    string        `yaml:"backoff"` // fixed, linear or exponential
	Initial    time.Duration `yaml:"initial"`
	Max        time.Duration `yaml:"max"`
	MaxRetries *int          `yaml:"max_retries"`
}

// Policy converts the settings into a retry policy; unset fields keep the defaults.
func (r RetryConfig) Policy() retry.Policy {
	maxRetries := -1
	if r.MaxRetries != nil {
		maxRetries = *r.MaxRetries
	}
	return retry.NewPolicy(retry.Mode(r.Backoff), r.Initial, r.Max, maxRetries)
}

// MetricsConfig controls Prometheus output.
type MetricsConfig struct {
	File   string `yaml:"file"`   // textfile collector output
	Listen string `yaml:"listen"` // address serving /metrics in watch mode
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
	Interval time.Duration `yaml:"interval"` // periodic forced re-check, 0 disables
}

// Load reads, expands, defaults and validates the configuration at path.
// Variables from .env and .env.local are available to ${VAR} expansion.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewError(errors.CategoryNotFound, "configuration file not found").
				WithContext("path", path).
				UserAction().
				Build()
		}
		return nil, errors.FileSystemError(err, "read configuration").
			WithContext("path", path).
			Build()
	}
	return Parse([]byte(os.ExpandEnv(string(data))))
}

// Parse decodes configuration bytes, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		if _, ok := errors.AsClassified(err); ok {
			return nil, err
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid configuration YAML").Build()
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LocaleDir returns the content subdirectory of a locale.
func (l Locale) LocaleDir() string {
	if l.Dir != "" {
		return l.Dir
	}
	return l.Code
}
