package config

import (
	"fmt"
	"path"
	"strings"

	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/nav"
	"git.home.luguber.info/inful/docnav/internal/retry"
)

// validate checks the defaulted configuration and canonicalises enumerations.
func validate(cfg *Config) error {
	for _, ext := range cfg.Content.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return invalid("content.extensions", fmt.Sprintf("extension %q must start with a dot", ext))
		}
	}

	seen := make(map[string]struct{}, len(cfg.Locales))
	for i, l := range cfg.Locales {
		if l.Code == "" {
			return invalid(fmt.Sprintf("locales[%d].code", i), "locale code is required")
		}
		if _, dup := seen[l.Code]; dup {
			return invalid(fmt.Sprintf("locales[%d].code", i), fmt.Sprintf("locale %q is declared twice", l.Code))
		}
		seen[l.Code] = struct{}{}
	}

	for _, pattern := range cfg.Validation.Exclude {
		if _, err := path.Match(pattern, ""); err != nil {
			return invalid("validation.exclude", fmt.Sprintf("invalid pattern %q", pattern))
		}
	}

	level, err := logLevelNormalizer.NormalizeWithError(string(cfg.Logging.Level))
	if err != nil {
		return invalid("logging.level", err.Error())
	}
	cfg.Logging.Level = level
	format, err := logFormatNormalizer.NormalizeWithError(string(cfg.Logging.Format))
	if err != nil {
		return invalid("logging.format", err.Error())
	}
	cfg.Logging.Format = format

	if cfg.Watch.Debounce < 0 || cfg.Watch.Interval < 0 {
		return invalid("watch", "durations must not be negative")
	}

	r := cfg.Events.Retry
	if !retry.Mode(r.Backoff).Valid() {
		return invalid("events.retry.backoff", fmt.Sprintf("unknown backoff %q (want fixed, linear or exponential)", r.Backoff))
	}
	if r.Initial < 0 || r.Max < 0 || (r.MaxRetries != nil && *r.MaxRetries < 0) {
		return invalid("events.retry", "values must not be negative")
	}

	if err := nav.CheckSchema(cfg.Sidebar); err != nil {
		return err
	}
	return nil
}

func invalid(field, msg string) error {
	return errors.ConfigError(msg).
		WithContext("field", field).
		UserAction().
		Build()
}
