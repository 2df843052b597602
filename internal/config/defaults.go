package config

import (
	"time"

	"git.home.luguber.info/inful/docnav/internal/content"
)

const (
	defaultContentDir = "docs"
	defaultSubject    = "docnav.findings"
	defaultDebounce   = 500 * time.Millisecond
)

func applyDefaults(cfg *Config) {
	if cfg.Content.Dir == "" {
		cfg.Content.Dir = defaultContentDir
	}
	if len(cfg.Content.Extensions) == 0 {
		cfg.Content.Extensions = append([]string(nil), content.DefaultExtensions...)
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
	if cfg.Events.URL != "" && cfg.Events.Subject == "" {
		cfg.Events.Subject = defaultSubject
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = defaultDebounce
	}
}
