package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/nav"
	"git.home.luguber.info/inful/docnav/internal/retry"
)

const sampleConfig = `site:
  title: Docs
  base: /docs
content:
  dir: src/content/docs
locales:
  - code: en
  - code: de
    dir: deutsch
sidebar:
  - intro
  - label: Start here
    slug: guides/start
  - label: Guides
    collapsed: true
    items:
      - autogenerate:
          directory: guides
  - label: Reference
    autogenerate:
      directory: reference
validation:
  fail_on_warnings: true
  exclude: ["api/*"]
  report_hidden: true
logging:
  level: DEBUG
  format: json
events:
  nats_url: nats://localhost:4222
  retry:
    backoff: exponential
    initial: 200ms
    max_retries: 4
watch:
  interval: 10m
`

func TestParse_Sample(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "/docs", cfg.Site.Base)
	assert.Equal(t, "src/content/docs", cfg.Content.Dir)
	assert.Equal(t, []string{".md", ".mdx", ".markdown"}, cfg.Content.Extensions)
	require.Len(t, cfg.Locales, 2)
	assert.Equal(t, "en", cfg.Locales[0].LocaleDir())
	assert.Equal(t, "deutsch", cfg.Locales[1].LocaleDir())
	assert.True(t, cfg.Validation.FailOnWarnings)
	assert.True(t, cfg.Validation.ReportHidden)
	assert.False(t, cfg.Validation.SkipOrphans)
	assert.Equal(t, LogLevelDebug, cfg.Logging.Level)
	assert.Equal(t, LogFormatJSON, cfg.Logging.Format)
	assert.Equal(t, "docnav.findings", cfg.Events.Subject)
	policy := cfg.Events.Retry.Policy()
	assert.Equal(t, retry.ModeExponential, policy.Mode)
	assert.Equal(t, 200*time.Millisecond, policy.Initial)
	assert.Equal(t, 4, policy.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, 10*time.Minute, cfg.Watch.Interval)

	guides := nav.Group("Guides", nav.Autogenerate("guides"))
	guides.Collapsed = true
	assert.Equal(t, []nav.Entry{
		nav.Link("", "intro"),
		nav.Link("Start here", "guides/start"),
		guides,
		nav.Group("Reference", nav.Autogenerate("reference")),
	}, []nav.Entry(cfg.Sidebar))
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("sidebar: []\n"))
	require.NoError(t, err)
	assert.Equal(t, "docs", cfg.Content.Dir)
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Logging.Format)
	assert.Empty(t, cfg.Events.Subject)
	assert.Equal(t, retry.DefaultPolicy(), cfg.Events.Retry.Policy())
	assert.Empty(t, cfg.Sidebar)
}

func TestParse_BareAutogenerateSplices(t *testing.T) {
	cfg, err := Parse([]byte("sidebar:\n  - autogenerate: {directory: .}\n"))
	require.NoError(t, err)
	assert.Equal(t, []nav.Entry{nav.Autogenerate(".")}, []nav.Entry(cfg.Sidebar))
}

func TestParse_SidebarErrorsCarryLine(t *testing.T) {
	cases := map[string]struct {
		yaml string
		line int
	}{
		"slug and items": {"sidebar:\n  - intro\n  - label: X\n    slug: x\n    items: []\n", 3},
		"no form":        {"sidebar:\n  - label: X\n", 2},
		"unknown key":    {"sidebar:\n  - label: X\n    link: https://example.com\n", 3},
		"group label":    {"sidebar:\n  - items:\n      - intro\n", 2},
		"auto no dir":    {"sidebar:\n  - autogenerate: {}\n", 2},
		"collapsed link": {"sidebar:\n  - slug: a\n    collapsed: true\n", 3},
		"not a list":     {"sidebar: intro\n", 1},
		"nested":         {"sidebar:\n  - label: G\n    items:\n      - [bad]\n", 4},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			require.Error(t, err)
			ce, ok := errors.AsClassified(err)
			require.True(t, ok, "expected classified error, got %v", err)
			assert.Equal(t, errors.CategoryConfig, ce.Category())
			assert.Equal(t, tc.line, ce.Context()["line"])
		})
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	cases := map[string]string{
		"extension":     "content:\n  extensions: [md]\n",
		"locale dup":    "locales:\n  - code: en\n  - code: en\n",
		"locale code":   "locales:\n  - label: English\n",
		"exclude":       "validation:\n  exclude: [\"[\"]\n",
		"log level":     "logging:\n  level: loud\n",
		"log format":    "logging:\n  format: xml\n",
		"negative wait": "watch:\n  debounce: -1s\n",
		"backoff":       "events:\n  retry:\n    backoff: random\n",
		"retries":       "events:\n  retry:\n    max_retries: -2\n",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(raw))
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
		})
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("site: [\n"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(".env", []byte("DOCNAV_TEST_DIR=from-dotenv\nDOCNAV_TEST_TITLE=dotenv\n"), 0o600))
	t.Setenv("DOCNAV_TEST_TITLE", "from-process")

	path := filepath.Join(dir, "docnav.yaml")
	require.NoError(t, os.WriteFile(path, []byte("site:\n  title: ${DOCNAV_TEST_TITLE}\ncontent:\n  dir: ${DOCNAV_TEST_DIR}\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Content.Dir)
	assert.Equal(t, "from-process", cfg.Site.Title)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docnav.yaml")
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Sidebar)

	err = Init(path, false)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
	require.NoError(t, Init(path, true))
}

func TestLogLevelSlog(t *testing.T) {
	assert.Equal(t, "DEBUG", NormalizeLogLevel("debug").SlogLevel().String())
	assert.Equal(t, LogLevelWarn, NormalizeLogLevel(" Warning "))
	assert.Equal(t, LogFormatText, NormalizeLogFormat("unknown"))
}
