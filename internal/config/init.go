package config

import (
	"os"

	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
)

const starterConfig = `# docnav configuration
site:
  title: My Docs
  base: /

content:
  dir: docs
  extensions: [.md, .mdx]

# locales:
#   - code: en
#   - code: de

sidebar:
  - index
  - label: Guides
    items:
      - label: Getting started
        slug: guides/getting-started
      - autogenerate:
          directory: guides
  - label: Reference
    collapsed: true
    autogenerate:
      directory: reference

validation:
  fail_on_warnings: false
  exclude: []

logging:
  level: info
  format: text

# store:
#   path: .docnav/history.db
# events:
#   nats_url: ${NATS_URL}
#   subject: docnav.findings
#   retry:
#     backoff: exponential
#     max_retries: 3
# metrics:
#   file: .docnav/docnav.prom
#   listen: :9109
watch:
  debounce: 500ms
`

// Init writes a starter configuration to path. An existing file is only replaced
// when force is set.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).
			UserAction().
			Build()
	}
	if err := os.WriteFile(path, []byte(starterConfig), 0o600); err != nil {
		return errors.FileSystemError(err, "write configuration").
			WithContext("path", path).
			Build()
	}
	return nil
}
