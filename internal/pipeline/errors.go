package pipeline

import "git.home.luguber.info/inful/docnav/internal/foundation/errors"

func unknownLocale(code string) error {
	return errors.ConfigError("unknown locale").
		WithContext("locale", code).
		UserAction().
		Build()
}
