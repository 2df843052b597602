package foundation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResult(t *testing.T) {
	t.Run("Ok result", func(t *testing.T) {
		result := Ok[string, error]("success")

		assert.True(t, result.IsOk())
		assert.Equal(t, "success", result.Unwrap())
		assert.Panics(t, func() { _ = result.UnwrapErr() })
	})

	t.Run("Err result", func(t *testing.T) {
		testErr := errors.New("test error")
		result := Err[string, error](testErr)

		assert.False(t, result.IsOk())
		assert.ErrorIs(t, result.UnwrapErr(), testErr)
		assert.Panics(t, func() { _ = result.Unwrap() })
	})
}
