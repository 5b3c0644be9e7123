package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func clearColorEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"NO_COLOR", "CLICOLOR", "CLICOLOR_FORCE", "TERM"} {
		t.Setenv(name, "")
	}
}

func TestSupportsColorExplicitFlags(t *testing.T) {
	clearColorEnv(t)

	t.Run("disable wins over force", func(t *testing.T) {
		caps := NewCapabilities(Options{ForceColor: true, DisableColor: true})
		assert.False(t, caps.SupportsColor())
	})

	t.Run("force enables without a terminal", func(t *testing.T) {
		caps := NewCapabilities(Options{ForceColor: true})
		assert.True(t, caps.SupportsColor())
	})
}

func TestSupportsColorEnvironment(t *testing.T) {
	clearColorEnv(t)

	t.Run("CLICOLOR_FORCE overrides NO_COLOR checks", func(t *testing.T) {
		t.Setenv("CLICOLOR_FORCE", "1")
		caps := NewCapabilities(Options{})
		assert.True(t, caps.SupportsColor())
	})

	t.Run("NO_COLOR disables", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		caps := NewCapabilities(Options{})
		assert.False(t, caps.SupportsColor())
	})
}

func TestIsInteractiveUnderCI(t *testing.T) {
	t.Setenv("CI", "true")
	caps := NewCapabilities(Options{})
	assert.False(t, caps.IsInteractive())
	assert.False(t, caps.SupportsColor())
}

func TestIsTruthy(t *testing.T) {
	for _, v := range []string{"1", "true", "yes", "TRUE", " Yes "} {
		assert.True(t, isTruthy(v), v)
	}
	for _, v := range []string{"", "0", "false", "no", "maybe"} {
		assert.False(t, isTruthy(v), v)
	}
}
