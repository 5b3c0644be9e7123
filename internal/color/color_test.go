package color

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tcpguard/tcpguard/internal/risktypes"
)

func TestNewColor(t *testing.T) {
	c := NewColor("\033[32m")
	assert.Equal(t, "\033[32mok\033[0m", c("ok"))
}

func TestNone(t *testing.T) {
	assert.Equal(t, "plain", None("plain"))
}

func TestForTier(t *testing.T) {
	assert.Equal(t, Green("x"), ForTier(risktypes.RiskTierSafe)("x"))
	assert.Equal(t, Yellow("x"), ForTier(risktypes.RiskTierMedium)("x"))
	assert.Equal(t, BoldRed("x"), ForTier(risktypes.RiskTierCritical)("x"))
}
