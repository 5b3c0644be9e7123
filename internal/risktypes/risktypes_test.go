package risktypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRiskTierOrdering(t *testing.T) {
	assert.True(t, RiskTierSafe < RiskTierLow)
	assert.True(t, RiskTierLow < RiskTierMedium)
	assert.True(t, RiskTierMedium < RiskTierHigh)
	assert.True(t, RiskTierHigh < RiskTierCritical)
}

func TestRiskTierString(t *testing.T) {
	tests := []struct {
		tier RiskTier
		want string
	}{
		{RiskTierSafe, "safe"},
		{RiskTierLow, "low"},
		{RiskTierMedium, "medium"},
		{RiskTierHigh, "high"},
		{RiskTierCritical, "critical"},
		{RiskTier(42), "risktier(42)"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tier.String())
		})
	}
}

func TestParseRiskTier(t *testing.T) {
	t.Run("valid values round-trip", func(t *testing.T) {
		for tier := RiskTierSafe; tier <= RiskTierCritical; tier++ {
			parsed, err := ParseRiskTier(tier.String())
			require.NoError(t, err)
			assert.Equal(t, tier, parsed)
		}
	})

	t.Run("case insensitive with whitespace", func(t *testing.T) {
		parsed, err := ParseRiskTier("  Critical ")
		require.NoError(t, err)
		assert.Equal(t, RiskTierCritical, parsed)
	})

	t.Run("invalid value", func(t *testing.T) {
		_, err := ParseRiskTier("catastrophic")
		assert.ErrorIs(t, err, ErrInvalidRiskTier)
	})
}

func TestEscalate(t *testing.T) {
	assert.Equal(t, RiskTierLow, RiskTierSafe.Escalate())
	assert.Equal(t, RiskTierCritical, RiskTierHigh.Escalate())
	assert.Equal(t, RiskTierCritical, RiskTierCritical.Escalate(), "escalation saturates at critical")
}

func TestMaxTier(t *testing.T) {
	assert.Equal(t, RiskTierHigh, MaxTier(RiskTierLow, RiskTierHigh))
	assert.Equal(t, RiskTierHigh, MaxTier(RiskTierHigh, RiskTierLow))
	assert.Equal(t, RiskTierMedium, MaxTier(RiskTierMedium, RiskTierMedium))
}

func TestCapabilityFlags(t *testing.T) {
	t.Run("flags are additive and order independent", func(t *testing.T) {
		a := CapDestructive.Union(CapFileModification)
		b := CapFileModification.Union(CapDestructive)
		assert.Equal(t, a, b)
		assert.True(t, a.Has(CapDestructive))
		assert.True(t, a.Has(CapFileModification))
		assert.False(t, a.Has(CapNetworkAccess))
	})

	t.Run("names in bit order", func(t *testing.T) {
		flags := CapNetworkAccess | CapRequiresSudo
		assert.Equal(t, []string{"requires_sudo", "network_access"}, flags.Names())
	})

	t.Run("zero flags", func(t *testing.T) {
		assert.Equal(t, "none", CapabilityFlags(0).String())
		assert.Empty(t, CapabilityFlags(0).Names())
	})
}

func TestParseCapability(t *testing.T) {
	for _, name := range (CapRequiresSudo | CapRequiresRoot | CapDestructive | CapNetworkAccess |
		CapFileModification | CapSystemModification | CapPrivilegeEscalation | CapDataExfiltration).Names() {
		flag, err := ParseCapability(name)
		require.NoError(t, err)
		assert.Equal(t, []string{name}, flag.Names())
	}

	_, err := ParseCapability("teleportation")
	assert.ErrorIs(t, err, ErrInvalidCapability)
}
