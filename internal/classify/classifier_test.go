package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcpguard/tcpguard/internal/risktypes"
)

func classifyOK(t *testing.T, command, doc string) Result {
	t.Helper()
	result, err := New(nil).Classify(command, doc)
	require.NoError(t, err)
	return result
}

func TestClassifyKnownCommands(t *testing.T) {
	tests := []struct {
		command   string
		wantTier  risktypes.RiskTier
		wantFlags risktypes.CapabilityFlags
	}{
		{"ls", risktypes.RiskTierSafe, 0},
		{"cat /etc/hostname", risktypes.RiskTierSafe, 0},
		{"curl https://example.com", risktypes.RiskTierMedium,
			risktypes.CapNetworkAccess | risktypes.CapDataExfiltration},
		{"systemctl stop nginx", risktypes.RiskTierHigh, risktypes.CapSystemModification},
		{"sudo id", risktypes.RiskTierCritical,
			risktypes.CapPrivilegeEscalation | risktypes.CapRequiresSudo},
	}
	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			result := classifyOK(t, tt.command, "")
			assert.Equal(t, tt.wantTier, result.Descriptor.Tier)
			assert.Equal(t, tt.wantFlags, result.Descriptor.Flags)
		})
	}
}

func TestClassifyRmRfIsCritical(t *testing.T) {
	result := classifyOK(t, "rm -rf /", "")
	assert.Equal(t, risktypes.RiskTierCritical, result.Descriptor.Tier)
	assert.True(t, result.Descriptor.Flags.Has(risktypes.CapDestructive))
	assert.True(t, result.Descriptor.Flags.Has(risktypes.CapFileModification))
	assert.NotEmpty(t, result.Reasons)
}

func TestClassifyUnknownDefaultsToMedium(t *testing.T) {
	result := classifyOK(t, "frobnicate --fast", "")
	assert.Equal(t, risktypes.RiskTierMedium, result.Descriptor.Tier)
	assert.Equal(t, risktypes.CapabilityFlags(0), result.Descriptor.Flags)
	assert.Contains(t, result.Reasons[0], "unknown command")
}

func TestClassifyEmptyNeverSafe(t *testing.T) {
	for _, input := range []string{"", "   ", "\t\n"} {
		result := classifyOK(t, input, "")
		assert.NotEqual(t, risktypes.RiskTierSafe, result.Descriptor.Tier, "input %q", input)
	}
}

func TestClassifyMonotonicEscalation(t *testing.T) {
	// Adding a known-dangerous argument never decreases the tier.
	tests := []struct {
		base, escalated string
	}{
		{"rm /tmp/x", "rm -rf /tmp/x"},
		{"ls", "ls --force"},
		{"rm -rf /tmp/x", "rm -rf --no-preserve-root /"},
		{"find /tmp", "find /tmp -delete"},
	}
	for _, tt := range tests {
		t.Run(tt.escalated, func(t *testing.T) {
			before := classifyOK(t, tt.base, "")
			after := classifyOK(t, tt.escalated, "")
			assert.GreaterOrEqual(t, after.Descriptor.Tier, before.Descriptor.Tier)
			assert.Greater(t, after.Descriptor.Tier, risktypes.RiskTierSafe)
		})
	}
}

func TestClassifyDangerousArgumentEscalatesAtLeastOneLevel(t *testing.T) {
	before := classifyOK(t, "ls /tmp", "")
	after := classifyOK(t, "ls --force /tmp", "")
	assert.Greater(t, after.Descriptor.Tier, before.Descriptor.Tier)
}

func TestClassifyDocKeywordsRaiseOnly(t *testing.T) {
	t.Run("destructive documentation raises safe command", func(t *testing.T) {
		plain := classifyOK(t, "ls", "")
		documented := classifyOK(t, "ls", "This option will permanently delete all matching files.")
		assert.Greater(t, documented.Descriptor.Tier, plain.Descriptor.Tier)
		assert.True(t, documented.Descriptor.Flags.Has(risktypes.CapDestructive))
	})

	t.Run("benign documentation never lowers", func(t *testing.T) {
		plain := classifyOK(t, "rm -rf /", "")
		documented := classifyOK(t, "rm -rf /", "remove files or directories")
		assert.Equal(t, plain.Descriptor.Tier, documented.Descriptor.Tier)
	})
}

func TestClassifyConditionalNetwork(t *testing.T) {
	t.Run("git status stays local", func(t *testing.T) {
		result := classifyOK(t, "git status", "")
		assert.False(t, result.Descriptor.Flags.Has(risktypes.CapNetworkAccess))
	})

	t.Run("git push is a network operation", func(t *testing.T) {
		result := classifyOK(t, "git push origin main", "")
		assert.True(t, result.Descriptor.Flags.Has(risktypes.CapNetworkAccess))
		assert.GreaterOrEqual(t, result.Descriptor.Tier, risktypes.RiskTierMedium)
	})

	t.Run("rsync with remote target", func(t *testing.T) {
		result := classifyOK(t, "rsync -a ./data backup@host:/srv/data", "")
		assert.True(t, result.Descriptor.Flags.Has(risktypes.CapNetworkAccess))
	})

	t.Run("rsync local copy", func(t *testing.T) {
		result := classifyOK(t, "rsync -a ./data ./backup", "")
		assert.False(t, result.Descriptor.Flags.Has(risktypes.CapNetworkAccess))
	})
}

func TestClassifyInvalidEncoding(t *testing.T) {
	_, err := New(nil).Classify("ls \xff\xfe", "")
	assert.ErrorIs(t, err, ErrInvalidCommandEncoding)

	_, err = New(nil).Classify("ls", "\xff")
	assert.ErrorIs(t, err, ErrInvalidCommandEncoding)
}

func TestClassifyDeterministic(t *testing.T) {
	a := classifyOK(t, "rm -rf /var/tmp/cache", "")
	b := classifyOK(t, "rm -rf /var/tmp/cache", "")
	assert.Equal(t, a.Descriptor, b.Descriptor)
	assert.Equal(t, a.Reasons, b.Reasons)
}

func TestClassifyPerformanceHintsAdvisory(t *testing.T) {
	// Perf hints are carried through but never change the tier.
	result := classifyOK(t, "ls", "")
	assert.Equal(t, risktypes.RiskTierSafe, result.Descriptor.Tier)
	assert.NotZero(t, result.Descriptor.Perf.ExecTimeMillis)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantBase string
		wantArgs []string
	}{
		{"simple", "ls -la /tmp", "ls", []string{"-la", "/tmp"}},
		{"surrounding whitespace", "  ls  ", "ls", nil},
		{"quoted argument", `echo "hello world"`, "echo", []string{"hello world"}},
		{"empty", "", "", nil},
		{"unterminated quote falls back", `echo "oops`, "echo", []string{`"oops`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			norm := Normalize(tt.input)
			assert.Equal(t, tt.wantBase, norm.Base)
			if tt.wantArgs == nil {
				assert.Empty(t, norm.Args)
			} else {
				assert.Equal(t, tt.wantArgs, norm.Args)
			}
		})
	}
}
