package cli

import (
	"context"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcpguard/tcpguard/internal/classify"
	"github.com/tcpguard/tcpguard/internal/descriptor"
	"github.com/tcpguard/tcpguard/internal/guard"
	"github.com/tcpguard/tcpguard/internal/registry"
	"github.com/tcpguard/tcpguard/internal/risktypes"
	"github.com/tcpguard/tcpguard/internal/ruleset"
)

func TestRenderDecision(t *testing.T) {
	g := guard.New(nil)

	t.Run("safe command", func(t *testing.T) {
		d := g.Evaluate(context.Background(), "ls -la")

		var buf strings.Builder
		renderDecision(&buf, d, false)
		out := buf.String()

		assert.Contains(t, out, "tier:       safe")
		assert.Contains(t, out, "verdict:    allow")
		assert.Contains(t, out, "command:    ls -la")
		assert.NotContains(t, out, "\033[")
	})

	t.Run("blocked chain shows segments and operators", func(t *testing.T) {
		d := g.Evaluate(context.Background(), "ls && rm -rf /")

		var buf strings.Builder
		renderDecision(&buf, d, false)
		out := buf.String()

		assert.Contains(t, out, "verdict:    block")
		assert.Contains(t, out, "segment 1: [safe] ls &&")
		assert.Contains(t, out, "segment 2: [critical] rm -rf /")
	})

	t.Run("colored output wraps the tier", func(t *testing.T) {
		d := g.Evaluate(context.Background(), "ls")

		var buf strings.Builder
		renderDecision(&buf, d, true)
		assert.Contains(t, buf.String(), "\033[32msafe\033[0m")
	})
}

func TestRenderDescriptorRoundTrip(t *testing.T) {
	result, err := classify.ClassifyWith(ruleset.DefaultTable(), "curl https://example.com", "")
	require.NoError(t, err)

	raw := descriptor.Encode(result.Descriptor)
	decoded, err := descriptor.Decode(raw[:])
	require.NoError(t, err)

	var buf strings.Builder
	renderDescriptor(&buf, decoded)
	out := buf.String()

	assert.Contains(t, out, "version:     1")
	assert.Contains(t, out, "tier:        medium")
	assert.Contains(t, out, "network_access")
	assert.Contains(t, out, "exec_time:   2000ms")
}

func TestRunDecode(t *testing.T) {
	newCmd := func(buf *strings.Builder) *cobra.Command {
		cmd := &cobra.Command{}
		cmd.SetOut(buf)
		return cmd
	}

	t.Run("valid descriptor", func(t *testing.T) {
		result, err := classify.ClassifyWith(ruleset.DefaultTable(), "sudo reboot", "")
		require.NoError(t, err)
		raw := descriptor.Encode(result.Descriptor)

		var buf strings.Builder
		require.NoError(t, runDecode(newCmd(&buf), []string{hex.EncodeToString(raw[:])}))
		assert.Contains(t, buf.String(), "tier:        critical")
	})

	t.Run("bad hex", func(t *testing.T) {
		var buf strings.Builder
		err := runDecode(newCmd(&buf), []string{"zz"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid hex input")
	})

	t.Run("truncated payload", func(t *testing.T) {
		var buf strings.Builder
		err := runDecode(newCmd(&buf), []string{"54435044"})
		require.ErrorIs(t, err, descriptor.ErrInvalidLength)
	})
}

func TestRunRulesCompile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "descriptors.bin")

	cmd := &cobra.Command{}
	var buf strings.Builder
	cmd.SetOut(&buf)
	require.NoError(t, runRulesCompile(cmd, []string{path}))
	assert.Contains(t, buf.String(), "compiled")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	reg := registry.New()
	_, err = reg.ReadFrom(f)
	require.NoError(t, err)

	table := ruleset.DefaultTable()
	assert.Equal(t, len(table.Commands()), reg.Len())

	d, ok := reg.Lookup("sudo")
	require.True(t, ok)
	assert.Equal(t, risktypes.RiskTierCritical, d.Tier)
}

func TestRunRulesValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.toml")
	content := `version = "test-1"

[[profiles]]
commands = ["frobnicate"]
tier = "high"
flags = ["destructive"]
reason = "frobnicates things"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cmd := &cobra.Command{}
	var buf strings.Builder
	cmd.SetOut(&buf)

	require.NoError(t, runRulesValidate(cmd, []string{path}))
	assert.Contains(t, buf.String(), "is valid")
	assert.Contains(t, buf.String(), "test-1")
}
