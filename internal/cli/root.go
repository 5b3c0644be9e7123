// Package cli implements the tcpguard command line interface. The CLI is a
// thin consumer of the decision engine: it feeds command strings in and
// renders decision objects out, performing no classification logic itself.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tcpguard/tcpguard/internal/audit"
	"github.com/tcpguard/tcpguard/internal/guard"
	"github.com/tcpguard/tcpguard/internal/logging"
	"github.com/tcpguard/tcpguard/internal/risktypes"
	"github.com/tcpguard/tcpguard/internal/ruleset"
	"github.com/tcpguard/tcpguard/internal/terminal"
)

var (
	rulesPath     string
	quarantineDir string
	blockAt       string
	logLevel      string
	forceColor    bool
	noColor       bool
)

var rootCmd = &cobra.Command{
	Use:   "tcpguard",
	Short: "tcpguard - binary risk descriptors for shell commands",
	Long: `tcpguard decides whether a shell command (or chain of commands) is safe
to execute, using static rule tables and a fixed 24-byte binary risk
descriptor format. It never executes anything itself: it classifies,
aggregates chain risk, and proposes safe alternatives.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rulesPath, "rules", "", "path to TOML rule table (default: compiled-in rules)")
	rootCmd.PersistentFlags().StringVar(&quarantineDir, "quarantine-dir", "", "base directory for quarantine rewrites")
	rootCmd.PersistentFlags().StringVar(&blockAt, "block-at", "critical", "risk tier at which commands are blocked")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&forceColor, "color", false, "force colored output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// newGuard assembles a guard from the persistent flags.
func newGuard() (*guard.Guard, error) {
	store := ruleset.NewStore(nil)
	if rulesPath != "" {
		table, err := loadTable()
		if err != nil {
			return nil, err
		}
		store.Swap(table)
	}

	threshold, err := risktypes.ParseRiskTier(blockAt)
	if err != nil {
		return nil, err
	}

	caps := terminal.NewCapabilities(terminal.Options{})
	logger, err := logging.New(logging.Options{
		Level:       logLevel,
		Interactive: caps.IsInteractive(),
	})
	if err != nil {
		return nil, err
	}

	return guard.New(store,
		guard.WithQuarantineDir(quarantineDir),
		guard.WithBlockThreshold(threshold),
		guard.WithAuditLogger(audit.NewLogger(logger)),
	), nil
}

func readRulesFile(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule table: %w", err)
	}
	return content, nil
}
