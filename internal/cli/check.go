package cli

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tcpguard/tcpguard/internal/alternative"
	"github.com/tcpguard/tcpguard/internal/color"
	"github.com/tcpguard/tcpguard/internal/descriptor"
	"github.com/tcpguard/tcpguard/internal/guard"
	"github.com/tcpguard/tcpguard/internal/terminal"
)

var checkCmd = &cobra.Command{
	Use:   "check <command...>",
	Short: "Evaluate a command chain and print the risk decision",
	Long: `Check classifies a shell command (or chain joined with ;, &&, ||, | or &),
prints the aggregated risk tier, capability flags and descriptor, and
exits non-zero when the decision is blocked.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	g, err := newGuard()
	if err != nil {
		return err
	}

	raw := strings.Join(args, " ")
	decision := g.Evaluate(cmd.Context(), raw)

	caps := terminal.NewCapabilities(terminal.Options{
		ForceColor:   forceColor,
		DisableColor: noColor,
	})
	renderDecision(cmd.OutOrStdout(), decision, caps.SupportsColor())

	if decision.Blocked {
		// Distinguish "command is risky" from flag or I/O errors above.
		cmd.SilenceErrors = true
		return fmt.Errorf("blocked: %s", raw)
	}
	return nil
}

// renderDecision writes the human-readable decision report.
func renderDecision(w io.Writer, d *guard.Decision, colored bool) {
	paint := color.None
	if colored {
		paint = color.ForTier(d.Descriptor().Tier)
	}

	verdict := "allow"
	if d.Blocked {
		verdict = "block"
	}

	fmt.Fprintf(w, "decision:   %s\n", d.ID)
	fmt.Fprintf(w, "command:    %s\n", d.Command)
	fmt.Fprintf(w, "tier:       %s\n", paint(d.Descriptor().Tier.String()))
	fmt.Fprintf(w, "flags:      %s\n", d.Descriptor().Flags)
	fmt.Fprintf(w, "score:      %.1f\n", d.Evaluation.Score)
	fmt.Fprintf(w, "verdict:    %s\n", paint(verdict))

	raw := descriptor.Encode(d.Descriptor())
	fmt.Fprintf(w, "descriptor: %s\n", hex.EncodeToString(raw[:]))

	if d.Err != nil {
		fmt.Fprintf(w, "error:      %v\n", d.Err)
	}

	for i, seg := range d.Evaluation.Segments {
		op := ""
		if i < len(d.Evaluation.Operators) {
			op = " " + d.Evaluation.Operators[i].String()
		}
		fmt.Fprintf(w, "  segment %d: [%s] %s%s\n",
			i+1, seg.Result.Descriptor.Tier, seg.Raw, op)
		for _, reason := range seg.Result.Reasons {
			fmt.Fprintf(w, "             - %s\n", reason)
		}
	}

	if d.Suggestion != nil {
		label := "suggestion"
		if d.Suggestion.Kind == alternative.KindBlock {
			label = "note"
		}
		fmt.Fprintf(w, "%s: %s\n", label, d.Suggestion.Text)
	}
}
