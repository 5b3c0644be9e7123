package cli

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tcpguard/tcpguard/internal/descriptor"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <hex>",
	Short: "Decode a hex-encoded 24-byte descriptor and print its fields",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	raw, err := hex.DecodeString(args[0])
	if err != nil {
		return fmt.Errorf("invalid hex input: %w", err)
	}

	d, err := descriptor.Decode(raw)
	if err != nil {
		return err
	}

	renderDescriptor(cmd.OutOrStdout(), d)
	return nil
}

func renderDescriptor(w io.Writer, d descriptor.Descriptor) {
	fmt.Fprintf(w, "version:     %d\n", d.Version)
	fmt.Fprintf(w, "fingerprint: %08x\n", d.Fingerprint)
	fmt.Fprintf(w, "tier:        %s\n", d.Tier)
	fmt.Fprintf(w, "flags:       %s\n", d.Flags)
	fmt.Fprintf(w, "exec_time:   %dms\n", d.Perf.ExecTimeMillis)
	fmt.Fprintf(w, "memory:      %dMB\n", d.Perf.MemoryMB)
	fmt.Fprintf(w, "output:      %dKB\n", d.Perf.OutputKB)
}
