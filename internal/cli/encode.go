package cli

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tcpguard/tcpguard/internal/classify"
	"github.com/tcpguard/tcpguard/internal/descriptor"
	"github.com/tcpguard/tcpguard/internal/ruleset"
)

var encodeCmd = &cobra.Command{
	Use:   "encode <command...>",
	Short: "Classify a single command and print its 24-byte descriptor as hex",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runEncode,
}

func init() {
	rootCmd.AddCommand(encodeCmd)
}

func runEncode(cmd *cobra.Command, args []string) error {
	table, err := loadTable()
	if err != nil {
		return err
	}

	result, err := classify.ClassifyWith(table, strings.Join(args, " "), "")
	if err != nil {
		return err
	}

	raw := descriptor.Encode(result.Descriptor)
	fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(raw[:]))
	return nil
}

func loadTable() (*ruleset.Table, error) {
	if rulesPath == "" {
		return ruleset.DefaultTable(), nil
	}
	content, err := readRulesFile(rulesPath)
	if err != nil {
		return nil, err
	}
	return ruleset.Load(content)
}
