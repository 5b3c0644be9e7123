package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tcpguard/tcpguard/internal/classify"
	"github.com/tcpguard/tcpguard/internal/registry"
	"github.com/tcpguard/tcpguard/internal/ruleset"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect, validate and compile rule tables",
}

var rulesValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Parse a TOML rule table and report whether it is usable",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesValidate,
}

var rulesCompileCmd = &cobra.Command{
	Use:   "compile <output>",
	Short: "Precompute descriptors for every known command into a binary snapshot",
	Long: `Compile classifies every command in the active rule table (bare, with no
arguments) and writes the resulting descriptors to a registry snapshot
file, so agents can look up baseline command risk without carrying the
classifier.`,
	Args: cobra.ExactArgs(1),
	RunE: runRulesCompile,
}

func init() {
	rulesCmd.AddCommand(rulesValidateCmd)
	rulesCmd.AddCommand(rulesCompileCmd)
	rootCmd.AddCommand(rulesCmd)
}

func runRulesValidate(cmd *cobra.Command, args []string) error {
	content, err := readRulesFile(args[0])
	if err != nil {
		return err
	}

	table, err := ruleset.Load(content)
	if err != nil {
		return fmt.Errorf("rule table %s is invalid: %w", args[0], err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "rule table %s is valid (version %s, %d commands)\n",
		args[0], table.Version(), len(table.Commands()))
	return nil
}

func runRulesCompile(cmd *cobra.Command, args []string) error {
	table, err := loadTable()
	if err != nil {
		return err
	}

	reg := registry.New()
	for _, command := range table.Commands() {
		result, err := classify.ClassifyWith(table, command, "")
		if err != nil {
			return fmt.Errorf("classifying %q: %w", command, err)
		}
		if err := reg.Put(command, result.Descriptor); err != nil {
			return err
		}
	}

	out, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	defer out.Close()

	written, err := reg.WriteTo(out)
	if err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "compiled %d descriptors (%d bytes) to %s\n",
		reg.Len(), written, args[0])
	return nil
}
