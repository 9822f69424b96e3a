package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Veraticus/spice-rules/internal/cli"
	"github.com/Veraticus/spice-rules/internal/config"
	"github.com/Veraticus/spice-rules/internal/rules"
	"github.com/spf13/cobra"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect the categorization rules",
		Long: `Inspect the rule set used for categorization.

Categories are evaluated top to bottom and rules within a category in order.
Literal rules match anywhere in the description regardless of case, so a
short literal like "CAR" also matches "CARDI'S FURNITURE". Use a pattern
with \b word boundaries when that matters.`,
	}

	cmd.AddCommand(rulesListCmd())
	cmd.AddCommand(rulesCheckCmd())
	cmd.AddCommand(rulesExportCmd())

	return cmd
}

func rulesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List rules in evaluation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rs, err := loadRuleSet()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("Rules (%d categories, %d rules)", rs.Len(), rs.RuleCount())))
			return cli.WriteRuleSet(out, rs)
		},
	}
}

func rulesCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configured rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rs, err := loadRuleSet()
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatError("Rule configuration is invalid"))
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf(
				"%d categories, %d rules", rs.Len(), rs.RuleCount())))
			return nil
		},
	}
}

func rulesExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the effective rule set as YAML",
		Long: `Write the effective rule set as YAML under a top-level "rules" key.

Exporting the built-in defaults is a quick way to start a config file:
  spice rules export --file ~/.config/spice/config.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("file")

			rs, err := loadRuleSet()
			if err != nil {
				return err
			}

			if path == "" {
				return rules.Export(cmd.OutOrStdout(), rs)
			}
			return exportToFile(config.ExpandPath(path), rs, cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringP("file", "f", "", "Write to this file instead of stdout")

	return cmd
}

func exportToFile(path string, rs *rules.RuleSet, status io.Writer) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := rules.Export(f, rs); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Fprintln(status, cli.FormatSuccess("Wrote rules to "+path))
	return nil
}
