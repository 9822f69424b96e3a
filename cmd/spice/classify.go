package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/spice-rules/internal/classifier"
	"github.com/Veraticus/spice-rules/internal/cli"
	"github.com/spf13/cobra"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [description...]",
		Short: "Categorize transaction descriptions",
		Long: `Print the category for each description using the configured rules.

With no arguments, descriptions are read from stdin, one per line.

Examples:
  spice classify "CHIPOTLE MEXICAN GRILL #4521"
  spice classify --explain "AMAZON AWS INVOICE" "NETFLIX.COM"
  cut -d, -f2 statement.csv | spice classify`,
		RunE: runClassify,
	}

	cmd.Flags().BoolP("explain", "e", false, "Show which rule matched")

	return cmd
}

func runClassify(cmd *cobra.Command, args []string) error {
	explain, _ := cmd.Flags().GetBool("explain")

	c, err := loadClassifier()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if len(args) > 0 {
		for _, description := range args {
			if err := writeClassification(out, c, description, explain); err != nil {
				return err
			}
		}
		return nil
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		if err := cmd.Context().Err(); err != nil {
			return err
		}
		if err := writeClassification(out, c, scanner.Text(), explain); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read descriptions: %w", err)
	}
	return nil
}

func writeClassification(w io.Writer, c *classifier.Classifier, description string, explain bool) error {
	description = strings.TrimRight(description, "\r")

	if !explain {
		_, err := fmt.Fprintf(w, "%s\t%s\n", c.GetCategory(description), description)
		return err
	}

	m := c.Explain(description)
	detail := cli.SubtleStyle.Render("no rule matched")
	if m.Matched {
		detail = cli.SubtleStyle.Render(fmt.Sprintf("%s rule #%d %s", m.Rule.Kind(), m.RuleIndex+1, m.Rule))
	}
	_, err := fmt.Fprintf(w, "%s\t%s\t%s\n", m.Category, description, detail)
	return err
}
