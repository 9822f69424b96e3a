package main

import (
	"fmt"

	"github.com/Veraticus/spice-rules/internal/cli"
	"github.com/spf13/cobra"
)

func summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show totals per category for saved transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			category, _ := cmd.Flags().GetString("category")

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			txns, err := store.GetTransactions(ctx, category)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(txns) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No saved transactions"))
				return nil
			}

			if category != "" {
				return cli.WriteTransactions(out, txns)
			}

			// Rules only decide the order of the totals.
			c, err := loadClassifier()
			if err != nil {
				return err
			}
			return cli.WriteSummary(out, c.Summarize(txns))
		},
	}

	cmd.Flags().StringP("category", "c", "", "List transactions in this category instead")

	return cmd
}
