package main

import (
	"fmt"

	"github.com/Veraticus/spice-rules/internal/cli"
	"github.com/spf13/cobra"
)

func recategorizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recategorize",
		Short: "Reapply the current rules to saved transactions",
		Long: `Reapply the current rules to every saved transaction and update the
ones whose category changed. Run this after editing your rules.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			verbose, _ := cmd.Flags().GetBool("verbose")

			c, err := loadClassifier()
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			changes, err := store.Recategorize(ctx, c.GetCategory)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if verbose && len(changes) > 0 {
				t := cli.NewTable("DESCRIPTION", "FROM", "TO")
				for _, ch := range changes {
					t.AddRow(ch.Description, ch.From, ch.To)
				}
				fmt.Fprint(out, t.Render())
			}

			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Recategorized %d transactions", len(changes))))
			return nil
		},
	}

	cmd.Flags().BoolP("verbose", "v", false, "List each change")

	return cmd
}
