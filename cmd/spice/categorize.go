package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/spice-rules/internal/cli"
	"github.com/Veraticus/spice-rules/internal/common"
	"github.com/Veraticus/spice-rules/internal/csvimport"
	"github.com/Veraticus/spice-rules/internal/model"
	"github.com/Veraticus/spice-rules/internal/ofx"
	"github.com/Veraticus/spice-rules/internal/rules"
	"github.com/spf13/cobra"
)

func categorizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categorize [files...]",
		Short: "Categorize transactions from OFX/QFX or CSV statements",
		Long: `Read transactions from statement files, categorize each one with the
configured rules and print the result.

CSV files need a header row with date, description and amount columns.

Examples:
  # Preview categories for a download
  spice categorize ~/Downloads/chase_jan_2024.qfx

  # Categorize several files and store the results
  spice categorize --save ~/Downloads/*.qfx ~/Downloads/ally.csv

  # Machine-readable output
  spice categorize --output json statement.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCategorize,
	}

	cmd.Flags().StringP("output", "o", "table", "Output format (table, json, summary)")
	cmd.Flags().Bool("save", false, "Save categorized transactions to the database")
	cmd.Flags().BoolP("quiet", "q", false, "Hide the progress bar")
	cmd.Flags().String("account", "", "Account ID to stamp on CSV transactions")

	return cmd
}

func runCategorize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	output, _ := cmd.Flags().GetString("output")
	save, _ := cmd.Flags().GetBool("save")
	quiet, _ := cmd.Flags().GetBool("quiet")
	account, _ := cmd.Flags().GetString("account")

	switch output {
	case "table", "json", "summary":
	default:
		return fmt.Errorf("%w: output format %q", common.ErrInvalidConfig, output)
	}

	c, err := loadClassifier()
	if err != nil {
		return err
	}

	files, err := expandFiles(args)
	if err != nil {
		return err
	}

	txns, err := loadTransactions(ctx, files, account)
	if err != nil {
		return err
	}
	if len(txns) == 0 {
		return common.NewUserError("nothing to categorize", common.ErrNoTransactions)
	}

	var progress *cli.Progress
	if !quiet {
		progress = cli.NewProgress(cmd.ErrOrStderr(), len(txns), "Categorizing transactions...")
	}
	categorized, err := c.CategorizeEach(ctx, txns, func(model.CategorizedTransaction) {
		progress.Add()
	})
	progress.Finish()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch output {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(categorized); err != nil {
			return fmt.Errorf("failed to encode transactions: %w", err)
		}
	case "summary":
		if err := cli.WriteSummary(out, c.Summarize(categorized)); err != nil {
			return err
		}
	default:
		if err := cli.WriteTransactions(out, categorized); err != nil {
			return err
		}
		if n := countUncategorized(categorized); n > 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatWarning(fmt.Sprintf(
				"%d of %d transactions matched no rule", n, len(categorized))))
		}
	}

	if !save {
		return nil
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStorage(store)

	inserted, err := store.SaveCategorized(ctx, categorized)
	if err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}

	total, err := store.GetTransactionCount(ctx)
	if err != nil {
		return err
	}

	common.LogInfo("Saved transactions", common.Fields{
		"inserted": inserted,
		"skipped":  len(categorized) - inserted,
		"total":    total,
	})
	fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatSuccess(fmt.Sprintf(
		"Saved %d new transactions (%d already stored), %d in database",
		inserted, len(categorized)-inserted, total)))
	return nil
}

func countUncategorized(txns []model.CategorizedTransaction) int {
	n := 0
	for _, txn := range txns {
		if txn.Category == rules.Uncategorized {
			n++
		}
	}
	return n
}

// expandFiles expands globs, keeping plain paths that exist.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) > 0 {
			files = append(files, matches...)
			continue
		}
		if _, err := os.Stat(pattern); err != nil {
			slog.Warn("No files found matching pattern", "pattern", pattern)
			continue
		}
		files = append(files, pattern)
	}

	if len(files) == 0 {
		return nil, common.NewUserError("no files found to categorize", common.ErrNotFound)
	}
	return files, nil
}

// loadTransactions reads every file and drops transactions whose hash was
// already seen in an earlier file. Rows within one file are never merged:
// readers give repeated rows distinct hashes.
func loadTransactions(ctx context.Context, files []string, account string) ([]model.Transaction, error) {
	seen := make(map[string]bool)
	var all []model.Transaction

	for _, path := range files {
		txns, err := readStatement(ctx, path, account)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}

		added := 0
		for _, txn := range txns {
			if seen[txn.Hash] {
				continue
			}
			all = append(all, txn)
			added++
		}
		for _, txn := range txns {
			seen[txn.Hash] = true
		}

		common.LogDebug("Processed file", common.Fields{
			"file":               filepath.Base(path),
			"transactions_found": len(txns),
			"added":              added,
			"duplicates":         len(txns) - added,
		})
	}

	return all, nil
}

func readStatement(ctx context.Context, path, account string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return parseStatement(ctx, f, filepath.Ext(path), account)
}

func parseStatement(ctx context.Context, r io.Reader, ext, account string) ([]model.Transaction, error) {
	switch strings.ToLower(ext) {
	case ".ofx", ".qfx":
		return ofx.NewParser().ParseFile(ctx, r)
	case ".csv":
		return csvimport.NewReader(account).Read(ctx, r)
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnsupportedFormat, ext)
	}
}
