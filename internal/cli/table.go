package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/spice-rules/internal/classifier"
	"github.com/Veraticus/spice-rules/internal/model"
	"github.com/Veraticus/spice-rules/internal/rules"
	"github.com/charmbracelet/lipgloss"
)

// Table is a minimal column-aligned table rendered with lipgloss.
type Table struct {
	headers []string
	rows    [][]string
}

// NewTable creates a table with the given headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

// AddRow appends a row. Missing cells render empty.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Render returns the table as a string, one line per row.
func (t *Table) Render() string {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i := 0; i < len(widths) && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	renderLine := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(widths))
		for i, w := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = style.Width(w + 2).Render(cell)
		}
		return strings.TrimRight(lipgloss.JoinHorizontal(lipgloss.Top, parts...), " ")
	}

	lines := make([]string, 0, len(t.rows)+1)
	lines = append(lines, renderLine(t.headers, TableHeaderStyle.PaddingRight(2)))
	for _, row := range t.rows {
		lines = append(lines, renderLine(row, TableCellStyle))
	}
	return strings.Join(lines, "\n") + "\n"
}

// WriteTransactions renders categorized transactions.
func WriteTransactions(w io.Writer, txns []model.CategorizedTransaction) error {
	t := NewTable("DATE", "DESCRIPTION", "AMOUNT", "CATEGORY")
	for _, txn := range txns {
		category := txn.Category
		if category == rules.Uncategorized {
			category = SubtleStyle.Render(category)
		}
		t.AddRow(txn.Date, txn.Description, FormatAmount(txn.Amount), category)
	}
	_, err := io.WriteString(w, t.Render())
	return err
}

// WriteSummary renders per-category totals followed by a grand total.
func WriteSummary(w io.Writer, totals []classifier.CategoryTotal) error {
	t := NewTable("CATEGORY", "COUNT", "TOTAL")
	count := 0
	sum := 0.0
	for _, ct := range totals {
		t.AddRow(ct.Category, fmt.Sprintf("%d", ct.Count), FormatAmount(ct.Total))
		count += ct.Count
		sum += ct.Total
	}
	t.AddRow(BoldStyle.Render("Total"), fmt.Sprintf("%d", count), FormatAmount(sum))

	_, err := io.WriteString(w, t.Render())
	return err
}

// WriteRuleSet renders every rule in evaluation order.
func WriteRuleSet(w io.Writer, rs *rules.RuleSet) error {
	t := NewTable("#", "CATEGORY", "TYPE", "RULE")
	n := 0
	rs.Each(func(category string, _ int, r rules.Rule) bool {
		n++
		t.AddRow(fmt.Sprintf("%d", n), category, r.Kind().String(), r.String())
		return true
	})

	_, err := io.WriteString(w, t.Render())
	return err
}

// FormatAmount formats an amount with two decimals and a sign for debits.
func FormatAmount(amount float64) string {
	if amount < 0 {
		return fmt.Sprintf("-$%.2f", -amount)
	}
	return fmt.Sprintf("$%.2f", amount)
}
