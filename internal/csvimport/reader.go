// Package csvimport reads transactions from header-driven CSV statement exports.
package csvimport

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/spice-rules/internal/model"
	"github.com/google/uuid"
)

// Import errors.
var (
	ErrMissingColumn = errors.New("missing required column")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
)

// Header aliases, matched case-insensitively after trimming.
var columnAliases = map[string][]string{
	"id":          {"id", "transaction id", "fitid", "reference"},
	"date":        {"date", "transaction date", "posted date", "posting date"},
	"description": {"description", "name", "payee", "memo", "details"},
	"amount":      {"amount", "transaction amount"},
	"category":    {"category"},
}

var dateLayouts = []string{
	model.DateLayout,
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"2006/01/02",
}

// Reader parses CSV exports into transactions.
type Reader struct {
	// NewID generates IDs for rows without an id column. Defaults to uuid.NewString.
	NewID func() string
	// AccountID is stamped on every transaction read.
	AccountID string
}

// NewReader creates a CSV reader for the given account.
func NewReader(accountID string) *Reader {
	return &Reader{
		AccountID: accountID,
		NewID:     uuid.NewString,
	}
}

// Read parses all rows from r. The first row must be a header naming at least
// date, description and amount columns.
func (cr *Reader) Read(ctx context.Context, r io.Reader) ([]model.Transaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	newID := cr.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	var transactions []model.Transaction
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		if isBlank(record) {
			continue
		}
		line, _ := reader.FieldPos(0)

		txn, err := cr.convertRecord(record, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		transactions = append(transactions, txn)
	}

	// Hash before filling generated IDs so re-reading a file without an id
	// column yields the same hashes.
	model.AssignHashes(transactions)
	for i := range transactions {
		if transactions[i].ID == "" {
			transactions[i].ID = newID()
		}
	}

	return transactions, nil
}

func (cr *Reader) convertRecord(record []string, cols map[string]int) (model.Transaction, error) {
	field := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	amount, err := ParseAmount(field("amount"))
	if err != nil {
		return model.Transaction{}, err
	}

	date, err := ParseDate(field("date"))
	if err != nil {
		return model.Transaction{}, err
	}

	return model.Transaction{
		ID:          field("id"),
		Date:        date,
		Description: field("description"),
		Amount:      amount,
		Category:    field("category"),
		AccountID:   cr.AccountID,
	}, nil
}

func mapColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int)
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for canonical, aliases := range columnAliases {
			if _, taken := cols[canonical]; taken {
				continue
			}
			for _, alias := range aliases {
				if name == alias {
					cols[canonical] = i
					break
				}
			}
		}
	}

	for _, required := range []string{"date", "description", "amount"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}
	return cols, nil
}

// ParseAmount parses amounts such as "-12.50", "$1,234.00" or "(45.99)".
func ParseAmount(s string) (float64, error) {
	cleaned := strings.TrimSpace(s)
	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = cleaned[1 : len(cleaned)-1]
	}
	cleaned = strings.NewReplacer("$", "", ",", "", " ", "").Replace(cleaned)

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if negative {
		amount = -amount
	}
	return amount, nil
}

// ParseDate accepts common bank export layouts and returns model.DateLayout.
func ParseDate(s string) (string, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(model.DateLayout), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
