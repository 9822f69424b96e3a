// Package model defines the transaction records that flow through categorization.
package model

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// DateLayout is the format of Transaction.Date.
const DateLayout = "2006-01-02"

// Transaction represents a single financial transaction from any source.
// Category is empty until the transaction has been categorized.
type Transaction struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category,omitempty"`

	// Optional metadata that may be available depending on source
	AccountID   string `json:"account_id,omitempty"`
	Type        string `json:"type,omitempty"`         // e.g., DEBIT, CHECK, PAYMENT, ATM
	CheckNumber string `json:"check_number,omitempty"` // Check number if applicable
	Hash        string `json:"-"`
}

// CategorizedTransaction is a Transaction whose category is always set.
// Build one with Transaction.WithCategory.
type CategorizedTransaction struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`

	AccountID   string `json:"account_id,omitempty"`
	Type        string `json:"type,omitempty"`
	CheckNumber string `json:"check_number,omitempty"`
	Hash        string `json:"-"`
}

// GenerateHash creates a hash for duplicate detection from the source ID
// (FITID or CSV id, empty when the source has none) and the transaction
// content.
func (t Transaction) GenerateHash() string {
	return hashString(fmt.Sprintf("%s:%s:%.2f:%s:%s",
		t.ID,
		t.Date,
		t.Amount,
		strings.TrimSpace(t.Description),
		t.AccountID))
}

// AssignHashes sets Hash on every transaction of one statement. Rows that
// would share a hash, such as two identical coffees on the same day in a
// statement without IDs, get their occurrence number mixed in. The result
// depends only on the statement contents and order, so importing the same
// statement twice yields the same hashes.
func AssignHashes(txns []Transaction) {
	seen := make(map[string]int, len(txns))
	for i := range txns {
		base := txns[i].GenerateHash()
		seen[base]++
		if n := seen[base]; n > 1 {
			txns[i].Hash = hashString(fmt.Sprintf("%s#%d", base, n))
			continue
		}
		txns[i].Hash = base
	}
}

func hashString(data string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(data)))
}

// WithCategory returns a categorized copy of the transaction. The receiver is
// left unchanged.
func (t Transaction) WithCategory(category string) CategorizedTransaction {
	hash := t.Hash
	if hash == "" {
		hash = t.GenerateHash()
	}
	return CategorizedTransaction{
		ID:          t.ID,
		Date:        t.Date,
		Description: t.Description,
		Amount:      t.Amount,
		Category:    category,
		AccountID:   t.AccountID,
		Type:        t.Type,
		CheckNumber: t.CheckNumber,
		Hash:        hash,
	}
}

// Transaction returns the uncategorized view of c with Category kept.
func (c CategorizedTransaction) Transaction() Transaction {
	return Transaction{
		ID:          c.ID,
		Date:        c.Date,
		Description: c.Description,
		Amount:      c.Amount,
		Category:    c.Category,
		AccountID:   c.AccountID,
		Type:        c.Type,
		CheckNumber: c.CheckNumber,
		Hash:        c.Hash,
	}
}
