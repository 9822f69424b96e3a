package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Veraticus/spice-rules/internal/model"
)

// CategoryChange records a transaction whose category changed during Recategorize.
type CategoryChange struct {
	TransactionID string
	Description   string
	From          string
	To            string
}

// SaveCategorized inserts transactions, skipping any whose hash is already
// stored. It returns the number of rows inserted.
func (s *SQLiteStorage) SaveCategorized(ctx context.Context, transactions []model.CategorizedTransaction) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateCategorized(transactions); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions (
			id, hash, date, description, amount, category,
			account_id, transaction_type, check_number
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	inserted := 0
	for _, txn := range transactions {
		hash := txn.Hash
		if hash == "" {
			hash = txn.Transaction().GenerateHash()
		}

		res, err := stmt.ExecContext(ctx,
			txn.ID,
			hash,
			txn.Date,
			txn.Description,
			txn.Amount,
			txn.Category,
			txn.AccountID,
			txn.Type,
			txn.CheckNumber,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transactions: %w", err)
	}
	return inserted, nil
}

// GetTransactions returns stored transactions ordered by date. An empty
// category returns all of them.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, category string) ([]model.CategorizedTransaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, hash, date, description, amount, category,
			COALESCE(account_id, ''), COALESCE(transaction_type, ''), COALESCE(check_number, '')
		FROM transactions`
	var args []any
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY date, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

// GetTransactionCount returns the number of stored transactions.
func (s *SQLiteStorage) GetTransactionCount(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

// Recategorize recomputes every stored category with categorize and updates
// rows whose category changed. It returns the changes made.
func (s *SQLiteStorage) Recategorize(ctx context.Context, categorize func(description string) string) ([]CategoryChange, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if categorize == nil {
		return nil, fmt.Errorf("%w: categorize", ErrNilParameter)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `SELECT id, description, category FROM transactions ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}

	var changes []CategoryChange
	for rows.Next() {
		var c CategoryChange
		if err := rows.Scan(&c.TransactionID, &c.Description, &c.From); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		c.To = categorize(c.Description)
		if c.To != c.From {
			changes = append(changes, c)
		}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	_ = rows.Close()

	for _, c := range changes {
		if _, err := tx.ExecContext(ctx,
			`UPDATE transactions SET category = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			c.To, c.TransactionID); err != nil {
			return nil, fmt.Errorf("failed to update transaction %s: %w", c.TransactionID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit recategorization: %w", err)
	}
	return changes, nil
}

func scanTransactions(rows *sql.Rows) ([]model.CategorizedTransaction, error) {
	var transactions []model.CategorizedTransaction
	for rows.Next() {
		var txn model.CategorizedTransaction
		if err := rows.Scan(
			&txn.ID,
			&txn.Hash,
			&txn.Date,
			&txn.Description,
			&txn.Amount,
			&txn.Category,
			&txn.AccountID,
			&txn.Type,
			&txn.CheckNumber,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, txn)
	}
	return transactions, rows.Err()
}
