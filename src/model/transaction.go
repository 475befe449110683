// backend/src/model/transaction.go
package model

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/username/centavo/backend/src/models"
	"github.com/username/centavo/backend/src/security/validation"
)

// InsertTransactionsBatch inserts every transaction inside one database
// transaction. Either all rows land or none do. Text fields pass through the
// sanitizers at this boundary so no handler can skip them.
func InsertTransactionsBatch(ctx context.Context, db *sql.DB, userID int64, txs []models.Transaction) (int, error) {
	if len(txs) == 0 {
		return 0, nil
	}

	dbTx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin batch insert: %w", err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.PrepareContext(ctx, `
	INSERT INTO transactions (id, user_id, date, description, amount, category, type, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare batch insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range txs {
		desc := validation.SanitizeForFormulaInjection(validation.SanitizeText(t.Description))
		category := validation.SanitizeText(t.Category)
		_, err := stmt.ExecContext(ctx,
			t.ID, userID, t.Date.Format("2006-01-02"), desc,
			t.Amount.String(), category, t.Type, t.CreatedAt)
		if err != nil {
			return 0, fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return 0, fmt.Errorf("commit batch insert: %w", err)
	}
	return len(txs), nil
}

// ListTransactions returns a user's transactions, newest first, optionally
// filtered to one YYYY-MM month.
func ListTransactions(db *sql.DB, userID int64, month string) ([]models.Transaction, error) {
	query := `
	SELECT id, user_id, date, description, amount, category, type, created_at
	FROM transactions WHERE user_id = ?`
	args := []interface{}{userID}
	if month != "" {
		query += ` AND strftime('%Y-%m', date) = ?`
		args = append(args, month)
	}
	query += ` ORDER BY date DESC, created_at DESC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanTransaction(rows *sql.Rows) (models.Transaction, error) {
	var t models.Transaction
	var dateStr, amountStr string
	err := rows.Scan(&t.ID, &t.UserID, &dateStr, &t.Description, &amountStr, &t.Category, &t.Type, &t.CreatedAt)
	if err != nil {
		return t, err
	}
	t.Date, err = time.Parse("2006-01-02", dateStr)
	if err != nil {
		return t, fmt.Errorf("stored date '%s' is malformed: %w", dateStr, err)
	}
	t.Amount, err = decimal.NewFromString(amountStr)
	if err != nil {
		return t, fmt.Errorf("stored amount '%s' is malformed: %w", amountStr, err)
	}
	return t, nil
}

// DeleteTransaction removes one transaction owned by the user.
func DeleteTransaction(db *sql.DB, userID int64, id string) error {
	res, err := db.Exec(`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAllTransactions wipes a user's transactions, used by account reset.
func DeleteAllTransactions(db *sql.DB, userID int64) (int64, error) {
	res, err := db.Exec(`DELETE FROM transactions WHERE user_id = ?`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SumByCategory totals expense amounts per category for one YYYY-MM month.
// Amounts are stored signed, so the totals come back negative and the caller
// flips them for display.
func SumByCategory(db *sql.DB, userID int64, month string) (map[string]decimal.Decimal, error) {
	rows, err := db.Query(`
	SELECT category, COALESCE(SUM(amount), 0)
	FROM transactions
	WHERE user_id = ? AND type = 'expense' AND strftime('%Y-%m', date) = ?
	GROUP BY category`, userID, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]decimal.Decimal{}
	for rows.Next() {
		var category, sumStr string
		if err := rows.Scan(&category, &sumStr); err != nil {
			return nil, err
		}
		sum, err := decimal.NewFromString(sumStr)
		if err != nil {
			return nil, fmt.Errorf("stored sum '%s' is malformed: %w", sumStr, err)
		}
		out[category] = sum
	}
	return out, rows.Err()
}

// MonthTotals returns a month's income and expense totals as positive values.
func MonthTotals(db *sql.DB, userID int64, month string) (income, expenses decimal.Decimal, err error) {
	row := db.QueryRow(`
	SELECT
		COALESCE(SUM(CASE WHEN type = 'income'  THEN amount ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 0)
	FROM transactions
	WHERE user_id = ? AND strftime('%Y-%m', date) = ?`, userID, month)

	var incomeStr, expenseStr string
	if err = row.Scan(&incomeStr, &expenseStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, decimal.Zero, nil
		}
		return decimal.Zero, decimal.Zero, err
	}
	if income, err = decimal.NewFromString(incomeStr); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if expenses, err = decimal.NewFromString(expenseStr); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return income, expenses.Abs(), nil
}

// CountTransactions returns the user's total transaction count.
func CountTransactions(db *sql.DB, userID int64) (int64, error) {
	var n int64
	err := db.QueryRow(`SELECT COUNT(*) FROM transactions WHERE user_id = ?`, userID).Scan(&n)
	return n, err
}
