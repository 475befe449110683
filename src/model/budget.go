// backend/src/model/budget.go
package model

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/username/centavo/backend/src/models"
	"github.com/username/centavo/backend/src/security/validation"
)

func CreateBudget(db *sql.DB, b *models.Budget) error {
	res, err := db.Exec(`
	INSERT INTO budgets (user_id, category, month, limit_amount)
	VALUES (?, ?, ?, ?)`,
		b.UserID, validation.SanitizeText(b.Category), b.Month, b.Limit.String())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = id
	return nil
}

// ListBudgets returns a user's budgets for one month with spending filled in
// from the transactions table.
func ListBudgets(db *sql.DB, userID int64, month string) ([]models.Budget, error) {
	rows, err := db.Query(`
	SELECT b.id, b.user_id, b.category, b.month, b.limit_amount,
	       COALESCE((SELECT SUM(t.amount) FROM transactions t
	                 WHERE t.user_id = b.user_id AND t.category = b.category
	                   AND t.type = 'expense' AND strftime('%Y-%m', t.date) = b.month), 0)
	FROM budgets b
	WHERE b.user_id = ? AND b.month = ?
	ORDER BY b.category`, userID, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Budget
	for rows.Next() {
		var b models.Budget
		var limitStr, spentStr string
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.Month, &limitStr, &spentStr); err != nil {
			return nil, err
		}
		if b.Limit, err = decimal.NewFromString(limitStr); err != nil {
			return nil, fmt.Errorf("stored limit '%s' is malformed: %w", limitStr, err)
		}
		spent, err := decimal.NewFromString(spentStr)
		if err != nil {
			return nil, fmt.Errorf("stored spend '%s' is malformed: %w", spentStr, err)
		}
		b.Spent = spent.Abs()
		out = append(out, b)
	}
	return out, rows.Err()
}

func UpdateBudget(db *sql.DB, userID, id int64, limit decimal.Decimal) error {
	res, err := db.Exec(`
	UPDATE budgets SET limit_amount = ? WHERE id = ? AND user_id = ?`,
		limit.String(), id, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func DeleteBudget(db *sql.DB, userID, id int64) error {
	res, err := db.Exec(`DELETE FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func CreateGoal(db *sql.DB, g *models.Goal) error {
	g.CreatedAt = time.Now()
	var deadline interface{}
	if g.Deadline != nil {
		deadline = g.Deadline.Format("2006-01-02")
	}
	res, err := db.Exec(`
	INSERT INTO goals (user_id, name, target_amount, saved_amount, deadline, created_at)
	VALUES (?, ?, ?, ?, ?, ?)`,
		g.UserID, validation.SanitizeText(g.Name), g.Target.String(), g.Saved.String(), deadline, g.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = id
	return nil
}

func ListGoals(db *sql.DB, userID int64) ([]models.Goal, error) {
	rows, err := db.Query(`
	SELECT id, user_id, name, target_amount, saved_amount, deadline, created_at
	FROM goals WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Goal
	for rows.Next() {
		var g models.Goal
		var targetStr, savedStr string
		var deadline sql.NullString
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &targetStr, &savedStr, &deadline, &g.CreatedAt); err != nil {
			return nil, err
		}
		if g.Target, err = decimal.NewFromString(targetStr); err != nil {
			return nil, fmt.Errorf("stored target '%s' is malformed: %w", targetStr, err)
		}
		if g.Saved, err = decimal.NewFromString(savedStr); err != nil {
			return nil, fmt.Errorf("stored savings '%s' is malformed: %w", savedStr, err)
		}
		if deadline.Valid {
			d, err := time.Parse("2006-01-02", deadline.String)
			if err != nil {
				return nil, fmt.Errorf("stored deadline '%s' is malformed: %w", deadline.String, err)
			}
			g.Deadline = &d
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// AddToGoal moves a goal's saved amount by delta, which may be negative.
func AddToGoal(db *sql.DB, userID, id int64, delta decimal.Decimal) (*models.Goal, error) {
	row := db.QueryRow(`SELECT saved_amount FROM goals WHERE id = ? AND user_id = ?`, id, userID)
	var savedStr string
	if err := row.Scan(&savedStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	saved, err := decimal.NewFromString(savedStr)
	if err != nil {
		return nil, fmt.Errorf("stored savings '%s' is malformed: %w", savedStr, err)
	}
	saved = saved.Add(delta)
	if saved.IsNegative() {
		saved = decimal.Zero
	}

	if _, err := db.Exec(`UPDATE goals SET saved_amount = ? WHERE id = ? AND user_id = ?`,
		saved.String(), id, userID); err != nil {
		return nil, err
	}

	goals, err := ListGoals(db, userID)
	if err != nil {
		return nil, err
	}
	for i := range goals {
		if goals[i].ID == id {
			return &goals[i], nil
		}
	}
	return nil, ErrNotFound
}

func DeleteGoal(db *sql.DB, userID, id int64) error {
	res, err := db.Exec(`DELETE FROM goals WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
