// backend/src/models/models.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single income or expense entry. Amount is signed:
// negative for expenses, positive for income.
type Transaction struct {
	ID          string          `json:"id"`
	UserID      int64           `json:"user_id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Type        string          `json:"type"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Budget caps spending for one category over a month.
type Budget struct {
	ID       int64           `json:"id"`
	UserID   int64           `json:"user_id"`
	Category string          `json:"category"`
	Month    string          `json:"month"` // YYYY-MM
	Limit    decimal.Decimal `json:"limit"`
	Spent    decimal.Decimal `json:"spent"`
}

// Goal is a savings target with accumulated progress.
type Goal struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Name      string          `json:"name"`
	Target    decimal.Decimal `json:"target"`
	Saved     decimal.Decimal `json:"saved"`
	Deadline  *time.Time      `json:"deadline,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// UserStats mirrors the user_stats row maintained by database triggers.
type UserStats struct {
	UserID      int64 `json:"user_id"`
	Points      int64 `json:"points"`
	Level       int64 `json:"level"`
	Streak      int64 `json:"streak"`
	Imports     int64 `json:"imports"`
	TxnsTracked int64 `json:"transactions_tracked"`
}

// Badge is a static achievement definition; AwardedAt is set when joined
// against user_badges.
type Badge struct {
	ID          int64      `json:"id"`
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Threshold   int64      `json:"threshold"`
	AwardedAt   *time.Time `json:"awarded_at,omitempty"`
}

// Challenge is a recurring objective; Progress and Completed come from
// challenge_progress.
type Challenge struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Target      int64  `json:"target"`
	Progress    int64  `json:"progress"`
	Completed   bool   `json:"completed"`
}

// ImportRecord is one entry in a user's import history.
type ImportRecord struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	FileName  string    `json:"file_name"`
	RowCount  int64     `json:"row_count"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// DashboardSummary aggregates the numbers the dashboard landing page shows.
type DashboardSummary struct {
	Month          string             `json:"month"`
	TotalIncome    decimal.Decimal    `json:"total_income"`
	TotalExpenses  decimal.Decimal    `json:"total_expenses"`
	Net            decimal.Decimal    `json:"net"`
	ByCategory     map[string]float64 `json:"by_category"`
	Budgets        []Budget           `json:"budgets"`
	Goals          []Goal             `json:"goals"`
	RecentImports  []ImportRecord     `json:"recent_imports"`
	Points         int64              `json:"points"`
	Level          int64              `json:"level"`
	BadgesEarned   int                `json:"badges_earned"`
	TransactionCnt int64              `json:"transaction_count"`
}
