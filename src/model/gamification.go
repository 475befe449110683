// backend/src/model/gamification.go
package model

import (
	"database/sql"
	"errors"
	"time"

	"github.com/username/centavo/backend/src/models"
)

// The gamification tables are written exclusively by database triggers; this
// file only reads them.

func GetUserStats(db *sql.DB, userID int64) (*models.UserStats, error) {
	row := db.QueryRow(`
	SELECT user_id, points, level, streak, imports, transactions_tracked
	FROM user_stats WHERE user_id = ?`, userID)

	var s models.UserStats
	err := row.Scan(&s.UserID, &s.Points, &s.Level, &s.Streak, &s.Imports, &s.TxnsTracked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.UserStats{UserID: userID, Level: 1}, nil
		}
		return nil, err
	}
	return &s, nil
}

// ListBadges returns every badge definition with AwardedAt set on the ones
// the user has earned.
func ListBadges(db *sql.DB, userID int64) ([]models.Badge, error) {
	rows, err := db.Query(`
	SELECT b.id, b.code, b.name, b.description, b.threshold, ub.awarded_at
	FROM badges b
	LEFT JOIN user_badges ub ON ub.badge_id = b.id AND ub.user_id = ?
	ORDER BY b.threshold`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Badge
	for rows.Next() {
		var b models.Badge
		var awardedAt sql.NullTime
		if err := rows.Scan(&b.ID, &b.Code, &b.Name, &b.Description, &b.Threshold, &awardedAt); err != nil {
			return nil, err
		}
		if awardedAt.Valid {
			t := awardedAt.Time
			b.AwardedAt = &t
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListChallenges returns every challenge with the user's current progress.
func ListChallenges(db *sql.DB, userID int64) ([]models.Challenge, error) {
	rows, err := db.Query(`
	SELECT c.id, c.code, c.name, c.description, c.target,
	       COALESCE(cp.progress, 0), COALESCE(cp.completed, 0)
	FROM challenges c
	LEFT JOIN challenge_progress cp ON cp.challenge_id = c.id AND cp.user_id = ?
	ORDER BY c.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Challenge
	for rows.Next() {
		var c models.Challenge
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.Description, &c.Target, &c.Progress, &c.Completed); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CountBadgesEarned returns how many badges the user holds.
func CountBadgesEarned(db *sql.DB, userID int64) (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM user_badges WHERE user_id = ?`, userID).Scan(&n)
	return n, err
}

// RecordImport appends one entry to the user's import history. The insert
// also fires the trigger that bumps the imports counter in user_stats.
func RecordImport(db *sql.DB, rec *models.ImportRecord) error {
	rec.CreatedAt = time.Now()
	res, err := db.Exec(`
	INSERT INTO imports_history (user_id, file_name, row_count, source, created_at)
	VALUES (?, ?, ?, ?, ?)`,
		rec.UserID, rec.FileName, rec.RowCount, rec.Source, rec.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = id
	return nil
}

// ListRecentImports returns the user's latest import history entries.
func ListRecentImports(db *sql.DB, userID int64, limit int) ([]models.ImportRecord, error) {
	rows, err := db.Query(`
	SELECT id, user_id, file_name, row_count, source, created_at
	FROM imports_history WHERE user_id = ?
	ORDER BY created_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ImportRecord
	for rows.Next() {
		var r models.ImportRecord
		if err := rows.Scan(&r.ID, &r.UserID, &r.FileName, &r.RowCount, &r.Source, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
