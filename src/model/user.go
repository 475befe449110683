// backend/src/model/user.go
package model

import (
	"database/sql"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var ErrNotFound = errors.New("record not found")

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Password     string    `json:"-"`
	AuthProvider string    `json:"auth_provider,omitempty"`
	LoginCount   int       `json:"login_count"`
	LastLoginAt  NullTime  `json:"last_login_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NullTime is an alias for sql.NullTime for better JSON handling.
type NullTime sql.NullTime

func (nt NullTime) MarshalJSON() ([]byte, error) {
	if !nt.Valid {
		return []byte("null"), nil
	}
	return nt.Time.MarshalJSON()
}

func (u *User) HashPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
}

func (u *User) CreateUser(db *sql.DB) error {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.AuthProvider == "" {
		u.AuthProvider = "local"
	}

	query := `
	INSERT INTO users (username, email, password, auth_provider, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)`
	stmt, err := db.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	res, err := stmt.Exec(u.Username, u.Email, u.Password, u.AuthProvider, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = id
	return nil
}

func scanUser(row *sql.Row) (*User, error) {
	var user User
	var authProvider sql.NullString
	var lastLoginAt sql.NullTime

	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.Password, &authProvider,
		&user.LoginCount, &lastLoginAt, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	user.AuthProvider = authProvider.String
	user.LastLoginAt = NullTime(lastLoginAt)
	return &user, nil
}

const userColumns = `id, username, email, password, auth_provider, login_count, last_login_at, created_at, updated_at`

func GetUserByID(db *sql.DB, id int64) (*User, error) {
	return scanUser(db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func GetUserByEmail(db *sql.DB, email string) (*User, error) {
	return scanUser(db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

func GetUserByUsername(db *sql.DB, username string) (*User, error) {
	return scanUser(db.QueryRow(`SELECT `+userColumns+` FROM users WHERE username = ?`, username))
}

func (u *User) RecordLogin(db *sql.DB) error {
	_, err := db.Exec(`
	UPDATE users SET login_count = login_count + 1, last_login_at = ?, updated_at = ?
	WHERE id = ?`, time.Now(), time.Now(), u.ID)
	return err
}

type Session struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	RefreshToken string    `json:"-"`
	UserAgent    string    `json:"user_agent"`
	ClientIP     string    `json:"client_ip"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

func (s *Session) CreateSession(db *sql.DB) error {
	s.CreatedAt = time.Now()
	res, err := db.Exec(`
	INSERT INTO sessions (user_id, refresh_token, user_agent, client_ip, expires_at, created_at)
	VALUES (?, ?, ?, ?, ?, ?)`,
		s.UserID, s.RefreshToken, s.UserAgent, s.ClientIP, s.ExpiresAt, s.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = id
	return nil
}

func GetSessionByRefreshToken(db *sql.DB, token string) (*Session, error) {
	row := db.QueryRow(`
	SELECT id, user_id, refresh_token, user_agent, client_ip, expires_at, created_at
	FROM sessions WHERE refresh_token = ?`, token)

	var s Session
	err := row.Scan(&s.ID, &s.UserID, &s.RefreshToken, &s.UserAgent, &s.ClientIP, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func DeleteSession(db *sql.DB, token string) error {
	_, err := db.Exec(`DELETE FROM sessions WHERE refresh_token = ?`, token)
	return err
}

func DeleteSessionsForUser(db *sql.DB, userID int64) error {
	_, err := db.Exec(`DELETE FROM sessions WHERE user_id = ?`, userID)
	return err
}

func DeleteExpiredSessions(db *sql.DB) (int64, error) {
	res, err := db.Exec(`DELETE FROM sessions WHERE expires_at < ?`, time.Now())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
