// backend/src/database/database.go
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/username/centavo/backend/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

// InitDB opens the SQLite database with WAL journaling, a busy timeout and
// foreign keys enabled, and stores the handle in DB.
func InitDB(databasePath string) error {
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(on)", databasePath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("open database at %s: %w", databasePath, err)
	}

	// Limit open connections to 1 for SQLite to avoid locking issues
	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		return fmt.Errorf("ping database at %s: %w", databasePath, err)
	}
	DB = db
	logger.L.Info("Database connection established with WAL mode, busy_timeout, and foreign_keys enabled.")
	return nil
}

// RunMigrations applies all pending migrations from migrationsDir, which may
// be relative to the working directory or absolute.
func RunMigrations(databasePath, migrationsDir string) error {
	if DB == nil {
		return errors.New("database connection is not initialized")
	}

	driver, err := sqlite.WithInstance(DB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite migration driver: %w", err)
	}

	sourceURL, err := migrationsSourceURL(migrationsDir)
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(sourceURL, databasePath, driver)
	if err != nil {
		return fmt.Errorf("create migration instance from %s: %w", sourceURL, err)
	}

	logger.L.Info("Applying database migrations...", "source", sourceURL)
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.L.Info("No new database migrations to apply.")
			return nil
		}
		return fmt.Errorf("apply migrations: %w", err)
	}
	logger.L.Info("Database migrations applied successfully.")
	return nil
}

// migrationsSourceURL turns a migrations directory into the file:// source
// URL the migrate library expects.
func migrationsSourceURL(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve migrations directory %s: %w", dir, err)
	}
	return "file://" + filepath.ToSlash(abs), nil
}
