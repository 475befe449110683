// backend/src/database/database_test.go
package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsSourceURL(t *testing.T) {
	got, err := migrationsSourceURL("/srv/centavo/db/migrations")
	require.NoError(t, err)
	assert.Equal(t, "file:///srv/centavo/db/migrations", got)

	abs, err := filepath.Abs(filepath.Join("db", "migrations"))
	require.NoError(t, err)
	got, err = migrationsSourceURL("db/migrations")
	require.NoError(t, err)
	assert.Equal(t, "file://"+filepath.ToSlash(abs), got)
}

func TestRunMigrationsRequiresOpenDatabase(t *testing.T) {
	DB = nil
	err := RunMigrations("./centavo.db", "db/migrations")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")
}
