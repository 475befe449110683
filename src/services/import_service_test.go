// backend/src/services/import_service_test.go
package services

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/centavo/backend/src/config"
	"github.com/username/centavo/backend/src/importer"
	"github.com/username/centavo/backend/src/logger"
)

func TestMain(m *testing.M) {
	config.Cfg = &config.AppConfig{MaxImportRows: 1000}
	logger.InitLogger("error")
	os.Exit(m.Run())
}

const sampleStatement = "date,description,amount,category,type\n" +
	"2024-01-10,Coffee,3.50,Food,expense\n" +
	"2024-01-11,Salary,1000.00,Pay,income\n"

// One user polling the session while re-uploading must not corrupt it. The
// service holds a per-user lock for the full duration of each operation, so
// this passes under the race detector and leaves a usable session behind.
func TestImportServiceSerializesPerUser(t *testing.T) {
	svc := NewImportService(nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				svc.ProcessFile(ctx, 1, "statement.csv", sampleStatement, importer.ModeStandard, "")
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				svc.Snapshot(1)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				svc.Reset(1)
			}
		}()
	}
	wg.Wait()

	snap, err := svc.ProcessFile(ctx, 1, "statement.csv", sampleStatement, importer.ModeStandard, "")
	require.NoError(t, err)
	assert.Equal(t, importer.StatusPreview, snap.Status)
	assert.Len(t, snap.Candidates, 2)
}

// Sessions are per user; concurrent uploads from different users must not
// interfere with each other.
func TestImportServiceIsolatesUsers(t *testing.T) {
	svc := NewImportService(nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for userID := int64(1); userID <= 8; userID++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				_, err := svc.ProcessFile(ctx, userID, "statement.csv", sampleStatement, importer.ModeStandard, "")
				assert.NoError(t, err)
				svc.Reset(userID)
			}
		}(userID)
	}
	wg.Wait()

	for userID := int64(1); userID <= 8; userID++ {
		snap, err := svc.Snapshot(userID)
		require.NoError(t, err)
		assert.Equal(t, importer.StatusIdle, snap.Status)
	}
}

func TestImportServiceNoActiveSession(t *testing.T) {
	svc := NewImportService(nil)

	_, err := svc.Snapshot(42)
	assert.ErrorIs(t, err, ErrNoActiveImport)
	_, err = svc.Commit(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNoActiveImport)
	_, err = svc.SetSelection(42, 0, true)
	assert.ErrorIs(t, err, ErrNoActiveImport)
}
