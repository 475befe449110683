// backend/src/services/interfaces.go
package services

import (
	"context"
	"errors"

	"github.com/username/centavo/backend/src/importer"
	"github.com/username/centavo/backend/src/models"
)

var (
	ErrImportInProgress = errors.New("an import is already in progress for this user")
	ErrNoActiveImport   = errors.New("no active import session for this user")
)

// ImportService drives the statement import pipeline for each user.
type ImportService interface {
	Templates() []importer.SourceTemplate
	ProcessFile(ctx context.Context, userID int64, fileName, content string, mode importer.Mode, templateID string) (importer.Snapshot, error)
	SubmitMapping(ctx context.Context, userID int64, mapping importer.ColumnMapping) (importer.Snapshot, error)
	SetSelection(userID int64, rowIndex int, selected bool) (importer.Snapshot, error)
	Snapshot(userID int64) (importer.Snapshot, error)
	Commit(ctx context.Context, userID int64) (int, error)
	Reset(userID int64)
}

// SummaryService builds the dashboard summary for one user and month.
type SummaryService interface {
	GetSummary(ctx context.Context, userID int64, month string) (*models.DashboardSummary, error)
	InvalidateUser(userID int64)
}
