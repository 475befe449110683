// backend/src/services/import_service.go
package services

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/username/centavo/backend/src/config"
	"github.com/username/centavo/backend/src/database"
	"github.com/username/centavo/backend/src/importer"
	"github.com/username/centavo/backend/src/logger"
	"github.com/username/centavo/backend/src/model"
	"github.com/username/centavo/backend/src/models"
)

// userSession pairs a session with the mutex that serializes access to it.
// The session itself is not safe for concurrent use, so every service
// operation holds mu for its full duration. This also serializes a commit
// against snapshot polls from the same user.
type userSession struct {
	mu   sync.Mutex
	sess *importer.Session
}

type importServiceImpl struct {
	summaryService SummaryService

	mu       sync.Mutex
	sessions map[int64]*userSession
}

func NewImportService(summaryService SummaryService) ImportService {
	return &importServiceImpl{
		summaryService: summaryService,
		sessions:       make(map[int64]*userSession),
	}
}

// sessionFor returns the user's session, creating one on first use. Sessions
// live in memory; a restart drops them, which only costs the user a re-upload.
func (s *importServiceImpl) sessionFor(userID int64) *userSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	us, ok := s.sessions[userID]
	if !ok {
		us = &userSession{sess: importer.NewSession(config.Cfg.MaxImportRows)}
		s.sessions[userID] = us
	}
	return us
}

func (s *importServiceImpl) existingSession(userID int64) (*userSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	us, ok := s.sessions[userID]
	return us, ok
}

func (s *importServiceImpl) Templates() []importer.SourceTemplate {
	return importer.Catalog()
}

func (s *importServiceImpl) ProcessFile(ctx context.Context, userID int64, fileName, content string, mode importer.Mode, templateID string) (importer.Snapshot, error) {
	us := s.sessionFor(userID)
	us.mu.Lock()
	defer us.mu.Unlock()
	sess := us.sess
	log := logger.FromContext(ctx)

	if sess.Status() == importer.StatusInserting {
		return sess.Snapshot(), ErrImportInProgress
	}
	if err := sess.SelectFile(fileName, content); err != nil {
		return sess.Snapshot(), err
	}
	if err := sess.Process(mode, templateID, time.Now()); err != nil {
		log.Warn("statement processing failed", "userID", userID, "fileName", fileName, "error", err)
		return sess.Snapshot(), err
	}

	snap := sess.Snapshot()
	if snap.DroppedRows > 0 {
		log.Debug("rows dropped during tokenization", "userID", userID, "fileName", fileName, "dropped", snap.DroppedRows)
	}
	if snap.Status == importer.StatusError {
		log.Warn("statement rejected by validation", "userID", userID, "fileName", fileName,
			"template", snap.TemplateID, "issues", len(snap.Issues))
	} else {
		log.Info("statement processed", "userID", userID, "fileName", fileName,
			"template", snap.TemplateID, "rows", len(snap.Candidates))
	}
	return snap, nil
}

func (s *importServiceImpl) SubmitMapping(ctx context.Context, userID int64, mapping importer.ColumnMapping) (importer.Snapshot, error) {
	us, ok := s.existingSession(userID)
	if !ok {
		return importer.Snapshot{}, ErrNoActiveImport
	}
	us.mu.Lock()
	defer us.mu.Unlock()
	if err := us.sess.SubmitMapping(mapping, time.Now()); err != nil {
		return us.sess.Snapshot(), err
	}
	logger.FromContext(ctx).Info("column mapping applied", "userID", userID)
	return us.sess.Snapshot(), nil
}

func (s *importServiceImpl) SetSelection(userID int64, rowIndex int, selected bool) (importer.Snapshot, error) {
	us, ok := s.existingSession(userID)
	if !ok {
		return importer.Snapshot{}, ErrNoActiveImport
	}
	us.mu.Lock()
	defer us.mu.Unlock()
	if err := us.sess.SetSelection(rowIndex, selected); err != nil {
		return us.sess.Snapshot(), err
	}
	return us.sess.Snapshot(), nil
}

func (s *importServiceImpl) Snapshot(userID int64) (importer.Snapshot, error) {
	us, ok := s.existingSession(userID)
	if !ok {
		return importer.Snapshot{}, ErrNoActiveImport
	}
	us.mu.Lock()
	defer us.mu.Unlock()
	return us.sess.Snapshot(), nil
}

// dbInserter adapts the model batch insert to the importer's store contract.
type dbInserter struct {
	db *sql.DB
}

func (d dbInserter) InsertBatch(ctx context.Context, userID int64, txs []models.Transaction) (int, error) {
	return model.InsertTransactionsBatch(ctx, d.db, userID, txs)
}

func (s *importServiceImpl) Commit(ctx context.Context, userID int64) (int, error) {
	us, ok := s.existingSession(userID)
	if !ok {
		return 0, ErrNoActiveImport
	}
	us.mu.Lock()
	defer us.mu.Unlock()
	sess := us.sess
	log := logger.FromContext(ctx)

	// The file name is taken from the session itself so the history record
	// always names the statement actually committed.
	snap := sess.Snapshot()
	n, err := sess.Commit(ctx, dbInserter{db: database.DB}, userID, time.Now())
	if err != nil {
		log.Error("import commit failed", "userID", userID, "error", err)
		return 0, err
	}

	rec := &models.ImportRecord{
		UserID:   userID,
		FileName: snap.FileName,
		RowCount: int64(n),
		Source:   snap.TemplateID,
	}
	if err := model.RecordImport(database.DB, rec); err != nil {
		// The transactions are committed; history is best effort.
		log.Error("failed to record import history", "userID", userID, "error", err)
	}

	s.summaryService.InvalidateUser(userID)
	log.Info("import committed", "userID", userID, "fileName", snap.FileName, "rows", n)
	return n, nil
}

func (s *importServiceImpl) Reset(userID int64) {
	if us, ok := s.existingSession(userID); ok {
		us.mu.Lock()
		defer us.mu.Unlock()
		us.sess.Reset()
	}
}
