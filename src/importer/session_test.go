// backend/src/importer/session_test.go
package importer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/centavo/backend/src/models"
)

var sessionNow = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

type fakeInserter struct {
	inserted []models.Transaction
	err      error
}

func (f *fakeInserter) InsertBatch(_ context.Context, _ int64, txs []models.Transaction) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.inserted = append(f.inserted, txs...)
	return len(txs), nil
}

const goodCSV = "date,description,amount,type\n" +
	"2024-01-15,Coffee,3.50,expense\n" +
	"2024-01-16,Salary,2500.00,income\n"

func TestSessionStandardFlow(t *testing.T) {
	s := NewSession(100)
	require.Equal(t, StatusIdle, s.Status())

	require.NoError(t, s.SelectFile("jan.csv", goodCSV))
	require.NoError(t, s.Process(ModeStandard, "", sessionNow))
	require.Equal(t, StatusPreview, s.Status())
	assert.Empty(t, s.Issues())
	require.Len(t, s.Candidates(), 2)

	store := &fakeInserter{}
	n, err := s.Commit(context.Background(), store, 7, sessionNow)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Equal(t, StatusSuccess, s.Status())

	require.Len(t, store.inserted, 2)
	assert.True(t, store.inserted[0].Amount.IsNegative(), "expense stored negative")
	assert.True(t, store.inserted[1].Amount.IsPositive(), "income stored positive")
	assert.Equal(t, int64(7), store.inserted[0].UserID)
	assert.NotEmpty(t, store.inserted[0].ID)
}

func TestSessionAnyIssueRejectsWholeBatch(t *testing.T) {
	csv := "date,description,amount\n" +
		"2024-01-15,Coffee,3.50\n" +
		"2024-01-16,Broken,abc\n" +
		"2024-01-17,Tea,2.00\n"

	s := NewSession(100)
	require.NoError(t, s.SelectFile("jan.csv", csv))
	require.NoError(t, s.Process(ModeStandard, "", sessionNow))

	require.Equal(t, StatusError, s.Status())
	require.Len(t, s.Issues(), 1)
	assert.Equal(t, 1, s.Issues()[0].RowIndex)
	assert.Contains(t, s.Issues()[0].Message, "amount")

	_, err := s.Commit(context.Background(), &fakeInserter{}, 1, sessionNow)
	assert.ErrorIs(t, err, ErrBadState, "no partial commit of the valid rows")
}

func TestSessionCommitEmptySelection(t *testing.T) {
	s := NewSession(100)
	require.NoError(t, s.SelectFile("jan.csv", goodCSV))
	require.NoError(t, s.Process(ModeStandard, "", sessionNow))
	require.NoError(t, s.SetSelection(0, false))
	require.NoError(t, s.SetSelection(1, false))

	_, err := s.Commit(context.Background(), &fakeInserter{}, 1, sessionNow)
	assert.ErrorIs(t, err, ErrNoSelection)
}

func TestSessionAdvancedFlow(t *testing.T) {
	csv := "when,what,how_much\n" +
		"15/01/2024,Coffee,3.50\n"

	s := NewSession(100)
	require.NoError(t, s.SelectFile("weird.csv", csv))
	require.NoError(t, s.Process(ModeAdvanced, "", sessionNow))
	require.Equal(t, StatusMapping, s.Status())

	err := s.SubmitMapping(ColumnMapping{
		DateColumn:        "when",
		AmountColumn:      "how_much",
		DescriptionColumn: "what",
		DateLayout:        LayoutDMY,
		DefaultCategory:   "Uncategorized",
		DefaultType:       "expense",
	}, sessionNow)
	require.NoError(t, err)
	require.Equal(t, StatusPreview, s.Status())
	assert.Empty(t, s.Issues())
}

func TestSessionRowLimit(t *testing.T) {
	s := NewSession(1)
	require.NoError(t, s.SelectFile("big.csv", goodCSV))
	err := s.Process(ModeStandard, "", sessionNow)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFormat)
	assert.Equal(t, StatusError, s.Status())
}

func TestSessionUnknownTemplate(t *testing.T) {
	s := NewSession(100)
	require.NoError(t, s.SelectFile("jan.csv", goodCSV))
	err := s.Process(ModeStandard, "no_such_bank", sessionNow)
	require.Error(t, err)
	assert.Equal(t, StatusError, s.Status())
}

func TestSessionStoreFailure(t *testing.T) {
	s := NewSession(100)
	require.NoError(t, s.SelectFile("jan.csv", goodCSV))
	require.NoError(t, s.Process(ModeStandard, "", sessionNow))

	_, err := s.Commit(context.Background(), &fakeInserter{err: errors.New("disk full")}, 1, sessionNow)
	require.Error(t, err)
	assert.Equal(t, StatusError, s.Status())

	snap := s.Snapshot()
	assert.Equal(t, "disk full", snap.Error)
}

func TestSessionBadStateTransitions(t *testing.T) {
	s := NewSession(100)

	err := s.Process(ModeStandard, "", sessionNow)
	assert.ErrorIs(t, err, ErrBadState, "process without a file")

	err = s.SubmitMapping(ColumnMapping{}, sessionNow)
	assert.ErrorIs(t, err, ErrBadState, "mapping while idle")

	_, err = s.Commit(context.Background(), &fakeInserter{}, 1, sessionNow)
	assert.ErrorIs(t, err, ErrBadState, "commit while idle")
}

func TestSessionReset(t *testing.T) {
	s := NewSession(100)
	require.NoError(t, s.SelectFile("jan.csv", goodCSV))
	require.NoError(t, s.Process(ModeStandard, "", sessionNow))

	s.Reset()
	assert.Equal(t, StatusIdle, s.Status())
	assert.Empty(t, s.Candidates())

	require.NoError(t, s.SelectFile("feb.csv", goodCSV))
	require.NoError(t, s.Process(ModeStandard, "", sessionNow))
	assert.Equal(t, StatusPreview, s.Status())
}

func TestSessionSnapshot(t *testing.T) {
	s := NewSession(100)
	require.NoError(t, s.SelectFile("jan.csv", goodCSV))
	require.NoError(t, s.Process(ModeStandard, "", sessionNow))

	snap := s.Snapshot()
	assert.Equal(t, StatusPreview, snap.Status)
	assert.Equal(t, "jan.csv", snap.FileName)
	assert.Equal(t, []string{"date", "description", "amount", "type"}, snap.Headers)
	assert.NotNil(t, snap.Mapping)
	assert.Len(t, snap.Candidates, 2)
}
