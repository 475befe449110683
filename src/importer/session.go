// backend/src/importer/session.go
package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/username/centavo/backend/src/models"
)

// Status is the lifecycle state of an import session.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusParsing   Status = "parsing"
	StatusMapping   Status = "mapping"
	StatusPreview   Status = "preview"
	StatusInserting Status = "inserting"
	StatusSuccess   Status = "success"
	StatusError     Status = "error"
)

// Mode selects the flow after tokenization. Standard mode applies the
// resolved mapping immediately and jumps to preview; advanced mode stops at
// mapping so the user can adjust columns first.
type Mode string

const (
	ModeStandard Mode = "standard"
	ModeAdvanced Mode = "advanced"
)

var (
	ErrBadState    = errors.New("operation not allowed in current session state")
	ErrNoSelection = errors.New("no rows selected for import")
)

// BatchInserter persists a set of transactions atomically. An implementation
// must insert all rows or none.
type BatchInserter interface {
	InsertBatch(ctx context.Context, userID int64, txs []models.Transaction) (int, error)
}

// Session carries one upload through the import pipeline. It is not safe for
// concurrent use; callers serialize access per user.
type Session struct {
	status   Status
	progress int
	maxRows  int
	fileName string
	content  string

	table      *RawTable
	template   SourceTemplate
	mapping    ColumnMapping
	candidates []CandidateTransaction
	issues     []Issue
	selection  map[int]bool
	errMsg     string
}

// NewSession returns an idle session that refuses files with more than
// maxRows data rows.
func NewSession(maxRows int) *Session {
	return &Session{status: StatusIdle, maxRows: maxRows}
}

// Status reports the session's current lifecycle state.
func (s *Session) Status() Status { return s.status }

// Issues returns the validation issues found by the last Process or
// SubmitMapping call.
func (s *Session) Issues() []Issue { return s.issues }

// Candidates returns the mapped rows of the current preview.
func (s *Session) Candidates() []CandidateTransaction { return s.candidates }

// Mapping returns the currently resolved column mapping.
func (s *Session) Mapping() ColumnMapping { return s.mapping }

// Template returns the template the session is working with.
func (s *Session) Template() SourceTemplate { return s.template }

// SelectFile stores the uploaded file's name and content. Allowed from idle
// or from a finished state, in which case the session restarts.
func (s *Session) SelectFile(fileName, content string) error {
	switch s.status {
	case StatusIdle, StatusSuccess, StatusError, StatusPreview, StatusMapping:
	default:
		return fmt.Errorf("%w: cannot select a file while %s", ErrBadState, s.status)
	}
	s.Reset()
	s.fileName = fileName
	s.content = content
	return nil
}

// Process tokenizes the selected file against the given template (or the
// auto-detected one when templateID is empty). In standard mode it maps and
// validates immediately and lands on preview; in advanced mode it stops at
// mapping. A tokenization failure or row-limit breach moves the session to
// error.
func (s *Session) Process(mode Mode, templateID string, now time.Time) error {
	if s.content == "" {
		return fmt.Errorf("%w: no file selected", ErrBadState)
	}
	s.status = StatusParsing
	s.progress = 10

	table, err := Tokenize(s.content)
	if err != nil {
		return s.fail(err)
	}
	if s.maxRows > 0 && len(table.Rows) > s.maxRows {
		return s.fail(fmt.Errorf("%w: file has %d rows, limit is %d", ErrFormat, len(table.Rows), s.maxRows))
	}
	s.table = table

	if templateID != "" {
		tpl, ok := TemplateByID(templateID)
		if !ok {
			return s.fail(fmt.Errorf("unknown template '%s'", templateID))
		}
		s.template = tpl
	} else {
		s.template = DetectTemplate(table.Headers)
	}
	s.mapping = ResolveMapping(s.template, table.Headers)

	if mode == ModeAdvanced {
		s.status = StatusMapping
		s.progress = 40
		return nil
	}
	s.buildPreview(now)
	return nil
}

// SubmitMapping accepts a user-adjusted mapping while the session waits in
// mapping state and advances to preview.
func (s *Session) SubmitMapping(m ColumnMapping, now time.Time) error {
	if s.status != StatusMapping {
		return fmt.Errorf("%w: mapping can only be submitted while %s, session is %s", ErrBadState, StatusMapping, s.status)
	}
	if m.DateLayout == "" {
		m.DateLayout = s.template.DateLayout
	}
	if m.DefaultCategory == "" {
		m.DefaultCategory = s.template.DefaultCategory
	}
	if m.DefaultType == "" {
		m.DefaultType = s.template.DefaultType
	}
	s.mapping = m
	s.buildPreview(now)
	return nil
}

// buildPreview maps and validates the tokenized rows. Any validation issue
// rejects the whole batch: the session lands on error carrying the full
// issue list, and no preview is offered for the valid remainder.
func (s *Session) buildPreview(now time.Time) {
	s.candidates = MapRows(s.table, s.mapping)
	s.issues = Validate(s.candidates, s.mapping.DateLayout, now)

	if len(s.issues) > 0 {
		s.status = StatusError
		s.errMsg = fmt.Sprintf("%d row(s) failed validation", len(distinctRows(s.issues)))
		return
	}

	s.selection = make(map[int]bool, len(s.candidates))
	for _, c := range s.candidates {
		s.selection[c.RawRowIndex] = true
	}
	s.status = StatusPreview
	s.progress = 60
}

func distinctRows(issues []Issue) map[int]bool {
	rows := map[int]bool{}
	for _, issue := range issues {
		rows[issue.RowIndex] = true
	}
	return rows
}

// SetSelection toggles whether a previewed row is included in the commit.
func (s *Session) SetSelection(rowIndex int, selected bool) error {
	if s.status != StatusPreview {
		return fmt.Errorf("%w: selection requires %s, session is %s", ErrBadState, StatusPreview, s.status)
	}
	if _, ok := s.selection[rowIndex]; !ok {
		return fmt.Errorf("row %d is not part of this preview", rowIndex)
	}
	s.selection[rowIndex] = selected
	return nil
}

// Commit persists the selected rows through the store. Preview is only
// reachable when every row validated, so the batch needs no re-checking
// here; atomicity is the store's contract. Expense amounts are stored
// negative, income positive, regardless of the sign in the file.
func (s *Session) Commit(ctx context.Context, store BatchInserter, userID int64, now time.Time) (int, error) {
	if s.status != StatusPreview {
		return 0, fmt.Errorf("%w: commit requires %s, session is %s", ErrBadState, StatusPreview, s.status)
	}

	var txs []models.Transaction
	for _, c := range s.candidates {
		if !s.selection[c.RawRowIndex] {
			continue
		}
		date, _ := ParseDate(c.Date, s.mapping.DateLayout)
		amount, _ := CleanAmount(c.Amount)
		if c.Type == "expense" {
			amount = amount.Abs().Neg()
		} else {
			amount = amount.Abs()
		}
		txs = append(txs, models.Transaction{
			ID:          uuid.New().String(),
			UserID:      userID,
			Date:        date,
			Description: strings.TrimSpace(c.Description),
			Amount:      amount,
			Category:    c.Category,
			Type:        c.Type,
			CreatedAt:   now,
		})
	}
	if len(txs) == 0 {
		return 0, ErrNoSelection
	}

	s.status = StatusInserting
	s.progress = 80
	n, err := store.InsertBatch(ctx, userID, txs)
	if err != nil {
		s.status = StatusError
		s.errMsg = err.Error()
		return 0, err
	}
	s.status = StatusSuccess
	s.progress = 100
	return n, nil
}

func (s *Session) fail(err error) error {
	s.status = StatusError
	s.errMsg = err.Error()
	return err
}

// Reset returns the session to idle and clears all per-upload state.
func (s *Session) Reset() {
	*s = Session{status: StatusIdle, maxRows: s.maxRows}
}

// Snapshot is the JSON view of a session the frontend polls for.
type Snapshot struct {
	Status      Status                 `json:"status"`
	Progress    int                    `json:"progressPercent"`
	FileName    string                 `json:"fileName,omitempty"`
	Headers     []string               `json:"headers,omitempty"`
	DroppedRows int                    `json:"droppedRows"`
	TemplateID  string                 `json:"templateId,omitempty"`
	Mapping     *ColumnMapping         `json:"mapping,omitempty"`
	Candidates  []CandidateTransaction `json:"candidates,omitempty"`
	Issues      []Issue                `json:"issues,omitempty"`
	Selection   map[int]bool           `json:"selection,omitempty"`
	Error       string                 `json:"error,omitempty"`
}

// Snapshot captures the session state for API responses.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Status:     s.status,
		Progress:   s.progress,
		FileName:   s.fileName,
		TemplateID: s.template.ID,
		Candidates: s.candidates,
		Issues:     s.issues,
		Selection:  s.selection,
		Error:      s.errMsg,
	}
	if s.table != nil {
		snap.Headers = s.table.Headers
		snap.DroppedRows = s.table.Dropped
	}
	if s.status == StatusMapping || s.status == StatusPreview {
		m := s.mapping
		snap.Mapping = &m
	}
	return snap
}
