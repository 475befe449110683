// backend/src/handlers/import_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/username/centavo/backend/src/config"
	"github.com/username/centavo/backend/src/importer"
	"github.com/username/centavo/backend/src/logger"
	"github.com/username/centavo/backend/src/security/validation"
	"github.com/username/centavo/backend/src/services"
	"github.com/username/centavo/backend/src/utils"
)

type ImportHandler struct {
	importService services.ImportService
}

func NewImportHandler(importService services.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// ListTemplates returns the statement template catalog.
func (h *ImportHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	utils.SendJSON(w, http.StatusOK, h.importService.Templates())
}

// Upload accepts a multipart statement file and runs it through the
// pipeline. Form fields: file (required), mode (standard|advanced),
// template (optional template ID, auto-detected when absent).
func (h *ImportHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	log := logger.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, config.Cfg.MaxUploadSizeBytes)
	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		sendJSONError(w, "Uploaded file is too large", http.StatusRequestEntityTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		sendJSONError(w, "A statement file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if err := validation.ValidateClientContentType(header.Header.Get("Content-Type")); err != nil {
		sendJSONError(w, "Unsupported file type", http.StatusUnsupportedMediaType)
		return
	}
	if _, err := validation.ValidateFileContentByMagicBytes(file); err != nil {
		log.Warn("upload rejected by content inspection", "userID", userID, "fileName", header.Filename, "error", err)
		sendJSONError(w, "File content does not look like a text statement", http.StatusUnsupportedMediaType)
		return
	}

	contents, err := io.ReadAll(file)
	if err != nil {
		log.Error("failed to read uploaded file", "userID", userID, "error", err)
		sendJSONError(w, "Failed to read uploaded file", http.StatusInternalServerError)
		return
	}

	mode := importer.ModeStandard
	if r.FormValue("mode") == string(importer.ModeAdvanced) {
		mode = importer.ModeAdvanced
	}
	templateID := r.FormValue("template")

	snap, err := h.importService.ProcessFile(r.Context(), userID, header.Filename, string(contents), mode, templateID)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, services.ErrImportInProgress) {
			status = http.StatusConflict
		}
		sendJSONErrorWithSnapshot(w, err.Error(), status, snap)
		return
	}
	utils.SendJSON(w, http.StatusOK, snap)
}

// SubmitMapping applies a user-adjusted column mapping in advanced mode.
func (h *ImportHandler) SubmitMapping(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var mapping importer.ColumnMapping
	if err := json.NewDecoder(r.Body).Decode(&mapping); err != nil {
		sendJSONError(w, "Invalid mapping payload", http.StatusBadRequest)
		return
	}

	snap, err := h.importService.SubmitMapping(r.Context(), userID, mapping)
	if err != nil {
		sendJSONErrorWithSnapshot(w, err.Error(), importErrorStatus(err), snap)
		return
	}
	utils.SendJSON(w, http.StatusOK, snap)
}

type selectionRequest struct {
	RowIndex int  `json:"rowIndex"`
	Selected bool `json:"selected"`
}

// SetSelection toggles one preview row in or out of the pending commit.
func (h *ImportHandler) SetSelection(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid selection payload", http.StatusBadRequest)
		return
	}

	snap, err := h.importService.SetSelection(userID, req.RowIndex, req.Selected)
	if err != nil {
		sendJSONErrorWithSnapshot(w, err.Error(), importErrorStatus(err), snap)
		return
	}
	utils.SendJSON(w, http.StatusOK, snap)
}

// GetSession returns the current import session snapshot.
func (h *ImportHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	snap, err := h.importService.Snapshot(userID)
	if err != nil {
		sendJSONError(w, err.Error(), http.StatusNotFound)
		return
	}
	utils.SendJSON(w, http.StatusOK, snap)
}

// Commit persists the selected preview rows.
func (h *ImportHandler) Commit(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	n, err := h.importService.Commit(r.Context(), userID)
	if err != nil {
		sendJSONError(w, err.Error(), importErrorStatus(err))
		return
	}
	utils.SendJSON(w, http.StatusOK, map[string]int{"imported": n})
}

// Reset abandons the current import session.
func (h *ImportHandler) Reset(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	h.importService.Reset(userID)
	utils.SendJSON(w, http.StatusOK, map[string]string{"status": string(importer.StatusIdle)})
}

func importErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrNoActiveImport):
		return http.StatusNotFound
	case errors.Is(err, importer.ErrBadState):
		return http.StatusConflict
	case errors.Is(err, importer.ErrNoSelection):
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}

func sendJSONErrorWithSnapshot(w http.ResponseWriter, message string, status int, snap importer.Snapshot) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   message,
		"session": snap,
	})
}
