// backend/src/handlers/summary_handler.go
package handlers

import (
	"net/http"
	"time"

	"github.com/username/centavo/backend/src/logger"
	"github.com/username/centavo/backend/src/services"
	"github.com/username/centavo/backend/src/utils"
)

type SummaryHandler struct {
	summaryService services.SummaryService
}

func NewSummaryHandler(summaryService services.SummaryService) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

// GetSummary returns the dashboard summary for ?month=YYYY-MM (defaulting to
// the current month). The response carries an ETag so unchanged dashboards
// answer 304.
func (h *SummaryHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	month := r.URL.Query().Get("month")
	if month == "" {
		month = time.Now().Format("2006-01")
	}
	if !monthRegex.MatchString(month) {
		sendJSONError(w, "month must be formatted YYYY-MM", http.StatusBadRequest)
		return
	}

	summary, err := h.summaryService.GetSummary(r.Context(), userID, month)
	if err != nil {
		logger.FromContext(r.Context()).Error("failed to build dashboard summary", "error", err)
		sendJSONError(w, "Failed to build summary", http.StatusInternalServerError)
		return
	}

	etag, err := utils.GenerateETag(summary)
	if err == nil {
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	utils.SendJSON(w, http.StatusOK, summary)
}
