// backend/src/handlers/gamification_handler.go
package handlers

import (
	"net/http"

	"github.com/username/centavo/backend/src/database"
	"github.com/username/centavo/backend/src/logger"
	"github.com/username/centavo/backend/src/model"
	"github.com/username/centavo/backend/src/models"
	"github.com/username/centavo/backend/src/utils"
)

// GamificationHandler exposes read-only views of the stats, badges and
// challenges the database triggers maintain.
type GamificationHandler struct{}

func NewGamificationHandler() *GamificationHandler {
	return &GamificationHandler{}
}

func (h *GamificationHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	stats, err := model.GetUserStats(database.DB, userID)
	if err != nil {
		logger.FromContext(r.Context()).Error("failed to load user stats", "error", err)
		sendJSONError(w, "Failed to load stats", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, http.StatusOK, stats)
}

func (h *GamificationHandler) ListBadges(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	badges, err := model.ListBadges(database.DB, userID)
	if err != nil {
		logger.FromContext(r.Context()).Error("failed to list badges", "error", err)
		sendJSONError(w, "Failed to list badges", http.StatusInternalServerError)
		return
	}
	if badges == nil {
		badges = []models.Badge{}
	}
	utils.SendJSON(w, http.StatusOK, badges)
}

func (h *GamificationHandler) ListChallenges(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	challenges, err := model.ListChallenges(database.DB, userID)
	if err != nil {
		logger.FromContext(r.Context()).Error("failed to list challenges", "error", err)
		sendJSONError(w, "Failed to list challenges", http.StatusInternalServerError)
		return
	}
	if challenges == nil {
		challenges = []models.Challenge{}
	}
	utils.SendJSON(w, http.StatusOK, challenges)
}
