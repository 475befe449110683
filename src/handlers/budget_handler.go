// backend/src/handlers/budget_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/username/centavo/backend/src/database"
	"github.com/username/centavo/backend/src/logger"
	"github.com/username/centavo/backend/src/model"
	"github.com/username/centavo/backend/src/models"
	"github.com/username/centavo/backend/src/security/validation"
	"github.com/username/centavo/backend/src/services"
	"github.com/username/centavo/backend/src/utils"
)

type BudgetHandler struct {
	summaryService services.SummaryService
}

func NewBudgetHandler(summaryService services.SummaryService) *BudgetHandler {
	return &BudgetHandler{summaryService: summaryService}
}

type budgetRequest struct {
	Category string `json:"category"`
	Month    string `json:"month"`
	Limit    string `json:"limit"`
}

func (h *BudgetHandler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if err := validation.ValidateStringNotEmpty(req.Category, "Category"); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidateCategory(req.Category); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !monthRegex.MatchString(req.Month) {
		sendJSONError(w, "month must be formatted YYYY-MM", http.StatusBadRequest)
		return
	}
	limit, err := decimal.NewFromString(strings.TrimSpace(req.Limit))
	if err != nil || !limit.IsPositive() {
		sendJSONError(w, "limit must be a positive number", http.StatusBadRequest)
		return
	}

	b := &models.Budget{
		UserID:   userID,
		Category: strings.TrimSpace(req.Category),
		Month:    req.Month,
		Limit:    limit,
	}
	if err := model.CreateBudget(database.DB, b); err != nil {
		logger.FromContext(r.Context()).Error("failed to create budget", "error", err)
		sendJSONError(w, "Failed to create budget", http.StatusInternalServerError)
		return
	}

	h.summaryService.InvalidateUser(userID)
	utils.SendJSON(w, http.StatusCreated, b)
}

func (h *BudgetHandler) ListBudgets(w http.ResponseWriter, r *http.Request) {
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

	budgets, err := model.ListBudgets(database.DB, userID, month)
	if err != nil {
		logger.FromContext(r.Context()).Error("failed to list budgets", "error", err)
		sendJSONError(w, "Failed to list budgets", http.StatusInternalServerError)
		return
	}
	if budgets == nil {
		budgets = []models.Budget{}
	}
	utils.SendJSON(w, http.StatusOK, budgets)
}

type updateBudgetRequest struct {
	Limit string `json:"limit"`
}

func (h *BudgetHandler) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		sendJSONError(w, "Invalid budget id", http.StatusBadRequest)
		return
	}

	var req updateBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	limit, err := decimal.NewFromString(strings.TrimSpace(req.Limit))
	if err != nil || !limit.IsPositive() {
		sendJSONError(w, "limit must be a positive number", http.StatusBadRequest)
		return
	}

	if err := model.UpdateBudget(database.DB, userID, id, limit); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			sendJSONError(w, "Budget not found", http.StatusNotFound)
			return
		}
		sendJSONError(w, "Failed to update budget", http.StatusInternalServerError)
		return
	}

	h.summaryService.InvalidateUser(userID)
	utils.SendJSON(w, http.StatusOK, map[string]interface{}{"id": id, "limit": limit})
}

func (h *BudgetHandler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		sendJSONError(w, "Invalid budget id", http.StatusBadRequest)
		return
	}

	if err := model.DeleteBudget(database.DB, userID, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			sendJSONError(w, "Budget not found", http.StatusNotFound)
			return
		}
		sendJSONError(w, "Failed to delete budget", http.StatusInternalServerError)
		return
	}

	h.summaryService.InvalidateUser(userID)
	utils.SendJSON(w, http.StatusOK, map[string]int64{"deleted": id})
}

type goalRequest struct {
	Name     string `json:"name"`
	Target   string `json:"target"`
	Deadline string `json:"deadline,omitempty"` // YYYY-MM-DD
}

func (h *BudgetHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if err := validation.ValidateStringNotEmpty(req.Name, "Name"); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	target, err := decimal.NewFromString(strings.TrimSpace(req.Target))
	if err != nil || !target.IsPositive() {
		sendJSONError(w, "target must be a positive number", http.StatusBadRequest)
		return
	}

	g := &models.Goal{
		UserID: userID,
		Name:   strings.TrimSpace(req.Name),
		Target: target,
		Saved:  decimal.Zero,
	}
	if req.Deadline != "" {
		d, err := time.Parse("2006-01-02", req.Deadline)
		if err != nil {
			sendJSONError(w, "deadline must be formatted YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		g.Deadline = &d
	}

	if err := model.CreateGoal(database.DB, g); err != nil {
		logger.FromContext(r.Context()).Error("failed to create goal", "error", err)
		sendJSONError(w, "Failed to create goal", http.StatusInternalServerError)
		return
	}

	h.summaryService.InvalidateUser(userID)
	utils.SendJSON(w, http.StatusCreated, g)
}

func (h *BudgetHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	goals, err := model.ListGoals(database.DB, userID)
	if err != nil {
		logger.FromContext(r.Context()).Error("failed to list goals", "error", err)
		sendJSONError(w, "Failed to list goals", http.StatusInternalServerError)
		return
	}
	if goals == nil {
		goals = []models.Goal{}
	}
	utils.SendJSON(w, http.StatusOK, goals)
}

type goalContributionRequest struct {
	Amount string `json:"amount"`
}

// ContributeToGoal adds (or with a negative amount, removes) savings on a goal.
func (h *BudgetHandler) ContributeToGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		sendJSONError(w, "Invalid goal id", http.StatusBadRequest)
		return
	}

	var req goalContributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	delta, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil || delta.IsZero() {
		sendJSONError(w, "amount must be a non-zero number", http.StatusBadRequest)
		return
	}

	goal, err := model.AddToGoal(database.DB, userID, id, delta)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			sendJSONError(w, "Goal not found", http.StatusNotFound)
			return
		}
		sendJSONError(w, "Failed to update goal", http.StatusInternalServerError)
		return
	}

	h.summaryService.InvalidateUser(userID)
	utils.SendJSON(w, http.StatusOK, goal)
}

func (h *BudgetHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		sendJSONError(w, "Invalid goal id", http.StatusBadRequest)
		return
	}

	if err := model.DeleteGoal(database.DB, userID, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			sendJSONError(w, "Goal not found", http.StatusNotFound)
			return
		}
		sendJSONError(w, "Failed to delete goal", http.StatusInternalServerError)
		return
	}

	h.summaryService.InvalidateUser(userID)
	utils.SendJSON(w, http.StatusOK, map[string]int64{"deleted": id})
}
