// backend/src/handlers/transaction_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/username/centavo/backend/src/database"
	"github.com/username/centavo/backend/src/logger"
	"github.com/username/centavo/backend/src/model"
	"github.com/username/centavo/backend/src/models"
	"github.com/username/centavo/backend/src/security/validation"
	"github.com/username/centavo/backend/src/services"
	"github.com/username/centavo/backend/src/utils"
)

var monthRegex = regexp.MustCompile(`^\d{4}-\d{2}$`)

type TransactionHandler struct {
	summaryService services.SummaryService
}

func NewTransactionHandler(summaryService services.SummaryService) *TransactionHandler {
	return &TransactionHandler{summaryService: summaryService}
}

// List returns the user's transactions, optionally filtered by ?month=YYYY-MM.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	month := r.URL.Query().Get("month")
	if month != "" && !monthRegex.MatchString(month) {
		sendJSONError(w, "month must be formatted YYYY-MM", http.StatusBadRequest)
		return
	}

	txs, err := model.ListTransactions(database.DB, userID, month)
	if err != nil {
		logger.FromContext(r.Context()).Error("failed to list transactions", "error", err)
		sendJSONError(w, "Failed to list transactions", http.StatusInternalServerError)
		return
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	utils.SendJSON(w, http.StatusOK, txs)
}

type createTransactionRequest struct {
	Date        string `json:"date"` // YYYY-MM-DD
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Type        string `json:"type"`
}

// Create adds a single manually entered transaction.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	log := logger.FromContext(r.Context())

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		sendJSONError(w, "date must be formatted YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if date.After(time.Now()) {
		sendJSONError(w, "date cannot be in the future", http.StatusBadRequest)
		return
	}
	if err := validation.ValidateStringNotEmpty(req.Description, "Description"); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidateStringMaxLength(req.Description, validation.MaxDescriptionLength, "Description"); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidateTransactionType(req.Type); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidateCategory(req.Category); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil {
		sendJSONError(w, "amount is not a valid number", http.StatusBadRequest)
		return
	}
	txType := strings.ToLower(strings.TrimSpace(req.Type))
	if txType == "expense" {
		amount = amount.Abs().Neg()
	} else {
		amount = amount.Abs()
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = "Uncategorized"
	}

	tx := models.Transaction{
		ID:          uuid.New().String(),
		UserID:      userID,
		Date:        date,
		Description: strings.TrimSpace(req.Description),
		Amount:      amount,
		Category:    category,
		Type:        txType,
		CreatedAt:   time.Now(),
	}
	if _, err := model.InsertTransactionsBatch(r.Context(), database.DB, userID, []models.Transaction{tx}); err != nil {
		log.Error("failed to insert transaction", "error", err)
		sendJSONError(w, "Failed to create transaction", http.StatusInternalServerError)
		return
	}

	h.summaryService.InvalidateUser(userID)
	utils.SendJSON(w, http.StatusCreated, tx)
}

// Delete removes one transaction by ID.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		sendJSONError(w, "transaction id required", http.StatusBadRequest)
		return
	}

	if err := model.DeleteTransaction(database.DB, userID, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			sendJSONError(w, "Transaction not found", http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("failed to delete transaction", "error", err)
		sendJSONError(w, "Failed to delete transaction", http.StatusInternalServerError)
		return
	}

	h.summaryService.InvalidateUser(userID)
	utils.SendJSON(w, http.StatusOK, map[string]string{"deleted": id})
}
