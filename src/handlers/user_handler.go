// backend/src/handlers/user_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/username/centavo/backend/src/config"
	"github.com/username/centavo/backend/src/database"
	"github.com/username/centavo/backend/src/logger"
	"github.com/username/centavo/backend/src/model"
	"github.com/username/centavo/backend/src/security"
	"github.com/username/centavo/backend/src/utils"
)

type contextKey string

const userIDContextKey contextKey = "userID"

var sendJSONError = utils.SendJSONError

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-]{3,30}$`)
)

// GetUserIDFromContext extracts the authenticated user's ID set by
// AuthMiddleware.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDContextKey).(int64)
	return id, ok
}

type UserHandler struct {
	authService *security.AuthService
}

func NewUserHandler(authService *security.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if !usernameRegex.MatchString(req.Username) {
		sendJSONError(w, "Username must be 3-30 characters, letters, digits, '_' or '-'", http.StatusBadRequest)
		return
	}
	if !emailRegex.MatchString(req.Email) {
		sendJSONError(w, "Invalid email address", http.StatusBadRequest)
		return
	}
	if len(req.Password) < 8 {
		sendJSONError(w, "Password must be at least 8 characters", http.StatusBadRequest)
		return
	}

	if _, err := model.GetUserByEmail(database.DB, req.Email); err == nil {
		sendJSONError(w, "Email already registered", http.StatusConflict)
		return
	}
	if _, err := model.GetUserByUsername(database.DB, req.Username); err == nil {
		sendJSONError(w, "Username already taken", http.StatusConflict)
		return
	}

	user := &model.User{Username: req.Username, Email: req.Email}
	if err := user.HashPassword(req.Password); err != nil {
		log.Error("password hashing failed", "error", err)
		sendJSONError(w, "Failed to create user", http.StatusInternalServerError)
		return
	}
	if err := user.CreateUser(database.DB); err != nil {
		log.Error("user creation failed", "error", err)
		sendJSONError(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	log.Info("user registered", "userID", user.ID, "username", user.Username)
	utils.SendJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresAt    time.Time   `json:"expires_at"`
	User         *model.User `json:"user"`
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	user, err := model.GetUserByEmail(database.DB, strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		sendJSONError(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}
	if err := user.CheckPassword(req.Password); err != nil {
		log.Warn("failed login attempt", "userID", user.ID)
		sendJSONError(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	h.issueTokens(w, r, user)
}

func (h *UserHandler) issueTokens(w http.ResponseWriter, r *http.Request, user *model.User) {
	log := logger.FromContext(r.Context())

	accessToken, err := h.authService.GenerateToken(user.ID)
	if err != nil {
		log.Error("access token generation failed", "userID", user.ID, "error", err)
		sendJSONError(w, "Failed to log in", http.StatusInternalServerError)
		return
	}
	refreshToken, err := h.authService.GenerateRefreshToken()
	if err != nil {
		log.Error("refresh token generation failed", "userID", user.ID, "error", err)
		sendJSONError(w, "Failed to log in", http.StatusInternalServerError)
		return
	}

	session := &model.Session{
		UserID:       user.ID,
		RefreshToken: refreshToken,
		UserAgent:    r.UserAgent(),
		ClientIP:     r.RemoteAddr,
		ExpiresAt:    time.Now().Add(config.Cfg.RefreshTokenExpiry),
	}
	if err := session.CreateSession(database.DB); err != nil {
		log.Error("session creation failed", "userID", user.ID, "error", err)
		sendJSONError(w, "Failed to log in", http.StatusInternalServerError)
		return
	}
	if err := user.RecordLogin(database.DB); err != nil {
		log.Warn("failed to record login", "userID", user.ID, "error", err)
	}

	log.Info("user logged in", "userID", user.ID)
	utils.SendJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(config.Cfg.AccessTokenExpiry),
		User:         user,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *UserHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		sendJSONError(w, "Refresh token required", http.StatusBadRequest)
		return
	}

	session, err := model.GetSessionByRefreshToken(database.DB, req.RefreshToken)
	if err != nil {
		sendJSONError(w, "Invalid refresh token", http.StatusUnauthorized)
		return
	}
	if time.Now().After(session.ExpiresAt) {
		_ = model.DeleteSession(database.DB, req.RefreshToken)
		sendJSONError(w, "Refresh token expired", http.StatusUnauthorized)
		return
	}

	accessToken, err := h.authService.GenerateToken(session.UserID)
	if err != nil {
		log.Error("access token generation failed", "userID", session.UserID, "error", err)
		sendJSONError(w, "Failed to refresh session", http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, http.StatusOK, map[string]interface{}{
		"access_token": accessToken,
		"expires_at":   time.Now().Add(config.Cfg.AccessTokenExpiry),
	})
}

func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.RefreshToken != "" {
		_ = model.DeleteSession(database.DB, req.RefreshToken)
	}
	utils.SendJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	user, err := model.GetUserByID(database.DB, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			sendJSONError(w, "User not found", http.StatusNotFound)
			return
		}
		sendJSONError(w, "Failed to load user", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, http.StatusOK, user)
}
