// backend/src/handlers/oauth_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/username/centavo/backend/src/config"
	"github.com/username/centavo/backend/src/database"
	"github.com/username/centavo/backend/src/logger"
	"github.com/username/centavo/backend/src/model"
)

var googleOauthConfig *oauth2.Config

func InitializeGoogleOAuthConfig() {
	googleOauthConfig = &oauth2.Config{
		RedirectURL:  config.Cfg.GoogleRedirectURL,
		ClientID:     config.Cfg.GoogleClientID,
		ClientSecret: config.Cfg.GoogleClientSecret,
		Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
		Endpoint:     google.Endpoint,
	}
}

func (h *UserHandler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	url := googleOauthConfig.AuthCodeURL(config.Cfg.OAuthStateString)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (h *UserHandler) HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if r.FormValue("state") != config.Cfg.OAuthStateString {
		logger.L.Warn("invalid OAuth state from Google callback")
		redirectWithError(w, r, "invalid_state")
		return
	}

	code := r.FormValue("code")
	token, err := googleOauthConfig.Exchange(context.Background(), code)
	if err != nil {
		logger.L.Error("failed to exchange code for token", "error", err)
		redirectWithError(w, r, "token_exchange_failed")
		return
	}

	response, err := http.Get("https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + token.AccessToken)
	if err != nil {
		logger.L.Error("failed to get user info from Google", "error", err)
		redirectWithError(w, r, "userinfo_failed")
		return
	}
	defer response.Body.Close()

	contents, err := io.ReadAll(response.Body)
	if err != nil {
		logger.L.Error("failed to read user info response body", "error", err)
		redirectWithError(w, r, "userinfo_read_failed")
		return
	}

	var googleUser struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Verified bool   `json:"verified_email"`
		ID       string `json:"id"`
	}
	if err := json.Unmarshal(contents, &googleUser); err != nil {
		logger.L.Error("failed to unmarshal Google user info", "error", err)
		redirectWithError(w, r, "userinfo_parse_failed")
		return
	}
	if !googleUser.Verified {
		redirectWithError(w, r, "email_not_verified_by_google")
		return
	}

	user, err := model.GetUserByEmail(database.DB, googleUser.Email)
	if err != nil {
		newUser := &model.User{
			Username:     googleUser.Email,
			Email:        googleUser.Email,
			Password:     "",
			AuthProvider: "google",
		}
		if err := newUser.CreateUser(database.DB); err != nil {
			logger.L.Error("failed to create Google user", "error", err)
			redirectWithError(w, r, "user_creation_failed")
			return
		}
		user = newUser
	} else if user.AuthProvider == "local" || user.Password != "" {
		logger.L.Warn("Google login attempt for existing local account", "userID", user.ID)
		redirectWithError(w, r, "email_already_exists_local")
		return
	}

	accessToken, err := h.authService.GenerateToken(user.ID)
	if err != nil {
		logger.L.Error("access token generation failed after Google login", "userID", user.ID, "error", err)
		redirectWithError(w, r, "token_generation_failed")
		return
	}
	refreshToken, err := h.authService.GenerateRefreshToken()
	if err != nil {
		logger.L.Error("refresh token generation failed after Google login", "userID", user.ID, "error", err)
		redirectWithError(w, r, "token_generation_failed")
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
		logger.L.Error("session creation failed after Google login", "userID", user.ID, "error", err)
		redirectWithError(w, r, "session_creation_failed")
		return
	}
	if err := user.RecordLogin(database.DB); err != nil {
		logger.L.Warn("failed to record login", "userID", user.ID, "error", err)
	}

	redirectURL := fmt.Sprintf("%s/auth/callback?access_token=%s&refresh_token=%s",
		config.Cfg.FrontendBaseURL, url.QueryEscape(accessToken), url.QueryEscape(refreshToken))
	http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
}

func redirectWithError(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, config.Cfg.FrontendBaseURL+"/signin?error="+url.QueryEscape(code), http.StatusTemporaryRedirect)
}
