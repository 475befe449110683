// backend/src/handlers/csrf_handler.go
package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/username/centavo/backend/src/logger"
)

const csrfCookieName = "_csrf_token"

// GetCSRFToken issues a double-submit CSRF token: once as an HttpOnly cookie
// and once in the response body for the frontend to echo in a header.
func GetCSRFToken(w http.ResponseWriter, r *http.Request) {
	token := generateRandomToken()

	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		MaxAge:   3600,
	})

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-CSRF-Token", token)
	json.NewEncoder(w).Encode(map[string]string{"csrfToken": token})
}

func generateRandomToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		logger.L.Error("error generating random bytes for CSRF token", "error", err)
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return base64.StdEncoding.EncodeToString(b)
}

// CSRFMiddleware enforces the double-submit check on state-changing methods.
// Safe methods pass through untouched.
func CSRFMiddleware(csrfKey []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			headerToken := r.Header.Get("X-CSRF-Token")
			cookie, err := r.Cookie(csrfCookieName)
			if headerToken != "" && err == nil && headerToken == cookie.Value {
				next.ServeHTTP(w, r)
				return
			}

			logger.FromContext(r.Context()).Warn("CSRF validation failed",
				"method", r.Method, "path", r.URL.Path, "headerTokenExists", headerToken != "", "cookieError", err)
			sendJSONError(w, "CSRF token validation failed", http.StatusForbidden)
		})
	}
}
