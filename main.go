package main

import (
	"crypto/tls"
	"encoding/json"
	stdlog "log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"github.com/username/centavo/backend/src/config"
	"github.com/username/centavo/backend/src/database"
	"github.com/username/centavo/backend/src/handlers"
	"github.com/username/centavo/backend/src/logger"
	"github.com/username/centavo/backend/src/security"
	"github.com/username/centavo/backend/src/services"
	"golang.org/x/time/rate"
)

func proxyHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Forwarded-Proto") == "https" {
			r.URL.Scheme = "https"
			r.TLS = &tls.ConnectionState{}
		}
		next.ServeHTTP(w, r)
	})
}

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded", "path", r.URL.Path)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"http://localhost:3000":    true,
			config.Cfg.FrontendBaseURL: true,
		}

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Requested-With, Cookie, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "X-CSRF-Token, ETag")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("Centavo backend server starting...")

	if config.Cfg.JWTSecret == "" || len(config.Cfg.JWTSecret) < 32 {
		logger.L.Error("JWT_SECRET configuration invalid.")
		os.Exit(1)
	}

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	if err := database.InitDB(config.Cfg.DatabasePath); err != nil {
		logger.L.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(config.Cfg.DatabasePath, config.Cfg.MigrationsDir); err != nil {
		logger.L.Error("Failed to apply database migrations", "error", err)
		os.Exit(1)
	}

	reportCache := cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval)

	handlers.InitializeGoogleOAuthConfig()

	authService := security.NewAuthService(config.Cfg.JWTSecret)
	summaryService := services.NewSummaryService(reportCache)
	importService := services.NewImportService(summaryService)

	userHandler := handlers.NewUserHandler(authService)
	importHandler := handlers.NewImportHandler(importService)
	txHandler := handlers.NewTransactionHandler(summaryService)
	budgetHandler := handlers.NewBudgetHandler(summaryService)
	gamificationHandler := handlers.NewGamificationHandler()
	summaryHandler := handlers.NewSummaryHandler(summaryService)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(proxyHeadersMiddleware)
	r.Use(enableCORS)
	r.Use(rateLimitMiddleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Centavo Backend is running"})
	})

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Group(func(r chi.Router) {
			r.Get("/auth/csrf", handlers.GetCSRFToken)
			r.Get("/auth/google/login", userHandler.HandleGoogleLogin)
			r.Get("/auth/google/callback", userHandler.HandleGoogleCallback)
		})

		// Authentication routes (CSRF protected)
		r.Group(func(r chi.Router) {
			r.Use(handlers.CSRFMiddleware(config.Cfg.CSRFAuthKey))
			r.Post("/auth/login", userHandler.Login)
			r.Post("/auth/register", userHandler.Register)
			r.Post("/auth/refresh", userHandler.Refresh)
			r.With(userHandler.AuthMiddleware).Post("/auth/logout", userHandler.Logout)
		})

		// Protected routes (authentication and CSRF required)
		r.Group(func(r chi.Router) {
			r.Use(handlers.CSRFMiddleware(config.Cfg.CSRFAuthKey))
			r.Use(userHandler.AuthMiddleware)

			r.Get("/user/me", userHandler.Me)

			r.Get("/import/templates", importHandler.ListTemplates)
			r.Post("/import/upload", importHandler.Upload)
			r.Get("/import/session", importHandler.GetSession)
			r.Post("/import/mapping", importHandler.SubmitMapping)
			r.Post("/import/selection", importHandler.SetSelection)
			r.Post("/import/commit", importHandler.Commit)
			r.Post("/import/reset", importHandler.Reset)

			r.Get("/transactions", txHandler.List)
			r.Post("/transactions", txHandler.Create)
			r.Delete("/transactions/{id}", txHandler.Delete)

			r.Get("/budgets", budgetHandler.ListBudgets)
			r.Post("/budgets", budgetHandler.CreateBudget)
			r.Put("/budgets/{id}", budgetHandler.UpdateBudget)
			r.Delete("/budgets/{id}", budgetHandler.DeleteBudget)

			r.Get("/goals", budgetHandler.ListGoals)
			r.Post("/goals", budgetHandler.CreateGoal)
			r.Post("/goals/{id}/contribute", budgetHandler.ContributeToGoal)
			r.Delete("/goals/{id}", budgetHandler.DeleteGoal)

			r.Get("/gamification/stats", gamificationHandler.GetStats)
			r.Get("/gamification/badges", gamificationHandler.ListBadges)
			r.Get("/gamification/challenges", gamificationHandler.ListChallenges)

			r.Get("/dashboard/summary", summaryHandler.GetSummary)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
		}
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		stdlog.Fatalf("Failed to start server: %v", err)
	}
}
