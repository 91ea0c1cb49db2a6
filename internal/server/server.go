// Package server wires the application together: store, services,
// handlers, middleware, routes, and the HTTP lifecycle.
//
// This is the composition root — every dependency is constructed and
// connected here (and in main), nowhere else. Handlers never build
// services; services never open databases.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/bdec/jobboard/internal/auth"
	"github.com/bdec/jobboard/internal/config"
	"github.com/bdec/jobboard/internal/handler"
	"github.com/bdec/jobboard/internal/mail"
	"github.com/bdec/jobboard/internal/middleware"
	"github.com/bdec/jobboard/internal/model"
	sqliteRepo "github.com/bdec/jobboard/internal/repository/sqlite"
	"github.com/bdec/jobboard/internal/service"
)

// Server owns the router, the store handle, and the config it was built
// from. The store is closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New initializes the store (schema migrations, admin bootstrap) and wires
// the full dependency graph.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	ctx := context.Background()

	db, err := sqliteRepo.New(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setup(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Server) setup(ctx context.Context) error {
	cfg := s.config

	// --- auth building blocks ---
	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	// Bootstrap the admin account before anything can serve requests.
	adminHash, err := passwords.Hash(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}
	if err := s.db.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, adminHash); err != nil {
		return fmt.Errorf("bootstrapping admin: %w", err)
	}

	var verifier service.GoogleVerifier
	if cfg.GoogleClientID != "" {
		verifier = auth.NewGoogleVerifier(cfg.GoogleClientID)
	} else {
		s.logger.Warn("GOOGLE_CLIENT_ID not set — Google login disabled")
	}

	var provider *auth.GoogleProvider
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" && cfg.GoogleCallbackURL != "" {
		provider = auth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleCallbackURL)
	}

	var mailer mail.Sender
	if cfg.SMTPHost != "" {
		smtp, err := mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser,
			cfg.SMTPPass, cfg.MailFrom, cfg.FrontendURL, s.logger)
		if err != nil {
			return fmt.Errorf("creating mail sender: %w", err)
		}
		mailer = smtp
	} else {
		s.logger.Warn("SMTP_HOST not set — outbound mail disabled")
		mailer = &mail.NopSender{Logger: s.logger}
	}

	// --- repositories and services ---
	users := s.db.Users()
	jobs := s.db.Jobs()
	apps := s.db.Applications()

	authSvc := service.NewAuthService(users, tokens, passwords, verifier, mailer,
		cfg.GoogleAllowImplicit, s.logger)
	jobSvc := service.NewJobService(jobs, s.logger)
	appSvc := service.NewApplicationService(apps, s.logger)
	reportSvc := service.NewReportService(users, jobs, apps)

	// --- handlers ---
	authHandler := handler.NewAuthHandler(authSvc, provider, cfg.FrontendURL, s.logger)
	jobHandler := handler.NewJobHandler(jobSvc, s.logger)
	appHandler := handler.NewApplicationHandler(appSvc, reportSvc, s.logger)

	// --- global middleware ---
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// The SPA is served from its own origin (FrontendURL); the API allows
	// it and local dev servers.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{cfg.FrontendURL, "http://localhost:*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	requireAuth := auth.RequireAuth(tokens)
	requireAdmin := auth.RequireRole(model.RoleAdmin)

	// --- routes ---
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", handleHealth)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.HandleRegister)
			r.Post("/login", authHandler.HandleLogin)
			r.Post("/google", authHandler.HandleGoogle)
			r.With(requireAuth).Get("/me", authHandler.HandleMe)
		})

		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", jobHandler.HandleList)
			r.With(requireAuth).Post("/", jobHandler.HandleCreate)
			r.With(requireAuth, requireAdmin).Delete("/{id}", jobHandler.HandleDelete)
		})

		r.Route("/applications", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", appHandler.HandleApply)
			r.Get("/my", appHandler.HandleListMine)
			r.With(requireAdmin).Get("/", appHandler.HandleListAll)
			r.With(requireAdmin).Get("/stats", appHandler.HandleStats)
			r.With(requireAdmin).Delete("/{id}", appHandler.HandleDelete)
		})
	})

	// Browser-redirect Google flow lives outside /api: these are page
	// navigations, not XHR calls.
	s.router.Get("/auth/google/login", authHandler.HandleGoogleLogin)
	s.router.Get("/auth/google/callback", authHandler.HandleGoogleCallback)

	return nil
}

// handleHealth answers liveness probes.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting, drain in-flight requests (30s), close the
// store so the WAL is flushed.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
