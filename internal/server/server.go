// Package server is the composition root: it builds the dependency graph
// (database → services → handlers), wires routes and middleware, and owns
// the HTTP server lifecycle including graceful shutdown.
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
	"github.com/rs/cors"

	"github.com/nhasan/codebin/internal/auth"
	"github.com/nhasan/codebin/internal/config"
	"github.com/nhasan/codebin/internal/handler"
	"github.com/nhasan/codebin/internal/highlight"
	"github.com/nhasan/codebin/internal/middleware"
	sqliterepo "github.com/nhasan/codebin/internal/repository/sqlite"
	"github.com/nhasan/codebin/internal/service"
)

// Server bundles the router with the resources it owns. The database
// connection belongs to the server and is closed on shutdown.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliterepo.DB
}

// New builds the full dependency graph. Each layer receives only what it
// needs: services get repository interfaces, handlers get services, and the
// router gets handlers.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliterepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes wires middleware and routes.
//
// Middleware order matters: request id and panic recovery first, then
// logging, then the path rewrites and negotiation, then CORS, and identity
// extraction last so everything downstream sees the resolved caller.
func (s *Server) setupRoutes() error {
	// Token auth is optional: without a secret the server runs Basic-only
	// and /auth/token/ is not registered.
	var tokens *auth.TokenService
	if s.config.JWTSecret != "" {
		var err error
		tokens, err = auth.NewTokenService(s.config.JWTSecret, s.config.TokenTTL)
		if err != nil {
			return fmt.Errorf("creating token service: %w", err)
		}
	} else {
		s.logger.Warn("JWT_SECRET not set — bearer-token auth is disabled, Basic auth only")
	}

	passwords := auth.NewPasswordService()
	renderer := highlight.NewChroma()

	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	snippetService := service.NewSnippetService(s.db, renderer, s.logger)
	userService := service.NewUserService(s.db, s.logger)

	snippetHandler := handler.NewSnippetHandler(snippetService, s.logger)
	userHandler := handler.NewUserHandler(userService, s.logger)
	authHandler := handler.NewAuthHandler(authService, s.logger)

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.FormatSuffix)
	s.router.Use(middleware.NegotiateJSON)
	s.router.Use(cors.New(cors.Options{
		AllowedOrigins: s.config.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler)
	s.router.Use(auth.Identify(authService, s.logger))

	s.router.Get("/", handler.HandleRoot)
	s.router.Get("/healthz", handler.HandleHealth(s.db.Ping))

	s.router.Route("/snippets", func(r chi.Router) {
		r.Get("/", snippetHandler.HandleList)
		r.Post("/", snippetHandler.HandleCreate)
		r.Get("/{id}/", snippetHandler.HandleGet)
		r.Put("/{id}/", snippetHandler.HandleUpdate)
		r.Delete("/{id}/", snippetHandler.HandleDelete)
	})

	s.router.Route("/users", func(r chi.Router) {
		r.Get("/", userHandler.HandleList)
		r.Get("/{id}/", userHandler.HandleGet)
	})

	if authService.TokensEnabled() {
		s.router.Post("/auth/token/", authHandler.HandleToken)
	}

	return nil
}

// Handler exposes the composed router. Tests drive it with httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully:
// stop accepting connections, give in-flight requests 30 seconds, close the
// database (flushes the WAL and releases the file lock).
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
