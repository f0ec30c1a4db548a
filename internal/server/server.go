// Package server wires the router, middleware, handlers, and database
// together, and owns the HTTP server lifecycle. main.go stays minimal;
// everything it starts is assembled here.
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

	"github.com/mhasan/feedbackform/internal/config"
	"github.com/mhasan/feedbackform/internal/flash"
	"github.com/mhasan/feedbackform/internal/handler"
	"github.com/mhasan/feedbackform/internal/middleware"
	sqliteRepo "github.com/mhasan/feedbackform/internal/repository/sqlite"
	"github.com/mhasan/feedbackform/internal/service"
)

// Server holds the router and the resources it owns. The database
// connection is closed during shutdown.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain:
// sqlite.DB → services → handlers → routes.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
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

// Router exposes the configured routes; tests drive them through
// httptest without starting a listener.
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRoutes configures middleware, handlers, and the route table:
//
//	GET  /                    form listing
//	GET  /create              authoring page
//	POST /create              create form + questions
//	GET  /form/{id}/submit    public submission page
//	POST /form/{id}/submit    validate + save a response
//	GET  /form/{id}/summary   aggregated statistics
//	GET  /static/*            stylesheets and scripts
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	flashStore := flash.NewStore(s.config.SecretKey)

	formService := service.NewFormService(s.db, s.db, s.logger)
	submissionService := service.NewSubmissionService(s.db, s.db, s.logger)
	summaryService := service.NewSummaryService(s.db, s.db, s.db, s.logger)

	formHandler, err := handler.NewFormHandler(s.config.TemplateDir, formService, flashStore, s.logger)
	if err != nil {
		return fmt.Errorf("creating form handler: %w", err)
	}
	submissionHandler, err := handler.NewSubmissionHandler(s.config.TemplateDir, formService, submissionService, flashStore, s.logger)
	if err != nil {
		return fmt.Errorf("creating submission handler: %w", err)
	}
	summaryHandler, err := handler.NewSummaryHandler(s.config.TemplateDir, summaryService, flashStore, s.logger)
	if err != nil {
		return fmt.Errorf("creating summary handler: %w", err)
	}

	s.router.Get("/", formHandler.HandleIndex)
	s.router.Get("/create", formHandler.HandleNew)
	s.router.Post("/create", formHandler.HandleCreate)

	s.router.Route("/form/{id}", func(r chi.Router) {
		r.Get("/submit", submissionHandler.HandleShow)
		r.Post("/submit", submissionHandler.HandleSubmit)
		r.Get("/summary", summaryHandler.HandleSummary)
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests (30s budget) and closes the database.
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
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
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
