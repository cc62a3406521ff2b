// Package server exposes the scanner, classifier, and state store over a
// local HTTP API for UI shells and manual triggers.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/parakeep/parakeep/internal/classifier"
	"github.com/parakeep/parakeep/internal/llm"
	"github.com/parakeep/parakeep/internal/state"
	"github.com/parakeep/parakeep/internal/vault"
)

// Config holds server configuration.
type Config struct {
	Port     int
	AllowAll bool // allow all CORS origins (dev mode)
}

// Server is the local parakeep API server.
type Server struct {
	cfg        Config
	scanner    *vault.Scanner
	classifier *classifier.Classifier
	provider   llm.Provider
	store      state.Store
	events     *Hub
	router     chi.Router
	httpServer *http.Server
}

// New creates a server with all dependencies.
func New(cfg Config, scanner *vault.Scanner, cls *classifier.Classifier, provider llm.Provider, store state.Store) *Server {
	s := &Server{
		cfg:        cfg,
		scanner:    scanner,
		classifier: cls,
		provider:   provider,
		store:      store,
		events:     NewHub(),
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(120 * time.Second))
			r.Get("/health", s.handleHealth)
			r.Get("/hierarchy", s.handleHierarchy)
			r.Post("/rescan", s.handleRescan)
			r.Post("/classify", s.handleClassify)
			r.Get("/status", s.handleStatus)
			r.Get("/preview/{id}", s.handlePreview)
		})
		// The event stream stays open indefinitely, outside the timeout.
		r.Get("/events", s.handleEvents)
	})

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Events returns the event hub so the processing loop can publish cycle
// results to connected clients.
func (s *Server) Events() *Hub { return s.events }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("parakeep server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
