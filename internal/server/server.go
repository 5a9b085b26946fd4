// Package server provides the HTTP REST API for the resume builder.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/resume-builder/internal/editor"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/parsing"
	"github.com/jonathan/resume-builder/internal/session"
	"github.com/jonathan/resume-builder/internal/store"
	"github.com/jonathan/resume-builder/internal/types"
)

// Renderer produces PDF bytes for resumes and cover letters.
type Renderer interface {
	RenderResume(ctx context.Context, resume types.Resume) ([]byte, error)
	RenderCoverLetter(ctx context.Context, text string) ([]byte, error)
}

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	store      store.Store
	controller *session.Controller
	parser     session.Parser
	text       session.TextService
	renderer   Renderer

	maxFileSize  int64
	historyLimit int
}

// Config holds server configuration.
type Config struct {
	Port         int
	MaxFileSize  int64
	HistoryLimit int
}

// New creates a server over already-constructed collaborators. The caller
// owns the store's lifecycle.
func New(cfg Config, st store.Store, controller *session.Controller, parser session.Parser, text session.TextService, renderer Renderer) *Server {
	s := &Server{
		store:        st,
		controller:   controller,
		parser:       parser,
		text:         text,
		renderer:     renderer,
		maxFileSize:  cfg.MaxFileSize,
		historyLimit: cfg.HistoryLimit,
	}
	if s.maxFileSize <= 0 {
		s.maxFileSize = parsing.DefaultMaxFileSize
	}
	if s.historyLimit <= 0 {
		s.historyLimit = store.DefaultHistoryLimit
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/parse", s.handleParse)

	mux.HandleFunc("GET /api/resume", s.handleGetResume)
	mux.HandleFunc("POST /api/resume", s.handleSaveResume)
	mux.HandleFunc("DELETE /api/resume", s.handleDeleteResume)

	mux.HandleFunc("GET /api/resume/history", s.handleGetHistory)
	mux.HandleFunc("DELETE /api/resume/history", s.handleDeleteHistory)

	mux.HandleFunc("POST /api/modify-resume", s.handleModifyResume)
	mux.HandleFunc("POST /api/generate-cover-letter", s.handleGenerateCoverLetter)
	mux.HandleFunc("POST /api/generate-pdf", s.handleGeneratePDF)

	mux.HandleFunc("GET /api/session", s.handleGetSession)
	mux.HandleFunc("POST /api/session/upload", s.handleSessionUpload)
	mux.HandleFunc("POST /api/session/edit", s.handleSessionEdit)
	mux.HandleFunc("POST /api/session/save", s.handleSessionSave)
	mux.HandleFunc("POST /api/session/reset", s.handleSessionReset)
	mux.HandleFunc("POST /api/session/submit", s.handleSessionSubmit)
	mux.HandleFunc("POST /api/session/restore", s.handleSessionRestore)
	mux.HandleFunc("POST /api/session/clear", s.handleSessionClear)

	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // tailoring and PDF rendering are slow
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	// Let best-effort background saves drain before the pool closes.
	if s.controller != nil {
		s.controller.Wait()
	}
	s.store.Close()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes the API's failure envelope.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]any{"success": false, "error": message})
}

// failureResponse maps a domain error to the right HTTP status. Validation
// problems are the caller's fault; missing records are 404; model failures
// are upstream failures; everything else is a server error.
func (s *Server) failureResponse(w http.ResponseWriter, err error) {
	var (
		validationErr  *session.ValidationError
		notFoundErr    *session.NotFoundError
		pathErr        *editor.PathError
		instructionErr *editor.InstructionError
		parseErr       *parsing.ParseError
		structErr      *llm.StructuringError
		tailorErr      *llm.TailoringError
		letterErr      *llm.CoverLetterError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &pathErr),
		errors.As(err, &instructionErr), errors.As(err, &parseErr):
		s.errorResponse(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &notFoundErr):
		s.errorResponse(w, http.StatusNotFound, err.Error())
	case errors.As(err, &structErr), errors.As(err, &tailorErr), errors.As(err, &letterErr):
		s.errorResponse(w, http.StatusBadGateway, err.Error())
	default:
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
	}
}
