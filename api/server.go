// Package api exposes the pricing engine over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"landed-cost/core/engine"
	"landed-cost/core/policy"
	"landed-cost/internal/errors"
	"landed-cost/internal/logging"
)

// Server is the HTTP front end over the engine
type Server struct {
	engine *engine.Engine
	router chi.Router
	log    *zap.Logger
}

// NewServer builds the router around the engine
func NewServer(eng *engine.Engine) *Server {
	s := &Server{
		engine: eng,
		log:    logging.With(zap.String("component", "api")),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	r.Get("/health", s.handleHealth)
	r.Post("/quote", s.handleQuote)
	r.Post("/policies", s.handleGeneratePolicy)
	r.Get("/policies/{policyID}/rows", s.handlePolicyRows)

	s.router = r
	return s
}

// Handler returns the HTTP handler for mounting or serving
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req engine.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.TypeInput, "decoding quote request", err))
		return
	}

	resp, err := s.engine.Quote(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGeneratePolicy(w http.ResponseWriter, r *http.Request) {
	var req policy.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.TypeInput, "decoding policy request", err))
		return
	}

	result, err := s.engine.GeneratePolicy(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handlePolicyRows(w http.ResponseWriter, r *http.Request) {
	policyID := chi.URLParam(r, "policyID")

	rows, err := s.engine.PolicyRows(r.Context(), policyID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"policy_id": policyID,
		"rows":      rows,
	})
}

// errorResponse is the JSON error envelope
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Type    errors.Type `json:"type"`
	Message string      `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	errType := errors.TypeOf(err)

	status := http.StatusInternalServerError
	switch errType {
	case errors.TypeInput:
		status = http.StatusBadRequest
	case errors.TypeClassification, errors.TypeZoneMapping, errors.TypeNotFound:
		status = http.StatusNotFound
	case errors.TypeConfig:
		status = http.StatusInternalServerError
	}

	s.log.Warn("request failed",
		zap.String("error_type", string(errType)),
		zap.Error(err),
	)

	s.writeJSON(w, status, errorResponse{
		Error: errorBody{Type: errType, Message: err.Error()},
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("encoding response", zap.Error(err))
	}
}

// Serve runs the server on addr until the context is cancelled, then
// shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
