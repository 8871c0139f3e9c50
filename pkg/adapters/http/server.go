// Package http exposes the stack engine over a small JSON API, intended
// for debugging and external orchestration.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/scenestack/scenestack/pkg/domain"
	"github.com/scenestack/scenestack/pkg/ports"
)

// Engine is the subset of the stack engine the API needs.
type Engine interface {
	Switch(ctx context.Context, target string, payload any) error
	Push(ctx context.Context, target string, payload any) error
	Pop(ctx context.Context) error
	Current() string
	Stack() []string
	SceneNames() []string
}

// Server serves the debug API.
type Server struct {
	engine  Engine
	history ports.HistoryStore
	logger  *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithHistory enables the /history endpoint.
func WithHistory(store ports.HistoryStore) Option {
	return func(s *Server) { s.history = store }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewHandler creates an HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{
		engine: engine,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/stack", s.getStack)
	r.Get("/scenes", s.getScenes)
	r.Get("/history", s.getHistory)
	r.Post("/switch", s.postSwitch)
	r.Post("/push", s.postPush)
	r.Post("/pop", s.postPop)

	return r
}

type transitionRequest struct {
	Scene   string          `json:"scene"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type stackResponse struct {
	Current string   `json:"current"`
	Stack   []string `json:"stack"`
}

func (s *Server) getStack(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stackResponse{
		Current: s.engine.Current(),
		Stack:   s.engine.Stack(),
	})
}

func (s *Server) getScenes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"scenes": s.engine.SceneNames()})
}

func (s *Server) getHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		http.Error(w, "history not configured", http.StatusNotFound)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	recs, err := s.history.List(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to read history", "err", err)
		http.Error(w, "failed to read history", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]domain.StateChange{"history": recs})
}

func (s *Server) postSwitch(w http.ResponseWriter, r *http.Request) {
	s.runTransition(w, r, true, func(ctx context.Context, req transitionRequest) error {
		return s.engine.Switch(ctx, req.Scene, payloadOf(req))
	})
}

func (s *Server) postPush(w http.ResponseWriter, r *http.Request) {
	s.runTransition(w, r, true, func(ctx context.Context, req transitionRequest) error {
		return s.engine.Push(ctx, req.Scene, payloadOf(req))
	})
}

func (s *Server) postPop(w http.ResponseWriter, r *http.Request) {
	s.runTransition(w, r, false, func(ctx context.Context, req transitionRequest) error {
		return s.engine.Pop(ctx)
	})
}

func (s *Server) runTransition(w http.ResponseWriter, r *http.Request, needsScene bool, fn func(context.Context, transitionRequest) error) {
	var req transitionRequest
	if needsScene {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if req.Scene == "" {
			http.Error(w, "scene is required", http.StatusBadRequest)
			return
		}
	}

	if err := fn(r.Context(), req); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrSceneNotFound):
			status = http.StatusNotFound
		case errors.Is(err, domain.ErrStackFloor):
			status = http.StatusConflict
		case errors.Is(err, domain.ErrEntrySuperseded):
			status = http.StatusConflict
		}
		s.logger.Warn("transition failed", "scene", req.Scene, "err", err)
		http.Error(w, err.Error(), status)
		return
	}

	writeJSON(w, http.StatusOK, stackResponse{
		Current: s.engine.Current(),
		Stack:   s.engine.Stack(),
	})
}

func payloadOf(req transitionRequest) any {
	if len(req.Payload) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(req.Payload, &v); err != nil {
		return nil
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("response encode failed", "err", err)
	}
}
