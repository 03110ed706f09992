package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/scorm"
	"github.com/aretw0/scorm/internal/logging"
	"github.com/aretw0/scorm/pkg/domain"
	"github.com/aretw0/scorm/pkg/ports"
	"github.com/aretw0/scorm/pkg/session"
	"github.com/go-chi/chi/v5"
)

// Server exposes hosted sessions and, optionally, a commit receiver over HTTP.
type Server struct {
	Manager *session.Manager
	Streams *StreamManager

	store   ports.CommitStore
	metrics http.Handler
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithCommitStore enables the /commits receiver backed by store.
func WithCommitStore(store ports.CommitStore) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates a new HTTP handler for the manager. Sessions the manager creates
// from now on publish their listener events to /sessions/{id}/events.
func NewHandler(mgr *session.Manager, opts ...Option) http.Handler {
	server := &Server{
		Manager: mgr,
		Streams: NewStreamManager(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}
	mgr.Observe(server.publish)

	r := chi.NewRouter()
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", server.ListSessions)
		r.Post("/", server.CreateSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", server.GetSession)
			r.Delete("/", server.DeleteSession)
			r.Post("/calls", server.Call)
			r.Get("/commit", server.PreviewCommit)
			r.Get("/events", server.SubscribeEvents)
		})
	})
	if server.store != nil {
		r.Route("/commits", func(r chi.Router) {
			r.Get("/", server.ListCommits)
			r.Post("/", server.ReceiveCommit)
			r.Get("/{sessionID}", server.GetCommit)
			r.Delete("/{sessionID}", server.DeleteCommit)
		})
	}
	if server.metrics != nil {
		r.Handle("/metrics", server.metrics)
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Scorm-Session, X-Scorm-Variant, X-Scorm-Terminated, X-Scorm-Format")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CreateSessionRequest is the body of POST /sessions.
type CreateSessionRequest struct {
	Variant   string         `json:"variant"`
	SessionID string         `json:"session_id,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Root      string         `json:"root,omitempty"`
}

// SessionResponse describes a hosted session.
type SessionResponse struct {
	SessionID string         `json:"session_id"`
	Variant   string         `json:"variant"`
	State     string         `json:"state"`
	Methods   []string       `json:"methods,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// CallRequest is the body of POST /sessions/{id}/calls.
type CallRequest struct {
	Method string   `json:"method"`
	Args   []string `json:"args"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrRecordNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownVariant), errors.Is(err, session.ErrUnknownMethod):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	http.Error(w, err.Error(), status)
}

// CreateSession handles POST /sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("CreateSession: Invalid request body", "err", err)
		return
	}

	var opts []scorm.Option
	if body.SessionID != "" {
		opts = append(opts, scorm.WithSessionID(body.SessionID))
	}
	sess, err := s.Manager.Create(r.Context(), body.Variant, opts...)
	if err != nil {
		s.fail(w, err)
		return
	}
	if body.Data != nil {
		sess.LoadFromJSON(body.Data, body.Root)
	}

	methods, _ := s.Manager.Methods(sess.ID())
	s.writeJSON(w, http.StatusCreated, SessionResponse{
		SessionID: sess.ID(),
		Variant:   sess.Variant().Name(),
		State:     sess.State().String(),
		Methods:   methods,
	})
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Manager.List())
}

// GetSession handles GET /sessions/{id} and includes the data model.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	sess, err := s.Manager.Get(id)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, SessionResponse{
		SessionID: sess.ID(),
		Variant:   sess.Variant().Name(),
		State:     sess.State().String(),
		Data:      sess.ExportJSONObject(),
	})
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if err := s.Manager.Remove(r.Context(), id); err != nil {
		s.fail(w, err)
		return
	}
	s.Streams.Close(id)
	w.WriteHeader(http.StatusNoContent)
}

// Call handles POST /sessions/{id}/calls.
func (s *Server) Call(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	var body CallRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Call: Invalid request body", "err", err)
		return
	}

	res, err := s.Manager.Call(r.Context(), id, body.Method, body.Args...)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) || errors.Is(err, session.ErrUnknownMethod) {
			s.fail(w, err)
			return
		}
		// Wrong arity
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// PreviewCommit handles GET /sessions/{id}/commit: the body the next commit would send.
func (s *Server) PreviewCommit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	sess, err := s.Manager.Get(id)
	if err != nil {
		s.fail(w, err)
		return
	}
	payload, err := sess.RenderCommit()
	if err != nil {
		s.fail(w, fmt.Errorf("failed to render commit: %w", err))
		return
	}
	body, err := payload.Body()
	if err != nil {
		s.fail(w, fmt.Errorf("failed to encode commit: %w", err))
		return
	}
	w.Header().Set("Content-Type", payload.ContentType())
	_, _ = w.Write(body)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"app":      "scorm-http",
		"version":  strings.TrimSpace(scorm.Version),
		"variants": s.Manager.Variants(),
		"commits":  s.store != nil,
	})
}
