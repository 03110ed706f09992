package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/scorm/pkg/domain"
	"github.com/aretw0/scorm/pkg/transport"
	"github.com/go-chi/chi/v5"
)

// Commit bodies larger than this are rejected.
const maxCommitBody = 4 << 20

// receipt mirrors what the HTTP transport parses.
type receipt struct {
	Result    string `json:"result"`
	ErrorCode string `json:"errorCode"`
}

// ReceiveCommit handles POST /commits: the endpoint an HTTP transport posts to.
// The session comes from the X-Scorm-Session header.
func (s *Server) ReceiveCommit(w http.ResponseWriter, r *http.Request) {
	rec, err := decodeCommit(r)
	if err != nil {
		s.logger.Warn("ReceiveCommit: rejected", "err", err)
		s.writeJSON(w, http.StatusBadRequest, receipt{Result: "false", ErrorCode: "101"})
		return
	}
	if err := s.store.Save(r.Context(), rec); err != nil {
		s.logger.Error("ReceiveCommit: save failed", "session_id", rec.SessionID, "err", err)
		s.writeJSON(w, http.StatusInternalServerError, receipt{Result: "false", ErrorCode: "101"})
		return
	}
	s.logger.Debug("commit received", "session_id", rec.SessionID, "terminated", rec.Terminated)
	s.writeJSON(w, http.StatusOK, receipt{Result: "true", ErrorCode: "0"})
}

func decodeCommit(r *http.Request) (*domain.CommitRecord, error) {
	sessionID := r.Header.Get(transport.HeaderSession)
	if sessionID == "" {
		return nil, fmt.Errorf("missing %s header", transport.HeaderSession)
	}
	format := domain.PayloadFormat(r.Header.Get(transport.HeaderFormat))
	if format == "" {
		format = domain.FormatJSON
		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
			format = domain.FormatParams
		}
	}
	if !format.Valid() {
		return nil, fmt.Errorf("unknown payload format %q", format)
	}
	terminated := false
	if v := r.Header.Get(transport.HeaderTerminated); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s header: %w", transport.HeaderTerminated, err)
		}
		terminated = b
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxCommitBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	var body json.RawMessage
	if format == domain.FormatParams {
		tokens, err := parseParams(string(raw))
		if err != nil {
			return nil, err
		}
		if body, err = json.Marshal(tokens); err != nil {
			return nil, err
		}
	} else {
		if !json.Valid(raw) {
			return nil, fmt.Errorf("body is not valid JSON")
		}
		body = raw
	}

	return &domain.CommitRecord{
		SessionID:   sessionID,
		Variant:     r.Header.Get(transport.HeaderVariant),
		Format:      format,
		Terminated:  terminated,
		CommittedAt: time.Now().UTC(),
		Body:        body,
	}, nil
}

// parseParams decodes a form body into "path=value" tokens keeping their order,
// which url.ParseQuery would lose.
func parseParams(raw string) ([]string, error) {
	tokens := []string{}
	if raw == "" {
		return tokens, nil
	}
	for _, part := range strings.Split(raw, "&") {
		key, value, _ := strings.Cut(part, "=")
		k, err := url.QueryUnescape(key)
		if err != nil {
			return nil, fmt.Errorf("invalid parameter name %q: %w", key, err)
		}
		v, err := url.QueryUnescape(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %q: %w", k, err)
		}
		tokens = append(tokens, k+"="+v)
	}
	return tokens, nil
}

// ListCommits handles GET /commits.
func (s *Server) ListCommits(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// GetCommit handles GET /commits/{id}.
func (s *Server) GetCommit(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Load(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

// DeleteCommit handles DELETE /commits/{id}.
func (s *Server) DeleteCommit(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
