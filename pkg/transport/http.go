package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aretw0/scorm/internal/logging"
	"github.com/aretw0/scorm/pkg/domain"
	"github.com/aretw0/scorm/pkg/ports"
)

// Headers identifying the commit to the receiver.
const (
	HeaderSession    = "X-Scorm-Session"
	HeaderVariant    = "X-Scorm-Variant"
	HeaderTerminated = "X-Scorm-Terminated"
	HeaderFormat     = "X-Scorm-Format"
)

// Receiver responses larger than this are not parsed.
const maxResponse = 1 << 20

// HTTP posts commits to the destination URL.
type HTTP struct {
	client  *http.Client
	headers http.Header
	logger  *slog.Logger
}

var _ ports.Transport = (*HTTP)(nil)

// HTTPOption configures an HTTP transport.
type HTTPOption func(*HTTP)

// WithClient sets the HTTP client.
func WithClient(c *http.Client) HTTPOption {
	return func(h *HTTP) {
		h.client = c
	}
}

// WithHeader adds a header to every request, for example an authorization token.
func WithHeader(key, value string) HTTPOption {
	return func(h *HTTP) {
		h.headers.Add(key, value)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) HTTPOption {
	return func(h *HTTP) {
		h.logger = logger
	}
}

// NewHTTP creates an HTTP transport.
func NewHTTP(opts ...HTTPOption) *HTTP {
	h := &HTTP{
		client:  http.DefaultClient,
		headers: make(http.Header),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// receipt is the response body of an LMS commit endpoint. Both fields accept JSON
// strings as well as native values.
type receipt struct {
	Result    json.RawMessage `json:"result"`
	ErrorCode json.RawMessage `json:"errorCode"`
}

// Send posts the payload and interprets the response. A 2xx response without a
// parseable body counts as success.
func (h *HTTP) Send(ctx context.Context, req domain.CommitRequest) (domain.CommitResult, error) {
	body, err := req.Payload.Body()
	if err != nil {
		return domain.CommitResult{}, fmt.Errorf("failed to encode payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.Destination, bytes.NewReader(body))
	if err != nil {
		return domain.CommitResult{}, fmt.Errorf("failed to build commit request: %w", err)
	}
	for k, values := range h.headers {
		for _, v := range values {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Content-Type", req.Payload.ContentType())
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(HeaderSession, req.SessionID)
	httpReq.Header.Set(HeaderVariant, req.Variant)
	httpReq.Header.Set(HeaderTerminated, strconv.FormatBool(req.Terminated))
	httpReq.Header.Set(HeaderFormat, string(req.Payload.Format))

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return domain.CommitResult{}, fmt.Errorf("failed to post commit: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponse))
	if err != nil {
		return domain.CommitResult{}, fmt.Errorf("failed to read commit response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.CommitResult{}, fmt.Errorf("commit endpoint returned %s", resp.Status)
	}

	res := parseReceipt(raw)
	h.logger.Debug("commit sent",
		"destination", req.Destination,
		"status", resp.StatusCode,
		"success", res.Success,
		"error_code", res.ErrorCode,
	)
	return res, nil
}

func parseReceipt(raw []byte) domain.CommitResult {
	var r receipt
	if len(bytes.TrimSpace(raw)) == 0 || json.Unmarshal(raw, &r) != nil || r.Result == nil {
		return domain.CommitResult{Success: true}
	}
	res := domain.CommitResult{Success: truthy(r.Result)}
	if code, ok := number(r.ErrorCode); ok {
		res.ErrorCode = code
	}
	if res.ErrorCode != 0 {
		res.Success = false
	}
	return res
}

func truthy(raw json.RawMessage) bool {
	var b bool
	if json.Unmarshal(raw, &b) == nil {
		return b
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s == "true"
	}
	return false
}

func number(raw json.RawMessage) (int, bool) {
	if raw == nil {
		return 0, false
	}
	var n int
	if json.Unmarshal(raw, &n) == nil {
		return n, true
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		if n, err := strconv.Atoi(s); err == nil {
			return n, true
		}
	}
	return 0, false
}
