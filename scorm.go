package scorm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/scorm/internal/logging"
	"github.com/aretw0/scorm/internal/runtime"
	"github.com/aretw0/scorm/pkg/cmi"
	"github.com/aretw0/scorm/pkg/domain"
	"github.com/aretw0/scorm/pkg/ports"
	"github.com/google/uuid"
)

// Timer is the handle returned by a custom AfterFunc.
type Timer interface {
	Stop() bool
}

type options struct {
	settings   Settings
	logger     *slog.Logger
	transport  ports.Transport
	validators []ports.CrossFieldValidator
	afterFunc  func(time.Duration, func()) Timer
	clock      func() time.Time
	sessionID  string
}

// Option defines a functional option for configuring a Session.
type Option func(*options)

// WithSettings replaces the default settings.
func WithSettings(s Settings) Option {
	return func(o *options) {
		o.settings = s
	}
}

// WithLogger sets a custom structured logger. Without it, a stderr logger at the
// settings' log level is used.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTransport sets where commits are sent when a commit destination is configured.
func WithTransport(t ports.Transport) Option {
	return func(o *options) {
		o.transport = t
	}
}

// WithCrossFieldValidator adds a validator that runs on content writes after the
// variant's own checks.
func WithCrossFieldValidator(v ports.CrossFieldValidator) Option {
	return func(o *options) {
		o.validators = append(o.validators, v)
	}
}

// WithAfterFunc replaces time.AfterFunc for the autocommit trigger.
func WithAfterFunc(f func(time.Duration, func()) Timer) Option {
	return func(o *options) {
		o.afterFunc = f
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

// WithSessionID sets the session identifier. A random UUID is used otherwise.
func WithSessionID(id string) Option {
	return func(o *options) {
		o.sessionID = id
	}
}

// Session is the runtime of one learner attempt against one data model variant.
// It is safe for concurrent use. Listeners run after the operation releases the
// session, so they may call back into it.
type Session struct {
	rt     *runtime.Session
	logger *slog.Logger
}

// New creates a session for variant.
func New(variant ports.Variant, opts ...Option) (*Session, error) {
	o := options{settings: DefaultSettings()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.settings.Validate(); err != nil {
		return nil, err
	}
	if o.logger == nil {
		level, _ := logging.ParseLevel(o.settings.LogLevel)
		o.logger = logging.New(level)
	}
	if o.sessionID == "" {
		o.sessionID = uuid.NewString()
	}

	rtOpts := []runtime.Option{
		runtime.WithConfig(o.settings.config()),
		runtime.WithLogger(o.logger),
		runtime.WithTransport(o.transport),
		runtime.WithSessionID(o.sessionID),
	}
	for _, v := range o.validators {
		rtOpts = append(rtOpts, runtime.WithCrossFieldValidator(v))
	}
	if o.afterFunc != nil {
		af := o.afterFunc
		rtOpts = append(rtOpts, runtime.WithAfterFunc(func(d time.Duration, f func()) runtime.Timer {
			return af(d, f)
		}))
	}
	if o.clock != nil {
		rtOpts = append(rtOpts, runtime.WithClock(o.clock))
	}

	rt, err := runtime.NewSession(variant, rtOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &Session{rt: rt, logger: o.logger}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.rt.ID() }

// Variant returns the data model variant.
func (s *Session) Variant() ports.Variant { return s.rt.Variant() }

// State returns the lifecycle state.
func (s *Session) State() domain.LifecycleState { return s.rt.State() }

// Initialize moves the session to the initialized state.
func (s *Session) Initialize() bool { return s.rt.Initialize() }

// Terminate commits with the termination finalizer and ends the session.
func (s *Session) Terminate(checkTerminated bool) bool { return s.rt.Terminate(checkTerminated) }

// GetValue reads the element at path.
func (s *Session) GetValue(path string, checkTerminated bool) string {
	return s.rt.GetValue(path, checkTerminated)
}

// SetValue validates and writes value at path.
func (s *Session) SetValue(path, value string, checkTerminated bool) bool {
	return s.rt.SetValue(path, value, checkTerminated)
}

// Commit persists the data model now, cancelling any pending autocommit.
func (s *Session) Commit(checkTerminated bool) bool { return s.rt.Commit(checkTerminated) }

// GetLastError returns the error register.
func (s *Session) GetLastError() string { return s.rt.GetLastError() }

// GetErrorString returns the short message of code.
func (s *Session) GetErrorString(code string) string { return s.rt.GetErrorString(code) }

// GetDiagnostic returns the detailed message of code.
func (s *Session) GetDiagnostic(code string) string { return s.rt.GetDiagnostic(code) }

// On registers callback for each space-separated "Operation" or
// "Operation.element.path" token of pattern.
func (s *Session) On(pattern string, callback domain.Callback) {
	s.rt.On(pattern, callback)
}

// Clear removes the listeners registered under pattern.
func (s *Session) Clear(pattern string) {
	s.rt.Clear(pattern)
}

// LoadFromJSON hydrates the data model before Initialize. After Initialize it logs a
// warning and changes nothing; neither case touches the error register.
func (s *Session) LoadFromJSON(data map[string]any, root string) {
	s.rt.LoadFromJSON(data, root)
}

// LoadJSON decodes raw and hydrates the data model with it.
func (s *Session) LoadJSON(raw []byte, root string) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var data map[string]any
	if err := dec.Decode(&data); err != nil {
		return fmt.Errorf("failed to decode data model: %w", err)
	}
	s.rt.LoadFromJSON(data, root)
	return nil
}

// ExportJSONObject returns the data model as nested maps.
func (s *Session) ExportJSONObject() map[string]any {
	return s.rt.ExportJSONObject().Map()
}

// ExportJSONString returns the data model as JSON in schema order.
func (s *Session) ExportJSONString() string {
	out, err := s.rt.ExportJSONString()
	if err != nil {
		s.logger.Error("export failed", "err", err)
		return "{}"
	}
	return out
}

// RenderCommit returns the payload the next commit would send.
func (s *Session) RenderCommit() (domain.Payload, error) { return s.rt.RenderCommit() }

// LastPayload returns the payload of the most recent commit.
func (s *Session) LastPayload() (domain.Payload, bool) { return s.rt.LastPayload() }

// Inspect runs fn with exclusive access to the data model tree.
func (s *Session) Inspect(fn func(tree *cmi.Composite)) { s.rt.Inspect(fn) }

// ReportError records a failure detected by a variant facade in the error register.
func (s *Session) ReportError(op domain.Operation, key domain.ErrorKey, message string) {
	s.rt.ReportError(op, key, message)
}
