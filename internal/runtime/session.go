package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/scorm/internal/logging"
	"github.com/aretw0/scorm/pkg/cmi"
	"github.com/aretw0/scorm/pkg/domain"
	"github.com/aretw0/scorm/pkg/ports"
)

// Config holds the per-session settings the engine acts on.
type Config struct {
	Autocommit            bool
	AutocommitInterval    time.Duration
	CommitDestination     string
	PayloadFormat         domain.PayloadFormat
	CommitTimeout         time.Duration
	MasteryOverride       bool
	SelfReportSessionTime bool
}

// DefaultConfig returns the settings of a session built without options.
func DefaultConfig() Config {
	return Config{
		AutocommitInterval: time.Minute,
		PayloadFormat:      domain.FormatJSON,
		CommitTimeout:      30 * time.Second,
	}
}

// Option configures a Session.
type Option func(*Session)

// WithConfig replaces the session settings.
func WithConfig(cfg Config) Option {
	return func(s *Session) {
		s.cfg = cfg
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTransport sets where commits are sent.
func WithTransport(t ports.Transport) Option {
	return func(s *Session) {
		s.transport = t
	}
}

// WithCrossFieldValidator adds a validator that runs after the variant's own.
func WithCrossFieldValidator(v ports.CrossFieldValidator) Option {
	return func(s *Session) {
		s.validators = append(s.validators, v)
	}
}

// WithAfterFunc replaces the timer used by the commit scheduler.
func WithAfterFunc(f AfterFunc) Option {
	return func(s *Session) {
		s.afterFunc = f
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithSessionID sets the identifier reported to transports.
func WithSessionID(id string) Option {
	return func(s *Session) {
		s.id = id
	}
}

// Session is the lifecycle state machine of one learner attempt. It owns the data
// model tree and serializes every public operation behind one mutex. Listeners are
// queued while the mutex is held and run once it is released, so they may call
// back into the session.
type Session struct {
	mu         sync.Mutex
	queued     []func()
	id         string
	variant    ports.Variant
	cfg        Config
	logger     *slog.Logger
	transport  ports.Transport
	validators []ports.CrossFieldValidator
	afterFunc  AfterFunc
	now        func() time.Time

	state       domain.LifecycleState
	startedAt   time.Time
	resolver    *Resolver
	errors      *ErrorChannel
	bus         *Bus
	scheduler   *Scheduler
	lastPayload *domain.Payload
}

// NewSession builds a session and its data model tree.
func NewSession(variant ports.Variant, opts ...Option) (*Session, error) {
	s := &Session{
		variant: variant,
		cfg:     DefaultConfig(),
		logger:  logging.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if !s.cfg.PayloadFormat.Valid() {
		return nil, fmt.Errorf("invalid commit payload format %q", s.cfg.PayloadFormat)
	}
	if s.cfg.Autocommit && s.cfg.AutocommitInterval <= 0 {
		return nil, fmt.Errorf("autocommit interval must be positive, got %s", s.cfg.AutocommitInterval)
	}
	if s.cfg.CommitTimeout <= 0 {
		s.cfg.CommitTimeout = DefaultConfig().CommitTimeout
	}

	s.logger = s.logger.With("variant", variant.Name())
	if s.id != "" {
		s.logger = s.logger.With("session_id", s.id)
	}
	validators := append([]ports.CrossFieldValidator{variant}, s.validators...)
	s.resolver = NewResolver(variant.NewTree(), variant.NewChild, validators...)
	s.errors = NewErrorChannel(variant.Errors(), s.logger)
	s.bus = NewBus(variant.Aliases())
	s.scheduler = NewScheduler(sessionLock{s}, s.afterFunc, s.now)
	return s, nil
}

// sessionLock lets the scheduler's trigger release the mutex through unlock.
type sessionLock struct{ s *Session }

func (l sessionLock) Lock()   { l.s.mu.Lock() }
func (l sessionLock) Unlock() { l.s.unlock() }

// unlock releases the mutex and then runs the listeners queued while it was held.
// A panicking listener skips the rest and propagates to the caller.
func (s *Session) unlock() {
	queued := s.queued
	s.queued = nil
	s.mu.Unlock()
	for _, fire := range queued {
		fire()
	}
}

// notify queues the listeners matching op and element as registered right now.
func (s *Session) notify(op domain.Operation, element, value string) {
	callbacks := s.bus.Match(op, element)
	if len(callbacks) == 0 {
		return
	}
	s.queued = append(s.queued, func() {
		for _, cb := range callbacks {
			cb(element, value)
		}
	})
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Variant returns the data model variant.
func (s *Session) Variant() ports.Variant {
	return s.variant
}

// State returns the lifecycle state.
func (s *Session) State() domain.LifecycleState {
	s.mu.Lock()
	defer s.unlock()
	return s.state
}

// SchedulerState returns the state of the autocommit slot.
func (s *Session) SchedulerState() SchedulerState {
	s.mu.Lock()
	defer s.unlock()
	return s.scheduler.State()
}

// Initialize starts the session.
func (s *Session) Initialize() bool {
	s.mu.Lock()
	defer s.unlock()

	switch s.state {
	case domain.StateInitialized:
		s.errors.Throw(domain.OpInitialize, domain.NewError(domain.KeyInitialized, ""))
		return false
	case domain.StateTerminated:
		s.errors.Throw(domain.OpInitialize, domain.NewError(domain.KeyTerminated, ""))
		return false
	}
	s.state = domain.StateInitialized
	s.startedAt = s.now()
	s.errors.Clear(true)
	s.logger.Debug("session initialized")
	s.notify(domain.OpInitialize, "", "")
	return true
}

// Terminate ends the session with a final commit. With check set, terminating twice fails.
func (s *Session) Terminate(check bool) bool {
	s.mu.Lock()
	defer s.unlock()

	switch {
	case s.state == domain.StateNotInitialized:
		s.errors.Throw(domain.OpTerminate, domain.NewError(domain.KeyTerminationBeforeInit, ""))
		return false
	case s.state == domain.StateTerminated && check:
		s.errors.Throw(domain.OpTerminate, domain.NewError(domain.KeyMultipleTermination, ""))
		return false
	case s.state == domain.StateTerminated:
		// Unchecked repeat: the final commit already ran.
		s.errors.Clear(true)
		return true
	}
	s.scheduler.Clear()
	ok := s.store(domain.OpTerminate, true)
	s.state = domain.StateTerminated
	s.errors.Clear(ok)
	s.logger.Debug("session terminated", "result", ok)
	s.notify(domain.OpTerminate, "", "")
	return ok
}

// guard fails when the lifecycle state does not allow data access.
func (s *Session) guard(op domain.Operation, check bool, beforeInit, afterTerm domain.ErrorKey) bool {
	switch {
	case s.state == domain.StateNotInitialized:
		s.errors.Throw(op, domain.NewError(beforeInit, ""))
		return false
	case check && s.state == domain.StateTerminated:
		s.errors.Throw(op, domain.NewError(afterTerm, ""))
		return false
	}
	return true
}

// GetValue reads an element. With check set, reads after termination fail.
func (s *Session) GetValue(path string, check bool) string {
	s.mu.Lock()
	defer s.unlock()

	if !s.guard(domain.OpGetValue, check, domain.KeyRetrieveBeforeInit, domain.KeyRetrieveAfterTerm) {
		return ""
	}
	value, err := s.resolver.Get(path, true)
	if err != nil {
		s.errors.Throw(domain.OpGetValue, err)
	} else {
		s.errors.Clear(true)
	}
	s.logger.Debug("get value", "element", path, "value", value, "result", err == nil)
	s.notify(domain.OpGetValue, path, value)
	return value
}

// SetValue validates and writes an element. Listeners are notified whether or not the
// value was accepted; a successful write may arm the autocommit trigger.
func (s *Session) SetValue(path, value string, check bool) bool {
	s.mu.Lock()
	defer s.unlock()

	if !s.guard(domain.OpSetValue, check, domain.KeyStoreBeforeInit, domain.KeyStoreAfterTerm) {
		return false
	}
	if path == "" {
		// Nothing is addressed: no write, no notification, no autocommit.
		s.errors.Clear(true)
		return true
	}
	err := s.resolver.Set(path, value, true)
	if err != nil {
		s.errors.Throw(domain.OpSetValue, err)
	} else {
		s.errors.Clear(true)
	}
	s.logger.Debug("set value", "element", path, "value", value, "result", err == nil)
	s.notify(domain.OpSetValue, path, value)

	if err == nil && s.cfg.Autocommit && !s.scheduler.Pending() {
		s.scheduler.Schedule(s.cfg.AutocommitInterval, func() {
			s.commit(true)
		})
	}
	return err == nil
}

// Commit cancels any pending autocommit and stores the tree.
func (s *Session) Commit(check bool) bool {
	s.mu.Lock()
	defer s.unlock()
	return s.commit(check)
}

func (s *Session) commit(check bool) bool {
	if !s.guard(domain.OpCommit, check, domain.KeyCommitBeforeInit, domain.KeyCommitAfterTerm) {
		return false
	}
	s.scheduler.Clear()
	ok := s.store(domain.OpCommit, false)
	s.errors.Clear(ok)
	s.notify(domain.OpCommit, "", "")
	return ok
}

// store renders the tree and hands it to the transport. Failures are recorded in
// the error register.
func (s *Session) store(op domain.Operation, terminating bool) bool {
	if terminating {
		s.variant.Finalize(s.resolver.Tree(), ports.FinalizeContext{
			Elapsed:               s.now().Sub(s.startedAt),
			MasteryOverride:       s.cfg.MasteryOverride,
			SelfReportSessionTime: s.cfg.SelfReportSessionTime,
		})
	}
	payload, err := Render(s.resolver.Tree(), s.cfg.PayloadFormat)
	if err != nil {
		s.errors.Throw(op, domain.NewError(domain.KeyGeneralCommitFailure, err.Error()))
		return false
	}
	s.lastPayload = &payload

	if s.cfg.CommitDestination == "" {
		s.logger.Debug("commit skipped, no destination", "terminating", terminating)
		return true
	}
	if s.transport == nil {
		s.errors.Throw(op, domain.NewError(domain.KeyGeneralCommitFailure, "no transport configured"))
		s.notify(domain.OpCommitError, "", "")
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.CommitTimeout)
	defer cancel()
	res, err := s.transport.Send(ctx, domain.CommitRequest{
		SessionID:   s.id,
		Variant:     s.variant.Name(),
		Destination: s.cfg.CommitDestination,
		Terminated:  terminating,
		Payload:     payload,
	})
	switch {
	case err != nil:
		s.logger.Error("commit failed", "err", err, "destination", s.cfg.CommitDestination)
		s.errors.Throw(op, domain.NewError(domain.KeyGeneralCommitFailure, err.Error()))
	case !res.Success && res.ErrorCode > 0:
		s.errors.ThrowCode(op, res.ErrorCode, "")
	case !res.Success:
		s.errors.Throw(op, domain.NewError(domain.KeyGeneralCommitFailure, "commit rejected"))
	default:
		s.notify(domain.OpCommitSuccess, "", "")
		return true
	}
	s.notify(domain.OpCommitError, "", "")
	return false
}

// GetLastError returns the error register.
func (s *Session) GetLastError() string {
	s.mu.Lock()
	defer s.unlock()
	return s.errors.LastError()
}

// GetErrorString returns the short text of code.
func (s *Session) GetErrorString(code string) string {
	s.mu.Lock()
	defer s.unlock()
	return s.errors.ErrorString(code)
}

// GetDiagnostic returns the detailed text of code, or of the last error if code is empty.
func (s *Session) GetDiagnostic(code string) string {
	s.mu.Lock()
	defer s.unlock()
	return s.errors.Diagnostic(code)
}

// On registers a listener. See Bus.On.
func (s *Session) On(pattern string, callback domain.Callback) int {
	s.mu.Lock()
	defer s.unlock()
	return s.bus.On(pattern, callback)
}

// Clear removes listeners. See Bus.Clear.
func (s *Session) Clear(pattern string) int {
	s.mu.Lock()
	defer s.unlock()
	return s.bus.Clear(pattern)
}

// LoadFromJSON hydrates the tree before Initialize. Called later it only logs a warning
// and leaves the error register alone. It reports whether the data was applied, which
// is not an operation result: the public facade does not expose it.
func (s *Session) LoadFromJSON(data map[string]any, root string) bool {
	s.mu.Lock()
	defer s.unlock()

	if s.state != domain.StateNotInitialized {
		s.logger.Warn("loadFromJSON can only be called before Initialize", "state", s.state)
		return false
	}
	for _, err := range s.resolver.Hydrate(data, root) {
		s.logger.Warn("hydration value rejected", "err", err)
	}
	return true
}

// ExportJSONObject renders the tree as an ordered object.
func (s *Session) ExportJSONObject() *domain.Object {
	s.mu.Lock()
	defer s.unlock()
	return RenderObject(s.resolver.Tree())
}

// ExportJSONString renders the tree as a JSON document.
func (s *Session) ExportJSONString() (string, error) {
	data, err := json.Marshal(s.ExportJSONObject())
	if err != nil {
		return "", fmt.Errorf("failed to export tree: %w", err)
	}
	return string(data), nil
}

// RenderCommit renders the payload a commit would send, without sending it and
// without running the finalizer.
func (s *Session) RenderCommit() (domain.Payload, error) {
	s.mu.Lock()
	defer s.unlock()
	return Render(s.resolver.Tree(), s.cfg.PayloadFormat)
}

// LastPayload returns the payload rendered by the most recent commit.
func (s *Session) LastPayload() (domain.Payload, bool) {
	s.mu.Lock()
	defer s.unlock()
	if s.lastPayload == nil {
		return domain.Payload{}, false
	}
	return *s.lastPayload, true
}

// Inspect runs fn with the tree while holding the session lock.
func (s *Session) Inspect(fn func(tree *cmi.Composite)) {
	s.mu.Lock()
	defer s.unlock()
	fn(s.resolver.Tree())
}

// ReportError records a failure detected outside the engine, such as a variant facade
// rejecting an argument.
func (s *Session) ReportError(op domain.Operation, key domain.ErrorKey, message string) {
	s.mu.Lock()
	defer s.unlock()
	s.errors.Throw(op, domain.NewError(key, message))
}
