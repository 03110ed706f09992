package session

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/scorm"
	"github.com/aretw0/scorm/internal/logging"
	"github.com/aretw0/scorm/pkg/domain"
	"github.com/aretw0/scorm/pkg/ports"
	"github.com/aretw0/scorm/pkg/registry"
	"github.com/google/uuid"
)

// DefaultLockTTL bounds how long a distributed lock outlives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// hosted is a live session with its bound API.
type hosted struct {
	session *scorm.Session
	methods map[string]Method
}

// CallResult is the outcome of one API call together with the error register read
// under the same lock.
type CallResult struct {
	Result    string `json:"result"`
	ErrorCode string `json:"errorCode"`
}

// Manager hosts sessions and serializes access to each of them.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	registry *registry.Registry
	options  []scorm.Option

	mu       sync.Mutex // Global lock for the maps
	locks    map[string]*lockEntry
	sessions map[string]*hosted

	observers []func(*scorm.Session)

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the distributed lock TTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithSessionOptions sets options applied to every session the Manager creates,
// before the per-call ones.
func WithSessionOptions(opts ...scorm.Option) Option {
	return func(m *Manager) {
		m.options = append(m.options, opts...)
	}
}

// WithObserver registers fn to run on every session the Manager creates, before it
// is returned. Observers typically attach listeners.
func WithObserver(fn func(*scorm.Session)) Option {
	return func(m *Manager) {
		m.observers = append(m.observers, fn)
	}
}

// NewManager creates a new Session Manager creating variants from reg.
func NewManager(reg *registry.Registry, opts ...Option) *Manager {
	m := &Manager{
		registry: reg,
		locks:    make(map[string]*lockEntry),
		sessions: make(map[string]*hosted),
		lockTTL:  DefaultLockTTL,
		logger:   logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create starts a session of the named variant and returns it. A new UUID is used
// unless opts set the session ID.
func (m *Manager) Create(ctx context.Context, variantName string, opts ...scorm.Option) (*scorm.Session, error) {
	variant, err := m.registry.Lookup(variantName)
	if err != nil {
		return nil, err
	}

	all := []scorm.Option{scorm.WithLogger(m.logger), scorm.WithSessionID(uuid.NewString())}
	all = append(all, m.options...)
	all = append(all, opts...)
	s, err := scorm.New(variant, all...)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[s.ID()]; exists {
		return nil, fmt.Errorf("session %q already exists", s.ID())
	}
	for _, observe := range m.observers {
		observe(s)
	}
	m.sessions[s.ID()] = &hosted{session: s, methods: Methods(s)}
	m.logger.Info("session created", "session_id", s.ID(), "variant", variantName)
	return s, nil
}

// Observe registers fn like WithObserver on a running Manager. Sessions created
// earlier are not passed to fn.
func (m *Manager) Observe(fn func(*scorm.Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, fn)
}

// Variants returns the names the Manager can create sessions for.
func (m *Manager) Variants() []string {
	return m.registry.Names()
}

// Get returns the hosted session.
func (m *Manager) Get(sessionID string) (*scorm.Session, error) {
	h, err := m.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return h.session, nil
}

func (m *Manager) lookup(sessionID string) (*hosted, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}
	return h, nil
}

// Call invokes the API method named method on the session and reads the error register.
func (m *Manager) Call(ctx context.Context, sessionID, method string, args ...string) (CallResult, error) {
	h, err := m.lookup(sessionID)
	if err != nil {
		return CallResult{}, err
	}
	fn, ok := h.methods[method]
	if !ok {
		return CallResult{}, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}

	var res CallResult
	err = m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		out, err := fn.Call(args...)
		if err != nil {
			return fmt.Errorf("failed to call %s: %w", method, err)
		}
		res = CallResult{Result: out, ErrorCode: h.session.GetLastError()}
		return nil
	})
	return res, err
}

// Methods returns the API method names available on the session.
func (m *Manager) Methods(sessionID string) ([]string, error) {
	h, err := m.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return MethodNames(h.methods), nil
}

// Remove stops hosting the session. Sessions still running are terminated first so
// their final commit is sent.
func (m *Manager) Remove(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		h, err := m.lookup(sessionID)
		if err != nil {
			return err
		}
		if h.session.State() == domain.StateInitialized {
			if !h.session.Terminate(true) {
				m.logger.Warn("terminate on remove failed",
					"session_id", sessionID,
					"code", h.session.GetLastError(),
				)
			}
		}

		m.mu.Lock()
		delete(m.sessions, sessionID)
		m.mu.Unlock()
		return nil
	})
}

// List returns the hosted session IDs, sorted.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
