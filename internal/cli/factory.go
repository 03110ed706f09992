package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/scorm"
	"github.com/aretw0/scorm/pkg/config"
	"github.com/aretw0/scorm/pkg/observability"
	"github.com/aretw0/scorm/pkg/ports"
	"github.com/aretw0/scorm/pkg/registry"
	"github.com/aretw0/scorm/pkg/session"
	"github.com/aretw0/scorm/pkg/transport"
	"github.com/prometheus/client_golang/prometheus"
)

// Runtime is everything a command needs to host sessions.
type Runtime struct {
	Config   config.File
	Manager  *session.Manager
	Backend  *config.Backend
	Metrics  *observability.Metrics
	Gatherer prometheus.Gatherer
}

// NewRuntime opens the configured store and creates a session manager whose
// sessions commit through it, carry the configured rules and report metrics.
func NewRuntime(cfg config.File, logger *slog.Logger) (*Runtime, error) {
	validator, err := cfg.Validator()
	if err != nil {
		return nil, err
	}

	backend, err := cfg.OpenStore()
	if err != nil {
		return nil, fmt.Errorf("failed to open commit store: %w", err)
	}

	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	sessionOpts := []scorm.Option{
		scorm.WithSettings(cfg.Settings),
		scorm.WithTransport(newTransport(cfg.Settings.CommitDestination, backend.Store, logger)),
	}
	if validator != nil {
		sessionOpts = append(sessionOpts, scorm.WithCrossFieldValidator(validator))
	}

	mgrOpts := []session.Option{
		session.WithLogger(logger),
		session.WithSessionOptions(sessionOpts...),
		session.WithObserver(metrics.Attach),
	}
	if backend.Locker != nil {
		mgrOpts = append(mgrOpts, session.WithLocker(backend.Locker))
	}

	return &Runtime{
		Config:   cfg,
		Manager:  session.NewManager(registry.Default(), mgrOpts...),
		Backend:  backend,
		Metrics:  metrics,
		Gatherer: reg,
	}, nil
}

// Close releases the store.
func (r *Runtime) Close() error {
	return r.Backend.Close()
}

// newTransport posts to URL destinations and saves into the store otherwise.
func newTransport(destination string, store ports.CommitStore, logger *slog.Logger) ports.Transport {
	if strings.HasPrefix(destination, "http://") || strings.HasPrefix(destination, "https://") {
		return transport.NewHTTP(transport.WithLogger(logger))
	}
	return transport.NewStore(store)
}
