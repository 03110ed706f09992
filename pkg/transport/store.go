package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/scorm/pkg/domain"
	"github.com/aretw0/scorm/pkg/ports"
)

// Store persists every commit in a CommitStore. The destination is ignored.
type Store struct {
	store ports.CommitStore
	now   func() time.Time
}

var _ ports.Transport = (*Store)(nil)

// NewStore creates a store-backed transport.
func NewStore(store ports.CommitStore) *Store {
	return &Store{store: store, now: time.Now}
}

// WithClock sets the clock used to stamp records.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Send saves the commit as the latest record of its session.
func (s *Store) Send(ctx context.Context, req domain.CommitRequest) (domain.CommitResult, error) {
	rec, err := req.Record(s.now().UTC())
	if err != nil {
		return domain.CommitResult{}, err
	}
	if err := s.store.Save(ctx, rec); err != nil {
		return domain.CommitResult{}, fmt.Errorf("failed to save commit: %w", err)
	}
	return domain.CommitResult{Success: true}, nil
}
