package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/scorm/pkg/domain"
)

// Store implements ports.CommitStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.CommitRecord
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.CommitRecord),
	}
}

func clone(rec *domain.CommitRecord) *domain.CommitRecord {
	copied := *rec
	copied.Body = append([]byte(nil), rec.Body...)
	return &copied
}

// Save persists the record in memory.
func (s *Store) Save(ctx context.Context, rec *domain.CommitRecord) error {
	copied := clone(rec)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[rec.SessionID] = copied
	return nil
}

// Load retrieves the record from memory.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.CommitRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	// Copy on read so callers can't mutate the stored body
	return clone(rec), nil
}

// Delete removes the record.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns the sessions with a record, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.data))
	for id := range s.data {
		sessions = append(sessions, id)
	}
	sort.Strings(sessions)
	return sessions, nil
}
