package ports

import (
	"context"

	"github.com/aretw0/scorm/pkg/domain"
)

// CommitStore persists the latest commit of each session.
type CommitStore interface {
	// Save stores rec, replacing the previous record of the same session.
	Save(ctx context.Context, rec *domain.CommitRecord) error

	// Load retrieves the latest record of a session.
	// Returns domain.ErrRecordNotFound if there is none.
	Load(ctx context.Context, sessionID string) (*domain.CommitRecord, error)

	// Delete removes the record of a session. Deleting a missing record is not an error.
	Delete(ctx context.Context, sessionID string) error

	// List returns the session IDs that have a record.
	List(ctx context.Context) ([]string, error)
}
