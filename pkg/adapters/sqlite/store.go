package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/scorm/pkg/domain"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

const schema = `CREATE TABLE IF NOT EXISTS commits (
	session_id   TEXT PRIMARY KEY,
	variant      TEXT NOT NULL,
	format       TEXT NOT NULL,
	terminated   INTEGER NOT NULL,
	committed_at TEXT NOT NULL,
	body         BLOB NOT NULL
)`

// Store implements ports.CommitStore on a single SQLite table.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens or creates the database at path. An empty path defaults to
// "scorm.db"; ":memory:" keeps everything in memory.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = "scorm.db"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("failed to create directories: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// One connection: an in-memory database exists per connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create commits table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the database location.
func (s *Store) Path() string { return s.path }

// Save upserts the record of the session.
func (s *Store) Save(ctx context.Context, rec *domain.CommitRecord) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO commits (session_id, variant, format, terminated, committed_at, body)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			variant = excluded.variant,
			format = excluded.format,
			terminated = excluded.terminated,
			committed_at = excluded.committed_at,
			body = excluded.body`,
		rec.SessionID, rec.Variant, string(rec.Format), rec.Terminated,
		rec.CommittedAt.UTC().Format(time.RFC3339Nano), []byte(rec.Body))
	if err != nil {
		return fmt.Errorf("failed to save commit: %w", err)
	}
	return nil
}

// Load retrieves the record of the session.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.CommitRecord, error) {
	var (
		rec         domain.CommitRecord
		format      string
		committedAt string
		body        []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id, variant, format, terminated, committed_at, body FROM commits WHERE session_id = ?`,
		sessionID,
	).Scan(&rec.SessionID, &rec.Variant, &format, &rec.Terminated, &committedAt, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load commit: %w", err)
	}
	at, err := time.Parse(time.RFC3339Nano, committedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse commit time: %w", err)
	}
	rec.Format = domain.PayloadFormat(format)
	rec.CommittedAt = at
	rec.Body = body
	return &rec, nil
}

// Delete removes the record of the session.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM commits WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete commit: %w", err)
	}
	return nil
}

// List returns the sessions with a record, sorted.
func (s *Store) List(ctx context.Context) (ids []string, retErr error) {
	rows, err := s.db.QueryContext(ctx, `SELECT session_id FROM commits ORDER BY session_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list commits: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil && retErr == nil {
			retErr = err
		}
	}()
	ids = []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan commit: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
