package ports

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/aretw0/scorm/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractRecord(sessionID, status string) *domain.CommitRecord {
	return &domain.CommitRecord{
		SessionID:   sessionID,
		Variant:     "scorm12",
		Format:      domain.FormatJSON,
		CommittedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Body:        json.RawMessage(`{"cmi":{"core":{"lesson_status":"` + status + `"}}}`),
	}
}

// RunCommitStoreContract runs a suite of tests to verify that a CommitStore implementation
// adheres to the defined interface contract.
func RunCommitStoreContract(t *testing.T, store CommitStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		rec := contractRecord(sessionID, "incomplete")
		require.NoError(t, store.Save(ctx, rec), "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, rec.SessionID, loaded.SessionID)
		assert.Equal(t, rec.Variant, loaded.Variant)
		assert.Equal(t, rec.Format, loaded.Format)
		assert.True(t, rec.CommittedAt.Equal(loaded.CommittedAt))
		assert.JSONEq(t, string(rec.Body), string(loaded.Body))
	})

	t.Run("Save replaces the previous record", func(t *testing.T) {
		rec := contractRecord(sessionID, "passed")
		rec.Terminated = true
		require.NoError(t, store.Save(ctx, rec))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.True(t, loaded.Terminated)
		assert.Contains(t, string(loaded.Body), "passed")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, contractRecord(sessionID, "failed")))

		require.NoError(t, store.Delete(ctx, sessionID), "Delete should not return error")

		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrRecordNotFound, "Load after Delete should return ErrRecordNotFound")

		assert.NoError(t, store.Delete(ctx, sessionID), "Deleting twice should not fail")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		require.NoError(t, store.Save(ctx, contractRecord(id1, "completed")))
		require.NoError(t, store.Save(ctx, contractRecord(id2, "completed")))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
