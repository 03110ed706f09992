package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/scorm/pkg/adapters/sqlite"
	"github.com/aretw0/scorm/pkg/domain"
	"github.com/aretw0/scorm/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.CommitStore = (*sqlite.Store)(nil)

func TestSQLiteStore_Contract(t *testing.T) {
	store, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ports.RunCommitStoreContract(t, store)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "commits.db")
	ctx := context.Background()
	at := time.Date(2024, 6, 1, 8, 30, 0, 123, time.UTC)

	store, err := sqlite.NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, &domain.CommitRecord{
		SessionID:   "s-1",
		Variant:     "aicc",
		Format:      domain.FormatParams,
		Terminated:  true,
		CommittedAt: at,
		Body:        []byte(`["cmi.core.lesson_status=passed"]`),
	}))
	require.NoError(t, store.Close())

	reopened, err := sqlite.NewStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	rec, err := reopened.Load(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "aicc", rec.Variant)
	assert.Equal(t, domain.FormatParams, rec.Format)
	assert.True(t, rec.Terminated)
	assert.True(t, at.Equal(rec.CommittedAt))
	assert.JSONEq(t, `["cmi.core.lesson_status=passed"]`, string(rec.Body))
	assert.Equal(t, path, reopened.Path())
}
