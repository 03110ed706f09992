package transport_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/scorm"
	"github.com/aretw0/scorm/internal/logging"
	"github.com/aretw0/scorm/pkg/adapters/memory"
	"github.com/aretw0/scorm/pkg/domain"
	"github.com/aretw0/scorm/pkg/transport"
	"github.com/aretw0/scorm/pkg/variant/scorm2004"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{ *memory.Store }

func (failingStore) Save(context.Context, *domain.CommitRecord) error {
	return errors.New("disk full")
}

func TestStore_Send(t *testing.T) {
	at := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	store := memory.NewStore()
	tr := transport.NewStore(store).WithClock(func() time.Time { return at })

	res, err := tr.Send(context.Background(), jsonRequest("ignored"))
	require.NoError(t, err)
	assert.True(t, res.Success)

	rec, err := store.Load(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, "scorm12", rec.Variant)
	assert.True(t, rec.Terminated)
	assert.True(t, at.Equal(rec.CommittedAt))
	assert.JSONEq(t, `{"lesson_status":"passed"}`, string(rec.Body))
}

func TestStore_SaveError(t *testing.T) {
	tr := transport.NewStore(failingStore{memory.NewStore()})
	_, err := tr.Send(context.Background(), jsonRequest("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestStore_WithSession(t *testing.T) {
	store := memory.NewStore()
	settings := scorm.DefaultSettings()
	settings.CommitDestination = "store"
	settings.CommitPayloadFormat = "flattened"

	sess, err := scorm.New(scorm2004.New(),
		scorm.WithSettings(settings),
		scorm.WithTransport(transport.NewStore(store)),
		scorm.WithSessionID("learner-42"),
		scorm.WithLogger(logging.NewNop()),
	)
	require.NoError(t, err)
	require.True(t, sess.Initialize())
	require.True(t, sess.SetValue("cmi.location", "page-7", true))
	require.True(t, sess.Terminate(true))

	rec, err := store.Load(context.Background(), "learner-42")
	require.NoError(t, err)
	assert.Equal(t, "scorm2004", rec.Variant)
	assert.Equal(t, domain.FormatFlattened, rec.Format)
	assert.True(t, rec.Terminated)
	assert.Contains(t, string(rec.Body), `"cmi.location":"page-7"`)
}
