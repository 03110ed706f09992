package runtime_test

import (
	"testing"
	"time"

	"github.com/aretw0/scorm/internal/runtime"
	"github.com/aretw0/scorm/internal/testutils"
	"github.com/stretchr/testify/require"
)

func newToySession(t *testing.T, opts ...runtime.Option) (*runtime.Session, *testutils.ToyVariant) {
	t.Helper()
	v := testutils.NewToyVariant()
	s, err := runtime.NewSession(v, opts...)
	require.NoError(t, err)
	return s, v
}

func withFakeClock(clock *testutils.FakeClock) runtime.Option {
	return runtime.WithAfterFunc(func(d time.Duration, f func()) runtime.Timer {
		return clock.AfterFunc(d, f)
	})
}

func autocommitConfig(interval time.Duration) runtime.Config {
	cfg := runtime.DefaultConfig()
	cfg.Autocommit = true
	cfg.AutocommitInterval = interval
	cfg.CommitDestination = "memory://commits"
	return cfg
}
