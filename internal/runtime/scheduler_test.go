package runtime_test

import (
	"sync"
	"testing"
	"time"

	"github.com/aretw0/scorm/internal/runtime"
	"github.com/aretw0/scorm/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler(t *testing.T) {
	var mu sync.Mutex
	clock := &testutils.FakeClock{}
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := runtime.NewScheduler(&mu, func(d time.Duration, f func()) runtime.Timer {
		return clock.AfterFunc(d, f)
	}, func() time.Time { return start })

	fired := 0
	fire := func() { fired++ }

	assert.Equal(t, runtime.SchedulerIdle, s.State())
	s.Clear()
	assert.Equal(t, runtime.SchedulerIdle, s.State(), "clearing nothing is harmless")

	require.True(t, s.Schedule(5*time.Second, fire))
	assert.False(t, s.Schedule(time.Second, fire))
	assert.True(t, s.Pending())
	deadline, ok := s.Deadline()
	require.True(t, ok)
	assert.Equal(t, start.Add(5*time.Second), deadline)

	clock.Last().Fire()
	assert.Equal(t, 1, fired)
	assert.Equal(t, runtime.SchedulerFired, s.State())
	assert.False(t, s.Pending())

	require.True(t, s.Schedule(5*time.Second, fire))
	s.Clear()
	s.Clear()
	clock.Last().Fire()
	assert.Equal(t, 1, fired)
	assert.Equal(t, runtime.SchedulerIdle, s.State())
}

func TestScheduler_RealTimer(t *testing.T) {
	var mu sync.Mutex
	s := runtime.NewScheduler(&mu, nil, nil)

	done := make(chan struct{})
	mu.Lock()
	s.Schedule(10*time.Millisecond, func() { close(done) })
	mu.Unlock()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("trigger did not fire")
	}
}
