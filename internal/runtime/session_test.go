package runtime_test

import (
	"errors"
	"testing"
	"time"

	"github.com/aretw0/scorm/internal/runtime"
	"github.com/aretw0/scorm/internal/testutils"
	"github.com/aretw0/scorm/pkg/cmi"
	"github.com/aretw0/scorm/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_Lifecycle(t *testing.T) {
	t.Run("Initialize is not reentrant", func(t *testing.T) {
		s, _ := newToySession(t)
		require.True(t, s.Initialize())
		assert.Equal(t, "0", s.GetLastError())

		require.True(t, s.SetValue("cmi.suspend_data", "abc", true))
		assert.False(t, s.Initialize())
		assert.Equal(t, "103", s.GetLastError())
		assert.Equal(t, domain.StateInitialized, s.State())
		assert.Equal(t, "abc", s.GetValue("cmi.suspend_data", true))
	})

	t.Run("Initialize after Terminate", func(t *testing.T) {
		s, _ := newToySession(t)
		require.True(t, s.Initialize())
		require.True(t, s.Terminate(true))
		assert.False(t, s.Initialize())
		assert.Equal(t, "104", s.GetLastError())
		assert.Equal(t, domain.StateTerminated, s.State())
	})

	t.Run("Terminate before Initialize", func(t *testing.T) {
		s, v := newToySession(t)
		assert.False(t, s.Terminate(true))
		assert.Equal(t, "112", s.GetLastError())
		assert.Equal(t, domain.StateNotInitialized, s.State())
		assert.Zero(t, v.Finalized)
	})

	t.Run("Terminate twice", func(t *testing.T) {
		s, v := newToySession(t)
		require.True(t, s.Initialize())
		require.True(t, s.Terminate(true))
		assert.False(t, s.Terminate(true))
		assert.Equal(t, "113", s.GetLastError())

		assert.True(t, s.Terminate(false), "unchecked repeat succeeds")
		assert.Equal(t, "0", s.GetLastError())
		assert.Equal(t, 1, v.Finalized, "the finalizer runs once")
	})
}

func TestSession_Guards(t *testing.T) {
	t.Run("Before Initialize", func(t *testing.T) {
		s, _ := newToySession(t)
		calls := 0
		s.On("SetValue GetValue Commit", func(string, string) { calls++ })

		assert.False(t, s.SetValue("cmi.suspend_data", "x", true))
		assert.Equal(t, "132", s.GetLastError())
		assert.Equal(t, "", s.GetValue("cmi.suspend_data", true))
		assert.Equal(t, "122", s.GetLastError())
		assert.False(t, s.Commit(true))
		assert.Equal(t, "142", s.GetLastError())
		assert.Zero(t, calls)

		obj := s.ExportJSONObject()
		cmiObj, _ := obj.Get("cmi")
		suspend, _ := cmiObj.(*domain.Object).Get("suspend_data")
		assert.Equal(t, "", suspend, "tree unchanged")
	})

	t.Run("After Terminate", func(t *testing.T) {
		s, _ := newToySession(t)
		require.True(t, s.Initialize())
		require.True(t, s.SetValue("cmi.suspend_data", "kept", true))
		require.True(t, s.Terminate(true))

		calls := 0
		s.On("SetValue GetValue Commit", func(string, string) { calls++ })

		assert.False(t, s.SetValue("cmi.suspend_data", "x", true))
		assert.Equal(t, "133", s.GetLastError())
		assert.Equal(t, "", s.GetValue("cmi.suspend_data", true))
		assert.Equal(t, "123", s.GetLastError())
		assert.False(t, s.Commit(true))
		assert.Equal(t, "143", s.GetLastError())
		assert.Zero(t, calls)

		assert.Equal(t, "kept", s.GetValue("cmi.suspend_data", false), "unchecked reads stay available")
		assert.Equal(t, "0", s.GetLastError())
		assert.Equal(t, 1, calls)
	})
}

func TestSession_RoundTrip(t *testing.T) {
	s, _ := newToySession(t)
	require.True(t, s.Initialize())

	cases := []struct{ path, value string }{
		{"cmi.core.lesson_status", "passed"},
		{"cmi.core.score.raw", "80"},
		{"cmi.core.score.max", "99.5"},
		{"cmi.suspend_data", "page=3"},
		{"cmi.interactions.0.id", "q1"},
		{"cmi.interactions.0.result", "correct"},
		{"cmi.interactions.0.objectives.0.id", "obj-1"},
	}
	for _, tc := range cases {
		require.True(t, s.SetValue(tc.path, tc.value, true), tc.path)
		assert.Equal(t, "0", s.GetLastError(), tc.path)
		assert.Equal(t, tc.value, s.GetValue(tc.path, true), tc.path)
		assert.Equal(t, "0", s.GetLastError(), tc.path)
	}
}

func TestSession_ErrorRegister(t *testing.T) {
	s, _ := newToySession(t)
	require.True(t, s.Initialize())

	assert.False(t, s.SetValue("cmi.core.score.raw", "abc", true))
	assert.Equal(t, "406", s.GetLastError())
	assert.Equal(t, "Data Model Element Type Mismatch", s.GetErrorString("406"))
	assert.NotEmpty(t, s.GetDiagnostic(""))
	assert.Equal(t, "406", s.GetLastError(), "error lookups do not mutate the register")

	assert.False(t, s.SetValue("cmi.core.score.raw", "101", true))
	assert.Equal(t, "407", s.GetLastError())
	assert.Equal(t, "", s.GetValue("cmi.core.score.raw", true))

	assert.True(t, s.SetValue("cmi.core.score.raw", "100", true))
	assert.Equal(t, "0", s.GetLastError())

	assert.Equal(t, "", s.GetErrorString("999"))
	assert.Equal(t, "The data model element is not defined.", s.GetDiagnostic("401"))
}

func TestSession_SequentialGrowth(t *testing.T) {
	s, _ := newToySession(t)
	require.True(t, s.Initialize())

	require.True(t, s.SetValue("cmi.interactions.0.id", "a", true))
	assert.False(t, s.SetValue("cmi.interactions.2.id", "b", true))
	assert.Equal(t, "401", s.GetLastError())
	assert.Equal(t, "1", s.GetValue("cmi.interactions._count", true))
}

func TestSession_Listeners(t *testing.T) {
	s, _ := newToySession(t)
	require.True(t, s.Initialize())

	type call struct{ element, value string }
	var calls []call
	s.On("SetValue.cmi.core.score.raw", func(element, value string) {
		calls = append(calls, call{element, value})
	})

	require.True(t, s.SetValue("cmi.core.score.raw", "80", true))
	require.True(t, s.SetValue("cmi.core.score.min", "10", true))

	require.Len(t, calls, 1)
	assert.Equal(t, call{"cmi.core.score.raw", "80"}, calls[0])

	t.Run("Failed writes are notified", func(t *testing.T) {
		var values []string
		s.On("SetValue", func(_, value string) { values = append(values, value) })
		assert.False(t, s.SetValue("cmi.core.score.raw", "abc", true))
		assert.Equal(t, []string{"abc"}, values)
	})

	t.Run("Callback panics propagate", func(t *testing.T) {
		s.On("GetValue.cmi.suspend_data", func(string, string) { panic("listener fault") })
		assert.PanicsWithValue(t, "listener fault", func() { s.GetValue("cmi.suspend_data", true) })
		assert.True(t, s.SetValue("cmi.suspend_data", "still usable", true), "the session lock was released")
	})

	t.Run("Variant aliases", func(t *testing.T) {
		fired := false
		s.On("LMSCommit", func(string, string) { fired = true })
		require.True(t, s.Commit(true))
		assert.True(t, fired)
	})
}

func TestSession_Scheduler(t *testing.T) {
	clock := &testutils.FakeClock{}
	transport := testutils.NewRecordingTransport()
	s, _ := newToySession(t,
		runtime.WithConfig(autocommitConfig(time.Second)),
		runtime.WithTransport(transport),
		withFakeClock(clock),
	)
	require.True(t, s.Initialize())

	require.True(t, s.SetValue("cmi.suspend_data", "a", true))
	require.Len(t, clock.Timers, 1)
	armed := clock.Last()
	assert.Equal(t, time.Second, armed.Delay)
	assert.Equal(t, runtime.SchedulerArmed, s.SchedulerState())

	require.True(t, s.SetValue("cmi.suspend_data", "b", true))
	assert.Len(t, clock.Timers, 1, "a pending trigger is not re-armed")

	assert.False(t, s.SetValue("cmi.core.score.raw", "x", true))
	assert.Len(t, clock.Timers, 1)

	require.True(t, s.Commit(true))
	assert.Equal(t, 1, transport.Count())
	assert.True(t, armed.Stopped())
	assert.Equal(t, runtime.SchedulerIdle, s.SchedulerState())

	armed.Fire()
	assert.Equal(t, 1, transport.Count(), "a cancelled trigger never commits")

	t.Run("Fired trigger commits once", func(t *testing.T) {
		require.True(t, s.SetValue("cmi.suspend_data", "c", true))
		require.Len(t, clock.Timers, 2)
		next := clock.Last()

		next.Fire()
		assert.Equal(t, 2, transport.Count())
		assert.Equal(t, runtime.SchedulerFired, s.SchedulerState())

		next.Fire()
		assert.Equal(t, 2, transport.Count())

		require.True(t, s.Commit(true))
		assert.Equal(t, 3, transport.Count(), "a later explicit commit is independent")
	})

	t.Run("Terminate cancels the trigger", func(t *testing.T) {
		require.True(t, s.SetValue("cmi.suspend_data", "d", true))
		pending := clock.Last()
		require.True(t, s.Terminate(true))
		count := transport.Count()
		pending.Fire()
		assert.Equal(t, count, transport.Count())
		assert.True(t, transport.Requests[count-1].Terminated)
	})
}

func TestSession_Commit(t *testing.T) {
	t.Run("No destination surfaces the payload", func(t *testing.T) {
		s, _ := newToySession(t)
		require.True(t, s.Initialize())
		require.True(t, s.SetValue("cmi.suspend_data", "x", true))
		require.True(t, s.Commit(true))

		p, ok := s.LastPayload()
		require.True(t, ok)
		assert.Equal(t, domain.FormatJSON, p.Format)
		assert.NotNil(t, p.Object)
	})

	t.Run("Transport fault", func(t *testing.T) {
		transport := testutils.NewRecordingTransport()
		transport.Err = errors.New("connection refused")
		cfg := runtime.DefaultConfig()
		cfg.CommitDestination = "http://lms.invalid/commit"
		s, _ := newToySession(t, runtime.WithConfig(cfg), runtime.WithTransport(transport), runtime.WithSessionID("s-42"))

		var events []string
		s.On("CommitSuccess CommitError Commit", func(string, string) { events = append(events, "fired") })
		require.True(t, s.Initialize())

		assert.False(t, s.Commit(true))
		assert.Equal(t, "391", s.GetLastError())
		assert.Contains(t, s.GetDiagnostic(""), "connection refused")
		assert.Len(t, events, 2)
		assert.Equal(t, "s-42", transport.Requests[0].SessionID)
		assert.Equal(t, "toy", transport.Requests[0].Variant)
	})

	t.Run("Receiver error code", func(t *testing.T) {
		transport := testutils.NewRecordingTransport()
		transport.Result = domain.CommitResult{Success: false, ErrorCode: 101}
		cfg := runtime.DefaultConfig()
		cfg.CommitDestination = "http://lms.invalid/commit"
		s, _ := newToySession(t, runtime.WithConfig(cfg), runtime.WithTransport(transport))
		require.True(t, s.Initialize())

		assert.False(t, s.Commit(true))
		assert.Equal(t, "101", s.GetLastError())
	})

	t.Run("Terminate finalizes", func(t *testing.T) {
		now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
		transport := testutils.NewRecordingTransport()
		cfg := runtime.DefaultConfig()
		cfg.CommitDestination = "memory://"
		cfg.MasteryOverride = true
		s, v := newToySession(t,
			runtime.WithConfig(cfg),
			runtime.WithTransport(transport),
			runtime.WithClock(func() time.Time { return now }),
		)
		require.True(t, s.Initialize())
		now = now.Add(90 * time.Second)
		require.True(t, s.Terminate(true))

		assert.Equal(t, 1, v.Finalized)
		assert.Equal(t, 90*time.Second, v.LastFinalize.Elapsed)
		assert.True(t, v.LastFinalize.MasteryOverride)
		require.Len(t, transport.Requests, 1)
		assert.True(t, transport.Requests[0].Terminated)
		assert.Equal(t, "completed", s.GetValue("cmi.core.lesson_status", false))
	})
}

func TestSession_LoadFromJSON(t *testing.T) {
	data := map[string]any{
		"core": map[string]any{
			"student_id":    "learner-7",
			"lesson_status": "not attempted",
			"score":         map[string]any{"raw": 42.5},
		},
		"interactions": []any{
			map[string]any{"id": "q1", "result": "wrong"},
			map[string]any{"id": "q2"},
		},
		"suspend_data": nil,
	}

	t.Run("Before Initialize", func(t *testing.T) {
		s, _ := newToySession(t)
		require.True(t, s.LoadFromJSON(data, ""))
		require.True(t, s.Initialize())

		assert.Equal(t, "learner-7", s.GetValue("cmi.core.student_id", true))
		assert.Equal(t, "not attempted", s.GetValue("cmi.core.lesson_status", true))
		assert.Equal(t, "42.5", s.GetValue("cmi.core.score.raw", true))
		assert.Equal(t, "2", s.GetValue("cmi.interactions._count", true))
		assert.Equal(t, "wrong", s.GetValue("cmi.interactions.0.result", true))
	})

	t.Run("Equivalent to writes", func(t *testing.T) {
		loaded, _ := newToySession(t)
		loaded.LoadFromJSON(map[string]any{"cmi": map[string]any{"suspend_data": "abc", "core": map[string]any{"score": map[string]any{"min": "5"}}}}, "")

		written, _ := newToySession(t)
		require.True(t, written.Initialize())
		require.True(t, written.SetValue("cmi.suspend_data", "abc", true))
		require.True(t, written.SetValue("cmi.core.score.min", "5", true))

		a, err := loaded.ExportJSONString()
		require.NoError(t, err)
		b, err := written.ExportJSONString()
		require.NoError(t, err)
		assert.JSONEq(t, b, a)
	})

	t.Run("After Initialize", func(t *testing.T) {
		s, _ := newToySession(t)
		require.True(t, s.Initialize())
		require.True(t, s.SetValue("cmi.core.score.raw", "80", true))
		require.False(t, s.SetValue("cmi.core.score.raw", "x", true))

		assert.False(t, s.LoadFromJSON(data, ""))
		assert.Equal(t, "406", s.GetLastError(), "no failure code is reported")
		assert.Equal(t, "80", s.GetValue("cmi.core.score.raw", true))
		assert.Equal(t, "0", s.GetValue("cmi.interactions._count", true))
	})

	t.Run("Flattened absolute keys", func(t *testing.T) {
		s, _ := newToySession(t)
		require.True(t, s.LoadFromJSON(map[string]any{
			"cmi.suspend_data":      "p9",
			"cmi.interactions.0.id": "q1",
		}, ""))
		require.True(t, s.Initialize())
		assert.Equal(t, "p9", s.GetValue("cmi.suspend_data", true))
		assert.Equal(t, "q1", s.GetValue("cmi.interactions.0.id", true))
	})
}

func TestSession_EmptyPathWrite(t *testing.T) {
	clock := &testutils.FakeClock{}
	s, _ := newToySession(t, runtime.WithConfig(autocommitConfig(time.Second)), withFakeClock(clock))
	fired := 0
	s.On("SetValue", func(string, string) { fired++ })
	require.True(t, s.Initialize())
	require.False(t, s.SetValue("cmi.core.score.raw", "x", true))
	fired = 0

	assert.True(t, s.SetValue("", "x", true))
	assert.Equal(t, "0", s.GetLastError())
	assert.Zero(t, fired, "nothing is addressed, nothing is notified")
	assert.Empty(t, clock.Timers)
	assert.Equal(t, runtime.SchedulerIdle, s.SchedulerState())
}

func TestSession_ListenersReenter(t *testing.T) {
	s, _ := newToySession(t)
	require.True(t, s.Initialize())

	var codes []string
	s.On("SetValue", func(string, string) {
		codes = append(codes, s.GetLastError())
	})
	s.On("SetValue.cmi.core.score.raw", func(_, value string) {
		s.SetValue("cmi.suspend_data", "raw="+value, true)
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.SetValue("cmi.core.score.raw", "80", true)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("a listener calling back into the session blocked")
	}

	assert.Equal(t, "raw=80", s.GetValue("cmi.suspend_data", true))
	assert.Equal(t, []string{"0", "0"}, codes)
}

func TestSession_Inspect(t *testing.T) {
	s, _ := newToySession(t)
	s.Inspect(func(tree *cmi.Composite) {
		require.Nil(t, cmi.Assign(tree, "cmi.core.student_id", "abc"))
	})
	require.True(t, s.Initialize())
	assert.Equal(t, "abc", s.GetValue("cmi.core.student_id", true))
}

func TestNewSession_InvalidConfig(t *testing.T) {
	cfg := runtime.DefaultConfig()
	cfg.PayloadFormat = "xml"
	_, err := runtime.NewSession(testutils.NewToyVariant(), runtime.WithConfig(cfg))
	assert.Error(t, err)

	cfg = runtime.DefaultConfig()
	cfg.Autocommit = true
	cfg.AutocommitInterval = 0
	_, err = runtime.NewSession(testutils.NewToyVariant(), runtime.WithConfig(cfg))
	assert.Error(t, err)
}
