package testutils

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/scorm/pkg/domain"
)

// FakeTimer is a trigger armed through FakeClock.AfterFunc.
type FakeTimer struct {
	Delay   time.Duration
	fn      func()
	stopped bool
}

// Stop marks the timer as stopped. Like time.Timer, a stopped timer can still be
// fired by a test to simulate a callback that was already running.
func (t *FakeTimer) Stop() bool {
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

// Stopped reports whether Stop was called.
func (t *FakeTimer) Stopped() bool { return t.stopped }

// Fire runs the callback on the calling goroutine.
func (t *FakeTimer) Fire() { t.fn() }

// FakeClock records armed timers instead of starting real ones.
type FakeClock struct {
	mu     sync.Mutex
	Timers []*FakeTimer
}

// AfterFunc has the signature of the scheduler's timer factory.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) *FakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &FakeTimer{Delay: d, fn: f}
	c.Timers = append(c.Timers, t)
	return t
}

// Last returns the most recently armed timer.
func (c *FakeClock) Last() *FakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.Timers) == 0 {
		return nil
	}
	return c.Timers[len(c.Timers)-1]
}

// RecordingTransport keeps every commit request it receives.
type RecordingTransport struct {
	mu       sync.Mutex
	Requests []domain.CommitRequest
	Result   domain.CommitResult
	Err      error
}

// NewRecordingTransport creates a transport that accepts every commit.
func NewRecordingTransport() *RecordingTransport {
	return &RecordingTransport{Result: domain.CommitResult{Success: true}}
}

// Send records req and returns the configured result.
func (t *RecordingTransport) Send(_ context.Context, req domain.CommitRequest) (domain.CommitResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Requests = append(t.Requests, req)
	return t.Result, t.Err
}

// Count returns the number of commits received.
func (t *RecordingTransport) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.Requests)
}
