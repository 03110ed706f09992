package runtime

import (
	"sync"
	"time"
)

// Timer is the handle of an armed trigger.
type Timer interface {
	Stop() bool
}

// AfterFunc arms f to run once after d. The callback must not run synchronously
// inside AfterFunc.
type AfterFunc func(d time.Duration, f func()) Timer

func systemAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SchedulerState is the state of the pending-trigger slot.
type SchedulerState int

const (
	SchedulerIdle SchedulerState = iota
	SchedulerArmed
	SchedulerFired
)

func (s SchedulerState) String() string {
	switch s {
	case SchedulerArmed:
		return "armed"
	case SchedulerFired:
		return "fired"
	default:
		return "idle"
	}
}

type pendingCommit struct {
	timer     Timer
	cancelled bool
	deadline  time.Time
}

// Scheduler owns the single deferred-commit slot of a session. Callbacks acquire
// mu, the session lock, before touching the slot.
type Scheduler struct {
	mu        sync.Locker
	afterFunc AfterFunc
	now       func() time.Time
	pending   *pendingCommit
	state     SchedulerState
}

// NewScheduler creates an idle scheduler.
func NewScheduler(mu sync.Locker, afterFunc AfterFunc, now func() time.Time) *Scheduler {
	if afterFunc == nil {
		afterFunc = systemAfterFunc
	}
	if now == nil {
		now = time.Now
	}
	return &Scheduler{mu: mu, afterFunc: afterFunc, now: now}
}

// State returns the slot state.
func (s *Scheduler) State() SchedulerState {
	return s.state
}

// Pending reports whether a trigger is armed.
func (s *Scheduler) Pending() bool {
	return s.pending != nil
}

// Deadline returns when the armed trigger is due.
func (s *Scheduler) Deadline() (time.Time, bool) {
	if s.pending == nil {
		return time.Time{}, false
	}
	return s.pending.deadline, true
}

// Schedule arms fire after d unless a trigger is already pending.
// The caller holds the session lock.
func (s *Scheduler) Schedule(d time.Duration, fire func()) bool {
	if s.pending != nil {
		return false
	}
	p := &pendingCommit{deadline: s.now().Add(d)}
	s.pending = p
	s.state = SchedulerArmed
	p.timer = s.afterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if p.cancelled || s.pending != p {
			return
		}
		s.pending = nil
		s.state = SchedulerFired
		fire()
	})
	return true
}

// Clear cancels the pending trigger. It is idempotent.
// The caller holds the session lock.
func (s *Scheduler) Clear() {
	if s.pending == nil {
		return
	}
	s.pending.cancelled = true
	if s.pending.timer != nil {
		s.pending.timer.Stop()
	}
	s.pending = nil
	s.state = SchedulerIdle
}
