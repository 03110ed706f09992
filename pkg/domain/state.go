package domain

// LifecycleState is the session lifecycle. It only moves forward:
// NotInitialized -> Initialized -> Terminated.
type LifecycleState int

const (
	StateNotInitialized LifecycleState = iota // Initial state, tree may be hydrated
	StateInitialized                          // Content is running
	StateTerminated                           // Sink state, tree stays readable
)

func (s LifecycleState) String() string {
	switch s {
	case StateNotInitialized:
		return "not_initialized"
	case StateInitialized:
		return "initialized"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// SCORM boolean tokens returned by the content-facing API.
const (
	True  = "true"
	False = "false"
)

// Bool converts a success flag into the SCORM token.
func Bool(ok bool) string {
	if ok {
		return True
	}
	return False
}
