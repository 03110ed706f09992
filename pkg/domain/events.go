package domain

// Operation names a public runtime operation as seen by listeners.
type Operation string

const (
	OpInitialize    Operation = "Initialize"
	OpTerminate     Operation = "Terminate"
	OpGetValue      Operation = "GetValue"
	OpSetValue      Operation = "SetValue"
	OpCommit        Operation = "Commit"
	OpCommitSuccess Operation = "CommitSuccess"
	OpCommitError   Operation = "CommitError"
)

// Operations lists every notifiable operation in a stable order.
var Operations = []Operation{
	OpInitialize, OpTerminate, OpGetValue, OpSetValue, OpCommit, OpCommitSuccess, OpCommitError,
}

// Callback receives the element path (empty for lifecycle operations) and the value.
// Callbacks run on the calling goroutine before the operation returns, after the
// session lock is released, so they may call back into the same session.
type Callback func(element, value string)
