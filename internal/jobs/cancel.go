package jobs

import "sync/atomic"

// CancelFlag is the shared cancellation signal for the active job.
// Set may be called from any goroutine while the pipeline read loop
// polls IsSet between output lines. Only one job runs at a time, so a
// single flag per App is sufficient.
type CancelFlag struct {
	cancelled atomic.Bool
}

// NewCancelFlag creates a flag in the not-cancelled state.
func NewCancelFlag() *CancelFlag {
	return &CancelFlag{}
}

// Reset clears the signal. Called at the start of every job.
func (f *CancelFlag) Reset() {
	f.cancelled.Store(false)
}

// Set marks the running job as cancelled. Idempotent; setting with no
// job running is a harmless no-op.
func (f *CancelFlag) Set() {
	f.cancelled.Store(true)
}

// IsSet reports whether cancellation has been requested.
func (f *CancelFlag) IsSet() bool {
	return f.cancelled.Load()
}
