package fixture

import "errors"

// State is the lifecycle state of a scoped resource.
type State int32

const (
	StateUninitialized State = iota
	StateAcquiring
	StateReady
	StateFailed
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateAcquiring:
		return "acquiring"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

var (
	// ErrAcquireFailed wraps the cause of a failed acquisition. The same error
	// is returned to every caller for the rest of the worker's life.
	ErrAcquireFailed = errors.New("resource acquisition failed")

	// ErrClosed is returned by Get once the scope has started closing.
	ErrClosed = errors.New("resource scope closed")
)
