package fixture

import (
	"log/slog"
	"time"
)

// Observer receives lifecycle events from scoped resources. Implementations
// must be safe for concurrent use.
type Observer interface {
	Acquired(worker, resource string, d time.Duration)
	AcquireFailed(worker, resource string, err error)
	Released(worker, resource string, err error)
}

type settings struct {
	logger   *slog.Logger
	observer Observer
	workerID string
}

// Option configures a Worker, Registry or Scoped resource.
type Option func(*settings)

// WithLogger sets the logger lifecycle transitions are written to.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithObserver reports lifecycle events to o.
func WithObserver(o Observer) Option {
	return func(s *settings) {
		s.observer = o
	}
}

// WithWorkerID overrides the worker identity attached to logs and events.
func WithWorkerID(id string) Option {
	return func(s *settings) {
		s.workerID = id
	}
}

func newSettings(opts []Option) settings {
	s := settings{logger: slog.Default()}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

type nopObserver struct{}

func (nopObserver) Acquired(string, string, time.Duration) {}
func (nopObserver) AcquireFailed(string, string, error) {}
func (nopObserver) Released(string, string, error) {}

func (s settings) observerOrNop() Observer {
	if s.observer == nil {
		return nopObserver{}
	}
	return s.observer
}
