package fixture

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/e2e-harness/internal/redact"
)

// AcquireFunc creates the resource. It runs at most once per scope, detached
// from the cancellation of the caller that triggered it, so it must bound its
// own blocking work.
type AcquireFunc[T any] func(ctx context.Context) (T, error)

// ReleaseFunc destroys a resource created by the matching AcquireFunc.
type ReleaseFunc[T any] func(ctx context.Context, v T) error

// Scoped is a resource acquired on first demand and shared until Close.
type Scoped[T any] struct {
	name     string
	workerID string
	acquire  AcquireFunc[T]
	release  ReleaseFunc[T]
	logger   *slog.Logger
	observer Observer

	mu           sync.Mutex
	state        State
	closing      bool
	orphaned     bool
	done         chan struct{}
	value        T
	err          error
	acquisitions int

	closeOnce sync.Once
	closeErr  error
}

// NewScoped creates a scope named name. A nil release leaves the value to the
// garbage collector.
func NewScoped[T any](name string, acquire AcquireFunc[T], release ReleaseFunc[T], opts ...Option) *Scoped[T] {
	if acquire == nil {
		panic("acquire cannot be nil")
	}

	s := newSettings(opts)
	return &Scoped[T]{
		name:     name,
		workerID: s.workerID,
		acquire:  acquire,
		release:  release,
		logger: s.logger.With(
			slog.String("resource", name),
			slog.String("worker", s.workerID),
		),
		observer: s.observerOrNop(),
	}
}

// Name returns the resource name.
func (s *Scoped[T]) Name() string {
	return s.name
}

// State returns the current lifecycle state.
func (s *Scoped[T]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Acquisitions returns how many times acquisition has been attempted. It
// never exceeds one.
func (s *Scoped[T]) Acquisitions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.acquisitions
}

// Get returns the resource, acquiring it on the first call. Concurrent callers
// share one acquisition attempt; each waits only as long as its own ctx
// allows. A failed attempt is remembered and returned to every later caller.
func (s *Scoped[T]) Get(ctx context.Context) (T, error) {
	var zero T

	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		return zero, ErrClosed
	}

	switch s.state {
	case StateReady:
		v := s.value
		s.mu.Unlock()
		return v, nil
	case StateFailed:
		err := s.err
		s.mu.Unlock()
		return zero, err
	case StateUninitialized:
		s.state = StateAcquiring
		s.acquisitions++
		s.done = make(chan struct{})
		s.logger.Debug("acquiring resource", slog.String("state", StateAcquiring.String()))
		go s.run(context.WithoutCancel(ctx), s.done)
	}
	done := s.done
	s.mu.Unlock()

	select {
	case <-done:
	case <-ctx.Done():
		return zero, ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.state == StateReady && !s.closing:
		return s.value, nil
	case s.state == StateFailed:
		return zero, s.err
	default:
		return zero, ErrClosed
	}
}

// Use returns the resource for tb, failing the test when it is unavailable.
// When the test binary has a deadline, the wait ends before it so a hung
// acquisition fails the test instead of tripping the go test timeout.
func (s *Scoped[T]) Use(tb testing.TB) T {
	tb.Helper()
	ctx, cancel := useContext(tb)
	defer cancel()

	v, err := s.Get(ctx)
	if err != nil {
		tb.Fatalf("%s unavailable: %v", s.name, err)
	}
	return v
}

// deadliner is implemented by *testing.T.
type deadliner interface {
	Deadline() (time.Time, bool)
}

func useContext(tb testing.TB) (context.Context, context.CancelFunc) {
	if d, ok := tb.(deadliner); ok {
		if deadline, ok := d.Deadline(); ok {
			return context.WithTimeout(context.Background(), time.Until(deadline)*9/10)
		}
	}
	return context.WithCancel(context.Background())
}

func (s *Scoped[T]) run(ctx context.Context, done chan struct{}) {
	start := time.Now()
	v, err := s.safeAcquire(ctx)
	elapsed := time.Since(start)

	if err != nil {
		err = fmt.Errorf("%w: %s: %w", ErrAcquireFailed, s.name, err)
		s.logger.Error("resource acquisition failed",
			slog.String("state", StateFailed.String()),
			slog.Duration("duration", elapsed),
			slog.String("error", redact.Error(err)))
		s.observer.AcquireFailed(s.workerID, s.name, err)
	} else {
		s.logger.Info("resource acquired",
			slog.String("state", StateReady.String()),
			slog.Duration("duration", elapsed))
		s.observer.Acquired(s.workerID, s.name, elapsed)
	}

	s.mu.Lock()
	if err != nil {
		s.state = StateFailed
		s.err = err
	} else {
		s.state = StateReady
		s.value = v
	}
	orphaned := s.orphaned
	close(done)
	s.mu.Unlock()

	// Close gave up waiting for this acquisition; release on its behalf.
	if orphaned && err == nil {
		_ = s.finishClose(context.Background(), v)
	}
}

func (s *Scoped[T]) safeAcquire(ctx context.Context) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during acquisition: %v", r)
		}
	}()
	return s.acquire(ctx)
}

// Close releases the resource if one was acquired. It runs once; later calls
// return the first result. An in-flight acquisition is waited for until ctx
// expires, after which the acquisition releases its own result.
func (s *Scoped[T]) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		s.closeErr = s.close(ctx)
	})
	return s.closeErr
}

func (s *Scoped[T]) close(ctx context.Context) error {
	s.mu.Lock()
	s.closing = true
	if s.state == StateUninitialized {
		s.state = StateClosed
		s.mu.Unlock()
		s.logger.Debug("resource closed without being acquired", slog.String("state", StateClosed.String()))
		return nil
	}
	done := s.done
	s.mu.Unlock()

	select {
	case <-done:
	case <-ctx.Done():
	}

	s.mu.Lock()
	switch s.state {
	case StateAcquiring:
		s.orphaned = true
		s.mu.Unlock()
		s.logger.Warn("close gave up waiting for acquisition", slog.String("state", StateAcquiring.String()))
		return fmt.Errorf("close %s: %w", s.name, ctx.Err())
	case StateFailed:
		s.state = StateClosed
		s.mu.Unlock()
		s.logger.Debug("failed resource closed", slog.String("state", StateClosed.String()))
		return nil
	}
	v := s.value
	s.mu.Unlock()

	return s.finishClose(ctx, v)
}

func (s *Scoped[T]) finishClose(ctx context.Context, v T) error {
	s.mu.Lock()
	s.state = StateClosing
	s.mu.Unlock()

	start := time.Now()
	err := s.safeRelease(ctx, v)

	if err != nil {
		s.logger.Error("resource release failed",
			slog.String("state", StateClosed.String()),
			slog.Duration("duration", time.Since(start)),
			slog.String("error", redact.Error(err)))
		err = fmt.Errorf("release %s: %w", s.name, err)
	} else {
		s.logger.Info("resource released",
			slog.String("state", StateClosed.String()),
			slog.Duration("duration", time.Since(start)))
	}
	s.observer.Released(s.workerID, s.name, err)

	s.mu.Lock()
	var zero T
	s.value = zero
	s.state = StateClosed
	s.mu.Unlock()

	return err
}

func (s *Scoped[T]) safeRelease(ctx context.Context, v T) (err error) {
	if s.release == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during release: %v", r)
		}
	}()
	return s.release(ctx, v)
}
