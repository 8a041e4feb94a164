package fixture

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/phrazzld/e2e-harness/internal/ciutil"
)

// Resource is a scoped value a Worker can release.
type Resource interface {
	Name() string
	State() State
	Close(ctx context.Context) error
}

// Worker owns the scoped resources of one test worker.
type Worker struct {
	id       string
	settings settings
	logger   *slog.Logger

	mu        sync.Mutex
	resources []Resource
	closed    bool

	closeOnce sync.Once
	closeErr  error
}

// NewWorker creates a worker scope. An empty id selects ciutil.WorkerID().
func NewWorker(id string, opts ...Option) *Worker {
	if id == "" {
		id = ciutil.WorkerID()
	}

	s := newSettings(opts)
	s.workerID = id

	return &Worker{
		id:       id,
		settings: s,
		logger:   s.logger.With(slog.String("worker", id)),
	}
}

// ID returns the worker identity.
func (w *Worker) ID() string {
	return w.id
}

// Register adds r to the worker. Resources are released in reverse
// registration order. Registering on a closed worker returns ErrClosed.
func (w *Worker) Register(r Resource) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	w.resources = append(w.resources, r)
	return nil
}

// Resources returns the registered resources in registration order.
func (w *Worker) Resources() []Resource {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Resource(nil), w.resources...)
}

// Close releases every registered resource, newest first. All resources are
// attempted even when some fail; the failures are joined. Close runs once and
// later calls return the first result.
func (w *Worker) Close(ctx context.Context) error {
	w.closeOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		resources := append([]Resource(nil), w.resources...)
		w.mu.Unlock()

		w.logger.Debug("closing worker scope", slog.Int("resources", len(resources)))

		var errs []error
		for i := len(resources) - 1; i >= 0; i-- {
			if err := resources[i].Close(ctx); err != nil {
				errs = append(errs, err)
			}
		}
		w.closeErr = errors.Join(errs...)

		if w.closeErr != nil {
			w.logger.Error("worker scope closed with errors", slog.Int("failures", len(errs)))
		} else {
			w.logger.Info("worker scope closed")
		}
	})
	return w.closeErr
}

// Provide creates a scoped resource that shares w's identity, logger and
// observer, and registers it with w. On a closed worker the returned scope is
// already closed.
func Provide[T any](w *Worker, name string, acquire AcquireFunc[T], release ReleaseFunc[T]) *Scoped[T] {
	s := NewScoped(name, acquire, release,
		WithLogger(w.settings.logger),
		WithObserver(w.settings.observer),
		WithWorkerID(w.id),
	)
	if err := w.Register(s); err != nil {
		_ = s.Close(context.Background())
	}
	return s
}
