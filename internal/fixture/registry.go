package fixture

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/phrazzld/e2e-harness/internal/ciutil"
)

// Registry maps worker identities to Worker scopes for processes that host
// several workers.
type Registry struct {
	opts []Option

	mu      sync.Mutex
	workers map[string]*Worker
}

// NewRegistry creates an empty registry. opts apply to every worker it creates.
func NewRegistry(opts ...Option) *Registry {
	return &Registry{
		opts:    opts,
		workers: make(map[string]*Worker),
	}
}

// Worker returns the scope for id, creating it on first use. An empty id
// selects ciutil.WorkerID().
func (r *Registry) Worker(id string) *Worker {
	if id == "" {
		id = ciutil.WorkerID()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if w, ok := r.workers[id]; ok {
		return w
	}
	w := NewWorker(id, r.opts...)
	r.workers[id] = w
	return w
}

// IDs returns the registered worker identities in sorted order.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.workers))
	for id := range r.workers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Shutdown closes every worker concurrently and joins their errors. Workers
// stay in the registry; closing them again is a no-op.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	workers := make([]*Worker, 0, len(r.workers))
	for _, w := range r.workers {
		workers = append(workers, w)
	}
	r.mu.Unlock()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, w := range workers {
		wg.Add(1)
		go func(w *Worker) {
			defer wg.Done()
			if err := w.Close(ctx); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()

	return errors.Join(errs...)
}
