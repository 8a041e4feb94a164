package fixture

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/phrazzld/e2e-harness/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// session is a per-test value built from a shared handle.
type session struct {
	conn   *handle
	closed atomic.Bool
	err    error
}

func (s *session) Close() error {
	s.closed.Store(true)
	return s.err
}

func TestBindingForGivesFreshValuesOverOneHandle(t *testing.T) {
	scope, c := newCounted(t)
	var built []*session
	b := Bind(scope, func(h *handle) *session {
		s := &session{conn: h}
		built = append(built, s)
		return s
	})

	t.Run("first", func(t *testing.T) {
		s := b.For(t)
		assert.False(t, s.closed.Load())
	})
	t.Run("second", func(t *testing.T) {
		b.For(t)
	})

	require.Len(t, built, 2)
	assert.NotSame(t, built[0], built[1])
	assert.Same(t, built[0].conn, built[1].conn)
	assert.True(t, built[0].closed.Load(), "teardown must run when the test ends")
	assert.True(t, built[1].closed.Load())
	assert.Equal(t, int32(1), c.acquired.Load())
	assert.Same(t, scope, b.Scope())
}

func TestBindingForWithoutCloser(t *testing.T) {
	scope, _ := newCounted(t)
	b := Bind(scope, func(h *handle) int { return h.id })

	t.Run("value", func(t *testing.T) {
		assert.Equal(t, 1, b.For(t))
	})
}

func TestBindingUseClosesOnEveryPath(t *testing.T) {
	scope, _ := newCounted(t)
	var last *session
	b := Bind(scope, func(h *handle) *session {
		last = &session{conn: h}
		return last
	})

	t.Run("success", func(t *testing.T) {
		err := b.Use(context.Background(), func(ctx context.Context, s *session) error {
			assert.NotNil(t, s.conn)
			return nil
		})
		require.NoError(t, err)
		assert.True(t, last.closed.Load())
	})

	t.Run("error", func(t *testing.T) {
		errQuery := errors.New("query failed")
		err := b.Use(context.Background(), func(context.Context, *session) error { return errQuery })
		assert.ErrorIs(t, err, errQuery)
		assert.True(t, last.closed.Load())
	})

	t.Run("panic", func(t *testing.T) {
		assert.PanicsWithValue(t, "boom", func() {
			_ = b.Use(context.Background(), func(context.Context, *session) error { panic("boom") })
		})
		assert.True(t, last.closed.Load())
	})
}

func TestBindingUseJoinsCloseError(t *testing.T) {
	scope, _ := newCounted(t)
	errClose := errors.New("close failed")
	b := Bind(scope, func(h *handle) *session { return &session{conn: h, err: errClose} })

	err := b.Use(context.Background(), func(context.Context, *session) error { return nil })
	assert.ErrorIs(t, err, errClose)
}

func TestBindingUseOnFailedScope(t *testing.T) {
	errDown := errors.New("server down")
	scope := NewScoped("db", func(context.Context) (*handle, error) { return nil, errDown },
		nil, WithLogger(logger.NewTestLogger(t)))

	called := false
	b := Bind(scope, func(h *handle) *session {
		called = true
		return &session{conn: h}
	})

	err := b.Use(context.Background(), func(context.Context, *session) error { return nil })
	assert.ErrorIs(t, err, ErrAcquireFailed)
	assert.ErrorIs(t, err, errDown)
	assert.False(t, called)
}

func TestBindPanicsOnNil(t *testing.T) {
	scope, _ := newCounted(t)
	assert.Panics(t, func() { Bind[*handle, int](nil, func(*handle) int { return 0 }) })
	assert.Panics(t, func() { Bind[*handle, int](scope, nil) })
}
