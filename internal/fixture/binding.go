package fixture

import (
	"context"
	"errors"
	"io"
	"testing"
)

// Binding builds a per-test value of type F from a worker-scoped resource of
// type R.
type Binding[R, F any] struct {
	scope   *Scoped[R]
	provide func(R) F
}

// Bind creates a Binding over scope. provide is called once per test with the
// shared resource and must not retain per-test state across calls.
func Bind[R, F any](scope *Scoped[R], provide func(R) F) *Binding[R, F] {
	if scope == nil {
		panic("scope cannot be nil")
	}
	if provide == nil {
		panic("provide cannot be nil")
	}
	return &Binding[R, F]{scope: scope, provide: provide}
}

// Scope returns the underlying worker-scoped resource.
func (b *Binding[R, F]) Scope() *Scoped[R] {
	return b.scope
}

// For returns a fresh value for tb. If the value implements io.Closer, it is
// closed when tb and its subtests finish, whether they pass, fail or panic.
func (b *Binding[R, F]) For(tb testing.TB) F {
	tb.Helper()

	f := b.provide(b.scope.Use(tb))
	if c, ok := any(f).(io.Closer); ok {
		tb.Cleanup(func() {
			if err := c.Close(); err != nil {
				tb.Errorf("%s teardown: %v", b.scope.Name(), err)
			}
		})
	}
	return f
}

// Use runs fn with a fresh value outside of a test. The value is closed on
// every exit path, including a panic in fn, and a close error is joined with
// fn's error.
func (b *Binding[R, F]) Use(ctx context.Context, fn func(context.Context, F) error) (err error) {
	r, err := b.scope.Get(ctx)
	if err != nil {
		return err
	}

	f := b.provide(r)
	if c, ok := any(f).(io.Closer); ok {
		defer func() {
			if cerr := c.Close(); cerr != nil {
				err = errors.Join(err, cerr)
			}
		}()
	}

	return fn(ctx, f)
}
