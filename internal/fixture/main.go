package fixture

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// DefaultShutdownTimeout bounds the release of worker resources after the
// tests finish or a signal arrives.
const DefaultShutdownTimeout = 30 * time.Second

// Runner is satisfied by *testing.M.
type Runner interface {
	Run() int
}

type mainSettings struct {
	timeout time.Duration
	signals <-chan os.Signal
	exit    func(code int)
}

// MainOption configures RunMain.
type MainOption func(*mainSettings)

// WithShutdownTimeout overrides DefaultShutdownTimeout.
func WithShutdownTimeout(d time.Duration) MainOption {
	return func(s *mainSettings) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// withSignals replaces the process signal channel and os.Exit.
func withSignals(ch <-chan os.Signal, exit func(int)) MainOption {
	return func(s *mainSettings) {
		s.signals = ch
		s.exit = exit
	}
}

// RunMain runs the tests in m and then closes w. If SIGINT or SIGTERM arrives
// while the tests run, w is closed before the process exits with 128 plus the
// signal number. A failed release turns a passing exit code into 1.
//
//	func TestMain(m *testing.M) {
//		os.Exit(fixture.RunMain(m, worker))
//	}
func RunMain(m Runner, w *Worker, opts ...MainOption) int {
	s := mainSettings{timeout: DefaultShutdownTimeout, exit: os.Exit}
	for _, opt := range opts {
		opt(&s)
	}

	if s.signals == nil {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(ch)
		s.signals = ch
	}

	finished := make(chan struct{})
	handled := make(chan struct{})
	go func() {
		defer close(handled)
		select {
		case sig := <-s.signals:
			w.logger.Warn("signal received, releasing worker resources", slog.String("signal", sig.String()))
			_ = closeWorker(w, s.timeout)
			s.exit(exitCode(sig))
		case <-finished:
		}
	}()

	code := m.Run()
	close(finished)
	<-handled

	if err := closeWorker(w, s.timeout); err != nil && code == 0 {
		code = 1
	}
	return code
}

func closeWorker(w *Worker, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return w.Close(ctx)
}

func exitCode(sig os.Signal) int {
	if s, ok := sig.(syscall.Signal); ok {
		return 128 + int(s)
	}
	return 1
}
