package logger

import (
	"context"
	"io"
	"log/slog"
	"runtime"

	"github.com/phrazzld/e2e-harness/internal/ciutil"
)

// CIHandler is a slog.Handler that adds CI environment metadata and, when
// AddSource is set, the caller location to every record.
type CIHandler struct {
	// The underlying JSON handler
	handler slog.Handler
	// CI metadata added to every record
	metadata []slog.Attr
	// Whether to add source location info
	addSource bool
}

// NewCIHandler creates a CIHandler writing JSON to out.
func NewCIHandler(out io.Writer, opts *slog.HandlerOptions) *CIHandler {
	var handlerOpts slog.HandlerOptions
	if opts != nil {
		// Copy so the caller's options are not modified
		handlerOpts = *opts
	}

	return &CIHandler{
		handler:   slog.NewJSONHandler(out, &handlerOpts),
		metadata:  ciMetadata(),
		addSource: handlerOpts.AddSource,
	}
}

// Enabled implements slog.Handler.
func (h *CIHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// WithAttrs implements slog.Handler.
func (h *CIHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &CIHandler{
		handler:   h.handler.WithAttrs(attrs),
		metadata:  h.metadata,
		addSource: h.addSource,
	}
}

// WithGroup implements slog.Handler.
func (h *CIHandler) WithGroup(name string) slog.Handler {
	return &CIHandler{
		handler:   h.handler.WithGroup(name),
		metadata:  h.metadata,
		addSource: h.addSource,
	}
}

// Handle implements slog.Handler.
func (h *CIHandler) Handle(ctx context.Context, record slog.Record) error {
	enhanced := record.Clone()

	if h.addSource && record.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{record.PC})
		frame, _ := frames.Next()
		enhanced.AddAttrs(
			slog.String("source_file", frame.File),
			slog.Int("source_line", frame.Line),
			slog.String("source_func", frame.Function),
		)
	}

	enhanced.AddAttrs(h.metadata...)

	return h.handler.Handle(ctx, enhanced)
}

// ciMetadata collects the attributes that identify the CI run and worker.
func ciMetadata() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("worker_id", ciutil.WorkerID()),
	}
	if provider := ciutil.Provider(); provider != "" {
		attrs = append(attrs, slog.String("ci_provider", provider))
	}
	return attrs
}
