package fsm

import (
	"context"
	"log/slog"
	"time"
)

// Logger receives one call per dispatch outcome.
type Logger interface {
	TransitionApplied(ctx context.Context, class, method string, from, to State, duration time.Duration)
	TransitionRejected(ctx context.Context, class, method string, from, to State, guard int, err error)
	TransitionIllegal(ctx context.Context, class, method string, from State)
	TransitionFailed(ctx context.Context, class, method string, from, to State, err error)
}

// DefaultLogger implements Logger using slog.
type DefaultLogger struct {
	logger *slog.Logger
}

// NewDefaultLogger creates a logger writing to slog.Default().
func NewDefaultLogger() *DefaultLogger {
	return &DefaultLogger{
		logger: slog.Default(),
	}
}

// NewSlogLogger creates a logger writing to the given slog logger.
func NewSlogLogger(logger *slog.Logger) *DefaultLogger {
	if logger == nil {
		logger = slog.Default()
	}

	return &DefaultLogger{logger: logger}
}

func (l *DefaultLogger) TransitionApplied(
	ctx context.Context, class, method string, from, to State, duration time.Duration,
) {
	fields := append(traceFields(ctx),
		"class", class,
		"method", method,
		"from", string(from),
		"to", string(to),
		"duration_ms", duration.Milliseconds(),
	)

	l.logger.InfoContext(ctx, "Transition applied", fields...)
}

func (l *DefaultLogger) TransitionRejected(
	ctx context.Context, class, method string, from, to State, guard int, err error,
) {
	fields := append(traceFields(ctx),
		"class", class,
		"method", method,
		"from", string(from),
		"to", string(to),
		"guard", guard,
	)

	if err != nil {
		fields = append(fields, "error", err)
	}

	l.logger.DebugContext(ctx, "Transition rejected by guard", fields...)
}

func (l *DefaultLogger) TransitionIllegal(ctx context.Context, class, method string, from State) {
	fields := append(traceFields(ctx),
		"class", class,
		"method", method,
		"from", string(from),
	)

	l.logger.WarnContext(ctx, "Illegal transition", fields...)
}

func (l *DefaultLogger) TransitionFailed(ctx context.Context, class, method string, from, to State, err error) {
	fields := append(traceFields(ctx),
		"class", class,
		"method", method,
		"from", string(from),
		"to", string(to),
		"error", err,
	)

	l.logger.ErrorContext(ctx, "Transition failed", fields...)
}

func traceFields(ctx context.Context) []any {
	traceID, spanID := extractTraceContext(ctx)
	if traceID == "" {
		return nil
	}

	return []any{"trace_id", traceID, "span_id", spanID}
}

func (m *Method[E]) logApplied(ctx context.Context, from, to State, duration time.Duration) {
	if m.class.logger != nil {
		m.class.logger.TransitionApplied(ctx, m.class.name, m.name, from, to, duration)
	}
}

func (m *Method[E]) logRejected(ctx context.Context, from, to State, guards guardOutcome) {
	if m.class.logger != nil {
		m.class.logger.TransitionRejected(ctx, m.class.name, m.name, from, to, guards.index, guards.err)
	}
}

func (m *Method[E]) logIllegal(ctx context.Context, from State) {
	if m.class.logger != nil {
		m.class.logger.TransitionIllegal(ctx, m.class.name, m.name, from)
	}
}

func (m *Method[E]) logFailed(ctx context.Context, from, to State, err error) {
	if m.class.logger != nil {
		m.class.logger.TransitionFailed(ctx, m.class.name, m.name, from, to, err)
	}
}
