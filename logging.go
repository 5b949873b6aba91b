package workflow

import (
	"context"
	"log/slog"
)

// Logger receives notifications about transition outcomes. Attach one via
// SchemaBuilder.Logger or, per workflow, DefinitionBuilder.Logger; a nil
// logger disables logging.
type Logger interface {
	TransitionExecuted(ctx context.Context, workflow, transition, from, to string)
	TransitionFailed(ctx context.Context, workflow, transition, from string, err error)
}

// DefaultLogger implements Logger using slog.
type DefaultLogger struct {
	logger *slog.Logger
}

// NewDefaultLogger creates a logger on slog.Default().
func NewDefaultLogger() *DefaultLogger {
	return &DefaultLogger{logger: slog.Default()}
}

// NewSlogLogger creates a logger on the given slog.Logger.
func NewSlogLogger(logger *slog.Logger) *DefaultLogger {
	return &DefaultLogger{logger: logger}
}

func (l *DefaultLogger) TransitionExecuted(ctx context.Context, workflow, transition, from, to string) {
	l.logger.InfoContext(ctx, "Transition executed",
		"workflow", workflow,
		"transition", transition,
		"from", from,
		"to", to,
	)
}

func (l *DefaultLogger) TransitionFailed(ctx context.Context, workflow, transition, from string, err error) {
	l.logger.ErrorContext(ctx, "Transition failed",
		"workflow", workflow,
		"transition", transition,
		"from", from,
		"error", err,
	)
}
