package simpleblog

import (
	"context"
	"log/slog"
)

// NoopNotifier is a no-operation implementation of Notifier, used when a
// deployment has no delivery channel configured.
type NoopNotifier struct{}

// NewNoopNotifier creates a new no-operation notifier
func NewNoopNotifier() Notifier {
	return &NoopNotifier{}
}

// Notify does nothing and returns nil
func (n *NoopNotifier) Notify(ctx context.Context, title, description string, recipients []string) error {
	return nil
}

// LoggingNotifier logs publish notifications but takes no other action.
// Useful for development and debugging.
type LoggingNotifier struct {
	logger *slog.Logger
}

// NewLoggingNotifier creates a notifier that logs each send.
func NewLoggingNotifier(logger *slog.Logger) Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingNotifier{logger: logger}
}

// Notify logs the notification and returns nil.
func (l *LoggingNotifier) Notify(ctx context.Context, title, description string, recipients []string) error {
	l.logger.Info("publish notification", "title", title, "recipients", len(recipients))
	return nil
}
