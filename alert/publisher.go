// Package alert delivers out-of-band notifications when a cleaned file contains anomalies
package alert

import (
	"context"
	"log/slog"

	"github.com/turbot/tailpipe-cleanse/context_values"
)

// Publisher sends a single notification to a topic
type Publisher interface {
	Publish(ctx context.Context, topic, subject, message string) error
}

// LogPublisher writes alerts to the log instead of delivering them
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, topic, subject, message string) error {
	logger := slog.Default()
	if invocationId, err := context_values.InvocationIdFromContext(ctx); err == nil {
		logger = logger.With("invocation_id", invocationId)
	}
	if source, ok := context_values.SourceFromContext(ctx); ok {
		logger = logger.With("source", source)
	}
	logger.Warn("Alert", "topic", topic, "subject", subject, "message", message)
	return nil
}
