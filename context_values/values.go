package context_values

import (
	"context"
	"fmt"

	"github.com/turbot/pipe-fittings/contexthelpers"
)

var (
	contextKeyInvocationId = contexthelpers.ContextKey("invocation_id")
	contextKeySource       = contexthelpers.ContextKey("source")
)

// WithInvocationId adds the invocation id to the context
func WithInvocationId(ctx context.Context, invocationId string) context.Context {
	return context.WithValue(ctx, contextKeyInvocationId, invocationId)
}

// WithSource adds the source object location to the context
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, contextKeySource, source)
}

// InvocationIdFromContext returns the invocation id from the context
func InvocationIdFromContext(ctx context.Context) (string, error) {
	if ctx == nil {
		return "", fmt.Errorf("context is nil")
	}
	val, ok := ctx.Value(contextKeyInvocationId).(string)
	if !ok {
		return "", fmt.Errorf("no invocation id in context")
	}
	return val, nil
}

// SourceFromContext returns the source object location from the context, if set
func SourceFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	val, ok := ctx.Value(contextKeySource).(string)
	return val, ok
}
