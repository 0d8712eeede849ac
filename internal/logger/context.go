package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// nop is returned when a context carries no logger, so pipeline code
// deep in the fan-out never has to nil-check.
var nop = zap.NewNop()

// ContextWithLogger stores a logger in the context. The wide-event
// middleware uses this to hand each request a request_id-tagged logger.
func ContextWithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext extracts the request logger, or a nop logger when absent.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return l
	}
	return nop
}
