package server

import (
	"context"
	"os/signal"
	"syscall"
)

// WithSignal returns a context that ends when SIGINT or SIGTERM arrives,
// which starts the graceful shutdown path in App.Run.
func WithSignal(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
}
