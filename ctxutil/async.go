package ctxutil

import (
	"context"
	"time"
)

// DefaultAsyncTimeout bounds follow-up work detached from a request.
const DefaultAsyncTimeout = 5 * time.Second

// WithAsyncContext returns a context that keeps the values of parent (trace and
// user ids) but is not cancelled with it, bounded by timeout instead.
func WithAsyncContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultAsyncTimeout
	}
	return context.WithTimeout(context.WithoutCancel(parent), timeout)
}

// WithAsyncContextDefault is WithAsyncContext with DefaultAsyncTimeout.
func WithAsyncContextDefault(parent context.Context) (context.Context, context.CancelFunc) {
	return WithAsyncContext(parent, DefaultAsyncTimeout)
}
