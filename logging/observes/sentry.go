package observes

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/ctxutil"
)

// SentryOptions sentry options
type SentryOptions struct {
	Dsn         string
	Name        string
	Release     string
	Environment string
}

// NewSentry initializes sentry, it is a no-op without a dsn
func NewSentry(opt *SentryOptions) (func(), error) {
	if opt == nil || opt.Dsn == "" {
		return func() {}, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              opt.Dsn,
		AttachStacktrace: true,
		TracesSampleRate: 1.0,
		ServerName:       opt.Name,
		Release:          opt.Release,
		Environment:      opt.Environment,
	})
	if err != nil {
		return nil, err
	}
	return func() { sentry.Flush(2 * time.Second) }, nil
}

// CaptureError reports err with the request scoped tags of ctx.
// It does nothing when sentry was not initialized.
func CaptureError(ctx context.Context, err error, tags map[string]string) {
	hub := sentry.CurrentHub()
	if hub == nil || hub.Client() == nil || err == nil {
		return
	}
	hub.WithScope(func(scope *sentry.Scope) {
		if traceID := ctxutil.GetTraceID(ctx); traceID != "" {
			scope.SetTag("trace_id", traceID)
		}
		if uid := ctxutil.GetUserID(ctx); uid != "" {
			scope.SetUser(sentry.User{ID: uid})
		}
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		hub.CaptureException(err)
	})
}
