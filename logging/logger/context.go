package logger

import (
	"context"

	"github.com/laktaabhutan/LAK-Goods-Transport-Application/ctxutil"
)

// traceKey is the entry field carrying the request trace id.
var traceKey = ctxutil.TraceIDKey

func getTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	return ctxutil.GetTraceID(ctx)
}
