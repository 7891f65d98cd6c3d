package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/ctxutil"
)

// Trace assigns a trace id to every request, reusing the one sent in the
// X-Trace-ID header, and echoes it in the response.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if id := c.GetHeader(ctxutil.TraceHeader); id != "" {
			ctx = ctxutil.SetTraceID(ctx, id)
		}
		ctx, id := ctxutil.EnsureTraceID(ctx)
		c.Set(ctxutil.TraceIDKey, id)
		c.Header(ctxutil.TraceHeader, id)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
