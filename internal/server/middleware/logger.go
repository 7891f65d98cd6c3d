package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/ctxutil"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/logging/logger"
)

// Logger logs one line per request.
func Logger(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		fields := []any{
			"method", method,
			"path", path,
			"status", status,
			"latency", time.Since(start).String(),
			"client_ip", ctxutil.ClientIP(c),
		}
		if uid := ctxutil.GetUserID(c.Request.Context()); uid != "" {
			fields = append(fields, "user_id", uid)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		ctx := c.Request.Context()
		switch {
		case status >= 500:
			l.Error(ctx, append([]any{"request failed"}, fields...)...)
		case status >= 400:
			l.Warn(ctx, append([]any{"request rejected"}, fields...)...)
		default:
			l.Info(ctx, append([]any{"request"}, fields...)...)
		}
	}
}
