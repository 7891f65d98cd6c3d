package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/logging/logger"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/logging/observes"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/net/resp"
)

// Recovery turns a panic into a 500 response with the generic message.
func Recovery(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				err := fmt.Errorf("panic: %v", r)
				l.Error(c.Request.Context(), "panic recovered",
					"error", err, "path", c.Request.URL.Path, "stack", string(debug.Stack()))
				observes.CaptureError(c.Request.Context(), err, map[string]string{"path": c.FullPath()})
				resp.Fail(c.Writer, resp.InternalServer(""))
				c.Abort()
			}
		}()
		c.Next()
	}
}
