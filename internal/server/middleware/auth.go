package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/ctxutil"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/logging/logger"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/net/resp"
)

// IdentityResolver resolves a bearer token to a user id.
type IdentityResolver interface {
	ResolveUser(token string) (string, error)
}

// Auth creates authentication middleware. Requests whose path starts with a
// whitelisted prefix pass without a token.
func Auth(resolver IdentityResolver, whitelist []string, l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if whitelisted(c.Request.URL.Path, whitelist) {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			resp.Fail(c.Writer, resp.UnAuthorized("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			resp.Fail(c.Writer, resp.UnAuthorized("invalid authorization header format"))
			c.Abort()
			return
		}

		token := strings.TrimSpace(parts[1])
		userID, err := resolver.ResolveUser(token)
		if err != nil || userID == "" {
			l.Warn(c.Request.Context(), "invalid token", "error", err, "path", c.Request.URL.Path)
			resp.Fail(c.Writer, resp.UnAuthorized("invalid token"))
			c.Abort()
			return
		}

		ctx := ctxutil.WithGinContext(c.Request.Context(), c)
		ctx = ctxutil.SetUserID(ctx, userID)
		ctx = ctxutil.SetToken(ctx, token)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func whitelisted(path string, whitelist []string) bool {
	for _, prefix := range whitelist {
		if prefix == "" {
			continue
		}
		if path == prefix || strings.HasPrefix(path, strings.TrimSuffix(prefix, "/")+"/") {
			return true
		}
	}
	return false
}
