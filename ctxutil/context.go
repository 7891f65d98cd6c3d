package ctxutil

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ctxKey string

const (
	ginContextKey ctxKey = "gin_context"
	userIDKey     ctxKey = "user_id"
	tokenKey      ctxKey = "token"
	traceIDKey    ctxKey = "trace_id"

	// TraceIDKey is the log field and gin key carrying the trace id.
	TraceIDKey = string(traceIDKey)
	// UserIDKey is the gin key carrying the authenticated user id.
	UserIDKey = string(userIDKey)
	// TraceHeader is the request/response header carrying the trace id.
	TraceHeader = "X-Trace-ID"
)

// FromGinContext extracts the context.Context from *gin.Context.
func FromGinContext(c *gin.Context) context.Context {
	return c.Request.Context()
}

// WithGinContext returns a context.Context that embeds the *gin.Context.
func WithGinContext(ctx context.Context, c *gin.Context) context.Context {
	return context.WithValue(ctx, ginContextKey, c)
}

// GetGinContext extracts *gin.Context from context.Context if it exists.
func GetGinContext(ctx context.Context) (*gin.Context, bool) {
	if c, ok := ctx.Value(ginContextKey).(*gin.Context); ok {
		return c, ok
	}
	return nil, false
}

// getValue retrieves a value from the context, looking at an embedded gin context first.
func getValue(ctx context.Context, key ctxKey) any {
	if ctx == nil {
		return nil
	}
	if c, ok := GetGinContext(ctx); ok {
		if val, exists := c.Get(string(key)); exists {
			return val
		}
	}
	return ctx.Value(key)
}

// setValue sets a value to the context and to an embedded gin context.
func setValue(ctx context.Context, key ctxKey, val any) context.Context {
	if c, ok := GetGinContext(ctx); ok {
		c.Set(string(key), val)
	}
	return context.WithValue(ctx, key, val)
}

// SetUserID sets the authenticated user id to context.Context.
func SetUserID(ctx context.Context, uid string) context.Context {
	return setValue(ctx, userIDKey, uid)
}

// GetUserID gets the authenticated user id from context.Context.
func GetUserID(ctx context.Context) string {
	if uid, ok := getValue(ctx, userIDKey).(string); ok {
		return uid
	}
	return ""
}

// SetToken sets the raw bearer token to context.Context.
func SetToken(ctx context.Context, token string) context.Context {
	return setValue(ctx, tokenKey, token)
}

// GetToken gets the raw bearer token from context.Context.
func GetToken(ctx context.Context) string {
	if token, ok := getValue(ctx, tokenKey).(string); ok {
		return token
	}
	return ""
}

// GetTraceID gets the trace id from context.Context.
func GetTraceID(ctx context.Context) string {
	if id, ok := getValue(ctx, traceIDKey).(string); ok {
		return id
	}
	return ""
}

// SetTraceID sets the trace id to context.Context.
func SetTraceID(ctx context.Context, traceID string) context.Context {
	return setValue(ctx, traceIDKey, traceID)
}

// EnsureTraceID returns ctx with a trace id, generating one if absent.
func EnsureTraceID(ctx context.Context) (context.Context, string) {
	if id := GetTraceID(ctx); id != "" {
		return ctx, id
	}
	id := uuid.NewString()
	return SetTraceID(ctx, id), id
}
