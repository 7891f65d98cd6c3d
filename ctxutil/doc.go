// Package ctxutil carries request-scoped values (authenticated user id,
// bearer token, trace id) through context.Context.
//
// Values set on a context that embeds a *gin.Context are mirrored into the
// gin context, so handlers and middleware observe the same values:
//
//	ctx = ctxutil.SetUserID(ctx, "64b7...")
//	uid := ctxutil.GetUserID(ctx)
//
// EnsureTraceID generates a trace id when the request did not bring one.
//
// WithAsyncContext detaches work from the request cancellation while keeping
// its values, for best-effort cleanups that must not block the response.
package ctxutil
