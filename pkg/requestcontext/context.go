// Package requestcontext provides HTTP-independent accessors for
// request-scoped values. Middleware sets them, services read them, and tests
// inject them without running the full middleware chain.
package requestcontext

import (
	"context"
	"time"
)

// Context key types (unexported for encapsulation).
type (
	userIDKey    struct{}
	userEmailKey struct{}
	requestIDKey struct{}
	clientIPKey  struct{}
	deviceKey    struct{}
	timeKey      struct{}
)

// UserID retrieves the authenticated user ID from the context.
func UserID(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey{}).(string); ok {
		return v
	}
	return ""
}

// WithUserID injects an authenticated user ID into the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserEmail retrieves the authenticated user's email from the context.
func UserEmail(ctx context.Context) string {
	if v, ok := ctx.Value(userEmailKey{}).(string); ok {
		return v
	}
	return ""
}

// WithUserEmail injects the authenticated user's email into the context.
func WithUserEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, userEmailKey{}, email)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// ClientIP retrieves the client IP address from the context.
func ClientIP(ctx context.Context) string {
	if v, ok := ctx.Value(clientIPKey{}).(string); ok {
		return v
	}
	return ""
}

// Device retrieves the parsed client device description from the context.
func Device(ctx context.Context) string {
	if v, ok := ctx.Value(deviceKey{}).(string); ok {
		return v
	}
	return ""
}

// WithClientMetadata injects client IP and device description into a context.
func WithClientMetadata(ctx context.Context, clientIP, device string) context.Context {
	ctx = context.WithValue(ctx, clientIPKey{}, clientIP)
	return context.WithValue(ctx, deviceKey{}, device)
}

// Now retrieves the request-scoped time, falling back to time.Now for
// non-HTTP contexts such as workers and tests.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(timeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime pins the context clock, mainly for deterministic tests.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, timeKey{}, t)
}
