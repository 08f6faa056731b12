// Package correlation propagates the caller-supplied correlation ID
// through context so logs and outbound events can be joined per request.
package correlation

import "context"

// Header is the inbound/outbound HTTP header carrying the correlation ID.
const Header = "X-Correlation-Id"

// ctxKey is unexported so no other package can collide with our key.
type ctxKey struct{}

// WithID returns a context carrying the correlation ID.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext extracts the correlation ID, or "" when none was attached.
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return ""
}
