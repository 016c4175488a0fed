package interceptors

import "context"

type contextKey struct{ name string }

var callerKey = contextKey{"caller"}

// Caller is the authenticated principal of a request, taken from the access token.
type Caller struct {
	ID    string
	Email string
	Role  string
}

// WithCaller returns a context carrying c. Handlers read it back with GetCaller.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey, c)
}

// GetCaller returns the caller from context and true if one is set with a non-empty ID.
func GetCaller(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey).(Caller)
	if !ok || c.ID == "" {
		return Caller{}, false
	}
	return c, true
}
