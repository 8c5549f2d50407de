package core

import "context"

// contextKey is unexported so only this package can set analysis options
// on a context.
type contextKey string

const suppressHeaderKey contextKey = "suppressHeader"

// WithSuppressHeader marks a context so analysis runs skip their banner
// output. Programmatic callers like the MCP server use this to keep the
// payload machine-readable.
func WithSuppressHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressHeaderKey, true)
}

func shouldSuppressHeader(ctx context.Context) bool {
	suppress, ok := ctx.Value(suppressHeaderKey).(bool)
	return ok && suppress
}
