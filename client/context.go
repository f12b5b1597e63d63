package client

import "context"

type contextKey string

const contextRequestKey contextKey = "requestKey"

// WithRequestKey tags the request sent with ctx; a newer request with the
// same key cancels the previous one still in flight.
func WithRequestKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, contextRequestKey, key)
}

func requestKey(ctx context.Context) string {
	if v := ctx.Value(contextRequestKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
