package requestctx

import "context"

type requestIDKey struct{}

// WithRequestID attaches the transport-assigned request id. An empty id
// leaves the context untouched.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
