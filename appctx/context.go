package appctx

import "context"

// ContextKey is the shared typed key for request-scoped values.
type ContextKey string

const (
	ContextKeyUserId        ContextKey = "user_id"
	ContextKeyUserName      ContextKey = "user_name"
	ContextKeyCorrelationId ContextKey = "correlation_id"
)

func Set(ctx context.Context, key ContextKey, value any) context.Context {
	return context.WithValue(ctx, key, value)
}

func GetString(ctx context.Context, key ContextKey) (string, bool) {
	v, ok := ctx.Value(key).(string)
	return v, ok
}

func GetInt(ctx context.Context, key ContextKey) (int, bool) {
	v, ok := ctx.Value(key).(int)
	return v, ok
}
