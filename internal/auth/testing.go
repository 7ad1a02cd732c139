package auth

import "context"

// WithTestUserID returns a context authenticated as the given user,
// standing in for Middleware in handler tests.
func WithTestUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}
