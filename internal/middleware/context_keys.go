package middleware

import (
	"context"
	"log/slog"
)

// contextKey is a private type for context keys to prevent collisions.
type contextKey string

const (
	loggerCtxKey = contextKey("logger")
	userIDCtxKey = contextKey("userID")
)

// GetLoggerFromCtx retrieves the request-scoped logger from the context,
// falling back to the default logger when none is present (e.g. in tests).
func GetLoggerFromCtx(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerCtxKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// GetUserIDFromCtx retrieves the authenticated user ID from the context.
func GetUserIDFromCtx(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDCtxKey).(string)
	return userID, ok
}
