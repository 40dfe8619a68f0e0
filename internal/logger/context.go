package logger

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ctxKey string

const sessionIDKey ctxKey = "session_id"

// NewSessionID returns a fresh identifier for one storefront session.
func NewSessionID() string {
	return uuid.New().String()
}

// WithSessionID returns ctx carrying sessionID for FromCtx.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

func SessionIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(sessionIDKey).(string); ok {
		return v
	}
	return ""
}

// FromCtx returns logger with session_id automatically added
func FromCtx(ctx context.Context) *zap.Logger {
	sid := SessionIDFrom(ctx)
	if sid == "" {
		return L()
	}
	return L().With(zap.String("session_id", sid))
}

// OrDefault returns l, or the global logger when l is nil.
func OrDefault(l *zap.Logger) *zap.Logger {
	if l == nil {
		return L()
	}
	return l
}
