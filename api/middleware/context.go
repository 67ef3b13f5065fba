package middleware

import (
	"context"

	"github.com/angelmondragon/bistro-backend/pkg/auth/session"
)

type contextKey string

const ctxCartSession contextKey = "cart_session"

// SessionFromContext returns the login session attached by Auth or OptionalAuth.
func SessionFromContext(ctx context.Context) (*session.Session, bool) {
	if ctx == nil {
		return nil, false
	}
	return session.FromContext(ctx)
}

func UserIDFromContext(ctx context.Context) string {
	if sess, ok := SessionFromContext(ctx); ok {
		return sess.UserID.String()
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if sess, ok := SessionFromContext(ctx); ok {
		return string(sess.Role)
	}
	return ""
}

// CartSessionFromContext returns the cart session id resolved by CartSession.
func CartSessionFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxCartSession).(string); ok {
		return v
	}
	return ""
}

// WithCartSession injects the cart session id into the context.
func WithCartSession(ctx context.Context, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxCartSession, sessionID)
}
