package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/angelmondragon/bistro-backend/api/responses"
	pkgAuth "github.com/angelmondragon/bistro-backend/pkg/auth"
	"github.com/angelmondragon/bistro-backend/pkg/auth/session"
	"github.com/angelmondragon/bistro-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/bistro-backend/pkg/errors"
	"github.com/angelmondragon/bistro-backend/pkg/logger"
)

// Auth requires a bearer token backed by a live session and places the
// session on the request context.
func Auth(cfg config.JWTConfig, store session.Store, logg *logger.Logger) func(http.Handler) http.Handler {
	return authenticate(cfg, store, logg, true)
}

// OptionalAuth attaches the session when a bearer token is sent and lets
// anonymous requests through. A token that is sent but invalid is still rejected.
func OptionalAuth(cfg config.JWTConfig, store session.Store, logg *logger.Logger) func(http.Handler) http.Handler {
	return authenticate(cfg, store, logg, false)
}

func authenticate(cfg config.JWTConfig, store session.Store, logg *logger.Logger, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				if !required {
					next.ServeHTTP(w, r)
					return
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}
			if claims.SessionID() == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}
			if store == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session store unavailable"))
				return
			}

			sess, err := store.Load(r.Context(), claims.SessionID())
			if err != nil {
				if errors.Is(err, session.ErrSessionNotFound) {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired"))
					return
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
				return
			}
			if sess.UserID != claims.UserID {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session does not match token"))
				return
			}

			ctx := session.WithSession(r.Context(), sess)
			if logg != nil {
				ctx = logg.WithUserID(ctx, sess.UserID.String())
				ctx = logg.WithRole(ctx, string(sess.Role))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
