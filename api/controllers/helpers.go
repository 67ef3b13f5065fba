package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/bistro-backend/api/middleware"
	"github.com/angelmondragon/bistro-backend/pkg/auth/session"
	pkgerrors "github.com/angelmondragon/bistro-backend/pkg/errors"
)

func requireSession(r *http.Request) (*session.Session, error) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return sess, nil
}

// optionalUserID is the signed-in user's id, or nil for guests.
func optionalUserID(r *http.Request) *uuid.UUID {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		return nil
	}
	id := sess.UserID
	return &id
}

func cartSession(r *http.Request) (string, error) {
	id := middleware.CartSessionFromContext(r.Context())
	if id == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cart session is required")
	}
	return id, nil
}

func unavailable(name string) error {
	return pkgerrors.Newf(pkgerrors.CodeInternal, "%s unavailable", name)
}
