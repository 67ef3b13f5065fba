package auth

import (
	"github.com/angelmondragon/bistro-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID    uuid.UUID
	Role      enums.UserRole
	SessionID string
}

// AccessTokenClaims represents the typed JWT issued to clients. The JWT id is
// the redis session id.
type AccessTokenClaims struct {
	UserID uuid.UUID      `json:"user_id"`
	Role   enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// SessionID returns the session bound to the token.
func (c *AccessTokenClaims) SessionID() string {
	return c.ID
}
