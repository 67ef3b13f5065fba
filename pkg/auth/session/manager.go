package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/bistro-backend/pkg/config"
	"github.com/angelmondragon/bistro-backend/pkg/enums"
	redisclient "github.com/angelmondragon/bistro-backend/pkg/redis"
	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

// ErrSessionNotFound means the session expired or was revoked.
var ErrSessionNotFound = errors.New("session not found")

// Session is the authenticated caller context stored in redis and handed to
// handlers explicitly.
type Session struct {
	ID        string         `json:"id"`
	UserID    uuid.UUID      `json:"user_id"`
	Role      enums.UserRole `json:"role"`
	Email     string         `json:"email"`
	Name      string         `json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// IsAdmin reports whether the session may use the admin surface.
func (s Session) IsAdmin() bool {
	return s.Role == enums.UserRoleAdmin
}

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionKey(sessionID string) string
}

// Manager creates, loads and revokes login sessions.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
	now   func() time.Time
}

// Store exposes the read-only surface needed by middleware.
type Store interface {
	Load(ctx context.Context, sessionID string) (*Session, error)
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.SessionTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	accessTTL := time.Duration(cfg.ExpirationMinutes) * time.Minute
	if ttl < accessTTL {
		return nil, fmt.Errorf("session ttl (%s) must not be shorter than access token ttl (%s)", ttl, accessTTL)
	}
	return &Manager{store: client, keyer: client, ttl: ttl, now: time.Now}, nil
}

// TTL is how long new sessions live.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Create stores a fresh session for the user and returns it with its id set.
func (m *Manager) Create(ctx context.Context, userID uuid.UUID, role enums.UserRole, email, name string) (*Session, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("user id is required")
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid role %q", role)
	}
	now := m.now().UTC()
	sess := &Session{
		ID:        NewID(),
		UserID:    userID,
		Role:      role,
		Email:     email,
		Name:      name,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	if err := m.store.Set(ctx, m.keyer.SessionKey(sess.ID), string(raw), m.ttl); err != nil {
		return nil, err
	}
	return sess, nil
}

// Load returns ErrSessionNotFound when the session is gone.
func (m *Manager) Load(ctx context.Context, sessionID string) (*Session, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrSessionNotFound
	}
	raw, err := m.store.Get(ctx, m.keyer.SessionKey(sessionID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if !sess.ExpiresAt.IsZero() && m.now().After(sess.ExpiresAt) {
		return nil, ErrSessionNotFound
	}
	return &sess, nil
}

// Revoke deletes the session.
func (m *Manager) Revoke(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	return m.store.Del(ctx, m.keyer.SessionKey(sessionID))
}

// NewID produces the identifier used as the JWT jti and redis key.
func NewID() string {
	return uuid.NewString()
}

type ctxKey struct{}

// WithSession stores the session on the request context.
func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, sess)
}

// FromContext returns the session placed by the auth middleware.
func FromContext(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(ctxKey{}).(*Session)
	return sess, ok && sess != nil
}
