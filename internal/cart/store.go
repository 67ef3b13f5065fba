package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pkgredis "github.com/angelmondragon/bistro-backend/pkg/redis"
)

// Store persists a ledger per cart session.
type Store interface {
	Load(ctx context.Context, sessionID string) (*Ledger, error)
	Save(ctx context.Context, sessionID string, ledger *Ledger) error
	Delete(ctx context.Context, sessionID string) error
}

type redisClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

// RedisStore keeps ledgers as JSON with a sliding TTL.
type RedisStore struct {
	client redisClient
	ttl    time.Duration
}

func NewRedisStore(client redisClient, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

// Load returns an empty ledger when the session has nothing stored.
func (s *RedisStore) Load(ctx context.Context, sessionID string) (*Ledger, error) {
	raw, err := s.client.Get(ctx, s.client.CartKey(sessionID))
	if err != nil {
		if pkgredis.IsMiss(err) {
			return NewLedger(), nil
		}
		return nil, fmt.Errorf("load cart: %w", err)
	}
	ledger := NewLedger()
	if err := json.Unmarshal([]byte(raw), ledger); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return ledger, nil
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, ledger *Ledger) error {
	payload, err := json.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.client.Set(ctx, s.client.CartKey(sessionID), string(payload), s.ttl); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.client.CartKey(sessionID)); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
