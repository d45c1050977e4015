package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vylist-shopify-layer/internal/ports"

	"github.com/redis/go-redis/v9"
)

const stateKeyPrefix = "oauth:state:"

// RedisStateStore holds OAuth state nonces in redis with a TTL, so an
// abandoned install flow expires on its own.
type RedisStateStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStateStore creates a state store. A zero ttl defaults to ten
// minutes, the lifetime of a pending install.
func NewRedisStateStore(client *redis.Client, ttl time.Duration) ports.StateStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisStateStore{client: client, ttl: ttl}
}

// Save records the state nonce for the shop it was issued to.
func (s *RedisStateStore) Save(ctx context.Context, state, shopDomain string) error {
	if err := s.client.Set(ctx, stateKeyPrefix+state, shopDomain, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save oauth state: %w", err)
	}
	return nil
}

// Consume returns the shop the state was issued for and deletes it, so each
// nonce authorizes at most one callback. Unknown or expired states return
// ("", nil).
func (s *RedisStateStore) Consume(ctx context.Context, state string) (string, error) {
	shopDomain, err := s.client.GetDel(ctx, stateKeyPrefix+state).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to consume oauth state: %w", err)
	}
	return shopDomain, nil
}
