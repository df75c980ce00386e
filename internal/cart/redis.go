package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront-checkout/internal/domain"
)

// RedisStore keeps carts in Redis so multiple instances can share sessions.
// Sessions expire on their own; abandoned carts need no cleanup job.
type RedisStore struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client:  client,
		baseTTL: 30 * time.Minute,
	}
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	data, err := s.client.Get(ctx, storeKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return &cart, nil
}

func (s *RedisStore) Save(ctx context.Context, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	// Jitter spreads expiry so a burst of sessions does not lapse at once.
	ttl := s.baseTTL + time.Duration(rand.Intn(5))*time.Minute
	if err := s.client.Set(ctx, storeKey(cart.SessionID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, storeKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func storeKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}
