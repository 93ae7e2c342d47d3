package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"storefront/internal/model"

	"github.com/redis/go-redis/v9"
)

// redisStore implements Store on Redis. Carts are stored as JSON with a
// jittered TTL so a fleet of instances does not expire keys in lockstep.
type redisStore struct {
	client  *redis.Client
	baseTTL time.Duration
}

// NewRedisStore creates a Redis-backed cart store.
func NewRedisStore(client *redis.Client) Store {
	return &redisStore{
		client:  client,
		baseTTL: 30 * 24 * time.Hour,
	}
}

func (r *redisStore) Get(ctx context.Context, identity string) (*model.Cart, error) {
	data, err := r.client.Get(ctx, cartKey(identity)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var cart model.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}

	return &cart, nil
}

func (r *redisStore) Set(ctx context.Context, identity string, cart *model.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(60)) * time.Minute
	if err := r.client.Set(ctx, cartKey(identity), data, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *redisStore) Delete(ctx context.Context, identity string) error {
	if err := r.client.Del(ctx, cartKey(identity)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cartKey(identity string) string {
	return fmt.Sprintf("cart:%s", identity)
}
