package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const cartTTL = 24 * time.Hour

// SessionStore persists a user's cart between requests. A missing cart
// reads back as an empty one.
type SessionStore interface {
	Get(ctx context.Context, userID string) (Cart, error)
	Set(ctx context.Context, userID string, cart Cart) error
	Delete(ctx context.Context, userID string) error
}

type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{
		client: client,
		ttl:    cartTTL,
	}
}

func (r *RedisSessionStore) Get(ctx context.Context, userID string) (Cart, error) {
	data, err := r.client.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Cart{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get cart failed: %w", err)
	}

	var entries []Entry
	if err2 := json.Unmarshal(data, &entries); err2 != nil {
		// Session content is untrusted; a corrupt payload is dropped
		// rather than poisoning every later request.
		return Cart{}, nil
	}
	return repair(entries), nil
}

func (r *RedisSessionStore) Set(ctx context.Context, userID string, cart Cart) error {
	data, err := json.Marshal(cart.Entries())
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	if err := r.client.Set(ctx, cartKey(userID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart failed: %w", err)
	}
	return nil
}

func (r *RedisSessionStore) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete cart failed: %w", err)
	}
	return nil
}

// repair validates deserialized entries: lines with a non-positive
// product id or negative price are discarded, quantities are clamped.
func repair(entries []Entry) Cart {
	cart := Cart{}
	for _, entry := range entries {
		if entry.ProductID <= 0 || entry.UnitPrice.IsNegative() {
			continue
		}
		entry.Quantity = ClampQuantity(entry.Quantity)
		e := entry
		cart[entry.ProductID] = &e
	}
	return cart
}

func cartKey(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}
