package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/meryemgkrt/food-ordering/internal/cart/domain"
	apperrors "github.com/meryemgkrt/food-ordering/pkg/errors"
)

const keyPrefix = "cart:"

// CartRepository implements repository.CartRepository using Redis.
type CartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartRepository creates a new Redis-backed cart repository.
func NewCartRepository(client *redis.Client, ttl time.Duration) *CartRepository {
	return &CartRepository{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves a cart by user ID from Redis.
func (r *CartRepository) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	key := keyPrefix + userID

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("cart", userID)
		}
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}

	return &cart, nil
}

// Save persists a cart to Redis with the configured TTL.
func (r *CartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	key := keyPrefix + cart.UserID

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}

	return nil
}

// SaveIfVersion persists the cart only if the stored version still matches
// expectedVersion. It runs a WATCH/MULTI/EXEC transaction on the cart key so
// a concurrent writer aborts the commit. On success the cart's Version is set
// to expectedVersion+1.
func (r *CartRepository) SaveIfVersion(ctx context.Context, cart *domain.Cart, expectedVersion int) (bool, error) {
	key := keyPrefix + cart.UserID
	conflict := false

	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			// No stored cart: only a fresh cart (version 0) may be written.
			if expectedVersion != 0 {
				conflict = true
				return nil
			}
		case err != nil:
			return fmt.Errorf("redis get cart: %w", err)
		default:
			var current domain.Cart
			if err := json.Unmarshal(data, &current); err != nil {
				return fmt.Errorf("unmarshal cart: %w", err)
			}
			if current.Version != expectedVersion {
				conflict = true
				return nil
			}
		}

		cart.Version = expectedVersion + 1
		payload, err := json.Marshal(cart)
		if err != nil {
			return fmt.Errorf("marshal cart: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, r.ttl)
			return nil
		})
		return err
	}

	err := r.client.Watch(ctx, txn, key)
	if errors.Is(err, redis.TxFailedErr) {
		// Key changed between WATCH and EXEC.
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis save cart: %w", err)
	}
	if conflict {
		return false, nil
	}

	return true, nil
}

// Delete removes a cart from Redis by user ID.
func (r *CartRepository) Delete(ctx context.Context, userID string) error {
	key := keyPrefix + userID

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}

	return nil
}
