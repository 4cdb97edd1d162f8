package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/LGEEEEEE/LojaQualquerTeste/models"
	"github.com/redis/go-redis/v9"
)

// cartTTL bounds the cart to the active browsing session; an untouched cart
// simply expires.
const cartTTL = 24 * time.Hour

// CartStore keeps each user's cart as a JSON blob in redis, keyed per user.
// Every mutation rewrites the blob and refreshes the TTL.
type CartStore struct {
	rdb *redis.Client
}

func NewCartStore(rdb *redis.Client) *CartStore {
	return &CartStore{rdb: rdb}
}

func (s *CartStore) key(userID uint) string {
	return fmt.Sprintf("cart:%d", userID)
}

// Get returns the user's cart. A missing key is an empty cart, not an error.
func (s *CartStore) Get(ctx context.Context, userID uint) (models.Cart, error) {
	raw, err := s.rdb.Get(ctx, s.key(userID)).Result()
	if err == redis.Nil {
		return models.Cart{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cart: %w", err)
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return cart, nil
}

func (s *CartStore) Save(ctx context.Context, userID uint, cart models.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key(userID), data, cartTTL).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (s *CartStore) Clear(ctx context.Context, userID uint) error {
	if err := s.rdb.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
