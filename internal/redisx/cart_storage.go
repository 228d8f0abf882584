package redisx

import (
	"context"
	"errors"
	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/redis/go-redis/v9"
	"time"
)

// CartStorage keeps each persisted cart in its own Redis string key.
type CartStorage struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewCartStorage(rdb redis.Cmdable) *CartStorage {
	return &CartStorage{rdb: rdb, ttl: TTLCart}
}

func (s *CartStorage) Load(ctx context.Context, key string) ([]byte, error) {
	b, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, cart.ErrNotFound
	}
	return b, err
}

// Save overwrites the key and refreshes its TTL. Last writer wins.
func (s *CartStorage) Save(ctx context.Context, key string, value []byte) error {
	return s.rdb.Set(ctx, key, value, s.ttl).Err()
}
