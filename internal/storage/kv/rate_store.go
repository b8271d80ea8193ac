package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/retail-pos/internal/pos"
)

var _ pos.RateStore = (*RateStore)(nil)

// RateStore shares the exchange rate between every process behind the same Redis.
type RateStore struct {
	rdb redis.Cmdable
	key string
}

func NewRateStore(rdb redis.Cmdable, keyPrefix string) *RateStore {
	return &RateStore{
		rdb: rdb,
		key: RateKey(keyPrefix),
	}
}

// RateKey is the key holding the rate as a decimal string.
func RateKey(prefix string) string {
	if prefix == "" {
		return "settings:exchange_rate"
	}
	return prefix + ":settings:exchange_rate"
}

func (s *RateStore) GetRate(ctx context.Context) (decimal.Decimal, bool, error) {
	val, err := s.rdb.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("redis get %s: %w", s.key, err)
	}

	rate, err := decimal.NewFromString(val)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("parse stored rate %q: %w", val, err)
	}

	return rate, true, nil
}

func (s *RateStore) SetRate(ctx context.Context, rate decimal.Decimal) error {
	if err := s.rdb.Set(ctx, s.key, rate.String(), 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}
