package surge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const keyPrefix = "surge:"

// RedisProvider reads surge multipliers published to Redis by the demand
// model. Missing keys resolve to the neutral multiplier; the quote path
// must not fail because no surge has been published yet.
type RedisProvider struct {
	client *redis.Client
}

// NewRedisProvider creates a RedisProvider over an existing client.
func NewRedisProvider(client *redis.Client) *RedisProvider {
	return &RedisProvider{client: client}
}

func (p *RedisProvider) Multiplier(ctx context.Context, city string) (decimal.Decimal, error) {
	key := keyPrefix + strings.ToLower(city)
	raw, err := p.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return neutral, nil
		}
		return neutral, fmt.Errorf("read surge multiplier: %w", err)
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return neutral, fmt.Errorf("parse surge multiplier %q: %w", raw, err)
	}
	if value.LessThan(neutral) {
		return neutral, nil
	}
	return value, nil
}

// Publish writes a multiplier for a city. Used by operational tooling and
// the integration tests.
func (p *RedisProvider) Publish(ctx context.Context, city string, value decimal.Decimal) error {
	return p.client.Set(ctx, keyPrefix+strings.ToLower(city), value.String(), 0).Err()
}
