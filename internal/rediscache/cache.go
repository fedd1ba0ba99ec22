package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"ulascansenturk/weather-lookup/internal/providers"
)

// Cache is a providers.CoordinateCache shared between service instances.
type Cache struct {
	client *redis.Client
	logger zerolog.Logger
}

func New(client *redis.Client, logger zerolog.Logger) *Cache {
	return &Cache{client: client, logger: logger}
}

func (c *Cache) Get(ctx context.Context, key string) (*providers.Coordinate, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var coord providers.Coordinate
	if err := json.Unmarshal(data, &coord); err != nil {
		return nil, false, fmt.Errorf("unmarshal: %w", err)
	}

	c.logger.Debug().
		Ctx(ctx).
		Str("key", key).
		Msg("cache hit")

	return &coord, true, nil
}

func (c *Cache) Set(ctx context.Context, key string, coord providers.Coordinate, ttl time.Duration) error {
	data, err := json.Marshal(coord)
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	c.logger.Debug().
		Ctx(ctx).
		Str("key", key).
		Dur("expiration", ttl).
		Msg("writing to cache")

	return nil
}

// Ping checks connectivity at startup.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
