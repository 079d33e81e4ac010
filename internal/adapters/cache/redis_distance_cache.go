package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "routeopt:dist:"

// RedisDistanceCache stores origin->destination road distances in Redis with
// a TTL, for deployments where several planner instances share one cache.
type RedisDistanceCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDistanceCache(addr, password string, db int, ttl time.Duration) (*RedisDistanceCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisDistanceCache{client: client, ttl: ttl}, nil
}

func (c *RedisDistanceCache) Close() error { return c.client.Close() }

func (c *RedisDistanceCache) key(origin, destination string) string {
	return redisKeyPrefix + origin + "|" + destination
}

// Fetch cached distances for one origin and multiple destinations.
func (c *RedisDistanceCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (map[string]float64, error) {
	if origin == "" {
		return nil, errors.New("get distance cache: origin must not be empty")
	}

	if len(destinations) == 0 {
		return map[string]float64{}, nil
	}

	keys := make([]string, len(destinations))
	for i, d := range destinations {
		keys[i] = c.key(origin, d)
	}

	vals, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get distance cache: redis mget: %w", err)
	}

	out := make(map[string]float64, len(destinations))
	for i, v := range vals {
		if v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		meters, err := strconv.ParseFloat(s, 64)
		if err != nil {
			// A corrupt entry behaves like a miss; it will be overwritten
			// on the next PutMany.
			continue
		}
		out[destinations[i]] = meters
	}

	return out, nil
}

// Store many cached distances for a single origin.
func (c *RedisDistanceCache) PutMany(ctx context.Context, origin string, meters map[string]float64) error {
	if origin == "" {
		return errors.New("insert distance cache: origin must not be empty")
	}

	if len(meters) == 0 {
		return nil
	}

	pipe := c.client.Pipeline()
	for dest, m := range meters {
		if dest == "" {
			return errors.New("insert distance cache: empty destination key")
		}
		pipe.Set(ctx, c.key(origin, dest), strconv.FormatFloat(m, 'f', -1, 64), c.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert distance cache: redis pipeline: %w", err)
	}

	return nil
}
