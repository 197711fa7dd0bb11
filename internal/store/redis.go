package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"songbird/internal/core"
)

// DefaultKeyPrefix namespaces track entries in a shared redis database.
const DefaultKeyPrefix = "songbird:track:"

// RedisOptions configures the redis tier.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisTier stores tracks as JSON strings with an expiry.
type RedisTier struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisTier creates a redis-backed Remote. It does not connect until first use.
func NewRedisTier(opts RedisOptions) *RedisTier {
	return &RedisTier{
		client: redis.NewClient(&redis.Options{
			Addr:     opts.Addr,
			Password: opts.Password,
			DB:       opts.DB,
		}),
		ttl:    opts.TTL,
		prefix: DefaultKeyPrefix,
	}
}

// Ping checks the connection.
func (r *RedisTier) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	return nil
}

// Get loads a track. A missing key is a miss, not an error.
func (r *RedisTier) Get(ctx context.Context, key string) (core.Track, bool, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return core.Track{}, false, nil
	}
	if err != nil {
		return core.Track{}, false, err
	}

	var track core.Track
	if err := json.Unmarshal(data, &track); err != nil {
		return core.Track{}, false, fmt.Errorf("failed to unmarshal track: %w", err)
	}
	return track, true, nil
}

// Set stores a track with the configured TTL. A zero TTL keeps the key forever.
func (r *RedisTier) Set(ctx context.Context, key string, track core.Track) error {
	data, err := json.Marshal(track)
	if err != nil {
		return fmt.Errorf("failed to marshal track: %w", err)
	}
	return r.client.Set(ctx, r.key(key), data, r.ttl).Err()
}

// Close releases the connection pool.
func (r *RedisTier) Close() error {
	return r.client.Close()
}

func (r *RedisTier) key(key string) string {
	return r.prefix + key
}
