// Package store caches resolved tracks using an LRU cache behind a Bloom filter, with an
// optional shared redis tier.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"songbird/internal/core"
)

// ErrInvalidSize is returned when the cache capacity is not positive.
var ErrInvalidSize = errors.New("cache size must be positive")

// Remote is a second cache tier shared between processes.
type Remote interface {
	Get(ctx context.Context, key string) (core.Track, bool, error)
	Set(ctx context.Context, key string, track core.Track) error
}

// TrackCache provides thread-safe caching of resolved tracks keyed by classified input.
// The bloom filter is rebuilt from the live keys once maxTracks entries have been evicted,
// so it never holds more than twice the capacity.
type TrackCache struct {
	tracks            *lru.Cache[string, core.Track]
	bloom             *bloom.BloomFilter
	mutex             sync.RWMutex
	maxTracks         int
	falsePositiveRate float64
	evictions         int
	remote            Remote
	logger            *zap.Logger
}

// Option configures a TrackCache.
type Option func(*TrackCache)

// WithRemote adds a shared tier consulted on local misses.
func WithRemote(remote Remote) Option {
	return func(c *TrackCache) {
		c.remote = remote
	}
}

// NewTrackCache creates a cache holding at most maxTracks entries locally.
func NewTrackCache(maxTracks int, falsePositiveRate float64, logger *zap.Logger, opts ...Option) (*TrackCache, error) {
	if maxTracks <= 0 {
		return nil, ErrInvalidSize
	}

	tracks, err := lru.New[string, core.Track](maxTracks)
	if err != nil {
		return nil, fmt.Errorf("failed to create lru cache: %w", err)
	}

	c := &TrackCache{
		tracks:            tracks,
		bloom:             newBloom(maxTracks, falsePositiveRate),
		maxTracks:         maxTracks,
		falsePositiveRate: falsePositiveRate,
		logger:            logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get returns the cached track for key. Remote failures are logged and reported as misses.
func (c *TrackCache) Get(ctx context.Context, key string) (core.Track, bool) {
	if track, ok := c.getLocal(key); ok {
		return track, true
	}

	if c.remote == nil {
		return core.Track{}, false
	}

	track, ok, err := c.remote.Get(ctx, key)
	if err != nil {
		c.logger.Warn("Remote cache lookup failed", zap.String("key", key), zap.Error(err))
		return core.Track{}, false
	}
	if !ok {
		return core.Track{}, false
	}

	c.addLocal(key, track)
	return track, true
}

// Add stores track under key in every tier.
func (c *TrackCache) Add(ctx context.Context, key string, track core.Track) {
	c.addLocal(key, track)

	if c.remote == nil {
		return
	}
	if err := c.remote.Set(ctx, key, track); err != nil {
		c.logger.Warn("Remote cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Len returns the number of locally cached tracks.
func (c *TrackCache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.tracks.Len()
}

func (c *TrackCache) getLocal(key string) (core.Track, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if !c.bloom.TestString(key) {
		return core.Track{}, false
	}
	return c.tracks.Get(key)
}

func (c *TrackCache) addLocal(key string, track core.Track) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.bloom.AddString(key)
	if !c.tracks.Add(key, track) {
		return
	}

	c.evictions++
	if c.evictions >= c.maxTracks {
		c.rebuildBloom()
	}
}

// rebuildBloom must be called with the write lock held.
func (c *TrackCache) rebuildBloom() {
	c.bloom = newBloom(c.maxTracks, c.falsePositiveRate)
	for _, key := range c.tracks.Keys() {
		c.bloom.AddString(key)
	}
	c.evictions = 0

	c.logger.Debug("Rebuilt cache bloom filter", zap.Int("keys", c.tracks.Len()))
}

// newBloom sizes the filter for the live keys plus one generation of evicted ones.
func newBloom(maxTracks int, falsePositiveRate float64) *bloom.BloomFilter {
	return bloom.NewWithEstimates(uint(2*maxTracks), falsePositiveRate)
}
