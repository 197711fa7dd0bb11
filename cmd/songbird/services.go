package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"songbird/internal/core"
	"songbird/internal/flood"
	httpserver "songbird/internal/http"
	"songbird/internal/spotify"
	"songbird/internal/store"
	"songbird/internal/youtube"
)

type services struct {
	resolver  *core.Resolver
	resources *core.ResourceBuilder
	formatter *core.MessageFormatter
	metrics   *httpserver.Metrics
	registry  *prometheus.Registry
	redis     *store.RedisTier
}

func initializeServices(ctx context.Context, cfg *core.Config, log *zap.Logger) (*services, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := httpserver.NewMetrics(registry)

	media, err := youtube.NewClient(youtube.Config{
		Proxy:             cfg.YouTube.Proxy,
		RequestTimeout:    cfg.YouTube.RequestTimeout,
		RequestsPerSecond: cfg.YouTube.RequestsPerSecond,
	}, log.Named("youtube"))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube client: %w", err)
	}

	var catalog core.CatalogProvider
	if cfg.Spotify.Enabled() {
		catalog = spotify.NewClient(cfg.Spotify, log.Named("spotify"))
	} else {
		log.Info("Spotify credentials not set, Spotify track links will be rejected as not configured")
	}

	svcs := &services{
		formatter: core.NewMessageFormatter(cfg.App.Language),
		metrics:   metrics,
		registry:  registry,
	}

	opts := []core.ResolverOption{core.WithRecorder(metrics)}
	cache, err := svcs.createCache(ctx, cfg.Cache, log.Named("cache"))
	if err != nil {
		return nil, err
	}
	if cache != nil {
		opts = append(opts, core.WithCache(cache))
	}

	svcs.resolver = core.NewResolver(media, catalog, log.Named("resolver"), opts...)
	svcs.resources = core.NewResourceBuilder(media, log.Named("resources"), metrics)

	return svcs, nil
}

// createCache returns nil when caching is disabled.
func (s *services) createCache(ctx context.Context, cfg core.CacheConfig, log *zap.Logger) (*store.TrackCache, error) {
	if cfg.Size == 0 {
		log.Debug("Track cache disabled")
		return nil, nil
	}

	var opts []store.Option
	if cfg.RedisAddr != "" {
		s.redis = store.NewRedisTier(store.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.TTL,
		})
		if err := s.redis.Ping(ctx); err != nil {
			log.Warn("Redis cache tier unreachable, continuing with local cache only",
				zap.String("addr", cfg.RedisAddr),
				zap.Error(err))
		}
		opts = append(opts, store.WithRemote(s.redis))
	}

	cache, err := store.NewTrackCache(cfg.Size, cfg.FalsePositiveRate, log, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create track cache: %w", err)
	}
	return cache, nil
}

func (s *services) newHTTPServer(cfg *core.Config, fg *flood.Floodgate, log *zap.Logger) *httpserver.Server {
	return httpserver.NewServer(&cfg.Server, httpserver.Options{
		Resolver:  s.resolver,
		Streams:   s.resources,
		Formatter: s.formatter,
		Floodgate: fg,
		Metrics:   s.metrics,
		Gatherer:  s.registry,
	}, log)
}

func (s *services) Close() error {
	if s.redis == nil {
		return nil
	}
	if err := s.redis.Close(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to close redis: %w", err)
	}
	return nil
}
