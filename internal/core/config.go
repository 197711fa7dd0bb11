package core

import (
	"errors"
	"fmt"
	"time"

	"songbird/internal/i18n"
)

const (
	// DefaultServerPort is the default HTTP server port
	DefaultServerPort = 8080
	// DefaultRequestTimeout bounds a single provider HTTP request
	DefaultRequestTimeout = 15 * time.Second
	// DefaultRequestsPerSecond paces outgoing primary provider requests
	DefaultRequestsPerSecond = 5.0
	// DefaultCacheSize is the number of resolved tracks kept in memory
	DefaultCacheSize = 1000
	// DefaultCacheFalsePositiveRate is the bloom filter false positive rate for cache keys
	DefaultCacheFalsePositiveRate = 0.001
	// DefaultCacheTTL is how long tracks live in the shared redis tier
	DefaultCacheTTL = 6 * time.Hour
	// DefaultFloodLimitPerMinute is the per-client request limit on the HTTP surface
	DefaultFloodLimitPerMinute = 30
)

type Config struct {
	YouTube YouTubeConfig
	Spotify SpotifyConfig
	Server  ServerConfig
	Cache   CacheConfig
	Log     LogConfig
	App     AppConfig
}

type YouTubeConfig struct {
	Proxy             string
	RequestTimeout    time.Duration
	RequestsPerSecond float64
}

type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
}

// Enabled reports whether playlist-service links can be resolved.
func (c SpotifyConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type CacheConfig struct {
	Size              int
	FalsePositiveRate float64
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	TTL               time.Duration
}

type LogConfig struct {
	Level  string
	Format string
	File   string
}

type AppConfig struct {
	Language            string
	FloodLimitPerMinute int
}

func DefaultConfig() *Config {
	return &Config{
		YouTube: YouTubeConfig{
			RequestTimeout:    DefaultRequestTimeout,
			RequestsPerSecond: DefaultRequestsPerSecond,
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         DefaultServerPort,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 0, // streams are long-lived
		},
		Cache: CacheConfig{
			Size:              DefaultCacheSize,
			FalsePositiveRate: DefaultCacheFalsePositiveRate,
			TTL:               DefaultCacheTTL,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		App: AppConfig{
			Language:            i18n.DefaultLanguage,
			FloodLimitPerMinute: DefaultFloodLimitPerMinute,
		},
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server port %d out of range", c.Server.Port))
	}
	if c.YouTube.RequestsPerSecond < 0 {
		errs = append(errs, errors.New("youtube requests per second must not be negative"))
	}
	if c.Cache.Size < 0 {
		errs = append(errs, errors.New("cache size must not be negative"))
	}
	if c.Cache.FalsePositiveRate <= 0 || c.Cache.FalsePositiveRate >= 1 {
		errs = append(errs, fmt.Errorf("cache false positive rate %v must be within (0, 1)", c.Cache.FalsePositiveRate))
	}
	if (c.Spotify.ClientID == "") != (c.Spotify.ClientSecret == "") {
		errs = append(errs, errors.New("spotify client id and secret must be set together"))
	}
	if !i18n.IsSupported(c.App.Language) {
		errs = append(errs, fmt.Errorf("unsupported language %q", c.App.Language))
	}

	return errors.Join(errs...)
}
