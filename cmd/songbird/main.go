// Package main provides the songbird CLI application entry point.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"songbird/internal/core"
	"songbird/internal/i18n"
)

const (
	envPrefix         = "SONGBIRD"
	defaultServerHost = "0.0.0.0"

	logFileMaxSizeMB  = 100
	logFileMaxBackups = 3
	logFileMaxAgeDays = 28
)

var (
	cfgFile string
	config  *core.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "songbird",
	Short: "songbird - resolve music references to playable tracks",
	Long: `songbird turns a YouTube link, a Spotify track link or free text into a canonical
track, opens its audio stream and renders now-playing progress. It runs as a one-shot
CLI or as an HTTP service.`,
	SilenceUsage: true,
	RunE:         runRoot,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	supportedLangs := strings.Join(i18n.GetSupportedLanguages(), ", ")

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is .env)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "json", "log format (json, console)")
	flags.String("log-file", "", "also write JSON logs to this rotated file")
	flags.String("youtube-proxy", "", "proxy for YouTube requests (http, https, socks5)")
	flags.Duration("youtube-request-timeout", core.DefaultRequestTimeout, "timeout for a single YouTube metadata request")
	flags.Float64("youtube-requests-per-second", core.DefaultRequestsPerSecond, "YouTube request rate (0 disables pacing)")
	flags.String("spotify-client-id", "", "Spotify client ID")
	flags.String("spotify-client-secret", "", "Spotify client secret")
	flags.String("server-host", defaultServerHost, "HTTP server host")
	flags.Int("server-port", core.DefaultServerPort, "HTTP server port")
	flags.Int("cache-size", core.DefaultCacheSize, "resolved tracks kept in memory (0 disables caching)")
	flags.Float64("cache-false-positive-rate", core.DefaultCacheFalsePositiveRate, "bloom filter false positive rate for cache keys")
	flags.String("cache-redis-addr", "", "redis address for the shared track cache")
	flags.String("cache-redis-password", "", "redis password")
	flags.Int("cache-redis-db", 0, "redis database")
	flags.Duration("cache-ttl", core.DefaultCacheTTL, "lifetime of tracks in the shared cache")
	flags.String("language", i18n.DefaultLanguage, fmt.Sprintf("message language (%s)", supportedLangs))
	flags.Int("flood-limit-per-minute", core.DefaultFloodLimitPerMinute, "HTTP requests per client per minute (0 disables)")
	flags.Bool("generate-env-example", false, "Generate .env.example file from current configuration and exit")

	if err := viper.BindPFlags(flags); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		os.Exit(1)
	}

	rootCmd.AddCommand(newResolveCmd(), newNowPlayingCmd(), newStreamCmd(), newServeCmd())
}

func initConfig() {
	envFile := ".env"
	if cfgFile != "" {
		envFile = cfgFile
	}

	if err := gotenv.Load(envFile); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		}
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	config = buildConfig()
	logger = buildLogger(config.Log)
}

func buildConfig() *core.Config {
	cfg := core.DefaultConfig()

	configureYouTube(cfg)
	configureSpotify(cfg)
	configureServer(cfg)
	configureCache(cfg)
	configureLog(cfg)
	configureApp(cfg)

	return cfg
}

func configureYouTube(cfg *core.Config) {
	cfg.YouTube.Proxy = viper.GetString("youtube-proxy")
	cfg.YouTube.RequestTimeout = viper.GetDuration("youtube-request-timeout")
	if cfg.YouTube.RequestTimeout <= 0 {
		cfg.YouTube.RequestTimeout = core.DefaultRequestTimeout
	}
	cfg.YouTube.RequestsPerSecond = viper.GetFloat64("youtube-requests-per-second")
}

func configureSpotify(cfg *core.Config) {
	cfg.Spotify.ClientID = viper.GetString("spotify-client-id")
	cfg.Spotify.ClientSecret = viper.GetString("spotify-client-secret")
}

func configureServer(cfg *core.Config) {
	cfg.Server.Host = viper.GetString("server-host")
	if cfg.Server.Host == "" {
		cfg.Server.Host = defaultServerHost
	}
	cfg.Server.Port = viper.GetInt("server-port")
}

func configureCache(cfg *core.Config) {
	cfg.Cache.Size = viper.GetInt("cache-size")
	cfg.Cache.FalsePositiveRate = viper.GetFloat64("cache-false-positive-rate")
	cfg.Cache.RedisAddr = viper.GetString("cache-redis-addr")
	cfg.Cache.RedisPassword = viper.GetString("cache-redis-password")
	cfg.Cache.RedisDB = viper.GetInt("cache-redis-db")
	cfg.Cache.TTL = viper.GetDuration("cache-ttl")
}

func configureLog(cfg *core.Config) {
	cfg.Log.Level = viper.GetString("log-level")
	cfg.Log.Format = viper.GetString("log-format")
	cfg.Log.File = viper.GetString("log-file")
}

func configureApp(cfg *core.Config) {
	cfg.App.Language = viper.GetString("language")
	if cfg.App.Language == "" {
		cfg.App.Language = i18n.DefaultLanguage
	}
	cfg.App.FloodLimitPerMinute = viper.GetInt("flood-limit-per-minute")
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// buildLogger writes to stderr so stdout stays clean for command output.
func buildLogger(cfg core.LogConfig) *zap.Logger {
	level := zap.NewAtomicLevelAt(parseLevel(cfg.Level))

	jsonConfig := zap.NewProductionEncoderConfig()
	jsonConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if strings.EqualFold(cfg.Format, "console") {
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	} else {
		encoder = zapcore.NewJSONEncoder(jsonConfig)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level),
	}
	if cfg.File != "" {
		rotated := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    logFileMaxSizeMB,
			MaxBackups: logFileMaxBackups,
			MaxAge:     logFileMaxAgeDays,
			Compress:   true,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(jsonConfig), rotated, level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller())
}

func runRoot(cmd *cobra.Command, _ []string) error {
	if viper.GetBool("generate-env-example") {
		return generateEnvExample(cmd)
	}
	return cmd.Help()
}
