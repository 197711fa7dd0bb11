package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"songbird/internal/core"
	"songbird/internal/flood"
)

// inputFromArgs treats the first argument as the link and all arguments as the query text.
func inputFromArgs(args []string) (url, query string) {
	if len(args) == 0 {
		return "", ""
	}
	return args[0], strings.Join(args, " ")
}

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <link or search text>",
		Short: "Resolve input to a track and print it as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, svcs *services) error {
				track, err := resolveArgs(ctx, svcs, args)
				if err != nil {
					return err
				}
				return writeOutput(cmd.OutOrStdout(), struct {
					Track core.Track `json:"track"`
					Card  core.Card  `json:"card"`
				}{track, svcs.formatter.StartCard(track)})
			})
		},
	}
}

func newNowPlayingCmd() *cobra.Command {
	var elapsed time.Duration

	cmd := &cobra.Command{
		Use:   "nowplaying <link or search text>",
		Short: "Resolve input and render its now-playing progress",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, svcs *services) error {
				track, err := resolveArgs(ctx, svcs, args)
				if err != nil {
					return err
				}
				view := core.ComputeProgress(elapsed, track)
				return writeOutput(cmd.OutOrStdout(), struct {
					Track    core.Track        `json:"track"`
					Progress core.ProgressView `json:"progress"`
					Card     core.Card         `json:"card"`
				}{track, view, svcs.formatter.NowPlayingCard(view)})
			})
		},
	}
	cmd.Flags().DurationVar(&elapsed, "elapsed", 0, "playback time elapsed since the track started")
	return cmd
}

func newStreamCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "stream <link or search text>",
		Short: "Resolve input and write its audio stream to a file or stdout",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, func(ctx context.Context, svcs *services) error {
				track, err := resolveArgs(ctx, svcs, args)
				if err != nil {
					return err
				}
				return streamTrack(ctx, cmd, svcs, track, out)
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default is stdout)")
	return cmd
}

func streamTrack(ctx context.Context, cmd *cobra.Command, svcs *services, track core.Track, out string) error {
	outcome, err := svcs.resources.OpenStream(ctx, track)
	if err != nil {
		return fmt.Errorf("%s: %w", svcs.formatter.ErrorMessage(err), err)
	}

	resource, ok := outcome.Resource()
	if !ok {
		fmt.Fprintln(cmd.ErrOrStderr(), svcs.formatter.NothingToPlay(track))
		return nil
	}
	defer func() {
		if closeErr := resource.Close(); closeErr != nil {
			logger.Debug("Failed to close stream", zap.Error(closeErr))
		}
	}()

	var w io.Writer = cmd.OutOrStdout()
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	written, err := io.Copy(w, resource)
	if err != nil {
		return fmt.Errorf("failed to copy stream: %w", err)
	}

	logger.Info("Stream written",
		zap.String("url", track.URL),
		zap.String("encoding", resource.Encoding.String()),
		zap.Int64("bytes", written))
	return nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withServices(cmd, runServer)
		},
	}
}

func runServer(ctx context.Context, svcs *services) error {
	fg := flood.New(config.App.FloodLimitPerMinute)
	defer fg.Stop()

	server := svcs.newHTTPServer(config, fg, logger.Named("http"))

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(gCtx)
	})

	logger.Info("songbird started successfully",
		zap.String("http_addr", fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)),
		zap.String("language", config.App.Language),
		zap.Bool("spotify_enabled", config.Spotify.Enabled()),
		zap.Bool("redis_cache", config.Cache.RedisAddr != ""))

	if err := g.Wait(); err != nil {
		logger.Error("songbird stopped with error", zap.Error(err))
		return err
	}

	logger.Info("songbird stopped gracefully")
	return nil
}

// withServices runs fn with wired services under a context cancelled by SIGINT or SIGTERM.
func withServices(cmd *cobra.Command, fn func(context.Context, *services) error) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	defer func() { _ = logger.Sync() }()

	svcs, err := initializeServices(ctx, config, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := svcs.Close(); closeErr != nil {
			logger.Debug("Failed to close services", zap.Error(closeErr))
		}
	}()

	return fn(ctx, svcs)
}

func resolveArgs(ctx context.Context, svcs *services, args []string) (core.Track, error) {
	url, query := inputFromArgs(args)
	track, err := svcs.resolver.Resolve(ctx, url, query)
	if err != nil {
		return core.Track{}, fmt.Errorf("%s: %w", svcs.formatter.ErrorMessage(err), err)
	}
	return track, nil
}

func writeOutput(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
