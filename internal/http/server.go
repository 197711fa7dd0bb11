// Package http exposes resolution, now-playing and streaming over HTTP, with health and
// prometheus endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"songbird/internal/core"
	"songbird/internal/flood"
)

const (
	// ServiceName is reported by the health endpoints
	ServiceName = "songbird"
	// shutdownTimeout bounds graceful shutdown
	shutdownTimeout = 10 * time.Second
)

var errMissingInput = errors.New("missing url or q parameter")

// Resolver turns request input into a track.
type Resolver interface {
	Resolve(ctx context.Context, url, query string) (core.Track, error)
}

// StreamOpener opens audio for a resolved track.
type StreamOpener interface {
	OpenStream(ctx context.Context, track core.Track) (core.StreamOutcome, error)
}

// Options are the collaborators served by the HTTP surface.
type Options struct {
	Resolver  Resolver
	Streams   StreamOpener
	Formatter *core.MessageFormatter
	// Floodgate is optional; without it requests are not limited.
	Floodgate *flood.Floodgate
	Metrics   *Metrics
	Gatherer  prometheus.Gatherer
}

type Server struct {
	config *core.ServerConfig
	opts   Options
	logger *zap.Logger
	server *http.Server
}

// NewServer builds the server. Metrics and Gatherer default to a private registry.
func NewServer(config *core.ServerConfig, opts Options, logger *zap.Logger) *Server {
	if opts.Metrics == nil || opts.Gatherer == nil {
		registry := prometheus.NewRegistry()
		opts.Metrics = NewMetrics(registry)
		opts.Gatherer = registry
	}

	s := &Server{
		config: config,
		opts:   opts,
		logger: logger,
	}
	s.server = createHTTPServer(config, s.setupRoutes())
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting HTTP server",
		zap.String("addr", s.server.Addr))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("Failed to shutdown HTTP server gracefully", zap.Error(err))
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}

	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	return nil
}

func createHTTPServer(config *core.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              net.JoinHostPort(config.Host, strconv.Itoa(config.Port)),
		Handler:           handler,
		ReadTimeout:       config.ReadTimeout,
		ReadHeaderTimeout: config.ReadTimeout,
		WriteTimeout:      config.WriteTimeout,
	}
}

func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.instrument("/healthz", healthHandler("ok")))
	mux.HandleFunc("GET /readyz", s.instrument("/readyz", s.handleReady))
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))

	mux.HandleFunc("GET /v1/resolve", s.instrument("/v1/resolve", s.limit("/v1/resolve", s.handleResolve)))
	mux.HandleFunc("GET /v1/nowplaying", s.instrument("/v1/nowplaying", s.limit("/v1/nowplaying", s.handleNowPlaying)))
	mux.HandleFunc("GET /v1/stream", s.instrument("/v1/stream", s.limit("/v1/stream", s.handleStream)))

	mux.HandleFunc("GET /{$}", homeHandler(s.logger))

	return mux
}

func healthHandler(status string) http.HandlerFunc {
	body := fmt.Sprintf(`{"status":%q,"service":%q}`, status, ServiceName)
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
	}
}

type readyResponse struct {
	Status  string       `json:"status"`
	Service string       `json:"service"`
	Flood   *flood.Stats `json:"flood,omitempty"`
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	resp := readyResponse{Status: "ready", Service: ServiceName}
	if s.opts.Floodgate != nil {
		stats := s.opts.Floodgate.GetStats()
		resp.Flood = &stats
	}
	writeJSON(w, http.StatusOK, resp)
}

func homeHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(homePage)); err != nil {
			logger.Debug("Failed to write home page", zap.Error(err))
		}
	}
}

const homePage = `<!DOCTYPE html>
<html>
<head>
    <title>Songbird</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; }
        .header { color: #333; }
        .endpoint { margin: 10px 0; }
        .endpoint a { text-decoration: none; color: #0066cc; }
        .endpoint a:hover { text-decoration: underline; }
        code { background: #f4f4f4; padding: 2px 4px; }
    </style>
</head>
<body>
    <h1 class="header">🎵 Songbird</h1>
    <p>Music reference resolver: video links, playlist-service links and free text</p>

    <h2>API</h2>
    <div class="endpoint">🔎 <code>GET /v1/resolve?q=never gonna give you up</code> - Resolve to a track</div>
    <div class="endpoint">⏱️ <code>GET /v1/nowplaying?q=...&amp;elapsed=1m5s</code> - Progress view</div>
    <div class="endpoint">🔊 <code>GET /v1/stream?url=https://youtu.be/...</code> - Audio stream</div>

    <h2>Operations</h2>
    <div class="endpoint">📊 <a href="/metrics">Metrics</a> - Prometheus metrics</div>
    <div class="endpoint">💚 <a href="/healthz">Health</a> - Health check</div>
    <div class="endpoint">✅ <a href="/readyz">Ready</a> - Readiness check</div>
</body>
</html>`

type resolveResponse struct {
	Track core.Track `json:"track"`
	Card  core.Card  `json:"card"`
}

type nowPlayingResponse struct {
	Track    core.Track        `json:"track"`
	Progress core.ProgressView `json:"progress"`
	Card     core.Card         `json:"card"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	track, ok := s.resolve(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, resolveResponse{
		Track: track,
		Card:  s.opts.Formatter.StartCard(track),
	})
}

func (s *Server) handleNowPlaying(w http.ResponseWriter, r *http.Request) {
	elapsed, err := parseElapsed(r.URL.Query().Get("elapsed"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "BadRequest", Message: err.Error()})
		return
	}

	track, ok := s.resolve(w, r)
	if !ok {
		return
	}

	view := core.ComputeProgress(elapsed, track)
	writeJSON(w, http.StatusOK, nowPlayingResponse{
		Track:    track,
		Progress: view,
		Card:     s.opts.Formatter.NowPlayingCard(view),
	})
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	track, ok := s.resolve(w, r)
	if !ok {
		return
	}

	outcome, err := s.opts.Streams.OpenStream(r.Context(), track)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resource, ok := outcome.Resource()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	defer func() {
		_ = resource.Close()
	}()

	w.Header().Set("Content-Type", resource.Encoding.ContentType())
	w.WriteHeader(http.StatusOK)

	written, err := io.Copy(w, resource)
	if err != nil {
		s.logger.Warn("Stream interrupted",
			zap.String("url", track.URL),
			zap.Int64("bytes", written),
			zap.Error(err))
		return
	}
	s.logger.Debug("Stream finished",
		zap.String("url", track.URL),
		zap.Int64("bytes", written))
}

// resolve runs the resolver for the request input, writing the error response on failure.
func (s *Server) resolve(w http.ResponseWriter, r *http.Request) (core.Track, bool) {
	url, query, err := inputFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "BadRequest", Message: err.Error()})
		return core.Track{}, false
	}

	track, err := s.opts.Resolver.Resolve(r.Context(), url, query)
	if err != nil {
		s.writeError(w, err)
		return core.Track{}, false
	}
	return track, true
}

// inputFromRequest applies the command convention: url defaults to the first word of q and
// q defaults to url.
func inputFromRequest(r *http.Request) (url, query string, err error) {
	params := r.URL.Query()
	url = strings.TrimSpace(params.Get("url"))
	query = strings.TrimSpace(params.Get("q"))

	switch {
	case url == "" && query == "":
		return "", "", errMissingInput
	case query == "":
		query = url
	case url == "":
		url = strings.Fields(query)[0]
	}
	return url, query, nil
}

// parseElapsed accepts a Go duration ("1m5s") or whole seconds ("65").
func parseElapsed(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	if seconds, err := strconv.ParseFloat(raw, 64); err == nil {
		if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
			return 0, fmt.Errorf("invalid elapsed %q", raw)
		}
		return time.Duration(seconds * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid elapsed %q", raw)
	}
	return d, nil
}

func statusForError(err error) int {
	switch core.KindOf(err) {
	case core.KindNoResults:
		return http.StatusNotFound
	case core.KindInvalidURL:
		return http.StatusBadRequest
	case core.KindProviderError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	kind := core.KindOf(err).String()

	if status >= http.StatusInternalServerError {
		s.logger.Warn("Request failed", zap.String("kind", kind), zap.Error(err))
	}

	writeJSON(w, status, errorResponse{
		Error:   kind,
		Message: s.opts.Formatter.ErrorMessage(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
