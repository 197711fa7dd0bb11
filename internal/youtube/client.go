// Package youtube implements the primary media provider: video metadata, keyword search
// and audio streams.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	kkdai "github.com/kkdai/youtube/v2"
	"github.com/ppalone/ytsearch"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"songbird/internal/core"
)

// ProviderName identifies this provider in errors and metrics.
const ProviderName = "youtube"

// watchURLPrefix is the canonical watch URL reported for fetched videos.
const watchURLPrefix = "https://www.youtube.com/watch?v="

// ErrNoAudioFormat is returned when a video offers nothing with an audio channel.
var ErrNoAudioFormat = errors.New("no audio formats found for video")

// videoAPI is the subset of the kkdai client used here.
type videoAPI interface {
	GetVideoContext(ctx context.Context, url string) (*kkdai.Video, error)
	GetStreamContext(ctx context.Context, video *kkdai.Video, format *kkdai.Format) (io.ReadCloser, int64, error)
}

type searchFunc func(ctx context.Context, query string) ([]core.SearchResult, error)

// Config holds the provider transport settings.
type Config struct {
	Proxy             string
	RequestTimeout    time.Duration
	RequestsPerSecond float64
}

// Client implements core.MediaProvider.
type Client struct {
	videos  videoAPI
	streams videoAPI
	search  searchFunc
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient creates a primary provider client. Metadata and search requests are bounded by
// RequestTimeout; stream downloads are bounded only by their context.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	transport, err := newTransport(cfg.Proxy)
	if err != nil {
		return nil, err
	}

	metaHTTP := newHTTPClient(transport, cfg.RequestTimeout)
	streamHTTP := newHTTPClient(transport, 0)
	searcher := ytsearch.NewClient(metaHTTP)

	if cfg.Proxy != "" {
		logger.Info("Using proxy for primary provider")
	}

	return &Client{
		videos:  &kkdai.Client{HTTPClient: metaHTTP},
		streams: &kkdai.Client{HTTPClient: streamHTTP},
		search: func(ctx context.Context, query string) ([]core.SearchResult, error) {
			res, err := searcher.Search(ctx, query)
			if err != nil {
				return nil, err
			}
			results := make([]core.SearchResult, 0, len(res.Results))
			for _, r := range res.Results {
				results = append(results, core.SearchResult{
					ID:      r.VideoID,
					Title:   r.Title,
					Channel: r.Channel,
				})
			}
			return results, nil
		},
		limiter: newLimiter(cfg.RequestsPerSecond),
		logger:  logger,
	}, nil
}

// newLimiter paces outgoing requests. A non-positive rate disables pacing.
func newLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(perSecond), int(math.Max(1, math.Ceil(perSecond))))
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// GetVideo fetches metadata for a watch URL, short link or bare video ID.
func (c *Client) GetVideo(ctx context.Context, url string) (*core.VideoDetails, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	video, err := c.videos.GetVideoContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch video %s: %w", url, err)
	}

	c.logger.Debug("Fetched video metadata",
		zap.String("id", video.ID),
		zap.String("title", video.Title),
		zap.Duration("duration", video.Duration))

	return videoDetails(url, video), nil
}

// Search runs a keyword search and returns video hits in ranking order.
func (c *Client) Search(ctx context.Context, query string) ([]core.SearchResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	results, err := c.search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	c.logger.Debug("Search completed",
		zap.String("query", query),
		zap.Int("results", len(results)))

	return results, nil
}

// OpenStream downloads the best audio format of the video at url.
func (c *Client) OpenStream(ctx context.Context, url string) (*core.Stream, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	video, err := c.streams.GetVideoContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch video %s: %w", url, err)
	}

	format, ok := chooseFormat(video.Formats)
	if !ok {
		return nil, ErrNoAudioFormat
	}

	body, size, err := c.streams.GetStreamContext(ctx, video, format)
	if err != nil {
		return nil, fmt.Errorf("failed to open stream: %w", err)
	}

	c.logger.Debug("Opened audio stream",
		zap.String("id", video.ID),
		zap.Int("itag", format.ItagNo),
		zap.String("mime", format.MimeType),
		zap.Int64("size", size))

	return &core.Stream{
		Body:     body,
		Encoding: core.EncodingFromMime(format.MimeType),
	}, nil
}

func videoDetails(requested string, video *kkdai.Video) *core.VideoDetails {
	url := requested
	if video.ID != "" {
		url = watchURLPrefix + video.ID
	}

	live := video.HLSManifestURL != "" && video.Duration == 0

	details := &core.VideoDetails{
		URL:         url,
		Title:       video.Title,
		ChannelName: video.Author,
		Live:        live,
	}
	if !live {
		details.DurationSeconds = int(video.Duration / time.Second)
		details.DurationRaw = FormatDuration(video.Duration)
	}

	for _, t := range video.Thumbnails {
		details.Thumbnails = append(details.Thumbnails, core.Thumbnail{
			URL:    t.URL,
			Width:  t.Width,
			Height: t.Height,
		})
	}
	return details
}

// chooseFormat prefers audio-only opus, then any audio-only format, then anything with audio.
// Within a tier the highest bitrate wins.
func chooseFormat(formats kkdai.FormatList) (*kkdai.Format, bool) {
	withAudio := formats.WithAudioChannels()
	if len(withAudio) == 0 {
		return nil, false
	}

	ranked := make([]kkdai.Format, len(withAudio))
	copy(ranked, withAudio)
	sort.SliceStable(ranked, func(i, j int) bool {
		ti, tj := formatTier(ranked[i].MimeType), formatTier(ranked[j].MimeType)
		if ti != tj {
			return ti < tj
		}
		return ranked[i].Bitrate > ranked[j].Bitrate
	})
	return &ranked[0], true
}

func formatTier(mime string) int {
	mime = strings.ToLower(mime)
	audioOnly := strings.HasPrefix(mime, "audio/")
	switch {
	case audioOnly && strings.Contains(mime, "opus"):
		return 0
	case audioOnly:
		return 1
	default:
		return 2
	}
}

// FormatDuration renders d the way the provider displays it: m:ss, or h:mm:ss past an hour.
// Zero renders as an empty string.
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	total := int(d / time.Second)
	h, m, s := total/3600, total/60%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
