package core

import (
	"context"
	"io"
	"strings"
	"time"
)

// PrimaryDomainMarker is the URL fragment that identifies tracks owned by the primary provider.
const PrimaryDomainMarker = "youtube"

// Source identifies which provider owns a track.
type Source int

const (
	// SourcePrimary is the video-hosting provider used for metadata and streaming
	SourcePrimary Source = iota
	// SourceSecondary is any other streaming provider
	SourceSecondary
)

func (s Source) String() string {
	switch s {
	case SourcePrimary:
		return "primary"
	case SourceSecondary:
		return "secondary"
	default:
		return "unknown"
	}
}

// Track is the canonical, provider-agnostic media record. It is built once by the Resolver
// and treated as read-only afterwards.
type Track struct {
	URL             string `json:"url"`
	Title           string `json:"title"`
	Channel         string `json:"channel"`
	ThumbnailURL    string `json:"thumbnail_url"`
	IsLive          bool   `json:"is_live"`
	DurationText    string `json:"duration"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
}

// Source reports the provider that owns the track, judged by its URL.
func (t Track) Source() Source {
	if strings.Contains(t.URL, PrimaryDomainMarker) {
		return SourcePrimary
	}
	return SourceSecondary
}

// Duration returns DurationSeconds as a time.Duration. Zero is the live sentinel.
func (t Track) Duration() time.Duration {
	return time.Duration(t.DurationSeconds) * time.Second
}

// Thumbnail is a preview image reported by the primary provider.
type Thumbnail struct {
	URL    string
	Width  uint
	Height uint
}

// VideoDetails is the raw metadata shape returned by the primary provider.
type VideoDetails struct {
	URL             string
	Title           string
	ChannelName     string
	Thumbnails      []Thumbnail
	Live            bool
	DurationRaw     string
	DurationSeconds int
}

// SearchResult is a lightweight keyword search hit.
type SearchResult struct {
	ID      string
	Title   string
	Channel string
}

// CatalogTrack is what the secondary playlist service knows about a shared link.
type CatalogTrack struct {
	Title         string
	PrimaryArtist string
}

// Stream is a byte stream opened by the primary provider together with its encoding.
type Stream struct {
	Body     io.ReadCloser
	Encoding Encoding
}

// MediaProvider is the primary video-hosting provider.
type MediaProvider interface {
	// GetVideo fetches full metadata for a video URL.
	GetVideo(ctx context.Context, url string) (*VideoDetails, error)
	// Search returns ranked results for keywords, best match first.
	Search(ctx context.Context, query string) ([]SearchResult, error)
	// OpenStream opens an audio stream for a video URL.
	OpenStream(ctx context.Context, url string) (*Stream, error)
	// Name is used for logging and error context.
	Name() string
}

// CatalogProvider is the secondary playlist service. It is consulted for title and artist only.
type CatalogProvider interface {
	GetTrack(ctx context.Context, link string) (*CatalogTrack, error)
	Name() string
}

// TrackCache stores resolved tracks by resolution key.
type TrackCache interface {
	Get(ctx context.Context, key string) (Track, bool)
	Add(ctx context.Context, key string, track Track)
}

// Recorder receives resolver and resource telemetry.
type Recorder interface {
	RecordResolve(kind, status string, duration time.Duration)
	RecordCacheLookup(hit bool)
	RecordProviderError(provider string)
	RecordStream(source, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) RecordResolve(string, string, time.Duration) {}
func (nopRecorder) RecordCacheLookup(bool)                      {}
func (nopRecorder) RecordProviderError(string)                  {}
func (nopRecorder) RecordStream(string, string)                 {}
