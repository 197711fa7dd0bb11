package core

import (
	"context"
	"time"

	"go.uber.org/zap"

	"songbird/pkg/text"
)

// WatchURLPrefix builds a primary-provider URL from a search result identifier.
const WatchURLPrefix = "https://youtube.com/watch?v="

const statusOK = "ok"

// Resolver turns a raw url and/or free-text query into a canonical Track.
// It holds no per-call state and is safe for concurrent use.
type Resolver struct {
	media    MediaProvider
	catalog  CatalogProvider
	cache    TrackCache
	recorder Recorder
	logger   *zap.Logger
}

// ResolverOption configures optional Resolver collaborators.
type ResolverOption func(*Resolver)

// WithCache enables caching of resolved tracks.
func WithCache(cache TrackCache) ResolverOption {
	return func(r *Resolver) {
		r.cache = cache
	}
}

// WithRecorder sends resolution telemetry to rec.
func WithRecorder(rec Recorder) ResolverOption {
	return func(r *Resolver) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// NewResolver creates a resolver over the primary media provider and the secondary catalog.
func NewResolver(media MediaProvider, catalog CatalogProvider, logger *zap.Logger, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		media:    media,
		catalog:  catalog,
		recorder: nopRecorder{},
		logger:   logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve classifies the input and dispatches it to the matching provider path.
// Failures are *ResolutionError values; provider failures are never downgraded.
func (r *Resolver) Resolve(ctx context.Context, url, query string) (Track, error) {
	in := Classify(url, query)
	start := time.Now()

	r.logger.Debug("Resolving input",
		zap.String("kind", in.Kind.String()),
		zap.String("url", in.URL),
		zap.String("query", in.Query))

	if r.cache != nil {
		if track, ok := r.cache.Get(ctx, in.Key()); ok {
			r.recorder.RecordCacheLookup(true)
			r.recorder.RecordResolve(in.Kind.String(), statusOK, time.Since(start))
			return track, nil
		}
		r.recorder.RecordCacheLookup(false)
	}

	var (
		track Track
		err   error
	)
	switch in.Kind {
	case InputDirectLink:
		track, err = r.resolveDirect(ctx, in)
	case InputPlaylistServiceLink:
		track, err = r.resolvePlaylistService(ctx, in)
	default:
		track, err = r.resolveSearch(ctx, in)
	}

	if err != nil {
		if KindOf(err) == KindProviderError {
			r.logger.Warn("Provider failed during resolution",
				zap.String("kind", in.Kind.String()),
				zap.Error(err))
		}
		r.recorder.RecordResolve(in.Kind.String(), KindOf(err).String(), time.Since(start))
		return Track{}, err
	}

	if r.cache != nil {
		r.cache.Add(ctx, in.Key(), track)
	}
	r.recorder.RecordResolve(in.Kind.String(), statusOK, time.Since(start))

	r.logger.Debug("Resolved track",
		zap.String("kind", in.Kind.String()),
		zap.String("title", track.Title),
		zap.String("url", track.URL))

	return track, nil
}

func (r *Resolver) resolveDirect(ctx context.Context, in Input) (Track, error) {
	return r.fetch(ctx, in, in.URL)
}

func (r *Resolver) resolvePlaylistService(ctx context.Context, in Input) (Track, error) {
	if r.catalog == nil {
		return Track{}, providerError(CatalogProviderName, in, ErrCatalogNotConfigured)
	}

	info, err := r.catalog.GetTrack(ctx, in.Link)
	if err != nil {
		r.recorder.RecordProviderError(r.catalog.Name())
		return Track{}, providerError(r.catalog.Name(), in, err)
	}

	searchQuery := info.PrimaryArtist + " - " + info.Title
	r.logger.Debug("Re-searching catalog track on primary provider",
		zap.String("search", searchQuery))

	result, err := r.searchOne(ctx, in, searchQuery)
	if err != nil {
		return Track{}, err
	}
	if result == nil {
		r.logger.Info("No primary results for catalog track", zap.String("search", searchQuery))
		return Track{}, &ResolutionError{Kind: KindNoResults, Query: in.Query, URL: in.URL}
	}

	return r.fetch(ctx, in, WatchURLPrefix+result.ID)
}

func (r *Resolver) resolveSearch(ctx context.Context, in Input) (Track, error) {
	result, err := r.searchOne(ctx, in, in.Query)
	if err != nil {
		return Track{}, err
	}

	if result == nil {
		r.logger.Info("No results found", zap.String("query", in.Query))
		kind := KindNoResults
		if text.IsURL(in.URL) {
			kind = KindInvalidURL
		}
		return Track{}, &ResolutionError{Kind: kind, Query: in.Query, URL: in.URL}
	}

	return r.fetch(ctx, in, WatchURLPrefix+result.ID)
}

// searchOne returns the first search hit, or nil when the search is empty.
func (r *Resolver) searchOne(ctx context.Context, in Input, query string) (*SearchResult, error) {
	results, err := r.media.Search(ctx, query)
	if err != nil {
		r.recorder.RecordProviderError(r.media.Name())
		return nil, providerError(r.media.Name(), in, err)
	}
	for i := range results {
		if results[i].ID != "" {
			r.logger.Debug("Selected search result",
				zap.String("query", query),
				zap.String("id", results[i].ID),
				zap.String("title", results[i].Title),
				zap.String("channel", results[i].Channel))
			return &results[i], nil
		}
	}
	return nil, nil
}

func (r *Resolver) fetch(ctx context.Context, in Input, url string) (Track, error) {
	details, err := r.media.GetVideo(ctx, url)
	if err != nil {
		r.recorder.RecordProviderError(r.media.Name())
		return Track{}, providerError(r.media.Name(), in, err)
	}
	if details == nil {
		return newTrack(VideoDetails{}), nil
	}
	return newTrack(*details), nil
}

// newTrack maps provider metadata into the canonical shape.
func newTrack(d VideoDetails) Track {
	t := Track{
		URL:             d.URL,
		Title:           d.Title,
		Channel:         d.ChannelName,
		IsLive:          d.Live,
		DurationText:    d.DurationRaw,
		DurationSeconds: d.DurationSeconds,
	}
	if len(d.Thumbnails) > 0 {
		t.ThumbnailURL = d.Thumbnails[0].URL
	}
	if t.IsLive || t.DurationSeconds < 0 {
		t.DurationSeconds = 0
	}
	return t
}
