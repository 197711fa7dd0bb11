package core

import (
	"context"
	"io"
	"strings"

	"go.uber.org/zap"
)

// Encoding is the declared container/codec of an opened stream.
type Encoding int

const (
	// EncodingArbitrary is any stream that needs probing/transcoding downstream
	EncodingArbitrary Encoding = iota
	// EncodingOpus is raw opus packets in a WebM container
	EncodingOpus
	// EncodingOggOpus is opus packets in an Ogg container
	EncodingOggOpus
)

func (e Encoding) String() string {
	switch e {
	case EncodingOpus:
		return "webm/opus"
	case EncodingOggOpus:
		return "ogg/opus"
	default:
		return "arbitrary"
	}
}

// ContentType is the MIME type served for the encoding.
func (e Encoding) ContentType() string {
	switch e {
	case EncodingOpus:
		return "audio/webm"
	case EncodingOggOpus:
		return "audio/ogg"
	default:
		return "application/octet-stream"
	}
}

// EncodingFromMime maps a provider MIME type such as `audio/webm; codecs="opus"` to an Encoding.
func EncodingFromMime(mime string) Encoding {
	mime = strings.ToLower(mime)
	if !strings.Contains(mime, "opus") {
		return EncodingArbitrary
	}
	if strings.Contains(mime, "ogg") {
		return EncodingOggOpus
	}
	if strings.Contains(mime, "webm") {
		return EncodingOpus
	}
	return EncodingArbitrary
}

// AudioResource is a playable stream with the Track it was opened for.
type AudioResource struct {
	Body     io.ReadCloser
	Encoding Encoding
	// Track is a copy of the resolved Track; the builder never modifies it.
	Track Track
	// InlineVolume tells the transport the stream is volume-adjustable.
	InlineVolume bool
}

// Read implements io.Reader.
func (a *AudioResource) Read(p []byte) (int, error) {
	return a.Body.Read(p)
}

// Close releases the underlying stream.
func (a *AudioResource) Close() error {
	return a.Body.Close()
}

// StreamOutcome is the result of OpenStream: either a resource or nothing to play.
type StreamOutcome struct {
	resource *AudioResource
}

// Resource returns the opened resource and true, or nil and false for the empty outcome.
func (o StreamOutcome) Resource() (*AudioResource, bool) {
	return o.resource, o.resource != nil
}

// Empty reports whether there is nothing to play.
func (o StreamOutcome) Empty() bool {
	return o.resource == nil
}

// ResourceBuilder opens streams for resolved tracks.
type ResourceBuilder struct {
	media    MediaProvider
	recorder Recorder
	logger   *zap.Logger
}

// NewResourceBuilder creates a builder that streams from the primary provider.
func NewResourceBuilder(media MediaProvider, logger *zap.Logger, rec Recorder) *ResourceBuilder {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &ResourceBuilder{
		media:    media,
		recorder: rec,
		logger:   logger,
	}
}

// OpenStream opens a stream for track. Secondary-provider tracks and providers that return no
// body yield the empty outcome with a nil error. Provider failures are returned as errors.
func (b *ResourceBuilder) OpenStream(ctx context.Context, track Track) (StreamOutcome, error) {
	source := track.Source()

	// Secondary-provider streaming is not implemented; such tracks never produce a resource.
	if source != SourcePrimary {
		b.logger.Debug("No stream source for track",
			zap.String("url", track.URL),
			zap.String("source", source.String()))
		b.recorder.RecordStream(source.String(), "empty")
		return StreamOutcome{}, nil
	}

	stream, err := b.media.OpenStream(ctx, track.URL)
	if err != nil {
		b.recorder.RecordProviderError(b.media.Name())
		b.recorder.RecordStream(source.String(), "error")
		return StreamOutcome{}, &ResolutionError{
			Kind:     KindProviderError,
			Query:    track.Title,
			URL:      track.URL,
			Provider: b.media.Name(),
			Err:      err,
		}
	}

	if stream == nil || stream.Body == nil {
		b.recorder.RecordStream(source.String(), "empty")
		return StreamOutcome{}, nil
	}

	b.logger.Debug("Opened stream",
		zap.String("url", track.URL),
		zap.String("encoding", stream.Encoding.String()))
	b.recorder.RecordStream(source.String(), "opened")

	return StreamOutcome{resource: &AudioResource{
		Body:         stream.Body,
		Encoding:     stream.Encoding,
		Track:        track,
		InlineVolume: true,
	}}, nil
}
