package core

import (
	"context"
	"errors"
	"io"
	"reflect"
	"testing"

	"go.uber.org/zap"
)

func TestResourceBuilder_OpenStream(t *testing.T) {
	track := Track{
		URL:             "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		Title:           "Never Gonna Give You Up",
		DurationSeconds: 213,
	}
	body := newBody("OggS")

	media := newMockMediaProvider()
	media.streams[track.URL] = &Stream{Body: body, Encoding: EncodingOpus}
	recorder := &mockRecorder{}

	builder := NewResourceBuilder(media, zap.NewNop(), recorder)
	outcome, err := builder.OpenStream(context.Background(), track)
	if err != nil {
		t.Fatalf("OpenStream() unexpected error: %v", err)
	}

	resource, ok := outcome.Resource()
	if !ok || outcome.Empty() {
		t.Fatal("OpenStream() returned empty outcome for a primary track")
	}
	if resource.Encoding != EncodingOpus {
		t.Errorf("Encoding = %v, want %v", resource.Encoding, EncodingOpus)
	}
	if resource.Track != track {
		t.Errorf("Track = %+v, want %+v", resource.Track, track)
	}
	if !resource.InlineVolume {
		t.Error("InlineVolume = false, want true")
	}

	data, err := io.ReadAll(resource)
	if err != nil || string(data) != "OggS" {
		t.Errorf("ReadAll() = %q, %v", data, err)
	}
	if err := resource.Close(); err != nil || !body.closed {
		t.Errorf("Close() = %v, closed %v", err, body.closed)
	}

	if !reflect.DeepEqual(recorder.streams, []string{"primary:opened"}) {
		t.Errorf("recorded streams = %v", recorder.streams)
	}
}

func TestResourceBuilder_EmptyOutcomes(t *testing.T) {
	tests := []struct {
		name     string
		track    Track
		stream   *Stream
		expected []string
		calls    int
	}{
		{
			name:     "Secondary provider track",
			track:    Track{URL: "https://soundcloud.com/artist/track"},
			expected: []string{"secondary:empty"},
			calls:    0,
		},
		{
			name:     "Provider returned no stream",
			track:    Track{URL: "https://youtube.com/watch?v=abc"},
			stream:   nil,
			expected: []string{"primary:empty"},
			calls:    1,
		},
		{
			name:     "Provider returned no body",
			track:    Track{URL: "https://youtube.com/watch?v=abc"},
			stream:   &Stream{Encoding: EncodingOpus},
			expected: []string{"primary:empty"},
			calls:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			media := newMockMediaProvider()
			if tt.stream != nil {
				media.streams[tt.track.URL] = tt.stream
			}
			recorder := &mockRecorder{}

			builder := NewResourceBuilder(media, zap.NewNop(), recorder)
			outcome, err := builder.OpenStream(context.Background(), tt.track)
			if err != nil {
				t.Fatalf("OpenStream() error = %v, want nil", err)
			}
			if !outcome.Empty() {
				t.Error("OpenStream() outcome should be empty")
			}
			if r, ok := outcome.Resource(); ok || r != nil {
				t.Errorf("Resource() = %v, %v, want nil, false", r, ok)
			}
			if len(media.streamCalls) != tt.calls {
				t.Errorf("stream calls = %d, want %d", len(media.streamCalls), tt.calls)
			}
			if !reflect.DeepEqual(recorder.streams, tt.expected) {
				t.Errorf("recorded streams = %v, want %v", recorder.streams, tt.expected)
			}
		})
	}
}

func TestResourceBuilder_ProviderError(t *testing.T) {
	cause := errors.New("signature decipher failed")
	media := newMockMediaProvider()
	media.streamErr = cause

	builder := NewResourceBuilder(media, zap.NewNop(), nil)
	track := Track{URL: "https://youtube.com/watch?v=abc", Title: "abc"}
	outcome, err := builder.OpenStream(context.Background(), track)

	if !outcome.Empty() {
		t.Error("failed open should not yield a resource")
	}
	if !errors.Is(err, ErrProvider) || !errors.Is(err, cause) {
		t.Fatalf("OpenStream() error = %v, want provider error wrapping cause", err)
	}

	var re *ResolutionError
	errors.As(err, &re)
	if re.URL != track.URL || re.Provider != "youtube" {
		t.Errorf("ResolutionError = %+v", re)
	}
}

func TestEncodingFromMime(t *testing.T) {
	tests := []struct {
		mime     string
		expected Encoding
	}{
		{`audio/webm; codecs="opus"`, EncodingOpus},
		{`AUDIO/WEBM; CODECS="OPUS"`, EncodingOpus},
		{`audio/ogg; codecs="opus"`, EncodingOggOpus},
		{`audio/mp4; codecs="mp4a.40.2"`, EncodingArbitrary},
		{`audio/webm; codecs="vorbis"`, EncodingArbitrary},
		{"", EncodingArbitrary},
	}

	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			if got := EncodingFromMime(tt.mime); got != tt.expected {
				t.Errorf("EncodingFromMime(%q) = %v, want %v", tt.mime, got, tt.expected)
			}
		})
	}
}

func TestEncoding_ContentType(t *testing.T) {
	tests := []struct {
		encoding Encoding
		expected string
	}{
		{EncodingOpus, "audio/webm"},
		{EncodingOggOpus, "audio/ogg"},
		{EncodingArbitrary, "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := tt.encoding.ContentType(); got != tt.expected {
			t.Errorf("%v.ContentType() = %q, want %q", tt.encoding, got, tt.expected)
		}
	}
}
