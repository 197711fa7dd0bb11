package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestMessageFormatter_StartCard(t *testing.T) {
	formatter := NewMessageFormatter("en")

	tests := []struct {
		name             string
		track            Track
		expectedDuration string
	}{
		{
			name: "Regular track",
			track: Track{
				URL:          "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
				Title:        "Never Gonna Give You Up",
				Channel:      "Rick Astley",
				ThumbnailURL: "https://i.ytimg.com/vi/dQw4w9WgXcQ/default.jpg",
				DurationText: "3:33",
			},
			expectedDuration: "3:33",
		},
		{
			name:             "Live track",
			track:            Track{URL: "https://www.youtube.com/watch?v=jfKfPfyJRdk", Title: "lofi", IsLive: true},
			expectedDuration: "🔴 Live",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := formatter.StartCard(tt.track)

			if card.Title != tt.track.Title || card.URL != tt.track.URL {
				t.Errorf("card = %+v", card)
			}
			if card.ThumbnailURL != tt.track.ThumbnailURL {
				t.Errorf("ThumbnailURL = %q, want %q", card.ThumbnailURL, tt.track.ThumbnailURL)
			}
			if len(card.Fields) != 2 {
				t.Fatalf("Fields = %d, want 2", len(card.Fields))
			}
			if card.Fields[0].Value != tt.track.Channel {
				t.Errorf("channel field = %q, want %q", card.Fields[0].Value, tt.track.Channel)
			}
			if card.Fields[1].Value != tt.expectedDuration {
				t.Errorf("duration field = %q, want %q", card.Fields[1].Value, tt.expectedDuration)
			}
			if card.Author == "" {
				t.Error("Author should announce playback")
			}
		})
	}
}

func TestMessageFormatter_NowPlayingCard(t *testing.T) {
	formatter := NewMessageFormatter("en")
	track := Track{URL: "https://youtube.com/watch?v=abc", Title: "abc", DurationSeconds: 200}

	card := formatter.NowPlayingCard(ComputeProgress(50*time.Second, track))
	if card.Description != "abc\nhttps://youtube.com/watch?v=abc" {
		t.Errorf("Description = %q", card.Description)
	}
	if len(card.Fields) != 1 || !strings.HasPrefix(card.Fields[0].Value, "00:00:50[") {
		t.Errorf("Fields = %+v", card.Fields)
	}
	if card.Footer != "Time Remaining: 00:02:30" {
		t.Errorf("Footer = %q", card.Footer)
	}

	live := formatter.NowPlayingCard(ComputeProgress(50*time.Second, Track{Title: "radio", IsLive: true}))
	if len(live.Fields) != 0 || live.Footer != "" {
		t.Errorf("live card should omit progress, got %+v", live)
	}
}

func TestMessageFormatter_ErrorMessage(t *testing.T) {
	formatter := NewMessageFormatter("en")

	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{"No results", &ResolutionError{Kind: KindNoResults, Query: "asdfgh"}, "asdfgh"},
		{"Invalid URL", &ResolutionError{Kind: KindInvalidURL, URL: "https://soundcloud.com/x"}, "https://soundcloud.com/x"},
		{"Provider", &ResolutionError{Kind: KindProviderError, Provider: "spotify"}, "try again"},
		{
			"Catalog not configured",
			&ResolutionError{Kind: KindProviderError, Provider: "spotify", Err: ErrCatalogNotConfigured},
			"not enabled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := formatter.ErrorMessage(tt.err)
			if !strings.Contains(msg, tt.contains) {
				t.Errorf("ErrorMessage() = %q, want it to contain %q", msg, tt.contains)
			}
		})
	}

	generic := formatter.ErrorMessage(errors.New("boom"))
	if generic == "" || strings.Contains(generic, "boom") {
		t.Errorf("generic message = %q", generic)
	}
}

func TestMessageFormatter_NothingToPlay(t *testing.T) {
	formatter := NewMessageFormatter("en")
	msg := formatter.NothingToPlay(Track{Title: "Some Song"})
	if !strings.Contains(msg, "Some Song") {
		t.Errorf("NothingToPlay() = %q", msg)
	}
}
