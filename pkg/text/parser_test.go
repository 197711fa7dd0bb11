package text

import (
	"reflect"
	"testing"
)

// runStringTransformationTest is a helper to run tests for string transformation functions.
func runStringTransformationTest(t *testing.T, testName string,
	transformFunc func(string) string, testCases []struct {
		name     string
		input    string
		expected string
	}) {
	t.Helper()
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			result := transformFunc(tt.input)
			if result != tt.expected {
				t.Errorf("%s() = %q, want %q", testName, result, tt.expected)
			}
		})
	}
}

// runBooleanTest is a helper to run tests for boolean functions.
func runBooleanTest(t *testing.T, testName string,
	testFunc func(string) bool, testCases []struct {
		name     string
		input    string
		expected bool
	}) {
	t.Helper()
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			result := testFunc(tt.input)
			if result != tt.expected {
				t.Errorf("%s() = %v, want %v", testName, result, tt.expected)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	runStringTransformationTest(t, "Normalize", Normalize, []struct {
		name     string
		input    string
		expected string
	}{
		{"Trims spaces", "  never gonna  ", "never gonna"},
		{"Collapses inner whitespace", "never \t gonna\n\ngive", "never gonna give"},
		{"Fullwidth letters", "ｈｅｌｌｏ", "hello"},
		{"Empty", "", ""},
	})
}

func TestIsVideoURL(t *testing.T) {
	runBooleanTest(t, "IsVideoURL", IsVideoURL, []struct {
		name     string
		input    string
		expected bool
	}{
		{"Standard watch URL", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"No scheme", "youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"Short link", "https://youtu.be/dQw4w9WgXcQ", true},
		{"Music host", "https://music.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"Mobile host", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"Bare domain", "https://www.youtube.com/", false},
		{"Spotify link", "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC", false},
		{"Free text", "rick astley never gonna give you up", false},
		{"Domain in text", "watch this on youtube.com/watch?v=x", false},
	})
}

func TestIsURL(t *testing.T) {
	runBooleanTest(t, "IsURL", IsURL, []struct {
		name     string
		input    string
		expected bool
	}{
		{"HTTPS", "https://example.com/a", true},
		{"Custom scheme with host", "ftp://files.example.com", true},
		{"Opaque URI", "spotify:track:4uLU6hMCjMI75M1A2tKUQC", true},
		{"No scheme", "example.com", false},
		{"Words", "daft punk", false},
		{"Scheme only", "https://", false},
		{"Empty", "", false},
	})
}

func TestIsSpotifyTrackURL(t *testing.T) {
	runBooleanTest(t, "IsSpotifyTrackURL", IsSpotifyTrackURL, []struct {
		name     string
		input    string
		expected bool
	}{
		{"Track link", "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC", true},
		{"Track URI", "spotify:track:4uLU6hMCjMI75M1A2tKUQC", true},
		{"Album link", "https://open.spotify.com/album/1DFixLWuPkv3KT3TnV35m3", false},
		{"YouTube link", "https://youtu.be/dQw4w9WgXcQ", false},
	})
}

func TestExtractURLs(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			"Strips tracking params",
			"https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC?si=abc&utm_source=copy",
			[]string{"https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC"},
		},
		{
			"Trailing punctuation",
			"listen: https://example.com/song!",
			[]string{"https://example.com/song"},
		},
		{
			"URI and link",
			"spotify:track:abc and https://youtu.be/x",
			[]string{"spotify:track:abc", "https://youtu.be/x"},
		},
		{"None", "just words", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractURLs(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ExtractURLs() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSpotifyTrackLink(t *testing.T) {
	link, ok := SpotifyTrackLink("play https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC?si=x now")
	if !ok {
		t.Fatal("SpotifyTrackLink() found nothing")
	}
	if link != "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC" {
		t.Errorf("SpotifyTrackLink() = %q", link)
	}

	if _, ok := SpotifyTrackLink("https://youtu.be/dQw4w9WgXcQ"); ok {
		t.Error("SpotifyTrackLink() matched a non-Spotify link")
	}
}

func TestExtractSpotifyTrackID(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  string
		wantError bool
	}{
		{"Link", "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC", "4uLU6hMCjMI75M1A2tKUQC", false},
		{"Localized link", "https://open.spotify.com/intl-de/track/4uLU6hMCjMI75M1A2tKUQC", "4uLU6hMCjMI75M1A2tKUQC", false},
		{"URI", "spotify:track:4uLU6hMCjMI75M1A2tKUQC", "4uLU6hMCjMI75M1A2tKUQC", false},
		{"Empty URI", "spotify:track:", "", true},
		{"Album", "https://open.spotify.com/album/1DFixLWuPkv3KT3TnV35m3", "", true},
		{"Not a URL", "open.spotify.com/track/x", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ExtractSpotifyTrackID(tt.input)
			if tt.wantError {
				if err == nil {
					t.Errorf("ExtractSpotifyTrackID() expected error, got %q", id)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractSpotifyTrackID() unexpected error: %v", err)
			}
			if id != tt.expected {
				t.Errorf("ExtractSpotifyTrackID() = %q, want %q", id, tt.expected)
			}
		})
	}
}
