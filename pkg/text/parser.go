// Package text provides input normalization and link-shape detection for music references.
package text

import (
	"errors"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	// MinPartsForTrackInfo represents the minimum number of parts in a spotify:track:<id> URI
	MinPartsForTrackInfo = 3
)

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	urlRegex        = regexp.MustCompile(`(?:https?://\S+|spotify:track:[a-zA-Z0-9]+)`)
	spotifyURIRegex = regexp.MustCompile(`spotify:track:([a-zA-Z0-9]+)`)
	videoLinkRegex  = regexp.MustCompile(`^(?:https?://)?(?:www\.|m\.|music\.)?(?:youtube\.com|youtu\.be)/\S+`)

	spotifyDomains = map[string]bool{
		"open.spotify.com": true,
		"spotify.com":      true,
	}

	// ErrNoTrackID is returned when a link carries no track identifier.
	ErrNoTrackID = errors.New("no track ID in link")
)

// Normalize trims, NFKC-normalizes and collapses whitespace (including newlines) to single spaces.
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	s = whitespaceRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// IsVideoURL reports whether s is a direct link to a video on the primary provider.
func IsVideoURL(s string) bool {
	return videoLinkRegex.MatchString(strings.TrimSpace(s))
}

// IsURL reports whether s parses as an absolute URL of any scheme.
func IsURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t\n") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return false
	}
	return u.Host != "" || u.Opaque != ""
}

// ExtractURLs returns every link-shaped token in s with tracking parameters stripped.
func ExtractURLs(s string) []string {
	matches := urlRegex.FindAllString(s, -1)
	var cleanURLs []string

	for _, match := range matches {
		if strings.HasPrefix(match, "spotify:") {
			cleanURLs = append(cleanURLs, match)
			continue
		}
		cleanURL := cleanURL(match)
		if cleanURL != "" {
			cleanURLs = append(cleanURLs, cleanURL)
		}
	}

	return cleanURLs
}

// SpotifyTrackLink returns the first Spotify track link contained in s.
func SpotifyTrackLink(s string) (string, bool) {
	for _, u := range ExtractURLs(s) {
		if IsSpotifyTrackURL(u) {
			return u, true
		}
	}
	return "", false
}

// IsSpotifyTrackURL reports whether rawURL is an open.spotify.com track link or a spotify:track: URI.
func IsSpotifyTrackURL(rawURL string) bool {
	if spotifyURIRegex.MatchString(rawURL) {
		return true
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	hostname := strings.ToLower(u.Hostname())

	if spotifyDomains[hostname] {
		return strings.Contains(u.Path, "/track/")
	}

	return false
}

// ExtractSpotifyTrackID returns the track ID of a Spotify link or URI.
func ExtractSpotifyTrackID(rawURL string) (string, error) {
	if strings.HasPrefix(rawURL, "spotify:track:") {
		parts := strings.Split(rawURL, ":")
		if len(parts) >= MinPartsForTrackInfo && parts[2] != "" {
			return parts[2], nil
		}
		return "", ErrNoTrackID
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return "", errors.New("invalid URL")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	pathParts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, part := range pathParts {
		if part == "track" && i+1 < len(pathParts) && pathParts[i+1] != "" {
			return pathParts[i+1], nil
		}
	}

	return "", ErrNoTrackID
}

func cleanURL(rawURL string) string {
	rawURL = strings.TrimRight(rawURL, ".,!?;")

	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	if u.Host == "" {
		return ""
	}

	q := u.Query()

	utmParams := []string{"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content"}
	for _, param := range utmParams {
		q.Del(param)
	}

	q.Del("si")

	u.RawQuery = q.Encode()

	return u.String()
}
