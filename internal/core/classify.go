package core

import (
	"songbird/pkg/text"
)

// InputKind is the closed set of input shapes the resolver understands.
type InputKind int

const (
	// InputDirectLink is a link to a single video on the primary provider
	InputDirectLink InputKind = iota
	// InputPlaylistServiceLink is a track link on the secondary playlist service
	InputPlaylistServiceLink
	// InputFreeText is anything else, resolved by keyword search
	InputFreeText
)

func (k InputKind) String() string {
	switch k {
	case InputDirectLink:
		return "direct_link"
	case InputPlaylistServiceLink:
		return "playlist_service_link"
	case InputFreeText:
		return "free_text"
	default:
		return "unknown"
	}
}

// Input is a classified resolution request.
type Input struct {
	Kind  InputKind
	URL   string
	Query string
	// Link is the playlist-service link extracted from Query for InputPlaylistServiceLink.
	Link string
}

// Key identifies the input for caching. Identical inputs always produce the same key.
func (in Input) Key() string {
	switch in.Kind {
	case InputDirectLink:
		return in.Kind.String() + "|" + in.URL
	case InputPlaylistServiceLink:
		return in.Kind.String() + "|" + in.Link
	default:
		return in.Kind.String() + "|" + in.Query
	}
}

// Classify decides how url and query should be resolved. The first matching rule wins:
// a direct video url, then a playlist-service link in query, then free text.
func Classify(url, query string) Input {
	url = text.Normalize(url)
	query = text.Normalize(query)

	in := Input{URL: url, Query: query}

	if text.IsVideoURL(url) {
		in.Kind = InputDirectLink
		return in
	}

	if link, ok := text.SpotifyTrackLink(query); ok {
		in.Kind = InputPlaylistServiceLink
		in.Link = link
		return in
	}

	in.Kind = InputFreeText
	return in
}
