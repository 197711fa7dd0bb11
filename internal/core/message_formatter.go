package core

import (
	"errors"

	"songbird/internal/i18n"
)

// Message Formatting
// This module renders resolved tracks, progress views and resolution failures for the caller boundary

// CardField is a labelled value shown on a card.
type CardField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// Card is a rich message describing a track.
type Card struct {
	Author       string      `json:"author,omitempty"`
	Title        string      `json:"title"`
	Description  string      `json:"description,omitempty"`
	URL          string      `json:"url,omitempty"`
	ThumbnailURL string      `json:"thumbnail_url,omitempty"`
	Fields       []CardField `json:"fields,omitempty"`
	Footer       string      `json:"footer,omitempty"`
}

// MessageFormatter renders user-facing messages in one language.
type MessageFormatter struct {
	localizer *i18n.Localizer
}

// NewMessageFormatter creates a formatter for the given language code.
func NewMessageFormatter(language string) *MessageFormatter {
	return &MessageFormatter{localizer: i18n.NewLocalizer(language)}
}

// StartCard announces that track started playing.
func (f *MessageFormatter) StartCard(track Track) Card {
	duration := track.DurationText
	if track.IsLive {
		duration = f.localizer.T("format.live")
	}

	return Card{
		Author:       f.localizer.T("play.started"),
		Title:        track.Title,
		URL:          track.URL,
		ThumbnailURL: track.ThumbnailURL,
		Fields: []CardField{
			{Name: f.localizer.T("format.channel"), Value: track.Channel, Inline: true},
			{Name: f.localizer.T("format.duration"), Value: duration, Inline: true},
		},
	}
}

// NowPlayingCard renders a progress view. The bar line and remaining-time footer are
// only present when the view shows progress.
func (f *MessageFormatter) NowPlayingCard(view ProgressView) Card {
	card := Card{
		Title:       f.localizer.T("nowplaying.title"),
		Description: view.Title + "\n" + view.URL,
	}

	if !view.ShowProgress {
		return card
	}

	card.Fields = []CardField{{Name: "\u200b", Value: view.Line()}}
	card.Footer = f.localizer.T("nowplaying.time_remaining", view.RemainingLabel)
	return card
}

// NothingToPlay is shown when a stream outcome is empty.
func (f *MessageFormatter) NothingToPlay(track Track) string {
	return f.localizer.T("error.nothing_to_play", track.Title)
}

// ErrorMessage turns a resolution failure into a user-visible message.
func (f *MessageFormatter) ErrorMessage(err error) string {
	var re *ResolutionError
	if !errors.As(err, &re) {
		return f.localizer.T("error.generic")
	}

	switch re.Kind {
	case KindNoResults:
		return f.localizer.T("error.no_results", re.Query)
	case KindInvalidURL:
		return f.localizer.T("error.invalid_url", re.URL)
	case KindProviderError:
		if errors.Is(re.Err, ErrCatalogNotConfigured) {
			return f.localizer.T("error.not_configured", re.Provider)
		}
		return f.localizer.T("error.provider", re.Provider)
	default:
		return f.localizer.T("error.generic")
	}
}
