package i18n

// englishMessages contains all English translations.
var englishMessages = map[string]string{
	// Error messages
	"error.generic":         "Something went wrong. Please try again.",
	"error.no_results":      "No search results found for %s",
	"error.invalid_url":     "I can't play %s. Send me a video link or some search terms instead.",
	"error.provider":        "%s is not responding right now. Please try again.",
	"error.nothing_to_play": "Nothing to play for %s.",
	"error.not_configured":  "%s links are not enabled on this server.",

	// Now playing
	"nowplaying.title":          "Now playing",
	"nowplaying.time_remaining": "Time Remaining: %s",

	// Playback announcements
	"play.started": "🎵 | Started playing",

	// Format helpers for cards
	"format.channel":  "Channel",
	"format.duration": "Duration",
	"format.live":     "🔴 Live",
}
