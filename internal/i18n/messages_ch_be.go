package i18n

// berneseGermanMessages contains all Bernese Swiss German (Bärndütsch) translations
var berneseGermanMessages = map[string]string{
	// Error messages
	"error.generic":         "Öppis isch schief gloffe. Probier's haut nomau, bitte.",
	"error.no_results":      "Ha nüt gfunde für %s",
	"error.invalid_url":     "%s chan i nid abspile. Schick mer lieber e Video-Link oder es paar Suechwörter.",
	"error.provider":        "%s git grad ke Antwort. Probier's haut nomau.",
	"error.nothing_to_play": "Für %s git's nüt zum Abspile.",
	"error.not_configured":  "%s-Links si uf däm Server nid aktiviert.",

	// Now playing
	"nowplaying.title":          "Lauft grad",
	"nowplaying.time_remaining": "No übrig: %s",

	// Playback announcements
	"play.started": "🎵 | Lauft jitz",

	// Format helpers for cards
	"format.channel":  "Kanal",
	"format.duration": "Längi",
	"format.live":     "🔴 Live",
}
