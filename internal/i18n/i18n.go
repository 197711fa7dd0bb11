// Package i18n provides internationalization support for user-facing messages
package i18n

import (
	"fmt"
	"slices"
)

const (
	// DefaultLanguage is the fallback language when no translation is available
	DefaultLanguage = "en"
	// BerneseGermanMessages is a Swiss Dialect spoken in the Canton of Bern
	BerneseGermanMessages = "ch_be"
)

// Localizer provides translation functionality
type Localizer struct {
	language string
	messages map[string]string
}

// NewLocalizer creates a new localizer for the specified language
func NewLocalizer(language string) *Localizer {
	return &Localizer{
		language: language,
		messages: getMessages(language),
	}
}

// Language returns the language code the localizer was created for
func (l *Localizer) Language() string {
	return l.language
}

// T translates a message key, with optional parameters for formatting
func (l *Localizer) T(key string, args ...interface{}) string {
	message, exists := l.messages[key]
	if !exists && l.language != DefaultLanguage {
		message, exists = getMessages(DefaultLanguage)[key]
	}

	// Ultimate fallback: return the key itself
	if !exists {
		return key
	}

	if len(args) > 0 {
		return fmt.Sprintf(message, args...)
	}
	return message
}

// GetSupportedLanguages returns list of supported language codes
func GetSupportedLanguages() []string {
	return []string{DefaultLanguage, BerneseGermanMessages}
}

// IsSupported reports whether language has a message profile
func IsSupported(language string) bool {
	return slices.Contains(GetSupportedLanguages(), language)
}

// getMessages returns the message map for a given language
func getMessages(language string) map[string]string {
	switch language {
	case BerneseGermanMessages:
		return berneseGermanMessages
	default:
		return englishMessages
	}
}
