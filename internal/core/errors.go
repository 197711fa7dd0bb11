package core

import (
	"errors"
	"fmt"
)

// ErrorKind classifies resolution failures.
type ErrorKind int

const (
	// KindNoResults means a search yielded nothing and the input was not link-shaped
	KindNoResults ErrorKind = iota + 1
	// KindInvalidURL means the input looked like a link that cannot be resolved
	KindInvalidURL
	// KindProviderError means a provider call failed for reasons not attributable to the input
	KindProviderError
)

func (k ErrorKind) String() string {
	switch k {
	case KindNoResults:
		return "NoResults"
	case KindInvalidURL:
		return "InvalidURL"
	case KindProviderError:
		return "ProviderError"
	default:
		return "Unknown"
	}
}

// Sentinels for errors.Is matching against a *ResolutionError.
var (
	ErrNoResults  = errors.New("no search results")
	ErrInvalidURL = errors.New("invalid url")
	ErrProvider   = errors.New("provider failure")
)

// CatalogProviderName names the playlist service in errors when no catalog is wired.
const CatalogProviderName = "spotify"

// ErrCatalogNotConfigured is the cause of a ProviderError for playlist service links when the
// catalog has no credentials.
var ErrCatalogNotConfigured = errors.New("playlist service credentials not configured")

// ResolutionError is returned by Resolver.Resolve and ResourceBuilder.OpenStream.
// Query and URL carry the original input so callers can render a helpful message.
type ResolutionError struct {
	Kind     ErrorKind
	Query    string
	URL      string
	Provider string
	Err      error
}

func (e *ResolutionError) Error() string {
	switch e.Kind {
	case KindNoResults:
		return fmt.Sprintf("no search results found for %q", e.Query)
	case KindInvalidURL:
		return fmt.Sprintf("no search results found for %q: %q is not a supported link", e.Query, e.URL)
	case KindProviderError:
		if e.Err != nil {
			return fmt.Sprintf("%s provider failed: %v", e.Provider, e.Err)
		}
		return fmt.Sprintf("%s provider failed", e.Provider)
	default:
		return "resolution failed"
	}
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels so callers can write errors.Is(err, ErrNoResults).
func (e *ResolutionError) Is(target error) bool {
	switch target {
	case ErrNoResults:
		return e.Kind == KindNoResults
	case ErrInvalidURL:
		return e.Kind == KindInvalidURL
	case ErrProvider:
		return e.Kind == KindProviderError
	}
	return false
}

// KindOf returns the kind of a resolution error, or 0 when err is not one.
func KindOf(err error) ErrorKind {
	var re *ResolutionError
	if errors.As(err, &re) {
		return re.Kind
	}
	return 0
}

func providerError(provider string, in Input, err error) *ResolutionError {
	return &ResolutionError{
		Kind:     KindProviderError,
		Query:    in.Query,
		URL:      in.URL,
		Provider: provider,
		Err:      err,
	}
}
