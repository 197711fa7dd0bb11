// Package spotify resolves playlist-service track links into title and artist metadata.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"songbird/internal/core"
	"songbird/pkg/text"
)

// ProviderName identifies this provider in errors and metrics.
const ProviderName = "spotify"

var (
	// ErrNotConfigured is returned when no client credentials are set.
	ErrNotConfigured = core.ErrCatalogNotConfigured
	// ErrNoArtist is returned for tracks without any credited artist.
	ErrNoArtist = errors.New("track has no artist")
)

// trackAPI is the subset of the Web API client used here.
type trackAPI interface {
	GetTrack(ctx context.Context, id spotify.ID, opts ...spotify.RequestOption) (*spotify.FullTrack, error)
}

// Client implements core.CatalogProvider using the client-credentials flow. No user
// authorization is needed to read public track metadata.
type Client struct {
	config   core.SpotifyConfig
	tokenURL string
	logger   *zap.Logger

	mutex   sync.Mutex
	api     trackAPI
	connect func(ctx context.Context) (trackAPI, error)
}

// NewClient creates a client. Authentication happens on first use.
func NewClient(config core.SpotifyConfig, logger *zap.Logger) *Client {
	c := &Client{
		config:   config,
		tokenURL: spotifyauth.TokenURL,
		logger:   logger,
	}
	c.connect = c.authenticate
	return c
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// GetTrack looks up the track behind an open.spotify.com link or spotify:track: URI.
func (c *Client) GetTrack(ctx context.Context, link string) (*core.CatalogTrack, error) {
	trackID, err := text.ExtractSpotifyTrackID(link)
	if err != nil {
		return nil, fmt.Errorf("invalid track link %q: %w", link, err)
	}

	api, err := c.client(ctx)
	if err != nil {
		return nil, err
	}

	track, err := api.GetTrack(ctx, spotify.ID(trackID))
	if err != nil {
		return nil, fmt.Errorf("failed to get track: %w", err)
	}
	if len(track.Artists) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoArtist, trackID)
	}

	c.logger.Debug("Fetched catalog track",
		zap.String("id", trackID),
		zap.String("title", track.Name),
		zap.String("artist", track.Artists[0].Name))

	return &core.CatalogTrack{
		Title:         track.Name,
		PrimaryArtist: track.Artists[0].Name,
	}, nil
}

// client returns the authenticated API client, connecting if needed. A failed attempt is
// not remembered, so the next call tries again.
func (c *Client) client(ctx context.Context) (trackAPI, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.api != nil {
		return c.api, nil
	}

	api, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	c.api = api
	return api, nil
}

func (c *Client) authenticate(ctx context.Context) (trackAPI, error) {
	if !c.config.Enabled() {
		return nil, ErrNotConfigured
	}

	creds := &clientcredentials.Config{
		ClientID:     c.config.ClientID,
		ClientSecret: c.config.ClientSecret,
		TokenURL:     c.tokenURL,
	}

	token, err := creds.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	// Token refreshes must not be bound to the request context.
	source := oauth2.ReuseTokenSource(token, creds.TokenSource(context.Background()))
	httpClient := oauth2.NewClient(context.Background(), source)

	c.logger.Info("Authenticated with client credentials")
	return spotify.New(httpClient), nil
}
