package core

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"
)

// Mock implementations for testing

type mockMediaProvider struct {
	mu            sync.Mutex
	videos        map[string]*VideoDetails
	searchResults map[string][]SearchResult
	streams       map[string]*Stream
	videoErr      error
	searchErr     error
	streamErr     error

	videoCalls  []string
	searchCalls []string
	streamCalls []string
}

func newMockMediaProvider() *mockMediaProvider {
	return &mockMediaProvider{
		videos:        make(map[string]*VideoDetails),
		searchResults: make(map[string][]SearchResult),
		streams:       make(map[string]*Stream),
	}
}

func (m *mockMediaProvider) GetVideo(_ context.Context, url string) (*VideoDetails, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.videoCalls = append(m.videoCalls, url)
	if m.videoErr != nil {
		return nil, m.videoErr
	}
	if v, ok := m.videos[url]; ok {
		return v, nil
	}
	return nil, errors.New("video unavailable")
}

func (m *mockMediaProvider) Search(_ context.Context, query string) ([]SearchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchCalls = append(m.searchCalls, query)
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.searchResults[query], nil
}

func (m *mockMediaProvider) OpenStream(_ context.Context, url string) (*Stream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.streamCalls = append(m.streamCalls, url)
	if m.streamErr != nil {
		return nil, m.streamErr
	}
	return m.streams[url], nil
}

func (m *mockMediaProvider) Name() string {
	return "youtube"
}

type mockCatalogProvider struct {
	tracks map[string]*CatalogTrack
	err    error
	calls  []string
}

func (m *mockCatalogProvider) GetTrack(_ context.Context, link string) (*CatalogTrack, error) {
	m.calls = append(m.calls, link)
	if m.err != nil {
		return nil, m.err
	}
	if t, ok := m.tracks[link]; ok {
		return t, nil
	}
	return nil, errors.New("track not found")
}

func (m *mockCatalogProvider) Name() string {
	return "spotify"
}

type mockCache struct {
	tracks map[string]Track
}

func newMockCache() *mockCache {
	return &mockCache{tracks: make(map[string]Track)}
}

func (m *mockCache) Get(_ context.Context, key string) (Track, bool) {
	t, ok := m.tracks[key]
	return t, ok
}

func (m *mockCache) Add(_ context.Context, key string, track Track) {
	m.tracks[key] = track
}

type mockRecorder struct {
	resolves       []string
	cacheHits      int
	cacheMisses    int
	providerErrors []string
	streams        []string
}

func (m *mockRecorder) RecordResolve(kind, status string, _ time.Duration) {
	m.resolves = append(m.resolves, kind+":"+status)
}

func (m *mockRecorder) RecordCacheLookup(hit bool) {
	if hit {
		m.cacheHits++
		return
	}
	m.cacheMisses++
}

func (m *mockRecorder) RecordProviderError(provider string) {
	m.providerErrors = append(m.providerErrors, provider)
}

func (m *mockRecorder) RecordStream(source, outcome string) {
	m.streams = append(m.streams, source+":"+outcome)
}

type closeTracker struct {
	io.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func newBody(s string) *closeTracker {
	return &closeTracker{Reader: strings.NewReader(s)}
}
