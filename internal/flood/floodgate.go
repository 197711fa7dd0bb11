// Package flood limits how often a single client may hit an HTTP route.
package flood

import (
	"sync"
	"time"
)

const (
	// windowDuration is the sliding window length for request counting
	windowDuration = 60 * time.Second
	// cleanupInterval is how often expired clients are swept
	cleanupInterval = 10 * time.Minute
	// idleTimeout is how long a silent client is remembered
	idleTimeout = 10 * time.Minute
)

// Floodgate counts requests per route and client over a sliding one-minute window.
// A non-positive limit disables limiting.
type Floodgate struct {
	limitPerMinute int
	entries        map[string]*clientEntry // key: "route:client"
	mutex          sync.Mutex
	now            func() time.Time
	stopCleanup    chan struct{}
	stopOnce       sync.Once
	done           chan struct{}
}

type clientEntry struct {
	timestamps []time.Time
	lastSeen   time.Time
}

// New creates a Floodgate and starts its background sweeper. Call Stop to release it.
func New(limitPerMinute int) *Floodgate {
	fg := &Floodgate{
		limitPerMinute: limitPerMinute,
		entries:        make(map[string]*clientEntry),
		now:            time.Now,
		stopCleanup:    make(chan struct{}),
		done:           make(chan struct{}),
	}

	go fg.cleanup()

	return fg
}

// Stop terminates the sweeper and waits for it to exit. It is safe to call more than once.
func (fg *Floodgate) Stop() {
	fg.stopOnce.Do(func() {
		close(fg.stopCleanup)
	})
	<-fg.done
}

// Allow records a request and reports whether it fits the limit. When it does not, the
// returned duration is how long until the oldest counted request leaves the window.
func (fg *Floodgate) Allow(route, clientID string) (bool, time.Duration) {
	if fg.limitPerMinute <= 0 {
		return true, 0
	}

	key := route + ":" + clientID
	now := fg.now()

	fg.mutex.Lock()
	defer fg.mutex.Unlock()

	entry, exists := fg.entries[key]
	if !exists {
		entry = &clientEntry{
			timestamps: make([]time.Time, 0, fg.limitPerMinute+1),
		}
		fg.entries[key] = entry
	}
	entry.lastSeen = now

	windowStart := now.Add(-windowDuration)
	valid := entry.timestamps[:0]
	for _, ts := range entry.timestamps {
		if ts.After(windowStart) {
			valid = append(valid, ts)
		}
	}
	entry.timestamps = valid

	if len(entry.timestamps) >= fg.limitPerMinute {
		return false, entry.timestamps[0].Sub(windowStart)
	}

	entry.timestamps = append(entry.timestamps, now)
	return true, 0
}

func (fg *Floodgate) cleanup() {
	defer close(fg.done)

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fg.performCleanup()
		case <-fg.stopCleanup:
			return
		}
	}
}

func (fg *Floodgate) performCleanup() {
	fg.mutex.Lock()
	defer fg.mutex.Unlock()

	cutoff := fg.now().Add(-idleTimeout)
	for key, entry := range fg.entries {
		if entry.lastSeen.Before(cutoff) {
			delete(fg.entries, key)
		}
	}
}

// GetStats returns a snapshot of tracked clients, reported by the readiness endpoint.
func (fg *Floodgate) GetStats() Stats {
	fg.mutex.Lock()
	defer fg.mutex.Unlock()

	return Stats{
		ActiveClients:  len(fg.entries),
		LimitPerMinute: fg.limitPerMinute,
		WindowSeconds:  int(windowDuration.Seconds()),
	}
}

// Stats contains floodgate statistics
type Stats struct {
	ActiveClients  int `json:"active_clients"`
	LimitPerMinute int `json:"limit_per_minute"`
	WindowSeconds  int `json:"window_seconds"`
}
