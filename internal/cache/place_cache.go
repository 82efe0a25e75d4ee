// Package cache holds recently computed place result sets for the process lifetime.
package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/jengzang/moodmap-backend-go/internal/metrics"
	"github.com/jengzang/moodmap-backend-go/internal/models"
	"github.com/jengzang/moodmap-backend-go/internal/spatial"
)

// Defaults used when NewPlaceCache is given zero values.
const (
	DefaultTTL              = 5 * time.Minute
	DefaultDriftToleranceKm = 0.1
)

// Entry is one cached result set.
type Entry struct {
	Places    []models.Place
	Timestamp time.Time
	Location  models.Location
	Mood      models.Mood
}

// Stats tracks cache effectiveness.
type Stats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Entries   int   `json:"entries"`
}

// PlaceCache maps a rounded (location, mood) fingerprint to a result set.
// Entries expire lazily on read; there is no capacity bound.
type PlaceCache struct {
	mu               sync.Mutex
	entries          map[string]Entry
	ttl              time.Duration
	driftToleranceKm float64
	now              func() time.Time
	stats            Stats
}

// Option configures a PlaceCache.
type Option func(*PlaceCache)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *PlaceCache) { c.now = now }
}

// NewPlaceCache creates an empty cache.
func NewPlaceCache(ttl time.Duration, driftToleranceKm float64, opts ...Option) *PlaceCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if driftToleranceKm <= 0 {
		driftToleranceKm = DefaultDriftToleranceKm
	}
	c := &PlaceCache{
		entries:          make(map[string]Entry),
		ttl:              ttl,
		driftToleranceKm: driftToleranceKm,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key derives the cache fingerprint: coordinates rounded to 4 decimals (~11 m) plus mood.
func Key(loc models.Location, mood models.Mood) string {
	return fmt.Sprintf("%.4f_%.4f_%s", loc.Lat, loc.Lng, mood)
}

// Get returns the cached places for loc and mood. An entry that is older than
// the TTL, or whose stored location is more than the drift tolerance away from
// loc, is evicted and reported as absent.
func (c *PlaceCache) Get(loc models.Location, mood models.Mood) ([]models.Place, bool) {
	key := Key(loc, mood)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.recordMiss()
		return nil, false
	}

	reason := ""
	if c.now().Sub(entry.Timestamp) > c.ttl {
		reason = "expired"
	} else if spatial.CalculateDistance(loc.Lat, loc.Lng, entry.Location.Lat, entry.Location.Lng) > c.driftToleranceKm {
		reason = "drift"
	}

	if reason != "" {
		delete(c.entries, key)
		c.stats.Evictions++
		metrics.CacheEvictions.WithLabelValues(reason).Inc()
		metrics.CacheEntries.Set(float64(len(c.entries)))
		c.recordMiss()
		return nil, false
	}

	c.stats.Hits++
	metrics.CacheHits.Inc()
	return entry.Places, true
}

// Put overwrites the entry for loc and mood with the current timestamp.
func (c *PlaceCache) Put(loc models.Location, mood models.Mood, places []models.Place) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[Key(loc, mood)] = Entry{
		Places:    places,
		Timestamp: c.now(),
		Location:  loc,
		Mood:      mood,
	}
	metrics.CacheEntries.Set(float64(len(c.entries)))
}

// Clear drops every entry.
func (c *PlaceCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.entries)
	c.entries = make(map[string]Entry)
	c.stats.Evictions += int64(n)
	metrics.CacheEvictions.WithLabelValues("clear").Add(float64(n))
	metrics.CacheEntries.Set(0)
}

// Stats returns a snapshot of the counters.
func (c *PlaceCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Entries = len(c.entries)
	return s
}

func (c *PlaceCache) recordMiss() {
	c.stats.Misses++
	metrics.CacheMisses.Inc()
}
