package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/singleflight"

	"github.com/jengzang/moodmap-backend-go/internal/cache"
	"github.com/jengzang/moodmap-backend-go/internal/config"
	"github.com/jengzang/moodmap-backend-go/internal/logging"
	"github.com/jengzang/moodmap-backend-go/internal/metrics"
	"github.com/jengzang/moodmap-backend-go/internal/models"
	"github.com/jengzang/moodmap-backend-go/internal/spatial"
)

// PlaceQuerier is the POI query service: amenity tags within radius meters of loc.
type PlaceQuerier interface {
	QueryPlaces(ctx context.Context, loc models.Location, tags []string, radius int) ([]models.RawPlace, error)
}

// DiscoveryService finds and ranks places for a location and mood
type DiscoveryService struct {
	querier  PlaceQuerier
	cache    *cache.PlaceCache
	cfg      config.DiscoveryConfig
	moods    map[models.Mood]models.MoodConfig
	sessions *SessionTracker
	inflight singleflight.Group
}

// DiscoveryOption configures a DiscoveryService.
type DiscoveryOption func(*DiscoveryService)

// WithMoods replaces the built-in mood table.
func WithMoods(moods map[models.Mood]models.MoodConfig) DiscoveryOption {
	return func(s *DiscoveryService) { s.moods = moods }
}

// NewDiscoveryService creates a new discovery service
func NewDiscoveryService(querier PlaceQuerier, placeCache *cache.PlaceCache, cfg config.DiscoveryConfig, opts ...DiscoveryOption) *DiscoveryService {
	s := &DiscoveryService{
		querier:  querier,
		cache:    placeCache,
		cfg:      cfg,
		moods:    models.DefaultMoods(),
		sessions: NewSessionTracker(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Moods returns the configured moods in display order.
func (s *DiscoveryService) Moods() []models.MoodConfig {
	out := make([]models.MoodConfig, 0, len(s.moods))
	for _, id := range models.MoodOrder {
		if cfg, ok := s.moods[id]; ok {
			out = append(out, cfg)
		}
	}
	return out
}

// FetchPlaces returns places near loc ranked for mood, best first.
//
// With useCache a live cache entry is returned without touching the network,
// and concurrent misses for the same cache key share one fetch. Without it a
// fresh fetch always runs. The search starts at the default radius and widens by the radius
// step until at least MinResults places are found or the max radius has been
// tried. Finding fewer places is not an error.
func (s *DiscoveryService) FetchPlaces(ctx context.Context, loc models.Location, mood models.Mood, useCache bool) ([]models.Place, error) {
	if !spatial.ValidCoordinate(loc.Lat, loc.Lng) {
		return nil, &models.LocationError{Reason: fmt.Sprintf("invalid coordinates (%v, %v)", loc.Lat, loc.Lng)}
	}

	moodCfg, ok := s.moods[mood]
	if !ok || len(moodCfg.Tags) == 0 {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownMood, mood)
	}

	if !useCache {
		// A refresh must not be answered by a fetch that started before it.
		return s.discover(ctx, loc, moodCfg)
	}

	if places, ok := s.cache.Get(loc, mood); ok {
		logging.Ctx(ctx).Debug().Str("mood", string(mood)).Int("places", len(places)).Msg("Returning cached results")
		return places, nil
	}

	// Callers sharing a cache key share one fetch; distances are measured
	// from the first caller's position, at most one key cell (~11 m) away.
	ch := s.inflight.DoChan(cache.Key(loc, mood), func() (interface{}, error) {
		return s.discover(ctx, loc, moodCfg)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			// The caller that started the shared fetch went away; run our own.
			if res.Shared && ctx.Err() == nil && isContextError(res.Err) {
				return s.discover(ctx, loc, moodCfg)
			}
			return nil, res.Err
		}
		return res.Val.([]models.Place), nil
	}
}

// FetchPlacesForSession is FetchPlaces for a client session. Starting a fetch
// cancels the session's previous in-flight fetch; if a newer fetch started
// while this one ran, its result is discarded with models.ErrSuperseded.
func (s *DiscoveryService) FetchPlacesForSession(ctx context.Context, session string, loc models.Location, mood models.Mood, useCache bool) ([]models.Place, error) {
	if session == "" {
		return s.FetchPlaces(ctx, loc, mood, useCache)
	}

	ctx, gen, done := s.sessions.Begin(ctx, session)
	defer done()

	places, err := s.FetchPlaces(ctx, loc, mood, useCache)
	if !s.sessions.IsCurrent(session, gen) {
		logging.Ctx(ctx).Debug().Str("session", session).Uint64("generation", gen).Msg("Discarding superseded fetch")
		return nil, models.ErrSuperseded
	}
	return places, err
}

// Cached returns a still-valid cached result for loc and mood, if any.
func (s *DiscoveryService) Cached(loc models.Location, mood models.Mood) ([]models.Place, bool) {
	return s.cache.Get(loc, mood)
}

// ClearCache drops all cached results.
func (s *DiscoveryService) ClearCache() {
	s.cache.Clear()
}

// CacheStats returns cache counters.
func (s *DiscoveryService) CacheStats() cache.Stats {
	return s.cache.Stats()
}

func (s *DiscoveryService) discover(ctx context.Context, loc models.Location, moodCfg models.MoodConfig) ([]models.Place, error) {
	raw, radius, err := s.search(ctx, loc, moodCfg)
	if err != nil {
		return nil, err
	}

	places := rankPlaces(loc, moodCfg, raw)
	s.cache.Put(loc, moodCfg.ID, places)

	metrics.PlacesReturned.WithLabelValues(string(moodCfg.ID)).Observe(float64(len(places)))
	logging.Ctx(ctx).Info().
		Str("mood", string(moodCfg.ID)).
		Int("radius", radius).
		Int("candidates", len(raw)).
		Int("places", len(places)).
		Msg("Discovered places")

	return places, nil
}

// search runs the adaptive radius loop and returns the merged candidates and
// the last radius tried.
func (s *DiscoveryService) search(ctx context.Context, loc models.Location, moodCfg models.MoodConfig) ([]models.RawPlace, int, error) {
	var results []models.RawPlace
	radius := s.cfg.DefaultRadius

	for radius <= s.cfg.MaxRadius {
		primary, err := s.querier.QueryPlaces(ctx, loc, moodCfg.Tags, radius)
		if err != nil {
			return nil, radius, fmt.Errorf("failed to query %s places within %dm: %w", moodCfg.ID, radius, err)
		}
		results = mergeByID(nil, primary)
		if len(results) >= s.cfg.MinResults {
			break
		}

		if fallback := moodCfg.FallbackTags(); len(fallback) > 0 {
			metrics.FallbackQueries.WithLabelValues(string(moodCfg.ID)).Inc()
			extra, err := s.querier.QueryPlaces(ctx, loc, fallback, radius)
			if err != nil {
				return nil, radius, fmt.Errorf("failed to query fallback %s places within %dm: %w", moodCfg.ID, radius, err)
			}
			results = mergeByID(results, extra)
			if len(results) >= s.cfg.MinResults {
				break
			}
		}

		if radius+s.cfg.RadiusStep > s.cfg.MaxRadius {
			break
		}
		radius += s.cfg.RadiusStep
		metrics.RadiusExpansions.WithLabelValues(string(moodCfg.ID)).Inc()
		logging.Ctx(ctx).Debug().
			Str("mood", string(moodCfg.ID)).
			Int("found", len(results)).
			Int("radius", radius).
			Msg("Too few places, expanding search radius")
	}

	return results, radius, nil
}

// mergeByID appends the elements of extra whose id is not already present.
func mergeByID(base, extra []models.RawPlace) []models.RawPlace {
	seen := make(map[int64]struct{}, len(base)+len(extra))
	merged := make([]models.RawPlace, 0, len(base)+len(extra))
	for _, list := range [][]models.RawPlace{base, extra} {
		for _, p := range list {
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			merged = append(merged, p)
		}
	}
	return merged
}

// rankPlaces validates, annotates and sorts candidates by score, best first.
// Candidates with bad coordinates or a non-finite distance are dropped.
func rankPlaces(loc models.Location, moodCfg models.MoodConfig, raw []models.RawPlace) []models.Place {
	places := make([]models.Place, 0, len(raw))
	dropped := 0

	for _, rp := range raw {
		if !spatial.ValidCoordinate(rp.Lat, rp.Lon) {
			dropped++
			continue
		}
		distance := spatial.CalculateDistance(loc.Lat, loc.Lng, rp.Lat, rp.Lon)
		if math.IsNaN(distance) || math.IsInf(distance, 0) {
			dropped++
			continue
		}

		p := models.Place{RawPlace: rp, Distance: distance}
		p.Score = ScorePlace(p, moodCfg)
		places = append(places, p)
	}

	if dropped > 0 {
		metrics.DroppedElements.Add(float64(dropped))
		logging.Debug().Int("dropped", dropped).Msg("Dropped places with invalid coordinates")
	}

	sort.SliceStable(places, func(i, j int) bool {
		return places[i].Score > places[j].Score
	})
	return places
}

// isContextError reports a caller cancellation or caller deadline, not a
// client-side query timeout.
func isContextError(err error) bool {
	var timeoutErr *models.TimeoutError
	if errors.As(err, &timeoutErr) {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
