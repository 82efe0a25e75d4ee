package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/moodmap-backend-go/internal/cache"
	"github.com/jengzang/moodmap-backend-go/internal/config"
	"github.com/jengzang/moodmap-backend-go/internal/models"
	"github.com/jengzang/moodmap-backend-go/internal/service"
	"github.com/jengzang/moodmap-backend-go/internal/spatial"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var origin = models.Location{Lat: 40.7128, Lng: -74.0060}

type stubQuerier struct {
	mu     sync.Mutex
	places []models.RawPlace
	err    error
	calls  int
}

func (s *stubQuerier) QueryPlaces(ctx context.Context, loc models.Location, tags []string, radius int) ([]models.RawPlace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.places, s.err
}

func (s *stubQuerier) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func rawAt(id int64, bearing, meters float64, tags map[string]string) models.RawPlace {
	lat, lon := spatial.DestinationPoint(origin.Lat, origin.Lng, bearing, meters)
	return models.RawPlace{ID: id, Type: "node", Lat: lat, Lon: lon, Tags: tags}
}

func setupRouter(q service.PlaceQuerier, opts ...service.DiscoveryOption) (*gin.Engine, *service.DiscoveryService) {
	svc := service.NewDiscoveryService(q, cache.NewPlaceCache(time.Minute, 0.1), config.Default().Discovery, opts...)

	r := gin.New()
	places := NewPlacesHandler(svc)
	moods := NewMoodHandler(svc)
	caches := NewCacheHandler(svc)
	r.GET("/api/v1/places", places.GetPlaces)
	r.GET("/api/v1/moods", moods.ListMoods)
	r.GET("/api/v1/cache/stats", caches.GetStats)
	r.DELETE("/api/v1/cache", caches.Clear)
	return r, svc
}

type envelope struct {
	Code    int              `json:"code"`
	Message string           `json:"message"`
	Data    *PlacesResult    `json:"data"`
	Error   *models.AppError `json:"error"`
	Stale   bool             `json:"stale"`
}

func get(t *testing.T, r http.Handler, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func samplePlaces() []models.RawPlace {
	return []models.RawPlace{
		rawAt(1, 90, 300, map[string]string{
			"name": "Blue Bottle", "amenity": "cafe", "internet_access": "yes",
			"addr:housenumber": "1", "addr:street": "Main St", "addr:city": "New York",
			"cuisine": "coffee_shop;bakery",
		}),
		rawAt(2, 0, 1500, map[string]string{"amenity": "coworking_space", "opening_hours": "closed"}),
		rawAt(3, 225, 800, map[string]string{"name": "Atlas Library", "amenity": "library"}),
	}
}

func TestGetPlaces(t *testing.T) {
	r, _ := setupRouter(&stubQuerier{places: samplePlaces()})

	w, env := get(t, r, "/api/v1/places?lat=40.7128&lng=-74.0060&mood=work")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env.Code)
	require.NotNil(t, env.Data)
	assert.Equal(t, models.MoodWork, env.Data.Mood)
	assert.Equal(t, 3, env.Data.Total)
	assert.Equal(t, 3.0, env.Data.MaxAvailableDistance)
	require.NotNil(t, env.Data.Bounds)
	assert.True(t, env.Data.Bounds.Contains(origin.Lat, origin.Lng))
	for _, p := range env.Data.Places {
		assert.True(t, env.Data.Bounds.Contains(p.Lat, p.Lon))
	}

	first := env.Data.Places[0]
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, "Blue Bottle", first.Name)
	assert.Equal(t, "Café", first.AmenityLabel)
	assert.Equal(t, "300 m", first.DistanceText)
	assert.Equal(t, "E", first.Direction)
	assert.True(t, first.HasWifi)
	assert.Equal(t, "coffee_shop", first.Cuisine)
	assert.Equal(t, "1 Main St, New York", first.Address)
	assert.InDelta(t, 157, first.Score, 1e-4)

	unnamed := env.Data.Places[2]
	assert.Equal(t, "Unnamed Place", unnamed.Name)
	assert.Equal(t, "coworking space", unnamed.AmenityLabel)
	assert.Equal(t, "N", unnamed.Direction)
	assert.Equal(t, "1.5 km", unnamed.DistanceText)
}

func TestGetPlacesAppliesFilters(t *testing.T) {
	r, _ := setupRouter(&stubQuerier{places: samplePlaces()})

	_, env := get(t, r, "/api/v1/places?lat=40.7128&lng=-74.0060&mood=work&openNow=true&sortBy=name&maxDistance=1")
	require.NotNil(t, env.Data)
	require.Len(t, env.Data.Places, 2)
	assert.Equal(t, "Atlas Library", env.Data.Places[0].Name)
	assert.Equal(t, "Blue Bottle", env.Data.Places[1].Name)
	assert.Equal(t, 2, env.Data.Total)
	assert.Equal(t, 3.0, env.Data.MaxAvailableDistance)
}

func TestGetPlacesValidation(t *testing.T) {
	r, _ := setupRouter(&stubQuerier{})

	tests := []struct {
		name   string
		query  string
		status int
		errTyp models.ErrorType
	}{
		{"missing coordinates", "mood=work", http.StatusBadRequest, models.ErrorTypeLocation},
		{"latitude out of range", "lat=95&lng=0&mood=work", http.StatusBadRequest, models.ErrorTypeLocation},
		{"unknown mood", "lat=1&lng=1&mood=sleepy", http.StatusBadRequest, ""},
		{"bad sort key", "lat=1&lng=1&mood=work&sortBy=rating", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := get(t, r, "/api/v1/places?"+tt.query)
			assert.Equal(t, tt.status, w.Code)
			if tt.errTyp != "" {
				require.NotNil(t, env.Error)
				assert.Equal(t, tt.errTyp, env.Error.Type)
			}
		})
	}
}

func TestGetPlacesServesStaleOnFailure(t *testing.T) {
	q := &stubQuerier{places: samplePlaces()}
	r, _ := setupRouter(q)

	w, _ := get(t, r, "/api/v1/places?lat=40.7128&lng=-74.0060&mood=work")
	require.Equal(t, http.StatusOK, w.Code)

	q.fail(&models.APIError{StatusCode: http.StatusServiceUnavailable})

	w, env := get(t, r, "/api/v1/places?lat=40.7128&lng=-74.0060&mood=work&refresh=true")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.True(t, env.Stale)
	require.NotNil(t, env.Error)
	assert.Equal(t, models.ErrorTypeAPI, env.Error.Type)
	assert.True(t, env.Error.Retryable)
	require.NotNil(t, env.Data)
	assert.Len(t, env.Data.Places, 3)
}

func TestGetPlacesFailureWithoutCache(t *testing.T) {
	r, _ := setupRouter(&stubQuerier{err: models.NewTimeoutError(25 * time.Second)})

	w, env := get(t, r, "/api/v1/places?lat=40.7128&lng=-74.0060&mood=chill")
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.False(t, env.Stale)
	assert.Nil(t, env.Data)
	require.NotNil(t, env.Error)
	assert.Equal(t, models.ErrorTypeNetwork, env.Error.Type)
	assert.Equal(t, "Request timed out. Please try again.", env.Error.Message)
}

func TestListMoods(t *testing.T) {
	r, _ := setupRouter(&stubQuerier{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/moods", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []models.MoodConfig `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 6)
	assert.Equal(t, models.MoodWork, body.Data[0].ID)
	assert.Equal(t, []string{"cafe", "library", "coworking_space"}, body.Data[0].Tags)
}

func TestClearCache(t *testing.T) {
	q := &stubQuerier{places: samplePlaces()}
	r, svc := setupRouter(q)

	get(t, r, "/api/v1/places?lat=40.7128&lng=-74.0060&mood=work")
	_, ok := svc.Cached(origin, models.MoodWork)
	require.True(t, ok)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/cache", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	_, ok = svc.Cached(origin, models.MoodWork)
	assert.False(t, ok)

	get(t, r, "/api/v1/places?lat=40.7128&lng=-74.0060&mood=work")
	assert.Equal(t, 2, q.calls)
}

func TestGetPlacesUsesServiceMoodTable(t *testing.T) {
	brunch := models.Mood("brunch")
	moods := map[models.Mood]models.MoodConfig{
		brunch: {ID: brunch, Label: "Brunch", Tags: []string{"cafe", "restaurant"}},
	}
	r, _ := setupRouter(&stubQuerier{places: samplePlaces()}, service.WithMoods(moods))

	w, env := get(t, r, "/api/v1/places?lat=40.7128&lng=-74.0060&mood=brunch")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Data)
	assert.Equal(t, brunch, env.Data.Mood)
	assert.Equal(t, 3, env.Data.Total)

	// Built-in moods missing from the configured table are rejected.
	w, env = get(t, r, "/api/v1/places?lat=40.7128&lng=-74.0060&mood=work")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, models.ErrorTypeUnknown, env.Error.Type)
	assert.False(t, env.Error.Retryable)
	assert.False(t, env.Stale)
}
