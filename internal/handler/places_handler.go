package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/moodmap-backend-go/internal/logging"
	"github.com/jengzang/moodmap-backend-go/internal/models"
	"github.com/jengzang/moodmap-backend-go/internal/service"
	"github.com/jengzang/moodmap-backend-go/pkg/response"
)

// PlacesHandler handles place discovery requests
type PlacesHandler struct {
	service *service.DiscoveryService
}

// NewPlacesHandler creates a new places handler
func NewPlacesHandler(service *service.DiscoveryService) *PlacesHandler {
	return &PlacesHandler{service: service}
}

// GetPlaces returns ranked places for a location and mood
// GET /api/v1/places?lat=&lng=&mood=&maxDistance=&sortBy=&openNow=&refresh=&session=
func (h *PlacesHandler) GetPlaces(c *gin.Context) {
	var q models.PlacesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		if q.Lat == nil || q.Lng == nil {
			respondError(c, &models.LocationError{Reason: "lat and lng are required"}, nil)
			return
		}
		response.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	loc := models.Location{Lat: *q.Lat, Lng: *q.Lng}
	mood := models.Mood(q.Mood)
	ctx := c.Request.Context()

	places, err := h.service.FetchPlacesForSession(ctx, q.Session, loc, mood, !q.Refresh)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("mood", q.Mood).Msg("Place discovery failed")

		var stale interface{}
		if canServeStale(err) {
			if cached, ok := h.service.Cached(loc, mood); ok {
				stale = buildResult(loc, mood, cached, service.ApplyFilters(cached, q.Filters()))
			}
		}
		respondError(c, err, stale)
		return
	}

	response.Success(c, buildResult(loc, mood, places, service.ApplyFilters(places, q.Filters())))
}
