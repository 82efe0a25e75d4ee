package models

// Sort keys accepted by SortPlaces.
const (
	SortByDistance = "distance"
	SortByName     = "name"
	SortByScore    = "score"
)

// FilterState is the user-selected view constraint over a result set.
type FilterState struct {
	MaxDistance float64 `json:"maxDistance"` // Kilometers; <= 0 means no limit
	SortBy      string  `json:"sortBy"`      // distance, name, score
	OpenNow     bool    `json:"openNow"`
}

// PlacesQuery represents query parameters for GET /api/v1/places
type PlacesQuery struct {
	Lat         *float64 `form:"lat" binding:"required"`
	Lng         *float64 `form:"lng" binding:"required"`
	Mood        string   `form:"mood" binding:"required,max=64"` // Checked against the service's mood table
	MaxDistance float64  `form:"maxDistance" binding:"omitempty,gt=0"` // Kilometers
	SortBy      string   `form:"sortBy" binding:"omitempty,oneof=distance name score"`
	OpenNow     bool     `form:"openNow"`
	Refresh     bool     `form:"refresh"` // Bypass the cache
	Session     string   `form:"session" binding:"omitempty,max=128"`
}

// Filters extracts the FilterState, defaulting to score order.
func (q PlacesQuery) Filters() FilterState {
	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = SortByScore
	}
	return FilterState{
		MaxDistance: q.MaxDistance,
		SortBy:      sortBy,
		OpenNow:     q.OpenNow,
	}
}
