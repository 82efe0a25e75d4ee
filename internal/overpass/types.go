package overpass

import (
	"math"

	"github.com/jengzang/moodmap-backend-go/internal/models"
)

// response is the Overpass JSON payload.
type response struct {
	Elements []element `json:"elements"`
	Remark   string    `json:"remark,omitempty"`
}

type center struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// element is a node, way or relation. Ways and relations only carry a center.
type element struct {
	ID     int64             `json:"id"`
	Type   string            `json:"type"`
	Lat    *float64          `json:"lat,omitempty"`
	Lon    *float64          `json:"lon,omitempty"`
	Center *center           `json:"center,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

// toRawPlace converts an element; absent coordinates become NaN so the
// discovery engine's validation drops them.
func (e element) toRawPlace() models.RawPlace {
	lat, lon := math.NaN(), math.NaN()
	switch {
	case e.Lat != nil && e.Lon != nil:
		lat, lon = *e.Lat, *e.Lon
	case e.Center != nil:
		lat, lon = e.Center.Lat, e.Center.Lon
	}
	return models.RawPlace{
		ID:   e.ID,
		Type: e.Type,
		Lat:  lat,
		Lon:  lon,
		Tags: e.Tags,
	}
}
