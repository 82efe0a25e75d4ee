package handler

import (
	"math"
	"strings"

	"github.com/jengzang/moodmap-backend-go/internal/models"
	"github.com/jengzang/moodmap-backend-go/internal/spatial"
)

const unnamedPlace = "Unnamed Place"

var amenityLabels = map[string]string{
	"cafe":       "Café",
	"restaurant": "Restaurant",
	"fast_food":  "Fast Food",
	"bar":        "Bar",
	"pub":        "Pub",
	"library":    "Library",
	"park":       "Park",
}

// PlaceView is a Place as rendered in a result list.
type PlaceView struct {
	ID                int64             `json:"id"`
	Type              string            `json:"type,omitempty"`
	Lat               float64           `json:"lat"`
	Lon               float64           `json:"lon"`
	Name              string            `json:"name"`
	Amenity           string            `json:"amenity,omitempty"`
	AmenityLabel      string            `json:"amenityLabel,omitempty"`
	Distance          float64           `json:"distance"` // Kilometers
	DistanceText      string            `json:"distanceText"`
	Direction         string            `json:"direction"`
	Score             float64           `json:"score"`
	HasWifi           bool              `json:"hasWifi"`
	HasOutdoorSeating bool              `json:"hasOutdoorSeating"`
	Cuisine           string            `json:"cuisine,omitempty"`
	OpeningHours      string            `json:"openingHours,omitempty"`
	Phone             string            `json:"phone,omitempty"`
	Website           string            `json:"website,omitempty"`
	Address           string            `json:"address,omitempty"`
	Tags              map[string]string `json:"tags,omitempty"`
}

// PlacesResult is the data payload of GET /api/v1/places.
type PlacesResult struct {
	Mood                 models.Mood     `json:"mood"`
	Location             models.Location `json:"location"`
	Total                int             `json:"total"`
	MaxAvailableDistance float64         `json:"maxAvailableDistance"` // Kilometers, for the distance slider
	Bounds               *spatial.Bounds `json:"bounds,omitempty"`     // User and shown places
	Places               []PlaceView     `json:"places"`
}

func newPlaceView(from models.Location, p models.Place) PlaceView {
	name := p.Name()
	if name == "" {
		name = unnamedPlace
	}
	amenity := p.Tag(models.TagAmenity)

	return PlaceView{
		ID:                p.ID,
		Type:              p.Type,
		Lat:               p.Lat,
		Lon:               p.Lon,
		Name:              name,
		Amenity:           amenity,
		AmenityLabel:      amenityLabel(amenity),
		Distance:          p.Distance,
		DistanceText:      spatial.FormatDistance(p.Distance),
		Direction:         spatial.Direction(spatial.CalculateBearing(from.Lat, from.Lng, p.Lat, p.Lon)),
		Score:             p.Score,
		HasWifi:           p.HasWifi(),
		HasOutdoorSeating: p.HasOutdoorSeating(),
		Cuisine:           firstValue(p.Tag(models.TagCuisine)),
		OpeningHours:      p.Tag(models.TagOpeningHours),
		Phone:             p.Tag(models.TagPhone),
		Website:           p.Tag(models.TagWebsite),
		Address:           address(p),
		Tags:              p.Tags,
	}
}

func amenityLabel(amenity string) string {
	if label, ok := amenityLabels[amenity]; ok {
		return label
	}
	return strings.ReplaceAll(amenity, "_", " ")
}

// firstValue returns the first entry of a semicolon-separated OSM value.
func firstValue(v string) string {
	if i := strings.IndexByte(v, ';'); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}

// address joins "housenumber street, city", skipping missing parts.
func address(p models.Place) string {
	street := strings.TrimSpace(strings.Join(nonEmpty(p.Tag(models.TagHouseNumber), p.Tag(models.TagStreet)), " "))
	return strings.Join(nonEmpty(street, p.Tag(models.TagCity)), ", ")
}

func nonEmpty(parts ...string) []string {
	out := parts[:0]
	for _, s := range parts {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// maxAvailableDistance is one km past the farthest place, rounded up, or 0
// for an empty list.
func maxAvailableDistance(places []models.Place) float64 {
	if len(places) == 0 {
		return 0
	}
	farthest := 0.0
	for _, p := range places {
		farthest = math.Max(farthest, p.Distance)
	}
	return math.Ceil(farthest) + 1
}

func buildResult(loc models.Location, mood models.Mood, all, shown []models.Place) PlacesResult {
	views := make([]PlaceView, 0, len(shown))
	points := make([]spatial.Point, 0, len(shown)+1)
	points = append(points, spatial.Point{Lat: loc.Lat, Lon: loc.Lng})
	for _, p := range shown {
		views = append(views, newPlaceView(loc, p))
		points = append(points, spatial.Point{Lat: p.Lat, Lon: p.Lon})
	}

	result := PlacesResult{
		Mood:                 mood,
		Location:             loc,
		Total:                len(views),
		MaxAvailableDistance: maxAvailableDistance(all),
		Places:               views,
	}
	if b, ok := spatial.BoundingBox(points); ok {
		result.Bounds = &b
	}
	return result
}
