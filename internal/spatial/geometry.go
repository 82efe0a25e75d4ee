package spatial

import (
	"github.com/golang/geo/s2"
)

// Point represents a 2D point with latitude and longitude
type Point struct {
	Lat float64
	Lon float64
}

// Bounds is a lat/lon rectangle in degrees. West may be greater than East
// when the box crosses the antimeridian.
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// BoundingBox returns the smallest rectangle holding every valid point.
// ok is false if there are none.
func BoundingBox(points []Point) (b Bounds, ok bool) {
	rect := s2.EmptyRect()
	for _, p := range points {
		if !ValidCoordinate(p.Lat, p.Lon) {
			continue
		}
		rect = rect.AddPoint(s2.LatLngFromDegrees(p.Lat, p.Lon))
	}
	if rect.IsEmpty() {
		return Bounds{}, false
	}

	lo, hi := rect.Lo(), rect.Hi()
	return Bounds{
		South: lo.Lat.Degrees(),
		West:  lo.Lng.Degrees(),
		North: hi.Lat.Degrees(),
		East:  hi.Lng.Degrees(),
	}, true
}

// boundsEpsilon absorbs the degree/radian round trip of corner points.
const boundsEpsilon = 1e-9

// Contains reports whether the point lies inside b.
func (b Bounds) Contains(lat, lon float64) bool {
	if lat < b.South-boundsEpsilon || lat > b.North+boundsEpsilon {
		return false
	}
	if b.West <= b.East {
		return lon >= b.West-boundsEpsilon && lon <= b.East+boundsEpsilon
	}
	return lon >= b.West-boundsEpsilon || lon <= b.East+boundsEpsilon
}
