package spatial

import (
	"fmt"
	"math"

	"github.com/golang/geo/s2"
)

// Constants
const (
	EarthRadiusMeters = 6371000.0 // Earth's mean radius in meters
	EarthRadiusKm     = 6371.0    // Earth's mean radius in kilometers
)

// CalculateDistance returns the great-circle (haversine) distance in kilometers.
// Inputs are assumed valid; callers check ValidCoordinate first.
func CalculateDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusKm
}

// CalculateBearing returns the initial bearing (forward azimuth) from one point to another.
// Result is in degrees [0, 360), 0 is North, 90 is East.
func CalculateBearing(fromLat, fromLon, toLat, toLon float64) float64 {
	lat1 := fromLat * math.Pi / 180
	lat2 := toLat * math.Pi / 180
	lonDiff := (toLon - fromLon) * math.Pi / 180

	y := math.Sin(lonDiff) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(lonDiff)

	bearingDeg := math.Atan2(y, x) * 180 / math.Pi
	return normalizeBearing(bearingDeg)
}

func normalizeBearing(deg float64) float64 {
	b := math.Mod(deg, 360)
	if b < 0 {
		b += 360
	}
	// math.Mod(-0.0000001+360, 360) can land exactly on 360
	if b >= 360 {
		b = 0
	}
	return b
}

var compassPoints = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// Direction maps a bearing to one of 8 compass points, rounding to the nearest sector.
func Direction(bearing float64) string {
	idx := int(math.Round(normalizeBearing(bearing)/45)) % len(compassPoints)
	return compassPoints[idx]
}

// FormatDistance renders kilometers for display: meters rounded to 10 m below
// one kilometer, otherwise kilometers with one decimal.
func FormatDistance(km float64) string {
	meters := math.Round(km*100) * 10
	if meters < 1000 {
		return fmt.Sprintf("%.0f m", meters)
	}
	return fmt.Sprintf("%.1f km", km)
}

// DestinationPoint calculates the destination point given a start point, bearing, and distance
// bearing: degrees (0-360), distance: meters
func DestinationPoint(lat, lon, bearing, distance float64) (float64, float64) {
	p := s2.LatLngFromDegrees(lat, lon)
	bearingRad := bearing * math.Pi / 180
	angularDistance := distance / EarthRadiusMeters

	latRad := p.Lat.Radians()
	lonRad := p.Lng.Radians()

	lat2 := math.Asin(math.Sin(latRad)*math.Cos(angularDistance) +
		math.Cos(latRad)*math.Sin(angularDistance)*math.Cos(bearingRad))

	lon2 := lonRad + math.Atan2(
		math.Sin(bearingRad)*math.Sin(angularDistance)*math.Cos(latRad),
		math.Cos(angularDistance)-math.Sin(latRad)*math.Sin(lat2))

	return lat2 * 180 / math.Pi, lon2 * 180 / math.Pi
}
