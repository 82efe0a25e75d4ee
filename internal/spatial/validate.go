package spatial

import "math"

// ValidCoordinate reports whether lat/lon are finite and inside geographic ranges.
// It is the one predicate used for both upstream POI data and client locations.
func ValidCoordinate(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
