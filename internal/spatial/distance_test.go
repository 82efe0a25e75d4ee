package spatial

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateDistanceIdentity(t *testing.T) {
	points := [][2]float64{{0, 0}, {40.7128, -74.0060}, {-33.8688, 151.2093}, {90, 0}, {-90, 180}}
	for _, p := range points {
		assert.Equal(t, 0.0, CalculateDistance(p[0], p[1], p[0], p[1]))
	}
}

func TestCalculateDistanceSymmetry(t *testing.T) {
	a := [2]float64{40.7128, -74.0060}
	b := [2]float64{51.5074, -0.1278}
	ab := CalculateDistance(a[0], a[1], b[0], b[1])
	ba := CalculateDistance(b[0], b[1], a[0], a[1])
	assert.InDelta(t, ab, ba, 1e-9)
	assert.InDelta(t, 5570, ab, 10) // New York to London
}

func TestCalculateDistanceHalfCircumference(t *testing.T) {
	half := math.Pi * EarthRadiusKm
	d := CalculateDistance(0, 0, 0, 180)
	assert.InEpsilon(t, half, d, 0.001)
}

func TestCalculateBearing(t *testing.T) {
	assert.InDelta(t, 0, CalculateBearing(0, 0, 1, 0), 1e-9)
	assert.InDelta(t, 90, CalculateBearing(0, 0, 0, 1), 1e-9)
	assert.InDelta(t, 180, CalculateBearing(1, 0, 0, 0), 1e-9)
	assert.InDelta(t, 270, CalculateBearing(0, 1, 0, 0), 1e-9)

	b := CalculateBearing(40.7128, -74.0060, 40.70, -74.02)
	assert.GreaterOrEqual(t, b, 0.0)
	assert.Less(t, b, 360.0)
}

func TestDirection(t *testing.T) {
	tests := map[float64]string{
		0:     "N",
		22.4:  "N",
		22.5:  "NE",
		90:    "E",
		135:   "SE",
		180:   "S",
		225:   "SW",
		270:   "W",
		315:   "NW",
		350:   "N",
		-45:   "NW",
		405.0: "NE",
	}
	for bearing, want := range tests {
		assert.Equal(t, want, Direction(bearing), "bearing %v", bearing)
	}
}

func TestFormatDistance(t *testing.T) {
	assert.Equal(t, "0 m", FormatDistance(0))
	assert.Equal(t, "300 m", FormatDistance(0.3))
	assert.Equal(t, "350 m", FormatDistance(0.347))
	assert.Equal(t, "1.0 km", FormatDistance(0.996))
	assert.Equal(t, "1.0 km", FormatDistance(1))
	assert.Equal(t, "2.5 km", FormatDistance(2.46))
	assert.Equal(t, "120 m", FormatDistance(0.123))
	assert.Equal(t, "130 m", FormatDistance(0.125))
}

func TestFormatDistanceMonotonic(t *testing.T) {
	prev := -1.0
	for i := 0; i <= 3000; i++ {
		km := float64(i) / 1000
		text := FormatDistance(km)

		var value float64
		var unit string
		_, err := fmt.Sscanf(text, "%f %s", &value, &unit)
		require.NoError(t, err, text)
		meters := value
		if unit == "km" {
			meters = value * 1000
		} else {
			require.Equal(t, "m", unit, text)
		}

		require.GreaterOrEqual(t, meters, prev, "%v km rendered as %q", km, text)
		prev = meters
	}
}

func TestDestinationPointRoundTrip(t *testing.T) {
	lat, lon := DestinationPoint(40.7128, -74.0060, 90, 200)
	assert.InDelta(t, 0.2, CalculateDistance(40.7128, -74.0060, lat, lon), 1e-6)
}

func TestValidCoordinate(t *testing.T) {
	assert.True(t, ValidCoordinate(0, 0))
	assert.True(t, ValidCoordinate(90, 180))
	assert.True(t, ValidCoordinate(-90, -180))
	assert.False(t, ValidCoordinate(90.0001, 0))
	assert.False(t, ValidCoordinate(0, -180.5))
	assert.False(t, ValidCoordinate(math.NaN(), 0))
	assert.False(t, ValidCoordinate(0, math.Inf(1)))
}
