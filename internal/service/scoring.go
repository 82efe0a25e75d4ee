package service

import "github.com/jengzang/moodmap-backend-go/internal/models"

// Scoring weights. Closer places always beat farther ones with the same
// attributes; bonuses reward named places, mood fit and amenities.
const (
	baseScore            = 100.0
	distancePenaltyPerKm = 10.0
	namedBonus           = 15.0
	primaryTagBonus      = 20.0
	workWifiBonus        = 25.0
	outdoorSeatingBonus  = 15.0
	wheelchairBonus      = 5.0
)

// ScorePlace computes the relevance of p for mood. Never negative.
func ScorePlace(p models.Place, mood models.MoodConfig) float64 {
	score := baseScore - p.Distance*distancePenaltyPerKm

	if p.Name() != "" {
		score += namedBonus
	}

	if amenity := p.Tag(models.TagAmenity); amenity != "" && amenity == mood.PrimaryTag() {
		score += primaryTagBonus
	}

	if mood.ID == models.MoodWork && p.HasWifi() {
		score += workWifiBonus
	}

	if (mood.ID == models.MoodDate || mood.ID == models.MoodChill) && p.HasOutdoorSeating() {
		score += outdoorSeatingBonus
	}

	if p.IsWheelchairAccessible() {
		score += wheelchairBonus
	}

	if score < 0 {
		return 0
	}
	return score
}
