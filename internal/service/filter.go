package service

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jengzang/moodmap-backend-go/internal/models"
)

// FilterPlaces keeps places within maxDistance km. With openNow it also drops
// places whose opening_hours text mentions "closed"; this is a substring
// check, not an opening-hours evaluator. The input is not modified.
func FilterPlaces(places []models.Place, maxDistance float64, openNow bool) []models.Place {
	out := make([]models.Place, 0, len(places))
	for _, p := range places {
		if p.Distance > maxDistance {
			continue
		}
		if openNow {
			if hours := p.Tag(models.TagOpeningHours); hours != "" && strings.Contains(strings.ToLower(hours), "closed") {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// SortPlaces returns a sorted copy of places. Ties keep their input order.
//
//	distance: nearest first
//	name:     locale-aware A-Z, unnamed places last
//	score:    highest first
//
// Unknown keys return an unsorted copy.
func SortPlaces(places []models.Place, sortBy string) []models.Place {
	sorted := make([]models.Place, len(places))
	copy(sorted, places)

	switch sortBy {
	case models.SortByDistance:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Distance < sorted[j].Distance
		})
	case models.SortByName:
		// Collators are not safe for concurrent use.
		col := collate.New(language.English)
		sort.SliceStable(sorted, func(i, j int) bool {
			a, b := sorted[i].Name(), sorted[j].Name()
			switch {
			case a == "":
				return false
			case b == "":
				return true
			default:
				return col.CompareString(a, b) < 0
			}
		})
	case models.SortByScore:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Score > sorted[j].Score
		})
	}

	return sorted
}

// ApplyFilters filters then sorts. A non-positive MaxDistance means no limit.
func ApplyFilters(places []models.Place, f models.FilterState) []models.Place {
	maxDistance := f.MaxDistance
	if maxDistance <= 0 {
		maxDistance = math.Inf(1)
	}
	return SortPlaces(FilterPlaces(places, maxDistance, f.OpenNow), f.SortBy)
}
