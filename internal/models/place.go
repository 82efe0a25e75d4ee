package models

import "strings"

// Common OSM tag keys read by scoring and the card view.
const (
	TagName           = "name"
	TagAmenity        = "amenity"
	TagCuisine        = "cuisine"
	TagOpeningHours   = "opening_hours"
	TagPhone          = "phone"
	TagWebsite        = "website"
	TagStreet         = "addr:street"
	TagCity           = "addr:city"
	TagHouseNumber    = "addr:housenumber"
	TagWheelchair     = "wheelchair"
	TagOutdoorSeating = "outdoor_seating"
	TagInternetAccess = "internet_access"
)

// RawPlace is a point of interest as returned by the POI query service.
// Missing coordinates are carried as NaN.
type RawPlace struct {
	ID   int64             `json:"id"`
	Type string            `json:"type"` // node, way, relation
	Lat  float64           `json:"lat"`
	Lon  float64           `json:"lon"`
	Tags map[string]string `json:"tags,omitempty"`
}

// Tag returns the tag value, or "" when the place has no such tag.
func (p RawPlace) Tag(key string) string {
	if p.Tags == nil {
		return ""
	}
	return p.Tags[key]
}

// Name returns the place name, or "" for unnamed places.
func (p RawPlace) Name() string {
	return strings.TrimSpace(p.Tag(TagName))
}

// HasWifi reports whether the place advertises internet access.
func (p RawPlace) HasWifi() bool {
	v := p.Tag(TagInternetAccess)
	return v == "yes" || v == "wlan"
}

// HasOutdoorSeating reports outdoor_seating=yes.
func (p RawPlace) HasOutdoorSeating() bool {
	return p.Tag(TagOutdoorSeating) == "yes"
}

// IsWheelchairAccessible reports wheelchair=yes.
func (p RawPlace) IsWheelchairAccessible() bool {
	return p.Tag(TagWheelchair) == "yes"
}

// Place is a validated RawPlace annotated for one query.
type Place struct {
	RawPlace
	Distance float64 `json:"distance"` // kilometers from the query location
	Score    float64 `json:"score"`
}
