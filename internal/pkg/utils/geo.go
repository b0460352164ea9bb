package utils

import (
	"fmt"
	"strings"

	"googlemaps.github.io/maps"
)

// ValidateCoordinates checks latitude and longitude ranges
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// NormalizeLocation strips all whitespace from a "lat,lng" pair
func NormalizeLocation(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// ParseLocation parses a "lat,lng" pair, tolerating whitespace around the numbers.
// Exactly two comma separated parts are accepted.
func ParseLocation(s string) (maps.LatLng, error) {
	normalized := NormalizeLocation(s)
	if parts := strings.Split(normalized, ","); len(parts) != 2 {
		return maps.LatLng{}, fmt.Errorf("location must be of the form 'lat,lng', got %q", s)
	}

	latLng, err := maps.ParseLatLng(normalized)
	if err != nil {
		return maps.LatLng{}, err
	}
	if !ValidateCoordinates(latLng.Lat, latLng.Lng) {
		return maps.LatLng{}, fmt.Errorf("coordinates out of range: %s", s)
	}
	return latLng, nil
}
