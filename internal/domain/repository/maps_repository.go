package repository

import (
	"context"
	"encoding/json"
	"net/url"
)

// MapsRepository - outbound access to the maps provider.
// Implementations add the credential; params never carry it.
type MapsRepository interface {
	// Autocomplete calls the Places Autocomplete service
	Autocomplete(ctx context.Context, params url.Values) (json.RawMessage, error)

	// PlaceDetails calls the Place Details service
	PlaceDetails(ctx context.Context, params url.Values) (json.RawMessage, error)

	// Geocode calls the Geocoding service
	Geocode(ctx context.Context, params url.Values) (json.RawMessage, error)
}
