package dto

// SearchPlacesRequest - query parameters of GET /api/maps/search-places
type SearchPlacesRequest struct {
	Query    string `json:"query" validate:"required,min=3"`
	Location string `json:"location,omitempty" validate:"omitempty,latlng"`
}

// PlaceDetailsRequest - query parameters of GET /api/maps/place-details
type PlaceDetailsRequest struct {
	PlaceID string `json:"place_id" validate:"required"`
}

// GeocodeRequest - query parameters of GET /api/maps/geocode
type GeocodeRequest struct {
	Address string `json:"address" validate:"required"`
}

// RootResponse - service banner returned by GET /
type RootResponse struct {
	Status    string   `json:"status"`
	Message   string   `json:"message"`
	Endpoints []string `json:"endpoints"`
}

// HealthResponse - body of GET /health
type HealthResponse struct {
	Status string `json:"status"`
}
