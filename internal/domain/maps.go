package domain

import "errors"

// Endpoint - path of a provider web service relative to the base URL
type Endpoint string

const (
	EndpointAutocomplete Endpoint = "place/autocomplete/json"
	EndpointPlaceDetails Endpoint = "place/details/json"
	EndpointGeocode      Endpoint = "geocode/json"
)

// Name - short label used in logs and metrics
func (e Endpoint) Name() string {
	switch e {
	case EndpointAutocomplete:
		return "autocomplete"
	case EndpointPlaceDetails:
		return "place_details"
	case EndpointGeocode:
		return "geocode"
	default:
		return string(e)
	}
}

// ErrUpstream marks transport failures, timeouts and non-2xx answers of the provider.
var ErrUpstream = errors.New("upstream request failed")

// PlaceDetailsFields - fields requested from the Place Details service
const PlaceDetailsFields = "geometry,name,formatted_address,address_components"

// UpstreamError - provider failure surfaced to callers; matches ErrUpstream.
// Message never contains the credential.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return e.Message
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}
