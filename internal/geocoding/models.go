package geocoding

import "errors"

// Common errors returned by the geocoding service.
var (
	// ErrLocationNotFound is returned when an address resolves to no location.
	ErrLocationNotFound = errors.New("location not found")

	// ErrEmptyAddress is returned when the address is blank.
	ErrEmptyAddress = errors.New("address must not be empty")

	// ErrProviderUnavailable is returned when the geocoding provider fails.
	ErrProviderUnavailable = errors.New("geocoding provider unavailable")
)

// Location is a resolved address.
type Location struct {
	// Lat is the latitude in decimal degrees.
	Lat float64 `json:"lat"`

	// Lng is the longitude in decimal degrees.
	Lng float64 `json:"lng"`

	// FormattedAddress is the provider's canonical form of the address.
	FormattedAddress string `json:"formatted_address,omitempty"`
}
