package googlemaps

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"googlemaps.github.io/maps"

	"github.com/swiftcab/swiftcab/internal/geocoding"
)

// ProviderName identifies this geocoding provider.
const ProviderName = "googlemaps"

// ClientConfig holds configuration for the Google Maps geocoding client.
type ClientConfig struct {
	// MapsClient is the shared Google Maps API client (required).
	MapsClient *maps.Client

	// Region biases results toward a region code (optional, e.g. "in").
	Region string

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Google Maps Geocoding API client.
type Client struct {
	maps   *maps.Client
	region string
	logger zerolog.Logger
}

// NewClient creates a new Google Maps geocoding client.
func NewClient(cfg ClientConfig) *Client {
	return &Client{
		maps:   cfg.MapsClient,
		region: cfg.Region,
		logger: cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Geocode resolves a free-form address to a location. The first result wins;
// zero results map to ErrLocationNotFound.
func (c *Client) Geocode(ctx context.Context, address string) (*geocoding.Location, error) {
	req := &maps.GeocodingRequest{
		Address: address,
		Region:  c.region,
	}

	results, err := c.maps.Geocode(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("geocoding request: %w", err)
	}

	if len(results) == 0 {
		return nil, geocoding.ErrLocationNotFound
	}

	first := results[0]
	return &geocoding.Location{
		Lat:              first.Geometry.Location.Lat,
		Lng:              first.Geometry.Location.Lng,
		FormattedAddress: first.FormattedAddress,
	}, nil
}
