package googlemaps

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"googlemaps.github.io/maps"

	"github.com/swiftcab/swiftcab/internal/routing"
)

// ProviderName identifies this routing provider.
const ProviderName = "googlemaps"

// ClientConfig holds configuration for the Google Maps routing client.
type ClientConfig struct {
	// MapsClient is the shared Google Maps API client (required).
	MapsClient *maps.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client estimates driving legs via the Google Maps Distance Matrix API.
type Client struct {
	maps   *maps.Client
	logger zerolog.Logger
}

// NewClient creates a new Google Maps routing client.
func NewClient(cfg ClientConfig) *Client {
	return &Client{
		maps:   cfg.MapsClient,
		logger: cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// EstimateLeg returns driving distance and duration between two points.
func (c *Client) EstimateLeg(ctx context.Context, origin, destination routing.Point) (*routing.Leg, error) {
	req := &maps.DistanceMatrixRequest{
		Origins:      []string{formatPoint(origin)},
		Destinations: []string{formatPoint(destination)},
		Mode:         maps.TravelModeDriving,
		Units:        maps.UnitsMetric,
	}

	resp, err := c.maps.DistanceMatrix(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("distance matrix request: %w", err)
	}

	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return nil, routing.ErrRouteUnavailable
	}

	element := resp.Rows[0].Elements[0]
	if element.Status != "OK" {
		c.logger.Debug().
			Str("status", element.Status).
			Msg("distance matrix element not ok")
		return nil, routing.ErrRouteUnavailable
	}

	return &routing.Leg{
		DistanceMeters:  element.Distance.Meters,
		DurationSeconds: int(element.Duration.Seconds()),
	}, nil
}

// formatPoint renders a point as the "lat,lng" literal the API accepts.
func formatPoint(p routing.Point) string {
	return fmt.Sprintf("%f,%f", p.Lat, p.Lng)
}
