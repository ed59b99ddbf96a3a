// Package routing provides driving leg estimation between geographic points.
package routing

import (
	"context"
	"errors"
	"math"
)

// Sentinel errors for routing operations.
var (
	// ErrProviderUnavailable indicates the routing provider is down or the circuit breaker is open.
	ErrProviderUnavailable = errors.New("routing provider unavailable")
	// ErrRouteUnavailable indicates no drivable route exists between the given points.
	ErrRouteUnavailable = errors.New("no route found between the given points")
	// ErrInvalidCoordinates indicates the provided coordinates are invalid or out of range.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// Provider defines the interface for routing providers.
type Provider interface {
	// EstimateLeg returns driving distance and duration between two points.
	EstimateLeg(ctx context.Context, origin, destination Point) (*Leg, error)
	// Name returns the provider identifier for logging and metrics.
	Name() string
}

// Point represents a geographic point.
type Point struct {
	Lat float64
	Lng float64
}

// Leg is a single driving leg between two points.
type Leg struct {
	// DistanceMeters is the total driving distance in meters.
	DistanceMeters int

	// DurationSeconds is the total driving duration in seconds.
	DurationSeconds int
}

// Km returns the leg distance in kilometres rounded to two decimals.
func (l Leg) Km() float64 {
	return math.Round(float64(l.DistanceMeters)/1000*100) / 100
}

// Minutes returns the leg duration in whole minutes, truncated, never less
// than one. Sub-minute legs still represent a real trip.
func (l Leg) Minutes() int {
	minutes := l.DurationSeconds / 60
	if minutes < 1 {
		return 1
	}
	return minutes
}
