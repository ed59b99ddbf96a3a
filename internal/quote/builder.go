// Package quote assembles priced trip offers from geocoding, routing,
// weather and fleet data.
package quote

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/swiftcab/swiftcab/internal/booking"
	"github.com/swiftcab/swiftcab/internal/fare"
	"github.com/swiftcab/swiftcab/internal/fleet"
	"github.com/swiftcab/swiftcab/internal/geocoding"
	"github.com/swiftcab/swiftcab/internal/routing"
	"github.com/swiftcab/swiftcab/internal/weather"
)

// ErrNoTaxiAvailable is returned when no candidate taxi is free.
var ErrNoTaxiAvailable = errors.New("no taxi available")

// Fallback values used when a provider cannot price a leg or report
// conditions. A degraded quote beats no quote.
const (
	// FallbackTaxiETAMinutes is the assumed approach time when the
	// approach leg cannot be routed.
	FallbackTaxiETAMinutes = 5

	// FallbackTaxiDistanceKm is the assumed approach distance when the
	// approach leg cannot be routed.
	FallbackTaxiDistanceKm = 3.0

	// FallbackCondition is the assumed weather when the provider is down.
	// Clear carries no surge, so degraded quotes never overcharge.
	FallbackCondition = "Clear"
)

// Geocoder resolves addresses to locations.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*geocoding.Location, error)
}

// RouteEstimator estimates driving legs between points.
type RouteEstimator interface {
	EstimateLeg(ctx context.Context, origin, destination routing.Point) (*routing.Leg, error)
}

// WeatherSource reports current conditions at a point.
type WeatherSource interface {
	GetCurrentConditions(ctx context.Context, lat, lng float64) (*weather.Observation, error)
}

// Locator supplies the candidate taxi pool.
type Locator interface {
	Candidates(ctx context.Context) ([]fleet.Taxi, error)
}

// BuilderConfig holds configuration for the quote builder.
type BuilderConfig struct {
	Geocoder Geocoder
	Routes   RouteEstimator
	Weather  WeatherSource
	Locator  Locator

	// Logger for builder operations.
	Logger zerolog.Logger
}

// Builder builds quotes.
type Builder struct {
	geocoder Geocoder
	routes   RouteEstimator
	weather  WeatherSource
	locator  Locator
	logger   zerolog.Logger
}

// NewBuilder creates a new quote builder.
func NewBuilder(cfg BuilderConfig) *Builder {
	return &Builder{
		geocoder: cfg.Geocoder,
		routes:   cfg.Routes,
		weather:  cfg.Weather,
		locator:  cfg.Locator,
		logger:   cfg.Logger,
	}
}

// BuildQuote prices a trip between two addresses: resolve both endpoints,
// assign the nearest free taxi, route the trip and approach legs, and price
// the trip under current weather. Approach routing and weather failures
// degrade to fallbacks rather than failing the quote.
func (b *Builder) BuildQuote(ctx context.Context, pickupAddress, dropAddress string) (*booking.Quote, error) {
	pickup, err := b.geocoder.Geocode(ctx, pickupAddress)
	if err != nil {
		return nil, err
	}

	drop, err := b.geocoder.Geocode(ctx, dropAddress)
	if err != nil {
		return nil, err
	}

	candidates, err := b.locator.Candidates(ctx)
	if err != nil {
		return nil, err
	}

	taxi := fleet.FindNearest(pickup.Lat, pickup.Lng, candidates)
	if taxi == nil {
		return nil, ErrNoTaxiAvailable
	}

	pickupPoint := routing.Point{Lat: pickup.Lat, Lng: pickup.Lng}
	dropPoint := routing.Point{Lat: drop.Lat, Lng: drop.Lng}

	trip, err := b.routes.EstimateLeg(ctx, pickupPoint, dropPoint)
	if err != nil {
		return nil, err
	}

	taxiETAMinutes := FallbackTaxiETAMinutes
	taxiDistanceKm := FallbackTaxiDistanceKm
	approach, err := b.routes.EstimateLeg(ctx, routing.Point{Lat: taxi.Lat, Lng: taxi.Lng}, pickupPoint)
	if err != nil {
		b.logger.Warn().Err(err).
			Str("taxi_id", taxi.ID).
			Msg("approach leg unavailable, using fallback estimate")
	} else {
		taxiETAMinutes = approach.Minutes()
		taxiDistanceKm = approach.Km()
	}

	condition := FallbackCondition
	obs, err := b.weather.GetCurrentConditions(ctx, pickup.Lat, pickup.Lng)
	if err != nil {
		b.logger.Warn().Err(err).
			Msg("weather unavailable, assuming clear conditions")
	} else {
		condition = obs.Condition
	}

	q := &booking.Quote{
		ID:             uuid.New().String(),
		TaxiID:         taxi.ID,
		PickupAddress:  pickupAddress,
		DropAddress:    dropAddress,
		PickupLat:      pickup.Lat,
		PickupLng:      pickup.Lng,
		DropLat:        drop.Lat,
		DropLng:        drop.Lng,
		DistanceKm:     trip.Km(),
		ETAMinutes:     trip.Minutes(),
		TaxiStartLat:   taxi.Lat,
		TaxiStartLng:   taxi.Lng,
		TaxiETAMinutes: taxiETAMinutes,
		TaxiDistanceKm: taxiDistanceKm,
		Condition:      condition,
		Fare:           fare.TripFare(trip.Km(), condition),
	}

	b.logger.Info().
		Str("quote_id", q.ID).
		Str("taxi_id", q.TaxiID).
		Float64("distance_km", q.DistanceKm).
		Str("condition", q.Condition).
		Float64("fare", q.Fare).
		Msg("quote built")

	return q, nil
}
