package routing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ServiceConfig holds configuration for the routing service.
type ServiceConfig struct {
	// Provider is the routing data provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long to cache leg estimates (default: 5 minutes).
	// Traffic shifts on that timescale, so estimates go stale quickly.
	CacheTTL time.Duration

	// CacheGridSize is the size of cache grid cells in degrees (default: 0.01 ~ 1.1km).
	// Endpoints within the same grid cell share cached data.
	CacheGridSize float64

	// StaleIfErrorTTL allows serving stale data on provider errors (default: 15 minutes).
	StaleIfErrorTTL time.Duration
}

// Service provides driving leg estimates with caching.
type Service struct {
	provider        Provider
	logger          zerolog.Logger
	cacheTTL        time.Duration
	cacheGridSize   float64
	staleIfErrorTTL time.Duration

	mu    sync.RWMutex
	cache map[string]*cachedLeg
}

type cachedLeg struct {
	leg       *Leg
	fetchedAt time.Time
	expiresAt time.Time
}

// NewService creates a new routing service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 5 * time.Minute
	}

	cacheGridSize := cfg.CacheGridSize
	if cacheGridSize == 0 {
		cacheGridSize = 0.01 // ~1.1km at equator
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = 15 * time.Minute
	}

	return &Service{
		provider:        cfg.Provider,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		cacheGridSize:   cacheGridSize,
		staleIfErrorTTL: staleIfErrorTTL,
		cache:           make(map[string]*cachedLeg),
	}
}

// EstimateLeg returns the driving leg between two points.
// Uses cached data if available and not expired.
func (s *Service) EstimateLeg(ctx context.Context, origin, destination Point) (*Leg, error) {
	if err := validatePoint(origin); err != nil {
		return nil, err
	}
	if err := validatePoint(destination); err != nil {
		return nil, err
	}

	cacheKey := s.cacheKey(origin, destination)

	// Check cache
	s.mu.RLock()
	if cached, ok := s.cache[cacheKey]; ok && time.Now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		return cached.leg, nil
	}
	s.mu.RUnlock()

	return s.fetchLeg(ctx, origin, destination, cacheKey)
}

// fetchLeg fetches a leg estimate from the provider and updates the cache.
func (s *Service) fetchLeg(ctx context.Context, origin, destination Point, cacheKey string) (*Leg, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check cache
	if cached, ok := s.cache[cacheKey]; ok && time.Now().Before(cached.expiresAt) {
		return cached.leg, nil
	}

	s.logger.Debug().
		Float64("origin_lat", origin.Lat).
		Float64("origin_lng", origin.Lng).
		Float64("dest_lat", destination.Lat).
		Float64("dest_lng", destination.Lng).
		Str("provider", s.provider.Name()).
		Msg("fetching leg estimate from provider")

	leg, err := s.provider.EstimateLeg(ctx, origin, destination)
	if err != nil {
		// No drivable route is a definitive answer, not an outage.
		if errors.Is(err, ErrRouteUnavailable) {
			return nil, err
		}

		s.logger.Error().Err(err).
			Float64("origin_lat", origin.Lat).
			Float64("origin_lng", origin.Lng).
			Float64("dest_lat", destination.Lat).
			Float64("dest_lng", destination.Lng).
			Msg("failed to fetch leg estimate")

		// Serve stale data if still within the error window
		if cached, ok := s.cache[cacheKey]; ok {
			if time.Now().Before(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
				s.logger.Warn().
					Time("fetched_at", cached.fetchedAt).
					Str("cache_key", cacheKey).
					Msg("serving stale leg estimate due to provider error")
				return cached.leg, nil
			}
		}

		return nil, ErrProviderUnavailable
	}

	now := time.Now()
	s.cache[cacheKey] = &cachedLeg{
		leg:       leg,
		fetchedAt: now,
		expiresAt: now.Add(s.cacheTTL),
	}

	return leg, nil
}

// cacheKey quantizes both endpoints to grid cells.
func (s *Service) cacheKey(origin, destination Point) string {
	gridOriginLat := math.Floor(origin.Lat/s.cacheGridSize) * s.cacheGridSize
	gridOriginLng := math.Floor(origin.Lng/s.cacheGridSize) * s.cacheGridSize
	gridDestLat := math.Floor(destination.Lat/s.cacheGridSize) * s.cacheGridSize
	gridDestLng := math.Floor(destination.Lng/s.cacheGridSize) * s.cacheGridSize

	return fmt.Sprintf("%.2f,%.2f:%.2f,%.2f",
		gridOriginLat, gridOriginLng,
		gridDestLat, gridDestLng,
	)
}

// InvalidateCache clears all cached data.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*cachedLeg)
}

// ProviderName returns the name of the underlying provider.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}

// validatePoint checks that coordinates are within valid ranges.
func validatePoint(p Point) error {
	if p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}
