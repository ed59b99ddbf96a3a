package geocoding

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Provider defines the interface for geocoding providers.
type Provider interface {
	// Geocode resolves a free-form address to a location.
	Geocode(ctx context.Context, address string) (*Location, error)

	// Name returns the provider name for logging.
	Name() string
}

// ServiceConfig holds configuration for the geocoding service.
type ServiceConfig struct {
	// Provider is the geocoding provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long to cache resolved addresses (default: 1 hour).
	// Addresses are effectively immutable, so a long cache is safe.
	CacheTTL time.Duration
}

// Service resolves addresses with caching. Lookups for the same normalized
// address within the TTL are served from cache.
type Service struct {
	provider Provider
	logger   zerolog.Logger
	cacheTTL time.Duration

	mu    sync.RWMutex
	cache map[string]*cachedLocation
}

type cachedLocation struct {
	location  *Location
	expiresAt time.Time
}

// NewService creates a new geocoding service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 1 * time.Hour
	}

	return &Service{
		provider: cfg.Provider,
		logger:   cfg.Logger,
		cacheTTL: cacheTTL,
		cache:    make(map[string]*cachedLocation),
	}
}

// Geocode resolves an address to a location. Uses cached data if available
// and not expired.
func (s *Service) Geocode(ctx context.Context, address string) (*Location, error) {
	key := normalizeAddress(address)
	if key == "" {
		return nil, ErrEmptyAddress
	}

	// Check cache
	s.mu.RLock()
	if cached, ok := s.cache[key]; ok && time.Now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		return cached.location, nil
	}
	s.mu.RUnlock()

	return s.fetch(ctx, address, key)
}

// fetch resolves the address via the provider and updates the cache.
func (s *Service) fetch(ctx context.Context, address, key string) (*Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check cache
	if cached, ok := s.cache[key]; ok && time.Now().Before(cached.expiresAt) {
		return cached.location, nil
	}

	s.logger.Debug().
		Str("address", address).
		Str("provider", s.provider.Name()).
		Msg("geocoding address")

	loc, err := s.provider.Geocode(ctx, address)
	if err != nil {
		if errors.Is(err, ErrLocationNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).
			Str("address", address).
			Msg("failed to geocode address")
		return nil, ErrProviderUnavailable
	}

	s.cache[key] = &cachedLocation{
		location:  loc,
		expiresAt: time.Now().Add(s.cacheTTL),
	}

	return loc, nil
}

// InvalidateCache clears all cached locations.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*cachedLocation)
}

// normalizeAddress collapses whitespace and case so that trivially different
// spellings of the same address share a cache entry.
func normalizeAddress(address string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " "))
}
