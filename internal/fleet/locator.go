package fleet

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LocatorConfig holds configuration for the fleet locator.
type LocatorConfig struct {
	// Repository is the registered taxi store.
	Repository Repository

	// Rand is the random source for simulated taxi generation. Inject a
	// seeded source for deterministic tests.
	Rand *rand.Rand

	// Logger for locator operations.
	Logger zerolog.Logger

	// SimCenterLat/SimCenterLng is the center point for simulated taxis
	// (defaults to the city center).
	SimCenterLat float64
	SimCenterLng float64

	// SimCount is how many simulated taxis to generate per lookup
	// (default: 10).
	SimCount int
}

// Locator finds the nearest available taxi to a point. The candidate pool is
// the registered fleet widened by a fresh batch of simulated taxis on every
// call.
type Locator struct {
	repo         Repository
	logger       zerolog.Logger
	simCenterLat float64
	simCenterLng float64
	simCount     int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewLocator creates a new fleet locator.
func NewLocator(cfg LocatorConfig) *Locator {
	simCount := cfg.SimCount
	if simCount == 0 {
		simCount = SimCount
	}

	simCenterLat := cfg.SimCenterLat
	simCenterLng := cfg.SimCenterLng
	if simCenterLat == 0 && simCenterLng == 0 {
		simCenterLat = SimCenterLat
		simCenterLng = SimCenterLng
	}

	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Locator{
		repo:         cfg.Repository,
		logger:       cfg.Logger,
		simCenterLat: simCenterLat,
		simCenterLng: simCenterLng,
		simCount:     simCount,
		rng:          rng,
	}
}

// Candidates returns all registered taxis followed by a freshly generated
// batch of simulated taxis. The simulated batch is regenerated, never cached,
// so positions differ between calls.
func (l *Locator) Candidates(ctx context.Context) ([]Taxi, error) {
	registered, err := l.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	simulated := GenerateSimulated(l.rng, l.simCenterLat, l.simCenterLng, l.simCount)
	l.mu.Unlock()

	return append(registered, simulated...), nil
}

// FindNearest returns the available candidate closest to the given point by
// great-circle distance, or nil when no candidate is available. Ties go to
// the first candidate encountered; scan order is stable.
func FindNearest(lat, lng float64, candidates []Taxi) *Taxi {
	var best *Taxi
	bestDist := 0.0

	for i := range candidates {
		t := &candidates[i]
		if !t.Available {
			continue
		}

		d := haversineKm(lat, lng, t.Lat, t.Lng)
		if best == nil || d < bestDist {
			best = t
			bestDist = d
		}
	}

	return best
}
