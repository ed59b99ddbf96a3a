package fleet

import (
	"fmt"
	"math/rand"
)

// Simulation defaults: taxis are scattered around the city center within
// roughly an 11 km box.
const (
	SimCenterLat = 28.6139
	SimCenterLng = 77.2090
	SimCount     = 10
	simJitterDeg = 0.1
)

// GenerateSimulated produces count simulated taxis jittered uniformly within
// ±jitter degrees of the center point. Every simulated taxi is available and
// carries an id in the simulated namespace. The function is pure over the
// random source, so seeded tests are deterministic.
func GenerateSimulated(rng *rand.Rand, centerLat, centerLng float64, count int) []Taxi {
	taxis := make([]Taxi, 0, count)
	for i := 0; i < count; i++ {
		offsetLat := (rng.Float64()*2 - 1) * simJitterDeg
		offsetLng := (rng.Float64()*2 - 1) * simJitterDeg

		taxis = append(taxis, Taxi{
			ID:        fmt.Sprintf("%s%d", SimulatedIDPrefix, i+1),
			Lat:       centerLat + offsetLat,
			Lng:       centerLng + offsetLng,
			Available: true,
		})
	}
	return taxis
}
