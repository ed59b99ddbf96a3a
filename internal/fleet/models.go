// Package fleet provides the taxi registry and nearest-taxi lookup.
package fleet

import "errors"

// Repository errors.
var (
	// ErrTaxiUnavailable indicates a registered taxi is already locked by an
	// active booking.
	ErrTaxiUnavailable = errors.New("taxi unavailable")
)

// Taxi represents a taxi position and availability.
//
// Two populations share this type: registered taxis, which have persistent
// identity and whose availability toggles on booking and cancel, and
// simulated taxis, which are generated fresh per lookup, are always
// available, and are never persisted.
type Taxi struct {
	ID        string  `json:"id"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Available bool    `json:"available"`
}

// SimulatedIDPrefix marks simulated taxi ids. Registered taxi ids never use
// this prefix, keeping the two id namespaces disjoint.
const SimulatedIDPrefix = "S"

// DefaultFleet returns the seed fleet of registered taxis, all available.
func DefaultFleet() []Taxi {
	return []Taxi{
		{ID: "T1", Lat: 28.61, Lng: 77.20, Available: true},
		{ID: "T2", Lat: 28.62, Lng: 77.21, Available: true},
		{ID: "T3", Lat: 28.65, Lng: 77.18, Available: true},
		{ID: "T4", Lat: 28.60, Lng: 77.25, Available: true},
	}
}
