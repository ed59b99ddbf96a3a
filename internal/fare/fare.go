// Package fare provides pure fare and cancellation fee computation.
package fare

import "math"

// Trip fare constants, in currency units.
const (
	BaseFare  = 50.0
	PerKmRate = 12.0
)

// Cancellation fee constants.
const (
	BaseCancelFee    = 25.0
	CancelPerKmRate  = 5.0
	CancelPerMinRate = 0.5
)

// TripFare computes the fare for a trip of the given distance under the given
// weather condition: (base + distance * rate) scaled by the surge multiplier,
// rounded to 2 decimals.
func TripFare(distanceKm float64, condition string) float64 {
	return round2((BaseFare + distanceKm*PerKmRate) * SurgeMultiplier(condition))
}

// CancellationInput carries the booking fields needed to compute a
// cancellation fee. All values come from the stored booking; no external
// service is consulted, so the fee is reproducible.
type CancellationInput struct {
	// ElapsedSeconds is the time since the booking was created.
	ElapsedSeconds float64

	// TaxiETAMinutes is the driver's estimated approach time at booking.
	TaxiETAMinutes int

	// TaxiDistanceKm is the driver's approach distance at booking.
	TaxiDistanceKm float64

	// Condition is the weather condition captured in the quote.
	Condition string
}

// CancellationFee computes the fee owed for cancelling a booking after the
// grace period. The fee approximates compensation for driver time and distance
// actually spent en route: progress toward pickup is the elapsed fraction of
// the approach ETA, capped at 1.0 once the driver would have arrived.
func CancellationFee(in CancellationInput) float64 {
	etaSeconds := float64(in.TaxiETAMinutes) * 60.0
	if etaSeconds <= 0 {
		etaSeconds = 60.0
	}

	progress := math.Min(1.0, in.ElapsedSeconds/etaSeconds)
	distanceTraveledKm := in.TaxiDistanceKm * progress
	elapsedMinutes := in.ElapsedSeconds / 60.0

	fee := BaseCancelFee +
		elapsedMinutes*CancelPerMinRate +
		distanceTraveledKm*CancelPerKmRate

	return round2(fee * SurgeMultiplier(in.Condition))
}

// round2 rounds to 2 decimal places, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
