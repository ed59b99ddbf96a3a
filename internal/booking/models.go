package booking

import (
	"errors"
	"time"
)

// Lifecycle errors.
var (
	// ErrBookingNotFound is returned when a booking id is unknown or already canceled.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrInvalidQuote is returned when a quote submitted for confirmation is
	// missing required fields.
	ErrInvalidQuote = errors.New("invalid quote")
)

// GracePeriod is how long after confirmation a booking can be canceled
// without a fee.
const GracePeriod = 30 * time.Second

// Quote is a priced trip offer. Quotes are not stored server side; the
// client submits the quote back to confirm it.
type Quote struct {
	ID     string
	TaxiID string

	PickupAddress string
	DropAddress   string

	PickupLat float64
	PickupLng float64
	DropLat   float64
	DropLng   float64

	// Trip leg, pickup to drop.
	DistanceKm float64
	ETAMinutes int

	// Approach leg, taxi to pickup. Cancellation fees are charged against
	// progress on this leg.
	TaxiStartLat   float64
	TaxiStartLng   float64
	TaxiETAMinutes int
	TaxiDistanceKm float64

	// Condition is the weather condition text the fare was priced under.
	Condition string
	Fare      float64
}

// Booking is a confirmed quote under its own definitive id. The quoted price
// and conditions are frozen at confirmation time.
type Booking struct {
	Quote

	ConfirmedAt time.Time
}

// CancelFeeEstimate is a dry-run cancellation quote. It does not change any
// state.
type CancelFeeEstimate struct {
	BookingID  string
	FeeApplied bool
	Fee        float64
}

// CancelResult is the outcome of an executed cancellation.
type CancelResult struct {
	BookingID      string
	ElapsedSeconds int
	FeeApplied     bool
	Fee            float64
	Message        string
}
