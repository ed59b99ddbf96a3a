package models

import (
	"github.com/swiftcab/swiftcab/internal/booking"
	"github.com/swiftcab/swiftcab/internal/fleet"
)

// Quote is the wire form of a priced trip offer. Field names match the
// contract the browser frontend consumes.
type Quote struct {
	ID       string  `json:"id"`
	Taxi     string  `json:"taxi"`
	Pickup   string  `json:"pickup"`
	Drop     string  `json:"drop"`
	Distance float64 `json:"distance_km"`
	ETAMin   int     `json:"eta_min"`
	Weather  string  `json:"weather"`
	Fare     float64 `json:"fare"`

	PickupLat float64 `json:"pickup_lat"`
	PickupLng float64 `json:"pickup_lng"`
	DropLat   float64 `json:"drop_lat"`
	DropLng   float64 `json:"drop_lng"`

	TaxiStartLat   float64 `json:"taxi_start_lat"`
	TaxiStartLng   float64 `json:"taxi_start_lng"`
	TaxiETAMin     int     `json:"taxi_eta_min"`
	TaxiDistanceKm float64 `json:"taxi_distance_km"`
}

// NewQuote converts a domain quote to its wire form.
func NewQuote(q *booking.Quote) Quote {
	return Quote{
		ID:             q.ID,
		Taxi:           q.TaxiID,
		Pickup:         q.PickupAddress,
		Drop:           q.DropAddress,
		Distance:       q.DistanceKm,
		ETAMin:         q.ETAMinutes,
		Weather:        q.Condition,
		Fare:           q.Fare,
		PickupLat:      q.PickupLat,
		PickupLng:      q.PickupLng,
		DropLat:        q.DropLat,
		DropLng:        q.DropLng,
		TaxiStartLat:   q.TaxiStartLat,
		TaxiStartLng:   q.TaxiStartLng,
		TaxiETAMin:     q.TaxiETAMinutes,
		TaxiDistanceKm: q.TaxiDistanceKm,
	}
}

// ToDomain converts the wire quote back to the domain model.
func (q Quote) ToDomain() *booking.Quote {
	return &booking.Quote{
		ID:             q.ID,
		TaxiID:         q.Taxi,
		PickupAddress:  q.Pickup,
		DropAddress:    q.Drop,
		DistanceKm:     q.Distance,
		ETAMinutes:     q.ETAMin,
		Condition:      q.Weather,
		Fare:           q.Fare,
		PickupLat:      q.PickupLat,
		PickupLng:      q.PickupLng,
		DropLat:        q.DropLat,
		DropLng:        q.DropLng,
		TaxiStartLat:   q.TaxiStartLat,
		TaxiStartLng:   q.TaxiStartLng,
		TaxiETAMinutes: q.TaxiETAMin,
		TaxiDistanceKm: q.TaxiDistanceKm,
	}
}

// Booking is the wire form of a confirmed booking: the quote under its
// definitive id plus the confirmation timestamp.
type Booking struct {
	Quote

	CreatedAt Timestamp `json:"created_at"`
}

// NewBooking converts a domain booking to its wire form.
func NewBooking(b *booking.Booking) Booking {
	return Booking{
		Quote:     NewQuote(&b.Quote),
		CreatedAt: Timestamp(b.ConfirmedAt),
	}
}

// CancelFeeEstimate is the response for a cancellation fee dry run.
type CancelFeeEstimate struct {
	FeeApplied      bool    `json:"fee_applied"`
	CancellationFee float64 `json:"cancellation_fee"`
}

// NewCancelFeeEstimate converts a domain estimate to its wire form.
func NewCancelFeeEstimate(e *booking.CancelFeeEstimate) CancelFeeEstimate {
	return CancelFeeEstimate{
		FeeApplied:      e.FeeApplied,
		CancellationFee: e.Fee,
	}
}

// CancelResult is the response for an executed cancellation. The fee field
// is only present when a fee was charged.
type CancelResult struct {
	Status          string   `json:"status"`
	FeeApplied      bool     `json:"fee_applied"`
	Message         string   `json:"message"`
	CancellationFee *float64 `json:"cancellation_fee,omitempty"`
}

// NewCancelResult converts a domain cancel outcome to its wire form.
func NewCancelResult(r *booking.CancelResult) CancelResult {
	result := CancelResult{
		Status:     "cancelled",
		FeeApplied: r.FeeApplied,
		Message:    r.Message,
	}
	if r.FeeApplied {
		fee := r.Fee
		result.CancellationFee = &fee
	}
	return result
}

// Taxi is the wire form of a taxi position.
type Taxi struct {
	ID        string  `json:"id"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Available bool    `json:"available"`
}

// NewTaxis converts domain taxis to their wire form.
func NewTaxis(taxis []fleet.Taxi) []Taxi {
	out := make([]Taxi, 0, len(taxis))
	for _, t := range taxis {
		out = append(out, Taxi{
			ID:        t.ID,
			Lat:       t.Lat,
			Lng:       t.Lng,
			Available: t.Available,
		})
	}
	return out
}

// Ping is the response for the liveness endpoint.
type Ping struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// StatusOK is the generic success acknowledgement.
type StatusOK struct {
	Status string `json:"status"`
}
