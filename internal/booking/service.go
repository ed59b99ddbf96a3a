package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/swiftcab/swiftcab/internal/fare"
	"github.com/swiftcab/swiftcab/internal/fleet"
)

// ServiceConfig holds configuration for the booking service.
type ServiceConfig struct {
	// Repository stores confirmed bookings.
	Repository Repository

	// Fleet is the registered taxi store, used to lock and release taxis.
	Fleet fleet.Repository

	// Logger for service operations.
	Logger zerolog.Logger

	// Now returns the current time. Inject a fixed clock in tests.
	// Defaults to time.Now.
	Now func() time.Time

	// NewID mints booking ids. Defaults to random UUIDs.
	NewID func() string
}

// Service drives the booking lifecycle: confirming quotes into bookings and
// canceling bookings with a time-based fee.
type Service struct {
	repo   Repository
	fleet  fleet.Repository
	logger zerolog.Logger
	now    func() time.Time
	newID  func() string
}

// NewService creates a new booking service.
func NewService(cfg ServiceConfig) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	newID := cfg.NewID
	if newID == nil {
		newID = func() string { return uuid.New().String() }
	}

	return &Service{
		repo:   cfg.Repository,
		fleet:  cfg.Fleet,
		logger: cfg.Logger,
		now:    now,
		newID:  newID,
	}
}

// Confirm turns a quote into a booking under a fresh definitive id. The
// assigned taxi is locked first; if the registry knows the id and the taxi
// has been taken since the quote was issued, fleet.ErrTaxiUnavailable is
// returned and nothing is stored. Ids outside the registry (simulated taxis)
// have nothing to lock.
func (s *Service) Confirm(ctx context.Context, q *Quote) (*Booking, error) {
	if q.TaxiID == "" {
		return nil, fmt.Errorf("%w: missing taxi id", ErrInvalidQuote)
	}

	if err := s.fleet.Acquire(ctx, q.TaxiID); err != nil {
		return nil, err
	}

	b := &Booking{
		Quote:       *q,
		ConfirmedAt: s.now(),
	}
	b.ID = s.newID()

	if err := s.repo.Create(ctx, b); err != nil {
		// Undo the lock so the taxi is not stranded.
		if relErr := s.fleet.Release(ctx, q.TaxiID); relErr != nil {
			s.logger.Error().Err(relErr).
				Str("taxi_id", q.TaxiID).
				Msg("failed to release taxi after booking store failure")
		}
		return nil, err
	}

	s.logger.Info().
		Str("booking_id", b.ID).
		Str("taxi_id", b.TaxiID).
		Float64("fare", b.Fare).
		Msg("booking confirmed")

	return b, nil
}

// EstimateCancelFee computes what canceling a booking would cost right now
// without changing any state.
func (s *Service) EstimateCancelFee(ctx context.Context, bookingID string) (*CancelFeeEstimate, error) {
	b, err := s.repo.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	elapsed := s.now().Sub(b.ConfirmedAt)

	estimate := &CancelFeeEstimate{BookingID: b.ID}
	if elapsed > GracePeriod {
		estimate.FeeApplied = true
		estimate.Fee = s.cancellationFee(b, elapsed)
	}

	return estimate, nil
}

// Cancel cancels a booking, charges the applicable fee and releases the
// taxi. Canceling consumes the booking, so a second cancel returns
// ErrBookingNotFound.
func (s *Service) Cancel(ctx context.Context, bookingID string) (*CancelResult, error) {
	b, err := s.repo.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	elapsed := s.now().Sub(b.ConfirmedAt)
	elapsedSeconds := int(elapsed.Seconds())

	result := &CancelResult{
		BookingID:      b.ID,
		ElapsedSeconds: elapsedSeconds,
	}

	if elapsed <= GracePeriod {
		result.Message = fmt.Sprintf("Booking %s canceled within %d seconds. No fee.", b.ID, elapsedSeconds)
	} else {
		result.FeeApplied = true
		result.Fee = s.cancellationFee(b, elapsed)
		result.Message = fmt.Sprintf("Booking canceled after %d seconds.", elapsedSeconds)
	}

	if err := s.fleet.Release(ctx, b.TaxiID); err != nil {
		s.logger.Error().Err(err).
			Str("taxi_id", b.TaxiID).
			Msg("failed to release taxi on cancel")
	}

	if err := s.repo.Delete(ctx, bookingID); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("booking_id", b.ID).
		Str("taxi_id", b.TaxiID).
		Int("elapsed_seconds", elapsedSeconds).
		Float64("fee", result.Fee).
		Bool("fee_applied", result.FeeApplied).
		Msg("booking canceled")

	return result, nil
}

// cancellationFee charges for the driver's progress on the approach leg
// under the weather conditions the booking was priced at.
func (s *Service) cancellationFee(b *Booking, elapsed time.Duration) float64 {
	return fare.CancellationFee(fare.CancellationInput{
		ElapsedSeconds: elapsed.Seconds(),
		TaxiETAMinutes: b.TaxiETAMinutes,
		TaxiDistanceKm: b.TaxiDistanceKm,
		Condition:      b.Condition,
	})
}
