package booking

import "context"

// Repository stores confirmed bookings.
type Repository interface {
	// Create stores a new booking.
	Create(ctx context.Context, b *Booking) error

	// Get retrieves a booking by id. Returns ErrBookingNotFound if the id
	// is unknown or the booking has been canceled.
	Get(ctx context.Context, id string) (*Booking, error)

	// Delete removes a booking. Deleting an unknown id is a no-op.
	Delete(ctx context.Context, id string) error
}
