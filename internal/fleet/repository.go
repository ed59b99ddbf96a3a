package fleet

import "context"

// Repository manages registered taxi state. The availability flag of a
// registered taxi is owned by the booking lifecycle: Acquire and Release are
// its only writers outside of ResetAll.
//
// Acquire and Release treat unknown ids as no-ops so that simulated taxi ids,
// which are never registered, pass through booking operations without effect.
type Repository interface {
	// List returns all registered taxis in fleet-registration order.
	List(ctx context.Context) ([]Taxi, error)

	// Acquire locks a registered taxi for a booking. Returns
	// ErrTaxiUnavailable when the taxi is already locked. Unknown ids are a
	// successful no-op.
	Acquire(ctx context.Context, id string) error

	// Release unlocks a registered taxi. Unknown ids are a no-op.
	Release(ctx context.Context, id string) error

	// ResetAll marks every registered taxi available.
	ResetAll(ctx context.Context) error
}
