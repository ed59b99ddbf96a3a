package fleet

import (
	"context"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository. This is
// the default backend: fleet state is ephemeral and lost on restart.
type InMemoryRepository struct {
	mu    sync.RWMutex
	order []string
	taxis map[string]*Taxi
}

// NewInMemoryRepository creates an in-memory fleet repository seeded with the
// given taxis. Registration order is preserved for List.
func NewInMemoryRepository(seed []Taxi) *InMemoryRepository {
	r := &InMemoryRepository{
		taxis: make(map[string]*Taxi, len(seed)),
	}
	for _, t := range seed {
		cpy := t
		r.order = append(r.order, t.ID)
		r.taxis[t.ID] = &cpy
	}
	return r
}

// List returns all registered taxis in registration order.
func (r *InMemoryRepository) List(_ context.Context) ([]Taxi, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	taxis := make([]Taxi, 0, len(r.order))
	for _, id := range r.order {
		taxis = append(taxis, *r.taxis[id])
	}
	return taxis, nil
}

// Acquire locks a registered taxi. The check-and-set runs under the write
// lock so concurrent confirms on the same taxi cannot both succeed.
func (r *InMemoryRepository) Acquire(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.taxis[id]
	if !ok {
		return nil
	}
	if !t.Available {
		return ErrTaxiUnavailable
	}
	t.Available = false
	return nil
}

// Release unlocks a registered taxi.
func (r *InMemoryRepository) Release(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.taxis[id]; ok {
		t.Available = true
	}
	return nil
}

// ResetAll marks every registered taxi available.
func (r *InMemoryRepository) ResetAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.taxis {
		t.Available = true
	}
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
