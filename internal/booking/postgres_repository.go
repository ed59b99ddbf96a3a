package booking

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository for
// deployments that want bookings to survive restarts.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL booking repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create stores a new booking.
func (r *PostgresRepository) Create(ctx context.Context, b *Booking) error {
	query := `
		INSERT INTO bookings (
			id, taxi_id, pickup_address, drop_address,
			pickup_lat, pickup_lng, drop_lat, drop_lng,
			distance_km, eta_minutes,
			taxi_start_lat, taxi_start_lng, taxi_eta_minutes, taxi_distance_km,
			condition, fare, confirmed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := r.pool.Exec(ctx, query,
		b.ID, b.TaxiID, b.PickupAddress, b.DropAddress,
		b.PickupLat, b.PickupLng, b.DropLat, b.DropLng,
		b.DistanceKm, b.ETAMinutes,
		b.TaxiStartLat, b.TaxiStartLng, b.TaxiETAMinutes, b.TaxiDistanceKm,
		b.Condition, b.Fare, b.ConfirmedAt,
	)
	return err
}

// Get retrieves a booking by id.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Booking, error) {
	query := `
		SELECT id, taxi_id, pickup_address, drop_address,
			pickup_lat, pickup_lng, drop_lat, drop_lng,
			distance_km, eta_minutes,
			taxi_start_lat, taxi_start_lng, taxi_eta_minutes, taxi_distance_km,
			condition, fare, confirmed_at
		FROM bookings
		WHERE id = $1
	`

	var b Booking
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.TaxiID, &b.PickupAddress, &b.DropAddress,
		&b.PickupLat, &b.PickupLng, &b.DropLat, &b.DropLng,
		&b.DistanceKm, &b.ETAMinutes,
		&b.TaxiStartLat, &b.TaxiStartLng, &b.TaxiETAMinutes, &b.TaxiDistanceKm,
		&b.Condition, &b.Fare, &b.ConfirmedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	return &b, nil
}

// Delete removes a booking.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	return err
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
