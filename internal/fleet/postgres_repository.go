package fleet

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository for
// deployments that want fleet state to survive restarts.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL fleet repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// List returns all registered taxis in registration order.
func (r *PostgresRepository) List(ctx context.Context) ([]Taxi, error) {
	query := `
		SELECT id, lat, lng, available
		FROM taxis
		ORDER BY registered_at ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var taxis []Taxi
	for rows.Next() {
		var t Taxi
		if err := rows.Scan(&t.ID, &t.Lat, &t.Lng, &t.Available); err != nil {
			return nil, err
		}
		taxis = append(taxis, t)
	}

	return taxis, rows.Err()
}

// Acquire locks a registered taxi. The conditional UPDATE makes the
// check-and-set atomic; a concurrent confirm on the same taxi affects zero
// rows and fails.
func (r *PostgresRepository) Acquire(ctx context.Context, id string) error {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM taxis WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		// Simulated or otherwise unknown id: nothing to lock.
		return nil
	}

	result, err := r.pool.Exec(ctx,
		`UPDATE taxis SET available = FALSE WHERE id = $1 AND available`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrTaxiUnavailable
	}
	return nil
}

// Release unlocks a registered taxi. Unknown ids affect zero rows.
func (r *PostgresRepository) Release(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE taxis SET available = TRUE WHERE id = $1`, id)
	return err
}

// ResetAll marks every registered taxi available.
func (r *PostgresRepository) ResetAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `UPDATE taxis SET available = TRUE`)
	return err
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
