package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPortRepository implements the ports.PortRepository interface using pgxpool.
type PgxPortRepository struct {
	db *pgxpool.Pool
}

// NewPortRepository creates a new PgxPortRepository.
func NewPortRepository(db *pgxpool.Pool) *PgxPortRepository {
	return &PgxPortRepository{db: db}
}

// PortExists reports whether the code names a known port.
func (r *PgxPortRepository) PortExists(ctx context.Context, code string) (bool, error) {
	var found bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM ports WHERE LOWER(code) = $1)`, code).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("error checking port existence: %w", err)
	}
	return found, nil
}
