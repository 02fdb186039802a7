package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxRegionRepository implements the ports.RegionRepository interface using pgxpool.
type PgxRegionRepository struct {
	db *pgxpool.Pool
}

// NewRegionRepository creates a new PgxRegionRepository.
func NewRegionRepository(db *pgxpool.Pool) *PgxRegionRepository {
	return &PgxRegionRepository{db: db}
}

// RegionExists reports whether the slug names a known region.
func (r *PgxRegionRepository) RegionExists(ctx context.Context, slug string) (bool, error) {
	var found bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM regions WHERE LOWER(slug) = $1)`, slug).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("error checking region existence: %w", err)
	}
	return found, nil
}

// ListChildSlugs returns the slugs of the immediate children of the region.
func (r *PgxRegionRepository) ListChildSlugs(ctx context.Context, slug string) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT slug FROM regions WHERE parent_slug = $1`, slug)
	if err != nil {
		return nil, fmt.Errorf("error listing child regions: %w", err)
	}
	defer rows.Close()

	slugs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("error scanning child regions: %w", err)
	}
	return slugs, nil
}
