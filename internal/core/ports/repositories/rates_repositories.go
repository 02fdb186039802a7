package repositories

import (
	"context"
	"time"

	"github.com/seafreight/ocean_rates_api/internal/core/domain"
)

// RatesRepository provides read access to aggregated price observations.
type RatesRepository interface {
	// ListDailyAverages returns one DailyRate per calendar day in
	// [dateFrom, dateTo] inclusive, in date order. Days with fewer than
	// minSamples observations for the route carry a null average.
	ListDailyAverages(ctx context.Context, origin, destination domain.RouteEndpoint, dateFrom, dateTo time.Time, minSamples int) ([]domain.DailyRate, error)
}

// RegionRepository provides read access to the region hierarchy.
type RegionRepository interface {
	// RegionExists reports whether slug names a known region (case-insensitive).
	RegionExists(ctx context.Context, slug string) (bool, error)
	// ListChildSlugs returns the slugs of the immediate children of the region.
	ListChildSlugs(ctx context.Context, slug string) ([]string, error)
}

// PortRepository provides read access to the ports table.
type PortRepository interface {
	// PortExists reports whether code names a known port (case-insensitive).
	PortExists(ctx context.Context, code string) (bool, error)
}
