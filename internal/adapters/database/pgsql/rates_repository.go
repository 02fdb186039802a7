package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/seafreight/ocean_rates_api/internal/core/domain"
)

// PgxRatesRepository implements the ports.RatesRepository interface using pgxpool.
type PgxRatesRepository struct {
	db *pgxpool.Pool
}

// NewRatesRepository creates a new PgxRatesRepository.
func NewRatesRepository(db *pgxpool.Pool) *PgxRatesRepository {
	return &PgxRatesRepository{db: db}
}

// ListDailyAverages runs the single aggregation query behind both rates
// endpoints. The calendar table (alldates) restricted to the window is
// outer-joined against the route-filtered prices, so a day with no
// observations still produces a row with a zero count. Days with fewer than
// minSamples observations report a null average; the rest report
// AVG(price) rounded to the price precision.
func (r *PgxRatesRepository) ListDailyAverages(ctx context.Context, origin, destination domain.RouteEndpoint, dateFrom, dateTo time.Time, minSamples int) ([]domain.DailyRate, error) {
	args := []any{dateFrom, dateTo, minSamples}

	originClause, args := routeFilterClause(originSide, origin, args)
	destinationClause, args := routeFilterClause(destinationSide, destination, args)

	query := fmt.Sprintf(`
		SELECT
			d.day,
			CASE
				WHEN COUNT(rt.price) < $3 THEN NULL
				ELSE ROUND(AVG(rt.price), %d)
			END AS average_price
		FROM alldates d
			LEFT OUTER JOIN (
				SELECT p.day, p.price
				FROM prices p
					LEFT OUTER JOIN ports orig_port ON p.orig_code = orig_port.code
					LEFT OUTER JOIN ports dest_port ON p.dest_code = dest_port.code
				WHERE %s AND %s
			) rt ON rt.day = d.day
		WHERE
			d.day >= $1 AND
			d.day <= $2
		GROUP BY d.day
		ORDER BY d.day
	`, domain.PricePrecision, originClause, destinationClause)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying daily averages: %w", err)
	}
	defer rows.Close()

	daily, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.DailyRate, error) {
		var d domain.DailyRate
		err := row.Scan(&d.Day, &d.AveragePrice)
		return d, err
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning daily averages: %w", err)
	}
	return daily, nil
}

// routeSide selects which columns a route filter applies to.
type routeSide struct {
	codeColumn string
	portAlias  string
}

var (
	originSide      = routeSide{codeColumn: "p.orig_code", portAlias: "orig_port"}
	destinationSide = routeSide{codeColumn: "p.dest_code", portAlias: "dest_port"}
)

// routeFilterClause renders the WHERE fragment for one side of the route and
// appends its bind value to args. A region endpoint matches any port whose
// parent region is in the expanded slug set; a code endpoint matches the
// price row's own code, case-insensitively.
func routeFilterClause(side routeSide, endpoint domain.RouteEndpoint, args []any) (string, []any) {
	if endpoint.IsRegion() {
		args = append(args, endpoint.Regions)
		return fmt.Sprintf("%s.parent_slug = ANY($%d)", side.portAlias, len(args)), args
	}
	args = append(args, endpoint.Code)
	return fmt.Sprintf("LOWER(%s) = $%d", side.codeColumn, len(args)), args
}
