package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/seafreight/ocean_rates_api/internal/apperrors"
	"github.com/seafreight/ocean_rates_api/internal/core/domain"
	ports "github.com/seafreight/ocean_rates_api/internal/core/ports/repositories"
	"github.com/seafreight/ocean_rates_api/internal/platform/logging"
	"github.com/shopspring/decimal"
)

// RatesService provides the business logic for the rates endpoints:
// parameter validation, origin/destination resolution and the window-level
// averaging on top of the per-day series.
type RatesService struct {
	ratesRepo     ports.RatesRepository
	regionRepo    ports.RegionRepository
	portRepo      ports.PortRepository
	minSampleSize int
	queryTimeout  time.Duration
}

// NewRatesService creates a new RatesService.
func NewRatesService(ratesRepo ports.RatesRepository, regionRepo ports.RegionRepository, portRepo ports.PortRepository, minSampleSize int, queryTimeout time.Duration) *RatesService {
	return &RatesService{
		ratesRepo:     ratesRepo,
		regionRepo:    regionRepo,
		portRepo:      portRepo,
		minSampleSize: minSampleSize,
		queryTimeout:  queryTimeout,
	}
}

// ListDailyRates returns one DailyRate per calendar day in the query window,
// in date order. Days below the minimum sample size carry a null average.
func (s *RatesService) ListDailyRates(ctx context.Context, q domain.RateQuery) ([]domain.DailyRate, error) {
	if err := validateWindow(q); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	origin, err := s.resolveEndpoint(ctx, "origin", q.Origin)
	if err != nil {
		return nil, err
	}
	destination, err := s.resolveEndpoint(ctx, "destination", q.Destination)
	if err != nil {
		return nil, err
	}

	daily, err := s.ratesRepo.ListDailyAverages(ctx, origin, destination, q.DateFrom, q.DateTo, s.minSampleSize)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: daily averages query timed out after %s", apperrors.ErrDataStore, s.queryTimeout)
		}
		return nil, fmt.Errorf("%w: %s", apperrors.ErrDataStore, err)
	}
	return daily, nil
}

// GetAverageRate computes the window-level average: the arithmetic mean of
// the per-day averages that survived the minimum sample size, rounded to the
// price precision. A null result means no day in the window had enough
// observations, which is distinct from an average of zero.
func (s *RatesService) GetAverageRate(ctx context.Context, q domain.RateQuery) (decimal.NullDecimal, error) {
	daily, err := s.ListDailyRates(ctx, q)
	if err != nil {
		return decimal.NullDecimal{}, err
	}

	sum := decimal.Zero
	count := int64(0)
	for _, d := range daily {
		if !d.AveragePrice.Valid {
			continue
		}
		sum = sum.Add(d.AveragePrice.Decimal)
		count++
	}
	if count == 0 {
		return decimal.NullDecimal{}, nil
	}

	mean := sum.Div(decimal.NewFromInt(count)).Round(domain.PricePrecision)
	return decimal.NullDecimal{Decimal: mean, Valid: true}, nil
}

// validateWindow enforces date ordering and the supported calendar range.
// Dates outside the calendar are rejected, not clamped.
func validateWindow(q domain.RateQuery) error {
	if q.DateTo.Before(q.DateFrom) {
		return apperrors.NewFieldError("date_to", "date_to cannot be before date_from")
	}
	if q.DateFrom.Before(domain.CalendarStart) || q.DateFrom.After(domain.CalendarEnd) {
		return apperrors.NewFieldError("date_from", "date must be between 1900-01-01 and 2099-12-31")
	}
	if q.DateTo.Before(domain.CalendarStart) || q.DateTo.After(domain.CalendarEnd) {
		return apperrors.NewFieldError("date_to", "date must be between 1900-01-01 and 2099-12-31")
	}
	return nil
}

// resolveEndpoint normalizes one side of the route and decides how it
// filters prices. A known region slug expands to every region it transitively
// contains; anything else is treated as a port code. An unrecognized code
// matches zero observations and yields a null average rather than an error.
func (s *RatesService) resolveEndpoint(ctx context.Context, field, raw string) (domain.RouteEndpoint, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return domain.RouteEndpoint{}, apperrors.NewFieldError(field, "this field is required and cannot be blank")
	}

	isRegion, err := s.regionRepo.RegionExists(ctx, value)
	if err != nil {
		return domain.RouteEndpoint{}, fmt.Errorf("%w: %s", apperrors.ErrDataStore, err)
	}
	if isRegion {
		slugs, err := s.expandRegion(ctx, value)
		if err != nil {
			return domain.RouteEndpoint{}, fmt.Errorf("%w: %s", apperrors.ErrDataStore, err)
		}
		return domain.RouteEndpoint{Regions: slugs}, nil
	}

	known, err := s.portRepo.PortExists(ctx, value)
	if err != nil {
		return domain.RouteEndpoint{}, fmt.Errorf("%w: %s", apperrors.ErrDataStore, err)
	}
	if !known {
		logging.FromCtx(ctx).Info("Unknown origin/destination code, result will be empty",
			slog.String("field", field), slog.String("value", value))
	}
	return domain.RouteEndpoint{Code: value}, nil
}

// expandRegion walks the region hierarchy breadth-first, returning the region
// itself plus every region transitively contained in it.
func (s *RatesService) expandRegion(ctx context.Context, slug string) ([]string, error) {
	regions := []string{slug}
	for next := 0; next < len(regions); next++ {
		children, err := s.regionRepo.ListChildSlugs(ctx, regions[next])
		if err != nil {
			return nil, err
		}
		regions = append(regions, children...)
	}
	return regions, nil
}
