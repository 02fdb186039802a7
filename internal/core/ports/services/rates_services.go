package services

import (
	"context"

	"github.com/seafreight/ocean_rates_api/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RatesSvcFacade exposes the rates query operations to the HTTP layer.
type RatesSvcFacade interface {
	// GetAverageRate computes the window-level average price for the query:
	// the mean of the per-day averages that meet the minimum sample size,
	// rounded to the price precision. The result is null when no day in the
	// window meets the floor.
	GetAverageRate(ctx context.Context, q domain.RateQuery) (decimal.NullDecimal, error)

	// ListDailyRates returns the per-day average series for the query, one
	// entry per calendar day in the window.
	ListDailyRates(ctx context.Context, q domain.RateQuery) ([]domain.DailyRate, error)
}

// ServiceContainer holds the service facades handed to route registration.
type ServiceContainer struct {
	Rates RatesSvcFacade
}
