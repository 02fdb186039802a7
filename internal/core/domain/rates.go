package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Calendar bounds of the alldates table. Queries outside this window cannot be
// answered because the day series would be incomplete.
var (
	CalendarStart = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)
	CalendarEnd   = time.Date(2099, time.December, 31, 0, 0, 0, 0, time.UTC)
)

// PricePrecision is the number of decimal places carried by averaged prices.
const PricePrecision = 2

// RateQuery describes one request for averaged rates. Origin and Destination
// are raw user input (port code or region slug); dates are inclusive.
type RateQuery struct {
	Origin      string
	Destination string
	DateFrom    time.Time
	DateTo      time.Time
}

// DailyRate is the average price across all observations for a route on a
// single day. AveragePrice is null when the day has fewer observations than
// the minimum sample size.
type DailyRate struct {
	Day          time.Time
	AveragePrice decimal.NullDecimal
}

// RouteEndpoint is one resolved side of a route filter. Exactly one of Code
// or Regions is set: Code when the input is treated as a port code, Regions
// when the input named a region slug (expanded to the region and everything
// it contains).
type RouteEndpoint struct {
	Code    string
	Regions []string
}

// IsRegion reports whether the endpoint filters by region membership.
func (e RouteEndpoint) IsRegion() bool {
	return len(e.Regions) > 0
}
