package dto

import (
	"github.com/go-playground/validator/v10"
	"github.com/seafreight/ocean_rates_api/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for all date parameters.
const DateLayout = "2006-01-02"

func init() {
	// average_price must serialize as a JSON number, not a quoted string
	decimal.MarshalJSONWithoutQuotes = true
}

// GetRatesRequest defines the query parameters accepted by the rates endpoints.
type GetRatesRequest struct {
	Origin      string `form:"origin" binding:"required"`
	Destination string `form:"destination" binding:"required"`
	DateFrom    string `form:"date_from" binding:"required,datetime=2006-01-02"`
	DateTo      string `form:"date_to" binding:"required,datetime=2006-01-02"`
}

// AverageRateResponse is the body of a successful GET /rates call.
// AveragePrice serializes as null when the window has no day meeting the
// minimum sample size.
type AverageRateResponse struct {
	AveragePrice decimal.NullDecimal `json:"average_price"`
}

// DailyRateResponse is one element of a successful GET /rates/daily call.
type DailyRateResponse struct {
	Day          string              `json:"day"`
	AveragePrice decimal.NullDecimal `json:"average_price"`
}

// ToDailyRateResponses converts the domain day series to response DTOs.
func ToDailyRateResponses(days []domain.DailyRate) []DailyRateResponse {
	responses := make([]DailyRateResponse, len(days))
	for i, d := range days {
		responses[i] = DailyRateResponse{
			Day:          d.Day.Format(DateLayout),
			AveragePrice: d.AveragePrice,
		}
	}
	return responses
}

// queryParamNames maps struct fields of GetRatesRequest back to the query
// parameter names used on the wire.
var queryParamNames = map[string]string{
	"Origin":      "origin",
	"Destination": "destination",
	"DateFrom":    "date_from",
	"DateTo":      "date_to",
}

// ToParamErrors shapes binding validation failures into a body keyed by the
// offending query parameter, e.g. {"date_from": "... YYYY-MM-DD ..."}.
func ToParamErrors(verrs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name, ok := queryParamNames[fe.Field()]
		if !ok {
			name = fe.Field()
		}
		switch fe.Tag() {
		case "required":
			out[name] = "this field is required and cannot be blank"
		case "datetime":
			out[name] = "must be a valid date in YYYY-MM-DD format"
		default:
			out[name] = "is invalid"
		}
	}
	return out
}
