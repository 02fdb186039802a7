package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/seafreight/ocean_rates_api/internal/apperrors"
	"github.com/seafreight/ocean_rates_api/internal/core/domain"
	portssvc "github.com/seafreight/ocean_rates_api/internal/core/ports/services"
	"github.com/seafreight/ocean_rates_api/internal/dto"
	"github.com/seafreight/ocean_rates_api/internal/middleware"
	"github.com/seafreight/ocean_rates_api/internal/platform/config"
	"github.com/seafreight/ocean_rates_api/internal/platform/logging"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// ratesHandler handles HTTP requests for averaged shipping rates.
type ratesHandler struct {
	ratesService portssvc.RatesSvcFacade
}

// newRatesHandler creates a new ratesHandler.
func newRatesHandler(rs portssvc.RatesSvcFacade) *ratesHandler {
	return &ratesHandler{
		ratesService: rs,
	}
}

// registerRatesRoutes registers the rates routes with per-IP rate limiting.
func registerRatesRoutes(r *gin.Engine, cfg *config.Config, ratesService portssvc.RatesSvcFacade) {
	h := newRatesHandler(ratesService)

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		// Misconfigured limit should not take the service down
		rate, _ = limiter.NewRateFromFormatted("120-M")
	}
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)

	rates := r.Group("/rates", middleware.RateLimit(ipLimiter))
	{
		rates.GET("", h.getAverageRate)
		rates.GET("/daily", h.listDailyRates)
	}
}

// getAverageRate godoc
// @Summary Get the average rate for a route over a date window
// @Description Computes the mean of the daily average prices between origin and destination across [date_from, date_to]. Days with too few observations are excluded; average_price is null when no day qualifies.
// @Tags rates
// @Produce json
// @Param origin query string true "Origin port code or region slug"
// @Param destination query string true "Destination port code or region slug"
// @Param date_from query string true "Window start (YYYY-MM-DD)"
// @Param date_to query string true "Window end (YYYY-MM-DD)"
// @Success 200 {object} dto.AverageRateResponse
// @Failure 400 {object} map[string]string "Missing, malformed or out-of-range parameter"
// @Failure 500 {object} map[string]string "Failed to retrieve rates"
// @Router /rates [get]
func (h *ratesHandler) getAverageRate(c *gin.Context) {
	logger := logging.FromCtx(c.Request.Context())

	q, ok := h.bindRateQuery(c)
	if !ok {
		return
	}

	average, err := h.ratesService.GetAverageRate(c.Request.Context(), q)
	if err != nil {
		respondRatesError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.AverageRateResponse{AveragePrice: average})
}

// listDailyRates godoc
// @Summary List per-day average rates for a route
// @Description Returns one entry per calendar day in [date_from, date_to], with average_price null on days that have fewer observations than the minimum sample size.
// @Tags rates
// @Produce json
// @Param origin query string true "Origin port code or region slug"
// @Param destination query string true "Destination port code or region slug"
// @Param date_from query string true "Window start (YYYY-MM-DD)"
// @Param date_to query string true "Window end (YYYY-MM-DD)"
// @Success 200 {array} dto.DailyRateResponse
// @Failure 400 {object} map[string]string "Missing, malformed or out-of-range parameter"
// @Failure 500 {object} map[string]string "Failed to retrieve rates"
// @Router /rates/daily [get]
func (h *ratesHandler) listDailyRates(c *gin.Context) {
	logger := logging.FromCtx(c.Request.Context())

	q, ok := h.bindRateQuery(c)
	if !ok {
		return
	}

	daily, err := h.ratesService.ListDailyRates(c.Request.Context(), q)
	if err != nil {
		respondRatesError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDailyRateResponses(daily))
}

// bindRateQuery binds and parses the shared query parameters. On failure it
// writes a 400 naming the offending parameter and returns ok=false.
func (h *ratesHandler) bindRateQuery(c *gin.Context) (domain.RateQuery, bool) {
	var req dto.GetRatesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, dto.ToParamErrors(verrs))
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		}
		return domain.RateQuery{}, false
	}

	// The datetime binding tag already vets the format; parsing here cannot
	// fail unless the tag and layout drift apart.
	dateFrom, err := time.Parse(dto.DateLayout, req.DateFrom)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"date_from": "must be a valid date in YYYY-MM-DD format"})
		return domain.RateQuery{}, false
	}
	dateTo, err := time.Parse(dto.DateLayout, req.DateTo)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"date_to": "must be a valid date in YYYY-MM-DD format"})
		return domain.RateQuery{}, false
	}

	return domain.RateQuery{
		Origin:      req.Origin,
		Destination: req.Destination,
		DateFrom:    dateFrom,
		DateTo:      dateTo,
	}, true
}

// respondRatesError maps service errors onto HTTP responses. Validation
// failures surface as 400 naming the parameter; everything else is a generic
// 500 with the cause logged server-side only.
func respondRatesError(c *gin.Context, logger *slog.Logger, err error) {
	var fieldErr *apperrors.FieldError
	switch {
	case errors.As(err, &fieldErr):
		logger.Warn("Validation error on rates query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{fieldErr.Field: fieldErr.Message})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error on rates query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("Failed to retrieve rates", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rates"})
	}
}
