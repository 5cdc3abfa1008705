package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/exchangehouse/exchange_house_app/internal/apperrors"
	portssvc "github.com/exchangehouse/exchange_house_app/internal/core/ports/services"
	"github.com/exchangehouse/exchange_house_app/internal/dto"
	"github.com/exchangehouse/exchange_house_app/internal/middleware"
	"github.com/exchangehouse/exchange_house_app/internal/utils/currencies"
	"github.com/exchangehouse/exchange_house_app/internal/utils/pagination"
	"github.com/gin-gonic/gin"
)

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateQuerySvc
}

// newExchangeRateHandler creates a new exchangeRateHandler.
func newExchangeRateHandler(ers portssvc.ExchangeRateQuerySvc) *exchangeRateHandler {
	return &exchangeRateHandler{
		exchangeRateService: ers,
	}
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, exchangeRateService portssvc.ExchangeRateQuerySvc) {
	h := newExchangeRateHandler(exchangeRateService)

	exchangeRates := rg.Group("/exchange_rates")
	{
		exchangeRates.GET("/available_dates", h.getAvailableDates)
		exchangeRates.GET("/available_currency_pairs", h.getAvailableCurrencyPairs)
		exchangeRates.GET("/:base/:quote/latest", h.getLatestRate)
		exchangeRates.GET("/:base/:quote/historical", h.getHistoricalRates)
	}
}

// getAvailableDates godoc
// @Summary List dates with stored exchange rates
// @Description Returns every date that has at least one stored rate, ascending
// @Tags exchange rates
// @Produce  json
// @Success 200 {object} dto.DateListResponse
// @Failure 500 {object} map[string]string "Failed to list available dates"
// @Router /exchange_rates/available_dates [get]
func (h *exchangeRateHandler) getAvailableDates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	dates, err := h.exchangeRateService.GetAvailableDates(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list available dates", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list available dates"})
		return
	}

	c.JSON(http.StatusOK, dto.ToDateListResponse(dates))
}

// getAvailableCurrencyPairs godoc
// @Summary List available currency pairs
// @Description Returns every distinct (base, quote) combination with stored rates
// @Tags exchange rates
// @Produce  json
// @Success 200 {array} dto.CurrencyPairResponse
// @Failure 500 {object} map[string]string "Failed to list currency pairs"
// @Router /exchange_rates/available_currency_pairs [get]
func (h *exchangeRateHandler) getAvailableCurrencyPairs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	pairs, err := h.exchangeRateService.GetCurrencyPairs(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list currency pairs", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list currency pairs"})
		return
	}

	c.JSON(http.StatusOK, dto.ToCurrencyPairResponses(pairs))
}

// getLatestRate godoc
// @Summary Get the latest exchange rate for a pair
// @Description Returns the most recent stored rate at or before the desired date (today when omitted)
// @Tags exchange rates
// @Produce  json
// @Param   base  path  string true  "Base currency code (3 letters)" MinLength(3) MaxLength(3)
// @Param   quote path  string true  "Quote currency code (3 letters)" MinLength(3) MaxLength(3)
// @Param   desired_date query string false "Upper bound date (YYYY-MM-DD)"
// @Success 200 {object} dto.LatestRateResponse
// @Failure 404 {object} map[string]string "No rate stored for the pair"
// @Failure 422 {object} map[string]string "Validation error"
// @Failure 500 {object} map[string]string "Failed to retrieve exchange rate"
// @Router /exchange_rates/{base}/{quote}/latest [get]
func (h *exchangeRateHandler) getLatestRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var path dto.RatePairPath
	if err := c.ShouldBindUri(&path); err != nil {
		logger.Warn("Failed to bind currency pair path", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Currency codes must be recognized 3-letter codes"})
		return
	}
	baseCode, quoteCode := path.Base, path.Quote

	var q dto.LatestRateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		logger.Warn("Failed to bind latest rate query", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "desired_date must be formatted YYYY-MM-DD"})
		return
	}

	logger = logger.With(slog.String("base", baseCode), slog.String("quote", quoteCode))

	rate, err := h.exchangeRateService.GetLatestRate(c.Request.Context(), baseCode, quoteCode, q.DesiredDate)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error getting latest rate", slog.String("error", err.Error()))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Exchange rate not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Exchange rate not found"})
		default:
			logger.Error("Failed to get latest rate", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve exchange rate"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToLatestRateResponse(rate))
}

// getHistoricalRates godoc
// @Summary Get a paginated historical rate series for a pair
// @Description Returns stored rates between start_date and end_date inclusive, newest first by default
// @Tags exchange rates
// @Produce  json
// @Param   base  path  string true  "Base currency code (3 letters)" MinLength(3) MaxLength(3)
// @Param   quote path  string true  "Quote currency code (3 letters)" MinLength(3) MaxLength(3)
// @Param   start_date query string false "Range start (YYYY-MM-DD), default ten years before end_date"
// @Param   end_date   query string false "Range end (YYYY-MM-DD), default today"
// @Param   page  query int    false "Page number, starting at 1"
// @Param   size  query int    false "Page size, max 1000"
// @Param   order query string false "Sort order: asc or desc"
// @Success 200 {object} dto.HistoricalRatesResponse
// @Failure 422 {object} map[string]string "Validation error"
// @Failure 500 {object} map[string]string "Failed to retrieve exchange rates"
// @Router /exchange_rates/{base}/{quote}/historical [get]
func (h *exchangeRateHandler) getHistoricalRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var path dto.RatePairPath
	if err := c.ShouldBindUri(&path); err != nil {
		logger.Warn("Failed to bind currency pair path", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Currency codes must be recognized 3-letter codes"})
		return
	}
	baseCode, quoteCode := path.Base, path.Quote

	var q dto.HistoricalRatesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		logger.Warn("Failed to bind historical rates query", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	if q.Page == 0 {
		q.Page = pagination.DefaultPage
	}
	if q.Size == 0 {
		q.Size = pagination.DefaultSize
	}

	logger = logger.With(slog.String("base", baseCode), slog.String("quote", quoteCode))

	rates, total, err := h.exchangeRateService.GetHistoricalRates(c.Request.Context(), baseCode, quoteCode, q)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error getting historical rates", slog.String("error", err.Error()))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to get historical rates", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve exchange rates"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToHistoricalRatesResponse(
		currencies.Normalize(baseCode), currencies.Normalize(quoteCode), rates, total, q.Page, q.Size))
}
