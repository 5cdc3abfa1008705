package dto

import (
	"time"

	"github.com/exchangehouse/exchange_house_app/internal/core/domain"
	"github.com/exchangehouse/exchange_house_app/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// DateOnly is the wire format for calendar dates.
const DateOnly = "2006-01-02"

// HistoricalRatesQuery binds the query parameters of the historical endpoint.
// Zero values mean "apply the documented default".
type HistoricalRatesQuery struct {
	StartDate string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	Size      int    `form:"size" binding:"omitempty,min=1,max=1000"`
	Order     string `form:"order" binding:"omitempty,oneof=asc desc"`
}

// LatestRateQuery binds the query parameters of the latest-rate endpoint.
// A nil DesiredDate means "as of today".
type LatestRateQuery struct {
	DesiredDate *time.Time `form:"desired_date" time_format:"2006-01-02" time_utc:"1"`
}

// DateListResponse carries the available-dates listing.
type DateListResponse struct {
	Data []string `json:"data"`
}

// ToDateListResponse formats dates as ISO calendar dates.
func ToDateListResponse(dates []time.Time) DateListResponse {
	data := make([]string, len(dates))
	for i, d := range dates {
		data[i] = d.Format(DateOnly)
	}
	return DateListResponse{Data: data}
}

// CurrencyPairResponse is one distinct (base, quote) combination.
type CurrencyPairResponse struct {
	BaseCurrencyCode  string `json:"base_currency_code"`
	QuoteCurrencyCode string `json:"quote_currency_code"`
}

// ToCurrencyPairResponses converts observed pairs for the API surface.
func ToCurrencyPairResponses(pairs []domain.CurrencyPair) []CurrencyPairResponse {
	responses := make([]CurrencyPairResponse, len(pairs))
	for i, p := range pairs {
		responses[i] = CurrencyPairResponse{
			BaseCurrencyCode:  p.BaseCurrencyCode,
			QuoteCurrencyCode: p.QuoteCurrencyCode,
		}
	}
	return responses
}

// LatestRateResponse is the latest-rate endpoint payload.
type LatestRateResponse struct {
	BaseCurrencyCode  string          `json:"base_currency_code"`
	QuoteCurrencyCode string          `json:"quote_currency_code"`
	Rate              decimal.Decimal `json:"rate"`
	Date              string          `json:"date"`
}

// ToLatestRateResponse converts a domain rate for the API surface.
func ToLatestRateResponse(rate *domain.ExchangeRate) LatestRateResponse {
	return LatestRateResponse{
		BaseCurrencyCode:  rate.BaseCurrencyCode,
		QuoteCurrencyCode: rate.QuoteCurrencyCode,
		Rate:              rate.Rate,
		Date:              rate.AsOf.Format(DateOnly),
	}
}

// ExchangeRateData is one (rate, date) point of a historical series.
type ExchangeRateData struct {
	Rate decimal.Decimal `json:"rate"`
	Date string          `json:"date"`
}

// HistoricalRatesResponse is the paginated historical series payload.
type HistoricalRatesResponse struct {
	BaseCurrencyCode  string             `json:"base_currency_code"`
	QuoteCurrencyCode string             `json:"quote_currency_code"`
	Data              []ExchangeRateData `json:"data"`
	Total             int                `json:"total"`
	Page              int                `json:"page"`
	Size              int                `json:"size"`
	Pages             int                `json:"pages"`
}

// ToHistoricalRatesResponse assembles the paginated response, deriving the
// page count from the pre-pagination total.
func ToHistoricalRatesResponse(baseCode, quoteCode string, rates []domain.ExchangeRate, total, page, size int) HistoricalRatesResponse {
	data := make([]ExchangeRateData, len(rates))
	for i, r := range rates {
		data[i] = ExchangeRateData{Rate: r.Rate, Date: r.AsOf.Format(DateOnly)}
	}
	return HistoricalRatesResponse{
		BaseCurrencyCode:  baseCode,
		QuoteCurrencyCode: quoteCode,
		Data:              data,
		Total:             total,
		Page:              page,
		Size:              size,
		Pages:             pagination.Pages(total, size),
	}
}
