package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateScale is the number of fractional digits every stored rate is quantized to.
const RateScale = 8

// ExchangeRate is the conversion rate between two currencies for a specific calendar date.
type ExchangeRate struct {
	ExchangeRateID    string          `json:"exchangeRateID"`
	AsOf              time.Time       `json:"asOf"` // calendar date, not a timestamp
	BaseCurrencyCode  string          `json:"baseCurrencyCode"`
	QuoteCurrencyCode string          `json:"quoteCurrencyCode"`
	Rate              decimal.Decimal `json:"rate"`
	DataSource        string          `json:"dataSource"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// Inverse computes the reciprocal rate, quantized to RateScale fractional digits.
func (r ExchangeRate) Inverse() decimal.Decimal {
	return decimal.NewFromInt(1).DivRound(r.Rate, RateScale)
}

// CurrencyPair is a distinct (base, quote) combination observed in the rate store.
// It is derived from stored rows and never persisted itself.
type CurrencyPair struct {
	BaseCurrencyCode  string `json:"baseCurrencyCode"`
	QuoteCurrencyCode string `json:"quoteCurrencyCode"`
}

// SortOrder controls the as-of ordering of historical rate listings.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// HistoricalQuery captures every filter of a historical rate listing explicitly,
// replacing dynamic query-builder chaining with a single value object.
type HistoricalQuery struct {
	BaseCurrencyCode  string
	QuoteCurrencyCode string
	StartDate         time.Time
	EndDate           time.Time
	Limit             int
	Offset            int
	SortOrder         SortOrder
}

// CreateRateParams are the inputs for persisting one fetched rate; the store
// derives and writes the inverse pair alongside it.
type CreateRateParams struct {
	AsOf              time.Time
	BaseCurrencyCode  string
	QuoteCurrencyCode string
	Rate              decimal.Decimal
	Source            string
}
