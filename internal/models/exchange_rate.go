package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is the persistence row shape for the exchange_rates table.
// The (as_of, base_currency_code, quote_currency_code) triple is unique.
type ExchangeRate struct {
	ExchangeRateID    string          `json:"exchangeRateID"`
	AsOf              time.Time       `json:"asOf"`
	BaseCurrencyCode  string          `json:"baseCurrencyCode"`
	QuoteCurrencyCode string          `json:"quoteCurrencyCode"`
	Rate              decimal.Decimal `json:"rate"`
	DataSource        string          `json:"dataSource"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}
