package services

import (
	"context"
	"time"

	"github.com/exchangehouse/exchange_house_app/internal/core/domain"
	"github.com/exchangehouse/exchange_house_app/internal/dto"
)

// ExchangeRateQuerySvc defines the read-side projections served over HTTP.
type ExchangeRateQuerySvc interface {
	// GetAvailableDates lists every date with stored rate data, ascending.
	GetAvailableDates(ctx context.Context) ([]time.Time, error)

	// GetCurrencyPairs lists every distinct currency pair observed in storage.
	GetCurrencyPairs(ctx context.Context) ([]domain.CurrencyPair, error)

	// GetLatestRate returns the most recent rate at or before asOf.
	// A nil asOf defaults to today.
	GetLatestRate(ctx context.Context, baseCode, quoteCode string, asOf *time.Time) (*domain.ExchangeRate, error)

	// GetHistoricalRates validates the query shape, then returns the matching
	// rows and the total match count before pagination.
	GetHistoricalRates(ctx context.Context, baseCode, quoteCode string, q dto.HistoricalRatesQuery) ([]domain.ExchangeRate, int, error)
}

// RefreshSvc brings the rate store up to date for a window of dates.
type RefreshSvc interface {
	// Refresh runs the full pipeline (fetch, persist, notify, check in) and
	// never raises past its own boundary.
	Refresh(ctx context.Context, window domain.RefreshWindow) domain.TaskResult
}

// RateProvider fetches a full rate snapshot for one calendar date from the
// upstream vendor.
type RateProvider interface {
	HistoricalRatesFor(ctx context.Context, date time.Time) (*domain.RateSnapshot, error)
}
