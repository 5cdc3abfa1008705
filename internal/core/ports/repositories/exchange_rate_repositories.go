package repositories

import (
	"context"
	"time"

	"github.com/exchangehouse/exchange_house_app/internal/core/domain"
)

// ExchangeRateReader defines read operations over stored exchange rates.
type ExchangeRateReader interface {
	// DistinctDates returns every date with at least one stored rate, ascending.
	DistinctDates(ctx context.Context) ([]time.Time, error)

	// DistinctPairs returns every (base, quote) combination observed, ordered
	// lexically. Pairs referencing an unrecognized currency code are skipped.
	DistinctPairs(ctx context.Context) ([]domain.CurrencyPair, error)

	// LatestRate returns the most recent rate with as_of <= asOf for the exact
	// (base, quote) ordering. A same-currency pair yields a synthesized rate of 1.
	// Absence is reported as apperrors.ErrNotFound.
	LatestRate(ctx context.Context, baseCode, quoteCode string, asOf time.Time) (*domain.ExchangeRate, error)

	// HistoricalRates returns rows matching the query plus the total match
	// count before limit/offset were applied.
	HistoricalRates(ctx context.Context, q domain.HistoricalQuery) ([]domain.ExchangeRate, int, error)
}

// ExchangeRateWriter defines write operations over stored exchange rates.
type ExchangeRateWriter interface {
	// BulkUpsert writes multiple rows. A duplicate (as_of, base, quote) triple
	// fails with apperrors.ErrDuplicate rather than being silently ignored.
	BulkUpsert(ctx context.Context, rates []domain.ExchangeRate) error

	// CreateRatePair writes the forward row and its derived inverse atomically.
	// A same-currency pair is a no-op returning an empty slice.
	CreateRatePair(ctx context.Context, params domain.CreateRateParams) ([]domain.ExchangeRate, error)
}

// ExchangeRateRepositoryFacade combines all exchange rate repository interfaces.
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}
