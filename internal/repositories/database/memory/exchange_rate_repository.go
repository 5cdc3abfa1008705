// Package memory holds an in-memory exchange rate repository with the same
// semantics as the pgx implementation. It backs service tests and local runs
// without a database.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/exchangehouse/exchange_house_app/internal/apperrors"
	"github.com/exchangehouse/exchange_house_app/internal/core/domain"
	"github.com/exchangehouse/exchange_house_app/internal/utils/currencies"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type tripleKey struct {
	asOf  string
	base  string
	quote string
}

// ExchangeRateRepository is a mutex-guarded in-memory rate store.
type ExchangeRateRepository struct {
	mu    sync.RWMutex
	rates map[tripleKey]domain.ExchangeRate
}

// NewExchangeRateRepository creates an empty in-memory rate store.
func NewExchangeRateRepository() *ExchangeRateRepository {
	return &ExchangeRateRepository{
		rates: make(map[tripleKey]domain.ExchangeRate),
	}
}

func keyOf(asOf time.Time, base, quote string) tripleKey {
	return tripleKey{
		asOf:  domain.Midnight(asOf).Format("2006-01-02"),
		base:  base,
		quote: quote,
	}
}

// DistinctDates returns every date with at least one stored rate, ascending.
func (r *ExchangeRateRepository) DistinctDates(_ context.Context) ([]time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]time.Time)
	for _, rate := range r.rates {
		seen[rate.AsOf.Format("2006-01-02")] = rate.AsOf
	}
	dates := make([]time.Time, 0, len(seen))
	for _, d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// DistinctPairs returns every distinct (base, quote) combination, ordered
// lexically, skipping pairs with unrecognized currency codes.
func (r *ExchangeRateRepository) DistinctPairs(ctx context.Context) ([]domain.CurrencyPair, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[domain.CurrencyPair]struct{})
	for _, rate := range r.rates {
		seen[domain.CurrencyPair{
			BaseCurrencyCode:  rate.BaseCurrencyCode,
			QuoteCurrencyCode: rate.QuoteCurrencyCode,
		}] = struct{}{}
	}
	pairs := make([]domain.CurrencyPair, 0, len(seen))
	for pair := range seen {
		if !currencies.IsValid(pair.BaseCurrencyCode) || !currencies.IsValid(pair.QuoteCurrencyCode) {
			slog.WarnContext(ctx, "Skipping currency pair with unrecognized code",
				slog.String("base", pair.BaseCurrencyCode),
				slog.String("quote", pair.QuoteCurrencyCode),
			)
			continue
		}
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].BaseCurrencyCode != pairs[j].BaseCurrencyCode {
			return pairs[i].BaseCurrencyCode < pairs[j].BaseCurrencyCode
		}
		return pairs[i].QuoteCurrencyCode < pairs[j].QuoteCurrencyCode
	})
	return pairs, nil
}

// LatestRate returns the most recent rate with as_of <= asOf; a same-currency
// pair synthesizes a rate of exactly 1.
func (r *ExchangeRateRepository) LatestRate(_ context.Context, baseCode, quoteCode string, asOf time.Time) (*domain.ExchangeRate, error) {
	baseCode = currencies.Normalize(baseCode)
	quoteCode = currencies.Normalize(quoteCode)

	if baseCode == quoteCode {
		return &domain.ExchangeRate{
			AsOf:              domain.Midnight(asOf),
			BaseCurrencyCode:  baseCode,
			QuoteCurrencyCode: quoteCode,
			Rate:              decimal.New(1, 0),
		}, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var best *domain.ExchangeRate
	for _, rate := range r.rates {
		if rate.BaseCurrencyCode != baseCode || rate.QuoteCurrencyCode != quoteCode {
			continue
		}
		if rate.AsOf.After(asOf) {
			continue
		}
		if best == nil || rate.AsOf.After(best.AsOf) {
			found := rate
			best = &found
		}
	}
	if best == nil {
		return nil, apperrors.NewNotFoundError("no exchange rate found for " + baseCode + " to " + quoteCode)
	}
	return best, nil
}

// HistoricalRates returns rows matching the query plus the total match count
// before limit/offset were applied.
func (r *ExchangeRateRepository) HistoricalRates(_ context.Context, q domain.HistoricalQuery) ([]domain.ExchangeRate, int, error) {
	if q.StartDate.After(q.EndDate) {
		return nil, 0, apperrors.NewValidationError("start_date must be before or equal to end_date")
	}

	baseCode := currencies.Normalize(q.BaseCurrencyCode)
	quoteCode := currencies.Normalize(q.QuoteCurrencyCode)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []domain.ExchangeRate
	for _, rate := range r.rates {
		if rate.BaseCurrencyCode != baseCode || rate.QuoteCurrencyCode != quoteCode {
			continue
		}
		if rate.AsOf.Before(q.StartDate) || rate.AsOf.After(q.EndDate) {
			continue
		}
		matched = append(matched, rate)
	}

	sort.Slice(matched, func(i, j int) bool {
		if q.SortOrder == domain.SortDesc {
			return matched[i].AsOf.After(matched[j].AsOf)
		}
		return matched[i].AsOf.Before(matched[j].AsOf)
	})

	total := len(matched)
	if q.Offset >= total {
		return []domain.ExchangeRate{}, total, nil
	}
	matched = matched[q.Offset:]
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, total, nil
}

// BulkUpsert writes multiple rows; a duplicate triple fails the whole batch.
func (r *ExchangeRateRepository) BulkUpsert(_ context.Context, rates []domain.ExchangeRate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	inserted := make([]tripleKey, 0, len(rates))
	for _, rate := range rates {
		key := keyOf(rate.AsOf, rate.BaseCurrencyCode, rate.QuoteCurrencyCode)
		if _, exists := r.rates[key]; exists {
			for _, k := range inserted {
				delete(r.rates, k)
			}
			return apperrors.NewDuplicateError(fmt.Sprintf("exchange rate %s/%s for %s already exists",
				rate.BaseCurrencyCode, rate.QuoteCurrencyCode, key.asOf))
		}
		r.rates[key] = rate
		inserted = append(inserted, key)
	}
	return nil
}

// CreateRatePair writes a forward rate and its quantized inverse atomically.
func (r *ExchangeRateRepository) CreateRatePair(ctx context.Context, params domain.CreateRateParams) ([]domain.ExchangeRate, error) {
	baseCode := currencies.Normalize(params.BaseCurrencyCode)
	quoteCode := currencies.Normalize(params.QuoteCurrencyCode)

	if baseCode == quoteCode {
		return []domain.ExchangeRate{}, nil
	}

	asOf := domain.Midnight(params.AsOf)
	// A non-positive rate has no valid inverse and violates the rate > 0 invariant.
	if params.Rate.Sign() <= 0 {
		return nil, apperrors.NewValidationError(fmt.Sprintf("exchange rate for %s to %s on %s must be positive, got %s",
			baseCode, quoteCode, asOf.Format("2006-01-02"), params.Rate))
	}

	now := time.Now().UTC()
	forward := domain.ExchangeRate{
		ExchangeRateID:    uuid.NewString(),
		AsOf:              asOf,
		BaseCurrencyCode:  baseCode,
		QuoteCurrencyCode: quoteCode,
		Rate:              params.Rate.Round(domain.RateScale),
		DataSource:        params.Source,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	inverse := domain.ExchangeRate{
		ExchangeRateID:    uuid.NewString(),
		AsOf:              asOf,
		BaseCurrencyCode:  quoteCode,
		QuoteCurrencyCode: baseCode,
		Rate:              forward.Inverse(),
		DataSource:        params.Source,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := r.BulkUpsert(ctx, []domain.ExchangeRate{forward, inverse}); err != nil {
		return nil, fmt.Errorf("failed to create exchange rate for %s to %s on %s: %w",
			baseCode, quoteCode, asOf.Format("2006-01-02"), err)
	}
	return []domain.ExchangeRate{forward, inverse}, nil
}
