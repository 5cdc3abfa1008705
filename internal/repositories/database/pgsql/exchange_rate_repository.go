package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/exchangehouse/exchange_house_app/internal/apperrors"
	"github.com/exchangehouse/exchange_house_app/internal/core/domain"
	"github.com/exchangehouse/exchange_house_app/internal/models"
	"github.com/exchangehouse/exchange_house_app/internal/utils/currencies"
	"github.com/exchangehouse/exchange_house_app/internal/utils/mapping"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// uniqueViolation is the PostgreSQL error code for unique constraint failures.
const uniqueViolation = "23505"

const exchangeRateColumns = `
	exchange_rate_id, as_of, base_currency_code, quote_currency_code,
	rate, data_source, created_at, updated_at`

// PgxExchangeRateRepository implements the exchange rate repository facade
// using pgxpool.
type PgxExchangeRateRepository struct {
	BaseRepository
}

// NewPgxExchangeRateRepository creates a new PgxExchangeRateRepository.
func NewPgxExchangeRateRepository(db *pgxpool.Pool) *PgxExchangeRateRepository {
	return &PgxExchangeRateRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// DistinctDates retrieves every date that has at least one stored rate, ascending.
func (r *PgxExchangeRateRepository) DistinctDates(ctx context.Context) ([]time.Time, error) {
	rows, err := r.Pool.Query(ctx, `SELECT DISTINCT as_of FROM exchange_rates ORDER BY as_of ASC;`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list available dates", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan available date", err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating available dates", err)
	}
	return dates, nil
}

// DistinctPairs retrieves every distinct (base, quote) combination, ordered
// lexically. Rows referencing an unrecognized currency code are skipped and
// logged rather than failing the read.
func (r *PgxExchangeRateRepository) DistinctPairs(ctx context.Context) ([]domain.CurrencyPair, error) {
	query := `
		SELECT DISTINCT base_currency_code, quote_currency_code
		FROM exchange_rates
		ORDER BY base_currency_code, quote_currency_code;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list currency pairs", err)
	}
	defer rows.Close()

	var pairs []domain.CurrencyPair
	for rows.Next() {
		var pair domain.CurrencyPair
		if err := rows.Scan(&pair.BaseCurrencyCode, &pair.QuoteCurrencyCode); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan currency pair", err)
		}
		if !currencies.IsValid(pair.BaseCurrencyCode) || !currencies.IsValid(pair.QuoteCurrencyCode) {
			slog.WarnContext(ctx, "Skipping currency pair with unrecognized code",
				slog.String("base", pair.BaseCurrencyCode),
				slog.String("quote", pair.QuoteCurrencyCode),
			)
			continue
		}
		pairs = append(pairs, pair)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating currency pairs", err)
	}
	return pairs, nil
}

// LatestRate retrieves the most recent rate with as_of <= asOf for the exact
// (base, quote) ordering. A same-currency pair synthesizes a rate of 1 without
// touching storage.
func (r *PgxExchangeRateRepository) LatestRate(ctx context.Context, baseCode, quoteCode string, asOf time.Time) (*domain.ExchangeRate, error) {
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

	query := `
		SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE base_currency_code = $1 AND quote_currency_code = $2 AND as_of <= $3
		ORDER BY as_of DESC
		LIMIT 1;
	`
	var m models.ExchangeRate
	err := r.Pool.QueryRow(ctx, query, baseCode, quoteCode, asOf).Scan(
		&m.ExchangeRateID, &m.AsOf, &m.BaseCurrencyCode, &m.QuoteCurrencyCode,
		&m.Rate, &m.DataSource, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("no exchange rate found for " + baseCode + " to " + quoteCode)
		}
		return nil, apperrors.NewAppError(500, "failed to find latest exchange rate", err)
	}

	rate := mapping.ToDomainExchangeRate(m)
	return &rate, nil
}

// HistoricalRates retrieves rows matching the query plus the total match count
// before limit/offset were applied.
func (r *PgxExchangeRateRepository) HistoricalRates(ctx context.Context, q domain.HistoricalQuery) ([]domain.ExchangeRate, int, error) {
	if q.StartDate.After(q.EndDate) {
		return nil, 0, apperrors.NewValidationError("start_date must be before or equal to end_date")
	}

	baseCode := currencies.Normalize(q.BaseCurrencyCode)
	quoteCode := currencies.Normalize(q.QuoteCurrencyCode)

	filter := `
		FROM exchange_rates
		WHERE base_currency_code = $1 AND quote_currency_code = $2
		  AND as_of >= $3 AND as_of <= $4`
	args := []any{baseCode, quoteCode, q.StartDate, q.EndDate}

	var total int
	if err := r.Pool.QueryRow(ctx, "SELECT COUNT(*) "+filter, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to count historical rates", err)
	}
	if total == 0 {
		return []domain.ExchangeRate{}, 0, nil
	}

	order := "ASC"
	if q.SortOrder == domain.SortDesc {
		order = "DESC"
	}
	query := "SELECT " + exchangeRateColumns + filter +
		" ORDER BY as_of " + order +
		" LIMIT $5 OFFSET $6;"
	args = append(args, q.Limit, q.Offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to list historical rates", err)
	}
	defer rows.Close()

	var rates []domain.ExchangeRate
	for rows.Next() {
		var m models.ExchangeRate
		if err := rows.Scan(
			&m.ExchangeRateID, &m.AsOf, &m.BaseCurrencyCode, &m.QuoteCurrencyCode,
			&m.Rate, &m.DataSource, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, 0, apperrors.NewAppError(500, "failed to scan historical rate", err)
		}
		rates = append(rates, mapping.ToDomainExchangeRate(m))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewAppError(500, "error iterating historical rates", err)
	}
	return rates, total, nil
}

// BulkUpsert writes multiple rows in one transaction. A duplicate
// (as_of, base, quote) triple fails the whole batch with ErrDuplicate.
func (r *PgxExchangeRateRepository) BulkUpsert(ctx context.Context, rates []domain.ExchangeRate) error {
	if len(rates) == 0 {
		return nil
	}

	return r.runInTx(ctx, func(tx pgx.Tx) error {
		for _, rate := range rates {
			if err := insertRate(ctx, tx, mapping.ToModelExchangeRate(rate)); err != nil {
				return err
			}
		}
		return nil
	})
}

// CreateRatePair derives the inverse of the given rate and writes both rows as
// one atomic unit; both succeed or neither is persisted. A same-currency pair
// is a no-op.
func (r *PgxExchangeRateRepository) CreateRatePair(ctx context.Context, params domain.CreateRateParams) ([]domain.ExchangeRate, error) {
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

	err := r.runInTx(ctx, func(tx pgx.Tx) error {
		if err := insertRate(ctx, tx, mapping.ToModelExchangeRate(forward)); err != nil {
			return err
		}
		return insertRate(ctx, tx, mapping.ToModelExchangeRate(inverse))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create exchange rate for %s to %s on %s: %w",
			baseCode, quoteCode, asOf.Format("2006-01-02"), err)
	}

	return []domain.ExchangeRate{forward, inverse}, nil
}

func insertRate(ctx context.Context, tx pgx.Tx, m models.ExchangeRate) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO exchange_rates (
			exchange_rate_id, as_of, base_currency_code, quote_currency_code,
			rate, data_source, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		m.ExchangeRateID, m.AsOf, m.BaseCurrencyCode, m.QuoteCurrencyCode,
		m.Rate, m.DataSource, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperrors.NewDuplicateError(fmt.Sprintf("exchange rate %s/%s for %s already exists",
				m.BaseCurrencyCode, m.QuoteCurrencyCode, m.AsOf.Format("2006-01-02")))
		}
		return apperrors.NewAppError(500, "failed to insert exchange rate", err)
	}
	return nil
}
