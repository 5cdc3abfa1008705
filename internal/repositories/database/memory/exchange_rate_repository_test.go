package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/exchangehouse/exchange_house_app/internal/apperrors"
	"github.com/exchangehouse/exchange_house_app/internal/core/domain"
	"github.com/exchangehouse/exchange_house_app/internal/repositories/database/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ExchangeRateRepositoryTestSuite struct {
	suite.Suite
	repo *memory.ExchangeRateRepository
}

func (suite *ExchangeRateRepositoryTestSuite) SetupTest() {
	suite.repo = memory.NewExchangeRateRepository()
}

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func (suite *ExchangeRateRepositoryTestSuite) seed(asOf, base, quote, rate string) {
	ctx := context.Background()
	value, err := decimal.NewFromString(rate)
	suite.Require().NoError(err)
	_, err = suite.repo.CreateRatePair(ctx, domain.CreateRateParams{
		AsOf:              day(asOf),
		BaseCurrencyCode:  base,
		QuoteCurrencyCode: quote,
		Rate:              value,
		Source:            "openexchangerates.org",
	})
	suite.Require().NoError(err)
}

func (suite *ExchangeRateRepositoryTestSuite) TestLatestRateSameCurrencyIsOne() {
	ctx := context.Background()
	suite.seed("2025-01-02", "USD", "EUR", "0.92")

	rate, err := suite.repo.LatestRate(ctx, "USD", "USD", day("2025-01-03"))

	suite.Require().NoError(err)
	suite.True(rate.Rate.Equal(decimal.NewFromInt(1)))
	suite.Equal(day("2025-01-03"), rate.AsOf)
}

func (suite *ExchangeRateRepositoryTestSuite) TestCreateRatePairRoundTrip() {
	ctx := context.Background()
	suite.seed("2025-01-02", "USD", "SGD", "1.35")

	forward, err := suite.repo.LatestRate(ctx, "USD", "SGD", day("2025-01-02"))
	suite.Require().NoError(err)
	suite.True(forward.Rate.Equal(decimal.RequireFromString("1.35")))

	inverse, err := suite.repo.LatestRate(ctx, "SGD", "USD", day("2025-01-02"))
	suite.Require().NoError(err)
	expected := decimal.NewFromInt(1).DivRound(decimal.RequireFromString("1.35"), 8)
	suite.True(inverse.Rate.Equal(expected), "got %s want %s", inverse.Rate, expected)
}

func (suite *ExchangeRateRepositoryTestSuite) TestCreateRatePairSameCurrencyNoOp() {
	ctx := context.Background()
	created, err := suite.repo.CreateRatePair(ctx, domain.CreateRateParams{
		AsOf:              day("2025-01-02"),
		BaseCurrencyCode:  "USD",
		QuoteCurrencyCode: "USD",
		Rate:              decimal.NewFromInt(1),
		Source:            "openexchangerates.org",
	})
	suite.Require().NoError(err)
	suite.Empty(created)

	dates, err := suite.repo.DistinctDates(ctx)
	suite.Require().NoError(err)
	suite.Empty(dates)
}

func (suite *ExchangeRateRepositoryTestSuite) TestCreateRatePairRejectsNonPositiveRate() {
	ctx := context.Background()

	for _, rate := range []string{"0", "-0.5"} {
		_, err := suite.repo.CreateRatePair(ctx, domain.CreateRateParams{
			AsOf:              day("2025-01-02"),
			BaseCurrencyCode:  "USD",
			QuoteCurrencyCode: "XXX",
			Rate:              decimal.RequireFromString(rate),
			Source:            "openexchangerates.org",
		})
		suite.Require().Error(err)
		suite.ErrorIs(err, apperrors.ErrValidation)
		suite.Contains(err.Error(), "USD to XXX on 2025-01-02 must be positive")
	}

	dates, err := suite.repo.DistinctDates(ctx)
	suite.Require().NoError(err)
	suite.Empty(dates)
}

func (suite *ExchangeRateRepositoryTestSuite) TestDuplicateTripleFails() {
	ctx := context.Background()
	suite.seed("2025-01-02", "USD", "EUR", "0.92")

	_, err := suite.repo.CreateRatePair(ctx, domain.CreateRateParams{
		AsOf:              day("2025-01-02"),
		BaseCurrencyCode:  "USD",
		QuoteCurrencyCode: "EUR",
		Rate:              decimal.RequireFromString("0.93"),
		Source:            "openexchangerates.org",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *ExchangeRateRepositoryTestSuite) TestLatestRatePicksMostRecentAtOrBefore() {
	ctx := context.Background()
	suite.seed("2025-01-02", "USD", "EUR", "0.92")
	suite.seed("2025-01-05", "USD", "EUR", "0.95")

	rate, err := suite.repo.LatestRate(ctx, "USD", "EUR", day("2025-01-04"))
	suite.Require().NoError(err)
	suite.Equal(day("2025-01-02"), rate.AsOf)

	_, err = suite.repo.LatestRate(ctx, "USD", "EUR", day("2025-01-01"))
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ExchangeRateRepositoryTestSuite) TestHistoricalRatesBoundsTotalAndOrder() {
	ctx := context.Background()
	suite.seed("2025-01-01", "USD", "EUR", "0.91")
	suite.seed("2025-01-02", "USD", "EUR", "0.92")
	suite.seed("2025-01-03", "USD", "EUR", "0.93")
	suite.seed("2025-01-04", "USD", "EUR", "0.94")

	rows, total, err := suite.repo.HistoricalRates(ctx, domain.HistoricalQuery{
		BaseCurrencyCode:  "USD",
		QuoteCurrencyCode: "EUR",
		StartDate:         day("2025-01-02"),
		EndDate:           day("2025-01-03"),
		Limit:             1,
		SortOrder:         domain.SortDesc,
	})

	suite.Require().NoError(err)
	suite.Equal(2, total)
	suite.Require().Len(rows, 1)
	suite.Equal(day("2025-01-03"), rows[0].AsOf)

	rows, _, err = suite.repo.HistoricalRates(ctx, domain.HistoricalQuery{
		BaseCurrencyCode:  "USD",
		QuoteCurrencyCode: "EUR",
		StartDate:         day("2025-01-01"),
		EndDate:           day("2025-01-04"),
		Limit:             10,
		SortOrder:         domain.SortAsc,
	})
	suite.Require().NoError(err)
	suite.Require().Len(rows, 4)
	for i := 1; i < len(rows); i++ {
		suite.False(rows[i].AsOf.Before(rows[i-1].AsOf))
	}
}

func (suite *ExchangeRateRepositoryTestSuite) TestHistoricalRatesOffsetBeyondTotal() {
	ctx := context.Background()
	suite.seed("2025-01-01", "USD", "EUR", "0.91")

	rows, total, err := suite.repo.HistoricalRates(ctx, domain.HistoricalQuery{
		BaseCurrencyCode:  "USD",
		QuoteCurrencyCode: "EUR",
		StartDate:         day("2025-01-01"),
		EndDate:           day("2025-01-01"),
		Limit:             10,
		Offset:            100,
		SortOrder:         domain.SortAsc,
	})

	suite.Require().NoError(err)
	suite.Equal(1, total)
	suite.Empty(rows)
}

func (suite *ExchangeRateRepositoryTestSuite) TestHistoricalRatesInvertedRange() {
	ctx := context.Background()

	_, _, err := suite.repo.HistoricalRates(ctx, domain.HistoricalQuery{
		BaseCurrencyCode:  "USD",
		QuoteCurrencyCode: "EUR",
		StartDate:         day("2024-12-31"),
		EndDate:           day("2023-03-15"),
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "start_date must be before or equal to end_date")
}

func (suite *ExchangeRateRepositoryTestSuite) TestDistinctDatesAndPairs() {
	ctx := context.Background()
	suite.seed("2025-01-03", "USD", "EUR", "0.92")
	suite.seed("2025-01-01", "USD", "SGD", "1.35")

	dates, err := suite.repo.DistinctDates(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(dates, 2)
	suite.Equal(day("2025-01-01"), dates[0])
	suite.Equal(day("2025-01-03"), dates[1])

	pairs, err := suite.repo.DistinctPairs(ctx)
	suite.Require().NoError(err)
	suite.Equal([]domain.CurrencyPair{
		{BaseCurrencyCode: "EUR", QuoteCurrencyCode: "USD"},
		{BaseCurrencyCode: "SGD", QuoteCurrencyCode: "USD"},
		{BaseCurrencyCode: "USD", QuoteCurrencyCode: "EUR"},
		{BaseCurrencyCode: "USD", QuoteCurrencyCode: "SGD"},
	}, pairs)
}

func (suite *ExchangeRateRepositoryTestSuite) TestDistinctPairsSkipsUnrecognizedCodes() {
	ctx := context.Background()
	suite.seed("2025-01-01", "USD", "EUR", "0.92")

	err := suite.repo.BulkUpsert(ctx, []domain.ExchangeRate{{
		ExchangeRateID:    "manual",
		AsOf:              day("2025-01-01"),
		BaseCurrencyCode:  "USD",
		QuoteCurrencyCode: "ZZZ",
		Rate:              decimal.NewFromInt(2),
		DataSource:        "manual",
	}})
	suite.Require().NoError(err)

	pairs, err := suite.repo.DistinctPairs(ctx)
	suite.Require().NoError(err)
	for _, pair := range pairs {
		suite.NotEqual("ZZZ", pair.QuoteCurrencyCode)
	}
}

func TestExchangeRateRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(ExchangeRateRepositoryTestSuite))
}
