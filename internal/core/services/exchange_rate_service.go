package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/exchangehouse/exchange_house_app/internal/apperrors"
	"github.com/exchangehouse/exchange_house_app/internal/core/domain"
	portsrepo "github.com/exchangehouse/exchange_house_app/internal/core/ports/repositories"
	"github.com/exchangehouse/exchange_house_app/internal/dto"
	"github.com/exchangehouse/exchange_house_app/internal/utils/currencies"
	"github.com/exchangehouse/exchange_house_app/internal/utils/pagination"
)

// defaultHistoryDays is the default historical window: ten years, counted in
// whole days so the window is stable across leap years.
const defaultHistoryDays = 3653

// ExchangeRateService serves the read-side projections over the rate store.
// It owns request-shape validation; storage semantics stay in the repository.
type ExchangeRateService struct {
	rateRepo          portsrepo.ExchangeRateRepositoryFacade
	referenceCurrency string
}

// NewExchangeRateService creates a new ExchangeRateService. referenceCurrency
// is the only currency the refresh pipeline ever stores pairs against, so
// queries for pairs not involving it are rejected up front.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepositoryFacade, referenceCurrency string) *ExchangeRateService {
	return &ExchangeRateService{
		rateRepo:          rateRepo,
		referenceCurrency: currencies.Normalize(referenceCurrency),
	}
}

// GetAvailableDates lists every date with stored rate data, ascending.
func (s *ExchangeRateService) GetAvailableDates(ctx context.Context) ([]time.Time, error) {
	dates, err := s.rateRepo.DistinctDates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get available dates: %w", err)
	}
	if dates == nil {
		dates = []time.Time{}
	}
	return dates, nil
}

// GetCurrencyPairs lists every distinct currency pair observed in storage.
func (s *ExchangeRateService) GetCurrencyPairs(ctx context.Context) ([]domain.CurrencyPair, error) {
	pairs, err := s.rateRepo.DistinctPairs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get currency pairs: %w", err)
	}
	if pairs == nil {
		pairs = []domain.CurrencyPair{}
	}
	return pairs, nil
}

// GetLatestRate returns the most recent rate at or before asOf (today when nil).
func (s *ExchangeRateService) GetLatestRate(ctx context.Context, baseCode, quoteCode string, asOf *time.Time) (*domain.ExchangeRate, error) {
	baseCode = currencies.Normalize(baseCode)
	quoteCode = currencies.Normalize(quoteCode)

	if err := s.validatePair(baseCode, quoteCode); err != nil {
		return nil, err
	}

	effective := domain.Midnight(time.Now())
	if asOf != nil {
		effective = domain.Midnight(*asOf)
	}

	rate, err := s.rateRepo.LatestRate(ctx, baseCode, quoteCode, effective)
	if err != nil {
		return nil, err
	}
	return rate, nil
}

// GetHistoricalRates validates the query shape, applies documented defaults and
// returns the matching rows plus the pre-pagination total.
func (s *ExchangeRateService) GetHistoricalRates(ctx context.Context, baseCode, quoteCode string, q dto.HistoricalRatesQuery) ([]domain.ExchangeRate, int, error) {
	baseCode = currencies.Normalize(baseCode)
	quoteCode = currencies.Normalize(quoteCode)

	today := domain.Midnight(time.Now())

	endDate := today
	if q.EndDate != "" {
		parsed, err := time.Parse(dto.DateOnly, q.EndDate)
		if err != nil {
			return nil, 0, apperrors.NewValidationError("end_date must be a valid ISO date")
		}
		endDate = parsed
	}

	startDate := endDate.AddDate(0, 0, -defaultHistoryDays)
	if q.StartDate != "" {
		parsed, err := time.Parse(dto.DateOnly, q.StartDate)
		if err != nil {
			return nil, 0, apperrors.NewValidationError("start_date must be a valid ISO date")
		}
		startDate = parsed
	}

	var violations []string
	violations = append(violations, s.pairViolations(baseCode, quoteCode)...)
	if startDate.After(today) {
		violations = append(violations, "start_date must be before or equal to today")
	}
	if endDate.After(today) {
		violations = append(violations, "end_date must be before or equal to today")
	}
	if startDate.After(endDate) {
		violations = append(violations, "start_date must be before or equal to end_date")
	}
	if len(violations) > 0 {
		return nil, 0, apperrors.NewValidationError(strings.Join(violations, "; "))
	}

	page := q.Page
	if page == 0 {
		page = pagination.DefaultPage
	}
	size := q.Size
	if size == 0 {
		size = pagination.DefaultSize
	}

	sortOrder := domain.SortDesc
	if q.Order == string(domain.SortAsc) {
		sortOrder = domain.SortAsc
	}

	rates, total, err := s.rateRepo.HistoricalRates(ctx, domain.HistoricalQuery{
		BaseCurrencyCode:  baseCode,
		QuoteCurrencyCode: quoteCode,
		StartDate:         startDate,
		EndDate:           endDate,
		Limit:             size,
		Offset:            pagination.Offset(page, size),
		SortOrder:         sortOrder,
	})
	if err != nil {
		return nil, 0, err
	}
	return rates, total, nil
}

// validatePair wraps pairViolations into a single validation error.
func (s *ExchangeRateService) validatePair(baseCode, quoteCode string) error {
	if violations := s.pairViolations(baseCode, quoteCode); len(violations) > 0 {
		return apperrors.NewValidationError(strings.Join(violations, "; "))
	}
	return nil
}

// pairViolations collects every violated currency rule rather than stopping at
// the first, so callers can surface them together.
func (s *ExchangeRateService) pairViolations(baseCode, quoteCode string) []string {
	var violations []string
	if !currencies.IsValid(baseCode) {
		violations = append(violations, fmt.Sprintf("base currency code %q is not a recognized currency", baseCode))
	}
	if !currencies.IsValid(quoteCode) {
		violations = append(violations, fmt.Sprintf("quote currency code %q is not a recognized currency", quoteCode))
	}
	if baseCode != quoteCode && baseCode != s.referenceCurrency && quoteCode != s.referenceCurrency {
		violations = append(violations, "At least one currency must be "+s.referenceCurrency)
	}
	return violations
}
