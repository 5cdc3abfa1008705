package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/exchangehouse/exchange_house_app/internal/core/domain"
	portsrepo "github.com/exchangehouse/exchange_house_app/internal/core/ports/repositories"
	portssvc "github.com/exchangehouse/exchange_house_app/internal/core/ports/services"
	"github.com/exchangehouse/exchange_house_app/internal/dto"
	"github.com/exchangehouse/exchange_house_app/internal/utils/currencies"
)

// rateSource labels every row written by the refresh pipeline.
const rateSource = "openexchangerates.org"

// RefreshService fills gaps in the rate store from the upstream provider. One
// run covers one window of calendar dates; dates already present are skipped,
// which makes re-runs after partial failures safe.
type RefreshService struct {
	rateRepo          portsrepo.ExchangeRateRepositoryFacade
	provider          portssvc.RateProvider
	notifier          portssvc.RefreshNotifierSvc
	healthcheck       portssvc.HealthcheckSvc
	referenceCurrency string
}

// NewRefreshService creates a new RefreshService.
func NewRefreshService(
	rateRepo portsrepo.ExchangeRateRepositoryFacade,
	provider portssvc.RateProvider,
	notifier portssvc.RefreshNotifierSvc,
	healthcheck portssvc.HealthcheckSvc,
	referenceCurrency string,
) *RefreshService {
	return &RefreshService{
		rateRepo:          rateRepo,
		provider:          provider,
		notifier:          notifier,
		healthcheck:       healthcheck,
		referenceCurrency: currencies.Normalize(referenceCurrency),
	}
}

// Refresh runs the full pipeline for the given window and reports the outcome
// as a TaskResult. It never panics and never returns an error; the scheduler
// only ever logs what it is handed.
func (s *RefreshService) Refresh(ctx context.Context, window domain.RefreshWindow) domain.TaskResult {
	logger := slog.Default()

	missing, err := s.missingDates(ctx, window)
	if err != nil {
		logger.ErrorContext(ctx, "refresh: failed to compute missing dates", "error", err)
		return domain.FailureResult(fmt.Sprintf("failed to compute missing dates: %v", err))
	}

	if len(missing) == 0 {
		logger.InfoContext(ctx, "refresh: store already up to date",
			"window_start", window.StartDate.Format(dto.DateOnly),
			"window_end", window.EndDate.Format(dto.DateOnly))
	}

	created := 0
	for _, date := range missing {
		n, err := s.refreshDate(ctx, date)
		if err != nil {
			logger.ErrorContext(ctx, "refresh: aborting run",
				"date", date.Format(dto.DateOnly), "error", err)
			return domain.FailureResult(fmt.Sprintf("refresh failed on %s: %v", date.Format(dto.DateOnly), err))
		}
		created += n
		logger.InfoContext(ctx, "refresh: date persisted",
			"date", date.Format(dto.DateOnly), "rates_created", n)
	}

	var warnings []string

	if err := s.notifier.SendRefreshSummary(ctx); err != nil {
		logger.WarnContext(ctx, "refresh: summary notification failed", "error", err)
		warnings = append(warnings, fmt.Sprintf("summary notification failed: %v", err))
	}

	if err := s.healthcheck.Ping(ctx, portssvc.HealthcheckRefreshCompleted); err != nil {
		if errors.Is(err, portssvc.ErrNoURLConfigured) {
			logger.WarnContext(ctx, "refresh: refresh-completed check-in skipped, no URL configured")
		} else {
			logger.WarnContext(ctx, "refresh: refresh-completed check-in failed", "error", err)
		}
		warnings = append(warnings, fmt.Sprintf("refresh-completed check-in failed: %v", err))
	}

	if len(warnings) > 0 {
		return domain.WarningResult(fmt.Sprintf("refreshed %d dates with warnings: %s",
			len(missing), strings.Join(warnings, "; ")))
	}

	logger.InfoContext(ctx, "refresh: run complete",
		"dates_refreshed", len(missing), "rates_created", created)
	return domain.SuccessResult()
}

// missingDates returns the window's dates with no stored data, ascending.
func (s *RefreshService) missingDates(ctx context.Context, window domain.RefreshWindow) ([]time.Time, error) {
	stored, err := s.rateRepo.DistinctDates(ctx)
	if err != nil {
		return nil, err
	}

	have := make(map[time.Time]struct{}, len(stored))
	for _, d := range stored {
		have[domain.Midnight(d)] = struct{}{}
	}

	var missing []time.Time
	for _, d := range window.Dates() {
		if _, ok := have[d]; !ok {
			missing = append(missing, d)
		}
	}
	return missing, nil
}

// refreshDate fetches one date's snapshot and persists a forward and inverse
// row per quote currency. Returns the number of rows created.
func (s *RefreshService) refreshDate(ctx context.Context, date time.Time) (int, error) {
	snapshot, err := s.provider.HistoricalRatesFor(ctx, date)
	if err != nil {
		return 0, err
	}

	base := currencies.Normalize(snapshot.Base)
	if base == "" {
		base = s.referenceCurrency
	}

	created := 0
	for code, value := range snapshot.Rates {
		quote := currencies.Normalize(code)
		if quote == base {
			continue
		}
		rows, err := s.rateRepo.CreateRatePair(ctx, domain.CreateRateParams{
			AsOf:              date,
			BaseCurrencyCode:  base,
			QuoteCurrencyCode: quote,
			Rate:              decimal.NewFromFloat(value),
			Source:            rateSource,
		})
		if err != nil {
			return created, err
		}
		created += len(rows)
	}
	return created, nil
}
