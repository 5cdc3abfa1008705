package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/exchangehouse/exchange_house_app/internal/core/domain"
	portssvc "github.com/exchangehouse/exchange_house_app/internal/core/ports/services"
	"github.com/exchangehouse/exchange_house_app/internal/integrations/openexchangerates"
	"github.com/exchangehouse/exchange_house_app/internal/repositories/database/memory"
)

type mockRateProvider struct {
	mock.Mock
}

func (m *mockRateProvider) HistoricalRatesFor(ctx context.Context, date time.Time) (*domain.RateSnapshot, error) {
	args := m.Called(ctx, date)
	if snapshot := args.Get(0); snapshot != nil {
		return snapshot.(*domain.RateSnapshot), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendRefreshSummary(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockHealthcheck struct {
	mock.Mock
}

func (m *mockHealthcheck) Ping(ctx context.Context, kind portssvc.HealthcheckKind) error {
	return m.Called(ctx, kind).Error(0)
}

// fixtureCodes is the full currency list the upstream provider publishes,
// reference currency included.
const fixtureCodes = `
AED AFN ALL AMD ANG AOA ARS AUD AWG AZN
BAM BBD BDT BGN BHD BIF BMD BND BOB BRL BSD BTC BTN BWP BYN BZD
CAD CDF CHF CLF CLP CNH CNY COP CRC CUC CUP CVE CZK
DJF DKK DOP DZD
EGP ERN ETB EUR
FJD FKP
GBP GEL GGP GHS GIP GMD GNF GTQ GYD
HKD HNL HRK HTG HUF
IDR ILS IMP INR IQD IRR ISK
JEP JMD JOD JPY
KES KGS KHR KMF KPW KRW KWD KYD KZT
LAK LBP LKR LRD LSL LYD
MAD MDL MGA MKD MMK MNT MOP MRU MUR MVR MWK MXN MYR MZN
NAD NGN NIO NOK NPR NZD
OMR
PAB PEN PGK PHP PKR PLN PYG
QAR
RON RSD RUB RWF
SAR SBD SCR SDG SEK SGD SHP SLL SOS SRD SSP STD STN SVC SYP SZL
THB TJS TMT TND TOP TRY TTD TWD TZS
UAH UGX USD UYU UZS
VES VND VUV
WST
XAF XAG XAU XCD XDR XOF XPD XPF XPT
YER
ZAR ZMW ZWL
`

func fixtureSnapshot(date time.Time) *domain.RateSnapshot {
	rates := make(map[string]float64)
	for i, code := range strings.Fields(fixtureCodes) {
		rates[code] = 1.0 + float64(i)/100
	}
	rates["USD"] = 1.0
	return &domain.RateSnapshot{
		Base:      "USD",
		Timestamp: date.Unix(),
		Rates:     rates,
	}
}

type RefreshServiceTestSuite struct {
	suite.Suite
	ctx         context.Context
	repo        *memory.ExchangeRateRepository
	provider    *mockRateProvider
	notifier    *mockNotifier
	healthcheck *mockHealthcheck
	svc         *RefreshService
	window      domain.RefreshWindow
}

func (s *RefreshServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = memory.NewExchangeRateRepository()
	s.provider = new(mockRateProvider)
	s.notifier = new(mockNotifier)
	s.healthcheck = new(mockHealthcheck)
	s.svc = NewRefreshService(s.repo, s.provider, s.notifier, s.healthcheck, "USD")

	end := domain.Midnight(time.Now()).AddDate(0, 0, -1)
	s.window = domain.RefreshWindow{StartDate: end.AddDate(0, 0, -1), EndDate: end}
}

func (s *RefreshServiceTestSuite) expectSideEffectsOK() {
	s.notifier.On("SendRefreshSummary", mock.Anything).Return(nil)
	s.healthcheck.On("Ping", mock.Anything, portssvc.HealthcheckRefreshCompleted).Return(nil)
}

func (s *RefreshServiceTestSuite) TestRefreshPersistsFullFixture() {
	s.expectSideEffectsOK()
	for _, date := range s.window.Dates() {
		s.provider.On("HistoricalRatesFor", mock.Anything, date).Return(fixtureSnapshot(date), nil).Once()
	}

	result := s.svc.Refresh(s.ctx, s.window)
	s.Equal(domain.TaskSuccess, result.Status)
	s.provider.AssertExpectations(s.T())

	dates, err := s.repo.DistinctDates(s.ctx)
	s.Require().NoError(err)
	s.Len(dates, 2)

	// 169 published currencies minus USD itself, forward plus inverse.
	pairs, err := s.repo.DistinctPairs(s.ctx)
	s.Require().NoError(err)
	s.Len(pairs, 336)

	for _, p := range pairs {
		s.True(p.BaseCurrencyCode == "USD" || p.QuoteCurrencyCode == "USD")
	}
}

func (s *RefreshServiceTestSuite) TestRefreshSkipsStoredDates() {
	s.expectSideEffectsOK()

	first := s.window.Dates()[0]
	second := s.window.Dates()[1]
	_, err := s.repo.CreateRatePair(s.ctx, domain.CreateRateParams{
		AsOf:              first,
		BaseCurrencyCode:  "USD",
		QuoteCurrencyCode: "SGD",
		Rate:              decimal.RequireFromString("1.35"),
		Source:            "test",
	})
	s.Require().NoError(err)

	s.provider.On("HistoricalRatesFor", mock.Anything, second).Return(fixtureSnapshot(second), nil).Once()

	result := s.svc.Refresh(s.ctx, s.window)
	s.Equal(domain.TaskSuccess, result.Status)
	s.provider.AssertExpectations(s.T())
	s.provider.AssertNumberOfCalls(s.T(), "HistoricalRatesFor", 1)
}

func (s *RefreshServiceTestSuite) TestRefreshIdempotentSecondRun() {
	s.expectSideEffectsOK()
	for _, date := range s.window.Dates() {
		s.provider.On("HistoricalRatesFor", mock.Anything, date).Return(fixtureSnapshot(date), nil).Once()
	}

	first := s.svc.Refresh(s.ctx, s.window)
	s.Equal(domain.TaskSuccess, first.Status)

	// every window date is now stored, so the second run fetches nothing
	second := s.svc.Refresh(s.ctx, s.window)
	s.Equal(domain.TaskSuccess, second.Status)
	s.provider.AssertNumberOfCalls(s.T(), "HistoricalRatesFor", 2)
}

func (s *RefreshServiceTestSuite) TestProviderFailureAbortsRun() {
	first := s.window.Dates()[0]
	s.provider.On("HistoricalRatesFor", mock.Anything, first).
		Return(nil, errors.New("open exchange rates: bad request: invalid date: must be in YYYY-MM-DD format")).Once()

	result := s.svc.Refresh(s.ctx, s.window)
	s.Equal(domain.TaskFailure, result.Status)
	s.Contains(result.Message, first.Format("2006-01-02"))
	s.Contains(result.Message, "invalid date")

	dates, err := s.repo.DistinctDates(s.ctx)
	s.Require().NoError(err)
	s.Empty(dates)
	s.notifier.AssertNotCalled(s.T(), "SendRefreshSummary", mock.Anything)
	s.healthcheck.AssertNotCalled(s.T(), "Ping", mock.Anything, mock.Anything)
}

func (s *RefreshServiceTestSuite) TestZeroRateFromProviderFailsRun() {
	first := s.window.Dates()[0]
	snapshot := &domain.RateSnapshot{
		Base:      "USD",
		Timestamp: first.Unix(),
		Rates:     map[string]float64{"XXX": 0, "EUR": 0.92},
	}
	s.provider.On("HistoricalRatesFor", mock.Anything, first).Return(snapshot, nil).Once()

	result := s.svc.Refresh(s.ctx, s.window)
	s.Equal(domain.TaskFailure, result.Status)
	s.Contains(result.Message, first.Format("2006-01-02"))
	s.Contains(result.Message, "must be positive")
	s.notifier.AssertNotCalled(s.T(), "SendRefreshSummary", mock.Anything)
	s.healthcheck.AssertNotCalled(s.T(), "Ping", mock.Anything, mock.Anything)
}

func (s *RefreshServiceTestSuite) TestRateLimitErrorSurfacesInMessage() {
	first := s.window.Dates()[0]
	s.provider.On("HistoricalRatesFor", mock.Anything, first).
		Return(nil, openexchangerates.ErrRequestLimit).Once()

	result := s.svc.Refresh(s.ctx, s.window)
	s.Equal(domain.TaskFailure, result.Status)
	s.Contains(result.Message, "request limit")
}

func (s *RefreshServiceTestSuite) TestNotifierFailureDowngradesToWarning() {
	for _, date := range s.window.Dates() {
		s.provider.On("HistoricalRatesFor", mock.Anything, date).Return(fixtureSnapshot(date), nil).Once()
	}
	s.notifier.On("SendRefreshSummary", mock.Anything).Return(errors.New("smtp: connection refused"))
	s.healthcheck.On("Ping", mock.Anything, portssvc.HealthcheckRefreshCompleted).Return(nil)

	result := s.svc.Refresh(s.ctx, s.window)
	s.Equal(domain.TaskWarning, result.Status)
	s.Contains(result.Message, "summary notification failed")

	// persisted data stays in place despite the warning
	dates, err := s.repo.DistinctDates(s.ctx)
	s.Require().NoError(err)
	s.Len(dates, 2)
}

func (s *RefreshServiceTestSuite) TestMissingCheckinURLDowngradesToWarning() {
	for _, date := range s.window.Dates() {
		s.provider.On("HistoricalRatesFor", mock.Anything, date).Return(fixtureSnapshot(date), nil).Once()
	}
	s.notifier.On("SendRefreshSummary", mock.Anything).Return(nil)
	s.healthcheck.On("Ping", mock.Anything, portssvc.HealthcheckRefreshCompleted).
		Return(portssvc.ErrNoURLConfigured)

	result := s.svc.Refresh(s.ctx, s.window)
	s.Equal(domain.TaskWarning, result.Status)
	s.Contains(result.Message, "check-in failed")
}

func TestRefreshServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RefreshServiceTestSuite))
}
