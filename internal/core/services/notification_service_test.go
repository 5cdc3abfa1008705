package services

import (
	"context"
	"net/smtp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/exchangehouse/exchange_house_app/internal/core/domain"
	"github.com/exchangehouse/exchange_house_app/internal/platform/config"
	"github.com/exchangehouse/exchange_house_app/internal/repositories/database/memory"
)

type NotificationServiceTestSuite struct {
	suite.Suite
	ctx  context.Context
	repo *memory.ExchangeRateRepository
	cfg  *config.Config
	sent []string
	svc  *NotificationService
}

func (s *NotificationServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = memory.NewExchangeRateRepository()
	s.cfg = &config.Config{
		IsProduction: true,
		SMTPServer:   "smtp.example.com",
		SMTPPort:     587,
		SMTPUsername: "rates@example.com",
		SMTPPassword: "secret",
		AdminEmail:   "admin@example.com",
		SummaryBase:  "SGD",
		SummaryQuote: "USD",
	}
	s.sent = nil
	s.svc = NewNotificationService(s.repo, s.cfg)
	s.svc.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		s.sent = append(s.sent, string(msg))
		return nil
	}
}

func (s *NotificationServiceTestSuite) seed(asOf time.Time, rate string) {
	_, err := s.repo.CreateRatePair(s.ctx, domain.CreateRateParams{
		AsOf:              asOf,
		BaseCurrencyCode:  "SGD",
		QuoteCurrencyCode: "USD",
		Rate:              decimal.RequireFromString(rate),
		Source:            "test",
	})
	s.Require().NoError(err)
}

func (s *NotificationServiceTestSuite) TestSkipsOutsideProduction() {
	s.cfg.IsProduction = false
	s.Require().NoError(s.svc.SendRefreshSummary(s.ctx))
	s.Empty(s.sent)
}

func (s *NotificationServiceTestSuite) TestSkipsWhenSMTPUnconfigured() {
	s.cfg.SMTPServer = ""
	s.Require().NoError(s.svc.SendRefreshSummary(s.ctx))
	s.Empty(s.sent)
}

func (s *NotificationServiceTestSuite) TestErrorsWithNoStoredRates() {
	err := s.svc.SendRefreshSummary(s.ctx)
	s.Require().Error(err)
	s.Contains(err.Error(), "SGD/USD")
	s.Empty(s.sent)
}

func (s *NotificationServiceTestSuite) TestSendsSummaryWithChange() {
	today := domain.Midnight(time.Now())
	s.seed(today.AddDate(0, 0, -2), "0.74")
	s.seed(today.AddDate(0, 0, -1), "0.76")

	s.Require().NoError(s.svc.SendRefreshSummary(s.ctx))
	s.Require().Len(s.sent, 1)

	msg := s.sent[0]
	s.Contains(msg, "[ExchangeHouse] Exchange rates for "+today.AddDate(0, 0, -1).Format("2006-01-02"))
	s.Contains(msg, "To: admin@example.com")
	s.Contains(msg, "1 SGD = 0.7600 USD")
	s.Contains(msg, "Change since "+today.AddDate(0, 0, -2).Format("2006-01-02"))
}

func TestNotificationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(NotificationServiceTestSuite))
}
