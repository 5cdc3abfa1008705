package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/exchangehouse/exchange_house_app/internal/core/domain"
	portsrepo "github.com/exchangehouse/exchange_house_app/internal/core/ports/repositories"
	"github.com/exchangehouse/exchange_house_app/internal/dto"
	"github.com/exchangehouse/exchange_house_app/internal/platform/config"
	"github.com/exchangehouse/exchange_house_app/internal/utils/currencies"
)

// sendMailFunc matches smtp.SendMail; swapped out in tests.
type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// NotificationService emails the admin a short summary after each refresh run:
// the latest rate for the configured summary pair and its change against the
// previous observation.
type NotificationService struct {
	rateRepo portsrepo.ExchangeRateReader
	cfg      *config.Config
	sendMail sendMailFunc
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(rateRepo portsrepo.ExchangeRateReader, cfg *config.Config) *NotificationService {
	return &NotificationService{
		rateRepo: rateRepo,
		cfg:      cfg,
		sendMail: smtp.SendMail,
	}
}

// SendRefreshSummary composes and sends the summary email. Outside production,
// or with SMTP unconfigured, it logs and returns nil so refresh runs stay green
// in environments that cannot send mail.
func (s *NotificationService) SendRefreshSummary(ctx context.Context) error {
	logger := slog.Default()

	if !s.cfg.IsProduction {
		logger.InfoContext(ctx, "notification: skipping summary email outside production")
		return nil
	}
	if !s.cfg.EmailConfigured() {
		logger.WarnContext(ctx, "notification: skipping summary email, SMTP not configured")
		return nil
	}

	base := currencies.Normalize(s.cfg.SummaryBase)
	quote := currencies.Normalize(s.cfg.SummaryQuote)

	rates, _, err := s.rateRepo.HistoricalRates(ctx, domain.HistoricalQuery{
		BaseCurrencyCode:  base,
		QuoteCurrencyCode: quote,
		StartDate:         domain.Midnight(time.Now()).AddDate(0, 0, -30),
		EndDate:           domain.Midnight(time.Now()),
		Limit:             2,
		Offset:            0,
		SortOrder:         domain.SortDesc,
	})
	if err != nil {
		return fmt.Errorf("failed to load summary rates: %w", err)
	}
	if len(rates) == 0 {
		return fmt.Errorf("no stored rates for summary pair %s/%s", base, quote)
	}

	latest := rates[0]
	subject := fmt.Sprintf("[ExchangeHouse] Exchange rates for %s", latest.AsOf.Format(dto.DateOnly))

	var body strings.Builder
	fmt.Fprintf(&body, "1 %s = %s %s as of %s.\n",
		base, latest.Rate.StringFixed(4), quote, latest.AsOf.Format(dto.DateOnly))
	if len(rates) > 1 && !rates[1].Rate.IsZero() {
		previous := rates[1]
		change := latest.Rate.Sub(previous.Rate).
			Div(previous.Rate).
			Mul(decimal.NewFromInt(100)).
			Round(4)
		fmt.Fprintf(&body, "Change since %s: %s%%.\n",
			previous.AsOf.Format(dto.DateOnly), change.String())
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.cfg.SMTPUsername, s.cfg.AdminEmail, subject, body.String())

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPServer, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPServer)
	if err := s.sendMail(addr, auth, s.cfg.SMTPUsername, []string{s.cfg.AdminEmail}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send summary email: %w", err)
	}

	logger.InfoContext(ctx, "notification: summary email sent", "to", s.cfg.AdminEmail, "subject", subject)
	return nil
}
