package services

import (
	portsrepo "github.com/exchangehouse/exchange_house_app/internal/core/ports/repositories"
	portssvc "github.com/exchangehouse/exchange_house_app/internal/core/ports/services"
	"github.com/exchangehouse/exchange_house_app/internal/platform/config"
)

// NewServiceContainer wires the service layer from repositories, the upstream
// provider and the health-check pinger.
func NewServiceContainer(
	repoProvider *portsrepo.RepositoryProvider,
	provider portssvc.RateProvider,
	healthcheck portssvc.HealthcheckSvc,
	cfg *config.Config,
) *portssvc.ServiceContainer {
	rateRepo := repoProvider.ExchangeRateRepo
	notifier := NewNotificationService(rateRepo, cfg)

	return &portssvc.ServiceContainer{
		ExchangeRate: NewExchangeRateService(rateRepo, cfg.ReferenceCurrency),
		Refresh:      NewRefreshService(rateRepo, provider, notifier, healthcheck, cfg.ReferenceCurrency),
		Healthcheck:  healthcheck,
		Notifier:     notifier,
	}
}
