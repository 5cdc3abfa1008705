package services

// ServiceContainer bundles every service implementation for handler and
// scheduler wiring.
type ServiceContainer struct {
	ExchangeRate ExchangeRateQuerySvc
	Refresh      RefreshSvc
	Healthcheck  HealthcheckSvc
	Notifier     RefreshNotifierSvc
}
