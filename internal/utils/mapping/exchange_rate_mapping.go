package mapping

import (
	"github.com/exchangehouse/exchange_house_app/internal/core/domain"
	"github.com/exchangehouse/exchange_house_app/internal/models"
)

// ToModelExchangeRate converts a domain ExchangeRate to its persistence row shape.
func ToModelExchangeRate(d domain.ExchangeRate) models.ExchangeRate {
	return models.ExchangeRate{
		ExchangeRateID:    d.ExchangeRateID,
		AsOf:              d.AsOf,
		BaseCurrencyCode:  d.BaseCurrencyCode,
		QuoteCurrencyCode: d.QuoteCurrencyCode,
		Rate:              d.Rate,
		DataSource:        d.DataSource,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

// ToDomainExchangeRate converts a persistence row to the domain ExchangeRate.
func ToDomainExchangeRate(m models.ExchangeRate) domain.ExchangeRate {
	return domain.ExchangeRate{
		ExchangeRateID:    m.ExchangeRateID,
		AsOf:              m.AsOf,
		BaseCurrencyCode:  m.BaseCurrencyCode,
		QuoteCurrencyCode: m.QuoteCurrencyCode,
		Rate:              m.Rate,
		DataSource:        m.DataSource,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}
