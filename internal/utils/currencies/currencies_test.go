package currencies_test

import (
	"testing"

	"github.com/exchangehouse/exchange_house_app/internal/utils/currencies"
	"github.com/stretchr/testify/assert"
)

func TestIsValid(t *testing.T) {
	assert.True(t, currencies.IsValid("USD"))
	assert.True(t, currencies.IsValid("sgd"))
	assert.True(t, currencies.IsValid("XAU"))
	assert.False(t, currencies.IsValid("US"))
	assert.False(t, currencies.IsValid("USDT"))
	assert.False(t, currencies.IsValid("QQQ"))
	assert.False(t, currencies.IsValid(""))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "USD", currencies.Normalize(" usd "))
	assert.Equal(t, "EUR", currencies.Normalize("EUR"))
}
