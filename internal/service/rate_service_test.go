package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"fintrack/internal/domain"
)

func TestRateServiceRefreshSwapsTable(t *testing.T) {
	ctx := context.Background()
	source := &staticRateSource{currencies: testCurrencies()}
	rates := NewRateService(source)

	_, ok := rates.Currency("USD")
	require.False(t, ok, "table should be empty before the first refresh")

	require.NoError(t, rates.Refresh(ctx))

	usd, ok := rates.Currency("USD")
	require.True(t, ok)
	require.Equal(t, "$", usd.Symbol)
	require.True(t, usd.Rate.Equal(decimal.NewFromFloat(1.0)))

	source.currencies = []domain.Currency{
		{Code: "JPY", Name: "Japanese Yen", Symbol: "¥", Rate: decimal.NewFromFloat(1.25)},
	}
	require.NoError(t, rates.Refresh(ctx))

	_, ok = rates.Currency("USD")
	require.False(t, ok, "replaced table should not retain stale entries")
	_, ok = rates.Currency("JPY")
	require.True(t, ok)
}

func TestRateServiceKeepsOldTableOnFailure(t *testing.T) {
	ctx := context.Background()
	source := &staticRateSource{currencies: testCurrencies()}
	rates := NewRateService(source)
	require.NoError(t, rates.Refresh(ctx))
	refreshedAt := rates.RefreshedAt()

	source.err = errors.New("provider unavailable")
	require.Error(t, rates.Refresh(ctx))

	_, ok := rates.Currency("EUR")
	require.True(t, ok, "failed refresh must not drop the cached table")
	require.Equal(t, refreshedAt, rates.RefreshedAt())
}

func TestRateServiceCurrenciesSortedByCode(t *testing.T) {
	rates := newTestRates(t)

	currencies := rates.Currencies()
	require.Len(t, currencies, 3)
	require.Equal(t, "EUR", currencies[0].Code)
	require.Equal(t, "GBP", currencies[1].Code)
	require.Equal(t, "USD", currencies[2].Code)
}
