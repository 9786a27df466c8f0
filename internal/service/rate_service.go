package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"fintrack/internal/domain"
)

// RateService caches the merged currency table and serves lookups to
// the ledger and transfer layers. Refresh replaces the table wholesale;
// readers always see a complete snapshot.
type RateService struct {
	source domain.RateSource

	mu          sync.RWMutex
	currencies  map[string]domain.Currency
	refreshedAt time.Time
}

// NewRateService creates a new RateService
func NewRateService(source domain.RateSource) *RateService {
	return &RateService{
		source:     source,
		currencies: make(map[string]domain.Currency),
	}
}

// Refresh fetches the current merged table from the provider and swaps
// the cache. The old table stays in place when the fetch fails.
func (s *RateService) Refresh(ctx context.Context) error {
	currencies, err := s.source.FetchCurrencies(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh rate table: %w", err)
	}

	table := make(map[string]domain.Currency, len(currencies))
	for _, currency := range currencies {
		table[currency.Code] = currency
	}

	s.mu.Lock()
	s.currencies = table
	s.refreshedAt = time.Now()
	s.mu.Unlock()

	slog.Info("Rate table refreshed", "currencies", len(table))
	return nil
}

// Currency looks up one currency by code.
func (s *RateService) Currency(code string) (domain.Currency, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	currency, ok := s.currencies[code]
	return currency, ok
}

// Currencies returns the full table sorted by code.
func (s *RateService) Currencies() []domain.Currency {
	s.mu.RLock()
	defer s.mu.RUnlock()

	currencies := make([]domain.Currency, 0, len(s.currencies))
	for _, currency := range s.currencies {
		currencies = append(currencies, currency)
	}
	sort.Slice(currencies, func(i, j int) bool {
		return currencies[i].Code < currencies[j].Code
	})
	return currencies
}

// RefreshedAt returns the time of the last successful refresh.
func (s *RateService) RefreshedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshedAt
}
