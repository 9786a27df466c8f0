// Package ratesapi fetches the currency catalog from the upstream rate
// provider. The provider exposes two endpoints: a symbol/name catalog
// and the live rates; the client joins them by currency code.
package ratesapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/domain"
)

// Client implements domain.RateSource over HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new rate provider client
func NewClient(baseURL string, timeout time.Duration) domain.RateSource {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// symbolsResponse is the catalog endpoint payload
type symbolsResponse struct {
	Symbols map[string]symbolEntry `json:"symbols"`
}

type symbolEntry struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// liveResponse is the live rates endpoint payload
type liveResponse struct {
	Rates map[string]decimal.Decimal `json:"rates"`
}

// FetchCurrencies retrieves both upstream sources and merges them into
// the currency list the core consumes. Codes present in only one source
// are dropped; a currency without a rate (or vice versa) is unusable.
func (c *Client) FetchCurrencies(ctx context.Context) ([]domain.Currency, error) {
	var symbols symbolsResponse
	if err := c.getJSON(ctx, "/symbols", &symbols); err != nil {
		return nil, fmt.Errorf("failed to fetch symbol catalog: %w", err)
	}

	var live liveResponse
	if err := c.getJSON(ctx, "/live", &live); err != nil {
		return nil, fmt.Errorf("failed to fetch live rates: %w", err)
	}

	currencies := make([]domain.Currency, 0, len(symbols.Symbols))
	for code, entry := range symbols.Symbols {
		rate, ok := live.Rates[code]
		if !ok || rate.Sign() <= 0 {
			continue
		}
		currencies = append(currencies, domain.Currency{
			Code:   code,
			Name:   entry.Name,
			Symbol: entry.Symbol,
			Rate:   rate,
		})
	}

	if len(currencies) == 0 {
		return nil, fmt.Errorf("rate provider returned no usable currencies")
	}

	return currencies, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	url := fmt.Sprintf("%s%s", c.baseURL, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call rate provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("rate provider returned error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
