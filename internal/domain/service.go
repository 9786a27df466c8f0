package domain

import "context"

// NotificationSender delivers best-effort push notifications. Failures
// are reported but never revert a completed financial mutation.
type NotificationSender interface {
	Send(ctx context.Context, deviceToken, title, body string, metadata map[string]string) error
}

// RateSource fetches the merged currency catalog from the upstream
// rate provider.
type RateSource interface {
	FetchCurrencies(ctx context.Context) ([]Currency, error)
}
