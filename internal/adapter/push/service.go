// Package push delivers best-effort notifications through an HTTP push
// gateway. The service is silently disabled when no gateway URL is
// configured; a delivery failure never affects the financial mutation
// that triggered it.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fintrack/internal/domain"
	"fintrack/internal/infra"
)

// Service implements domain.NotificationSender
type Service struct {
	gatewayURL string
	enabled    bool
	httpClient *http.Client
}

type pushMessage struct {
	DeviceToken string            `json:"device_token"`
	Title       string            `json:"title"`
	Body        string            `json:"body"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// NewService creates a new push notification sender
func NewService(gatewayURL string) domain.NotificationSender {
	return &Service{
		gatewayURL: gatewayURL,
		enabled:    gatewayURL != "",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Send posts one notification to the gateway. Skipped silently when the
// gateway is not configured or the user has no device token.
func (s *Service) Send(ctx context.Context, deviceToken, title, body string, metadata map[string]string) error {
	if !s.enabled || deviceToken == "" {
		return nil
	}

	payload, err := json.Marshal(pushMessage{
		DeviceToken: deviceToken,
		Title:       title,
		Body:        body,
		Metadata:    metadata,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal push message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.gatewayURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		infra.NotificationsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to call push gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		respBody, _ := io.ReadAll(resp.Body)
		infra.NotificationsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("push gateway returned error: status=%d, body=%s", resp.StatusCode, string(respBody))
	}

	infra.NotificationsTotal.WithLabelValues("ok").Inc()
	return nil
}
