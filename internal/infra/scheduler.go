package infra

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"fintrack/internal/service"
)

// Scheduler refreshes the cached currency rate table on a cron spec.
type Scheduler struct {
	cron    *cron.Cron
	rates   *service.RateService
	spec    string
	timeout time.Duration
}

// NewScheduler creates a new rate refresh scheduler
func NewScheduler(rates *service.RateService, spec string, timeout time.Duration) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		rates:   rates,
		spec:    spec,
		timeout: timeout,
	}
}

// Start registers the refresh job and starts the cron scheduler
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := s.rates.Refresh(ctx); err != nil {
			RateRefreshTotal.WithLabelValues("error").Inc()
			slog.Error("Scheduled rate refresh failed", "error", err)
			return
		}
		RateRefreshTotal.WithLabelValues("ok").Inc()
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	slog.Info("Rate refresh scheduler started", "spec", s.spec)
	return nil
}

// Stop stops the scheduler gracefully
func (s *Scheduler) Stop() {
	s.cron.Stop()
	slog.Info("Rate refresh scheduler stopped")
}
