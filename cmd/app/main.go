package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fintrack/configs"
	"fintrack/internal/adapter/push"
	"fintrack/internal/adapter/ratesapi"
	"fintrack/internal/database"
	delivery "fintrack/internal/delivery/http"
	"fintrack/internal/infra"
	"fintrack/internal/repository"
	"fintrack/internal/service"
	"fintrack/internal/usecase"
	"fintrack/pkg/logging"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found, using environment variables")
	}

	logging.Setup()

	// Load configuration
	cfg := configs.Load()

	ctx := context.Background()

	// Initialize database
	db, err := infra.NewDatabase(ctx, cfg.Database.URL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	reminderRepo := repository.NewReminderRepository(db)

	// Initialize rate table and load it once before serving
	rateSource := ratesapi.NewClient(cfg.Rates.BaseURL, cfg.Rates.RequestTimeout)
	rateService := service.NewRateService(rateSource)

	refreshCtx, cancelRefresh := context.WithTimeout(ctx, cfg.Rates.RequestTimeout)
	if err := rateService.Refresh(refreshCtx); err != nil {
		slog.Warn("Initial rate refresh failed, serving with empty table until next refresh", "error", err)
	}
	cancelRefresh()

	// Initialize services
	feed := service.NewLedgerFeed()
	ledgerService := service.NewLedgerService(userRepo, transactionRepo, reminderRepo, rateService, feed)
	notifier := push.NewService(cfg.Push.GatewayURL)
	transferService := usecase.NewTransferService(userRepo, ledgerService, notifier, cfg.Store.Timeout)

	// Start rate refresh scheduler
	scheduler := infra.NewScheduler(rateService, cfg.Rates.RefreshSpec, cfg.Rates.RequestTimeout)
	if err := scheduler.Start(); err != nil {
		slog.Error("Failed to start rate refresh scheduler", "error", err)
		os.Exit(1)
	}
	defer scheduler.Stop()

	// Ops listener: health and metrics
	opsServer := newOpsServer(cfg.Ops.Port, db)
	go func() {
		slog.Info("Ops server starting", "address", opsServer.Addr)
		if err := opsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Ops server failed", "error", err)
			os.Exit(1)
		}
	}()

	// API server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	delivery.SetupRoutes(e, &delivery.RouterConfig{
		AuthHandler:     delivery.NewAuthHandler(userRepo, cfg.Store.Timeout),
		UserHandler:     delivery.NewUserHandler(userRepo, ledgerService, feed, cfg.Store.Timeout),
		RatesHandler:    delivery.NewRatesHandler(rateService),
		TransferHandler: delivery.NewTransferHandler(transferService),
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	go func() {
		slog.Info("API server starting", "address", addr, "env", cfg.Server.Env)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			slog.Error("API server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("API server forced to shutdown", "error", err)
	}
	if err := opsServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Ops server forced to shutdown", "error", err)
	}

	slog.Info("Server exited gracefully")
}

func newOpsServer(port string, db interface{ Ping(context.Context) error }) *http.Server {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "healthy"
		status := http.StatusOK
		if err := db.Ping(ctx); err != nil {
			dbStatus = "unhealthy"
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprintf(w, `{"status": "%s", "service": "fintrack", "database": "%s", "timestamp": "%s"}`,
			dbStatus, dbStatus, time.Now().Format(time.RFC3339))
	})

	r.Handle("/metrics", promhttp.Handler())

	return &http.Server{
		Addr:         fmt.Sprintf(":%s", port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
