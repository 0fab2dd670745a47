package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/showroomhq/backoffice-go/internal/config"
	"github.com/showroomhq/backoffice-go/internal/domain"
	"github.com/showroomhq/backoffice-go/internal/event"
	"github.com/showroomhq/backoffice-go/internal/handler"
	"github.com/showroomhq/backoffice-go/internal/infra/cache"
	"github.com/showroomhq/backoffice-go/internal/infra/firebase"
	"github.com/showroomhq/backoffice-go/internal/infra/observability"
	"github.com/showroomhq/backoffice-go/internal/infra/resilience"
	"github.com/showroomhq/backoffice-go/internal/service"

	"go.uber.org/zap"
)

var tenants = []domain.Tenant{domain.TenantElectronics, domain.TenantFurniture}

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("database_url", cfg.DatabaseURL),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Bool("auth_disabled", cfg.AuthDisabled),
		zap.Duration("reconcile_interval", cfg.ReconcileInterval),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "showroom-backoffice")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Refresh signal bus ---
	bus := event.NewBus()

	// --- Cache ---
	customerCache := cache.New[[]domain.Customer](cfg.CacheTTL)

	// Flush the customer cache whenever any mutation signal fires;
	// a stale listing is worse than a re-fetch.
	signals, unsubscribe := bus.Subscribe()
	defer unsubscribe()
	go func() {
		for range signals {
			customerCache.Flush()
		}
	}()

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("firebase")

	// --- Storage ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	storeClient := firebase.NewClient(
		httpClient,
		cfg.DatabaseURL,
		cfg.DatabaseSecret,
		cb,
		resilienceCfg,
		metrics,
		logger,
	)

	complaintStore := firebase.NewComplaintStore(storeClient)
	brandStore := firebase.NewBrandStore(storeClient)
	notificationStore := firebase.NewNotificationStore(storeClient)
	customerStore := firebase.NewCustomerStore(storeClient)
	employeeStore := firebase.NewEmployeeStore(storeClient)
	salesStore := firebase.NewSalesStore(storeClient)
	quotationStore := firebase.NewQuotationStore(storeClient)

	// --- Services ---
	brandSvc := service.NewBrandService(brandStore, logger)
	notificationSvc := service.NewNotificationService(
		notificationStore, complaintStore, employeeStore, bus, metrics, logger,
	)
	complaintSvc := service.NewComplaintService(
		complaintStore, customerStore, employeeStore,
		notificationSvc, brandSvc, bus, cfg.TitleMinLen, logger,
	)
	customerSvc := service.NewCustomerService(customerStore, customerCache, bus, metrics, logger)
	employeeSvc := service.NewEmployeeService(employeeStore, bus, logger)
	salesSvc := service.NewSalesService(salesStore, quotationStore, customerStore, employeeStore, bus, logger)
	analyticsSvc := service.NewAnalyticsService(salesStore, employeeStore, logger)

	// --- Background reconcile loop (optional) ---
	reconcileDone := make(chan struct{})
	if cfg.ReconcileInterval > 0 {
		go func() {
			ticker := time.NewTicker(cfg.ReconcileInterval)
			defer ticker.Stop()
			for {
				select {
				case <-reconcileDone:
					return
				case <-ticker.C:
					for _, tenant := range tenants {
						ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
						if _, err := notificationSvc.Reconcile(ctx, tenant); err != nil {
							logger.Error("background reconcile failed",
								zap.String("tenant", string(tenant)),
								zap.Error(err),
							)
						}
						cancel()
					}
				}
			}
		}()
		logger.Info("background notification reconcile enabled",
			zap.Duration("interval", cfg.ReconcileInterval),
		)
	}

	// --- Router ---
	router := handler.NewRouter(
		handler.Services{
			Complaints:    complaintSvc,
			Brands:        brandSvc,
			Notifications: notificationSvc,
			Customers:     customerSvc,
			Employees:     employeeSvc,
			Sales:         salesSvc,
			Analytics:     analyticsSvc,
		},
		handler.Config{
			JWTSecret:    cfg.JWTSecret,
			AuthDisabled: cfg.AuthDisabled,
		},
		storeClient,
		metrics,
		logger,
	)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	close(reconcileDone)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
