package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/showroomhq/backoffice-go/internal/infra/observability"
	"github.com/showroomhq/backoffice-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// Pinger is the storage reachability probe used by the health check.
type Pinger interface {
	Get(ctx context.Context, path string, out any) (bool, error)
}

// Services groups everything the router needs.
type Services struct {
	Complaints    *service.ComplaintService
	Brands        *service.BrandService
	Notifications *service.NotificationService
	Customers     *service.CustomerService
	Employees     *service.EmployeeService
	Sales         *service.SalesService
	Analytics     *service.AnalyticsService
}

// Config carries the router's identity settings.
type Config struct {
	JWTSecret    string
	AuthDisabled bool
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(svcs Services, cfg Config, storage Pinger, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger, metrics))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(storage, logger))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	identity := IdentityMiddleware(cfg.JWTSecret, cfg.AuthDisabled, logger)

	// --- API v1, everything scoped to a tenant ---
	r.Route("/v1/{tenant}", func(r chi.Router) {
		r.Use(TenantMiddleware)
		r.Use(identity)

		// Complaints
		r.Route("/complaints", func(r chi.Router) {
			r.Post("/", createComplaintHandler(svcs.Complaints, logger))
			r.Get("/", listComplaintsHandler(svcs.Complaints, logger))
			r.Get("/search", searchComplaintsHandler(svcs.Complaints, logger))
			r.Get("/stats", complaintStatsHandler(svcs.Complaints, logger))
			r.Get("/{complaintId}", getComplaintHandler(svcs.Complaints, logger))
			r.Patch("/{complaintId}", updateComplaintHandler(svcs.Complaints, logger))
			r.Post("/{complaintId}/escalate", escalateComplaintHandler(svcs.Complaints, logger))
			r.Delete("/{complaintId}", deleteComplaintHandler(svcs.Complaints, logger))
		})

		// Brands & escalation hierarchy
		r.Route("/brands", func(r chi.Router) {
			r.Post("/", createBrandHandler(svcs.Brands, logger))
			r.Get("/", listBrandsHandler(svcs.Brands, logger))
			r.Get("/default-hierarchy", getDefaultHierarchyHandler(svcs.Brands, logger))
			r.Put("/default-hierarchy", setDefaultHierarchyHandler(svcs.Brands, logger))
			r.Get("/{brandId}", getBrandHandler(svcs.Brands, logger))
			r.Patch("/{brandId}", updateBrandHandler(svcs.Brands, logger))
			r.Delete("/{brandId}", deleteBrandHandler(svcs.Brands, logger))
		})

		// Notifications
		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", listNotificationsHandler(svcs.Notifications, logger))
			r.Post("/read-all", markAllNotificationsReadHandler(svcs.Notifications, logger))
			r.Post("/reconcile", reconcileNotificationsHandler(svcs.Notifications, logger))
			r.Get("/engine/stats", engineStatsHandler(metrics, logger))
			r.Post("/{notifId}/read", markNotificationReadHandler(svcs.Notifications, logger))
			r.Delete("/{notifId}", deleteNotificationHandler(svcs.Notifications, logger))
		})

		// Customers
		r.Route("/customers", func(r chi.Router) {
			r.Post("/", createCustomerHandler(svcs.Customers, logger))
			r.Get("/", listCustomersHandler(svcs.Customers, logger))
			r.Get("/{customerId}", getCustomerHandler(svcs.Customers, logger))
			r.Patch("/{customerId}", updateCustomerHandler(svcs.Customers, logger))
			r.Delete("/{customerId}", deleteCustomerHandler(svcs.Customers, logger))
		})

		// Employees
		r.Route("/employees", func(r chi.Router) {
			r.Post("/", createEmployeeHandler(svcs.Employees, logger))
			r.Get("/", listEmployeesHandler(svcs.Employees, logger))
			r.Get("/{employeeId}", getEmployeeHandler(svcs.Employees, logger))
			r.Patch("/{employeeId}", updateEmployeeHandler(svcs.Employees, logger))
			r.Delete("/{employeeId}", deleteEmployeeHandler(svcs.Employees, logger))
		})

		// Sales
		r.Route("/sales", func(r chi.Router) {
			r.Post("/", createSaleHandler(svcs.Sales, logger))
			r.Get("/", listSalesHandler(svcs.Sales, logger))
			r.Get("/{saleId}", getSaleHandler(svcs.Sales, logger))
			r.Patch("/{saleId}/payment", updateSalePaymentHandler(svcs.Sales, logger))
			r.Delete("/{saleId}", deleteSaleHandler(svcs.Sales, logger))
		})

		// Quotations
		r.Route("/quotations", func(r chi.Router) {
			r.Post("/", createQuotationHandler(svcs.Sales, logger))
			r.Get("/", listQuotationsHandler(svcs.Sales, logger))
			r.Get("/{quotationId}", getQuotationHandler(svcs.Sales, logger))
			r.Patch("/{quotationId}/status", updateQuotationStatusHandler(svcs.Sales, logger))
			r.Delete("/{quotationId}", deleteQuotationHandler(svcs.Sales, logger))
		})

		// Analytics
		r.Route("/analytics", func(r chi.Router) {
			r.Get("/sales", salesSummaryHandler(svcs.Analytics, logger))
			r.Get("/employees", employeePerformanceHandler(svcs.Analytics, logger))
			r.Get("/pending-payments", pendingPaymentsHandler(svcs.Analytics, logger))
		})
	})

	return r
}

// ============================================================
// Health
// ============================================================

func healthzHandler(storage Pinger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := "healthy"
		storageStatus := "healthy"
		var latencyMs int64
		if storage != nil {
			var probe any
			start := time.Now()
			_, err := storage.Get(ctx, "health", &probe)
			latencyMs = time.Since(start).Milliseconds()
			if err != nil {
				status = "degraded"
				storageStatus = "degraded"
				logger.Warn("health check: storage unreachable", zap.Error(err))
			}
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"status": status,
			"services": []map[string]any{
				{"name": "backoffice-api", "status": "healthy"},
				{"name": "storage", "status": storageStatus, "latency_ms": latencyMs},
			},
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
