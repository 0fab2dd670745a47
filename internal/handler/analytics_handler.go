package handler

import (
	"net/http"

	"github.com/showroomhq/backoffice-go/internal/domain"
	"github.com/showroomhq/backoffice-go/internal/service"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Analytics
// ============================================================

func salesSummaryHandler(svc *service.AnalyticsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/{tenant}/analytics/sales")
		defer span.End()

		window := domain.TimeWindow(r.URL.Query().Get("window"))
		span.SetAttributes(attribute.String("window", string(window)))

		summary, err := svc.SalesSummary(ctx, TenantFromContext(ctx), window)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

func employeePerformanceHandler(svc *service.AnalyticsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/{tenant}/analytics/employees")
		defer span.End()

		window := domain.TimeWindow(r.URL.Query().Get("window"))
		perf, err := svc.EmployeePerformance(ctx, TenantFromContext(ctx), window)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"employees": perf})
	}
}

func pendingPaymentsHandler(svc *service.AnalyticsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/{tenant}/analytics/pending-payments")
		defer span.End()

		report, err := svc.PendingPayments(ctx, TenantFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}
