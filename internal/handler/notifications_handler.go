package handler

import (
	"net/http"

	"github.com/showroomhq/backoffice-go/internal/infra/observability"
	"github.com/showroomhq/backoffice-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Notifications & notification engine
// ============================================================

func listNotificationsHandler(svc *service.NotificationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/{tenant}/notifications")
		defer span.End()

		tenant := TenantFromContext(ctx)
		actor := ActorFromContext(ctx)
		unreadOnly := r.URL.Query().Get("unread") == "true"
		page, pageSize := parsePagination(r)

		items, err := svc.List(ctx, tenant, actor.UID, unreadOnly, page, pageSize)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"notifications": items})
	}
}

func markNotificationReadHandler(svc *service.NotificationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/{tenant}/notifications/{notifId}/read")
		defer span.End()

		if err := svc.MarkAsRead(ctx, TenantFromContext(ctx), chi.URLParam(r, "notifId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func markAllNotificationsReadHandler(svc *service.NotificationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/{tenant}/notifications/read-all")
		defer span.End()

		actor := ActorFromContext(ctx)
		if err := svc.MarkAllAsRead(ctx, TenantFromContext(ctx), actor.UID); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func deleteNotificationHandler(svc *service.NotificationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/{tenant}/notifications/{notifId}")
		defer span.End()

		if err := svc.Delete(ctx, TenantFromContext(ctx), chi.URLParam(r, "notifId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func reconcileNotificationsHandler(svc *service.NotificationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/{tenant}/notifications/reconcile")
		defer span.End()

		tenant := TenantFromContext(ctx)
		span.SetAttributes(attribute.String("tenant", string(tenant)))

		result, err := svc.Reconcile(ctx, tenant)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func engineStatsHandler(metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetEngineSnapshot())
	}
}
