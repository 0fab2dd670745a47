package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/showroomhq/backoffice-go/internal/domain"
	"github.com/showroomhq/backoffice-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Complaints
// ============================================================

func createComplaintHandler(svc *service.ComplaintService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/{tenant}/complaints")
		defer span.End()

		tenant := TenantFromContext(ctx)
		span.SetAttributes(attribute.String("tenant", string(tenant)))

		var req domain.ComplaintCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		complaint, err := svc.Create(ctx, tenant, &req, ActorFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, complaint)
	}
}

func listComplaintsHandler(svc *service.ComplaintService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/{tenant}/complaints")
		defer span.End()

		tenant := TenantFromContext(ctx)
		q := r.URL.Query()

		filter := domain.ComplaintFilter{
			Status:       domain.ComplaintStatus(q.Get("status")),
			Severity:     domain.Severity(q.Get("severity")),
			AssigneeType: domain.AssigneeType(q.Get("assignee_type")),
			Search:       q.Get("search"),
		}
		sortBy := domain.ComplaintSort{
			Field: q.Get("sort"),
			Desc:  q.Get("order") == "desc" || q.Get("order") == "",
		}
		page := domain.ComplaintPage{}
		if v := q.Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				page.Limit = n
			}
		}
		if v := q.Get("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				page.Offset = n
			}
		}

		list, err := svc.List(ctx, tenant, filter, sortBy, page)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func searchComplaintsHandler(svc *service.ComplaintService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/{tenant}/complaints/search")
		defer span.End()

		tenant := TenantFromContext(ctx)
		term := r.URL.Query().Get("q")
		if term == "" {
			writeError(w, http.StatusBadRequest, "q is required")
			return
		}

		items, err := svc.Search(ctx, tenant, term)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
	}
}

func complaintStatsHandler(svc *service.ComplaintService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/{tenant}/complaints/stats")
		defer span.End()

		stats, err := svc.Stats(ctx, TenantFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func getComplaintHandler(svc *service.ComplaintService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/{tenant}/complaints/{complaintId}")
		defer span.End()

		complaint, err := svc.GetByID(ctx, TenantFromContext(ctx), chi.URLParam(r, "complaintId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, complaint)
	}
}

func updateComplaintHandler(svc *service.ComplaintService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /v1/{tenant}/complaints/{complaintId}")
		defer span.End()

		var req domain.ComplaintUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		complaint, err := svc.Update(ctx, TenantFromContext(ctx), chi.URLParam(r, "complaintId"), &req, ActorFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, complaint)
	}
}

func escalateComplaintHandler(svc *service.ComplaintService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/{tenant}/complaints/{complaintId}/escalate")
		defer span.End()

		var body struct {
			Remarks string `json:"remarks"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		complaint, err := svc.Escalate(ctx, TenantFromContext(ctx), chi.URLParam(r, "complaintId"), body.Remarks, ActorFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, complaint)
	}
}

func deleteComplaintHandler(svc *service.ComplaintService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/{tenant}/complaints/{complaintId}")
		defer span.End()

		if err := svc.Delete(ctx, TenantFromContext(ctx), chi.URLParam(r, "complaintId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
