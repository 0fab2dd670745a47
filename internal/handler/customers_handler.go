package handler

import (
	"encoding/json"
	"net/http"

	"github.com/showroomhq/backoffice-go/internal/domain"
	"github.com/showroomhq/backoffice-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Customers
// ============================================================

func createCustomerHandler(svc *service.CustomerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/{tenant}/customers")
		defer span.End()

		var customer domain.Customer
		if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		created, err := svc.Create(ctx, TenantFromContext(ctx), &customer, ActorFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func listCustomersHandler(svc *service.CustomerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/{tenant}/customers")
		defer span.End()

		tenant := TenantFromContext(ctx)
		var (
			customers []domain.Customer
			err       error
		)
		if term := r.URL.Query().Get("search"); term != "" {
			customers, err = svc.Search(ctx, tenant, term)
		} else {
			customers, err = svc.List(ctx, tenant)
		}
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"customers": customers})
	}
}

func getCustomerHandler(svc *service.CustomerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/{tenant}/customers/{customerId}")
		defer span.End()

		customer, err := svc.GetByID(ctx, TenantFromContext(ctx), chi.URLParam(r, "customerId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, customer)
	}
}

func updateCustomerHandler(svc *service.CustomerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /v1/{tenant}/customers/{customerId}")
		defer span.End()

		var req domain.CustomerUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		customer, err := svc.Update(ctx, TenantFromContext(ctx), chi.URLParam(r, "customerId"), &req, ActorFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, customer)
	}
}

func deleteCustomerHandler(svc *service.CustomerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/{tenant}/customers/{customerId}")
		defer span.End()

		if err := svc.Delete(ctx, TenantFromContext(ctx), chi.URLParam(r, "customerId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
