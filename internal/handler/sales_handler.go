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
// Sales
// ============================================================

func createSaleHandler(svc *service.SalesService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/{tenant}/sales")
		defer span.End()

		var sale domain.Sale
		if err := json.NewDecoder(r.Body).Decode(&sale); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		created, err := svc.CreateSale(ctx, TenantFromContext(ctx), &sale, ActorFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func listSalesHandler(svc *service.SalesService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/{tenant}/sales")
		defer span.End()

		sales, err := svc.ListSales(ctx, TenantFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"sales": sales})
	}
}

func getSaleHandler(svc *service.SalesService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/{tenant}/sales/{saleId}")
		defer span.End()

		sale, err := svc.GetSale(ctx, TenantFromContext(ctx), chi.URLParam(r, "saleId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, sale)
	}
}

func updateSalePaymentHandler(svc *service.SalesService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /v1/{tenant}/sales/{saleId}/payment")
		defer span.End()

		var body struct {
			PaymentType domain.PaymentType `json:"payment_type"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		sale, err := svc.UpdateSalePayment(ctx, TenantFromContext(ctx), chi.URLParam(r, "saleId"), body.PaymentType)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, sale)
	}
}

func deleteSaleHandler(svc *service.SalesService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/{tenant}/sales/{saleId}")
		defer span.End()

		if err := svc.DeleteSale(ctx, TenantFromContext(ctx), chi.URLParam(r, "saleId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ============================================================
// Quotations
// ============================================================

func createQuotationHandler(svc *service.SalesService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/{tenant}/quotations")
		defer span.End()

		var q domain.Quotation
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		created, err := svc.CreateQuotation(ctx, TenantFromContext(ctx), &q, ActorFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func listQuotationsHandler(svc *service.SalesService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/{tenant}/quotations")
		defer span.End()

		quotations, err := svc.ListQuotations(ctx, TenantFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"quotations": quotations})
	}
}

func getQuotationHandler(svc *service.SalesService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/{tenant}/quotations/{quotationId}")
		defer span.End()

		q, err := svc.GetQuotation(ctx, TenantFromContext(ctx), chi.URLParam(r, "quotationId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

func updateQuotationStatusHandler(svc *service.SalesService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /v1/{tenant}/quotations/{quotationId}/status")
		defer span.End()

		var body struct {
			Status domain.QuotationStatus `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		q, err := svc.UpdateQuotationStatus(ctx, TenantFromContext(ctx), chi.URLParam(r, "quotationId"), body.Status)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

func deleteQuotationHandler(svc *service.SalesService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/{tenant}/quotations/{quotationId}")
		defer span.End()

		if err := svc.DeleteQuotation(ctx, TenantFromContext(ctx), chi.URLParam(r, "quotationId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
