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
// Brands & escalation hierarchy
// ============================================================

func createBrandHandler(svc *service.BrandService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/{tenant}/brands")
		defer span.End()

		var brand domain.Brand
		if err := json.NewDecoder(r.Body).Decode(&brand); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		created, err := svc.CreateBrand(ctx, TenantFromContext(ctx), &brand)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func listBrandsHandler(svc *service.BrandService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/{tenant}/brands")
		defer span.End()

		brands, err := svc.ListBrands(ctx, TenantFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"brands": brands})
	}
}

func getBrandHandler(svc *service.BrandService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/{tenant}/brands/{brandId}")
		defer span.End()

		brand, err := svc.GetBrand(ctx, TenantFromContext(ctx), chi.URLParam(r, "brandId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, brand)
	}
}

func updateBrandHandler(svc *service.BrandService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /v1/{tenant}/brands/{brandId}")
		defer span.End()

		var body struct {
			Name      *string                 `json:"name,omitempty"`
			Hierarchy []domain.HierarchyLevel `json:"hierarchy,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		brand, err := svc.UpdateBrand(ctx, TenantFromContext(ctx), chi.URLParam(r, "brandId"), body.Name, body.Hierarchy)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, brand)
	}
}

func deleteBrandHandler(svc *service.BrandService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/{tenant}/brands/{brandId}")
		defer span.End()

		if err := svc.DeleteBrand(ctx, TenantFromContext(ctx), chi.URLParam(r, "brandId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func getDefaultHierarchyHandler(svc *service.BrandService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/{tenant}/brands/default-hierarchy")
		defer span.End()

		h, err := svc.GetDefaultHierarchy(ctx, TenantFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, h)
	}
}

func setDefaultHierarchyHandler(svc *service.BrandService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/{tenant}/brands/default-hierarchy")
		defer span.End()

		var h domain.DefaultHierarchy
		if err := json.NewDecoder(r.Body).Decode(&h); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := svc.SetDefaultHierarchy(ctx, TenantFromContext(ctx), &h); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, h)
	}
}
