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
// Employees
// ============================================================

func createEmployeeHandler(svc *service.EmployeeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/{tenant}/employees")
		defer span.End()

		var employee domain.Employee
		if err := json.NewDecoder(r.Body).Decode(&employee); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		created, err := svc.Create(ctx, TenantFromContext(ctx), &employee)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func listEmployeesHandler(svc *service.EmployeeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/{tenant}/employees")
		defer span.End()

		activeOnly := r.URL.Query().Get("active") == "true"
		employees, err := svc.List(ctx, TenantFromContext(ctx), activeOnly)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"employees": employees})
	}
}

func getEmployeeHandler(svc *service.EmployeeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/{tenant}/employees/{employeeId}")
		defer span.End()

		employee, err := svc.GetByID(ctx, TenantFromContext(ctx), chi.URLParam(r, "employeeId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, employee)
	}
}

func updateEmployeeHandler(svc *service.EmployeeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /v1/{tenant}/employees/{employeeId}")
		defer span.End()

		var req domain.EmployeeUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		employee, err := svc.Update(ctx, TenantFromContext(ctx), chi.URLParam(r, "employeeId"), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, employee)
	}
}

func deleteEmployeeHandler(svc *service.EmployeeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/{tenant}/employees/{employeeId}")
		defer span.End()

		if err := svc.Delete(ctx, TenantFromContext(ctx), chi.URLParam(r, "employeeId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
