package service

import (
	"context"
	"strings"
	"time"

	"github.com/showroomhq/backoffice-go/internal/domain"
	"github.com/showroomhq/backoffice-go/internal/event"
	"github.com/showroomhq/backoffice-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var employeeTracer = otel.Tracer("service/employee")

// EmployeeService owns employee records.
type EmployeeService struct {
	store  port.EmployeeStore
	bus    port.RefreshPublisher
	logger *zap.Logger

	Now func() time.Time
}

// NewEmployeeService wires the employee workflow.
func NewEmployeeService(store port.EmployeeStore, bus port.RefreshPublisher, logger *zap.Logger) *EmployeeService {
	return &EmployeeService{
		store:  store,
		bus:    bus,
		logger: logger,
		Now:    time.Now,
	}
}

func validateEmployee(name, phone string, role domain.EmployeeRole) error {
	if strings.TrimSpace(name) == "" {
		return &domain.ErrValidation{Field: "name", Message: "name is required"}
	}
	if phone != "" && !domain.ValidPhone(phone) {
		return &domain.ErrValidation{Field: "phone", Message: "phone must be a valid 10-digit mobile number"}
	}
	if !role.Valid() {
		return &domain.ErrValidation{Field: "role", Message: "unknown role: " + string(role)}
	}
	return nil
}

// Create registers an employee. New employees start active.
func (s *EmployeeService) Create(ctx context.Context, tenant domain.Tenant, e *domain.Employee) (*domain.Employee, error) {
	ctx, span := employeeTracer.Start(ctx, "EmployeeService.Create")
	defer span.End()
	span.SetAttributes(attribute.String("tenant", string(tenant)))

	if err := validateEmployee(e.Name, e.Phone, e.Role); err != nil {
		return nil, err
	}

	now := s.Now()
	e.Name = strings.TrimSpace(e.Name)
	e.Active = true
	e.CreatedAt = now
	e.UpdatedAt = now

	id, err := s.store.Create(ctx, tenant, e)
	if err != nil {
		return nil, err
	}
	e.ID = id

	s.bus.Publish(event.NewSignal("employees/create"))
	return e, nil
}

// Update applies a partial update.
func (s *EmployeeService) Update(ctx context.Context, tenant domain.Tenant, id string, req *domain.EmployeeUpdateRequest) (*domain.Employee, error) {
	ctx, span := employeeTracer.Start(ctx, "EmployeeService.Update")
	defer span.End()
	span.SetAttributes(attribute.String("employee.id", id))

	current, err := s.store.GetByID(ctx, tenant, id)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	fields := map[string]any{"updated_at": now}
	updated := *current
	updated.UpdatedAt = now

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, &domain.ErrValidation{Field: "name", Message: "name cannot be empty"}
		}
		fields["name"] = name
		updated.Name = name
	}
	if req.Phone != nil {
		if *req.Phone != "" && !domain.ValidPhone(*req.Phone) {
			return nil, &domain.ErrValidation{Field: "phone", Message: "phone must be a valid 10-digit mobile number"}
		}
		fields["phone"] = *req.Phone
		updated.Phone = *req.Phone
	}
	if req.Email != nil {
		fields["email"] = *req.Email
		updated.Email = *req.Email
	}
	if req.Role != nil {
		if !req.Role.Valid() {
			return nil, &domain.ErrValidation{Field: "role", Message: "unknown role: " + string(*req.Role)}
		}
		fields["role"] = *req.Role
		updated.Role = *req.Role
	}
	if req.UserID != nil {
		fields["user_id"] = *req.UserID
		updated.UserID = *req.UserID
	}
	if req.Active != nil {
		fields["active"] = *req.Active
		updated.Active = *req.Active
	}

	if err := s.store.Update(ctx, tenant, id, fields); err != nil {
		return nil, err
	}

	s.bus.Publish(event.NewSignal("employees/update"))
	return &updated, nil
}

// Delete removes an employee record.
func (s *EmployeeService) Delete(ctx context.Context, tenant domain.Tenant, id string) error {
	ctx, span := employeeTracer.Start(ctx, "EmployeeService.Delete")
	defer span.End()
	span.SetAttributes(attribute.String("employee.id", id))

	if _, err := s.store.GetByID(ctx, tenant, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, tenant, id); err != nil {
		return err
	}
	s.bus.Publish(event.NewSignal("employees/delete"))
	return nil
}

// GetByID returns one employee.
func (s *EmployeeService) GetByID(ctx context.Context, tenant domain.Tenant, id string) (*domain.Employee, error) {
	ctx, span := employeeTracer.Start(ctx, "EmployeeService.GetByID")
	defer span.End()

	return s.store.GetByID(ctx, tenant, id)
}

// List returns the tenant's employees. activeOnly drops deactivated
// records.
func (s *EmployeeService) List(ctx context.Context, tenant domain.Tenant, activeOnly bool) ([]domain.Employee, error) {
	ctx, span := employeeTracer.Start(ctx, "EmployeeService.List")
	defer span.End()
	span.SetAttributes(attribute.String("tenant", string(tenant)))

	all, err := s.store.ListAll(ctx, tenant)
	if err != nil {
		return nil, err
	}
	if !activeOnly {
		return all, nil
	}
	out := make([]domain.Employee, 0, len(all))
	for _, e := range all {
		if e.Active {
			out = append(out, e)
		}
	}
	return out, nil
}
