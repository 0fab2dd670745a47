package service

import (
	"context"
	"time"

	"github.com/showroomhq/backoffice-go/internal/domain"
	"github.com/showroomhq/backoffice-go/internal/event"
	"github.com/showroomhq/backoffice-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var salesTracer = otel.Tracer("service/sales")

// SalesService owns sale and quotation records. Customer and employee
// names are denormalized onto the sale at write time, same as on
// complaints.
type SalesService struct {
	sales      port.SalesStore
	quotations port.QuotationStore
	customers  port.CustomerStore
	employees  port.EmployeeStore
	bus        port.RefreshPublisher
	logger     *zap.Logger

	Now func() time.Time
}

// NewSalesService wires the sales workflow.
func NewSalesService(
	sales port.SalesStore,
	quotations port.QuotationStore,
	customers port.CustomerStore,
	employees port.EmployeeStore,
	bus port.RefreshPublisher,
	logger *zap.Logger,
) *SalesService {
	return &SalesService{
		sales:      sales,
		quotations: quotations,
		customers:  customers,
		employees:  employees,
		bus:        bus,
		logger:     logger,
		Now:        time.Now,
	}
}

// CreateSale validates and records a sale.
func (s *SalesService) CreateSale(ctx context.Context, tenant domain.Tenant, sale *domain.Sale, actor domain.UserRef) (*domain.Sale, error) {
	ctx, span := salesTracer.Start(ctx, "SalesService.CreateSale")
	defer span.End()
	span.SetAttributes(attribute.String("tenant", string(tenant)))

	if sale.CustomerID == "" {
		return nil, &domain.ErrValidation{Field: "customer_id", Message: "customer is required"}
	}
	if sale.EmployeeID == "" {
		return nil, &domain.ErrValidation{Field: "employee_id", Message: "employee is required"}
	}
	if sale.Amount <= 0 {
		return nil, &domain.ErrValidation{Field: "amount", Message: "amount must be positive"}
	}
	if !sale.PaymentType.Valid() {
		return nil, &domain.ErrValidation{Field: "payment_type", Message: "unknown payment type: " + string(sale.PaymentType)}
	}
	if _, err := time.Parse(domain.DateLayout, sale.SaleDate); err != nil {
		return nil, &domain.ErrValidation{Field: "sale_date", Message: "date must be YYYY-MM-DD"}
	}

	customer, err := s.customers.GetByID(ctx, tenant, sale.CustomerID)
	if err != nil {
		return nil, err
	}
	employee, err := s.employees.GetByID(ctx, tenant, sale.EmployeeID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	sale.CustomerName = customer.Name
	sale.EmployeeName = employee.Name
	sale.CreatedAt = now
	sale.CreatedBy = actor.UID
	sale.UpdatedAt = now

	id, err := s.sales.Create(ctx, tenant, sale)
	if err != nil {
		return nil, err
	}
	sale.ID = id

	s.bus.Publish(event.NewSignal("sales/create"))
	return sale, nil
}

// UpdateSalePayment moves a sale to a new payment type, the one field
// that changes after the fact (pending -> paid variants).
func (s *SalesService) UpdateSalePayment(ctx context.Context, tenant domain.Tenant, id string, paymentType domain.PaymentType) (*domain.Sale, error) {
	ctx, span := salesTracer.Start(ctx, "SalesService.UpdateSalePayment")
	defer span.End()
	span.SetAttributes(attribute.String("sale.id", id))

	if !paymentType.Valid() {
		return nil, &domain.ErrValidation{Field: "payment_type", Message: "unknown payment type: " + string(paymentType)}
	}
	current, err := s.sales.GetByID(ctx, tenant, id)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	if err := s.sales.Update(ctx, tenant, id, map[string]any{
		"payment_type": paymentType,
		"updated_at":   now,
	}); err != nil {
		return nil, err
	}
	updated := *current
	updated.PaymentType = paymentType
	updated.UpdatedAt = now

	s.bus.Publish(event.NewSignal("sales/update"))
	return &updated, nil
}

// DeleteSale removes a sale record.
func (s *SalesService) DeleteSale(ctx context.Context, tenant domain.Tenant, id string) error {
	ctx, span := salesTracer.Start(ctx, "SalesService.DeleteSale")
	defer span.End()
	span.SetAttributes(attribute.String("sale.id", id))

	if _, err := s.sales.GetByID(ctx, tenant, id); err != nil {
		return err
	}
	if err := s.sales.Delete(ctx, tenant, id); err != nil {
		return err
	}
	s.bus.Publish(event.NewSignal("sales/delete"))
	return nil
}

// GetSale returns one sale.
func (s *SalesService) GetSale(ctx context.Context, tenant domain.Tenant, id string) (*domain.Sale, error) {
	ctx, span := salesTracer.Start(ctx, "SalesService.GetSale")
	defer span.End()

	return s.sales.GetByID(ctx, tenant, id)
}

// ListSales returns the tenant's sales.
func (s *SalesService) ListSales(ctx context.Context, tenant domain.Tenant) ([]domain.Sale, error) {
	ctx, span := salesTracer.Start(ctx, "SalesService.ListSales")
	defer span.End()
	span.SetAttributes(attribute.String("tenant", string(tenant)))

	return s.sales.ListAll(ctx, tenant)
}

func quotationTotal(items []domain.QuotationItem) float64 {
	total := 0.0
	for _, it := range items {
		total += float64(it.Quantity) * it.UnitPrice
	}
	return total
}

// CreateQuotation records a draft quotation. The total is always
// recomputed from the lines; a caller-supplied total is ignored.
func (s *SalesService) CreateQuotation(ctx context.Context, tenant domain.Tenant, q *domain.Quotation, actor domain.UserRef) (*domain.Quotation, error) {
	ctx, span := salesTracer.Start(ctx, "SalesService.CreateQuotation")
	defer span.End()
	span.SetAttributes(attribute.String("tenant", string(tenant)))

	if q.CustomerID == "" {
		return nil, &domain.ErrValidation{Field: "customer_id", Message: "customer is required"}
	}
	if len(q.Items) == 0 {
		return nil, &domain.ErrValidation{Field: "items", Message: "at least one item is required"}
	}
	for _, it := range q.Items {
		if it.Quantity <= 0 || it.UnitPrice < 0 {
			return nil, &domain.ErrValidation{Field: "items", Message: "quantities must be positive and prices non-negative"}
		}
	}
	if _, err := time.Parse(domain.DateLayout, q.ValidUntil); err != nil {
		return nil, &domain.ErrValidation{Field: "valid_until", Message: "date must be YYYY-MM-DD"}
	}

	customer, err := s.customers.GetByID(ctx, tenant, q.CustomerID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	q.CustomerName = customer.Name
	q.Total = quotationTotal(q.Items)
	q.Status = domain.QuotationDraft
	q.CreatedAt = now
	q.CreatedBy = actor.UID
	q.UpdatedAt = now

	id, err := s.quotations.Create(ctx, tenant, q)
	if err != nil {
		return nil, err
	}
	q.ID = id

	s.bus.Publish(event.NewSignal("quotations/create"))
	return q, nil
}

// UpdateQuotationStatus moves a quotation through its lifecycle.
func (s *SalesService) UpdateQuotationStatus(ctx context.Context, tenant domain.Tenant, id string, status domain.QuotationStatus) (*domain.Quotation, error) {
	ctx, span := salesTracer.Start(ctx, "SalesService.UpdateQuotationStatus")
	defer span.End()
	span.SetAttributes(attribute.String("quotation.id", id))

	if !status.Valid() {
		return nil, &domain.ErrValidation{Field: "status", Message: "unknown status: " + string(status)}
	}
	current, err := s.quotations.GetByID(ctx, tenant, id)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.QuotationAccepted || current.Status == domain.QuotationRejected {
		return nil, &domain.ErrConflict{
			Resource: "quotation",
			Message:  "a " + string(current.Status) + " quotation cannot change status",
		}
	}

	now := s.Now()
	if err := s.quotations.Update(ctx, tenant, id, map[string]any{
		"status":     status,
		"updated_at": now,
	}); err != nil {
		return nil, err
	}
	updated := *current
	updated.Status = status
	updated.UpdatedAt = now

	s.bus.Publish(event.NewSignal("quotations/update"))
	return &updated, nil
}

// DeleteQuotation removes a quotation.
func (s *SalesService) DeleteQuotation(ctx context.Context, tenant domain.Tenant, id string) error {
	ctx, span := salesTracer.Start(ctx, "SalesService.DeleteQuotation")
	defer span.End()
	span.SetAttributes(attribute.String("quotation.id", id))

	if _, err := s.quotations.GetByID(ctx, tenant, id); err != nil {
		return err
	}
	if err := s.quotations.Delete(ctx, tenant, id); err != nil {
		return err
	}
	s.bus.Publish(event.NewSignal("quotations/delete"))
	return nil
}

// GetQuotation returns one quotation.
func (s *SalesService) GetQuotation(ctx context.Context, tenant domain.Tenant, id string) (*domain.Quotation, error) {
	ctx, span := salesTracer.Start(ctx, "SalesService.GetQuotation")
	defer span.End()

	return s.quotations.GetByID(ctx, tenant, id)
}

// ListQuotations returns the tenant's quotations.
func (s *SalesService) ListQuotations(ctx context.Context, tenant domain.Tenant) ([]domain.Quotation, error) {
	ctx, span := salesTracer.Start(ctx, "SalesService.ListQuotations")
	defer span.End()
	span.SetAttributes(attribute.String("tenant", string(tenant)))

	return s.quotations.ListAll(ctx, tenant)
}
