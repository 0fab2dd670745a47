package firebase

import (
	"context"

	"github.com/showroomhq/backoffice-go/internal/domain"
)

// Flat-record adapters for customers, employees, sales and quotations.
// These collections have no store-side reads beyond the shared record
// operations, so they share one file.

// CustomerStore implements port.CustomerStore.
type CustomerStore struct {
	col collection[domain.Customer]
}

// NewCustomerStore creates the customer collection adapter.
func NewCustomerStore(client *Client) *CustomerStore {
	return &CustomerStore{col: collection[domain.Customer]{
		client:  client,
		name:    ColCustomers,
		service: "firebase/customers",
		setID:   func(c *domain.Customer, id string) { c.ID = id },
	}}
}

func (s *CustomerStore) Create(ctx context.Context, tenant domain.Tenant, c *domain.Customer) (string, error) {
	return s.col.create(ctx, tenant, c)
}

func (s *CustomerStore) Update(ctx context.Context, tenant domain.Tenant, id string, fields map[string]any) error {
	return s.col.update(ctx, tenant, id, fields)
}

func (s *CustomerStore) Delete(ctx context.Context, tenant domain.Tenant, id string) error {
	return s.col.delete(ctx, tenant, id)
}

func (s *CustomerStore) GetByID(ctx context.Context, tenant domain.Tenant, id string) (*domain.Customer, error) {
	return s.col.getByID(ctx, tenant, id)
}

func (s *CustomerStore) ListAll(ctx context.Context, tenant domain.Tenant) ([]domain.Customer, error) {
	return s.col.listAll(ctx, tenant)
}

// EmployeeStore implements port.EmployeeStore.
type EmployeeStore struct {
	col collection[domain.Employee]
}

// NewEmployeeStore creates the employee collection adapter.
func NewEmployeeStore(client *Client) *EmployeeStore {
	return &EmployeeStore{col: collection[domain.Employee]{
		client:  client,
		name:    ColEmployees,
		service: "firebase/employees",
		setID:   func(e *domain.Employee, id string) { e.ID = id },
	}}
}

func (s *EmployeeStore) Create(ctx context.Context, tenant domain.Tenant, e *domain.Employee) (string, error) {
	return s.col.create(ctx, tenant, e)
}

func (s *EmployeeStore) Update(ctx context.Context, tenant domain.Tenant, id string, fields map[string]any) error {
	return s.col.update(ctx, tenant, id, fields)
}

func (s *EmployeeStore) Delete(ctx context.Context, tenant domain.Tenant, id string) error {
	return s.col.delete(ctx, tenant, id)
}

func (s *EmployeeStore) GetByID(ctx context.Context, tenant domain.Tenant, id string) (*domain.Employee, error) {
	return s.col.getByID(ctx, tenant, id)
}

func (s *EmployeeStore) ListAll(ctx context.Context, tenant domain.Tenant) ([]domain.Employee, error) {
	return s.col.listAll(ctx, tenant)
}

// SalesStore implements port.SalesStore.
type SalesStore struct {
	col collection[domain.Sale]
}

// NewSalesStore creates the sales collection adapter.
func NewSalesStore(client *Client) *SalesStore {
	return &SalesStore{col: collection[domain.Sale]{
		client:  client,
		name:    ColSales,
		service: "firebase/sales",
		setID:   func(s *domain.Sale, id string) { s.ID = id },
	}}
}

func (s *SalesStore) Create(ctx context.Context, tenant domain.Tenant, sale *domain.Sale) (string, error) {
	return s.col.create(ctx, tenant, sale)
}

func (s *SalesStore) Update(ctx context.Context, tenant domain.Tenant, id string, fields map[string]any) error {
	return s.col.update(ctx, tenant, id, fields)
}

func (s *SalesStore) Delete(ctx context.Context, tenant domain.Tenant, id string) error {
	return s.col.delete(ctx, tenant, id)
}

func (s *SalesStore) GetByID(ctx context.Context, tenant domain.Tenant, id string) (*domain.Sale, error) {
	return s.col.getByID(ctx, tenant, id)
}

func (s *SalesStore) ListAll(ctx context.Context, tenant domain.Tenant) ([]domain.Sale, error) {
	return s.col.listAll(ctx, tenant)
}

// QuotationStore implements port.QuotationStore.
type QuotationStore struct {
	col collection[domain.Quotation]
}

// NewQuotationStore creates the quotation collection adapter.
func NewQuotationStore(client *Client) *QuotationStore {
	return &QuotationStore{col: collection[domain.Quotation]{
		client:  client,
		name:    ColQuotations,
		service: "firebase/quotations",
		setID:   func(q *domain.Quotation, id string) { q.ID = id },
	}}
}

func (s *QuotationStore) Create(ctx context.Context, tenant domain.Tenant, q *domain.Quotation) (string, error) {
	return s.col.create(ctx, tenant, q)
}

func (s *QuotationStore) Update(ctx context.Context, tenant domain.Tenant, id string, fields map[string]any) error {
	return s.col.update(ctx, tenant, id, fields)
}

func (s *QuotationStore) Delete(ctx context.Context, tenant domain.Tenant, id string) error {
	return s.col.delete(ctx, tenant, id)
}

func (s *QuotationStore) GetByID(ctx context.Context, tenant domain.Tenant, id string) (*domain.Quotation, error) {
	return s.col.getByID(ctx, tenant, id)
}

func (s *QuotationStore) ListAll(ctx context.Context, tenant domain.Tenant) ([]domain.Quotation, error) {
	return s.col.listAll(ctx, tenant)
}
