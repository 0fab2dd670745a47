package service

import (
	"context"
	"testing"
	"time"

	"github.com/showroomhq/backoffice-go/internal/domain"

	"go.uber.org/zap"
)

type salesFixture struct {
	svc        *SalesService
	sales      *mockSalesStore
	quotations *mockQuotationStore
	bus        *mockBus
	customerID string
	employeeID string
}

func newSalesFixture(t *testing.T) *salesFixture {
	t.Helper()
	f := &salesFixture{
		sales:      newMockSalesStore(),
		quotations: newMockQuotationStore(),
		bus:        &mockBus{},
	}
	customers := newMockCustomerStore()
	employees := newMockEmployeeStore()
	f.svc = NewSalesService(f.sales, f.quotations, customers, employees, f.bus, zap.NewNop())
	f.svc.Now = func() time.Time { return testNow }

	var err error
	f.customerID, err = customers.Create(context.Background(), domain.TenantFurniture, &domain.Customer{
		Name: "Meena Iyer", Phone: "9812345678",
	})
	if err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	f.employeeID, err = employees.Create(context.Background(), domain.TenantFurniture, &domain.Employee{
		Name: "Ravi Kumar", Role: domain.RoleSales, Active: true,
	})
	if err != nil {
		t.Fatalf("seed employee: %v", err)
	}
	return f
}

func (f *salesFixture) validSale() *domain.Sale {
	return &domain.Sale{
		CustomerID:  f.customerID,
		EmployeeID:  f.employeeID,
		Items:       "3-seater sofa",
		Amount:      45000,
		PaymentType: domain.PaymentEMI,
		SaleDate:    dateOffset(0),
	}
}

func TestCreateSale_DenormalizesNames(t *testing.T) {
	f := newSalesFixture(t)

	sale, err := f.svc.CreateSale(context.Background(), domain.TenantFurniture, f.validSale(), actor)
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	if sale.ID == "" {
		t.Error("ID not assigned")
	}
	if sale.CustomerName != "Meena Iyer" || sale.EmployeeName != "Ravi Kumar" {
		t.Errorf("names not denormalized: %q / %q", sale.CustomerName, sale.EmployeeName)
	}
	if sale.CreatedBy != actor.UID {
		t.Errorf("created_by = %q", sale.CreatedBy)
	}
	if f.bus.count() == 0 {
		t.Error("expected a refresh signal")
	}
}

func TestCreateSale_Validation(t *testing.T) {
	f := newSalesFixture(t)

	cases := []struct {
		name   string
		mutate func(*domain.Sale)
	}{
		{"missing customer", func(s *domain.Sale) { s.CustomerID = "" }},
		{"missing employee", func(s *domain.Sale) { s.EmployeeID = "" }},
		{"zero amount", func(s *domain.Sale) { s.Amount = 0 }},
		{"negative amount", func(s *domain.Sale) { s.Amount = -10 }},
		{"bad payment type", func(s *domain.Sale) { s.PaymentType = "cheque" }},
		{"bad date", func(s *domain.Sale) { s.SaleDate = "10/03/2026" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sale := f.validSale()
			tc.mutate(sale)
			_, err := f.svc.CreateSale(context.Background(), domain.TenantFurniture, sale, actor)
			var validation *domain.ErrValidation
			if !asErr(err, &validation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	// Unknown customer surfaces the lookup failure.
	sale := f.validSale()
	sale.CustomerID = "nope"
	_, err := f.svc.CreateSale(context.Background(), domain.TenantFurniture, sale, actor)
	var notFound *domain.ErrNotFound
	if !asErr(err, &notFound) {
		t.Fatalf("expected NotFound for unknown customer, got %v", err)
	}
}

func TestUpdateSalePayment(t *testing.T) {
	f := newSalesFixture(t)
	sale, err := f.svc.CreateSale(context.Background(), domain.TenantFurniture, f.validSale(), actor)
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	updated, err := f.svc.UpdateSalePayment(context.Background(), domain.TenantFurniture, sale.ID, domain.PaymentFull)
	if err != nil {
		t.Fatalf("UpdateSalePayment: %v", err)
	}
	if updated.PaymentType != domain.PaymentFull {
		t.Errorf("payment type = %s", updated.PaymentType)
	}

	_, err = f.svc.UpdateSalePayment(context.Background(), domain.TenantFurniture, sale.ID, "cheque")
	var validation *domain.ErrValidation
	if !asErr(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateQuotation_RecomputesTotal(t *testing.T) {
	f := newSalesFixture(t)

	q, err := f.svc.CreateQuotation(context.Background(), domain.TenantFurniture, &domain.Quotation{
		CustomerID: f.customerID,
		Items: []domain.QuotationItem{
			{Description: "dining table", Quantity: 1, UnitPrice: 30000},
			{Description: "chair", Quantity: 4, UnitPrice: 2500},
		},
		Total:      1, // caller-supplied totals are ignored
		ValidUntil: dateOffset(30),
		Status:     domain.QuotationSent,
	}, actor)
	if err != nil {
		t.Fatalf("CreateQuotation: %v", err)
	}
	if q.Total != 40000 {
		t.Errorf("total = %v, want 40000", q.Total)
	}
	if q.Status != domain.QuotationDraft {
		t.Errorf("new quotations start as draft, got %s", q.Status)
	}
	if q.CustomerName != "Meena Iyer" {
		t.Errorf("customer name not denormalized: %q", q.CustomerName)
	}
}

func TestCreateQuotation_Validation(t *testing.T) {
	f := newSalesFixture(t)
	ctx := context.Background()

	var validation *domain.ErrValidation
	_, err := f.svc.CreateQuotation(ctx, domain.TenantFurniture, &domain.Quotation{
		CustomerID: f.customerID, ValidUntil: dateOffset(30),
	}, actor)
	if !asErr(err, &validation) {
		t.Fatalf("expected validation error for no items, got %v", err)
	}

	_, err = f.svc.CreateQuotation(ctx, domain.TenantFurniture, &domain.Quotation{
		CustomerID: f.customerID,
		Items:      []domain.QuotationItem{{Description: "chair", Quantity: 0, UnitPrice: 2500}},
		ValidUntil: dateOffset(30),
	}, actor)
	if !asErr(err, &validation) {
		t.Fatalf("expected validation error for zero quantity, got %v", err)
	}
}

func TestUpdateQuotationStatus_TerminalStatuses(t *testing.T) {
	f := newSalesFixture(t)
	ctx := context.Background()

	q, err := f.svc.CreateQuotation(ctx, domain.TenantFurniture, &domain.Quotation{
		CustomerID: f.customerID,
		Items:      []domain.QuotationItem{{Description: "wardrobe", Quantity: 1, UnitPrice: 55000}},
		ValidUntil: dateOffset(30),
	}, actor)
	if err != nil {
		t.Fatalf("CreateQuotation: %v", err)
	}

	sent, err := f.svc.UpdateQuotationStatus(ctx, domain.TenantFurniture, q.ID, domain.QuotationSent)
	if err != nil {
		t.Fatalf("draft -> sent: %v", err)
	}
	if sent.Status != domain.QuotationSent {
		t.Errorf("status = %s", sent.Status)
	}

	if _, err := f.svc.UpdateQuotationStatus(ctx, domain.TenantFurniture, q.ID, domain.QuotationAccepted); err != nil {
		t.Fatalf("sent -> accepted: %v", err)
	}

	_, err = f.svc.UpdateQuotationStatus(ctx, domain.TenantFurniture, q.ID, domain.QuotationRejected)
	var conflict *domain.ErrConflict
	if !asErr(err, &conflict) {
		t.Fatalf("expected conflict on accepted quotation, got %v", err)
	}
}
