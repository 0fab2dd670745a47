package service

import (
	"context"
	"testing"
	"time"

	"github.com/showroomhq/backoffice-go/internal/domain"
	"github.com/showroomhq/backoffice-go/internal/infra/observability"

	"go.uber.org/zap"
)

type customerFixture struct {
	svc   *CustomerService
	store *mockCustomerStore
	cache *mockCache[[]domain.Customer]
	bus   *mockBus
}

func newCustomerFixture() *customerFixture {
	f := &customerFixture{
		store: newMockCustomerStore(),
		cache: newMockCache[[]domain.Customer](),
		bus:   &mockBus{},
	}
	f.svc = NewCustomerService(f.store, f.cache, f.bus, observability.NewMetrics(), zap.NewNop())
	f.svc.Now = func() time.Time { return testNow }
	return f
}

func TestCreateCustomer_PhoneDedupe(t *testing.T) {
	f := newCustomerFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, domain.TenantElectronics, &domain.Customer{
		Name: "Meena Iyer", Phone: "9812345678", City: "Chennai",
	}, actor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" || created.CreatedBy != actor.UID {
		t.Errorf("ID/created_by not stamped: %+v", created)
	}

	_, err = f.svc.Create(ctx, domain.TenantElectronics, &domain.Customer{
		Name: "Other Person", Phone: "9812345678",
	}, actor)
	var dup *domain.ErrDuplicate
	if !asErr(err, &dup) {
		t.Fatalf("expected duplicate phone error, got %v", err)
	}
}

func TestCreateCustomer_Validation(t *testing.T) {
	f := newCustomerFixture()
	ctx := context.Background()

	var validation *domain.ErrValidation
	_, err := f.svc.Create(ctx, domain.TenantElectronics, &domain.Customer{Phone: "9812345678"}, actor)
	if !asErr(err, &validation) {
		t.Fatalf("expected validation error for missing name, got %v", err)
	}
	_, err = f.svc.Create(ctx, domain.TenantElectronics, &domain.Customer{Name: "X Y", Phone: "12345"}, actor)
	if !asErr(err, &validation) {
		t.Fatalf("expected validation error for bad phone, got %v", err)
	}
}

func TestUpdateCustomer_OwnPhoneIsNoConflict(t *testing.T) {
	f := newCustomerFixture()
	ctx := context.Background()

	a, err := f.svc.Create(ctx, domain.TenantElectronics, &domain.Customer{
		Name: "Meena Iyer", Phone: "9812345678",
	}, actor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	b, err := f.svc.Create(ctx, domain.TenantElectronics, &domain.Customer{
		Name: "Arun Shah", Phone: "9700012345",
	}, actor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Re-submitting the current phone is not a conflict.
	same := "9812345678"
	name := "Meena R Iyer"
	updated, err := f.svc.Update(ctx, domain.TenantElectronics, a.ID, &domain.CustomerUpdateRequest{
		Name: &name, Phone: &same,
	}, actor)
	if err != nil {
		t.Fatalf("Update with own phone: %v", err)
	}
	if updated.Name != "Meena R Iyer" {
		t.Errorf("name not updated: %q", updated.Name)
	}

	// Taking another customer's phone is.
	taken := "9700012345"
	_, err = f.svc.Update(ctx, domain.TenantElectronics, a.ID, &domain.CustomerUpdateRequest{Phone: &taken}, actor)
	var dup *domain.ErrDuplicate
	if !asErr(err, &dup) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	_ = b
}

func TestListCustomers_CacheHitAndInvalidation(t *testing.T) {
	f := newCustomerFixture()
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, domain.TenantElectronics, &domain.Customer{
		Name: "Meena Iyer", Phone: "9812345678",
	}, actor); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := f.svc.List(ctx, domain.TenantElectronics); err != nil {
		t.Fatalf("List: %v", err)
	}
	if _, err := f.svc.List(ctx, domain.TenantElectronics); err != nil {
		t.Fatalf("List: %v", err)
	}
	if f.cache.misses != 1 || f.cache.hits != 1 {
		t.Errorf("cache hits=%d misses=%d, want 1/1", f.cache.hits, f.cache.misses)
	}

	// A write drops the tenant's entry; the next list reloads.
	if _, err := f.svc.Create(ctx, domain.TenantElectronics, &domain.Customer{
		Name: "Arun Shah", Phone: "9700012345",
	}, actor); err != nil {
		t.Fatalf("Create: %v", err)
	}
	all, err := f.svc.List(ctx, domain.TenantElectronics)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 customers after invalidation, got %d", len(all))
	}
	if f.cache.misses != 2 {
		t.Errorf("expected a second miss after invalidation, got %d", f.cache.misses)
	}
	if f.bus.count() == 0 {
		t.Error("expected refresh signals from writes")
	}
}

func TestSearchCustomers(t *testing.T) {
	f := newCustomerFixture()
	ctx := context.Background()

	seed := []domain.Customer{
		{Name: "Meena Iyer", Phone: "9812345678", City: "Chennai"},
		{Name: "Arun Shah", Phone: "9700012345", City: "Mumbai"},
	}
	for i := range seed {
		if _, err := f.svc.Create(ctx, domain.TenantElectronics, &seed[i], actor); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	hits, err := f.svc.Search(ctx, domain.TenantElectronics, "chennai")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].Name != "Meena Iyer" {
		t.Errorf("city search: %+v", hits)
	}

	hits, err = f.svc.Search(ctx, domain.TenantElectronics, "9700")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].Name != "Arun Shah" {
		t.Errorf("phone search: %+v", hits)
	}

	all, err := f.svc.Search(ctx, domain.TenantElectronics, "  ")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("blank term should return everything, got %d", len(all))
	}
}

func TestDeleteCustomer(t *testing.T) {
	f := newCustomerFixture()
	ctx := context.Background()

	c, err := f.svc.Create(ctx, domain.TenantElectronics, &domain.Customer{
		Name: "Meena Iyer", Phone: "9812345678",
	}, actor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := f.svc.Delete(ctx, domain.TenantElectronics, c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	var notFound *domain.ErrNotFound
	if _, err := f.svc.GetByID(ctx, domain.TenantElectronics, c.ID); !asErr(err, &notFound) {
		t.Fatalf("expected NotFound after delete, got %v", err)
	}
}
