package service

import (
	"context"
	"strings"
	"time"

	"github.com/showroomhq/backoffice-go/internal/domain"
	"github.com/showroomhq/backoffice-go/internal/event"
	"github.com/showroomhq/backoffice-go/internal/infra/observability"
	"github.com/showroomhq/backoffice-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var customerTracer = otel.Tracer("service/customer")

// CustomerService owns customer records. Phone is the uniqueness key;
// the check is a pre-scan of the collection (see DESIGN.md on
// check-then-act windows). Listing is served through a TTL cache keyed
// by tenant, flushed on refresh signals.
type CustomerService struct {
	store   port.CustomerStore
	cache   port.Cache[[]domain.Customer]
	bus     port.RefreshPublisher
	metrics *observability.Metrics
	logger  *zap.Logger

	// Now is the clock; tests override it.
	Now func() time.Time
}

// NewCustomerService wires the customer workflow.
func NewCustomerService(
	store port.CustomerStore,
	cache port.Cache[[]domain.Customer],
	bus port.RefreshPublisher,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *CustomerService {
	return &CustomerService{
		store:   store,
		cache:   cache,
		bus:     bus,
		metrics: metrics,
		logger:  logger,
		Now:     time.Now,
	}
}

// findByPhone scans the collection for a customer with the phone.
func (s *CustomerService) findByPhone(ctx context.Context, tenant domain.Tenant, phone string) (*domain.Customer, error) {
	all, err := s.store.ListAll(ctx, tenant)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Phone == phone {
			return &all[i], nil
		}
	}
	return nil, nil
}

// Create registers a customer after the phone uniqueness pre-scan.
func (s *CustomerService) Create(ctx context.Context, tenant domain.Tenant, c *domain.Customer, actor domain.UserRef) (*domain.Customer, error) {
	ctx, span := customerTracer.Start(ctx, "CustomerService.Create")
	defer span.End()
	span.SetAttributes(attribute.String("tenant", string(tenant)))

	if strings.TrimSpace(c.Name) == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "name is required"}
	}
	if !domain.ValidPhone(c.Phone) {
		return nil, &domain.ErrValidation{Field: "phone", Message: "phone must be a valid 10-digit mobile number"}
	}
	existing, err := s.findByPhone(ctx, tenant, c.Phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &domain.ErrDuplicate{Resource: "customer", Field: "phone", Value: c.Phone}
	}

	now := s.Now()
	c.Name = strings.TrimSpace(c.Name)
	c.CreatedAt = now
	c.CreatedBy = actor.UID
	c.UpdatedAt = now
	c.UpdatedBy = actor.UID

	id, err := s.store.Create(ctx, tenant, c)
	if err != nil {
		return nil, err
	}
	c.ID = id

	s.cache.Delete(string(tenant))
	s.bus.Publish(event.NewSignal("customers/create"))
	return c, nil
}

// Update applies a partial update. Setting a customer's phone to its
// current value is a no-op success, not a duplicate.
func (s *CustomerService) Update(ctx context.Context, tenant domain.Tenant, id string, req *domain.CustomerUpdateRequest, actor domain.UserRef) (*domain.Customer, error) {
	ctx, span := customerTracer.Start(ctx, "CustomerService.Update")
	defer span.End()
	span.SetAttributes(attribute.String("customer.id", id))

	current, err := s.store.GetByID(ctx, tenant, id)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	fields := map[string]any{
		"updated_at": now,
		"updated_by": actor.UID,
	}
	updated := *current
	updated.UpdatedAt = now
	updated.UpdatedBy = actor.UID

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, &domain.ErrValidation{Field: "name", Message: "name cannot be empty"}
		}
		fields["name"] = name
		updated.Name = name
	}
	if req.Phone != nil && *req.Phone != current.Phone {
		if !domain.ValidPhone(*req.Phone) {
			return nil, &domain.ErrValidation{Field: "phone", Message: "phone must be a valid 10-digit mobile number"}
		}
		existing, err := s.findByPhone(ctx, tenant, *req.Phone)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, &domain.ErrDuplicate{Resource: "customer", Field: "phone", Value: *req.Phone}
		}
		fields["phone"] = *req.Phone
		updated.Phone = *req.Phone
	}
	if req.Email != nil {
		fields["email"] = *req.Email
		updated.Email = *req.Email
	}
	if req.Address != nil {
		fields["address"] = *req.Address
		updated.Address = *req.Address
	}
	if req.City != nil {
		fields["city"] = *req.City
		updated.City = *req.City
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
		updated.Notes = *req.Notes
	}

	if err := s.store.Update(ctx, tenant, id, fields); err != nil {
		return nil, err
	}

	s.cache.Delete(string(tenant))
	s.bus.Publish(event.NewSignal("customers/update"))
	return &updated, nil
}

// Delete removes a customer record.
func (s *CustomerService) Delete(ctx context.Context, tenant domain.Tenant, id string) error {
	ctx, span := customerTracer.Start(ctx, "CustomerService.Delete")
	defer span.End()
	span.SetAttributes(attribute.String("customer.id", id))

	if _, err := s.store.GetByID(ctx, tenant, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, tenant, id); err != nil {
		return err
	}
	s.cache.Delete(string(tenant))
	s.bus.Publish(event.NewSignal("customers/delete"))
	return nil
}

// GetByID returns one customer.
func (s *CustomerService) GetByID(ctx context.Context, tenant domain.Tenant, id string) (*domain.Customer, error) {
	ctx, span := customerTracer.Start(ctx, "CustomerService.GetByID")
	defer span.End()

	return s.store.GetByID(ctx, tenant, id)
}

// List returns the tenant's customers, cache first.
func (s *CustomerService) List(ctx context.Context, tenant domain.Tenant) ([]domain.Customer, error) {
	ctx, span := customerTracer.Start(ctx, "CustomerService.List")
	defer span.End()
	span.SetAttributes(attribute.String("tenant", string(tenant)))

	if cached, ok := s.cache.Get(string(tenant)); ok {
		s.metrics.IncrCacheHit("customers")
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached, nil
	}
	s.metrics.IncrCacheMiss("customers")

	all, err := s.store.ListAll(ctx, tenant)
	if err != nil {
		return nil, err
	}
	s.cache.Set(string(tenant), all)
	return all, nil
}

// Search matches name, phone or city, case-insensitive.
func (s *CustomerService) Search(ctx context.Context, tenant domain.Tenant, term string) ([]domain.Customer, error) {
	all, err := s.List(ctx, tenant)
	if err != nil {
		return nil, err
	}
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return all, nil
	}
	out := make([]domain.Customer, 0, len(all))
	for _, c := range all {
		hay := strings.ToLower(c.Name + "\n" + c.Phone + "\n" + c.City)
		if strings.Contains(hay, term) {
			out = append(out, c)
		}
	}
	return out, nil
}
