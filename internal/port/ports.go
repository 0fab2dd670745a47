// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/showroomhq/backoffice-go/internal/domain"
	"github.com/showroomhq/backoffice-go/internal/event"
)

// ComplaintStore defines the complaint collection operations.
// All listing is a full-collection fetch; filtering/sorting happens in
// the service layer behind the query abstraction, matching the storage
// collaborator's lack of native queries.
type ComplaintStore interface {
	Create(ctx context.Context, tenant domain.Tenant, c *domain.Complaint) (string, error)
	Update(ctx context.Context, tenant domain.Tenant, id string, fields map[string]any) error
	Delete(ctx context.Context, tenant domain.Tenant, id string) error
	GetByID(ctx context.Context, tenant domain.Tenant, id string) (*domain.Complaint, error)
	ListAll(ctx context.Context, tenant domain.Tenant) ([]domain.Complaint, error)
	// Count returns the current collection size, used for complaint
	// number sequencing (known check-then-act race, see DESIGN.md).
	Count(ctx context.Context, tenant domain.Tenant) (int, error)
}

// BrandStore defines brand and default-hierarchy operations.
type BrandStore interface {
	Create(ctx context.Context, tenant domain.Tenant, b *domain.Brand) (string, error)
	Update(ctx context.Context, tenant domain.Tenant, id string, fields map[string]any) error
	Delete(ctx context.Context, tenant domain.Tenant, id string) error
	GetByID(ctx context.Context, tenant domain.Tenant, id string) (*domain.Brand, error)
	// ListAll returns brands in storage order; title detection relies
	// on first-match-wins over this order.
	ListAll(ctx context.Context, tenant domain.Tenant) ([]domain.Brand, error)
	GetDefaultHierarchy(ctx context.Context, tenant domain.Tenant) (*domain.DefaultHierarchy, error)
	SetDefaultHierarchy(ctx context.Context, tenant domain.Tenant, h *domain.DefaultHierarchy) error
}

// NotificationStore defines notification record operations.
type NotificationStore interface {
	Create(ctx context.Context, tenant domain.Tenant, n *domain.Notification) (string, error)
	Update(ctx context.Context, tenant domain.Tenant, id string, fields map[string]any) error
	Delete(ctx context.Context, tenant domain.Tenant, id string) error
	// ListAll is the tenant-wide pre-read the engine dedupes against.
	ListAll(ctx context.Context, tenant domain.Tenant) ([]domain.Notification, error)
	ListByUser(ctx context.Context, tenant domain.Tenant, userID string) ([]domain.Notification, error)
}

// CustomerStore defines customer collection operations.
type CustomerStore interface {
	Create(ctx context.Context, tenant domain.Tenant, c *domain.Customer) (string, error)
	Update(ctx context.Context, tenant domain.Tenant, id string, fields map[string]any) error
	Delete(ctx context.Context, tenant domain.Tenant, id string) error
	GetByID(ctx context.Context, tenant domain.Tenant, id string) (*domain.Customer, error)
	ListAll(ctx context.Context, tenant domain.Tenant) ([]domain.Customer, error)
}

// EmployeeStore defines employee collection operations.
type EmployeeStore interface {
	Create(ctx context.Context, tenant domain.Tenant, e *domain.Employee) (string, error)
	Update(ctx context.Context, tenant domain.Tenant, id string, fields map[string]any) error
	Delete(ctx context.Context, tenant domain.Tenant, id string) error
	GetByID(ctx context.Context, tenant domain.Tenant, id string) (*domain.Employee, error)
	ListAll(ctx context.Context, tenant domain.Tenant) ([]domain.Employee, error)
}

// SalesStore defines sale collection operations.
type SalesStore interface {
	Create(ctx context.Context, tenant domain.Tenant, s *domain.Sale) (string, error)
	Update(ctx context.Context, tenant domain.Tenant, id string, fields map[string]any) error
	Delete(ctx context.Context, tenant domain.Tenant, id string) error
	GetByID(ctx context.Context, tenant domain.Tenant, id string) (*domain.Sale, error)
	ListAll(ctx context.Context, tenant domain.Tenant) ([]domain.Sale, error)
}

// QuotationStore defines quotation collection operations.
type QuotationStore interface {
	Create(ctx context.Context, tenant domain.Tenant, q *domain.Quotation) (string, error)
	Update(ctx context.Context, tenant domain.Tenant, id string, fields map[string]any) error
	Delete(ctx context.Context, tenant domain.Tenant, id string) error
	GetByID(ctx context.Context, tenant domain.Tenant, id string) (*domain.Quotation, error)
	ListAll(ctx context.Context, tenant domain.Tenant) ([]domain.Quotation, error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
	Flush()
}

// RefreshPublisher broadcasts "state may have changed" hints after
// mutations. A level-triggered invalidation signal, not a data channel.
type RefreshPublisher interface {
	Publish(sig event.Signal)
}
