package firebase

import (
	"context"

	"github.com/showroomhq/backoffice-go/internal/domain"
)

// BrandStore implements port.BrandStore over the tree store. The
// default hierarchy lives at a fixed singleton node next to the brand
// collection.
type BrandStore struct {
	client *Client
	col    collection[domain.Brand]
}

// NewBrandStore creates the brand collection adapter.
func NewBrandStore(client *Client) *BrandStore {
	return &BrandStore{
		client: client,
		col: collection[domain.Brand]{
			client:  client,
			name:    ColBrands,
			service: "firebase/brands",
			setID:   func(b *domain.Brand, id string) { b.ID = id },
		},
	}
}

func (s *BrandStore) Create(ctx context.Context, tenant domain.Tenant, b *domain.Brand) (string, error) {
	return s.col.create(ctx, tenant, b)
}

func (s *BrandStore) Update(ctx context.Context, tenant domain.Tenant, id string, fields map[string]any) error {
	return s.col.update(ctx, tenant, id, fields)
}

func (s *BrandStore) Delete(ctx context.Context, tenant domain.Tenant, id string) error {
	return s.col.delete(ctx, tenant, id)
}

func (s *BrandStore) GetByID(ctx context.Context, tenant domain.Tenant, id string) (*domain.Brand, error) {
	return s.col.getByID(ctx, tenant, id)
}

func (s *BrandStore) ListAll(ctx context.Context, tenant domain.Tenant) ([]domain.Brand, error) {
	return s.col.listAll(ctx, tenant)
}

// GetDefaultHierarchy reads the tenant's singleton fallback contact.
// Absence is NotFound: a tenant without a default has no fallback.
func (s *BrandStore) GetDefaultHierarchy(ctx context.Context, tenant domain.Tenant) (*domain.DefaultHierarchy, error) {
	var h domain.DefaultHierarchy
	found, err := s.client.Get(ctx, CollectionPath(tenant, ColDefaultHierarchy), &h)
	if err != nil {
		s.client.metrics.IncrStoreError(ColDefaultHierarchy)
		return nil, &domain.ErrExternalService{Service: "firebase/default_hierarchy", Err: err}
	}
	if !found {
		return nil, &domain.ErrNotFound{Resource: "default_hierarchy", ID: string(tenant)}
	}
	return &h, nil
}

// SetDefaultHierarchy replaces the singleton node.
func (s *BrandStore) SetDefaultHierarchy(ctx context.Context, tenant domain.Tenant, h *domain.DefaultHierarchy) error {
	if err := s.client.Set(ctx, CollectionPath(tenant, ColDefaultHierarchy), h); err != nil {
		s.client.metrics.IncrStoreError(ColDefaultHierarchy)
		return &domain.ErrExternalService{Service: "firebase/default_hierarchy", Err: err}
	}
	return nil
}
