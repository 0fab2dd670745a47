package firebase

import (
	"context"

	"github.com/showroomhq/backoffice-go/internal/domain"
)

// ComplaintStore implements port.ComplaintStore over the tree store.
type ComplaintStore struct {
	col collection[domain.Complaint]
}

// NewComplaintStore creates the complaint collection adapter.
func NewComplaintStore(client *Client) *ComplaintStore {
	return &ComplaintStore{col: collection[domain.Complaint]{
		client:  client,
		name:    ColComplaints,
		service: "firebase/complaints",
		setID:   func(c *domain.Complaint, id string) { c.ID = id },
	}}
}

func (s *ComplaintStore) Create(ctx context.Context, tenant domain.Tenant, c *domain.Complaint) (string, error) {
	return s.col.create(ctx, tenant, c)
}

func (s *ComplaintStore) Update(ctx context.Context, tenant domain.Tenant, id string, fields map[string]any) error {
	return s.col.update(ctx, tenant, id, fields)
}

func (s *ComplaintStore) Delete(ctx context.Context, tenant domain.Tenant, id string) error {
	return s.col.delete(ctx, tenant, id)
}

func (s *ComplaintStore) GetByID(ctx context.Context, tenant domain.Tenant, id string) (*domain.Complaint, error) {
	return s.col.getByID(ctx, tenant, id)
}

func (s *ComplaintStore) ListAll(ctx context.Context, tenant domain.Tenant) ([]domain.Complaint, error) {
	return s.col.listAll(ctx, tenant)
}

// Count returns the collection size by fetching the collection keys.
// Used for complaint number sequencing; concurrent creators can read
// the same size (accepted race, the store has no counters).
func (s *ComplaintStore) Count(ctx context.Context, tenant domain.Tenant) (int, error) {
	all, err := s.col.listAll(ctx, tenant)
	if err != nil {
		return 0, err
	}
	return len(all), nil
}
