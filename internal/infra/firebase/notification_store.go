package firebase

import (
	"context"
	"sort"

	"github.com/showroomhq/backoffice-go/internal/domain"
)

// NotificationStore implements port.NotificationStore over the tree
// store.
type NotificationStore struct {
	col collection[domain.Notification]
}

// NewNotificationStore creates the notification collection adapter.
func NewNotificationStore(client *Client) *NotificationStore {
	return &NotificationStore{col: collection[domain.Notification]{
		client:  client,
		name:    ColNotifications,
		service: "firebase/notifications",
		setID:   func(n *domain.Notification, id string) { n.ID = id },
	}}
}

func (s *NotificationStore) Create(ctx context.Context, tenant domain.Tenant, n *domain.Notification) (string, error) {
	return s.col.create(ctx, tenant, n)
}

func (s *NotificationStore) Update(ctx context.Context, tenant domain.Tenant, id string, fields map[string]any) error {
	return s.col.update(ctx, tenant, id, fields)
}

func (s *NotificationStore) Delete(ctx context.Context, tenant domain.Tenant, id string) error {
	return s.col.delete(ctx, tenant, id)
}

// ListAll is the tenant-wide full read the engine scans before
// creating, since the store cannot enforce the one-per-pair rule.
func (s *NotificationStore) ListAll(ctx context.Context, tenant domain.Tenant) ([]domain.Notification, error) {
	return s.col.listAll(ctx, tenant)
}

// ListByUser fetches one recipient's notifications with an ordered
// query on user_id, newest first.
func (s *NotificationStore) ListByUser(ctx context.Context, tenant domain.Tenant, userID string) ([]domain.Notification, error) {
	recs := map[string]domain.Notification{}
	found, err := s.col.client.Query(ctx, CollectionPath(tenant, ColNotifications), "user_id", userID, &recs)
	if err != nil {
		return nil, s.col.wrap(err)
	}
	if !found {
		return []domain.Notification{}, nil
	}

	keys := make([]string, 0, len(recs))
	for k := range recs {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	out := make([]domain.Notification, 0, len(keys))
	for _, k := range keys {
		n := recs[k]
		n.ID = k
		out = append(out, n)
	}
	return out, nil
}
