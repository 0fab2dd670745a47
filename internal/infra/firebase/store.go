package firebase

import (
	"context"
	"sort"

	"github.com/showroomhq/backoffice-go/internal/domain"
)

// collection bundles the record operations shared by every tenant
// collection. Entity stores wrap it and add their specific reads.
type collection[T any] struct {
	client  *Client
	name    string
	service string
	setID   func(*T, string)
}

func (col *collection[T]) wrap(err error) error {
	col.client.metrics.IncrStoreError(col.name)
	return &domain.ErrExternalService{Service: col.service, Err: err}
}

// create pushes the record under a generated key, then stamps that key
// into the record's id field (push-then-stamp, matching how the store's
// web clients create records).
func (col *collection[T]) create(ctx context.Context, tenant domain.Tenant, rec *T) (string, error) {
	key, err := col.client.Push(ctx, CollectionPath(tenant, col.name), rec)
	if err != nil {
		return "", col.wrap(err)
	}
	col.setID(rec, key)
	if err := col.client.Patch(ctx, RecordPath(tenant, col.name, key), map[string]any{"id": key}); err != nil {
		return "", col.wrap(err)
	}
	return key, nil
}

func (col *collection[T]) update(ctx context.Context, tenant domain.Tenant, id string, fields map[string]any) error {
	if err := col.client.Patch(ctx, RecordPath(tenant, col.name, id), fields); err != nil {
		return col.wrap(err)
	}
	return nil
}

func (col *collection[T]) delete(ctx context.Context, tenant domain.Tenant, id string) error {
	if err := col.client.Delete(ctx, RecordPath(tenant, col.name, id)); err != nil {
		return col.wrap(err)
	}
	return nil
}

func (col *collection[T]) getByID(ctx context.Context, tenant domain.Tenant, id string) (*T, error) {
	var rec T
	found, err := col.client.Get(ctx, RecordPath(tenant, col.name, id), &rec)
	if err != nil {
		return nil, col.wrap(err)
	}
	if !found {
		return nil, &domain.ErrNotFound{Resource: col.name, ID: id}
	}
	col.setID(&rec, id)
	return &rec, nil
}

// listAll fetches the whole collection. Push keys are chronologically
// ordered, so sorting keys reproduces the tree's storage order.
func (col *collection[T]) listAll(ctx context.Context, tenant domain.Tenant) ([]T, error) {
	recs := map[string]T{}
	found, err := col.client.Get(ctx, CollectionPath(tenant, col.name), &recs)
	if err != nil {
		return nil, col.wrap(err)
	}
	if !found {
		return []T{}, nil
	}

	keys := make([]string, 0, len(recs))
	for k := range recs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]T, 0, len(keys))
	for _, k := range keys {
		rec := recs[k]
		col.setID(&rec, k)
		out = append(out, rec)
	}
	return out, nil
}
