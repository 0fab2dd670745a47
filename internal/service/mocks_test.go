package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/showroomhq/backoffice-go/internal/domain"
	"github.com/showroomhq/backoffice-go/internal/event"
)

// In-memory stores backing the service tests. Keys are zero-padded
// counters so storage order matches insertion order, like push keys.

type memKeys struct {
	mu   sync.Mutex
	next int
}

func (k *memKeys) newKey() string {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.next++
	return fmt.Sprintf("key%04d", k.next)
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ------------------------------------------------------------
// Complaints
// ------------------------------------------------------------

type mockComplaintStore struct {
	memKeys
	items map[string]*domain.Complaint

	createErr error
	updateErr error
}

func newMockComplaintStore() *mockComplaintStore {
	return &mockComplaintStore{items: map[string]*domain.Complaint{}}
}

func (m *mockComplaintStore) Create(_ context.Context, _ domain.Tenant, c *domain.Complaint) (string, error) {
	if m.createErr != nil {
		return "", m.createErr
	}
	id := m.newKey()
	cp := *c
	cp.ID = id
	m.items[id] = &cp
	return id, nil
}

func (m *mockComplaintStore) Update(_ context.Context, _ domain.Tenant, id string, fields map[string]any) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	c, ok := m.items[id]
	if !ok {
		return &domain.ErrNotFound{Resource: "complaint", ID: id}
	}
	for k, v := range fields {
		switch k {
		case "status":
			c.Status = v.(domain.ComplaintStatus)
		case "status_history":
			c.StatusHistory = v.([]domain.StatusHistoryEntry)
		case "title":
			c.Title = v.(string)
		case "description":
			c.Description = v.(string)
		case "expected_resolution_date":
			c.ExpectedResolutionDate = v.(string)
		case "service_person_name":
			c.ServicePersonName = v.(string)
		case "service_person_contact":
			c.ServicePersonContact = v.(string)
		case "assignee_type":
			c.AssigneeType = v.(domain.AssigneeType)
		}
	}
	return nil
}

func (m *mockComplaintStore) Delete(_ context.Context, _ domain.Tenant, id string) error {
	delete(m.items, id)
	return nil
}

func (m *mockComplaintStore) GetByID(_ context.Context, _ domain.Tenant, id string) (*domain.Complaint, error) {
	c, ok := m.items[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "complaint", ID: id}
	}
	cp := *c
	return &cp, nil
}

func (m *mockComplaintStore) ListAll(_ context.Context, _ domain.Tenant) ([]domain.Complaint, error) {
	out := make([]domain.Complaint, 0, len(m.items))
	for _, k := range sortedKeys(m.items) {
		out = append(out, *m.items[k])
	}
	return out, nil
}

func (m *mockComplaintStore) Count(_ context.Context, _ domain.Tenant) (int, error) {
	return len(m.items), nil
}

// ------------------------------------------------------------
// Brands
// ------------------------------------------------------------

type mockBrandStore struct {
	memKeys
	items      map[string]*domain.Brand
	defaultHie *domain.DefaultHierarchy
}

func newMockBrandStore() *mockBrandStore {
	return &mockBrandStore{items: map[string]*domain.Brand{}}
}

func (m *mockBrandStore) Create(_ context.Context, _ domain.Tenant, b *domain.Brand) (string, error) {
	id := m.newKey()
	cp := *b
	cp.ID = id
	m.items[id] = &cp
	return id, nil
}

func (m *mockBrandStore) Update(_ context.Context, _ domain.Tenant, id string, fields map[string]any) error {
	b, ok := m.items[id]
	if !ok {
		return &domain.ErrNotFound{Resource: "brand", ID: id}
	}
	for k, v := range fields {
		switch k {
		case "brand_name":
			b.BrandName = v.(string)
		case "hierarchy":
			b.Hierarchy = v.([]domain.HierarchyLevel)
		}
	}
	return nil
}

func (m *mockBrandStore) Delete(_ context.Context, _ domain.Tenant, id string) error {
	delete(m.items, id)
	return nil
}

func (m *mockBrandStore) GetByID(_ context.Context, _ domain.Tenant, id string) (*domain.Brand, error) {
	b, ok := m.items[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "brand", ID: id}
	}
	cp := *b
	return &cp, nil
}

func (m *mockBrandStore) ListAll(_ context.Context, _ domain.Tenant) ([]domain.Brand, error) {
	out := make([]domain.Brand, 0, len(m.items))
	for _, k := range sortedKeys(m.items) {
		out = append(out, *m.items[k])
	}
	return out, nil
}

func (m *mockBrandStore) GetDefaultHierarchy(_ context.Context, _ domain.Tenant) (*domain.DefaultHierarchy, error) {
	if m.defaultHie == nil {
		return nil, &domain.ErrNotFound{Resource: "default_hierarchy", ID: "default"}
	}
	cp := *m.defaultHie
	return &cp, nil
}

func (m *mockBrandStore) SetDefaultHierarchy(_ context.Context, _ domain.Tenant, h *domain.DefaultHierarchy) error {
	cp := *h
	m.defaultHie = &cp
	return nil
}

// ------------------------------------------------------------
// Notifications
// ------------------------------------------------------------

type mockNotificationStore struct {
	memKeys
	items map[string]*domain.Notification

	createErr error
	deleteErr error
}

func newMockNotificationStore() *mockNotificationStore {
	return &mockNotificationStore{items: map[string]*domain.Notification{}}
}

func (m *mockNotificationStore) Create(_ context.Context, _ domain.Tenant, n *domain.Notification) (string, error) {
	if m.createErr != nil {
		return "", m.createErr
	}
	id := m.newKey()
	cp := *n
	cp.ID = id
	m.items[id] = &cp
	return id, nil
}

func (m *mockNotificationStore) Update(_ context.Context, _ domain.Tenant, id string, fields map[string]any) error {
	n, ok := m.items[id]
	if !ok {
		return &domain.ErrNotFound{Resource: "notification", ID: id}
	}
	if v, ok := fields["read"]; ok {
		n.Read = v.(bool)
	}
	return nil
}

func (m *mockNotificationStore) Delete(_ context.Context, _ domain.Tenant, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.items[id]; !ok {
		return &domain.ErrNotFound{Resource: "notification", ID: id}
	}
	delete(m.items, id)
	return nil
}

func (m *mockNotificationStore) ListAll(_ context.Context, _ domain.Tenant) ([]domain.Notification, error) {
	out := make([]domain.Notification, 0, len(m.items))
	for _, k := range sortedKeys(m.items) {
		out = append(out, *m.items[k])
	}
	return out, nil
}

func (m *mockNotificationStore) ListByUser(_ context.Context, _ domain.Tenant, userID string) ([]domain.Notification, error) {
	keys := sortedKeys(m.items)
	out := []domain.Notification{}
	// Newest first, matching the store adapter.
	for i := len(keys) - 1; i >= 0; i-- {
		if m.items[keys[i]].UserID == userID {
			out = append(out, *m.items[keys[i]])
		}
	}
	return out, nil
}

// ------------------------------------------------------------
// Customers / Employees / Sales / Quotations
// ------------------------------------------------------------

type mockCustomerStore struct {
	memKeys
	items map[string]*domain.Customer
}

func newMockCustomerStore() *mockCustomerStore {
	return &mockCustomerStore{items: map[string]*domain.Customer{}}
}

func (m *mockCustomerStore) Create(_ context.Context, _ domain.Tenant, c *domain.Customer) (string, error) {
	id := m.newKey()
	cp := *c
	cp.ID = id
	m.items[id] = &cp
	return id, nil
}

func (m *mockCustomerStore) Update(_ context.Context, _ domain.Tenant, id string, fields map[string]any) error {
	c, ok := m.items[id]
	if !ok {
		return &domain.ErrNotFound{Resource: "customer", ID: id}
	}
	for k, v := range fields {
		switch k {
		case "name":
			c.Name = v.(string)
		case "phone":
			c.Phone = v.(string)
		case "city":
			c.City = v.(string)
		}
	}
	return nil
}

func (m *mockCustomerStore) Delete(_ context.Context, _ domain.Tenant, id string) error {
	delete(m.items, id)
	return nil
}

func (m *mockCustomerStore) GetByID(_ context.Context, _ domain.Tenant, id string) (*domain.Customer, error) {
	c, ok := m.items[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "customer", ID: id}
	}
	cp := *c
	return &cp, nil
}

func (m *mockCustomerStore) ListAll(_ context.Context, _ domain.Tenant) ([]domain.Customer, error) {
	out := make([]domain.Customer, 0, len(m.items))
	for _, k := range sortedKeys(m.items) {
		out = append(out, *m.items[k])
	}
	return out, nil
}

type mockEmployeeStore struct {
	memKeys
	items map[string]*domain.Employee
}

func newMockEmployeeStore() *mockEmployeeStore {
	return &mockEmployeeStore{items: map[string]*domain.Employee{}}
}

func (m *mockEmployeeStore) Create(_ context.Context, _ domain.Tenant, e *domain.Employee) (string, error) {
	id := m.newKey()
	cp := *e
	cp.ID = id
	m.items[id] = &cp
	return id, nil
}

func (m *mockEmployeeStore) Update(_ context.Context, _ domain.Tenant, id string, fields map[string]any) error {
	e, ok := m.items[id]
	if !ok {
		return &domain.ErrNotFound{Resource: "employee", ID: id}
	}
	for k, v := range fields {
		switch k {
		case "name":
			e.Name = v.(string)
		case "user_id":
			e.UserID = v.(string)
		case "active":
			e.Active = v.(bool)
		}
	}
	return nil
}

func (m *mockEmployeeStore) Delete(_ context.Context, _ domain.Tenant, id string) error {
	delete(m.items, id)
	return nil
}

func (m *mockEmployeeStore) GetByID(_ context.Context, _ domain.Tenant, id string) (*domain.Employee, error) {
	e, ok := m.items[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "employee", ID: id}
	}
	cp := *e
	return &cp, nil
}

func (m *mockEmployeeStore) ListAll(_ context.Context, _ domain.Tenant) ([]domain.Employee, error) {
	out := make([]domain.Employee, 0, len(m.items))
	for _, k := range sortedKeys(m.items) {
		out = append(out, *m.items[k])
	}
	return out, nil
}

type mockSalesStore struct {
	memKeys
	items map[string]*domain.Sale
}

func newMockSalesStore() *mockSalesStore {
	return &mockSalesStore{items: map[string]*domain.Sale{}}
}

func (m *mockSalesStore) Create(_ context.Context, _ domain.Tenant, s *domain.Sale) (string, error) {
	id := m.newKey()
	cp := *s
	cp.ID = id
	m.items[id] = &cp
	return id, nil
}

func (m *mockSalesStore) Update(_ context.Context, _ domain.Tenant, id string, fields map[string]any) error {
	s, ok := m.items[id]
	if !ok {
		return &domain.ErrNotFound{Resource: "sale", ID: id}
	}
	if v, ok := fields["payment_type"]; ok {
		s.PaymentType = v.(domain.PaymentType)
	}
	return nil
}

func (m *mockSalesStore) Delete(_ context.Context, _ domain.Tenant, id string) error {
	delete(m.items, id)
	return nil
}

func (m *mockSalesStore) GetByID(_ context.Context, _ domain.Tenant, id string) (*domain.Sale, error) {
	s, ok := m.items[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "sale", ID: id}
	}
	cp := *s
	return &cp, nil
}

func (m *mockSalesStore) ListAll(_ context.Context, _ domain.Tenant) ([]domain.Sale, error) {
	out := make([]domain.Sale, 0, len(m.items))
	for _, k := range sortedKeys(m.items) {
		out = append(out, *m.items[k])
	}
	return out, nil
}

type mockQuotationStore struct {
	memKeys
	items map[string]*domain.Quotation
}

func newMockQuotationStore() *mockQuotationStore {
	return &mockQuotationStore{items: map[string]*domain.Quotation{}}
}

func (m *mockQuotationStore) Create(_ context.Context, _ domain.Tenant, q *domain.Quotation) (string, error) {
	id := m.newKey()
	cp := *q
	cp.ID = id
	m.items[id] = &cp
	return id, nil
}

func (m *mockQuotationStore) Update(_ context.Context, _ domain.Tenant, id string, fields map[string]any) error {
	q, ok := m.items[id]
	if !ok {
		return &domain.ErrNotFound{Resource: "quotation", ID: id}
	}
	if v, ok := fields["status"]; ok {
		q.Status = v.(domain.QuotationStatus)
	}
	return nil
}

func (m *mockQuotationStore) Delete(_ context.Context, _ domain.Tenant, id string) error {
	delete(m.items, id)
	return nil
}

func (m *mockQuotationStore) GetByID(_ context.Context, _ domain.Tenant, id string) (*domain.Quotation, error) {
	q, ok := m.items[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "quotation", ID: id}
	}
	cp := *q
	return &cp, nil
}

func (m *mockQuotationStore) ListAll(_ context.Context, _ domain.Tenant) ([]domain.Quotation, error) {
	out := make([]domain.Quotation, 0, len(m.items))
	for _, k := range sortedKeys(m.items) {
		out = append(out, *m.items[k])
	}
	return out, nil
}

// ------------------------------------------------------------
// Misc collaborators
// ------------------------------------------------------------

type mockBus struct {
	mu      sync.Mutex
	signals []event.Signal
}

func (m *mockBus) Publish(sig event.Signal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signals = append(m.signals, sig)
}

func (m *mockBus) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.signals)
}

type mockCache[T any] struct {
	mu      sync.Mutex
	values  map[string]T
	hits    int
	misses  int
	flushes int
}

func newMockCache[T any]() *mockCache[T] {
	return &mockCache[T]{values: map[string]T{}}
}

func (m *mockCache[T]) Get(key string) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if ok {
		m.hits++
	} else {
		m.misses++
	}
	return v, ok
}

func (m *mockCache[T]) Set(key string, value T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

func (m *mockCache[T]) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
}

func (m *mockCache[T]) Flush() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = map[string]T{}
	m.flushes++
}

// asErr is errors.As with a name short enough for test assertions.
func asErr(err error, target any) bool {
	return err != nil && errors.As(err, target)
}
