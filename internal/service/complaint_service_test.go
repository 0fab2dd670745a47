package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/showroomhq/backoffice-go/internal/domain"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// recordingNotifier captures engine calls; the create path fires them
// from a goroutine, so it is locked.
type recordingNotifier struct {
	mu             sync.Mutex
	checked        []string
	dueDateChanges []string
	cleanups       []string
}

func (r *recordingNotifier) CheckComplaint(_ context.Context, _ domain.Tenant, c *domain.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checked = append(r.checked, c.ID)
	return nil
}

func (r *recordingNotifier) HandleDueDateChange(_ context.Context, _ domain.Tenant, c *domain.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dueDateChanges = append(r.dueDateChanges, c.ExpectedResolutionDate)
	return nil
}

func (r *recordingNotifier) CleanupForComplaint(_ context.Context, _ domain.Tenant, complaintID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cleanups = append(r.cleanups, complaintID)
	return nil
}

func (r *recordingNotifier) cleanupCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cleanups)
}

type complaintFixture struct {
	svc        *ComplaintService
	store      *mockComplaintStore
	customers  *mockCustomerStore
	employees  *mockEmployeeStore
	brands     *mockBrandStore
	notifier   *recordingNotifier
	bus        *mockBus
	customerID string
	employeeID string
}

func newComplaintFixture(t *testing.T) *complaintFixture {
	t.Helper()
	f := &complaintFixture{
		store:     newMockComplaintStore(),
		customers: newMockCustomerStore(),
		employees: newMockEmployeeStore(),
		brands:    newMockBrandStore(),
		notifier:  &recordingNotifier{},
		bus:       &mockBus{},
	}
	brandSvc := NewBrandService(f.brands, zap.NewNop())
	brandSvc.Now = func() time.Time { return testNow }

	f.svc = NewComplaintService(
		f.store, f.customers, f.employees,
		f.notifier, brandSvc, f.bus, 5, zap.NewNop(),
	)
	f.svc.Now = func() time.Time { return testNow }

	var err error
	f.customerID, err = f.customers.Create(context.Background(), domain.TenantElectronics, &domain.Customer{
		Name: "Meena Iyer", Phone: "9812345678",
	})
	if err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	f.employeeID, err = f.employees.Create(context.Background(), domain.TenantElectronics, &domain.Employee{
		Name: "Ravi Kumar", Role: domain.RoleService, UserID: "user-ravi", Active: true,
	})
	if err != nil {
		t.Fatalf("seed employee: %v", err)
	}
	return f
}

func (f *complaintFixture) validCreateReq() *domain.ComplaintCreateRequest {
	return &domain.ComplaintCreateRequest{
		CustomerID:             f.customerID,
		Title:                  "Samsung TV panel flickers",
		Description:            "Panel flickers after about ten minutes of use.",
		Severity:               domain.SeverityHigh,
		AssigneeType:           domain.AssigneeEmployee,
		EmployeeID:             f.employeeID,
		ExpectedResolutionDate: dateOffset(3),
	}
}

var actor = domain.UserRef{UID: "user-owner", Name: "Owner"}

func TestCreateComplaint_NumbersAndSeedsHistory(t *testing.T) {
	f := newComplaintFixture(t)

	c, err := f.svc.Create(context.Background(), domain.TenantElectronics, f.validCreateReq(), actor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if c.ComplaintNumber != "ELE20260001" {
		t.Errorf("expected ELE20260001, got %s", c.ComplaintNumber)
	}
	if c.Status != domain.StatusOpen {
		t.Errorf("expected open status, got %s", c.Status)
	}
	if c.CustomerName != "Meena Iyer" || c.CustomerPhone != "9812345678" {
		t.Errorf("customer fields not denormalized: %q/%q", c.CustomerName, c.CustomerPhone)
	}
	if c.EmployeeName != "Ravi Kumar" {
		t.Errorf("employee name not denormalized: %q", c.EmployeeName)
	}
	if len(c.StatusHistory) != 1 || c.StatusHistory[0].Status != domain.StatusOpen {
		t.Errorf("history not seeded: %+v", c.StatusHistory)
	}
	if c.CreatedBy != "user-owner" {
		t.Errorf("created_by not stamped: %q", c.CreatedBy)
	}
	if c.IsOverdue {
		t.Error("fresh complaint with a future date must not be overdue")
	}
	if f.bus.count() == 0 {
		t.Error("expected a refresh signal after create")
	}

	// Sequence advances with collection size.
	second, err := f.svc.Create(context.Background(), domain.TenantElectronics, f.validCreateReq(), actor)
	if err != nil {
		t.Fatalf("second Create: %v", err)
	}
	if second.ComplaintNumber != "ELE20260002" {
		t.Errorf("expected ELE20260002, got %s", second.ComplaintNumber)
	}
}

func TestCreateComplaint_Validation(t *testing.T) {
	f := newComplaintFixture(t)

	cases := []struct {
		name   string
		mutate func(*domain.ComplaintCreateRequest)
	}{
		{"missing customer", func(r *domain.ComplaintCreateRequest) { r.CustomerID = "" }},
		{"short title", func(r *domain.ComplaintCreateRequest) { r.Title = "TV" }},
		{"long title", func(r *domain.ComplaintCreateRequest) { r.Title = strings.Repeat("x", 101) }},
		{"short description", func(r *domain.ComplaintCreateRequest) { r.Description = "broken" }},
		{"bad severity", func(r *domain.ComplaintCreateRequest) { r.Severity = "urgent" }},
		{"missing employee", func(r *domain.ComplaintCreateRequest) { r.EmployeeID = "" }},
		{"past due date", func(r *domain.ComplaintCreateRequest) { r.ExpectedResolutionDate = dateOffset(-1) }},
		{"garbage due date", func(r *domain.ComplaintCreateRequest) { r.ExpectedResolutionDate = "tomorrow" }},
		{"bad assignee type", func(r *domain.ComplaintCreateRequest) { r.AssigneeType = "vendor" }},
		{"service person without contact", func(r *domain.ComplaintCreateRequest) {
			r.AssigneeType = domain.AssigneeServicePerson
			r.ServicePersonName = "Anil"
			r.ServicePersonContact = "12345"
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := f.validCreateReq()
			tc.mutate(req)
			_, err := f.svc.Create(context.Background(), domain.TenantElectronics, req, actor)
			var validation *domain.ErrValidation
			if !asErr(err, &validation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUpdateComplaint_StatusTransitions(t *testing.T) {
	f := newComplaintFixture(t)
	c, err := f.svc.Create(context.Background(), domain.TenantElectronics, f.validCreateReq(), actor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	next := domain.StatusInProgress
	updated, err := f.svc.Update(context.Background(), domain.TenantElectronics, c.ID, &domain.ComplaintUpdateRequest{
		Status:  &next,
		Remarks: "technician assigned",
	}, actor)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != domain.StatusInProgress {
		t.Errorf("expected in_progress, got %s", updated.Status)
	}
	if len(updated.StatusHistory) != 2 || updated.StatusHistory[1].Remarks != "technician assigned" {
		t.Errorf("history entry missing: %+v", updated.StatusHistory)
	}

	// Status change without remarks is rejected.
	resolved := domain.StatusResolved
	_, err = f.svc.Update(context.Background(), domain.TenantElectronics, c.ID, &domain.ComplaintUpdateRequest{
		Status: &resolved,
	}, actor)
	var validation *domain.ErrValidation
	if !asErr(err, &validation) {
		t.Fatalf("expected validation error for missing remarks, got %v", err)
	}

	// closed is terminal: no transitions out.
	closed := domain.StatusClosed
	if _, err := f.svc.Update(context.Background(), domain.TenantElectronics, c.ID, &domain.ComplaintUpdateRequest{
		Status: &closed, Remarks: "done",
	}, actor); err != nil {
		t.Fatalf("close: %v", err)
	}
	reopen := domain.StatusOpen
	_, err = f.svc.Update(context.Background(), domain.TenantElectronics, c.ID, &domain.ComplaintUpdateRequest{
		Status: &reopen, Remarks: "reopening",
	}, actor)
	var conflict *domain.ErrConflict
	if !asErr(err, &conflict) {
		t.Fatalf("expected conflict for closed->open, got %v", err)
	}
}

func TestUpdateComplaint_DueDateChangeHitsEngine(t *testing.T) {
	f := newComplaintFixture(t)
	c, err := f.svc.Create(context.Background(), domain.TenantElectronics, f.validCreateReq(), actor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	newDate := dateOffset(10)
	if _, err := f.svc.Update(context.Background(), domain.TenantElectronics, c.ID, &domain.ComplaintUpdateRequest{
		ExpectedResolutionDate: &newDate,
	}, actor); err != nil {
		t.Fatalf("Update: %v", err)
	}

	f.notifier.mu.Lock()
	defer f.notifier.mu.Unlock()
	if len(f.notifier.dueDateChanges) != 1 || f.notifier.dueDateChanges[0] != newDate {
		t.Errorf("engine saw %v, want one change to %s", f.notifier.dueDateChanges, newDate)
	}
}

func TestUpdateComplaint_TerminalStatusCleansUp(t *testing.T) {
	f := newComplaintFixture(t)
	c, err := f.svc.Create(context.Background(), domain.TenantElectronics, f.validCreateReq(), actor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	resolved := domain.StatusResolved
	if _, err := f.svc.Update(context.Background(), domain.TenantElectronics, c.ID, &domain.ComplaintUpdateRequest{
		Status: &resolved, Remarks: "panel replaced",
	}, actor); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if f.notifier.cleanupCount() != 1 {
		t.Errorf("expected one cleanup call, got %d", f.notifier.cleanupCount())
	}
}

func seedSamsung(t *testing.T, f *complaintFixture) {
	t.Helper()
	_, err := f.brands.Create(context.Background(), domain.TenantElectronics, &domain.Brand{
		BrandName: "Samsung",
		Hierarchy: []domain.HierarchyLevel{
			{Name: "Service Center", Contact: "9000000001"},
			{Name: "Area Manager", Contact: "9000000002"},
		},
	})
	if err != nil {
		t.Fatalf("seed brand: %v", err)
	}
}

func (f *complaintFixture) seedEscalatable(t *testing.T, contact string) *domain.Complaint {
	t.Helper()
	c := &domain.Complaint{
		Title:                  "Samsung TV panel flickers",
		Status:                 domain.StatusOpen,
		AssigneeType:           domain.AssigneeServicePerson,
		ServicePersonName:      "Service Center",
		ServicePersonContact:   contact,
		ExpectedResolutionDate: dateOffset(3),
		CreatedBy:              actor.UID,
	}
	id, err := f.store.Create(context.Background(), domain.TenantElectronics, c)
	if err != nil {
		t.Fatalf("seed complaint: %v", err)
	}
	c.ID = id
	return c
}

func TestEscalate_MovesToNextHierarchyLevel(t *testing.T) {
	f := newComplaintFixture(t)
	seedSamsung(t, f)
	c := f.seedEscalatable(t, "9000000001")

	escalated, err := f.svc.Escalate(context.Background(), domain.TenantElectronics, c.ID, "no response in 3 days", actor)
	if err != nil {
		t.Fatalf("Escalate: %v", err)
	}
	if escalated.ServicePersonContact != "9000000002" {
		t.Errorf("expected contact 9000000002, got %s", escalated.ServicePersonContact)
	}
	if escalated.ServicePersonName != "Area Manager" {
		t.Errorf("expected Area Manager, got %s", escalated.ServicePersonName)
	}
	if escalated.Status != domain.StatusEscalated {
		t.Errorf("expected escalated status, got %s", escalated.Status)
	}
	last := escalated.StatusHistory[len(escalated.StatusHistory)-1]
	if last.Status != domain.StatusEscalated || last.Remarks != "no response in 3 days" {
		t.Errorf("history entry wrong: %+v", last)
	}
}

func TestEscalate_LogsDetectedBrand(t *testing.T) {
	f := newComplaintFixture(t)
	seedSamsung(t, f)
	c := f.seedEscalatable(t, "9000000001")

	core, logs := observer.New(zap.InfoLevel)
	f.svc.logger = zap.New(core)

	if _, err := f.svc.Escalate(context.Background(), domain.TenantElectronics, c.ID, "no response", actor); err != nil {
		t.Fatalf("Escalate: %v", err)
	}
	entries := logs.FilterMessage("complaint escalated").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 escalation log entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["brand"]; got != "Samsung" {
		t.Errorf("expected brand Samsung in log, got %v", got)
	}
}

func TestEscalate_LastLevelFallsBackToDefault(t *testing.T) {
	f := newComplaintFixture(t)
	seedSamsung(t, f)
	f.brands.defaultHie = &domain.DefaultHierarchy{Name: "Brand Helpline", Contact: "9000000099"}
	c := f.seedEscalatable(t, "9000000002")

	escalated, err := f.svc.Escalate(context.Background(), domain.TenantElectronics, c.ID, "area manager unreachable", actor)
	if err != nil {
		t.Fatalf("Escalate: %v", err)
	}
	if escalated.ServicePersonContact != "9000000099" {
		t.Errorf("expected default contact, got %s", escalated.ServicePersonContact)
	}
}

func TestEscalate_ExhaustedChainWithoutDefaultConflicts(t *testing.T) {
	f := newComplaintFixture(t)
	seedSamsung(t, f)
	c := f.seedEscalatable(t, "9000000002")

	_, err := f.svc.Escalate(context.Background(), domain.TenantElectronics, c.ID, "stuck", actor)
	var conflict *domain.ErrConflict
	if !asErr(err, &conflict) {
		t.Fatalf("expected conflict when nothing is above, got %v", err)
	}
}

func TestEscalate_UnknownContactConflicts(t *testing.T) {
	f := newComplaintFixture(t)
	seedSamsung(t, f)
	// Contact not in the chain: the resolver refuses to guess.
	c := f.seedEscalatable(t, "9999911111")

	_, err := f.svc.Escalate(context.Background(), domain.TenantElectronics, c.ID, "who is this", actor)
	var conflict *domain.ErrConflict
	if !asErr(err, &conflict) {
		t.Fatalf("expected conflict for unplaceable contact, got %v", err)
	}
}

func TestDeleteComplaint_CleansNotifications(t *testing.T) {
	f := newComplaintFixture(t)
	c, err := f.svc.Create(context.Background(), domain.TenantElectronics, f.validCreateReq(), actor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := f.svc.Delete(context.Background(), domain.TenantElectronics, c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if f.notifier.cleanupCount() != 1 {
		t.Errorf("expected cleanup after delete, got %d calls", f.notifier.cleanupCount())
	}
	if _, err := f.svc.GetByID(context.Background(), domain.TenantElectronics, c.ID); err == nil {
		t.Error("expected NotFound after delete")
	}
}
