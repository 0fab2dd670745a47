package service

import (
	"context"
	"strings"
	"time"

	"github.com/showroomhq/backoffice-go/internal/domain"
	"github.com/showroomhq/backoffice-go/internal/event"
	"github.com/showroomhq/backoffice-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var complaintTracer = otel.Tracer("service/complaint")

// ComplaintNotifier is the notification engine as the complaint
// workflow sees it. Satisfied by *NotificationService.
type ComplaintNotifier interface {
	CheckComplaint(ctx context.Context, tenant domain.Tenant, c *domain.Complaint) error
	HandleDueDateChange(ctx context.Context, tenant domain.Tenant, c *domain.Complaint) error
	CleanupForComplaint(ctx context.Context, tenant domain.Tenant, complaintID string) error
}

// EscalationResolver is the brand hierarchy as the complaint workflow
// sees it. Satisfied by *BrandService.
type EscalationResolver interface {
	DetectBrandFromTitle(ctx context.Context, tenant domain.Tenant, title string) (*domain.Brand, error)
	ResolveEscalation(ctx context.Context, tenant domain.Tenant, brandName, currentContact string) (*domain.EscalationTarget, error)
}

// ComplaintService owns the complaint lifecycle: validation, numbering,
// status transitions, and the notification side effects around due
// dates and terminal states.
type ComplaintService struct {
	store     port.ComplaintStore
	customers port.CustomerStore
	employees port.EmployeeStore
	notifier  ComplaintNotifier
	escalator EscalationResolver
	bus       port.RefreshPublisher
	logger    *zap.Logger

	titleMinLen int

	// Now is the clock; tests override it.
	Now func() time.Time
}

// NewComplaintService wires the complaint workflow.
func NewComplaintService(
	store port.ComplaintStore,
	customers port.CustomerStore,
	employees port.EmployeeStore,
	notifier ComplaintNotifier,
	escalator EscalationResolver,
	bus port.RefreshPublisher,
	titleMinLen int,
	logger *zap.Logger,
) *ComplaintService {
	if titleMinLen <= 0 {
		titleMinLen = 5
	}
	return &ComplaintService{
		store:       store,
		customers:   customers,
		employees:   employees,
		notifier:    notifier,
		escalator:   escalator,
		bus:         bus,
		logger:      logger,
		titleMinLen: titleMinLen,
		Now:         time.Now,
	}
}

func (s *ComplaintService) validateCreate(req *domain.ComplaintCreateRequest) error {
	if req.CustomerID == "" {
		return &domain.ErrValidation{Field: "customer_id", Message: "customer is required"}
	}
	title := strings.TrimSpace(req.Title)
	if len(title) < s.titleMinLen || len(title) > 100 {
		return &domain.ErrValidation{Field: "title", Message: "title must be 5-100 characters"}
	}
	desc := strings.TrimSpace(req.Description)
	if len(desc) < 10 || len(desc) > 1000 {
		return &domain.ErrValidation{Field: "description", Message: "description must be 10-1000 characters"}
	}
	if !req.Severity.Valid() {
		return &domain.ErrValidation{Field: "severity", Message: "unknown severity: " + string(req.Severity)}
	}
	switch req.AssigneeType {
	case domain.AssigneeEmployee:
		if req.EmployeeID == "" {
			return &domain.ErrValidation{Field: "employee_id", Message: "employee is required for employee assignment"}
		}
	case domain.AssigneeServicePerson:
		if strings.TrimSpace(req.ServicePersonName) == "" {
			return &domain.ErrValidation{Field: "service_person_name", Message: "service person name is required"}
		}
		if !domain.ValidPhone(req.ServicePersonContact) {
			return &domain.ErrValidation{Field: "service_person_contact", Message: "contact must be a valid 10-digit mobile number"}
		}
	default:
		return &domain.ErrValidation{Field: "assignee_type", Message: "assignee_type must be employee or service_person"}
	}
	due, err := time.ParseInLocation(domain.DateLayout, req.ExpectedResolutionDate, s.Now().Location())
	if err != nil {
		return &domain.ErrValidation{Field: "expected_resolution_date", Message: "date must be YYYY-MM-DD"}
	}
	if domain.StartOfDay(due).Before(domain.StartOfDay(s.Now())) {
		return &domain.ErrValidation{Field: "expected_resolution_date", Message: "date cannot be in the past"}
	}
	return nil
}

// Create validates, numbers and persists a new complaint, then kicks
// off the immediate due check in the background. Notification failures
// never fail the create.
func (s *ComplaintService) Create(ctx context.Context, tenant domain.Tenant, req *domain.ComplaintCreateRequest, actor domain.UserRef) (*domain.Complaint, error) {
	ctx, span := complaintTracer.Start(ctx, "ComplaintService.Create")
	defer span.End()
	span.SetAttributes(attribute.String("tenant", string(tenant)))

	if err := s.validateCreate(req); err != nil {
		return nil, err
	}

	customer, err := s.customers.GetByID(ctx, tenant, req.CustomerID)
	if err != nil {
		return nil, err
	}

	// Known race: two concurrent creates can draw the same sequence.
	count, err := s.store.Count(ctx, tenant)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	number := domain.FormatComplaintNumber(tenant, now.Year(), count+1)

	c := &domain.Complaint{
		ComplaintNumber: number,
		CustomerID:      customer.ID,
		CustomerName:    customer.Name,
		CustomerPhone:   customer.Phone,
		Title:           strings.TrimSpace(req.Title),
		Description:     strings.TrimSpace(req.Description),
		Category:        req.Category,
		Severity:        req.Severity,
		Status:          domain.StatusOpen,
		AssigneeType:    req.AssigneeType,

		ExpectedResolutionDate: req.ExpectedResolutionDate,

		StatusHistory: []domain.StatusHistoryEntry{{
			Status:    domain.StatusOpen,
			ChangedAt: now,
			ChangedBy: actor.UID,
			Remarks:   "complaint registered",
		}},

		CreatedAt: now,
		CreatedBy: actor.UID,
		UpdatedAt: now,
		UpdatedBy: actor.UID,
	}
	switch req.AssigneeType {
	case domain.AssigneeEmployee:
		emp, err := s.employees.GetByID(ctx, tenant, req.EmployeeID)
		if err != nil {
			return nil, err
		}
		c.EmployeeID = emp.ID
		c.EmployeeName = emp.Name
	case domain.AssigneeServicePerson:
		c.ServicePersonName = strings.TrimSpace(req.ServicePersonName)
		c.ServicePersonContact = req.ServicePersonContact
		c.CompanyComplaintNumber = req.CompanyComplaintNumber
		c.CompanyRecordedDate = req.CompanyRecordedDate
	}

	id, err := s.store.Create(ctx, tenant, c)
	if err != nil {
		return nil, err
	}
	c.ID = id

	// Immediate due check, detached from the request lifetime.
	go func(c domain.Complaint) {
		bg := context.WithoutCancel(ctx)
		if err := s.notifier.CheckComplaint(bg, tenant, &c); err != nil {
			s.logger.Warn("post-create notification check failed",
				zap.String("tenant", string(tenant)),
				zap.String("complaint_id", c.ID),
				zap.Error(err),
			)
		}
	}(*c)

	s.bus.Publish(event.NewSignal("complaints/create"))

	s.logger.Info("complaint created",
		zap.String("tenant", string(tenant)),
		zap.String("complaint_id", c.ID),
		zap.String("complaint_number", c.ComplaintNumber),
	)
	out := c.WithDerived(now)
	return &out, nil
}

// Update applies a partial update. Status changes go through the
// transition table and require remarks; due-date and terminal-state
// changes trigger the notification side effects.
func (s *ComplaintService) Update(ctx context.Context, tenant domain.Tenant, id string, req *domain.ComplaintUpdateRequest, actor domain.UserRef) (*domain.Complaint, error) {
	ctx, span := complaintTracer.Start(ctx, "ComplaintService.Update")
	defer span.End()
	span.SetAttributes(attribute.String("complaint.id", id))

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

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if len(title) < s.titleMinLen || len(title) > 100 {
			return nil, &domain.ErrValidation{Field: "title", Message: "title must be 5-100 characters"}
		}
		fields["title"] = title
		updated.Title = title
	}
	if req.Description != nil {
		desc := strings.TrimSpace(*req.Description)
		if len(desc) < 10 || len(desc) > 1000 {
			return nil, &domain.ErrValidation{Field: "description", Message: "description must be 10-1000 characters"}
		}
		fields["description"] = desc
		updated.Description = desc
	}
	if req.Category != nil {
		fields["category"] = *req.Category
		updated.Category = *req.Category
	}
	if req.Severity != nil {
		if !req.Severity.Valid() {
			return nil, &domain.ErrValidation{Field: "severity", Message: "unknown severity: " + string(*req.Severity)}
		}
		fields["severity"] = *req.Severity
		updated.Severity = *req.Severity
	}
	if req.EmployeeID != nil {
		emp, err := s.employees.GetByID(ctx, tenant, *req.EmployeeID)
		if err != nil {
			return nil, err
		}
		fields["employee_id"] = emp.ID
		fields["employee_name"] = emp.Name
		updated.EmployeeID = emp.ID
		updated.EmployeeName = emp.Name
	}
	if req.ServicePersonName != nil {
		name := strings.TrimSpace(*req.ServicePersonName)
		if name == "" {
			return nil, &domain.ErrValidation{Field: "service_person_name", Message: "service person name cannot be empty"}
		}
		fields["service_person_name"] = name
		updated.ServicePersonName = name
	}
	if req.ServicePersonContact != nil {
		if !domain.ValidPhone(*req.ServicePersonContact) {
			return nil, &domain.ErrValidation{Field: "service_person_contact", Message: "contact must be a valid 10-digit mobile number"}
		}
		fields["service_person_contact"] = *req.ServicePersonContact
		updated.ServicePersonContact = *req.ServicePersonContact
	}

	dueDateChanged := false
	if req.ExpectedResolutionDate != nil && *req.ExpectedResolutionDate != current.ExpectedResolutionDate {
		if _, err := time.ParseInLocation(domain.DateLayout, *req.ExpectedResolutionDate, now.Location()); err != nil {
			return nil, &domain.ErrValidation{Field: "expected_resolution_date", Message: "date must be YYYY-MM-DD"}
		}
		fields["expected_resolution_date"] = *req.ExpectedResolutionDate
		updated.ExpectedResolutionDate = *req.ExpectedResolutionDate
		dueDateChanged = true
	}

	statusChanged := false
	if req.Status != nil && *req.Status != current.Status {
		next := *req.Status
		if !next.Valid() {
			return nil, &domain.ErrValidation{Field: "status", Message: "unknown status: " + string(next)}
		}
		if !current.Status.CanTransitionTo(next) {
			return nil, &domain.ErrConflict{
				Resource: "complaint",
				Message:  "cannot move from " + string(current.Status) + " to " + string(next),
			}
		}
		if strings.TrimSpace(req.Remarks) == "" {
			return nil, &domain.ErrValidation{Field: "remarks", Message: "remarks are required for a status change"}
		}
		entry := domain.StatusHistoryEntry{
			Status:    next,
			ChangedAt: now,
			ChangedBy: actor.UID,
			Remarks:   strings.TrimSpace(req.Remarks),
		}
		updated.Status = next
		updated.StatusHistory = append(updated.StatusHistory, entry)
		fields["status"] = next
		fields["status_history"] = updated.StatusHistory
		statusChanged = true
	}

	if err := s.store.Update(ctx, tenant, id, fields); err != nil {
		return nil, err
	}

	// Side effects are advisory: the persisted update always wins.
	switch {
	case statusChanged && updated.Status.Terminal():
		if err := s.notifier.CleanupForComplaint(ctx, tenant, id); err != nil {
			s.logger.Warn("notification cleanup after terminal status failed",
				zap.String("complaint_id", id), zap.Error(err))
		}
	case dueDateChanged:
		if err := s.notifier.HandleDueDateChange(ctx, tenant, &updated); err != nil {
			s.logger.Warn("notification refresh after due-date change failed",
				zap.String("complaint_id", id), zap.Error(err))
		}
	}

	s.bus.Publish(event.NewSignal("complaints/update"))

	out := updated.WithDerived(now)
	return &out, nil
}

// Escalate moves the complaint one level up its brand's hierarchy:
// detect the brand from the title, resolve the next contact (falling
// back to the default hierarchy at the last level), then record the
// new contact and the escalated status.
func (s *ComplaintService) Escalate(ctx context.Context, tenant domain.Tenant, id, remarks string, actor domain.UserRef) (*domain.Complaint, error) {
	ctx, span := complaintTracer.Start(ctx, "ComplaintService.Escalate")
	defer span.End()
	span.SetAttributes(attribute.String("complaint.id", id))

	current, err := s.store.GetByID(ctx, tenant, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(domain.StatusEscalated) && current.Status != domain.StatusEscalated {
		return nil, &domain.ErrConflict{
			Resource: "complaint",
			Message:  "cannot escalate a " + string(current.Status) + " complaint",
		}
	}
	if strings.TrimSpace(remarks) == "" {
		return nil, &domain.ErrValidation{Field: "remarks", Message: "remarks are required for escalation"}
	}

	brand, err := s.escalator.DetectBrandFromTitle(ctx, tenant, current.Title)
	if err != nil {
		return nil, err
	}
	if brand == nil {
		return nil, &domain.ErrConflict{
			Resource: "complaint",
			Message:  "no brand recognized in complaint title",
		}
	}
	target, err := s.escalator.ResolveEscalation(ctx, tenant, brand.BrandName, current.ServicePersonContact)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, &domain.ErrConflict{
			Resource: "complaint",
			Message:  "no further escalation level available",
		}
	}

	now := s.Now()
	updated := *current
	updated.AssigneeType = domain.AssigneeServicePerson
	updated.ServicePersonName = target.Name
	updated.ServicePersonContact = target.Contact
	updated.UpdatedAt = now
	updated.UpdatedBy = actor.UID

	fields := map[string]any{
		"assignee_type":          domain.AssigneeServicePerson,
		"service_person_name":    target.Name,
		"service_person_contact": target.Contact,
		"updated_at":             now,
		"updated_by":             actor.UID,
	}
	if current.Status != domain.StatusEscalated {
		entry := domain.StatusHistoryEntry{
			Status:    domain.StatusEscalated,
			ChangedAt: now,
			ChangedBy: actor.UID,
			Remarks:   strings.TrimSpace(remarks),
		}
		updated.Status = domain.StatusEscalated
		updated.StatusHistory = append(updated.StatusHistory, entry)
		fields["status"] = domain.StatusEscalated
		fields["status_history"] = updated.StatusHistory
	}

	if err := s.store.Update(ctx, tenant, id, fields); err != nil {
		return nil, err
	}

	s.bus.Publish(event.NewSignal("complaints/escalate"))

	s.logger.Info("complaint escalated",
		zap.String("tenant", string(tenant)),
		zap.String("complaint_id", id),
		zap.String("brand", brand.BrandName),
		zap.String("contact", target.Contact),
		zap.Int("level", target.Level),
		zap.Bool("default_hierarchy", target.IsDefault),
	)
	out := updated.WithDerived(now)
	return &out, nil
}

// Delete removes the complaint and retires its notifications.
func (s *ComplaintService) Delete(ctx context.Context, tenant domain.Tenant, id string) error {
	ctx, span := complaintTracer.Start(ctx, "ComplaintService.Delete")
	defer span.End()
	span.SetAttributes(attribute.String("complaint.id", id))

	if _, err := s.store.GetByID(ctx, tenant, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, tenant, id); err != nil {
		return err
	}
	if err := s.notifier.CleanupForComplaint(ctx, tenant, id); err != nil {
		s.logger.Warn("notification cleanup after delete failed",
			zap.String("complaint_id", id), zap.Error(err))
	}
	s.bus.Publish(event.NewSignal("complaints/delete"))
	return nil
}

// GetByID returns one complaint with derived fields filled in.
func (s *ComplaintService) GetByID(ctx context.Context, tenant domain.Tenant, id string) (*domain.Complaint, error) {
	ctx, span := complaintTracer.Start(ctx, "ComplaintService.GetByID")
	defer span.End()
	span.SetAttributes(attribute.String("complaint.id", id))

	c, err := s.store.GetByID(ctx, tenant, id)
	if err != nil {
		return nil, err
	}
	out := c.WithDerived(s.Now())
	return &out, nil
}
