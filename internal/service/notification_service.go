package service

import (
	"context"
	"fmt"
	"time"

	"github.com/showroomhq/backoffice-go/internal/domain"
	"github.com/showroomhq/backoffice-go/internal/event"
	"github.com/showroomhq/backoffice-go/internal/infra/observability"
	"github.com/showroomhq/backoffice-go/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var notifTracer = otel.Tracer("service/notification")

// NotificationService is the due/overdue engine. Per (complaint,
// recipient) pair the intended lifecycle is none -> due_today|overdue
// -> retracted; the store cannot enforce the one-active-pair rule, so
// the engine dedupes by scanning the tenant's notifications before
// every create.
type NotificationService struct {
	store      port.NotificationStore
	complaints port.ComplaintStore
	employees  port.EmployeeStore
	bus        port.RefreshPublisher
	metrics    *observability.Metrics
	logger     *zap.Logger

	// Now is the clock; tests override it.
	Now func() time.Time
}

// NewNotificationService creates the engine.
func NewNotificationService(
	store port.NotificationStore,
	complaints port.ComplaintStore,
	employees port.EmployeeStore,
	bus port.RefreshPublisher,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		store:      store,
		complaints: complaints,
		employees:  employees,
		bus:        bus,
		metrics:    metrics,
		logger:     logger,
		Now:        time.Now,
	}
}

// recipients resolves who should hear about a complaint: the creator,
// plus the assigned employee's linked user when that differs.
func (s *NotificationService) recipients(ctx context.Context, tenant domain.Tenant, c *domain.Complaint) []string {
	out := []string{}
	if c.CreatedBy != "" {
		out = append(out, c.CreatedBy)
	}
	if c.AssigneeType == domain.AssigneeEmployee && c.EmployeeID != "" {
		emp, err := s.employees.GetByID(ctx, tenant, c.EmployeeID)
		if err != nil {
			// Advisory only: a missing employee must not block the creator's alert.
			s.logger.Warn("notification: could not resolve assigned employee",
				zap.String("tenant", string(tenant)),
				zap.String("complaint_id", c.ID),
				zap.String("employee_id", c.EmployeeID),
				zap.Error(err),
			)
			return out
		}
		if emp.UserID != "" && (len(out) == 0 || emp.UserID != out[0]) {
			out = append(out, emp.UserID)
		}
	}
	return out
}

func buildNotification(c *domain.Complaint, recipient string, daysDiff int, now time.Time) *domain.Notification {
	n := &domain.Notification{
		UserID:    recipient,
		CreatedAt: now,
		Data: domain.NotificationData{
			ComplaintID:            c.ID,
			ComplaintNumber:        c.ComplaintNumber,
			Title:                  c.Title,
			Severity:               c.Severity,
			Status:                 c.Status,
			ExpectedResolutionDate: c.ExpectedResolutionDate,
		},
	}
	if daysDiff < 0 {
		n.Type = domain.NotificationOverdue
		n.Priority = domain.PriorityHigh
		n.Data.DaysOverdue = -daysDiff
		n.Title = fmt.Sprintf("Complaint %s is overdue", c.ComplaintNumber)
		n.Message = fmt.Sprintf("%q was expected to be resolved by %s (%d day(s) ago).",
			c.Title, c.ExpectedResolutionDate, -daysDiff)
	} else {
		n.Type = domain.NotificationDueToday
		n.Priority = domain.PriorityMedium
		n.Title = fmt.Sprintf("Complaint %s is due today", c.ComplaintNumber)
		n.Message = fmt.Sprintf("%q is expected to be resolved today (%s).",
			c.Title, c.ExpectedResolutionDate)
	}
	return n
}

// pairKey identifies one (complaint, recipient) notification slot.
func pairKey(complaintID, userID string) string {
	return complaintID + "|" + userID
}

// activePairs indexes the existing due/overdue notifications.
func activePairs(all []domain.Notification) map[string]bool {
	pairs := make(map[string]bool, len(all))
	for _, n := range all {
		if n.Type.DueOrOverdue() {
			pairs[pairKey(n.Data.ComplaintID, n.UserID)] = true
		}
	}
	return pairs
}

// CheckComplaint runs the immediate due/overdue check for one
// complaint, creating any missing notifications. Safe to call
// repeatedly: existing pairs are skipped.
func (s *NotificationService) CheckComplaint(ctx context.Context, tenant domain.Tenant, c *domain.Complaint) error {
	ctx, span := notifTracer.Start(ctx, "NotificationService.CheckComplaint")
	defer span.End()
	span.SetAttributes(attribute.String("complaint.id", c.ID))

	if c.Status.Terminal() {
		return nil
	}
	daysDiff, err := c.DaysUntilDue(s.Now())
	if err != nil {
		return err
	}
	if daysDiff > 0 {
		return nil
	}

	existing, err := s.store.ListAll(ctx, tenant)
	if err != nil {
		return err
	}
	pairs := activePairs(existing)

	now := s.Now()
	for _, recipient := range s.recipients(ctx, tenant, c) {
		if pairs[pairKey(c.ID, recipient)] {
			continue
		}
		n := buildNotification(c, recipient, daysDiff, now)
		if _, err := s.store.Create(ctx, tenant, n); err != nil {
			return err
		}
		pairs[pairKey(c.ID, recipient)] = true
		s.metrics.IncrNotificationCreated(string(n.Type))
	}
	return nil
}

// HandleDueDateChange retracts every due/overdue notification for the
// complaint, then re-runs the check against the new date. Delivered
// notifications therefore never carry a stale date.
func (s *NotificationService) HandleDueDateChange(ctx context.Context, tenant domain.Tenant, c *domain.Complaint) error {
	ctx, span := notifTracer.Start(ctx, "NotificationService.HandleDueDateChange")
	defer span.End()
	span.SetAttributes(attribute.String("complaint.id", c.ID))

	if err := s.CleanupForComplaint(ctx, tenant, c.ID); err != nil {
		return err
	}
	return s.CheckComplaint(ctx, tenant, c)
}

// CleanupForComplaint deletes all due/overdue notifications that
// reference the complaint, across all recipients.
func (s *NotificationService) CleanupForComplaint(ctx context.Context, tenant domain.Tenant, complaintID string) error {
	ctx, span := notifTracer.Start(ctx, "NotificationService.CleanupForComplaint")
	defer span.End()
	span.SetAttributes(attribute.String("complaint.id", complaintID))

	all, err := s.store.ListAll(ctx, tenant)
	if err != nil {
		return err
	}
	removed := 0
	for _, n := range all {
		if !n.Type.DueOrOverdue() || n.Data.ComplaintID != complaintID {
			continue
		}
		if err := s.store.Delete(ctx, tenant, n.ID); err != nil {
			return err
		}
		removed++
	}
	if removed > 0 {
		s.metrics.AddNotificationsCleaned(removed)
	}
	return nil
}

// Reconcile is the bulk pass over an entire tenant: retire every
// due/overdue notification whose complaint is gone or terminal, then
// create missing notifications for newly due/overdue complaints.
// One complaint's failure never aborts the batch; errors are
// collected into the result.
func (s *NotificationService) Reconcile(ctx context.Context, tenant domain.Tenant) (*domain.ReconcileResult, error) {
	ctx, span := notifTracer.Start(ctx, "NotificationService.Reconcile")
	defer span.End()
	span.SetAttributes(attribute.String("tenant", string(tenant)))

	var (
		notifications []domain.Notification
		complaints    []domain.Complaint
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		notifications, err = s.store.ListAll(gctx, tenant)
		return err
	})
	g.Go(func() error {
		var err error
		complaints, err = s.complaints.ListAll(gctx, tenant)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Complaint, len(complaints))
	for i := range complaints {
		byID[complaints[i].ID] = &complaints[i]
	}

	result := &domain.ReconcileResult{RunID: uuid.NewString()}
	span.SetAttributes(attribute.String("reconcile.run_id", result.RunID))

	// Phase 1: retire notifications for resolved/closed/missing complaints.
	live := notifications[:0:0]
	for _, n := range notifications {
		if !n.Type.DueOrOverdue() {
			live = append(live, n)
			continue
		}
		c, ok := byID[n.Data.ComplaintID]
		if ok && !c.Status.Terminal() {
			live = append(live, n)
			continue
		}
		if err := s.store.Delete(ctx, tenant, n.ID); err != nil {
			result.Errors = append(result.Errors, domain.ReconcileError{
				ComplaintID: n.Data.ComplaintID,
				Message:     "cleanup failed: " + err.Error(),
			})
			live = append(live, n)
			continue
		}
		result.CleanedUp++
	}

	// Phase 2: create missing notifications for due/overdue complaints.
	pairs := activePairs(live)
	now := s.Now()
	for i := range complaints {
		c := &complaints[i]
		if c.Status.Terminal() {
			continue
		}
		daysDiff, err := c.DaysUntilDue(now)
		if err != nil {
			result.Errors = append(result.Errors, domain.ReconcileError{
				ComplaintID: c.ID,
				Message:     err.Error(),
			})
			continue
		}
		if daysDiff > 0 {
			continue
		}
		if daysDiff < 0 {
			result.Overdue++
		} else {
			result.DueToday++
		}

		for _, recipient := range s.recipients(ctx, tenant, c) {
			if pairs[pairKey(c.ID, recipient)] {
				continue
			}
			n := buildNotification(c, recipient, daysDiff, now)
			if _, err := s.store.Create(ctx, tenant, n); err != nil {
				result.Errors = append(result.Errors, domain.ReconcileError{
					ComplaintID: c.ID,
					Message:     "create failed: " + err.Error(),
				})
				continue
			}
			pairs[pairKey(c.ID, recipient)] = true
			result.Generated++
			s.metrics.IncrNotificationCreated(string(n.Type))
		}
	}

	if result.CleanedUp > 0 {
		s.metrics.AddNotificationsCleaned(result.CleanedUp)
	}
	s.metrics.IncrReconcileRun()
	s.bus.Publish(event.NewSignal("notifications/reconcile"))

	s.logger.Info("notification reconcile finished",
		zap.String("run_id", result.RunID),
		zap.String("tenant", string(tenant)),
		zap.Int("generated", result.Generated),
		zap.Int("cleaned_up", result.CleanedUp),
		zap.Int("due_today", result.DueToday),
		zap.Int("overdue", result.Overdue),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

// ============================================================
// Plain record operations
// ============================================================

// List returns one recipient's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, tenant domain.Tenant, userID string, unreadOnly bool, page, pageSize int) ([]domain.Notification, error) {
	ctx, span := notifTracer.Start(ctx, "NotificationService.List")
	defer span.End()

	all, err := s.store.ListByUser(ctx, tenant, userID)
	if err != nil {
		return nil, err
	}
	if unreadOnly {
		filtered := make([]domain.Notification, 0, len(all))
		for _, n := range all {
			if !n.Read {
				filtered = append(filtered, n)
			}
		}
		all = filtered
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		return all, nil
	}
	start := (page - 1) * pageSize
	if start >= len(all) {
		return []domain.Notification{}, nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

// MarkAsRead flips one notification's read flag.
func (s *NotificationService) MarkAsRead(ctx context.Context, tenant domain.Tenant, id string) error {
	ctx, span := notifTracer.Start(ctx, "NotificationService.MarkAsRead")
	defer span.End()

	return s.store.Update(ctx, tenant, id, map[string]any{"read": true})
}

// MarkAllAsRead flips every unread notification for one recipient.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, tenant domain.Tenant, userID string) error {
	ctx, span := notifTracer.Start(ctx, "NotificationService.MarkAllAsRead")
	defer span.End()

	all, err := s.store.ListByUser(ctx, tenant, userID)
	if err != nil {
		return err
	}
	for _, n := range all {
		if n.Read {
			continue
		}
		if err := s.store.Update(ctx, tenant, n.ID, map[string]any{"read": true}); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes one notification.
func (s *NotificationService) Delete(ctx context.Context, tenant domain.Tenant, id string) error {
	ctx, span := notifTracer.Start(ctx, "NotificationService.Delete")
	defer span.End()

	return s.store.Delete(ctx, tenant, id)
}
