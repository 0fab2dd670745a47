package domain

import "time"

// ============================================================
// Complaint Notifications
// ============================================================

// NotificationType classifies a notification.
type NotificationType string

const (
	NotificationDueToday NotificationType = "complaint_due_today"
	NotificationOverdue  NotificationType = "complaint_overdue"
)

// DueOrOverdue reports whether t is one of the engine-managed types.
// Only these are subject to the dedup/retract lifecycle.
func (t NotificationType) DueOrOverdue() bool {
	return t == NotificationDueToday || t == NotificationOverdue
}

// NotificationPriority of a notification.
type NotificationPriority string

const (
	PriorityMedium NotificationPriority = "medium"
	PriorityHigh   NotificationPriority = "high"
)

// NotificationData is a snapshot of complaint fields at generation
// time. Delivered notifications never reflect later edits.
type NotificationData struct {
	ComplaintID            string          `json:"complaint_id"`
	ComplaintNumber        string          `json:"complaint_number"`
	Title                  string          `json:"title"`
	Severity               Severity        `json:"severity"`
	Status                 ComplaintStatus `json:"status"`
	ExpectedResolutionDate string          `json:"expected_resolution_date"`
	DaysOverdue            int             `json:"days_overdue,omitempty"`
}

// Notification is an advisory due/overdue alert for one recipient.
// Intended invariant (not enforced by storage): at most one active
// due/overdue notification per (complaint, recipient) pair.
type Notification struct {
	ID        string               `json:"id"`
	Title     string               `json:"title"`
	Message   string               `json:"message"`
	Type      NotificationType     `json:"type"`
	UserID    string               `json:"user_id"`
	Read      bool                 `json:"read"`
	Priority  NotificationPriority `json:"priority"`
	Data      NotificationData     `json:"data"`
	CreatedAt time.Time            `json:"created_at"`
}

// ReconcileError records one complaint's failure during bulk
// reconciliation without aborting the batch.
type ReconcileError struct {
	ComplaintID string `json:"complaint_id"`
	Message     string `json:"message"`
}

// ReconcileResult is the outcome of a bulk notification pass.
type ReconcileResult struct {
	RunID     string           `json:"run_id"`
	Generated int              `json:"generated"`
	CleanedUp int              `json:"cleaned_up"`
	DueToday  int              `json:"due_today"`
	Overdue   int              `json:"overdue"`
	Errors    []ReconcileError `json:"errors,omitempty"`
}
