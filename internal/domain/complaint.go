package domain

import (
	"fmt"
	"regexp"
	"time"
)

// ============================================================
// Complaint
// ============================================================

// ComplaintStatus is the lifecycle state of a complaint.
type ComplaintStatus string

const (
	StatusOpen       ComplaintStatus = "open"
	StatusInProgress ComplaintStatus = "in_progress"
	StatusEscalated  ComplaintStatus = "escalated"
	StatusResolved   ComplaintStatus = "resolved"
	StatusClosed     ComplaintStatus = "closed"
)

// complaintTransitions is the explicit transition table. A closed
// complaint is terminal; reopening goes through resolved -> open.
var complaintTransitions = map[ComplaintStatus][]ComplaintStatus{
	StatusOpen:       {StatusInProgress, StatusEscalated, StatusResolved, StatusClosed},
	StatusInProgress: {StatusOpen, StatusEscalated, StatusResolved, StatusClosed},
	StatusEscalated:  {StatusInProgress, StatusResolved, StatusClosed},
	StatusResolved:   {StatusOpen, StatusClosed},
	StatusClosed:     {},
}

// Valid reports whether s is a known status.
func (s ComplaintStatus) Valid() bool {
	_, ok := complaintTransitions[s]
	return ok
}

// CanTransitionTo reports whether the move from s to next is allowed.
func (s ComplaintStatus) CanTransitionTo(next ComplaintStatus) bool {
	for _, t := range complaintTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Terminal reports whether the complaint no longer counts as pending.
func (s ComplaintStatus) Terminal() bool {
	return s == StatusResolved || s == StatusClosed
}

// Severity of a complaint.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Valid reports whether the severity is a known value.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// AssigneeType selects which assignment fields are populated.
type AssigneeType string

const (
	AssigneeEmployee      AssigneeType = "employee"
	AssigneeServicePerson AssigneeType = "service_person"
)

// StatusHistoryEntry records one status change.
type StatusHistoryEntry struct {
	Status    ComplaintStatus `json:"status"`
	ChangedAt time.Time       `json:"changed_at"`
	ChangedBy string          `json:"changed_by"`
	Remarks   string          `json:"remarks"`
}

// Complaint is a customer complaint record. Exactly one of the
// employee-assignment or service-person-assignment field groups is
// populated, selected by AssigneeType.
type Complaint struct {
	ID              string          `json:"id"`
	ComplaintNumber string          `json:"complaint_number"`
	CustomerID      string          `json:"customer_id"`
	CustomerName    string          `json:"customer_name,omitempty"`
	CustomerPhone   string          `json:"customer_phone,omitempty"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Category        string          `json:"category,omitempty"`
	Severity        Severity        `json:"severity"`
	Status          ComplaintStatus `json:"status"`

	AssigneeType AssigneeType `json:"assignee_type"`
	// Employee assignment
	EmployeeID   string `json:"employee_id,omitempty"`
	EmployeeName string `json:"employee_name,omitempty"`
	// Service-person assignment
	ServicePersonName    string `json:"service_person_name,omitempty"`
	ServicePersonContact string `json:"service_person_contact,omitempty"`
	// Service-person extras (present only for service_person assignments)
	CompanyComplaintNumber string `json:"company_complaint_number,omitempty"`
	CompanyRecordedDate    string `json:"company_recorded_date,omitempty"`

	// ExpectedResolutionDate is a calendar date (YYYY-MM-DD); overdue
	// checks compare midnights, not instants.
	ExpectedResolutionDate string `json:"expected_resolution_date"`

	StatusHistory []StatusHistoryEntry `json:"status_history"`

	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
	UpdatedBy string    `json:"updated_by,omitempty"`

	// IsOverdue is derived, never persisted.
	IsOverdue bool `json:"is_overdue"`
}

// DateLayout is the calendar-date layout used across the back office.
const DateLayout = "2006-01-02"

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysUntilDue returns the whole-day difference between the expected
// resolution date and today: 0 means due today, negative means overdue.
// An unparseable date reports an error so callers never treat garbage
// as "due in 0 days".
func (c *Complaint) DaysUntilDue(now time.Time) (int, error) {
	due, err := time.ParseInLocation(DateLayout, c.ExpectedResolutionDate, now.Location())
	if err != nil {
		return 0, &ErrValidation{Field: "expected_resolution_date", Message: "invalid date: " + c.ExpectedResolutionDate}
	}
	// Count calendar days in UTC: a DST transition between the two local
	// midnights must not skew the whole-day difference.
	dy, dm, dd := due.Date()
	ny, nm, nd := now.Date()
	diff := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC).Sub(time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC))
	return int(diff / (24 * time.Hour)), nil
}

// Overdue reports whether the complaint is past its expected resolution
// date and not yet resolved or closed.
func (c *Complaint) Overdue(now time.Time) bool {
	if c.Status.Terminal() {
		return false
	}
	days, err := c.DaysUntilDue(now)
	if err != nil {
		return false
	}
	return days < 0
}

// WithDerived returns a copy with the derived fields filled in.
func (c Complaint) WithDerived(now time.Time) Complaint {
	c.IsOverdue = c.Overdue(now)
	return c
}

// FormatComplaintNumber builds {PREFIX}{year}{4-digit sequence}.
func FormatComplaintNumber(t Tenant, year, seq int) string {
	return fmt.Sprintf("%s%d%04d", t.Prefix(), year, seq)
}

// phoneRE matches local 10-digit mobile numbers, first digit 6-9.
// Used uniformly for customer phones and service-person contacts.
var phoneRE = regexp.MustCompile(`^[6-9]\d{9}$`)

// ValidPhone reports whether s is a valid local mobile number.
func ValidPhone(s string) bool {
	return phoneRE.MatchString(s)
}

// ============================================================
// Requests
// ============================================================

// ComplaintCreateRequest carries the caller-supplied fields for create.
type ComplaintCreateRequest struct {
	CustomerID             string       `json:"customer_id"`
	Title                  string       `json:"title"`
	Description            string       `json:"description"`
	Category               string       `json:"category,omitempty"`
	Severity               Severity     `json:"severity"`
	AssigneeType           AssigneeType `json:"assignee_type"`
	EmployeeID             string       `json:"employee_id,omitempty"`
	ServicePersonName      string       `json:"service_person_name,omitempty"`
	ServicePersonContact   string       `json:"service_person_contact,omitempty"`
	CompanyComplaintNumber string       `json:"company_complaint_number,omitempty"`
	CompanyRecordedDate    string       `json:"company_recorded_date,omitempty"`
	ExpectedResolutionDate string       `json:"expected_resolution_date"`
}

// ComplaintUpdateRequest is a partial update; nil pointers are untouched.
// A status change requires non-empty Remarks.
type ComplaintUpdateRequest struct {
	Title                  *string          `json:"title,omitempty"`
	Description            *string          `json:"description,omitempty"`
	Category               *string          `json:"category,omitempty"`
	Severity               *Severity        `json:"severity,omitempty"`
	Status                 *ComplaintStatus `json:"status,omitempty"`
	Remarks                string           `json:"remarks,omitempty"`
	EmployeeID             *string          `json:"employee_id,omitempty"`
	ServicePersonName      *string          `json:"service_person_name,omitempty"`
	ServicePersonContact   *string          `json:"service_person_contact,omitempty"`
	ExpectedResolutionDate *string          `json:"expected_resolution_date,omitempty"`
}

// ComplaintFilter describes the client-side list filters.
type ComplaintFilter struct {
	Status       ComplaintStatus
	Severity     Severity
	AssigneeType AssigneeType
	Search       string // matched against number/title/customer name/phone/description
}

// ComplaintSort describes the list ordering.
type ComplaintSort struct {
	Field string // complaint_number, title, customer_name, severity, status, expected_resolution_date, created_at
	Desc  bool
}

// ComplaintPage is a limit/offset window. A zero Limit means "everything".
type ComplaintPage struct {
	Limit  int
	Offset int
}

// ComplaintList is a filtered, sorted, possibly paginated result.
type ComplaintList struct {
	Items      []Complaint `json:"items"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	TotalPages int         `json:"total_pages"`
}

// ComplaintStats is a single-pass rollup over the collection.
type ComplaintStats struct {
	Total      int                     `json:"total"`
	ByStatus   map[ComplaintStatus]int `json:"by_status"`
	BySeverity map[Severity]int        `json:"by_severity"`
	Overdue    int                     `json:"overdue"`
}
