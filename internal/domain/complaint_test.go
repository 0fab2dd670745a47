package domain

import (
	"testing"
	"time"
)

func TestComplaintStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to ComplaintStatus
		ok       bool
	}{
		{StatusOpen, StatusInProgress, true},
		{StatusOpen, StatusEscalated, true},
		{StatusInProgress, StatusOpen, true},
		{StatusEscalated, StatusResolved, true},
		{StatusEscalated, StatusOpen, false},
		{StatusResolved, StatusOpen, true}, // reopen
		{StatusResolved, StatusInProgress, false},
		{StatusClosed, StatusOpen, false},
		{StatusClosed, StatusResolved, false},
		{StatusOpen, StatusOpen, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.ok {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.ok)
		}
	}
}

func TestComplaintStatusTerminal(t *testing.T) {
	for _, s := range []ComplaintStatus{StatusOpen, StatusInProgress, StatusEscalated} {
		if s.Terminal() {
			t.Errorf("%s must not be terminal", s)
		}
	}
	for _, s := range []ComplaintStatus{StatusResolved, StatusClosed} {
		if !s.Terminal() {
			t.Errorf("%s must be terminal", s)
		}
	}
}

func TestDaysUntilDue_MidnightBoundaries(t *testing.T) {
	// Late evening: only the calendar date matters, not the clock.
	now := time.Date(2026, 3, 10, 23, 45, 0, 0, time.Local)

	cases := []struct {
		date string
		want int
	}{
		{"2026-03-10", 0},
		{"2026-03-11", 1},
		{"2026-03-09", -1},
		{"2026-03-03", -7},
		{"2026-04-10", 31},
	}
	for _, tc := range cases {
		c := Complaint{ExpectedResolutionDate: tc.date}
		got, err := c.DaysUntilDue(now)
		if err != nil {
			t.Fatalf("DaysUntilDue(%s): %v", tc.date, err)
		}
		if got != tc.want {
			t.Errorf("DaysUntilDue(%s) = %d, want %d", tc.date, got, tc.want)
		}
	}

	c := Complaint{ExpectedResolutionDate: "soon"}
	if _, err := c.DaysUntilDue(now); err == nil {
		t.Error("expected an error for an unparseable date")
	}
}

func TestDaysUntilDue_AcrossSpringForward(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}

	// Clocks jump from 02:00 to 03:00 on 2026-03-08, leaving only 23
	// hours between that midnight and the next. The day count must stay
	// a whole calendar day.
	now := time.Date(2026, 3, 8, 9, 0, 0, 0, loc)

	cases := []struct {
		date string
		want int
	}{
		{"2026-03-09", 1},
		{"2026-03-08", 0},
		{"2026-03-07", -1},
	}
	for _, tc := range cases {
		c := Complaint{ExpectedResolutionDate: tc.date}
		got, err := c.DaysUntilDue(now)
		if err != nil {
			t.Fatalf("DaysUntilDue(%s): %v", tc.date, err)
		}
		if got != tc.want {
			t.Errorf("DaysUntilDue(%s) = %d, want %d", tc.date, got, tc.want)
		}
	}
}

func TestOverdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)

	c := Complaint{Status: StatusOpen, ExpectedResolutionDate: "2026-03-09"}
	if !c.Overdue(now) {
		t.Error("open complaint past its date must be overdue")
	}

	c.ExpectedResolutionDate = "2026-03-10"
	if c.Overdue(now) {
		t.Error("due today is not overdue")
	}

	c.ExpectedResolutionDate = "2026-03-09"
	c.Status = StatusResolved
	if c.Overdue(now) {
		t.Error("terminal complaints are never overdue")
	}

	c.Status = StatusOpen
	c.ExpectedResolutionDate = "garbage"
	if c.Overdue(now) {
		t.Error("unparseable dates must not read as overdue")
	}
}

func TestFormatComplaintNumber(t *testing.T) {
	if got := FormatComplaintNumber(TenantElectronics, 2026, 1); got != "ELE20260001" {
		t.Errorf("got %s", got)
	}
	if got := FormatComplaintNumber(TenantFurniture, 2026, 123); got != "FUR20260123" {
		t.Errorf("got %s", got)
	}
	// The sequence widens past four digits rather than wrapping.
	if got := FormatComplaintNumber(TenantElectronics, 2026, 10001); got != "ELE202610001" {
		t.Errorf("got %s", got)
	}
}

func TestValidPhone(t *testing.T) {
	valid := []string{"9812345678", "6000000000", "7999999999"}
	for _, p := range valid {
		if !ValidPhone(p) {
			t.Errorf("%s should be valid", p)
		}
	}
	invalid := []string{"", "12345", "5812345678", "98123456789", "981234567", "98123 45678", "+919812345678"}
	for _, p := range invalid {
		if ValidPhone(p) {
			t.Errorf("%s should be invalid", p)
		}
	}
}

func TestParseTenant(t *testing.T) {
	if tn, err := ParseTenant("electronics"); err != nil || tn != TenantElectronics {
		t.Errorf("electronics: %v, %v", tn, err)
	}
	if tn, err := ParseTenant("furniture"); err != nil || tn != TenantFurniture {
		t.Errorf("furniture: %v, %v", tn, err)
	}
	if _, err := ParseTenant("grocery"); err == nil {
		t.Error("unknown tenant must be rejected")
	}
	if _, err := ParseTenant("Electronics"); err == nil {
		t.Error("tenant names are case-sensitive")
	}
}
