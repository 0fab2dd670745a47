package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/showroomhq/backoffice-go/internal/domain"
)

// The storage collaborator has no server-side query language beyond a
// single-field equality filter, so listing is always a full-collection
// fetch with client-side filter/sort/paginate. Acceptable at showroom
// scale (hundreds of complaints per tenant).

// List returns a filtered, sorted, optionally paginated complaint page
// with derived fields filled in.
func (s *ComplaintService) List(ctx context.Context, tenant domain.Tenant, filter domain.ComplaintFilter, sortBy domain.ComplaintSort, page domain.ComplaintPage) (*domain.ComplaintList, error) {
	ctx, span := complaintTracer.Start(ctx, "ComplaintService.List")
	defer span.End()

	all, err := s.store.ListAll(ctx, tenant)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	items := make([]domain.Complaint, 0, len(all))
	for _, c := range all {
		if !matchesFilter(&c, filter) {
			continue
		}
		items = append(items, c.WithDerived(now))
	}

	sortComplaints(items, sortBy)

	total := len(items)
	if page.Limit <= 0 {
		return &domain.ComplaintList{Items: items, Total: total, Page: 1, TotalPages: 1}, nil
	}
	totalPages := (total + page.Limit - 1) / page.Limit
	if totalPages == 0 {
		totalPages = 1
	}
	start := page.Offset
	if start > total {
		start = total
	}
	end := start + page.Limit
	if end > total {
		end = total
	}
	return &domain.ComplaintList{
		Items:      items[start:end],
		Total:      total,
		Page:       page.Offset/page.Limit + 1,
		TotalPages: totalPages,
	}, nil
}

// Search is List with only a free-text term.
func (s *ComplaintService) Search(ctx context.Context, tenant domain.Tenant, term string) ([]domain.Complaint, error) {
	list, err := s.List(ctx, tenant, domain.ComplaintFilter{Search: term}, domain.ComplaintSort{}, domain.ComplaintPage{})
	if err != nil {
		return nil, err
	}
	return list.Items, nil
}

// Stats rolls up the whole collection in one pass.
func (s *ComplaintService) Stats(ctx context.Context, tenant domain.Tenant) (*domain.ComplaintStats, error) {
	ctx, span := complaintTracer.Start(ctx, "ComplaintService.Stats")
	defer span.End()

	all, err := s.store.ListAll(ctx, tenant)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	stats := &domain.ComplaintStats{
		Total:      len(all),
		ByStatus:   map[domain.ComplaintStatus]int{},
		BySeverity: map[domain.Severity]int{},
	}
	for _, c := range all {
		stats.ByStatus[c.Status]++
		stats.BySeverity[c.Severity]++
		if c.Overdue(now) {
			stats.Overdue++
		}
	}
	return stats, nil
}

func matchesFilter(c *domain.Complaint, f domain.ComplaintFilter) bool {
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.Severity != "" && c.Severity != f.Severity {
		return false
	}
	if f.AssigneeType != "" && c.AssigneeType != f.AssigneeType {
		return false
	}
	if f.Search != "" {
		term := strings.ToLower(strings.TrimSpace(f.Search))
		hay := strings.ToLower(strings.Join([]string{
			c.ComplaintNumber, c.Title, c.CustomerName, c.CustomerPhone, c.Description,
		}, "\n"))
		if !strings.Contains(hay, term) {
			return false
		}
	}
	return true
}

// sortComplaints orders in place. Strings compare case-folded, dates
// by epoch millis. Default ordering is newest first.
func sortComplaints(items []domain.Complaint, by domain.ComplaintSort) {
	if by.Field == "" {
		by = domain.ComplaintSort{Field: "created_at", Desc: true}
	}
	less := func(a, b *domain.Complaint) bool {
		switch by.Field {
		case "complaint_number":
			return foldLess(a.ComplaintNumber, b.ComplaintNumber)
		case "title":
			return foldLess(a.Title, b.Title)
		case "customer_name":
			return foldLess(a.CustomerName, b.CustomerName)
		case "severity":
			return foldLess(string(a.Severity), string(b.Severity))
		case "status":
			return foldLess(string(a.Status), string(b.Status))
		case "expected_resolution_date":
			return dateMillis(a.ExpectedResolutionDate) < dateMillis(b.ExpectedResolutionDate)
		default: // created_at
			return a.CreatedAt.UnixMilli() < b.CreatedAt.UnixMilli()
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if by.Desc {
			return less(&items[j], &items[i])
		}
		return less(&items[i], &items[j])
	})
}

func foldLess(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}

// dateMillis parses a calendar date to epoch millis; unparseable dates
// sort first.
func dateMillis(s string) int64 {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return 0
	}
	return t.UnixMilli()
}
