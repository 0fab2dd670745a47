package service

import (
	"context"
	"sort"
	"time"

	"github.com/showroomhq/backoffice-go/internal/domain"
	"github.com/showroomhq/backoffice-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var analyticsTracer = otel.Tracer("service/analytics")

// AnalyticsService computes sales rollups. Everything is a single pass
// over a full collection fetch; there is no server-side aggregation.
type AnalyticsService struct {
	sales     port.SalesStore
	employees port.EmployeeStore
	logger    *zap.Logger

	Now func() time.Time
}

// NewAnalyticsService wires the aggregators.
func NewAnalyticsService(sales port.SalesStore, employees port.EmployeeStore, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		sales:     sales,
		employees: employees,
		logger:    logger,
		Now:       time.Now,
	}
}

// inWindow reports whether a calendar sale date falls in the window
// ending today. Unparseable dates never match a bounded window.
func inWindow(saleDate string, w domain.TimeWindow, now time.Time) bool {
	if w == domain.WindowAll || w == "" {
		return true
	}
	d, err := time.ParseInLocation(domain.DateLayout, saleDate, now.Location())
	if err != nil {
		return false
	}
	day := domain.StartOfDay(d)
	today := domain.StartOfDay(now)
	switch w {
	case domain.WindowDaily:
		return day.Equal(today)
	case domain.WindowWeekly:
		return !day.After(today) && !day.Before(today.AddDate(0, 0, -6))
	case domain.WindowMonthly:
		return day.Year() == today.Year() && day.Month() == today.Month()
	}
	return false
}

// SalesSummary rolls up count, amount and payment-type breakdown for
// one window.
func (s *AnalyticsService) SalesSummary(ctx context.Context, tenant domain.Tenant, window domain.TimeWindow) (*domain.SalesSummary, error) {
	ctx, span := analyticsTracer.Start(ctx, "AnalyticsService.SalesSummary")
	defer span.End()
	span.SetAttributes(attribute.String("window", string(window)))

	if window == "" {
		window = domain.WindowAll
	}
	if !window.Valid() {
		return nil, &domain.ErrValidation{Field: "window", Message: "unknown window: " + string(window)}
	}

	all, err := s.sales.ListAll(ctx, tenant)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	summary := &domain.SalesSummary{
		Window:    window,
		ByPayment: map[domain.PaymentType]domain.PaymentBreakdown{},
	}
	for _, sale := range all {
		if !inWindow(sale.SaleDate, window, now) {
			continue
		}
		summary.TotalSales++
		summary.TotalAmount += sale.Amount
		b := summary.ByPayment[sale.PaymentType]
		b.Count++
		b.Amount += sale.Amount
		summary.ByPayment[sale.PaymentType] = b
	}
	return summary, nil
}

// EmployeePerformance ranks employees by sales total in one window.
// Ties keep the employees' storage order; rank is dense position, not
// competition rank. Employees with no sales appear with zero totals.
func (s *AnalyticsService) EmployeePerformance(ctx context.Context, tenant domain.Tenant, window domain.TimeWindow) ([]domain.EmployeePerformance, error) {
	ctx, span := analyticsTracer.Start(ctx, "AnalyticsService.EmployeePerformance")
	defer span.End()
	span.SetAttributes(attribute.String("window", string(window)))

	if window == "" {
		window = domain.WindowAll
	}
	if !window.Valid() {
		return nil, &domain.ErrValidation{Field: "window", Message: "unknown window: " + string(window)}
	}

	var (
		sales     []domain.Sale
		employees []domain.Employee
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sales, err = s.sales.ListAll(gctx, tenant)
		return err
	})
	g.Go(func() error {
		var err error
		employees, err = s.employees.ListAll(gctx, tenant)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.Now()
	perf := make([]domain.EmployeePerformance, 0, len(employees))
	index := make(map[string]int, len(employees))
	for _, e := range employees {
		index[e.ID] = len(perf)
		perf = append(perf, domain.EmployeePerformance{
			EmployeeID:   e.ID,
			EmployeeName: e.Name,
		})
	}

	tenantTotal := 0.0
	for _, sale := range sales {
		if !inWindow(sale.SaleDate, window, now) {
			continue
		}
		i, ok := index[sale.EmployeeID]
		if !ok {
			// Sale by a since-deleted employee still counts toward the
			// tenant total.
			tenantTotal += sale.Amount
			continue
		}
		perf[i].TotalAmount += sale.Amount
		perf[i].SaleCount++
		tenantTotal += sale.Amount
	}

	for i := range perf {
		if perf[i].SaleCount > 0 {
			perf[i].AvgOrderValue = perf[i].TotalAmount / float64(perf[i].SaleCount)
		}
		if tenantTotal > 0 {
			perf[i].PerformancePct = perf[i].TotalAmount / tenantTotal * 100
		}
	}

	sort.SliceStable(perf, func(i, j int) bool {
		return perf[i].TotalAmount > perf[j].TotalAmount
	})
	for i := range perf {
		perf[i].Rank = i + 1
	}
	return perf, nil
}

// PendingPayments lists customers with outstanding pending-payment
// sales, largest amount first.
func (s *AnalyticsService) PendingPayments(ctx context.Context, tenant domain.Tenant) (*domain.PendingPaymentsReport, error) {
	ctx, span := analyticsTracer.Start(ctx, "AnalyticsService.PendingPayments")
	defer span.End()
	span.SetAttributes(attribute.String("tenant", string(tenant)))

	all, err := s.sales.ListAll(ctx, tenant)
	if err != nil {
		return nil, err
	}

	byCustomer := map[string]*domain.PendingPayment{}
	order := []string{}
	report := &domain.PendingPaymentsReport{}
	for _, sale := range all {
		if sale.PaymentType != domain.PaymentPending {
			continue
		}
		p, ok := byCustomer[sale.CustomerID]
		if !ok {
			p = &domain.PendingPayment{
				CustomerID:   sale.CustomerID,
				CustomerName: sale.CustomerName,
			}
			byCustomer[sale.CustomerID] = p
			order = append(order, sale.CustomerID)
		}
		p.SaleCount++
		p.Amount += sale.Amount
		report.TotalAmount += sale.Amount
	}

	report.Customers = make([]domain.PendingPayment, 0, len(order))
	for _, id := range order {
		report.Customers = append(report.Customers, *byCustomer[id])
	}
	sort.SliceStable(report.Customers, func(i, j int) bool {
		return report.Customers[i].Amount > report.Customers[j].Amount
	})
	return report, nil
}
