package domain

// ============================================================
// Analytics (client-side rollups over full collection scans)
// ============================================================

// TimeWindow selects the sales aggregation window.
type TimeWindow string

const (
	WindowDaily   TimeWindow = "daily"   // today
	WindowWeekly  TimeWindow = "weekly"  // trailing 7 days
	WindowMonthly TimeWindow = "monthly" // current calendar month
	WindowAll     TimeWindow = "all"
)

// Valid reports whether the window is a known value.
func (w TimeWindow) Valid() bool {
	switch w {
	case WindowDaily, WindowWeekly, WindowMonthly, WindowAll:
		return true
	}
	return false
}

// PaymentBreakdown is the per-payment-type rollup.
type PaymentBreakdown struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// SalesSummary is the tenant-wide sales rollup for one window.
type SalesSummary struct {
	Window      TimeWindow                      `json:"window"`
	TotalSales  int                             `json:"total_sales"`
	TotalAmount float64                         `json:"total_amount"`
	ByPayment   map[PaymentType]PaymentBreakdown `json:"by_payment"`
}

// EmployeePerformance is one employee's sales rollup. Rank orders by
// total descending; ties keep stable input order. PerformancePct is
// the share of the tenant total.
type EmployeePerformance struct {
	EmployeeID     string  `json:"employee_id"`
	EmployeeName   string  `json:"employee_name"`
	TotalAmount    float64 `json:"total_amount"`
	SaleCount      int     `json:"sale_count"`
	AvgOrderValue  float64 `json:"avg_order_value"`
	Rank           int     `json:"rank"`
	PerformancePct float64 `json:"performance_pct"`
}

// PendingPayment is one customer's outstanding amount.
type PendingPayment struct {
	CustomerID   string  `json:"customer_id"`
	CustomerName string  `json:"customer_name"`
	SaleCount    int     `json:"sale_count"`
	Amount       float64 `json:"amount"`
}

// PendingPaymentsReport lists customers with pending-payment sales.
type PendingPaymentsReport struct {
	TotalAmount float64          `json:"total_amount"`
	Customers   []PendingPayment `json:"customers"`
}
