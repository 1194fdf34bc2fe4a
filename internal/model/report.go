package model

import (
	"time"
)

// Periodicity selects the bucket granularity for a report: daily buckets by
// hour of day, weekly by weekday, monthly by day of month, yearly by month.
type Periodicity string

const (
	PeriodicityDaily   Periodicity = "daily"
	PeriodicityWeekly  Periodicity = "weekly"
	PeriodicityMonthly Periodicity = "monthly"
	PeriodicityYearly  Periodicity = "yearly"
)

// BucketCount returns the fixed number of buckets for the periodicity.
// The count never depends on the queried data.
func (p Periodicity) BucketCount() int {
	switch p {
	case PeriodicityDaily:
		return 24
	case PeriodicityWeekly:
		return 7
	case PeriodicityMonthly:
		return 31
	case PeriodicityYearly:
		return 12
	}
	return 0
}

// Valid reports whether p is one of the known periodicities.
func (p Periodicity) Valid() bool {
	return p.BucketCount() > 0
}

// DateRange is an inclusive [Start, End] reporting window.
type DateRange struct {
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`
}

// ReportCategories holds one flag per report category. At least one flag must
// be set for a report request to be valid.
type ReportCategories struct {
	TotalOrders                bool `json:"total_orders"`
	TotalRevenue               bool `json:"total_revenue"`
	TotalTips                  bool `json:"total_tips"`
	AverageOrderValue          bool `json:"average_order_value"`
	AverageOrderCompletionTime bool `json:"average_order_completion_time"`
	LateOrders                 bool `json:"late_orders"`
}

// Any reports whether at least one category flag is set.
func (c ReportCategories) Any() bool {
	return c.TotalOrders || c.TotalRevenue || c.TotalTips ||
		c.AverageOrderValue || c.AverageOrderCompletionTime || c.LateOrders
}

// ReportRequest is the input to report generation. PreviousRange is optional;
// when present every category report carries a comparison series and total.
type ReportRequest struct {
	Categories    ReportCategories `json:"categories"`
	Periodicity   Periodicity      `json:"periodicity" binding:"required,oneof=daily weekly monthly yearly"`
	CurrentRange  DateRange        `json:"current_range" binding:"required"`
	PreviousRange *DateRange       `json:"previous_range"`
}

// BucketRow is one labeled chart point. Current and Previous are counts,
// dollars or minutes depending on the category; Previous is nil when no
// comparison range was requested.
type BucketRow struct {
	Label    string   `json:"label"`
	Current  float64  `json:"current"`
	Previous *float64 `json:"previous,omitempty"`
}

// ReportResult is one category's chart-ready report.
type ReportResult struct {
	Title         string      `json:"title"`
	TimeRange     string      `json:"time_range"`
	Data          []BucketRow `json:"data"`
	TotalCurrent  string      `json:"total_current"`
	TotalPrevious *string     `json:"total_previous"`
}
