package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/khues-restaurant/khues-restaurant-sub000/internal/model"
	"github.com/khues-restaurant/khues-restaurant-sub000/internal/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ErrNoCategories is returned when a report request has every category flag off.
var ErrNoCategories = errors.New("at least one category must be requested")

// ReportService turns a report request into chart-ready, bucketed comparison
// data for the admin dashboard.
type ReportService interface {
	GenerateReport(ctx context.Context, req model.ReportRequest) ([]model.ReportResult, error)
}

type reportService struct {
	orders repository.OrderRepository
}

func NewReportService(orders repository.OrderRepository) ReportService {
	return &reportService{orders: orders}
}

// categoryConfig declares everything category-specific about a report: which
// date field filters and buckets the orders, which extra predicates apply,
// what each order contributes to its bucket sum, and how sums become chart
// values and summary strings. One bucketing routine consumes these configs.
type categoryConfig struct {
	name    string
	enabled func(model.ReportCategories) bool
	field   repository.OrderDateField
	filter  repository.OrderFilter
	value   func(*model.Order) int64
	average bool
	convert func(sum, count int64) float64
	total   func(sum, count int64) string
}

// reportCategories fixes the categories and their output order. Results are
// always emitted in this order no matter which flags the request sets.
var reportCategories = []categoryConfig{
	{
		name:    "Total orders",
		enabled: func(c model.ReportCategories) bool { return c.TotalOrders },
		field:   repository.OrderDateCreated,
		value:   func(*model.Order) int64 { return 1 },
		convert: func(sum, _ int64) float64 { return float64(sum) },
		total:   func(sum, _ int64) string { return fmt.Sprintf("%d orders", sum) },
	},
	{
		name:    "Total revenue",
		enabled: func(c model.ReportCategories) bool { return c.TotalRevenue },
		field:   repository.OrderDateCreated,
		value:   func(o *model.Order) int64 { return o.Total },
		convert: func(sum, _ int64) float64 { return centsToDollars(sum) },
		total: func(sum, _ int64) string {
			return "$" + centsDecimal(sum).StringFixed(2) + " in revenue"
		},
	},
	{
		name:    "Total tips",
		enabled: func(c model.ReportCategories) bool { return c.TotalTips },
		field:   repository.OrderDateCreated,
		value:   func(o *model.Order) int64 { return o.TipValue },
		convert: func(sum, _ int64) float64 { return centsToDollars(sum) },
		total: func(sum, _ int64) string {
			return "$" + centsDecimal(sum).StringFixed(2) + " in tips"
		},
	},
	{
		name:    "Average order value",
		enabled: func(c model.ReportCategories) bool { return c.AverageOrderValue },
		field:   repository.OrderDateCreated,
		value:   func(o *model.Order) int64 { return o.Total },
		average: true,
		convert: averageCentsToDollars,
		total: func(sum, count int64) string {
			return "$" + averageCentsDecimal(sum, count).StringFixed(2) + " per order"
		},
	},
	{
		name:    "Average order completion time",
		enabled: func(c model.ReportCategories) bool { return c.AverageOrderCompletionTime },
		field:   repository.OrderDateCompleted,
		filter:  repository.OrderFilter{RequireCompletedAt: true, RequireStartedAt: true},
		value: func(o *model.Order) int64 {
			return o.OrderCompletedAt.Sub(*o.OrderStartedAt).Milliseconds()
		},
		average: true,
		convert: averageMillisToMinutes,
		total:   minutesAndSecondsPerOrder,
	},
	{
		name:    "Late orders",
		enabled: func(c model.ReportCategories) bool { return c.LateOrders },
		field:   repository.OrderDateCompleted,
		filter:  repository.OrderFilter{RequireCompletedAt: true, LateOnly: true},
		value:   func(*model.Order) int64 { return 1 },
		convert: func(sum, _ int64) float64 { return float64(sum) },
		total:   func(sum, _ int64) string { return fmt.Sprintf("%d late orders", sum) },
	},
}

// GenerateReport builds one ReportResult per requested category. Each
// category queries its current range (and previous range, when supplied)
// independently; any store failure aborts the whole call.
func (s *reportService) GenerateReport(ctx context.Context, req model.ReportRequest) ([]model.ReportResult, error) {
	if !req.Categories.Any() {
		return nil, ErrNoCategories
	}
	if !req.Periodicity.Valid() {
		return nil, fmt.Errorf("unknown periodicity %q", req.Periodicity)
	}

	results := make([]model.ReportResult, 0, len(reportCategories))
	for _, cfg := range reportCategories {
		if !cfg.enabled(req.Categories) {
			continue
		}

		// The two range reads are independent, run them concurrently.
		var current, previous *rangeAccumulator
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			current, err = s.accumulate(gctx, cfg, req.CurrentRange, req.Periodicity)
			return err
		})
		if req.PreviousRange != nil {
			g.Go(func() error {
				var err error
				previous, err = s.accumulate(gctx, cfg, *req.PreviousRange, req.Periodicity)
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		results = append(results, buildResult(cfg, req, current, previous))
	}

	return results, nil
}

// rangeAccumulator holds per-bucket running sums and counts for one queried
// range, plus whole-range totals for the summary line.
type rangeAccumulator struct {
	sums       []int64
	counts     []int64
	totalSum   int64
	totalCount int64
}

// accumulate queries one range and folds every matching order into its
// bucket. The bucket index always derives from the category's own date field.
func (s *reportService) accumulate(ctx context.Context, cfg categoryConfig, rng model.DateRange, p model.Periodicity) (*rangeAccumulator, error) {
	orders, err := s.orders.FindInRange(ctx, cfg.field, rng.Start, rng.End, cfg.filter)
	if err != nil {
		return nil, err
	}

	n := p.BucketCount()
	acc := &rangeAccumulator{
		sums:   make([]int64, n),
		counts: make([]int64, n),
	}

	for i := range orders {
		o := &orders[i]

		// The store applies these predicates in SQL; the accumulator still
		// refuses rows that miss them so the arithmetic never dereferences
		// an absent timestamp.
		if cfg.filter.RequireCompletedAt && o.OrderCompletedAt == nil {
			continue
		}
		if cfg.filter.RequireStartedAt && o.OrderStartedAt == nil {
			continue
		}
		if cfg.filter.LateOnly && !o.IsLate() {
			continue
		}

		t := o.CreatedAt
		if cfg.field == repository.OrderDateCompleted {
			t = *o.OrderCompletedAt
		}

		idx := bucketIndex(t, p)
		if idx < 0 || idx >= n {
			continue
		}

		v := cfg.value(o)
		acc.sums[idx] += v
		acc.counts[idx]++
		acc.totalSum += v
		acc.totalCount++
	}

	return acc, nil
}

// buildResult converts a category's accumulators into the labeled, ordered
// bucket rows plus title, time range and summary strings.
func buildResult(cfg categoryConfig, req model.ReportRequest, current, previous *rangeAccumulator) model.ReportResult {
	n := req.Periodicity.BucketCount()
	rows := make([]model.BucketRow, 0, n)
	for i := 0; i < n; i++ {
		row := model.BucketRow{
			Label:   periodLabel(i, req.Periodicity),
			Current: cfg.convert(current.sums[i], current.counts[i]),
		}
		if previous != nil {
			prev := cfg.convert(previous.sums[i], previous.counts[i])
			row.Previous = &prev
		}
		rows = append(rows, row)
	}

	result := model.ReportResult{
		Title:        reportTitle(cfg.name, req.Periodicity, req.PreviousRange != nil),
		TimeRange:    reportTimeRange(req.CurrentRange, req.PreviousRange),
		Data:         rows,
		TotalCurrent: cfg.total(current.totalSum, current.totalCount),
	}
	if previous != nil {
		totalPrev := cfg.total(previous.totalSum, previous.totalCount)
		result.TotalPrevious = &totalPrev
	}
	return result
}

var periodicityTitles = map[model.Periodicity]string{
	model.PeriodicityDaily:   "Daily",
	model.PeriodicityWeekly:  "Weekly",
	model.PeriodicityMonthly: "Monthly",
	model.PeriodicityYearly:  "Yearly",
}

var comparisonPhrases = map[model.Periodicity]string{
	model.PeriodicityDaily:   "Compared to yesterday",
	model.PeriodicityWeekly:  "Compared to last week",
	model.PeriodicityMonthly: "Compared to last month",
	model.PeriodicityYearly:  "Compared to last year",
}

func reportTitle(name string, p model.Periodicity, comparing bool) string {
	if comparing {
		return name + " - " + comparisonPhrases[p]
	}
	return name + " - " + periodicityTitles[p]
}

const rangeDateLayout = "Jan 2, 2006"

func reportTimeRange(current model.DateRange, previous *model.DateRange) string {
	s := formatRange(current)
	if previous != nil {
		s += " vs " + formatRange(*previous)
	}
	return s
}

func formatRange(r model.DateRange) string {
	return r.Start.Format(rangeDateLayout) + " - " + r.End.Format(rangeDateLayout)
}

// centsDecimal converts integer cents to a dollar decimal exactly; the scaled
// construction never rounds.
func centsDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

func centsToDollars(cents int64) float64 {
	f, _ := centsDecimal(cents).Float64()
	return f
}

// averageCentsDecimal is the per-bucket and grand-total dollar average,
// rounded to the cent. Zero counts yield zero rather than a division error.
func averageCentsDecimal(sumCents, count int64) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return centsDecimal(sumCents).Div(decimal.NewFromInt(count)).Round(2)
}

func averageCentsToDollars(sumCents, count int64) float64 {
	f, _ := averageCentsDecimal(sumCents, count).Float64()
	return f
}

// averageMillisToMinutes converts a summed duration to average minutes per
// order, two decimal places.
func averageMillisToMinutes(sumMillis, count int64) float64 {
	if count == 0 {
		return 0
	}
	avg := decimal.NewFromInt(sumMillis).
		Div(decimal.NewFromInt(count).Mul(decimal.NewFromInt(int64(time.Minute / time.Millisecond)))).
		Round(2)
	f, _ := avg.Float64()
	return f
}

func minutesAndSecondsPerOrder(sumMillis, count int64) string {
	var avgMillis int64
	if count > 0 {
		avgMillis = sumMillis / count
	}
	minutes := avgMillis / int64(time.Minute/time.Millisecond)
	seconds := (avgMillis % int64(time.Minute/time.Millisecond)) / int64(time.Second/time.Millisecond)
	return fmt.Sprintf("%d minutes and %d seconds per order", minutes, seconds)
}
