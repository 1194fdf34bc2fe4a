package service

import (
	"context"
	"testing"
	"time"

	"github.com/khues-restaurant/khues-restaurant-sub000/internal/model"
	"github.com/khues-restaurant/khues-restaurant-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository implements repository.OrderRepository for tests
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, page, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, page, limit)
	return args.Get(0).([]model.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	return args.Get(0).([]model.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) Update(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindInRange(ctx context.Context, field repository.OrderDateField, start, end time.Time, filter repository.OrderFilter) ([]model.Order, error) {
	args := m.Called(ctx, field, start, end, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func timePtr(t time.Time) *time.Time { return &t }

// weekOf returns an inclusive Sunday-to-Saturday range around 2024-06-02.
func weekRange() model.DateRange {
	return model.DateRange{
		Start: time.Date(2024, time.June, 2, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.June, 8, 23, 59, 59, 0, time.UTC),
	}
}

func dayRange() model.DateRange {
	return model.DateRange{
		Start: time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.June, 3, 23, 59, 59, 0, time.UTC),
	}
}

func createdOrder(at time.Time, totalCents, tipCents int64) model.Order {
	return model.Order{
		Total:     totalCents,
		TipValue:  tipCents,
		CreatedAt: at,
	}
}

func TestGenerateReport_NoCategoriesFailsBeforeQuerying(t *testing.T) {
	repo := new(MockOrderRepository)
	svc := NewReportService(repo)

	_, err := svc.GenerateReport(context.Background(), model.ReportRequest{
		Periodicity:  model.PeriodicityWeekly,
		CurrentRange: weekRange(),
	})

	assert.ErrorIs(t, err, ErrNoCategories)
	repo.AssertNotCalled(t, "FindInRange")
}

func TestGenerateReport_UnknownPeriodicity(t *testing.T) {
	repo := new(MockOrderRepository)
	svc := NewReportService(repo)

	_, err := svc.GenerateReport(context.Background(), model.ReportRequest{
		Categories:   model.ReportCategories{TotalOrders: true},
		Periodicity:  model.Periodicity("hourly"),
		CurrentRange: weekRange(),
	})

	assert.Error(t, err)
	repo.AssertNotCalled(t, "FindInRange")
}

func TestGenerateReport_WeeklyRevenueOnMonday(t *testing.T) {
	rng := weekRange()
	monday := time.Date(2024, time.June, 3, 12, 0, 0, 0, time.UTC)

	repo := new(MockOrderRepository)
	repo.On("FindInRange", mock.Anything, repository.OrderDateCreated, rng.Start, rng.End, repository.OrderFilter{}).
		Return([]model.Order{
			createdOrder(monday, 1000, 0),
			createdOrder(monday.Add(time.Hour), 2000, 0),
			createdOrder(monday.Add(2*time.Hour), 3000, 0),
		}, nil)

	svc := NewReportService(repo)
	results, err := svc.GenerateReport(context.Background(), model.ReportRequest{
		Categories:   model.ReportCategories{TotalRevenue: true},
		Periodicity:  model.PeriodicityWeekly,
		CurrentRange: rng,
	})

	assert.NoError(t, err)
	assert.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, "Total revenue - Weekly", r.Title)
	assert.Equal(t, "Jun 2, 2024 - Jun 8, 2024", r.TimeRange)
	assert.Len(t, r.Data, 7)
	for i, row := range r.Data {
		if i == 1 {
			assert.Equal(t, "Monday", row.Label)
			assert.Equal(t, 60.0, row.Current)
		} else {
			assert.Equal(t, 0.0, row.Current, "bucket %d should be empty", i)
		}
		assert.Nil(t, row.Previous)
	}
	assert.Equal(t, "$60.00 in revenue", r.TotalCurrent)
	assert.Nil(t, r.TotalPrevious)
	repo.AssertExpectations(t)
}

func TestGenerateReport_DailyAverageOrderValue(t *testing.T) {
	rng := dayRange()
	twoPM := time.Date(2024, time.June, 3, 14, 5, 0, 0, time.UTC)

	repo := new(MockOrderRepository)
	repo.On("FindInRange", mock.Anything, repository.OrderDateCreated, rng.Start, rng.End, repository.OrderFilter{}).
		Return([]model.Order{
			createdOrder(twoPM, 1000, 0),
			createdOrder(twoPM.Add(40*time.Minute), 3000, 0),
		}, nil)

	svc := NewReportService(repo)
	results, err := svc.GenerateReport(context.Background(), model.ReportRequest{
		Categories:   model.ReportCategories{AverageOrderValue: true},
		Periodicity:  model.PeriodicityDaily,
		CurrentRange: rng,
	})

	assert.NoError(t, err)
	r := results[0]
	assert.Len(t, r.Data, 24)
	assert.Equal(t, "2:00 PM", r.Data[14].Label)
	assert.Equal(t, 20.0, r.Data[14].Current) // average of $10 and $30, not the raw sum
	assert.Equal(t, 0.0, r.Data[13].Current)
	assert.Equal(t, "$20.00 per order", r.TotalCurrent)
}

func TestGenerateReport_CurrencyConversionIsExact(t *testing.T) {
	rng := model.DateRange{
		Start: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.June, 30, 23, 59, 59, 0, time.UTC),
	}

	repo := new(MockOrderRepository)
	repo.On("FindInRange", mock.Anything, repository.OrderDateCreated, rng.Start, rng.End, repository.OrderFilter{}).
		Return([]model.Order{
			createdOrder(time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC), 12345, 0),
		}, nil)

	svc := NewReportService(repo)
	results, err := svc.GenerateReport(context.Background(), model.ReportRequest{
		Categories:   model.ReportCategories{TotalRevenue: true},
		Periodicity:  model.PeriodicityMonthly,
		CurrentRange: rng,
	})

	assert.NoError(t, err)
	r := results[0]
	assert.Len(t, r.Data, 31)
	assert.Equal(t, "15th", r.Data[14].Label)
	// exact equality on purpose: 12345 cents must be 123.45, not 123.44999...
	assert.Equal(t, 123.45, r.Data[14].Current)
	assert.Equal(t, "$123.45 in revenue", r.TotalCurrent)
}

func TestGenerateReport_GrandAverageIsNotMeanOfBucketAverages(t *testing.T) {
	rng := dayRange()
	oneAM := time.Date(2024, time.June, 3, 1, 0, 0, 0, time.UTC)
	twoAM := time.Date(2024, time.June, 3, 2, 0, 0, 0, time.UTC)

	repo := new(MockOrderRepository)
	repo.On("FindInRange", mock.Anything, repository.OrderDateCreated, rng.Start, rng.End, repository.OrderFilter{}).
		Return([]model.Order{
			createdOrder(oneAM, 1000, 0),
			createdOrder(twoAM, 2000, 0),
			createdOrder(twoAM.Add(time.Minute), 3000, 0),
			createdOrder(twoAM.Add(2*time.Minute), 5000, 0),
		}, nil)

	svc := NewReportService(repo)
	results, err := svc.GenerateReport(context.Background(), model.ReportRequest{
		Categories:   model.ReportCategories{AverageOrderValue: true},
		Periodicity:  model.PeriodicityDaily,
		CurrentRange: rng,
	})

	assert.NoError(t, err)
	r := results[0]
	assert.Equal(t, 10.0, r.Data[1].Current)
	assert.Equal(t, 33.33, r.Data[2].Current)
	// 11000 cents over 4 orders, not mean(10.00, 33.33)
	assert.Equal(t, "$27.50 per order", r.TotalCurrent)
}

func TestGenerateReport_TotalOrdersMatchesBucketSum(t *testing.T) {
	rng := weekRange()

	repo := new(MockOrderRepository)
	repo.On("FindInRange", mock.Anything, repository.OrderDateCreated, rng.Start, rng.End, repository.OrderFilter{}).
		Return([]model.Order{
			createdOrder(time.Date(2024, time.June, 2, 9, 0, 0, 0, time.UTC), 100, 0),
			createdOrder(time.Date(2024, time.June, 3, 9, 0, 0, 0, time.UTC), 100, 0),
			createdOrder(time.Date(2024, time.June, 3, 19, 0, 0, 0, time.UTC), 100, 0),
			createdOrder(time.Date(2024, time.June, 7, 9, 0, 0, 0, time.UTC), 100, 0),
			createdOrder(time.Date(2024, time.June, 8, 9, 0, 0, 0, time.UTC), 100, 0),
		}, nil)

	svc := NewReportService(repo)
	results, err := svc.GenerateReport(context.Background(), model.ReportRequest{
		Categories:   model.ReportCategories{TotalOrders: true},
		Periodicity:  model.PeriodicityWeekly,
		CurrentRange: rng,
	})

	assert.NoError(t, err)
	r := results[0]
	sum := 0.0
	for _, row := range r.Data {
		sum += row.Current
	}
	assert.Equal(t, 5.0, sum)
	assert.Equal(t, "5 orders", r.TotalCurrent)
}

func TestGenerateReport_CompletionTimeAverages(t *testing.T) {
	rng := weekRange()
	started := time.Date(2024, time.June, 3, 11, 0, 0, 0, time.UTC)

	orders := []model.Order{
		{
			OrderStartedAt:   timePtr(started),
			OrderCompletedAt: timePtr(started.Add(4 * time.Minute)),
		},
		{
			OrderStartedAt:   timePtr(started),
			OrderCompletedAt: timePtr(started.Add(4*time.Minute + 24*time.Second)),
		},
	}

	repo := new(MockOrderRepository)
	repo.On("FindInRange", mock.Anything, repository.OrderDateCompleted, rng.Start, rng.End,
		repository.OrderFilter{RequireCompletedAt: true, RequireStartedAt: true}).
		Return(orders, nil)

	svc := NewReportService(repo)
	results, err := svc.GenerateReport(context.Background(), model.ReportRequest{
		Categories:   model.ReportCategories{AverageOrderCompletionTime: true},
		Periodicity:  model.PeriodicityWeekly,
		CurrentRange: rng,
	})

	assert.NoError(t, err)
	r := results[0]
	assert.Equal(t, "Average order completion time - Weekly", r.Title)
	assert.Equal(t, 4.2, r.Data[1].Current) // avg of 4m00s and 4m24s in minutes
	assert.Equal(t, "4 minutes and 12 seconds per order", r.TotalCurrent)
	repo.AssertExpectations(t)
}

func TestGenerateReport_LateOrders(t *testing.T) {
	rng := weekRange()
	pickup := time.Date(2024, time.June, 3, 12, 0, 0, 0, time.UTC)

	// The store query already filters to late completed orders; rows that
	// slip through without a completion time or on-time must still be skipped.
	orders := []model.Order{
		{DatetimeToPickup: pickup, OrderCompletedAt: timePtr(pickup.Add(10 * time.Minute))},
		{DatetimeToPickup: pickup, OrderCompletedAt: timePtr(pickup.Add(30 * time.Minute))},
		{DatetimeToPickup: pickup, OrderCompletedAt: timePtr(pickup)}, // on time, not late
		{DatetimeToPickup: pickup, OrderCompletedAt: nil},             // never completed
	}

	repo := new(MockOrderRepository)
	repo.On("FindInRange", mock.Anything, repository.OrderDateCompleted, rng.Start, rng.End,
		repository.OrderFilter{RequireCompletedAt: true, LateOnly: true}).
		Return(orders, nil)

	svc := NewReportService(repo)
	results, err := svc.GenerateReport(context.Background(), model.ReportRequest{
		Categories:   model.ReportCategories{LateOrders: true},
		Periodicity:  model.PeriodicityWeekly,
		CurrentRange: rng,
	})

	assert.NoError(t, err)
	r := results[0]
	assert.Equal(t, 2.0, r.Data[1].Current)
	assert.Equal(t, "2 late orders", r.TotalCurrent)
	repo.AssertExpectations(t)
}

func TestGenerateReport_ComparisonRange(t *testing.T) {
	current := weekRange()
	previous := model.DateRange{
		Start: time.Date(2024, time.May, 26, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.June, 1, 23, 59, 59, 0, time.UTC),
	}

	repo := new(MockOrderRepository)
	repo.On("FindInRange", mock.Anything, repository.OrderDateCreated, current.Start, current.End, repository.OrderFilter{}).
		Return([]model.Order{
			createdOrder(time.Date(2024, time.June, 3, 12, 0, 0, 0, time.UTC), 1000, 0),
		}, nil)
	repo.On("FindInRange", mock.Anything, repository.OrderDateCreated, previous.Start, previous.End, repository.OrderFilter{}).
		Return([]model.Order{
			createdOrder(time.Date(2024, time.May, 27, 12, 0, 0, 0, time.UTC), 2000, 0),
		}, nil)

	svc := NewReportService(repo)
	results, err := svc.GenerateReport(context.Background(), model.ReportRequest{
		Categories:    model.ReportCategories{TotalRevenue: true},
		Periodicity:   model.PeriodicityWeekly,
		CurrentRange:  current,
		PreviousRange: &previous,
	})

	assert.NoError(t, err)
	r := results[0]
	assert.Equal(t, "Total revenue - Compared to last week", r.Title)
	assert.Equal(t, "Jun 2, 2024 - Jun 8, 2024 vs May 26, 2024 - Jun 1, 2024", r.TimeRange)

	assert.Equal(t, 10.0, r.Data[1].Current)
	assert.NotNil(t, r.Data[1].Previous)
	assert.Equal(t, 20.0, *r.Data[1].Previous)
	assert.NotNil(t, r.Data[0].Previous)
	assert.Equal(t, 0.0, *r.Data[0].Previous)

	assert.Equal(t, "$10.00 in revenue", r.TotalCurrent)
	assert.NotNil(t, r.TotalPrevious)
	assert.Equal(t, "$20.00 in revenue", *r.TotalPrevious)
	repo.AssertExpectations(t)
}

func TestGenerateReport_FixedCategoryOrder(t *testing.T) {
	rng := weekRange()

	repo := new(MockOrderRepository)
	repo.On("FindInRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]model.Order{}, nil)

	svc := NewReportService(repo)
	results, err := svc.GenerateReport(context.Background(), model.ReportRequest{
		Categories: model.ReportCategories{
			TotalOrders:                true,
			TotalRevenue:               true,
			TotalTips:                  true,
			AverageOrderValue:          true,
			AverageOrderCompletionTime: true,
			LateOrders:                 true,
		},
		Periodicity:  model.PeriodicityWeekly,
		CurrentRange: rng,
	})

	assert.NoError(t, err)
	assert.Len(t, results, 6)

	wantTitles := []string{
		"Total orders - Weekly",
		"Total revenue - Weekly",
		"Total tips - Weekly",
		"Average order value - Weekly",
		"Average order completion time - Weekly",
		"Late orders - Weekly",
	}
	for i, want := range wantTitles {
		assert.Equal(t, want, results[i].Title)
		assert.Len(t, results[i].Data, 7)
		for _, row := range results[i].Data {
			// empty buckets are zero, never NaN or missing
			assert.Equal(t, 0.0, row.Current)
		}
	}
}

func TestGenerateReport_Deterministic(t *testing.T) {
	rng := weekRange()

	repo := new(MockOrderRepository)
	repo.On("FindInRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]model.Order{
			createdOrder(time.Date(2024, time.June, 4, 18, 30, 0, 0, time.UTC), 1550, 250),
		}, nil)

	svc := NewReportService(repo)
	req := model.ReportRequest{
		Categories:   model.ReportCategories{TotalRevenue: true, TotalTips: true},
		Periodicity:  model.PeriodicityWeekly,
		CurrentRange: rng,
	}

	first, err := svc.GenerateReport(context.Background(), req)
	assert.NoError(t, err)
	second, err := svc.GenerateReport(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerateReport_StoreErrorAbortsCall(t *testing.T) {
	rng := weekRange()

	repo := new(MockOrderRepository)
	repo.On("FindInRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, assert.AnError)

	svc := NewReportService(repo)
	results, err := svc.GenerateReport(context.Background(), model.ReportRequest{
		Categories:   model.ReportCategories{TotalOrders: true, TotalRevenue: true},
		Periodicity:  model.PeriodicityWeekly,
		CurrentRange: rng,
	})

	assert.Error(t, err)
	assert.Nil(t, results)
}
