package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/khues-restaurant/khues-restaurant-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderDateField names the timestamp column a ranged report query filters and
// buckets on.
type OrderDateField string

const (
	OrderDateCreated   OrderDateField = "created_at"
	OrderDateCompleted OrderDateField = "order_completed_at"
)

// OrderFilter narrows a ranged query beyond the date bounds. Zero value means
// no extra predicates.
type OrderFilter struct {
	RequireCompletedAt bool // order_completed_at IS NOT NULL
	RequireStartedAt   bool // order_started_at IS NOT NULL
	LateOnly           bool // order_completed_at > datetime_to_pickup
}

// OrderRepository is the data access layer for orders. FindInRange is the
// read interface report generation depends on; the rest serves the order
// lifecycle endpoints.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context, page, limit int) ([]model.Order, int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Order, int64, error)
	Update(ctx context.Context, order *model.Order) error
	FindInRange(ctx context.Context, field OrderDateField, start, end time.Time, filter OrderFilter) ([]model.Order, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return dbFrom(ctx, r.db).Create(order).Error
}

func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := dbFrom(ctx, r.db).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, page, limit int) ([]model.Order, int64, error) {
	return r.list(ctx, dbFrom(ctx, r.db).Model(&model.Order{}), page, limit)
}

func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Order, int64, error) {
	q := dbFrom(ctx, r.db).Model(&model.Order{}).Where("user_id = ?", userID)
	return r.list(ctx, q, page, limit)
}

func (r *orderRepository) list(_ context.Context, q *gorm.DB, page, limit int) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *orderRepository) Update(ctx context.Context, order *model.Order) error {
	return dbFrom(ctx, r.db).Save(order).Error
}

// FindInRange returns orders whose chosen date field falls within the
// inclusive [start, end] window, with the filter predicates applied.
func (r *orderRepository) FindInRange(ctx context.Context, field OrderDateField, start, end time.Time, filter OrderFilter) ([]model.Order, error) {
	switch field {
	case OrderDateCreated, OrderDateCompleted:
		// column names are a closed set, safe to interpolate
	default:
		return nil, fmt.Errorf("unsupported order date field: %q", field)
	}

	q := dbFrom(ctx, r.db).Model(&model.Order{}).
		Where(fmt.Sprintf("%s >= ? AND %s <= ?", field, field), start, end)

	if filter.RequireCompletedAt {
		q = q.Where("order_completed_at IS NOT NULL")
	}
	if filter.RequireStartedAt {
		q = q.Where("order_started_at IS NOT NULL")
	}
	if filter.LateOnly {
		q = q.Where("order_completed_at > datetime_to_pickup")
	}

	var orders []model.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to query orders in range: %w", err)
	}
	return orders, nil
}
