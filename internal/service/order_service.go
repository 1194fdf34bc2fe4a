package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/khues-restaurant/khues-restaurant-sub000/internal/model"
	"github.com/khues-restaurant/khues-restaurant-sub000/internal/repository"
	ws "github.com/khues-restaurant/khues-restaurant-sub000/internal/websocket"

	"github.com/google/uuid"
)

// ErrInvalidTransition is returned for a status change the lifecycle does not allow.
var ErrInvalidTransition = errors.New("invalid order status transition")

// rewardCentsPerPoint: customers earn one reward point per whole dollar of a
// completed order.
const rewardCentsPerPoint = 100

// --- DTOs ---

type CreateOrderRequest struct {
	UserID           *uuid.UUID `json:"user_id"`
	CustomerName     string     `json:"customer_name" binding:"required"`
	Subtotal         int64      `json:"subtotal" binding:"required,gt=0"` // cents
	TipValue         int64      `json:"tip_value" binding:"gte=0"`        // cents
	DatetimeToPickup time.Time  `json:"datetime_to_pickup" binding:"required"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderService owns the order lifecycle: intake, status transitions, reward
// accrual on completion, and the dashboard event feed.
type OrderService interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*model.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*model.Order, error)
	ListOrders(ctx context.Context, page, limit int) ([]model.Order, int64, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Order, int64, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) (*model.Order, error)
}

type orderService struct {
	orders    repository.OrderRepository
	users     repository.UserRepository
	txManager repository.TxManager
	hub       *ws.Hub
}

func NewOrderService(orders repository.OrderRepository, users repository.UserRepository, txManager repository.TxManager, hub *ws.Hub) OrderService {
	return &orderService{orders: orders, users: users, txManager: txManager, hub: hub}
}

// ValidStatusTransition reports whether an order may move from one status to
// another. Orders flow NEW -> IN_PROGRESS -> COMPLETED; cancellation is only
// possible before completion.
func ValidStatusTransition(from, to string) bool {
	switch from {
	case model.OrderStatusNew:
		return to == model.OrderStatusInProgress || to == model.OrderStatusCancelled
	case model.OrderStatusInProgress:
		return to == model.OrderStatusCompleted || to == model.OrderStatusCancelled
	}
	return false
}

// RewardPointsFor returns the loyalty points a completed order earns.
func RewardPointsFor(totalCents int64) int64 {
	if totalCents < 0 {
		return 0
	}
	return totalCents / rewardCentsPerPoint
}

func (s *orderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*model.Order, error) {
	order := &model.Order{
		UserID:           req.UserID,
		CustomerName:     req.CustomerName,
		Status:           model.OrderStatusNew,
		Subtotal:         req.Subtotal,
		TipValue:         req.TipValue,
		Total:            req.Subtotal + req.TipValue,
		DatetimeToPickup: req.DatetimeToPickup,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.broadcast("order_created", order)
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return s.orders.FindByID(ctx, id)
}

func (s *orderService) ListOrders(ctx context.Context, page, limit int) ([]model.Order, int64, error) {
	return s.orders.List(ctx, page, limit)
}

func (s *orderService) ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Order, int64, error) {
	return s.orders.ListByUser(ctx, userID, page, limit)
}

// UpdateOrderStatus moves an order through its lifecycle. Starting the order
// stamps order_started_at; completing it stamps order_completed_at and
// accrues the owner's reward points in the same transaction.
func (s *orderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) (*model.Order, error) {
	var updated *model.Order
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, err := s.orders.FindByID(txCtx, id)
		if err != nil {
			return fmt.Errorf("order not found: %w", err)
		}

		if !ValidStatusTransition(order.Status, status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, status)
		}

		now := time.Now()
		order.Status = status
		switch status {
		case model.OrderStatusInProgress:
			order.OrderStartedAt = &now
		case model.OrderStatusCompleted:
			order.OrderCompletedAt = &now
		}

		if err := s.orders.Update(txCtx, order); err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		if status == model.OrderStatusCompleted && order.UserID != nil {
			if points := RewardPointsFor(order.Total); points > 0 {
				if err := s.users.AddRewardPoints(txCtx, *order.UserID, points); err != nil {
					return fmt.Errorf("failed to accrue reward points: %w", err)
				}
			}
		}

		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast("order_status_changed", updated)
	return updated, nil
}

// broadcast pushes an order event to connected dashboard clients. A nil hub
// (tests) is a no-op.
func (s *orderService) broadcast(event string, order *model.Order) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(map[string]interface{}{
		"event": event,
		"order": order,
	})
	if err != nil {
		return
	}
	s.hub.Broadcast <- payload
}
