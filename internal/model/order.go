package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus enum constants
const (
	OrderStatusNew        = "NEW"
	OrderStatusInProgress = "IN_PROGRESS"
	OrderStatusCompleted  = "COMPLETED"
	OrderStatusCancelled  = "CANCELLED"
)

// Order represents a customer pickup order. All monetary fields are stored as
// integer cents; conversion to dollars happens only at the reporting boundary.
type Order struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID       *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // nil for guest checkout
	User         *User      `gorm:"foreignKey:UserID" json:"-"`
	CustomerName string     `gorm:"type:varchar(255);not null" json:"customer_name"`
	Status       string     `gorm:"type:varchar(20);not null;default:'NEW';index" json:"status"`

	Subtotal int64 `gorm:"not null" json:"subtotal"`            // cents
	TipValue int64 `gorm:"not null;default:0" json:"tip_value"` // cents
	Total    int64 `gorm:"not null" json:"total"`               // cents, subtotal + tip

	DatetimeToPickup time.Time  `gorm:"not null" json:"datetime_to_pickup"` // promised pickup time
	OrderStartedAt   *time.Time `json:"order_started_at"`                   // kitchen start
	OrderCompletedAt *time.Time `gorm:"index" json:"order_completed_at"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsLate reports whether the order was completed after its promised pickup time.
// Orders that never completed are not late, they are simply unfinished.
func (o *Order) IsLate() bool {
	return o.OrderCompletedAt != nil && o.OrderCompletedAt.After(o.DatetimeToPickup)
}
