package entity

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusPaid     OrderStatus = "paid"
	OrderStatusFailed   OrderStatus = "failed"
	OrderStatusRefunded OrderStatus = "refunded"
)

// CreditPack is a purchasable bundle of credits.
type CreditPack struct {
	Id        uuid.UUID
	Code      string
	Name      string
	Credits   int
	Price     int64
	IsActive  bool
	SortOrder int
}

// CreditOrder tracks one checkout against the payment gateway. OrderId is the
// gateway-facing identifier and is unique, which makes the webhook grant
// replay-safe.
type CreditOrder struct {
	Id        uuid.UUID
	OrderId   string
	UserId    uuid.UUID
	PackId    uuid.UUID
	Amount    int64
	Credits   int
	Status    OrderStatus
	PaidAt    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
