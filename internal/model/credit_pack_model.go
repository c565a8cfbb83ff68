package model

import (
	"time"

	"github.com/google/uuid"
)

type CreditPack struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code      string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Credits   int       `gorm:"not null"`
	Price     int64     `gorm:"not null"` // IDR, whole rupiah
	IsActive  bool      `gorm:"default:true"`
	SortOrder int       `gorm:"default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (CreditPack) TableName() string {
	return "credit_packs"
}

// CreditOrder.OrderId is the gateway order id. The unique index is what makes
// webhook replays grant at most once.
type CreditOrder struct {
	Id        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderId   string     `gorm:"type:varchar(100);uniqueIndex;not null"`
	UserId    uuid.UUID  `gorm:"type:uuid;not null;index"`
	PackId    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Amount    int64      `gorm:"not null"`
	Credits   int        `gorm:"not null"`
	Status    string     `gorm:"type:varchar(20);not null;default:'pending'"`
	PaidAt    *time.Time
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (CreditOrder) TableName() string {
	return "credit_orders"
}
