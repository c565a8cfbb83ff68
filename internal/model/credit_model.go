package model

import (
	"time"

	"github.com/google/uuid"
)

// CreditBalance keys on the user id directly, one row per account.
type CreditBalance struct {
	UserId    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Balance   int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	User *User `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
}

func (CreditBalance) TableName() string {
	return "credit_balances"
}

// CreditTransaction amounts are signed: grants positive, spends negative.
// TransactionType rides the ai_credit_transaction_type enum created by the
// migration setup SQL.
type CreditTransaction struct {
	Id              uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserId          uuid.UUID  `gorm:"type:uuid;not null;index"`
	TransactionType string     `gorm:"type:ai_credit_transaction_type;not null"`
	Amount          int        `gorm:"not null"`
	ServiceUsed     *string    `gorm:"type:text;index"`
	RelatedId       *uuid.UUID `gorm:"type:uuid"`
	Notes           *string    `gorm:"type:text"`
	CreatedAt       time.Time  `gorm:"default:now();not null"`
}

func (CreditTransaction) TableName() string {
	return "ai_credit_transactions"
}
