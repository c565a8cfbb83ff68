package entity

import (
	"time"

	"github.com/google/uuid"
)

type CreditTransactionType string

const (
	CreditTransactionGrant      CreditTransactionType = "grant"
	CreditTransactionSpend      CreditTransactionType = "spend"
	CreditTransactionRefund     CreditTransactionType = "refund"
	CreditTransactionAdjustment CreditTransactionType = "adjustment"
)

// CreditBalance is the single per-user counter every workflow admits against.
type CreditBalance struct {
	UserId    uuid.UUID
	Balance   int
	UpdatedAt time.Time
}

// CreditTransaction is one signed ledger row. The sum of a user's rows always
// equals their balance; both are written in the same transaction.
type CreditTransaction struct {
	Id              uuid.UUID
	UserId          uuid.UUID
	TransactionType CreditTransactionType
	Amount          int
	ServiceUsed     *string
	RelatedId       *uuid.UUID
	Notes           *string
	CreatedAt       time.Time
}
