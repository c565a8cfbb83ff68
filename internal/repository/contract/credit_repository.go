package contract

import (
	"context"

	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/internal/repository/specification"

	"github.com/google/uuid"
)

type CreditRepository interface {
	// Balance
	GetBalance(ctx context.Context, userId uuid.UUID) (*entity.CreditBalance, error)
	CreateBalance(ctx context.Context, balance *entity.CreditBalance) error
	// AddCredits adds amount unconditionally (grants, refunds, adjustments).
	AddCredits(ctx context.Context, userId uuid.UUID, amount int) error
	// SpendIfSufficient decrements atomically and only when the remaining
	// balance stays non-negative. Returns false when the guard rejected the
	// decrement, with no error.
	SpendIfSufficient(ctx context.Context, userId uuid.UUID, amount int) (bool, error)

	// Ledger
	CreateTransaction(ctx context.Context, tx *entity.CreditTransaction) error
	FindTransactions(ctx context.Context, specs ...specification.Specification) ([]*entity.CreditTransaction, error)
	CountTransactions(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SumTransactions is used by the ledger verifier: per-user signed total.
	SumTransactions(ctx context.Context, userId uuid.UUID) (int64, error)
}
