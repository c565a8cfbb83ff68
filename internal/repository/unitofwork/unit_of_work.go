package unitofwork

import (
	"context"

	"ai-imagestudio-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	CreditRepository() contract.CreditRepository
	GenerationRepository() contract.GenerationRepository
	EditRepository() contract.EditRepository

	PackRepository() contract.PackRepository
	OrderRepository() contract.OrderRepository
}
