// FILE: internal/service/credit_service.go
package service

import (
	"context"

	"ai-imagestudio-be/internal/constant"
	"ai-imagestudio-be/internal/dto"
	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/internal/repository/specification"
	"ai-imagestudio-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type ICreditService interface {
	GetBalance(ctx context.Context, userId uuid.UUID) (*dto.CreditBalanceResponse, error)
	ListTransactions(ctx context.Context, userId uuid.UUID, limit, offset int) (*dto.CreditLedgerResponse, error)
	ListPacks(ctx context.Context) ([]*dto.PackResponse, error)
	// GrantSignupCredits seeds a fresh account: balance row plus the welcome
	// grant. Called on email activation and on first OAuth sign-in.
	GrantSignupCredits(ctx context.Context, userId uuid.UUID) error
}

type creditService struct {
	uowFactory    unitofwork.RepositoryFactory
	signupCredits int
}

func NewCreditService(uowFactory unitofwork.RepositoryFactory, signupCredits int) ICreditService {
	return &creditService{
		uowFactory:    uowFactory,
		signupCredits: signupCredits,
	}
}

func (c *creditService) GetBalance(ctx context.Context, userId uuid.UUID) (*dto.CreditBalanceResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	balance, err := uow.CreditRepository().GetBalance(ctx, userId)
	if err != nil {
		return nil, err
	}
	if balance == nil {
		// No row yet reads as an empty wallet, same as the admission check.
		return &dto.CreditBalanceResponse{Balance: 0}, nil
	}

	return &dto.CreditBalanceResponse{
		Balance:   balance.Balance,
		UpdatedAt: balance.UpdatedAt,
	}, nil
}

func (c *creditService) ListTransactions(ctx context.Context, userId uuid.UUID, limit, offset int) (*dto.CreditLedgerResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	ownedBy := specification.UserOwnedBy{UserID: userId}

	total, err := uow.CreditRepository().CountTransactions(ctx, ownedBy)
	if err != nil {
		return nil, err
	}

	rows, err := uow.CreditRepository().FindTransactions(ctx,
		ownedBy,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	transactions := make([]dto.CreditTransactionResponse, 0, len(rows))
	for _, row := range rows {
		item := dto.CreditTransactionResponse{
			Id:              row.Id,
			TransactionType: string(row.TransactionType),
			Amount:          row.Amount,
			CreatedAt:       row.CreatedAt,
		}
		if row.ServiceUsed != nil {
			item.ServiceUsed = *row.ServiceUsed
		}
		if row.Notes != nil {
			item.Notes = *row.Notes
		}
		transactions = append(transactions, item)
	}

	return &dto.CreditLedgerResponse{
		Transactions: transactions,
		Total:        total,
	}, nil
}

func (c *creditService) ListPacks(ctx context.Context) ([]*dto.PackResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	packs, err := uow.PackRepository().FindAll(ctx, specification.ActivePacks{})
	if err != nil {
		return nil, err
	}

	res := make([]*dto.PackResponse, 0, len(packs))
	for _, pack := range packs {
		res = append(res, &dto.PackResponse{
			Id:      pack.Id,
			Code:    pack.Code,
			Name:    pack.Name,
			Credits: pack.Credits,
			Price:   pack.Price,
		})
	}
	return res, nil
}

func (c *creditService) GrantSignupCredits(ctx context.Context, userId uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	if err := ensureBalanceRow(ctx, uow, userId); err != nil {
		return err
	}
	if c.signupCredits <= 0 {
		return nil
	}

	return grantCredits(ctx, uow, userId, c.signupCredits,
		entity.CreditTransactionGrant, constant.ServiceSignupGrant, nil, "welcome credits")
}
