package mapper

import (
	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/internal/model"
)

type CreditMapper struct{}

func NewCreditMapper() *CreditMapper {
	return &CreditMapper{}
}

func (m *CreditMapper) BalanceToEntity(b *model.CreditBalance) *entity.CreditBalance {
	if b == nil {
		return nil
	}
	return &entity.CreditBalance{
		UserId:    b.UserId,
		Balance:   b.Balance,
		UpdatedAt: b.UpdatedAt,
	}
}

func (m *CreditMapper) BalanceToModel(b *entity.CreditBalance) *model.CreditBalance {
	if b == nil {
		return nil
	}
	return &model.CreditBalance{
		UserId:    b.UserId,
		Balance:   b.Balance,
		UpdatedAt: b.UpdatedAt,
	}
}

func (m *CreditMapper) TransactionToEntity(t *model.CreditTransaction) *entity.CreditTransaction {
	if t == nil {
		return nil
	}
	return &entity.CreditTransaction{
		Id:              t.Id,
		UserId:          t.UserId,
		TransactionType: entity.CreditTransactionType(t.TransactionType),
		Amount:          t.Amount,
		ServiceUsed:     t.ServiceUsed,
		RelatedId:       t.RelatedId,
		Notes:           t.Notes,
		CreatedAt:       t.CreatedAt,
	}
}

func (m *CreditMapper) TransactionToModel(t *entity.CreditTransaction) *model.CreditTransaction {
	if t == nil {
		return nil
	}
	return &model.CreditTransaction{
		Id:              t.Id,
		UserId:          t.UserId,
		TransactionType: string(t.TransactionType),
		Amount:          t.Amount,
		ServiceUsed:     t.ServiceUsed,
		RelatedId:       t.RelatedId,
		Notes:           t.Notes,
		CreatedAt:       t.CreatedAt,
	}
}

func (m *CreditMapper) TransactionsToEntities(rows []*model.CreditTransaction) []*entity.CreditTransaction {
	entities := make([]*entity.CreditTransaction, len(rows))
	for i, t := range rows {
		entities[i] = m.TransactionToEntity(t)
	}
	return entities
}
