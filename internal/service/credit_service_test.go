package service

import (
	"context"
	"testing"
	"time"

	"ai-imagestudio-be/internal/constant"
	"ai-imagestudio-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBalance(t *testing.T) {
	t.Run("no row reads as zero", func(t *testing.T) {
		uow := newFakeUnitOfWork()
		svc := NewCreditService(&fakeFactory{uow: uow}, 10)

		res, err := svc.GetBalance(context.Background(), uuid.New())
		require.NoError(t, err)
		assert.Equal(t, 0, res.Balance)
	})

	t.Run("existing row", func(t *testing.T) {
		uow := newFakeUnitOfWork()
		now := time.Now()
		uow.credits.balance = &entity.CreditBalance{Balance: 42, UpdatedAt: now}
		svc := NewCreditService(&fakeFactory{uow: uow}, 10)

		res, err := svc.GetBalance(context.Background(), uuid.New())
		require.NoError(t, err)
		assert.Equal(t, 42, res.Balance)
		assert.Equal(t, now, res.UpdatedAt)
	})
}

func TestListTransactions(t *testing.T) {
	uow := newFakeUnitOfWork()
	serviceUsed := constant.ServiceImageGeneration
	notes := "image generation x2"
	uow.credits.txRows = []*entity.CreditTransaction{
		{
			Id:              uuid.New(),
			TransactionType: entity.CreditTransactionSpend,
			Amount:          -2,
			ServiceUsed:     &serviceUsed,
			Notes:           &notes,
		},
		{
			Id:              uuid.New(),
			TransactionType: entity.CreditTransactionGrant,
			Amount:          10,
			// grants from signup carry no related record; nil fields must map
		},
	}
	uow.credits.txCount = 12
	svc := NewCreditService(&fakeFactory{uow: uow}, 10)

	res, err := svc.ListTransactions(context.Background(), uuid.New(), 0, -5)
	require.NoError(t, err)

	assert.Equal(t, int64(12), res.Total)
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, "spend", res.Transactions[0].TransactionType)
	assert.Equal(t, -2, res.Transactions[0].Amount)
	assert.Equal(t, constant.ServiceImageGeneration, res.Transactions[0].ServiceUsed)
	assert.Equal(t, "image generation x2", res.Transactions[0].Notes)
	assert.Equal(t, "", res.Transactions[1].ServiceUsed)
	assert.Equal(t, "", res.Transactions[1].Notes)
}

func TestListPacks(t *testing.T) {
	uow := newFakeUnitOfWork()
	uow.packs.findAll = []*entity.CreditPack{
		{Id: uuid.New(), Code: "starter", Name: "Starter Pack", Credits: 50, Price: 25000},
	}
	svc := NewCreditService(&fakeFactory{uow: uow}, 10)

	packs, err := svc.ListPacks(context.Background())
	require.NoError(t, err)
	require.Len(t, packs, 1)
	assert.Equal(t, "starter", packs[0].Code)
	assert.Equal(t, 50, packs[0].Credits)
	assert.Equal(t, int64(25000), packs[0].Price)
}

func TestGrantSignupCredits(t *testing.T) {
	t.Run("fresh account gets row and welcome grant", func(t *testing.T) {
		uow := newFakeUnitOfWork()
		svc := NewCreditService(&fakeFactory{uow: uow}, 10)
		userId := uuid.New()

		require.NoError(t, svc.GrantSignupCredits(context.Background(), userId))

		require.Len(t, uow.credits.createdBalances, 1)
		assert.Equal(t, userId, uow.credits.createdBalances[0].UserId)
		require.Equal(t, []int{10}, uow.credits.addCalls)

		require.Len(t, uow.credits.createdTx, 1)
		tx := uow.credits.createdTx[0]
		assert.Equal(t, entity.CreditTransactionGrant, tx.TransactionType)
		assert.Equal(t, 10, tx.Amount)
		require.NotNil(t, tx.ServiceUsed)
		assert.Equal(t, constant.ServiceSignupGrant, *tx.ServiceUsed)
		assert.Equal(t, 1, uow.commits)
	})

	t.Run("existing balance row is not recreated", func(t *testing.T) {
		uow := newFakeUnitOfWork()
		uow.credits.balance = &entity.CreditBalance{Balance: 3}
		svc := NewCreditService(&fakeFactory{uow: uow}, 10)

		require.NoError(t, svc.GrantSignupCredits(context.Background(), uuid.New()))
		assert.Empty(t, uow.credits.createdBalances)
		assert.Equal(t, []int{10}, uow.credits.addCalls)
	})

	t.Run("zero signup credits only seeds the row", func(t *testing.T) {
		uow := newFakeUnitOfWork()
		svc := NewCreditService(&fakeFactory{uow: uow}, 0)

		require.NoError(t, svc.GrantSignupCredits(context.Background(), uuid.New()))
		assert.Len(t, uow.credits.createdBalances, 1)
		assert.Empty(t, uow.credits.addCalls)
		assert.Empty(t, uow.credits.createdTx)
	})
}
