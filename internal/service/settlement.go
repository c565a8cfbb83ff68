package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/internal/pkg/logger"
	"ai-imagestudio-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// settleSpend charges for work that is already delivered: the atomic balance
// decrement and the signed ledger row commit together. Every failure here is
// log-only. The caller's response still succeeds, because the outputs are in
// the user's hands and we never claw delivered work back.
func settleSpend(ctx context.Context, uow unitofwork.UnitOfWork, log logger.ILogger, module string, userId uuid.UUID, count int, serviceUsed string, relatedId uuid.UUID, notes string) {
	if err := uow.Begin(ctx); err != nil {
		log.Error(module, "settle transaction begin failed, delivered work not billed", map[string]interface{}{
			"user_id": userId.String(),
			"credits": count,
			"error":   err.Error(),
		})
		return
	}

	ok, err := uow.CreditRepository().SpendIfSufficient(ctx, userId, count)
	if err != nil {
		uow.Rollback()
		log.Error(module, "settle decrement failed, delivered work not billed", map[string]interface{}{
			"user_id": userId.String(),
			"credits": count,
			"error":   err.Error(),
		})
		return
	}
	if !ok {
		// A racing request spent the balance first. The guard keeps the
		// balance non-negative; this spend is simply lost.
		uow.Rollback()
		log.Error(module, "settle rejected by balance guard, delivered work not billed", map[string]interface{}{
			"user_id": userId.String(),
			"credits": count,
		})
		return
	}

	ledgerRow := entity.CreditTransaction{
		Id:              uuid.New(),
		UserId:          userId,
		TransactionType: entity.CreditTransactionSpend,
		Amount:          -count,
		ServiceUsed:     &serviceUsed,
		RelatedId:       &relatedId,
		Notes:           &notes,
		CreatedAt:       time.Now(),
	}
	if err := uow.CreditRepository().CreateTransaction(ctx, &ledgerRow); err != nil {
		uow.Rollback()
		log.Error(module, "spend ledger row not written, decrement rolled back", map[string]interface{}{
			"user_id": userId.String(),
			"credits": count,
			"error":   err.Error(),
		})
		return
	}

	if err := uow.Commit(); err != nil {
		log.Error(module, "settle commit failed, delivered work not billed", map[string]interface{}{
			"user_id": userId.String(),
			"credits": count,
			"error":   err.Error(),
		})
	}
}

// ensureBalanceRow creates the per-user balance row if it does not exist
// yet. A concurrent creator winning the insert race is fine; the unique
// violation just means the row is there.
func ensureBalanceRow(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) error {
	balance, err := uow.CreditRepository().GetBalance(ctx, userId)
	if err != nil {
		return err
	}
	if balance != nil {
		return nil
	}

	err = uow.CreditRepository().CreateBalance(ctx, &entity.CreditBalance{
		UserId:    userId,
		Balance:   0,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil
		}
		return err
	}
	return nil
}

// grantCredits adds credits and writes the matching positive ledger row in
// one transaction. Unlike settleSpend this surfaces errors; grants happen in
// flows (activation, webhook) that must know whether they took effect.
func grantCredits(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, amount int, txType entity.CreditTransactionType, serviceUsed string, relatedId *uuid.UUID, notes string) error {
	if amount == 0 {
		return nil
	}

	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("begin grant transaction: %w", err)
	}

	if err := uow.CreditRepository().AddCredits(ctx, userId, amount); err != nil {
		uow.Rollback()
		return fmt.Errorf("add credits: %w", err)
	}

	ledgerRow := entity.CreditTransaction{
		Id:              uuid.New(),
		UserId:          userId,
		TransactionType: txType,
		Amount:          amount,
		ServiceUsed:     &serviceUsed,
		RelatedId:       relatedId,
		Notes:           &notes,
		CreatedAt:       time.Now(),
	}
	if err := uow.CreditRepository().CreateTransaction(ctx, &ledgerRow); err != nil {
		uow.Rollback()
		return fmt.Errorf("write grant ledger row: %w", err)
	}

	return uow.Commit()
}
