package implementation

import (
	"context"
	"errors"

	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/internal/mapper"
	"ai-imagestudio-be/internal/model"
	"ai-imagestudio-be/internal/repository/contract"
	"ai-imagestudio-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreditRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CreditMapper
}

func NewCreditRepository(db *gorm.DB) contract.CreditRepository {
	return &CreditRepositoryImpl{
		db:     db,
		mapper: mapper.NewCreditMapper(),
	}
}

func (r *CreditRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CreditRepositoryImpl) GetBalance(ctx context.Context, userId uuid.UUID) (*entity.CreditBalance, error) {
	var m model.CreditBalance
	if err := r.db.WithContext(ctx).Where("user_id = ?", userId).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.BalanceToEntity(&m), nil
}

func (r *CreditRepositoryImpl) CreateBalance(ctx context.Context, balance *entity.CreditBalance) error {
	m := r.mapper.BalanceToModel(balance)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*balance = *r.mapper.BalanceToEntity(m)
	return nil
}

func (r *CreditRepositoryImpl) AddCredits(ctx context.Context, userId uuid.UUID, amount int) error {
	res := r.db.WithContext(ctx).
		Model(&model.CreditBalance{}).
		Where("user_id = ?", userId).
		Update("balance", gorm.Expr("balance + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.New("credit balance row not found")
	}
	return nil
}

// SpendIfSufficient is the single place balances are decremented. The guard
// in the WHERE clause makes concurrent spends safe: the balance can never go
// negative no matter how requests interleave.
func (r *CreditRepositoryImpl) SpendIfSufficient(ctx context.Context, userId uuid.UUID, amount int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.CreditBalance{}).
		Where("user_id = ? AND balance >= ?", userId, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *CreditRepositoryImpl) CreateTransaction(ctx context.Context, tx *entity.CreditTransaction) error {
	m := r.mapper.TransactionToModel(tx)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*tx = *r.mapper.TransactionToEntity(m)
	return nil
}

func (r *CreditRepositoryImpl) FindTransactions(ctx context.Context, specs ...specification.Specification) ([]*entity.CreditTransaction, error) {
	var models []*model.CreditTransaction
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.TransactionsToEntities(models), nil
}

func (r *CreditRepositoryImpl) CountTransactions(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.CreditTransaction{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CreditRepositoryImpl) SumTransactions(ctx context.Context, userId uuid.UUID) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).
		Model(&model.CreditTransaction{}).
		Where("user_id = ?", userId).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}
