package implementation

import (
	"context"
	"errors"
	"time"

	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/internal/mapper"
	"ai-imagestudio-be/internal/model"
	"ai-imagestudio-be/internal/repository/contract"
	"ai-imagestudio-be/internal/repository/specification"

	"gorm.io/gorm"
)

type PackRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.OrderMapper
}

func NewPackRepository(db *gorm.DB) contract.PackRepository {
	return &PackRepositoryImpl{
		db:     db,
		mapper: mapper.NewOrderMapper(),
	}
}

func (r *PackRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PackRepositoryImpl) Create(ctx context.Context, pack *entity.CreditPack) error {
	m := &model.CreditPack{
		Id:        pack.Id,
		Code:      pack.Code,
		Name:      pack.Name,
		Credits:   pack.Credits,
		Price:     pack.Price,
		IsActive:  pack.IsActive,
		SortOrder: pack.SortOrder,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*pack = *r.mapper.PackToEntity(m)
	return nil
}

func (r *PackRepositoryImpl) Update(ctx context.Context, pack *entity.CreditPack) error {
	return r.db.WithContext(ctx).
		Model(&model.CreditPack{}).
		Where("id = ?", pack.Id).
		Updates(map[string]interface{}{
			"name":       pack.Name,
			"credits":    pack.Credits,
			"price":      pack.Price,
			"is_active":  pack.IsActive,
			"sort_order": pack.SortOrder,
		}).Error
}

func (r *PackRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CreditPack, error) {
	var m model.CreditPack
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.PackToEntity(&m), nil
}

func (r *PackRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CreditPack, error) {
	var models []*model.CreditPack
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.PacksToEntities(models), nil
}

type OrderRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.OrderMapper
}

func NewOrderRepository(db *gorm.DB) contract.OrderRepository {
	return &OrderRepositoryImpl{
		db:     db,
		mapper: mapper.NewOrderMapper(),
	}
}

func (r *OrderRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *OrderRepositoryImpl) Create(ctx context.Context, order *entity.CreditOrder) error {
	m := r.mapper.OrderToModel(order)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*order = *r.mapper.OrderToEntity(m)
	return nil
}

func (r *OrderRepositoryImpl) Update(ctx context.Context, order *entity.CreditOrder) error {
	m := r.mapper.OrderToModel(order)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*order = *r.mapper.OrderToEntity(m)
	return nil
}

func (r *OrderRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CreditOrder, error) {
	var m model.CreditOrder
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.OrderToEntity(&m), nil
}

func (r *OrderRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CreditOrder, error) {
	var models []*model.CreditOrder
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.OrdersToEntities(models), nil
}

func (r *OrderRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.CreditOrder{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateStatusIfPending guards the transition in the WHERE clause so a
// replayed webhook or a racing callback settles the order exactly once.
func (r *OrderRepositoryImpl) UpdateStatusIfPending(ctx context.Context, orderId string, status entity.OrderStatus) (bool, error) {
	updates := map[string]interface{}{
		"status":     string(status),
		"updated_at": time.Now(),
	}
	if status == entity.OrderStatusPaid {
		updates["paid_at"] = time.Now()
	}

	res := r.db.WithContext(ctx).
		Model(&model.CreditOrder{}).
		Where("order_id = ? AND status = ?", orderId, string(entity.OrderStatusPending)).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
