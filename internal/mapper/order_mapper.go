package mapper

import (
	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/internal/model"
)

type OrderMapper struct{}

func NewOrderMapper() *OrderMapper {
	return &OrderMapper{}
}

func (m *OrderMapper) PackToEntity(p *model.CreditPack) *entity.CreditPack {
	if p == nil {
		return nil
	}
	return &entity.CreditPack{
		Id:        p.Id,
		Code:      p.Code,
		Name:      p.Name,
		Credits:   p.Credits,
		Price:     p.Price,
		IsActive:  p.IsActive,
		SortOrder: p.SortOrder,
	}
}

func (m *OrderMapper) PacksToEntities(rows []*model.CreditPack) []*entity.CreditPack {
	entities := make([]*entity.CreditPack, len(rows))
	for i, p := range rows {
		entities[i] = m.PackToEntity(p)
	}
	return entities
}

func (m *OrderMapper) OrderToEntity(o *model.CreditOrder) *entity.CreditOrder {
	if o == nil {
		return nil
	}
	return &entity.CreditOrder{
		Id:        o.Id,
		OrderId:   o.OrderId,
		UserId:    o.UserId,
		PackId:    o.PackId,
		Amount:    o.Amount,
		Credits:   o.Credits,
		Status:    entity.OrderStatus(o.Status),
		PaidAt:    o.PaidAt,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func (m *OrderMapper) OrderToModel(o *entity.CreditOrder) *model.CreditOrder {
	if o == nil {
		return nil
	}
	return &model.CreditOrder{
		Id:        o.Id,
		OrderId:   o.OrderId,
		UserId:    o.UserId,
		PackId:    o.PackId,
		Amount:    o.Amount,
		Credits:   o.Credits,
		Status:    string(o.Status),
		PaidAt:    o.PaidAt,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func (m *OrderMapper) OrdersToEntities(rows []*model.CreditOrder) []*entity.CreditOrder {
	entities := make([]*entity.CreditOrder, len(rows))
	for i, o := range rows {
		entities[i] = m.OrderToEntity(o)
	}
	return entities
}
