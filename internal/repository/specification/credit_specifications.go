package specification

import (
	"gorm.io/gorm"
)

type ByTransactionType struct {
	Type string
}

func (s ByTransactionType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("transaction_type = ?", s.Type)
}

type ByService struct {
	Service string
}

func (s ByService) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("service_used = ?", s.Service)
}

// Order specs

type ByOrderId struct {
	OrderId string
}

func (s ByOrderId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("order_id = ?", s.OrderId)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

type ActivePacks struct{}

func (s ActivePacks) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true).Order("sort_order ASC")
}
