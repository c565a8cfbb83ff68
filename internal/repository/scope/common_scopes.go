package scope

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderByCreatedDesc sorts newest first. Every history and feed listing
// pages in this order.
func OrderByCreatedDesc(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}

// ForUser restricts a query to rows owned by the given user.
func ForUser(userID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

// Unread keeps only notifications that have not been opened yet.
func Unread(db *gorm.DB) *gorm.DB {
	return db.Where("is_read = ?", false)
}
