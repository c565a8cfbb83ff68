package specification

import (
	"gorm.io/gorm"
)

type ByStyle struct {
	Style string
}

func (s ByStyle) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("style = ?", s.Style)
}

type ByAspectRatio struct {
	AspectRatio string
}

func (s ByAspectRatio) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("aspect_ratio = ?", s.AspectRatio)
}

type ByEditMode struct {
	Mode string
}

func (s ByEditMode) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("mode = ?", s.Mode)
}

// PromptSearch is the literal fallback when no embedding provider is wired.
type PromptSearch struct {
	Query string
}

func (s PromptSearch) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Query + "%"
	return db.Where("prompt ILIKE ?", pattern)
}
