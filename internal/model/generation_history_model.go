package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// GenerationHistory rows are append-only. No soft delete: history disappears
// only when the owning user row cascades. PromptEmbedding starts NULL and is
// filled by the embedding worker after the insert.
type GenerationHistory struct {
	Id              uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId          uuid.UUID        `gorm:"type:uuid;not null;index"`
	Prompt          string           `gorm:"type:text;not null"`
	ImageURL        string           `gorm:"type:text;not null"`
	AspectRatio     string           `gorm:"type:varchar(10);not null;default:'1:1'"`
	Style           string           `gorm:"type:varchar(50);not null;default:'auto'"`
	CreditsUsed     int              `gorm:"not null;default:1"`
	PromptEmbedding *pgvector.Vector `gorm:"type:vector(768)"` // text-embedding-004 dimensions
	CreatedAt       time.Time        `gorm:"autoCreateTime;index"`

	User *User `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
}

func (GenerationHistory) TableName() string {
	return "generation_histories"
}
