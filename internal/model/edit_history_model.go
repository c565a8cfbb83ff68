package model

import (
	"time"

	"github.com/google/uuid"
)

type EditHistory struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      uuid.UUID `gorm:"type:uuid;not null;index"`
	OriginalURL string    `gorm:"type:text;not null"`
	EditedURL   string    `gorm:"type:text;not null"`
	EditType    string    `gorm:"type:varchar(50);not null"`
	Mode        string    `gorm:"type:varchar(20);not null;default:'fast'"`
	CreditsUsed int       `gorm:"not null;default:1"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`

	User *User `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
}

func (EditHistory) TableName() string {
	return "edit_histories"
}
