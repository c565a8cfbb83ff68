package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByEmail matches a user by login email.
type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

// UserOwnedBy scopes a query to rows whose user_id matches. History and
// wallet lookups all pass through this; it is what keeps one account from
// reading another's rows.
type UserOwnedBy struct {
	UserID uuid.UUID
}

func (s UserOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// ByToken matches email verification and password reset tokens, which
// are stored as issued.
type ByToken struct {
	Token string
}

func (s ByToken) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("token = ?", s.Token)
}

// ByTokenHash matches refresh tokens, which are stored hashed. The caller
// hashes the presented token before the lookup.
type ByTokenHash struct {
	Hash string
}

func (s ByTokenHash) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("token_hash = ?", s.Hash)
}
