package dto

import (
	"time"

	"github.com/google/uuid"
)

// --- User Management ---

type AdminUserListRequest struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	Search string `query:"search"`
	Status string `query:"status"`
}

type UserListResponse struct {
	Id        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	Credits   int       `json:"credits"`
	CreatedAt time.Time `json:"created_at"`
}

// --- Credit Management ---

// Amount is signed; a negative adjustment revokes credits.
type AdjustCreditsRequest struct {
	UserId uuid.UUID `json:"user_id" validate:"required"`
	Amount int       `json:"amount" validate:"required"`
	Notes  string    `json:"notes"`
}

type AdjustCreditsResponse struct {
	UserId     uuid.UUID `json:"user_id"`
	NewBalance int       `json:"new_balance"`
}
