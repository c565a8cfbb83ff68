package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreditBalanceResponse struct {
	Balance   int       `json:"balance"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreditTransactionResponse struct {
	Id              uuid.UUID `json:"id"`
	TransactionType string    `json:"transaction_type"`
	Amount          int       `json:"amount"`
	ServiceUsed     string    `json:"service_used,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type CreditLedgerResponse struct {
	Transactions []CreditTransactionResponse `json:"transactions"`
	Total        int64                       `json:"total"`
}

// InsufficientCreditsError is a custom error that carries the admission math
type InsufficientCreditsError struct {
	Required  int `json:"required"`
	Available int `json:"available"`
}

func (e *InsufficientCreditsError) Error() string {
	return "insufficient credits"
}

// InsufficientCreditsData is the data payload for 402 responses
type InsufficientCreditsData struct {
	Required       int  `json:"required"`
	Available      int  `json:"available"`
	ShowModalTopup bool `json:"show_modal_topup"`
}

// InsufficientCreditsResponse is the full 402 response structure
type InsufficientCreditsResponse struct {
	Success   bool                    `json:"success"`
	Code      int                     `json:"code"`
	Message   string                  `json:"message"`
	ErrorType string                  `json:"error_type"`
	Data      InsufficientCreditsData `json:"data"`
}

// RateLimitedError is a custom error raised when an upstream provider throttles us
type RateLimitedError struct {
	Provider          string `json:"provider"`
	RetryAfterSeconds int    `json:"retry_after_seconds,omitempty"`
}

func (e *RateLimitedError) Error() string {
	return "provider rate limit hit"
}

// RateLimitedData is the data payload for 429 responses
type RateLimitedData struct {
	Provider          string `json:"provider"`
	RetryAfterSeconds int    `json:"retry_after_seconds,omitempty"`
}

// RateLimitedResponse is the full 429 response structure
type RateLimitedResponse struct {
	Success   bool            `json:"success"`
	Code      int             `json:"code"`
	Message   string          `json:"message"`
	ErrorType string          `json:"error_type"`
	Data      RateLimitedData `json:"data"`
}
