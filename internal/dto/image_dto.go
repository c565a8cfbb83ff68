package dto

import (
	"time"

	"github.com/google/uuid"
)

// The image endpoints use camelCase keys; they are the app's public,
// frontend-facing contract and predate the snake_case convention used
// by the account endpoints.

// --- Generation ---

type GenerateImageRequest struct {
	Prompt      string `json:"prompt" validate:"required"`
	AspectRatio string `json:"aspectRatio" validate:"omitempty,oneof=1:1 16:9 9:16 4:3 3:4"`
	NumImages   *int   `json:"numImages"` // nil means 1; bounds checked in the service
	Style       string `json:"style"`
}

type GenerateImageResponse struct {
	ImageUrl  string   `json:"imageUrl"`
	ImageUrls []string `json:"imageUrls"`
}

// --- Edit (background removal) ---

// EditImageRequest is the JSON body variant; the multipart variant is
// parsed field-by-field in the controller.
type EditImageRequest struct {
	ImageUrl string `json:"imageUrl" validate:"required,url"`
	Mode     string `json:"mode" validate:"omitempty,oneof=fast quality"`
}

type EditImageResponse struct {
	OriginalUrl string `json:"originalUrl"`
	EditedUrl   string `json:"editedUrl"`
}

// EditImageInput is what the controller hands the service after resolving
// either variant: raw upload bytes, or bytes fetched from SourceUrl.
type EditImageInput struct {
	Image       []byte
	ContentType string
	SourceUrl   string
	Mode        string
}

// --- History ---

type HistoryListRequest struct {
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
	Search string `query:"q"`
}

type GenerationHistoryResponse struct {
	Id          uuid.UUID `json:"id"`
	Prompt      string    `json:"prompt"`
	ImageUrl    string    `json:"imageUrl"`
	AspectRatio string    `json:"aspectRatio"`
	Style       string    `json:"style"`
	CreditsUsed int       `json:"creditsUsed"`
	Similarity  *float64  `json:"similarity,omitempty"` // only set on semantic search results
	CreatedAt   time.Time `json:"createdAt"`
}

type GenerationListResponse struct {
	Items []GenerationHistoryResponse `json:"items"`
	Total int64                       `json:"total"`
}

type EditHistoryResponse struct {
	Id          uuid.UUID `json:"id"`
	OriginalUrl string    `json:"originalUrl"`
	EditedUrl   string    `json:"editedUrl"`
	EditType    string    `json:"editType"`
	Mode        string    `json:"mode"`
	CreditsUsed int       `json:"creditsUsed"`
	CreatedAt   time.Time `json:"createdAt"`
}

type EditListResponse struct {
	Items []EditHistoryResponse `json:"items"`
	Total int64                 `json:"total"`
}

// --- Catalog ---

type CatalogResponse struct {
	Styles       []string `json:"styles"`
	AspectRatios []string `json:"aspectRatios"`
	EditModes    []string `json:"editModes"`
}

// --- Async embedding ---

// PublishEmbedGenerationMessage is the watermill payload that asks the
// consumer worker to compute and persist a prompt embedding.
type PublishEmbedGenerationMessage struct {
	GenerationId uuid.UUID `json:"generation_id"`
}
