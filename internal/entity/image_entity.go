package entity

import (
	"time"

	"github.com/google/uuid"
)

// GenerationRecord is one completed text-to-image output. Rows are written
// only after the provider returned a usable image and are never updated,
// except for the prompt embedding which is filled in asynchronously.
type GenerationRecord struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	Prompt      string
	ImageURL    string
	AspectRatio string
	Style       string
	CreditsUsed int
	CreatedAt   time.Time

	// Similarity is populated only by semantic history search.
	Similarity *float64
}

// EditRecord is one completed image edit (background removal).
type EditRecord struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	OriginalURL string
	EditedURL   string
	EditType    string
	Mode        string
	CreditsUsed int
	CreatedAt   time.Time
}
