package contract

import (
	"context"

	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/internal/repository/specification"

	"github.com/google/uuid"
)

type GenerationRepository interface {
	Create(ctx context.Context, record *entity.GenerationRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.GenerationRecord, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GenerationRecord, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// UpdateEmbedding is the only write after insert; rows are otherwise
	// immutable.
	UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error
	// SearchSimilar ranks a user's rows by cosine distance between the query
	// embedding and the stored prompt embeddings. Rows without an embedding
	// yet are skipped.
	SearchSimilar(ctx context.Context, userId uuid.UUID, embedding []float32, limit int) ([]*entity.GenerationRecord, error)
}
