package contract

import (
	"context"

	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/internal/repository/specification"

	"github.com/google/uuid"
)

type EditRepository interface {
	Create(ctx context.Context, record *entity.EditRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.EditRecord, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.EditRecord, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
