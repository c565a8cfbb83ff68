package contract

import (
	"context"

	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/internal/repository/specification"
)

type PackRepository interface {
	Create(ctx context.Context, pack *entity.CreditPack) error
	Update(ctx context.Context, pack *entity.CreditPack) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CreditPack, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CreditPack, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *entity.CreditOrder) error
	Update(ctx context.Context, order *entity.CreditOrder) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CreditOrder, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CreditOrder, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// UpdateStatusIfPending transitions pending -> status atomically and
	// reports whether this call performed the transition. Webhook replays and
	// racing callbacks see false.
	UpdateStatusIfPending(ctx context.Context, orderId string, status entity.OrderStatus) (bool, error)
}
