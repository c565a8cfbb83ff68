package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ai-imagestudio-be/internal/constant"
	"ai-imagestudio-be/internal/dto"
	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/internal/pkg/logger"
	"ai-imagestudio-be/internal/pkg/searchquery"
	"ai-imagestudio-be/internal/pkg/storage"
	"ai-imagestudio-be/internal/repository/specification"
	"ai-imagestudio-be/internal/repository/unitofwork"
	"ai-imagestudio-be/pkg/events"
	pktNats "ai-imagestudio-be/pkg/nats"
	"ai-imagestudio-be/pkg/removal"

	"github.com/google/uuid"
)

type IEditService interface {
	Edit(ctx context.Context, userId uuid.UUID, input *dto.EditImageInput) (*dto.EditImageResponse, error)
	List(ctx context.Context, userId uuid.UUID, req *dto.HistoryListRequest) (*dto.EditListResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

// Labels reported in rate-limit responses, keyed by edit mode.
var removalProviderLabels = map[string]string{
	constant.EditModeFast:    "rembg",
	constant.EditModeQuality: "remove.bg",
}

type editService struct {
	uowFactory      unitofwork.RepositoryFactory
	fastProvider    removal.RemovalProvider
	qualityProvider removal.RemovalProvider
	store           storage.ImageStore
	eventPublisher  *pktNats.Publisher
	logger          logger.ILogger
}

func NewEditService(
	uowFactory unitofwork.RepositoryFactory,
	fastProvider removal.RemovalProvider,
	qualityProvider removal.RemovalProvider,
	store storage.ImageStore,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IEditService {
	return &editService{
		uowFactory:      uowFactory,
		fastProvider:    fastProvider,
		qualityProvider: qualityProvider,
		store:           store,
		eventPublisher:  eventPublisher,
		logger:          log,
	}
}

// Edit runs the background-removal workflow: admission against the credit
// balance, one provider call picked by mode, persist, then best-effort
// settle of a single credit. A provider failure leaves no row and no charge.
func (c *editService) Edit(ctx context.Context, userId uuid.UUID, input *dto.EditImageInput) (*dto.EditImageResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	balance, err := uow.CreditRepository().GetBalance(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("credit profile lookup: %w", err)
	}
	available := 0
	if balance != nil {
		available = balance.Balance
	}

	if len(input.Image) == 0 {
		return nil, fmt.Errorf("%w: image file is required", ErrInvalidInput)
	}
	if len(input.Image) > constant.MaxEditUploadBytes {
		return nil, fmt.Errorf("%w: image exceeds the %dMB upload limit", ErrInvalidInput, constant.MaxEditUploadBytes>>20)
	}
	if input.ContentType != "" && !strings.HasPrefix(input.ContentType, "image/") {
		return nil, fmt.Errorf("%w: only image uploads are accepted", ErrInvalidInput)
	}

	mode := input.Mode
	if mode == "" {
		mode = constant.EditModeFast
	}
	provider, err := c.providerFor(mode)
	if err != nil {
		return nil, err
	}

	if available < constant.CreditsPerImage {
		return nil, &dto.InsufficientCreditsError{
			Required:  constant.CreditsPerImage,
			Available: available,
		}
	}

	result, err := provider.Remove(ctx, input.Image, input.ContentType)
	if err != nil {
		return nil, c.classifyProviderError(err, mode)
	}
	if result == nil || len(result.Data) == 0 {
		return nil, fmt.Errorf("%w: provider returned an empty image payload", ErrEditFailed)
	}

	// For a raw upload the original is stored too, so history can show the
	// before/after pair. An asset that already has a URL keeps it.
	originalUrl := input.SourceUrl
	if originalUrl == "" {
		originalUrl, err = c.store.Save("edits/originals", input.Image, input.ContentType)
		if err != nil {
			return nil, fmt.Errorf("store original image: %w", err)
		}
	}

	editedUrl, err := c.store.Save("edits", result.Data, result.MimeType)
	if err != nil {
		return nil, fmt.Errorf("store edited image: %w", err)
	}

	record := entity.EditRecord{
		Id:          uuid.New(),
		UserId:      userId,
		OriginalURL: originalUrl,
		EditedURL:   editedUrl,
		EditType:    constant.EditTypeBackgroundRemoval,
		Mode:        mode,
		CreditsUsed: constant.CreditsPerImage,
		CreatedAt:   time.Now(),
	}
	if err := uow.EditRepository().Create(ctx, &record); err != nil {
		return nil, fmt.Errorf("persist edit record: %w", err)
	}

	c.publishEditedEvent(ctx, userId, &record)

	settleSpend(ctx, uow, c.logger, "edit", userId, constant.CreditsPerImage, constant.ServiceBackgroundRemoval, record.Id, "background removal ("+mode+")")

	return &dto.EditImageResponse{
		OriginalUrl: originalUrl,
		EditedUrl:   editedUrl,
	}, nil
}

func (c *editService) providerFor(mode string) (removal.RemovalProvider, error) {
	var provider removal.RemovalProvider
	switch mode {
	case constant.EditModeFast:
		provider = c.fastProvider
	case constant.EditModeQuality:
		provider = c.qualityProvider
	default:
		return nil, fmt.Errorf("%w: unknown edit mode %q", ErrInvalidInput, mode)
	}
	if provider == nil {
		return nil, fmt.Errorf("%w: %s mode is not configured", ErrEditFailed, mode)
	}
	return provider, nil
}

func (c *editService) classifyProviderError(err error, mode string) error {
	switch {
	case errors.Is(err, removal.ErrRateLimited):
		return &dto.RateLimitedError{Provider: removalProviderLabels[mode]}
	case errors.Is(err, removal.ErrQuotaExhausted):
		return fmt.Errorf("%w: %v", ErrQuotaExhausted, err)
	default:
		return fmt.Errorf("%w: %v", ErrEditFailed, err)
	}
}

func (c *editService) publishEditedEvent(ctx context.Context, userId uuid.UUID, record *entity.EditRecord) {
	if c.eventPublisher == nil {
		return
	}

	evt := events.BaseEvent{
		Type: "IMAGE_EDITED",
		Data: map[string]interface{}{
			"user_id": userId,
			"edit_id": record.Id,
			"mode":    record.Mode,
		},
		OccurredAt: time.Now(),
	}
	if err := c.eventPublisher.Publish(ctx, evt); err != nil {
		c.logger.Warn("edit", "IMAGE_EDITED event not published", map[string]interface{}{
			"edit_id": record.Id.String(),
			"error":   err.Error(),
		})
	}
}

// List returns the caller's edit history. Edits carry no prompt, so only the
// mode: filter from the search query applies; free text is ignored.
func (c *editService) List(ctx context.Context, userId uuid.UUID, req *dto.HistoryListRequest) (*dto.EditListResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	limit := req.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	query := searchquery.ParseQuery(req.Search)

	specs := []specification.Specification{
		specification.UserOwnedBy{UserID: userId},
	}
	if query.Mode != "" {
		specs = append(specs, specification.ByEditMode{Mode: query.Mode})
	}

	total, err := uow.EditRepository().Count(ctx, specs...)
	if err != nil {
		return nil, err
	}

	specs = append(specs,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	records, err := uow.EditRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	items := make([]dto.EditHistoryResponse, 0, len(records))
	for _, record := range records {
		items = append(items, dto.EditHistoryResponse{
			Id:          record.Id,
			OriginalUrl: record.OriginalURL,
			EditedUrl:   record.EditedURL,
			EditType:    record.EditType,
			Mode:        record.Mode,
			CreditsUsed: record.CreditsUsed,
			CreatedAt:   record.CreatedAt,
		})
	}

	return &dto.EditListResponse{Items: items, Total: total}, nil
}

func (c *editService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	record, err := uow.EditRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("%w: edit not found", ErrNotFound)
	}

	return uow.EditRepository().Delete(ctx, record.Id)
}
