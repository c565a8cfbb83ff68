// FILE: internal/service/generation_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
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
	"ai-imagestudio-be/pkg/embedding"
	"ai-imagestudio-be/pkg/events"
	"ai-imagestudio-be/pkg/imagen"
	pktNats "ai-imagestudio-be/pkg/nats"

	"github.com/google/uuid"
)

type IGenerationService interface {
	Generate(ctx context.Context, userId uuid.UUID, req *dto.GenerateImageRequest) (*dto.GenerateImageResponse, error)
	List(ctx context.Context, userId uuid.UUID, req *dto.HistoryListRequest) (*dto.GenerationListResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.GenerationHistoryResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	Catalog() *dto.CatalogResponse
}

type generationService struct {
	uowFactory        unitofwork.RepositoryFactory
	imageProvider     imagen.ImageProvider
	store             storage.ImageStore
	publisherService  IPublisherService
	embeddingProvider embedding.EmbeddingProvider
	eventPublisher    *pktNats.Publisher
	logger            logger.ILogger
	providerName      string
	maxImages         int
}

func NewGenerationService(
	uowFactory unitofwork.RepositoryFactory,
	imageProvider imagen.ImageProvider,
	store storage.ImageStore,
	publisherService IPublisherService,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
	providerName string,
	maxImages int,
) IGenerationService {
	if maxImages < 1 {
		maxImages = 1
	}
	return &generationService{
		uowFactory:        uowFactory,
		imageProvider:     imageProvider,
		store:             store,
		publisherService:  publisherService,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
		logger:            log,
		providerName:      providerName,
		maxImages:         maxImages,
	}
}

// Generate runs the whole text-to-image workflow: admission against the
// credit balance, one provider call per requested image, a history row per
// delivered image, then a best-effort settle. A provider failure mid-loop
// aborts the request; rows already written stay, and nothing is billed.
func (c *generationService) Generate(ctx context.Context, userId uuid.UUID, req *dto.GenerateImageRequest) (*dto.GenerateImageResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	balance, err := uow.CreditRepository().GetBalance(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("credit profile lookup: %w", err)
	}
	available := 0
	if balance != nil {
		available = balance.Balance
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt must not be empty", ErrInvalidInput)
	}

	numImages := 1
	if req.NumImages != nil {
		numImages = *req.NumImages
	}
	if numImages < 1 || numImages > c.maxImages {
		return nil, fmt.Errorf("%w: numImages must be between 1 and %d", ErrInvalidInput, c.maxImages)
	}

	aspectRatio := req.AspectRatio
	if aspectRatio == "" {
		aspectRatio = constant.DefaultAspectRatio
	}
	style := req.Style
	if style == "" {
		style = constant.StyleAuto
	}

	if available < numImages {
		return nil, &dto.InsufficientCreditsError{
			Required:  numImages,
			Available: available,
		}
	}

	// The provider sees the enriched prompt; the stored row keeps the
	// original so history search matches what the user typed.
	providerPrompt := prompt + constant.StyleSuffix(style)

	urls := make([]string, 0, numImages)
	var anchorId uuid.UUID

	for i := 0; i < numImages; i++ {
		img, err := c.imageProvider.Generate(ctx, providerPrompt, imagen.WithAspectRatio(aspectRatio))
		if err != nil {
			return nil, c.classifyProviderError(err)
		}
		if img == nil || len(img.Data) == 0 {
			return nil, fmt.Errorf("%w: provider returned an empty image payload", ErrGenerationFailed)
		}

		url, err := c.store.Save("generations", img.Data, img.MimeType)
		if err != nil {
			return nil, fmt.Errorf("store generated image: %w", err)
		}

		record := entity.GenerationRecord{
			Id:          uuid.New(),
			UserId:      userId,
			Prompt:      prompt,
			ImageURL:    url,
			AspectRatio: aspectRatio,
			Style:       style,
			CreditsUsed: constant.CreditsPerImage,
			CreatedAt:   time.Now(),
		}
		if err := uow.GenerationRepository().Create(ctx, &record); err != nil {
			return nil, fmt.Errorf("persist generation record: %w", err)
		}
		if i == 0 {
			anchorId = record.Id
		}

		c.enqueueEmbedding(ctx, record.Id)
		c.publishGeneratedEvent(ctx, userId, &record)

		urls = append(urls, url)
	}

	notes := fmt.Sprintf("image generation x%d", numImages)
	settleSpend(ctx, uow, c.logger, "generation", userId, numImages, constant.ServiceImageGeneration, anchorId, notes)

	return &dto.GenerateImageResponse{
		ImageUrl:  urls[0],
		ImageUrls: urls,
	}, nil
}

func (c *generationService) classifyProviderError(err error) error {
	switch {
	case errors.Is(err, imagen.ErrRateLimited):
		return &dto.RateLimitedError{Provider: c.providerName}
	case errors.Is(err, imagen.ErrQuotaExhausted):
		return fmt.Errorf("%w: %v", ErrQuotaExhausted, err)
	default:
		return fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
}

// enqueueEmbedding hands the row to the async embedding worker. A failure
// only costs semantic ranking for this one row, never the generation.
func (c *generationService) enqueueEmbedding(ctx context.Context, generationId uuid.UUID) {
	payload, err := json.Marshal(dto.PublishEmbedGenerationMessage{GenerationId: generationId})
	if err != nil {
		c.logger.Warn("generation", "embedding job payload marshal failed", map[string]interface{}{
			"generation_id": generationId.String(),
			"error":         err.Error(),
		})
		return
	}
	if err := c.publisherService.Publish(ctx, payload); err != nil {
		c.logger.Warn("generation", "embedding job not enqueued", map[string]interface{}{
			"generation_id": generationId.String(),
			"error":         err.Error(),
		})
	}
}

func (c *generationService) publishGeneratedEvent(ctx context.Context, userId uuid.UUID, record *entity.GenerationRecord) {
	if c.eventPublisher == nil {
		return
	}

	promptPreview := record.Prompt
	if len(promptPreview) > 80 {
		promptPreview = promptPreview[:77] + "..."
	}

	evt := events.BaseEvent{
		Type: "IMAGE_GENERATED",
		Data: map[string]interface{}{
			"user_id":       userId,
			"generation_id": record.Id,
			"prompt":        promptPreview,
			"style":         record.Style,
		},
		OccurredAt: time.Now(),
	}
	if err := c.eventPublisher.Publish(ctx, evt); err != nil {
		c.logger.Warn("generation", "IMAGE_GENERATED event not published", map[string]interface{}{
			"generation_id": record.Id.String(),
			"error":         err.Error(),
		})
	}
}

func (c *generationService) List(ctx context.Context, userId uuid.UUID, req *dto.HistoryListRequest) (*dto.GenerationListResponse, error) {
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

	// Free text ranks semantically when an embedding provider is wired.
	// Filter tokens always run as SQL, and any semantic failure falls back
	// to the literal match rather than failing the read.
	if query.Text != "" && !query.HasFilters() && c.embeddingProvider != nil {
		res, err := c.semanticList(ctx, uow, userId, query.Text, limit)
		if err == nil {
			return res, nil
		}
		c.logger.Warn("generation", "semantic search failed, falling back to literal", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return c.literalList(ctx, uow, userId, query, limit, offset)
}

func (c *generationService) literalList(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, query searchquery.Query, limit, offset int) (*dto.GenerationListResponse, error) {
	specs := []specification.Specification{
		specification.UserOwnedBy{UserID: userId},
	}
	if query.Style != "" {
		specs = append(specs, specification.ByStyle{Style: query.Style})
	}
	if query.Ratio != "" {
		specs = append(specs, specification.ByAspectRatio{AspectRatio: query.Ratio})
	}
	if query.Text != "" {
		specs = append(specs, specification.PromptSearch{Query: query.Text})
	}

	total, err := uow.GenerationRepository().Count(ctx, specs...)
	if err != nil {
		return nil, err
	}

	specs = append(specs,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	records, err := uow.GenerationRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	items := make([]dto.GenerationHistoryResponse, 0, len(records))
	for _, record := range records {
		items = append(items, toGenerationHistoryResponse(record))
	}

	return &dto.GenerationListResponse{Items: items, Total: total}, nil
}

func (c *generationService) semanticList(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, text string, limit int) (*dto.GenerationListResponse, error) {
	embeddingRes, err := c.embeddingProvider.Generate(text, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, err
	}

	records, err := uow.GenerationRepository().SearchSimilar(ctx, userId, embeddingRes.Embedding.Values, limit)
	if err != nil {
		return nil, err
	}

	items := make([]dto.GenerationHistoryResponse, 0, len(records))
	for _, record := range records {
		items = append(items, toGenerationHistoryResponse(record))
	}

	// A ranked result is not a page; total reflects what came back.
	return &dto.GenerationListResponse{Items: items, Total: int64(len(items))}, nil
}

func (c *generationService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.GenerationHistoryResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	record, err := uow.GenerationRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("%w: generation not found", ErrNotFound)
	}

	res := toGenerationHistoryResponse(record)
	return &res, nil
}

func (c *generationService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	record, err := uow.GenerationRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("%w: generation not found", ErrNotFound)
	}

	return uow.GenerationRepository().Delete(ctx, record.Id)
}

// Catalog lists the closed sets the endpoint accepts. "auto" leads the style
// list; the rest sorts alphabetically for a stable payload.
func (c *generationService) Catalog() *dto.CatalogResponse {
	tagged := make([]string, 0, len(constant.StylePromptSuffixes))
	for style := range constant.StylePromptSuffixes {
		tagged = append(tagged, style)
	}
	sort.Strings(tagged)

	styles := make([]string, 0, len(tagged)+1)
	styles = append(styles, constant.StyleAuto)
	styles = append(styles, tagged...)

	return &dto.CatalogResponse{
		Styles:       styles,
		AspectRatios: constant.SupportedAspectRatios,
		EditModes:    constant.SupportedEditModes,
	}
}

func toGenerationHistoryResponse(record *entity.GenerationRecord) dto.GenerationHistoryResponse {
	return dto.GenerationHistoryResponse{
		Id:          record.Id,
		Prompt:      record.Prompt,
		ImageUrl:    record.ImageURL,
		AspectRatio: record.AspectRatio,
		Style:       record.Style,
		CreditsUsed: record.CreditsUsed,
		Similarity:  record.Similarity,
		CreatedAt:   record.CreatedAt,
	}
}
