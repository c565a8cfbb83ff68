package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"ai-imagestudio-be/internal/constant"
	"ai-imagestudio-be/internal/dto"
	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/pkg/imagen"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGenerationFixture(balance int) (*fakeUnitOfWork, *fakeImageProvider, *fakeStore, *fakeJobPublisher, IGenerationService) {
	uow := newFakeUnitOfWork()
	if balance >= 0 {
		uow.credits.balance = &entity.CreditBalance{UserId: uuid.New(), Balance: balance}
	}
	provider := &fakeImageProvider{}
	store := &fakeStore{}
	jobs := &fakeJobPublisher{}
	svc := NewGenerationService(&fakeFactory{uow: uow}, provider, store, jobs, nil, nil, nopLogger{}, "gemini", 4)
	return uow, provider, store, jobs, svc
}

func intPtr(v int) *int { return &v }

func TestGenerateHappyPath(t *testing.T) {
	uow, provider, store, jobs, svc := newGenerationFixture(10)
	userId := uuid.New()

	res, err := svc.Generate(context.Background(), userId, &dto.GenerateImageRequest{
		Prompt:      "  a red fox in snow  ",
		AspectRatio: "16:9",
		Style:       "anime",
		NumImages:   intPtr(2),
	})
	require.NoError(t, err)
	require.NotNil(t, res)

	// One provider call and one stored file per image
	assert.Len(t, provider.prompts, 2)
	assert.Len(t, store.saves, 2)
	assert.Equal(t, res.ImageUrls[0], res.ImageUrl)
	assert.Len(t, res.ImageUrls, 2)

	// Provider sees the enriched prompt, the row keeps what the user typed
	assert.Equal(t, "a red fox in snow"+constant.StyleSuffix("anime"), provider.prompts[0])
	require.Len(t, uow.gens.created, 2)
	for _, rec := range uow.gens.created {
		assert.Equal(t, "a red fox in snow", rec.Prompt)
		assert.Equal(t, "16:9", rec.AspectRatio)
		assert.Equal(t, "anime", rec.Style)
		assert.Equal(t, userId, rec.UserId)
		assert.Equal(t, constant.CreditsPerImage, rec.CreditsUsed)
	}

	// One settle for the whole batch: a single decrement and one ledger row
	require.Equal(t, []int{2}, uow.credits.spends)
	require.Len(t, uow.credits.createdTx, 1)
	tx := uow.credits.createdTx[0]
	assert.Equal(t, -2, tx.Amount)
	assert.Equal(t, entity.CreditTransactionSpend, tx.TransactionType)
	require.NotNil(t, tx.RelatedId)
	assert.Equal(t, uow.gens.created[0].Id, *tx.RelatedId)
	assert.Equal(t, 1, uow.commits)

	// Each row got an embedding job
	require.Len(t, jobs.payloads, 2)
	var msg dto.PublishEmbedGenerationMessage
	require.NoError(t, json.Unmarshal(jobs.payloads[0], &msg))
	assert.Equal(t, uow.gens.created[0].Id, msg.GenerationId)
}

func TestGenerateDefaults(t *testing.T) {
	uow, provider, _, _, svc := newGenerationFixture(5)

	_, err := svc.Generate(context.Background(), uuid.New(), &dto.GenerateImageRequest{
		Prompt: "minimal prompt",
	})
	require.NoError(t, err)

	require.Len(t, uow.gens.created, 1)
	assert.Equal(t, constant.DefaultAspectRatio, uow.gens.created[0].AspectRatio)
	assert.Equal(t, constant.StyleAuto, uow.gens.created[0].Style)
	// auto adds no style suffix
	assert.Equal(t, "minimal prompt", provider.prompts[0])
	assert.Equal(t, []int{1}, uow.credits.spends)
}

func TestGenerateInsufficientCredits(t *testing.T) {
	uow, provider, _, _, svc := newGenerationFixture(1)

	_, err := svc.Generate(context.Background(), uuid.New(), &dto.GenerateImageRequest{
		Prompt:    "too many",
		NumImages: intPtr(3),
	})
	require.Error(t, err)

	var insufficient *dto.InsufficientCreditsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 3, insufficient.Required)
	assert.Equal(t, 1, insufficient.Available)

	// Rejected before any provider work or persistence
	assert.Empty(t, provider.prompts)
	assert.Empty(t, uow.gens.created)
	assert.Empty(t, uow.credits.spends)
}

func TestGenerateNoBalanceRowReadsAsZero(t *testing.T) {
	_, provider, _, _, svc := newGenerationFixture(-1) // no balance row at all

	_, err := svc.Generate(context.Background(), uuid.New(), &dto.GenerateImageRequest{Prompt: "hi"})
	var insufficient *dto.InsufficientCreditsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 0, insufficient.Available)
	assert.Empty(t, provider.prompts)
}

func TestGenerateRejectsBlankPrompt(t *testing.T) {
	_, provider, _, _, svc := newGenerationFixture(5)

	_, err := svc.Generate(context.Background(), uuid.New(), &dto.GenerateImageRequest{Prompt: "   "})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, provider.prompts)
}

func TestGenerateRejectsBadCount(t *testing.T) {
	for _, n := range []int{0, -1, 5} {
		t.Run(fmt.Sprintf("numImages=%d", n), func(t *testing.T) {
			_, _, _, _, svc := newGenerationFixture(100)
			_, err := svc.Generate(context.Background(), uuid.New(), &dto.GenerateImageRequest{
				Prompt:    "x",
				NumImages: intPtr(n),
			})
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestGenerateMidBatchFailureKeepsDeliveredRowsUnbilled(t *testing.T) {
	uow, provider, _, _, svc := newGenerationFixture(10)
	provider.failAt = 2
	provider.failErr = errors.New("upstream 500")

	_, err := svc.Generate(context.Background(), uuid.New(), &dto.GenerateImageRequest{
		Prompt:    "triptych",
		NumImages: intPtr(3),
	})
	require.ErrorIs(t, err, ErrGenerationFailed)

	// The first image survived but the aborted request bills nothing
	assert.Len(t, uow.gens.created, 1)
	assert.Empty(t, uow.credits.spends)
	assert.Empty(t, uow.credits.createdTx)
}

func TestGenerateClassifiesProviderErrors(t *testing.T) {
	t.Run("rate limited", func(t *testing.T) {
		_, provider, _, _, svc := newGenerationFixture(5)
		provider.failAt = 1
		provider.failErr = fmt.Errorf("%w: gemini status 429", imagen.ErrRateLimited)

		_, err := svc.Generate(context.Background(), uuid.New(), &dto.GenerateImageRequest{Prompt: "x"})
		var limited *dto.RateLimitedError
		require.ErrorAs(t, err, &limited)
		assert.Equal(t, "gemini", limited.Provider)
	})

	t.Run("quota exhausted", func(t *testing.T) {
		_, provider, _, _, svc := newGenerationFixture(5)
		provider.failAt = 1
		provider.failErr = fmt.Errorf("%w: billing hard limit", imagen.ErrQuotaExhausted)

		_, err := svc.Generate(context.Background(), uuid.New(), &dto.GenerateImageRequest{Prompt: "x"})
		require.ErrorIs(t, err, ErrQuotaExhausted)
	})

	t.Run("anything else is a generation failure", func(t *testing.T) {
		_, provider, _, _, svc := newGenerationFixture(5)
		provider.failAt = 1
		provider.failErr = errors.New("connection reset")

		_, err := svc.Generate(context.Background(), uuid.New(), &dto.GenerateImageRequest{Prompt: "x"})
		require.ErrorIs(t, err, ErrGenerationFailed)
	})
}

func TestGenerateSettleGuardRaceStillDelivers(t *testing.T) {
	uow, _, _, _, svc := newGenerationFixture(5)
	// Another request spends the balance between admission and settle.
	uow.credits.spendOK = false

	res, err := svc.Generate(context.Background(), uuid.New(), &dto.GenerateImageRequest{Prompt: "race"})
	require.NoError(t, err)
	require.NotNil(t, res)

	// Delivered work is never clawed back; the spend is just not recorded
	assert.Len(t, uow.gens.created, 1)
	assert.Empty(t, uow.credits.createdTx)
	assert.Equal(t, 1, uow.rollbacks)
}

func TestListLiteral(t *testing.T) {
	uow := newFakeUnitOfWork()
	uow.gens.findAll = []*entity.GenerationRecord{
		{Id: uuid.New(), Prompt: "newest"},
		{Id: uuid.New(), Prompt: "older"},
	}
	uow.gens.count = 7
	svc := NewGenerationService(&fakeFactory{uow: uow}, &fakeImageProvider{}, &fakeStore{}, &fakeJobPublisher{}, nil, nil, nopLogger{}, "gemini", 4)

	res, err := svc.List(context.Background(), uuid.New(), &dto.HistoryListRequest{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(7), res.Total)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "newest", res.Items[0].Prompt)
}

func TestListSemanticRanking(t *testing.T) {
	uow := newFakeUnitOfWork()
	sim := 0.93
	uow.gens.similar = []*entity.GenerationRecord{
		{Id: uuid.New(), Prompt: "anime fox portrait", Similarity: &sim},
	}
	embedder := &fakeEmbedder{values: []float32{0.1, 0.2}}
	svc := NewGenerationService(&fakeFactory{uow: uow}, &fakeImageProvider{}, &fakeStore{}, &fakeJobPublisher{}, embedder, nil, nopLogger{}, "gemini", 4)

	res, err := svc.List(context.Background(), uuid.New(), &dto.HistoryListRequest{Search: "fox art"})
	require.NoError(t, err)

	// Free text went through the embedder, not the literal scan
	require.Len(t, embedder.texts, 1)
	assert.Equal(t, "fox art", embedder.texts[0])
	require.Len(t, res.Items, 1)
	require.NotNil(t, res.Items[0].Similarity)
	assert.Equal(t, int64(1), res.Total)
}

func TestListSemanticFailureFallsBackToLiteral(t *testing.T) {
	uow := newFakeUnitOfWork()
	uow.gens.findAll = []*entity.GenerationRecord{{Id: uuid.New(), Prompt: "fox art literal hit"}}
	uow.gens.count = 1
	embedder := &fakeEmbedder{err: errors.New("embedding api down")}
	svc := NewGenerationService(&fakeFactory{uow: uow}, &fakeImageProvider{}, &fakeStore{}, &fakeJobPublisher{}, embedder, nil, nopLogger{}, "gemini", 4)

	res, err := svc.List(context.Background(), uuid.New(), &dto.HistoryListRequest{Search: "fox art"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "fox art literal hit", res.Items[0].Prompt)
}

func TestListFilterTokensSkipSemantic(t *testing.T) {
	uow := newFakeUnitOfWork()
	uow.gens.findAll = []*entity.GenerationRecord{{Id: uuid.New(), Style: "anime"}}
	uow.gens.count = 1
	embedder := &fakeEmbedder{values: []float32{0.5}}
	svc := NewGenerationService(&fakeFactory{uow: uow}, &fakeImageProvider{}, &fakeStore{}, &fakeJobPublisher{}, embedder, nil, nopLogger{}, "gemini", 4)

	_, err := svc.List(context.Background(), uuid.New(), &dto.HistoryListRequest{Search: "style:anime foxes"})
	require.NoError(t, err)
	assert.Empty(t, embedder.texts, "filtered queries must run as SQL")
}

func TestShow(t *testing.T) {
	uow := newFakeUnitOfWork()
	svc := NewGenerationService(&fakeFactory{uow: uow}, &fakeImageProvider{}, &fakeStore{}, &fakeJobPublisher{}, nil, nil, nopLogger{}, "gemini", 4)

	t.Run("not found", func(t *testing.T) {
		_, err := svc.Show(context.Background(), uuid.New(), uuid.New())
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("found", func(t *testing.T) {
		uow.gens.findOne = &entity.GenerationRecord{Id: uuid.New(), Prompt: "hello", ImageURL: "http://x/y.png"}
		res, err := svc.Show(context.Background(), uuid.New(), uow.gens.findOne.Id)
		require.NoError(t, err)
		assert.Equal(t, "hello", res.Prompt)
		assert.Equal(t, "http://x/y.png", res.ImageUrl)
	})
}

func TestDeleteGeneration(t *testing.T) {
	uow := newFakeUnitOfWork()
	svc := NewGenerationService(&fakeFactory{uow: uow}, &fakeImageProvider{}, &fakeStore{}, &fakeJobPublisher{}, nil, nil, nopLogger{}, "gemini", 4)

	t.Run("not found", func(t *testing.T) {
		err := svc.Delete(context.Background(), uuid.New(), uuid.New())
		require.ErrorIs(t, err, ErrNotFound)
		assert.Empty(t, uow.gens.deleted)
	})

	t.Run("owned row deleted", func(t *testing.T) {
		rec := &entity.GenerationRecord{Id: uuid.New()}
		uow.gens.findOne = rec
		require.NoError(t, svc.Delete(context.Background(), uuid.New(), rec.Id))
		assert.Equal(t, []uuid.UUID{rec.Id}, uow.gens.deleted)
	})
}

func TestCatalogShape(t *testing.T) {
	svc := NewGenerationService(&fakeFactory{uow: newFakeUnitOfWork()}, &fakeImageProvider{}, &fakeStore{}, &fakeJobPublisher{}, nil, nil, nopLogger{}, "gemini", 4)

	cat := svc.Catalog()
	require.NotEmpty(t, cat.Styles)
	assert.Equal(t, constant.StyleAuto, cat.Styles[0])
	assert.Equal(t, constant.SupportedAspectRatios, cat.AspectRatios)
	assert.Equal(t, constant.SupportedEditModes, cat.EditModes)
	assert.Len(t, cat.Styles, len(constant.StylePromptSuffixes)+1)
}
