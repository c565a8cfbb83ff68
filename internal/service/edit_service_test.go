package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"ai-imagestudio-be/internal/constant"
	"ai-imagestudio-be/internal/dto"
	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/pkg/removal"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEditFixture(balance int, quality *fakeRemovalProvider) (*fakeUnitOfWork, *fakeRemovalProvider, *fakeStore, IEditService) {
	uow := newFakeUnitOfWork()
	if balance >= 0 {
		uow.credits.balance = &entity.CreditBalance{UserId: uuid.New(), Balance: balance}
	}
	fast := &fakeRemovalProvider{}
	store := &fakeStore{}
	var qp removal.RemovalProvider
	if quality != nil {
		qp = quality
	}
	svc := NewEditService(&fakeFactory{uow: uow}, fast, qp, store, nil, nopLogger{})
	return uow, fast, store, svc
}

func uploadInput(mode string) *dto.EditImageInput {
	return &dto.EditImageInput{
		Image:       []byte("jpeg-bytes"),
		ContentType: "image/jpeg",
		Mode:        mode,
	}
}

func TestEditFastUpload(t *testing.T) {
	uow, fast, store, svc := newEditFixture(3, nil)
	userId := uuid.New()

	res, err := svc.Edit(context.Background(), userId, uploadInput(""))
	require.NoError(t, err)

	assert.Equal(t, 1, fast.calls)
	// Raw uploads store both halves of the before/after pair
	assert.Len(t, store.saves, 2)
	assert.Equal(t, store.saves[0], res.OriginalUrl)
	assert.Equal(t, store.saves[1], res.EditedUrl)

	require.Len(t, uow.edits.created, 1)
	rec := uow.edits.created[0]
	assert.Equal(t, userId, rec.UserId)
	assert.Equal(t, constant.EditTypeBackgroundRemoval, rec.EditType)
	assert.Equal(t, constant.EditModeFast, rec.Mode)
	assert.Equal(t, constant.CreditsPerImage, rec.CreditsUsed)

	// One credit settled with the edit row as the ledger anchor
	require.Equal(t, []int{1}, uow.credits.spends)
	require.Len(t, uow.credits.createdTx, 1)
	assert.Equal(t, -1, uow.credits.createdTx[0].Amount)
	require.NotNil(t, uow.credits.createdTx[0].RelatedId)
	assert.Equal(t, rec.Id, *uow.credits.createdTx[0].RelatedId)
}

func TestEditUrlSourceKeepsOriginalUrl(t *testing.T) {
	uow, _, store, svc := newEditFixture(3, nil)

	res, err := svc.Edit(context.Background(), uuid.New(), &dto.EditImageInput{
		Image:       bytes.Repeat([]byte("x"), 128),
		ContentType: "image/png",
		SourceUrl:   "https://cdn.example.com/cat.png",
	})
	require.NoError(t, err)

	// The fetched asset already has a URL; only the result is stored
	assert.Len(t, store.saves, 1)
	assert.Equal(t, "https://cdn.example.com/cat.png", res.OriginalUrl)
	assert.Equal(t, "https://cdn.example.com/cat.png", uow.edits.created[0].OriginalURL)
}

func TestEditQualityMode(t *testing.T) {
	quality := &fakeRemovalProvider{}
	uow, fast, _, svc := newEditFixture(3, quality)

	_, err := svc.Edit(context.Background(), uuid.New(), uploadInput(constant.EditModeQuality))
	require.NoError(t, err)

	assert.Equal(t, 0, fast.calls)
	assert.Equal(t, 1, quality.calls)
	assert.Equal(t, constant.EditModeQuality, uow.edits.created[0].Mode)
}

func TestEditQualityModeNotConfigured(t *testing.T) {
	uow, fast, _, svc := newEditFixture(3, nil)

	_, err := svc.Edit(context.Background(), uuid.New(), uploadInput(constant.EditModeQuality))
	require.ErrorIs(t, err, ErrEditFailed)
	assert.Equal(t, 0, fast.calls)
	assert.Empty(t, uow.edits.created)
	assert.Empty(t, uow.credits.spends)
}

func TestEditRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		input *dto.EditImageInput
	}{
		{"empty image", &dto.EditImageInput{ContentType: "image/png"}},
		{"oversized image", &dto.EditImageInput{
			Image:       bytes.Repeat([]byte("x"), constant.MaxEditUploadBytes+1),
			ContentType: "image/png",
		}},
		{"non-image upload", &dto.EditImageInput{
			Image:       []byte("%PDF-1.4"),
			ContentType: "application/pdf",
		}},
		{"unknown mode", &dto.EditImageInput{
			Image:       []byte("png"),
			ContentType: "image/png",
			Mode:        "ultra",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uow, fast, _, svc := newEditFixture(3, nil)
			_, err := svc.Edit(context.Background(), uuid.New(), tt.input)
			require.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, 0, fast.calls)
			assert.Empty(t, uow.edits.created)
		})
	}
}

func TestEditInsufficientCredits(t *testing.T) {
	uow, fast, _, svc := newEditFixture(0, nil)

	_, err := svc.Edit(context.Background(), uuid.New(), uploadInput(""))
	var insufficient *dto.InsufficientCreditsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 1, insufficient.Required)
	assert.Equal(t, 0, insufficient.Available)
	assert.Equal(t, 0, fast.calls)
	assert.Empty(t, uow.edits.created)
}

func TestEditProviderFailureLeavesNoTrace(t *testing.T) {
	t.Run("rate limited", func(t *testing.T) {
		uow, fast, _, svc := newEditFixture(3, nil)
		fast.err = fmt.Errorf("%w: rembg status 429", removal.ErrRateLimited)

		_, err := svc.Edit(context.Background(), uuid.New(), uploadInput(""))
		var limited *dto.RateLimitedError
		require.ErrorAs(t, err, &limited)
		assert.Equal(t, "rembg", limited.Provider)
		assert.Empty(t, uow.edits.created)
		assert.Empty(t, uow.credits.spends)
	})

	t.Run("quota exhausted", func(t *testing.T) {
		_, fast, _, svc := newEditFixture(3, nil)
		fast.err = fmt.Errorf("%w: credits gone", removal.ErrQuotaExhausted)

		_, err := svc.Edit(context.Background(), uuid.New(), uploadInput(""))
		require.ErrorIs(t, err, ErrQuotaExhausted)
	})

	t.Run("generic failure", func(t *testing.T) {
		uow, fast, _, svc := newEditFixture(3, nil)
		fast.err = errors.New("connection refused")

		_, err := svc.Edit(context.Background(), uuid.New(), uploadInput(""))
		require.ErrorIs(t, err, ErrEditFailed)
		assert.Empty(t, uow.edits.created)
		assert.Empty(t, uow.credits.createdTx)
	})
}

func TestEditList(t *testing.T) {
	uow := newFakeUnitOfWork()
	uow.edits.findAll = []*entity.EditRecord{
		{Id: uuid.New(), Mode: constant.EditModeFast, EditedURL: "http://x/1.png"},
	}
	uow.edits.count = 4
	svc := NewEditService(&fakeFactory{uow: uow}, &fakeRemovalProvider{}, nil, &fakeStore{}, nil, nopLogger{})

	res, err := svc.List(context.Background(), uuid.New(), &dto.HistoryListRequest{Search: "mode:fast portrait"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), res.Total)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "http://x/1.png", res.Items[0].EditedUrl)
}

func TestDeleteEdit(t *testing.T) {
	uow := newFakeUnitOfWork()
	svc := NewEditService(&fakeFactory{uow: uow}, &fakeRemovalProvider{}, nil, &fakeStore{}, nil, nopLogger{})

	t.Run("not found", func(t *testing.T) {
		err := svc.Delete(context.Background(), uuid.New(), uuid.New())
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("owned row deleted", func(t *testing.T) {
		rec := &entity.EditRecord{Id: uuid.New()}
		uow.edits.findOne = rec
		require.NoError(t, svc.Delete(context.Background(), uuid.New(), rec.Id))
		assert.Equal(t, []uuid.UUID{rec.Id}, uow.edits.deleted)
	})
}
