package service

import (
	"context"
	"testing"

	"ai-imagestudio-be/internal/dto"
	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	nopLogger
	entries    []logger.LogEntry
	byId       *logger.LogEntry
	lastLevel  string
	lastLimit  int
	lastOffset int
}

func (l *recordingLogger) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	l.lastLevel, l.lastLimit, l.lastOffset = level, limit, offset
	return l.entries, nil
}

func (l *recordingLogger) GetLogById(id string) (*logger.LogEntry, error) {
	return l.byId, nil
}

func TestGetAllUsers(t *testing.T) {
	t.Run("list with balances", func(t *testing.T) {
		uow := newFakeUnitOfWork()
		uow.users.findAll = []*entity.User{
			{Id: uuid.New(), Email: "a@example.com", FullName: "Alice", Role: "user", Status: "active"},
			{Id: uuid.New(), Email: "b@example.com", FullName: "Bob", Role: "admin", Status: "active"},
		}
		uow.credits.balance = &entity.CreditBalance{Balance: 7}
		svc := NewAdminService(&fakeFactory{uow: uow}, nopLogger{}, nil)

		res, err := svc.GetAllUsers(context.Background(), &dto.AdminUserListRequest{})
		require.NoError(t, err)
		require.Len(t, res, 2)
		assert.Equal(t, "a@example.com", res[0].Email)
		assert.Equal(t, "user", res[0].Role)
		assert.Equal(t, 7, res[0].Credits)
		assert.Equal(t, "admin", res[1].Role)
		assert.Empty(t, uow.users.searchQueries)
	})

	t.Run("search routes to trigram lookup", func(t *testing.T) {
		uow := newFakeUnitOfWork()
		uow.users.searchResults = []*entity.User{
			{Id: uuid.New(), Email: "carol@example.com", FullName: "Carol"},
		}
		svc := NewAdminService(&fakeFactory{uow: uow}, nopLogger{}, nil)

		res, err := svc.GetAllUsers(context.Background(), &dto.AdminUserListRequest{Search: "carol"})
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, []string{"carol"}, uow.users.searchQueries)
	})

	t.Run("missing balance row reads as zero", func(t *testing.T) {
		uow := newFakeUnitOfWork()
		uow.users.findAll = []*entity.User{{Id: uuid.New(), Email: "d@example.com"}}
		svc := NewAdminService(&fakeFactory{uow: uow}, nopLogger{}, nil)

		res, err := svc.GetAllUsers(context.Background(), &dto.AdminUserListRequest{})
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, 0, res[0].Credits)
	})
}

func TestAdjustCredits(t *testing.T) {
	adminId := uuid.New()

	t.Run("grant", func(t *testing.T) {
		uow := newFakeUnitOfWork()
		userId := uuid.New()
		uow.users.findOne = &entity.User{Id: userId, Email: "a@example.com"}
		uow.credits.balance = &entity.CreditBalance{Balance: 10}
		svc := NewAdminService(&fakeFactory{uow: uow}, nopLogger{}, nil)

		res, err := svc.AdjustCredits(context.Background(), adminId, &dto.AdjustCreditsRequest{
			UserId: userId,
			Amount: 5,
			Notes:  "support goodwill",
		})
		require.NoError(t, err)

		assert.Equal(t, []int{5}, uow.credits.addCalls)
		require.Len(t, uow.credits.createdTx, 1)
		tx := uow.credits.createdTx[0]
		assert.Equal(t, entity.CreditTransactionAdjustment, tx.TransactionType)
		assert.Equal(t, 5, tx.Amount)
		require.NotNil(t, tx.Notes)
		assert.Contains(t, *tx.Notes, adminId.String())
		assert.Contains(t, *tx.Notes, "support goodwill")
		assert.Equal(t, userId, res.UserId)
		assert.Equal(t, 15, res.NewBalance)
	})

	t.Run("revoke may drive the balance negative", func(t *testing.T) {
		uow := newFakeUnitOfWork()
		userId := uuid.New()
		uow.users.findOne = &entity.User{Id: userId}
		uow.credits.balance = &entity.CreditBalance{Balance: 2}
		svc := NewAdminService(&fakeFactory{uow: uow}, nopLogger{}, nil)

		res, err := svc.AdjustCredits(context.Background(), adminId, &dto.AdjustCreditsRequest{
			UserId: userId,
			Amount: -5,
		})
		require.NoError(t, err)
		assert.Equal(t, []int{-5}, uow.credits.addCalls)
		assert.Equal(t, -3, res.NewBalance)
	})

	t.Run("zero amount rejected", func(t *testing.T) {
		uow := newFakeUnitOfWork()
		svc := NewAdminService(&fakeFactory{uow: uow}, nopLogger{}, nil)

		_, err := svc.AdjustCredits(context.Background(), adminId, &dto.AdjustCreditsRequest{
			UserId: uuid.New(),
			Amount: 0,
		})
		require.EqualError(t, err, "amount must not be zero")
	})

	t.Run("unknown user rejected", func(t *testing.T) {
		uow := newFakeUnitOfWork()
		svc := NewAdminService(&fakeFactory{uow: uow}, nopLogger{}, nil)

		_, err := svc.AdjustCredits(context.Background(), adminId, &dto.AdjustCreditsRequest{
			UserId: uuid.New(),
			Amount: 5,
		})
		require.EqualError(t, err, "user not found")
		assert.Empty(t, uow.credits.addCalls)
	})
}

func TestGetSystemLogs(t *testing.T) {
	log := &recordingLogger{entries: []logger.LogEntry{{Id: "1", Level: "error", Message: "boom"}}}
	svc := NewAdminService(&fakeFactory{uow: newFakeUnitOfWork()}, log, nil)

	entries, err := svc.GetSystemLogs(context.Background(), 3, 10, "error")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "error", log.lastLevel)
	assert.Equal(t, 10, log.lastLimit)
	assert.Equal(t, 20, log.lastOffset, "page 3 with limit 10 starts at row 20")

	_, err = svc.GetSystemLogs(context.Background(), 0, 0, "")
	require.NoError(t, err)
	assert.Equal(t, 50, log.lastLimit)
	assert.Equal(t, 0, log.lastOffset)
}

func TestGetLogDetail(t *testing.T) {
	log := &recordingLogger{byId: &logger.LogEntry{Id: "abc", Message: "settle rejected"}}
	svc := NewAdminService(&fakeFactory{uow: newFakeUnitOfWork()}, log, nil)

	entry, err := svc.GetLogDetail(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", entry.Id)
}
