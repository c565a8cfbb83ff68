package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-imagestudio-be/internal/constant"
	"ai-imagestudio-be/internal/dto"
	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/internal/pkg/logger"
	"ai-imagestudio-be/internal/repository/specification"
	"ai-imagestudio-be/internal/repository/unitofwork"

	"ai-imagestudio-be/pkg/events"
	pktNats "ai-imagestudio-be/pkg/nats"

	"github.com/google/uuid"
)

type IAdminService interface {
	GetAllUsers(ctx context.Context, req *dto.AdminUserListRequest) ([]*dto.UserListResponse, error)
	AdjustCredits(ctx context.Context, adminId uuid.UUID, req *dto.AdjustCreditsRequest) (*dto.AdjustCreditsResponse, error)
	GetSystemLogs(ctx context.Context, page, limit int, level string) ([]logger.LogEntry, error)
	GetLogDetail(ctx context.Context, id string) (*logger.LogEntry, error)
}

type adminService struct {
	uowFactory     unitofwork.RepositoryFactory
	logger         logger.ILogger
	eventPublisher *pktNats.Publisher
}

func NewAdminService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger, eventPublisher *pktNats.Publisher) IAdminService {
	return &adminService{
		uowFactory:     uowFactory,
		logger:         log,
		eventPublisher: eventPublisher,
	}
}

func (s *adminService) GetAllUsers(ctx context.Context, req *dto.AdminUserListRequest) ([]*dto.UserListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	limit := req.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	page := req.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	var users []*entity.User
	var err error

	if req.Search != "" {
		users, err = uow.UserRepository().SearchUsers(ctx, req.Search, limit, offset)
	} else {
		specs := []specification.Specification{}
		if req.Status != "" {
			specs = append(specs, specification.Filter("status", req.Status))
		}
		specs = append(specs,
			specification.OrderBy{Field: "created_at", Desc: true},
			specification.Pagination{Limit: limit, Offset: offset},
		)
		users, err = uow.UserRepository().FindAll(ctx, specs...)
	}
	if err != nil {
		return nil, err
	}

	res := make([]*dto.UserListResponse, 0, len(users))
	for _, user := range users {
		credits := 0
		if balance, berr := uow.CreditRepository().GetBalance(ctx, user.Id); berr == nil && balance != nil {
			credits = balance.Balance
		}

		res = append(res, &dto.UserListResponse{
			Id:        user.Id,
			Email:     user.Email,
			FullName:  user.FullName,
			Role:      string(user.Role),
			Status:    string(user.Status),
			Credits:   credits,
			CreatedAt: user.CreatedAt,
		})
	}
	return res, nil
}

// AdjustCredits applies a signed manual correction to a user's wallet and
// records who asked for it in the ledger notes. Negative amounts revoke.
func (s *adminService) AdjustCredits(ctx context.Context, adminId uuid.UUID, req *dto.AdjustCreditsRequest) (*dto.AdjustCreditsResponse, error) {
	if req.Amount == 0 {
		return nil, errors.New("amount must not be zero")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: req.UserId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	if err := ensureBalanceRow(ctx, uow, req.UserId); err != nil {
		return nil, err
	}

	notes := fmt.Sprintf("admin adjustment by %s", adminId)
	if req.Notes != "" {
		notes = fmt.Sprintf("%s: %s", notes, req.Notes)
	}
	if err := grantCredits(ctx, uow, req.UserId, req.Amount,
		entity.CreditTransactionAdjustment, constant.ServiceAdminAdjust, nil, notes); err != nil {
		return nil, err
	}

	balance, err := uow.CreditRepository().GetBalance(ctx, req.UserId)
	if err != nil {
		return nil, err
	}
	newBalance := 0
	if balance != nil {
		newBalance = balance.Balance
	}

	s.logger.Info("ADMIN", "Adjusted user credits", map[string]interface{}{
		"admin_id": adminId.String(),
		"user_id":  req.UserId.String(),
		"amount":   req.Amount,
		"balance":  newBalance,
	})

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "CREDITS_ADJUSTED",
			Data: map[string]interface{}{
				"user_id": req.UserId,
				"amount":  req.Amount,
				"balance": newBalance,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("ADMIN", "Failed to publish CREDITS_ADJUSTED event", map[string]interface{}{"error": err.Error()})
		}
	}

	return &dto.AdjustCreditsResponse{
		UserId:     req.UserId,
		NewBalance: newBalance,
	}, nil
}

func (s *adminService) GetSystemLogs(ctx context.Context, page, limit int, level string) ([]logger.LogEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	return s.logger.GetLogs(level, limit, offset)
}

func (s *adminService) GetLogDetail(ctx context.Context, id string) (*logger.LogEntry, error) {
	return s.logger.GetLogById(id)
}
