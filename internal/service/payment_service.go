// FILE: internal/service/payment_service.go
package service

import (
	"context"
	"crypto/sha512"
	"errors"
	"fmt"
	"os"
	"time"

	"ai-imagestudio-be/internal/constant"
	"ai-imagestudio-be/internal/dto"
	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/internal/repository/specification"
	"ai-imagestudio-be/internal/repository/unitofwork"

	"ai-imagestudio-be/pkg/events"
	pktNats "ai-imagestudio-be/pkg/nats"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

type IPaymentService interface {
	Checkout(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error
}

type paymentService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
}

func NewPaymentService(uowFactory unitofwork.RepositoryFactory, eventPublisher *pktNats.Publisher) IPaymentService {
	return &paymentService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
	}
}

// Checkout creates a pending order for a credit pack and asks Midtrans for a
// Snap token. The order commits before the gateway call so the webhook always
// finds it, whichever arrives first.
func (s *paymentService) Checkout(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	pack, err := uow.PackRepository().FindOne(ctx, specification.ByID{ID: req.PackId})
	if err != nil {
		return nil, err
	}
	if pack == nil || !pack.IsActive {
		return nil, errors.New("credit pack not found")
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	now := time.Now()
	order := &entity.CreditOrder{
		Id:        uuid.New(),
		OrderId:   fmt.Sprintf("IMG-%d-%s", now.Unix(), uuid.New().String()[:8]),
		UserId:    userId,
		PackId:    pack.Id,
		Amount:    pack.Price,
		Credits:   pack.Credits,
		Status:    entity.OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.OrderRepository().Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %v", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	// External gateway call stays outside the DB transaction.
	var sClient snap.Client
	serverKey := os.Getenv("MIDTRANS_SERVER_KEY")
	env := midtrans.Sandbox
	if os.Getenv("MIDTRANS_IS_PRODUCTION") == "true" {
		env = midtrans.Production
	}
	sClient.New(serverKey, env)

	frontendURL := os.Getenv("FRONTEND_URL")
	finishRedirectURL := fmt.Sprintf("%s/credits?payment=success", frontendURL)

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  order.OrderId,
			GrossAmt: pack.Price,
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		Callbacks: &snap.Callbacks{
			Finish: finishRedirectURL,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: user.FullName,
			Email: user.Email,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    pack.Id.String(),
				Price: pack.Price,
				Qty:   1,
				Name:  pack.Name,
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	snapResp, midErr := sClient.CreateTransaction(snapReq)
	if midErr != nil {
		return nil, fmt.Errorf("midtrans error: %v", midErr.GetMessage())
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "ORDER_CREATED",
			Data: map[string]interface{}{
				"user_id":   userId,
				"full_name": user.FullName,
				"pack_name": pack.Name,
				"order_id":  order.OrderId,
				"amount":    pack.Price,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish ORDER_CREATED event: %v\n", err)
		}
	}

	return &dto.CheckoutResponse{
		OrderId:         order.OrderId,
		SnapToken:       snapResp.Token,
		SnapRedirectUrl: snapResp.RedirectURL,
	}, nil
}

// HandleNotification processes the Midtrans callback. The pending->terminal
// transition is guarded in SQL, so a replayed callback grants credits at most
// once no matter how many times the gateway retries.
func (s *paymentService) HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error {
	fmt.Printf("\n[WEBHOOK] ========== Processing Notification ==========\n")
	fmt.Printf("[WEBHOOK] OrderId: %s | Status: %s\n", req.OrderId, req.TransactionStatus)

	serverKey := os.Getenv("MIDTRANS_SERVER_KEY")
	if serverKey == "" {
		fmt.Println("[WEBHOOK ERROR] MIDTRANS_SERVER_KEY not configured")
		return fmt.Errorf("server configuration error")
	}

	// Midtrans signature = SHA512(order_id + status_code + gross_amount + server_key)
	signatureInput := req.OrderId + req.StatusCode + req.GrossAmount + serverKey
	expectedSignature := fmt.Sprintf("%x", sha512.Sum512([]byte(signatureInput)))

	if req.SignatureKey != expectedSignature {
		fmt.Printf("[WEBHOOK ERROR] Signature mismatch for OrderId=%s\n", req.OrderId)
		return fmt.Errorf("invalid signature")
	}
	fmt.Printf("[WEBHOOK] Signature validated successfully\n")

	var newStatus entity.OrderStatus
	switch req.TransactionStatus {
	case "capture", "settlement":
		if req.TransactionStatus == "capture" && req.FraudStatus == "challenge" {
			fmt.Printf("[WEBHOOK] Capture under fraud review - no action yet\n")
			return nil
		}
		newStatus = entity.OrderStatusPaid
	case "deny", "cancel", "expire":
		newStatus = entity.OrderStatusFailed
	case "pending":
		fmt.Printf("[WEBHOOK] Payment PENDING - no action needed\n")
		return nil
	default:
		fmt.Printf("[WEBHOOK] Unknown status '%s' - no action taken\n", req.TransactionStatus)
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	order, err := uow.OrderRepository().FindOne(ctx, specification.ByOrderId{OrderId: req.OrderId})
	if err != nil {
		fmt.Printf("[WEBHOOK ERROR] Database error finding order: %v\n", err)
		return err
	}
	if order == nil {
		fmt.Printf("[WEBHOOK ERROR] Order not found: %s\n", req.OrderId)
		return fmt.Errorf("order not found")
	}

	if err := uow.Begin(ctx); err != nil {
		fmt.Printf("[WEBHOOK ERROR] Failed to begin transaction: %v\n", err)
		return err
	}
	defer uow.Rollback()

	transitioned, err := uow.OrderRepository().UpdateStatusIfPending(ctx, req.OrderId, newStatus)
	if err != nil {
		fmt.Printf("[WEBHOOK ERROR] Failed to update order status: %v\n", err)
		return err
	}
	if !transitioned {
		// Replay or a racing callback already settled this order.
		fmt.Printf("[WEBHOOK] Order %s already settled, skipping\n", req.OrderId)
		return nil
	}
	fmt.Printf("[WEBHOOK] State transition: %s -> %s\n", entity.OrderStatusPending, newStatus)

	if newStatus == entity.OrderStatusPaid {
		// Grant inside the same transaction as the status flip: either the
		// order settles and the credits land, or neither happens.
		if err := ensureBalanceRow(ctx, uow, order.UserId); err != nil {
			fmt.Printf("[WEBHOOK ERROR] Failed to ensure balance row: %v\n", err)
			return err
		}
		if err := uow.CreditRepository().AddCredits(ctx, order.UserId, order.Credits); err != nil {
			fmt.Printf("[WEBHOOK ERROR] Failed to add credits: %v\n", err)
			return err
		}

		serviceUsed := constant.ServiceCreditPack
		notes := fmt.Sprintf("credit pack purchase (%s)", req.OrderId)
		ledgerRow := entity.CreditTransaction{
			Id:              uuid.New(),
			UserId:          order.UserId,
			TransactionType: entity.CreditTransactionGrant,
			Amount:          order.Credits,
			ServiceUsed:     &serviceUsed,
			RelatedId:       &order.Id,
			Notes:           &notes,
			CreatedAt:       time.Now(),
		}
		if err := uow.CreditRepository().CreateTransaction(ctx, &ledgerRow); err != nil {
			fmt.Printf("[WEBHOOK ERROR] Failed to write ledger row: %v\n", err)
			return err
		}
	}

	if err := uow.Commit(); err != nil {
		fmt.Printf("[WEBHOOK ERROR] Failed to commit transaction: %v\n", err)
		return err
	}

	if newStatus == entity.OrderStatusPaid && s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "CREDITS_GRANTED",
			Data: map[string]interface{}{
				"user_id":  order.UserId,
				"credits":  order.Credits,
				"order_id": order.OrderId,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish CREDITS_GRANTED event: %v\n", err)
		}
	}

	fmt.Printf("[WEBHOOK] Successfully processed order %s\n", req.OrderId)
	fmt.Printf("[WEBHOOK] ===========================================\n\n")
	return nil
}
