package service

import (
	"context"
	"crypto/sha512"
	"fmt"
	"testing"

	"ai-imagestudio-be/internal/dto"
	"ai-imagestudio-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func midtransSignature(orderId, statusCode, grossAmount, serverKey string) string {
	return fmt.Sprintf("%x", sha512.Sum512([]byte(orderId+statusCode+grossAmount+serverKey)))
}

func webhookRequest(orderId, status, serverKey string) *dto.MidtransWebhookRequest {
	return &dto.MidtransWebhookRequest{
		OrderId:           orderId,
		TransactionStatus: status,
		StatusCode:        "200",
		GrossAmount:       "85000.00",
		SignatureKey:      midtransSignature(orderId, "200", "85000.00", serverKey),
	}
}

func pendingOrder() *entity.CreditOrder {
	return &entity.CreditOrder{
		Id:      uuid.New(),
		OrderId: "IMG-1756000000-abcd1234",
		UserId:  uuid.New(),
		Credits: 200,
		Amount:  85000,
		Status:  entity.OrderStatusPending,
	}
}

func TestCheckoutRejectsUnknownPack(t *testing.T) {
	uow := newFakeUnitOfWork()
	svc := NewPaymentService(&fakeFactory{uow: uow}, nil)

	_, err := svc.Checkout(context.Background(), uuid.New(), &dto.CheckoutRequest{PackId: uuid.New()})
	require.EqualError(t, err, "credit pack not found")
	assert.Empty(t, uow.orders.created)
}

func TestCheckoutRejectsInactivePack(t *testing.T) {
	uow := newFakeUnitOfWork()
	uow.packs.findOne = &entity.CreditPack{Id: uuid.New(), Name: "Creator Pack", Credits: 200, Price: 85000, IsActive: false}
	svc := NewPaymentService(&fakeFactory{uow: uow}, nil)

	_, err := svc.Checkout(context.Background(), uuid.New(), &dto.CheckoutRequest{PackId: uuid.New()})
	require.EqualError(t, err, "credit pack not found")
}

func TestCheckoutRejectsUnknownUser(t *testing.T) {
	uow := newFakeUnitOfWork()
	uow.packs.findOne = &entity.CreditPack{Id: uuid.New(), Name: "Creator Pack", Credits: 200, Price: 85000, IsActive: true}
	svc := NewPaymentService(&fakeFactory{uow: uow}, nil)

	_, err := svc.Checkout(context.Background(), uuid.New(), &dto.CheckoutRequest{PackId: uuid.New()})
	require.EqualError(t, err, "user not found")
	assert.Empty(t, uow.orders.created, "no order may exist before the buyer is known")
}

func TestWebhookRejectsMissingServerKey(t *testing.T) {
	t.Setenv("MIDTRANS_SERVER_KEY", "")
	uow := newFakeUnitOfWork()
	svc := NewPaymentService(&fakeFactory{uow: uow}, nil)

	err := svc.HandleNotification(context.Background(), webhookRequest("IMG-1-x", "settlement", "whatever"))
	require.EqualError(t, err, "server configuration error")
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	t.Setenv("MIDTRANS_SERVER_KEY", "test-server-key")
	uow := newFakeUnitOfWork()
	svc := NewPaymentService(&fakeFactory{uow: uow}, nil)

	req := webhookRequest("IMG-1-x", "settlement", "test-server-key")
	req.SignatureKey = "forged"
	err := svc.HandleNotification(context.Background(), req)
	require.EqualError(t, err, "invalid signature")
	assert.Zero(t, uow.begins)
}

func TestWebhookSettlementGrantsOnce(t *testing.T) {
	t.Setenv("MIDTRANS_SERVER_KEY", "test-server-key")
	uow := newFakeUnitOfWork()
	order := pendingOrder()
	uow.orders.findOne = order
	svc := NewPaymentService(&fakeFactory{uow: uow}, nil)

	err := svc.HandleNotification(context.Background(), webhookRequest(order.OrderId, "settlement", "test-server-key"))
	require.NoError(t, err)

	assert.Equal(t, []entity.OrderStatus{entity.OrderStatusPaid}, uow.orders.transitions)
	assert.Equal(t, []int{200}, uow.credits.addCalls)

	// First webhook for this user also seeds the balance row.
	require.Len(t, uow.credits.createdBalances, 1)
	assert.Equal(t, order.UserId, uow.credits.createdBalances[0].UserId)

	require.Len(t, uow.credits.createdTx, 1)
	tx := uow.credits.createdTx[0]
	assert.Equal(t, entity.CreditTransactionGrant, tx.TransactionType)
	assert.Equal(t, 200, tx.Amount)
	require.NotNil(t, tx.RelatedId)
	assert.Equal(t, order.Id, *tx.RelatedId)
	require.NotNil(t, tx.Notes)
	assert.Contains(t, *tx.Notes, order.OrderId)
	assert.Equal(t, 1, uow.commits)
}

func TestWebhookReplayIsNoOp(t *testing.T) {
	t.Setenv("MIDTRANS_SERVER_KEY", "test-server-key")
	uow := newFakeUnitOfWork()
	order := pendingOrder()
	order.Status = entity.OrderStatusPaid
	uow.orders.findOne = order
	uow.orders.transition = false
	svc := NewPaymentService(&fakeFactory{uow: uow}, nil)

	err := svc.HandleNotification(context.Background(), webhookRequest(order.OrderId, "settlement", "test-server-key"))
	require.NoError(t, err)
	assert.Empty(t, uow.credits.addCalls, "replayed callback must not grant twice")
	assert.Empty(t, uow.credits.createdTx)
	assert.Zero(t, uow.commits)
}

func TestWebhookFailureStatusSkipsGrant(t *testing.T) {
	t.Setenv("MIDTRANS_SERVER_KEY", "test-server-key")
	uow := newFakeUnitOfWork()
	order := pendingOrder()
	uow.orders.findOne = order
	svc := NewPaymentService(&fakeFactory{uow: uow}, nil)

	err := svc.HandleNotification(context.Background(), webhookRequest(order.OrderId, "deny", "test-server-key"))
	require.NoError(t, err)
	assert.Equal(t, []entity.OrderStatus{entity.OrderStatusFailed}, uow.orders.transitions)
	assert.Empty(t, uow.credits.addCalls)
	assert.Equal(t, 1, uow.commits)
}

func TestWebhookNonTerminalStatusesAreIgnored(t *testing.T) {
	tests := []struct {
		name   string
		status string
		fraud  string
	}{
		{name: "pending", status: "pending"},
		{name: "capture under fraud review", status: "capture", fraud: "challenge"},
		{name: "unknown status", status: "refund"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("MIDTRANS_SERVER_KEY", "test-server-key")
			uow := newFakeUnitOfWork()
			svc := NewPaymentService(&fakeFactory{uow: uow}, nil)

			req := webhookRequest("IMG-1-x", tc.status, "test-server-key")
			req.FraudStatus = tc.fraud
			require.NoError(t, svc.HandleNotification(context.Background(), req))
			assert.Zero(t, uow.begins)
			assert.Empty(t, uow.orders.transitions)
		})
	}
}

func TestWebhookOrderNotFound(t *testing.T) {
	t.Setenv("MIDTRANS_SERVER_KEY", "test-server-key")
	uow := newFakeUnitOfWork()
	svc := NewPaymentService(&fakeFactory{uow: uow}, nil)

	err := svc.HandleNotification(context.Background(), webhookRequest("IMG-unknown", "settlement", "test-server-key"))
	require.EqualError(t, err, "order not found")
}
