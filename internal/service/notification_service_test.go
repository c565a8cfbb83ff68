package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"ai-imagestudio-be/internal/model"
	"ai-imagestudio-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifRepo struct {
	types  map[string]*model.NotificationType
	admins []model.User

	created   []*model.Notification
	createErr error

	rows   []model.Notification
	total  int64
	unread int64

	markedId     uuid.UUID
	markedUserId uuid.UUID
	markedAllFor []uuid.UUID
}

func (r *fakeNotifRepo) CreateNotification(ctx context.Context, n *model.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, n)
	return nil
}

func (r *fakeNotifRepo) GetNotificationsByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	return r.rows, r.total, nil
}

func (r *fakeNotifRepo) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.unread, nil
}

func (r *fakeNotifRepo) MarkAsRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	r.markedId = notificationID
	r.markedUserId = userID
	return nil
}

func (r *fakeNotifRepo) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	r.markedAllFor = append(r.markedAllFor, userID)
	return nil
}

func (r *fakeNotifRepo) GetNotificationTypeByCode(ctx context.Context, code string) (*model.NotificationType, error) {
	if t, ok := r.types[code]; ok {
		return t, nil
	}
	return nil, errors.New("record not found")
}

func (r *fakeNotifRepo) GetUsersByRole(ctx context.Context, role string) ([]model.User, error) {
	return r.admins, nil
}

type fakeDelivery struct {
	sentTo    []uuid.UUID
	sent      []model.Notification
	broadcast []model.Notification
}

func (d *fakeDelivery) Send(userID uuid.UUID, n model.Notification) {
	d.sentTo = append(d.sentTo, userID)
	d.sent = append(d.sent, n)
}

func (d *fakeDelivery) Broadcast(n model.Notification) {
	d.broadcast = append(d.broadcast, n)
}

func selfImageType() *model.NotificationType {
	return &model.NotificationType{
		Code:        "IMAGE_GENERATED",
		DisplayName: "Image Ready",
		Template:    `Your {style} image is ready: "{prompt}"`,
		TargetType:  "SELF",
		IsActive:    true,
	}
}

func notifEvent(eventType string, data map[string]interface{}) events.BaseEvent {
	return events.BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
}

func TestHandleEventSelfTarget(t *testing.T) {
	repo := &fakeNotifRepo{types: map[string]*model.NotificationType{"IMAGE_GENERATED": selfImageType()}}
	delivery := &fakeDelivery{}
	svc := NewNotificationService(repo, nil, delivery, nopLogger{})

	userId := uuid.New()
	err := svc.handleEvent(context.Background(), notifEvent("IMAGE_GENERATED", map[string]interface{}{
		"user_id": userId.String(),
		"style":   "anime",
		"prompt":  "a fox",
	}))
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	n := repo.created[0]
	assert.Equal(t, userId, n.UserID)
	assert.Equal(t, "IMAGE_GENERATED", n.TypeCode)
	assert.Equal(t, "Image Ready", n.Title)
	assert.Equal(t, `Your anime image is ready: "a fox"`, n.Message)
	assert.False(t, n.IsRead)

	require.Equal(t, []uuid.UUID{userId}, delivery.sentTo)
	assert.Empty(t, delivery.broadcast)
}

func TestHandleEventStripsSubjectPrefix(t *testing.T) {
	repo := &fakeNotifRepo{types: map[string]*model.NotificationType{"IMAGE_GENERATED": selfImageType()}}
	svc := NewNotificationService(repo, nil, &fakeDelivery{}, nopLogger{})

	err := svc.handleEvent(context.Background(), notifEvent("events.IMAGE_GENERATED", map[string]interface{}{
		"user_id": uuid.New().String(),
		"style":   "auto",
		"prompt":  "a fox",
	}))
	require.NoError(t, err)
	assert.Len(t, repo.created, 1)
}

func TestHandleEventUnknownTypeIsSwallowed(t *testing.T) {
	repo := &fakeNotifRepo{types: map[string]*model.NotificationType{}}
	delivery := &fakeDelivery{}
	svc := NewNotificationService(repo, nil, delivery, nopLogger{})

	// Unknown codes must not bounce the message back to the bus for retry.
	err := svc.handleEvent(context.Background(), notifEvent("SOMETHING_NEW", map[string]interface{}{}))
	require.NoError(t, err)
	assert.Empty(t, repo.created)
	assert.Empty(t, delivery.sent)
}

func TestHandleEventInactiveType(t *testing.T) {
	cfg := selfImageType()
	cfg.IsActive = false
	repo := &fakeNotifRepo{types: map[string]*model.NotificationType{"IMAGE_GENERATED": cfg}}
	delivery := &fakeDelivery{}
	svc := NewNotificationService(repo, nil, delivery, nopLogger{})

	err := svc.handleEvent(context.Background(), notifEvent("IMAGE_GENERATED", map[string]interface{}{
		"user_id": uuid.New().String(),
	}))
	require.NoError(t, err)
	assert.Empty(t, repo.created)
	assert.Empty(t, delivery.sent)
}

func TestHandleEventSelfWithoutUserId(t *testing.T) {
	repo := &fakeNotifRepo{types: map[string]*model.NotificationType{"IMAGE_GENERATED": selfImageType()}}
	delivery := &fakeDelivery{}
	svc := NewNotificationService(repo, nil, delivery, nopLogger{})

	err := svc.handleEvent(context.Background(), notifEvent("IMAGE_GENERATED", map[string]interface{}{
		"style": "anime",
	}))
	require.NoError(t, err)
	assert.Empty(t, repo.created)
}

func TestHandleEventAdminFanout(t *testing.T) {
	adminA, adminB := uuid.New(), uuid.New()
	repo := &fakeNotifRepo{
		types: map[string]*model.NotificationType{
			"USER_DELETED": {
				Code:        "USER_DELETED",
				DisplayName: "Account Deleted",
				Template:    "User deleted account: {user_id}",
				TargetType:  "ADMIN",
				IsActive:    true,
			},
		},
		admins: []model.User{{Id: adminA}, {Id: adminB}},
	}
	delivery := &fakeDelivery{}
	svc := NewNotificationService(repo, nil, delivery, nopLogger{})

	err := svc.handleEvent(context.Background(), notifEvent("USER_DELETED", map[string]interface{}{
		"user_id": uuid.New().String(),
	}))
	require.NoError(t, err)

	require.Len(t, repo.created, 2)
	assert.ElementsMatch(t, []uuid.UUID{adminA, adminB}, []uuid.UUID{repo.created[0].UserID, repo.created[1].UserID})
	assert.Len(t, delivery.sent, 2)
}

func TestHandleEventOrderCreatedSocialProof(t *testing.T) {
	adminId := uuid.New()
	repo := &fakeNotifRepo{
		types: map[string]*model.NotificationType{
			"ORDER_CREATED": {
				Code:        "ORDER_CREATED",
				DisplayName: "New Order",
				Template:    "New order {order_id}: {pack_name} for {full_name}",
				TargetType:  "ADMIN",
				IsActive:    true,
			},
		},
		admins: []model.User{{Id: adminId}},
	}
	delivery := &fakeDelivery{}
	svc := NewNotificationService(repo, nil, delivery, nopLogger{})

	err := svc.handleEvent(context.Background(), notifEvent("ORDER_CREATED", map[string]interface{}{
		"user_id":   uuid.New().String(),
		"full_name": "Dina",
		"pack_name": "Creator Pack",
		"order_id":  "IMG-1-x",
		"amount":    85000,
	}))
	require.NoError(t, err)

	// The configured admin notification is persisted and delivered.
	require.Len(t, repo.created, 1)
	assert.Equal(t, adminId, repo.created[0].UserID)

	// The social proof ticker goes out as a pure broadcast, never persisted.
	require.Len(t, delivery.broadcast, 1)
	proof := delivery.broadcast[0]
	assert.Equal(t, "SOCIAL_PROOF", proof.TypeCode)
	assert.Equal(t, uuid.Nil, proof.UserID)
	assert.Equal(t, "Dina just picked up the Creator Pack pack!", proof.Message)
}

func TestHandleEventBroadcastIsPushOnly(t *testing.T) {
	repo := &fakeNotifRepo{
		types: map[string]*model.NotificationType{
			"SYSTEM_BROADCAST": {
				Code:        "SYSTEM_BROADCAST",
				DisplayName: "Announcement",
				Template:    "{message}",
				TargetType:  "BROADCAST",
				IsActive:    true,
			},
		},
	}
	delivery := &fakeDelivery{}
	svc := NewNotificationService(repo, nil, delivery, nopLogger{})

	err := svc.handleEvent(context.Background(), notifEvent("SYSTEM_BROADCAST", map[string]interface{}{
		"title":   "Maintenance",
		"message": "Back in 10 minutes",
	}))
	require.NoError(t, err)

	assert.Empty(t, repo.created, "broadcasts are not fanned into inbox rows")
	require.Len(t, delivery.broadcast, 1)
	assert.Equal(t, "Back in 10 minutes", delivery.broadcast[0].Message)
}

func TestBuildNotificationActionURL(t *testing.T) {
	svc := NewNotificationService(&fakeNotifRepo{}, nil, nil, nopLogger{})
	entityId := uuid.New()

	notif := svc.buildNotification(uuid.New(), selfImageType(), notifEvent("IMAGE_GENERATED", map[string]interface{}{
		"entity_type": "generation",
		"entity_id":   entityId.String(),
		"style":       "anime",
		"prompt":      "a fox",
	}))

	var meta map[string]interface{}
	require.NoError(t, json.Unmarshal(notif.Metadata, &meta))
	assert.Equal(t, "/generations/"+entityId.String(), meta["action_url"])
	assert.Equal(t, "generation", notif.EntityType)
	require.NotNil(t, notif.EntityID)
	assert.Equal(t, entityId, *notif.EntityID)
}

func TestMarkAsReadIsOwnerScoped(t *testing.T) {
	repo := &fakeNotifRepo{}
	svc := NewNotificationService(repo, nil, nil, nopLogger{})

	id, owner := uuid.New(), uuid.New()
	require.NoError(t, svc.MarkAsRead(context.Background(), id, owner))
	assert.Equal(t, id, repo.markedId)
	assert.Equal(t, owner, repo.markedUserId)
}
