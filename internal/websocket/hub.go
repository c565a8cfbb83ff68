package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"ai-imagestudio-be/internal/model"
	"ai-imagestudio-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Hub struct {
	// Registered clients map: UserID -> List of Clients (multi-device)
	clients map[uuid.UUID][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance communication
	rdb *redis.Client

	// Dedicated Logger
	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	// Start Redis Subscriber if Redis is available
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.UserID]; ok {
				for i, c := range clients {
					if c == client {
						// Remove from slice
						h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.UserID]) == 0 {
					delete(h.clients, client.UserID)
					h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"user_id": client.UserID})
				}
			}
			h.mu.Unlock()
		}
	}
}

func marshalFrame(notification model.Notification) []byte {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "notification",
		"data": notification,
	})
	return data
}

// Broadcast sends a notification to ALL connected clients.
// With Redis attached, delivery goes through the cluster channel, which
// also feeds this instance's subscriber; delivering directly too would
// duplicate every frame.
func (h *Hub) Broadcast(notification model.Notification) {
	data := marshalFrame(notification)

	if h.rdb == nil {
		h.deliverToAll(data)
		return
	}

	payload := map[string]interface{}{
		"target_user_id": "*", // Wildcard for broadcast
		"message":        data,
	}
	jsonPayload, _ := json.Marshal(payload)
	h.rdb.Publish(context.Background(), "cluster_events", jsonPayload)
}

// Send (NotificationDelivery interface implementation)
func (h *Hub) Send(userID uuid.UUID, notification model.Notification) {
	data := marshalFrame(notification)

	if h.rdb == nil {
		h.deliverToUser(userID, data)
		return
	}

	payload := map[string]interface{}{
		"target_user_id": userID.String(),
		"message":        data,
	}
	jsonPayload, _ := json.Marshal(payload)
	h.rdb.Publish(context.Background(), "cluster_events", jsonPayload)
}

// Dead clients are collected and unregistered after the lock is released;
// the Run loop is the only place that closes a Send channel.
func (h *Hub) deliverToAll(data []byte) {
	var dead []*Client

	h.mu.RLock()
	for _, clients := range h.clients {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				dead = append(dead, client)
			}
		}
	}
	h.mu.RUnlock()

	for _, client := range dead {
		h.unregister <- client
	}
}

func (h *Hub) deliverToUser(userID uuid.UUID, data []byte) {
	var dead []*Client

	h.mu.RLock()
	for _, client := range h.clients[userID] {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client Send buffer full, dropping message", map[string]interface{}{"user_id": userID})
			dead = append(dead, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range dead {
		h.unregister <- client
	}
}

// subscribeToRedis listens on the shared cluster channel. Every instance
// subscribes; each delivers a frame only to the target users it holds
// locally, so a pod never needs to know where a user is connected.
func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "cluster_events")
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload struct {
			TargetUserID string          `json:"target_user_id"`
			Message      json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		if payload.TargetUserID == "*" {
			h.deliverToAll(payload.Message)
			continue
		}

		uid, err := uuid.Parse(payload.TargetUserID)
		if err != nil {
			continue
		}
		h.deliverToUser(uid, payload.Message)
	}
}
