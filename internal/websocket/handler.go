package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs wires an upgraded connection into the hub and blocks until the
// client disconnects. Fiber owns the connection only while this handler
// runs, so the read loop stays on this goroutine and just the write loop
// gets its own.
func ServeWs(hub *Hub, c *websocket.Conn, userID uuid.UUID) {
	client := &Client{Hub: hub, Conn: c, UserID: userID, Send: make(chan []byte, 256)}
	hub.register <- client

	go client.writePump()
	client.readPump()
}
