package feed

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// HandlerConfig holds configuration options for the WebSocket handler.
type HandlerConfig struct {
	Logger *log.Logger
}

// Handler upgrades HTTP requests to WebSocket subscriptions on a hub.
type Handler struct {
	hub      *Hub
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a WebSocket handler bound to the given hub.
func NewHandler(hub *Hub, cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	return &Handler{
		hub:      hub,
		logger:   logger,
		upgrader: upgrader,
	}
}

// Handle upgrades the request, sends the current snapshot, and then answers
// pings until the client goes away.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("upgrade failed: %v", err)
		return
	}

	sub, initial := h.hub.Subscribe(conn)
	defer h.hub.Unsubscribe(sub)

	if initial != nil {
		if err := sub.write(initial); err != nil {
			return
		}
	}

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			h.logger.Printf("discarding malformed message from subscriber %d: %v", sub.id, err)
			continue
		}

		if msg.Type == "ping" {
			pong := PongMessage{
				Type:       "pong",
				SentAt:     msg.SentAt,
				ServerTime: time.Now().UnixMilli(),
			}
			data, err := json.Marshal(pong)
			if err != nil {
				continue
			}
			if err := sub.write(data); err != nil {
				return
			}
		}
	}
}
