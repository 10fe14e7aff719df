package feed

import (
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// Hub owns all live subscribers and the latest published snapshot.
type Hub struct {
	mu          sync.Mutex
	subscribers map[uint64]*subscriber
	current     []byte
	nextID      atomic.Uint64
	logger      *log.Logger
}

type subscriber struct {
	id   uint64
	conn *websocket.Conn
	mu   sync.Mutex
}

// write sends one message on the subscriber's connection.
// The per-subscriber mutex keeps broadcasts and pong replies from interleaving.
func (s *subscriber) write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// NewHub creates a hub with no subscribers and no snapshot.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		subscribers: make(map[uint64]*subscriber),
		logger:      logger,
	}
}

// Publish stores the snapshot as the current state and broadcasts it to every
// subscriber.
func (h *Hub) Publish(snap *Snapshot) error {
	msg := SnapshotMessage{
		Type:       "snapshot",
		Snapshot:   snap,
		ServerTime: time.Now().UnixMilli(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.current = data
	h.mu.Unlock()

	h.broadcast(data)
	return nil
}

// Subscribe registers a connection and returns it along with the current
// snapshot, which is nil when nothing has been published yet.
func (h *Hub) Subscribe(conn *websocket.Conn) (*subscriber, []byte) {
	sub := &subscriber{id: h.nextID.Add(1), conn: conn}

	h.mu.Lock()
	h.subscribers[sub.id] = sub
	initial := h.current
	h.mu.Unlock()

	return sub, initial
}

// Unsubscribe removes a subscriber and closes its connection.
func (h *Hub) Unsubscribe(sub *subscriber) {
	h.mu.Lock()
	_, ok := h.subscribers[sub.id]
	if ok {
		delete(h.subscribers, sub.id)
	}
	h.mu.Unlock()

	if ok {
		sub.conn.Close()
	}
}

// SubscriberCount returns the number of live subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// CurrentSnapshot returns the last published snapshot message, or nil.
func (h *Hub) CurrentSnapshot() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// broadcast sends data to every subscriber, dropping the ones that fail.
func (h *Hub) broadcast(data []byte) {
	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subscribers))
	for _, sub := range h.subscribers {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		if err := sub.write(data); err != nil {
			h.logger.Printf("failed to send snapshot to subscriber %d: %v", sub.id, err)
			h.Unsubscribe(sub)
		}
	}
}
