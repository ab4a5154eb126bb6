package ws

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/prasertsri/fleet-radar/internal/models"
	"github.com/rs/zerolog"
)

// updateEvent is the wire envelope pushed to websocket subscribers.
type updateEvent struct {
	Type string `json:"type"`
	models.FleetSnapshot
}

const eventVehiclesUpdate = "vehicles_update"

// client wraps a connection with a write lock, since the broadcast goroutine
// and the on-connect replay may write concurrently.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub manages websocket subscribers and broadcasts fleet snapshots to them.
// Subscriber churn is safe against concurrent publishing.
type Hub struct {
	clients  cmap.ConcurrentMap[string, *client]
	upgrader websocket.Upgrader
	logger   zerolog.Logger

	mu   sync.RWMutex
	last *models.FleetSnapshot
}

// NewHub creates an empty hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients: cmap.New[*client](),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
}

// HandleConnection upgrades an HTTP request to a websocket subscription and
// replays the most recent snapshot so new clients render immediately.
func (h *Hub) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}

	id := uuid.New().String()
	c := &client{conn: conn}
	h.clients.Set(id, c)
	h.logger.Info().Str("client_id", id).Int("subscribers", h.clients.Count()).Msg("Websocket client connected")

	go h.readPump(id, c)

	if snapshot := h.LastSnapshot(); snapshot != nil {
		if data, err := json.Marshal(updateEvent{Type: eventVehiclesUpdate, FleetSnapshot: *snapshot}); err == nil {
			_ = c.send(data)
		}
	}
}

// Publish pushes the snapshot to every connected subscriber. Clients whose
// write fails are dropped; no delivery is retried.
func (h *Hub) Publish(snapshot models.FleetSnapshot) {
	h.mu.Lock()
	h.last = &snapshot
	h.mu.Unlock()

	data, err := json.Marshal(updateEvent{Type: eventVehiclesUpdate, FleetSnapshot: snapshot})
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to serialize snapshot for broadcast")
		return
	}

	for item := range h.clients.IterBuffered() {
		if err := item.Val.send(data); err != nil {
			h.drop(item.Key, item.Val)
		}
	}
}

// LastSnapshot returns the most recently published snapshot, if any.
func (h *Hub) LastSnapshot() *models.FleetSnapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.last
}

// SubscriberCount reports how many clients are currently connected.
func (h *Hub) SubscriberCount() int {
	return h.clients.Count()
}

// readPump drains inbound frames to detect disconnects.
func (h *Hub) readPump(id string, c *client) {
	defer h.drop(id, c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) drop(id string, c *client) {
	if _, ok := h.clients.Get(id); !ok {
		return
	}
	h.clients.Remove(id)
	_ = c.conn.Close()
	h.logger.Info().Str("client_id", id).Int("subscribers", h.clients.Count()).Msg("Websocket client disconnected")
}
