// Package websocket streams new forum messages to clients watching a challenge.
package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"hk-explorer-be/internal/pkg/logger"
	"hk-explorer-be/pkg/events"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ClusterChannel carries forum frames between instances.
const ClusterChannel = "hk-explorer:forum"

// Frame is what a client receives.
type Frame struct {
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data"`
}

type clusterMessage struct {
	Origin      string          `json:"origin"`
	ChallengeID string          `json:"challenge_id"`
	Message     json.RawMessage `json:"message"`
}

type Hub struct {
	// Instance id, used to skip our own cluster messages.
	id string

	// Rooms: ChallengeID -> connected clients
	rooms map[string]map[*Client]struct{}

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Closed when Run returns.
	done chan struct{}

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance communication
	rdb redis.UniversalClient

	logger logger.ILogger
}

var _ events.Publisher = (*Hub)(nil)

// NewHub builds a hub. rdb may be nil for a single instance.
func NewHub(rdb redis.UniversalClient, log logger.ILogger) *Hub {
	return &Hub{
		id:         uuid.NewString(),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		rooms:      make(map[string]map[*Client]struct{}),
		rdb:        rdb,
		logger:     log,
	}
}

// Run serves registrations until ctx ends, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for _, room := range h.rooms {
				for client := range room {
					close(client.Send)
				}
			}
			h.rooms = make(map[string]map[*Client]struct{})
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			room, ok := h.rooms[client.ChallengeID]
			if !ok {
				room = make(map[*Client]struct{})
				h.rooms[client.ChallengeID] = room
			}
			room[client] = struct{}{}
			h.mu.Unlock()
			h.logger.Info("ForumHub", "client registered", map[string]interface{}{
				"challenge_id": client.ChallengeID,
				"user_id":      client.UserID,
			})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

// join registers a client. It reports false once the hub has stopped.
func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// remove drops a client and closes its queue. Safe to call twice.
func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[client.ChallengeID]
	if !ok {
		return
	}
	if _, ok := room[client]; !ok {
		return
	}
	delete(room, client)
	close(client.Send)
	if len(room) == 0 {
		delete(h.rooms, client.ChallengeID)
	}
}

// Watchers reports how many local clients follow a challenge.
func (h *Hub) Watchers(challengeID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[challengeID])
}

// Publish forwards forum.posted events to the challenge's room, here and on
// every other instance. Other event types are ignored.
func (h *Hub) Publish(ctx context.Context, event events.Event) error {
	if event.EventType() != events.ForumMessagePosted {
		return nil
	}
	data := event.Payload()
	challengeID, _ := data["challengeId"].(string)
	if challengeID == "" {
		return nil
	}

	frame, err := json.Marshal(Frame{Type: "forum_message", Data: data})
	if err != nil {
		return fmt.Errorf("encode forum frame: %w", err)
	}

	h.deliver(challengeID, frame)

	if h.rdb != nil {
		payload, err := json.Marshal(clusterMessage{Origin: h.id, ChallengeID: challengeID, Message: frame})
		if err != nil {
			return fmt.Errorf("encode cluster message: %w", err)
		}
		if err := h.rdb.Publish(ctx, ClusterChannel, payload).Err(); err != nil {
			return fmt.Errorf("publish forum frame: %w", err)
		}
	}
	return nil
}

func (h *Hub) deliver(challengeID string, frame []byte) {
	var slow []*Client

	h.mu.RLock()
	for client := range h.rooms[challengeID] {
		select {
		case client.Send <- frame:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.logger.Warn("ForumHub", "client send buffer full, disconnecting", map[string]interface{}{
			"challenge_id": challengeID,
			"user_id":      client.UserID,
		})
		h.remove(client)
	}
}

// subscribeToRedis relays frames published by other instances.
func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, ClusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var payload clusterMessage
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				h.logger.Warn("ForumHub", "cluster message parse error", map[string]interface{}{"error": err})
				continue
			}
			if payload.Origin == h.id {
				continue
			}
			h.deliver(payload.ChallengeID, payload.Message)
		}
	}
}
