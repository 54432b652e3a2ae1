package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"chatroom/server/internal/events"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// MemberLister resolves channel membership
type MemberLister interface {
	ChannelMemberIDs(ctx context.Context, channelID string) ([]string, error)
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	// Registered clients mapped by user ID
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client
	quit       chan struct{}

	members MemberLister
	log     zerolog.Logger

	mu sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub(members MemberLister, log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
		members:    members,
		log:        log,
	}
}

// Run starts the hub's main loop. It returns when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.quit)
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

// Register hands a client to the hub loop
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.quit:
	}
}

// Unregister removes a client through the hub loop
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// A user keeps one connection; the newest wins
	if existing, ok := h.clients[client.ID]; ok {
		close(existing.Send)
	}
	h.clients[client.ID] = client

	h.log.Info().Str("user_id", client.ID).Msg("client connected")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Only drop the entry if it still belongs to this connection
	if current, ok := h.clients[client.ID]; ok && current == client {
		delete(h.clients, client.ID)
		close(client.Send)
		h.log.Info().Str("user_id", client.ID).Msg("client disconnected")
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, client := range h.clients {
		close(client.Send)
		delete(h.clients, id)
	}
}

// Notify pushes a message event to everyone in the message's conversation
func (h *Hub) Notify(ctx context.Context, event events.MessageEvent) error {
	recipients := event.Message.Participants()

	if event.Message.ChannelID != nil {
		members, err := h.members.ChannelMemberIDs(ctx, *event.Message.ChannelID)
		if err != nil {
			return fmt.Errorf("failed to resolve channel members: %w", err)
		}
		recipients = append(recipients, members...)
	}

	return h.BroadcastToUsers(lo.Uniq(recipients), WSMessage{
		Type:      EventType(event.Kind),
		Payload:   event.Message,
		Timestamp: event.OccurredAt,
	})
}

// RelayTyping forwards a typing indicator from one user to the conversation
func (h *Hub) RelayTyping(ctx context.Context, kind EventType, payload TypingPayload) error {
	var recipients []string
	switch {
	case payload.ChannelID != "":
		members, err := h.members.ChannelMemberIDs(ctx, payload.ChannelID)
		if err != nil {
			return fmt.Errorf("failed to resolve channel members: %w", err)
		}
		recipients = members
	case payload.ReceiverID != "":
		recipients = []string{payload.ReceiverID}
	default:
		return nil
	}

	recipients = lo.Without(lo.Uniq(recipients), payload.UserID)
	return h.BroadcastToUsers(recipients, WSMessage{
		Type:      kind,
		Payload:   payload,
		Timestamp: time.Now(),
	})
}

// BroadcastToUsers sends a message to the connected users among userIDs
func (h *Hub) BroadcastToUsers(userIDs []string, message WSMessage) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, userID := range userIDs {
		if client, ok := h.clients[userID]; ok {
			select {
			case client.Send <- data:
			default:
				h.log.Warn().Str("user_id", userID).Msg("client send buffer full, dropping message")
			}
		}
	}
	return nil
}

// sendTo queues data for one connection if the hub still owns it.
// Send is closed under the write lock, so holding the read lock here is safe.
func (h *Hub) sendTo(client *Client, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if current, ok := h.clients[client.ID]; ok && current == client {
		select {
		case client.Send <- data:
		default:
		}
	}
}

// IsUserOnline checks if a user is currently connected
func (h *Hub) IsUserOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	_, ok := h.clients[userID]
	return ok
}

// GetOnlineUsers returns a list of currently online user IDs
func (h *Hub) GetOnlineUsers() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return lo.Keys(h.clients)
}

// GetOnlineCount returns the number of currently connected clients
func (h *Hub) GetOnlineCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}
