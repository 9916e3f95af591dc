package ws

import (
	"log/slog"
	"sync"

	"warzone/internal/domain"
	"warzone/internal/logger"
)

// Hub tracks live connections per player and fans notifications out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*Client]struct{}
	log     *slog.Logger
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[int64]map[*Client]struct{}),
		log:     logger.Component("ws"),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	set, ok := h.clients[c.PlayerID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.PlayerID] = set
	}
	set[c] = struct{}{}
	h.mu.Unlock()
	h.log.Debug("ws client registered", "player_id", c.PlayerID)
}

// Unregister removes c and closes its send channel. Safe to call twice.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.PlayerID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.Send)
	if len(set) == 0 {
		delete(h.clients, c.PlayerID)
	}
}

// Publish sends a typed message to every connection of playerID and returns
// how many accepted it. Slow connections drop the message.
func (h *Hub) Publish(playerID int64, msgType string, payload interface{}) int {
	msg, err := encode(msgType, payload)
	if err != nil {
		h.log.Error("ws encode failed", "type", msgType, "error", err)
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for c := range h.clients[playerID] {
		if c.enqueue(msg) {
			delivered++
		} else {
			h.log.Warn("ws send buffer full", "player_id", playerID)
		}
	}
	return delivered
}

// NotifyAttacked pushes the attack notice to the target.
func (h *Hub) NotifyAttacked(targetID int64, notice domain.TargetNotice) int {
	return h.Publish(targetID, MsgAttacked, notice)
}

func (h *Hub) Online(playerID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[playerID]) > 0
}

// Count returns the number of open connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}
