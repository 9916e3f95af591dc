package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second

	sendBuffer   = 64
	maxFrameSize = 4096
)

// Client is one WebSocket connection of a player.
type Client struct {
	PlayerID int64
	Conn     *websocket.Conn
	Send     chan []byte
	Hub      *Hub
	Done     chan struct{}
}

func NewClient(playerID int64, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		PlayerID: playerID,
		Conn:     conn,
		Send:     make(chan []byte, sendBuffer),
		Hub:      hub,
		Done:     make(chan struct{}),
	}
}

// Run registers the client and blocks until the connection closes.
func (c *Client) Run() {
	c.Hub.Register(c)
	go c.writePump()

	if msg, err := encode(MsgReady, ReadyPayload{PlayerID: c.PlayerID}); err == nil {
		c.enqueue(msg)
	}
	c.readPump()
}

func (c *Client) enqueue(msg []byte) bool {
	select {
	case c.Send <- msg:
		return true
	default:
		return false
	}
}

// read
func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		_ = c.Conn.Close()
		close(c.Done)
	}()

	c.Conn.SetReadLimit(maxFrameSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.Hub.log.Debug("ws read error", "player_id", c.PlayerID, "error", err)
			}
			return
		}
		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			if msg, err := encode(MsgError, ErrorPayload{Message: "invalid message"}); err == nil {
				c.enqueue(msg)
			}
			continue
		}
		// стрим только на чтение, клиент может лишь пинговать
		switch env.Type {
		case MsgPing:
			if msg, err := encode(MsgPong, nil); err == nil {
				c.enqueue(msg)
			}
		default:
			if msg, err := encode(MsgError, ErrorPayload{Message: "unsupported message type"}); err == nil {
				c.enqueue(msg)
			}
		}
	}
}

// write
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.Hub.log.Debug("ws write error", "player_id", c.PlayerID, "error", err)
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.Done:
			return
		}
	}
}
