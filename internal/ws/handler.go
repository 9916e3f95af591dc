package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// TokenParser resolves a session token to a player id.
type TokenParser interface {
	Parse(token string) (int64, error)
}

// HandleWS upgrades authenticated requests and attaches them to hub.
// An empty allowedOrigin accepts any origin.
func HandleWS(hub *Hub, tokens TokenParser, allowedOrigin string) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}

	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}

		playerID, err := tokens.Parse(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			hub.log.Warn("ws upgrade error", "error", err)
			return
		}

		client := NewClient(playerID, conn, hub)
		go client.Run()
	}
}
