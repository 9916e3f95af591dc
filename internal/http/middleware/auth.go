package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextPlayerID is the gin context key holding the authenticated player id.
const ContextPlayerID = "user_id"

// TokenParser resolves a bearer token to a player id.
type TokenParser interface {
	Parse(token string) (int64, error)
}

// JWT requires "Authorization: Bearer <token>" and stores the player id in the context.
func JWT(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		playerID, err := tokens.Parse(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set(ContextPlayerID, playerID)
		c.Next()
	}
}

// Admin allows only player ids from the configured admin list. Runs after JWT.
func Admin(adminIDs []int64) gin.HandlerFunc {
	allowed := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		allowed[id] = struct{}{}
	}
	return func(c *gin.Context) {
		playerID, ok := PlayerID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if _, ok := allowed[playerID]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}

// PlayerID reads the id stored by JWT.
func PlayerID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ContextPlayerID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
