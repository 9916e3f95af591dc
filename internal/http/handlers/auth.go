package handlers

import (
	"fmt"
	"net/http"

	"warzone/internal/auth"

	"github.com/gin-gonic/gin"
)

type AuthRequest struct {
	InitData string `json:"init_data"`
	// DEV_MODE only
	User *auth.WebAppUser `json:"user,omitempty"`
}

func (h *Handler) Auth(c *gin.Context) {
	var req AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "bad request")
		return
	}

	var user *auth.WebAppUser
	if h.devMode && req.User != nil {
		// DEV MODE: пропускаем валидацию
		user = req.User
		if user.Username == "" {
			user.Username = fmt.Sprintf("testuser%d", user.ID)
		}
	} else {
		if len(req.InitData) > auth.MaxInitDataSize {
			badRequest(c, "init_data too long")
			return
		}
		values, ok := auth.ValidateInitData(req.InitData, h.botToken, h.now())
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or stale telegram data"})
			return
		}
		u, err := auth.ParseUser(values)
		if err != nil {
			badRequest(c, "invalid user json")
			return
		}
		user = u
	}
	if user.ID <= 0 {
		badRequest(c, "user id required")
		return
	}

	player, created, err := h.Svc.RegisterPlayer(c.Request.Context(), user.ID, user.Username, user.FullName())
	if err != nil {
		h.writeError(c, err)
		return
	}

	token, err := h.Tokens.Generate(player.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"created": created,
		"player":  player,
	})
}

