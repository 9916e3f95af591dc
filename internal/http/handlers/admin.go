package handlers

import (
	"net/http"

	"warzone/internal/domain"

	"github.com/gin-gonic/gin"
)

type grantRequest struct {
	PlayerID int64  `json:"player_id"`
	Resource string `json:"resource"`
	Amount   int64  `json:"amount"`
}

func (h *Handler) AdminGrant(c *gin.Context) {
	var req grantRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PlayerID == 0 {
		badRequest(c, "player_id, resource and amount are required")
		return
	}
	kind, err := domain.ParseResourceKind(req.Resource)
	if err != nil {
		h.writeError(c, err)
		return
	}
	p, err := h.Svc.Grant(c.Request.Context(), req.PlayerID, kind, req.Amount)
	if err != nil {
		h.writeError(c, err)
		return
	}
	adminID, _ := playerID(c)
	h.log.Info("admin grant", "admin_id", adminID, "player_id", req.PlayerID, "resource", kind.String(), "amount", req.Amount)
	c.JSON(http.StatusOK, gin.H{"player": p})
}

type grantMissilesRequest struct {
	PlayerID int64  `json:"player_id"`
	Missile  string `json:"missile"`
	Quantity int64  `json:"quantity"`
}

func (h *Handler) AdminGrantMissiles(c *gin.Context) {
	var req grantMissilesRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PlayerID == 0 {
		badRequest(c, "player_id, missile and quantity are required")
		return
	}
	missile, err := domain.ParseMissileID(req.Missile)
	if err != nil {
		h.writeError(c, err)
		return
	}
	owned, err := h.Svc.GrantMissiles(c.Request.Context(), req.PlayerID, missile, req.Quantity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	adminID, _ := playerID(c)
	h.log.Info("admin missile grant", "admin_id", adminID, "player_id", req.PlayerID, "missile", missile.String(), "quantity", req.Quantity)
	c.JSON(http.StatusOK, gin.H{"missile": missile, "owned": owned})
}

func (h *Handler) AdminStats(c *gin.Context) {
	stats, err := h.Svc.Stats(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
