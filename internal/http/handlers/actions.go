package handlers

import (
	"net/http"

	"warzone/internal/domain"

	"github.com/gin-gonic/gin"
)

type attackRequest struct {
	TargetID int64  `json:"target_id"`
	Combo    string `json:"combo"`
}

func (h *Handler) Attack(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		return
	}
	var req attackRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.TargetID == 0 || req.Combo == "" {
		badRequest(c, "target_id and combo are required")
		return
	}

	report, err := h.Svc.ResolveAttack(c.Request.Context(), id, req.TargetID, domain.ComboID(req.Combo))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if h.Notifier != nil {
		h.Notifier.NotifyAttacked(report.TargetID, report.TargetNotice())
	}
	c.JSON(http.StatusOK, report)
}

type defenseRequest struct {
	Track string `json:"track"`
}

func (h *Handler) UpgradeDefense(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		return
	}
	var req defenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "bad request")
		return
	}
	track, err := domain.ParseDefenseTrack(req.Track)
	if err != nil {
		h.writeError(c, err)
		return
	}
	res, err := h.Svc.UpgradeDefense(c.Request.Context(), id, track)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ClaimMiner(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		return
	}
	res, err := h.Svc.ClaimMiner(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) UpgradeMiner(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		return
	}
	res, err := h.Svc.UpgradeMiner(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) OpenBox(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		return
	}
	res, err := h.Svc.OpenBox(c.Request.Context(), id, domain.BoxID(c.Param("id")))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type buyRequest struct {
	Missile  string `json:"missile"`
	Quantity int64  `json:"quantity"`
}

func (h *Handler) BuyMissile(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		return
	}
	var req buyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "bad request")
		return
	}
	missile, err := domain.ParseMissileID(req.Missile)
	if err != nil {
		h.writeError(c, err)
		return
	}
	res, err := h.Svc.BuyMissile(c.Request.Context(), id, missile, req.Quantity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
