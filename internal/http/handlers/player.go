package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Me(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		return
	}
	view, err := h.Svc.GetPlayerView(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) Inventory(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		return
	}
	entries, err := h.Svc.ListInventory(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inventory": entries})
}

func (h *Handler) History(c *gin.Context) {
	id, ok := playerID(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	txs, err := h.Svc.History(c.Request.Context(), id, limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}
