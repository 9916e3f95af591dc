package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Catalog returns the static game data.
func (h *Handler) Catalog(c *gin.Context) {
	cat := h.Svc.Catalog()
	c.JSON(http.StatusOK, gin.H{
		"missiles":    cat.Missiles(),
		"combos":      cat.Combos(),
		"miner_tiers": cat.MinerTiers(),
		"boxes":       cat.Boxes(),
	})
}

func (h *Handler) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "15"))
	top, err := h.Svc.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": top})
}
