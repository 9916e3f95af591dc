package handlers

import (
	"errors"
	"net/http"

	"warzone/internal/domain"
	"warzone/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

var statusByError = []struct {
	err    error
	status int
}{
	{domain.ErrUnknownPlayer, http.StatusNotFound},
	{domain.ErrUnknownCombo, http.StatusNotFound},
	{domain.ErrUnknownBox, http.StatusNotFound},
	{domain.ErrUnknownMissile, http.StatusNotFound},
	{domain.ErrUnknownTrack, http.StatusNotFound},
	{domain.ErrUnknownResource, http.StatusNotFound},
	{domain.ErrSelfTarget, http.StatusBadRequest},
	{domain.ErrInvalidAmount, http.StatusBadRequest},
	{domain.ErrLevelTooLow, http.StatusConflict},
	{domain.ErrInsufficientFunds, http.StatusConflict},
	{domain.ErrInsufficientGems, http.StatusConflict},
	{domain.ErrInsufficientMissiles, http.StatusConflict},
	{domain.ErrMaxLevelReached, http.StatusConflict},
	{domain.ErrNothingToClaim, http.StatusConflict},
	{domain.ErrStoreConflict, http.StatusServiceUnavailable},
}

func statusFor(err error) int {
	for _, m := range statusByError {
		if errors.Is(err, m.err) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// writeError maps engine errors to a status and a stable message.
func (h *Handler) writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error("request failed", "route", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// playerID extracts the authenticated id, answering 401 when absent.
func playerID(c *gin.Context) (int64, bool) {
	id, ok := middleware.PlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return id, ok
}
