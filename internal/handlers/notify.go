package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Okano804/ChatTODO/internal/sweep"
)

// NotifyHandler exposes the sweep to the external scheduler.
type NotifyHandler struct {
	sweeper *sweep.Sweeper
	secret  string
	env     string
}

func NewNotifyHandler(sweeper *sweep.Sweeper, secret, env string) *NotifyHandler {
	return &NotifyHandler{sweeper: sweeper, secret: secret, env: env}
}

// Trigger godoc
// @Summary      Run one notification sweep (cron entry point)
// @Description  Bearer CRON_SECRET is required when APP_ENV=production.
// @Tags         notify
// @Produce      json
// @Param        digest  query  bool  false  "Aggregate overdue todos into one digest email"
// @Success      200  {object}  sweep.Summary
// @Failure      401  {object}  map[string]string
// @Router       /notify [get]
func (h *NotifyHandler) Trigger(c *gin.Context) {
	if h.env == "production" && c.GetHeader("Authorization") != "Bearer "+h.secret {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	sum := h.sweeper.Sweep(c.Request.Context(), c.Query("digest") == "true")
	c.JSON(http.StatusOK, sum)
}
