package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/clipcourier/internal/app"
)

// StatsHandler exposes job counters
type StatsHandler struct {
	stats *app.Stats
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(stats *app.Stats) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// GetStats handles GET /api/v1/stats
func (h *StatsHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.stats.Snapshot())
}
