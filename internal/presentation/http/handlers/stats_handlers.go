package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shelfshare/shelfshare-go/internal/application/services"
	"github.com/shelfshare/shelfshare-go/internal/presentation/http/middleware"
)

// StatsHandlers contains the user statistics HTTP handlers
type StatsHandlers struct {
	statsService *services.StatsService
}

// NewStatsHandlers creates stats handlers with injected dependencies
func NewStatsHandlers(statsService *services.StatsService) *StatsHandlers {
	return &StatsHandlers{statsService: statsService}
}

// GetMyStats handles GET /api/v1/stats/me
func (h *StatsHandlers) GetMyStats(c *gin.Context) {
	stats, err := h.statsService.ForUser(middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetUserStats handles GET /api/v1/stats/users/:id
func (h *StatsHandlers) GetUserStats(c *gin.Context) {
	stats, err := h.statsService.ForUser(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
