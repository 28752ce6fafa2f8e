package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// MetaHandlers serves API metadata for health checks and the offline
// service worker.
type MetaHandlers struct {
	startedAt time.Time
}

// NewMetaHandlers creates meta handlers
func NewMetaHandlers() *MetaHandlers {
	return &MetaHandlers{startedAt: time.Now().UTC()}
}

// GetMeta handles GET /api/v1/meta
func (h *MetaHandlers) GetMeta(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "shelfshare-api",
		"version": "v1",
		"uptime":  time.Since(h.startedAt).Round(time.Second).String(),
	})
}

// GetPing handles GET /api/v1/ping
func (h *MetaHandlers) GetPing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"pong": true})
}
