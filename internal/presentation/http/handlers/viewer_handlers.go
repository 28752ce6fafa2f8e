package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shelfshare/shelfshare-go/internal/application/services"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/realtime"
)

// ViewerHandlers exposes the view log and live presence over REST for
// clients without a websocket connection.
type ViewerHandlers struct {
	viewerService *services.ViewerService
	hub           *realtime.Hub
}

// NewViewerHandlers creates viewer handlers with injected dependencies
func NewViewerHandlers(viewerService *services.ViewerService, hub *realtime.Hub) *ViewerHandlers {
	return &ViewerHandlers{viewerService: viewerService, hub: hub}
}

// GetViewers handles GET /api/v1/viewers/:bookId — recent viewers from the
// view log plus the live room audience.
func (h *ViewerHandlers) GetViewers(c *gin.Context) {
	bookID := c.Param("bookId")

	recent, err := h.viewerService.ActiveViewers(bookID)
	if err != nil {
		writeError(c, err)
		return
	}
	total, err := h.viewerService.TotalViews(bookID)
	if err != nil {
		writeError(c, err)
		return
	}
	live := h.hub.ActiveViewers(bookID)

	c.JSON(http.StatusOK, gin.H{
		"recent":     recent,
		"live":       live,
		"totalViews": total,
	})
}

// PostView handles POST /api/v1/viewers/:bookId — records a view for
// clients reporting over REST. The session comes from the X-Session-ID
// header; identity fields are optional.
func (h *ViewerHandlers) PostView(c *gin.Context) {
	sessionID := c.GetHeader("X-Session-ID")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-Session-ID header is required"})
		return
	}

	var req struct {
		UserID   string `json:"userId"`
		UserName string `json:"userName"`
	}
	// The body is optional for anonymous views.
	_ = c.ShouldBindJSON(&req)

	h.viewerService.RecordView(c.Param("bookId"), req.UserID, req.UserName, sessionID)
	c.JSON(http.StatusCreated, gin.H{"success": true})
}
