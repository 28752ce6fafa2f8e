package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shelfshare/shelfshare-go/internal/application/services"
	"github.com/shelfshare/shelfshare-go/internal/presentation/http/middleware"
)

// NotificationHandlers contains the notification HTTP handlers
type NotificationHandlers struct {
	notificationService *services.NotificationService
}

// NewNotificationHandlers creates notification handlers with injected dependencies
func NewNotificationHandlers(notificationService *services.NotificationService) *NotificationHandlers {
	return &NotificationHandlers{notificationService: notificationService}
}

// GetNotifications handles GET /api/v1/notifications
func (h *NotificationHandlers) GetNotifications(c *gin.Context) {
	notifications, err := h.notificationService.ListForUser(middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	unread, err := h.notificationService.UnreadCount(middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications, "unreadCount": unread})
}

// PostNotificationRead handles POST /api/v1/notifications/:id/read
func (h *NotificationHandlers) PostNotificationRead(c *gin.Context) {
	if err := h.notificationService.MarkRead(middleware.UserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// PostNotificationsReadAll handles POST /api/v1/notifications/read-all
func (h *NotificationHandlers) PostNotificationsReadAll(c *gin.Context) {
	if err := h.notificationService.MarkAllRead(middleware.UserID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteNotification handles DELETE /api/v1/notifications/:id
func (h *NotificationHandlers) DeleteNotification(c *gin.Context) {
	if err := h.notificationService.Delete(middleware.UserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
