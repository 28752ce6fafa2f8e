package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shelfshare/shelfshare-go/internal/application/services"
	"github.com/shelfshare/shelfshare-go/internal/presentation/http/middleware"
)

// MessageHandlers contains the thread and message HTTP handlers
type MessageHandlers struct {
	messageService *services.MessageService
}

// NewMessageHandlers creates message handlers with injected dependencies
func NewMessageHandlers(messageService *services.MessageService) *MessageHandlers {
	return &MessageHandlers{messageService: messageService}
}

// GetThreads handles GET /api/v1/messages/threads
func (h *MessageHandlers) GetThreads(c *gin.Context) {
	threads, err := h.messageService.ThreadsForUser(middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, threads)
}

// PostThreads handles POST /api/v1/messages/threads — get-or-create
func (h *MessageHandlers) PostThreads(c *gin.Context) {
	var req struct {
		UserID string  `json:"userId" binding:"required"`
		BookID *string `json:"bookId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	thread, err := h.messageService.OpenThread(middleware.UserID(c), req.UserID, req.BookID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, thread)
}

// GetThread handles GET /api/v1/messages/threads/:id
func (h *MessageHandlers) GetThread(c *gin.Context) {
	thread, err := h.messageService.Thread(middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, thread)
}

// GetThreadMessages handles GET /api/v1/messages/threads/:id/messages
func (h *MessageHandlers) GetThreadMessages(c *gin.Context) {
	messages, err := h.messageService.MessagesForThread(middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// PostThreadMessage handles POST /api/v1/messages/threads/:id/messages
func (h *MessageHandlers) PostThreadMessage(c *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	message, err := h.messageService.Send(middleware.UserID(c), c.Param("id"), req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

// PostThreadRead handles POST /api/v1/messages/threads/:id/read
func (h *MessageHandlers) PostThreadRead(c *gin.Context) {
	if err := h.messageService.MarkThreadRead(middleware.UserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetUnreadCount handles GET /api/v1/messages/unread-count
func (h *MessageHandlers) GetUnreadCount(c *gin.Context) {
	total, err := h.messageService.UnreadTotal(middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": total})
}
