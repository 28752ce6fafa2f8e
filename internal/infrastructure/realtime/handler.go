package realtime

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/observability/logging"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/security"
	"github.com/shelfshare/shelfshare-go/pkg/config"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS policy is enforced at the REST layer; the live channel
		// relies on token auth instead of origin checks.
		return true
	},
}

// Handler upgrades authenticated clients onto the live channel.
type Handler struct {
	hub    *Hub
	logger *logging.ChanneledLogger
}

func NewHandler(hub *Hub, logger *logging.ChanneledLogger) *Handler {
	return &Handler{hub: hub, logger: logger}
}

// Serve authenticates the handshake and hands the connection to the hub.
// Browsers cannot set headers on websocket requests, so the token travels
// as a query parameter. Rejection happens before the upgrade, as a plain
// HTTP 401.
func (h *Handler) Serve(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	claims, err := security.ValidateToken(token, config.JWTSecret)
	if err != nil {
		h.logger.Auth().Debug("Websocket token rejected", "error", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Realtime().Error("Websocket upgrade failed", "error", err)
		return
	}

	connID := uuid.NewString()
	client := newClient(connID, claims.UserID, h.hub, conn, h.logger)
	h.hub.Register(connID, claims.UserID, client)

	go client.writePump()
	go client.readPump()
}
