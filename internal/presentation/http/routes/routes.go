// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/shelfshare/shelfshare-go/internal/application/container"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/realtime"
	"github.com/shelfshare/shelfshare-go/internal/presentation/http/handlers"
	"github.com/shelfshare/shelfshare-go/internal/presentation/http/middleware"
	"github.com/shelfshare/shelfshare-go/pkg/config"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Normalized cover images are served straight off disk.
	r.Static("/uploads", config.UploadsDir)

	// Initialize handlers
	authHandlers := handlers.NewAuthHandlers(container.AuthService, container.Logger)
	bookHandlers := handlers.NewBookHandlers(container.BookService, container.Covers, container.Logger)
	ratingHandlers := handlers.NewRatingHandlers(container.RatingService)
	wishlistHandlers := handlers.NewWishlistHandlers(container.WishlistService)
	messageHandlers := handlers.NewMessageHandlers(container.MessageService)
	notificationHandlers := handlers.NewNotificationHandlers(container.NotificationService)
	viewerHandlers := handlers.NewViewerHandlers(container.ViewerService, container.Hub)
	statsHandlers := handlers.NewStatsHandlers(container.StatsService)
	metaHandlers := handlers.NewMetaHandlers()
	wsHandler := realtime.NewHandler(container.Hub, container.Logger)

	// Live channel: token auth happens inside the handler, pre-upgrade.
	r.GET("/ws", wsHandler.Serve)

	api := r.Group("/api/v1")
	{
		api.GET("/meta", metaHandlers.GetMeta)
		api.GET("/ping", metaHandlers.GetPing)

		api.POST("/auth/signup", authHandlers.PostSignup)
		api.POST("/auth/login", authHandlers.PostLogin)

		// Public catalog reads
		api.GET("/books", bookHandlers.GetBooks)
		api.GET("/books/:id", bookHandlers.GetBook)
		api.GET("/books/:id/ratings", ratingHandlers.GetBookRatings)
		api.GET("/users/:id/ratings/summary", ratingHandlers.GetOwnerRatingSummary)
		api.GET("/stats/users/:id", statsHandlers.GetUserStats)

		// View log: recording accepts anonymous sessions
		api.GET("/viewers/:bookId", viewerHandlers.GetViewers)
		api.POST("/viewers/:bookId", viewerHandlers.PostView)

		// Authenticated endpoints
		auth := api.Group("")
		auth.Use(middleware.RequireAuth(container.Logger))
		{
			auth.GET("/auth/me", authHandlers.GetMe)
			auth.PUT("/auth/me", authHandlers.PutMe)

			auth.POST("/books", bookHandlers.PostBook)
			auth.PUT("/books/:id", bookHandlers.PutBook)
			auth.PATCH("/books/:id/status", bookHandlers.PatchBookStatus)
			auth.DELETE("/books/:id", bookHandlers.DeleteBook)
			auth.POST("/books/:id/cover", bookHandlers.PostBookCover)
			auth.POST("/books/import", bookHandlers.PostBooksImport)
			auth.GET("/books/export", bookHandlers.GetBooksExport)

			auth.POST("/books/:id/ratings", ratingHandlers.PostBookRating)

			auth.GET("/wishlist", wishlistHandlers.GetWishlist)
			auth.POST("/wishlist", wishlistHandlers.PostWishlist)
			auth.DELETE("/wishlist/:id", wishlistHandlers.DeleteWishlistItem)

			auth.GET("/messages/threads", messageHandlers.GetThreads)
			auth.POST("/messages/threads", messageHandlers.PostThreads)
			auth.GET("/messages/threads/:id", messageHandlers.GetThread)
			auth.GET("/messages/threads/:id/messages", messageHandlers.GetThreadMessages)
			auth.POST("/messages/threads/:id/messages", messageHandlers.PostThreadMessage)
			auth.POST("/messages/threads/:id/read", messageHandlers.PostThreadRead)
			auth.GET("/messages/unread-count", messageHandlers.GetUnreadCount)

			auth.GET("/notifications", notificationHandlers.GetNotifications)
			auth.POST("/notifications/read-all", notificationHandlers.PostNotificationsReadAll)
			auth.POST("/notifications/:id/read", notificationHandlers.PostNotificationRead)
			auth.DELETE("/notifications/:id", notificationHandlers.DeleteNotification)

			auth.GET("/stats/me", statsHandlers.GetMyStats)
		}
	}

	return r
}
