// Package container provides dependency injection for all singleton services
package container

import (
	"github.com/shelfshare/shelfshare-go/internal/application/services"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/media"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/observability/logging"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/persistence/filestore"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/persistence/jsonstore"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/realtime"
	"github.com/shelfshare/shelfshare-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	Logger *logging.ChanneledLogger

	// Application services
	AuthService         *services.AuthService
	BookService         *services.BookService
	RatingService       *services.RatingService
	WishlistService     *services.WishlistService
	MessageService      *services.MessageService
	NotificationService *services.NotificationService
	ViewerService       *services.ViewerService
	StatsService        *services.StatsService

	// Infrastructure
	Hub    *realtime.Hub
	Covers *media.CoverProcessor
}

// gateFunc adapts a closure to realtime.ThreadAccessChecker so the hub can
// be constructed before the message service it consults.
type gateFunc func(threadID, userID string) bool

func (f gateFunc) CanAccessThread(threadID, userID string) bool { return f(threadID, userID) }

// NewContainer creates and wires all singleton services
func NewContainer(logger *logging.ChanneledLogger) *Container {
	store := jsonstore.New(config.DataDir, logger.Store())

	users := filestore.NewUserStore(store)
	books := filestore.NewBookStore(store)
	ratings := filestore.NewRatingStore(store)
	wishlist := filestore.NewWishlistStore(store)
	messages := filestore.NewMessageStore(store)
	threads := filestore.NewThreadStore(store)
	notifications := filestore.NewNotificationStore(store)
	views := filestore.NewViewStore(store)

	c := &Container{Logger: logger}

	c.AuthService = services.NewAuthService(users, logger)
	c.ViewerService = services.NewViewerService(views, config.ViewDedupWindow, config.ActiveViewerWindow, logger)
	c.StatsService = services.NewStatsService(books, ratings, logger)

	c.Hub = realtime.NewHub(c.ViewerService, c.AuthService, gateFunc(func(threadID, userID string) bool {
		return c.MessageService.CanAccessThread(threadID, userID)
	}), logger)

	c.NotificationService = services.NewNotificationService(notifications, c.Hub, logger)
	c.WishlistService = services.NewWishlistService(wishlist, books, c.NotificationService, logger)
	c.BookService = services.NewBookService(books, users, c.WishlistService, logger)
	c.RatingService = services.NewRatingService(ratings, books, users, c.NotificationService, logger)
	c.MessageService = services.NewMessageService(messages, threads, users, books, c.NotificationService, c.Hub, logger)

	c.Covers = media.NewCoverProcessor(config.UploadsDir, config.CoverMaxWidth, config.CoverWebPQuality)

	return c
}
