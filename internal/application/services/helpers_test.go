package services

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shelfshare/shelfshare-go/internal/domain/entities/exchange"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/observability/logging"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/persistence/filestore"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/persistence/jsonstore"
)

// fixtures wires every service over a throwaway data directory.
type fixtures struct {
	users         *filestore.UserStore
	books         *filestore.BookStore
	ratings       *filestore.RatingStore
	wishlist      *filestore.WishlistStore
	messages      *filestore.MessageStore
	threads       *filestore.ThreadStore
	notifications *filestore.NotificationStore
	views         *filestore.ViewStore

	broadcaster *spyBroadcaster

	auth        *AuthService
	bookSvc     *BookService
	ratingSvc   *RatingService
	wishlistSvc *WishlistService
	messageSvc  *MessageService
	notifySvc   *NotificationService
	statsSvc    *StatsService
}

// spyBroadcaster records realtime pushes instead of delivering them.
type spyBroadcaster struct {
	mu     sync.Mutex
	pushes []push
}

type push struct {
	target  string // userID or threadID
	toUser  bool
	event   string
	payload any
}

func (s *spyBroadcaster) SendToUser(userID, event string, payload any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pushes = append(s.pushes, push{target: userID, toUser: true, event: event, payload: payload})
}

func (s *spyBroadcaster) BroadcastToThread(threadID, event string, payload any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pushes = append(s.pushes, push{target: threadID, event: event, payload: payload})
}

func (s *spyBroadcaster) events() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.pushes))
	for _, p := range s.pushes {
		out = append(out, p.event)
	}
	return out
}

func quietLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToConsole: false,
		OutputToFile:    false,
		DefaultLevel:    slog.LevelError + 4,
		ChannelLevels:   map[logging.Channel]slog.Level{},
	})
	require.NoError(t, err)
	return logger
}

func newFixtures(t *testing.T) *fixtures {
	t.Helper()
	store := jsonstore.New(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	logger := quietLogger(t)

	f := &fixtures{
		users:         filestore.NewUserStore(store),
		books:         filestore.NewBookStore(store),
		ratings:       filestore.NewRatingStore(store),
		wishlist:      filestore.NewWishlistStore(store),
		messages:      filestore.NewMessageStore(store),
		threads:       filestore.NewThreadStore(store),
		notifications: filestore.NewNotificationStore(store),
		views:         filestore.NewViewStore(store),
		broadcaster:   &spyBroadcaster{},
	}

	f.auth = NewAuthService(f.users, logger)
	f.notifySvc = NewNotificationService(f.notifications, f.broadcaster, logger)
	f.wishlistSvc = NewWishlistService(f.wishlist, f.books, f.notifySvc, logger)
	f.bookSvc = NewBookService(f.books, f.users, f.wishlistSvc, logger)
	f.ratingSvc = NewRatingService(f.ratings, f.books, f.users, f.notifySvc, logger)
	f.messageSvc = NewMessageService(f.messages, f.threads, f.users, f.books, f.notifySvc, f.broadcaster, logger)
	f.statsSvc = NewStatsService(f.books, f.ratings, logger)
	return f
}

func (f *fixtures) signup(t *testing.T, name, email string) *exchange.PublicUser {
	t.Helper()
	result, err := f.auth.Signup(SignupInput{Name: name, Email: email, Password: "hunter22"})
	require.NoError(t, err)
	return &result.User
}

func (f *fixtures) listBook(t *testing.T, ownerID, title, author, genre string) *exchange.Book {
	t.Helper()
	book, err := f.bookSvc.Create(ownerID, BookInput{
		Title:     title,
		Author:    author,
		Genre:     genre,
		Condition: "good",
		Location:  "Springfield",
	})
	require.NoError(t, err)
	return book
}
