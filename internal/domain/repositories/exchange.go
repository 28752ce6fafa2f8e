// Package repositories defines the repository interfaces for exchange entities.
// These repositories abstract the data persistence details, ensuring the core
// application is clean and decoupled from the flat-file storage layer.
package repositories

import (
	"errors"
	"time"

	"github.com/shelfshare/shelfshare-go/internal/domain/entities/exchange"
)

// ErrNotFound is returned when a record does not exist in its collection.
var ErrNotFound = errors.New("record not found")

type UserRepository interface {
	FindByID(id string) (*exchange.User, error)
	FindByEmail(email string) (*exchange.User, error)
	Store(user *exchange.User) error
	Update(user *exchange.User) error
}

type BookRepository interface {
	FindByID(id string) (*exchange.Book, error)
	FindAll() ([]*exchange.Book, error)
	Store(book *exchange.Book) error
	Update(book *exchange.Book) error
	Delete(id string) error
}

type RatingRepository interface {
	FindByID(id string) (*exchange.Rating, error)
	FindByBook(bookID string) ([]*exchange.Rating, error)
	FindByOwner(ownerID string) ([]*exchange.Rating, error)
	FindByUser(userID string) ([]*exchange.Rating, error)
	FindByUserAndBook(userID, bookID string) (*exchange.Rating, error)
	Store(rating *exchange.Rating) error
}

type WishlistRepository interface {
	FindByID(id string) (*exchange.WishlistItem, error)
	FindByUser(userID string) ([]*exchange.WishlistItem, error)
	FindAll() ([]*exchange.WishlistItem, error)
	Store(item *exchange.WishlistItem) error
	Delete(id string) error
}

type MessageRepository interface {
	FindMessageByID(id string) (*exchange.Message, error)
	FindByThread(threadID string) ([]*exchange.Message, error)
	FindAll() ([]*exchange.Message, error)
	Store(message *exchange.Message) error
	Update(message *exchange.Message) error
}

type ThreadRepository interface {
	FindByID(id string) (*exchange.MessageThread, error)
	FindAll() ([]*exchange.MessageThread, error)
	FindByUser(userID string) ([]*exchange.MessageThread, error)
	Store(thread *exchange.MessageThread) error
	Update(thread *exchange.MessageThread) error
}

type NotificationRepository interface {
	FindByID(id string) (*exchange.Notification, error)
	FindByUser(userID string) ([]*exchange.Notification, error)
	Store(notification *exchange.Notification) error
	Update(notification *exchange.Notification) error
	Delete(id string) error
}

type ViewRepository interface {
	FindAll() ([]*exchange.BookView, error)
	FindByBook(bookID string) ([]*exchange.BookView, error)
	Store(view *exchange.BookView) error
	// DeleteOlderThan removes records with a timestamp strictly before the
	// cutoff and returns how many were removed.
	DeleteOlderThan(cutoff time.Time) (int, error)
}
