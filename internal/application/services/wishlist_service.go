package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/shelfshare/shelfshare-go/internal/domain/entities/exchange"
	"github.com/shelfshare/shelfshare-go/internal/domain/repositories"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/observability/logging"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/security"
)

// WishlistService manages per-user wishlists and matches them against the
// live catalog.
type WishlistService struct {
	wishlist      repositories.WishlistRepository
	books         repositories.BookRepository
	notifications *NotificationService
	logger        *logging.ChanneledLogger
}

// NewWishlistService creates a new wishlist service
func NewWishlistService(wishlist repositories.WishlistRepository, books repositories.BookRepository, notifications *NotificationService, logger *logging.ChanneledLogger) *WishlistService {
	return &WishlistService{
		wishlist:      wishlist,
		books:         books,
		notifications: notifications,
		logger:        logger,
	}
}

// Add puts a title on the user's wishlist. The same title+author pair can
// appear only once per user (case-insensitively).
func (w *WishlistService) Add(userID, title string, author *string) (*exchange.WishlistItem, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	existing, err := w.wishlist.FindByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wishlist: %w", err)
	}
	for _, item := range existing {
		if strings.EqualFold(item.Title, title) && equalAuthor(item.Author, author) {
			return nil, ErrDuplicateWishlist
		}
	}

	item := &exchange.WishlistItem{
		ID:        security.GenerateULID(),
		UserID:    userID,
		Title:     title,
		Author:    author,
		CreatedAt: time.Now().UTC(),
	}
	if err := w.wishlist.Store(item); err != nil {
		return nil, fmt.Errorf("failed to store wishlist item: %w", err)
	}
	return item, nil
}

// ListForUser returns the user's wishlist with live match counts against
// the available catalog.
func (w *WishlistService) ListForUser(userID string) ([]*exchange.WishlistItem, error) {
	items, err := w.wishlist.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	books, err := w.books.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load books: %w", err)
	}
	for _, item := range items {
		item.MatchCount = 0
		for _, book := range books {
			if book.Status == exchange.StatusAvailable && itemMatchesBook(item, book) {
				item.MatchCount++
			}
		}
	}
	return items, nil
}

// Remove deletes one of the user's wishlist entries.
func (w *WishlistService) Remove(userID, itemID string) error {
	item, err := w.wishlist.FindByID(itemID)
	if err != nil {
		return err
	}
	if item.UserID != userID {
		return ErrForbidden
	}
	return w.wishlist.Delete(itemID)
}

// NotifyMatches tells every user whose wishlist matches a freshly listed
// book. The owner's own wishlist never triggers.
func (w *WishlistService) NotifyMatches(book *exchange.Book) {
	items, err := w.wishlist.FindAll()
	if err != nil {
		w.logger.Catalog().Error("Failed to scan wishlists for matches", "bookId", book.ID, "error", err)
		return
	}
	link := "/books/" + book.ID
	for _, item := range items {
		if item.UserID == book.OwnerID || !itemMatchesBook(item, book) {
			continue
		}
		_, err := w.notifications.Notify(
			item.UserID,
			"Wishlist match",
			fmt.Sprintf("%q by %s was just listed near you", book.Title, book.Author),
			exchange.NotificationWishlistMatch,
			&link,
		)
		if err != nil {
			w.logger.Catalog().Error("Failed to notify wishlist match", "userId", item.UserID, "error", err)
		}
	}
}

func itemMatchesBook(item *exchange.WishlistItem, book *exchange.Book) bool {
	if !containsFold(book.Title, item.Title) {
		return false
	}
	if item.Author != nil && *item.Author != "" && !containsFold(book.Author, *item.Author) {
		return false
	}
	return true
}

func equalAuthor(a, b *string) bool {
	switch {
	case a == nil && b == nil:
		return true
	case a == nil || b == nil:
		return false
	default:
		return strings.EqualFold(*a, *b)
	}
}
