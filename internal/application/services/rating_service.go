package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shelfshare/shelfshare-go/internal/domain/entities/exchange"
	"github.com/shelfshare/shelfshare-go/internal/domain/repositories"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/observability/logging"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/security"
)

// RatingService handles book ratings and per-owner aggregates.
type RatingService struct {
	ratings       repositories.RatingRepository
	books         repositories.BookRepository
	users         repositories.UserRepository
	notifications *NotificationService
	logger        *logging.ChanneledLogger
}

// NewRatingService creates a new rating service
func NewRatingService(ratings repositories.RatingRepository, books repositories.BookRepository, users repositories.UserRepository, notifications *NotificationService, logger *logging.ChanneledLogger) *RatingService {
	return &RatingService{
		ratings:       ratings,
		books:         books,
		users:         users,
		notifications: notifications,
		logger:        logger,
	}
}

// Create rates a book once per user. The owner cannot rate their own
// listing, and the owner is notified of every new rating.
func (r *RatingService) Create(userID, bookID string, value int, comment *string) (*exchange.Rating, error) {
	if value < 1 || value > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	book, err := r.books.FindByID(bookID)
	if err != nil {
		return nil, err
	}
	if book.OwnerID == userID {
		return nil, ErrOwnBookRating
	}

	if _, err := r.ratings.FindByUserAndBook(userID, bookID); err == nil {
		return nil, ErrDuplicateRating
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing rating: %w", err)
	}

	user, err := r.users.FindByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve rater: %w", err)
	}

	rating := &exchange.Rating{
		ID:        security.GenerateULID(),
		BookID:    book.ID,
		OwnerID:   book.OwnerID,
		UserID:    user.ID,
		UserName:  user.Name,
		Rating:    value,
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.ratings.Store(rating); err != nil {
		return nil, fmt.Errorf("failed to store rating: %w", err)
	}

	link := "/books/" + book.ID
	if _, err := r.notifications.Notify(
		book.OwnerID,
		"New rating",
		fmt.Sprintf("%s rated %q %d/5", user.Name, book.Title, value),
		exchange.NotificationRatingReceived,
		&link,
	); err != nil {
		r.logger.Catalog().Error("Failed to notify owner of rating", "bookId", book.ID, "error", err)
	}

	return rating, nil
}

// ListByBook returns a book's ratings.
func (r *RatingService) ListByBook(bookID string) ([]*exchange.Rating, error) {
	return r.ratings.FindByBook(bookID)
}

// OwnerSummary aggregates the ratings an owner has received across all
// their listings.
type OwnerSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// SummaryForOwner computes the owner's rating aggregate.
func (r *RatingService) SummaryForOwner(ownerID string) (*OwnerSummary, error) {
	ratings, err := r.ratings.FindByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	summary := &OwnerSummary{Count: len(ratings)}
	if len(ratings) == 0 {
		return summary, nil
	}
	total := 0
	for _, rating := range ratings {
		total += rating.Rating
	}
	summary.Average = float64(total) / float64(len(ratings))
	return summary, nil
}
