package services

import (
	"sort"
	"time"

	"github.com/shelfshare/shelfshare-go/internal/domain/entities/exchange"
	"github.com/shelfshare/shelfshare-go/internal/domain/repositories"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/observability/logging"
)

const activityFeedLimit = 10

// StatsService aggregates a user's exchange activity.
type StatsService struct {
	books   repositories.BookRepository
	ratings repositories.RatingRepository
	logger  *logging.ChanneledLogger
}

// NewStatsService creates a new stats service
func NewStatsService(books repositories.BookRepository, ratings repositories.RatingRepository, logger *logging.ChanneledLogger) *StatsService {
	return &StatsService{books: books, ratings: ratings, logger: logger}
}

// ActivityItem is one entry of the recent activity feed.
type ActivityItem struct {
	Type      string    `json:"type"` // book_listed | book_exchanged | rating_received
	Title     string    `json:"title"`
	Timestamp time.Time `json:"timestamp"`
}

// UserStats is the aggregate view of a user's participation.
type UserStats struct {
	BooksShared    int            `json:"booksShared"`
	BooksExchanged int            `json:"booksExchanged"`
	AverageRating  float64        `json:"averageRating"`
	TotalRatings   int            `json:"totalRatings"`
	RecentActivity []ActivityItem `json:"recentActivity"`
}

// ForUser computes the user's stats from the catalog and rating log.
func (s *StatsService) ForUser(userID string) (*UserStats, error) {
	books, err := s.books.FindAll()
	if err != nil {
		return nil, err
	}
	ratings, err := s.ratings.FindByOwner(userID)
	if err != nil {
		return nil, err
	}

	stats := &UserStats{RecentActivity: []ActivityItem{}}
	for _, book := range books {
		if book.OwnerID != userID {
			continue
		}
		stats.BooksShared++
		stats.RecentActivity = append(stats.RecentActivity, ActivityItem{
			Type:      "book_listed",
			Title:     book.Title,
			Timestamp: book.CreatedAt,
		})
		if book.Status == exchange.StatusExchanged {
			stats.BooksExchanged++
			stats.RecentActivity = append(stats.RecentActivity, ActivityItem{
				Type:      "book_exchanged",
				Title:     book.Title,
				Timestamp: book.UpdatedAt,
			})
		}
	}

	stats.TotalRatings = len(ratings)
	total := 0
	for _, rating := range ratings {
		total += rating.Rating
		stats.RecentActivity = append(stats.RecentActivity, ActivityItem{
			Type:      "rating_received",
			Title:     rating.UserName,
			Timestamp: rating.CreatedAt,
		})
	}
	if stats.TotalRatings > 0 {
		stats.AverageRating = float64(total) / float64(stats.TotalRatings)
	}

	sort.SliceStable(stats.RecentActivity, func(i, j int) bool {
		return stats.RecentActivity[i].Timestamp.After(stats.RecentActivity[j].Timestamp)
	})
	if len(stats.RecentActivity) > activityFeedLimit {
		stats.RecentActivity = stats.RecentActivity[:activityFeedLimit]
	}
	return stats, nil
}
