package filestore

import (
	"sync"

	"github.com/shelfshare/shelfshare-go/internal/domain/entities/exchange"
	"github.com/shelfshare/shelfshare-go/internal/domain/repositories"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/persistence/jsonstore"
)

const ratingsFile = "ratings.json"

type RatingStore struct {
	store *jsonstore.Store
	mu    sync.Mutex
}

func NewRatingStore(store *jsonstore.Store) *RatingStore {
	return &RatingStore{store: store}
}

func (r *RatingStore) load() ([]*exchange.Rating, error) {
	var ratings []*exchange.Rating
	if err := r.store.Read(ratingsFile, &ratings); err != nil {
		return nil, err
	}
	return ratings, nil
}

func (r *RatingStore) FindByID(id string) (*exchange.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ratings, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, rating := range ratings {
		if rating.ID == id {
			return rating, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *RatingStore) filter(keep func(*exchange.Rating) bool) ([]*exchange.Rating, error) {
	ratings, err := r.load()
	if err != nil {
		return nil, err
	}
	matched := make([]*exchange.Rating, 0)
	for _, rating := range ratings {
		if keep(rating) {
			matched = append(matched, rating)
		}
	}
	return matched, nil
}

func (r *RatingStore) FindByBook(bookID string) ([]*exchange.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter(func(rating *exchange.Rating) bool { return rating.BookID == bookID })
}

func (r *RatingStore) FindByOwner(ownerID string) ([]*exchange.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter(func(rating *exchange.Rating) bool { return rating.OwnerID == ownerID })
}

func (r *RatingStore) FindByUser(userID string) ([]*exchange.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter(func(rating *exchange.Rating) bool { return rating.UserID == userID })
}

func (r *RatingStore) FindByUserAndBook(userID, bookID string) (*exchange.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ratings, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, rating := range ratings {
		if rating.UserID == userID && rating.BookID == bookID {
			return rating, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *RatingStore) Store(rating *exchange.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ratings, err := r.load()
	if err != nil {
		return err
	}
	ratings = append(ratings, rating)
	return r.store.Write(ratingsFile, ratings)
}
