package filestore

import (
	"sync"

	"github.com/shelfshare/shelfshare-go/internal/domain/entities/exchange"
	"github.com/shelfshare/shelfshare-go/internal/domain/repositories"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/persistence/jsonstore"
)

const wishlistFile = "wishlist.json"

type WishlistStore struct {
	store *jsonstore.Store
	mu    sync.Mutex
}

func NewWishlistStore(store *jsonstore.Store) *WishlistStore {
	return &WishlistStore{store: store}
}

func (r *WishlistStore) load() ([]*exchange.WishlistItem, error) {
	var items []*exchange.WishlistItem
	if err := r.store.Read(wishlistFile, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *WishlistStore) FindByID(id string) (*exchange.WishlistItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.ID == id {
			return item, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *WishlistStore) FindByUser(userID string) ([]*exchange.WishlistItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load()
	if err != nil {
		return nil, err
	}
	matched := make([]*exchange.WishlistItem, 0)
	for _, item := range items {
		if item.UserID == userID {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

func (r *WishlistStore) FindAll() ([]*exchange.WishlistItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

func (r *WishlistStore) Store(item *exchange.WishlistItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load()
	if err != nil {
		return err
	}
	items = append(items, item)
	return r.store.Write(wishlistFile, items)
}

func (r *WishlistStore) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load()
	if err != nil {
		return err
	}
	remaining := items[:0]
	for _, item := range items {
		if item.ID != id {
			remaining = append(remaining, item)
		}
	}
	if len(remaining) == len(items) {
		return repositories.ErrNotFound
	}
	return r.store.Write(wishlistFile, remaining)
}
